// Command product-lambda serves the reference product API behind API
// Gateway. Configuration comes from SHOPADMIN_* variables, an optional
// .env file and the file named by SHOPADMIN_CONFIG.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yourusername/shopadmin/configs"
	"github.com/yourusername/shopadmin/internal/catalogsvc"
	"github.com/yourusername/shopadmin/internal/logging"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	vc, err := configs.LoadViperConfig(os.Getenv("SHOPADMIN_CONFIG"), false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	cfg := vc.Get()

	logger, _, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	backend, err := catalogsvc.Open(context.Background(), cfg.Backend, logger, nil)
	if err != nil {
		logger.Fatal("failed to open backend", zap.Error(err))
	}
	defer backend.Close()

	lambda.Start(catalogsvc.NewLambdaHandler(backend.Service, logger).Handle)
}
