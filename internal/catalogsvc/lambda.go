package catalogsvc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/yourusername/shopadmin/pkg/catalog"
)

const apiPrefix = "/api/product"

// LambdaHandler serves the product API behind an API Gateway proxy
// integration, using the same service as the gin handler.
type LambdaHandler struct {
	service *ProductService
	logger  *zap.Logger
}

// NewLambdaHandler creates a Lambda adapter for service.
func NewLambdaHandler(service *ProductService, logger *zap.Logger) *LambdaHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LambdaHandler{service: service, logger: logger}
}

// Handle routes one proxy request. Failures are reported through the status
// code and a {"error": ...} body; the returned error is always nil so API
// Gateway never answers with its own 502.
func (h *LambdaHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	h.logger.Debug("received request", zap.String("method", req.HTTPMethod), zap.String("path", req.Path))

	rest, ok := strings.CutPrefix(strings.TrimSuffix(req.Path, "/"), apiPrefix)
	if !ok || (rest != "" && !strings.HasPrefix(rest, "/")) {
		return h.errorResponse(http.StatusNotFound, "route not found"), nil
	}
	rest = strings.TrimPrefix(rest, "/")

	switch {
	case rest == "" && req.HTTPMethod == http.MethodGet:
		products, err := h.service.ListAll(ctx)
		if err != nil {
			return h.failure("list", err), nil
		}
		return h.jsonResponse(http.StatusOK, products), nil

	case rest == "page" && req.HTTPMethod == http.MethodGet:
		q := queryValues(req)
		if raw := q.Get(catalog.ParamPage); raw != "" {
			if n, err := strconv.Atoi(raw); err != nil || n < 1 {
				return h.errorResponse(http.StatusBadRequest, "invalid page"), nil
			}
		}
		page, filter := catalog.ParseQuery(q)
		result, err := h.service.ListPage(ctx, page, filter)
		if err != nil {
			return h.failure("page", err), nil
		}
		return h.jsonResponse(http.StatusOK, result), nil

	case rest == "" && req.HTTPMethod == http.MethodPost:
		p, err := decodeBody(req)
		if err != nil {
			return h.errorResponse(http.StatusBadRequest, err.Error()), nil
		}
		created, err := h.service.Create(ctx, p)
		if err != nil {
			return h.failure("create", err), nil
		}
		return h.jsonResponse(http.StatusCreated, created), nil

	case rest != "" && !strings.Contains(rest, "/"):
		return h.handleItem(ctx, req, rest), nil
	}

	return h.errorResponse(http.StatusNotFound, "route not found"), nil
}

func (h *LambdaHandler) handleItem(ctx context.Context, req events.APIGatewayProxyRequest, id string) events.APIGatewayProxyResponse {
	if unescaped, err := url.PathUnescape(id); err == nil {
		id = unescaped
	}

	switch req.HTTPMethod {
	case http.MethodGet:
		p, err := h.service.Get(ctx, id)
		if err != nil {
			return h.failure("get", err)
		}
		return h.jsonResponse(http.StatusOK, p)

	case http.MethodPut:
		p, err := decodeBody(req)
		if err != nil {
			return h.errorResponse(http.StatusBadRequest, err.Error())
		}
		updated, err := h.service.Update(ctx, id, p)
		if err != nil {
			return h.failure("update", err)
		}
		return h.jsonResponse(http.StatusOK, updated)

	case http.MethodDelete:
		if err := h.service.Delete(ctx, id); err != nil {
			return h.failure("delete", err)
		}
		return h.jsonResponse(http.StatusOK, map[string]string{"message": "Product deleted successfully"})
	}

	return h.errorResponse(http.StatusMethodNotAllowed, "method not allowed")
}

func (h *LambdaHandler) failure(op string, err error) events.APIGatewayProxyResponse {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("product request failed", zap.String("op", op), zap.Error(err))
	}
	return h.errorResponse(status, err.Error())
}

func (h *LambdaHandler) errorResponse(status int, msg string) events.APIGatewayProxyResponse {
	return h.jsonResponse(status, map[string]string{"error": msg})
}

func (h *LambdaHandler) jsonResponse(status int, body interface{}) events.APIGatewayProxyResponse {
	data, err := json.Marshal(body)
	if err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
		status = http.StatusInternalServerError
		data = []byte(`{"error":"failed to format response"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(data),
	}
}

// queryValues prefers the multi-value parameters so repeated category and
// size filters survive.
func queryValues(req events.APIGatewayProxyRequest) url.Values {
	q := url.Values{}
	for k, vs := range req.MultiValueQueryStringParameters {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	for k, v := range req.QueryStringParameters {
		if _, ok := q[k]; !ok {
			q.Set(k, v)
		}
	}
	return q
}

func decodeBody(req events.APIGatewayProxyRequest) (catalog.Product, error) {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return catalog.Product{}, err
		}
		body = decoded
	}
	var p catalog.Product
	if err := json.Unmarshal(body, &p); err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}
