// Package configs provides configuration structures and utilities for shopadmin.
// This file contains tests for the Viper-based configuration functionality.
//
// Package configs 提供shopadmin的配置结构和工具。
// 本文件包含基于Viper的配置功能的测试。
package configs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestLoadFromReader verifies that configuration values are correctly parsed
// from YAML content and that unset keys keep their defaults.
//
// TestLoadFromReader 验证配置值是否正确地从YAML内容解析，
// 未设置的键保持默认值。
func TestLoadFromReader(t *testing.T) {
	yamlConfig := `
api:
  base_url: "http://shop.example:3000"
  timeout: 5s
dashboard:
  strict_sizes: true
backend:
  cache_ttl: 30s
`

	config, err := LoadFromReader(strings.NewReader(yamlConfig), "yaml")
	if err != nil {
		t.Fatalf("Failed to load config from reader: %v", err)
	}

	if config.API.BaseURL != "http://shop.example:3000" {
		t.Errorf("Expected API.BaseURL to be set, got '%s'", config.API.BaseURL)
	}
	if config.API.Timeout != 5*time.Second {
		t.Errorf("Expected API.Timeout to be 5s, got %s", config.API.Timeout)
	}
	if !config.Dashboard.StrictSizes {
		t.Error("Expected Dashboard.StrictSizes to be true")
	}
	if config.Backend.CacheTTL != 30*time.Second {
		t.Errorf("Expected Backend.CacheTTL to be 30s, got %s", config.Backend.CacheTTL)
	}
	if config.Server.Addr != ":8080" {
		t.Errorf("Expected Server.Addr default to survive, got '%s'", config.Server.Addr)
	}

	if _, err := LoadFromReader(strings.NewReader("{}"), "toml"); err == nil {
		t.Error("Expected an error for an unsupported format")
	}
}

// TestViperConfigFileAndEnv verifies that a configuration file is read and
// that SHOPADMIN_* environment variables override it.
//
// TestViperConfigFileAndEnv 验证配置文件被读取，
// 并且SHOPADMIN_*环境变量会覆盖它。
func TestViperConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shopadmin.yaml")
	content := `
api:
  base_url: "http://from-file:3000"
backend:
  page_size: 20
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SHOPADMIN_BACKEND_PAGE_SIZE", "7")
	t.Setenv("SHOPADMIN_DASHBOARD_STRICT_SIZES", "true")

	vc, err := LoadViperConfig(path, false)
	if err != nil {
		t.Fatalf("LoadViperConfig() error: %v", err)
	}

	config := vc.Get()
	if config.API.BaseURL != "http://from-file:3000" {
		t.Errorf("Expected API.BaseURL from file, got '%s'", config.API.BaseURL)
	}
	if config.Backend.PageSize != 7 {
		t.Errorf("Expected Backend.PageSize from env to be 7, got %d", config.Backend.PageSize)
	}
	if !config.Dashboard.StrictSizes {
		t.Error("Expected Dashboard.StrictSizes from env to be true")
	}
	if config.Backend.CacheTTL != 2*time.Minute {
		t.Errorf("Expected Backend.CacheTTL default, got %s", config.Backend.CacheTTL)
	}
}

// TestViperConfigWithoutFile verifies that defaults apply without a file.
//
// TestViperConfigWithoutFile 验证没有文件时使用默认值。
func TestViperConfigWithoutFile(t *testing.T) {
	vc, err := NewViperConfig("")
	if err != nil {
		t.Fatalf("NewViperConfig() error: %v", err)
	}
	if vc.Get().Server.Addr != ":8080" {
		t.Errorf("Expected default Server.Addr, got '%s'", vc.Get().Server.Addr)
	}

	// Hot reload without a file is a no-op
	// 没有文件时热重载不执行任何操作
	vc.EnableHotReload()
}

// TestViperConfigRejectsInvalid verifies that invalid files are rejected.
//
// TestViperConfigRejectsInvalid 验证无效文件被拒绝。
func TestViperConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewViperConfig(path); err == nil {
		t.Error("Expected an error for an invalid log level")
	}
}

// TestViperConfigReloadNotifiesSubscribers verifies that a reload replaces the
// configuration and notifies subscribers.
//
// TestViperConfigReloadNotifiesSubscribers 验证重载会替换配置并通知订阅者。
func TestViperConfigReloadNotifiesSubscribers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shopadmin.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	vc, err := NewViperConfig(path)
	if err != nil {
		t.Fatalf("NewViperConfig() error: %v", err)
	}

	var got *Config
	vc.Subscribe(func(c *Config) { got = c })

	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := vc.viper.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	vc.reload(path)

	if got == nil {
		t.Fatal("Expected subscriber to be notified")
	}
	if got.Log.Level != "debug" || vc.Get().Log.Level != "debug" {
		t.Errorf("Expected reloaded log level 'debug', got '%s'", vc.Get().Log.Level)
	}
}
