// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package odoo

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by LoadConfig. They override the file.
const (
	EnvURL      = "ODOO_URL"
	EnvDatabase = "ODOO_DB"
	EnvUserID   = "ODOO_UID"
	EnvUsername = "ODOO_USER"
	EnvPassword = "ODOO_PASSWORD"
	EnvTimeout  = "ODOO_TIMEOUT"
)

// Config is the on-disk form of a connection.
//
//	url: https://erp.example.com
//	database: prod
//	user_id: 2
//	username: admin
//	password: <api key>
//	timeout: 30s
type Config struct {
	URL      string        `yaml:"url"`
	Database string        `yaml:"database"`
	UserID   int           `yaml:"user_id"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LoadConfig reads path (skipped when empty) and applies the ODOO_*
// environment overrides.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("odoo: read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("odoo: parse config %s: %w", path, err)
		}
	}

	cfg.URL = getEnv(EnvURL, cfg.URL)
	cfg.Database = getEnv(EnvDatabase, cfg.Database)
	cfg.Username = getEnv(EnvUsername, cfg.Username)
	cfg.Password = getEnv(EnvPassword, cfg.Password)

	var err error
	if cfg.UserID, err = getEnvInt(EnvUserID, cfg.UserID); err != nil {
		return Config{}, err
	}
	if cfg.Timeout, err = getEnvDuration(EnvTimeout, cfg.Timeout); err != nil {
		return Config{}, err
	}
	if cfg.Timeout < 0 {
		return Config{}, errors.New("odoo: timeout must not be negative")
	}
	return cfg, nil
}

// Credential returns the session facts held by cfg.
func (cfg Config) Credential() Credential {
	return Credential{
		UserID:    cfg.UserID,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Database:  cfg.Database,
		ServerURI: cfg.URL,
	}
}

// NewFromConfig returns a Client for cfg. A positive Timeout bounds every
// call; options given later win over it.
func NewFromConfig(cfg Config, opts ...Option) *Client {
	if cfg.Timeout > 0 {
		opts = append([]Option{WithHTTPClient(&http.Client{Timeout: cfg.Timeout})}, opts...)
	}
	return New(cfg.Credential(), opts...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("odoo: %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("odoo: %s: %w", key, err)
	}
	return d, nil
}
