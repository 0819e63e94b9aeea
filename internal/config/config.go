// Package config は環境変数からの設定読込を提供する
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config アプリケーション設定
type Config struct {
	App     AppConfig
	Solver  SolverConfig
	Archive ArchiveConfig
	Metrics MetricsConfig
}

// AppConfig アプリケーション基本設定
type AppConfig struct {
	Name     string
	Env      string
	Port     int
	LogLevel string
	// InitialDataPath は /api/initial-data が返す入力テンプレートのパス
	InitialDataPath string
}

// SolverConfig ソルバ設定
type SolverConfig struct {
	TimeLimit time.Duration
	Workers   int
}

// ArchiveConfig 求解結果アーカイブ用DB設定。Host が空なら無効
type ArchiveConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Enabled アーカイブが有効かどうか
func (c *ArchiveConfig) Enabled() bool {
	return c.Host != ""
}

// DSN 接続文字列を返す
func (c *ArchiveConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// MetricsConfig 監視設定
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load 環境変数から設定を読み込む
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:            getEnv("APP_NAME", "shift-creation"),
			Env:             getEnv("APP_ENV", "development"),
			Port:            getEnvInt("APP_PORT", 8000),
			LogLevel:        getEnv("APP_LOG_LEVEL", "info"),
			InitialDataPath: getEnv("APP_INITIAL_DATA", "api/input_data.json"),
		},
		Solver: SolverConfig{
			TimeLimit: getEnvDuration("SOLVER_TIME_LIMIT", 30*time.Second),
			Workers:   getEnvInt("SOLVER_WORKERS", 8),
		},
		Archive: ArchiveConfig{
			Host:            getEnv("DB_HOST", ""),
			Port:            getEnvInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "shift_creation"),
			User:            getEnv("DB_USER", "shift"),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
	}

	return cfg, nil
}

// IsDevelopment 開発環境かどうか
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction 本番環境かどうか
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// 補助関数
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
