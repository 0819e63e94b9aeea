// Package logger は統一的なロギング基盤を提供する
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Level ログレベル
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

// Config ログ設定
type Config struct {
	Level      string `json:"level"`
	Format     string `json:"format"` // json/console
	Output     string `json:"output"` // stdout/stderr
	TimeFormat string `json:"time_format,omitempty"`
}

// DefaultConfig 既定の設定を返す
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	}
}

// Init ロガーを初期化する
func Init(cfg Config) {
	once.Do(func() {
		zerolog.SetGlobalLevel(parseLevel(cfg.Level))

		var output io.Writer
		switch cfg.Output {
		case "stderr":
			output = os.Stderr
		default:
			output = os.Stdout
		}

		if cfg.Format == "console" {
			output = zerolog.ConsoleWriter{
				Out:        output,
				TimeFormat: cfg.TimeFormat,
			}
		}

		logger = zerolog.New(output).With().Timestamp().Logger()
	})
}

// parseLevel ログレベル文字列を解釈する
func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get ロガーを取得する
func Get() *zerolog.Logger {
	// 未初期化なら既定設定で初期化する。初期化済みなら once により何もしない
	Init(DefaultConfig())
	return &logger
}

// Debug デバッグログ
func Debug() *zerolog.Event {
	return Get().Debug()
}

// Info 情報ログ
func Info() *zerolog.Event {
	return Get().Info()
}

// Warn 警告ログ
func Warn() *zerolog.Event {
	return Get().Warn()
}

// Error エラーログ
func Error() *zerolog.Event {
	return Get().Error()
}

// Fatal 致命的エラーログ
func Fatal() *zerolog.Event {
	return Get().Fatal()
}

// WithError エラー情報を付加する
func WithError(err error) *zerolog.Event {
	return Get().Error().Err(err)
}

// SolverLogger ソルバ専用ロガー
type SolverLogger struct {
	base *zerolog.Logger
}

// NewSolverLogger ソルバ用のロガーを生成する
func NewSolverLogger() *SolverLogger {
	l := Get().With().Str("component", "solver").Logger()
	return &SolverLogger{base: &l}
}

// StartSolve 求解開始を記録する
func (l *SolverLogger) StartSolve(days, people, shifts int) {
	l.base.Info().
		Int("days", days).
		Int("people", people).
		Int("shifts", shifts).
		Msg("シフト計算を開始")
}

// SolveComplete 求解完了を記録する
func (l *SolverLogger) SolveComplete(status string, duration time.Duration, objective float64) {
	l.base.Info().
		Str("status", status).
		Dur("duration", duration).
		Float64("objective", objective).
		Msg("シフト計算が完了")
}

// SolveFailed 求解失敗を記録する
func (l *SolverLogger) SolveFailed(status string, duration time.Duration) {
	l.base.Warn().
		Str("status", status).
		Dur("duration", duration).
		Msg("解決可能なシフトが見つからなかった")
}
