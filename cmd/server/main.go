// シフト作成ツール APIサーバ
// 主処理の入口

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/darumasanaz/v4-shift-creation-tool/internal/archive"
	"github.com/darumasanaz/v4-shift-creation-tool/internal/config"
	"github.com/darumasanaz/v4-shift-creation-tool/internal/handler"
	"github.com/darumasanaz/v4-shift-creation-tool/internal/metrics"
	"github.com/darumasanaz/v4-shift-creation-tool/pkg/logger"
	"github.com/darumasanaz/v4-shift-creation-tool/pkg/solver"
)

// ビルド情報（ldflags で注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定の読込に失敗: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: "console",
	})

	fmt.Printf("シフト作成ツール v%s\n", Version)
	fmt.Printf("Build: %s (%s)\n", BuildTime, GitCommit)
	fmt.Println()

	// アーカイブは任意機能。未設定なら無効のまま動く
	store, err := archive.Open(&cfg.Archive)
	if err != nil {
		logger.WithError(err).Msg("アーカイブDBへの接続に失敗")
		os.Exit(1)
	}
	defer store.Close()

	solveOpts := solver.Options{
		TimeLimit: cfg.Solver.TimeLimit,
		Workers:   cfg.Solver.Workers,
	}

	scheduleHandler := handler.NewScheduleHandler(solveOpts, store)
	initialDataHandler := handler.NewInitialDataHandler(cfg.App.InitialDataPath)
	schedulesHandler := handler.NewSchedulesHandler(store)

	mux := http.NewServeMux()

	// システム系
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"shift-creation"}`))
	})

	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","build_time":"%s","git_commit":"%s"}`,
			Version, BuildTime, GitCommit)
	})

	// API
	mux.HandleFunc("/api/generate-shift", scheduleHandler.Generate)
	mux.HandleFunc("/api/initial-data", initialDataHandler.Get)
	mux.HandleFunc("/api/schedules/", schedulesHandler.Get)

	// 監視
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	// ミドルウェアは requestID → rateLimit → cors → logging の順で適用する
	root := requestIDMiddleware(rateLimitMiddleware(corsMiddleware(loggingMiddleware(mux))))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      root,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().
			Int("port", cfg.App.Port).
			Str("version", Version).
			Dur("solver_time_limit", cfg.Solver.TimeLimit).
			Int("solver_workers", cfg.Solver.Workers).
			Msg("サーバを起動")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Msg("サーバの起動に失敗")
			os.Exit(1)
		}
	}()

	// 終了シグナルを待って丁寧に閉じる
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("サーバを停止中...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Msg("サーバの停止に失敗")
		os.Exit(1)
	}

	logger.Info().Msg("サーバを停止した")
}

// ctxKey context 用のキー型
type ctxKey string

const requestIDKey ctxKey = "request_id"

// requestIDMiddleware リクエストID付与ミドルウェア
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware アクセスログミドルウェア
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID, _ := r.Context().Value(requestIDKey).(string)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)

		logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.statusCode).
			Dur("duration", duration).
			Msg("リクエスト処理")

		metrics.RecordRequest(r.Method, r.URL.Path, rw.statusCode, duration)
	})
}

// responseWriter ステータスコードを捕捉するためのラッパ
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RateLimiter 簡易トークンバケット
type RateLimiter struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // 毎秒補充するトークン数
	lastRefill time.Time
	mu         sync.Mutex
}

// NewRateLimiter 限流器を生成する
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	return &RateLimiter{
		tokens:     requestsPerSecond,
		maxTokens:  requestsPerSecond * 2, // バースト許容
		refillRate: requestsPerSecond,
		lastRefill: time.Now(),
	}
}

// Allow リクエストを許可するかどうか
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.tokens += elapsed * rl.refillRate
	if rl.tokens > rl.maxTokens {
		rl.tokens = rl.maxTokens
	}
	rl.lastRefill = now

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

var globalRateLimiter = NewRateLimiter(100)

// rateLimitMiddleware 限流ミドルウェア
func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !globalRateLimiter.Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "error",
				"message": "リクエストが多すぎます。しばらく待って再試行してください",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware CORSミドルウェア
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
