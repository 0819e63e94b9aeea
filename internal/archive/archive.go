// Package archive は生成済みシフト表の保存と参照を提供する。
// ソルバ本体は状態を持たないため、保存は任意機能であり
// DB が設定されていない環境では何もしない
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	_ "github.com/lib/pq" // PostgreSQL ドライバ

	"github.com/darumasanaz/v4-shift-creation-tool/internal/config"
	"github.com/darumasanaz/v4-shift-creation-tool/pkg/apperr"
	"github.com/darumasanaz/v4-shift-creation-tool/pkg/logger"
)

// Record アーカイブされた求解結果
type Record struct {
	ID            uuid.UUID       `json:"id"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	Days          int             `json:"days"`
	PeopleCount   int             `json:"people_count"`
	ShiftCount    int             `json:"shift_count"`
	ShortageTotal int             `json:"shortage_total"`
	Proven        bool            `json:"proven"`
	Response      json.RawMessage `json:"response"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Store 求解結果の保存先
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS shift_schedules (
	id             UUID PRIMARY KEY,
	year           INT NOT NULL,
	month          INT NOT NULL,
	days           INT NOT NULL,
	people_count   INT NOT NULL,
	shift_count    INT NOT NULL,
	shortage_total INT NOT NULL,
	proven         BOOLEAN NOT NULL,
	response       JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Open はアーカイブ用のDB接続を開く。cfg が無効なら nil を返す
func Open(cfg *config.ArchiveConfig) (*Store, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("DB接続のオープンに失敗: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("DB接続の確認に失敗: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("スキーマの初期化に失敗: %w", err)
	}

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Msg("アーカイブDBに接続")

	return &Store{db: db}, nil
}

// Close 接続を閉じる
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	logger.Info().Msg("アーカイブDBを切断")
	return s.db.Close()
}

// Save 求解結果を保存し、採番したIDを返す
func (s *Store) Save(ctx context.Context, rec *Record) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	const q = `
		INSERT INTO shift_schedules
			(id, year, month, days, people_count, shift_count, shortage_total, proven, response)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(ctx, q,
		rec.ID, rec.Year, rec.Month, rec.Days,
		rec.PeopleCount, rec.ShiftCount, rec.ShortageTotal,
		rec.Proven, []byte(rec.Response),
	)
	if err != nil {
		return uuid.Nil, apperr.Wrap(err, apperr.CodeDatabaseError, "シフト表の保存に失敗しました")
	}
	return rec.ID, nil
}

// Get IDで保存済みの求解結果を取得する
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	const q = `
		SELECT id, year, month, days, people_count, shift_count,
		       shortage_total, proven, response, created_at
		FROM shift_schedules WHERE id = $1`

	rec := &Record{}
	var response []byte
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&rec.ID, &rec.Year, &rec.Month, &rec.Days,
		&rec.PeopleCount, &rec.ShiftCount, &rec.ShortageTotal,
		&rec.Proven, &response, &rec.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeDatabaseError, "シフト表の取得に失敗しました")
	}
	rec.Response = response
	return rec, nil
}
