package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/zmcomputers/storefront/internal/domain/entity"
	"github.com/zmcomputers/storefront/internal/domain/repository"
)

// SQLiteAdviceRepository advice log in a local SQLite file
type SQLiteAdviceRepository struct {
	db      *sql.DB
	maxSize int
}

var _ repository.AdviceLogRepository = (*SQLiteAdviceRepository)(nil)

// NewSQLiteAdviceRepository opens (and creates) the database at dbPath.
// Each user keeps at most maxPerUser records; 0 keeps everything.
func NewSQLiteAdviceRepository(dbPath string, maxPerUser int) (*SQLiteAdviceRepository, error) {
	if dbPath == "" {
		return nil, errors.New("advice db path must not be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	if err := createAdviceSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteAdviceRepository{db: db, maxSize: maxPerUser}, nil
}

func createAdviceSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS advice (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	username TEXT,
	prompt TEXT,
	response TEXT,
	outcome TEXT NOT NULL,
	ts TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_advice_user_ts ON advice (user_id, ts);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *SQLiteAdviceRepository) Save(ctx context.Context, record entity.AdviceRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO advice (id, user_id, username, prompt, response, outcome, ts) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.UserID, record.Username, record.Prompt, record.Response, string(record.Outcome), record.Timestamp)
	if err != nil {
		tx.Rollback()
		return err
	}

	if s.maxSize > 0 {
		// trim the oldest records beyond the per-user cap
		_, err = tx.ExecContext(ctx, `
DELETE FROM advice
WHERE id IN (
  SELECT id FROM advice
  WHERE user_id = ?
  ORDER BY ts DESC
  LIMIT -1 OFFSET ?
)`, record.UserID, s.maxSize)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteAdviceRepository) GetHistory(ctx context.Context, userID int64, limit int) ([]entity.AdviceRecord, error) {
	query := `SELECT id, user_id, username, prompt, response, outcome, ts FROM advice WHERE user_id = ? ORDER BY ts DESC`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	records, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	// oldest first
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (s *SQLiteAdviceRepository) GetAll(ctx context.Context, limit int) ([]entity.AdviceRecord, error) {
	query := `SELECT id, user_id, username, prompt, response, outcome, ts FROM advice ORDER BY ts DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

func (s *SQLiteAdviceRepository) query(ctx context.Context, query string, args ...any) ([]entity.AdviceRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []entity.AdviceRecord
	for rows.Next() {
		var (
			rec     entity.AdviceRecord
			outcome string
			ts      time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Username, &rec.Prompt, &rec.Response, &outcome, &ts); err != nil {
			return nil, err
		}
		rec.Outcome = entity.AdviceOutcome(outcome)
		rec.Timestamp = ts
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteAdviceRepository) ClearHistory(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM advice WHERE user_id = ?`, userID)
	return err
}

func (s *SQLiteAdviceRepository) ClearAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM advice`)
	return err
}

func (s *SQLiteAdviceRepository) Close() error {
	return s.db.Close()
}
