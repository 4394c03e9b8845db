// Package results provides aggregation and persistence of SRS risk
// analysis results for the partner dashboard.
package results

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/IA-PieroCV/Project-Thalassa/internal/domain"
)

// Store persists completed file analyses in SQLite.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a new analysis history store. It creates the
// database file and schema if they don't exist.
func NewStore(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	// Create schema
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// createSchema creates the database tables and indexes.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT NOT NULL,
		cage_id TEXT NOT NULL,
		partner_id TEXT DEFAULT '',
		srs_risk_score REAL NOT NULL,
		risk_level TEXT NOT NULL,
		analyzed_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_cage_id ON analyses(cage_id);
	CREATE INDEX IF NOT EXISTS idx_analyses_analyzed_at ON analyses(analyzed_at);
	`

	_, err := db.Exec(schema)
	return err
}

// SaveAnalysis records a completed analysis.
func (s *Store) SaveAnalysis(ctx context.Context, rec *domain.AnalysisRecord) error {
	if rec.AnalyzedAt.IsZero() {
		rec.AnalyzedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (filename, cage_id, partner_id, srs_risk_score, risk_level, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Filename, rec.CageID, rec.PartnerID, rec.SRSRiskScore, string(rec.RiskLevel), rec.AnalyzedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

// LatestByCage returns the most recent analysis result per cage in the
// dashboard results format.
func (s *Store) LatestByCage(ctx context.Context) ([]domain.CageResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.cage_id, a.srs_risk_score, a.analyzed_at
		FROM analyses a
		JOIN (
			SELECT cage_id, MAX(analyzed_at) AS latest
			FROM analyses
			GROUP BY cage_id
		) latest ON a.cage_id = latest.cage_id AND a.analyzed_at = latest.latest
		ORDER BY a.cage_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest results: %w", err)
	}
	defer rows.Close()

	results := make([]domain.CageResult, 0)
	for rows.Next() {
		var (
			cageID     string
			score      float64
			analyzedAt time.Time
		)
		if err := rows.Scan(&cageID, &score, &analyzedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		results = append(results, domain.CageResult{
			CageID:       cageID,
			SRSRiskScore: score,
			LastUpdated:  analyzedAt.Format(time.RFC3339),
		})
	}
	return results, rows.Err()
}

// List returns stored analyses ordered newest first with pagination.
func (s *Store) List(ctx context.Context, limit, offset int) ([]*domain.AnalysisRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, cage_id, partner_id, srs_risk_score, risk_level, analyzed_at
		FROM analyses
		ORDER BY analyzed_at DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.AnalysisRecord, 0)
	for rows.Next() {
		rec := &domain.AnalysisRecord{}
		var level string
		if err := rows.Scan(&rec.ID, &rec.Filename, &rec.CageID, &rec.PartnerID,
			&rec.SRSRiskScore, &level, &rec.AnalyzedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		rec.RiskLevel = domain.RiskLevel(level)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the total number of stored analyses.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM analyses").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}
	return count, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
