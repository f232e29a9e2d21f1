package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"lpHedgeSim/internal/domain"
	"lpHedgeSim/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements ports.PositionRepository and ports.FieldDraftRepository
// using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/lp_simulator.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally; the Go driver benefits from limiting connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "SQLite database ready", map[string]interface{}{"path": dbPath})

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS positions (
		id TEXT PRIMARY KEY,
		protocol TEXT NOT NULL,
		token_a TEXT NOT NULL,
		token_b TEXT NOT NULL,
		initial_price_a REAL NOT NULL,
		initial_price_b REAL NOT NULL,
		amount_a REAL NOT NULL,
		amount_b REAL NOT NULL,
		latest_price_a REAL NOT NULL,
		latest_price_b REAL NOT NULL,
		apr REAL NOT NULL,
		duration_days INTEGER NOT NULL,
		lower_bound REAL NOT NULL,
		upper_bound REAL NOT NULL,
		hedge_enabled INTEGER NOT NULL DEFAULT 0,
		short_token TEXT NOT NULL,
		short_amount REAL NOT NULL DEFAULT 0,
		funding_rate REAL NOT NULL DEFAULT 0,
		start_date TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS field_drafts (
		position_id TEXT NOT NULL,
		field TEXT NOT NULL,
		text TEXT NOT NULL,
		PRIMARY KEY (position_id, field)
	);

	CREATE INDEX IF NOT EXISTS idx_positions_start_date ON positions (start_date);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// --- PositionRepository Implementation ---

// Create saves a new position record.
func (r *Repository) Create(ctx context.Context, pos *domain.Position) error {
	const query = `
	INSERT INTO positions (id, protocol, token_a, token_b, initial_price_a, initial_price_b,
	                       amount_a, amount_b, latest_price_a, latest_price_b, apr, duration_days,
	                       lower_bound, upper_bound, hedge_enabled, short_token, short_amount,
	                       funding_rate, start_date)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		pos.ID, pos.Protocol, pos.TokenA, pos.TokenB, pos.InitialPriceA, pos.InitialPriceB,
		pos.AmountA, pos.AmountB, pos.LatestPriceA, pos.LatestPriceB, pos.APR, pos.DurationDays,
		pos.LowerBound, pos.UpperBound, pos.HedgeEnabled, string(pos.ShortToken), pos.ShortAmount,
		pos.FundingRate, pos.StartDate)
	if err != nil {
		return fmt.Errorf("failed to insert position %s: %w", pos.ID, err)
	}
	r.logger.Debug(ctx, "Position created", map[string]interface{}{"positionID": pos.ID, "protocol": pos.Protocol})
	return nil
}

// Update replaces an existing position record in full.
func (r *Repository) Update(ctx context.Context, pos *domain.Position) error {
	const query = `
	UPDATE positions
	SET protocol = ?, token_a = ?, token_b = ?, initial_price_a = ?, initial_price_b = ?,
	    amount_a = ?, amount_b = ?, latest_price_a = ?, latest_price_b = ?, apr = ?,
	    duration_days = ?, lower_bound = ?, upper_bound = ?, hedge_enabled = ?,
	    short_token = ?, short_amount = ?, funding_rate = ?, start_date = ?
	WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		pos.Protocol, pos.TokenA, pos.TokenB, pos.InitialPriceA, pos.InitialPriceB,
		pos.AmountA, pos.AmountB, pos.LatestPriceA, pos.LatestPriceB, pos.APR,
		pos.DurationDays, pos.LowerBound, pos.UpperBound, pos.HedgeEnabled,
		string(pos.ShortToken), pos.ShortAmount, pos.FundingRate, pos.StartDate,
		pos.ID)
	if err != nil {
		return fmt.Errorf("failed to update position %s: %w", pos.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for update of position %s: %w", pos.ID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("position %s not found for update: %w", pos.ID, ports.ErrNotFound)
	}
	r.logger.Debug(ctx, "Position updated", map[string]interface{}{"positionID": pos.ID})
	return nil
}

// Remove deletes a position and its field drafts in one transaction.
func (r *Repository) Remove(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for removal of position %s: %w", id, err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM positions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete position %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for removal of position %s: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("position %s not found for removal: %w", id, ports.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM field_drafts WHERE position_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete field drafts of position %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit removal of position %s: %w", id, err)
	}
	r.logger.Debug(ctx, "Position removed", map[string]interface{}{"positionID": id})
	return nil
}

// FindByID retrieves a position by its unique ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Position, error) {
	row := r.db.QueryRowContext(ctx, selectPositions+` WHERE id = ?`, id)
	pos, err := scanPosition(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug(ctx, "Position not found by ID", map[string]interface{}{"positionID": id})
			return nil, nil // Not an error, just not found
		}
		return nil, fmt.Errorf("failed to query position %s: %w", id, err)
	}
	return pos, nil
}

// FindAll retrieves all positions, ordered by start date descending.
func (r *Repository) FindAll(ctx context.Context) ([]*domain.Position, error) {
	rows, err := r.db.QueryContext(ctx, selectPositions+` ORDER BY start_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query all positions: %w", err)
	}
	defer rows.Close()

	positions := make([]*domain.Position, 0)
	for rows.Next() {
		pos, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position during FindAll: %w", err)
		}
		positions = append(positions, pos)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating position rows: %w", err)
	}
	return positions, nil
}

// --- FieldDraftRepository Implementation ---

// SaveDraft records the last-edited text for one field of a position.
func (r *Repository) SaveDraft(ctx context.Context, positionID, field, text string) error {
	const query = `
	INSERT INTO field_drafts (position_id, field, text) VALUES (?, ?, ?)
	ON CONFLICT (position_id, field) DO UPDATE SET text = excluded.text`

	if _, err := r.db.ExecContext(ctx, query, positionID, field, text); err != nil {
		return fmt.Errorf("failed to save draft %s for position %s: %w", field, positionID, err)
	}
	return nil
}

// FindDrafts returns all recorded drafts for a position, keyed by field name.
func (r *Repository) FindDrafts(ctx context.Context, positionID string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT field, text FROM field_drafts WHERE position_id = ?`, positionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query drafts for position %s: %w", positionID, err)
	}
	defer rows.Close()

	drafts := make(map[string]string)
	for rows.Next() {
		var field, text string
		if err := rows.Scan(&field, &text); err != nil {
			return nil, fmt.Errorf("failed to scan draft row for position %s: %w", positionID, err)
		}
		drafts[field] = text
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draft rows: %w", err)
	}
	return drafts, nil
}

// --- Helper Scan Functions ---

const selectPositions = `
	SELECT id, protocol, token_a, token_b, initial_price_a, initial_price_b,
	       amount_a, amount_b, latest_price_a, latest_price_b, apr, duration_days,
	       lower_bound, upper_bound, hedge_enabled, short_token, short_amount,
	       funding_rate, start_date
	FROM positions`

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanPosition scans a row into a domain.Position struct.
func scanPosition(s scanner) (*domain.Position, error) {
	p := &domain.Position{}
	var shortToken string
	err := s.Scan(
		&p.ID, &p.Protocol, &p.TokenA, &p.TokenB, &p.InitialPriceA, &p.InitialPriceB,
		&p.AmountA, &p.AmountB, &p.LatestPriceA, &p.LatestPriceB, &p.APR, &p.DurationDays,
		&p.LowerBound, &p.UpperBound, &p.HedgeEnabled, &shortToken, &p.ShortAmount,
		&p.FundingRate, &p.StartDate)
	if err != nil {
		return nil, err // Handle sql.ErrNoRows in the caller
	}
	p.ShortToken = domain.ShortToken(shortToken)
	return p, nil
}
