package dal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/logger"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

// PostgresDAL implements LeagueDAL using PostgreSQL
type PostgresDAL struct {
	db *sql.DB
}

// NewPostgresDAL creates a new PostgreSQL data access layer optimized for CloudNativePG
func NewPostgresDAL(connString string) (*PostgresDAL, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	// CloudNativePG optimization: Configure connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	// Retry the ping for Kubernetes DNS propagation delays
	maxRetries := 5
	retryDelay := 5 * time.Second
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		lastErr = db.PingContext(ctx)
		cancel()

		if lastErr == nil {
			break
		}

		logger.Warn("Postgres ping failed", "attempt", i+1, "error", lastErr)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	if lastErr != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres after %d retries: %w", maxRetries, lastErr)
	}

	dal := &PostgresDAL{db: db}

	if err := dal.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return dal, nil
}

func (p *PostgresDAL) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS league_settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data JSONB NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS league_teams (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		draft_position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS datasets (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		source TEXT NOT NULL,
		loaded_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS projections (
		ord INTEGER PRIMARY KEY,
		player_key TEXT NOT NULL,
		name TEXT NOT NULL,
		team TEXT NOT NULL,
		position TEXT NOT NULL,
		games_played DOUBLE PRECISION,
		adp DOUBLE PRECISION,
		stats JSONB NOT NULL DEFAULT '{}'::jsonb
	);

	CREATE INDEX IF NOT EXISTS idx_projections_key ON projections(player_key);
	CREATE INDEX IF NOT EXISTS idx_league_teams_position ON league_teams(draft_position);
	`

	if _, err := p.db.Exec(schema); err != nil {
		return err
	}

	// Check if we need to seed data
	var count int
	if err := p.db.QueryRow("SELECT COUNT(*) FROM league_settings").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		if err := p.SaveSettings(models.DefaultLeagueSettings()); err != nil {
			return fmt.Errorf("failed to seed settings: %w", err)
		}
	}

	if err := p.db.QueryRow("SELECT COUNT(*) FROM datasets").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		ds, err := getDefaultDataset()
		if err != nil {
			return err
		}
		if err := p.ReplaceDataset(ds); err != nil {
			return fmt.Errorf("failed to seed dataset: %w", err)
		}
	}

	return nil
}

func (p *PostgresDAL) GetSettings() (*models.LeagueSettings, error) {
	var data string
	if err := p.db.QueryRow(`SELECT data FROM league_settings WHERE id = 1`).Scan(&data); err != nil {
		return nil, err
	}

	rows, err := p.db.Query(`SELECT id, name, draft_position FROM league_teams ORDER BY draft_position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []models.Team{}
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.DraftPosition); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return decodeSettings(data, teams)
}

func (p *PostgresDAL) SaveSettings(settings *models.LeagueSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	data, err := encodeSettings(settings)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO league_settings (id, data, updated_at) VALUES (1, $1, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = CURRENT_TIMESTAMP
	`, data)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM league_teams`); err != nil {
		return err
	}

	teamStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO league_teams (id, name, draft_position) VALUES ($1, $2, $3)
	`)
	if err != nil {
		return err
	}
	defer teamStmt.Close()

	for _, t := range settings.Teams {
		if _, err := teamStmt.ExecContext(ctx, t.ID, t.Name, t.DraftPosition); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (p *PostgresDAL) GetDataset() (*models.Dataset, error) {
	ds := &models.Dataset{Records: []models.PlayerRecord{}}

	err := p.db.QueryRow(`SELECT source, loaded_at FROM datasets WHERE id = 1`).Scan(&ds.Source, &ds.LoadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ds, nil
	}
	if err != nil {
		return nil, err
	}
	ds.LoadedAt = ds.LoadedAt.UTC()

	rows, err := p.db.Query(`
		SELECT name, team, position, games_played, adp, stats
		FROM projections
		ORDER BY ord
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r models.PlayerRecord
		var gp, adp sql.NullFloat64
		var stats string
		if err := rows.Scan(&r.Name, &r.Team, &r.Position, &gp, &adp, &stats); err != nil {
			return nil, err
		}
		if gp.Valid {
			r.GamesPlayed = models.Float(gp.Float64)
		}
		if adp.Valid {
			r.AverageDraftPosition = models.Float(adp.Float64)
		}
		if r.Stats, err = decodeStats(stats); err != nil {
			return nil, err
		}
		ds.Records = append(ds.Records, r)
	}

	return ds, rows.Err()
}

func (p *PostgresDAL) ReplaceDataset(dataset *models.Dataset) error {
	// CloudNativePG optimization: Use a transaction for batch inserts
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM projections`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO projections (ord, player_key, name, team, position, games_played, adp, stats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range dataset.Records {
		stats, err := encodeStats(r.Stats)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, i, r.Key(), r.Name, r.Team, r.Position, nullFloat(r.GamesPlayed), nullFloat(r.AverageDraftPosition), stats); err != nil {
			return fmt.Errorf("failed to insert player %q: %w", r.Name, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO datasets (id, source, loaded_at) VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET source = EXCLUDED.source, loaded_at = EXCLUDED.loaded_at
	`, dataset.Source, dataset.LoadedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (p *PostgresDAL) Reset() error {
	if _, err := p.db.Exec(`TRUNCATE league_settings, league_teams, datasets, projections`); err != nil {
		return err
	}
	return p.initSchema()
}

func (p *PostgresDAL) Close() error {
	return p.db.Close()
}
