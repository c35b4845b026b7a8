package dal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

// SQLiteDAL implements LeagueDAL using SQLite
type SQLiteDAL struct {
	db *sql.DB
}

// NewSQLiteDAL creates a new SQLite data access layer
func NewSQLiteDAL(dbPath string) (*SQLiteDAL, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// one connection so ":memory:" databases see a single schema
	db.SetMaxOpenConns(1)

	dal := &SQLiteDAL{db: db}

	if err := dal.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return dal, nil
}

func (s *SQLiteDAL) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS teams (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		draft_position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS datasets (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		source TEXT NOT NULL,
		loaded_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS players (
		ord INTEGER PRIMARY KEY,
		player_key TEXT NOT NULL,
		name TEXT NOT NULL,
		team TEXT NOT NULL,
		position TEXT NOT NULL,
		games_played REAL,
		adp REAL,
		stats TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_players_key ON players(player_key);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Seed default data if empty
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM settings").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		if err := s.SaveSettings(models.DefaultLeagueSettings()); err != nil {
			return fmt.Errorf("failed to seed settings: %w", err)
		}
	}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM datasets").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		ds, err := getDefaultDataset()
		if err != nil {
			return err
		}
		if err := s.ReplaceDataset(ds); err != nil {
			return fmt.Errorf("failed to seed dataset: %w", err)
		}
	}

	return nil
}

func (s *SQLiteDAL) GetSettings() (*models.LeagueSettings, error) {
	var data string
	if err := s.db.QueryRow(`SELECT data FROM settings WHERE id = 1`).Scan(&data); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT id, name, draft_position FROM teams ORDER BY draft_position`)
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

func (s *SQLiteDAL) SaveSettings(settings *models.LeagueSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	data, err := encodeSettings(settings)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO settings (id, data, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, data, time.Now().UnixMilli())
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM teams`); err != nil {
		return err
	}
	for _, t := range settings.Teams {
		_, err := tx.Exec(`INSERT INTO teams (id, name, draft_position) VALUES (?, ?, ?)`, t.ID, t.Name, t.DraftPosition)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteDAL) GetDataset() (*models.Dataset, error) {
	ds := &models.Dataset{Records: []models.PlayerRecord{}}

	var loadedAt int64
	err := s.db.QueryRow(`SELECT source, loaded_at FROM datasets WHERE id = 1`).Scan(&ds.Source, &loadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ds, nil
	}
	if err != nil {
		return nil, err
	}
	ds.LoadedAt = time.UnixMilli(loadedAt).UTC()

	rows, err := s.db.Query(`
		SELECT name, team, position, games_played, adp, stats
		FROM players
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

func (s *SQLiteDAL) ReplaceDataset(dataset *models.Dataset) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM players`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO players (ord, player_key, name, team, position, games_played, adp, stats)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
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
		if _, err := stmt.Exec(i, r.Key(), r.Name, r.Team, r.Position, nullFloat(r.GamesPlayed), nullFloat(r.AverageDraftPosition), stats); err != nil {
			return fmt.Errorf("failed to insert player %q: %w", r.Name, err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO datasets (id, source, loaded_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET source = excluded.source, loaded_at = excluded.loaded_at
	`, dataset.Source, dataset.LoadedAt.UnixMilli())
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteDAL) Reset() error {
	if _, err := s.db.Exec(`DELETE FROM settings; DELETE FROM teams; DELETE FROM datasets; DELETE FROM players;`); err != nil {
		return err
	}
	return s.initSchema()
}

func (s *SQLiteDAL) Close() error {
	return s.db.Close()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
