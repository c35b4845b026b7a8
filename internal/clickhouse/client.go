package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

// Client provides ClickHouse integration for draft pick analytics. Every pick
// is recorded and historical average draft positions are aggregated from them.
type Client struct {
	conn driver.Conn
}

// NewClient creates a new ClickHouse client
func NewClient(addr, database, username, password string) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	c := &Client{conn: conn}
	if err := c.initSchema(context.Background()); err != nil {
		conn.Close()
		return nil, err
	}

	return c, nil
}

func (c *Client) initSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS draft_picks (
			session_id String,
			pick_number UInt32,
			round UInt32,
			team_id Int32,
			team_name String,
			player_key String,
			player_name String,
			position LowCardinality(String),
			model_rank UInt32,
			value_over_replacement Float64,
			picked_at DateTime64(3)
		) ENGINE = MergeTree
		ORDER BY (player_key, picked_at)
	`
	if err := c.conn.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create draft_picks table: %w", err)
	}
	return nil
}

// RecordPick stores one selection
func (c *Client) RecordPick(ctx context.Context, pick models.PickRecord) error {
	err := c.conn.Exec(ctx, `
		INSERT INTO draft_picks (
			session_id, pick_number, round, team_id, team_name,
			player_key, player_name, position, model_rank,
			value_over_replacement, picked_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pick.SessionID,
		uint32(pick.PickNumber),
		uint32(pick.Round),
		int32(pick.TeamID),
		pick.TeamName,
		pick.PlayerKey,
		pick.PlayerName,
		pick.Position,
		uint32(pick.Rank),
		pick.ValueOverReplacement,
		pick.PickedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record pick %d: %w", pick.PickNumber, err)
	}
	return nil
}

// GetAverageDraftPosition returns the historical ADP for one player key
func (c *Client) GetAverageDraftPosition(ctx context.Context, playerKey string) (float64, error) {
	var adp float64

	query := `
		SELECT avg(pick_number) AS adp
		FROM draft_picks
		WHERE player_key = ?
		AND picked_at >= now() - INTERVAL 365 DAY
	`

	row := c.conn.QueryRow(ctx, query, playerKey)
	if err := row.Scan(&adp); err != nil {
		return 0, err
	}

	return adp, nil
}

// GetAverageDraftPositions returns the historical ADP of every player drafted
// in the last year, keyed by player key
func (c *Client) GetAverageDraftPositions(ctx context.Context) (map[string]float64, error) {
	adps := make(map[string]float64)

	query := `
		SELECT
			player_key,
			avg(pick_number) AS adp
		FROM draft_picks
		WHERE picked_at >= now() - INTERVAL 365 DAY
		GROUP BY player_key
	`

	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var adp float64
		if err := rows.Scan(&key, &adp); err != nil {
			return nil, err
		}
		adps[key] = adp
	}

	return adps, rows.Err()
}

// SyncAverageDraftPositions hands the aggregated ADPs to apply in one call so
// the dataset can be replaced atomically
func (c *Client) SyncAverageDraftPositions(ctx context.Context, apply func(map[string]float64) error) error {
	adps, err := c.GetAverageDraftPositions(ctx)
	if err != nil {
		return err
	}

	if err := apply(adps); err != nil {
		return fmt.Errorf("failed to apply %d average draft positions: %w", len(adps), err)
	}

	return nil
}

// Ping checks the connection
func (c *Client) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
