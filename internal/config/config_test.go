package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "50051", cfg.GRPCPort)
	assert.Equal(t, "/mcp", cfg.MCPPath)
	assert.Equal(t, "memory", cfg.DBDriver)
	assert.Equal(t, "hockey.draft.events", cfg.NATSSubject)
	assert.Equal(t, 5*time.Minute, cfg.ADPSyncInterval)
	assert.Equal(t, []string{"openid", "profile", "email"}, cfg.AuthentikScopes)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_FILE", "/tmp/league.db")
	t.Setenv("ADP_SYNC_INTERVAL", "90s")
	t.Setenv("NATS_MOCK", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/league.db", cfg.SQLiteFile)
	assert.Equal(t, 90*time.Second, cfg.ADPSyncInterval)
	assert.True(t, cfg.NATSMock)
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("ADP_SYNC_INTERVAL", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown driver",
			env:     map[string]string{"DB_DRIVER": "mongo"},
			wantErr: "unknown DB_DRIVER",
		},
		{
			name:    "postgres in production needs a url",
			env:     map[string]string{"DB_DRIVER": "postgres", "ENVIRONMENT": "production", "AUTHENTIK_BASE_URL": "https://auth", "AUTHENTIK_CLIENT_ID": "id", "AUTHENTIK_CLIENT_SECRET": "secret"},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "production needs authentik",
			env:     map[string]string{"ENVIRONMENT": "production"},
			wantErr: "AUTHENTIK_BASE_URL",
		},
		{
			name:    "zero sync interval",
			env:     map[string]string{"ADP_SYNC_INTERVAL": "0s"},
			wantErr: "ADP_SYNC_INTERVAL",
		},
		{
			name:    "relative mcp path",
			env:     map[string]string{"MCP_PATH": "mcp"},
			wantErr: "MCP_PATH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPostgresInDevelopmentFallsBack(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.DatabaseURL)
	assert.True(t, cfg.IsDevelopment())
}
