package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalApp "github.com/haierkeys/inventory-audit-service/internal/app"
	"github.com/haierkeys/inventory-audit-service/internal/dto"
)

func TestIsDefaultSecret(t *testing.T) {
	assert.True(t, isDefaultSecret(""))
	assert.True(t, isDefaultSecret(defaultAuthTokenKey))
	assert.False(t, isDefaultSecret("a-real-secret"))
}

func TestWriteDefaultConfig(t *testing.T) {
	old := configDefault
	t.Cleanup(func() { configDefault = old })
	configDefault = "security:\n  auth-token-key: " + defaultAuthTokenKey + "\n"

	path := filepath.Join(t.TempDir(), "config", "config.yaml")
	require.NoError(t, writeDefaultConfig(path))

	cfg, _, err := internalApp.LoadConfig(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Security.AuthTokenKey, 32)
	assert.False(t, isDefaultSecret(cfg.Security.AuthTokenKey))
}

func TestResolveConfigPath_Explicit(t *testing.T) {
	assert.Equal(t, "custom.yaml", resolveConfigPath("custom.yaml"))
}

func TestRunHistory(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	body := "database:\n  type: sqlite\n  path: " + filepath.Join(dir, "inventory.sqlite3") +
		"\n  max-open-conns: 1\nsecurity:\n  auth-token-key: cli-secret\nlog:\n  file: \"\"\n"
	require.NoError(t, os.WriteFile(configPath, []byte(body), 0644))

	ctx := context.Background()
	cfg, _, err := internalApp.LoadConfig(configPath)
	require.NoError(t, err)
	db, err := initDatabaseWithConfig(cfg, bootstrapLogger)
	require.NoError(t, err)
	seed, err := internalApp.NewApp(cfg, bootstrapLogger, db)
	require.NoError(t, err)
	cat, err := seed.CategoryService.Create(ctx, &dto.CategoryCreateRequest{Name: "fasteners"})
	require.NoError(t, err)
	require.NoError(t, seed.Shutdown(ctx))

	var out bytes.Buffer
	flags := &historyFlags{config: configPath, page: 1}
	require.NoError(t, runHistory(ctx, flags, "Category", cat.ID.String(), &out))

	var res struct {
		List  []dto.HistoryDTO `json:"list"`
		Total int              `json:"total"`
	}
	require.NoError(t, sonic.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, 1, res.Total)
	require.Len(t, res.List, 1)
	assert.Equal(t, "CREATE", res.List[0].Action)
	assert.Equal(t, cat.ID, res.List[0].EntityID)

	err = runHistory(ctx, flags, "warehouse", cat.ID.String(), &out)
	assert.Error(t, err)
}
