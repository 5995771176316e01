package fileurl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePath(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "config", "config.yaml")
	assert.False(t, IsExist(filepath.Dir(target)))

	require.NoError(t, CreatePath(target, 0754))
	assert.True(t, IsExist(filepath.Dir(target)))
	require.NoError(t, os.WriteFile(target, []byte("x"), 0644))
	assert.True(t, IsExist(target))
	assert.NotEmpty(t, GetExePath())
}
