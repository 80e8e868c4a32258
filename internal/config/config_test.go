package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slotdb.yaml")
	yaml := "max_memory_pool_page_num: 64\nport: 9999\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 64, cfg.MaxMemoryPoolPageNum)
	require.Equal(t, 9999, cfg.Port)
	require.Equal(t, "./data/meta", cfg.TableMetaDir)
	require.Equal(t, "./data/tables", cfg.TableFileDir)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
