package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/roblaszczak/go-cleanarch/cleanarch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, "modules", cfg.Root)
	assert.True(t, cfg.IgnoreTests)
}

func TestLoadConfig_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".gocleanarch.yml")
	content := "version: 1\nroot: internal\nignore_tests: false\naliases:\n  application: [app]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "internal", cfg.Root)
	assert.False(t, cfg.IgnoreTests)

	aliases := layerAliases(cfg)
	assert.Equal(t, cleanarch.LayerApplication, aliases["app"])
	_, ok := aliases["services"]
	assert.False(t, ok, "custom aliases replace the defaults")
	assert.Equal(t, cleanarch.LayerDomain, aliases["importer"])
}

func TestApplyAliases_SkipsBlankEntries(t *testing.T) {
	t.Parallel()

	dst := map[string]cleanarch.Layer{}
	applyAliases(dst, []string{" app ", ""}, defaultApplicationAliases, cleanarch.LayerApplication)
	assert.Equal(t, map[string]cleanarch.Layer{"app": cleanarch.LayerApplication}, dst)
}
