package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debemdeboas/typoteka/internal/config"
)

func TestGenerateRoundTrips(t *testing.T) {
	out, err := generate()
	require.NoError(t, err)
	assert.Contains(t, string(out), "max_bytes: 2097152")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, out, 0o600))

	defer func() { config.AppConfig = config.Defaults() }()
	require.NoError(t, config.LoadConfig(path))
	assert.Equal(t, config.Defaults(), config.AppConfig)
}
