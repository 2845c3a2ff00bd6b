package config_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tirasundara/payment-ledger/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load([]string{"transactions.csv"}, "", io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "transactions.csv", cfg.InputFile)
	assert.Equal(t, "", cfg.OutputFile)
	assert.Equal(t, "csv", cfg.Format)
	assert.True(t, cfg.PrettyPrint)
	assert.Equal(t, "strict", cfg.DisputePolicy)
	assert.Equal(t, 1, cfg.Workers)
	assert.False(t, cfg.ConcurrentIngestion)
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := config.Load([]string{
		"-format", "json",
		"-dispute-policy", "lenient",
		"-workers", "8",
		"-concurrent-ingestion",
		"-output", "accounts",
		"feed.csv",
	}, "", io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "feed.csv", cfg.InputFile)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "lenient", cfg.DisputePolicy)
	assert.Equal(t, 8, cfg.Workers)
	assert.True(t, cfg.ConcurrentIngestion)
	assert.Equal(t, "accounts", cfg.OutputFile)
}

func TestLoad_EnvFileAndEnvironment(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "LEDGER_INPUT=from-file.csv\nLEDGER_FORMAT=table\nLEDGER_WORKERS=3\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0644))

	t.Setenv("LEDGER_FORMAT", "json")

	cfg, err := config.Load(nil, envFile, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "from-file.csv", cfg.InputFile)
	assert.Equal(t, "json", cfg.Format) // environment wins over .env
	assert.Equal(t, 3, cfg.Workers)

	// Flags win over both
	cfg, err = config.Load([]string{"-format", "csv"}, envFile, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Format)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	cfg, err := config.Load([]string{"in.csv"}, filepath.Join(t.TempDir(), "missing.env"), io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "in.csv", cfg.InputFile)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing input", nil},
		{"unknown format", []string{"-format", "xml", "in.csv"}},
		{"unknown policy", []string{"-dispute-policy", "loose", "in.csv"}},
		{"zero workers", []string{"-workers", "0", "in.csv"}},
		{"unknown flag", []string{"-bogus", "in.csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(tt.args, "", io.Discard)
			require.Error(t, err)
		})
	}
}
