package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args []string) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"hearth"}, args...)
	t.Cleanup(func() { os.Args = orig })
}

func TestParseFlagsOverridesDefaults(t *testing.T) {
	withArgs(t, []string{"-d", "postgres://example/db", "-f", "other.db", "-w", "250", "-r", "7"})

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	require.Equal(t, "postgres://example/db", cfg.DatabaseDSN)
	require.Equal(t, "other.db", cfg.LocalDBPath)
	require.Equal(t, 250*time.Millisecond, cfg.SyncDebounce)
	require.Equal(t, 7, cfg.RetryAttempts)
}

func TestParseFlagsIgnoresForeignFlags(t *testing.T) {
	withArgs(t, []string{"-c", "config.json", "-r", "5"})

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	require.Equal(t, 5, cfg.RetryAttempts)
	require.Equal(t, "hearth.db", cfg.LocalDBPath)
}

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value form",
			args:    []string{"-d", "dsn", "-x", "junk"},
			allowed: []string{"-d"},
			want:    []string{"-d", "dsn"},
		},
		{
			name:    "equals form",
			args:    []string{"-d=dsn", "-x=junk"},
			allowed: []string{"-d"},
			want:    []string{"-d=dsn"},
		},
		{
			name:    "flag followed by another flag",
			args:    []string{"-r", "-d", "dsn"},
			allowed: []string{"-r", "-d"},
			want:    []string{"-r", "-d", "dsn"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "1", "-b", "2"},
			allowed: []string{"-z"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, filterArgs(tt.args, tt.allowed...))
		})
	}
}
