package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "minimal", cfg: Config{InputPath: "s.csv"}},
		{name: "missing input", cfg: Config{}, wantErr: "InputPath is a required"},
		{name: "bad format", cfg: Config{InputPath: "s.csv", Format: "xml"}, wantErr: "unknown output format"},
		{name: "negative cycle limit", cfg: Config{InputPath: "s.csv", CycleLimit: -1}, wantErr: "cycle limit"},
		{name: "port out of range", cfg: Config{InputPath: "s.csv", Watch: true, HealthcheckPort: 70000}, wantErr: "out of range"},
		{name: "healthcheck without watch", cfg: Config{InputPath: "s.csv", HealthcheckPort: 8080}, wantErr: "requires watch mode"},
		{name: "healthcheck with watch", cfg: Config{InputPath: "s.csv", HealthcheckPort: 8080, Watch: true}},
		{name: "bad log format", cfg: Config{InputPath: "s.csv", LogFormat: "xml"}, wantErr: "invalid log format"},
		{name: "bad log level", cfg: Config{InputPath: "s.csv", LogLevel: "trace"}, wantErr: "invalid log level"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
		})
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig(Config{InputPath: "s.csv"})
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "/", cfg.PublishNamespace)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestGraphOutPath(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		base   string
		root   string
		source string
		multi  bool
		want   string
	}{
		{name: "single schedule", base: "out/graph.dot", root: "a/s1.csv", source: "a/s1.csv", want: "out/graph.dot"},
		{name: "top-level file", base: "out/graph.dot", root: "in", source: "in/s1.csv", multi: true, want: "out/graph-s1_csv.dot"},
		{name: "nested file", base: "out/graph.dot", root: "in", source: "in/a/s.csv", multi: true, want: "out/graph-a_s_csv.dot"},
		{name: "same name in sibling directory", base: "out/graph.dot", root: "in", source: "in/b/s.csv", multi: true, want: "out/graph-b_s_csv.dot"},
		{name: "base without extension", base: "graph", root: ".", source: "s1.yaml", multi: true, want: "graph-s1_yaml.dot"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, graphOutPath(tc.base, tc.root, tc.source, tc.multi))
		})
	}
}
