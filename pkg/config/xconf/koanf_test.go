package xconf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// 测试数据
// =============================================================================

const testYAMLContent = `
engine:
  name: board
  schedules: 4
host:
  poll_interval: 5ms
`

const testJSONContent = `{
  "engine": {"name": "board", "schedules": 4},
  "host": {"poll_interval": "5ms"}
}`

// =============================================================================
// 辅助函数
// =============================================================================

func memFile(t *testing.T, name, content string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o600))
	return fs
}

func engineOf(t *testing.T, cfg Config) EngineSettings {
	t.Helper()
	var engine EngineSettings
	require.NoError(t, cfg.Unmarshal("engine", &engine))
	return engine
}

// =============================================================================
// New 函数测试
// =============================================================================

func TestNew_YAML(t *testing.T) {
	fs := memFile(t, "/etc/xevents.yaml", testYAMLContent)

	cfg, err := New("/etc/xevents.yaml", WithFS(fs))
	require.NoError(t, err)

	assert.Equal(t, "/etc/xevents.yaml", cfg.Path())
	assert.Equal(t, FormatYAML, cfg.Format())
	engine := engineOf(t, cfg)
	assert.Equal(t, "board", engine.Name)
	assert.Equal(t, 4, engine.Schedules)
}

func TestNew_YML(t *testing.T) {
	fs := memFile(t, "/xevents.yml", testYAMLContent)

	cfg, err := New("/xevents.yml", WithFS(fs))
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, cfg.Format())
}

func TestNew_JSON(t *testing.T) {
	fs := memFile(t, "/xevents.json", testJSONContent)

	cfg, err := New("/xevents.json", WithFS(fs))
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, cfg.Format())
	var host HostSettings
	require.NoError(t, cfg.Unmarshal("host", &host))
	assert.Equal(t, 5*time.Millisecond, host.PollInterval)
}

func TestNew_OsFs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xevents.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testYAMLContent), 0o600))

	cfg, err := New(path, nil, WithFS(nil))
	require.NoError(t, err)
	assert.Equal(t, "board", engineOf(t, cfg).Name)
}

func TestNew_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.yaml", []byte("invalid: yaml: content: ::::"), 0o600))
	require.NoError(t, afero.WriteFile(fs, "/bad.json", []byte("{invalid json}"), 0o600))

	tests := []struct {
		name string
		path string
		want error
	}{
		{"empty path", "", ErrEmptyPath},
		{"unknown extension", "/xevents.toml", ErrUnsupportedFormat},
		{"missing file", "/missing.yaml", ErrLoadFailed},
		{"invalid yaml", "/bad.yaml", ErrParseFailed},
		{"invalid json", "/bad.json", ErrParseFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := New(tt.path, WithFS(fs))
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// =============================================================================
// NewFromBytes 函数测试
// =============================================================================

func TestNewFromBytes(t *testing.T) {
	cfg, err := NewFromBytes([]byte(testJSONContent), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, cfg.Path())
	assert.Equal(t, FormatJSON, cfg.Format())
	assert.Equal(t, "board", engineOf(t, cfg).Name)
}

func TestNewFromBytes_EmptyData(t *testing.T) {
	cfg, err := NewFromBytes(nil, FormatYAML)
	require.NoError(t, err)

	// 空配置保留目标原有的值
	s := Default()
	require.NoError(t, cfg.Unmarshal("", s))
	assert.Equal(t, Default(), s)
}

func TestNewFromBytes_Errors(t *testing.T) {
	_, err := NewFromBytes([]byte("a = 1"), Format("toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = NewFromBytes([]byte("{"), FormatJSON)
	assert.ErrorIs(t, err, ErrParseFailed)
}

// =============================================================================
// Unmarshal 测试
// =============================================================================

func TestUnmarshal_Path(t *testing.T) {
	cfg, err := NewFromBytes([]byte(testYAMLContent), FormatYAML)
	require.NoError(t, err)

	var engine EngineSettings
	require.NoError(t, cfg.Unmarshal("engine", &engine))
	assert.Equal(t, "board", engine.Name)
	assert.Equal(t, 4, engine.Schedules)
}

func TestUnmarshal_Error(t *testing.T) {
	cfg, err := NewFromBytes([]byte("engine:\n  schedules: many\n"), FormatYAML)
	require.NoError(t, err)

	var s Settings
	err = cfg.Unmarshal("", &s)
	assert.ErrorIs(t, err, ErrUnmarshalFailed)
}
