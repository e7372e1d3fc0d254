package xlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xevents/pkg/observability/xrotate"
)

func TestBuild_TextDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, level, cleanup, err := New().SetOutput(&buf).Build()
	require.NoError(t, err)
	defer func() { assert.NoError(t, cleanup()) }()

	logger.Debug("hidden")
	logger.Info("engine begun", Engine("board"), Millis("epoch", 5))
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=\"engine begun\" engine=board epoch=5")

	level.Set(slog.LevelDebug)
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestBuild_JSONWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, _, _, err := New().
		SetOutput(&buf).
		SetFormat(" JSON ").
		SetLevel(LevelWarn).
		SetAttrs(Component("xeventsctl")).
		Build()
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("late tick", Err(errors.New("overrun")), Err(nil))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "late tick", rec["msg"])
	assert.Equal(t, "xeventsctl", rec["component"])
	assert.Equal(t, "overrun", rec["error"])
}

func TestBuild_ReplaceAttr(t *testing.T) {
	var buf bytes.Buffer
	logger, _, _, err := New().
		SetOutput(&buf).
		SetReplaceAttr(func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		}).
		Build()
	require.NoError(t, err)

	logger.Info("tick")
	assert.Equal(t, "level=INFO msg=tick\n", buf.String())
}

func TestBuild_FirstErrorWins(t *testing.T) {
	_, _, _, err := New().SetFormat("xml").SetRotation(filepath.Join(t.TempDir(), "a.log")).Build()
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, _, _, err = New().SetRotation(filepath.Join(t.TempDir(), "a.log"), xrotate.WithMaxSize(0)).Build()
	assert.ErrorIs(t, err, xrotate.ErrInvalidMaxSize)
}

func TestBuild_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "xevents.log")
	logger, _, cleanup, err := New().SetRotation(path).SetFormat("").Build()
	require.NoError(t, err)

	logger.Info("engine begun")
	require.NoError(t, cleanup())
	require.NoError(t, cleanup(), "cleanup is idempotent")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "engine begun")
}

func TestBuild_RotationEmptyPathKeepsOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, _, cleanup, err := New().SetOutput(&buf).SetRotation("").SetOutput(nil).Build()
	require.NoError(t, err)
	logger.Info("x")
	assert.NoError(t, cleanup())
	assert.Contains(t, buf.String(), "msg=x")
}

func TestBuild_AddSource(t *testing.T) {
	var buf bytes.Buffer
	logger, _, _, err := New().SetOutput(&buf).SetAddSource(true).Build()
	require.NoError(t, err)
	logger.Info("x")
	assert.Contains(t, buf.String(), "source=")
}
