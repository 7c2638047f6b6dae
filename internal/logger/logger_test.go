package logger

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init(Config{Level: "chatty"}))
}

func TestInitWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rantme.log")
	require.NoError(t, Init(Config{Level: "debug", Format: "json", File: path}))
	t.Cleanup(func() {
		_ = Close()
		_ = Init(Config{})
	})

	assert.Equal(t, log.DebugLevel, Default().GetLevel())
	For("test").Debug("hello", "k", "v")
	assert.FileExists(t, path)
}

func TestForAddsPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, log.InfoLevel).WithPrefix("emotion")
	l.Info("detected", "mood", "sad")

	assert.Contains(t, buf.String(), "emotion")
	assert.Contains(t, buf.String(), "mood=sad")
}
