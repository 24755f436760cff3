package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopLogger(t *testing.T) {
	l := NopLogger{}
	l.Debug("msg", "k", "v")
	l.Info("msg")
	l.Warn("msg")
	l.Error("msg")
	_, ok := l.With("k", "v").(NopLogger)
	assert.True(t, ok, "With should return NopLogger")
}

func TestSlogAdapter(t *testing.T) {
	t.Run("nil uses default", func(t *testing.T) {
		a := NewSlogAdapter(nil)
		require.NotNil(t, a.logger)
	})

	t.Run("writes records with attrs", func(t *testing.T) {
		var buf bytes.Buffer
		h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
		l := NewSlogAdapter(slog.New(h)).With("component", "loader")

		l.Debug("fetched document", "url", "http://h/resources.json")
		l.Warn("duplicate nickname", "nickname", "getPet")

		out := buf.String()
		assert.Contains(t, out, "component=loader")
		assert.Contains(t, out, "url=http://h/resources.json")
		assert.Contains(t, out, "level=WARN")
		assert.Contains(t, out, "nickname=getPet")
	})
}

func TestOrNop(t *testing.T) {
	_, ok := OrNop(nil).(NopLogger)
	assert.True(t, ok)

	a := NewSlogAdapter(nil)
	assert.Same(t, a, OrNop(a))
}
