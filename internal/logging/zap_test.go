package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZapLogger_WritesJSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZapLoggerTo(&buf, slog.LevelInfo)

	log.With("module", "purchase").Info(context.Background(), "ticket issued", "sequence", 3)
	require.NoError(t, log.Sync())

	out := buf.String()
	for _, want := range []string{`"level":"info"`, `"msg":"ticket issued"`, `"module":"purchase"`, `"sequence":3`} {
		require.True(t, strings.Contains(out, want), "expected %s in %s", want, out)
	}
}

func TestZapLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	log := NewZapLoggerTo(&buf, slog.LevelWarn)
	ctx := context.Background()

	log.Info(ctx, "quiet")
	log.Warn(ctx, "loud")
	require.NoError(t, log.Sync())

	require.NotContains(t, buf.String(), "quiet")
	require.Contains(t, buf.String(), "loud")
}

func TestNew_Formats(t *testing.T) {
	for _, f := range []string{"", FormatJSON, FormatText, FormatZap} {
		var buf bytes.Buffer
		l, err := New(f, "", &buf)
		require.NoError(t, err)
		l.Error(context.Background(), "boom", "k", "v")
		require.Contains(t, buf.String(), "boom")
	}

	_, err := New("xml", "", &bytes.Buffer{})
	require.Error(t, err)

	_, err = New(FormatJSON, "loud", &bytes.Buffer{})
	require.Error(t, err)
}
