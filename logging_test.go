package halftone

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogger_FiltersByLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	log := NewLogger(&out, &errOut, "", LevelWarn)

	log.Debugf("d")
	log.Infof("i")
	log.Warnf("w %d", 1)
	log.Errorf("e")
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "WARN: w 1")
	assert.Contains(t, errOut.String(), "ERROR: e")
	assert.False(t, log.DebugEnabled())

	log.SetLevel(LevelDebug)
	log.Debugf("now visible")
	assert.True(t, log.DebugEnabled())
	assert.Contains(t, out.String(), "DEBUG: now visible")
}

func TestDefaultLogger_NamedSharesSink(t *testing.T) {
	var out bytes.Buffer
	root := NewLogger(&out, &out, "halftone", LevelInfo)
	assets := root.Named("assets")

	assets.Infof("loaded %s", "bear.glb")
	assert.Contains(t, out.String(), "[halftone.assets] INFO: loaded bear.glb")

	root.SetLevel(LevelError)
	out.Reset()
	assets.Warnf("hidden")
	assert.Empty(t, out.String(), "children follow the parent's level")

	bare := NewLogger(&out, &out, "", LevelInfo).Named("config")
	bare.Infof("x")
	assert.Contains(t, out.String(), "[config] INFO: x")
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"debug":  LevelDebug,
		"INFO":   LevelInfo,
		" Warn ": LevelWarn,
		"error":  LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
	assert.Equal(t, "Level(7)", Level(7).String())

	var zero Level
	assert.Equal(t, LevelInfo, zero)
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	assert.False(t, log.DebugEnabled())
	assert.Equal(t, log, log.Named("anything"))
	assert.NotPanics(t, func() { log.Errorf("dropped %v", 1) })
}

func TestAppLogger_FallsBackToNop(t *testing.T) {
	var app *App
	assert.Equal(t, NopLogger{}, app.Logger())

	var out bytes.Buffer
	app = NewAppBuilder().UseModule(LoggingModule{Prefix: "p", Output: &out}).Build()
	app.Logger().Named("x").Infof("hello")
	assert.Contains(t, out.String(), "[p.x] INFO: hello")

	app.Logger().Debugf("quiet")
	assert.NotContains(t, out.String(), "quiet", "the zero level is info")
}
