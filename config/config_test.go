package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/setanarut/toneadjust/config"
)

const sample = `
tone:
  alpha: 2.0
  beta: -15
display:
  mode: http
  addr: 127.0.0.1:9000
palette:
  method: kmeans
  size: 4
log_level: debug
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	c, err := config.Load(path)
	require.NoError(t, err)
	require.NotNil(t, c.Tone.Alpha)
	require.Equal(t, 2.0, *c.Tone.Alpha)
	require.Equal(t, -15.0, *c.Tone.Beta)
	require.Equal(t, "http", c.Display.Mode)
	require.Equal(t, "127.0.0.1:9000", c.Display.Addr)
	require.Empty(t, c.Display.Out)
	require.Equal(t, "kmeans", c.Palette.Method)
	require.Equal(t, 4, c.Palette.Size)
	require.Equal(t, "debug", c.LogLevel)
}

func TestLoadUnsetToneStaysNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display:\n  mode: none\n"), 0o644))

	c, err := config.Load(path)
	require.NoError(t, err)
	require.Nil(t, c.Tone.Alpha)
	require.Nil(t, c.Tone.Beta)
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tone: [1, 2"), 0o644))
	_, err = config.Load(path)
	require.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	alpha := 0.5
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, config.Save(path, &config.Config{
		Tone:    config.Tone{Alpha: &alpha},
		Display: config.Display{Mode: "file", Out: "cmp.png"},
	}))

	c, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 0.5, *c.Tone.Alpha)
	require.Nil(t, c.Tone.Beta)
	require.Equal(t, "cmp.png", c.Display.Out)
}
