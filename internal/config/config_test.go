package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hervehildenbrand/gmtu/internal/pmtu"
	"github.com/hervehildenbrand/gmtu/internal/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "8.8.8.8", cfg.Target)
	assert.Equal(t, pmtu.DefaultFloor, cfg.Floor)
	assert.Equal(t, pmtu.DefaultCeiling, cfg.Ceiling)
	assert.Equal(t, 28, cfg.Overhead)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, "command", cfg.Mechanism)
	assert.NoError(t, cfg.Validate())
}

func TestLoadReader_OverridesDefaults(t *testing.T) {
	doc := `
target: 1.1.1.1
interface: eth0
ceiling: 1472
timeout: 500ms
mechanism: socket
markers:
  delivery: ["bytes from"]
  fragmentation: ["paket zu gross"]
`
	cfg, err := LoadReader(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, "1.1.1.1", cfg.Target)
	assert.Equal(t, "eth0", cfg.Interface)
	assert.Equal(t, pmtu.DefaultFloor, cfg.Floor)
	assert.Equal(t, 1472, cfg.Ceiling)
	assert.Equal(t, 500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "socket", cfg.Mechanism)
	assert.Equal(t, []string{"paket zu gross"}, cfg.Markers.Fragmentation)
	assert.NoError(t, cfg.Validate())
}

func TestLoadReader_Empty(t *testing.T) {
	cfg, err := LoadReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadReader_RejectsUnknownKeys(t *testing.T) {
	_, err := LoadReader(strings.NewReader("celing: 1472\n"))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gmtu.yaml")
	require.NoError(t, os.WriteFile(path, []byte("floor: 500\nformat: csv\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Floor)
	assert.Equal(t, "csv", cfg.Format)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to open config")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		returnErr bool
	}{
		{name: "defaults", modify: func(c *Config) {}, returnErr: false},
		{name: "empty target", modify: func(c *Config) { c.Target = "" }, returnErr: true},
		{name: "zero floor", modify: func(c *Config) { c.Floor = 0 }, returnErr: false},
		{name: "negative floor", modify: func(c *Config) { c.Floor = -1 }, returnErr: true},
		{name: "ceiling below floor", modify: func(c *Config) { c.Ceiling = 10 }, returnErr: true},
		{name: "single size range", modify: func(c *Config) { c.Floor, c.Ceiling = 1472, 1472 }, returnErr: false},
		{name: "negative overhead", modify: func(c *Config) { c.Overhead = -1 }, returnErr: true},
		{name: "zero timeout", modify: func(c *Config) { c.Timeout = 0 }, returnErr: true},
		{name: "unknown mechanism", modify: func(c *Config) { c.Mechanism = "udp" }, returnErr: true},
		{name: "unknown format", modify: func(c *Config) { c.Format = "xml" }, returnErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(cfg)
			assert.Equal(t, tc.returnErr, cfg.Validate() != nil)
		})
	}
}

func TestConfig_Derived(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mechanism = "socket"
	cfg.Timeout = time.Second
	cfg.Markers.Fragmentation = []string{"paket zu gross"}

	pc := cfg.ProbeConfig()
	assert.Equal(t, probe.KindSocket, pc.Kind)
	assert.Equal(t, time.Second, pc.Timeout)

	outcome := cfg.Classifier().Classify(pmtu.RawResult{Size: 1500, Diagnostic: "Paket zu gross"})
	assert.Equal(t, pmtu.DoesNotFit, outcome.Class)
}
