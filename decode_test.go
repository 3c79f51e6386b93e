// FILE: lixenwraith/cfgtree/decode_test.go
package cfgtree

import (
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScanWithComplexTypes tests scanning with network, duration and collection types
func TestScanWithComplexTypes(t *testing.T) {
	type NetworkConfig struct {
		IP      net.IP        `cfg:"ip"`
		IPNet   *net.IPNet    `cfg:"subnet"`
		URL     *url.URL      `cfg:"endpoint"`
		Timeout time.Duration `cfg:"timeout"`
		Retry   struct {
			Count    int           `cfg:"count"`
			Interval time.Duration `cfg:"interval"`
		} `cfg:"retry"`
	}

	type AppConfig struct {
		Network NetworkConfig     `cfg:"network"`
		Tags    []string          `cfg:"tags"`
		Ports   []int             `cfg:"ports"`
		Labels  map[string]string `cfg:"labels"`
		Started time.Time         `cfg:"started"`
	}

	r := mustParse(t, `
tags = "prod,staging,test"
ports = [80, 443, 8080]
labels = {"env": "prod", "team": "core"}
started = "2024-03-01T12:00:00Z"

[network]
ip = "192.168.1.100"
subnet = "192.168.1.0/24"
endpoint = "https://api.example.com:8443/v1"
timeout = "2m30s"

[network]
[retry]
count = 5
interval = "10s"
`)

	var cfg AppConfig
	require.NoError(t, r.Scan(&cfg))

	assert.Equal(t, "192.168.1.100", cfg.Network.IP.String())
	assert.Equal(t, "192.168.1.0/24", cfg.Network.IPNet.String())
	assert.Equal(t, "api.example.com:8443", cfg.Network.URL.Host)
	assert.Equal(t, 150*time.Second, cfg.Network.Timeout)
	assert.Equal(t, 5, cfg.Network.Retry.Count)
	assert.Equal(t, 10*time.Second, cfg.Network.Retry.Interval)
	assert.Equal(t, []string{"prod", "staging", "test"}, cfg.Tags)
	assert.Equal(t, []int{80, 443, 8080}, cfg.Ports)
	assert.Equal(t, map[string]string{"env": "prod", "team": "core"}, cfg.Labels)
	assert.Equal(t, 2024, cfg.Started.Year())
}

func TestScanSection(t *testing.T) {
	type TLS struct {
		Enabled bool   `cfg:"enabled"`
		Cert    string `cfg:"cert"`
	}

	r := mustParse(t, "[server]\nport = 1\n[server]\n[tls]\nenabled = True\ncert = '/etc/cert.pem'\n")

	t.Run("NestedPath", func(t *testing.T) {
		var tls TLS
		require.NoError(t, r.ScanSection("server.tls", &tls))
		assert.True(t, tls.Enabled)
		assert.Equal(t, "/etc/cert.pem", tls.Cert)
	})

	t.Run("MissingSectionZeroes", func(t *testing.T) {
		tls := TLS{Enabled: true, Cert: "old"}
		require.NoError(t, r.ScanSection("client.tls", &tls))
		assert.Equal(t, TLS{}, tls)
		_, ok := r.Lookup("client")
		assert.False(t, ok, "scanning must not create sections")
	})

	t.Run("ValueIsNotSection", func(t *testing.T) {
		var tls TLS
		assert.ErrorIs(t, r.ScanSection("server.port", &tls), ErrNotSection)
	})

	t.Run("WholeTree", func(t *testing.T) {
		var all map[string]any
		require.NoError(t, r.ScanSection("", &all))
		assert.Contains(t, all, "server")
	})
}

// TestInvalidScanTargets tests error handling for invalid targets
func TestInvalidScanTargets(t *testing.T) {
	r := mustParse(t, "k = 1\n")

	var s struct{ K int }
	assert.Error(t, r.Scan(s), "non-pointer target")
	assert.Error(t, r.Scan(nil), "nil target")

	var p *struct{ K int }
	assert.Error(t, r.Scan(p), "nil pointer target")

	require.NoError(t, r.Scan(&s))
	assert.Equal(t, 1, s.K, "untagged fields match case-insensitively")
}

// TestWeaklyTypedInput tests that literal kinds convert to compatible field types
func TestWeaklyTypedInput(t *testing.T) {
	type Config struct {
		Port    int     `cfg:"port"`
		Ratio   float64 `cfg:"ratio"`
		Label   string  `cfg:"label"`
		Enabled bool    `cfg:"enabled"`
	}

	r := mustParse(t, "port = '8080'\nratio = 2\nlabel = 42\nenabled = 1\n")
	var cfg Config
	require.NoError(t, r.Scan(&cfg))
	assert.Equal(t, Config{Port: 8080, Ratio: 2, Label: "42", Enabled: true}, cfg)
}

func TestAssign(t *testing.T) {
	type TLS struct {
		Enabled bool `cfg:"enabled"`
	}
	type Server struct {
		Host     string        `cfg:"host"`
		Ports    []int         `cfg:"ports"`
		Timeout  time.Duration `cfg:"timeout"`
		Endpoint url.URL       `cfg:"endpoint"`
		TLS      TLS           `cfg:"tls"`
		Secret   string        `cfg:"-"`
		internal int
	}
	type Config struct {
		Name    string    `cfg:"name"`
		Server  Server    `cfg:"server"`
		Backup  *Server   `cfg:"backup"`
		Started time.Time `cfg:"started"`
		Count   uint16
	}

	src := Config{
		Name: "demo",
		Server: Server{
			Host:     "localhost",
			Ports:    []int{80, 443},
			Timeout:  3 * time.Second,
			Endpoint: url.URL{Scheme: "https", Host: "example.com"},
			TLS:      TLS{Enabled: true},
			Secret:   "hidden",
			internal: 7,
		},
		Started: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Count:   3,
	}

	r := NewRoot("")
	require.NoError(t, r.Assign(&src))

	host, err := r.StringAt("server.host")
	require.NoError(t, err)
	assert.Equal(t, "localhost", host)

	timeout, _ := r.StringAt("server.timeout")
	assert.Equal(t, "3s", timeout)
	endpoint, _ := r.StringAt("server.endpoint")
	assert.Equal(t, "https://example.com", endpoint)
	started, _ := r.StringAt("started")
	assert.Equal(t, "2024-03-01T12:00:00Z", started)
	count, _ := r.Int64At("count")
	assert.Equal(t, int64(3), count)

	enabled, err := r.BoolAt("server.tls.enabled")
	require.NoError(t, err)
	assert.True(t, enabled)

	_, ok := r.Lookup("server", "secret")
	assert.False(t, ok)
	_, ok = r.Lookup("server", "internal")
	assert.False(t, ok)

	v, ok := r.Value("backup")
	require.True(t, ok)
	assert.True(t, v.IsNull(), "nil struct pointers become None")

	t.Run("RoundTripThroughScan", func(t *testing.T) {
		var back Config
		require.NoError(t, r.Scan(&back))
		assert.Equal(t, src.Server.Ports, back.Server.Ports)
		assert.Equal(t, src.Server.Timeout, back.Server.Timeout)
		assert.Equal(t, src.Server.Endpoint.Host, back.Server.Endpoint.Host)
		assert.True(t, src.Started.Equal(back.Started))
		assert.Empty(t, back.Server.Secret)
	})

	t.Run("NotAStruct", func(t *testing.T) {
		assert.ErrorIs(t, NewNode().Assign(42), ErrUnsupportedType)
	})
}
