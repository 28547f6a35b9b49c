package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, ":8080", c.Server.Addr)
	require.Equal(t, "/", c.Server.BasePath)
	require.Equal(t, "memory", c.Registry.Driver)
	require.Equal(t, 20*time.Second, c.Node.Timeout)
	require.Equal(t, "/monitoring", c.Node.MonitoringPath)
	require.Equal(t, 1, c.Node.FanOutLimit)
	require.Equal(t, "monitoring", c.Selection.CookieName)
	require.Equal(t, 30*24*time.Hour, c.Selection.Validity)
}

func TestLoadYAMLAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collector.yaml")
	doc := `
server:
  addr: ":9090"
security:
  allowed_addr_pattern: '10\.0\..*'
node:
  timeout: 5s
  fan_out_limit: 4
registry:
  driver: file
applications:
  - name: shop
    urls: [http://a:8080, http://b:8080]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	t.Setenv("COLLECTOR_NODE_TIMEOUT", "7s")
	t.Setenv("COLLECTOR_SELECTION_COOKIE_NAME", "sticky")

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", c.Server.Addr)
	require.Equal(t, `10\.0\..*`, c.Security.AllowedAddrPattern)
	require.Equal(t, 7*time.Second, c.Node.Timeout)
	require.Equal(t, 4, c.Node.FanOutLimit)
	require.Equal(t, "sticky", c.Selection.CookieName)
	require.Equal(t, "data/applications.yaml", c.Registry.File)
	require.Len(t, c.Applications, 1)
	require.Equal(t, []string{"http://a:8080", "http://b:8080"}, c.Applications[0].URLs)
}

func TestValidateRejectsBadValues(t *testing.T) {
	c := Default()
	c.Security.AllowedAddrPattern = "10.0.(("
	c.Registry.Driver = "etcd"
	c.Node.FanOutLimit = -1
	err := c.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "allowed_addr_pattern")
	require.Contains(t, err.Error(), "registry.driver")
	require.Contains(t, err.Error(), "fan_out_limit")
}

func TestParseApplicationsKeepsOrder(t *testing.T) {
	apps := parseApplications("shop=http://a,http://b; billing=http://c ;broken;=http://x")
	require.Len(t, apps, 2)
	require.Equal(t, "shop", apps[0].Name)
	require.Equal(t, []string{"http://a", "http://b"}, apps[0].URLs)
	require.Equal(t, "billing", apps[1].Name)
}
