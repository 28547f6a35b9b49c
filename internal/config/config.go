package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Server struct {
		Addr     string `yaml:"addr"`
		BasePath string `yaml:"base_path"`
		// Tiempo máximo para el graceful shutdown.
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Security struct {
		// Regex (RE2) que debe matchear completa la IP del cliente. Vacío = todos.
		AllowedAddrPattern string `yaml:"allowed_addr_pattern"`
		// Usar el primer hop de X-Forwarded-For como IP del cliente.
		TrustForwardedFor bool `yaml:"trust_forwarded_for"`
	} `yaml:"security"`

	Registry struct {
		Driver string `yaml:"driver"` // memory | file | redis
		File   string `yaml:"file"`
		Redis  struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"registry"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			// TTL de la info de runtime. 0 = sin expiración.
			DefaultTTL time.Duration `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	Node struct {
		Timeout        time.Duration `yaml:"timeout"`
		MonitoringPath string        `yaml:"monitoring_path"`
		// Nodos consultados en paralelo por agregación. 1 = secuencial.
		FanOutLimit int `yaml:"fan_out_limit"`
	} `yaml:"node"`

	Selection struct {
		CookieName string        `yaml:"cookie_name"`
		Validity   time.Duration `yaml:"validity"`
	} `yaml:"selection"`

	// Aplicaciones registradas al arrancar si no existen en el registry.
	Applications []StaticApplication `yaml:"applications"`
}

// StaticApplication es una aplicación declarada en config.
type StaticApplication struct {
	Name string   `yaml:"name"`
	URLs []string `yaml:"urls"`
}

// Default devuelve la configuración con todos los defaults aplicados.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load lee path (si no está vacío), aplica defaults y overrides de entorno.
// Un path inexistente no es error: se usan defaults + entorno.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	c.applyEnvOverrides()
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.BasePath == "" {
		c.Server.BasePath = "/"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Registry.Driver == "" {
		c.Registry.Driver = "memory"
	}
	if c.Registry.Driver == "file" && c.Registry.File == "" {
		c.Registry.File = "data/applications.yaml"
	}
	if c.Registry.Redis.Prefix == "" {
		c.Registry.Redis.Prefix = "collector:registry"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "collector:cache"
	}
	if c.Node.Timeout == 0 {
		c.Node.Timeout = 20 * time.Second
	}
	if c.Node.MonitoringPath == "" {
		c.Node.MonitoringPath = "/monitoring"
	}
	if c.Node.FanOutLimit == 0 {
		c.Node.FanOutLimit = 1
	}
	if c.Selection.CookieName == "" {
		c.Selection.CookieName = "monitoring"
	}
	if c.Selection.Validity == 0 {
		c.Selection.Validity = 30 * 24 * time.Hour
	}
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}

// applyEnvOverrides: pisa el YAML con variables COLLECTOR_*.
func (c *Config) applyEnvOverrides() {
	// APP / LOG
	if v, ok := getEnvStr("COLLECTOR_APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("COLLECTOR_LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	// SERVER
	if v, ok := getEnvStr("COLLECTOR_SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvStr("COLLECTOR_SERVER_BASE_PATH"); ok {
		c.Server.BasePath = v
	}
	if v, ok := getEnvDur("COLLECTOR_SERVER_SHUTDOWN_TIMEOUT"); ok {
		c.Server.ShutdownTimeout = v
	}

	// SECURITY
	if v, ok := getEnvStr("COLLECTOR_ALLOWED_ADDR_PATTERN"); ok {
		c.Security.AllowedAddrPattern = v
	}
	if v, ok := getEnvBool("COLLECTOR_TRUST_FORWARDED_FOR"); ok {
		c.Security.TrustForwardedFor = v
	}

	// REGISTRY
	if v, ok := getEnvStr("COLLECTOR_REGISTRY_DRIVER"); ok {
		c.Registry.Driver = strings.ToLower(v)
	}
	if v, ok := getEnvStr("COLLECTOR_REGISTRY_FILE"); ok {
		c.Registry.File = v
	}
	if v, ok := getEnvStr("COLLECTOR_REGISTRY_REDIS_ADDR"); ok {
		c.Registry.Redis.Addr = v
	}
	if v, ok := getEnvStr("COLLECTOR_REGISTRY_REDIS_PASSWORD"); ok {
		c.Registry.Redis.Password = v
	}
	if v, ok := getEnvInt("COLLECTOR_REGISTRY_REDIS_DB"); ok {
		c.Registry.Redis.DB = v
	}

	// CACHE
	if v, ok := getEnvStr("COLLECTOR_CACHE_KIND"); ok {
		c.Cache.Kind = strings.ToLower(v)
	}
	if v, ok := getEnvStr("COLLECTOR_CACHE_REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("COLLECTOR_CACHE_REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("COLLECTOR_CACHE_REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvDur("COLLECTOR_CACHE_DEFAULT_TTL"); ok {
		c.Cache.Memory.DefaultTTL = v
	}

	// NODE
	if v, ok := getEnvDur("COLLECTOR_NODE_TIMEOUT"); ok {
		c.Node.Timeout = v
	}
	if v, ok := getEnvStr("COLLECTOR_NODE_MONITORING_PATH"); ok {
		c.Node.MonitoringPath = v
	}
	if v, ok := getEnvInt("COLLECTOR_NODE_FAN_OUT_LIMIT"); ok {
		c.Node.FanOutLimit = v
	}

	// SELECTION
	if v, ok := getEnvStr("COLLECTOR_SELECTION_COOKIE_NAME"); ok {
		c.Selection.CookieName = v
	}
	if v, ok := getEnvDur("COLLECTOR_SELECTION_VALIDITY"); ok {
		c.Selection.Validity = v
	}

	// APPLICATIONS: "shop=http://a,http://b;billing=http://c"
	if s, ok := getEnvStr("COLLECTOR_APPLICATIONS"); ok {
		c.Applications = parseApplications(s)
	}
}

// Validate verifica valores críticos.
func (c *Config) Validate() error {
	var errs []error
	if p := c.Security.AllowedAddrPattern; p != "" {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Errorf("security.allowed_addr_pattern: %w", err))
		}
	}
	switch c.Registry.Driver {
	case "memory", "file", "redis":
	default:
		errs = append(errs, fmt.Errorf("registry.driver: unknown driver %q", c.Registry.Driver))
	}
	switch c.Cache.Kind {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("cache.kind: unknown kind %q", c.Cache.Kind))
	}
	if c.Node.Timeout < 0 {
		errs = append(errs, errors.New("node.timeout: must be positive"))
	}
	if c.Node.FanOutLimit < 1 {
		errs = append(errs, errors.New("node.fan_out_limit: must be >= 1"))
	}
	if c.Selection.Validity < 0 {
		errs = append(errs, errors.New("selection.validity: must be positive"))
	}
	if !strings.HasPrefix(c.Server.BasePath, "/") {
		errs = append(errs, fmt.Errorf("server.base_path: %q must start with /", c.Server.BasePath))
	}
	seen := make(map[string]bool, len(c.Applications))
	for i, a := range c.Applications {
		if strings.TrimSpace(a.Name) == "" || len(a.URLs) == 0 {
			errs = append(errs, fmt.Errorf("applications[%d]: name and urls are required", i))
			continue
		}
		if seen[a.Name] {
			errs = append(errs, fmt.Errorf("applications[%d]: duplicated name %q", i, a.Name))
		}
		seen[a.Name] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// parseApplications parsea "name=url1,url2;name2=url3" respetando el orden.
func parseApplications(s string) []StaticApplication {
	var out []StaticApplication
	for _, it := range strings.Split(s, ";") {
		it = strings.TrimSpace(it)
		// split at first '='
		i := strings.IndexRune(it, '=')
		if i <= 0 {
			continue
		}
		name := strings.TrimSpace(it[:i])
		var urls []string
		for _, u := range strings.Split(it[i+1:], ",") {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
		if name != "" && len(urls) > 0 {
			out = append(out, StaticApplication{Name: name, URLs: urls})
		}
	}
	return out
}
