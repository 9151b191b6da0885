// Package config loads the server configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/freekieb7/hearth/http"
	"github.com/freekieb7/hearth/log"
	"github.com/freekieb7/hearth/telemetry"
	"github.com/freekieb7/hearth/validation"
)

const (
	TransportTCP  = "tcp"
	TransportQUIC = "quic"
)

var (
	ConfigFile    string
	DefaultConfig = &Config{
		Server: ServerConfig{
			Addr:           http.DefaultAddr,
			Transport:      TransportTCP,
			ReadBufferSize: http.DefaultReadBufferSize,
			Workers:        http.DefaultWorkers,
		},
		Log: LogConfig{
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			ServiceName: telemetry.DefaultServiceName,
		},
		Routes: []RouteConfig{
			{Path: "/", Method: "GET", Body: "Hello, World!"},
			{Path: "/hello", Method: "GET", Body: "Hello, This is a test"},
		},
	}
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	// Static routes answered with a fixed body.
	Routes []RouteConfig `yaml:"routes,omitempty"`
}

type ServerConfig struct {
	// The address to listen on.
	Addr string `yaml:"addr"`
	// Either "tcp" or "quic".
	Transport string `yaml:"transport"`
	// The largest request, header block and body, that will be read.
	ReadBufferSize int `yaml:"read_buffer_size"`
	// Serve connections in parallel instead of one at a time.
	Concurrent bool `yaml:"concurrent,omitempty"`
	// Upper bound on parallel connections when concurrent.
	Workers      int           `yaml:"workers"`
	ReadTimeout  time.Duration `yaml:"read_timeout,omitempty"`
	WriteTimeout time.Duration `yaml:"write_timeout,omitempty"`
	// Required for QUIC.
	TLS TLSConfig `yaml:"tls,omitempty"`
}

type TLSConfig struct {
	CertFile string `yaml:"cert_file,omitempty"`
	KeyFile  string `yaml:"key_file,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json,omitempty"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint,omitempty"`
	Insecure    bool   `yaml:"insecure,omitempty"`
	ServiceName string `yaml:"service_name,omitempty"`
}

type RouteConfig struct {
	Path   string `yaml:"path"`
	Method string `yaml:"method"`
	// Defaults to 200.
	Status int    `yaml:"status,omitempty"`
	Body   string `yaml:"body"`
	// Defaults to text/plain.
	ContentType string `yaml:"content_type,omitempty"`
}

// HearthDir returns the path to the hearth configuration directory.
func HearthDir() string {
	return filepath.Join(os.Getenv("HOME"), ".hearth")
}

func getDefaultConfigPath() string {
	return filepath.Join(HearthDir(), "config.yaml")
}

// Load reads ConfigFile, falling back to the default path. A missing file
// yields a copy of DefaultConfig. Keys absent from the file keep their
// default values.
func Load() (*Config, error) {
	if ConfigFile == "" {
		ConfigFile = getDefaultConfigPath()
	}
	cfg := DefaultConfig.Clone()
	if _, err := os.Stat(ConfigFile); os.IsNotExist(err) {
		slog.Debug("config file not found, using defaults", "path", ConfigFile)
		return cfg, nil
	}

	yamlFile, err := os.ReadFile(ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("error reading YAML file: %w", err)
	}
	if err := yaml.Unmarshal(yamlFile, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	return cfg, nil
}

func ensureDirExists(filePath string) error {
	dir := filepath.Dir(filePath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// Store writes cfg to ConfigFile.
func Store(cfg *Config) error {
	yamlFile, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if ConfigFile == "" {
		ConfigFile = getDefaultConfigPath()
	}
	if err := ensureDirExists(ConfigFile); err != nil {
		return fmt.Errorf("failed to ensure directory exists: %w", err)
	}
	if err := os.WriteFile(ConfigFile, yamlFile, 0o644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}

// Clone returns a deep copy of cfg.
func (cfg *Config) Clone() *Config {
	clone := *cfg
	clone.Routes = append([]RouteConfig(nil), cfg.Routes...)
	return &clone
}

var rules = validation.Rules{
	"server.addr":             {"required", "hostport"},
	"server.transport":        {"oneof=tcp quic"},
	"server.read_buffer_size": {"min=16", "max=16777216"},
	"server.workers":          {"min=1", "max=65536"},
	"log.level":               {"oneof=debug info warn error DEBUG INFO WARN ERROR"},
	"route.path":              {"required", "prefix=/"},
	"route.method":            {"oneof=GET POST PUT DELETE PATCH HEAD OPTIONS CONNECT TRACE"},
	"route.status":            {"min=100", "max=599"},
}

// Violations checks cfg and reports every problem found, keyed by field.
func (cfg *Config) Violations() validation.Violations {
	violations := validation.ValidateMap(map[string]any{
		"server.addr":             cfg.Server.Addr,
		"server.transport":        cfg.Server.Transport,
		"server.read_buffer_size": cfg.Server.ReadBufferSize,
		"server.workers":          cfg.Server.Workers,
		"log.level":               cfg.Log.Level,
	}, rules)

	if cfg.Server.Transport == TransportQUIC && (cfg.Server.TLS.CertFile == "") != (cfg.Server.TLS.KeyFile == "") {
		violations.Add("server.tls", errors.New("server.tls needs both cert_file and key_file"))
	}

	for i, route := range cfg.Routes {
		status := route.Status
		if status == 0 {
			status = int(http.StatusOK)
		}
		routeViolations := validation.ValidateMap(map[string]any{
			"route.path":   route.Path,
			"route.method": route.Method,
			"route.status": status,
		}, rules)
		for field, errs := range routeViolations.Errors {
			for _, err := range errs {
				violations.Add("routes["+strconv.Itoa(i)+"]."+field[len("route."):], err)
			}
		}
	}
	return violations
}

// Validate returns every problem with cfg joined into one error, or nil.
func (cfg *Config) Validate() error {
	return cfg.Violations().Err()
}

// LogOptions translates the log section into logger options.
func (cfg *Config) LogOptions() ([]log.Option, error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	opts := []log.Option{log.WithLevel(level)}
	if cfg.Log.JSON {
		opts = append(opts, log.WithJSON())
	}
	if cfg.Telemetry.Enabled {
		opts = append(opts, log.WithOTel(cfg.Telemetry.ServiceName))
	}
	return opts, nil
}

// TelemetryConfig translates the telemetry section.
func (cfg *Config) TelemetryConfig() telemetry.Config {
	return telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		ServiceName: cfg.Telemetry.ServiceName,
	}
}

// Apply copies the server section onto srv.
func (cfg *Config) Apply(srv *http.Server) {
	srv.ReadBufferSize = cfg.Server.ReadBufferSize
	srv.Concurrent = cfg.Server.Concurrent
	srv.Workers = cfg.Server.Workers
	srv.ReadTimeout = cfg.Server.ReadTimeout
	srv.WriteTimeout = cfg.Server.WriteTimeout
}

// Register adds the configured static routes to router.
func (cfg *Config) Register(router *http.Router) {
	for _, route := range cfg.Routes {
		method, _ := http.LookupMethod(route.Method)
		router.Handle(route.Path, method, route.Handler())
	}
}

// Handler answers with the route's fixed status, content type and body.
func (route RouteConfig) Handler() http.Handler {
	status := http.StatusOK
	if route.Status != 0 {
		status = http.StatusFromCode(route.Status)
	}
	contentType := route.ContentType
	if contentType == "" {
		contentType = http.MimeTextPlain
	}
	body := []byte(route.Body)

	return http.HandlerFunc(func(*http.Request) *http.Response {
		return http.NewResponse().
			WithStatus(status).
			WithHeader(http.HeaderContentType, contentType).
			WithBody(body)
	})
}
