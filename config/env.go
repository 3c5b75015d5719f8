package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	TransportREST = "rest"
	TransportGRPC = "grpc"
)

type (
	AppConfig struct {
		Name        string `mapstructure:"name"`
		Version     string `mapstructure:"version"`
		Port        int    `mapstructure:"port"`
		Environment string `mapstructure:"environment"`
		PathPrefix  string `mapstructure:"path_prefix"` // Optional, can be used to set a base path for the application
		Timeout     int    `mapstructure:"timeout"`     // request timeout in seconds
	}

	LoggerConfig struct {
		Level       string `mapstructure:"level"`
		Format      string `mapstructure:"format"`
		FilePath    string `mapstructure:"filepath"`
		MaxSize     int    `mapstructure:"max_size"`
		MaxAge      int    `mapstructure:"max_age"`
		MaxBackups  int    `mapstructure:"max_backups"`
		Compress    bool   `mapstructure:"compress"`
		LocalTime   bool   `mapstructure:"localTime"`
		Environment string
	}

	// DiagnosticConfig holds the init parameters of the diagnostic context filter.
	DiagnosticConfig struct {
		CorrelationIDHeaderName string `mapstructure:"correlation_id_header_name"`
	}

	CORSConfig struct {
		Enabled          bool     `mapstructure:"enabled"`
		AllowedOrigins   []string `mapstructure:"allowed_origins"`
		AllowedMethods   []string `mapstructure:"allowed_methods"`
		AllowedHeaders   []string `mapstructure:"allowed_headers"`
		ExposedHeaders   []string `mapstructure:"exposed_headers"`
		AllowCredentials bool     `mapstructure:"allow_credentials"`
		MaxAge           int      `mapstructure:"max_age"`
	}

	MetricsConfig struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	}

	GRPCConfig struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	}

	// AuthConfig configures service-to-service JWT authentication.
	// An empty secret disables both signing and verification.
	AuthConfig struct {
		Secret string `mapstructure:"secret"`
		Issuer string `mapstructure:"issuer"`
		TTL    int    `mapstructure:"ttl"` // seconds
	}

	RedisConfig struct {
		Enabled    bool   `mapstructure:"enabled"`
		Type       string `mapstructure:"type"`
		Addrs      string `mapstructure:"addrs"`
		MasterName string `mapstructure:"master_name"`
		Password   string `mapstructure:"password"`
		DB         int    `mapstructure:"db"`
	}

	CacheConfig struct {
		Type       string `mapstructure:"type"`
		Capacity   int    `mapstructure:"capacity"`
		DefaultTTL int    `mapstructure:"default_ttl"`
		RedisTTL   int    `mapstructure:"redis_ttl"`
	}

	// ServiceConfig describes one remote service a client can be created for.
	ServiceConfig struct {
		URL          string `mapstructure:"url"            validate:"required"`
		Transport    string `mapstructure:"transport"      validate:"omitempty,oneof=rest grpc"`
		Timeout      int    `mapstructure:"timeout"        validate:"gte=0"`
		RetryMax     int    `mapstructure:"retry_max"      validate:"gte=0"`
		RetryWaitMin int    `mapstructure:"retry_wait_min" validate:"gte=0"` // milliseconds
		RetryWaitMax int    `mapstructure:"retry_wait_max" validate:"gte=0"` // milliseconds
	}
)

type Env struct {
	AppConfig        AppConfig                `mapstructure:"app"`
	LoggerConfig     LoggerConfig             `mapstructure:"logging"`
	DiagnosticConfig DiagnosticConfig         `mapstructure:"diagnostic"`
	CORSConfig       CORSConfig               `mapstructure:"cors"`
	MetricsConfig    MetricsConfig            `mapstructure:"metrics"`
	GRPCConfig       GRPCConfig               `mapstructure:"grpc"`
	AuthConfig       AuthConfig               `mapstructure:"auth"`
	RedisConfig      RedisConfig              `mapstructure:"redis"`
	CacheConfig      CacheConfig              `mapstructure:"cache"`
	Services         map[string]ServiceConfig `mapstructure:"services"`
}

// InitParameter exposes the diagnostic section under the names the diagnostic
// context filter asks for.
func (c DiagnosticConfig) InitParameter(name string) (string, bool) {
	switch name {
	case "correlationIdHeaderName":
		if c.CorrelationIDHeaderName == "" {
			return "", false
		}
		return c.CorrelationIDHeaderName, true
	default:
		return "", false
	}
}

// TransportOrDefault returns the configured transport, falling back to REST.
func (c ServiceConfig) TransportOrDefault() string {
	if c.Transport == "" {
		return TransportREST
	}
	return c.Transport
}

var validate = validator.New()

var env *Env

// Load reads the configuration from the first config.yaml found in paths
// (./config when none are given), overlays environment variables and
// validates the result.
func Load(paths ...string) (*Env, error) {
	v := viper.New()
	v.SetConfigName("config") // Config file name without extension
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	/*
	   AutomaticEnv checks for an environment variable any time a Get request is made:
	   the key uppercased and prefixed with the EnvPrefix (e.g. app.port -> ENV_APP_PORT).
	*/
	v.AutomaticEnv()
	v.SetEnvPrefix("env")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.BindEnv("app.name", "APP_NAME")
	v.BindEnv("auth.secret", "SERVICE_AUTH_SECRET")

	v.SetDefault("app.port", 8080)
	v.SetDefault("app.timeout", 5)
	v.SetDefault("logging.level", "info")
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("grpc.port", 9090)
	v.SetDefault("auth.issuer", "service-kit")
	v.SetDefault("auth.ttl", 60)
	v.SetDefault("cache.type", "LRU")
	v.SetDefault("cache.capacity", 1000)
	v.SetDefault("cache.default_ttl", 60)
	v.SetDefault("cache.redis_ttl", 300)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var e Env
	if err := v.Unmarshal(&e); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	for name, svc := range e.Services {
		if err := validate.Struct(svc); err != nil {
			return nil, fmt.Errorf("invalid configuration for service %q: %w", name, err)
		}
	}

	e.LoggerConfig.Environment = e.AppConfig.Environment // Set the logger environment from app config
	if e.AppConfig.Environment == "production" {
		e.LoggerConfig.Level = "info" // Default to info level in production
	}

	return &e, nil
}

func GetEnv() *Env {
	if env != nil {
		return env
	}
	loaded, err := Load()
	if err != nil {
		log.Fatalf("Error loading configuration, %s", err)
	}
	env = loaded
	printStartupConfig(env)
	return env
}

func printStartupConfig(env *Env) {
	line := strings.Repeat("=", 40)
	fmt.Println(line)
	fmt.Println("🚀 Application Configuration")
	fmt.Println(line)

	fmt.Printf("%-15s: %s\n", "App Name", env.AppConfig.Name)
	fmt.Printf("%-15s: %s\n", "Version", env.AppConfig.Version)
	fmt.Printf("%-15s: %s\n", "Environment", env.AppConfig.Environment)
	fmt.Printf("%-15s: %d\n", "Port", env.AppConfig.Port)
	fmt.Printf("%-15s: %s\n", "Log Level", env.LoggerConfig.Level)
	fmt.Printf("%-15s: %d\n", "Services", len(env.Services))

	fmt.Println(line)
}
