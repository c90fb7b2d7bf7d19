package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// envPrefix is prepended to every environment override variable.
const envPrefix = "BRIDGEWATCH_"

// Config represents the bridgewatch process configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Storage    StorageConfig    `yaml:"storage"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Consumer   ConsumerConfig   `yaml:"consumer"`
	Bridge     BridgeConfig     `yaml:"bridge"`
	Batching   BatchingConfig   `yaml:"batching"`
	Notify     NotifyConfig     `yaml:"notify"`
	Auth       AuthConfig       `yaml:"auth"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Shutdown   ShutdownConfig   `yaml:"shutdown"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `yaml:"host" default:"0.0.0.0"`
	Port              int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout       time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout      time.Duration `yaml:"write_timeout" default:"15s"`
	IdleTimeout       time.Duration `yaml:"idle_timeout" default:"60s"`
	MiddlewareTimeout time.Duration `yaml:"middleware_timeout" default:"60s"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host" default:"localhost"`
	Port     int    `yaml:"port" default:"5432"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database" default:"bridgewatch"`
	SSLMode  string `yaml:"ssl_mode" default:"disable"`

	MaxOpenConns    int           `yaml:"max_open_conns" default:"10" validate:"min=1"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" default:"5m"`
	DialTimeout     time.Duration `yaml:"dial_timeout" default:"5s"`
	ConnectAttempts int           `yaml:"connect_attempts" default:"5" validate:"min=1"`
}

// StorageConfig selects the persistence backend for rules, alerts and the bridge graph
type StorageConfig struct {
	Driver string `yaml:"driver" default:"postgres" validate:"oneof=postgres memory"`
}

// KafkaConfig contains queue transport settings
type KafkaConfig struct {
	Enabled           bool          `yaml:"enabled" default:"true"`
	Brokers           []string      `yaml:"brokers"`
	ConsumerGroup     string        `yaml:"consumer_group" default:"bridgewatch-monitor"`
	EventsTopic       string        `yaml:"events_topic" default:"canonical-events"`
	DeadLetterTopic   string        `yaml:"dead_letter_topic" default:"canonical-events-dlq"`
	BatchesTopic      string        `yaml:"batches_topic" default:"alert-batches"`
	StartOffset       string        `yaml:"start_offset" default:"earliest" validate:"oneof=earliest latest"`
	MinBytes          int           `yaml:"min_bytes" default:"1"`
	MaxBytes          int           `yaml:"max_bytes" default:"10485760"`
	MaxWait           time.Duration `yaml:"max_wait" default:"500ms"`
	SessionTimeout    time.Duration `yaml:"session_timeout" default:"30s"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval" default:"3s"`
	WriteTimeout      time.Duration `yaml:"write_timeout" default:"10s"`
	DialTimeout       time.Duration `yaml:"dial_timeout" default:"10s"`
}

// ConsumerConfig contains monitor consumer settings
type ConsumerConfig struct {
	MaxRetries          int           `yaml:"max_retries" default:"3" validate:"min=0"`
	RetryBackoff        time.Duration `yaml:"retry_backoff" default:"500ms"`
	FetchErrorBackoff   time.Duration `yaml:"fetch_error_backoff" default:"1s"`
	RuleRefreshInterval time.Duration `yaml:"rule_refresh_interval" default:"10s"`
	GraphTimeout        time.Duration `yaml:"graph_timeout" default:"5s"`
	CommitTimeout       time.Duration `yaml:"commit_timeout" default:"10s"`
}

// BridgeConfig contains bridge detection overrides supplied by the operator
type BridgeConfig struct {
	TopicNamesFile string           `yaml:"topic_names_file"`
	EventSpecsFile string           `yaml:"event_specs_file"`
	TopicNamesJSON string           `yaml:"-"`
	EventSpecsJSON string           `yaml:"-"`
	Contracts      []ContractConfig `yaml:"contracts" validate:"dive"`
}

// ContractConfig describes an operator-registered bridge contract
type ContractConfig struct {
	Address           string   `yaml:"address" validate:"required"`
	Chain             string   `yaml:"chain" validate:"required"`
	Name              string   `yaml:"name" validate:"required"`
	Type              string   `yaml:"type" validate:"omitempty,oneof=canonical third_party"`
	CounterpartChains []string `yaml:"counterpart_chains"`
	MethodSelectors   []string `yaml:"method_selectors"`
}

// BatchingConfig contains alert batching thresholds
type BatchingConfig struct {
	DefaultMaxSize int                       `yaml:"default_max_size" default:"50" validate:"min=1"`
	DefaultMaxAge  time.Duration             `yaml:"default_max_age" default:"60s"`
	CheckInterval  time.Duration             `yaml:"check_interval" default:"30s"`
	DispatchBuffer int                       `yaml:"dispatch_buffer" default:"64" validate:"min=1"`
	SinkTimeout    time.Duration             `yaml:"sink_timeout" default:"10s"`
	Types          map[string]BatchThreshold `yaml:"types" validate:"dive"`
}

// BatchThreshold overrides batching thresholds for one alert type
type BatchThreshold struct {
	MaxSize int           `yaml:"max_size" validate:"min=1"`
	MaxAge  time.Duration `yaml:"max_age"`
}

// NotifyConfig contains downstream notification settings
type NotifyConfig struct {
	Slack SlackConfig `yaml:"slack"`
}

// SlackConfig contains Slack notification settings
type SlackConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

// AuthConfig contains management API authentication settings
// An empty JWKS URL leaves the API unauthenticated.
type AuthConfig struct {
	JWKSURL  string `yaml:"jwks_url"`
	Issuer   string `yaml:"issuer"`
	Audience string `yaml:"audience"`
}

// MonitoringConfig contains monitoring and metrics settings
type MonitoringConfig struct {
	Enabled bool `yaml:"enabled" default:"true"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `yaml:"level" default:"info"`
	Format     string `yaml:"format" default:"json" validate:"oneof=json console"`
	OutputPath string `yaml:"output_path" default:"stdout"`
	Sampling   bool   `yaml:"sampling" default:"true"`
}

// ShutdownConfig contains graceful shutdown settings
type ShutdownConfig struct {
	Timeout time.Duration `yaml:"timeout" default:"30s"`
}

// Load fills defaults, overlays the YAML file at path, applies environment overrides and validates the result.
// A missing file is not an error: defaults plus environment are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to set config defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg.Batching.applyBuiltinTypes()

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks struct tags and cross-field requirements.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Storage.Driver == "postgres" && c.Database.Host == "" {
		return fmt.Errorf("database.host is required for postgres storage")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	if c.Notify.Slack.Enabled && (c.Notify.Slack.Token == "" || c.Notify.Slack.Channel == "") {
		return fmt.Errorf("notify.slack.token and notify.slack.channel are required when slack is enabled")
	}
	return nil
}

// applyBuiltinTypes adds the built-in per-type thresholds unless the file already configures them.
func (b *BatchingConfig) applyBuiltinTypes() {
	if b.Types == nil {
		b.Types = make(map[string]BatchThreshold)
	}
	builtin := map[string]BatchThreshold{
		"large_transfer":    {MaxSize: 100, MaxAge: 120 * time.Second},
		"sanctioned_entity": {MaxSize: 25, MaxAge: 30 * time.Second},
	}
	for name, th := range builtin {
		if _, ok := b.Types[name]; !ok {
			b.Types[name] = th
		}
	}
}

func (c *Config) applyEnvOverrides() error {
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv("HTTP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sHTTP_PORT: %w", envPrefix, err)
		}
		c.Server.Port = port
	}
	if v, ok := lookupEnv("STORAGE_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := lookupEnv("DB_HOST"); ok {
		c.Database.Host = v
	}
	if v, ok := lookupEnv("DB_USER"); ok {
		c.Database.User = v
	}
	if v, ok := lookupEnv("DB_PASSWORD"); ok {
		c.Database.Password = v
	}
	if v, ok := lookupEnv("DB_NAME"); ok {
		c.Database.Database = v
	}
	if v, ok := lookupEnv("KAFKA_BROKERS"); ok {
		c.Kafka.Brokers = splitAndTrim(v)
	}
	if v, ok := lookupEnv("KAFKA_ENABLED"); ok {
		c.Kafka.Enabled = v == "true"
	}
	if v, ok := lookupEnv("BRIDGE_TOPIC_NAMES"); ok {
		c.Bridge.TopicNamesJSON = v
	}
	if v, ok := lookupEnv("BRIDGE_EVENT_SPECS"); ok {
		c.Bridge.EventSpecsJSON = v
	}
	if v, ok := lookupEnv("SLACK_TOKEN"); ok {
		c.Notify.Slack.Token = v
		c.Notify.Slack.Enabled = true
	}
	return nil
}

func lookupEnv(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func splitAndTrim(s string) []string {
	var parts []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
