package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kundanj/leadpilot/internal/entity"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig      `yaml:"server" mapstructure:"server"`
	Log       LogConfig         `yaml:"log" mapstructure:"log"`
	Anthropic AnthropicConfig   `yaml:"anthropic" mapstructure:"anthropic"`
	SMTP      SMTPConfig        `yaml:"smtp" mapstructure:"smtp"`
	CRM       CRMConfig         `yaml:"crm" mapstructure:"crm"`
	Database  DatabaseConfig    `yaml:"database" mapstructure:"database"`
	Queue     QueueConfig       `yaml:"queue" mapstructure:"queue"`
	Assignees []entity.Assignee `yaml:"assignees" mapstructure:"assignees"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SMTPConfig holds outbound mail settings.
type SMTPConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	From     string `yaml:"from" mapstructure:"from"`
}

// CRMConfig holds the CRM endpoint settings.
type CRMConfig struct {
	URL    string `yaml:"url" mapstructure:"url"`
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
}

// DatabaseConfig configures the relational store behind /query.
type DatabaseConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
}

// QueueConfig configures the RabbitMQ audit trail (optional).
type QueueConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
}

// defaultAssignees seeds the directory when no assignees are configured.
var defaultAssignees = []entity.Assignee{
	{ID: "7294", Name: "Kundan", Email: "bitise8899@gmail.com"},
	{ID: "7319", Name: "Nikhil", Email: "ravi.patel@example.com"},
	{ID: "7295", Name: "Nisha Verma", Email: "nisha.verma@example.com"},
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Secrets default to empty so their keys are still known to
	// viper and can be supplied through the environment alone.
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("crm.url", "")
	v.SetDefault("crm.api_key", "")
	v.SetDefault("database.url", "")
	v.SetDefault("queue.url", "")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if len(cfg.Assignees) == 0 {
		cfg.Assignees = defaultAssignees
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
