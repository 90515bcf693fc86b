// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Scorer     ScorerConfig     `yaml:"scorer" mapstructure:"scorer"`
	Matcher    MatcherConfig    `yaml:"matcher" mapstructure:"matcher"`
	Compliance ComplianceConfig `yaml:"compliance" mapstructure:"compliance"`
	Outreach   OutreachConfig   `yaml:"outreach" mapstructure:"outreach"`
	Transport  TransportConfig  `yaml:"transport" mapstructure:"transport"`
	ESign      ESignConfig      `yaml:"esign" mapstructure:"esign"`
	Intent     IntentConfig     `yaml:"intent" mapstructure:"intent"`
	Notify     NotifyConfig     `yaml:"notify" mapstructure:"notify"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ScorerConfig holds the tunable inputs of the Eleanor scorer. The funds
// breakpoints themselves are fixed in the scorer; everything callers have
// ever wanted to tune lives here.
type ScorerConfig struct {
	EquityThreshold float64 `yaml:"equity_threshold" mapstructure:"equity_threshold"`
	EquityBonus     int     `yaml:"equity_bonus" mapstructure:"equity_bonus"`
	PhoneBonus      int     `yaml:"phone_bonus" mapstructure:"phone_bonus"`
	EmailBonus      int     `yaml:"email_bonus" mapstructure:"email_bonus"`
	ZipBonus        int     `yaml:"zip_bonus" mapstructure:"zip_bonus"`

	// PremiumZips lists zip codes that earn the location bonus.
	PremiumZips []string `yaml:"premium_zips" mapstructure:"premium_zips"`

	// Fee rates used for projected revenue.
	FundsFeeRate      float64 `yaml:"funds_fee_rate" mapstructure:"funds_fee_rate"`
	AssignmentFeeRate float64 `yaml:"assignment_fee_rate" mapstructure:"assignment_fee_rate"`
}

// MatcherConfig configures golden-match promotion.
type MatcherConfig struct {
	// PromoteMinScore promotes a candidate whose lead score meets this
	// threshold (an active/pending listing promotes regardless).
	PromoteMinScore int `yaml:"promote_min_score" mapstructure:"promote_min_score"`

	// MinLastTokenLen is the minimum surname-token length considered for
	// overlap; shorter tokens produce too many false positives.
	MinLastTokenLen int `yaml:"min_last_token_len" mapstructure:"min_last_token_len"`
}

// ComplianceConfig configures the contact gate.
type ComplianceConfig struct {
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`

	// Contact-hours window in local time, inclusive start, exclusive end.
	ContactHourStart int `yaml:"contact_hour_start" mapstructure:"contact_hour_start"`
	ContactHourEnd   int `yaml:"contact_hour_end" mapstructure:"contact_hour_end"`

	DailyCap int `yaml:"daily_cap" mapstructure:"daily_cap"`
}

// OutreachConfig configures the outreach state machine and batch runner.
type OutreachConfig struct {
	// MessagesPerSecond spaces outbound sends to respect transport limits.
	MessagesPerSecond float64 `yaml:"messages_per_second" mapstructure:"messages_per_second"`

	// InitialMessage is the first-contact template; StageMessages are the
	// follow-up templates indexed by stage 1-4.
	InitialMessage string   `yaml:"initial_message" mapstructure:"initial_message"`
	StageMessages  []string `yaml:"stage_messages" mapstructure:"stage_messages"`

	// BatchLimit caps how many due leads one tick processes.
	BatchLimit int `yaml:"batch_limit" mapstructure:"batch_limit"`
}

// TransportConfig configures the SMS/voice transport webhook.
type TransportConfig struct {
	URL         string `yaml:"url" mapstructure:"url"`
	Token       string `yaml:"token" mapstructure:"token"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ESignConfig configures the contract-generation service.
type ESignConfig struct {
	URL         string `yaml:"url" mapstructure:"url"`
	Token       string `yaml:"token" mapstructure:"token"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// IntentConfig configures inbound-reply intent classification.
type IntentConfig struct {
	// Provider is "keyword" (built-in, deterministic) or "webhook".
	Provider    string `yaml:"provider" mapstructure:"provider"`
	URL         string `yaml:"url" mapstructure:"url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// NotifyConfig configures fire-and-forget human-visible notifications.
type NotifyConfig struct {
	WebhookURL string `yaml:"webhook_url" mapstructure:"webhook_url"`
}

// ServerConfig configures the projection-layer HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RECOVERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "recovery.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("scorer.equity_threshold", 25_000)
	v.SetDefault("scorer.equity_bonus", 20)
	v.SetDefault("scorer.phone_bonus", 25)
	v.SetDefault("scorer.email_bonus", 10)
	v.SetDefault("scorer.zip_bonus", 15)
	v.SetDefault("scorer.funds_fee_rate", 0.25)
	v.SetDefault("scorer.assignment_fee_rate", 0.10)
	v.SetDefault("matcher.promote_min_score", 60)
	v.SetDefault("matcher.min_last_token_len", 4)
	v.SetDefault("compliance.max_attempts", 5)
	v.SetDefault("compliance.contact_hour_start", 9)
	v.SetDefault("compliance.contact_hour_end", 20)
	v.SetDefault("compliance.daily_cap", 100)
	v.SetDefault("outreach.messages_per_second", 1.0)
	v.SetDefault("outreach.batch_limit", 200)
	v.SetDefault("outreach.initial_message",
		"Hi {name}, we located funds that may belong to you. Reply YES to learn more, or STOP to opt out.")
	v.SetDefault("outreach.stage_messages", []string{
		"Hi {name}, following up on the funds we located for you. Reply YES for details.",
		"{name}, your claim is still unassigned. Reply YES and we will walk you through it.",
		"Quick reminder {name}: there is a filing window on recovered funds. Reply YES to start.",
		"Last note from us, {name}. Reply YES any time and we will pick it back up.",
	})
	v.SetDefault("transport.timeout_secs", 15)
	v.SetDefault("esign.timeout_secs", 30)
	v.SetDefault("intent.provider", "keyword")
	v.SetDefault("intent.timeout_secs", 10)

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
