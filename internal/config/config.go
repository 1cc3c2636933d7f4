package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig              `mapstructure:"app"`
	Server    ServerConfig           `mapstructure:"server"`
	Log       LogConfig              `mapstructure:"log"`
	DB        DBConfig               `mapstructure:"db"`
	Auth      AuthConfig             `mapstructure:"auth"`
	OKX       OKXConfig              `mapstructure:"okx"`
	CoinGecko CoinGeckoConfig        `mapstructure:"coingecko"`
	Twitter   TwitterConfig          `mapstructure:"twitter"`
	AI        AIConfig               `mapstructure:"ai"`
	Chains    map[string]ChainConfig `mapstructure:"chains"`
	Retention RetentionConfig        `mapstructure:"retention"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type AuthConfig struct {
	AccessCode string `mapstructure:"access_code"`
}

type OKXConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	SecretKey    string        `mapstructure:"secret_key"`
	Passphrase   string        `mapstructure:"passphrase"`
	ProjectID    string        `mapstructure:"project_id"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
}

type CoinGeckoConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type TwitterConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Host    string        `mapstructure:"host"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type AIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	Model          string        `mapstructure:"model"`
	SocialModel    string        `mapstructure:"social_model"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	ProfileCharMax int           `mapstructure:"profile_char_max"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// ChainConfig maps one logical blockchain to its provider identifiers:
// the OKX aggregator chain id, the reference USDC mint used for unit quotes,
// and the CoinGecko asset platform id.
type ChainConfig struct {
	ChainID     string `mapstructure:"chain_id"`
	USDCAddress string `mapstructure:"usdc_address"`
	PlatformID  string `mapstructure:"platform_id"`
}

type RetentionConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Schedule string        `mapstructure:"schedule"`
	MaxAge   time.Duration `mapstructure:"max_age"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	// Secrets default to empty so env-only mode still binds them: viper only
	// surfaces TL_* values for keys it already knows about.
	v.SetDefault("db.dsn", "")
	v.SetDefault("auth.access_code", "")
	v.SetDefault("okx.api_key", "")
	v.SetDefault("okx.secret_key", "")
	v.SetDefault("okx.passphrase", "")
	v.SetDefault("okx.project_id", "")
	v.SetDefault("coingecko.api_key", "")
	v.SetDefault("twitter.api_key", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("okx.base_url", "https://www.okx.com")
	v.SetDefault("okx.timeout", "15s")
	v.SetDefault("okx.max_attempts", 3)
	v.SetDefault("okx.retry_backoff", "1s")
	v.SetDefault("coingecko.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("coingecko.timeout", "15s")
	v.SetDefault("twitter.base_url", "https://twitter-api45.p.rapidapi.com")
	v.SetDefault("twitter.host", "twitter-api45.p.rapidapi.com")
	v.SetDefault("twitter.timeout", "20s")
	v.SetDefault("ai.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("ai.model", "deepseek/deepseek-prover-v2:free")
	v.SetDefault("ai.social_model", "deepseek/deepseek-r1:free")
	v.SetDefault("ai.max_tokens", 3000)
	v.SetDefault("ai.profile_char_max", 15000)
	v.SetDefault("ai.timeout", "90s")
	v.SetDefault("chains.sol.chain_id", "501")
	v.SetDefault("chains.sol.usdc_address", "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	v.SetDefault("chains.sol.platform_id", "solana")
	v.SetDefault("chains.base.chain_id", "8453")
	v.SetDefault("chains.base.usdc_address", "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")
	v.SetDefault("chains.base.platform_id", "base")
	v.SetDefault("retention.enabled", false)
	v.SetDefault("retention.schedule", "@daily")
	v.SetDefault("retention.max_age", "2160h")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
