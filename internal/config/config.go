// internal/config/config.go
package config

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig は進捗スナップショットのキャッシュ先です。Addr が空ならメモリを使います。
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type AppConfig struct {
	Name                 string `mapstructure:"name"`
	FrontendURL          string `mapstructure:"frontend_url"`
	CertificateThreshold int    `mapstructure:"certificate_threshold"` // 修了証を申請できる進捗率 (%)
}

type AuthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type JWTConfig struct {
	SecretKey      string        `mapstructure:"secret_key"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	RefreshWindow  time.Duration `mapstructure:"refresh_window"` // 発行からこの期間内ならリフレッシュ可能
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type MailerConfig struct {
	Type         string `mapstructure:"type"` // log | smtp | ses
	AdminAddress string `mapstructure:"admin_address"`
}

type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	From string `mapstructure:"from"`
}

type SESConfig struct {
	Region          string `mapstructure:"region"`
	From            string `mapstructure:"from"`
	AuthType        string `mapstructure:"auth_type"` // iam_role | static_credentials
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	App      AppConfig      `mapstructure:"app"`
	Auth     AuthConfig     `mapstructure:"auth"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Log      LogConfig      `mapstructure:"log"`
	Mailer   MailerConfig   `mapstructure:"mailer"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	SES      SESConfig      `mapstructure:"ses"`
}

// LoadConfig は path 配下の config.yaml と環境変数から設定を読み込みます。
// 設定ファイルが無くてもエラーにはせず、デフォルト値と環境変数で起動できます。
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	// APP_SERVER_PORT のように接頭辞付きでも上書きできる
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("auth.enabled", "AUTH_ENABLED")
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("jwt.secret_key", "JWT_SECRET")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			slog.Warn("Config file not found. Using default settings and environment variables.", slog.String("path", path))
		} else {
			slog.Error("Error reading config file", slog.Any("error", err))
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("Error unmarshalling config", slog.Any("error", err))
		return nil, err
	}

	// --- デフォルト値の設定 ---
	if cfg.Server.Port == "" {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.App.Name == "" {
		cfg.App.Name = AppName
	}
	if cfg.App.CertificateThreshold <= 0 || cfg.App.CertificateThreshold > 100 {
		cfg.App.CertificateThreshold = DefaultCertificateThreshold
	}
	if cfg.JWT.AccessTokenTTL <= 0 {
		cfg.JWT.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if cfg.JWT.RefreshWindow <= 0 {
		cfg.JWT.RefreshWindow = DefaultRefreshWindow
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = DefaultProgressCacheTTL
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Mailer.Type == "" {
		cfg.Mailer.Type = DefaultMailerType
	}
	if cfg.Database.URL == "" {
		slog.Warn("Database URL is not set in config.")
	}
	// 明示的に設定されていなければ認証は有効
	if !v.IsSet("auth.enabled") {
		cfg.Auth.Enabled = DefaultAuthEnabled
	}

	slog.Info("Config loaded successfully",
		slog.String("port", cfg.Server.Port),
		slog.Bool("auth_enabled", cfg.Auth.Enabled),
		slog.Bool("redis_cache", cfg.Redis.Addr != ""),
		slog.String("mailer", cfg.Mailer.Type),
	)
	return &cfg, nil
}
