package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Log        LogConfig `mapstructure:"log"`
	Storage    StorageConfig
	Tracing    TracingConfig `mapstructure:"tracing"`
	Redis      RedisConfig
	AI         AIConfig
	YouTube    YouTubeConfig    `mapstructure:"youtube"`
	Generation GenerationConfig `mapstructure:"generation"`
	CORS       CORSConfig       `mapstructure:"cors"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	// mysql | postgres | sqlite
	Driver    string `mapstructure:"driver"`
	DSN       string `mapstructure:"dsn"`
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool `mapstructure:"parse_time"`
	SSLMode   string `mapstructure:"ssl_mode"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type LogConfig struct {
	File string `mapstructure:"file"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type RedisConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Host     string
	Port     int
	Password string
	DB       int
}

// AIConfig OpenAI 兼容接口配置，默认指向 Gemini 的兼容端点
type AIConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	APIKey            string `mapstructure:"api_key"`
	Model             string `mapstructure:"model"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

func (c AIConfig) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

type YouTubeConfig struct {
	APIKey     string `mapstructure:"api_key"`
	MaxResults int64  `mapstructure:"max_results"`
}

func (c YouTubeConfig) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

type GenerationConfig struct {
	IncludeHomework bool `mapstructure:"include_homework"`
	ResumeOnStart   bool `mapstructure:"resume_on_start"`
	// 课程生成锁的过期时间（分钟），Redis 锁使用
	LockTTLMinutes int `mapstructure:"lock_ttl_minutes"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.ssl_mode", "disable")

	v.SetDefault("jwt.expire_hours", 168)
	v.SetDefault("log.file", "logs/app.log")

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "uploads")

	v.SetDefault("tracing.service_name", "ai-tutor-backend")
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("redis.port", 6379)

	v.SetDefault("ai.base_url", "https://generativelanguage.googleapis.com/v1beta/openai")
	v.SetDefault("ai.model", "gemini-2.5-flash")
	v.SetDefault("ai.timeout_seconds", 120)
	v.SetDefault("ai.requests_per_minute", 60)

	v.SetDefault("youtube.max_results", 3)

	v.SetDefault("generation.include_homework", true)
	v.SetDefault("generation.resume_on_start", true)
	v.SetDefault("generation.lock_ttl_minutes", 60)

	v.SetDefault("cors.allowed_origins", []string{
		"http://localhost:5173",
		"http://localhost:5174",
	})

	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("AI_TUTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.dsn", "DATABASE_URL")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	v.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.port", "PORT")

	// AI
	v.BindEnv("ai.base_url", "AI_BASE_URL")
	v.BindEnv("ai.api_key", "AI_API_KEY", "GEMINI_API_KEY")
	v.BindEnv("ai.model", "AI_MODEL")

	// YouTube
	v.BindEnv("youtube.api_key", "YOUTUBE_API_KEY")

	// Storage
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")
	v.BindEnv("storage.oss_endpoint", "OSS_ENDPOINT")
	v.BindEnv("storage.oss_access_key", "OSS_ACCESS_KEY")
	v.BindEnv("storage.oss_secret_key", "OSS_SECRET_KEY")
	v.BindEnv("storage.oss_bucket", "OSS_BUCKET")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.endpoint", "TRACING_ENDPOINT")
}

// LoadConfig 读取 path 目录下的 config.yaml，环境变量优先
func LoadConfig(path string) (*Config, error) {
	// .env.local 优先于 .env，文件不存在时忽略
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" && cfg.Storage.LocalPath != "" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required (set JWT_SECRET)")
	}
	// 生产环境校验 JWT Secret 强度
	if c.Server.Mode == "release" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.Secret))
	}
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	return nil
}
