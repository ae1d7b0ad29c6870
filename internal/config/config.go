package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server   ServerConfig            `mapstructure:"server"`   // 服务器配置
	Database DatabaseConfig          `mapstructure:"database"` // PostgreSQL配置
	Sync     SyncConfig              `mapstructure:"sync"`     // 艺人同步配置
	Ingest   IngestConfig            `mapstructure:"ingest"`   // 活动导入配置
	Sources  map[string]SourceConfig `mapstructure:"sources"`  // 多数据源独立配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// DatabaseConfig PostgreSQL数据库配置
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// SyncConfig 艺人批量同步配置
type SyncConfig struct {
	ChunkSize  int           `mapstructure:"chunk_size"`  // 单批并发数（外部API限流）
	ChunkDelay time.Duration `mapstructure:"chunk_delay"` // 批间固定延迟
	AuthToken  string        `mapstructure:"auth_token"`  // 批量同步接口的Bearer令牌
}

// IngestConfig 活动导入配置
type IngestConfig struct {
	DefaultTime string `mapstructure:"default_time"` // 时间解析失败时的兜底值（24小时HH:MM）
}

// SourceConfig 单个外部数据源的独立配置
type SourceConfig struct {
	BaseURL      string `mapstructure:"base_url"`      // API基础地址
	TokenURL     string `mapstructure:"token_url"`     // OAuth令牌地址（仅Spotify用）
	ClientID     string `mapstructure:"client_id"`     // Spotify专属Client ID
	ClientSecret string `mapstructure:"client_secret"` // Spotify专属Client Secret
	APIKey       string `mapstructure:"api_key"`       // Last.fm专属API Key
	UserAgent    string `mapstructure:"user_agent"`    // MusicBrainz要求的User-Agent
	Timeout      int    `mapstructure:"timeout"`       // 请求超时（秒）
	RetryCount   int    `mapstructure:"retry_count"`   // 重试次数
	Proxy        string `mapstructure:"proxy"`         // 代理地址
}

// 同步调度默认值（与外部API限流约定一致）
const (
	DefaultChunkSize  = 5
	DefaultChunkDelay = time.Second
)

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 兜底默认值
	if cfg.Sync.ChunkSize <= 0 {
		cfg.Sync.ChunkSize = DefaultChunkSize
	}
	if cfg.Sync.ChunkDelay <= 0 {
		cfg.Sync.ChunkDelay = DefaultChunkDelay
	}
	if cfg.Ingest.DefaultTime == "" {
		cfg.Ingest.DefaultTime = "20:00"
	}

	// 4. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if s, ok := cfg.Sources["spotify"]; ok {
		if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
			s.ClientID = v
		}
		if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
			s.ClientSecret = v
		}
		cfg.Sources["spotify"] = s
	}
	if s, ok := cfg.Sources["lastfm"]; ok {
		if v := os.Getenv("LASTFM_API_KEY"); v != "" {
			s.APIKey = v
		}
		cfg.Sources["lastfm"] = s
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("SYNC_AUTH_TOKEN"); v != "" {
		cfg.Sync.AuthToken = v
	}
}
