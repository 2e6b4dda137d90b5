package conf

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lk2023060901/osint-analysis-backend/internal/export"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/database"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/logger"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/minio"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/redis"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/store"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/workerpool"
	"github.com/lk2023060901/osint-analysis-backend/internal/tips"
	"github.com/lk2023060901/osint-analysis-backend/internal/websearch/types"
)

// EnvPrefix 环境变量前缀，例如 OSINT_SERVER_PORT
const EnvPrefix = "OSINT"

type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Log      logger.Config   `mapstructure:"log"`
	Storage  store.Config    `mapstructure:"storage"`
	Redis    redis.Config    `mapstructure:"redis"`
	Database database.Config `mapstructure:"database"`
	Export   ExportConfig    `mapstructure:"export"`
	Search   SearchConfig    `mapstructure:"search"`
	Tips     tips.Config     `mapstructure:"tips"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug, release, test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns host:port
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ExportConfig 导出配置，backend 为空时关闭导出
type ExportConfig struct {
	Backend string       `mapstructure:"backend"` // local, minio
	Dir     string       `mapstructure:"dir"`
	Prefix  string       `mapstructure:"prefix"`
	MinIO   minio.Config `mapstructure:"minio"`
}

// SearchConfig 搜索配置，providers 为空时关闭搜索
type SearchConfig struct {
	Providers  []types.ProviderConfig `mapstructure:"providers"`
	MaxResults int                    `mapstructure:"max_results"`
	Pool       workerpool.Config      `mapstructure:"pool"`
}

// LoadConfig reads path (optional) over the defaults, then the environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	l := logger.DefaultConfig()
	v.SetDefault("log.service", l.Service)
	v.SetDefault("log.level", l.Level)
	v.SetDefault("log.format", l.Format)
	v.SetDefault("log.output", l.Output)
	v.SetDefault("log.enablecaller", l.EnableCaller)
	v.SetDefault("log.enablestacktrace", l.EnableStacktrace)
	v.SetDefault("log.file.filename", l.File.Filename)
	v.SetDefault("log.file.maxsize", l.File.MaxSize)
	v.SetDefault("log.file.maxage", l.File.MaxAge)
	v.SetDefault("log.file.maxbackups", l.File.MaxBackups)
	v.SetDefault("log.file.compress", l.File.Compress)

	v.SetDefault("storage.backend", store.BackendMemory)

	r := redis.DefaultConfig()
	v.SetDefault("redis.mode", string(r.Mode))
	v.SetDefault("redis.addr", r.Addr)
	v.SetDefault("redis.key_prefix", r.KeyPrefix)
	v.SetDefault("redis.pool_size", r.PoolSize)
	v.SetDefault("redis.min_idle_conns", r.MinIdleConns)
	v.SetDefault("redis.dial_timeout", r.DialTimeout)
	v.SetDefault("redis.read_timeout", r.ReadTimeout)
	v.SetDefault("redis.write_timeout", r.WriteTimeout)
	v.SetDefault("redis.max_retries", r.MaxRetries)

	d := database.DefaultConfig()
	v.SetDefault("database.dialect", d.Dialect)
	v.SetDefault("database.host", d.Host)
	v.SetDefault("database.port", d.Port)
	v.SetDefault("database.user", d.User)
	v.SetDefault("database.password", d.Password)
	v.SetDefault("database.dbname", d.DBName)
	v.SetDefault("database.sslmode", d.SSLMode)
	v.SetDefault("database.timezone", d.Timezone)
	v.SetDefault("database.maxidleconns", d.MaxIdleConns)
	v.SetDefault("database.maxopenconns", d.MaxOpenConns)
	v.SetDefault("database.connmaxlifetime", d.ConnMaxLifetime)
	v.SetDefault("database.loglevel", d.LogLevel)
	v.SetDefault("database.slowthreshold", d.SlowThreshold)
	v.SetDefault("database.automigrate", d.AutoMigrate)

	v.SetDefault("export.backend", export.BackendLocal)
	v.SetDefault("export.dir", "exports")
	v.SetDefault("export.prefix", "exports/")
	v.SetDefault("export.minio.bucket_lookup", string(minio.BucketLookupAuto))
	v.SetDefault("export.minio.presign_expiry", 24*time.Hour)

	v.SetDefault("search.max_results", 10)
	v.SetDefault("search.pool.workers", workerpool.DefaultConfig().Workers)

	v.SetDefault("tips.max_tokens", 400)
	v.SetDefault("tips.timeout", 20*time.Second)
}

// Validate checks every section that the selected backends depend on
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("server port must be between 1 and 65535")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid server mode %q, must be one of: debug, release, test", c.Server.Mode)
	}

	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	if err := c.Storage.Validate(); err != nil {
		return err
	}
	switch c.Storage.Backend {
	case store.BackendRedis:
		if err := c.Redis.Validate(); err != nil {
			return err
		}
	case store.BackendDatabase:
		if err := c.Database.Validate(); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}

	switch c.Export.Backend {
	case "":
	case export.BackendLocal:
		if c.Export.Dir == "" {
			return errors.New("export: dir is required for the local backend")
		}
	case export.BackendMinIO:
		if err := c.Export.MinIO.Validate(); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	default:
		return fmt.Errorf("export: unknown backend %q", c.Export.Backend)
	}

	for i := range c.Search.Providers {
		p := &c.Search.Providers[i]
		if !p.IsEnabled() {
			continue
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("search provider %d (%s): %w", i, p.Name, err)
		}
	}
	if c.Search.MaxResults < 0 || c.Search.MaxResults > 50 {
		return errors.New("search: max_results must be between 0 and 50")
	}
	return nil
}
