package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver  string `mapstructure:"driver"` // sqlite / postgres
	Path    string `mapstructure:"path"`   // sqlite file
	DSN     string `mapstructure:"dsn"`    // postgres connection string
	LogMode bool   `mapstructure:"log_mode"`
}

type LogConfig struct {
	File   string `mapstructure:"file"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text / json
}

type UploadConfig struct {
	Dir       string `mapstructure:"dir"`
	MaxSizeMB int64  `mapstructure:"max_size_mb"`
}

// AuthConfig configures bearer tokens for the API. An empty secret disables auth.
type AuthConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type AppSubConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Auth     AuthConfig     `mapstructure:"auth"`
	App      AppSubConfig   `mapstructure:"app"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 3333)
	v.SetDefault("server.mode", "release")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/finance.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.log_mode", false)

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("upload.dir", "tmp/uploads")
	v.SetDefault("upload.max_size_mb", 10)

	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.issuer", "finance-ledger")
	v.SetDefault("auth.expire_hours", 24*30)

	v.SetDefault("app.page_size", 20)
}

// New reads configuration from path (e.g. "config.yaml"). If path is empty,
// "config.yaml" in the working directory is used. A missing file is not an
// error; defaults and environment apply.
func New(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. FTL_SERVER_PORT=9000
	v.SetEnvPrefix("FTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if c.Upload.MaxSizeMB <= 0 {
		return fmt.Errorf("upload.max_size_mb must be positive")
	}
	if c.App.PageSize <= 0 || c.App.PageSize > 100 {
		c.App.PageSize = 20
	}
	return nil
}
