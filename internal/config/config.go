package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Bootstrap BootstrapConfig `yaml:"bootstrap"`
	Audit     AuditConfig     `yaml:"audit"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

type JWTConfig struct {
	Secret        string `yaml:"secret"`
	ExpireMinutes int    `yaml:"expire_minutes"`
}

// BootstrapConfig describes the initial superuser created on first start
// when the database contains no superuser yet.
type BootstrapConfig struct {
	SuperuserEmail    string `yaml:"superuser_email"`
	SuperuserName     string `yaml:"superuser_name"`
	SuperuserPassword string `yaml:"superuser_password"`
}

type AuditConfig struct {
	RetentionDays int `yaml:"retention_days"` // <= 0 disables the cleanup sweep
}

type LogConfig struct {
	Level string `yaml:"level"`
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, err
		}
		cfg = &fileCfg
	}

	cfg.overrideFromEnv()
	GlobalConfig = cfg
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "console.db",
		},
		JWT: JWTConfig{
			Secret:        "console-secret-key-change-in-production",
			ExpireMinutes: 120,
		},
		Bootstrap: BootstrapConfig{
			SuperuserEmail:    "admin@example.com",
			SuperuserName:     "Administrator",
			SuperuserPassword: "admin",
		},
		Audit: AuditConfig{
			RetentionDays: 90,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if minutes := os.Getenv("JWT_EXPIRE_MINUTES"); minutes != "" {
		if m, err := strconv.Atoi(minutes); err == nil && m > 0 {
			c.JWT.ExpireMinutes = m
		}
	}
	if email := os.Getenv("BOOTSTRAP_SUPERUSER_EMAIL"); email != "" {
		c.Bootstrap.SuperuserEmail = email
	}
	if name := os.Getenv("BOOTSTRAP_SUPERUSER_NAME"); name != "" {
		c.Bootstrap.SuperuserName = name
	}
	if password := os.Getenv("BOOTSTRAP_SUPERUSER_PASSWORD"); password != "" {
		c.Bootstrap.SuperuserPassword = password
	}
	if days := os.Getenv("AUDIT_RETENTION_DAYS"); days != "" {
		if d, err := strconv.Atoi(days); err == nil {
			c.Audit.RetentionDays = d
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
