package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
	BaseURL         string // 对外根地址，拼重置链接用
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Log struct {
	Level      string
	JSON       bool
	File       string // 为空则只写 stdout
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	Seed               bool // 是否执行内置角色种子
	LogLevel           string
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Session struct {
	TimeoutMin   int
	CookieName   string
	CookieSecure bool
	Store        string // "memory" | "redis"
}

// Password 口令策略，规则全部可配
type Password struct {
	MinChars        int
	MaxChars        int
	RequireLower    bool
	RequireUpper    bool
	RequireNumerals bool
	RequireSpecial  bool
	AllowedSpecials string
}

type Reset struct {
	ValidityMin int
	Secret      string // 重置链接签名密钥
}

type Mail struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Config struct {
	App      App
	Log      Log
	DB       DB
	Redis    Redis `mapstructure:"redis"`
	Session  Session
	Password Password
	Reset    Reset
	Mail     Mail
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	return &c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("session.timeoutmin", 1440)
	v.SetDefault("session.cookiename", "session_id")
	v.SetDefault("session.store", "memory")
	v.SetDefault("password.minchars", 12)
	v.SetDefault("password.maxchars", 255)
	v.SetDefault("password.requirelower", true)
	v.SetDefault("password.requireupper", true)
	v.SetDefault("password.requirenumerals", true)
	v.SetDefault("password.requirespecial", true)
	v.SetDefault("password.allowedspecials", "!#$%&()*+,-./:;<=>?@^_{|}~")
	v.SetDefault("reset.validitymin", 120)
	v.SetDefault("db.seed", true)
}
