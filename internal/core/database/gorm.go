package database

import (
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
)

type Opts struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string
}

var ErrUnsupportedDriver = gorm.ErrInvalidDB

func NewGorm(o Opts) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch o.Driver {
	case "postgres":
		dial = postgres.Open(o.DSN)
	case "mysql":
		dial = mysql.Open(withMySQLDefaults(o.DSN, o.Username, o.Password))
	case "sqlite":
		// 本地开发/测试；":memory:" 亦可
		dial = sqlite.Open(o.DSN)
	default:
		return nil, ErrUnsupportedDriver
	}

	lvl := logger.Warn
	switch o.LogLevel {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger: logger.Default.LogMode(lvl),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if o.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	}
	if o.ConnMaxLifetimeMin > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)
	}

	db = db.Session(&gorm.Session{
		PrepareStmt:            true,
		SkipDefaultTransaction: true, // 需要时手动开 Tx
	})
	return db, nil
}

// withMySQLDefaults 补 parseTime/charset；user:pass 可由配置覆盖
func withMySQLDefaults(dsn, user, pass string) string {
	out := dsn
	if user != "" && !strings.Contains(out, "@") {
		cred := user
		if pass != "" {
			cred += ":" + pass
		}
		out = cred + "@" + out
	}
	if !strings.Contains(out, "parseTime") {
		if strings.Contains(out, "?") {
			out += "&parseTime=true"
		} else {
			out += "?parseTime=true"
		}
	}
	if !strings.Contains(out, "charset") {
		out += "&charset=utf8mb4"
	}
	return out
}
