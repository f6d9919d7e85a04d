package db

import (
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var gormInternalDB *gorm.DB
var internalOnce sync.Once
var gormExternalDB *gorm.DB
var externalOnce sync.Once

// Open connects to a database described by cfg. The sync engine always
// reads from one handle and writes to the other, so pooling limits from
// the config are applied here.
func Open(cfg *Config) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch cfg.Driver() {
	case "postgres":
		dial = postgres.Open(cfg.DSN())
	case "sqlite":
		dial = sqlite.Open(cfg.DSN())
	default:
		dial = mysql.New(mysql.Config{DSN: cfg.DSN()})
	}
	gdb, err := gorm.Open(dial, &gorm.Config{
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		gdb = gdb.Debug()
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}
	return gdb, nil
}

// InitInternalDB initializes the analytics database (sync target).
func InitInternalDB(cfg *Config) error {
	var err error
	internalOnce.Do(func() {
		gormInternalDB, err = Open(cfg)
		if err != nil {
			return
		}
		zap.S().Debugf("*** internal database initialized (%s) ***", cfg.Driver())
	})
	return err
}

func GetInternalDB() *gorm.DB {
	return gormInternalDB
}

// InitExternalDB initializes the source-of-record database (read only).
func InitExternalDB(cfg *Config) error {
	var err error
	externalOnce.Do(func() {
		gormExternalDB, err = Open(cfg)
		if err != nil {
			return
		}
		zap.S().Debugf("*** external database initialized (%s) ***", cfg.Driver())
	})
	return err
}

func GetExternalDB() *gorm.DB {
	return gormExternalDB
}
