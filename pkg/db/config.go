package db

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type Config struct {
	Type            string `json:"type" yaml:"type"` // mysql | postgres | sqlite
	Host            string `json:"host" yaml:"host"`
	Port            int    `json:"port" yaml:"port"`
	Username        string `json:"username" yaml:"username"`
	Password        string `json:"password" yaml:"password"`
	Database        string `json:"database" yaml:"database"`
	MaxIdleConns    int    `json:"maxIdleConns,omitempty" yaml:"maxIdleConns,omitempty"`
	MaxOpenConns    int    `json:"maxOpenConns,omitempty" yaml:"maxOpenConns,omitempty"`
	ConnMaxLifetime int    `json:"connMaxLifetime,omitempty" yaml:"connMaxLifetime,omitempty"`
	Debug           bool   `json:"debug" yaml:"debug"`
}

func (t *Config) Validate() []error {
	var errs = make([]error, 0)
	if t.Database == "" {
		errs = append(errs, errors.New("database name is empty"))
	}
	if t.Driver() != "sqlite" {
		if t.Username == "" {
			errs = append(errs, errors.New("database username is empty"))
		}
		if t.Host == "" {
			errs = append(errs, errors.New("database host is empty"))
		}
	}
	return errs
}

func (t *Config) Driver() string {
	driver := strings.ToLower(t.Type)
	if driver == "postgresql" {
		driver = "postgres"
	}
	return driver
}

func (t *Config) DSN() string {
	switch t.Driver() {
	case "postgres":
		return fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
			t.Host, t.Username, t.Password, t.Database, t.Port,
		)
	case "sqlite":
		return t.Database
	default:
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			t.Username, t.Password, t.Host, t.Port, t.Database,
		)
	}
}

func NewDefaultDBConfig() *Config {
	return &Config{
		Type:            "mysql",
		Host:            "127.0.0.1",
		Port:            3306,
		MaxIdleConns:    5,
		MaxOpenConns:    20,
		ConnMaxLifetime: 3600,
	}
}
