package notify

import (
	"fmt"
)

type Account struct {
	UserName string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	NKey     string `json:"nkey" yaml:"nkey"`
	Seed     string `json:"seed" yaml:"seed"`
}

type Config struct {
	Endpoint           string              `json:"endpoint" yaml:"endpoint"`
	Account            map[string]*Account `json:"account" yaml:"account"`
	DefaultAccountName string              `json:"defaultAccountName" yaml:"defaultAccountName"`
	Subject            string              `json:"subject" yaml:"subject"`
}

func (n *Config) Validate() error {
	if n.Endpoint == "" {
		return fmt.Errorf("nats endpoint is not defined")
	}
	if n.Subject == "" {
		return fmt.Errorf("nats subject is not defined")
	}
	return nil
}

func NewDefaultConfig() *Config {
	return &Config{
		Endpoint: "nats://127.0.0.1:4222",
		Account:  make(map[string]*Account),
		Subject:  "edeka.sync.completed",
	}
}

func (n *Config) GetDefaultAccount() *Account {
	if n.DefaultAccountName == "" {
		return nil
	}
	return n.Account[n.DefaultAccountName]
}
