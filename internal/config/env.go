package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Env holds the settings read from the process environment.
type Env struct {
	APIURL   string        `env:"TASKDASH_API_URL" envDefault:"http://localhost:8000/api"`
	Timeout  time.Duration `env:"TASKDASH_TIMEOUT" envDefault:"10s"`
	Password string        `env:"TASKDASH_PASSWORD"`
}

// LoadEnv reads dotenv files and the environment into c.
// A .env file in the working directory and config.env in the config
// directory are both optional; variables already set in the environment win.
func (c *Config) LoadEnv() error {
	for _, path := range []string{".env", c.EnvPath()} {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	var e Env
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	if e.Timeout <= 0 {
		return fmt.Errorf("invalid environment: TASKDASH_TIMEOUT must be positive")
	}

	c.APIURL = strings.TrimRight(e.APIURL, "/")
	c.Timeout = e.Timeout
	c.Password = e.Password
	return nil
}
