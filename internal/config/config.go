package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zeromicro/go-zero/core/conf"

	"coinfeed/pkg/confkit"
	marketpkg "coinfeed/pkg/market"
)

// Config is the application-level configuration for the coinfeed tools.
type Config struct {
	// Env indicates the running environment: test | dev | prod.
	Env string `json:",default=dev"`

	// Market points at (or inlines) the market provider configuration.
	Market confkit.Section[marketpkg.Config] `json:",optional"`

	mainPath string
	baseDir  string
}

// IsTestEnv reports whether the configuration targets the test environment.
func (c *Config) IsTestEnv() bool {
	return c.Env == "test" || c.Env == ""
}

// MustLoad is Load but panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the application configuration from path, validates it, and
// hydrates file-backed sections.
func Load(path string) (*Config, error) {
	confkit.LoadDotenvOnce()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %s: %w", path, err)
	}

	var cfg Config
	if err := conf.Load(absPath, &cfg, conf.UseEnv()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", absPath, err)
	}

	cfg.mainPath = absPath
	cfg.baseDir = filepath.Dir(absPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.hydrateSections(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate ensures the configuration is structurally sound.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "", "test", "dev", "prod":
		if strings.TrimSpace(c.Env) == "" {
			c.Env = "dev"
		}
	default:
		return errors.New("config: env must be one of test|dev|prod")
	}
	return nil
}

func (c *Config) hydrateSections() error {
	if err := c.Market.Hydrate(c.baseDir, marketpkg.LoadConfig); err != nil {
		return fmt.Errorf("hydrate market config: %w", err)
	}
	return nil
}

// MustLoadMarket loads etc/market.yaml from the project root and panics on
// error. It isolates market config for tools and tests that need nothing
// else from the application configuration.
func MustLoadMarket() *marketpkg.Config {
	return marketpkg.MustLoad()
}
