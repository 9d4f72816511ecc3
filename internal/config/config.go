// Package config holds the runtime configuration for the planner service:
// defaults, an optional YAML file, and environment overrides, applied in that
// order.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"airhaul/internal/solve"
)

type Solver struct {
	Algorithm       string `yaml:"algorithm"`
	SpanCoefficient int    `yaml:"spanCoefficient"`
	TimeBudgetMs    int    `yaml:"timeBudgetMs"`
	MaxStall        int    `yaml:"maxStall"`
	MatrixWorkers   int    `yaml:"matrixWorkers"`
}

type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type Config struct {
	Listen       string    `yaml:"listen"`
	AirportsPath string    `yaml:"airportsPath"`
	DatabaseURL  string    `yaml:"databaseUrl"`
	RedisURL     string    `yaml:"redisUrl"`
	Solver       Solver    `yaml:"solver"`
	RateLimit    RateLimit `yaml:"rateLimit"`
}

// Default returns the configuration used when no file and no environment are
// present.
func Default() Config {
	return Config{
		Listen:       ":8080",
		AirportsPath: "data/airports.csv",
		Solver: Solver{
			Algorithm:       solve.AlgorithmCheapest,
			SpanCoefficient: solve.DefaultSpanCoefficient,
			TimeBudgetMs:    30000,
			MaxStall:        0,
			MatrixWorkers:   0,
		},
		RateLimit: RateLimit{RPS: 5, Burst: 10},
	}
}

// Load reads the YAML file at path (skipped when empty) on top of the
// defaults, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Listen = ":" + v
	}
	if v := os.Getenv("AIRPORTS_PATH"); v != "" {
		c.AirportsPath = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("RATE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			c.RateLimit.RPS = f
		}
	}
	if v := os.Getenv("RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.RateLimit.Burst = n
		}
	}
}
