package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

type Config struct {
	AppEnv          string        `yaml:"app_env"`
	HTTPAddr        string        `yaml:"http_addr"`
	MetricsAddr     string        `yaml:"metrics_addr"`
	MySQLDSN        string        `yaml:"mysql_dsn"`
	DBMaxOpenConns  int           `yaml:"db_max_open_conns"`
	DefaultStrategy string        `yaml:"default_strategy"`
	EnrichWorkers   int           `yaml:"enrich_workers"`
	RateLimitRPS    int           `yaml:"rate_limit_rps"`
	RequestTimeout  time.Duration `yaml:"-"`
	TimeoutSeconds  int           `yaml:"request_timeout_seconds"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	SeedFile        string        `yaml:"seed_file"`
	SeedWorkers     int           `yaml:"seed_workers"`
}

func defaults() Config {
	return Config{
		AppEnv:          "prod",
		HTTPAddr:        ":8080",
		MetricsAddr:     "",
		MySQLDSN:        "root:root@tcp(localhost:3306)/hotels?charset=utf8mb4",
		DBMaxOpenConns:  10,
		DefaultStrategy: "one-request",
		EnrichWorkers:   1,
		RateLimitRPS:    0,
		TimeoutSeconds:  15,
		SeedFile:        "fixtures/hotels.yaml",
		SeedWorkers:     4,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// HOTELS_CONFIG (if any), then environment variables. A .env file in the
// working directory is loaded into the environment first; variables that
// are already set win over it.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not load .env")
	}

	c := defaults()
	if path := os.Getenv("HOTELS_CONFIG"); path != "" {
		if err := loadYAML(path, &c); err != nil {
			return Config{}, err
		}
	}

	c.AppEnv = env("APP_ENV", c.AppEnv)
	c.HTTPAddr = env("HTTP_ADDR", c.HTTPAddr)
	c.MetricsAddr = env("METRICS_ADDR", c.MetricsAddr)
	c.MySQLDSN = env("MYSQL_DSN", c.MySQLDSN)
	c.DefaultStrategy = env("DEFAULT_STRATEGY", c.DefaultStrategy)
	c.DBMaxOpenConns = atoi("DB_MAX_OPEN_CONNS", c.DBMaxOpenConns)
	c.EnrichWorkers = atoi("ENRICH_WORKERS", c.EnrichWorkers)
	c.RateLimitRPS = atoi("RATE_LIMIT_RPS", c.RateLimitRPS)
	c.TimeoutSeconds = atoi("REQUEST_TIMEOUT_SECONDS", c.TimeoutSeconds)
	c.SeedFile = env("SEED_FILE", c.SeedFile)
	c.SeedWorkers = atoi("SEED_WORKERS", c.SeedWorkers)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}
	c.RequestTimeout = time.Duration(c.TimeoutSeconds) * time.Second

	if c.EnrichWorkers < 1 {
		log.Warn().Int("enrich_workers", c.EnrichWorkers).Msg("ENRICH_WORKERS below 1, using 1")
		c.EnrichWorkers = 1
	}
	if c.SeedWorkers < 1 {
		c.SeedWorkers = 1
	}
	return c, nil
}

func loadYAML(path string, c *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer config value")
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
