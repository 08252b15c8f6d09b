package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"skillpath/internal/domain/policy"
	"skillpath/internal/domain/skill"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	Engine   EngineConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether a Redis host was configured. Without one the cache and run lock
// are bypassed.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type LogConfig struct {
	Level  string
	Format string
}

type EngineConfig struct {
	Policy                policy.Policy
	Synonyms              map[string][]string
	RecalibrationInterval time.Duration
	RankingWorkers        int
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	return FromViper(v)
}

func FromViper(v *viper.Viper) (Config, error) {
	setDefaults(v)

	var missing []string
	req := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			missing = append(missing, key)
		}
		return s
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg := Config{}
	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:                req("DB_HOST"),
		DBPort:                opt("DB_PORT"),
		DBName:                req("DB_NAME"),
		DBUser:                req("DB_USER"),
		DBPassword:            opt("DB_PASSWORD"),
		DBSSLMode:             opt("DB_SSL_MODE"),
		ConnectTimeout:        v.GetDuration("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:          v.GetInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          v.GetInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   v.GetDuration("DB_POOL_MAX_CONN_LIFETIME"),
		PoolMaxConnIdleTime:   v.GetDuration("DB_POOL_MAX_CONN_IDLE_TIME"),
		PoolHealthCheckPeriod: v.GetDuration("DB_POOL_HEALTH_CHECK_PERIOD"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		TTL:      v.GetDuration("REDIS_TTL"),
	}

	cfg.Log = LogConfig{
		Level:  strings.ToLower(opt("LOG_LEVEL")),
		Format: strings.ToLower(opt("LOG_FORMAT")),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	engine, err := loadEngine(v)
	if err != nil {
		return Config{}, err
	}
	cfg.Engine = engine

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT", "5s")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_TTL", "10m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("RECALIBRATION_INTERVAL", "15m")
	v.SetDefault("RANKING_WORKERS", 4)
}

func loadEngine(v *viper.Viper) (EngineConfig, error) {
	p, err := loadPolicy(strings.TrimSpace(v.GetString("POLICY_FILE")))
	if err != nil {
		return EngineConfig{}, err
	}

	synonyms := skill.DefaultSynonyms
	if path := strings.TrimSpace(v.GetString("SYNONYMS_FILE")); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return EngineConfig{}, fmt.Errorf("open synonyms file: %w", err)
		}
		defer f.Close()
		extra, err := skill.LoadSynonyms(f)
		if err != nil {
			return EngineConfig{}, fmt.Errorf("load synonyms file %s: %w", path, err)
		}
		synonyms = skill.Merge(synonyms, extra)
	}

	interval := v.GetDuration("RECALIBRATION_INTERVAL")
	if interval <= 0 {
		return EngineConfig{}, fmt.Errorf("RECALIBRATION_INTERVAL must be positive, got %q", v.GetString("RECALIBRATION_INTERVAL"))
	}
	workers := v.GetInt("RANKING_WORKERS")
	if workers < 1 {
		workers = 1
	}

	return EngineConfig{
		Policy:                p,
		Synonyms:              synonyms,
		RecalibrationInterval: interval,
		RankingWorkers:        workers,
	}, nil
}

// loadPolicy overlays the YAML file, if any, onto the default policy. Keys absent from
// the file keep their default values.
func loadPolicy(path string) (policy.Policy, error) {
	p := policy.Default()
	if path == "" {
		return p, nil
	}

	pv := viper.New()
	pv.SetConfigFile(path)
	pv.SetConfigType("yaml")
	if err := pv.ReadInConfig(); err != nil {
		return policy.Policy{}, fmt.Errorf("read policy file %s: %w", path, err)
	}
	if err := pv.Unmarshal(&p); err != nil {
		return policy.Policy{}, fmt.Errorf("decode policy file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return policy.Policy{}, err
	}
	return p, nil
}
