package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Host         string   `validate:"required"`
	Port         int      `validate:"min=1,max=65535"`
	AllowOrigins []string `validate:"min=1"`
	LogLevel     string
	MaxUploadMB  int `validate:"min=1"`
	LogFile      string
	// Profiling mounts net/http/pprof under /debug.
	Profiling bool

	DatabaseType string `validate:"oneof=sqlite postgres"`
	DatabaseURL  string `validate:"required"`

	RawDataDir    string `validate:"required"`
	CKANBaseURL   string `validate:"required,url"`
	CKANPackageID string `validate:"required"`
	HTTPTimeout   time.Duration
	FetchRetries  int `validate:"min=0,max=10"`
}

// Load reads .env (if present) and the environment, then validates the result.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}

	port, _ := strconv.Atoi(getenv("PORT", "8082"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "64"))
	retries, _ := strconv.Atoi(getenv("FETCH_RETRIES", "3"))
	timeout, err := time.ParseDuration(getenv("HTTP_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("HTTP_TIMEOUT: %w", err)
	}
	profiling, _ := strconv.ParseBool(getenv("PPROF", "false"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	cfg := Config{
		Host:          getenv("HOST", "127.0.0.1"),
		Port:          port,
		AllowOrigins:  origins,
		LogLevel:      getenv("LOG_LEVEL", "info"),
		MaxUploadMB:   mb,
		LogFile:       getenv("LOG_FILE", "logs/election-ingest.log"),
		DatabaseType:  getenv("DATABASE_TYPE", "sqlite"),
		DatabaseURL:   getenv("DATABASE_URL", "file:elections.db"),
		RawDataDir:    getenv("RAW_DATA_DIR", "raw_data"),
		CKANBaseURL:   getenv("CKAN_BASE_URL", "https://ckan0.cf.opendata.inter.prod-toronto.ca"),
		CKANPackageID: getenv("CKAN_PACKAGE_ID", "election-results-official"),
		HTTPTimeout:   timeout,
		FetchRetries:  retries,
		Profiling:     profiling,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
