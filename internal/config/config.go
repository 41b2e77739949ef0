package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	API struct {
		BaseURL        string        `mapstructure:"base_url"`
		RequestTimeout time.Duration `mapstructure:"request_timeout"`
		TokenFile      string        `mapstructure:"token_file"`
	} `mapstructure:"api"`

	Procurement struct {
		GSTRate     float64 `mapstructure:"gst_rate"`
		PageSize    int     `mapstructure:"page_size"`
		DueSoonDays int     `mapstructure:"due_soon_days"`
		// ReferenceDay pins "today" (YYYY-MM-DD) for reproducible runs;
		// empty means wall clock.
		ReferenceDay string `mapstructure:"reference_day"`
	} `mapstructure:"procurement"`

	Log struct {
		Level string `mapstructure:"level"`
		Env   string `mapstructure:"env"`
	} `mapstructure:"log"`

	Metrics struct {
		ListenAddr string `mapstructure:"listen_addr"`
	} `mapstructure:"metrics"`
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	// Auto bind environment variables
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	v.SetDefault("api.base_url", "http://localhost:8234")
	v.SetDefault("api.request_timeout", 10*time.Second)
	v.SetDefault("api.token_file", ".procure-token")
	v.SetDefault("procurement.gst_rate", 0.18)
	v.SetDefault("procurement.page_size", 10)
	v.SetDefault("procurement.due_soon_days", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.env", "development")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	// Override API settings from ERP_* environment variables
	if base := os.Getenv("ERP_BASE_URL"); base != "" {
		cfg.API.BaseURL = base
	}
	if tf := os.Getenv("ERP_TOKEN_FILE"); tf != "" {
		cfg.API.TokenFile = tf
	}
	if timeout := os.Getenv("ERP_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.API.RequestTimeout = d
		}
	}
	if day := os.Getenv("ERP_REFERENCE_DAY"); day != "" {
		cfg.Procurement.ReferenceDay = day
	}
	if size := os.Getenv("ERP_PAGE_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil && n > 0 {
			cfg.Procurement.PageSize = n
		}
	}
	if rate := os.Getenv("ERP_GST_RATE"); rate != "" {
		if f, err := strconv.ParseFloat(rate, 64); err == nil && f >= 0 {
			cfg.Procurement.GSTRate = f
		}
	}

	return &cfg
}
