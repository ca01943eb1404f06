package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          int
	DatabaseURL   string
	SessionSecret string
	StorageURL    string
	StorageBucket string
	StorageKey    string
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	// Local .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	fs := flag.NewFlagSet("democratic-e", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session token secret (prefer env)")

	// Profile-picture storage (optional)
	fs.StringVar(&cfg.StorageURL, "storage-url", "", "Asset storage base URL")
	fs.StringVar(&cfg.StorageBucket, "storage-bucket", "", "Asset storage bucket")
	fs.StringVar(&cfg.StorageKey, "storage-key", "", "Asset storage key (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8070 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	// Secrets - MUST be provided
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	// Storage is optional; avatar endpoints are disabled when unset
	if cfg.StorageURL == "" {
		cfg.StorageURL = os.Getenv("STORAGE_URL")
	}
	if cfg.StorageBucket == "" {
		cfg.StorageBucket = os.Getenv("STORAGE_BUCKET")
	}
	if cfg.StorageBucket == "" {
		cfg.StorageBucket = "profile-pictures"
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = os.Getenv("STORAGE_KEY")
	}

	return cfg, nil
}
