// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              int
	DatabaseURL       string
	DatabaseType      string
	VoterTokenSalt    string
	VoteEncryptionKey string
	JWTSecret         string
	MediaDir          string
	PercentScope      string
	EnvFile           string
}

// ParseFlags reads flags, then a .env file, then the environment.
// Flags win over the environment, and the real environment wins over .env.
// Every secret the server uses is required.
func ParseFlags(args []string) (Config, error) {
	cfg, err := parse(args)
	if err != nil {
		return Config{}, err
	}
	if cfg.VoterTokenSalt == "" {
		return Config{}, errors.New("VOTER_TOKEN_SALT required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}
	return cfg, nil
}

// ParseTallyFlags is ParseFlags for read-only tallying. It needs the
// database and the vote key but not the voter salt or the JWT secret.
func ParseTallyFlags(args []string) (Config, error) {
	return parse(args)
}

func parse(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("evote", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.MediaDir, "media-dir", "", "Directory for candidate photos")
	fs.StringVar(&cfg.PercentScope, "percent-scope", "", "Percentage denominator (election or position)")
	fs.StringVar(&cfg.EnvFile, "env", ".env", "Path to .env file")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.VoterTokenSalt, "voter-salt", "", "Voter token salt (prefer env)")
	fs.StringVar(&cfg.VoteEncryptionKey, "vote-key", "", "Vote encryption key (prefer env)")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "JWT signing secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := LoadEnvFile(cfg.EnvFile); err != nil {
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
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.MediaDir == "" {
		cfg.MediaDir = os.Getenv("MEDIA_DIR")
		if cfg.MediaDir == "" {
			cfg.MediaDir = "media"
		}
	}

	if cfg.PercentScope == "" {
		cfg.PercentScope = os.Getenv("PERCENT_SCOPE")
		if cfg.PercentScope == "" {
			cfg.PercentScope = "election"
		}
	}
	if cfg.PercentScope != "election" && cfg.PercentScope != "position" {
		return Config{}, errors.New("percent scope must be election or position")
	}

	// Secrets
	if cfg.VoterTokenSalt == "" {
		cfg.VoterTokenSalt = os.Getenv("VOTER_TOKEN_SALT")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.VoteEncryptionKey == "" {
		cfg.VoteEncryptionKey = os.Getenv("VOTE_ENCRYPTION_KEY")
	}
	if cfg.VoteEncryptionKey == "" {
		return Config{}, errors.New("VOTE_ENCRYPTION_KEY required")
	}

	return cfg, nil
}

// LoadEnvFile populates unset environment variables from path.
// A missing file is fine; a malformed one is not.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}
