// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/evote/voting"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("VOTER_TOKEN_SALT", "test-voter-salt")
	t.Setenv("VOTE_ENCRYPTION_KEY", "test-vote-key")
	t.Setenv("JWT_SECRET", "test-jwt-secret")
}

func TestParseFlags_EnvVars(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_TYPE", "postgres")

	cfg, err := ParseFlags([]string{"-env", ""})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.PercentScope != "election" {
		t.Errorf("expected default percent scope election, got %q", cfg.PercentScope)
	}
	if cfg.MediaDir != "media" {
		t.Errorf("expected default media dir, got %q", cfg.MediaDir)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-env", "", "-p", "8080", "-d", "file:other.db", "-voter-salt", "s1", "-percent-scope", "position"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:other.db" {
		t.Errorf("expected file:other.db, got %s", cfg.DatabaseURL)
	}
	if cfg.VoterTokenSalt != "s1" {
		t.Errorf("expected voter salt s1, got %s", cfg.VoterTokenSalt)
	}
	if cfg.PercentScope != "position" {
		t.Errorf("expected position scope, got %s", cfg.PercentScope)
	}
}

func TestParseFlags_DotEnv(t *testing.T) {
	// Only DATABASE_URL comes from the real environment
	t.Setenv("DATABASE_URL", "file:real.db")
	for _, key := range []string{"VOTER_TOKEN_SALT", "VOTE_ENCRYPTION_KEY", "JWT_SECRET"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	envPath := filepath.Join(t.TempDir(), ".env")
	contents := "DATABASE_URL=file:dotenv.db\nVOTER_TOKEN_SALT=from-dotenv\nVOTE_ENCRYPTION_KEY=k\nJWT_SECRET=j\n"
	if err := os.WriteFile(envPath, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"-env", envPath})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.VoterTokenSalt != "from-dotenv" {
		t.Errorf("expected salt from .env, got %q", cfg.VoterTokenSalt)
	}
	if cfg.DatabaseURL != "file:real.db" {
		t.Errorf("real environment should win over .env, got %q", cfg.DatabaseURL)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"missing jwt secret", []string{"-env", ""}, map[string]string{"JWT_SECRET": ""}},
		{"missing voter salt", []string{"-env", ""}, map[string]string{"VOTER_TOKEN_SALT": ""}},
		{"missing vote key", []string{"-env", ""}, map[string]string{"VOTE_ENCRYPTION_KEY": ""}},
		{"bad database type", []string{"-env", "", "-t", "mysql"}, nil},
		{"bad percent scope", []string{"-env", "", "-percent-scope", "global"}, nil},
		{"bad port", []string{"-env", ""}, map[string]string{"PORT": "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("PORT", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseFlags_PercentScopes(t *testing.T) {
	for _, scope := range []string{voting.ScopeElection, voting.ScopePosition} {
		setRequiredEnv(t)
		cfg, err := ParseFlags([]string{"-env", "", "-percent-scope", scope})
		if err != nil {
			t.Fatalf("ParseFlags(-percent-scope %s) error = %v", scope, err)
		}
		if cfg.PercentScope != scope {
			t.Errorf("PercentScope = %q, want %q", cfg.PercentScope, scope)
		}
	}
}

func TestParseTallyFlags(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:tally.db")
	t.Setenv("VOTE_ENCRYPTION_KEY", "test-vote-key")
	t.Setenv("VOTER_TOKEN_SALT", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := ParseTallyFlags([]string{"-env", ""})
	if err != nil {
		t.Fatalf("ParseTallyFlags() error = %v", err)
	}
	if cfg.VoteEncryptionKey != "test-vote-key" {
		t.Errorf("expected vote key from env, got %q", cfg.VoteEncryptionKey)
	}

	if _, err := ParseFlags([]string{"-env", ""}); err == nil {
		t.Error("ParseFlags should still require the session secrets")
	}

	t.Setenv("VOTE_ENCRYPTION_KEY", "")
	if _, err := ParseTallyFlags([]string{"-env", ""}); err == nil {
		t.Error("expected an error without a vote key")
	}
}
