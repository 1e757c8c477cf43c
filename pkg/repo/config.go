package repo

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/renameio"
	"github.com/odvcencio/plumb/pkg/object"
)

// Identity is the name and email recorded as commit author and committer.
type Identity struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// Signature stamps the identity with a time.
func (id Identity) Signature(when time.Time) object.Signature {
	return object.Signature{Name: id.Name, Email: id.Email, When: when}
}

// Config stores repository-local settings.
type Config struct {
	User Identity `toml:"user"`
}

func (r *Repo) configPath() string {
	return filepath.Join(r.GitDir, "config.toml")
}

// ReadConfig reads .git/config.toml. Missing config returns an empty config.
func (r *Repo) ReadConfig() (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(r.configPath(), &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return &cfg, nil
}

// WriteConfig atomically writes .git/config.toml.
func (r *Repo) WriteConfig(cfg *Config) error {
	if cfg == nil {
		cfg = &Config{}
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := renameio.WriteFile(r.configPath(), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SetIdentity stores the user identity in repository config.
func (r *Repo) SetIdentity(id Identity) error {
	id.Name = strings.TrimSpace(id.Name)
	id.Email = strings.TrimSpace(id.Email)
	if id.Name == "" {
		return fmt.Errorf("set identity: name is required")
	}
	if err := id.Signature(time.Time{}).Validate(); err != nil {
		return fmt.Errorf("set identity: %w", err)
	}
	cfg, err := r.ReadConfig()
	if err != nil {
		return err
	}
	cfg.User = id
	return r.WriteConfig(cfg)
}

// Identity returns the configured commit identity. Fields missing from
// config fall back to $GIT_AUTHOR_NAME / $GIT_AUTHOR_EMAIL, then $USER.
func (r *Repo) Identity() (Identity, error) {
	cfg, err := r.ReadConfig()
	if err != nil {
		return Identity{}, err
	}
	id := cfg.User

	user := os.Getenv("USER")
	if user == "" {
		user = "unknown"
	}
	if strings.TrimSpace(id.Name) == "" {
		id.Name = os.Getenv("GIT_AUTHOR_NAME")
	}
	if strings.TrimSpace(id.Name) == "" {
		id.Name = user
	}
	if strings.TrimSpace(id.Email) == "" {
		id.Email = os.Getenv("GIT_AUTHOR_EMAIL")
	}
	if strings.TrimSpace(id.Email) == "" {
		id.Email = user + "@localhost"
	}
	return id, nil
}
