package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/odvcencio/plumb/pkg/object"
)

func TestConfigIdentityRoundTrip(t *testing.T) {
	r, err := Init(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := r.SetIdentity(Identity{Name: " zigen ", Email: "zigen@horol.org"}); err != nil {
		t.Fatalf("SetIdentity: %v", err)
	}

	id, err := r.Identity()
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	if id.Name != "zigen" || id.Email != "zigen@horol.org" {
		t.Fatalf("Identity = %+v", id)
	}
}

func TestReadConfigMissingReturnsEmptyConfig(t *testing.T) {
	r, err := Init(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := r.ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if cfg == nil {
		t.Fatalf("config is nil")
	}
	if cfg.User != (Identity{}) {
		t.Fatalf("User = %+v, want empty", cfg.User)
	}
}

func TestReadConfigHandWritten(t *testing.T) {
	r, err := Init(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	body := "[user]\nname = \"Ada\"\nemail = \"ada@example.com\"\n"
	if err := os.WriteFile(filepath.Join(r.GitDir, "config.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := r.ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if cfg.User.Name != "Ada" || cfg.User.Email != "ada@example.com" {
		t.Fatalf("User = %+v", cfg.User)
	}
}

func TestReadConfigInvalid(t *testing.T) {
	r, err := Init(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(r.GitDir, "config.toml"), []byte("[user\nname ="), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := r.ReadConfig(); err == nil {
		t.Fatal("ReadConfig should fail on malformed toml")
	}
	if _, err := r.Identity(); err == nil {
		t.Fatal("Identity should fail on malformed toml")
	}
}

func TestIdentityFallsBackToEnvironment(t *testing.T) {
	r, err := Init(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv("GIT_AUTHOR_NAME", "Env Name")
	t.Setenv("GIT_AUTHOR_EMAIL", "env@example.com")
	id, err := r.Identity()
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	if id.Name != "Env Name" || id.Email != "env@example.com" {
		t.Fatalf("Identity = %+v", id)
	}

	t.Setenv("GIT_AUTHOR_NAME", "")
	t.Setenv("GIT_AUTHOR_EMAIL", "")
	t.Setenv("USER", "tester")
	id, err = r.Identity()
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	if id.Name != "tester" || id.Email != "tester@localhost" {
		t.Fatalf("Identity = %+v", id)
	}
}

func TestIdentityConfigWinsOverEnvironment(t *testing.T) {
	r, err := Init(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("GIT_AUTHOR_NAME", "Env Name")
	if err := r.SetIdentity(Identity{Name: "Config Name"}); err != nil {
		t.Fatalf("SetIdentity: %v", err)
	}
	t.Setenv("GIT_AUTHOR_EMAIL", "env@example.com")

	id, err := r.Identity()
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	if id.Name != "Config Name" {
		t.Errorf("Name = %q, want config value", id.Name)
	}
	if id.Email != "env@example.com" {
		t.Errorf("Email = %q, want environment fallback", id.Email)
	}
}

func TestSetIdentityRequiresName(t *testing.T) {
	r, err := Init(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := r.SetIdentity(Identity{Email: "x@y"}); err == nil {
		t.Fatal("SetIdentity without a name should fail")
	}
}

func TestSetIdentityRejectsHeaderCharacters(t *testing.T) {
	r, err := Init(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []Identity{
		{Name: "a\nparent 0000", Email: "x@y"},
		{Name: "a <b>", Email: "x@y"},
		{Name: "a", Email: "x>@y"},
	} {
		if err := r.SetIdentity(id); !errors.Is(err, object.ErrParse) {
			t.Errorf("SetIdentity(%+v) error = %v, want ErrParse", id, err)
		}
	}
	if _, err := os.Stat(filepath.Join(r.GitDir, "config.toml")); !os.IsNotExist(err) {
		t.Errorf("rejected identity was written, stat err = %v", err)
	}
}

func TestIdentitySignature(t *testing.T) {
	when := time.Unix(1700000000, 0).UTC()
	sig := Identity{Name: "a", Email: "b"}.Signature(when)
	if sig.Name != "a" || sig.Email != "b" || !sig.When.Equal(when) {
		t.Fatalf("Signature = %+v", sig)
	}
	if sig.String() != "a <b> 1700000000 +0000" {
		t.Errorf("String() = %q", sig.String())
	}
}
