package repo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/odvcencio/tinygit/pkg/object"
)

func isolateGlobalConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.toml")
	if content != "" {
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv(GlobalConfigEnv, p)
	return p
}

func TestInitWritesCoreConfig(t *testing.T) {
	r := initRepo(t)
	data, err := os.ReadFile(filepath.Join(r.GitDir, "config"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[core]") || !strings.Contains(string(data), "repositoryformatversion") {
		t.Errorf("config = %q", data)
	}
	v, ok, err := r.GetConfig("core.repositoryformatversion")
	if err != nil || !ok || v != "0" {
		t.Errorf("core.repositoryformatversion = %q, %v, %v", v, ok, err)
	}
}

func TestSetGetConfigRoundTrip(t *testing.T) {
	r := initRepo(t)

	if err := r.SetConfig("user.name", "Ada Lovelace"); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if err := r.SetConfig("User.Email", "ada@example.com"); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}

	v, ok, err := r.GetConfig("user.name")
	if err != nil || !ok {
		t.Fatalf("GetConfig: %q, %v, %v", v, ok, err)
	}
	if v != "Ada Lovelace" {
		t.Errorf("user.name = %q", v)
	}

	cfg, err := r.ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if cfg.User.Email != "ada@example.com" {
		t.Errorf("email = %q, want case-insensitive key lookup", cfg.User.Email)
	}

	// Existing [core] keys survive the rewrite.
	if _, ok, _ := r.GetConfig("core.bare"); !ok {
		t.Error("core.bare lost after SetConfig")
	}
}

func TestConfigKeyValidation(t *testing.T) {
	r := initRepo(t)
	for _, bad := range []string{"", "name", ".name", "user."} {
		if err := r.SetConfig(bad, "x"); !errors.Is(err, object.ErrInvalidArguments) {
			t.Errorf("SetConfig(%q): err = %v, want ErrInvalidArguments", bad, err)
		}
		if _, _, err := r.GetConfig(bad); !errors.Is(err, object.ErrInvalidArguments) {
			t.Errorf("GetConfig(%q): err = %v, want ErrInvalidArguments", bad, err)
		}
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateGlobalConfig(t, "")
	r := initRepo(t)

	cfg, err := r.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.User.Name != DefaultSignature.Name || cfg.User.Email != DefaultSignature.Email {
		t.Errorf("user = %+v, want defaults", cfg.User)
	}
	sig := cfg.Signature(DefaultSignature.When, DefaultSignature.TZ)
	if sig != DefaultSignature {
		t.Errorf("Signature = %+v, want %+v", sig, DefaultSignature)
	}
}

func TestLoadConfigLayering(t *testing.T) {
	isolateGlobalConfig(t, `
[user]
name = "Global Name"
email = "global@example.com"
signingkey = "~/.ssh/id_ed25519"
`)
	r := initRepo(t)
	if err := r.SetConfig("user.email", "local@example.com"); err != nil {
		t.Fatal(err)
	}

	cfg, err := r.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := UserConfig{Name: "Global Name", Email: "local@example.com", SigningKey: "~/.ssh/id_ed25519"}
	if cfg.User != want {
		t.Errorf("user = %+v, want %+v", cfg.User, want)
	}
}

func TestLoadGlobalConfigErrors(t *testing.T) {
	cfg, err := LoadGlobalConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if cfg.User != (UserConfig{}) {
		t.Errorf("missing file config = %+v", cfg.User)
	}

	p := isolateGlobalConfig(t, "[user\nname = ")
	if _, err := LoadGlobalConfig(p); err == nil {
		t.Error("expected TOML parse error")
	}
	r := initRepo(t)
	if _, err := r.LoadConfig(); err == nil {
		t.Error("LoadConfig should surface a broken global config")
	}
}
