package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"github.com/odvcencio/tinygit/pkg/object"
)

// GlobalConfigEnv overrides the location of the user-level TOML config.
const GlobalConfigEnv = "TINYGIT_CONFIG"

// Config holds the settings the commit builder consumes. It is assembled
// from built-in defaults, the user-level TOML file and the repository's
// .git/config, later sources overriding earlier ones field by field.
type Config struct {
	User UserConfig `toml:"user"`
}

// UserConfig is the [user] section.
type UserConfig struct {
	Name       string `toml:"name"`
	Email      string `toml:"email"`
	SigningKey string `toml:"signingkey"`
}

// merge copies every non-empty field of o into c.
func (c *Config) merge(o *Config) {
	if o == nil {
		return
	}
	if o.User.Name != "" {
		c.User.Name = o.User.Name
	}
	if o.User.Email != "" {
		c.User.Email = o.User.Email
	}
	if o.User.SigningKey != "" {
		c.User.SigningKey = o.User.SigningKey
	}
}

// Signature builds an identity line from the configured user and the given
// time.
func (c *Config) Signature(when int64, tz string) object.Signature {
	return object.Signature{Name: c.User.Name, Email: c.User.Email, When: when, TZ: tz}
}

// GlobalConfigPath returns $TINYGIT_CONFIG, or config.toml under the user
// config directory ($XDG_CONFIG_HOME/tinygit, ~/.config/tinygit on Linux).
func GlobalConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(GlobalConfigEnv)); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "tinygit", "config.toml"), nil
}

// LoadGlobalConfig decodes the TOML file at path. A missing file yields an
// empty config.
func LoadGlobalConfig(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read global config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		log.WithField("keys", undecoded).Warn("ignoring unknown global config keys")
	}
	return &cfg, nil
}

// loadINI reads a git-style config file. Section and key names are case
// insensitive, as in git.
func loadINI(path string) (*ini.File, error) {
	return ini.LoadSources(ini.LoadOptions{Loose: true, Insensitive: true}, path)
}

func (r *Repo) configPath() string {
	return filepath.Join(r.GitDir, "config")
}

// ReadConfig reads the INI file .git/config. Missing config returns an
// empty config.
func (r *Repo) ReadConfig() (*Config, error) {
	f, err := loadINI(r.configPath())
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	user := f.Section("user")
	return &Config{User: UserConfig{
		Name:       user.Key("name").String(),
		Email:      user.Key("email").String(),
		SigningKey: user.Key("signingkey").String(),
	}}, nil
}

// SetConfig stores "section.key = value" in .git/config.
func (r *Repo) SetConfig(name, value string) error {
	section, key, ok := strings.Cut(strings.TrimSpace(name), ".")
	if !ok || section == "" || key == "" {
		return fmt.Errorf("set config: %w: key %q must look like section.key", object.ErrInvalidArguments, name)
	}
	f, err := loadINI(r.configPath())
	if err != nil {
		return fmt.Errorf("set config: %w", err)
	}
	f.Section(section).Key(key).SetValue(value)
	if err := saveINI(f, r.configPath()); err != nil {
		return fmt.Errorf("set config %s: %w", name, err)
	}
	return nil
}

// GetConfig returns the value of "section.key" from .git/config.
func (r *Repo) GetConfig(name string) (string, bool, error) {
	section, key, ok := strings.Cut(strings.TrimSpace(name), ".")
	if !ok || section == "" || key == "" {
		return "", false, fmt.Errorf("get config: %w: key %q must look like section.key", object.ErrInvalidArguments, name)
	}
	f, err := loadINI(r.configPath())
	if err != nil {
		return "", false, fmt.Errorf("get config: %w", err)
	}
	if !f.Section(section).HasKey(key) {
		return "", false, nil
	}
	return f.Section(section).Key(key).String(), true, nil
}

// LoadConfig resolves the effective configuration: built-in identity, then
// the global TOML file, then .git/config.
func (r *Repo) LoadConfig() (*Config, error) {
	cfg := &Config{User: UserConfig{
		Name:  DefaultSignature.Name,
		Email: DefaultSignature.Email,
	}}

	globalPath, err := GlobalConfigPath()
	if err != nil {
		log.WithError(err).Debug("no global config location")
	} else {
		global, err := LoadGlobalConfig(globalPath)
		if err != nil {
			return nil, err
		}
		cfg.merge(global)
	}

	local, err := r.ReadConfig()
	if err != nil {
		return nil, err
	}
	cfg.merge(local)
	return cfg, nil
}
