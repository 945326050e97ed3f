package repo

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio"
	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"github.com/odvcencio/tinygit/pkg/object"
)

const (
	// GitDirName is the metadata directory at the repository root.
	GitDirName = ".git"

	// DefaultHead is the content of a freshly initialized HEAD.
	DefaultHead = "ref: refs/heads/main\n"
)

// Init creates a new repository at path. It creates the .git/ directory
// structure: HEAD, config, objects/, and refs/heads/. Returns an error if a
// .git/ directory already exists.
func Init(path string) (*Repo, error) {
	gitDir := filepath.Join(path, GitDirName)

	// Fail if .git/ already exists.
	if _, err := os.Stat(gitDir); err == nil {
		return nil, fmt.Errorf("init: repository already exists at %s", gitDir)
	}

	dirs := []string{
		filepath.Join(gitDir, "objects"),
		filepath.Join(gitDir, "refs", "heads"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w: %w", d, object.ErrIO, err)
		}
	}

	headPath := filepath.Join(gitDir, "HEAD")
	if err := renameio.WriteFile(headPath, []byte(DefaultHead), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w: %w", object.ErrIO, err)
	}

	if err := writeInitialConfig(filepath.Join(gitDir, "config")); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	log.WithField("dir", gitDir).Debug("repository initialized")
	return &Repo{
		RootDir: path,
		GitDir:  gitDir,
		Store:   object.NewStore(gitDir),
	}, nil
}

func writeInitialConfig(path string) error {
	cfg := ini.Empty()
	core, err := cfg.NewSection("core")
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	for _, kv := range [][2]string{
		{"repositoryformatversion", "0"},
		{"filemode", "true"},
		{"bare", "false"},
	} {
		if _, err := core.NewKey(kv[0], kv[1]); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
	}
	return saveINI(cfg, path)
}

func saveINI(cfg *ini.File, path string) error {
	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := renameio.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w: %w", object.ErrIO, err)
	}
	return nil
}

// Open searches upward from path for a .git/ directory and opens the
// repository. Returns an error if no .git/ directory is found.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		gitDir := filepath.Join(cur, GitDirName)
		info, err := os.Stat(gitDir)
		if err == nil && info.IsDir() {
			return &Repo{
				RootDir: cur,
				GitDir:  gitDir,
				Store:   object.NewStore(gitDir),
			}, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open: not a repository (or any parent up to /): %s", abs)
		}
		cur = parent
	}
}

// Head reads .git/HEAD. If the content starts with "ref: ", it returns the
// ref path (e.g., "refs/heads/main"). Otherwise it returns the raw content
// as a detached hash string.
func (r *Repo) Head() (string, error) {
	data, err := os.ReadFile(filepath.Join(r.GitDir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("head: %w: %w", object.ErrIO, err)
	}
	content := strings.TrimRight(string(data), "\n")

	if strings.HasPrefix(content, "ref: ") {
		return strings.TrimPrefix(content, "ref: "), nil
	}
	return content, nil
}
