package repo

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/odvcencio/tinygit/pkg/object"
)

// TreeFileEntry represents a single non-directory entry in a flattened tree.
type TreeFileEntry struct {
	Path string
	Mode object.TreeMode
	Hash object.Hash
}

// WriteWorkingTree snapshots the repository's working directory as a tree.
func (r *Repo) WriteWorkingTree() (object.Hash, error) {
	return r.BuildTree(r.RootDir)
}

// BuildTree writes the directory dir, and recursively everything under it,
// to the store and returns the hash of the resulting tree.
//
// Names starting with "." are skipped in dir itself (which keeps .git out of
// the snapshot) but not in its subdirectories. Symlinks are stored as blobs
// holding the link target.
func (r *Repo) BuildTree(dir string) (object.Hash, error) {
	return r.buildTreeDir(dir, true)
}

// buildTreeDir builds a TreeObj for one directory level and writes it to the
// store. It returns the tree's hash.
func (r *Repo) buildTreeDir(dir string, top bool) (object.Hash, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return object.ZeroHash, fmt.Errorf("build tree %s: %w: %w", dir, object.ErrIO, err)
	}

	entries := make([]object.TreeEntry, 0, len(dirents))
	for _, de := range dirents {
		name := de.Name()
		if top && strings.HasPrefix(name, ".") {
			continue
		}
		p := filepath.Join(dir, name)

		info, err := de.Info()
		if err != nil {
			return object.ZeroHash, fmt.Errorf("build tree %s: %w: %w", p, object.ErrIO, err)
		}
		mode, err := object.TreeModeFromFileInfo(info)
		if err != nil {
			return object.ZeroHash, fmt.Errorf("build tree %s: %w", p, err)
		}

		var h object.Hash
		switch mode {
		case object.TreeModeDir:
			h, err = r.buildTreeDir(p, false)
		case object.TreeModeSymlink:
			h, err = r.writeSymlinkBlob(p)
		default:
			h, err = r.writeFileBlob(p)
		}
		if err != nil {
			return object.ZeroHash, err
		}
		entries = append(entries, object.TreeEntry{Mode: mode, Name: name, Hash: h})
	}

	object.SortTreeEntries(entries)
	h, err := r.Store.WriteTree(&object.TreeObj{Entries: entries})
	if err != nil {
		return object.ZeroHash, fmt.Errorf("write tree %s: %w", dir, err)
	}
	log.WithFields(log.Fields{"dir": dir, "entries": len(entries), "id": h.String()}).Debug("tree written")
	return h, nil
}

func (r *Repo) writeFileBlob(p string) (object.Hash, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return object.ZeroHash, fmt.Errorf("read %s: %w: %w", p, object.ErrIO, err)
	}
	h, err := r.Store.WriteBlob(&object.Blob{Data: data})
	if err != nil {
		return object.ZeroHash, fmt.Errorf("write blob %s: %w", p, err)
	}
	return h, nil
}

// writeSymlinkBlob stores the link's own target text; the link is never
// followed.
func (r *Repo) writeSymlinkBlob(p string) (object.Hash, error) {
	target, err := os.Readlink(p)
	if err != nil {
		return object.ZeroHash, fmt.Errorf("readlink %s: %w: %w", p, object.ErrIO, err)
	}
	h, err := r.Store.WriteBlob(&object.Blob{Data: []byte(filepath.ToSlash(target))})
	if err != nil {
		return object.ZeroHash, fmt.Errorf("write blob %s: %w", p, err)
	}
	return h, nil
}

// FlattenTree walks a tree object recursively, returning all non-directory
// entries with their full paths (using forward slashes).
func (r *Repo) FlattenTree(h object.Hash) ([]TreeFileEntry, error) {
	return r.flattenTreeRec(h, "")
}

func (r *Repo) flattenTreeRec(h object.Hash, prefix string) ([]TreeFileEntry, error) {
	treeObj, err := r.Store.ReadTree(h)
	if err != nil {
		return nil, fmt.Errorf("flatten tree: read %s: %w", h, err)
	}

	var result []TreeFileEntry
	for _, entry := range treeObj.Entries {
		fullPath := entry.Name
		if prefix != "" {
			fullPath = path.Join(prefix, entry.Name)
		}

		if entry.IsDir() {
			sub, err := r.flattenTreeRec(entry.Hash, fullPath)
			if err != nil {
				return nil, err
			}
			result = append(result, sub...)
		} else {
			result = append(result, TreeFileEntry{
				Path: fullPath,
				Mode: entry.Mode,
				Hash: entry.Hash,
			})
		}
	}
	return result, nil
}
