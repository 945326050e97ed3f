package object

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// VerifySummary reports the outcome of Store.Verify.
type VerifySummary struct {
	LooseObjects int
}

// Verify reads every loose object, checking that it inflates, frames and
// hashes to the id it is filed under. The first bad object aborts the walk.
func (s *Store) Verify() (*VerifySummary, error) {
	hashes, err := s.listLooseObjectHashes()
	if err != nil {
		return nil, err
	}

	report := &VerifySummary{}
	for _, h := range hashes {
		if _, _, err := s.Read(h); err != nil {
			return nil, fmt.Errorf("verify %s: %w", h, err)
		}
		report.LooseObjects++
	}
	return report, nil
}

// listLooseObjectHashes returns the ids of all files under objects/ that
// follow the fan-out naming, in ascending order.
func (s *Store) listLooseObjectHashes() ([]Hash, error) {
	objectsDir := filepath.Join(s.root, "objects")
	fanoutDirs, err := os.ReadDir(objectsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read objects dir: %w: %w", ErrIO, err)
	}

	var hashes []Hash
	for _, fanoutDir := range fanoutDirs {
		prefix := fanoutDir.Name()
		if !fanoutDir.IsDir() || !isLowerHex(prefix, 2) {
			continue
		}

		entries, err := os.ReadDir(filepath.Join(objectsDir, prefix))
		if err != nil {
			return nil, fmt.Errorf("read objects fanout %s: %w: %w", prefix, ErrIO, err)
		}
		for _, e := range entries {
			suffix := e.Name()
			if e.IsDir() || !isLowerHex(suffix, 2*HashSize-2) {
				continue
			}
			var h Hash
			if _, err := hex.Decode(h[:], []byte(prefix+suffix)); err != nil {
				continue
			}
			hashes = append(hashes, h)
		}
	}
	// ReadDir sorts by name, so hashes are already ascending.
	return hashes, nil
}

func isLowerHex(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// ReachableSet returns every object id reachable from roots by following
// commit tree/parent links and tree entries. Unlike Read it treats a
// missing object as an error, so it doubles as a connectivity check.
func (s *Store) ReachableSet(roots []Hash) (map[Hash]struct{}, error) {
	out := make(map[Hash]struct{}, len(roots))
	stack := append([]Hash(nil), roots...)
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := out[h]; ok {
			continue
		}

		objType, data, err := s.Read(h)
		if err != nil {
			return nil, fmt.Errorf("reachable set read %s: %w", h, err)
		}
		out[h] = struct{}{}

		refs, err := referencedHashes(objType, data)
		if err != nil {
			return nil, fmt.Errorf("reachable set parse %s (%s): %w", h, objType, err)
		}
		stack = append(stack, refs...)
	}
	return out, nil
}

func referencedHashes(objType ObjectType, data []byte) ([]Hash, error) {
	switch objType {
	case TypeBlob:
		return nil, nil
	case TypeCommit:
		commit, err := UnmarshalCommit(data)
		if err != nil {
			return nil, err
		}
		refs := make([]Hash, 0, 1+len(commit.Parents))
		refs = append(refs, commit.TreeHash)
		refs = append(refs, commit.Parents...)
		return refs, nil
	case TypeTree:
		tree, err := UnmarshalTree(data)
		if err != nil {
			return nil, err
		}
		refs := make([]Hash, 0, len(tree.Entries))
		for _, e := range tree.Entries {
			refs = append(refs, e.Hash)
		}
		return refs, nil
	default:
		return nil, fmt.Errorf("%w: unsupported object type %q", ErrCorruptObject, objType)
	}
}
