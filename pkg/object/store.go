package object

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio"
	log "github.com/sirupsen/logrus"
)

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: objects/ab/cdef0123...
//
// Files hold the zlib-compressed "type len\0content" envelope and are never
// rewritten once present.
type Store struct {
	root string
}

// NewStore creates a Store rooted at the given directory (normally .git).
// The objects/ subdirectory and its shards are created lazily on first write.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the directory the store was opened on.
func (s *Store) Root() string {
	return s.root
}

// objectPath returns the filesystem path for a given hash.
func (s *Store) objectPath(h Hash) string {
	hex := h.String()
	return filepath.Join(s.root, "objects", hex[:2], hex[2:])
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	_, err := os.Stat(s.objectPath(h))
	return err == nil
}

// Put stores already compressed framed bytes under h. If a file for h
// exists the write is skipped: identical ids imply identical content.
func (s *Store) Put(h Hash, compressed []byte) error {
	logger := log.WithField("id", h.String())
	if s.Has(h) {
		logger.Debug("object exists, skipping write")
		return nil
	}

	path := s.objectPath(h)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("object write %s: mkdir: %w: %w", h, ErrIO, err)
	}
	if err := renameio.WriteFile(path, compressed, 0o444); err != nil {
		return fmt.Errorf("object write %s: %w: %w", h, ErrIO, err)
	}
	logger.WithField("bytes", len(compressed)).Debug("object written")
	return nil
}

// Get returns the compressed framed bytes stored under h.
func (s *Store) Get(h Hash) ([]byte, error) {
	data, err := os.ReadFile(s.objectPath(h))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("object read %s: %w", h, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("object read %s: %w: %w", h, ErrIO, err)
	}
	return data, nil
}

// Write frames, compresses and stores an object, returning its content
// hash.
func (s *Store) Write(objType ObjectType, data []byte) (Hash, error) {
	h, framed := Encode(objType, data)
	if s.Has(h) {
		log.WithField("id", h.String()).Debug("object exists, skipping write")
		return h, nil
	}
	compressed, err := Compress(framed)
	if err != nil {
		return ZeroHash, fmt.Errorf("object write %s: %w", h, err)
	}
	if err := s.Put(h, compressed); err != nil {
		return ZeroHash, err
	}
	return h, nil
}

// Read retrieves an object by hash, returning its type and raw content. The
// content is re-hashed and must match h.
func (s *Store) Read(h Hash) (ObjectType, []byte, error) {
	compressed, err := s.Get(h)
	if err != nil {
		return "", nil, err
	}
	framed, err := Decompress(compressed)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}
	if got := HashBytes(framed); got != h {
		return "", nil, fmt.Errorf("object read %s: %w: content hashes to %s", h, ErrCorruptObject, got)
	}
	objType, body, err := Decode(framed)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return objType, body, nil
}

// ReadObject reads and deserializes an object of any type.
func (s *Store) ReadObject(h Hash) (Object, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	o, err := Unmarshal(objType, data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return o, nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

func (s *Store) readTyped(h Hash, want ObjectType) ([]byte, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != want {
		return nil, fmt.Errorf("object %s: %w: got %q, want %q", h, ErrTypeMismatch, objType, want)
	}
	return data, nil
}

// WriteBlob serializes and stores a Blob.
func (s *Store) WriteBlob(b *Blob) (Hash, error) {
	return s.Write(TypeBlob, MarshalBlob(b))
}

// ReadBlob reads and deserializes a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	data, err := s.readTyped(h, TypeBlob)
	if err != nil {
		return nil, err
	}
	return UnmarshalBlob(data)
}

// WriteTree serializes and stores a TreeObj.
func (s *Store) WriteTree(tr *TreeObj) (Hash, error) {
	return s.Write(TypeTree, MarshalTree(tr))
}

// ReadTree reads and deserializes a TreeObj.
func (s *Store) ReadTree(h Hash) (*TreeObj, error) {
	data, err := s.readTyped(h, TypeTree)
	if err != nil {
		return nil, err
	}
	tr, err := UnmarshalTree(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return tr, nil
}

// WriteCommit serializes and stores a CommitObj.
func (s *Store) WriteCommit(c *CommitObj) (Hash, error) {
	return s.Write(TypeCommit, MarshalCommit(c))
}

// ReadCommit reads and deserializes a CommitObj.
func (s *Store) ReadCommit(h Hash) (*CommitObj, error) {
	data, err := s.readTyped(h, TypeCommit)
	if err != nil {
		return nil, err
	}
	c, err := UnmarshalCommit(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return c, nil
}
