package object

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Marshal serializes any object to its canonical body.
func Marshal(o Object) []byte {
	switch v := o.(type) {
	case *Blob:
		return MarshalBlob(v)
	case *TreeObj:
		return MarshalTree(v)
	case *CommitObj:
		return MarshalCommit(v)
	default:
		panic(fmt.Sprintf("object: unexpected type %T", o))
	}
}

// Unmarshal parses a body of the given type.
func Unmarshal(objType ObjectType, data []byte) (Object, error) {
	var (
		o   Object
		err error
	)
	switch objType {
	case TypeBlob:
		o, err = UnmarshalBlob(data)
	case TypeTree:
		o, err = UnmarshalTree(data)
	case TypeCommit:
		o, err = UnmarshalCommit(data)
	default:
		return nil, fmt.Errorf("%w: unknown object type %q", ErrCorruptObject, objType)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob to raw bytes (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes raw bytes into a Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// ---------------------------------------------------------------------------
// TreeObj
// ---------------------------------------------------------------------------

// SortTreeEntries orders entries canonically: byte-wise by name, where a
// subtree sorts as if its name ended in "/".
func SortTreeEntries(entries []TreeEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return treeSortKey(entries[i]) < treeSortKey(entries[j])
	})
}

func treeSortKey(e TreeEntry) string {
	if e.IsDir() {
		return e.Name + "/"
	}
	return e.Name
}

// MarshalTree serializes a TreeObj. Entries are sorted canonically before
// writing, so the output only depends on the set of entries. Each entry is
//
//	<mode> <name>\0<20 raw hash bytes>
func MarshalTree(tr *TreeObj) []byte {
	sorted := make([]TreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)
	SortTreeEntries(sorted)

	var buf bytes.Buffer
	for _, e := range sorted {
		buf.WriteString(string(e.Mode))
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(e.Hash[:])
	}
	return buf.Bytes()
}

// UnmarshalTree parses a TreeObj from its serialized form. Entries are
// returned in stored order.
func UnmarshalTree(data []byte) (*TreeObj, error) {
	tr := &TreeObj{}
	for len(data) > 0 {
		sp := bytes.IndexByte(data, ' ')
		if sp < 0 {
			return nil, fmt.Errorf("%w: unmarshal tree: entry without mode separator", ErrCorruptObject)
		}
		mode, err := parseTreeMode(string(data[:sp]))
		if err != nil {
			return nil, fmt.Errorf("%w: unmarshal tree: %v", ErrCorruptObject, err)
		}
		data = data[sp+1:]

		nul := bytes.IndexByte(data, 0)
		if nul < 0 {
			return nil, fmt.Errorf("%w: unmarshal tree: entry name not terminated", ErrCorruptObject)
		}
		name := string(data[:nul])
		if name == "" {
			return nil, fmt.Errorf("%w: unmarshal tree: empty entry name", ErrCorruptObject)
		}
		data = data[nul+1:]

		if len(data) < HashSize {
			return nil, fmt.Errorf("%w: unmarshal tree: truncated hash for %q", ErrCorruptObject, name)
		}
		var h Hash
		copy(h[:], data[:HashSize])
		data = data[HashSize:]

		tr.Entries = append(tr.Entries, TreeEntry{Mode: mode, Name: name, Hash: h})
	}
	return tr, nil
}

func parseTreeMode(mode string) (TreeMode, error) {
	switch m := TreeMode(mode); m {
	case TreeModeDir, TreeModeFile, TreeModeExecutable, TreeModeSymlink:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q", mode)
	}
}

// EntryType returns the object type a tree entry points at.
func (e TreeEntry) EntryType() ObjectType {
	if e.IsDir() {
		return TypeTree
	}
	return TypeBlob
}

// ---------------------------------------------------------------------------
// CommitObj
// ---------------------------------------------------------------------------

// String renders the signature as "Name <email> seconds tz".
func (s Signature) String() string {
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.When, s.TZ)
}

// ParseSignature parses the value of an author or committer header.
func ParseSignature(v string) (Signature, error) {
	lt := strings.IndexByte(v, '<')
	gt := strings.LastIndexByte(v, '>')
	if lt < 0 || gt < lt {
		return Signature{}, fmt.Errorf("malformed signature %q", v)
	}
	sig := Signature{
		Name:  strings.TrimSpace(v[:lt]),
		Email: v[lt+1 : gt],
	}
	fields := strings.Fields(v[gt+1:])
	if len(fields) != 2 {
		return Signature{}, fmt.Errorf("malformed signature time %q", v[gt+1:])
	}
	when, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Signature{}, fmt.Errorf("bad timestamp %q: %v", fields[0], err)
	}
	sig.When = when
	sig.TZ = fields[1]
	return sig, nil
}

// MarshalCommit serializes a CommitObj:
//
//	tree H
//	parent H     (zero or more)
//	author A
//	committer C
//	gpgsig S     (optional, continuation lines start with a space)
//
//	message
func MarshalCommit(c *CommitObj) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.TreeHash)
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	fmt.Fprintf(&buf, "author %s\n", c.Author)
	fmt.Fprintf(&buf, "committer %s\n", c.Committer)
	if sig := strings.TrimRight(c.GPGSig, "\n"); sig != "" {
		buf.WriteString("gpgsig ")
		buf.WriteString(strings.ReplaceAll(sig, "\n", "\n "))
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// UnmarshalCommit parses a CommitObj from its serialized form.
func UnmarshalCommit(data []byte) (*CommitObj, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("%w: unmarshal commit: missing header/message separator", ErrCorruptObject)
	}
	header := string(data[:idx])
	c := &CommitObj{Message: string(data[idx+2:])}

	var sigLines []string
	var lastKey string
	for _, line := range strings.Split(header, "\n") {
		if strings.HasPrefix(line, " ") {
			if lastKey != "gpgsig" {
				return nil, fmt.Errorf("%w: unmarshal commit: unexpected continuation line", ErrCorruptObject)
			}
			sigLines = append(sigLines, line[1:])
			continue
		}
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("%w: unmarshal commit: malformed header line %q", ErrCorruptObject, line)
		}
		lastKey = key
		switch key {
		case "tree":
			h, err := ParseHash(val)
			if err != nil {
				return nil, fmt.Errorf("%w: unmarshal commit: tree: %v", ErrCorruptObject, err)
			}
			c.TreeHash = h
		case "parent":
			h, err := ParseHash(val)
			if err != nil {
				return nil, fmt.Errorf("%w: unmarshal commit: parent: %v", ErrCorruptObject, err)
			}
			c.Parents = append(c.Parents, h)
		case "author", "committer":
			sig, err := ParseSignature(val)
			if err != nil {
				return nil, fmt.Errorf("%w: unmarshal commit: %s: %v", ErrCorruptObject, key, err)
			}
			if key == "author" {
				c.Author = sig
			} else {
				c.Committer = sig
			}
		case "gpgsig":
			sigLines = append(sigLines, val)
		default:
			return nil, fmt.Errorf("%w: unmarshal commit: unknown header key %q", ErrCorruptObject, key)
		}
	}
	if len(sigLines) > 0 {
		c.GPGSig = strings.Join(sigLines, "\n") + "\n"
	}
	if c.TreeHash.IsZero() {
		return nil, fmt.Errorf("%w: unmarshal commit: missing tree", ErrCorruptObject)
	}
	return c, nil
}
