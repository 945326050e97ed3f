package object

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

// Valid reports whether t is one of the known object kinds.
func (t ObjectType) Valid() bool {
	switch t {
	case TypeBlob, TypeTree, TypeCommit:
		return true
	}
	return false
}

// TreeMode is the octal mode token written in front of a tree entry.
type TreeMode string

const (
	// Tree mode constants compatible with Git's canonical mode strings.
	TreeModeDir        TreeMode = "40000"
	TreeModeFile       TreeMode = "100644"
	TreeModeExecutable TreeMode = "100755"
	TreeModeSymlink    TreeMode = "120000"
)

// Object is implemented by *Blob, *TreeObj and *CommitObj only.
type Object interface {
	Type() ObjectType
	sealed()
}

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

// TreeEntry is one entry in a tree object.
type TreeEntry struct {
	Mode TreeMode
	Name string
	Hash Hash
}

// IsDir reports whether the entry points at a subtree.
func (e TreeEntry) IsDir() bool { return e.Mode == TreeModeDir }

// TreeObj holds the entries of a single directory level.
type TreeObj struct {
	Entries []TreeEntry
}

// Signature is an author or committer line: identity plus timestamp.
type Signature struct {
	Name  string
	Email string
	When  int64  // unix seconds
	TZ    string // e.g. "+0000", "-0700"
}

// CommitObj represents a commit pointing to a tree with metadata.
type CommitObj struct {
	TreeHash  Hash
	Parents   []Hash
	Author    Signature
	Committer Signature
	GPGSig    string // armored signature, empty when unsigned
	Message   string
}

func (*Blob) Type() ObjectType      { return TypeBlob }
func (*TreeObj) Type() ObjectType   { return TypeTree }
func (*CommitObj) Type() ObjectType { return TypeCommit }

func (*Blob) sealed()      {}
func (*TreeObj) sealed()   {}
func (*CommitObj) sealed() {}
