package repo

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/odvcencio/tinygit/pkg/object"
)

// DefaultSignature is the fixed identity and timestamp used when the caller
// does not supply one. Keeping it constant makes commit ids reproducible.
var DefaultSignature = object.Signature{
	Name:  "tinygit",
	Email: "tinygit@localhost",
	When:  1700000000,
	TZ:    "+0000",
}

// CommitSigner signs canonical commit payload bytes and returns the armored
// signature to be persisted in CommitObj.GPGSig.
type CommitSigner func(payload []byte) (string, error)

// CommitOptions describes a commit to create.
type CommitOptions struct {
	Tree    object.Hash // required
	Parent  object.Hash // zero for a root commit
	Message string      // required; a trailing newline is added if missing

	// Zero signatures fall back to DefaultSignature.
	Author    object.Signature
	Committer object.Signature

	Signer CommitSigner // optional
}

// CommitTree writes a commit object for an existing tree and returns its
// hash. HEAD and branch refs are left untouched.
//
//  1. Validate arguments (no I/O)
//  2. Check tree and parent exist in the store
//  3. Build CommitObj, filling in default identities
//  4. Sign the payload when a signer is given
//  5. Write commit to store
func (r *Repo) CommitTree(opts CommitOptions) (object.Hash, error) {
	// 1. Validate.
	if opts.Tree.IsZero() {
		return object.ZeroHash, fmt.Errorf("commit: %w: tree id is required", object.ErrInvalidArguments)
	}
	if strings.TrimSpace(opts.Message) == "" {
		return object.ZeroHash, fmt.Errorf("commit: %w: commit message is required", object.ErrInvalidArguments)
	}

	// 2. Referenced objects must already be stored.
	if !r.Store.Has(opts.Tree) {
		return object.ZeroHash, fmt.Errorf("commit: tree %s: %w", opts.Tree, object.ErrObjectNotFound)
	}
	var parents []object.Hash
	if !opts.Parent.IsZero() {
		if !r.Store.Has(opts.Parent) {
			return object.ZeroHash, fmt.Errorf("commit: parent %s: %w", opts.Parent, object.ErrObjectNotFound)
		}
		parents = append(parents, opts.Parent)
	}

	// 3. Create CommitObj.
	message := opts.Message
	if !strings.HasSuffix(message, "\n") {
		message += "\n"
	}
	commitObj := &object.CommitObj{
		TreeHash:  opts.Tree,
		Parents:   parents,
		Author:    signatureOrDefault(opts.Author),
		Committer: signatureOrDefault(opts.Committer),
		Message:   message,
	}

	// 4. Sign.
	if opts.Signer != nil {
		payload := object.CommitSigningPayload(commitObj)
		signature, err := opts.Signer(payload)
		if err != nil {
			return object.ZeroHash, fmt.Errorf("commit: sign commit: %w", err)
		}
		commitObj.GPGSig = signature
	}

	// 5. Write commit to store.
	commitHash, err := r.Store.WriteCommit(commitObj)
	if err != nil {
		return object.ZeroHash, fmt.Errorf("commit: write commit: %w", err)
	}
	log.WithFields(log.Fields{
		"id":     commitHash.String(),
		"tree":   opts.Tree.String(),
		"signed": commitObj.GPGSig != "",
	}).Debug("commit written")
	return commitHash, nil
}

func signatureOrDefault(s object.Signature) object.Signature {
	if s == (object.Signature{}) {
		return DefaultSignature
	}
	if s.TZ == "" {
		s.TZ = DefaultSignature.TZ
	}
	return s
}
