package object

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func corruptLoose(t *testing.T, s *Store, h Hash, data []byte) {
	t.Helper()
	p := s.objectPath(h)
	if err := os.Remove(p); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestStoreVerify(t *testing.T) {
	s := tempStore(t)

	report, err := s.Verify()
	if err != nil {
		t.Fatalf("Verify on empty store: %v", err)
	}
	if report.LooseObjects != 0 {
		t.Errorf("LooseObjects = %d, want 0", report.LooseObjects)
	}

	for _, body := range []string{"a", "b", "c"} {
		if _, err := s.WriteBlob(&Blob{Data: []byte(body)}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.WriteTree(&TreeObj{}); err != nil {
		t.Fatal(err)
	}
	// Stray files in objects/ are not objects.
	if err := os.WriteFile(filepath.Join(s.Root(), "objects", "README"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err = s.Verify()
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if report.LooseObjects != 4 {
		t.Errorf("LooseObjects = %d, want 4", report.LooseObjects)
	}
}

func TestStoreVerifyDetectsCorruptLooseObject(t *testing.T) {
	s := tempStore(t)

	h, err := s.Write(TypeBlob, []byte("hello"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	corruptLoose(t, s, h, []byte("broken"))

	if _, err := s.Verify(); !errors.Is(err, ErrCorruptObject) {
		t.Fatalf("Verify err = %v, want ErrCorruptObject", err)
	}
}

func TestStoreVerifyDetectsMisfiledObject(t *testing.T) {
	s := tempStore(t)

	h, err := s.Write(TypeBlob, []byte("hello"))
	if err != nil {
		t.Fatal(err)
	}
	_, framed := Encode(TypeBlob, []byte("other"))
	compressed, err := Compress(framed)
	if err != nil {
		t.Fatal(err)
	}
	corruptLoose(t, s, h, compressed)

	if _, err := s.Verify(); !errors.Is(err, ErrCorruptObject) {
		t.Fatalf("Verify err = %v, want ErrCorruptObject", err)
	}
}

func TestReachableSet(t *testing.T) {
	s := tempStore(t)

	blob, err := s.WriteBlob(&Blob{Data: []byte("hi\n")})
	if err != nil {
		t.Fatal(err)
	}
	sub, err := s.WriteTree(&TreeObj{})
	if err != nil {
		t.Fatal(err)
	}
	root, err := s.WriteTree(&TreeObj{Entries: []TreeEntry{
		{Mode: TreeModeFile, Name: "hi.txt", Hash: blob},
		{Mode: TreeModeDir, Name: "empty", Hash: sub},
	}})
	if err != nil {
		t.Fatal(err)
	}
	sig := Signature{Name: "a", Email: "a@b", When: 1, TZ: "+0000"}
	first, err := s.WriteCommit(&CommitObj{TreeHash: root, Author: sig, Committer: sig, Message: "one\n"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.WriteCommit(&CommitObj{TreeHash: root, Parents: []Hash{first}, Author: sig, Committer: sig, Message: "two\n"})
	if err != nil {
		t.Fatal(err)
	}
	// Unreferenced objects stay out of the set.
	if _, err := s.WriteBlob(&Blob{Data: []byte("loose")}); err != nil {
		t.Fatal(err)
	}

	set, err := s.ReachableSet([]Hash{second})
	if err != nil {
		t.Fatalf("ReachableSet: %v", err)
	}
	for _, h := range []Hash{second, first, root, sub, blob} {
		if _, ok := set[h]; !ok {
			t.Errorf("%s missing from reachable set", h)
		}
	}
	if len(set) != 5 {
		t.Errorf("len(set) = %d, want 5", len(set))
	}
}

func TestReachableSetMissingObject(t *testing.T) {
	s := tempStore(t)

	absent := HashObject(TypeBlob, []byte("never written"))
	root, err := s.WriteTree(&TreeObj{Entries: []TreeEntry{{Mode: TreeModeFile, Name: "f", Hash: absent}}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.ReachableSet([]Hash{root}); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("err = %v, want ErrObjectNotFound", err)
	}
}
