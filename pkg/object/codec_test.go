package object

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeFraming(t *testing.T) {
	h, framed := Encode(TypeBlob, []byte("hi\n"))
	if string(framed) != "blob 3\x00hi\n" {
		t.Errorf("framed = %q", framed)
	}
	if h != HashBytes(framed) {
		t.Error("Encode hash is not the hash of the framed bytes")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	bodies := [][]byte{
		nil,
		[]byte("hi\n"),
		[]byte("with\x00embedded\x00nuls"),
		bytes.Repeat([]byte{0xff, 0x00, 'a'}, 10000),
	}
	for _, objType := range []ObjectType{TypeBlob, TypeTree, TypeCommit} {
		for _, body := range bodies {
			_, framed := Encode(objType, body)
			gotType, gotBody, err := Decode(framed)
			if err != nil {
				t.Fatalf("Decode(%s, %d bytes): %v", objType, len(body), err)
			}
			if gotType != objType {
				t.Errorf("type = %q, want %q", gotType, objType)
			}
			if !bytes.Equal(gotBody, body) {
				t.Errorf("%s body mismatch for %d bytes", objType, len(body))
			}
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		framed string
	}{
		{"missing NUL", "blob 3hi\n"},
		{"missing space", "blob3\x00hi\n"},
		{"unknown type", "tag 3\x00hi\n"},
		{"empty length", "blob \x00"},
		{"non-numeric length", "blob three\x00hi\n"},
		{"signed length", "blob +3\x00hi\n"},
		{"negative length", "blob -3\x00hi\n"},
		{"length too long", "blob 4\x00hi\n"},
		{"length too short", "blob 2\x00hi\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Decode([]byte(tc.framed))
			if !errors.Is(err, ErrCorruptObject) {
				t.Fatalf("Decode(%q): err = %v, want ErrCorruptObject", tc.framed, err)
			}
		})
	}
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	inputs := [][]byte{
		{},
		[]byte("blob 3\x00hi\n"),
		bytes.Repeat([]byte("abcdefgh"), 1<<14),
	}
	for _, in := range inputs {
		c, err := Compress(in)
		if err != nil {
			t.Fatalf("Compress: %v", err)
		}
		out, err := Decompress(c)
		if err != nil {
			t.Fatalf("Decompress: %v", err)
		}
		if !bytes.Equal(out, in) {
			t.Errorf("round-trip mismatch for %d bytes", len(in))
		}
	}
}

func TestDecompressTruncated(t *testing.T) {
	c, err := Compress(bytes.Repeat([]byte("truncate me "), 100))
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range []int{0, 1, len(c) / 2, len(c) - 1} {
		_, err := Decompress(c[:n])
		if !errors.Is(err, ErrCorruptObject) || !errors.Is(err, ErrCompression) {
			t.Errorf("Decompress(%d of %d bytes): err = %v", n, len(c), err)
		}
	}
}

func TestParseHash(t *testing.T) {
	const hex = "45b983be36b73c0788dc9cbcb76cbb80fc7bb057"
	h, err := ParseHash(hex)
	if err != nil {
		t.Fatalf("ParseHash: %v", err)
	}
	if h.String() != hex {
		t.Errorf("String = %s, want %s", h, hex)
	}
	upper, err := ParseHash("45B983BE36B73C0788DC9CBCB76CBB80FC7BB057")
	if err != nil {
		t.Fatalf("ParseHash upper: %v", err)
	}
	if upper != h {
		t.Error("upper-case id parsed to a different hash")
	}

	for _, bad := range []string{"", "45b983", hex + "00", "zz" + hex[2:]} {
		if _, err := ParseHash(bad); !errors.Is(err, ErrInvalidArguments) {
			t.Errorf("ParseHash(%q): err = %v, want ErrInvalidArguments", bad, err)
		}
	}
}

func TestHashIsZero(t *testing.T) {
	if !ZeroHash.IsZero() {
		t.Error("ZeroHash.IsZero() = false")
	}
	if EmptyTreeHash.IsZero() {
		t.Error("EmptyTreeHash.IsZero() = true")
	}
}
