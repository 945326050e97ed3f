package object

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/klauspost/compress/zlib"
)

// envelopeHeader returns "type len\0".
func envelopeHeader(objType ObjectType, n int) []byte {
	hdr := make([]byte, 0, len(objType)+24)
	hdr = append(hdr, objType...)
	hdr = append(hdr, ' ')
	hdr = strconv.AppendInt(hdr, int64(n), 10)
	return append(hdr, 0)
}

// Encode frames body as "type len\0body" and returns the framed bytes
// together with their id.
func Encode(objType ObjectType, body []byte) (Hash, []byte) {
	framed := append(envelopeHeader(objType, len(body)), body...)
	return HashBytes(framed), framed
}

// Decode parses framed bytes produced by Encode. The header length must
// match the number of body bytes exactly.
func Decode(framed []byte) (ObjectType, []byte, error) {
	nulIdx := bytes.IndexByte(framed, 0)
	if nulIdx < 0 {
		return "", nil, fmt.Errorf("%w: invalid format (no NUL)", ErrCorruptObject)
	}
	header := framed[:nulIdx]
	body := framed[nulIdx+1:]

	sp := bytes.IndexByte(header, ' ')
	if sp < 0 {
		return "", nil, fmt.Errorf("%w: invalid header %q", ErrCorruptObject, header)
	}
	objType := ObjectType(header[:sp])
	if !objType.Valid() {
		return "", nil, fmt.Errorf("%w: unknown object type %q", ErrCorruptObject, objType)
	}
	length, err := parseLength(header[sp+1:])
	if err != nil {
		return "", nil, err
	}
	if len(body) != length {
		return "", nil, fmt.Errorf("%w: length mismatch (header=%d, actual=%d)", ErrCorruptObject, length, len(body))
	}
	return objType, body, nil
}

func parseLength(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, fmt.Errorf("%w: empty length", ErrCorruptObject)
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: invalid length %q", ErrCorruptObject, b)
		}
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid length %q: %v", ErrCorruptObject, b, err)
	}
	return n, nil
}

// Compress deflates framed bytes into a zlib stream at the default level.
func Compress(framed []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompression, err)
	}
	if _, err := zw.Write(framed); err != nil {
		zw.Close()
		return nil, fmt.Errorf("%w: %v", ErrCompression, err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompression, err)
	}
	return buf.Bytes(), nil
}

// Decompress inflates a complete zlib stream. A truncated stream or a bad
// checksum is reported as a corrupt object.
func Decompress(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", ErrCorruptObject, ErrCompression, err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", ErrCorruptObject, ErrCompression, err)
	}
	return out, nil
}
