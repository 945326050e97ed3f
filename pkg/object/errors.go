package object

import "errors"

var (
	// ErrInvalidArguments reports malformed caller input (ids, flags, missing
	// fields). It is returned before any filesystem access.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrObjectNotFound reports an id that is absent from the store.
	ErrObjectNotFound = errors.New("object not found")

	// ErrCorruptObject reports a stored object whose framing, length, body
	// layout or id does not check out.
	ErrCorruptObject = errors.New("corrupt object")

	// ErrIO reports a filesystem failure other than a missing object.
	ErrIO = errors.New("i/o failure")

	// ErrCompression reports a zlib stream failure.
	ErrCompression = errors.New("compression failure")

	// ErrTypeMismatch reports that an object exists but is not of the kind the
	// caller asked for.
	ErrTypeMismatch = errors.New("object type mismatch")

	// ErrUnsupportedFileType reports a directory entry that is neither a
	// regular file, a directory nor a symlink.
	ErrUnsupportedFileType = errors.New("unsupported file type")
)
