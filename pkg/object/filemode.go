package object

import (
	"fmt"
	"io/fs"
)

// TreeModeFromFileInfo maps a filesystem entry to its tree mode. Regular
// files with any execute bit set are executable. Devices, sockets, pipes and
// other special files are rejected.
func TreeModeFromFileInfo(info fs.FileInfo) (TreeMode, error) {
	mode := info.Mode()
	switch {
	case mode.IsDir():
		return TreeModeDir, nil
	case mode&fs.ModeSymlink != 0:
		return TreeModeSymlink, nil
	case mode.IsRegular():
		if mode.Perm()&0o111 != 0 {
			return TreeModeExecutable, nil
		}
		return TreeModeFile, nil
	default:
		return "", fmt.Errorf("%w: %s (%s)", ErrUnsupportedFileType, info.Name(), mode.Type())
	}
}
