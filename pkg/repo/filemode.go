package repo

import (
	"io/fs"

	"github.com/odvcencio/plumb/pkg/object"
)

func modeFromFileInfo(info fs.FileInfo) object.FileMode {
	switch m := info.Mode(); {
	case m&fs.ModeSymlink != 0:
		return object.ModeSymlink
	case m.IsDir():
		return object.ModeDir
	case m&0o111 != 0:
		return object.ModeExecutable
	default:
		return object.ModeFile
	}
}
