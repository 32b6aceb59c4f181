package HEMatch

import (
	"path/filepath"
	"runtime"
)

// FindRootPath returns the directory holding this file, i.e. the module root.
func FindRootPath() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Dir(filename)
}
