package engine

import (
	"os"
	"path/filepath"

	"github.com/roach88/stirgen/internal/stir"
)

// writeFileAtomic replaces path with data. The bytes go to a temporary file
// in the same directory first, so a failure never leaves a partial program
// at path.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return stir.IOFailure("create "+path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return stir.IOFailure("write "+path, err)
	}
	if err = tmp.Sync(); err != nil {
		return stir.IOFailure("sync "+path, err)
	}
	if err = tmp.Close(); err != nil {
		return stir.IOFailure("close "+path, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return stir.IOFailure("chmod "+path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return stir.IOFailure("rename "+path, err)
	}
	return nil
}
