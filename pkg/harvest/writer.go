package harvest

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/colhub/hubsync/pkg/constants"
	"github.com/colhub/hubsync/pkg/errors"
)

// TitleWriter persists titles as newline-delimited text.
type TitleWriter struct{}

// Write creates dir if needed and replaces dir/name with one title per line,
// each terminated by a newline. It reports whether the file exists afterwards.
func (TitleWriter) Write(titles []string, dir, name string) (bool, error) {
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return false, errors.WrapWrite(path, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return false, errors.WrapWrite(path, err)
	}

	w := bufio.NewWriter(f)
	for _, t := range titles {
		if _, err := w.WriteString(t); err != nil {
			_ = f.Close()
			return false, errors.WrapWrite(path, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			_ = f.Close()
			return false, errors.WrapWrite(path, err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return false, errors.WrapWrite(path, err)
	}
	if err := f.Close(); err != nil {
		return false, errors.WrapWrite(path, err)
	}

	_, err = os.Stat(path)
	return err == nil, nil
}
