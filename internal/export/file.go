package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrUnknownFormat is returned for extensions other than .pdf and .txt.
var ErrUnknownFormat = errors.New("unknown export format")

// Write renders pg to w in the format named by ext (".pdf" or ".txt").
func Write(w io.Writer, ext string, pg Page) error {
	switch strings.ToLower(ext) {
	case ".pdf":
		return PDF(w, pg)
	case ".txt":
		return Text(w, pg, time.Now())
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
}

// Save writes pg to path in the format its extension names.
func Save(path string, pg Page) (err error) {
	ext := filepath.Ext(path)
	if e := strings.ToLower(ext); e != ".pdf" && e != ".txt" {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return Write(f, ext, pg)
}

// FileName returns a default export file name for now.
func FileName(now time.Time, ext string) string {
	return "inkboard-" + now.Format("20060102-150405") + ext
}
