// Package envfile renders resolved parameters as a systemd EnvironmentFile
// and writes it to disk.
//
// Each parameter becomes one line of the form
//
//	NAME='VALUE'
//
// terminated by a single newline, in input order, with no header, footer or
// blank lines. Names and values are written verbatim: callers must ensure
// names are valid environment identifiers and values contain neither single
// quotes nor newlines.
//
// See: https://www.freedesktop.org/software/systemd/man/systemd.exec.html#EnvironmentFile=
package envfile

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"ssmpuller/internal/types"
)

// DefaultMode is the permission applied to written files. The file holds
// decrypted secrets, so it is readable by the owner only.
const DefaultMode fs.FileMode = 0o600

// Render produces the EnvironmentFile content for params. An empty input
// renders to zero bytes.
func Render(params []types.Parameter) []byte {
	var buf bytes.Buffer
	for _, p := range params {
		buf.WriteString(p.Name)
		buf.WriteString("='")
		buf.WriteString(p.Value)
		buf.WriteString("'\n")
	}
	return buf.Bytes()
}

// Writer writes rendered EnvironmentFiles with a fixed file mode.
type Writer struct {
	mode fs.FileMode
}

// NewWriter creates a Writer that leaves files with the given permission
// bits. A zero mode selects DefaultMode.
func NewWriter(mode fs.FileMode) *Writer {
	if mode == 0 {
		mode = DefaultMode
	}
	return &Writer{mode: mode.Perm()}
}

// Write replaces the file at path with the rendered content of params,
// creating it if it does not exist. The parent directory must exist.
//
// The content goes to a temp file in the same directory which is synced and
// renamed over path, so a reader sees either the previous file or the
// complete new one. Any failure is returned as an IO PullError and the temp
// file is removed.
func (w *Writer) Write(path string, params []types.Parameter) error {
	if err := writeAtomic(path, Render(params), w.mode); err != nil {
		return types.IOError(err)
	}
	return nil
}

// Write writes params to path with DefaultMode.
func Write(path string, params []types.Parameter) error {
	return NewWriter(DefaultMode).Write(path, params)
}

// writeAtomic performs temp file -> write -> fsync -> chmod -> rename.
func writeAtomic(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file to %s: %w", path, err)
	}

	return nil
}
