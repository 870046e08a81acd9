package git

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ensureLogFile creates an empty reflog at name unless one already exists.
func ensureLogFile(fsys billy.Filesystem, name string) error {
	if dir := path.Dir(name); dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create reflog directory %s: %w", dir, err)
		}
	}
	f, err := fsys.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("create reflog %s: %w", name, err)
	}
	return f.Close()
}

// appendLogEntry appends one entry to the reflog at name. Refs without a
// reflog are not logged, like git does.
func appendLogEntry(fsys billy.Filesystem, name string, entry logEntry) error {
	line, err := entry.encode()
	if err != nil {
		return fmt.Errorf("encode reflog entry for %s: %w", name, err)
	}
	f, err := fsys.OpenFile(name, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open reflog %s: %w", name, err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("write reflog %s: %w", name, err)
	}
	return f.Close()
}

type logEntry struct {
	old       plumbing.Hash
	new       plumbing.Hash
	committer object.Signature
	message   string
}

// encode renders e in the "<old> <new> <committer>\t<message>\n" reflog
// line format.
func (e logEntry) encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(e.old.String())
	buf.WriteByte(' ')
	buf.WriteString(e.new.String())
	buf.WriteByte(' ')
	if err := e.committer.Encode(&buf); err != nil {
		return nil, err
	}
	if e.message != "" {
		buf.WriteByte('\t')
		buf.Write(bytes.ReplaceAll([]byte(e.message), []byte("\n"), []byte(" ")))
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
