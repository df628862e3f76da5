package stylesheet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// ErrNotCSS rejects targets whose extension is not .css.
	ErrNotCSS = errors.New("stylesheet: target is not a .css file")
	// ErrNotWritable reports a target that cannot be opened for writing.
	ErrNotWritable = errors.New("stylesheet: target is not writable")
	// ErrUnterminatedMarker reports a BEGIN line with no matching END line.
	ErrUnterminatedMarker = errors.New("stylesheet: unterminated marker block")
)

// IOError describes a failed marker operation on path. The target is left
// untouched whenever an IOError is returned.
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("stylesheet: unable to write to file %s (%s): %v", e.Path, e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BeginLine and EndLine are the exact marker lines delimiting a block.
func BeginLine(marker string) string { return "/* BEGIN " + marker + " */" }
func EndLine(marker string) string   { return "/* END " + marker + " */" }

var (
	crlf       = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	blankLines = regexp.MustCompile(`\n{2,}`)
)

// NormalizeBody converts line endings to \n and collapses runs of blank
// lines to a single blank line.
func NormalizeBody(body string) string {
	return blankLines.ReplaceAllString(crlf.Replace(body), "\n\n")
}

// Splice rewrites content so the block for marker holds body. Lines outside
// the block are copied verbatim. When no block exists the triplet is appended
// at the end. found reports whether an existing block was replaced.
func Splice(content, marker, body string) (out string, found bool, err error) {
	return splice(content, marker, body+"\n", true)
}

// Clear empties the block for marker, keeping its BEGIN and END lines. found
// is false when content has no block for marker; content is then returned
// unchanged.
func Clear(content, marker string) (out string, found bool, err error) {
	return splice(content, marker, "", false)
}

func splice(content, marker, inner string, appendMissing bool) (string, bool, error) {
	begin, end := BeginLine(marker), EndLine(marker)
	lines := strings.Split(content, "\n")

	var b strings.Builder
	b.Grow(len(content) + len(inner) + len(begin) + len(end) + 3)

	searching, found := true, false
	for n, line := range lines {
		if line == begin {
			searching = false
		}
		if searching {
			b.WriteString(line)
			if n+1 < len(lines) {
				b.WriteByte('\n')
			}
		}
		if line == end && !searching {
			b.WriteString(begin + "\n" + inner + end + "\n")
			searching, found = true, true
		}
	}
	if !searching {
		return content, found, fmt.Errorf("%w: %s", ErrUnterminatedMarker, marker)
	}
	if found {
		return b.String(), true, nil
	}
	if !appendMissing {
		return content, false, nil
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(begin + "\n" + inner + end + "\n")
	return b.String(), false, nil
}

// UpsertBlock replaces or appends the block for marker in the file at path.
func UpsertBlock(path, marker, body string) error {
	return rewriteFile(path, func(content string) (string, bool, error) {
		out, _, err := Splice(content, marker, NormalizeBody(body))
		return out, true, err
	})
}

// DeleteBlock empties the block for marker in the file at path. A file
// without that block is left untouched.
func DeleteBlock(path, marker string) error {
	return rewriteFile(path, func(content string) (string, bool, error) {
		return Clear(content, marker)
	})
}

// CheckTarget reports whether path is a .css file that can be opened for
// writing.
func CheckTarget(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".css") {
		return &IOError{Path: path, Op: "check", Err: ErrNotCSS}
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return &IOError{Path: path, Op: "open", Err: fmt.Errorf("%w: %v", ErrNotWritable, err)}
	}
	return f.Close()
}

// rewriteFile opens path once, reads it whole, and writes the rewritten
// content in a single write when rewrite asks for it.
func rewriteFile(path string, rewrite func(string) (string, bool, error)) (err error) {
	if !strings.EqualFold(filepath.Ext(path), ".css") {
		return &IOError{Path: path, Op: "check", Err: ErrNotCSS}
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return &IOError{Path: path, Op: "open", Err: fmt.Errorf("%w: %v", ErrNotWritable, err)}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &IOError{Path: path, Op: "close", Err: cerr}
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return &IOError{Path: path, Op: "read", Err: err}
	}
	out, write, err := rewrite(string(data))
	if err != nil {
		return &IOError{Path: path, Op: "splice", Err: err}
	}
	if !write || out == string(data) {
		return nil
	}
	if err := f.Truncate(0); err != nil {
		return &IOError{Path: path, Op: "truncate", Err: err}
	}
	if _, err := f.WriteAt([]byte(out), 0); err != nil {
		return &IOError{Path: path, Op: "write", Err: err}
	}
	return nil
}
