package render

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/thiagokokada/gitref/internal/reference"
)

// Snapshot is the text listing of a set of references, one per line.
func Snapshot(refs []reference.Ref) string {
	var b strings.Builder
	for _, ref := range refs {
		b.WriteString(ref.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Diff returns a unified diff between two snapshots, or "" when they are
// equal.
func Diff(before, after string) (string, error) {
	if before == after {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/refs",
		ToFile:   "b/refs",
		Context:  1,
	})
}
