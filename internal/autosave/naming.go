package autosave

import (
	"math"
	"strings"
	"time"

	"sketchflow/internal/diagram"
)

const (
	untitledPrefix = "Untitled - "
	untitledLayout = "2006-01-02 15:04:05"
	rowTolerance   = 10.0
)

// DeriveName names a document after its top-most, then left-most, element
// with real text. Elements within rowTolerance of the top-most y count as
// the first row; the left-most of them wins, then the higher one, then the
// one earlier in the document.
func DeriveName(doc diagram.Document, now time.Time) string {
	var named []diagram.Element
	for _, e := range doc {
		if !diagram.IsPlaceholder(strings.TrimSpace(e.Text)) {
			named = append(named, e)
		}
	}
	if len(named) == 0 {
		return untitledPrefix + now.Format(untitledLayout)
	}

	top := math.Inf(1)
	for _, e := range named {
		top = math.Min(top, e.Y)
	}
	var best *diagram.Element
	for i := range named {
		e := &named[i]
		if e.Y-top > rowTolerance {
			continue
		}
		if best == nil || e.X < best.X || (e.X == best.X && e.Y < best.Y) {
			best = e
		}
	}
	line, _, _ := strings.Cut(strings.TrimSpace(best.Text), "\n")
	return strings.TrimSpace(line)
}

func IsUntitled(name string) bool {
	return strings.HasPrefix(name, untitledPrefix)
}

// refreshName returns the name an autosaved entry should carry after its
// content changed. A custom name is replaced only by an "Untitled" name or
// by the name it already equals; auto-derived names always follow the
// content.
func refreshName(saved SavedDiagram, derived string) (name string, auto bool) {
	switch {
	case saved.AutoNamed, saved.Name == derived:
		return derived, saved.AutoNamed
	case IsUntitled(derived):
		return derived, true
	}
	return saved.Name, false
}
