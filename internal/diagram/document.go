package diagram

import "sketchflow/internal/geometry"

// Document is the ordered element list; order is z-order. Every method
// returns a new Document and leaves the receiver untouched.
type Document []Element

func (d Document) Index(id string) int {
	for i := range d {
		if d[i].ID == id {
			return i
		}
	}
	return -1
}

func (d Document) Find(id string) (Element, bool) {
	if i := d.Index(id); i >= 0 {
		return d[i], true
	}
	return Element{}, false
}

func (d Document) Clone() Document {
	if d == nil {
		return Document{}
	}
	out := make(Document, len(d))
	copy(out, d)
	return out
}

func (d Document) Append(elems ...Element) Document {
	out := make(Document, 0, len(d)+len(elems))
	out = append(out, d...)
	return append(out, elems...)
}

// Sanitize normalizes every element and drops the ones that cannot be
// normalized or have a missing or repeated id.
func (d Document) Sanitize() (out Document, dropped int) {
	out = make(Document, 0, len(d))
	seen := make(map[string]bool, len(d))
	for _, e := range d {
		n, err := Normalize(e)
		if err != nil || e.ID == "" || seen[e.ID] {
			dropped++
			continue
		}
		seen[e.ID] = true
		out = append(out, n)
	}
	return out, dropped
}

// Patch applies patches by element id. Ids that are not present are ignored.
func (d Document) Patch(patches map[string]Patch) Document {
	out := d.Clone()
	for i := range out {
		if p, ok := patches[out[i].ID]; ok {
			out[i] = p.Apply(out[i])
		}
	}
	return out
}

// Remove drops every element whose id is in ids.
func (d Document) Remove(ids map[string]bool) Document {
	out := make(Document, 0, len(d))
	for _, e := range d {
		if !ids[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

// Equal is a field-by-field comparison used for history no-op detection.
func (d Document) Equal(o Document) bool {
	if len(d) != len(o) {
		return false
	}
	for i := range d {
		if d[i] != o[i] {
			return false
		}
	}
	return true
}

// HitTest returns the top-most element containing p, or -1.
func (d Document) HitTest(p geometry.Point, tolerance float64) int {
	for i := len(d) - 1; i >= 0; i-- {
		if d[i].Bounds().Contains(p, tolerance) {
			return i
		}
	}
	return -1
}

// Bounds is the box enclosing every element. ok is false for an empty
// document.
func (d Document) Bounds() (r geometry.Rect, ok bool) {
	for i, e := range d {
		if i == 0 {
			r = e.Bounds()
			continue
		}
		r = r.Union(e.Bounds())
	}
	return r, len(d) > 0
}
