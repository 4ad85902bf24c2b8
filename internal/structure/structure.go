// Package structure defines the agreement document schema and the pure
// functions that customize it and fill it in.
//
// A Structure is a value. Every operation in this package returns a new
// Structure and leaves its input untouched, so a caller may keep the old value
// around (for example to diff it, or to fall back to it when a later step fails).
package structure

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by both ErrSectionNotFound and ErrFieldNotFound.
	ErrNotFound        = errors.New("not found")
	ErrSectionNotFound = fmt.Errorf("section %w", ErrNotFound)
	ErrFieldNotFound   = fmt.Errorf("field %w", ErrNotFound)

	ErrSchema               = errors.New("schema error")
	ErrInvalidOption        = errors.New("invalid option")
	ErrUnsupportedFieldKind = errors.New("unsupported field kind")
	ErrTypeMismatch         = errors.New("type mismatch")
)

// Kind is the closed set of field kinds a document may contain.
type Kind string

const (
	KindShortText     Kind = "short_text"
	KindLongText      Kind = "long_text"
	KindDate          Kind = "date"
	KindCheckbox      Kind = "checkbox"
	KindCheckboxGroup Kind = "checkbox_group"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindShortText, KindLongText, KindDate, KindCheckbox, KindCheckboxGroup:
		return true
	}
	return false
}

// accepts reports whether a filled value of v's shape may be stored on a field of kind k.
func (k Kind) accepts(v Value) bool {
	switch k {
	case KindShortText, KindLongText, KindDate:
		return v.kind == valueText
	case KindCheckbox:
		return v.kind == valueBool
	case KindCheckboxGroup:
		return v.kind == valueSelection
	}
	return false
}

// Field is the atomic unit of a document.
// Options, HiddenOptions and a selection Value only apply to KindCheckboxGroup.
type Field struct {
	ID            string   `json:"id" yaml:"id"`
	Label         string   `json:"label" yaml:"label"`
	Kind          Kind     `json:"type" yaml:"type"`
	Options       []string `json:"options,omitempty" yaml:"options,omitempty"`
	Hidden        bool     `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	HiddenOptions []string `json:"hidden_options,omitempty" yaml:"hidden_options,omitempty"`
	Value         *Value   `json:"value,omitempty" yaml:"value,omitempty"`
}

// Section is an ordered, titled group of fields.
type Section struct {
	ID     string  `json:"id" yaml:"id"`
	Title  string  `json:"title" yaml:"title"`
	Fields []Field `json:"items" yaml:"items"`
}

// Structure is a complete document: an ordered list of sections.
type Structure struct {
	Sections []Section `json:"sections" yaml:"sections"`
}

// Clone returns a deep copy of s that shares no slices or values with it.
func (s Structure) Clone() Structure {
	if s.Sections == nil {
		return Structure{}
	}
	out := Structure{Sections: make([]Section, len(s.Sections))}
	for i, sec := range s.Sections {
		out.Sections[i] = sec.clone()
	}
	return out
}

func (sec Section) clone() Section {
	out := Section{ID: sec.ID, Title: sec.Title}
	if sec.Fields != nil {
		out.Fields = make([]Field, len(sec.Fields))
		for i, f := range sec.Fields {
			out.Fields[i] = f.clone()
		}
	}
	return out
}

func (f Field) clone() Field {
	out := f
	out.Options = cloneStrings(f.Options)
	out.HiddenOptions = cloneStrings(f.HiddenOptions)
	if f.Value != nil {
		v := f.Value.clone()
		out.Value = &v
	}
	return out
}

// Equal reports whether a and b describe the same document.
// Nil and empty slices compare equal.
func Equal(a, b Structure) bool {
	if len(a.Sections) != len(b.Sections) {
		return false
	}
	for i := range a.Sections {
		sa, sb := a.Sections[i], b.Sections[i]
		if sa.ID != sb.ID || sa.Title != sb.Title || len(sa.Fields) != len(sb.Fields) {
			return false
		}
		for j := range sa.Fields {
			if !fieldsEqual(sa.Fields[j], sb.Fields[j]) {
				return false
			}
		}
	}
	return true
}

func fieldsEqual(a, b Field) bool {
	if a.ID != b.ID || a.Label != b.Label || a.Kind != b.Kind || a.Hidden != b.Hidden {
		return false
	}
	if !stringsEqual(a.Options, b.Options) || !stringsEqual(a.HiddenOptions, b.HiddenOptions) {
		return false
	}
	if (a.Value == nil) != (b.Value == nil) {
		return false
	}
	return a.Value == nil || a.Value.Equal(*b.Value)
}

// Field returns a copy of the field identified by sectionID/fieldID.
func (s Structure) Field(sectionID, fieldID string) (Field, error) {
	si, fi, err := s.locate(sectionID, fieldID)
	if err != nil {
		return Field{}, err
	}
	return s.Sections[si].Fields[fi].clone(), nil
}

func (s Structure) sectionIndex(sectionID string) (int, error) {
	for i := range s.Sections {
		if s.Sections[i].ID == sectionID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrSectionNotFound, sectionID)
}

func (s Structure) locate(sectionID, fieldID string) (int, int, error) {
	si, err := s.sectionIndex(sectionID)
	if err != nil {
		return -1, -1, err
	}
	for fi := range s.Sections[si].Fields {
		if s.Sections[si].Fields[fi].ID == fieldID {
			return si, fi, nil
		}
	}
	return -1, -1, fmt.Errorf("%w: %q in section %q", ErrFieldNotFound, fieldID, sectionID)
}

// updateField clones s and applies fn to the addressed field of the clone.
// If fn fails, the original s is returned with the error.
func updateField(s Structure, sectionID, fieldID string, fn func(f *Field) error) (Structure, error) {
	si, fi, err := s.locate(sectionID, fieldID)
	if err != nil {
		return s, err
	}
	next := s.Clone()
	if err := fn(&next.Sections[si].Fields[fi]); err != nil {
		return s, err
	}
	return next, nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// without returns list minus every element of drop, preserving order.
// The result is nil when nothing remains.
func without(list []string, drop ...string) []string {
	var out []string
	for _, v := range list {
		if !contains(drop, v) {
			out = append(out, v)
		}
	}
	return out
}
