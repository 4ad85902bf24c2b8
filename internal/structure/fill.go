package structure

import "fmt"

// SetFieldValue replaces a field's filled value.
//
// The value's shape must match the field kind, otherwise ErrTypeMismatch is
// returned together with the unchanged input. For checkbox groups the caller
// passes the complete resulting selection; every label must be an option.
// Hidden fields can be filled.
func SetFieldValue(s Structure, sectionID, fieldID string, v Value) (Structure, error) {
	return updateField(s, sectionID, fieldID, func(f *Field) error {
		if !f.Kind.accepts(v) {
			return fmt.Errorf("%w: field %q is %s, got %s value", ErrTypeMismatch, f.ID, f.Kind, v.kind)
		}
		next := v.clone()
		if next.kind == valueSelection {
			next = SelectionValue(next.selected...)
			for _, l := range next.selected {
				if !contains(f.Options, l) {
					return fmt.Errorf("%w: field %q has no option %q", ErrInvalidOption, f.ID, l)
				}
			}
		}
		f.Value = &next
		return nil
	})
}

// ClearFieldValue removes a field's filled value.
func ClearFieldValue(s Structure, sectionID, fieldID string) (Structure, error) {
	return updateField(s, sectionID, fieldID, func(f *Field) error {
		f.Value = nil
		return nil
	})
}

// ToggleSelection returns current with label removed if present, or appended
// if absent. current is not modified.
func ToggleSelection(current []string, label string) []string {
	if contains(current, label) {
		return without(current, label)
	}
	next := make([]string, 0, len(current)+1)
	next = append(next, current...)
	return append(next, label)
}
