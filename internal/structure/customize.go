package structure

import (
	"fmt"
	"strings"
)

// HideField marks a field hidden. Its options and filled value are kept.
func HideField(s Structure, sectionID, fieldID string) (Structure, error) {
	return updateField(s, sectionID, fieldID, func(f *Field) error {
		f.Hidden = true
		return nil
	})
}

// ShowField clears a field's hidden flag.
func ShowField(s Structure, sectionID, fieldID string) (Structure, error) {
	return updateField(s, sectionID, fieldID, func(f *Field) error {
		f.Hidden = false
		return nil
	})
}

// HideOption adds label to the field's hidden-option set.
func HideOption(s Structure, sectionID, fieldID, label string) (Structure, error) {
	return updateField(s, sectionID, fieldID, func(f *Field) error {
		if err := requireOption(f, label); err != nil {
			return err
		}
		if !contains(f.HiddenOptions, label) {
			f.HiddenOptions = append(f.HiddenOptions, label)
		}
		return nil
	})
}

// ShowOption removes label from the field's hidden-option set.
func ShowOption(s Structure, sectionID, fieldID, label string) (Structure, error) {
	return updateField(s, sectionID, fieldID, func(f *Field) error {
		if err := requireOption(f, label); err != nil {
			return err
		}
		f.HiddenOptions = without(f.HiddenOptions, label)
		return nil
	})
}

// AddOption appends label to a checkbox group. Adding an existing label is a no-op.
func AddOption(s Structure, sectionID, fieldID, label string) (Structure, error) {
	return updateField(s, sectionID, fieldID, func(f *Field) error {
		if err := requireGroup(f); err != nil {
			return err
		}
		if strings.TrimSpace(label) == "" {
			return fmt.Errorf("%w: empty option label", ErrInvalidOption)
		}
		if !contains(f.Options, label) {
			f.Options = append(f.Options, label)
		}
		return nil
	})
}

// RemoveOption deletes label from a checkbox group's options, from its hidden
// set and from its current selection. Removal cannot be undone by ReinstateSection.
func RemoveOption(s Structure, sectionID, fieldID, label string) (Structure, error) {
	return updateField(s, sectionID, fieldID, func(f *Field) error {
		if err := requireOption(f, label); err != nil {
			return err
		}
		f.Options = without(f.Options, label)
		f.HiddenOptions = without(f.HiddenOptions, label)
		if f.Value != nil && f.Value.kind == valueSelection {
			v := SelectionValue(without(f.Value.selected, label)...)
			f.Value = &v
		}
		return nil
	})
}

// RemoveField deletes a field from its section.
func RemoveField(s Structure, sectionID, fieldID string) (Structure, error) {
	si, fi, err := s.locate(sectionID, fieldID)
	if err != nil {
		return s, err
	}
	next := s.Clone()
	fields := next.Sections[si].Fields
	next.Sections[si].Fields = append(fields[:fi:fi], fields[fi+1:]...)
	return next, nil
}

// ReinstateSection clears every hidden flag and hidden-option set in a section.
// Removed fields and options stay removed.
func ReinstateSection(s Structure, sectionID string) (Structure, error) {
	si, err := s.sectionIndex(sectionID)
	if err != nil {
		return s, err
	}
	next := s.Clone()
	for i := range next.Sections[si].Fields {
		f := &next.Sections[si].Fields[i]
		f.Hidden = false
		f.HiddenOptions = nil
	}
	return next, nil
}

func requireGroup(f *Field) error {
	if f.Kind != KindCheckboxGroup {
		return fmt.Errorf("%w: field %q is %s, options need %s", ErrUnsupportedFieldKind, f.ID, f.Kind, KindCheckboxGroup)
	}
	return nil
}

func requireOption(f *Field, label string) error {
	if err := requireGroup(f); err != nil {
		return err
	}
	if !contains(f.Options, label) {
		return fmt.Errorf("%w: field %q has no option %q", ErrInvalidOption, f.ID, label)
	}
	return nil
}
