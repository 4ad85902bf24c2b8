package structure

import "fmt"

// SchemaError describes why a Structure is not a valid document.
// It matches ErrSchema with errors.Is.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "schema error: " + e.Reason
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

func schemaErrorf(format string, args ...any) error {
	return &SchemaError{Reason: fmt.Sprintf(format, args...)}
}

// Validate checks that s is a complete, well-formed document.
// It must pass before any Structure is persisted.
func Validate(s Structure) error {
	seenSections := make(map[string]bool, len(s.Sections))
	for _, sec := range s.Sections {
		if sec.ID == "" {
			return schemaErrorf("section with title %q has no id", sec.Title)
		}
		if seenSections[sec.ID] {
			return schemaErrorf("duplicate section id %q", sec.ID)
		}
		seenSections[sec.ID] = true

		seenFields := make(map[string]bool, len(sec.Fields))
		for _, f := range sec.Fields {
			if f.ID == "" {
				return schemaErrorf("field %q in section %q has no id", f.Label, sec.ID)
			}
			if seenFields[f.ID] {
				return schemaErrorf("duplicate field id %q in section %q", f.ID, sec.ID)
			}
			seenFields[f.ID] = true

			if err := validateField(sec.ID, f); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateField(sectionID string, f Field) error {
	if !f.Kind.Valid() {
		return schemaErrorf("field %s/%s has unknown kind %q", sectionID, f.ID, f.Kind)
	}
	if f.Kind != KindCheckboxGroup && (len(f.Options) > 0 || len(f.HiddenOptions) > 0) {
		return schemaErrorf("field %s/%s of kind %s cannot carry options", sectionID, f.ID, f.Kind)
	}

	for i, opt := range f.Options {
		if contains(f.Options[:i], opt) {
			return schemaErrorf("field %s/%s repeats option %q", sectionID, f.ID, opt)
		}
	}

	for _, h := range f.HiddenOptions {
		if !contains(f.Options, h) {
			return schemaErrorf("field %s/%s hides option %q which it does not have", sectionID, f.ID, h)
		}
	}

	if f.Value == nil {
		return nil
	}
	if !f.Kind.accepts(*f.Value) {
		return schemaErrorf("field %s/%s of kind %s holds a %s value", sectionID, f.ID, f.Kind, f.Value.kind)
	}
	if f.Kind == KindCheckboxGroup {
		for _, l := range f.Value.selected {
			if !contains(f.Options, l) {
				return schemaErrorf("field %s/%s selects option %q which it does not have", sectionID, f.ID, l)
			}
		}
	}
	return nil
}
