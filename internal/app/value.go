package app

import (
	"fmt"
	"strconv"
	"strings"

	"vahq/internal/structure"
)

// ParseValue builds a field value from command-line words. Text and date
// fields join the words with spaces, checkbox fields take a single boolean
// word, and checkbox groups take one option label per word.
func ParseValue(kind structure.Kind, words []string) (structure.Value, error) {
	switch kind {
	case structure.KindShortText, structure.KindLongText, structure.KindDate:
		return structure.TextValue(strings.Join(words, " ")), nil
	case structure.KindCheckbox:
		if len(words) != 1 {
			return structure.Value{}, fmt.Errorf("checkbox takes one value, got %d", len(words))
		}
		b, err := parseBool(words[0])
		if err != nil {
			return structure.Value{}, err
		}
		return structure.BoolValue(b), nil
	case structure.KindCheckboxGroup:
		return structure.SelectionValue(words...), nil
	}
	return structure.Value{}, fmt.Errorf("%w: %q", structure.ErrUnsupportedFieldKind, kind)
}

func parseBool(word string) (bool, error) {
	switch strings.ToLower(word) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(word)
	if err != nil {
		return false, fmt.Errorf("not a checkbox value: %q", word)
	}
	return b, nil
}

// ParseEdit builds a customization edit from command-line words:
// OP SECTION [FIELD] [OPTION]. Values are set through Fill, so set-value is
// rejected here.
func ParseEdit(words []string) (structure.Edit, error) {
	if len(words) < 2 {
		return structure.Edit{}, fmt.Errorf("edit needs an operation and a section")
	}
	op, err := structure.ParseOp(words[0])
	if err != nil {
		return structure.Edit{}, err
	}
	if op == structure.OpSetValue {
		return structure.Edit{}, fmt.Errorf("use `vahq fill` to set values")
	}

	want := 2
	if op.NeedsField() {
		want++
	}
	if op.NeedsOption() {
		want++
	}
	if len(words) != want {
		return structure.Edit{}, fmt.Errorf("%s takes %d arguments, got %d", op, want-1, len(words)-1)
	}

	e := structure.Edit{Op: op, SectionID: words[1]}
	if op.NeedsField() {
		e.FieldID = words[2]
	}
	if op.NeedsOption() {
		e.Option = words[3]
	}
	return e, nil
}
