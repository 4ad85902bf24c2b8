package structure

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

type valueKind int

const (
	valueNone valueKind = iota
	valueText
	valueBool
	valueSelection
)

func (k valueKind) String() string {
	switch k {
	case valueText:
		return "text"
	case valueBool:
		return "boolean"
	case valueSelection:
		return "selection"
	}
	return "empty"
}

// Value is a filled-in field value. It is exactly one of: a text string
// (text and date fields), a boolean (single checkbox) or an ordered set of
// option labels (checkbox group). The zero Value holds nothing and is never
// accepted by SetFieldValue.
//
// On the wire a Value is a bare JSON/CBOR string, boolean or array.
type Value struct {
	kind     valueKind
	text     string
	checked  bool
	selected []string
}

// TextValue returns a value for short text, long text and date fields.
func TextValue(s string) Value {
	return Value{kind: valueText, text: s}
}

// BoolValue returns a value for a single checkbox.
func BoolValue(b bool) Value {
	return Value{kind: valueBool, checked: b}
}

// SelectionValue returns a checkbox-group value. Duplicate labels are dropped;
// first occurrence wins.
func SelectionValue(labels ...string) Value {
	selected := make([]string, 0, len(labels))
	for _, l := range labels {
		if !contains(selected, l) {
			selected = append(selected, l)
		}
	}
	return Value{kind: valueSelection, selected: selected}
}

// Text returns the string held by a text value.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == valueText
}

// Bool returns the flag held by a checkbox value.
func (v Value) Bool() (bool, bool) {
	return v.checked, v.kind == valueBool
}

// Selection returns a copy of the labels held by a checkbox-group value.
func (v Value) Selection() ([]string, bool) {
	if v.kind != valueSelection {
		return nil, false
	}
	return cloneStrings(v.selected), true
}

// IsZero reports whether v holds nothing.
func (v Value) IsZero() bool {
	return v.kind == valueNone
}

// Equal reports whether v and o hold the same shape and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case valueText:
		return v.text == o.text
	case valueBool:
		return v.checked == o.checked
	case valueSelection:
		return stringsEqual(v.selected, o.selected)
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case valueText:
		return fmt.Sprintf("%q", v.text)
	case valueBool:
		return fmt.Sprintf("%t", v.checked)
	case valueSelection:
		return fmt.Sprintf("%q", v.selected)
	}
	return "<empty>"
}

func (v Value) clone() Value {
	out := v
	out.selected = cloneStrings(v.selected)
	return out
}

// raw returns v as the plain Go value used by the JSON and CBOR encodings.
func (v Value) raw() any {
	switch v.kind {
	case valueText:
		return v.text
	case valueBool:
		return v.checked
	case valueSelection:
		if v.selected == nil {
			return []string{}
		}
		return v.selected
	}
	return nil
}

// fromRaw sets v from a decoded string, bool or list of strings.
func (v *Value) fromRaw(raw any) error {
	switch x := raw.(type) {
	case string:
		*v = TextValue(x)
	case bool:
		*v = BoolValue(x)
	case []any:
		labels := make([]string, 0, len(x))
		for _, e := range x {
			s, ok := e.(string)
			if !ok {
				return fmt.Errorf("%w: selection entry %v is %T, want string", ErrTypeMismatch, e, e)
			}
			labels = append(labels, s)
		}
		*v = SelectionValue(labels...)
	case nil:
		*v = Value{}
	default:
		return fmt.Errorf("%w: unsupported value of type %T", ErrTypeMismatch, raw)
	}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding field value: %w", err)
	}
	return v.fromRaw(raw)
}

func (v Value) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(v.raw())
}

func (v *Value) UnmarshalCBOR(data []byte) error {
	var raw any
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding field value: %w", err)
	}
	return v.fromRaw(raw)
}

// MarshalYAML and UnmarshalYAML let template files carry filled defaults.
func (v Value) MarshalYAML() (any, error) {
	return v.raw(), nil
}

func (v *Value) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return fmt.Errorf("decoding field value: %w", err)
	}
	return v.fromRaw(raw)
}
