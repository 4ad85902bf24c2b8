package structure

import (
	"fmt"
	"sort"
)

// Op names a single customization or value-fill operation.
type Op string

const (
	OpHideField        Op = "hide-field"
	OpShowField        Op = "show-field"
	OpHideOption       Op = "hide-option"
	OpShowOption       Op = "show-option"
	OpAddOption        Op = "add-option"
	OpRemoveOption     Op = "remove-option"
	OpRemoveField      Op = "remove-field"
	OpReinstateSection Op = "reinstate-section"
	OpSetValue         Op = "set-value"
	OpClearValue       Op = "clear-value"
)

var knownOps = map[Op]bool{
	OpHideField:        true,
	OpShowField:        true,
	OpHideOption:       true,
	OpShowOption:       true,
	OpAddOption:        true,
	OpRemoveOption:     true,
	OpRemoveField:      true,
	OpReinstateSection: true,
	OpSetValue:         true,
	OpClearValue:       true,
}

// ParseOp converts a command-line verb such as "hide-option" into an Op.
func ParseOp(name string) (Op, error) {
	op := Op(name)
	if !knownOps[op] {
		return "", fmt.Errorf("unknown operation %q (known: %v)", name, OpNames())
	}
	return op, nil
}

// OpNames lists every operation name, sorted.
func OpNames() []string {
	names := make([]string, 0, len(knownOps))
	for op := range knownOps {
		names = append(names, string(op))
	}
	sort.Strings(names)
	return names
}

// NeedsField reports whether op addresses a single field rather than a whole section.
func (op Op) NeedsField() bool {
	return op != OpReinstateSection
}

// NeedsOption reports whether op takes an option label.
func (op Op) NeedsOption() bool {
	switch op {
	case OpHideOption, OpShowOption, OpAddOption, OpRemoveOption:
		return true
	}
	return false
}

// Edit is one operation together with its arguments. A list of edits is what
// an editing session applies to a Structure before persisting it.
type Edit struct {
	Op        Op
	SectionID string
	FieldID   string
	Option    string
	Value     Value
}

// Apply runs the edit against s. On failure s is returned unchanged.
func (e Edit) Apply(s Structure) (Structure, error) {
	switch e.Op {
	case OpHideField:
		return HideField(s, e.SectionID, e.FieldID)
	case OpShowField:
		return ShowField(s, e.SectionID, e.FieldID)
	case OpHideOption:
		return HideOption(s, e.SectionID, e.FieldID, e.Option)
	case OpShowOption:
		return ShowOption(s, e.SectionID, e.FieldID, e.Option)
	case OpAddOption:
		return AddOption(s, e.SectionID, e.FieldID, e.Option)
	case OpRemoveOption:
		return RemoveOption(s, e.SectionID, e.FieldID, e.Option)
	case OpRemoveField:
		return RemoveField(s, e.SectionID, e.FieldID)
	case OpReinstateSection:
		return ReinstateSection(s, e.SectionID)
	case OpSetValue:
		return SetFieldValue(s, e.SectionID, e.FieldID, e.Value)
	case OpClearValue:
		return ClearFieldValue(s, e.SectionID, e.FieldID)
	}
	return s, fmt.Errorf("unknown operation %q", e.Op)
}

// Summary is the human-readable line recorded in the audit log.
func (e Edit) Summary() string {
	target := e.SectionID + "/" + e.FieldID
	switch e.Op {
	case OpHideField:
		return "hid field " + target
	case OpShowField:
		return "showed field " + target
	case OpHideOption:
		return fmt.Sprintf("hid option %q on %s", e.Option, target)
	case OpShowOption:
		return fmt.Sprintf("showed option %q on %s", e.Option, target)
	case OpAddOption:
		return fmt.Sprintf("added option %q to %s", e.Option, target)
	case OpRemoveOption:
		return fmt.Sprintf("removed option %q from %s", e.Option, target)
	case OpRemoveField:
		return "removed field " + target
	case OpReinstateSection:
		return "reinstated section " + e.SectionID
	case OpSetValue:
		return fmt.Sprintf("set %s to %s", target, e.Value)
	case OpClearValue:
		return "cleared " + target
	}
	return string(e.Op) + " " + target
}

// ApplyAll applies edits in order. If any edit fails, s is returned unchanged
// with an error naming the failing edit.
func ApplyAll(s Structure, edits ...Edit) (Structure, error) {
	next := s
	for i, e := range edits {
		var err error
		next, err = e.Apply(next)
		if err != nil {
			return s, fmt.Errorf("edit %d (%s): %w", i+1, e.Op, err)
		}
	}
	return next, nil
}
