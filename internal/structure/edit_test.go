package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOp(t *testing.T) {
	for _, name := range OpNames() {
		op, err := ParseOp(name)
		require.NoError(t, err, name)
		assert.Equal(t, Op(name), op)
	}

	_, err := ParseOp("delete-everything")
	assert.Error(t, err)
}

func TestOp_Arguments(t *testing.T) {
	assert.False(t, OpReinstateSection.NeedsField())
	assert.True(t, OpHideField.NeedsField())
	assert.True(t, OpAddOption.NeedsOption())
	assert.False(t, OpSetValue.NeedsOption())
}

func TestApplyAll(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		s := scopeStructure()
		got, err := ApplyAll(s,
			Edit{Op: OpAddOption, SectionID: "s1", FieldID: "f1", Option: "Phone"},
			Edit{Op: OpSetValue, SectionID: "s1", FieldID: "f1", Value: SelectionValue("Phone")},
			Edit{Op: OpHideField, SectionID: "s1", FieldID: "f2"},
		)
		require.NoError(t, err)

		f1, _ := got.Field("s1", "f1")
		assert.Equal(t, []string{"Email", "Social", "Phone"}, f1.Options)
		sel, _ := f1.Value.Selection()
		assert.Equal(t, []string{"Phone"}, sel)
		f2, _ := got.Field("s1", "f2")
		assert.True(t, f2.Hidden)
	})

	t.Run("failure leaves input unchanged", func(t *testing.T) {
		s := scopeStructure()
		got, err := ApplyAll(s,
			Edit{Op: OpHideField, SectionID: "s1", FieldID: "f2"},
			Edit{Op: OpSetValue, SectionID: "s2", FieldID: "agree", Value: TextValue("yes")},
		)
		require.ErrorIs(t, err, ErrTypeMismatch)
		assert.Contains(t, err.Error(), "edit 2")
		assert.True(t, Equal(s, got))
	})

	t.Run("unknown op", func(t *testing.T) {
		_, err := ApplyAll(scopeStructure(), Edit{Op: "explode"})
		assert.Error(t, err)
	})
}

func TestEdit_Summary(t *testing.T) {
	tests := []struct {
		edit Edit
		want string
	}{
		{Edit{Op: OpHideField, SectionID: "s1", FieldID: "f1"}, "hid field s1/f1"},
		{Edit{Op: OpHideOption, SectionID: "s1", FieldID: "f1", Option: "Email"}, `hid option "Email" on s1/f1`},
		{Edit{Op: OpAddOption, SectionID: "s1", FieldID: "f1", Option: "Phone"}, `added option "Phone" to s1/f1`},
		{Edit{Op: OpReinstateSection, SectionID: "s2"}, "reinstated section s2"},
		{Edit{Op: OpSetValue, SectionID: "s2", FieldID: "agree", Value: BoolValue(true)}, "set s2/agree to true"},
		{Edit{Op: OpClearValue, SectionID: "s2", FieldID: "agree"}, "cleared s2/agree"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.edit.Summary())
		})
	}
}
