package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func termOperands(terms ...string) []*Operand {
	operands := make([]*Operand, len(terms))
	for i, term := range terms {
		operands[i] = NewTermOperand("body", []byte(term))
	}
	return operands
}

func operandNames(operands []*Operand) []string {
	names := make([]string, len(operands))
	for i, operand := range operands {
		names[i] = operand.String()
	}
	return names
}

func TestOrderByFrequency(t *testing.T) {
	operands := termOperands("a", "b", "c", "d", "e", "f")

	ranked := []RankedOperand{
		{KnownFrequency(10), operands[0]},
		{Unknown, operands[1]},
		{KnownFrequency(2), operands[2]},
		{Unknown, operands[3]},
		{Unknown, operands[4]},
		{KnownFrequency(7), operands[5]},
	}

	ordered := OrderByFrequency(ranked)

	assert.Equal(t, []string{"body:c", "body:f", "body:a", "body:b", "body:d", "body:e"}, operandNames(ordered))
	// input untouched
	assert.Same(t, operands[0], ranked[0].Operand)
}

func TestOrderByFrequencyKeepsTies(t *testing.T) {
	operands := termOperands("x", "y", "z")

	ordered := OrderByFrequency([]RankedOperand{
		{KnownFrequency(3), operands[0]},
		{KnownFrequency(1), operands[1]},
		{KnownFrequency(3), operands[2]},
	})

	assert.Equal(t, []string{"body:y", "body:x", "body:z"}, operandNames(ordered))
}

func TestFrequencyCompare(t *testing.T) {
	assert.Equal(t, -1, KnownFrequency(0).Compare(Unknown))
	assert.Equal(t, 1, Unknown.Compare(KnownFrequency(1_000_000)))
	assert.Equal(t, 0, Unknown.Compare(Unknown))
	assert.Equal(t, -1, KnownFrequency(1).Compare(KnownFrequency(2)))
	assert.Equal(t, 0, KnownFrequency(4).Compare(KnownFrequency(4)))

	count, known := Unknown.Count()
	assert.False(t, known)
	assert.Zero(t, count)
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "12", KnownFrequency(12).String())
}

func TestEnsurePositiveFirst(t *testing.T) {
	operands := termOperands("a", "b", "c")
	a, b, c := operands[0], operands[1], operands[2]
	notX := NewNegation(NewTermOperand("body", []byte("x")))
	notY := NewNegation(NewTermOperand("body", []byte("y")))

	ordered, err := EnsurePositiveFirst([]*Operand{notX, notY, a, b, c})
	require.NoError(t, err)
	assert.Equal(t, []*Operand{a, notX, notY, b, c}, ordered)

	ordered, err = EnsurePositiveFirst([]*Operand{a, notX, b})
	require.NoError(t, err)
	assert.Equal(t, []*Operand{a, notX, b}, ordered)

	ordered, err = EnsurePositiveFirst([]*Operand{a})
	require.NoError(t, err)
	assert.Equal(t, []*Operand{a}, ordered)
}

func TestEnsurePositiveFirstWithoutPositive(t *testing.T) {
	notX := NewNegation(NewTermOperand("body", []byte("x")))

	_, err := EnsurePositiveFirst([]*Operand{notX})
	assert.ErrorIs(t, err, ErrNoPositiveOperand)

	_, err = EnsurePositiveFirst(nil)
	assert.ErrorIs(t, err, ErrNoPositiveOperand)
}
