package query

import (
	"slices"
)

// RankedOperand pairs an operand with its estimated frequency.
type RankedOperand struct {
	Frequency Frequency
	Operand   *Operand
}

// OrderByFrequency returns the operands from cheapest to most expensive.
// Operands with an unknown frequency come last. Equal frequencies keep their
// input order.
func OrderByFrequency(ranked []RankedOperand) []*Operand {
	sorted := slices.Clone(ranked)
	slices.SortStableFunc(sorted, func(a, b RankedOperand) int {
		return a.Frequency.Compare(b.Frequency)
	})

	operands := make([]*Operand, len(sorted))
	for i, r := range sorted {
		operands[i] = r.Operand
	}
	return operands
}

// EnsurePositiveFirst moves the first non-negated operand in front of the
// leading negations. The relative order of every other operand is kept.
func EnsurePositiveFirst(operands []*Operand) ([]*Operand, error) {
	head := slices.IndexFunc(operands, func(o *Operand) bool {
		return !o.IsNegation()
	})
	if head == -1 {
		return nil, ErrNoPositiveOperand
	}

	ordered := make([]*Operand, 0, len(operands))
	ordered = append(ordered, operands[head])
	ordered = append(ordered, operands[:head]...)
	ordered = append(ordered, operands[head+1:]...)

	return ordered, nil
}
