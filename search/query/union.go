package query

import (
	"context"
)

// Union matches the documents matched by any of its positive operands.
// Negated operands only contribute tombstones, which are filtered out.
type Union struct {
	operands []*Operand
}

func NewUnion(operands ...*Operand) *Union {
	return &Union{operands: operands}
}

func (n *Union) Operands() []*Operand {
	return n.operands
}

func (n *Union) String() string {
	return joinOperands("OR", n.operands)
}

func (n *Union) Preplan(planner *Planner) (*Operand, error) {
	if len(n.operands) == 1 {
		return n.operands[0], nil
	}

	return planner.PlanNode(&Union{operands: n.operands})
}

func (n *Union) stream(ctx context.Context, c *ExecutionContext, constraint *CandidateSet) (ResultStream, error) {
	stream, err := c.Stream(ctx, n.operands, constraint)
	if err != nil {
		return nil, err
	}

	return NewTombstoneFilter(stream), nil
}

// frequency is the sum of the operands, unknown if any of them is.
func (n *Union) frequency(c *ExecutionContext) (Frequency, error) {
	total := uint64(0)

	for _, operand := range n.operands {
		if operand.IsNegation() {
			continue
		}

		frequency, err := c.Frequency(operand)
		if err != nil {
			return Unknown, err
		}

		count, known := frequency.Count()
		if !known {
			return Unknown, nil
		}
		total += count
	}

	return KnownFrequency(total), nil
}
