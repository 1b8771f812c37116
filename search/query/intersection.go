package query

import (
	"context"
	"fmt"
)

// Intersection matches the documents matched by every positive operand and by
// none of the negated ones.
type Intersection struct {
	operands []*Operand
}

func NewIntersection(operands ...*Operand) *Intersection {
	return &Intersection{operands: operands}
}

func (n *Intersection) Operands() []*Operand {
	return n.operands
}

func (n *Intersection) String() string {
	return joinOperands("AND", n.operands)
}

// Preplan flattens the node: an intersection of one operand is that operand.
func (n *Intersection) Preplan(planner *Planner) (*Operand, error) {
	if len(n.operands) == 1 {
		return n.operands[0], nil
	}

	return planner.PlanNode(&Intersection{operands: n.operands})
}

// order returns the operands in evaluation order: cheapest first, never
// starting with a negation.
func (n *Intersection) order(c *ExecutionContext) ([]*Operand, []Frequency, error) {
	ranked := make([]RankedOperand, len(n.operands))
	frequencies := make(map[*Operand]Frequency, len(n.operands))

	for i, operand := range n.operands {
		frequency, err := c.Frequency(operand)
		if err != nil {
			return nil, nil, err
		}
		ranked[i] = RankedOperand{Frequency: frequency, Operand: operand}
		frequencies[operand] = frequency
	}

	ordered, err := EnsurePositiveFirst(OrderByFrequency(ranked))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", n, err)
	}

	orderedFrequencies := make([]Frequency, len(ordered))
	for i, operand := range ordered {
		orderedFrequencies[i] = frequencies[operand]
	}

	return ordered, orderedFrequencies, nil
}

// Evaluate computes the result set of the node.
func (n *Intersection) Evaluate(ctx context.Context, c *ExecutionContext) (*CandidateSet, error) {
	return n.evaluate(ctx, c, nil)
}

// evaluate realizes the first operand within domain, or unconstrained when
// domain is nil, then refines the set with each following operand: a
// negation removes its matches, any other operand keeps only its matches.
func (n *Intersection) evaluate(ctx context.Context, c *ExecutionContext, domain *CandidateSet) (*CandidateSet, error) {
	c.Metrics.observeEvaluation()

	operands, frequencies, err := n.order(c)
	if err != nil {
		return nil, err
	}

	candidates, err := n.realize(ctx, c, operands[0], domain)
	if err != nil {
		return nil, err
	}

	c.Logger.Debug("intersection step", "operand", operands[0].String(), "frequency", frequencies[0].String(), "size", candidates.Len())
	c.Metrics.observeStep("initial", candidates.Len())

	for i, operand := range operands[1:] {
		if candidates.IsEmpty() {
			break
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		matched, err := n.realize(ctx, c, operand, candidates)
		if err != nil {
			return nil, err
		}

		kind := "intersect"
		if operand.IsNegation() {
			kind = "subtract"
			candidates.Subtract(matched)
		} else {
			candidates = matched
		}

		c.Logger.Debug("intersection step", "operand", operand.String(), "frequency", frequencies[i+1].String(), "kind", kind, "size", candidates.Len())
		c.Metrics.observeStep(kind, candidates.Len())
	}

	return candidates, nil
}

func (n *Intersection) realize(ctx context.Context, c *ExecutionContext, operand *Operand, constraint *CandidateSet) (*CandidateSet, error) {
	stream, err := c.Stream(ctx, []*Operand{operand}, constraint)
	if err != nil {
		return nil, err
	}

	set, err := Collect(stream)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operand, err)
	}

	return set, nil
}

// frequency is bounded by the cheapest positive operand.
func (n *Intersection) frequency(c *ExecutionContext) (Frequency, error) {
	result := Unknown

	for _, operand := range n.operands {
		if operand.IsNegation() {
			continue
		}

		frequency, err := c.Frequency(operand)
		if err != nil {
			return Unknown, err
		}

		if frequency.Compare(result) < 0 {
			result = frequency
		}
	}

	return result, nil
}
