package query

import "fmt"

type MatchType byte

const (
	Should MatchType = iota
	Must
	MustNot
)

type BooleanClause struct {
	Type MatchType
	Node Node
}

// BooleanNode is an AND of Must and MustNot clauses, or an OR of Should
// clauses.
type BooleanNode struct {
	Clauses []*BooleanClause
}

func (n *BooleanNode) Plan(planner *Planner) (*Operand, error) {
	if len(n.Clauses) == 0 {
		return nil, fmt.Errorf("boolean node: %w", ErrEmptyNode)
	}

	operands := make([]*Operand, 0, len(n.Clauses))

	allShould := true
	anyShould := false

	for _, clause := range n.Clauses {
		allShould = allShould && clause.Type == Should
		anyShould = anyShould || clause.Type == Should

		operand, err := clause.Node.Plan(planner)
		if err != nil {
			return nil, err
		}

		if clause.Type == MustNot {
			operand = NewNegation(operand)
		}

		operands = append(operands, operand)
	}

	if allShould {
		return (&Union{operands: operands}).Preplan(planner)
	}

	if anyShould {
		return nil, ErrMixedClauses
	}

	return (&Intersection{operands: operands}).Preplan(planner)
}
