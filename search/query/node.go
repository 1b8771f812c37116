package query

import (
	"fmt"
	"log/slog"
)

// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -
// Node
// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -

// Node is a query as written by the caller.
type Node interface {
	Plan(planner *Planner) (*Operand, error)
}

// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -
// PlanNode
// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -

// PlanNode is an operator of the compiled query tree.
type PlanNode interface {
	Operands() []*Operand
	// Preplan is called once the operands have been planned. It may replace
	// the node with a simpler operand.
	Preplan(planner *Planner) (*Operand, error)
	String() string
}

// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -
// Planner
// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -

type Planner struct {
	Context *QueryContext
	logger  *slog.Logger
}

func NewPlanner(queryContext *QueryContext, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{Context: queryContext, logger: logger}
}

// Plan compiles a query into an operand tree and checks that every
// intersection has a positive operand.
func (p *Planner) Plan(node Node) (*Operand, error) {
	root, err := node.Plan(p)
	if err != nil {
		return nil, err
	}

	if err := validate(root); err != nil {
		return nil, err
	}

	p.logger.Debug("query planned", "plan", root.String())

	return root, nil
}

// PlanNode is the generic planning step of a node whose operands are planned:
// nested nodes of the same operator are lifted into it and double negations
// are removed.
func (p *Planner) PlanNode(node PlanNode) (*Operand, error) {
	switch n := node.(type) {
	case *Intersection:
		operands := liftOperands(n.operands, func(child PlanNode) bool {
			_, nested := child.(*Intersection)
			return nested
		})
		if len(operands) == 0 {
			return nil, fmt.Errorf("intersection: %w", ErrEmptyNode)
		}
		return NewNodeOperand(&Intersection{operands: operands}), nil

	case *Union:
		operands := liftOperands(n.operands, func(child PlanNode) bool {
			_, nested := child.(*Union)
			return nested
		})
		if len(operands) == 0 {
			return nil, fmt.Errorf("union: %w", ErrEmptyNode)
		}
		return NewNodeOperand(&Union{operands: operands}), nil
	}

	return NewNodeOperand(node), nil
}

func liftOperands(operands []*Operand, nested func(PlanNode) bool) []*Operand {
	lifted := make([]*Operand, 0, len(operands))

	for _, operand := range operands {
		operand = removeDoubleNegation(operand)

		if operand.Kind == NodeOperand && nested(operand.Node) {
			lifted = append(lifted, operand.Node.Operands()...)
			continue
		}

		lifted = append(lifted, operand)
	}

	return lifted
}

func removeDoubleNegation(operand *Operand) *Operand {
	for operand.IsNegation() && operand.Inner.IsNegation() {
		operand = operand.Inner.Inner
	}
	return operand
}

func validate(operand *Operand) error {
	switch operand.Kind {
	case NegationOperand:
		return validate(operand.Inner)
	case NodeOperand:
		if intersection, ok := operand.Node.(*Intersection); ok {
			if _, err := EnsurePositiveFirst(intersection.operands); err != nil {
				return fmt.Errorf("%s: %w", intersection, err)
			}
		}

		for _, child := range operand.Node.Operands() {
			if err := validate(child); err != nil {
				return err
			}
		}
	}

	return nil
}
