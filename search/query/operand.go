package query

import (
	"fmt"
	"strconv"
)

type OperandKind byte

const (
	TermOperand OperandKind = iota
	NodeOperand
	NegationOperand
)

func (k OperandKind) String() string {
	switch k {
	case TermOperand:
		return "term"
	case NodeOperand:
		return "node"
	case NegationOperand:
		return "negation"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operand is one input of a plan node. Kind selects which fields are set:
// FieldName and Term for a term, Node for a sub-tree, Inner for a negation.
type Operand struct {
	Kind OperandKind

	FieldName string
	Term      []byte

	Node PlanNode

	Inner *Operand
}

func NewTermOperand(fieldName string, term []byte) *Operand {
	return &Operand{Kind: TermOperand, FieldName: fieldName, Term: term}
}

func NewNodeOperand(node PlanNode) *Operand {
	return &Operand{Kind: NodeOperand, Node: node}
}

func NewNegation(inner *Operand) *Operand {
	return &Operand{Kind: NegationOperand, Inner: inner}
}

func (o *Operand) IsNegation() bool {
	return o.Kind == NegationOperand
}

func (o *Operand) String() string {
	switch o.Kind {
	case TermOperand:
		return o.FieldName + ":" + string(o.Term)
	case NodeOperand:
		return o.Node.String()
	case NegationOperand:
		return "NOT " + o.Inner.String()
	default:
		return fmt.Sprintf("<%s operand>", o.Kind)
	}
}

// Frequency is an estimated number of matching documents. The zero value is
// Unknown.
type Frequency struct {
	count uint64
	known bool
}

var Unknown = Frequency{}

func KnownFrequency(count uint64) Frequency {
	return Frequency{count: count, known: true}
}

func (f Frequency) Count() (uint64, bool) {
	return f.count, f.known
}

// Compare orders known frequencies by count and places Unknown after all of
// them.
func (f Frequency) Compare(other Frequency) int {
	switch {
	case f.known && other.known:
		switch {
		case f.count < other.count:
			return -1
		case f.count > other.count:
			return 1
		default:
			return 0
		}
	case f.known:
		return -1
	case other.known:
		return 1
	default:
		return 0
	}
}

func (f Frequency) String() string {
	if !f.known {
		return "unknown"
	}
	return strconv.FormatUint(f.count, 10)
}
