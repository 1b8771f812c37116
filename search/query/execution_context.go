package query

import (
	"context"
	"fmt"
	"log/slog"
)

// TermSource gives access to the postings of individual terms.
type TermSource interface {
	// DocFreq estimates how many documents contain the term.
	DocFreq(fieldName string, term []byte) (Frequency, error)
	// TermStream streams the documents containing the term in ascending order,
	// restricted to constraint when it is not nil.
	TermStream(fieldName string, term []byte, constraint *CandidateSet) (ResultStream, error)
}

// ExecutionContext carries what operators need while a query runs. It is the
// streaming merge primitive and the frequency estimator of the operators.
type ExecutionContext struct {
	IndexId   string
	BatchSize int
	Logger    *slog.Logger
	Metrics   *Metrics

	source      TermSource
	frequencies map[string]Frequency
}

func termKey(fieldName string, term []byte) string {
	return fieldName + "\x00" + string(term)
}

// NewExecutionContext fetches the frequency of every term registered in
// queryContext.
func NewExecutionContext(queryContext *QueryContext, source TermSource) (*ExecutionContext, error) {
	c := &ExecutionContext{
		Logger:      slog.Default(),
		source:      source,
		frequencies: make(map[string]Frequency),
	}

	err := queryContext.Terms(func(fieldName string, term []byte) error {
		_, err := c.termFrequency(fieldName, term)
		return err
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (c *ExecutionContext) termFrequency(fieldName string, term []byte) (Frequency, error) {
	key := termKey(fieldName, term)
	if frequency, exists := c.frequencies[key]; exists {
		return frequency, nil
	}

	frequency, err := c.source.DocFreq(fieldName, term)
	if err != nil {
		return Unknown, fmt.Errorf("frequency of %s:%s: %w", fieldName, term, err)
	}

	c.frequencies[key] = frequency
	return frequency, nil
}

// Frequency estimates the number of documents matched by operand. A negation
// costs as much as its inner operand since that is what gets evaluated.
func (c *ExecutionContext) Frequency(operand *Operand) (Frequency, error) {
	switch operand.Kind {
	case TermOperand:
		return c.termFrequency(operand.FieldName, operand.Term)
	case NegationOperand:
		return c.Frequency(operand.Inner)
	case NodeOperand:
		switch node := operand.Node.(type) {
		case *Intersection:
			return node.frequency(c)
		case *Union:
			return node.frequency(c)
		}
	}

	return Unknown, nil
}

// Stream returns the documents matching any of operands, restricted to the
// documents of constraint when it is not nil. Negated operands yield Negated
// elements.
func (c *ExecutionContext) Stream(ctx context.Context, operands []*Operand, constraint *CandidateSet) (ResultStream, error) {
	streams := make([]ResultStream, 0, len(operands))

	for _, operand := range operands {
		stream, err := c.operandStream(ctx, operand, constraint)
		if err != nil {
			return nil, err
		}
		streams = append(streams, stream)
	}

	if len(streams) == 0 {
		return EmptyStream{}, nil
	}

	return newMergeStream(streams), nil
}

func (c *ExecutionContext) operandStream(ctx context.Context, operand *Operand, constraint *CandidateSet) (ResultStream, error) {
	switch operand.Kind {
	case TermOperand:
		return c.source.TermStream(operand.FieldName, operand.Term, constraint)

	case NegationOperand:
		inner, err := c.operandStream(ctx, operand.Inner, constraint)
		if err != nil {
			return nil, err
		}
		return &negatedStream{stream: inner}, nil

	case NodeOperand:
		switch node := operand.Node.(type) {
		case *Intersection:
			set, err := node.evaluate(ctx, c, constraint)
			if err != nil {
				return nil, err
			}
			return set.Stream(c.IndexId), nil
		case *Union:
			return node.stream(ctx, c, constraint)
		default:
			return nil, fmt.Errorf("unsupported plan node %T", operand.Node)
		}
	}

	return nil, fmt.Errorf("unsupported operand kind %s", operand.Kind)
}

func (c *ExecutionContext) emitter() *Emitter {
	return &Emitter{BatchSize: c.BatchSize, Metrics: c.Metrics}
}
