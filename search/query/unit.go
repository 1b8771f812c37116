package query

import (
	"context"
	"fmt"
)

// Run evaluates root and streams its results to out. It is the body of the
// execution unit that owns the root operator. Any error is fatal for the
// query: nothing is retried and no disconnect is sent.
func Run(ctx context.Context, root *Operand, c *ExecutionContext, out OutputChannel) (int, error) {
	if root.IsNegation() {
		return 0, fmt.Errorf("%s: %w", root, ErrNoPositiveOperand)
	}

	if root.Kind == NodeOperand {
		if intersection, ok := root.Node.(*Intersection); ok {
			set, err := intersection.Evaluate(ctx, c)
			if err != nil {
				return 0, err
			}

			c.Logger.Debug("intersection evaluated", "plan", root.String(), "matches", set.Len(), "token", out.Token)

			return c.emitter().EmitResults(set, out)
		}
	}

	stream, err := c.Stream(ctx, []*Operand{root}, nil)
	if err != nil {
		return 0, err
	}

	return c.emitter().EmitStream(NewTombstoneFilter(stream), out)
}
