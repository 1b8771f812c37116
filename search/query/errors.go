package query

import "errors"

var (
	// ErrNoPositiveOperand is returned for an AND made only of negations, or a
	// negation evaluated on its own. Neither has a finite domain.
	ErrNoPositiveOperand = errors.New("no positive operand")

	ErrEmptyNode = errors.New("node has no operands")

	// ErrDuplicateDocument is returned when a single operand yields the same
	// document twice.
	ErrDuplicateDocument = errors.New("duplicate document in operand stream")

	ErrMixedClauses = errors.New("must be either all should or all must/must not")

	ErrMailboxClosed = errors.New("mailbox closed")
)
