package query

import (
	"bytes"
)

type QueryField struct {
	name  string
	terms [][]byte
}

// QueryContext collects the distinct terms of a query while it is planned, so
// their statistics can be fetched once before execution.
type QueryContext struct {
	Fields []*QueryField
}

func NewQueryContext() *QueryContext {
	return &QueryContext{Fields: make([]*QueryField, 0, 10)}
}

// RegisterTerm returns the field index and term index of a term, adding it on
// first sight.
func (c *QueryContext) RegisterTerm(fieldName string, term []byte) (int, int) {
	for i, field := range c.Fields {
		if field.name != fieldName {
			continue
		}

		for j, registered := range field.terms {
			if bytes.Equal(registered, term) {
				return i, j
			}
		}

		field.terms = append(field.terms, term)
		return i, len(field.terms) - 1
	}

	c.Fields = append(c.Fields, &QueryField{name: fieldName, terms: [][]byte{term}})

	return len(c.Fields) - 1, 0
}

// Terms calls fn for every registered term.
func (c *QueryContext) Terms(fn func(fieldName string, term []byte) error) error {
	for _, field := range c.Fields {
		for _, term := range field.terms {
			if err := fn(field.name, term); err != nil {
				return err
			}
		}
	}
	return nil
}
