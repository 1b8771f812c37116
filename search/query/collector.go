package query

import (
	"context"
)

// Collector is the consumer end of a query: it gathers the matches sent for
// one correlation token until the disconnect.
type Collector struct {
	token   CorrelationToken
	limit   int
	matches []DocumentMatch
	batches int
	done    bool
}

// NewCollector keeps at most limit matches; 0 keeps all of them.
func NewCollector(token CorrelationToken, limit int) *Collector {
	return &Collector{
		token:   token,
		limit:   limit,
		matches: make([]DocumentMatch, 0, 64),
	}
}

// Handle processes one message and reports whether the stream is complete.
// Messages for other tokens are ignored.
func (c *Collector) Handle(message Message) bool {
	if c.done || message.Token() != c.token {
		return c.done
	}

	switch m := message.(type) {
	case ResultsMessage:
		c.batches++
		for _, match := range m.Batch {
			if c.limit > 0 && len(c.matches) >= c.limit {
				break
			}
			c.matches = append(c.matches, match)
		}
	case DisconnectMessage:
		c.done = true
	}

	return c.done
}

// Collect receives messages until the disconnect for the collector's token.
func (c *Collector) Collect(ctx context.Context, receiver Receiver) error {
	for !c.done {
		message, err := receiver.Receive(ctx)
		if err != nil {
			return err
		}
		c.Handle(message)
	}
	return nil
}

func (c *Collector) Matches() []DocumentMatch {
	return c.matches
}

// Batches is the number of results messages received.
func (c *Collector) Batches() int {
	return c.batches
}

func (c *Collector) Done() bool {
	return c.done
}
