package query

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// CorrelationToken ties messages to one query invocation.
type CorrelationToken = uuid.UUID

func NewCorrelationToken() CorrelationToken {
	return uuid.New()
}

// Message is either a ResultsMessage or a DisconnectMessage.
type Message interface {
	Token() CorrelationToken
}

type ResultsMessage struct {
	CorrelationToken CorrelationToken
	Batch            []DocumentMatch
}

func (m ResultsMessage) Token() CorrelationToken { return m.CorrelationToken }

// DisconnectMessage means no more results will be sent for the token.
type DisconnectMessage struct {
	CorrelationToken CorrelationToken
}

func (m DisconnectMessage) Token() CorrelationToken { return m.CorrelationToken }

// Mailbox is the destination of an execution unit. Send must not wait for the
// receiver.
type Mailbox interface {
	Send(message Message) error
}

type Receiver interface {
	Receive(ctx context.Context) (Message, error)
}

// OutputChannel is where an operator sends its results.
type OutputChannel struct {
	Destination Mailbox
	Token       CorrelationToken
	IndexId     string
}

// Queue is an unbounded in-process mailbox.
type Queue struct {
	mutex    sync.Mutex
	messages []Message
	closed   bool
	ready    chan struct{}
}

func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

func (q *Queue) Send(message Message) error {
	q.mutex.Lock()
	if q.closed {
		q.mutex.Unlock()
		return ErrMailboxClosed
	}
	q.messages = append(q.messages, message)
	q.mutex.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}

	return nil
}

// Receive blocks until a message is available or ctx is done. Messages sent
// before Close are still delivered.
func (q *Queue) Receive(ctx context.Context) (Message, error) {
	for {
		q.mutex.Lock()
		if len(q.messages) > 0 {
			message := q.messages[0]
			q.messages[0] = nil
			q.messages = q.messages[1:]
			q.mutex.Unlock()
			return message, nil
		}
		closed := q.closed
		q.mutex.Unlock()

		if closed {
			return nil, ErrMailboxClosed
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.ready:
		}
	}
}

func (q *Queue) Close() {
	q.mutex.Lock()
	q.closed = true
	q.mutex.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *Queue) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return len(q.messages)
}
