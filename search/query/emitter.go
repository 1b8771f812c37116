package query

const DefaultBatchSize = 1000

// Emitter sends results to an output channel in batches of at most BatchSize
// matches.
type Emitter struct {
	BatchSize int
	Metrics   *Metrics
}

func (e *Emitter) batchSize() int {
	if e.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return e.BatchSize
}

// EmitResults sends the set in ascending document id order, then a disconnect.
// It returns the number of evaluation passes performed, always 1.
func (e *Emitter) EmitResults(set *CandidateSet, out OutputChannel) (int, error) {
	return e.EmitStream(set.Stream(out.IndexId), out)
}

// EmitStream sends every real match of stream, then a disconnect. A final
// partial batch is sent when it holds matches or when nothing was sent yet,
// so an empty result still produces one results message.
func (e *Emitter) EmitStream(stream ResultStream, out OutputChannel) (int, error) {
	batchSize := e.batchSize()
	batch := make([]DocumentMatch, 0, batchSize)
	sent := 0

	send := func() error {
		if err := out.Destination.Send(ResultsMessage{CorrelationToken: out.Token, Batch: batch}); err != nil {
			return err
		}
		e.Metrics.observeBatch(len(batch))
		sent++
		batch = make([]DocumentMatch, 0, batchSize)
		return nil
	}

	stream = NewTombstoneFilter(stream)
	for {
		element, ok := stream.Next()
		if !ok {
			break
		}

		match := element.Match
		match.IndexId = out.IndexId
		batch = append(batch, match)

		if len(batch) == batchSize {
			if err := send(); err != nil {
				return 0, err
			}
		}
	}

	if len(batch) > 0 || sent == 0 {
		if err := send(); err != nil {
			return 0, err
		}
	}

	if err := out.Destination.Send(DisconnectMessage{CorrelationToken: out.Token}); err != nil {
		return 0, err
	}

	return 1, nil
}
