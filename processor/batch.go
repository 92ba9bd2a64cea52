package processor

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/erickva/rag-processor/pkg/logger"
)

// BatchItem is the outcome for one file in a batch run.
type BatchItem struct {
	Path   string  `json:"path"`
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
	Error  string  `json:"error,omitempty"`
}

// BatchResult aggregates a batch run. Items keep the input order.
type BatchResult struct {
	ID        string      `json:"id"`
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// ProcessBatch processes files concurrently with at most workers
// goroutines. One failing file does not stop the rest; cancelling the
// context does.
func (p *Processor) ProcessBatch(ctx context.Context, paths []string, workers int) *BatchResult {
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	batch := &BatchResult{
		ID:    uuid.New().String(),
		Items: make([]BatchItem, len(paths)),
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				result, err := p.ProcessFile(ctx, paths[idx])
				item := BatchItem{Path: paths[idx], Result: result, Err: err}
				if err != nil {
					item.Error = err.Error()
				}
				batch.Items[idx] = item
			}
		}()
	}

	for idx := range paths {
		select {
		case <-ctx.Done():
			batch.Items[idx] = BatchItem{Path: paths[idx], Err: ctx.Err(), Error: ctx.Err().Error()}
			continue
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	for _, item := range batch.Items {
		if item.Err != nil {
			batch.Failed++
		} else if item.Result != nil {
			batch.Succeeded++
		}
	}

	p.log.FromContext(logger.WithCorrelationID(ctx)).Info().
		Str("batch_id", batch.ID).
		Int("files", len(paths)).
		Int("succeeded", batch.Succeeded).
		Int("failed", batch.Failed).
		Msg("Batch processing finished")

	return batch
}
