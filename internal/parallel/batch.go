package parallel

import (
	"context"
)

// BatchProcessor splits work into fixed-size batches and processes the
// batches through a Processor.
type BatchProcessor struct {
	size      int
	processor *Processor
}

// NewBatchProcessor creates a batch processor. A size <= 0 puts every item in
// a single batch.
func NewBatchProcessor(size int, processor *Processor) *BatchProcessor {
	if processor == nil {
		processor = NewProcessor(0)
	}
	return &BatchProcessor{size: size, processor: processor}
}

// Batches splits items into consecutive chunks of at most size elements
func Batches[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 || size >= len(items) {
		return [][]T{items}
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}

// MapBatches applies fn to each batch and concatenates the outputs in order
func MapBatches[T, R any](ctx context.Context, b *BatchProcessor, items []T, fn func(ctx context.Context, batch []T) ([]R, error)) ([]R, error) {
	chunks, err := Map(ctx, b.processor, Batches(items, b.size), fn)
	if err != nil {
		return nil, err
	}
	out := make([]R, 0, len(items))
	for _, chunk := range chunks {
		out = append(out, chunk...)
	}
	return out, nil
}
