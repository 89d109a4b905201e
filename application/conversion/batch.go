package conversion

import (
	"context"
	"errors"

	"aac2alac/domain/conversion"
)

// ItemStatus is the outcome of one file in a batch
type ItemStatus int

const (
	ItemConverted ItemStatus = iota
	ItemSkipped
	ItemFailed
)

func (s ItemStatus) String() string {
	switch s {
	case ItemConverted:
		return "converted"
	case ItemSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// BatchItem reports what happened to one source
type BatchItem struct {
	SourcePath string
	Status     ItemStatus
	Result     *conversion.Result
	Err        error
}

// BatchSummary collects the outcome of ConvertAll
type BatchSummary struct {
	Items     []BatchItem
	Converted int
	Skipped   int
	Failed    int
	Aborted   bool // Remaining sources were not attempted
}

// BatchInput represents the input for a batch conversion
type BatchInput struct {
	SourcePaths []string
	OnProgress  func(sourcePath string, percent float64) // Optional
	OnItem      func(item BatchItem)                     // Optional, called after each source
}

// ConvertAll converts each source in order. Sources with no AAC audio are
// skipped, other failures are recorded and the batch continues, except a
// missing encoder or cancellation which stop the batch.
func (s *Service) ConvertAll(ctx context.Context, input BatchInput) *BatchSummary {
	summary := &BatchSummary{}

	for _, path := range input.SourcePaths {
		if ctx.Err() != nil {
			summary.Aborted = true
			break
		}

		in := Input{SourcePath: path}
		if input.OnProgress != nil {
			source := path
			in.OnProgress = func(pct float64) { input.OnProgress(source, pct) }
		}

		result, err := s.Convert(ctx, in)
		item := BatchItem{SourcePath: path, Result: result, Err: err}
		switch {
		case err == nil:
			item.Status = ItemConverted
			summary.Converted++
		case conversion.IsSkippable(err):
			item.Status = ItemSkipped
			summary.Skipped++
		default:
			item.Status = ItemFailed
			summary.Failed++
		}

		summary.Items = append(summary.Items, item)
		if input.OnItem != nil {
			input.OnItem(item)
		}

		if errors.Is(err, conversion.ErrEncoderNotFound) || errors.Is(err, context.Canceled) {
			summary.Aborted = true
			break
		}
	}

	return summary
}
