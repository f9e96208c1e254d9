package pipeline

import (
	"errors"
	"fmt"
)

// Fatal errors abort the whole run.
var (
	// ErrIdeaGenerationFailed means the idea batch could not be produced.
	// Ideas are the root of the dependency graph, so there is nothing to
	// salvage downstream.
	ErrIdeaGenerationFailed = errors.New("idea generation failed")

	// ErrMalformedProviderResponse means a provider's output did not parse
	// into the expected structure.
	ErrMalformedProviderResponse = errors.New("malformed provider response")
)

// ErrUnsupportedContentType marks an item whose content type has no
// assembler branch. It fails that item only; the run continues.
var ErrUnsupportedContentType = errors.New("unsupported content type")

// Stage names a pipeline stage for failure attribution.
type Stage string

const (
	StageIdeas       Stage = "ideas"
	StageDevelopment Stage = "development"
	StageAssembly    Stage = "assembly"
)

// ItemFailure records one isolated per-item failure. Collecting these makes
// the partial-failure policy visible to callers instead of burying it in
// logs.
type ItemFailure struct {
	Stage  Stage  `json:"stage"`
	ItemID string `json:"item_id"`
	Err    error  `json:"-"`
	Reason string `json:"reason"`
}

func (f ItemFailure) Error() string {
	return fmt.Sprintf("%s stage: item %s: %v", f.Stage, f.ItemID, f.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (f ItemFailure) Unwrap() error {
	return f.Err
}

// BatchResult partitions a batch into successes and isolated failures.
type BatchResult[T any] struct {
	Succeeded []T
	Failed    []ItemFailure
}

// addSuccess appends a succeeded item.
func (b *BatchResult[T]) addSuccess(item T) {
	b.Succeeded = append(b.Succeeded, item)
}

// addFailure appends an isolated failure.
func (b *BatchResult[T]) addFailure(stage Stage, itemID string, err error) {
	b.Failed = append(b.Failed, ItemFailure{
		Stage:  stage,
		ItemID: itemID,
		Err:    err,
		Reason: err.Error(),
	})
}
