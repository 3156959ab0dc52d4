package keychain

import (
	"runtime"
	"sync"

	"github.com/daogora-xyz/bip-keychain-core/entity"
	"github.com/daogora-xyz/bip-keychain-core/model"
)

// Options controls batch execution.
//
// Default behavior is one worker per CPU when Options{} is used.
type Options struct {
	// Workers bounds the fan-out. Values <= 0 select runtime.NumCPU().
	Workers int
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	return o
}

// DeriveBatch derives every entity in docs independently and returns one
// result slot per input, in input order. A failure on one entity never
// prevents derivation of the others, and no entity's processing observes
// another's intermediate state.
func (s *Session) DeriveBatch(docs []*entity.Document) []model.Result {
	return s.DeriveBatchWithOptions(docs, Options{})
}

// DeriveBatchWithOptions is DeriveBatch with an explicit worker bound.
//
// Per-entity work fans out across workers; results are index-tagged and
// merged after completion, so input order is preserved regardless of
// completion order.
func (s *Session) DeriveBatchWithOptions(docs []*entity.Document, opts Options) []model.Result {
	opts = opts.withDefaults()
	results := make([]model.Result, len(docs))
	if len(docs) == 0 {
		return results
	}

	workers := opts.Workers
	if workers > len(docs) {
		workers = len(docs)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rec, err := s.Derive(docs[i])
				results[i] = model.Result{Record: rec, Err: err}
			}
		}()
	}
	for i := range docs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

// DeriveBatchRaw parses each input as an entity document and derives it.
// Parse failures occupy their result slot like any other per-entity error,
// so one malformed document cannot abort the batch.
func (s *Session) DeriveBatchRaw(inputs [][]byte, opts Options) []model.Result {
	docs := make([]*entity.Document, len(inputs))
	parseErrs := make([]error, len(inputs))
	for i, raw := range inputs {
		docs[i], parseErrs[i] = entity.Parse(raw)
	}

	results := s.DeriveBatchWithOptions(docs, opts)
	for i, err := range parseErrs {
		if err != nil {
			results[i] = model.Result{Err: err}
		}
	}
	return results
}
