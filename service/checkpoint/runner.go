package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"
)

// Runner executes named steps at most once per run id. A step whose
// completion is already recorded has its stored result decoded instead of
// running again, which makes a re-invoked run resume where it stopped.
type Runner struct {
	store Store
	runID string
}

func NewRunner(store Store, runID string) *Runner {
	return &Runner{
		store: store,
		runID: runID,
	}
}

// Step runs fn unless a completed record exists for name. fn is expected to
// write its result through out (a pointer), which is persisted on success and
// restored on replay. out may be nil for steps without a result; such steps
// record only a completion marker.
func (r *Runner) Step(ctx context.Context, name string, out any, fn func(ctx context.Context) error) error {
	recorded, done, err := r.store.Get(r.runID, name)
	if err != nil {
		return fmt.Errorf("checkpoint lookup for step %s: %w", name, err)
	}
	if done {
		if out == nil || len(recorded) == 0 {
			return nil
		}
		if err := json.Unmarshal(recorded, out); err != nil {
			return fmt.Errorf("replay step %s: %w", name, err)
		}
		return nil
	}

	if err := fn(ctx); err != nil {
		return err
	}

	var result []byte
	if out != nil {
		result, err = json.Marshal(out)
		if err != nil {
			return fmt.Errorf("encode step %s result: %w", name, err)
		}
	}
	if err := r.store.Put(r.runID, name, result); err != nil {
		return fmt.Errorf("checkpoint step %s: %w", name, err)
	}
	return nil
}
