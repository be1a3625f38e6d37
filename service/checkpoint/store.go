package checkpoint

// Store persists completed step results keyed by run id and step name. The
// execution layer may re-invoke a run with the same id after a partial
// failure; recorded steps are then replayed instead of re-executed.
type Store interface {
	Get(runID, step string) ([]byte, bool, error)
	Put(runID, step string, result []byte) error
}
