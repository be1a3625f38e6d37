package checkpoint

import "sync"

// MemoryStore keeps checkpoints for the lifetime of the process. It backs
// one-shot runs and tests; scheduled runs use the SQLite store so they
// survive a crash.
type MemoryStore struct {
	mu    sync.Mutex
	steps map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		steps: make(map[string][]byte),
	}
}

func (s *MemoryStore) Get(runID, step string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.steps[runID+"/"+step]
	return result, ok, nil
}

func (s *MemoryStore) Put(runID, step string, result []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps[runID+"/"+step] = result
	return nil
}
