package ledger

import "sync"

// Ledger records the commits whose pull request comment has been delivered.
type Ledger interface {
	// Contains reports whether sha has been recorded.
	Contains(sha string) bool
	// Record marks sha as delivered. It must only be called after a
	// successful delivery.
	Record(sha string)
	// Len returns the number of recorded commits.
	Len() int
}

type memory struct {
	mu   sync.RWMutex
	shas map[string]struct{}
}

// NewMemory returns an in-memory Ledger. It never evicts anything and starts
// out empty every time the process starts.
func NewMemory() Ledger {
	return &memory{shas: map[string]struct{}{}}
}

func (m *memory) Contains(sha string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.shas[sha]
	return ok
}

func (m *memory) Record(sha string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shas[sha] = struct{}{}
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.shas)
}
