package navigator

import (
	"sync"

	"moreever/internal/model"
)

// Slots gives the navigator access to the selectors and display targets it
// drives. Implementations must be safe for concurrent use: probes write the
// fulltext slot from their own goroutines.
type Slots interface {
	Selection() model.Selection
	Fulltext() string
	SetValues(path string)
	SetList(path string)
	SetFulltext(path string)
}

// MemorySlots is an in-memory Slots guarded by a mutex.
type MemorySlots struct {
	mu       sync.RWMutex
	sel      model.Selection
	targets  model.Targets
	onChange func(model.Targets)
}

// NewMemorySlots returns slots holding sel, with the fulltext target set to
// fulltext (the document shown before any navigation).
func NewMemorySlots(sel model.Selection, fulltext string) *MemorySlots {
	return &MemorySlots{
		sel:     sel,
		targets: model.Targets{Fulltext: fulltext},
	}
}

// OnChange registers fn to be called after any target changes.
func (s *MemorySlots) OnChange(fn func(model.Targets)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *MemorySlots) Selection() model.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sel
}

// Select replaces the whole selection. It does not trigger navigation.
func (s *MemorySlots) Select(sel model.Selection) {
	s.mu.Lock()
	s.sel = sel
	s.mu.Unlock()
}

func (s *MemorySlots) Fulltext() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.targets.Fulltext
}

// Targets returns a snapshot of all three targets.
func (s *MemorySlots) Targets() model.Targets {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.targets
}

func (s *MemorySlots) SetValues(path string) {
	s.set(func(t *model.Targets) { t.Values = path })
}

func (s *MemorySlots) SetList(path string) {
	s.set(func(t *model.Targets) { t.List = path })
}

func (s *MemorySlots) SetFulltext(path string) {
	s.set(func(t *model.Targets) { t.Fulltext = path })
}

func (s *MemorySlots) set(apply func(*model.Targets)) {
	s.mu.Lock()
	apply(&s.targets)
	snapshot, fn := s.targets, s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
}
