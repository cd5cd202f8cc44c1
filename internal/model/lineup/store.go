package lineup

// Store exposes stage retrieval for HTTP handlers.
type Store interface {
	List() []Stage
	FindByID(id string) (Stage, bool)
}

// MemoryStore implements Store with an in-memory slice, suitable for a
// lineup that only changes between festival editions.
type MemoryStore struct {
	items []Stage
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied stages.
func NewMemoryStore(items []Stage) *MemoryStore {
	return &MemoryStore{items: append([]Stage(nil), items...)}
}

// List returns the published stage list.
func (s *MemoryStore) List() []Stage {
	return append([]Stage(nil), s.items...)
}

// FindByID looks up a stage by identifier.
func (s *MemoryStore) FindByID(id string) (Stage, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Stage{}, false
}
