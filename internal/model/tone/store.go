package tone

// Store exposes tone profiles for HTTP handlers and prompt building.
type Store interface {
	List() []Profile
	Find(id Tone) (Profile, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Profile
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied profiles.
func NewMemoryStore(items []Profile) *MemoryStore {
	return &MemoryStore{items: append([]Profile(nil), items...)}
}

// List returns the profiles in selector order.
func (s *MemoryStore) List() []Profile {
	return append([]Profile(nil), s.items...)
}

// Find looks up a profile by tone.
func (s *MemoryStore) Find(id Tone) (Profile, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Profile{}, false
}

// PromptFor returns the prompt of id, or "" when the tone is unknown.
func PromptFor(s Store, id Tone) string {
	if s == nil {
		return ""
	}
	if p, ok := s.Find(id); ok {
		return p.Prompt
	}
	return ""
}
