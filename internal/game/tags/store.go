package tags

// Change records a single tag write, for external state-diff consumers.
type Change struct {
	EntityID int
	Tag      Tag
	Old      int
	New      int
}

// ChangeLogger receives a record for every tag write on stores that have
// logging enabled. It must not mutate the store.
type ChangeLogger func(Change)

// Store is the primitive attribute storage for one entity: a sparse mapping
// from tag to integer value. Absent tags read as zero. Writes are
// unconditional; domain constraints (health floors, caps) are enforced by
// higher layers.
type Store struct {
	entityID int
	values   map[Tag]int
	logger   ChangeLogger
}

// NewStore creates an empty store bound to the given entity id.
func NewStore(entityID int) *Store {
	return &Store{
		entityID: entityID,
		values:   make(map[Tag]int),
	}
}

// SetLogger installs a change logger. A nil logger disables logging.
func (s *Store) SetLogger(logger ChangeLogger) {
	s.logger = logger
}

// Get returns the value for the tag, or 0 if it was never set.
func (s *Store) Get(tag Tag) int {
	return s.values[tag]
}

// Bool reads a tag as a flag: any non-zero value is true.
func (s *Store) Bool(tag Tag) bool {
	return s.values[tag] != 0
}

// Set writes the value for the tag unconditionally.
func (s *Store) Set(tag Tag, value int) {
	old := s.values[tag]
	if value == 0 {
		delete(s.values, tag)
	} else {
		s.values[tag] = value
	}
	if s.logger != nil && old != value {
		s.logger(Change{EntityID: s.entityID, Tag: tag, Old: old, New: value})
	}
}

// SetBool writes a flag tag as 0 or 1.
func (s *Store) SetBool(tag Tag, value bool) {
	if value {
		s.Set(tag, 1)
	} else {
		s.Set(tag, 0)
	}
}

// Add adjusts the tag by delta.
func (s *Store) Add(tag Tag, delta int) {
	s.Set(tag, s.Get(tag)+delta)
}

// Len returns the number of tags with a non-zero value.
func (s *Store) Len() int {
	return len(s.values)
}

// Each calls fn for every non-zero tag. Iteration order is unspecified.
func (s *Store) Each(fn func(Tag, int)) {
	for tag, value := range s.values {
		fn(tag, value)
	}
}

// Copy creates a deep copy of the store. The change logger is not carried
// over; the owner of the copy decides whether logging applies to it.
func (s *Store) Copy() *Store {
	values := make(map[Tag]int, len(s.values))
	for tag, value := range s.values {
		values[tag] = value
	}
	return &Store{
		entityID: s.entityID,
		values:   values,
	}
}

// Equal reports whether two stores hold identical tag values.
func (s *Store) Equal(other *Store) bool {
	if len(s.values) != len(other.values) {
		return false
	}
	for tag, value := range s.values {
		if other.values[tag] != value {
			return false
		}
	}
	return true
}
