package eqtb

// Slot is one leveled cell of the equivalence table. Level 1 means the value
// was set globally (or never changed since boot).
type Slot struct {
	Value Value
	Level int
}

// Sizes gives the initial number of slots per category. Banks grow on demand
// when a higher index is touched.
type Sizes [numCategories]int

// DefaultSizes mirrors the classic register file: 256 of each register kind,
// a single current-font slot and no command slots until names are located.
var DefaultSizes = Sizes{
	Int:       256,
	Dimen:     256,
	Glue:      256,
	TokenList: 256,
	Box:       256,
	Font:      1,
	Str:       256,
	Command:   0,
}

// Store holds one bank of slots per category.
type Store struct {
	banks [numCategories][]Slot
}

// NewStore allocates every bank with level-1 zero slots.
func NewStore(sizes Sizes) *Store {
	s := &Store{}
	for c := Category(0); c < numCategories; c++ {
		s.banks[c] = newBank(sizes[c])
	}
	return s
}

func newBank(n int) []Slot {
	b := make([]Slot, n)
	for i := range b {
		b[i].Level = 1
	}
	return b
}

// at returns a pointer to the slot, growing the bank when needed. The
// pointer is only valid until the next call that may grow the same bank.
func (s *Store) at(c Category, idx int) *Slot {
	b := s.banks[c]
	if idx >= len(b) {
		grown := newBank(idx + 1 - len(b))
		s.banks[c] = append(b, grown...)
	}
	return &s.banks[c][idx]
}

// Get returns a copy of the slot.
func (s *Store) Get(c Category, idx int) Slot {
	if idx < 0 || idx >= len(s.banks[c]) {
		return Slot{Level: 1}
	}
	return s.banks[c][idx]
}

// Len returns the number of allocated slots in a category.
func (s *Store) Len(c Category) int {
	return len(s.banks[c])
}
