package query

// CollapseSet tracks the collapsed flag per group identifier (a project ID
// or a status name). Groups default to expanded; a view may seed specific
// identifiers explicitly.
type CollapseSet map[string]bool

// NewCollapseSet returns a set with the given identifiers seeded expanded.
func NewCollapseSet(ids ...string) CollapseSet {
	s := make(CollapseSet, len(ids))
	for _, id := range ids {
		s[id] = false
	}
	return s
}

// Toggle flips the collapsed flag for one group.
func (s CollapseSet) Toggle(id string) {
	s[id] = !s[id]
}

// Collapsed reports whether the group is collapsed. Unknown groups are
// expanded.
func (s CollapseSet) Collapsed(id string) bool {
	return s[id]
}
