package tree

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Expanded is the set of objective ids whose children are visible.
// It is a value: Toggle returns a new set and never mutates the receiver,
// so a set held by one view cannot change underneath another.
type Expanded struct {
	ids map[int]struct{}
}

// NewExpanded returns a set holding ids.
func NewExpanded(ids ...int) Expanded {
	e := Expanded{ids: make(map[int]struct{}, len(ids))}
	for _, id := range ids {
		e.ids[id] = struct{}{}
	}
	return e
}

// ParseExpanded parses a comma-separated id list such as "1,4,7".
// Blank items are skipped; duplicates collapse.
func ParseExpanded(s string) (Expanded, error) {
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return Expanded{}, fmt.Errorf("tree: invalid objective id %q", part)
		}
		ids = append(ids, id)
	}
	return NewExpanded(ids...), nil
}

// Has reports whether id is expanded.
func (e Expanded) Has(id int) bool {
	_, ok := e.ids[id]
	return ok
}

// Toggle returns a copy of the set with id's membership flipped.
func (e Expanded) Toggle(id int) Expanded {
	next := Expanded{ids: make(map[int]struct{}, len(e.ids)+1)}
	for k := range e.ids {
		next.ids[k] = struct{}{}
	}
	if _, ok := next.ids[id]; ok {
		delete(next.ids, id)
	} else {
		next.ids[id] = struct{}{}
	}
	return next
}

// Len returns the number of expanded ids.
func (e Expanded) Len() int {
	return len(e.ids)
}

// IDs returns the expanded ids in ascending order.
func (e Expanded) IDs() []int {
	out := make([]int, 0, len(e.ids))
	for id := range e.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Equal reports whether both sets hold the same ids.
func (e Expanded) Equal(other Expanded) bool {
	if len(e.ids) != len(other.ids) {
		return false
	}
	for id := range e.ids {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// String formats the set in the form accepted by ParseExpanded.
func (e Expanded) String() string {
	ids := e.IDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
