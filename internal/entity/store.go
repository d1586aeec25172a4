package entity

import (
	"fmt"
	"sort"
)

// ID is a stable integer handle for one entity. IDs are never reused
// within a session, so a lower id always means an older entity.
type ID uint32

// ErrDeleted is returned when a component insert races a same-tick
// delete. Callers log and skip; it must not abort the tick.
var ErrDeleted = fmt.Errorf("entity already deleted")

type table interface {
	drop(ID)
}

// Store is an arena of entities. Components live in dense per-kind
// Tables registered against the store; the store itself only tracks
// liveness and fans deletes out to the tables.
type Store struct {
	next   ID
	alive  map[ID]struct{}
	tables []table
}

func NewStore() *Store {
	return &Store{alive: map[ID]struct{}{}}
}

func (s *Store) Create() ID {
	id := s.next
	s.next++
	s.alive[id] = struct{}{}
	return id
}

func (s *Store) Alive(id ID) bool {
	_, ok := s.alive[id]
	return ok
}

func (s *Store) Len() int {
	return len(s.alive)
}

// Delete removes the entity and every component attached to it.
func (s *Store) Delete(id ID) {
	if !s.Alive(id) {
		return
	}
	delete(s.alive, id)
	for _, t := range s.tables {
		t.drop(id)
	}
}

// Table is a densely packed component table of one kind, cross
// referenced by entity id.
type Table[T any] struct {
	store *Store
	ids   []ID
	vals  []T
	index map[ID]int
}

func NewTable[T any](s *Store) *Table[T] {
	t := &Table[T]{store: s, index: map[ID]int{}}
	s.tables = append(s.tables, t)
	return t
}

// Set attaches or replaces the component on id. Inserting into a
// deleted entity is refused with ErrDeleted.
func (t *Table[T]) Set(id ID, v T) error {
	if !t.store.Alive(id) {
		return fmt.Errorf("set component on %v: %w", id, ErrDeleted)
	}
	if i, ok := t.index[id]; ok {
		t.vals[i] = v
		return nil
	}
	t.index[id] = len(t.ids)
	t.ids = append(t.ids, id)
	t.vals = append(t.vals, v)
	return nil
}

func (t *Table[T]) Get(id ID) (T, bool) {
	if i, ok := t.index[id]; ok {
		return t.vals[i], true
	}
	var zero T
	return zero, false
}

func (t *Table[T]) Has(id ID) bool {
	_, ok := t.index[id]
	return ok
}

func (t *Table[T]) Len() int {
	return len(t.ids)
}

// IDs returns the entities holding this component, in dense table
// order. Use Join for a deterministic ordering.
func (t *Table[T]) IDs() []ID {
	out := make([]ID, len(t.ids))
	copy(out, t.ids)
	return out
}

// swap-remove keeps the table dense
func (t *Table[T]) drop(id ID) {
	i, ok := t.index[id]
	if !ok {
		return
	}
	last := len(t.ids) - 1
	t.ids[i] = t.ids[last]
	t.vals[i] = t.vals[last]
	t.index[t.ids[i]] = i
	t.ids = t.ids[:last]
	t.vals = t.vals[:last]
	delete(t.index, id)
}

// Set is the read side of a table, as seen by joins.
type Set interface {
	Has(ID) bool
	IDs() []ID
}

// Join intersects the with tables and subtracts the without tables:
// "entities having A and B but not C". Results are in ascending id
// order so iteration is deterministic and ties resolve to the oldest
// entity.
func Join(with []Set, without []Set) []ID {
	if len(with) == 0 {
		return nil
	}
	var out []ID
scan:
	for _, id := range with[0].IDs() {
		for _, w := range with[1:] {
			if !w.Has(id) {
				continue scan
			}
		}
		for _, w := range without {
			if w.Has(id) {
				continue scan
			}
		}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
