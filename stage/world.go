// Package stage provides the host engine surface the ui bridge is written
// against: an entity world with typed component tables, an image asset store
// with change events, a render graph and a staged scheduler. It is the contract
// a full engine would provide, kept small enough to run headless.
package stage

import (
	"slices"
)

// Entity identifies a live or despawned entity. The generation makes recycled
// indices distinguishable from their previous lives.
type Entity struct {
	Index      uint32
	Generation uint32
}

type componentTable interface {
	drop(Entity)
}

// World owns entity identities. Component data lives in Tables registered
// with the world, despawning an entity drops its rows from every table.
type World struct {
	generations []uint32
	free        []uint32
	alive       map[Entity]struct{}

	tables []componentTable
}

func NewWorld() *World {
	return &World{
		alive: map[Entity]struct{}{},
	}
}

func (w *World) Spawn() Entity {
	var index uint32

	if n := len(w.free); n > 0 {
		index = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		index = uint32(len(w.generations))
		w.generations = append(w.generations, 0)
	}

	entity := Entity{Index: index, Generation: w.generations[index]}
	w.alive[entity] = struct{}{}

	return entity
}

func (w *World) Despawn(entity Entity) {
	if _, ok := w.alive[entity]; !ok {
		return
	}

	delete(w.alive, entity)
	w.generations[entity.Index]++
	w.free = append(w.free, entity.Index)

	for _, table := range w.tables {
		table.drop(entity)
	}
}

func (w *World) Alive(entity Entity) bool {
	_, ok := w.alive[entity]
	return ok
}

func (w *World) register(table componentTable) {
	w.tables = append(w.tables, table)
}

// Table stores one component type keyed by entity.
type Table[T any] struct {
	rows map[Entity]T
}

func NewTable[T any](world *World) *Table[T] {
	table := &Table[T]{rows: map[Entity]T{}}
	world.register(table)
	return table
}

func (t *Table[T]) Insert(entity Entity, value T) {
	t.rows[entity] = value
}

func (t *Table[T]) Get(entity Entity) (T, bool) {
	value, ok := t.rows[entity]
	return value, ok
}

func (t *Table[T]) Has(entity Entity) bool {
	_, ok := t.rows[entity]
	return ok
}

func (t *Table[T]) Remove(entity Entity) {
	delete(t.rows, entity)
}

func (t *Table[T]) Len() int {
	return len(t.rows)
}

// Entities returns the keys in deterministic order.
func (t *Table[T]) Entities() []Entity {
	entities := make([]Entity, 0, len(t.rows))
	for entity := range t.rows {
		entities = append(entities, entity)
	}

	slices.SortFunc(entities, func(a, b Entity) int {
		if a.Index != b.Index {
			return int(a.Index) - int(b.Index)
		}
		return int(a.Generation) - int(b.Generation)
	})

	return entities
}

// Each visits all rows in deterministic entity order.
func (t *Table[T]) Each(fn func(Entity, T)) {
	for _, entity := range t.Entities() {
		fn(entity, t.rows[entity])
	}
}

func (t *Table[T]) drop(entity Entity) {
	delete(t.rows, entity)
}
