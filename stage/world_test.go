package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnDespawn(t *testing.T) {
	world := NewWorld()

	a := world.Spawn()
	b := world.Spawn()

	assert.True(t, world.Alive(a))
	assert.True(t, world.Alive(b))
	assert.NotEqual(t, a, b)

	world.Despawn(a)
	assert.False(t, world.Alive(a))
	assert.True(t, world.Alive(b))

	// despawning twice is a no-op
	world.Despawn(a)
	assert.False(t, world.Alive(a))
}

func TestRecycledIndexGetsNewGeneration(t *testing.T) {
	world := NewWorld()

	a := world.Spawn()
	world.Despawn(a)

	b := world.Spawn()

	assert.Equal(t, a.Index, b.Index)
	assert.NotEqual(t, a.Generation, b.Generation)

	assert.False(t, world.Alive(a))
	assert.True(t, world.Alive(b))
}

func TestDespawnDropsTableRows(t *testing.T) {
	world := NewWorld()
	table := NewTable[string](world)

	a := world.Spawn()
	b := world.Spawn()

	table.Insert(a, "a")
	table.Insert(b, "b")
	require.Equal(t, 2, table.Len())

	world.Despawn(a)

	assert.False(t, table.Has(a))
	assert.True(t, table.Has(b))
	assert.Equal(t, 1, table.Len())
}

func TestStaleEntityDoesNotSeeRecycledRow(t *testing.T) {
	world := NewWorld()
	table := NewTable[int](world)

	a := world.Spawn()
	table.Insert(a, 1)
	world.Despawn(a)

	b := world.Spawn()
	table.Insert(b, 2)

	_, ok := table.Get(a)
	assert.False(t, ok, "the stale entity must not alias the recycled index")

	value, ok := table.Get(b)
	require.True(t, ok)
	assert.Equal(t, 2, value)
}

func TestEntitiesAreOrdered(t *testing.T) {
	world := NewWorld()
	table := NewTable[int](world)

	var spawned []Entity
	for i := 0; i < 8; i++ {
		entity := world.Spawn()
		spawned = append(spawned, entity)
		table.Insert(entity, i)
	}

	assert.Equal(t, spawned, table.Entities())

	var visited []Entity
	table.Each(func(entity Entity, _ int) {
		visited = append(visited, entity)
	})
	assert.Equal(t, spawned, visited)
}
