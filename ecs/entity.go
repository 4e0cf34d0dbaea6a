package ecs

import (
	"strconv"

	"github.com/milk9111/rigidsync/ecs/component"
)

// Entity packs a slot index in the low 32 bits and a generation in the high
// 32 bits. The zero Entity is never handed out.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

func (e Entity) Valid() bool {
	return e.id() > 0
}

// Ref converts the handle into a reference storable inside components.
func (e Entity) Ref() component.EntityRef {
	return component.EntityRef(e)
}

// Resolve turns a stored reference back into an entity handle.
func Resolve(ref component.EntityRef) Entity {
	return Entity(ref)
}
