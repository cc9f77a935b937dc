// Package object defines the game entities and their per-frame lifecycle.
package object

import (
	"image/color"

	"github.com/tomz197/slash/internal/draw"
	"github.com/tomz197/slash/internal/physics"
)

// Palette shared by the entities.
var (
	ColorBackground = color.RGBA{0x0d, 0x0d, 0x0d, 0xff}
	ColorEnemyBody  = color.RGBA{0x1a, 0x1a, 0x1a, 0xff}
	ColorEnemyRim   = color.RGBA{0x8b, 0x00, 0x00, 0xff}
	ColorGold       = color.RGBA{0xff, 0xd7, 0x00, 0xff}
)

// Step is the outcome of one entity update.
type Step int

const (
	Continue Step = iota // Keep the entity and draw it this frame
	Remove               // Drop the entity now; it is not drawn again
)

func (s Step) String() string {
	if s == Remove {
		return "remove"
	}
	return "continue"
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Bounds physics.Bounds
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Surface draw.Surface
}

// Object is a drawable and updatable game entity.
type Object interface {
	// Update advances the object by one frame and reports whether it stays.
	Update(ctx UpdateContext) Step

	// Draw renders the object. Only called for objects that reported Continue.
	Draw(ctx DrawContext)
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// UpdateAndDraw updates every object, drops those that report Remove and
// draws the survivors, all in a single pass. The input slice is reused.
func UpdateAndDraw[T Object](objs []T, uctx UpdateContext, dctx DrawContext) []T {
	kept := objs[:0] // reuse backing array
	for _, obj := range objs {
		if obj.Update(uctx) == Remove {
			ReleaseObject(obj)
			continue
		}
		obj.Draw(dctx)
		kept = append(kept, obj)
	}
	clear(objs[len(kept):])
	return kept
}
