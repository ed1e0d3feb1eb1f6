// Package components defines ECS components for the level: static platform
// colliders and trigger collectibles.
package components

import (
	"fmt"
	"strings"

	"github.com/pthm-cable/gravwalk/geom"
)

// Layer is a collision layer bit mask.
type Layer uint32

const (
	LayerGround Layer = 1 << iota
	LayerWall
	LayerCollectible
	LayerAvatar

	LayerNone Layer = 0
	LayerAll  Layer = ^Layer(0)
)

var layerNames = map[string]Layer{
	"ground":      LayerGround,
	"wall":        LayerWall,
	"collectible": LayerCollectible,
	"avatar":      LayerAvatar,
	"all":         LayerAll,
}

// ParseLayers combines named layers into a mask. An empty list means LayerAll.
func ParseLayers(names []string) (Layer, error) {
	if len(names) == 0 {
		return LayerAll, nil
	}
	var mask Layer
	for _, n := range names {
		l, ok := layerNames[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return LayerNone, fmt.Errorf("unknown collision layer %q", n)
		}
		mask |= l
	}
	return mask, nil
}

// Has reports whether any bit of other is set in l.
func (l Layer) Has(other Layer) bool { return l&other != 0 }

// Collider is a static axis-aligned box. Trigger colliders report overlaps
// but never block bodies or answer spatial queries.
type Collider struct {
	Box     geom.AABB
	Layer   Layer
	Trigger bool
}

// Appearance holds render-only data.
type Appearance struct {
	Color [4]uint8
}

// Collectible marks a trigger collider that the avatar can pick up.
type Collectible struct {
	ID int
}
