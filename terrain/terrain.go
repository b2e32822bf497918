// Package terrain implements the vertex-corner terrain model (§4.I):
// terrain is authored on the vertices of a tile grid, and the drawable
// tile at each cell is derived from its four corners via a 16-entry
// transition lookup. Grounded on
// original_source/libs/basic/include/hades/terrain.hpp's corner
// algorithm, with other_examples/...phanxgames-willow tilemap.go grounding
// the tile-id compression scheme in compress.go.
package terrain

import (
	"errors"
	"math/rand"

	"github.com/cyanskies/hades/data"
	"github.com/cyanskies/hades/uid"
)

// Errors per §7: malformed level geometry aborts the level load rather
// than degrading like a single missing resource would.
var (
	ErrTerrain       = errors.New("terrain: malformed terrain")
	ErrTerrainLayers = errors.New("terrain: malformed level geometry")
)

// Corner indexes a cell's four vertices. The bit order is fixed (per
// DESIGN NOTES §9) and must agree between every writer and reader of a
// TransitionTileType mask.
type Corner uint8

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

// TransitionTileType is a 4-bit mask, one bit per Corner, of which
// corners of a cell hold a given terrain. 0 (None) means that terrain
// doesn't touch this cell at all; 15 (All) means the cell is entirely
// that terrain.
type TransitionTileType uint8

const (
	None TransitionTileType = 0
	All  TransitionTileType = 15
)

// TransitionMaskOf builds the mask from a per-corner bool array indexed
// by Corner.
func TransitionMaskOf(present [4]bool) TransitionTileType {
	var m uint8
	for c, set := range present {
		if set {
			m |= 1 << uint(c)
		}
	}
	return TransitionTileType(m)
}

// Tile is one drawable cell: which tileset it belongs to, its (u, v)
// offset within that tileset, and any gameplay tags.
type Tile struct {
	Tileset uid.ID
	U, V    int
	Tags    []string
}

// Terrain is a resource carrying, beyond its own tileset tiles, one tile
// list per non-empty TransitionTileType (indices 1..14) plus the "all"
// tile list (index 15) and an empty tile for its complement.
type Terrain struct {
	data.Base
	Tiles       []Tile
	Transitions [16][]Tile
	Empty       Tile
}

// TilesFor returns the candidate tiles for a transition type. None
// callers should skip drawing rather than call this.
func (t *Terrain) TilesFor(tt TransitionTileType) []Tile {
	return t.Transitions[tt]
}

// RandomTile picks uniformly among a terrain's candidate tiles for a
// transition type, per the "pick a tile uniformly at random" draw rule.
func RandomTile(rng *rand.Rand, t *Terrain, tt TransitionTileType) (Tile, bool) {
	candidates := t.Transitions[tt]
	if len(candidates) == 0 {
		return Tile{}, false
	}
	return candidates[rng.Intn(len(candidates))], true
}

// TerrainSet is an ordered list of terrains; order encodes back-to-front
// paint priority for a level.
type TerrainSet struct {
	data.Base
	Terrains []uid.ID
}
