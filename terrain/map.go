package terrain

import (
	"fmt"

	"github.com/cyanskies/hades/uid"
)

// Map is a level's terrain: a (W+1)x(H+1) vertex grid of terrain ids,
// the terrainset defining paint order, and a background terrain. Every
// vertex must hold a valid (non-zero) terrain id.
type Map struct {
	Width, Height int // in tiles
	Background    uid.ID
	TerrainSet    uid.ID

	vertices []uid.ID // row-major, (Width+1)*(Height+1)
	overrides map[[2]int]Tile
}

// NewMap creates a W x H tile map with every vertex set to fill.
func NewMap(w, h int, background, terrainset, fill uid.ID) *Map {
	m := &Map{
		Width:      w,
		Height:     h,
		Background: background,
		TerrainSet: terrainset,
		vertices:   make([]uid.ID, (w+1)*(h+1)),
		overrides:  make(map[[2]int]Tile),
	}
	for i := range m.vertices {
		m.vertices[i] = fill
	}
	return m
}

func (m *Map) vertexIndex(x, y int) int {
	return y*(m.Width+1) + x
}

// WithinVertexBounds reports whether (x, y) addresses a vertex of this map.
func (m *Map) WithinVertexBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x <= m.Width && y <= m.Height
}

// WithinTileBounds reports whether (x, y) addresses a cell of this map.
func (m *Map) WithinTileBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// Vertex returns the terrain id at a vertex position.
func (m *Map) Vertex(x, y int) uid.ID {
	return m.vertices[m.vertexIndex(x, y)]
}

// SetVertex writes a single vertex's terrain id. The cells touching this
// vertex are not cached, so their derived corners/layers pick it up on
// the next read with no separate recompute step.
func (m *Map) SetVertex(x, y int, t uid.ID) {
	m.vertices[m.vertexIndex(x, y)] = t
}

// PlaceTerrain writes a terrain to every listed vertex position.
// Positions outside the map are ignored.
func (m *Map) PlaceTerrain(positions [][2]int, t uid.ID) {
	for _, p := range positions {
		if m.WithinVertexBounds(p[0], p[1]) {
			m.SetVertex(p[0], p[1], t)
		}
	}
}

// PlaceTile sets a literal tile straight into the derived layer for a
// cell, bypassing corner recomputation. DerivedTile returns this override
// (if present) ahead of the corner-derived layers; CellLayers works from
// corners alone and does not consult overrides.
func (m *Map) PlaceTile(positions [][2]int, t Tile) {
	for _, p := range positions {
		if m.WithinTileBounds(p[0], p[1]) {
			m.overrides[[2]int{p[0], p[1]}] = t
		}
	}
}

// Corners returns the four vertex terrain ids touching a cell, in
// TopLeft, TopRight, BottomRight, BottomLeft order.
func (m *Map) Corners(x, y int) [4]uid.ID {
	return [4]uid.ID{
		m.Vertex(x, y),
		m.Vertex(x+1, y),
		m.Vertex(x+1, y+1),
		m.Vertex(x, y+1),
	}
}

// GetTerrainAtTile is an alias for Corners kept for parity with the
// original get_terrain_at_tile name; both read the same live vertices,
// so they always agree (invariant 4).
func (m *Map) GetTerrainAtTile(x, y int) [4]uid.ID {
	return m.Corners(x, y)
}

// TransitionTypeOf returns the mask of corners at (x, y) that belong to
// terrain t.
func (m *Map) TransitionTypeOf(x, y int, t uid.ID) TransitionTileType {
	corners := m.Corners(x, y)
	var present [4]bool
	for c, id := range corners {
		present[c] = id == t
	}
	return TransitionMaskOf(present)
}

// CellLayer is one terrain's transition tile for a cell, in paint order.
type CellLayer struct {
	Terrain    uid.ID
	Transition TransitionTileType
}

// CellLayers derives the back-to-front paint recipe for a cell: every
// terrain in the terrainset's order that appears at one of the cell's
// corners but isn't the background, paired with its transition mask.
// Terrains present with mask None (a theoretical impossibility for a
// terrain that was found at a corner, kept as a defensive skip) are
// omitted.
func CellLayers(tset *TerrainSet, background uid.ID, corners [4]uid.ID) []CellLayer {
	var layers []CellLayer
	for _, t := range tset.Terrains {
		if t == background {
			continue
		}
		present := false
		for _, c := range corners {
			if c == t {
				present = true
				break
			}
		}
		if !present {
			continue
		}
		var mask [4]bool
		for c, id := range corners {
			mask[c] = id == t
		}
		tt := TransitionMaskOf(mask)
		if tt == None {
			continue
		}
		layers = append(layers, CellLayer{Terrain: t, Transition: tt})
	}
	return layers
}

// DerivedTile returns the override tile for a cell placed by PlaceTile,
// if any.
func (m *Map) DerivedTile(x, y int) (Tile, bool) {
	t, ok := m.overrides[[2]int{x, y}]
	return t, ok
}

// ResizeMap grows or crops the map to newW x newH, placing the current
// content at offset (offsetX, offsetY). Vertices newly exposed by growth
// are set to fill; vertices that fall outside the new size are dropped.
func ResizeMap(m *Map, newW, newH, offsetX, offsetY int, fill uid.ID) *Map {
	out := NewMap(newW, newH, m.Background, m.TerrainSet, fill)
	for y := 0; y <= m.Height; y++ {
		for x := 0; x <= m.Width; x++ {
			nx, ny := x+offsetX, y+offsetY
			if out.WithinVertexBounds(nx, ny) {
				out.SetVertex(nx, ny, m.Vertex(x, y))
			}
		}
	}
	for p, t := range m.overrides {
		nx, ny := p[0]+offsetX, p[1]+offsetY
		if out.WithinTileBounds(nx, ny) {
			out.overrides[[2]int{nx, ny}] = t
		}
	}
	return out
}

// Validate checks the "every vertex non-null" invariant.
func (m *Map) Validate() error {
	for i, v := range m.vertices {
		if v == uid.None {
			return fmt.Errorf("terrain: vertex %d is unset", i)
		}
	}
	return nil
}
