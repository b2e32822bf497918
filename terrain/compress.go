package terrain

import (
	"fmt"
	"sort"

	"github.com/cyanskies/hades/uid"
)

// Catalog gives each tileset a stable, ordered tile list so a Tile can be
// serialised as a flat index rather than a (tileset, u, v) triple.
// Grounded on other_examples' phanxgames-willow tilemap GID-flag-bit
// compaction: tiles are numbered contiguously per tileset and the map
// header records where each tileset's range starts.
type Catalog struct {
	order []uid.ID
	tiles map[uid.ID][]Tile
}

// NewCatalog creates an empty tile catalog.
func NewCatalog() *Catalog {
	return &Catalog{tiles: make(map[uid.ID][]Tile)}
}

// Register sets a tileset's ordered tile list, replacing any earlier list
// for it. Id ranges are assigned by Compress's tilesetOrder argument, not
// by registration order.
func (c *Catalog) Register(tileset uid.ID, tiles []Tile) {
	if _, exists := c.tiles[tileset]; !exists {
		c.order = append(c.order, tileset)
	}
	c.tiles[tileset] = tiles
}

// Count returns how many tiles a tileset contributes.
func (c *Catalog) Count(tileset uid.ID) int {
	return len(c.tiles[tileset])
}

// IndexOf finds a tile's position within its owning tileset's list.
func (c *Catalog) IndexOf(tileset uid.ID, t Tile) (int, bool) {
	for i, candidate := range c.tiles[tileset] {
		if candidate.U == t.U && candidate.V == t.V {
			return i, true
		}
	}
	return 0, false
}

// TileAt resolves a (tileset, local index) pair back to a Tile.
func (c *Catalog) TileAt(tileset uid.ID, local int) (Tile, bool) {
	list := c.tiles[tileset]
	if local < 0 || local >= len(list) {
		return Tile{}, false
	}
	return list[local], true
}

// TilesetRange is one entry of a compressed tile map's header: the
// tileset and the first flat id it owns. Ranges are stored sorted by
// StartID so decoding is a binary search.
type TilesetRange struct {
	Tileset uid.ID
	StartID int
	Count   int
}

// Compress assigns each tileset in tilesetOrder a contiguous id range
// (in that order, running totals) and rewrites grid (row-major Tile
// values) as flat ids into those ranges.
func Compress(cat *Catalog, tilesetOrder []uid.ID, grid []Tile) ([]TilesetRange, []int32, error) {
	ranges := make([]TilesetRange, 0, len(tilesetOrder))
	start := make(map[uid.ID]int, len(tilesetOrder))
	running := 0
	for _, ts := range tilesetOrder {
		count := cat.Count(ts)
		start[ts] = running
		ranges = append(ranges, TilesetRange{Tileset: ts, StartID: running, Count: count})
		running += count
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].StartID < ranges[j].StartID })

	flat := make([]int32, len(grid))
	for i, t := range grid {
		idx, ok := cat.IndexOf(t.Tileset, t)
		if !ok {
			return nil, nil, fmt.Errorf("terrain: tile (%d,%d) not found in its tileset's catalog", t.U, t.V)
		}
		flat[i] = int32(start[t.Tileset] + idx)
	}
	return ranges, flat, nil
}

// Decompress reverses Compress: each flat id is mapped to its owning
// tileset range via binary search on StartID, then resolved through the
// catalog back to a concrete Tile.
func Decompress(cat *Catalog, ranges []TilesetRange, flat []int32) ([]Tile, error) {
	grid := make([]Tile, len(flat))
	for i, id := range flat {
		j := sort.Search(len(ranges), func(k int) bool { return ranges[k].StartID > int(id) }) - 1
		if j < 0 {
			return nil, fmt.Errorf("terrain: flat id %d has no owning tileset range", id)
		}
		r := ranges[j]
		local := int(id) - r.StartID
		t, ok := cat.TileAt(r.Tileset, local)
		if !ok {
			return nil, fmt.Errorf("terrain: local index %d out of range for tileset", local)
		}
		grid[i] = t
	}
	return grid, nil
}
