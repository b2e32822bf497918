package terrain

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cyanskies/hades/data"
	"github.com/cyanskies/hades/uid"
)

// Background is a level's fill colour plus its parallax-scrolling
// decoration layers (§6 "Level file").
type Background struct {
	Colour [4]uint8
	Layers []BackgroundLayer
}

// BackgroundLayer is one animated, parallax-scrolled background layer.
type BackgroundLayer struct {
	Texture              string
	ParallaxX, ParallaxY float64
}

// Level is a parsed level document (§6): the map geometry (vertex
// terrain plus the compressed tile-map override layer), scripts, and
// background. Drawing the derived per-cell tiles from Map/TerrainSet is
// the renderer's job (§4.I); Level only carries the authored data.
type Level struct {
	data.Base

	Name, Description                   string
	MapX, MapY                          int // pixels
	PlayerInputScript, AIInputScript    string
	OnLoad                              string
	Background                          Background
	TerrainSet                          uid.ID
	Map                                 *Map
	TileMapLayer                        RawTileMapLayer
}

// RawTileMapLayer is the as-serialised form of a level's literal tile
// override layer: the sorted tileset-range header plus the flat
// compressed ids (§4.I "Tile-id compression"). It is kept compressed
// here rather than eagerly decompressed, since the tilesets a level
// references may not be loaded yet (§4.G deferred loading) — call
// Decompress with a populated Catalog once they are.
type RawTileMapLayer struct {
	Tilesets []TilesetRange
	Tiles    []int32
}

// Decompress resolves this layer's flat ids into concrete Tiles using
// cat, which must already carry every tileset named in Tilesets.
func (l RawTileMapLayer) Decompress(cat *Catalog) ([]Tile, error) {
	return Decompress(cat, l.Tilesets, l.Tiles)
}

type backgroundLayerYAML struct {
	Texture   string  `yaml:"texture"`
	ParallaxX float64 `yaml:"parallax_x"`
	ParallaxY float64 `yaml:"parallax_y"`
}

type backgroundYAML struct {
	Colour []uint8               `yaml:"colour"`
	Layers []backgroundLayerYAML `yaml:"layers"`
}

type tilesetRangeYAML struct {
	Tileset string `yaml:"tileset"`
	StartID int    `yaml:"start_id"`
	Count   int    `yaml:"count"`
}

type tileMapLayerYAML struct {
	Tilesets []tilesetRangeYAML `yaml:"tilesets"`
	Tiles    []int32            `yaml:"tiles"`
}

type levelBodyYAML struct {
	Name              string           `yaml:"name"`
	Description       string           `yaml:"description"`
	MapX              int              `yaml:"map_x"`
	MapY              int              `yaml:"map_y"`
	Width             int              `yaml:"width"`  // tiles, SUPPLEMENTED: spec.md omits an explicit tile-count field
	Height            int              `yaml:"height"` // tiles
	PlayerInputScript string           `yaml:"player_input_script"`
	AIInputScript     string           `yaml:"ai_input_script"`
	OnLoad            string           `yaml:"on_load"`
	Background        backgroundYAML   `yaml:"background"`
	BackgroundTerrain string           `yaml:"background_terrain"` // SUPPLEMENTED: §4.I's "background terrain (configured per level)" needs an explicit field; spec.md's §6 list omits one.
	TerrainSet        string           `yaml:"terrainset"`
	TerrainVertex     []string         `yaml:"terrain_vertex"`
	TileMapLayer      tileMapLayerYAML `yaml:"tile_map_layer"`
}

type levelYAML struct {
	Level levelBodyYAML `yaml:"level"`
}

// IsValid implements §4.I's validation contract: the vertex count must
// match (W+1)(H+1), the emitted tileset ranges must have strictly
// increasing StartIDs (their Counts are not checked for overlap), and a
// terrainset must have been named.
func IsValid(body levelBodyYAML) bool {
	if body.TerrainSet == "" {
		return false
	}
	if len(body.TerrainVertex) != (body.Width+1)*(body.Height+1) {
		return false
	}
	last := -1
	for _, r := range body.TileMapLayer.Tilesets {
		if r.StartID <= last {
			return false
		}
		last = r.StartID
	}
	return true
}

// ParseLevel implements data.ParserFunc for the top-level "level" key.
func ParseLevel(g *data.Graph, modID uid.ID, node *yaml.Node) error {
	var b levelBodyYAML
	if err := node.Decode(&b); err != nil {
		return fmt.Errorf("terrain: parsing level: %w", err)
	}
	if !IsValid(b) {
		return fmt.Errorf("%w: level %q has inconsistent geometry", ErrTerrainLayers, b.Name)
	}

	reg := g.Registry()
	id := reg.MakeNamed(b.Name)
	terrainsetID := reg.MakeNamed(b.TerrainSet)

	m := &Map{
		Width:      b.Width,
		Height:     b.Height,
		TerrainSet: terrainsetID,
		vertices:   make([]uid.ID, len(b.TerrainVertex)),
		overrides:  make(map[[2]int]Tile),
	}
	for i, name := range b.TerrainVertex {
		m.vertices[i] = reg.MakeNamed(name)
	}
	if b.BackgroundTerrain != "" {
		m.Background = reg.MakeNamed(b.BackgroundTerrain)
	} else if len(m.vertices) > 0 {
		m.Background = m.vertices[0]
	}

	lvl := &Level{
		Base:              data.Base{IDv: id, ModV: modID, KindV: "level"},
		Name:              b.Name,
		Description:       b.Description,
		MapX:              b.MapX,
		MapY:              b.MapY,
		PlayerInputScript: b.PlayerInputScript,
		AIInputScript:     b.AIInputScript,
		OnLoad:            b.OnLoad,
		TerrainSet:        terrainsetID,
		Map:               m,
		TileMapLayer: RawTileMapLayer{
			Tiles: b.TileMapLayer.Tiles,
		},
	}
	lvl.Background.Colour = [4]uint8{0, 0, 0, 255}
	copy(lvl.Background.Colour[:], b.Background.Colour)
	for _, l := range b.Background.Layers {
		lvl.Background.Layers = append(lvl.Background.Layers, BackgroundLayer{
			Texture: l.Texture, ParallaxX: l.ParallaxX, ParallaxY: l.ParallaxY,
		})
	}
	for _, r := range b.TileMapLayer.Tilesets {
		lvl.TileMapLayer.Tilesets = append(lvl.TileMapLayer.Tilesets, TilesetRange{
			Tileset: reg.MakeNamed(r.Tileset), StartID: r.StartID, Count: r.Count,
		})
	}

	g.Put(id, lvl)
	g.Enqueue(lvl)
	return nil
}

// Serialise writes a level back out to a yaml node in the same shape
// ParseLevel reads, by name rather than id (§4.G "each resource
// implements serialise"). Kept symmetric with ParseLevel deliberately: a
// round trip through Serialise/ParseLevel must reproduce the same
// TerrainVertex and derived tiles (invariant 5/S7).
func (l *Level) Serialise(reg *uid.Registry) (*yaml.Node, error) {
	vertex := make([]string, len(l.Map.vertices))
	for i, id := range l.Map.vertices {
		vertex[i] = reg.AsString(id)
	}
	ranges := make([]tilesetRangeYAML, len(l.TileMapLayer.Tilesets))
	for i, r := range l.TileMapLayer.Tilesets {
		ranges[i] = tilesetRangeYAML{Tileset: reg.AsString(r.Tileset), StartID: r.StartID, Count: r.Count}
	}
	layers := make([]backgroundLayerYAML, len(l.Background.Layers))
	for i, bl := range l.Background.Layers {
		layers[i] = backgroundLayerYAML{Texture: bl.Texture, ParallaxX: bl.ParallaxX, ParallaxY: bl.ParallaxY}
	}
	body := levelBodyYAML{
		Name:              l.Name,
		Description:       l.Description,
		MapX:              l.MapX,
		MapY:              l.MapY,
		Width:             l.Map.Width,
		Height:            l.Map.Height,
		PlayerInputScript: l.PlayerInputScript,
		AIInputScript:     l.AIInputScript,
		OnLoad:            l.OnLoad,
		Background:        backgroundYAML{Colour: l.Background.Colour[:], Layers: layers},
		BackgroundTerrain: reg.AsString(l.Map.Background),
		TerrainSet:        reg.AsString(l.TerrainSet),
		TerrainVertex:     vertex,
		TileMapLayer:      tileMapLayerYAML{Tilesets: ranges, Tiles: l.TileMapLayer.Tiles},
	}
	var n yaml.Node
	if err := n.Encode(levelYAML{Level: body}); err != nil {
		return nil, err
	}
	return &n, nil
}
