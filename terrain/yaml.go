// Parsers for the yaml-declared terrain resources (§4.G resource
// dispatch, §6 "Level file"). Grounded on console/cvars.go's yaml.v3
// struct-tag pattern and data/graph_test.go's ParserFunc shape; the
// terrain-as-tileset/terrain-as-terrain overlap resolution follows the
// policy SPEC_FULL.md settles on: a transition assignment wins over a
// plain tileset tile at the same (u, v).
package terrain

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cyanskies/hades/console"
	"github.com/cyanskies/hades/data"
	"github.com/cyanskies/hades/uid"
)

// tileYAML is one tile entry as it appears in a terrain/level document.
type tileYAML struct {
	U    int      `yaml:"u"`
	V    int      `yaml:"v"`
	Tags []string `yaml:"tags"`
}

func (t tileYAML) toTile(tileset uid.ID) Tile {
	return Tile{Tileset: tileset, U: t.U, V: t.V, Tags: t.Tags}
}

// terrainYAML is one named entry under the top-level "terrain" key.
type terrainYAML struct {
	Tileset     string                `yaml:"tileset"`
	Tiles       []tileYAML            `yaml:"tiles"`
	Empty       tileYAML              `yaml:"empty"`
	Transitions map[int][]tileYAML    `yaml:"transitions"`
	All         []tileYAML            `yaml:"all"`
}

// ParseTerrain implements data.ParserFunc for the "terrain" top-level key:
// a mapping of terrain name -> terrainYAML. Each entry becomes a new
// *Terrain resource under its name; a later mod's entry of the same name
// replaces an earlier one's rather than extending its transitions.
func ParseTerrain(g *data.Graph, modID uid.ID, node *yaml.Node) error {
	var doc map[string]terrainYAML
	if err := node.Decode(&doc); err != nil {
		return fmt.Errorf("terrain: parsing terrain: %w", err)
	}
	reg := g.Registry()
	for name, def := range doc {
		id := reg.MakeNamed(name)
		tilesetID := reg.MakeNamed(def.Tileset)

		terr := &Terrain{Base: data.Base{IDv: id, ModV: modID, KindV: "terrain"}}
		terr.Empty = def.Empty.toTile(tilesetID)

		seen := make(map[[2]int]TransitionTileType)
		for mask, tiles := range def.Transitions {
			if mask < 1 || mask > 14 {
				return fmt.Errorf("terrain: terrain %q: transition mask %d out of range 1..14", name, mask)
			}
			tt := TransitionTileType(mask)
			for _, ty := range tiles {
				terr.Transitions[tt] = append(terr.Transitions[tt], ty.toTile(tilesetID))
				seen[[2]int{ty.U, ty.V}] = tt
			}
		}
		for _, ty := range def.All {
			terr.Transitions[All] = append(terr.Transitions[All], ty.toTile(tilesetID))
			seen[[2]int{ty.U, ty.V}] = All
		}

		// Open-question resolution (SPEC_FULL "parseTerrain tileset/terrain
		// overlap"): a plain tileset tile that coincides with a transition
		// tile is logged and dropped in favour of the transition.
		for _, ty := range def.Tiles {
			key := [2]int{ty.U, ty.V}
			if _, overlap := seen[key]; overlap {
				console.Logf(console.VerbosityWarning, "terrain",
					"terrain %q: tile (%d,%d) is both a plain tileset tile and a transition tile; keeping the transition assignment",
					name, ty.U, ty.V)
				continue
			}
			terr.Tiles = append(terr.Tiles, ty.toTile(tilesetID))
		}

		g.Put(id, terr)
		g.Enqueue(terr)
	}
	return nil
}

// terrainsetYAML is one named entry under the top-level "terrainset" key.
type terrainsetYAML struct {
	Terrains []string `yaml:"terrains"`
}

// ParseTerrainSet implements data.ParserFunc for the "terrainset" key.
func ParseTerrainSet(g *data.Graph, modID uid.ID, node *yaml.Node) error {
	var doc map[string]terrainsetYAML
	if err := node.Decode(&doc); err != nil {
		return fmt.Errorf("terrain: parsing terrainset: %w", err)
	}
	reg := g.Registry()
	for name, def := range doc {
		id := reg.MakeNamed(name)
		ts := &TerrainSet{Base: data.Base{IDv: id, ModV: modID, KindV: "terrainset"}}
		for _, t := range def.Terrains {
			ts.Terrains = append(ts.Terrains, reg.MakeNamed(t))
		}
		g.Put(id, ts)
		g.Enqueue(ts)
	}
	return nil
}

// RegisterResourceTypes installs the terrain/terrainset/level parsers on
// g. A caller's RegisterFunc (app.RegisterFunc) is expected to call this
// alongside whatever other resource kinds it defines.
func RegisterResourceTypes(g *data.Graph) error {
	if err := g.RegisterResourceType("terrain", ParseTerrain); err != nil {
		return err
	}
	if err := g.RegisterResourceType("terrainset", ParseTerrainSet); err != nil {
		return err
	}
	if err := g.RegisterResourceType("level", ParseLevel); err != nil {
		return err
	}
	return nil
}
