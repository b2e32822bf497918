// Package mission implements the "Mission file" resource (§6): a named
// list of players bound to a starting object id, and the ordered levels
// that make up a play session. Grounded on terrain/level.go's yaml.v3
// parser shape and data/graph_test.go's ParserFunc contract; the
// player-object-id binding mirrors object.GameState's name->entity map
// (§4.J) rather than inventing a separate player model.
package mission

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cyanskies/hades/data"
	"github.com/cyanskies/hades/render"
	"github.com/cyanskies/hades/uid"
)

// Player is one players-map entry: a display name bound to the object
// id a fresh game_state should assign that player's starting object.
type Player struct {
	Name   string
	Object uid.ID
}

// Mission is a parsed mission document: its players and the ordered
// levels (by name) that make up the session.
type Mission struct {
	data.Base

	Players []Player
	Levels  []string
}

// ToRenderMission converts to the render package's plain-data Mission,
// which MakeFrameAt accepts (§4.L); render has no parser of its own so
// this is the seam between the two.
func (m *Mission) ToRenderMission() render.Mission {
	rm := render.Mission{Levels: append([]string(nil), m.Levels...)}
	for _, p := range m.Players {
		rm.Players = append(rm.Players, render.PlayerBinding{Name: p.Name, Entity: p.Object})
	}
	return rm
}

type missionBodyYAML struct {
	Players map[string]string `yaml:"players"` // name -> object uid name
	Levels  []string          `yaml:"levels"`
}

type missionYAML struct {
	Mission missionBodyYAML `yaml:"mission"`
}

// Parse implements data.ParserFunc for the top-level "mission" key.
func Parse(g *data.Graph, modID uid.ID, node *yaml.Node) error {
	var body missionBodyYAML
	if err := node.Decode(&body); err != nil {
		return fmt.Errorf("mission: parsing mission: %w", err)
	}
	if len(body.Levels) == 0 {
		return fmt.Errorf("mission: mission has no levels")
	}

	reg := g.Registry()
	// A mission document has no declared name of its own in spec.md's §6
	// description, so it's keyed by its mod id instead (one mission per
	// mod, matching the "game.yaml declares one mission" convention
	// object.hpp callers use).
	id := modID

	m := &Mission{
		Base:   data.Base{IDv: id, ModV: modID, KindV: "mission"},
		Levels: body.Levels,
	}
	for name, objName := range body.Players {
		m.Players = append(m.Players, Player{Name: name, Object: reg.MakeNamed(objName)})
	}

	g.Put(id, m)
	g.Enqueue(m)
	return nil
}

// RegisterResourceType installs the mission parser on g.
func RegisterResourceType(g *data.Graph) error {
	return g.RegisterResourceType("mission", Parse)
}
