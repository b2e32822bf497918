package mission

import (
	"testing"
	"testing/fstest"

	"github.com/cyanskies/hades/data"
	"github.com/cyanskies/hades/uid"
)

const missionYAMLDoc = `
mission:
  players:
    player_one: hero_start
  levels:
    - level_a
    - level_b
`

func TestParseMissionBuildsPlayersAndLevels(t *testing.T) {
	fsys := fstest.MapFS{
		"game/game.yaml": &fstest.MapFile{Data: []byte(missionYAMLDoc)},
	}
	g := data.NewGraph(uid.NewRegistry(), fsys)
	if err := RegisterResourceType(g); err != nil {
		t.Fatalf("RegisterResourceType: %v", err)
	}
	if err := g.LoadGame("game"); err != nil {
		t.Fatalf("LoadGame: %v", err)
	}

	mod, err := g.GetMod(g.Registry().Get("game"))
	if err != nil {
		t.Fatalf("GetMod: %v", err)
	}
	m, err := data.TypedGet[*Mission](g, mod.ID())
	if err != nil {
		t.Fatalf("TypedGet: %v", err)
	}

	if len(m.Levels) != 2 || m.Levels[0] != "level_a" || m.Levels[1] != "level_b" {
		t.Fatalf("unexpected levels: %+v", m.Levels)
	}
	if len(m.Players) != 1 || m.Players[0].Name != "player_one" {
		t.Fatalf("unexpected players: %+v", m.Players)
	}

	rm := m.ToRenderMission()
	if len(rm.Players) != 1 || rm.Players[0].Name != "player_one" {
		t.Fatalf("ToRenderMission players mismatch: %+v", rm.Players)
	}
	if len(rm.Levels) != 2 {
		t.Fatalf("ToRenderMission levels mismatch: %+v", rm.Levels)
	}
}
