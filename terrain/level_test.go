package terrain

import (
	"testing"
	"testing/fstest"

	"github.com/cyanskies/hades/data"
	"github.com/cyanskies/hades/uid"
)

const levelYAMLDoc = `
level:
  name: test_level
  description: a tiny level
  map_x: 64
  map_y: 64
  width: 1
  height: 1
  background_terrain: t1
  terrainset: overworld
  terrain_vertex: [t1, t2, t2, t1]
`

func newLevelTestGraph(t *testing.T) *data.Graph {
	t.Helper()
	fsys := fstest.MapFS{
		"game/game.yaml": &fstest.MapFile{Data: []byte(levelYAMLDoc)},
	}
	g := data.NewGraph(uid.NewRegistry(), fsys)
	if err := RegisterResourceTypes(g); err != nil {
		t.Fatalf("RegisterResourceTypes: %v", err)
	}
	return g
}

// Scenario S7, via the yaml path: parsing a level with
// terrain_vertex = [t1, t2, t2, t1] (W=H=1) reproduces those vertices and
// their derived corners. The array is row-major (TL, TR, BL, BR) while
// Corners reports TL, TR, BR, BL, so the corners read [t1, t2, t1, t2].
func TestParseLevelScenarioS7(t *testing.T) {
	g := newLevelTestGraph(t)
	if err := g.LoadGame("game"); err != nil {
		t.Fatalf("LoadGame: %v", err)
	}

	reg := g.Registry()
	id := reg.Get("test_level")
	if id == uid.None {
		t.Fatal("level was not registered under its name")
	}
	lvl, err := data.TypedGet[*Level](g, id)
	if err != nil {
		t.Fatalf("TypedGet: %v", err)
	}

	t1, t2 := reg.Get("t1"), reg.Get("t2")
	want := [4]uid.ID{t1, t2, t1, t2}
	if got := lvl.Map.Corners(0, 0); got != want {
		t.Fatalf("corners = %v, want %v", got, want)
	}
	if lvl.Map.Background != t1 {
		t.Fatalf("background = %v, want t1", reg.AsString(lvl.Map.Background))
	}
	if lvl.MapX != 64 || lvl.MapY != 64 {
		t.Fatalf("unexpected map pixel size: %d x %d", lvl.MapX, lvl.MapY)
	}
}

func TestIsValidRejectsVertexCountMismatch(t *testing.T) {
	body := levelBodyYAML{
		TerrainSet:    "overworld",
		Width:         2,
		Height:        2,
		TerrainVertex: []string{"a", "b", "c"}, // (2+1)*(2+1) = 9 expected
	}
	if IsValid(body) {
		t.Fatal("expected IsValid to reject a vertex-count mismatch")
	}
}

func TestIsValidRejectsMissingTerrainSet(t *testing.T) {
	body := levelBodyYAML{
		Width: 1, Height: 1,
		TerrainVertex: []string{"a", "b", "c", "d"},
	}
	if IsValid(body) {
		t.Fatal("expected IsValid to reject a level with no terrainset")
	}
}

func TestSerialiseParseLevelRoundTrip(t *testing.T) {
	g := newLevelTestGraph(t)
	if err := g.LoadGame("game"); err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	reg := g.Registry()
	lvl, err := data.TypedGet[*Level](g, reg.Get("test_level"))
	if err != nil {
		t.Fatalf("TypedGet: %v", err)
	}

	node, err := lvl.Serialise(reg)
	if err != nil {
		t.Fatalf("Serialise: %v", err)
	}

	var roundTripped levelYAML
	if err := node.Decode(&roundTripped); err != nil {
		t.Fatalf("decoding serialised node: %v", err)
	}
	if len(roundTripped.Level.TerrainVertex) != 4 {
		t.Fatalf("unexpected serialised vertex count: %d", len(roundTripped.Level.TerrainVertex))
	}
	for i, name := range roundTripped.Level.TerrainVertex {
		if reg.MakeNamed(name) != lvl.Map.Vertex(i%2, i/2) {
			t.Fatalf("serialised vertex %d = %q does not match original", i, name)
		}
	}
}
