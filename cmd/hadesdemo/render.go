package main

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/cyanskies/hades/terrain"
	"github.com/cyanskies/hades/uid"
)

// colorForID derives a stable, arbitrary-looking colour from a resource
// id, the way main.go derives organism colours from mutable float
// parameters rather than an art asset: there is no texture atlas here,
// just enough of a visual signal to tell terrains and entities apart.
func colorForID(id uid.ID) rl.Color {
	v := uint32(id)
	return rl.Color{
		R: uint8((v * 2654435761) >> 24),
		G: uint8((v * 2246822519) >> 16),
		B: uint8((v * 3266489917) >> 8),
		A: 255,
	}
}

func togglePauseLabel(paused bool) string {
	if paused {
		return "Resume"
	}
	return "Pause"
}

// drawScene paints the level's derived terrain layers, every entity the
// mirror currently knows a position for, and a small raygui debug panel.
// Must run between rl.BeginDrawing and the app's Present hook
// (rl.EndDrawing).
func drawScene(d *demoState) {
	bg := d.level.Background.Colour
	rl.ClearBackground(rl.Color{R: bg[0], G: bg[1], B: bg[2], A: bg[3]})

	m := d.level.Map
	tileW := float32(d.level.MapX) / float32(m.Width)
	tileH := float32(d.level.MapY) / float32(m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			corners := m.Corners(x, y)
			col := colorForID(m.Background)
			if layers := terrain.CellLayers(d.terrainSet, m.Background, corners); len(layers) > 0 {
				col = colorForID(layers[len(layers)-1].Terrain)
			}
			rl.DrawRectangle(int32(float32(x)*tileW), int32(float32(y)*tileH), int32(tileW)+1, int32(tileH)+1, col)
		}
	}

	for _, f := range d.frames {
		pos, ok := f.Vecs[d.posVar]
		if !ok {
			continue
		}
		rl.DrawCircle(int32(pos.X), int32(pos.Y), 10, colorForID(f.Entity))
	}

	rl.DrawText(fmt.Sprintf("hades demo  tick=%v entities=%d pool_queue=%d",
		d.sim.Now(), d.mirror.EntityCount(), d.sim.Pool.QueueDepth()), 10, 10, 18, rl.White)
	rl.DrawText("WASD move, close the window to quit", 10, int32(d.level.MapY)-26, 14, rl.LightGray)

	if gui.Button(rl.Rectangle{X: float32(d.level.MapX) - 110, Y: 10, Width: 100, Height: 26}, togglePauseLabel(d.paused)) {
		if d.paused {
			d.Resume()
		} else {
			d.Pause()
		}
	}
}
