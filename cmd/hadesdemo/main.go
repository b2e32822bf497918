// Command hadesdemo is the concrete window/draw/input binding the core
// packages (app, sim, render, terrain, mission, ...) are deliberately
// agnostic of. It loads a game through the resource graph, runs one
// level's worth of entities through the fixed-dt simulation loop, and
// draws the render mirror's output with raylib. Grounded on main.go's
// flag-driven setup and InitWindow/SetTargetFPS/WindowShouldClose loop
// shape, and cmd/potentialpreview/main.go's raygui panel pattern.
package main

import (
	"archive/zip"
	"embed"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/cyanskies/hades/app"
	"github.com/cyanskies/hades/archive"
	"github.com/cyanskies/hades/console"
	"github.com/cyanskies/hades/curve"
	"github.com/cyanskies/hades/data"
	"github.com/cyanskies/hades/input"
	"github.com/cyanskies/hades/mission"
	"github.com/cyanskies/hades/object"
	"github.com/cyanskies/hades/pool"
	"github.com/cyanskies/hades/sim"
	"github.com/cyanskies/hades/telemetry"
	"github.com/cyanskies/hades/terrain"
	"github.com/cyanskies/hades/timer"
	"github.com/cyanskies/hades/uid"
)

//go:embed assets/game
var embeddedAssets embed.FS

var (
	gameDir      = flag.String("gamedir", "", "directory holding game.yaml (defaults to the embedded demo game)")
	archivePath  = flag.String("archive", "", "zip archive holding game.yaml; takes priority over -gamedir")
	headless     = flag.Bool("headless", false, "run the simulation without opening a window (for smoke-testing)")
	maxTicks     = flag.Int("maxticks", 0, "stop after N simulation ticks, 0 = unbounded (only useful with -headless)")
	telemetryDir = flag.String("telemetry", "", "directory to write perf.csv to, disabled if empty")
	configPath   = flag.String("config", "", "property file of \"set name value\" lines run as boot commands, disabled if empty")
)

// runBootCommands peels -compress/-uncompress off argv and runs them
// directly against the archive package (§6 "Command line"), reporting
// whether either ran. Grounded on main.cpp's boot-command handling,
// which exits immediately after running one rather than proceeding to
// normal app startup.
func runBootCommands(argv []string) (ran bool) {
	cmds := console.ParseArgs(argv)
	cmds = console.HandleCommand(cmds, "compress", func(args []string) bool {
		if len(args) < 1 {
			log.Print("hadesdemo: -compress requires a directory argument")
			return false
		}
		ran = true
		path, err := archive.CompressDirectory(args[0])
		if err != nil {
			log.Fatalf("hadesdemo: compress: %v", err)
		}
		log.Printf("hadesdemo: wrote %s", path)
		return true
	})
	console.HandleCommand(cmds, "uncompress", func(args []string) bool {
		if len(args) < 1 {
			log.Print("hadesdemo: -uncompress requires an archive argument")
			return false
		}
		ran = true
		dir, err := archive.UncompressArchive(args[0])
		if err != nil {
			log.Fatalf("hadesdemo: uncompress: %v", err)
		}
		log.Printf("hadesdemo: extracted to %s", dir)
		return true
	})
	return ran
}

func resolveGameFS() (fs.FS, func(), error) {
	switch {
	case *archivePath != "":
		zr, err := zip.OpenReader(*archivePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening archive %q: %w", *archivePath, err)
		}
		return zr, func() { zr.Close() }, nil
	case *gameDir != "":
		return os.DirFS(*gameDir), func() {}, nil
	default:
		sub, err := fs.Sub(embeddedAssets, "assets")
		if err != nil {
			return nil, nil, fmt.Errorf("opening embedded demo assets: %w", err)
		}
		return sub, func() {}, nil
	}
}

func main() {
	if runBootCommands(os.Args[1:]) {
		return
	}
	flag.Parse()

	fsys, closeFS, err := resolveGameFS()
	if err != nil {
		log.Fatal(err)
	}
	defer closeFS()

	reg := uid.NewRegistry()
	graph := data.NewGraph(reg, fsys)
	inputSys := input.NewSystem(reg)
	commands := console.NewCommands()

	a := app.New(graph, commands, inputSys, curve.Time(16*time.Millisecond), curve.Time(250*time.Millisecond))
	register := func(g *data.Graph) error {
		if err := terrain.RegisterResourceTypes(g); err != nil {
			return err
		}
		return mission.RegisterResourceType(g)
	}
	if err := a.Init(register); err != nil {
		log.Fatalf("hadesdemo: init: %v", err)
	}
	graph.Load()

	cvars, err := console.LoadDefaultCvars()
	if err != nil {
		log.Fatalf("hadesdemo: loading default cvars: %v", err)
	}
	if err := console.RegisterDefaultCvars(a.Props, cvars); err != nil {
		log.Fatalf("hadesdemo: registering cvars: %v", err)
	}
	if tickRate := console.GetFloatOr("c_tickrate", 60).Load(); tickRate > 0 {
		a.TickTarget = curve.Time(float64(time.Second) / tickRate)
	}
	if maxFrame := console.GetFloatOr("c_maxframetime", 0.25).Load(); maxFrame > 0 {
		a.MaxTick = curve.Time(maxFrame * float64(time.Second))
	}
	threads := int(console.GetIntOr("s_threads", -1).Load())
	if threads < 0 {
		threads = 0 // pool.New treats <=0 as runtime.GOMAXPROCS(0), matching s_threads' "-1 means auto"
	}

	if err := console.RegisterSetCommand(commands, a.Props); err != nil {
		log.Fatalf("hadesdemo: registering set command: %v", err)
	}
	var boot []console.Command
	if *configPath != "" {
		boot, err = console.LoadConfigFile(*configPath)
		if err != nil {
			log.Fatalf("hadesdemo: loading config %q: %v", *configPath, err)
		}
	}

	p := pool.New(threads)
	defer p.Shutdown()

	modID := reg.Get("game")
	mod, err := graph.GetMod(modID)
	if err != nil {
		log.Fatalf("hadesdemo: resolving loaded mod: %v", err)
	}
	gameMission, err := data.TypedGet[*mission.Mission](graph, mod.ID())
	if err != nil {
		log.Fatalf("hadesdemo: loading mission: %v", err)
	}
	if len(gameMission.Levels) == 0 {
		log.Fatal("hadesdemo: mission has no levels")
	}
	levelID := reg.Get(gameMission.Levels[0])
	level, err := data.TypedGet[*terrain.Level](graph, levelID)
	if err != nil {
		log.Fatalf("hadesdemo: loading level %q: %v", gameMission.Levels[0], err)
	}
	terrainSet, err := data.TypedGet[*terrain.TerrainSet](graph, level.TerrainSet)
	if err != nil {
		log.Fatalf("hadesdemo: loading terrainset: %v", err)
	}

	state := object.NewGameState()
	extra := object.NewExtraState()
	simulation := sim.New(state, extra, p, a.TickTarget)
	wheel := timer.New()

	var out *telemetry.Output
	if *telemetryDir != "" {
		out, err = telemetry.NewOutput(*telemetryDir)
		if err != nil {
			log.Fatalf("hadesdemo: opening telemetry output: %v", err)
		}
	}

	demo := newDemoState(a, simulation, reg, level, terrainSet, gameMission, wheel, out)
	demo.headless = *headless
	mainFn := func(a *app.App, in *input.System, commands *console.Commands) error {
		demo.bindInput(in)
		commands.AddFunction("quit", func(args []string) bool {
			demo.alive = false
			return true
		}, true, false)
		a.Push(demo)
		return nil
	}
	if err := a.PostInit(boot, mainFn); err != nil {
		log.Fatalf("hadesdemo: post_init: %v", err)
	}

	if !*headless {
		rl.InitWindow(int32(level.MapX), int32(level.MapY), "hades demo")
		defer rl.CloseWindow()
		rl.SetTargetFPS(60)

		a.EventPump = func() []app.Event {
			if rl.WindowShouldClose() {
				return []app.Event{"quit"}
			}
			return nil
		}
		a.Present = rl.EndDrawing
	}

	if *maxTicks > 0 {
		demo.tickBudget = *maxTicks
	}

	a.Run()
	a.CleanUp()
	if out != nil {
		out.Close()
	}
}
