package data

import (
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/cyanskies/hades/console"
	"github.com/cyanskies/hades/uid"
)

// DependencyPolicy selects how AddMod resolves a mod's declared
// dependencies: Strict requires them already loaded, Auto recursively
// loads whatever is missing. Named explicitly (rather than a bare bool,
// as data_manager.hpp's add_mod(name, autoLoad, filename) has it) per
// SPEC_FULL §"Supplemented features".
type DependencyPolicy uint8

const (
	Strict DependencyPolicy = iota
	Auto
)

// ParserFunc parses one top-level yaml key's value node into resources,
// registering them on g via Put/Enqueue. modID identifies the mod the
// key was found in.
type ParserFunc func(g *Graph, modID uid.ID, node *yaml.Node) error

// Graph is the resource graph: registered parsers, the loaded mod stack,
// the shadowed-by-mod-order resource table, and the load queue.
type Graph struct {
	reg  *uid.Registry
	fsys fs.FS

	parsers map[string]ParserFunc

	resources  map[uid.ID][]Resource // shadow stack, latest mod last
	modOrder   []uid.ID
	mods       map[uid.ID]*ModResource
	loadedName map[string]bool // mod's self-identified name -> loaded

	queue []Resource
}

// NewGraph creates an empty resource graph. fsys is the filesystem mods
// and the game are read from (an on-disk directory tree, an archive
// opened as fs.FS, or an fstest.MapFS in tests).
func NewGraph(reg *uid.Registry, fsys fs.FS) *Graph {
	return &Graph{
		reg:        reg,
		fsys:       fsys,
		parsers:    make(map[string]ParserFunc),
		resources:  make(map[uid.ID][]Resource),
		mods:       make(map[uid.ID]*ModResource),
		loadedName: make(map[string]bool),
	}
}

// RegisterResourceType installs a parser for a yaml top-level key. Keys
// "include" and "mod" are reserved by the graph itself.
func (g *Graph) RegisterResourceType(key string, parser ParserFunc) error {
	if key == "include" || key == "mod" {
		return fmt.Errorf("data: %q is a reserved top-level key", key)
	}
	if _, exists := g.parsers[key]; exists {
		return fmt.Errorf("data: resource type %q already registered", key)
	}
	g.parsers[key] = parser
	return nil
}

// Registry returns the id registry this graph mints resource and mod ids
// from, so out-of-package ParserFunc implementations (e.g. terrain's
// level/terrain/terrainset parsers) can intern names the same way.
func (g *Graph) Registry() *uid.Registry {
	return g.reg
}

// LoadGame reads name/game.yaml and installs it as mod 0, the base every
// other mod overlays.
func (g *Graph) LoadGame(name string) error {
	return g.loadMod(name, "game.yaml", Strict)
}

// AddMod loads a mod archive/directory as an overlay on top of whatever
// is already loaded. filename defaults to "mod.yaml".
func (g *Graph) AddMod(name string, policy DependencyPolicy, filename string) error {
	if filename == "" {
		filename = "mod.yaml"
	}
	return g.loadMod(name, filename, policy)
}

// Loaded reports whether a mod with the given self-identified name has
// been loaded (not the archive/directory name, which may differ).
func (g *Graph) Loaded(modName string) bool {
	return g.loadedName[modName]
}

func (g *Graph) loadMod(dir, filename string, policy DependencyPolicy) error {
	modID := g.reg.MakeNamed(dir)
	root, err := g.readYAML(path.Join(dir, filename))
	if err != nil {
		return fmt.Errorf("data: loading %s/%s: %w", dir, filename, err)
	}

	mod := &ModResource{Base: Base{IDv: modID, ModV: modID, KindV: "mod"}, Source: dir, Filename: filename}
	mod.MarkLoaded()
	g.mods[modID] = mod
	g.modOrder = append(g.modOrder, modID)

	visited := map[string]bool{path.Join(dir, filename): true}
	if err := g.parseNode(modID, dir, root, visited); err != nil {
		return err
	}

	g.loadedName[mod.PrettyName] = true
	if err := g.resolveDependencies(mod, policy); err != nil {
		return err
	}
	return nil
}

func (g *Graph) resolveDependencies(mod *ModResource, policy DependencyPolicy) error {
	for _, dep := range mod.Dependencies {
		name := g.reg.AsString(dep)
		if g.loadedName[name] {
			continue
		}
		switch policy {
		case Strict:
			return fmt.Errorf("%w: %q (required by %q)", ErrDependencyMissing, name, mod.PrettyName)
		case Auto:
			if err := g.AddMod(name, Auto, "mod.yaml"); err != nil {
				return fmt.Errorf("data: auto-loading dependency %q: %w", name, err)
			}
		}
	}
	return nil
}

func (g *Graph) readYAML(name string) (*yaml.Node, error) {
	raw, err := fs.ReadFile(g.fsys, name)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return &yaml.Node{Kind: yaml.MappingNode}, nil
	}
	return doc.Content[0], nil
}

// parseNode walks one mod document's top-level keys, dispatching
// "include", "mod", and registered resource keys. visited guards against
// include cycles (§9 DESIGN NOTES): a repeated include is logged and
// skipped rather than re-parsed.
func (g *Graph) parseNode(modID uid.ID, baseDir string, node *yaml.Node, visited map[string]bool) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("data: mod document root is not a mapping")
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]

		switch key {
		case "include":
			var rel string
			if err := val.Decode(&rel); err != nil {
				return fmt.Errorf("data: include: %w", err)
			}
			full := path.Join(baseDir, rel)
			if visited[full] {
				console.Logf(console.VerbosityWarning, "data", "skipping repeated include %q", full)
				continue
			}
			visited[full] = true
			incRoot, err := g.readYAML(full)
			if err != nil {
				return fmt.Errorf("data: include %q: %w", full, err)
			}
			if err := g.parseNode(modID, baseDir, incRoot, visited); err != nil {
				return err
			}
		case "mod":
			if err := g.parseModHeader(modID, val); err != nil {
				return err
			}
		default:
			parser, ok := g.parsers[key]
			if !ok {
				console.Logf(console.VerbosityWarning, "data", "ignoring unknown resource key %q", key)
				continue
			}
			if err := parser(g, modID, val); err != nil {
				return fmt.Errorf("data: parsing %q: %w", key, err)
			}
		}
	}
	return nil
}

func (g *Graph) parseModHeader(modID uid.ID, node *yaml.Node) error {
	var hdr struct {
		Name         string   `yaml:"name"`
		Dependencies []string `yaml:"dependencies"`
	}
	if err := node.Decode(&hdr); err != nil {
		return fmt.Errorf("data: mod header: %w", err)
	}
	mod := g.mods[modID]
	mod.PrettyName = hdr.Name
	for _, dep := range hdr.Dependencies {
		mod.Dependencies = append(mod.Dependencies, g.reg.MakeNamed(dep))
	}
	return nil
}

// GetMod returns the mod header resource for modID.
func (g *Graph) GetMod(modID uid.ID) (*ModResource, error) {
	m, ok := g.mods[modID]
	if !ok {
		return nil, ErrModNotFound
	}
	return m, nil
}

// Put registers or overwrites the resource a mod contributes for id.
// Later mods shadow earlier ones: Get(id) always returns the last entry
// for that id.
func (g *Graph) Put(id uid.ID, r Resource) {
	stack := g.resources[id]
	for i, existing := range stack {
		if existing.Mod() == r.Mod() {
			stack[i] = r
			return
		}
	}
	g.resources[id] = append(stack, r)
}

// Exists reports whether any mod has contributed a resource for id.
func (g *Graph) Exists(id uid.ID) bool {
	return len(g.resources[id]) > 0
}

// GetNoLoad returns the top-of-stack resource for id without triggering a
// load, for editor/inspection use.
func (g *Graph) GetNoLoad(id uid.ID) (Resource, error) {
	stack := g.resources[id]
	if len(stack) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrResourceNull, g.reg.AsString(id))
	}
	return stack[len(stack)-1], nil
}

// Get returns the top-of-stack resource for id, loading it first if it
// isn't loaded yet.
func (g *Graph) Get(id uid.ID) (Resource, error) {
	r, err := g.GetNoLoad(id)
	if err != nil {
		return nil, err
	}
	if !r.Loaded() {
		if err := g.loadOne(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// TypedGet is the generic on-demand lookup: Get plus a type assertion to
// the caller's concrete resource type (methods can't add type parameters
// in Go, so this is a free function rather than a Graph method).
func TypedGet[T Resource](g *Graph, id uid.ID) (T, error) {
	var zero T
	r, err := g.Get(id)
	if err != nil {
		return zero, err
	}
	t, ok := r.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrResourceWrongType, g.reg.AsString(id))
	}
	return t, nil
}

// Enqueue adds r to the load queue unless it's already queued.
func (g *Graph) Enqueue(r Resource) {
	if qt, ok := r.(queueTracker); ok {
		if qt.queued() {
			return
		}
		qt.setQueued(true)
	}
	g.queue = append(g.queue, r)
}

func (g *Graph) loadOne(r Resource) error {
	if qt, ok := r.(queueTracker); ok {
		qt.setQueued(false)
	}
	if err := r.Load(g); err != nil {
		console.Logf(console.VerbosityError, "data", "loading %s: %v", g.reg.AsString(r.ID()), err)
		return err
	}
	return nil
}

// Load drains the entire load queue, logging (and continuing past) any
// per-resource failure rather than aborting the whole batch.
func (g *Graph) Load() {
	for len(g.queue) > 0 {
		r := g.queue[0]
		g.queue = g.queue[1:]
		_ = g.loadOne(r)
	}
}

// LoadCount drains up to count entries from the queue and returns how
// many were actually processed.
func (g *Graph) LoadCount(count int) int {
	n := 0
	for n < count && len(g.queue) > 0 {
		r := g.queue[0]
		g.queue = g.queue[1:]
		_ = g.loadOne(r)
		n++
	}
	return n
}

// LoadID loads a specific resource immediately, regardless of queue
// position (it's still removed from the queue if present).
func (g *Graph) LoadID(id uid.ID) error {
	r, err := g.GetNoLoad(id)
	if err != nil {
		return err
	}
	for i, q := range g.queue {
		if q == r {
			g.queue = append(g.queue[:i], g.queue[i+1:]...)
			break
		}
	}
	return g.loadOne(r)
}

// Refresh enqueues every known resource for reload.
func (g *Graph) Refresh() {
	for _, stack := range g.resources {
		for _, r := range stack {
			g.Enqueue(r)
		}
	}
}

// RefreshID enqueues a single resource for reload.
func (g *Graph) RefreshID(id uid.ID) error {
	r, err := g.GetNoLoad(id)
	if err != nil {
		return err
	}
	g.Enqueue(r)
	return nil
}

// Reparse re-reads the whole mod stack from scratch, in original load
// order, discarding all previously parsed resources.
func (g *Graph) Reparse() error {
	order := g.modOrder
	oldMods := g.mods

	g.resources = make(map[uid.ID][]Resource)
	g.queue = nil
	g.modOrder = nil
	g.loadedName = make(map[string]bool)
	g.mods = make(map[uid.ID]*ModResource)

	for _, id := range order {
		old, ok := oldMods[id]
		if !ok {
			continue
		}
		if err := g.loadMod(old.Source, old.Filename, Strict); err != nil {
			return err
		}
	}
	return nil
}
