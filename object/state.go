package object

import (
	"errors"
	"sync"

	"github.com/cyanskies/hades/curve"
)

var (
	ErrNameTaken    = errors.New("object: name already assigned")
	ErrNameNotFound = errors.New("object: name not bound to any entity")
)

// Field is one state_field<T>: an owning entity, a variable id, and the
// curve backing it. GameState keeps one slice per value type rather than
// a single heterogeneous colony, matching the closed Value type set used
// throughout curve and object.
type Field[T curve.Value] struct {
	Owner EntityID
	ID    VariableID
	Data  *Curve[T]
}

// GameState is the persistent, save-able half of the engine's entity model
// (§4.J "game_state"): the typed field colonies, the next-entity counter,
// and the name->entity map (itself a step curve over time so a name can be
// reassigned and still answer "who had this name at time t").
type GameState struct {
	mu sync.RWMutex

	nextEntity uint64

	ints    []Field[int64]
	floats  []Field[float64]
	bools   []Field[bool]
	strings []Field[string]
	vecs    []Field[curve.Vec2]

	names map[string]*curve.Step[EntityID]
}

// NewGameState constructs an empty GameState.
func NewGameState() *GameState {
	return &GameState{names: make(map[string]*curve.Step[EntityID])}
}

// NextEntityID allocates the next entity id from the state's monotonic
// counter (separate from the global uid registry: entity ids are reused
// across a game_state's own lifetime only if it's reloaded from a save,
// which replays this counter rather than minting fresh uids).
func (gs *GameState) NextEntityID() EntityID {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.nextEntity++
	return EntityID(gs.nextEntity)
}

// AddField records a newly created variable's curve against its owning
// entity so GetChanges and save/serialise can walk every live variable.
func AddField[T curve.Value](gs *GameState, owner EntityID, id VariableID, c *Curve[T]) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	f := Field[T]{Owner: owner, ID: id, Data: c}
	switch any(*new(T)).(type) {
	case int64:
		gs.ints = append(gs.ints, any(f).(Field[int64]))
	case float64:
		gs.floats = append(gs.floats, any(f).(Field[float64]))
	case bool:
		gs.bools = append(gs.bools, any(f).(Field[bool]))
	case string:
		gs.strings = append(gs.strings, any(f).(Field[string]))
	case curve.Vec2:
		gs.vecs = append(gs.vecs, any(f).(Field[curve.Vec2]))
	}
}

// NameObject binds name to ref at time t. It fails with ErrNameTaken if
// the name currently resolves to a live (non-bad) entity.
func (gs *GameState) NameObject(name string, ref EntityID, t curve.Time) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	c, ok := gs.names[name]
	if !ok {
		c = curve.NewStep(BadEntity)
		gs.names[name] = c
	} else if cur := c.Get(t); cur != BadEntity {
		return ErrNameTaken
	}
	c.Set(t, ref)
	return nil
}

// GetObjectRef resolves name to the entity id bound to it at time t.
func (gs *GameState) GetObjectRef(name string, t curve.Time) (EntityID, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	c, ok := gs.names[name]
	if !ok {
		return BadEntity, ErrNameNotFound
	}
	id := c.Get(t)
	if id == BadEntity {
		return BadEntity, ErrNameNotFound
	}
	return id, nil
}

// UnnameObject clears name's binding at time t (e.g. on entity destroy),
// so the name becomes available again for NameObject.
func (gs *GameState) UnnameObject(name string, t curve.Time) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if c, ok := gs.names[name]; ok {
		c.Set(t, BadEntity)
	}
}

// Export is the flat, per-type keyframe bundle the simulation loop hands
// to a render instance each tick (§4.K "Change export" / §4.L
// "input_updates"). Only sync-flagged fields contribute.
type Export struct {
	Ints    []ExportedField[int64]
	Floats  []ExportedField[float64]
	Bools   []ExportedField[bool]
	Strings []ExportedField[string]
	Vecs    []ExportedField[curve.Vec2]
}

// ExportedField carries one field's new keyframes since the export cursor.
type ExportedField[T curve.Value] struct {
	Entity    EntityID
	Variable  VariableID
	Keyframes []curve.Keyframe[T]
}

func exportSlice[T curve.Value](fields []Field[T], since curve.Time) []ExportedField[T] {
	var out []ExportedField[T]
	for _, f := range fields {
		if !f.Data.Sync {
			continue
		}
		kf := f.Data.KeyframesSince(since)
		if len(kf) == 0 {
			continue
		}
		out = append(out, ExportedField[T]{Entity: f.Owner, Variable: f.ID, Keyframes: kf})
	}
	return out
}

// GetChanges builds the bundle of every sync-flagged variable's keyframes
// with At > since (§8 invariant 9, "export monotonicity": calling
// GetChanges again at the same `since` returns nothing new until more
// keyframes are written past it).
func (gs *GameState) GetChanges(since curve.Time) Export {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return Export{
		Ints:    exportSlice(gs.ints, since),
		Floats:  exportSlice(gs.floats, since),
		Bools:   exportSlice(gs.bools, since),
		Strings: exportSlice(gs.strings, since),
		Vecs:    exportSlice(gs.vecs, since),
	}
}

// NameDelta is one entry of the entity-name table delta included with an
// export: the name's resolved entity as of the export window.
type NameDelta struct {
	Name   string
	Entity EntityID
}

// NameDeltasSince returns every name whose binding curve has a keyframe
// with At > since, reporting each name's most recent such rebinding. A
// name rebound more than once inside the export window must report the
// latest value, not the first one past since.
func (gs *GameState) NameDeltasSince(since curve.Time) []NameDelta {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	var out []NameDelta
	for name, c := range gs.names {
		kfs := c.Keyframes()
		var latest *curve.Keyframe[EntityID]
		for i := range kfs {
			if kfs[i].At > since {
				latest = &kfs[i]
			}
		}
		if latest != nil {
			out = append(out, NameDelta{Name: name, Entity: latest.Value})
		}
	}
	return out
}
