// Package console provides the engine's global property store, log sink
// and command registry — the three pieces of state every subsystem can
// reach through a single process-wide access point.
package console

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// Errors returned by the property API. Code that creates/sets properties
// directly is expected to handle these; console-originated `set` commands
// log and ignore them instead (see RegisterSetCommand in config.go).
var (
	ErrProviderUnavailable    = errors.New("console: property provider not available")
	ErrPropertyWrongType      = errors.New("console: property wrong type")
	ErrPropertyNameUsed       = errors.New("console: property name already used")
	ErrPropertyMissing        = errors.New("console: property missing")
	ErrPropertyLocked         = errors.New("console: property is locked")
)

// Kind identifies a property's stored value type.
type Kind uint8

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindString
)

// IntProperty is a shared, atomically-updated int64 cell.
type IntProperty struct {
	v      atomic.Int64
	def    int64
	locked atomic.Bool
}

func newIntProperty(def int64, locked bool) *IntProperty {
	p := &IntProperty{def: def}
	p.v.Store(def)
	p.locked.Store(locked)
	return p
}

// Load returns the current value.
func (p *IntProperty) Load() int64 { return p.v.Load() }

// Store sets the current value, ignoring the lock flag (code-level writes
// always succeed; only command-line `set` consults Locked()).
func (p *IntProperty) Store(v int64) { p.v.Store(v) }

// LoadDefault returns the value the property was created with.
func (p *IntProperty) LoadDefault() int64 { return p.def }

// Lock sets or clears the lock flag.
func (p *IntProperty) Lock(l bool) { p.locked.Store(l) }

// Locked reports the current lock flag.
func (p *IntProperty) Locked() bool { return p.locked.Load() }

// FloatProperty is a shared, atomically-updated float64 cell, stored as
// its IEEE-754 bit pattern so it can use a lock-free atomic.
type FloatProperty struct {
	bits   atomic.Uint64
	def    float64
	locked atomic.Bool
}

func newFloatProperty(def float64, locked bool) *FloatProperty {
	p := &FloatProperty{def: def}
	p.bits.Store(math.Float64bits(def))
	p.locked.Store(locked)
	return p
}

func (p *FloatProperty) Load() float64        { return math.Float64frombits(p.bits.Load()) }
func (p *FloatProperty) Store(v float64)      { p.bits.Store(math.Float64bits(v)) }
func (p *FloatProperty) LoadDefault() float64 { return p.def }
func (p *FloatProperty) Lock(l bool)          { p.locked.Store(l) }
func (p *FloatProperty) Locked() bool         { return p.locked.Load() }

// BoolProperty is a shared, atomically-updated bool cell.
type BoolProperty struct {
	v      atomic.Bool
	def    bool
	locked atomic.Bool
}

func newBoolProperty(def bool, locked bool) *BoolProperty {
	p := &BoolProperty{def: def}
	p.v.Store(def)
	p.locked.Store(locked)
	return p
}

func (p *BoolProperty) Load() bool        { return p.v.Load() }
func (p *BoolProperty) Store(v bool)      { p.v.Store(v) }
func (p *BoolProperty) LoadDefault() bool { return p.def }
func (p *BoolProperty) Lock(l bool)       { p.locked.Store(l) }
func (p *BoolProperty) Locked() bool      { return p.locked.Load() }

// StringProperty is a mutex-guarded, copy-on-read string cell (strings
// aren't trivially atomic, so this is the one value-guarded property type,
// matching the original's value_guard<T> fallback).
type StringProperty struct {
	mu     sync.Mutex
	v      string
	def    string
	locked atomic.Bool
}

func newStringProperty(def string, locked bool) *StringProperty {
	p := &StringProperty{v: def, def: def}
	p.locked.Store(locked)
	return p
}

func (p *StringProperty) Load() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.v
}

func (p *StringProperty) Store(v string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.v = v
}

func (p *StringProperty) LoadDefault() string { return p.def }
func (p *StringProperty) Lock(l bool)         { p.locked.Store(l) }
func (p *StringProperty) Locked() bool        { return p.locked.Load() }

// Properties is the property store: name -> typed, atomic value. A
// property persists for the lifetime of the Properties instance once
// created; concurrent reads/writes are safe from any goroutine.
type Properties struct {
	mu      sync.RWMutex
	kinds   map[string]Kind
	ints    map[string]*IntProperty
	floats  map[string]*FloatProperty
	bools   map[string]*BoolProperty
	strings map[string]*StringProperty
}

// NewProperties constructs an empty property store.
func NewProperties() *Properties {
	return &Properties{
		kinds:   make(map[string]Kind),
		ints:    make(map[string]*IntProperty),
		floats:  make(map[string]*FloatProperty),
		bools:   make(map[string]*BoolProperty),
		strings: make(map[string]*StringProperty),
	}
}

// CreateInt inserts an int property if absent. If one already exists with
// the same kind and value it is a no-op; otherwise ErrPropertyNameUsed.
func (s *Properties) CreateInt(name string, def int64, locked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k, ok := s.kinds[name]; ok {
		if k != KindInt || s.ints[name].LoadDefault() != def {
			return fmt.Errorf("%w: %s", ErrPropertyNameUsed, name)
		}
		return nil
	}
	s.kinds[name] = KindInt
	s.ints[name] = newIntProperty(def, locked)
	return nil
}

// CreateFloat is the float64 counterpart of CreateInt.
func (s *Properties) CreateFloat(name string, def float64, locked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k, ok := s.kinds[name]; ok {
		if k != KindFloat || s.floats[name].LoadDefault() != def {
			return fmt.Errorf("%w: %s", ErrPropertyNameUsed, name)
		}
		return nil
	}
	s.kinds[name] = KindFloat
	s.floats[name] = newFloatProperty(def, locked)
	return nil
}

// CreateBool is the bool counterpart of CreateInt.
func (s *Properties) CreateBool(name string, def bool, locked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k, ok := s.kinds[name]; ok {
		if k != KindBool || s.bools[name].LoadDefault() != def {
			return fmt.Errorf("%w: %s", ErrPropertyNameUsed, name)
		}
		return nil
	}
	s.kinds[name] = KindBool
	s.bools[name] = newBoolProperty(def, locked)
	return nil
}

// CreateString is the string counterpart of CreateInt.
func (s *Properties) CreateString(name string, def string, locked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k, ok := s.kinds[name]; ok {
		if k != KindString || s.strings[name].LoadDefault() != def {
			return fmt.Errorf("%w: %s", ErrPropertyNameUsed, name)
		}
		return nil
	}
	s.kinds[name] = KindString
	s.strings[name] = newStringProperty(def, locked)
	return nil
}

// LockProperty sets the lock flag on an existing property, whatever its
// type. Locked properties reject command-line `set` but still accept
// code-level writes through the returned handle.
func (s *Properties) LockProperty(name string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch s.kinds[name] {
	case KindInt:
		s.ints[name].Lock(true)
	case KindFloat:
		s.floats[name].Lock(true)
	case KindBool:
		s.bools[name].Lock(true)
	case KindString:
		s.strings[name].Lock(true)
	default:
		return fmt.Errorf("%w: %s", ErrPropertyMissing, name)
	}
	return nil
}

// SetInt assigns a value by name. Returns ErrPropertyWrongType if name
// exists with a different kind, ErrPropertyMissing if it doesn't exist yet.
func (s *Properties) SetInt(name string, v int64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k, ok := s.kinds[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPropertyMissing, name)
	}
	if k != KindInt {
		return fmt.Errorf("%w: %s", ErrPropertyWrongType, name)
	}
	s.ints[name].Store(v)
	return nil
}

func (s *Properties) SetFloat(name string, v float64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k, ok := s.kinds[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPropertyMissing, name)
	}
	if k != KindFloat {
		return fmt.Errorf("%w: %s", ErrPropertyWrongType, name)
	}
	s.floats[name].Store(v)
	return nil
}

func (s *Properties) SetBool(name string, v bool) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k, ok := s.kinds[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPropertyMissing, name)
	}
	if k != KindBool {
		return fmt.Errorf("%w: %s", ErrPropertyWrongType, name)
	}
	s.bools[name].Store(v)
	return nil
}

func (s *Properties) SetString(name string, v string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k, ok := s.kinds[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPropertyMissing, name)
	}
	if k != KindString {
		return fmt.Errorf("%w: %s", ErrPropertyWrongType, name)
	}
	s.strings[name].Store(v)
	return nil
}

// SetLockAwareInt is a lock-checking int setter for `set name value`.
// Unlike Set*, it refuses to write a locked property; every refusal
// (missing, wrong type, locked) returns false together with an error
// wrapping the matching Err* value, and a write returns (true, nil).
func (s *Properties) SetLockAwareInt(name string, v int64) (ok bool, err error) {
	s.mu.RLock()
	k, exists := s.kinds[name]
	if !exists {
		s.mu.RUnlock()
		return false, fmt.Errorf("%w: %s", ErrPropertyMissing, name)
	}
	if k != KindInt {
		s.mu.RUnlock()
		return false, fmt.Errorf("%w: %s", ErrPropertyWrongType, name)
	}
	p := s.ints[name]
	s.mu.RUnlock()
	if p.Locked() {
		return false, fmt.Errorf("%w: %s", ErrPropertyLocked, name)
	}
	p.Store(v)
	return true, nil
}

// SetLockAwareFloat is the float64 counterpart of SetLockAwareInt.
func (s *Properties) SetLockAwareFloat(name string, v float64) (ok bool, err error) {
	s.mu.RLock()
	k, exists := s.kinds[name]
	if !exists {
		s.mu.RUnlock()
		return false, fmt.Errorf("%w: %s", ErrPropertyMissing, name)
	}
	if k != KindFloat {
		s.mu.RUnlock()
		return false, fmt.Errorf("%w: %s", ErrPropertyWrongType, name)
	}
	p := s.floats[name]
	s.mu.RUnlock()
	if p.Locked() {
		return false, fmt.Errorf("%w: %s", ErrPropertyLocked, name)
	}
	p.Store(v)
	return true, nil
}

// SetLockAwareBool is the bool counterpart of SetLockAwareInt.
func (s *Properties) SetLockAwareBool(name string, v bool) (ok bool, err error) {
	s.mu.RLock()
	k, exists := s.kinds[name]
	if !exists {
		s.mu.RUnlock()
		return false, fmt.Errorf("%w: %s", ErrPropertyMissing, name)
	}
	if k != KindBool {
		s.mu.RUnlock()
		return false, fmt.Errorf("%w: %s", ErrPropertyWrongType, name)
	}
	p := s.bools[name]
	s.mu.RUnlock()
	if p.Locked() {
		return false, fmt.Errorf("%w: %s", ErrPropertyLocked, name)
	}
	p.Store(v)
	return true, nil
}

// SetLockAwareString is the string counterpart of SetLockAwareInt.
func (s *Properties) SetLockAwareString(name string, v string) (ok bool, err error) {
	s.mu.RLock()
	k, exists := s.kinds[name]
	if !exists {
		s.mu.RUnlock()
		return false, fmt.Errorf("%w: %s", ErrPropertyMissing, name)
	}
	if k != KindString {
		s.mu.RUnlock()
		return false, fmt.Errorf("%w: %s", ErrPropertyWrongType, name)
	}
	p := s.strings[name]
	s.mu.RUnlock()
	if p.Locked() {
		return false, fmt.Errorf("%w: %s", ErrPropertyLocked, name)
	}
	p.Store(v)
	return true, nil
}

// GetInt returns the named int property, throwing ErrProviderUnavailable
// if s is nil and ErrPropertyMissing if the name isn't bound.
func (s *Properties) GetInt(name string) (*IntProperty, error) {
	if s == nil {
		return nil, ErrProviderUnavailable
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.kinds[name] != KindInt {
		if _, ok := s.kinds[name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrPropertyWrongType, name)
		}
		return nil, fmt.Errorf("%w: %s", ErrPropertyMissing, name)
	}
	return s.ints[name], nil
}

// GetIntDefault never fails: if s is nil or name is missing, it returns a
// fresh private cell initialised to def so callers can read/write without
// crashing or needing a provider.
func (s *Properties) GetIntDefault(name string, def int64) *IntProperty {
	if p, err := s.GetInt(name); err == nil {
		return p
	}
	return newIntProperty(def, false)
}

func (s *Properties) GetFloat(name string) (*FloatProperty, error) {
	if s == nil {
		return nil, ErrProviderUnavailable
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.kinds[name] != KindFloat {
		if _, ok := s.kinds[name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrPropertyWrongType, name)
		}
		return nil, fmt.Errorf("%w: %s", ErrPropertyMissing, name)
	}
	return s.floats[name], nil
}

func (s *Properties) GetFloatDefault(name string, def float64) *FloatProperty {
	if p, err := s.GetFloat(name); err == nil {
		return p
	}
	return newFloatProperty(def, false)
}

func (s *Properties) GetBool(name string) (*BoolProperty, error) {
	if s == nil {
		return nil, ErrProviderUnavailable
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.kinds[name] != KindBool {
		if _, ok := s.kinds[name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrPropertyWrongType, name)
		}
		return nil, fmt.Errorf("%w: %s", ErrPropertyMissing, name)
	}
	return s.bools[name], nil
}

func (s *Properties) GetBoolDefault(name string, def bool) *BoolProperty {
	if p, err := s.GetBool(name); err == nil {
		return p
	}
	return newBoolProperty(def, false)
}

func (s *Properties) GetString(name string) (*StringProperty, error) {
	if s == nil {
		return nil, ErrProviderUnavailable
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.kinds[name] != KindString {
		if _, ok := s.kinds[name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrPropertyWrongType, name)
		}
		return nil, fmt.Errorf("%w: %s", ErrPropertyMissing, name)
	}
	return s.strings[name], nil
}

func (s *Properties) GetStringDefault(name string, def string) *StringProperty {
	if p, err := s.GetString(name); err == nil {
		return p
	}
	return newStringProperty(def, false)
}

// --- process-wide provider ---
//
// Most of the engine reaches properties through package-level functions
// rather than threading a *Properties everywhere. SetProvider installs the
// instance those functions resolve against; it's set once during app init
// (see app.Init).

var provider atomic.Pointer[Properties]

// SetProvider installs the process-wide property store. Passing nil makes
// every provider-requiring call fail with ErrProviderUnavailable again,
// and makes the defaulted Get* calls fall back to private cells.
func SetProvider(p *Properties) { provider.Store(p) }

// Provider returns the currently installed property store, or nil.
func Provider() *Properties { return provider.Load() }

// CreateInt is a thin wrapper that proxies to the installed provider
// and fails loudly (ErrProviderUnavailable) if there is none — creation is
// a setup-time operation, so silent failure here would hide a real bug.
func CreateInt(name string, def int64, locked bool) error {
	p := provider.Load()
	if p == nil {
		return ErrProviderUnavailable
	}
	return p.CreateInt(name, def, locked)
}

func CreateFloat(name string, def float64, locked bool) error {
	p := provider.Load()
	if p == nil {
		return ErrProviderUnavailable
	}
	return p.CreateFloat(name, def, locked)
}

func CreateBool(name string, def bool, locked bool) error {
	p := provider.Load()
	if p == nil {
		return ErrProviderUnavailable
	}
	return p.CreateBool(name, def, locked)
}

func CreateString(name string, def string, locked bool) error {
	p := provider.Load()
	if p == nil {
		return ErrProviderUnavailable
	}
	return p.CreateString(name, def, locked)
}

// LockProperty proxies to the installed provider; a missing provider is a
// silent no-op (locking is advisory and nothing to lock exists yet).
func LockProperty(name string) {
	if p := provider.Load(); p != nil {
		_ = p.LockProperty(name)
	}
}

// SetInt proxies to the installed provider. Per §4.B, set* calls never
// panic on a missing provider — they silently no-op instead.
func SetInt(name string, v int64) {
	if p := provider.Load(); p != nil {
		_ = p.SetInt(name, v)
	}
}

func SetFloat(name string, v float64) {
	if p := provider.Load(); p != nil {
		_ = p.SetFloat(name, v)
	}
}

func SetBool(name string, v bool) {
	if p := provider.Load(); p != nil {
		_ = p.SetBool(name, v)
	}
}

func SetString(name string, v string) {
	if p := provider.Load(); p != nil {
		_ = p.SetString(name, v)
	}
}

// GetInt throws ErrProviderUnavailable/ErrPropertyMissing instead of
// defaulting; use GetIntOr when a fallback is acceptable.
func GetInt(name string) (*IntProperty, error) { return provider.Load().GetInt(name) }

// GetIntOr never fails, see Properties.GetIntDefault.
func GetIntOr(name string, def int64) *IntProperty {
	return provider.Load().GetIntDefault(name, def)
}

func GetFloat(name string) (*FloatProperty, error) { return provider.Load().GetFloat(name) }

func GetFloatOr(name string, def float64) *FloatProperty {
	return provider.Load().GetFloatDefault(name, def)
}

func GetBool(name string) (*BoolProperty, error) { return provider.Load().GetBool(name) }

func GetBoolOr(name string, def bool) *BoolProperty {
	return provider.Load().GetBoolDefault(name, def)
}

func GetString(name string) (*StringProperty, error) { return provider.Load().GetString(name) }

func GetStringOr(name string, def string) *StringProperty {
	return provider.Load().GetStringDefault(name, def)
}
