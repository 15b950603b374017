// Package state implements the named-state registry carried by every
// classifier, combiner and feature selection.
//
// A state is a named slot that may hold a value computed during training or
// prediction. Each slot is either enabled or disabled. Values written to a
// disabled slot are dropped, so expensive intermediate results are only kept
// when a caller asked for them.
package state

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

// Cloner is implemented by state values that know how to deep copy
// themselves. CopyFrom uses it when asked for a deep copy.
type Cloner interface {
	CloneState() any
}

type slot struct {
	enabled  bool
	doc      string
	value    any
	hasValue bool
}

// Collection is a registry of named states. It is safe for concurrent use.
type Collection struct {
	mu    sync.RWMutex
	slots map[string]*slot
	order []string

	// names enabled by EnableTemporarily together with their prior status
	temporary map[string]bool
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{slots: make(map[string]*slot)}
}

// Register adds a new state slot.
func (c *Collection) Register(name string, enabled bool, doc string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.slots[name]; ok {
		return errors.NewDuplicateStateError(name)
	}
	c.slots[name] = &slot{enabled: enabled, doc: doc}
	c.order = append(c.order, name)
	return nil
}

// Reregister overrides the enablement and documentation of a state,
// registering it if it does not exist yet. An existing value is kept.
func (c *Collection) Reregister(name string, enabled bool, doc string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.slots[name]; ok {
		s.enabled = enabled
		s.doc = doc
		return
	}
	c.slots[name] = &slot{enabled: enabled, doc: doc}
	c.order = append(c.order, name)
}

// MustRegister is like Register but panics on duplicates. It is meant for
// constructors registering a fixed set of names.
func (c *Collection) MustRegister(name string, enabled bool, doc string) {
	if err := c.Register(name, enabled, doc); err != nil {
		panic(err)
	}
}

func (c *Collection) lookup(name string) (*slot, error) {
	s, ok := c.slots[name]
	if !ok {
		return nil, errors.NewUnknownStateError(name)
	}
	return s, nil
}

// Has reports whether name is registered.
func (c *Collection) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.slots[name]
	return ok
}

// IsEnabled reports whether the state is enabled.
func (c *Collection) IsEnabled(name string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, err := c.lookup(name)
	if err != nil {
		return false, err
	}
	return s.enabled, nil
}

// Enabled is IsEnabled for callers that treat unknown names as disabled.
func (c *Collection) Enabled(name string) bool {
	on, err := c.IsEnabled(name)
	return err == nil && on
}

// HasValue reports whether a value was stored for name.
func (c *Collection) HasValue(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.slots[name]
	return ok && s.hasValue
}

// Set stores value under name. Writes to a disabled state are dropped.
func (c *Collection) Set(name string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.lookup(name)
	if err != nil {
		return err
	}
	if !s.enabled {
		return nil
	}
	s.value = value
	s.hasValue = true
	return nil
}

// Get returns the value stored under name.
func (c *Collection) Get(name string) (any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	if !s.enabled {
		return nil, errors.NewDisabledStateError(name)
	}
	if !s.hasValue {
		return nil, errors.NewNoValueSetError(name)
	}
	return s.value, nil
}

// Doc returns the documentation string of a state.
func (c *Collection) Doc(name string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, err := c.lookup(name)
	if err != nil {
		return "", err
	}
	return s.doc, nil
}

func (c *Collection) setEnabled(on bool, names []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range names {
		if _, err := c.lookup(name); err != nil {
			return err
		}
	}
	for _, name := range names {
		c.slots[name].enabled = on
	}
	return nil
}

// Enable enables the named states. No state is changed if any name is unknown.
func (c *Collection) Enable(names ...string) error {
	return c.setEnabled(true, names)
}

// Disable disables the named states. Stored values are kept but become
// unreadable until the state is enabled again.
func (c *Collection) Disable(names ...string) error {
	return c.setEnabled(false, names)
}

// EnableTemporarily enables the named states and remembers their previous
// status until ResetEnabledTemporarily. Scopes do not nest.
func (c *Collection) EnableTemporarily(names ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.temporary != nil {
		return errors.NewTemporaryStateError("a temporary enable scope is already active")
	}
	for _, name := range names {
		if _, err := c.lookup(name); err != nil {
			return err
		}
	}
	c.temporary = make(map[string]bool, len(names))
	for _, name := range names {
		if _, seen := c.temporary[name]; seen {
			continue
		}
		c.temporary[name] = c.slots[name].enabled
		c.slots[name].enabled = true
	}
	return nil
}

// ResetEnabledTemporarily restores the enablement recorded by the last
// EnableTemporarily call.
func (c *Collection) ResetEnabledTemporarily() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.temporary == nil {
		return errors.NewTemporaryStateError("no temporary enable scope is active")
	}
	for name, was := range c.temporary {
		if s, ok := c.slots[name]; ok {
			s.enabled = was
		}
	}
	c.temporary = nil
	return nil
}

// Names returns all registered names in registration order.
func (c *Collection) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// EnabledNames returns the enabled names in registration order.
func (c *Collection) EnabledNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for _, name := range c.order {
		if c.slots[name].enabled {
			out = append(out, name)
		}
	}
	return out
}

// Reset clears every stored value. Enablement is untouched.
func (c *Collection) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.slots {
		s.value = nil
		s.hasValue = false
	}
}

// CopyFrom copies enablement and values from src for every name registered
// in both collections. With deep, values are duplicated so that later
// mutation of src does not leak into c.
func (c *Collection) CopyFrom(src *Collection, deep bool) {
	if src == nil || src == c {
		return
	}
	type entry struct {
		name string
		s    slot
	}
	src.mu.RLock()
	entries := make([]entry, 0, len(src.order))
	for _, name := range src.order {
		entries = append(entries, entry{name: name, s: *src.slots[name]})
	}
	src.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range entries {
		dst, ok := c.slots[e.name]
		if !ok {
			continue
		}
		dst.enabled = e.s.enabled
		dst.hasValue = e.s.hasValue
		if deep {
			dst.value = DeepCopy(e.s.value)
		} else {
			dst.value = e.s.value
		}
	}
}

// Clone returns a collection with the same registrations and enablement and
// deep copies of the stored values. An active temporary scope is not cloned.
func (c *Collection) Clone() *Collection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := &Collection{
		slots: make(map[string]*slot, len(c.slots)),
		order: append([]string(nil), c.order...),
	}
	for name, s := range c.slots {
		cp := *s
		cp.value = DeepCopy(s.value)
		out.slots[name] = &cp
	}
	return out
}

// String summarises the collection, marking enabled states with '+'.
func (c *Collection) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := append([]string(nil), c.order...)
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		s := c.slots[name]
		mark := ""
		if s.enabled {
			mark = "+"
		}
		if s.hasValue {
			mark += "*"
		}
		parts[i] = name + mark
	}
	return fmt.Sprintf("%d states: %s", len(names), strings.Join(parts, " "))
}

// DeepCopy duplicates v when it is a Cloner, a gonum matrix or vector, or a
// slice or map of the element types used by classifiers. Other values are
// returned as-is.
func DeepCopy(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case Cloner:
		return x.CloneState()
	case *mat.Dense:
		if x == nil {
			return x
		}
		return mat.DenseCopyOf(x)
	case *mat.VecDense:
		if x == nil {
			return x
		}
		return mat.VecDenseCopyOf(x)
	case []float64:
		return append([]float64(nil), x...)
	case []int:
		return append([]int(nil), x...)
	case []bool:
		return append([]bool(nil), x...)
	case []string:
		return append([]string(nil), x...)
	case [][]float64:
		out := make([][]float64, len(x))
		for i, row := range x {
			out[i] = append([]float64(nil), row...)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = DeepCopy(e)
		}
		return out
	case map[float64]int:
		out := make(map[float64]int, len(x))
		for k, val := range x {
			out[k] = val
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = DeepCopy(val)
		}
		return out
	default:
		return v
	}
}
