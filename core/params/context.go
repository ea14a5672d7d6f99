package params

import (
	"strings"
)

// Context is the caller-supplied tree of named input values.
// It is read-only for the duration of one calculation pass; missing paths
// resolve to absent rather than erroring.
type Context struct {
	root Value
}

// NewContext builds a context from decoded input data
func NewContext(data map[string]interface{}) *Context {
	converted := make(map[string]Value, len(data))
	for k, v := range data {
		converted[k] = FromGo(v)
	}
	return &Context{root: Map(converted)}
}

// NewContextFromValue builds a context from an already-converted map value
func NewContextFromValue(root Value) *Context {
	if root.Kind() != KindMap {
		root = Map(map[string]Value{})
	}
	return &Context{root: root}
}

// Resolve walks a dotted path (e.g. "modules.check_recognition.scan_volume").
// The second return is false when the path is absent or traverses a non-map.
// Null leaves count as absent, matching the fail-closed condition semantics.
func (c *Context) Resolve(path string) (Value, bool) {
	if c == nil || path == "" {
		return Null(), false
	}

	current := c.root
	for _, key := range strings.Split(path, ".") {
		m, ok := current.AsMap()
		if !ok {
			return Null(), false
		}
		next, ok := m[key]
		if !ok {
			return Null(), false
		}
		current = next
	}

	if current.IsNull() {
		return Null(), false
	}
	return current, true
}

// Root returns the underlying value tree
func (c *Context) Root() Value {
	return c.root
}
