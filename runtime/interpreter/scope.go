package interpreter

import (
	"maps"

	"github.com/KevinPriv/canvas-lang/core/ast"
)

// Scope maps variable names to integers. A later assignment overwrites.
type Scope struct {
	vars map[string]int
}

// NewScope creates an empty scope
func NewScope() *Scope {
	return &Scope{vars: make(map[string]int)}
}

// Get looks up name in this scope only. Scopes do not chain.
func (s *Scope) Get(name string) (int, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Set binds name to v
func (s *Scope) Set(name string, v int) {
	s.vars[name] = v
}

// Len returns the number of bindings
func (s *Scope) Len() int {
	return len(s.vars)
}

// Snapshot returns a copy of the bindings
func (s *Scope) Snapshot() map[string]int {
	return maps.Clone(s.vars)
}

// method is one user-defined method
type method struct {
	name   string
	params []*ast.Identifier
	body   *ast.Block
}

// methodTable holds methods in definition order
type methodTable struct {
	methods []method
}

// define registers def. Redefining the same name with the same arity
// replaces the earlier body in place, keeping its resolution priority.
func (t *methodTable) define(def *ast.MethodDef) {
	m := method{name: def.Name, params: def.Params, body: def.Body}
	for i, existing := range t.methods {
		if existing.name == def.Name && len(existing.params) == len(def.Params) {
			t.methods[i] = m
			return
		}
	}
	t.methods = append(t.methods, m)
}

// resolve returns the first method taking arity parameters. The invoked
// name is not consulted.
func (t *methodTable) resolve(arity int) (method, bool) {
	for _, m := range t.methods {
		if len(m.params) == arity {
			return m, true
		}
	}
	return method{}, false
}

func (t *methodTable) names() []string {
	names := make([]string, len(t.methods))
	for i, m := range t.methods {
		names[i] = m.name
	}
	return names
}
