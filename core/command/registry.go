package command

import (
	"sort"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/KevinPriv/canvas-lang/core/invariant"
)

// Registry is an ordered, append-only collection of commands.
// Lookup returns the first registered command whose name or alias matches,
// so a later registration never shadows an earlier one.
type Registry struct {
	mu       sync.RWMutex
	commands []Command
}

// NewRegistry creates a registry holding cmds in order
func NewRegistry(cmds ...Command) *Registry {
	r := &Registry{}
	r.Register(cmds...)
	return r
}

// Register appends commands to the registry
func (r *Registry) Register(cmds ...Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cmd := range cmds {
		invariant.NotNil(cmd, "command")
		r.commands = append(r.commands, cmd)
	}
}

// Commands returns the registered commands in registration order
func (r *Registry) Commands() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Command, len(r.commands))
	copy(result, r.commands)
	return result
}

// Lookup finds the first command matching name by name or alias
func (r *Registry) Lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, cmd := range r.commands {
		if matches(cmd, name) {
			return cmd, true
		}
	}
	return nil, false
}

// Names returns every name and alias in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for _, cmd := range r.commands {
		names = append(names, cmd.Name())
		names = append(names, cmd.Aliases()...)
	}
	return names
}

// Suggest returns the registered name closest to an unknown one, or ""
func (r *Registry) Suggest(name string) string {
	return findClosestMatch(name, r.Names())
}

// findClosestMatch finds the closest string match using fuzzy matching
func findClosestMatch(target string, candidates []string) string {
	if len(candidates) == 0 || target == "" {
		return ""
	}

	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		return ""
	}

	// Lowest distance first; ties keep registration order
	sort.Stable(ranks)
	return ranks[0].Target
}
