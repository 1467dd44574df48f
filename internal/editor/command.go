package editor

import (
	"fmt"
	"sort"

	"github.com/zjrosen/sled/internal/key"
)

// Result indicates the outcome of command execution.
type Result int

const (
	// Executed means the command ran and consumed the key.
	Executed Result = iota
	// Skipped means pre-conditions weren't met (e.g., backspace at column 0).
	// The key is consumed but the line is unchanged.
	Skipped
)

func (r Result) String() string {
	if r == Executed {
		return "executed"
	}
	return "skipped"
}

// Command is the handler bound to a key.
type Command interface {
	// Execute applies the command to the machine.
	Execute(m *Machine) (Result, error)

	// Keys returns the keys that trigger this command.
	Keys() []key.Key

	// ID returns a hierarchical identifier for this command type.
	// Examples: "move.left", "delete.backward", "insert.char".
	ID() string
}

// Terminator is implemented by commands that end the editing loop.
type Terminator interface {
	Outcome() Outcome
}

// Registry maps keys to commands.
type Registry struct {
	commands map[key.Key]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[key.Key]Command)}
}

// Register binds cmd to each of its keys.
// Registering a key twice is a programming error and panics.
func (r *Registry) Register(cmd Command) {
	for _, k := range cmd.Keys() {
		if existing, ok := r.commands[k]; ok {
			panic(fmt.Sprintf("editor: key %s already bound to %s", k, existing.ID()))
		}
		r.commands[k] = cmd
	}
}

// Get returns the command bound to k.
func (r *Registry) Get(k key.Key) (Command, bool) {
	cmd, ok := r.commands[k]
	return cmd, ok
}

// IDs returns the registered command IDs, sorted and without duplicates.
func (r *Registry) IDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, cmd := range r.commands {
		if !seen[cmd.ID()] {
			seen[cmd.ID()] = true
			ids = append(ids, cmd.ID())
		}
	}
	sort.Strings(ids)
	return ids
}

// DefaultRegistry holds the built-in key bindings.
var DefaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&MoveLeftCommand{})
	r.Register(&MoveRightCommand{})
	r.Register(&NextLineCommand{})
	r.Register(&BackspaceCommand{})
	r.Register(&DeleteCommand{})
	r.Register(&SubmitCommand{})
	r.Register(&CancelCommand{})
	return r
}
