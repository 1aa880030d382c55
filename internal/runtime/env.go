package runtime

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// ErrUndefinedVariable is returned when reading or assigning a name that
// was never declared.
var ErrUndefinedVariable = errors.New("undefined variable")

// Environment is the flat variable store of one interpreter. There are no
// nested scopes: every declaration lands in the same map.
type Environment struct {
	values map[string]Value
	logger *slog.Logger
}

// NewEnvironment creates an empty environment. A nil logger disables tracing.
func NewEnvironment(logger *slog.Logger) *Environment {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Environment{
		values: make(map[string]Value),
		logger: logger,
	}
}

// Define binds name to value, replacing any existing binding.
func (e *Environment) Define(name string, value Value) {
	e.logger.Debug("define variable", "name", name, "value", value.String(), "type", value.TypeName())
	e.values[name] = value
}

// Get returns the value bound to name.
func (e *Environment) Get(name string) (Value, error) {
	if val, exists := e.values[name]; exists {
		return val, nil
	}
	return nil, fmt.Errorf("%w '%s'", ErrUndefinedVariable, name)
}

// Assign overwrites an existing binding. It never creates one.
func (e *Environment) Assign(name string, value Value) error {
	if _, exists := e.values[name]; !exists {
		return fmt.Errorf("%w '%s'", ErrUndefinedVariable, name)
	}
	e.logger.Debug("assign variable", "name", name, "value", value.String(), "type", value.TypeName())
	e.values[name] = value
	return nil
}

// Names returns the defined variable names in sorted order.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
