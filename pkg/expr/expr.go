package expr

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// TargetVar is the name of the CEL variable holding the target.
const TargetVar = "target"

// ErrNotBool indicates that an expression did not evaluate to a boolean.
var ErrNotBool = errors.New("expression must evaluate to a bool")

// Protect CEL environment creation and compilation from concurrent access.
var celMutex sync.Mutex

// Environment provides a thread-safe wrapper around a [*cel.Env].
type Environment struct {
	env *cel.Env
}

// NewEnvironment creates a new [Environment].
func NewEnvironment(opts ...cel.EnvOption) (*Environment, error) {
	env, err := createEnvironment(opts...)
	if err != nil {
		return nil, err
	}

	return &Environment{env: env}, nil
}

func createEnvironment(opts ...cel.EnvOption) (*cel.Env, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	opts = append(opts, cel.Lib(&lib{}))

	celEnv, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return celEnv, nil
}

// Compile compiles a CEL expression and returns a program.
//
//nolint:ireturn // Following CEL's function signature.
func (e *Environment) Compile(expression string) (cel.Program, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	return program, nil
}

// TargetFilter is a compiled boolean expression over a target.
type TargetFilter struct {
	program    cel.Program
	expression string
}

// NewTargetFilter compiles expression into a [TargetFilter].
func NewTargetFilter(expression string) (*TargetFilter, error) {
	env, err := NewEnvironment()
	if err != nil {
		return nil, err
	}

	program, err := env.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", expression, err)
	}

	return &TargetFilter{program: program, expression: expression}, nil
}

// Match evaluates the filter against the target fields in vars.
func (f *TargetFilter) Match(vars map[string]any) (bool, error) {
	out, _, err := f.program.Eval(map[string]any{TargetVar: vars})
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q: %w", f.expression, err)
	}

	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter %q: %w, got %T", f.expression, ErrNotBool, out.Value())
	}

	return matched, nil
}

// String returns the source expression.
func (f *TargetFilter) String() string {
	return f.expression
}
