package manifest

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Resolver evaluates param and numeric-field expressions. Compiled
// programs are cached per expression string; safe for concurrent use.
type Resolver struct {
	cache   map[string]*vm.Program
	cacheMu sync.RWMutex

	envOptions []expr.Option
}

// NewResolver creates a resolver with the animation helper functions
// registered.
func NewResolver() *Resolver {
	r := &Resolver{cache: make(map[string]*vm.Program)}

	r.envOptions = []expr.Option{
		expr.Function("lerp", func(params ...any) (any, error) {
			if len(params) != 3 {
				return nil, fmt.Errorf("lerp requires 3 arguments (from, to, t)")
			}
			a, b, t := coerceFloat(params[0]), coerceFloat(params[1]), coerceFloat(params[2])
			return a + (b-a)*t, nil
		}),
		expr.Function("clamp", func(params ...any) (any, error) {
			if len(params) != 3 {
				return nil, fmt.Errorf("clamp requires 3 arguments (v, lo, hi)")
			}
			v, lo, hi := coerceFloat(params[0]), coerceFloat(params[1]), coerceFloat(params[2])
			switch {
			case v < lo:
				return lo, nil
			case v > hi:
				return hi, nil
			}
			return v, nil
		}),
	}

	return r
}

// ResolveParams evaluates every param top to bottom and returns the
// complete evaluation environment: canvas width and height plus all
// params. Each expression sees only what was declared before it.
func (r *Resolver) ResolveParams(doc Document) (map[string]float64, error) {
	env := map[string]float64{
		"width":  doc.Canvas.Width,
		"height": doc.Canvas.Height,
	}
	for _, p := range doc.Params.All() {
		v, err := r.Value(p.Value, env)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", p.Name, err)
		}
		env[p.Name] = v
	}
	return env, nil
}

// Value lowers a numeric field into a float against env. Literals pass
// through; expressions are compiled, cached, and run.
func (r *Resolver) Value(n Number, env map[string]float64) (float64, error) {
	if !n.IsExpr() {
		return n.Literal, nil
	}

	program, err := r.getOrCompile(n.Expr, env)
	if err != nil {
		return 0, fmt.Errorf("compile expression %q: %w", n.Expr, err)
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return 0, fmt.Errorf("run expression %q: %w", n.Expr, err)
	}

	v, ok := asFloat(result)
	if !ok {
		return 0, fmt.Errorf("expression %q: result %v (%T) is not numeric", n.Expr, result, result)
	}
	return v, nil
}

// ClearCache drops the compiled program cache. Useful after a watched
// manifest changes its param vocabulary.
func (r *Resolver) ClearCache() {
	r.cacheMu.Lock()
	r.cache = make(map[string]*vm.Program)
	r.cacheMu.Unlock()
}

// getOrCompile returns a cached compiled program or compiles a new one.
func (r *Resolver) getOrCompile(expression string, env map[string]float64) (*vm.Program, error) {
	r.cacheMu.RLock()
	program, ok := r.cache[expression]
	r.cacheMu.RUnlock()

	if ok {
		return program, nil
	}

	opts := append([]expr.Option{expr.Env(env)}, r.envOptions...)
	program, err := expr.Compile(expression, opts...)
	if err != nil {
		return nil, err
	}

	r.cacheMu.Lock()
	r.cache[expression] = program
	r.cacheMu.Unlock()

	return program, nil
}

func asFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	}
	return 0, false
}

func coerceFloat(v any) float64 {
	f, _ := asFloat(v)
	return f
}
