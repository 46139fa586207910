package sucuri

import (
	"context"
	"errors"
	"time"

	"github.com/dop251/goja"

	"github.com/pfrederiksen/vanier-courses/internal/apperr"
)

// ScriptEngine compiles source text and invokes a named function in it,
// returning the function's string result.
type ScriptEngine interface {
	Call(ctx context.Context, source, function string, args ...string) (string, error)
}

// GojaEngine runs scripts in a fresh goja runtime per call. A runtime has no
// timers, console, network or filesystem unless they are registered, and
// nothing is registered here.
type GojaEngine struct {
	// Timeout bounds one Call. Zero means only ctx applies.
	Timeout time.Duration
	// MaxCallStackSize caps recursion depth inside the script.
	MaxCallStackSize int
}

// NewGojaEngine returns an engine with the given per-call timeout.
func NewGojaEngine(timeout time.Duration) *GojaEngine {
	return &GojaEngine{Timeout: timeout, MaxCallStackSize: 1024}
}

// Call implements ScriptEngine.
func (g *GojaEngine) Call(ctx context.Context, source, function string, args ...string) (string, error) {
	const op = "sucuri.GojaEngine.Call"

	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	vm := goja.New()
	if g.MaxCallStackSize > 0 {
		vm.SetMaxCallStackSize(g.MaxCallStackSize)
	}

	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(ctx.Err())
	})
	defer stop()

	if _, err := vm.RunString(source); err != nil {
		return "", apperr.Execution(op, "compiling "+function, unwrapInterrupt(err))
	}

	fn, ok := goja.AssertFunction(vm.Get(function))
	if !ok {
		return "", apperr.Parse(op, "function "+function+" not defined by rewritten script", nil)
	}

	jsArgs := make([]goja.Value, len(args))
	for i, a := range args {
		jsArgs[i] = vm.ToValue(a)
	}

	v, err := fn(goja.Undefined(), jsArgs...)
	if err != nil {
		return "", apperr.Execution(op, "calling "+function, unwrapInterrupt(err))
	}

	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return "", apperr.Parse(op, function+" returned no value", nil)
	}
	s, ok := v.Export().(string)
	if !ok {
		return "", apperr.Parse(op, function+" did not return a string", nil)
	}
	return s, nil
}

// unwrapInterrupt surfaces the context error behind an interrupt so callers
// can match context.DeadlineExceeded.
func unwrapInterrupt(err error) error {
	var ie *goja.InterruptedError
	if errors.As(err, &ie) {
		if cause, ok := ie.Value().(error); ok {
			return cause
		}
	}
	return err
}
