package engine

import (
	"errors"
	"fmt"
	"time"
)

// DefaultEvalTimeout is the evaluation limit used when none is configured.
const DefaultEvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs longer than the engine's limit.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned to a caller whose evaluation finished after a
	// newer one had started.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

// evalResult carries one finished evaluation back to the waiting caller.
type evalResult struct {
	result *Result
	errors []EvalError
	err    error
}

// run evaluates source on its own goroutine and delivers the outcome on
// the returned channel. Panics from builtins or the kernel become errors.
func (e *Engine) run(source string) <-chan evalResult {
	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		res, evalErrs, err := e.evaluate(source)
		ch <- evalResult{result: res, errors: evalErrs, err: err}
	}()
	return ch
}

// wait blocks until ch delivers or the engine timeout elapses. A result
// whose generation is no longer current is discarded with ErrSuperseded.
//
// On timeout the goroutine may still be running; its late result lands in
// the buffered channel and is never read.
func (e *Engine) wait(ch <-chan evalResult, gen uint64) (*Result, []EvalError, error) {
	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		e.mu.Lock()
		current := e.generation
		e.mu.Unlock()
		if gen != current {
			return nil, nil, ErrSuperseded
		}
		return res.result, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	}
}
