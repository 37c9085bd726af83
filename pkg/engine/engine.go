// Package engine provides the Lisp evaluation engine for kerf.
// It wraps zygomys in a sandboxed environment in which scripts build
// solids, slice them into planar regions and combine those regions. The
// named sections a script records are returned as a Result.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/kerf/pkg/clip"
	"github.com/chazu/kerf/pkg/config"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/kernel/sdfx"
	"github.com/chazu/kerf/pkg/region"
	"github.com/chazu/kerf/pkg/slicer"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents a non-fatal warning produced during evaluation,
// for example a slice whose segments did not all close into loops.
type EvalWarning struct {
	Message string
	Section string
}

func (w EvalWarning) String() string {
	if w.Section != "" {
		return fmt.Sprintf("%s: %s", w.Section, w.Message)
	}
	return w.Message
}

// Section is a named region recorded by a script.
type Section struct {
	Name   string
	Region *region.Region
}

// Result is the output of a successful evaluation. Sections keep the
// order in which the script recorded them.
type Result struct {
	Sections []Section
	Warnings []EvalWarning
}

// Lookup returns the region recorded under name, or nil.
func (r *Result) Lookup(name string) *region.Region {
	for _, s := range r.Sections {
		if s.Name == name {
			return s.Region
		}
	}
	return nil
}

// SectionCount returns the number of recorded sections.
func (r *Result) SectionCount() int {
	return len(r.Sections)
}

// Engine wraps the zygomys interpreter for kerf evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	timeout time.Duration
	kernel  kernel.Kernel
	clip    clip.Engine
	slicer  *slicer.Slicer
}

// NewEngine creates an Engine backed by the sdfx kernel and the clipper
// boolean engine, both configured from cfg.
func NewEngine(cfg config.Config) *Engine {
	return NewEngineWithKernel(cfg, sdfx.New(cfg))
}

// NewEngineWithKernel creates an Engine that builds solids with k.
func NewEngineWithKernel(cfg config.Config, k kernel.Kernel) *Engine {
	c := clip.New(cfg)
	timeout := cfg.EvalTimeout
	if timeout <= 0 {
		timeout = DefaultEvalTimeout
	}
	return &Engine{
		timeout: timeout,
		kernel:  k,
		clip:    c,
		slicer:  slicer.New(cfg, c),
	}
}

// Evaluate takes Lisp source code and returns the sections it records.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns result + nil errors + nil error
//   - On parse/eval failure: returns nil result + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Result, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	return e.wait(e.run(source), gen)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Result, []EvalError, error) {
	// Empty source is a valid program that records nothing.
	if strings.TrimSpace(source) == "" {
		return &Result{}, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	b := newBuilder(e)
	registerBuiltins(env, b)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	return b.result, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
