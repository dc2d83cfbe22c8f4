// Package steps manages step definitions: the reusable, named units of
// computation whose invocations become Step nodes when recording is active.
//
// A definition declares its parameter names and a tag source, which is
// either a literal coordinate or the name of one of the parameters. At call
// time the definition either records itself into the active trace context
// and then runs (recording), or runs directly (normal execution). The two
// paths are an explicit dispatch on the active context; implementations are
// never swapped at runtime.
package steps

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/joydddd/cutlass/internal/coord"
	"github.com/joydddd/cutlass/internal/ctxlog"
	"github.com/joydddd/cutlass/internal/graph"
)

var (
	// ErrDuplicateStepDefinition reports a step-definition identity bound
	// to two different definition ids within one registry.
	ErrDuplicateStepDefinition = errors.New("duplicate step definition")

	// ErrLookupFailure reports a tag-source parameter that does not exist
	// on the definition's parameter list. Raised at definition creation,
	// never deferred to call time.
	ErrLookupFailure = errors.New("lookup failure")
)

// Func is the computation a step definition wraps. Args carries the call
// arguments addressed by declared parameter name.
type Func func(ctx context.Context, args Args) (any, error)

// Args are the arguments of one step invocation, keyed by parameter name.
type Args map[string]any

// DefID identifies a definition within a registry. Zero means unassigned.
type DefID uint32

// Definition is a declared step. It implements graph.Origin: every Step
// node recorded from it shares its identity token.
type Definition struct {
	name     string
	fn       Func
	identity graph.Identity
	params   []string
	inputs   []string
	outputs  []string

	tagParam  string      // parameter-name tag source, "" when literal
	staticTag coord.Coord // literal tag source
	hasStatic bool

	id  DefID
	reg *Registry // set on registration, used to record origin history
}

// Config declares a step definition.
type Config struct {
	// Name is the step's declared name.
	Name string
	// Fn is the wrapped computation. Its identity token is the function
	// pointer, so two definitions wrapping the same function collide.
	Fn Func
	// Params are the declared parameter names, in order.
	Params []string
	// TagParam names the parameter whose call-time argument supplies the
	// tag. Mutually exclusive with StaticTag.
	TagParam string
	// StaticTag is a literal tag used for every invocation.
	StaticTag *coord.Coord
	// Inputs and Outputs are the declared data handle names. Outputs label
	// the step's outgoing edges in the flattened diagram.
	Inputs  []string
	Outputs []string
}

// New creates a step definition. A TagParam that is not one of Params fails
// with ErrLookupFailure immediately, so a misdeclared step never reaches
// call time.
func New(cfg Config) (*Definition, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("step definition needs a name")
	}
	if cfg.Fn == nil {
		return nil, fmt.Errorf("step definition %q needs a func", cfg.Name)
	}
	if cfg.TagParam == "" && cfg.StaticTag == nil {
		return nil, fmt.Errorf("step definition %q needs a tag source", cfg.Name)
	}
	if cfg.TagParam != "" && cfg.StaticTag != nil {
		return nil, fmt.Errorf("step definition %q declares two tag sources", cfg.Name)
	}
	d := &Definition{
		name:     cfg.Name,
		fn:       cfg.Fn,
		identity: graph.Identity(reflect.ValueOf(cfg.Fn).Pointer()),
		params:   slices.Clone(cfg.Params),
		inputs:   slices.Clone(cfg.Inputs),
		outputs:  slices.Clone(cfg.Outputs),
	}
	if cfg.TagParam != "" {
		if !slices.Contains(d.params, cfg.TagParam) {
			return nil, fmt.Errorf("%w: tag %q is not a parameter of step %q",
				ErrLookupFailure, cfg.TagParam, cfg.Name)
		}
		d.tagParam = cfg.TagParam
	} else {
		d.staticTag = *cfg.StaticTag
		d.hasStatic = true
	}
	return d, nil
}

// StepName returns the declared name. Part of graph.Origin.
func (d *Definition) StepName() string { return d.name }

// Identity returns the stable identity token. Part of graph.Origin.
func (d *Definition) Identity() graph.Identity { return d.identity }

// InputHandles returns the declared input handle names.
func (d *Definition) InputHandles() []string { return d.inputs }

// OutputHandles returns the declared output handle names.
func (d *Definition) OutputHandles() []string { return d.outputs }

// ID returns the definition id assigned by its registry.
func (d *Definition) ID() DefID { return d.id }

// resolveTag reads the tag for one invocation: the literal tag when the
// definition declares one, otherwise the current argument of the declared
// tag parameter.
func (d *Definition) resolveTag(args Args) (coord.Coord, error) {
	if d.hasStatic {
		return d.staticTag, nil
	}
	v, ok := args[d.tagParam]
	if !ok {
		return coord.Coord{}, fmt.Errorf("%w: call to step %q is missing tag argument %q",
			ErrLookupFailure, d.name, d.tagParam)
	}
	tag, ok := v.(coord.Coord)
	if !ok {
		return coord.Coord{}, fmt.Errorf("%w: tag argument %q of step %q is %T, not a coordinate",
			ErrLookupFailure, d.tagParam, d.name, v)
	}
	return tag, nil
}

// Call runs one step invocation. When a trace context is active the step is
// lifted first: its tag is resolved, a Step node is recorded under the
// current scope, and only then does the computation run. Without an active
// context the call passes straight through.
func (d *Definition) Call(ctx context.Context, args Args) (any, error) {
	tc := graph.Current()
	if tc == nil {
		return d.fn(ctx, args)
	}
	return d.lift(ctx, tc, args)
}

func (d *Definition) lift(ctx context.Context, tc *graph.Context, args Args) (any, error) {
	tag, err := d.resolveTag(args)
	if err != nil {
		return nil, err
	}
	node, err := tc.RecordStep(d, tag)
	if err != nil {
		return nil, err
	}
	if d.reg != nil {
		d.reg.recordOrigin(d.id, tag)
	}
	ctxlog.FromContext(ctx).Debug("lifted step",
		"step", d.name, "node", uint64(node.ID), "tag", tag.String())
	return d.fn(ctx, args)
}
