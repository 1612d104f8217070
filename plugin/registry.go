package plugin

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/hupe1980/sparsevec"
	"github.com/hupe1980/sparsevec/codec"
	"github.com/hupe1980/sparsevec/column"
	"github.com/hupe1980/sparsevec/graph"
)

var (
	// ErrUnknownFunction is returned for symbols that are not registered.
	ErrUnknownFunction = errors.New("plugin: unknown function")

	// ErrArity is returned when a call passes the wrong number of inputs.
	ErrArity = errors.New("plugin: wrong number of inputs")

	// ErrDuplicate is returned when a name is registered twice.
	ErrDuplicate = errors.New("plugin: function already registered")
)

// Kwargs is a serialized keyword-argument record bound to a codec.
type Kwargs struct {
	codec codec.Codec
	data  []byte
}

// NewKwargs binds data to c. A nil codec means codec.Default.
func NewKwargs(c codec.Codec, data []byte) Kwargs {
	return Kwargs{codec: c, data: data}
}

// Decode decodes k over defaults.
func Decode[T any](k Kwargs, defaults T) (T, error) {
	return codec.DecodeKwargs(k.codec, k.data, defaults)
}

// Function is a host-callable column function.
type Function struct {
	Name string

	// MinInputs and MaxInputs bound the number of positional inputs.
	MinInputs int
	MaxInputs int

	// OutputField infers the output field from the input fields.
	OutputField func(inputs []column.Field, kwargs Kwargs) (column.Field, error)

	// Call runs the function.
	Call func(ctx context.Context, inputs []column.Array, kwargs Kwargs) (column.Array, error)
}

func (f Function) checkArity(n int) error {
	if n < f.MinInputs || n > f.MaxInputs {
		if f.MinInputs == f.MaxInputs {
			return fmt.Errorf("%w: %s takes %d, got %d", ErrArity, f.Name, f.MinInputs, n)
		}
		return fmt.Errorf("%w: %s takes %d to %d, got %d", ErrArity, f.Name, f.MinInputs, f.MaxInputs, n)
	}
	return nil
}

// Registry maps symbol names to functions. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Function
	codec codec.Codec
}

// Option configures a Registry.
type Option func(*registryOptions)

type registryOptions struct {
	codec   codec.Codec
	trainer graph.Trainer
}

// WithCodec sets the kwargs codec. Defaults to codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *registryOptions) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithTrainer registers node2vec backed by t.
func WithTrainer(t graph.Trainer) Option {
	return func(o *registryOptions) {
		o.trainer = t
	}
}

// NewRegistry returns a registry holding the built-in functions bound to
// engine. A nil engine uses sparsevec.New().
func NewRegistry(engine *sparsevec.Engine, optFns ...Option) *Registry {
	o := registryOptions{codec: codec.Default}
	for _, fn := range optFns {
		fn(&o)
	}
	if engine == nil {
		engine = sparsevec.New()
	}

	r := &Registry{funcs: make(map[string]Function), codec: o.codec}
	builtins := []Function{fromList(engine), normalize(engine), snowballStem()}
	if o.trainer != nil {
		builtins = append(builtins, node2vec(o.trainer))
	}
	for _, f := range builtins {
		_ = r.Register(f)
	}
	return r
}

// Register adds f under f.Name.
func (r *Registry) Register(f Function) error {
	if f.Name == "" || f.Call == nil || f.OutputField == nil {
		return fmt.Errorf("plugin: function %q is incomplete", f.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.funcs[f.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, f.Name)
	}
	r.funcs[f.Name] = f
	return nil
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (Function, error) {
	r.mu.RLock()
	f, ok := r.funcs[name]
	r.mu.RUnlock()
	if !ok {
		return Function{}, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	return f, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// OutputField resolves name and infers its output field.
func (r *Registry) OutputField(name string, inputs []column.Field, kwargs []byte) (column.Field, error) {
	f, err := r.Lookup(name)
	if err != nil {
		return column.Field{}, err
	}
	if err := f.checkArity(len(inputs)); err != nil {
		return column.Field{}, err
	}
	return f.OutputField(inputs, NewKwargs(r.codec, kwargs))
}

// Call resolves name and runs it.
func (r *Registry) Call(ctx context.Context, name string, inputs []column.Array, kwargs []byte) (column.Array, error) {
	f, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	if err := f.checkArity(len(inputs)); err != nil {
		return nil, err
	}
	for i, in := range inputs {
		if column.IsNil(in) {
			return nil, fmt.Errorf("%w: %s input %d is nil", sparsevec.ErrUnsupportedType, name, i)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.Call(ctx, inputs, NewKwargs(r.codec, kwargs))
}
