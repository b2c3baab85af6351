// Package transform defines the transformation plugin abstraction: named
// processors resolved from a factory registry, descriptor resolution, and
// sequential chain invocation over CSS text.
package transform

import "context"

// Processor transforms CSS text. The from label identifies the text's origin
// for error reporting and must not influence the transformation itself.
type Processor interface {
	Name() string
	Process(ctx context.Context, text, from string) (string, error)
}

// Func adapts a plain function to the Processor interface.
type Func func(ctx context.Context, text, from string) (string, error)

type funcProcessor struct {
	name string
	fn   Func
}

func (p funcProcessor) Name() string { return p.name }

func (p funcProcessor) Process(ctx context.Context, text, from string) (string, error) {
	return p.fn(ctx, text, from)
}

// New wraps fn as a named Processor.
func New(name string, fn Func) Processor {
	return funcProcessor{name: name, fn: fn}
}
