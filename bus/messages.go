// Package bus exposes the entry manager as an operation-name keyed dispatch
// surface for a host event bus. Operation names are part of the host wire
// contract and must not change.
package bus

import (
	"context"

	"cssbus/transform"
)

// Recognized operation names.
const (
	OpCreate         = "create"
	OpAppend         = "append"
	OpPrepend        = "prepend"
	OpAppendProcess  = "appendProcess"
	OpPrependProcess = "prependProcess"
	OpFinalize       = "finalize"
	OpFinalizeAll    = "finalizeAll"
	OpProcess        = "process"
)

// Handler processes a single published message and returns the operation's
// result, if any.
type Handler func(ctx context.Context, msg any) (any, error)

// Bus is the subscription surface a host must provide. The host guarantees
// sequential dispatch: handlers are never invoked concurrently.
type Bus interface {
	Subscribe(op string, h Handler)
}

// Create requests a new named entry.
type Create struct {
	Name       string
	To         string
	Map        bool
	Processors []transform.Descriptor
	Silent     bool
}

// Append adds CSS text at the end of an entry. Exactly one of CSS and
// FilePath must be set.
type Append struct {
	Name     string
	CSS      string
	DirName  string
	FilePath string
	From     string
	Silent   bool
}

// Prepend adds CSS text at the beginning of an entry.
type Prepend struct {
	Name     string
	CSS      string
	DirName  string
	FilePath string
	From     string
	Silent   bool
}

// AppendProcess transforms the input through an ad-hoc processor list, then
// appends the result.
type AppendProcess struct {
	Name       string
	CSS        string
	DirName    string
	FilePath   string
	From       string
	Processors []transform.Descriptor
	Silent     bool
}

// PrependProcess transforms the input through an ad-hoc processor list, then
// prepends the result.
type PrependProcess struct {
	Name       string
	CSS        string
	DirName    string
	FilePath   string
	From       string
	Processors []transform.Descriptor
	Silent     bool
}

// Finalize serializes and removes an entry; the reply is *css.Result (nil
// when the entry is not live).
type Finalize struct {
	Name   string
	Silent bool
}

// FinalizeAll finalizes every live entry in creation order; the reply is
// []entries.Finalized.
type FinalizeAll struct {
	Silent bool
}

// Process runs a one-shot transformation without touching any entry; the
// reply is entries.Processed.
type Process struct {
	CSS        string
	DirName    string
	FilePath   string
	From       string
	Processors []transform.Descriptor
	Silent     bool
}
