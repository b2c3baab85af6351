// Package entries implements the CSS entry lifecycle: a registry of named
// entries that accumulate CSS text and are finalized into output CSS through
// the transformation pipeline.
package entries

import (
	"errors"

	"go.uber.org/zap"

	"cssbus/css"
	"cssbus/transform"
)

// ErrInvalidInput is returned when an operation that needs CSS text receives
// neither inline text nor a file path. This is a hard failure, unlike
// referencing a missing entry which is only a warning.
var ErrInvalidInput = errors.New("neither inline css nor file path provided")

// Entry is a named accumulator of CSS text together with its finalize-time
// options: the destination label used for diagnostics and source-map naming,
// the source-map toggle and the processors to run at finalization. Processor
// descriptors are resolved eagerly at construction, so a live entry always
// holds ready-made instances.
type Entry struct {
	to      string
	withMap bool
	procs   []transform.Processor
	doc     *css.Document
}

func newEntry(name, to string, withMap bool, descs []transform.Descriptor, reg *transform.Registry, log *zap.Logger) (*Entry, error) {
	if to == "" {
		to = name
	}
	procs, err := transform.ResolveAll(descs, reg)
	if err != nil {
		return nil, err
	}
	return &Entry{
		to:      to,
		withMap: withMap,
		procs:   procs,
		doc:     css.NewDocument(log),
	}, nil
}
