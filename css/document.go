// Package css accumulates CSS text fragments into an ordered document and
// serializes them back to text. All actual CSS understanding is delegated to
// github.com/tdewolff/parse - this package only keeps fragments in order and
// tracks where each one came from.
package css

import (
	"strings"

	"go.uber.org/zap"
)

// Fragment is a single piece of CSS text together with its diagnostic label.
// The label carries no semantic weight - it is used for logging and for
// source-map origin bookkeeping only.
type Fragment struct {
	From string // diagnostic label: file path or caller-supplied origin
	Text string // raw CSS text, separators included
}

// Document is an ordered accumulation of CSS fragments. Fragments keep their
// relative insertion order: Append adds after everything inserted so far,
// Prepend adds before.
type Document struct {
	frags []Fragment
	log   *zap.Logger
}

// NewDocument creates an empty document.
func NewDocument(log *zap.Logger) *Document {
	if log == nil {
		log = zap.NewNop()
	}
	return &Document{log: log.Named("css-doc")}
}

// Append inserts the fragment after all current content.
func (d *Document) Append(f Fragment) {
	d.frags = append(d.frags, f)
	d.log.Debug("Appended fragment", zap.String("from", f.From), zap.Int("bytes", len(f.Text)), zap.Int("fragments", len(d.frags)))
}

// Prepend inserts the fragment before all current content.
func (d *Document) Prepend(f Fragment) {
	d.frags = append([]Fragment{f}, d.frags...)
	d.log.Debug("Prepended fragment", zap.String("from", f.From), zap.Int("bytes", len(f.Text)), zap.Int("fragments", len(d.frags)))
}

// Len returns the number of accumulated fragments.
func (d *Document) Len() int {
	return len(d.frags)
}

// Result is serialized document text with its optional source map.
type Result struct {
	CSS string
	Map *SourceMap
}

// Serialize concatenates all fragments in order. The destination label names
// the output in the source map; withMap controls whether a map is produced at
// all.
func (d *Document) Serialize(to string, withMap bool) Result {
	var sb strings.Builder
	for _, f := range d.frags {
		sb.WriteString(f.Text)
	}
	res := Result{CSS: sb.String()}
	if withMap {
		res.Map = newSourceMap(to, d.frags)
	}
	d.log.Debug("Serialized document", zap.String("to", to), zap.Int("bytes", len(res.CSS)), zap.Bool("map", withMap))
	return res
}
