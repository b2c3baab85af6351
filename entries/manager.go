package entries

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"cssbus/css"
	"cssbus/transform"
)

// Input selects the CSS text for an operation: either inline text or a file
// path, optionally resolved against a directory. Exactly one of CSS and
// FilePath must be set. From is the diagnostic label for inline text; file
// content is labeled with its resolved path.
type Input struct {
	CSS      string
	DirName  string
	FilePath string
	From     string
}

// CreateOptions carries entry construction parameters.
type CreateOptions struct {
	To         string // destination label, defaults to the entry name
	Map        bool   // produce a source map at finalization
	Processors []transform.Descriptor
	Silent     bool
}

// Processed is the outcome of a one-shot pipeline run.
type Processed struct {
	Text string
	From string
}

// Finalized pairs an entry name with its finalization result.
type Finalized struct {
	Name string
	Data *css.Result
}

// Manager owns the registry of live entries. All operations are sequential -
// the host dispatches one at a time, so there is no locking. An entry name is
// unique while the entry is live and becomes free again once the entry is
// finalized.
type Manager struct {
	log  *zap.Logger
	insp *css.Inspector
	reg  *transform.Registry

	entries map[string]*Entry
	order   []string // creation order, drives finalizeAll
}

// NewManager creates an empty entry manager. A nil registry means the default
// transform registry; a nil logger disables diagnostics entirely.
func NewManager(log *zap.Logger, reg *transform.Registry) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	if reg == nil {
		reg = transform.Default()
	}
	log = log.Named("entries")
	return &Manager{
		log:     log,
		insp:    css.NewInspector(log),
		reg:     reg,
		entries: make(map[string]*Entry),
	}
}

// Live returns the names of live entries in creation order.
func (m *Manager) Live() []string {
	return slices.Clone(m.order)
}

// Create registers a new named entry. If the name is already live this is a
// no-op keeping the original entry and its options, with a warning unless
// silent. Processor descriptors are resolved eagerly; a resolution failure is
// fatal and leaves nothing registered.
func (m *Manager) Create(name string, opts CreateOptions) error {
	if _, ok := m.entries[name]; ok {
		if !opts.Silent {
			m.log.Warn("Entry already exists, keeping original options", zap.String("name", name))
		}
		return nil
	}
	e, err := newEntry(name, opts.To, opts.Map, opts.Processors, m.reg, m.log)
	if err != nil {
		if !opts.Silent {
			m.log.Error("Unable to create entry", zap.String("name", name), zap.Error(err))
		}
		return fmt.Errorf("unable to create entry '%s': %w", name, err)
	}
	m.entries[name] = e
	m.order = append(m.order, name)
	m.log.Debug("Created entry", zap.String("name", name), zap.String("to", e.to), zap.Bool("map", e.withMap), zap.Int("processors", len(e.procs)))
	return nil
}

// Append adds CSS text at the end of a live entry's accumulated document.
// Referencing a missing entry is not an error: it only warns unless silent.
func (m *Manager) Append(name string, in Input, silent bool) error {
	text, path, err := m.acquire(in, silent)
	if err != nil {
		return err
	}
	from := in.From
	if path != "" {
		// keep a blank-line separation from the preceding content
		from = path
		text = "\n" + text
	}
	return m.insert(name, text, from, false, silent)
}

// Prepend adds CSS text at the beginning of a live entry's accumulated
// document.
func (m *Manager) Prepend(name string, in Input, silent bool) error {
	text, path, err := m.acquire(in, silent)
	if err != nil {
		return err
	}
	from := in.From
	if path != "" {
		// keep a blank-line separation from the following content
		from = path
		text = text + "\n"
	}
	return m.insert(name, text, from, true, silent)
}

// AppendProcess runs the input through an ad-hoc processor list and appends
// the transformed text, applying transformations once at insertion time
// instead of at finalization.
func (m *Manager) AppendProcess(ctx context.Context, name string, in Input, procs []transform.Descriptor, silent bool) error {
	res, err := m.Process(ctx, in, procs, silent)
	if err != nil {
		return err
	}
	return m.insert(name, res.Text, res.From, false, silent)
}

// PrependProcess runs the input through an ad-hoc processor list and prepends
// the transformed text.
func (m *Manager) PrependProcess(ctx context.Context, name string, in Input, procs []transform.Descriptor, silent bool) error {
	res, err := m.Process(ctx, in, procs, silent)
	if err != nil {
		return err
	}
	return m.insert(name, res.Text, res.From, true, silent)
}

// Process acquires CSS text and optionally runs it through an ad-hoc
// processor list, without touching any entry. When the text comes from a
// file and From is unset, the label defaults to the resolved path; when the
// pipeline runs and the label is still unset it defaults to "unknown".
func (m *Manager) Process(ctx context.Context, in Input, procs []transform.Descriptor, silent bool) (Processed, error) {
	text, path, err := m.acquire(in, silent)
	if err != nil {
		return Processed{}, err
	}
	from := in.From
	if from == "" {
		from = path
	}
	if len(procs) == 0 {
		return Processed{Text: text, From: from}, nil
	}
	resolved, err := transform.ResolveAll(procs, m.reg)
	if err != nil {
		if !silent {
			m.log.Error("Unable to resolve processors", zap.String("from", from), zap.Error(err))
		}
		return Processed{}, err
	}
	if from == "" {
		from = "unknown"
	}
	out, err := transform.Run(ctx, m.log, text, from, resolved)
	if err != nil {
		return Processed{}, err
	}
	return Processed{Text: out, From: from}, nil
}

// Finalize serializes the entry's accumulated document, runs its stored
// processors over the result and removes the entry from the registry. A
// missing name warns (unless silent) and returns nil without error.
func (m *Manager) Finalize(ctx context.Context, name string, silent bool) (*css.Result, error) {
	e, ok := m.entries[name]
	if !ok {
		if !silent {
			m.log.Warn("Entry is not live, nothing to finalize", zap.String("name", name))
		}
		return nil, nil
	}
	res := e.doc.Serialize(e.to, e.withMap)
	if len(e.procs) > 0 {
		out, err := transform.Run(ctx, m.log, res.CSS, e.to, e.procs)
		if err != nil {
			return nil, fmt.Errorf("unable to finalize entry '%s': %w", name, err)
		}
		res.CSS = out
	}
	m.remove(name)
	m.log.Debug("Finalized entry", zap.String("name", name), zap.String("to", e.to), zap.Int("bytes", len(res.CSS)))
	return &res, nil
}

// FinalizeAll finalizes every live entry sequentially in creation order and
// returns the collected results. The first failure aborts the sequence,
// leaving the failed entry and everything after it live. On success the
// registry is empty.
func (m *Manager) FinalizeAll(ctx context.Context, silent bool) ([]Finalized, error) {
	names := slices.Clone(m.order)
	out := make([]Finalized, 0, len(names))
	for _, name := range names {
		data, err := m.Finalize(ctx, name, silent)
		if err != nil {
			return nil, err
		}
		out = append(out, Finalized{Name: name, Data: data})
	}
	return out, nil
}

// acquire resolves the operation input to CSS text. The returned path is the
// resolved absolute file path, empty for inline text.
func (m *Manager) acquire(in Input, silent bool) (string, string, error) {
	switch {
	case in.CSS != "":
		return in.CSS, "", nil
	case in.FilePath != "":
		p := in.FilePath
		if in.DirName != "" {
			p = filepath.Join(in.DirName, p)
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", "", fmt.Errorf("unable to resolve path '%s': %w", p, err)
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			if !silent {
				m.log.Error("Unable to read CSS file", zap.String("path", abs), zap.Error(err))
			}
			return "", "", fmt.Errorf("unable to read '%s': %w", abs, err)
		}
		return string(data), abs, nil
	default:
		if !silent {
			m.log.Error("No input provided, expected either inline css or a file path")
		}
		return "", "", ErrInvalidInput
	}
}

// insert places already-acquired text into a live entry's document.
func (m *Manager) insert(name, text, from string, prepend, silent bool) error {
	e, ok := m.entries[name]
	if !ok {
		if !silent {
			m.log.Warn("Entry is not live, ignoring", zap.String("name", name))
		}
		return nil
	}
	if from == "" {
		from = "unknown"
	}
	stats := m.insp.Inspect([]byte(text), from)
	for _, w := range stats.Warnings {
		m.log.Debug("CSS fragment warning", zap.String("name", name), zap.String("from", from), zap.String("warning", w))
	}
	frag := css.Fragment{From: from, Text: text}
	if prepend {
		e.doc.Prepend(frag)
	} else {
		e.doc.Append(frag)
	}
	return nil
}

// remove drops the entry and its creation-order slot.
func (m *Manager) remove(name string) {
	delete(m.entries, name)
	if i := slices.Index(m.order, name); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
}
