package transform

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrBadDescriptor is returned when a descriptor cannot be resolved to a
// processor: it names an unknown factory or carries neither an instance nor a
// name. Resolution failures are fatal and happen before any entry is
// registered.
var ErrBadDescriptor = errors.New("unresolvable processor descriptor")

// Descriptor requests a processor either as a ready-made instance or as a
// named, option-configured factory lookup. Instance wins when both are set.
type Descriptor struct {
	Instance Processor `yaml:"-"`
	Name     string    `yaml:"name"`
	Options  Options   `yaml:"options,omitempty"`
}

// Resolve turns the descriptor into a processor using reg for named lookups.
func (d Descriptor) Resolve(reg *Registry) (Processor, error) {
	switch {
	case d.Instance != nil:
		return d.Instance, nil
	case d.Name != "":
		return reg.Resolve(d.Name, d.Options)
	default:
		return nil, fmt.Errorf("descriptor has neither instance nor name: %w", ErrBadDescriptor)
	}
}

// ResolveAll resolves a descriptor list in order. All failures are collected
// so a misconfigured entry reports every bad descriptor at once.
func ResolveAll(descs []Descriptor, reg *Registry) ([]Processor, error) {
	if len(descs) == 0 {
		return nil, nil
	}
	var (
		procs []Processor
		err   error
	)
	for i, d := range descs {
		p, er := d.Resolve(reg)
		if er != nil {
			err = multierr.Append(err, fmt.Errorf("descriptor %d: %w", i, er))
			continue
		}
		procs = append(procs, p)
	}
	if err != nil {
		return nil, err
	}
	return procs, nil
}
