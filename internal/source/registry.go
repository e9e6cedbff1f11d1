package source

// Registry holds the configured sources in priority order.
//
// The order is fixed at startup from the sources.priority setting and
// determines the fallback order deterministically for the whole run:
// a lower-priority source is never queried for a track unless every
// higher-priority source has been exhausted for it.
type Registry struct {
	sources []Source
}

// NewRegistry creates a registry from sources already ordered by
// priority.
func NewRegistry(sources []Source) *Registry {
	return &Registry{sources: sources}
}

// Sources returns the sources in priority order. Callers must not
// mutate the returned slice.
func (r *Registry) Sources() []Source {
	return r.sources
}

// Names returns the source names in priority order, for display.
func (r *Registry) Names() []string {
	names := make([]string, len(r.sources))
	for i, s := range r.sources {
		names[i] = s.Name()
	}
	return names
}

// Len returns the number of usable sources.
func (r *Registry) Len() int {
	return len(r.sources)
}
