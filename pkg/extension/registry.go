package extension

import (
	"log/slog"
	"sort"
)

// Registry holds the extensions loaded during start-up. It is populated
// once by Load, before the request-handling phase begins, and is
// read-only for the remainder of process life; reads need no
// synchronization.
type Registry struct {
	byName map[string]*LoadedExtension
	all    []*LoadedExtension
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*LoadedExtension)}
}

// Load scans dir for bundles of the given kind, instantiates each
// accepted descriptor, and records the results. Failed bundles are
// logged and skipped; loading always continues. Returns the extensions
// added by this pass.
func (r *Registry) Load(dir string, kind Kind, deps Deps, logger *slog.Logger) ([]*LoadedExtension, error) {
	if logger == nil {
		logger = slog.Default()
	}

	descriptors, err := LoadDescriptors(dir, kind, logger)
	if err != nil {
		return nil, err
	}

	var added []*LoadedExtension
	for _, d := range descriptors {
		le, lerr := Instantiate(d, deps)
		if lerr != nil {
			logLoadError(logger, lerr)
			continue
		}

		r.byName[d.Name] = le
		r.all = append(r.all, le)
		added = append(added, le)

		logger.Info("extension loaded",
			slog.String("name", d.Name),
			slog.String("kind", string(d.Kind)),
			slog.String("archive", le.Archive),
		)
	}

	r.sortAll()
	return added, nil
}

// Lookup returns the extension registered under name.
func (r *Registry) Lookup(name string) (*LoadedExtension, bool) {
	le, ok := r.byName[name]
	return le, ok
}

// All returns every loaded extension, ordered by the descriptor
// ordering hint, then name.
func (r *Registry) All() []*LoadedExtension {
	return r.all
}

// Visible returns the non-hidden viewer extensions in nav order.
func (r *Registry) Visible() []*LoadedExtension {
	var out []*LoadedExtension
	for _, le := range r.all {
		if le.Descriptor.Kind == KindViewer && !le.Descriptor.Hidden {
			out = append(out, le)
		}
	}
	return out
}

// ArchivePaths returns the distinct shared-object paths backing the
// loaded extensions, for template-resource search path configuration.
// Built-in extensions contribute no path.
func (r *Registry) ArchivePaths() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, le := range r.all {
		if le.Archive == "" {
			continue
		}
		if _, dup := seen[le.Archive]; dup {
			continue
		}
		seen[le.Archive] = struct{}{}
		out = append(out, le.Archive)
	}
	return out
}

// AssetDirs returns the bundle web/ directories of loaded extensions,
// in nav order, for the static resolver's search path.
func (r *Registry) AssetDirs() []string {
	var out []string
	for _, le := range r.all {
		if d := le.Descriptor.WebDir; d != "" {
			out = append(out, d)
		}
	}
	return out
}

func (r *Registry) sortAll() {
	sort.SliceStable(r.all, func(i, j int) bool {
		a, b := r.all[i].Descriptor, r.all[j].Descriptor
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Name < b.Name
	})
}
