package extension

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"plugin"
	"strings"

	"github.com/dmitrymomot/flowdeck/pkg/props"
	"github.com/dmitrymomot/flowdeck/pkg/trigger"
)

// LoadedExtension is a descriptor together with its constructed
// instance and the archive that produced it. The archive's loading
// scope lives for the remainder of the process; extensions are never
// unloaded.
type LoadedExtension struct {
	Descriptor *Descriptor
	Handler    http.Handler // viewer kind
	Registrant Registrant   // trigger kind
	Archive    string       // .so path backing the entry, "" for built-ins
}

// Deps carries the collaborators handed to factories during
// instantiation.
type Deps struct {
	Trigger *trigger.Context // trigger kind registration context
	Host    Host
}

// Instantiate resolves the descriptor's entry, constructs one instance
// through the kind's fixed factory signature, and verifies the
// capability expected for the kind. The entry is first looked up in the
// built-in factory registry; otherwise it is resolved as an exported
// function across the bundle's isolated shared-object scope.
func Instantiate(d *Descriptor, deps Deps) (*LoadedExtension, *LoadError) {
	switch d.Kind {
	case KindViewer:
		return instantiateViewer(d)
	case KindTrigger:
		return instantiateTrigger(d, deps)
	default:
		return nil, loadErr(d.Name, StageDescriptor, fmt.Errorf("unknown kind %q", d.Kind))
	}
}

func instantiateViewer(d *Descriptor) (*LoadedExtension, *LoadError) {
	var (
		factory ViewerFactory
		archive string
	)

	if f, ok := builtinViewer(d.Entry); ok {
		factory = f
	} else {
		sym, arc, lerr := resolveSymbol(d)
		if lerr != nil {
			return nil, lerr
		}
		f, ok := asViewerFactory(sym)
		if !ok {
			return nil, loadErr(d.Name, StageEntry,
				fmt.Errorf("entry %s has wrong type %T", d.Entry, sym))
		}
		factory, archive = f, arc
	}

	instance, err := factory(d.Config)
	if err != nil {
		return nil, loadErr(d.Name, StageConstruct, err)
	}

	h, ok := assertViewer(instance)
	if !ok {
		return nil, loadErr(d.Name, StageCapability,
			fmt.Errorf("%T does not implement http.Handler", instance))
	}

	return &LoadedExtension{Descriptor: d, Handler: h, Archive: archive}, nil
}

func instantiateTrigger(d *Descriptor, deps Deps) (*LoadedExtension, *LoadError) {
	var (
		factory TriggerFactory
		archive string
	)

	if f, ok := builtinTrigger(d.Entry); ok {
		factory = f
	} else {
		sym, arc, lerr := resolveSymbol(d)
		if lerr != nil {
			return nil, lerr
		}
		f, ok := asTriggerFactory(sym)
		if !ok {
			return nil, loadErr(d.Name, StageEntry,
				fmt.Errorf("entry %s has wrong type %T", d.Entry, sym))
		}
		factory, archive = f, arc
	}

	instance, err := factory(d.Name, d.Config, deps.Trigger, deps.Host)
	if err != nil {
		return nil, loadErr(d.Name, StageConstruct, err)
	}

	r, ok := assertRegistrant(instance)
	if !ok {
		return nil, loadErr(d.Name, StageCapability,
			fmt.Errorf("%T does not implement the trigger registrant capability", instance))
	}

	if err := r.RegisterCheckers(deps.Trigger); err != nil {
		return nil, loadErr(d.Name, StageConstruct, fmt.Errorf("register checkers: %w", err))
	}
	if err := r.RegisterActions(deps.Trigger); err != nil {
		return nil, loadErr(d.Name, StageConstruct, fmt.Errorf("register actions: %w", err))
	}

	return &LoadedExtension{Descriptor: d, Registrant: r, Archive: archive}, nil
}

// asViewerFactory matches the fixed viewer factory signature. Shared
// objects usually export a plain function; a package-level variable of
// the named factory type resolves to a pointer.
func asViewerFactory(sym plugin.Symbol) (ViewerFactory, bool) {
	switch f := sym.(type) {
	case func(*props.Properties) (any, error):
		return f, true
	case ViewerFactory:
		return f, true
	case *ViewerFactory:
		return *f, true
	}
	return nil, false
}

func asTriggerFactory(sym plugin.Symbol) (TriggerFactory, bool) {
	switch f := sym.(type) {
	case func(string, *props.Properties, *trigger.Context, Host) (any, error):
		return f, true
	case TriggerFactory:
		return f, true
	case *TriggerFactory:
		return *f, true
	}
	return nil, false
}

// resolveSymbol opens the bundle's isolated scope and resolves the
// entry symbol within it. The scope is every shared object directly in
// lib/ plus each declared external library location (a file, or a
// directory to expand). Because each shared object links its own
// dependency tree, bundles cannot interfere with each other's library
// versions.
func resolveSymbol(d *Descriptor) (plugin.Symbol, string, *LoadError) {
	archives, lerr := scopeArchives(d)
	if lerr != nil {
		return nil, "", lerr
	}
	if len(archives) == 0 {
		return nil, "", loadErr(d.Name, StageScope,
			fmt.Errorf("no shared objects under %s", d.LibDir))
	}

	var lastErr error
	for _, archive := range archives {
		p, err := plugin.Open(archive)
		if err != nil {
			// A broken archive poisons only itself; keep scanning the
			// rest of the scope.
			lastErr = fmt.Errorf("open %s: %w", archive, err)
			continue
		}
		sym, err := p.Lookup(d.Entry)
		if err != nil {
			lastErr = err
			continue
		}
		return sym, archive, nil
	}

	return nil, "", loadErr(d.Name, StageEntry,
		fmt.Errorf("entry %s not found in scope: %v", d.Entry, lastErr))
}

// scopeArchives collects the shared-object paths forming the bundle's
// loading scope.
func scopeArchives(d *Descriptor) ([]string, *LoadError) {
	var out []string

	if dirExists(d.LibDir) {
		files, err := listSharedObjects(d.LibDir)
		if err != nil {
			return nil, loadErr(d.Name, StageScope, err)
		}
		out = append(out, files...)
	}

	for _, loc := range d.ExternalLibs {
		path := loc
		if !filepath.IsAbs(path) {
			path = filepath.Join(d.Dir, path)
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, loadErr(d.Name, StageScope,
				fmt.Errorf("external library %s: %w", loc, err))
		}
		if info.IsDir() {
			files, err := listSharedObjects(path)
			if err != nil {
				return nil, loadErr(d.Name, StageScope, err)
			}
			out = append(out, files...)
			continue
		}
		out = append(out, path)
	}

	return out, nil
}

func listSharedObjects(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".so") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}
