package extension

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"

	"github.com/dmitrymomot/flowdeck/pkg/props"
	"github.com/dmitrymomot/flowdeck/pkg/sanitizer"
)

// Kind distinguishes the two extension families.
type Kind string

const (
	// KindViewer is a routed HTTP handler mounted under a path.
	KindViewer Kind = "viewer"
	// KindTrigger contributes checker/action types to the scheduler.
	KindTrigger Kind = "trigger"
)

// prefix returns the descriptor key prefix for the kind.
func (k Kind) prefix() string { return string(k) }

// Bundle layout constants.
const (
	confDir       = "conf"
	libDir        = "lib"
	webDir        = "web"
	propsFile     = "plugin.properties"
	overridesFile = "override.properties"
	aboutFile     = "about.md"
)

// Descriptor is the validated description of one extension bundle.
type Descriptor struct {
	Config       *props.Properties
	Kind         Kind
	Name         string
	MountPath    string   // viewer kind only
	Entry        string   // factory name / entry symbol, never empty
	AboutHTML    string   // rendered conf/about.md, may be empty
	Dir          string   // bundle directory
	LibDir       string   // isolated library root, may be absent on disk
	WebDir       string   // static asset dir, "" when absent
	JobTypes     []string // optional domain restriction
	ExternalLibs []string // additional library locations
	Order        int      // ordering hint for nav listing
	Hidden       bool     // visibility flag
}

// readDescriptor builds a Descriptor for the bundle at dir, merging the
// base properties with the optional override file. It fails when the
// base file is missing, the name is empty, or the entry is empty.
func readDescriptor(dir string, kind Kind) (*Descriptor, error) {
	base := filepath.Join(dir, confDir, propsFile)
	override := filepath.Join(dir, confDir, overridesFile)

	var cfg *props.Properties
	var err error
	if _, statErr := os.Stat(override); statErr == nil {
		cfg, err = props.Load(base, override)
	} else {
		cfg, err = props.Load(base)
	}
	if err != nil {
		return nil, err
	}

	p := kind.prefix()
	d := &Descriptor{
		Config:       cfg,
		Kind:         kind,
		Name:         cfg.String(p+".name", ""),
		MountPath:    cfg.String(p+".path", ""),
		Entry:        cfg.String(p+".entry", ""),
		Order:        cfg.Int(p+".order", 0),
		Hidden:       cfg.Bool(p+".hidden", false),
		JobTypes:     cfg.List(p + ".jobtypes"),
		ExternalLibs: cfg.List(p + ".external.libs"),
		Dir:          dir,
		LibDir:       filepath.Join(dir, libDir),
	}

	if d.Name == "" {
		return nil, fmt.Errorf("missing %s.name", p)
	}
	if d.Entry == "" {
		return nil, fmt.Errorf("missing %s.entry", p)
	}
	if kind == KindViewer && d.MountPath == "" {
		return nil, fmt.Errorf("missing %s.path", p)
	}

	if w := filepath.Join(dir, webDir); dirExists(w) {
		d.WebDir = w
	}

	if about, err := renderAbout(filepath.Join(dir, confDir, aboutFile)); err == nil {
		d.AboutHTML = about
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("render %s: %w", aboutFile, err)
	}

	return d, nil
}

// renderAbout converts the bundle's optional markdown description to
// HTML for the extensions index page. The output is sanitized to basic
// formatting tags; bundles do not get to inject script into the index.
func renderAbout(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		return "", err
	}
	return sanitizer.SanitizeHTML(buf.String()), nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
