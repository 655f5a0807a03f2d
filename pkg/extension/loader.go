package extension

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// LoadDescriptors scans dir for extension bundles of the given kind and
// returns one validated descriptor per loadable bundle. A missing or
// empty plugin directory is not an error. Bad bundles (missing
// descriptor file, missing name or entry, duplicate name) are logged
// and skipped; the scan always continues.
func LoadDescriptors(dir string, kind Kind, logger *slog.Logger) ([]*Descriptor, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("extension directory absent, skipping",
				slog.String("dir", dir),
				slog.String("kind", string(kind)),
			)
			return nil, nil
		}
		return nil, err
	}

	seen := make(map[string]string) // name -> bundle dir
	var out []*Descriptor

	// Deterministic load order regardless of readdir ordering.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		bundle := filepath.Join(dir, entry.Name())
		if !entry.IsDir() {
			logger.Warn("extension path is not a directory, skipping",
				slog.String("path", bundle),
			)
			continue
		}

		d, err := readDescriptor(bundle, kind)
		if err != nil {
			logLoadError(logger, loadErr(entry.Name(), StageDescriptor, err))
			continue
		}

		if prev, dup := seen[d.Name]; dup {
			logLoadError(logger, loadErr(entry.Name(), StageDescriptor,
				&duplicateNameError{name: d.Name, prev: prev}))
			continue
		}
		seen[d.Name] = bundle

		out = append(out, d)
	}

	return out, nil
}

// duplicateNameError wraps ErrDuplicateName with context.
type duplicateNameError struct {
	name string
	prev string
}

func (e *duplicateNameError) Error() string {
	return "duplicate name " + e.name + " (first declared by " + e.prev + ")"
}

func (e *duplicateNameError) Unwrap() error { return ErrDuplicateName }

func logLoadError(logger *slog.Logger, err *LoadError) {
	logger.Error("extension skipped",
		slog.String("bundle", err.Bundle),
		slog.String("stage", err.Stage),
		slog.Any("error", err.Err),
	)
}
