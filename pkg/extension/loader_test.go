package extension

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// writeBundle creates a bundle directory with the given properties
// files. override may be empty to skip the override file.
func writeBundle(t *testing.T, root, name, base, override string) string {
	t.Helper()

	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "conf"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0o755))

	if base != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "conf", "plugin.properties"), []byte(base), 0o644))
	}
	if override != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "conf", "override.properties"), []byte(override), 0o644))
	}
	return dir
}

func TestLoadDescriptorsMissingDir(t *testing.T) {
	t.Parallel()

	ds, err := LoadDescriptors(filepath.Join(t.TempDir(), "absent"), KindViewer, discardLogger())
	require.NoError(t, err)
	require.Empty(t, ds)
}

func TestLoadDescriptorsSkipsBadBundles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	// Healthy bundle.
	writeBundle(t, root, "hdfs",
		"viewer.name=hdfs\nviewer.path=hdfs\nviewer.entry=NewHDFSViewer\n", "")
	// Missing plugin.properties entirely.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "broken", "conf"), 0o755))
	// Missing entry key.
	writeBundle(t, root, "noentry", "viewer.name=x\nviewer.path=x\n", "")
	// A stray file in the plugin dir.
	require.NoError(t, os.WriteFile(filepath.Join(root, "README"), []byte("hi"), 0o644))

	ds, err := LoadDescriptors(root, KindViewer, discardLogger())
	require.NoError(t, err)
	require.Len(t, ds, 1)
	require.Equal(t, "hdfs", ds[0].Name)
	require.Equal(t, "NewHDFSViewer", ds[0].Entry)
}

func TestLoadDescriptorsOverrideWins(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeBundle(t, root, "hdfs",
		"viewer.name=hdfs\nviewer.path=hdfs\nviewer.entry=NewHDFSViewer\nviewer.order=3\nviewer.hidden=false\n",
		"viewer.order=9\nviewer.hidden=true\n")

	ds, err := LoadDescriptors(root, KindViewer, discardLogger())
	require.NoError(t, err)
	require.Len(t, ds, 1)

	d := ds[0]
	require.Equal(t, 9, d.Order)
	require.True(t, d.Hidden)
	// Base values survive where the override is silent.
	require.Equal(t, "hdfs", d.Name)
	require.Equal(t, "hdfs", d.MountPath)
}

func TestLoadDescriptorsDuplicateName(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeBundle(t, root, "a-first",
		"viewer.name=dupe\nviewer.path=a\nviewer.entry=NewA\n", "")
	writeBundle(t, root, "b-second",
		"viewer.name=dupe\nviewer.path=b\nviewer.entry=NewB\n", "")

	ds, err := LoadDescriptors(root, KindViewer, discardLogger())
	require.NoError(t, err)
	require.Len(t, ds, 1)
	require.Equal(t, "a-first", filepath.Base(ds[0].Dir))
}

func TestLoadDescriptorsViewerRequiresPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeBundle(t, root, "nopath", "viewer.name=x\nviewer.entry=NewX\n", "")

	ds, err := LoadDescriptors(root, KindViewer, discardLogger())
	require.NoError(t, err)
	require.Empty(t, ds)
}

func TestLoadDescriptorsTriggerKind(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeBundle(t, root, "sla",
		"trigger.name=sla\ntrigger.entry=NewSLATrigger\ntrigger.external.libs=ext\n", "")

	ds, err := LoadDescriptors(root, KindTrigger, discardLogger())
	require.NoError(t, err)
	require.Len(t, ds, 1)
	require.Equal(t, KindTrigger, ds[0].Kind)
	require.Equal(t, []string{"ext"}, ds[0].ExternalLibs)
	// Trigger descriptors carry no mount path.
	require.Empty(t, ds[0].MountPath)
}

func TestLoadDescriptorsAboutAndWebDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := writeBundle(t, root, "hdfs",
		"viewer.name=hdfs\nviewer.path=hdfs\nviewer.entry=NewHDFSViewer\n", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "conf", "about.md"), []byte("# HDFS Browser\n\nBrowse *files*.\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "web"), 0o755))

	ds, err := LoadDescriptors(root, KindViewer, discardLogger())
	require.NoError(t, err)
	require.Len(t, ds, 1)
	require.Contains(t, ds[0].AboutHTML, "<h1>HDFS Browser</h1>")
	require.Contains(t, ds[0].AboutHTML, "<em>files</em>")
	require.Equal(t, filepath.Join(dir, "web"), ds[0].WebDir)
}
