// Package extension discovers, loads, and registers the pluggable
// request handlers and trigger types that extend the web front-end.
//
// An extension ships as a self-contained bundle directory:
//
//	<bundle>/
//	    conf/plugin.properties    required descriptor
//	    conf/override.properties  optional, wins on key conflicts
//	    conf/about.md             optional, rendered for the nav index
//	    lib/                      isolated library root (.so files)
//	    web/                      optional static assets
//
// Two kinds exist. A viewer contributes a routable HTTP handler mounted
// under its declared path. A trigger contributes checker and action
// types to the scheduling engine's registration context.
//
// Each bundle's code loads in its own scope: a Go shared object links
// its own dependency tree, so two bundles may ship conflicting versions
// of a library without interfering. Extensions compiled into the host
// binary register a named factory instead and are discovered through
// the same descriptor pipeline.
//
// Loading happens once at start-up, sequentially, before the server
// accepts requests; the resulting Registry is immutable afterwards and
// extensions are never unloaded.
package extension
