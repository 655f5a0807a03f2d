// Package flowdeck is a web front-end for job orchestration: an
// authenticated gateway that resolves a session for every page request,
// and a dynamic extension loader that mounts viewer plugins and installs
// trigger plugins discovered on disk at start-up.
//
// # Session gateway
//
// Every page request is resolved against the session store before it
// reaches a handler. The token travels in a cookie for browsers and in
// the session.id parameter for programmatic clients, and each session is
// pinned to the IP address that created it. Unauthenticated browser
// requests get the login page; AJAX callers get a JSON error; POSTs
// carrying username/password fields are authorized for just that one
// request through a transient session that is never stored.
//
// # Extensions
//
// Viewer bundles contribute pages: each loads from a directory with a
// conf/plugin.properties descriptor and mounts an http.Handler at its
// configured path. Trigger bundles register condition checkers and
// actions into the trigger context. Bundles can be compiled in (builtin
// factories, registered the way database/sql drivers are) or loaded from
// shared objects in the bundle's lib/ directory. A bundle that fails to
// load is logged and skipped; the server always starts.
//
// # Quick start
//
//	app := flowdeck.New(
//	    flowdeck.WithLogger(log),
//	    flowdeck.WithSessionStore(session.NewRedis(client)),
//	    flowdeck.WithUserManager(users),
//	    flowdeck.WithViewerDir("plugins/viewer"),
//	    flowdeck.WithTriggerDir("plugins/trigger"),
//	    flowdeck.WithAssetDir("web"),
//	)
//
//	if err := app.Run(":8080", flowdeck.Logger(log)); err != nil {
//	    log.Error("server failed", slog.Any("error", err))
//	}
package flowdeck
