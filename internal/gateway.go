package internal

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/flowdeck/pkg/sanitizer"
	"github.com/dmitrymomot/flowdeck/pkg/session"
	"github.com/dmitrymomot/flowdeck/pkg/user"
)

// gateway authenticates every page request. Resolution order: session
// token from the cookie, then from the "session.id" parameter for
// programmatic clients. A session whose pinned IP does not match the
// requesting client is ignored, not deleted; the legitimate owner keeps
// its session.
//
// Unauthenticated requests are handled here: GET renders the login page
// (or a JSON error for AJAX callers), POST accepts credentials either as
// an action=login call or as raw username/password fields that authorize
// just this one request through a transient session.
func (a *App) gateway(next HandlerFunc) HandlerFunc {
	return func(c Context) error {
		sess := a.resolveSession(c)

		// Logout wins over everything else on the request.
		if c.HasQuery("logout") {
			return a.handleLogout(c, sess)
		}

		// A login action runs before session dispatch: even a caller that
		// already holds a valid session gets a fresh registered one and
		// the structured payload carrying its token.
		if c.Request().Method == http.MethodPost && !isMultipart(c.Request()) {
			if err := parseRequestForm(c); err != nil {
				return err
			}
			if c.Form("action") == "login" {
				return a.handleLoginAction(c)
			}
		}

		if sess != nil {
			c.Set(sessionKey{}, sess)
			markRequestUser(c.Request().Context(), sess.UserID())
			// Authenticated GETs are first offered to the static asset
			// resolver; only misses reach the handler.
			if a.serveStaticAsset(c) {
				return nil
			}
			return next(c)
		}

		if c.Request().Method == http.MethodPost {
			return a.handleUnauthenticatedPost(c, next)
		}

		if c.IsAjax() {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "session"})
		}
		return a.renderLogin(c, "")
	}
}

// resolveSession finds the session for the request, or nil.
func (a *App) resolveSession(c Context) *session.Session {
	return a.lookupSession(c, a.sessionToken(c))
}

// lookupSession resolves a token against the store and the IP pin.
func (a *App) lookupSession(c Context, token string) *session.Session {
	if token == "" {
		return nil
	}

	sess, err := a.sessions.Get(c.Context(), token)
	if err != nil {
		return nil
	}

	// IP pinning: a stolen token presented from another address is useless.
	if ip := c.ClientIP(); sess.IP != ip {
		a.logger.WarnContext(c.Context(), "session ip mismatch",
			slog.String("session_ip", sess.IP),
			slog.String("client_ip", ip),
		)
		return nil
	}

	return sess
}

// sessionToken extracts the session token from the cookie or, failing
// that, from the session.id parameter.
func (a *App) sessionToken(c Context) string {
	if token, err := c.Cookie(a.cookieName); err == nil && token != "" {
		return token
	}
	if token := c.Query(sessionParam); token != "" {
		return token
	}
	// POST bodies can carry the token as a form field. Multipart bodies
	// are skipped here; they are parsed later under the upload cap.
	if c.Request().Method == http.MethodPost && !isMultipart(c.Request()) {
		return c.Form(sessionParam)
	}
	return ""
}

// handleLogout removes the session from the store and clears the cookie.
// Logout always answers with a redirect home, AJAX or not; no further
// routing occurs on the request.
func (a *App) handleLogout(c Context, sess *session.Session) error {
	if sess != nil {
		if err := a.sessions.Delete(c.Context(), sess.Token); err != nil {
			a.logger.ErrorContext(c.Context(), "session delete failed", slog.Any("error", err))
		}
	}
	c.DeleteCookie(a.cookieName)
	return c.Redirect(http.StatusFound, "/")
}

// handleUnauthenticatedPost processes POSTs that arrive without a session
// and without a login action (the gateway dispatched that already).
//
// A POST carrying username/password fields is authenticated into a
// transient session: the request proceeds as that user, but nothing is
// stored and no cookie is set, so the credentials must accompany every
// call. Anything else is bounced to the login page.
func (a *App) handleUnauthenticatedPost(c Context, next HandlerFunc) error {
	if isMultipart(c.Request()) {
		return a.handleMultipartPost(c, next)
	}

	username, password := c.Form("username"), c.Form("password")
	if username != "" && password != "" {
		sess, err := a.login(c, username, password)
		if err != nil {
			return a.loginFailed(c, err)
		}

		// Transient session: authorizes this request only.
		c.Set(sessionKey{}, sess)
		markRequestUser(c.Request().Context(), sess.UserID())
		return next(c)
	}

	if c.IsAjax() {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid Session. Need to re-login"})
	}
	return a.renderLogin(c, "")
}

// handleMultipartPost parses the upload body under the configured cap,
// then settles identity from the parsed fields: a session token field,
// else a username/password pair checked into a transient session. Upload
// clients always get plain-text errors, never a page.
func (a *App) handleMultipartPost(c Context, next HandlerFunc) error {
	if _, err := c.MultipartForm(); err != nil {
		return err
	}

	if sess := a.lookupSession(c, c.Form(sessionParam)); sess != nil {
		c.Set(sessionKey{}, sess)
		markRequestUser(c.Request().Context(), sess.UserID())
		return next(c)
	}

	username, password := c.Form("username"), c.Form("password")
	if username == "" || password == "" {
		return c.String(http.StatusOK, "Login error. Need username and password")
	}

	sess, err := a.login(c, username, password)
	if err != nil {
		return c.String(http.StatusOK, "Login error: "+loginErrorMessage(err))
	}

	c.Set(sessionKey{}, sess)
	markRequestUser(c.Request().Context(), sess.UserID())
	return next(c)
}

// handleLoginAction authenticates credentials from an action=login POST,
// registers the session, sets the cookie, and returns the token in a
// structured payload. This is how a browser acquires its first cookie and
// how programmatic clients obtain a token for the session.id parameter.
func (a *App) handleLoginAction(c Context) error {
	sess, err := a.login(c, c.Form("username"), c.Form("password"))
	if err != nil {
		return c.JSON(http.StatusOK, map[string]string{"error": loginErrorMessage(err)})
	}

	if err := a.sessions.Put(c.Context(), sess); err != nil {
		return ErrInternal("failed to persist session", WithError(err))
	}
	c.SetCookie(a.cookieName, sess.Token, int(a.sessionAge.Seconds()))
	markRequestUser(c.Request().Context(), sess.UserID())

	return c.JSON(http.StatusOK, map[string]string{
		"status":     "success",
		sessionParam: sess.Token,
	})
}

// login authenticates credentials and builds a session pinned to the
// caller's address.
func (a *App) login(c Context, username, password string) (*session.Session, error) {
	if a.users == nil {
		return nil, user.ErrAuthentication
	}

	u, err := a.users.Authenticate(c.Context(), username, password)
	if err != nil {
		a.logger.WarnContext(c.Context(), "login failed",
			slog.String("username", username),
			slog.String("ip", c.ClientIP()),
		)
		return nil, err
	}

	a.logger.InfoContext(c.Context(), "login",
		slog.String("username", username),
		slog.String("ip", c.ClientIP()),
	)
	return session.New(u, c.ClientIP()), nil
}

// loginFailed reports a failed credential POST in the shape the caller
// understands.
func (a *App) loginFailed(c Context, err error) error {
	msg := loginErrorMessage(err)
	if c.IsAjax() {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": msg})
	}
	return a.renderLogin(c, msg)
}

// loginErrorMessage keeps internal failures (store outages, driver
// errors) out of login responses.
func loginErrorMessage(err error) string {
	if errors.Is(err, user.ErrAuthentication) {
		return err.Error()
	}
	return "authentication failed"
}

// renderLogin writes the login page. The message is stripped of any HTML
// before it is echoed back.
func (a *App) renderLogin(c Context, errMsg string) error {
	return c.Render(http.StatusOK, loginPage(sanitizer.StripHTML(errMsg)))
}

// parseRequestForm parses a urlencoded body ahead of form reads.
// Multipart bodies go through Context.MultipartForm instead, which
// enforces the upload cap.
func parseRequestForm(c Context) error {
	if err := c.Request().ParseForm(); err != nil {
		return ErrBadRequest("malformed form body", WithError(err))
	}
	return nil
}

func isMultipart(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "multipart/form-data")
}
