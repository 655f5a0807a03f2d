// Package cookie issues and reads HTTP cookies with consistent attributes.
//
// The session gateway sets and clears the session token cookie through a
// Manager so path, SameSite, and HttpOnly never drift between the login
// and logout paths. Deletion reuses the same attributes; browsers only
// drop a cookie when they match.
//
//	m := cookie.New(cookie.WithSecure(true))
//
//	m.Set(w, "azkaban.browser.session.id", sess.Token, 86400)
//	token, err := m.Get(r, "azkaban.browser.session.id")
//	if errors.Is(err, cookie.ErrNotFound) {
//		// no session cookie on this request
//	}
//	m.Delete(w, "azkaban.browser.session.id")
//
// Defaults: path "/", HttpOnly, SameSite=Lax. Override per attribute with
// [WithDomain], [WithPath], [WithSecure], [WithHTTPOnly], [WithSameSite].
package cookie
