package internal

// Handler declares routes on a router.
//
// Example:
//
//	type StatusHandler struct {
//	    store session.Store
//	}
//
//	func (h *StatusHandler) Routes(r flowdeck.Router) {
//	    r.GET("/status", h.showStatus)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// It receives a Context and returns an error.
// Returning a non-nil error triggers the error handling middleware.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// Middleware can inspect/modify the request, short-circuit processing,
// or wrap the response.
//
// Example:
//
//	func RequireAdmin(roles user.RoleResolver) flowdeck.Middleware {
//	    return func(next flowdeck.HandlerFunc) flowdeck.HandlerFunc {
//	        return func(c flowdeck.Context) error {
//	            if !user.HasPermission(nil, roles, c.User(), user.Admin) {
//	                return c.Error(403, "forbidden")
//	            }
//	            return next(c)
//	        }
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from handlers.
type ErrorHandler func(Context, error) error
