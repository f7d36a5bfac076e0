package middleware

import (
	"context"
	"net/http"
	"time"

	"chat-service/internal/session"
	"chat-service/internal/user"
)

// unexported, collision-proof context keys
type userContextKeyType struct{}

var userKey = userContextKeyType{}

// UserFromContext extracts the authenticated user from context.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(userKey).(*user.User)
	return u, ok
}

// AuthMiddleware resolves the session cookie into a full user record.
// A token that does not resolve (unknown, expired, or referencing a
// deleted user) is treated as "no session", never as an error.
type AuthMiddleware struct {
	Store     session.Store
	Directory user.Directory
}

func NewAuthMiddleware(store session.Store, directory user.Directory) *AuthMiddleware {
	return &AuthMiddleware{Store: store, Directory: directory}
}

// resolve walks cookie -> session store -> directory. The session
// stores only the user id; the full record is looked up per request.
func (a *AuthMiddleware) resolve(r *http.Request) (*user.User, bool) {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	sess, err := a.Store.Get(r.Context(), cookie.Value)
	if err != nil || sess == nil {
		return nil, false
	}

	// enforce expiry even when the store's eviction lags
	if time.Now().After(sess.ExpiresAt) {
		_ = a.Store.Delete(r.Context(), cookie.Value)
		return nil, false
	}

	u, err := a.Directory.FindByID(r.Context(), sess.UserID)
	if err != nil || u == nil {
		return nil, false
	}

	return u, true
}

// RequireAuth rejects unauthenticated requests with 401.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := a.resolve(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuthRedirect sends unauthenticated requests to the login
// destination instead of a bare 401; used for browser-facing routes.
func (a *AuthMiddleware) RequireAuthRedirect(target string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := a.resolve(r)
		if !ok {
			http.Redirect(w, r, target, http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
