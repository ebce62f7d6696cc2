package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/forumkit/forumkit/internal/domain"
	"github.com/forumkit/forumkit/internal/jwt"
)

// Key to store the actor in the request context
type key int

const actorKey key = 0

// Auth holds dependencies for authentication middleware.
type Auth struct {
	jwtService jwt.Service
}

func NewAuth(jwtService jwt.Service) *Auth {
	return &Auth{jwtService: jwtService}
}

// OptionalAuth populates the actor context from a valid token and falls
// back to the guest actor otherwise. Read endpoints use it so guests and
// members share one code path.
func (a *Auth) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := a.extractActor(r)
			if err != nil {
				actor = domain.Guest
			}
			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NeedAuth rejects requests without a valid token.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth(false)
}

// AdminOnly rejects requests without a valid admin token.
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return a.auth(true)
}

func (a *Auth) auth(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := a.extractActor(r)
			if err != nil {
				http.Error(w, "Please sign-in", http.StatusUnauthorized)
				return
			}
			if adminOnly && !actor.Admin {
				http.Error(w, "Access denied. Only for admin", http.StatusForbidden)
				return
			}
			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *Auth) extractActor(r *http.Request) (domain.Actor, error) {
	// Cookie first for browser clients, Authorization header for the rest
	var tokenString string
	if accessCookie, err := r.Cookie("accessToken"); err == nil {
		tokenString = accessCookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}
	if tokenString == "" {
		return domain.Actor{}, errNoToken
	}
	return a.jwtService.DecodeActor(tokenString)
}

var errNoToken = errorString("no token")

type errorString string

func (e errorString) Error() string { return string(e) }

// ActorFromContext returns the request's actor; a request that skipped
// the auth middleware reads as a guest.
func ActorFromContext(r *http.Request) domain.Actor {
	actor, ok := r.Context().Value(actorKey).(domain.Actor)
	if !ok {
		return domain.Guest
	}
	return actor
}
