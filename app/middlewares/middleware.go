package middlewares

import (
	"context"
	"log"
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/utils/sessions"
	"github.com/unrolled/render"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	CartCountKey contextKey = "cart_count"
)

// UserID extracts the authenticated customer id placed by RequireUser.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(UserIDKey).(string)
	return id
}

func CartCount(r *http.Request) int {
	count, _ := r.Context().Value(CartCountKey).(int)
	return count
}

// RequireUser rejects requests without a logged-in, non-blocked customer and
// puts the user id on the context for downstream handlers.
func RequireUser(store sessions.SessionStore, userRepo repositories.UserRepositoryImpl, rnd *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := store.GetUserID(r)
			if userID == "" {
				_ = rnd.JSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "login required"})
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil || user == nil {
				_ = rnd.JSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "session invalid"})
				return
			}
			if user.IsBlocked {
				if err := store.ClearUserID(w, r); err != nil {
					log.Printf("RequireUser: failed to clear session for blocked user %s: %v", userID, err)
				}
				_ = rnd.JSON(w, http.StatusForbidden, map[string]interface{}{"success": false, "message": "account is blocked"})
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CartCountMiddleware annotates requests with the badge count shown in the
// storefront header. Failures degrade to zero rather than failing the page.
func CartCountMiddleware(store sessions.SessionStore, cartRepo repositories.CartRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := store.GetUserID(r)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}
			count, err := cartRepo.GetCartItemCount(r.Context(), userID)
			if err != nil {
				log.Printf("CartCountMiddleware: %v", err)
				count = 0
			}
			ctx := context.WithValue(r.Context(), CartCountKey, count)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
