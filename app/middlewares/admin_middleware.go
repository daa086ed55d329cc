package middlewares

import (
	"context"
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/utils/sessions"
	"github.com/unrolled/render"
)

const AdminIDKey contextKey = "admin_id"

func AdminID(r *http.Request) string {
	id, _ := r.Context().Value(AdminIDKey).(string)
	return id
}

// RequireAdmin guards the back office. The admin session is tracked
// separately from the customer session, and the role is re-checked on every
// request so a demoted account loses access immediately.
func RequireAdmin(store sessions.SessionStore, userRepo repositories.UserRepositoryImpl, rnd *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			adminID := store.GetAdminID(r)
			if adminID == "" {
				_ = rnd.JSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "admin login required"})
				return
			}

			user, err := userRepo.FindByID(r.Context(), adminID)
			if err != nil || user == nil || user.Role != models.RoleAdmin {
				_ = rnd.JSON(w, http.StatusForbidden, map[string]interface{}{"success": false, "message": "admin access denied"})
				return
			}

			ctx := context.WithValue(r.Context(), AdminIDKey, adminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
