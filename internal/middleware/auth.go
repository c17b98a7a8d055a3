package middleware

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/models"
)

// RequireAuth returns a middleware that verifies Firebase session cookies
// and resolves the caller's staff record. The staff role drives route
// guarding downstream; a verified identity with no staff row is turned
// away.
func RequireAuth(authClient *auth.Client, db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Check if Firebase is initialized
			if authClient == nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Auth is not configured")
			}

			// Get the session cookie
			cookie, err := c.Cookie("session")
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Please log in to continue.")
			}

			// Verify the session cookie
			decodedToken, err := authClient.VerifySessionCookie(c.Request().Context(), cookie.Value)
			if err != nil {
				// Invalid session, clear the cookie before rejecting
				clearCookie := &http.Cookie{
					Name:     "session",
					Value:    "",
					MaxAge:   -1,
					HttpOnly: true,
					Path:     "/",
				}
				c.SetCookie(clearCookie)
				return echo.NewHTTPError(http.StatusUnauthorized, "Session expired, please log in again.")
			}

			email, _ := decodedToken.Claims["email"].(string)
			if email == "" {
				return echo.NewHTTPError(http.StatusForbidden, "Account has no email claim")
			}

			var staff models.StaffUser
			if err := db.Where("email = ?", email).First(&staff).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return echo.NewHTTPError(http.StatusForbidden, "No staff record for this account")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to look up staff record")
			}

			// Set user info in context for downstream handlers
			c.Set("userUID", decodedToken.UID)
			c.Set("userEmail", email)
			c.Set("staffID", staff.ID)
			c.Set("staffName", staff.Name)
			c.Set("staffRole", staff.Role)

			return next(c)
		}
	}
}

// RequireRole returns a middleware that lets through only the given
// roles. It must run after RequireAuth.
func RequireRole(roles ...models.StaffRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("staffRole").(models.StaffRole)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "Role not resolved")
			}
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "You don't have permission to access this resource.")
		}
	}
}
