package portfolio

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// IsAdmin checks if the current session is authenticated.
func IsAdmin(c echo.Context) bool {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	auth, ok := sess.Values["authenticated"].(bool)
	return ok && auth
}

func setAdminSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values["authenticated"] = true
	return sess.Save(c.Request(), c.Response())
}

func clearAdminSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

// requireAdmin gates the write endpoints behind an authenticated session.
func (a *App) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IsAdmin(c) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required.")
		}
		return next(c)
	}
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}

	var body struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}

	if subtle.ConstantTimeCompare([]byte(body.Password), []byte(a.Config.AdminPassword)) != 1 {
		a.loginLimiter.Record(c.RealIP())
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid password.")
	}
	if err := setAdminSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged in."})
}

func (a *App) handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out."})
}
