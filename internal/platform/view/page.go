package view

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	jwtmw "papertrade/internal/platform/jwt"
	"papertrade/internal/shared/apperr"
)

// Render writes page name with data, adding the flash message and login state.
func Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flash"] = popFlash(c)
	_, data["LoggedIn"] = jwtmw.UserID(c)
	c.HTML(status, name, data)
}

// Apology renders message as an error page with status.
func Apology(c *gin.Context, status int, message string) {
	Render(c, status, "apology", gin.H{
		"Status":  status,
		"Message": message,
	})
}

// Fail renders err: user-facing validation errors as a 400 apology, anything
// else as a logged 500.
func Fail(c *gin.Context, err error) {
	FailWithStatus(c, http.StatusBadRequest, err)
}

// FailWithStatus is Fail with a custom status for validation errors.
func FailWithStatus(c *gin.Context, status int, err error) {
	if msg, ok := apperr.Message(err); ok {
		Apology(c, status, msg)
		return
	}
	slog.Error("request failed",
		"error", err,
		"method", c.Request.Method,
		"path", c.FullPath(),
		"remote_addr", c.ClientIP(),
	)
	Apology(c, http.StatusInternalServerError, "internal server error")
}
