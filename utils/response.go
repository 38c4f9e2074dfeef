package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HTMLError renders the shared error page with a user-visible message
func HTMLError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{
		"Status":  status,
		"Message": message,
	})
}

// Redirect sends a 303 so a form POST is followed by a GET
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
