package handler

import (
	"context"
	"net/http"
	"time"

	"auction-house/internal/models"
	"auction-house/services/web/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

// AuthServiceInterface defines the account operations the handlers need
type AuthServiceInterface interface {
	Register(ctx context.Context, username, email, password, confirmation string) (models.User, error)
	Login(ctx context.Context, username, password string) (models.Session, models.User, error)
	Logout(ctx context.Context, token string) error
	SessionLifetime() time.Duration
}

// AuthHandler serves the login, logout and registration pages
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// LoginFormHandler renders the login page
func (h *AuthHandler) LoginFormHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", helpers.PageData(c, "Log In", 0))
}

// LoginHandler verifies the credentials and opens a cookie session
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var form helpers.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		utils.Warn("login rejected, missing fields", map[string]any{"error": err.Error()})
		data := helpers.PageData(c, "Log In", 0)
		data["Message"] = "Username and password are required."
		c.HTML(http.StatusOK, "login.html", data)
		return
	}

	session, user, err := h.service.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.Warn("login failed", map[string]any{"username": form.Username, "error": err.Error()})
		data := helpers.PageData(c, "Log In", 0)
		data["Message"] = message
		c.HTML(status, "login.html", data)
		return
	}

	h.setSessionCookie(c, session)
	helpers.LogSuccess("LoginHandler", "user logged in", map[string]any{"user_id": user.ID})
	utils.Redirect(c, "/")
}

// LogoutHandler drops the session and clears the cookie
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	if token, err := c.Cookie(helpers.SessionCookieName); err == nil && token != "" {
		if err := h.service.Logout(c.Request.Context(), token); err != nil {
			utils.Warn("logout failed", map[string]any{"error": err.Error()})
		}
	}
	c.SetCookie(helpers.SessionCookieName, "", -1, "/", "", false, true)
	utils.Redirect(c, "/")
}

// RegisterFormHandler renders the registration page
func (h *AuthHandler) RegisterFormHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", helpers.PageData(c, "Register", 0))
}

// RegisterHandler creates the account and logs the new user straight in
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var form helpers.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		utils.Warn("registration rejected, missing fields", map[string]any{"error": err.Error()})
		data := helpers.PageData(c, "Register", 0)
		data["Message"] = "Username and password are required."
		c.HTML(http.StatusOK, "register.html", data)
		return
	}

	user, err := h.service.Register(c.Request.Context(), form.Username, form.Email, form.Password, form.Confirmation)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.Warn("registration failed", map[string]any{"username": form.Username, "error": err.Error()})
		data := helpers.PageData(c, "Register", 0)
		data["Message"] = message
		c.HTML(status, "register.html", data)
		return
	}

	session, _, err := h.service.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		utils.Error("auto-login after registration failed", map[string]any{"user_id": user.ID, "error": err.Error()})
		utils.Redirect(c, "/login")
		return
	}

	h.setSessionCookie(c, session)
	helpers.LogSuccess("RegisterHandler", "user registered", map[string]any{"user_id": user.ID})
	utils.Redirect(c, "/")
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, session models.Session) {
	maxAge := int(h.service.SessionLifetime() / time.Second)
	c.SetCookie(helpers.SessionCookieName, session.Token, maxAge, "/", "", false, true)
}
