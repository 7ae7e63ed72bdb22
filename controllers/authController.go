package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"casri/middleware"
	"casri/services"
)

type AuthController struct {
	auth   *services.AuthService
	ttl    time.Duration
	secure bool
}

// NewAuthController issues cookies living ttl; secure marks them
// Secure and SameSite=None for the cross-site dashboard.
func NewAuthController(auth *services.AuthService, ttl time.Duration, secure bool) *AuthController {
	return &AuthController{auth: auth, ttl: ttl, secure: secure}
}

func (ac *AuthController) Login(c *gin.Context) {
	var in services.Credentials
	if !bind(c, &in) {
		return
	}

	session, err := ac.auth.Login(c.Request.Context(), in, services.Client{
		IP:     getClientIP(c),
		Device: c.Request.UserAgent(),
	})
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	ac.setCookie(c, session.Token, int(ac.ttl.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   session.Token,
		"user":    session.User,
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	ac.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (ac *AuthController) Me(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	u, err := ac.auth.Me(c.Request.Context(), a)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (ac *AuthController) Sessions(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	sessions, err := ac.auth.RecentLogins(c.Request.Context(), a)
	if err != nil {
		respondError(c, err, "No sessions found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sessions})
}

func (ac *AuthController) CreateUser(c *gin.Context) {
	var in services.NewUser
	if !bind(c, &in) {
		return
	}
	u, err := ac.auth.CreateUser(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": u})
}

func (ac *AuthController) ListUsers(c *gin.Context) {
	users, err := ac.auth.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "No users found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users})
}

func (ac *AuthController) setCookie(c *gin.Context, token string, maxAge int) {
	cookie := &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		MaxAge:   maxAge,
		Path:     "/",
		Secure:   ac.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if ac.secure {
		cookie.SameSite = http.SameSiteNoneMode
	}
	http.SetCookie(c.Writer, cookie)
}

func getClientIP(c *gin.Context) string {
	ip := c.Request.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = c.ClientIP()
	}
	return ip
}
