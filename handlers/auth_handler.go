package handlers

import (
	"errors"
	"net/http"

	"legalaid-backend/logger"
	"legalaid-backend/middleware"
	"legalaid-backend/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles signup, login and the current-user endpoint
type AuthHandler struct {
	auth *service.AuthService
	log  *logger.Logger
}

func NewAuthHandler(auth *service.AuthService, log *logger.Logger) *AuthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHandler{auth: auth, log: log.With("handler", "AuthHandler")}
}

// SignupRequest represents the request body for creating an account
type SignupRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Username string  `json:"username" binding:"required,min=3,max=64"`
	FullName string  `json:"full_name" binding:"required"`
	Password string  `json:"password" binding:"required,min=6"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	res, err := h.auth.Signup(c.Request.Context(), service.SignupRequest{
		Email:    req.Email,
		Username: req.Username,
		FullName: req.FullName,
		Password: req.Password,
		Phone:    req.Phone,
		Location: req.Location,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			respondError(c, http.StatusBadRequest, "CONFLICT", "Email or username already registered")
			return
		}
		h.log.Error("Signup failed", "error", err)
		respondError(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create user")
		return
	}
	respondOK(c, http.StatusCreated, res)
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Login handles POST /auth/login. Both JSON and form bodies are accepted.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.Header("WWW-Authenticate", "Bearer")
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Incorrect username or password")
		case errors.Is(err, service.ErrInactiveUser):
			respondError(c, http.StatusBadRequest, "INACTIVE_USER", "Inactive user")
		default:
			h.log.Error("Login failed", "error", err)
			respondError(c, http.StatusInternalServerError, "LOGIN_FAILED", "Login failed")
		}
		return
	}
	respondOK(c, http.StatusOK, res)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	respondOK(c, http.StatusOK, middleware.CurrentUser(c))
}
