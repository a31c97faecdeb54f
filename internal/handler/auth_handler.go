package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenlms/lumen-backend/internal/middleware"
	"github.com/lumenlms/lumen-backend/internal/model"
	"github.com/lumenlms/lumen-backend/internal/response"
	"github.com/lumenlms/lumen-backend/internal/service"
	"github.com/lumenlms/lumen-backend/internal/validator"
)

// AuthHandler handles signup, login, logout and profile endpoints.
type AuthHandler struct {
	identity *service.IdentityService
	tokens   *service.TokenService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(identity *service.IdentityService, tokens *service.TokenService) *AuthHandler {
	return &AuthHandler{identity: identity, tokens: tokens}
}

// Signup godoc
// POST /api/v1/auth/signup
// Creates an account and returns a token for its fresh session.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sess, err := h.identity.Signup(c.Request.Context(), req)
	if err != nil {
		failFromError(c, err)
		return
	}

	token, err := h.tokens.Generate(sess)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"token":   token,
		"account": sess.Account,
	})
}

// Login godoc
// POST /api/v1/auth/login
// Authenticates by username or email plus password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sess, err := h.identity.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		failFromError(c, err)
		return
	}

	token, err := h.tokens.Generate(sess)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":   token,
		"account": sess.Account,
	})
}

// Logout godoc
// POST /api/v1/auth/logout
// Clears the account's session slot. Idempotent.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.identity.Logout(c.Request.Context(), sess.Account.ID); err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the authenticated account, credential-stripped.
func (h *AuthHandler) Me(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"account": sess.Account})
}
