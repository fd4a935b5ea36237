package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"github.com/albanianalps/agency-backend/internal/database"
	"github.com/albanianalps/agency-backend/internal/models"
	"github.com/albanianalps/agency-backend/pkg/jwt"
)

// AuthHandler handles staff account registration and login
type AuthHandler struct {
	users      *database.UserRepository
	jwtService *jwt.Service
	logger     *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(users *database.UserRepository, jwtService *jwt.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		users:      users,
		jwtService: jwtService,
		logger:     logger,
	}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a staff account
// @Summary Register a staff account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body registerRequest true "Registration details"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 409 {object} map[string]interface{} "Email already registered"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := h.users.FindByEmail(c.Request.Context(), email)
	if err != nil {
		h.logger.WithError(err).Error("Failed to check existing user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.WithError(err).Error("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register"})
		return
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		h.logger.WithError(err).Error("Failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register"})
		return
	}

	h.logger.WithField("email", user.Email).Info("Staff account registered")
	c.JSON(http.StatusCreated, user)
}

// Login authenticates a staff account and issues an access token
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Credentials"
// @Success 200 {object} map[string]interface{} "Access token"
// @Failure 401 {object} map[string]interface{} "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.users.FindByEmail(c.Request.Context(), email)
	if err != nil {
		h.logger.WithError(err).Error("Failed to look up user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, err := h.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate access token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"user":        user,
	})
}
