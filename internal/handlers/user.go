package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jmherrera/task-tracker-api/internal/constants"
	"github.com/jmherrera/task-tracker-api/internal/dto"
	apierrors "github.com/jmherrera/task-tracker-api/internal/errors"
	"github.com/jmherrera/task-tracker-api/internal/middleware"
	"github.com/jmherrera/task-tracker-api/internal/services"
)

// UserHandler coordinates registration, token issuance, and profile handlers.
type UserHandler struct {
	userService  *services.UserService
	tokenService *services.TokenService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, tokenService *services.TokenService) *UserHandler {
	return &UserHandler{
		userService:  userService,
		tokenService: tokenService,
	}
}

// Register creates a new account. The response never carries a password key.
func (h *UserHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Register(services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// CreateToken exchanges valid credentials for the user's bearer token. Any
// failure is a 400 whose body contains no token key.
func (h *UserHandler) CreateToken(c *gin.Context) {
	type TokenRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password"`
	}

	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			apierrors.BadRequest(c, "Unable to authenticate with provided credentials")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	token, err := h.tokenService.Issue(user)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, dto.TokenDTO{Token: token.Key})
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(user))
}

// UpdateMe applies a partial update to the authenticated user's profile.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateMeRequest struct {
		Name     *string `json:"name"`
		Password *string `json:"password"`
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(userID, services.UpdateProfileInput{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(*user))
}

// MeNotAllowed rejects verbs the profile endpoint does not support.
func (h *UserHandler) MeNotAllowed(c *gin.Context) {
	apierrors.MethodNotAllowed(c, "")
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailRequired):
		apierrors.BadRequestWithDetails(c, err.Error(), gin.H{"email": "This field is required"})
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.BadRequestWithDetails(c, err.Error(), gin.H{"email": err.Error()})
	case errors.Is(err, services.ErrPasswordTooShort):
		message := fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength)
		apierrors.BadRequestWithDetails(c, message, gin.H{"password": message})
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
