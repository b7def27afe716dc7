package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/jmherrera/task-tracker-api/internal/admin"
	"github.com/jmherrera/task-tracker-api/internal/constants"
	"github.com/jmherrera/task-tracker-api/internal/dto"
	apierrors "github.com/jmherrera/task-tracker-api/internal/errors"
	"github.com/jmherrera/task-tracker-api/internal/models"
	"github.com/jmherrera/task-tracker-api/internal/repository"
	"github.com/jmherrera/task-tracker-api/internal/services"
	"github.com/jmherrera/task-tracker-api/internal/utils"
)

// AdminHandler serves the internal staff-only console over both stores. It
// consumes the services' invariants rather than duplicating them; the screen
// shapes come from the static configuration in the admin package.
type AdminHandler struct {
	userService *services.UserService
	taskService *services.TaskService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(userService *services.UserService, taskService *services.TaskService) *AdminHandler {
	return &AdminHandler{
		userService: userService,
		taskService: taskService,
	}
}

// Login starts an admin session for an active staff account.
func (h *AdminHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password"`
	}

	var req LoginRequest
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

	if !user.IsStaff {
		apierrors.Forbidden(c, "Staff access required")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToAdminUserDTO(*user))
}

// Logout ends the admin session.
func (h *AdminHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// ListUsers lists accounts, searchable over the configured fields.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.ListUsers(repository.AdminUserFilter{
		Search: c.Query("q"),
		Offset: params.Offset,
		Limit:  params.Limit,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch users")
		return
	}

	items := make([]dto.AdminUserDTO, len(users))
	for i, user := range users {
		items[i] = dto.ToAdminUserDTO(user)
	}

	c.JSON(http.StatusOK, gin.H{
		"users": items,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetUser returns one account.
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := parseAdminID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAdminUserDTO(*user))
}

// CreateUser creates an account, optionally privileged. A superuser is always
// staff as well.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Email       string `json:"email" binding:"required"`
		Password    string `json:"password" binding:"required"`
		Name        string `json:"name"`
		IsStaff     bool   `json:"is_staff"`
		IsSuperuser bool   `json:"is_superuser"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var user *models.User
	var err error
	if req.IsSuperuser {
		user, err = h.userService.CreateSuperuser(req.Email, req.Password, req.Name)
	} else {
		user, err = h.userService.CreateUser(services.CreateUserInput{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
			IsStaff:  req.IsStaff,
		})
	}
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAdminUserDTO(*user))
}

// UpdateUser applies a partial account edit within the user screen's editable
// field set.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := parseAdminID(c)
	if !ok {
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if !rejectNonEditableFields(c, admin.Users, rawReq) {
		return
	}

	var input services.AdminUpdateUserInput
	if name, ok := rawReq["name"].(string); ok {
		input.Name = &name
	}
	if password, ok := rawReq["password"].(string); ok {
		input.Password = &password
	}
	if isActive, ok := rawReq["is_active"].(bool); ok {
		input.IsActive = &isActive
	}
	if isStaff, ok := rawReq["is_staff"].(bool); ok {
		input.IsStaff = &isStaff
	}
	if isSuperuser, ok := rawReq["is_superuser"].(bool); ok {
		input.IsSuperuser = &isSuperuser
	}

	user, err := h.userService.AdminUpdateUser(id, input)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAdminUserDTO(*user))
}

// ListTasks lists tasks across all users, searchable by title and filterable
// by completion.
func (h *AdminHandler) ListTasks(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := repository.AdminTaskFilter{
		Search: c.Query("q"),
		Offset: params.Offset,
		Limit:  params.Limit,
	}
	switch c.Query("is_completed") {
	case "true":
		completed := true
		filter.IsCompleted = &completed
	case "false":
		completed := false
		filter.IsCompleted = &completed
	}

	tasks, total, err := h.taskService.AdminList(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	items := make([]dto.AdminTaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = dto.ToAdminTaskDTO(task)
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": items,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetTask returns one task, any owner.
func (h *AdminHandler) GetTask(c *gin.Context) {
	id, ok := parseAdminID(c)
	if !ok {
		return
	}

	task, err := h.taskService.AdminGet(id)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAdminTaskDTO(*task))
}

// UpdateTask edits a task within the task screen's editable field set. The
// owning user is read-only on this screen.
func (h *AdminHandler) UpdateTask(c *gin.Context) {
	id, ok := parseAdminID(c)
	if !ok {
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if !rejectNonEditableFields(c, admin.Tasks, rawReq) {
		return
	}

	input, ok := taskUpdateInputFromBody(c, rawReq)
	if !ok {
		return
	}

	task, err := h.taskService.AdminUpdate(id, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAdminTaskDTO(*task))
}

// DeleteTask removes a task, any owner.
func (h *AdminHandler) DeleteTask(c *gin.Context) {
	id, ok := parseAdminID(c)
	if !ok {
		return
	}

	if err := h.taskService.AdminDelete(id); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseAdminID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "")
		return 0, false
	}
	return id, true
}

// rejectNonEditableFields enforces the screen configuration: a body touching
// a field outside the editable set is rejected with the offending fields.
func rejectNonEditableFields(c *gin.Context, screen admin.Screen, rawReq map[string]any) bool {
	details := gin.H{}
	for field := range rawReq {
		if !screen.Editable(field) {
			details[field] = "This field is read-only"
		}
	}
	if len(details) > 0 {
		apierrors.BadRequestWithDetails(c, "Read-only fields cannot be modified", details)
		return false
	}
	return true
}
