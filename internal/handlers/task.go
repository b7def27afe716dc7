package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jmherrera/task-tracker-api/internal/constants"
	"github.com/jmherrera/task-tracker-api/internal/dto"
	apierrors "github.com/jmherrera/task-tracker-api/internal/errors"
	"github.com/jmherrera/task-tracker-api/internal/middleware"
	"github.com/jmherrera/task-tracker-api/internal/services"
)

// TaskHandler coordinates the owner-scoped task endpoints.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the caller's tasks as the compact projection, filtered
// and ordered by due date.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.List(userID, services.ListTasksInput{
		IsCompleted: c.Query("is_completed"),
		StartDate:   c.Query("start_date"),
		EndDate:     c.Query("end_date"),
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListItemDTOs(tasks))
}

// CreateTask creates a task owned by the caller. A client-supplied owner is
// never bound.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		DateDue     *time.Time `json:"date_due"`
		IsCompleted bool       `json:"is_completed"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(userID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DateDue:     req.DateDue,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns the full detail projection of an owned task, or 404.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(userID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to an owned task. The raw body is
// inspected so that absent fields stay untouched while explicit nulls clear
// the due date. Derived fields in the body are ignored.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, ok := taskUpdateInputFromBody(c, rawReq)
	if !ok {
		return
	}

	task, err := h.taskService.Update(userID, taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes an owned task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(userID, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// parseTaskID reads the :id parameter. A malformed id behaves like a missing
// task so existence is never leaked through the response shape.
func parseTaskID(c *gin.Context) (uint64, bool) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "Task not found")
		return 0, false
	}
	return taskID, true
}

// taskUpdateInputFromBody builds the partial-update input from a raw JSON
// body. date_created and date_completed are derived fields and never read.
func taskUpdateInputFromBody(c *gin.Context, rawReq map[string]any) (services.UpdateTaskInput, bool) {
	var input services.UpdateTaskInput

	if title, ok := rawReq["title"]; ok {
		if titleStr, ok := title.(string); ok {
			input.Title = &titleStr
		}
	}
	if description, ok := rawReq["description"]; ok {
		if descStr, ok := description.(string); ok {
			input.Description = &descStr
		}
	}
	if _, ok := rawReq["date_due"]; ok {
		if rawReq["date_due"] == nil {
			input.ClearDueDate = true
		} else if dueStr, ok := rawReq["date_due"].(string); ok {
			parsed, err := parseDueDate(dueStr)
			if err != nil {
				apierrors.BadRequestWithDetails(c, "Invalid date_due", gin.H{"date_due": "expected RFC 3339 or YYYY-MM-DD"})
				return services.UpdateTaskInput{}, false
			}
			input.DateDue = &parsed
		}
	}
	if completed, ok := rawReq["is_completed"]; ok {
		if completedBool, ok := completed.(bool); ok {
			input.IsCompleted = &completedBool
		}
	}

	return input, true
}

func parseDueDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse(constants.DateOnlyFormat, value)
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTitleRequired):
		apierrors.BadRequestWithDetails(c, err.Error(), gin.H{"title": "This field is required"})
	default:
		apierrors.InternalError(c, "")
	}
}
