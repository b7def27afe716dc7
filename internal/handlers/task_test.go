package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jmherrera/task-tracker-api/internal/database"
	"github.com/jmherrera/task-tracker-api/internal/middleware"
	"github.com/jmherrera/task-tracker-api/internal/models"
	"github.com/jmherrera/task-tracker-api/internal/repository"
	"github.com/jmherrera/task-tracker-api/internal/services"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db           *gorm.DB
	router       *gin.Engine
	userService  *services.UserService
	tokenService *services.TokenService
	taskService  *services.TaskService
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Token{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	userRepo := repository.NewUserRepository(suite.db)
	suite.userService = services.NewUserService(userRepo)
	suite.tokenService = services.NewTokenService(repository.NewTokenRepository(suite.db), userRepo)
	suite.taskService = services.NewTaskService(repository.NewTaskRepository(suite.db))

	handler := NewTaskHandler(suite.taskService)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	tasks := suite.router.Group("/api/tasks")
	tasks.Use(middleware.RequireToken(suite.tokenService))
	tasks.GET("", handler.ListTasks)
	tasks.POST("", handler.CreateTask)
	tasks.GET("/:id", handler.GetTask)
	tasks.PUT("/:id", handler.UpdateTask)
	tasks.PATCH("/:id", handler.UpdateTask)
	tasks.DELETE("/:id", handler.DeleteTask)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// createTestUser registers a user and returns it with a usable token key.
func (suite *TaskHandlerTestSuite) createTestUser(email string) (*models.User, string) {
	user, err := suite.userService.Register(services.RegisterInput{
		Email:    email,
		Password: "securepassword909",
	})
	suite.Require().NoError(err)

	token, err := suite.tokenService.Issue(user)
	suite.Require().NoError(err)

	return user, token.Key
}

func (suite *TaskHandlerTestSuite) createTestTask(ownerID uint64, title string, due *time.Time) *models.Task {
	task, err := suite.taskService.Create(ownerID, services.CreateTaskInput{
		Title:       title,
		Description: "Test Description",
		DateDue:     due,
	})
	suite.Require().NoError(err)
	return task
}

func (suite *TaskHandlerTestSuite) request(method, url string, payload any, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TaskHandlerTestSuite) TestAuthRequired() {
	w := suite.request(http.MethodGet, "/api/tasks", nil, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListUsesCompactProjection() {
	user, token := suite.createTestUser("user@example.com")
	suite.createTestTask(user.ID, "Sample task title", nil)

	w := suite.request(http.MethodGet, "/api/tasks", nil, token)
	suite.Equal(http.StatusOK, w.Code)

	var items []map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &items))
	suite.Require().Len(items, 1)
	suite.Contains(items[0], "id")
	suite.Contains(items[0], "title")
	suite.NotContains(items[0], "description")
	suite.NotContains(items[0], "date_created")
}

func (suite *TaskHandlerTestSuite) TestListLimitedToOwner() {
	user, token := suite.createTestUser("user@example.com")
	other, _ := suite.createTestUser("other@example.com")

	suite.createTestTask(user.ID, "mine", nil)
	suite.createTestTask(other.ID, "theirs", nil)

	w := suite.request(http.MethodGet, "/api/tasks", nil, token)
	suite.Equal(http.StatusOK, w.Code)

	var items []map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &items))
	suite.Require().Len(items, 1)
	suite.Equal("mine", items[0]["title"])
}

func (suite *TaskHandlerTestSuite) TestListFilters() {
	user, token := suite.createTestUser("user@example.com")

	suite.createTestTask(user.ID, "open", nil)
	_, err := suite.taskService.Create(user.ID, services.CreateTaskInput{Title: "done", IsCompleted: true})
	suite.Require().NoError(err)

	w := suite.request(http.MethodGet, "/api/tasks?is_completed=true", nil, token)
	suite.Equal(http.StatusOK, w.Code)
	var items []map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &items))
	suite.Require().Len(items, 1)
	suite.Equal("done", items[0]["title"])

	// Unrecognized filter values are ignored, not errors.
	w = suite.request(http.MethodGet, "/api/tasks?is_completed=banana", nil, token)
	suite.Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &items))
	suite.Len(items, 2)
}

func (suite *TaskHandlerTestSuite) TestListDateRangeNeedsBothBounds() {
	user, token := suite.createTestUser("user@example.com")

	due := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	farDue := time.Date(2026, 12, 10, 0, 0, 0, 0, time.UTC)
	suite.createTestTask(user.ID, "near", &due)
	suite.createTestTask(user.ID, "far", &farDue)

	w := suite.request(http.MethodGet, "/api/tasks?start_date=2026-09-01&end_date=2026-09-30", nil, token)
	suite.Equal(http.StatusOK, w.Code)
	var items []map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &items))
	suite.Require().Len(items, 1)
	suite.Equal("near", items[0]["title"])

	w = suite.request(http.MethodGet, "/api/tasks?start_date=2026-09-01", nil, token)
	suite.Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &items))
	suite.Len(items, 2)
}

func (suite *TaskHandlerTestSuite) TestCreateTask() {
	user, token := suite.createTestUser("user@example.com")

	w := suite.request(http.MethodPost, "/api/tasks", map[string]any{
		"title": "Sample task title",
	}, token)
	suite.Equal(http.StatusCreated, w.Code)

	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("Sample task title", body["title"])
	suite.Contains(body, "date_created")
	suite.Contains(body, "date_due")
	suite.Contains(body, "date_completed")
	suite.Equal(false, body["is_completed"])

	var task models.Task
	suite.Require().NoError(suite.db.First(&task, uint64(body["id"].(float64))).Error)
	suite.Equal(user.ID, task.UserID)
}

func (suite *TaskHandlerTestSuite) TestCreateTaskIgnoresClientOwner() {
	user, token := suite.createTestUser("user@example.com")
	other, _ := suite.createTestUser("other@example.com")

	w := suite.request(http.MethodPost, "/api/tasks", map[string]any{
		"title":   "Sample task title",
		"user_id": other.ID,
	}, token)
	suite.Equal(http.StatusCreated, w.Code)

	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))

	var task models.Task
	suite.Require().NoError(suite.db.First(&task, uint64(body["id"].(float64))).Error)
	suite.Equal(user.ID, task.UserID)
}

func (suite *TaskHandlerTestSuite) TestCreateTaskMissingTitle() {
	_, token := suite.createTestUser("user@example.com")

	w := suite.request(http.MethodPost, "/api/tasks", map[string]any{
		"description": "no title",
	}, token)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTaskDetail() {
	user, token := suite.createTestUser("user@example.com")
	task := suite.createTestTask(user.ID, "Sample task title", nil)

	w := suite.request(http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil, token)
	suite.Equal(http.StatusOK, w.Code)

	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("Sample task title", body["title"])
	suite.Equal("Test Description", body["description"])
}

func (suite *TaskHandlerTestSuite) TestGetTaskOfOtherUserIs404() {
	_, token := suite.createTestUser("user@example.com")
	other, _ := suite.createTestUser("other@example.com")
	task := suite.createTestTask(other.ID, "theirs", nil)

	w := suite.request(http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil, token)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskCompletionTransition() {
	user, token := suite.createTestUser("user@example.com")
	task := suite.createTestTask(user.ID, "Sample task title", nil)

	w := suite.request(http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{
		"is_completed": true,
	}, token)
	suite.Equal(http.StatusOK, w.Code)

	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(true, body["is_completed"])
	suite.NotNil(body["date_completed"])

	w = suite.request(http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{
		"is_completed": false,
	}, token)
	suite.Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(false, body["is_completed"])
	suite.Nil(body["date_completed"])
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskDerivedFieldsNotSettable() {
	user, token := suite.createTestUser("user@example.com")
	task := suite.createTestTask(user.ID, "Sample task title", nil)
	created := task.DateCreated

	w := suite.request(http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{
		"date_created":   "1999-01-01T00:00:00Z",
		"date_completed": "1999-01-01T00:00:00Z",
		"title":          "Renamed",
	}, token)
	suite.Equal(http.StatusOK, w.Code)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, task.ID).Error)
	suite.Equal("Renamed", stored.Title)
	suite.True(created.Equal(stored.DateCreated))
	suite.Nil(stored.DateCompleted)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskOfOtherUserIs404() {
	_, token := suite.createTestUser("user@example.com")
	other, _ := suite.createTestUser("other@example.com")
	task := suite.createTestTask(other.ID, "theirs", nil)

	w := suite.request(http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{
		"title": "hijacked",
	}, token)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	user, token := suite.createTestUser("user@example.com")
	task := suite.createTestTask(user.ID, "Sample task title", nil)

	w := suite.request(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), nil, token)
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.request(http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil, token)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTaskOfOtherUserIs404() {
	_, token := suite.createTestUser("user@example.com")
	other, _ := suite.createTestUser("other@example.com")
	task := suite.createTestTask(other.ID, "theirs", nil)

	w := suite.request(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), nil, token)
	suite.Equal(http.StatusNotFound, w.Code)

	// Still present for its owner.
	var count int64
	suite.Require().NoError(suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count).Error)
	suite.Equal(int64(1), count)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
