package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"taskhub/backend/internal/apperrors"
	"taskhub/backend/internal/handlers"
	"taskhub/backend/internal/models"
	"taskhub/backend/internal/services"
)

type MockTaskService struct {
	returnErr  error
	tasks      []models.Task
	lastUpdate services.TaskUpdate
}

func (m *MockTaskService) Create(callerID uint, in services.TaskCreate) (models.Task, error) {
	if m.returnErr != nil {
		return models.Task{}, m.returnErr
	}
	status := in.Status
	if status == "" {
		status = models.StatusPending
	}
	task := models.Task{
		ID:          uint(len(m.tasks) + 1),
		UserID:      callerID,
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
	}
	m.tasks = append(m.tasks, task)
	return task, nil
}

func (m *MockTaskService) GetByID(callerID, taskID uint) (models.Task, error) {
	if m.returnErr != nil {
		return models.Task{}, m.returnErr
	}
	for _, task := range m.tasks {
		if task.ID == taskID {
			return task, nil
		}
	}
	return models.Task{ID: taskID, Title: "Test Task", Status: models.StatusPending, UserID: callerID}, nil
}

func (m *MockTaskService) List(callerID uint, page, pageSize int) (services.PaginatedTasks, error) {
	if m.returnErr != nil {
		return services.PaginatedTasks{}, m.returnErr
	}
	return services.PaginatedTasks{
		Items:      m.tasks,
		Total:      int64(len(m.tasks)),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: 1,
	}, nil
}

func (m *MockTaskService) Update(callerID, taskID uint, in services.TaskUpdate) (models.Task, error) {
	m.lastUpdate = in
	if m.returnErr != nil {
		return models.Task{}, m.returnErr
	}
	return models.Task{ID: taskID, UserID: callerID, Title: "Updated", Status: models.StatusPending}, nil
}

func (m *MockTaskService) SoftDelete(callerID, taskID uint) error {
	return m.returnErr
}

func setupTaskHandler() (*handlers.TaskHandler, *MockTaskService, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	mockService := &MockTaskService{}
	handler := handlers.NewTaskHandler(mockService)
	router := gin.New()

	// Stand-in for the authn middleware.
	router.Use(func(c *gin.Context) {
		c.Set("current_user", &models.User{ID: 1, Email: "alice@example.com"})
		c.Next()
	})

	return handler, mockService, router
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func TestCreateTask(t *testing.T) {
	handler, _, router := setupTaskHandler()
	router.POST("/tasks", handler.CreateTask)

	body, _ := json.Marshal(map[string]string{
		"title":       "Test Task",
		"description": "Test Description",
	})
	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	if w.Header().Get("Location") == "" {
		t.Error("Expected Location header on creation")
	}

	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	var task models.Task
	if err := json.Unmarshal(resp.Data, &task); err != nil {
		t.Fatalf("Failed to unmarshal task: %v", err)
	}
	if task.Status != models.StatusPending {
		t.Errorf("Expected default status pending, got %s", task.Status)
	}
	if task.UserID != 1 {
		t.Errorf("Expected owner 1, got %d", task.UserID)
	}
}

func TestCreateTaskInvalidJSON(t *testing.T) {
	handler, _, router := setupTaskHandler()
	router.POST("/tasks", handler.CreateTask)

	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBuffer([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestCreateTaskMissingTitle(t *testing.T) {
	handler, _, router := setupTaskHandler()
	router.POST("/tasks", handler.CreateTask)

	body, _ := json.Marshal(map[string]string{"description": "no title"})
	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestCreateTaskRejectsDeletedStatus(t *testing.T) {
	handler, _, router := setupTaskHandler()
	router.POST("/tasks", handler.CreateTask)

	body, _ := json.Marshal(map[string]string{"title": "x", "status": "deleted"})
	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestCreateTaskServiceFailure(t *testing.T) {
	handler, mockService, router := setupTaskHandler()
	router.POST("/tasks", handler.CreateTask)

	mockService.returnErr = apperrors.ErrTaskCreation

	body, _ := json.Marshal(map[string]string{"title": "Doomed"})
	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestGetTaskByID(t *testing.T) {
	handler, _, router := setupTaskHandler()
	router.GET("/tasks/:id", handler.GetTaskByID)

	req, _ := http.NewRequest("GET", "/tasks/5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	var task models.Task
	if err := json.Unmarshal(resp.Data, &task); err != nil {
		t.Fatalf("Failed to unmarshal task: %v", err)
	}
	if task.Title != "Test Task" {
		t.Errorf("Expected title 'Test Task', got '%s'", task.Title)
	}
}

func TestGetTaskByIDNotFound(t *testing.T) {
	handler, mockService, router := setupTaskHandler()
	router.GET("/tasks/:id", handler.GetTaskByID)

	mockService.returnErr = apperrors.ErrTaskNotFound

	req, _ := http.NewRequest("GET", "/tasks/5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestGetTaskByIDNotOwner(t *testing.T) {
	handler, mockService, router := setupTaskHandler()
	router.GET("/tasks/:id", handler.GetTaskByID)

	mockService.returnErr = apperrors.ErrNotTaskOwner

	req, _ := http.NewRequest("GET", "/tasks/5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status %d, got %d", http.StatusForbidden, w.Code)
	}
}

func TestGetTaskByIDInvalidID(t *testing.T) {
	handler, _, router := setupTaskHandler()
	router.GET("/tasks/:id", handler.GetTaskByID)

	req, _ := http.NewRequest("GET", "/tasks/not-a-number", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestListTasks(t *testing.T) {
	handler, mockService, router := setupTaskHandler()
	router.GET("/tasks", handler.ListTasks)

	mockService.tasks = []models.Task{
		{ID: 1, Title: "Task 1", Status: models.StatusPending, UserID: 1},
		{ID: 2, Title: "Task 2", Status: models.StatusDone, UserID: 1},
	}

	req, _ := http.NewRequest("GET", "/tasks?page=1&page_size=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	var page services.PaginatedTasks
	if err := json.Unmarshal(resp.Data, &page); err != nil {
		t.Fatalf("Failed to unmarshal page: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("Expected total 2, got %d", page.Total)
	}
	if len(page.Items) != 2 {
		t.Errorf("Expected 2 items, got %d", len(page.Items))
	}
}

func TestUpdateTaskPartialFields(t *testing.T) {
	handler, mockService, router := setupTaskHandler()
	router.PUT("/tasks/:id", handler.UpdateTask)

	body := []byte(`{"title":"New title"}`)
	req, _ := http.NewRequest("PUT", "/tasks/3", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	if mockService.lastUpdate.Title == nil || *mockService.lastUpdate.Title != "New title" {
		t.Error("Expected title to be passed through")
	}
	if mockService.lastUpdate.Description != nil {
		t.Error("Expected absent description to stay nil")
	}
	if mockService.lastUpdate.Status != nil {
		t.Error("Expected absent status to stay nil")
	}
}

func TestDeleteTask(t *testing.T) {
	handler, _, router := setupTaskHandler()
	router.DELETE("/tasks/:id", handler.DeleteTask)

	req, _ := http.NewRequest("DELETE", "/tasks/3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestDeleteTaskAlreadyDeleted(t *testing.T) {
	handler, mockService, router := setupTaskHandler()
	router.DELETE("/tasks/:id", handler.DeleteTask)

	mockService.returnErr = apperrors.ErrTaskNotFound

	req, _ := http.NewRequest("DELETE", "/tasks/3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestTaskEndpointsRequireUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewTaskHandler(&MockTaskService{})
	router := gin.New() // no user-injecting middleware
	router.GET("/tasks/:id", handler.GetTaskByID)

	req, _ := http.NewRequest("GET", "/tasks/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}
