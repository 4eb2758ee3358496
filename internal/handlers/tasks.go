package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskhub/backend/internal/middleware"
	"taskhub/backend/internal/models"
	"taskhub/backend/internal/services"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type TaskCreateRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status" binding:"omitempty,oneof=pending in_progress done"`
}

type TaskUpdateRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Status      *models.TaskStatus `json:"status" binding:"omitempty,oneof=pending in_progress done"`
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	var req TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"code":    http.StatusBadRequest,
			"message": "invalid request format",
		})
		return
	}

	task, err := h.taskService.Create(user.ID, services.TaskCreate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/tasks/%d", task.ID))
	respond(c, http.StatusCreated, "task created", task)
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetByID(user.ID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "task retrieved", task)
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	result, err := h.taskService.List(user.ID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "tasks listed", result)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	var req TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"code":    http.StatusBadRequest,
			"message": "invalid request format",
		})
		return
	}

	task, err := h.taskService.Update(user.ID, taskID, services.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/tasks/%d", task.ID))
	respond(c, http.StatusOK, "task updated", task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.taskService.SoftDelete(user.ID, taskID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "task deleted", nil)
}

func currentUserOrAbort(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"code":    http.StatusUnauthorized,
			"message": "user not authenticated",
		})
		return nil, false
	}
	return user, true
}

func parseTaskID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"code":    http.StatusBadRequest,
			"message": "invalid task id",
		})
		return 0, false
	}
	return uint(id), true
}
