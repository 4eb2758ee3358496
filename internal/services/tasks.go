package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"taskhub/backend/internal/apperrors"
	"taskhub/backend/internal/models"
)

// TaskCreate carries the caller-supplied fields for a new task. Status
// defaults to pending when empty.
type TaskCreate struct {
	Title       string
	Description string
	Status      models.TaskStatus
}

// TaskUpdate is a partial update: nil fields are left untouched, non-nil
// fields overwrite, including overwriting to empty. Ownership is not a
// field and can never change.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
}

// TaskService is the ownership-enforced task store. Every operation runs
// on behalf of an authenticated caller and only ever sees that caller's
// non-deleted tasks. Error precedence is deterministic: existence and
// visibility are checked before ownership, so a tombstoned or missing
// task yields ErrTaskNotFound for any caller, while a live task owned by
// someone else yields ErrNotTaskOwner.
type TaskService interface {
	Create(callerID uint, in TaskCreate) (models.Task, error)
	GetByID(callerID, taskID uint) (models.Task, error)
	List(callerID uint, page, pageSize int) (PaginatedTasks, error)
	Update(callerID, taskID uint, in TaskUpdate) (models.Task, error)
	SoftDelete(callerID, taskID uint) error
}

type TaskServiceImpl struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskServiceImpl {
	return &TaskServiceImpl{db: db}
}

// Create inserts a task owned by the caller. Titles must be non-blank
// and statuses must be active; violations and storage failures both
// surface as ErrTaskCreation so no partial task becomes visible.
func (s *TaskServiceImpl) Create(callerID uint, in TaskCreate) (models.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.Task{}, fmt.Errorf("%w: title must not be empty", apperrors.ErrTaskCreation)
	}

	status := in.Status
	if status == "" {
		status = models.StatusPending
	}
	if !status.Valid() {
		return models.Task{}, fmt.Errorf("%w: invalid status %q", apperrors.ErrTaskCreation, in.Status)
	}

	task := models.Task{
		UserID:      callerID,
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&task).Error
	})
	if err != nil {
		slog.Error("task creation failed", "user_id", callerID, "error", err)
		return models.Task{}, fmt.Errorf("%w: %v", apperrors.ErrTaskCreation, err)
	}

	slog.Info("task created", "user_id", callerID, "task_id", task.ID)
	return task, nil
}

// GetByID returns the task if it exists, is not tombstoned, and belongs
// to the caller.
func (s *TaskServiceImpl) GetByID(callerID, taskID uint) (models.Task, error) {
	return getVisibleTask(s.db, callerID, taskID)
}

func getVisibleTask(db *gorm.DB, callerID, taskID uint) (models.Task, error) {
	var task models.Task
	err := db.Where("id = ? AND status <> ?", taskID, models.StatusDeleted).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Warn("task not found", "task_id", taskID, "user_id", callerID)
			return models.Task{}, apperrors.ErrTaskNotFound
		}
		return models.Task{}, fmt.Errorf("loading task %d: %w", taskID, err)
	}

	// Ownership is checked only once existence is established.
	if task.UserID != callerID {
		slog.Warn("task access denied", "task_id", taskID, "user_id", callerID, "owner_id", task.UserID)
		return models.Task{}, apperrors.ErrNotTaskOwner
	}
	return task, nil
}

// List returns the caller's non-deleted tasks, newest first.
func (s *TaskServiceImpl) List(callerID uint, page, pageSize int) (PaginatedTasks, error) {
	page, pageSize = sanitizePagination(page, pageSize)

	query := s.db.Model(&models.Task{}).
		Where("user_id = ? AND status <> ?", callerID, models.StatusDeleted)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return PaginatedTasks{}, fmt.Errorf("counting tasks: %w", err)
	}

	var items []models.Task
	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&items).Error
	if err != nil {
		return PaginatedTasks{}, fmt.Errorf("listing tasks: %w", err)
	}

	slog.Info("tasks listed", "user_id", callerID, "count", len(items), "total", total)
	return PaginatedTasks{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// Update applies the provided fields to the caller's task and refreshes
// the updated timestamp. Lookup and ownership rules are those of GetByID.
func (s *TaskServiceImpl) Update(callerID, taskID uint, in TaskUpdate) (models.Task, error) {
	var task models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		task, txErr = getVisibleTask(tx, callerID, taskID)
		if txErr != nil {
			return txErr
		}

		if in.Title != nil {
			task.Title = *in.Title
		}
		if in.Description != nil {
			task.Description = *in.Description
		}
		if in.Status != nil {
			task.Status = *in.Status
		}
		task.UpdatedAt = time.Now()

		return tx.Save(&task).Error
	})
	if err != nil {
		return models.Task{}, err
	}

	slog.Info("task updated", "user_id", callerID, "task_id", taskID)
	return task, nil
}

// SoftDelete tombstones the caller's task. The transition is terminal:
// once deleted the task falls out of every lookup, so a second delete of
// the same id fails with ErrTaskNotFound rather than succeeding quietly.
func (s *TaskServiceImpl) SoftDelete(callerID, taskID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		task, txErr := getVisibleTask(tx, callerID, taskID)
		if txErr != nil {
			return txErr
		}

		task.Status = models.StatusDeleted
		task.UpdatedAt = time.Now()
		return tx.Save(&task).Error
	})
	if err != nil {
		return err
	}

	slog.Info("task soft-deleted", "user_id", callerID, "task_id", taskID)
	return nil
}
