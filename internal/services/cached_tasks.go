package services

import (
	"fmt"
	"time"

	"taskhub/backend/internal/apperrors"
	"taskhub/backend/internal/cache"
	"taskhub/backend/internal/models"
)

const (
	taskCacheTTL = 30 * time.Minute
	listCacheTTL = 5 * time.Minute
)

// CachedTaskService is a read-through cache around a TaskService. Cached
// entries carry the full task, and the visibility and ownership rules
// are re-applied on every hit, so the cache can never widen what a
// caller is allowed to see. List caches are scoped per owner.
type CachedTaskService struct {
	tasks TaskService
	cache *cache.RedisCache
}

func NewCachedTaskService(tasks TaskService, cacheInstance *cache.RedisCache) *CachedTaskService {
	return &CachedTaskService{tasks: tasks, cache: cacheInstance}
}

func taskKey(taskID uint) string {
	return fmt.Sprintf("task:%d", taskID)
}

func listKey(callerID uint, page, pageSize int) string {
	return fmt.Sprintf("user_tasks:%d:%d:%d", callerID, page, pageSize)
}

func listPattern(callerID uint) string {
	return fmt.Sprintf("user_tasks:%d:*", callerID)
}

func (s *CachedTaskService) Create(callerID uint, in TaskCreate) (models.Task, error) {
	task, err := s.tasks.Create(callerID, in)
	if err != nil {
		return task, err
	}

	s.cache.Set(taskKey(task.ID), task, taskCacheTTL)
	s.cache.DeletePattern(listPattern(callerID))
	return task, nil
}

func (s *CachedTaskService) GetByID(callerID, taskID uint) (models.Task, error) {
	var cached models.Task
	if err := s.cache.Get(taskKey(taskID), &cached); err == nil {
		return checkVisible(cached, callerID)
	}

	task, err := s.tasks.GetByID(callerID, taskID)
	if err != nil {
		return task, err
	}

	s.cache.Set(taskKey(taskID), task, taskCacheTTL)
	return task, nil
}

func (s *CachedTaskService) List(callerID uint, page, pageSize int) (PaginatedTasks, error) {
	page, pageSize = sanitizePagination(page, pageSize)

	var cached PaginatedTasks
	if err := s.cache.Get(listKey(callerID, page, pageSize), &cached); err == nil {
		return cached, nil
	}

	result, err := s.tasks.List(callerID, page, pageSize)
	if err != nil {
		return result, err
	}

	s.cache.Set(listKey(callerID, page, pageSize), result, listCacheTTL)
	return result, nil
}

func (s *CachedTaskService) Update(callerID, taskID uint, in TaskUpdate) (models.Task, error) {
	task, err := s.tasks.Update(callerID, taskID, in)
	if err != nil {
		return task, err
	}

	s.cache.Set(taskKey(taskID), task, taskCacheTTL)
	s.cache.DeletePattern(listPattern(callerID))
	return task, nil
}

func (s *CachedTaskService) SoftDelete(callerID, taskID uint) error {
	if err := s.tasks.SoftDelete(callerID, taskID); err != nil {
		return err
	}

	s.cache.Delete(taskKey(taskID))
	s.cache.DeletePattern(listPattern(callerID))
	return nil
}

// checkVisible applies the store's lookup rules to a cached task.
func checkVisible(task models.Task, callerID uint) (models.Task, error) {
	if task.Status == models.StatusDeleted {
		return models.Task{}, apperrors.ErrTaskNotFound
	}
	if task.UserID != callerID {
		return models.Task{}, apperrors.ErrNotTaskOwner
	}
	return task, nil
}
