package services

import (
	"errors"

	"github.com/practicstudio/devtrack/internal/models"
	"github.com/practicstudio/devtrack/internal/policy"
	"github.com/practicstudio/devtrack/internal/validation"
	"gorm.io/gorm"
)

var taskStatuses = []string{
	models.TaskStatusPending,
	models.TaskStatusInProgress,
	models.TaskStatusCompleted,
}

// TaskService implements the task lifecycle: owner-scoped listing with
// filters, creation with defaults, and guarded read/update/delete.
type TaskService struct {
	DB     *gorm.DB
	policy *policy.OwnershipPolicy
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{DB: db, policy: policy.NewOwnershipPolicy()}
}

// TaskInput is the allow-listed field set for create and update.
// A supplied project_id of 0 detaches the task from its project.
type TaskInput struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Status      *string            `json:"status"`
	Priority    *int               `json:"priority"`
	ProjectID   *uint              `json:"project_id"`
	Images      *models.TaskImages `json:"images"`
}

// TaskFilters narrows List; nil fields are ignored. A ProjectID of 0
// selects tasks that have no project.
type TaskFilters struct {
	ProjectID *uint
	Status    *string
}

// List returns the user's tasks ordered by priority descending, then by
// newest first within the same priority.
func (s *TaskService) List(user *models.User, filters TaskFilters) ([]models.Task, error) {
	q := s.DB.Preload("Project").Where("user_id = ?", user.ID)
	if filters.ProjectID != nil {
		if *filters.ProjectID == 0 {
			q = q.Where("project_id IS NULL")
		} else {
			q = q.Where("project_id = ?", *filters.ProjectID)
		}
	}
	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	var tasks []models.Task
	err := q.Order("priority DESC, created_at DESC, id DESC").Find(&tasks).Error
	return tasks, err
}

// Create persists a new task for the acting user. Status defaults to
// pending and priority to 1. A supplied project must belong to the user;
// a foreign or unknown project fails with ErrNotFound so the response
// does not confirm whether the id exists.
func (s *TaskService) Create(user *models.User, input TaskInput) (*models.Task, error) {
	v := validation.Violations{}
	if input.Title == nil {
		v["title"] = "required"
	} else {
		validation.Required("title", *input.Title, v)
		validation.MaxLen("title", *input.Title, 255, v)
	}
	status := models.TaskStatusPending
	if input.Status != nil {
		status = *input.Status
		validation.OneOf("status", status, taskStatuses, v)
	}
	priority := models.TaskPriorityMin
	if input.Priority != nil {
		priority = *input.Priority
		validation.IntRange("priority", priority, models.TaskPriorityMin, models.TaskPriorityMax, v)
	}
	if !v.Empty() {
		return nil, NewValidationError(v)
	}

	task := models.Task{UserID: user.ID, Status: status, Priority: priority}
	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Images != nil {
		task.Images = *input.Images
	}
	if input.ProjectID != nil && *input.ProjectID != 0 {
		if err := s.guardProject(user, *input.ProjectID); err != nil {
			return nil, err
		}
		task.ProjectID = input.ProjectID
	}

	if err := s.DB.Create(&task).Error; err != nil {
		return nil, err
	}
	// Reload with the project attached so responses match Get.
	if err := s.DB.Preload("Project").First(&task, task.ID).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Get fetches a task (with its project) after the ownership guard.
func (s *TaskService) Get(user *models.User, id uint) (*models.Task, error) {
	var task models.Task
	if err := s.DB.Preload("Project").First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !s.policy.Can(user.ID, task) {
		return nil, ErrForbidden
	}
	return &task, nil
}

// Update applies a partial update. Supplied fields must satisfy the same
// domain constraints as on create; a reassigned project is re-guarded.
func (s *TaskService) Update(user *models.User, id uint, input TaskInput) (*models.Task, error) {
	task, err := s.Get(user, id)
	if err != nil {
		return nil, err
	}

	v := validation.Violations{}
	if input.Title != nil {
		validation.Required("title", *input.Title, v)
		validation.MaxLen("title", *input.Title, 255, v)
	}
	if input.Status != nil {
		validation.OneOf("status", *input.Status, taskStatuses, v)
	}
	if input.Priority != nil {
		validation.IntRange("priority", *input.Priority, models.TaskPriorityMin, models.TaskPriorityMax, v)
	}
	if !v.Empty() {
		return nil, NewValidationError(v)
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.Images != nil {
		task.Images = *input.Images
	}
	if input.ProjectID != nil {
		if *input.ProjectID == 0 {
			task.ProjectID = nil
			task.Project = nil
		} else {
			if err := s.guardProject(user, *input.ProjectID); err != nil {
				return nil, err
			}
			task.ProjectID = input.ProjectID
			// Drop the preloaded association or Save writes the old
			// project's id back over the new one.
			task.Project = nil
		}
	}

	if err := s.DB.Save(task).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Preload("Project").First(task, task.ID).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// Delete hard-deletes a task after the ownership guard.
func (s *TaskService) Delete(user *models.User, id uint) error {
	task, err := s.Get(user, id)
	if err != nil {
		return err
	}
	return s.DB.Delete(task).Error
}

// ListByProject returns the tasks of one of the user's projects, same
// ordering as List. A foreign project fails with ErrForbidden, a missing
// one with ErrNotFound.
func (s *TaskService) ListByProject(user *models.User, projectID uint) ([]models.Task, error) {
	var project models.Project
	if err := s.DB.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !s.policy.Can(user.ID, project) {
		return nil, ErrForbidden
	}
	var tasks []models.Task
	err := s.DB.Where("project_id = ? AND user_id = ?", projectID, user.ID).
		Order("priority DESC, created_at DESC, id DESC").
		Find(&tasks).Error
	return tasks, err
}

// guardProject verifies the referenced project exists and belongs to the
// user. Both failure modes collapse into ErrNotFound on purpose: a task
// request must not reveal whether someone else's project id exists.
func (s *TaskService) guardProject(user *models.User, projectID uint) error {
	var project models.Project
	if err := s.DB.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !s.policy.Can(user.ID, project) {
		return ErrNotFound
	}
	return nil
}
