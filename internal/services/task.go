package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ledgerline/ledgerline/internal/activity"
	"github.com/ledgerline/ledgerline/internal/models"
)

type TaskService struct {
	db  *gorm.DB
	rec *activity.Recorder
	log *zap.Logger
}

func NewTaskService(db *gorm.DB, rec *activity.Recorder, log *zap.Logger) *TaskService {
	return &TaskService{db: db, rec: rec, log: log}
}

func taskSnapshot(t *models.Task) activity.TaskSnapshot {
	snap := activity.TaskSnapshot{
		ID:        t.ID,
		Title:     t.Title,
		Priority:  t.Priority,
		Completed: t.Completed,
	}
	if t.ClientID != nil {
		snap.ClientID = *t.ClientID
	}
	return snap
}

// Create persists a task. Tasks linked to a client record task_assigned;
// unlinked tasks skip the timeline entirely.
func (s *TaskService) Create(ctx context.Context, t *models.Task) error {
	if t.ClientID != nil {
		var client models.Client
		if err := s.db.WithContext(ctx).First(&client, *t.ClientID).Error; err != nil {
			return err
		}
	}
	if t.Priority == "" {
		t.Priority = models.TaskPriorityMedium
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("creating task: %w", err)
	}

	var hooks activity.Hooks
	hooks.Add(s.rec.Hook(activity.TaskChange{
		Op:    activity.OpCreate,
		After: taskSnapshot(t),
	}))
	hooks.Run(ctx)
	return nil
}

// Update saves the task; flipping completed from false to true records
// task_completed after commit.
func (s *TaskService) Update(ctx context.Context, id uint, in *models.Task) (*models.Task, error) {
	var before models.Task
	if err := s.db.WithContext(ctx).First(&before, id).Error; err != nil {
		return nil, err
	}

	updated := before
	if in.Title != "" {
		updated.Title = in.Title
	}
	if in.DueDate != nil {
		updated.DueDate = in.DueDate
	}
	if in.Priority != "" {
		updated.Priority = in.Priority
	}
	if in.ClientID != nil {
		updated.ClientID = in.ClientID
	}
	updated.Completed = in.Completed

	if err := s.db.WithContext(ctx).Save(&updated).Error; err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}

	var hooks activity.Hooks
	hooks.Add(s.rec.Hook(activity.TaskChange{
		Op:     activity.OpUpdate,
		Before: ptr(taskSnapshot(&before)),
		After:  taskSnapshot(&updated),
	}))
	hooks.Run(ctx)
	return &updated, nil
}

func (s *TaskService) Get(ctx context.Context, id uint) (*models.Task, error) {
	var t models.Task
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns tasks, open ones first, then by due date.
func (s *TaskService) List(ctx context.Context, clientID uint) ([]models.Task, error) {
	q := s.db.WithContext(ctx).Model(&models.Task{})
	if clientID != 0 {
		q = q.Where("client_id = ?", clientID)
	}
	var tasks []models.Task
	err := q.Order("completed asc, due_date asc, id desc").Find(&tasks).Error
	return tasks, err
}

func (s *TaskService) Delete(ctx context.Context, id uint) error {
	var t models.Task
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.Task{}, id).Error
}
