// This file implements TaskService: owner-scoped CRUD over tasks. Every
// operation receives the authenticated user's id; ownership is checked
// against the stored row before any mutation, and only after existence is
// confirmed (a missing task is not-found, never forbidden).
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/authz"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100

	maxTitleLen       = 255
	maxDescriptionLen = 1000
)

// Pagination describes one page of a task listing.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// List returns the caller's tasks, newest-created-first, optionally filtered
// by status and paginated. Unknown status filter values are ignored rather
// than rejected. Page and limit are clamped to sane bounds.
func (s *TaskService) List(ctx context.Context, userID int64, statusFilter string, page, limit int) ([]*models.Task, *Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	var status *models.Status
	if st := models.Status(statusFilter); st.Valid() {
		status = &st
	}

	repo := s.repomanager.Tasks(s.db)

	total, err := repo.CountByOwner(ctx, userID, status)
	if err != nil {
		return nil, nil, fmt.Errorf("error counting tasks: %w", err)
	}

	items, err := repo.ListByOwner(ctx, userID, status, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, fmt.Errorf("error listing tasks: %w", err)
	}

	totalPages := (total + limit - 1) / limit
	p := &Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}

	return items, p, nil
}

// Create validates the fields and stores a new task owned by userID. The
// owner cannot be chosen by the caller. An empty status defaults to pending.
func (s *TaskService) Create(ctx context.Context, userID int64, title string, description *string, status models.Status) (*models.Task, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if status == "" {
		status = models.StatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid status", common.ErrorValidation)
	}

	task := &models.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      status,
	}

	repo := s.repomanager.Tasks(s.db)
	created, err := repo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return created, nil
}

// Update applies the fields present in patch to the task, after confirming
// it exists and belongs to userID. Absent fields are untouched. The whole
// check-then-mutate sequence runs in one transaction.
func (s *TaskService) Update(ctx context.Context, userID, taskID int64, patch *models.TaskUpdate) (*models.Task, error) {
	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return nil, err
		}
	}
	if patch.Description != nil {
		if err := validateDescription(patch.Description); err != nil {
			return nil, err
		}
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid status", common.ErrorValidation)
	}

	var updated *models.Task
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		task, err := repo.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if err := authz.RequireOwner(userID, task.UserID); err != nil {
			return err
		}

		if patch.Title != nil {
			task.Title = *patch.Title
		}
		if patch.Description != nil {
			task.Description = patch.Description
		}
		if patch.Status != nil {
			task.Status = *patch.Status
		}

		updated, err = repo.Update(ctx, task)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorForbidden) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating task: %w", err)
	}

	return updated, nil
}

// Delete permanently removes the task after the same existence and
// ownership checks as Update. Deleting an already-deleted id is not-found.
func (s *TaskService) Delete(ctx context.Context, userID, taskID int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		task, err := repo.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if err := authz.RequireOwner(userID, task.UserID); err != nil {
			return err
		}

		return repo.Delete(ctx, taskID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorForbidden) {
			return err
		}
		return fmt.Errorf("error deleting task: %w", err)
	}

	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	if len(title) > maxTitleLen {
		return fmt.Errorf("%w: title is too long", common.ErrorValidation)
	}
	return nil
}

func validateDescription(description *string) error {
	if description != nil && len(*description) > maxDescriptionLen {
		return fmt.Errorf("%w: description is too long", common.ErrorValidation)
	}
	return nil
}
