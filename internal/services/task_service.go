package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tasktrack/internal/models"
)

// TaskServiceProvider defines the interface for task services.
//
// Every method takes the owning user as an explicit argument and every query
// underneath is scoped to that owner, so an unscoped read or write cannot be
// expressed.
type TaskServiceProvider interface {
	Create(user models.User, title, description, dueDate string) (models.Task, error)
	List(user models.User) ([]models.Task, error)
	Get(user models.User, taskID string) (models.Task, error)
	Edit(user models.User, taskID, title, description, dueDate string, isCompleted bool) (models.Task, error)
	Toggle(user models.User, taskID string) (models.Task, error)
	Delete(user models.User, taskID string) error
}

// TaskService provides business logic for task management.
type TaskService struct {
	db       *sql.DB
	eventSvc EventServiceProvider
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *sql.DB, eventSvc EventServiceProvider) *TaskService {
	return &TaskService{db: db, eventSvc: eventSvc}
}

// validateTask checks the mutable task fields shared by Create and Edit.
func validateTask(title, dueDate string) (time.Time, error) {
	if strings.TrimSpace(title) == "" {
		return time.Time{}, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	due, err := time.Parse(models.DueDateLayout, dueDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: due date %q is not a valid calendar date", ErrValidation, dueDate)
	}
	return due, nil
}

// Create adds a new task owned by the given user.
func (s *TaskService) Create(user models.User, title, description, dueDate string) (models.Task, error) {
	due, err := validateTask(title, dueDate)
	if err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ID:          uuid.New().String(),
		OwnerID:     user.ID,
		Title:       title,
		Description: description,
		DueDate:     due,
	}

	stmt, err := s.db.Prepare("INSERT INTO tasks(id, owner_id, title, description, due_date, is_completed) VALUES(?, ?, ?, ?, ?, 0)")
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer stmt.Close()

	if _, err = stmt.Exec(task.ID, task.OwnerID, task.Title, task.Description, due.Format(models.DueDateLayout)); err != nil {
		return models.Task{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	s.eventSvc.Record("task.create", "info", fmt.Sprintf("Task '%s' created.", task.Title), &user.ID)
	return s.Get(user, task.ID)
}

// List retrieves all tasks owned by the user in insertion order. The rowid
// tiebreak keeps ordering stable when tasks share a creation timestamp.
func (s *TaskService) List(user models.User) ([]models.Task, error) {
	rows, err := s.db.Query(`
		SELECT id, owner_id, title, description, due_date, is_completed, created_at
		FROM tasks WHERE owner_id = ? ORDER BY created_at ASC, rowid ASC`, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Get retrieves a single task by ID. A task owned by another user is reported
// as ErrNotFound, same as a task that does not exist.
func (s *TaskService) Get(user models.User, taskID string) (models.Task, error) {
	row := s.db.QueryRow(`
		SELECT id, owner_id, title, description, due_date, is_completed, created_at
		FROM tasks WHERE id = ? AND owner_id = ?`, taskID, user.ID)
	return scanTask(row)
}

// Edit replaces all four mutable fields of a task atomically. A validation
// failure leaves the stored task unchanged.
func (s *TaskService) Edit(user models.User, taskID, title, description, dueDate string, isCompleted bool) (models.Task, error) {
	due, err := validateTask(title, dueDate)
	if err != nil {
		return models.Task{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer tx.Rollback()

	if _, err := scanTask(tx.QueryRow(
		"SELECT id, owner_id, title, description, due_date, is_completed, created_at FROM tasks WHERE id = ? AND owner_id = ?",
		taskID, user.ID)); err != nil {
		return models.Task{}, err
	}

	_, err = tx.Exec(
		"UPDATE tasks SET title = ?, description = ?, due_date = ?, is_completed = ? WHERE id = ? AND owner_id = ?",
		title, description, due.Format(models.DueDateLayout), isCompleted, taskID, user.ID)
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return models.Task{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	s.eventSvc.Record("task.update", "info", fmt.Sprintf("Task '%s' updated.", title), &user.ID)
	return s.Get(user, taskID)
}

// Toggle flips a task's completion flag. No other field changes.
func (s *TaskService) Toggle(user models.User, taskID string) (models.Task, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer tx.Rollback()

	task, err := scanTask(tx.QueryRow(
		"SELECT id, owner_id, title, description, due_date, is_completed, created_at FROM tasks WHERE id = ? AND owner_id = ?",
		taskID, user.ID))
	if err != nil {
		return models.Task{}, err
	}

	_, err = tx.Exec("UPDATE tasks SET is_completed = ? WHERE id = ? AND owner_id = ?",
		!task.IsCompleted, taskID, user.ID)
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return models.Task{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	s.eventSvc.Record("task.toggle", "info", fmt.Sprintf("Task '%s' status updated.", task.Title), &user.ID)
	task.IsCompleted = !task.IsCompleted
	return task, nil
}

// Delete permanently removes a task. Deletion of a missing or other-owner
// task fails with ErrNotFound.
func (s *TaskService) Delete(user models.User, taskID string) error {
	task, err := s.Get(user, taskID)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec("DELETE FROM tasks WHERE id = ? AND owner_id = ?", taskID, user.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	s.eventSvc.Record("task.delete", "warn", fmt.Sprintf("Task '%s' was deleted.", task.Title), &user.ID)
	return nil
}

// scanTask is a helper to scan a single row into a Task struct.
func scanTask(scanner interface{ Scan(...interface{}) error }) (models.Task, error) {
	var task models.Task
	var dueDate string
	err := scanner.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&dueDate,
		&task.IsCompleted,
		&task.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Task{}, ErrNotFound
		}
		return models.Task{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	task.DueDate, err = time.Parse(models.DueDateLayout, dueDate)
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: malformed due_date %q", ErrStorage, dueDate)
	}
	return task, nil
}
