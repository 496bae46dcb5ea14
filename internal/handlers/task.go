package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/authz"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/store"
	"github.com/taskhive-dev/taskhive/internal/utils"
)

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status" binding:"omitempty,oneof='To Do' 'In Progress' 'Done'"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=Low Medium High"`
	AssignedTo  *uint      `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status" binding:"omitempty,oneof='To Do' 'In Progress' 'Done'"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=Low Medium High"`
	AssignedTo  *uint      `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

// ownsTask reports whether the user created the task or is assigned to it,
// which is what "their own" means for the Member role.
func ownsTask(task *models.Task, userID uint) bool {
	if task.CreatedByID != nil && *task.CreatedByID == userID {
		return true
	}
	return task.AssignedToID != nil && *task.AssignedToID == userID
}

// taskForRequest loads the task with its project and resolves the caller's
// standing. Tasks in projects the caller cannot see answer 404.
func taskForRequest(ctx *gin.Context) (*models.Task, authz.Role, bool, bool) {
	taskID, err := utils.IDParam(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, authz.RoleNone, false, false
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, authz.RoleNone, false, false
	}

	task, err := store.GetTask(db.DB, taskID)

	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			log.Printf("Failed to retrieve task: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return nil, authz.RoleNone, false, false
	}

	role, isOwner, err := authz.RoleFor(db.DB, userID, &task.Project)

	if err != nil {
		log.Printf("Failed to resolve project role: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return nil, authz.RoleNone, false, false
	}

	if !authz.HasAccess(role, isOwner) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return nil, authz.RoleNone, false, false
	}

	return task, role, isOwner, true
}

// ListTasks lists the tasks of a project the caller can see.
func ListTasks(ctx *gin.Context) {
	projectID, err := utils.IDParam(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, _, _, ok := projectForRequest(ctx, projectID)

	if !ok {
		return
	}

	tasks, err := store.ListTasks(db.DB, project.ID)

	if err != nil {
		log.Printf("Failed to list tasks: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	response := make([]interface{}, 0, len(tasks))

	for i := range tasks {
		response = append(response, taskResponse(&tasks[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

// CreateTask creates a task in the project. Owner, Admin and Member may
// create; Viewer may not.
func CreateTask(ctx *gin.Context) {
	projectID, err := utils.IDParam(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, role, isOwner, ok := projectForRequest(ctx, projectID)

	if !ok {
		return
	}

	if !authz.Allowed(role, isOwner, authz.ActionCreateTask, false) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to create tasks in this project"})
		return
	}

	var req CreateTaskRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := utils.GetCurrentUserID(ctx)

	task := models.Task{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		ProjectID:    project.ID,
		CreatedByID:  &userID,
		AssignedToID: req.AssignedTo,
		DueDate:      req.DueDate,
	}

	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}

	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}

	if task.Status == models.TaskStatusDone {
		now := time.Now()
		task.CompletedAt = &now
	}

	if err := store.CreateTask(db.DB, &task); err != nil {
		if errors.Is(err, store.ErrUnknownAssignee) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Assigned user does not exist"})
			return
		}
		log.Printf("Failed to create task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	BroadcastProjectEvent(project.ID, "task.created")

	ctx.JSON(http.StatusCreated, taskResponse(&task))
}

func GetTask(ctx *gin.Context) {
	task, _, _, ok := taskForRequest(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, taskResponse(task))
}

// UpdateTask applies a partial update. Members may only touch tasks they
// created or are assigned to. Moving a task into Done stamps completed_at;
// moving it back out clears it. An assigned_to of 0 clears the assignment.
func UpdateTask(ctx *gin.Context) {
	task, role, isOwner, ok := taskForRequest(ctx)

	if !ok {
		return
	}

	userID, _ := utils.GetCurrentUserID(ctx)

	if !authz.Allowed(role, isOwner, authz.ActionUpdateTask, ownsTask(task, userID)) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to update this task"})
		return
	}

	var req UpdateTaskRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})

	if req.Title != nil {
		updates["title"] = *req.Title
	}

	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if req.Status != nil && *req.Status != task.Status {
		updates["status"] = *req.Status

		if *req.Status == models.TaskStatusDone {
			updates["completed_at"] = time.Now()
		} else {
			updates["completed_at"] = nil
		}
	}

	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}

	if req.AssignedTo != nil {
		if *req.AssignedTo == 0 {
			updates["assigned_to_id"] = nil
		} else {
			updates["assigned_to_id"] = *req.AssignedTo
		}
	}

	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	if err := store.UpdateTask(db.DB, task, updates); err != nil {
		if errors.Is(err, store.ErrUnknownAssignee) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Assigned user does not exist"})
			return
		}
		log.Printf("Failed to update task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	updated, err := store.GetTask(db.DB, task.ID)

	if err != nil {
		log.Printf("Failed to reload task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	BroadcastProjectEvent(task.ProjectID, "task.updated")

	ctx.JSON(http.StatusOK, taskResponse(updated))
}

// DeleteTask removes the task and its comments.
func DeleteTask(ctx *gin.Context) {
	task, role, isOwner, ok := taskForRequest(ctx)

	if !ok {
		return
	}

	userID, _ := utils.GetCurrentUserID(ctx)

	if !authz.Allowed(role, isOwner, authz.ActionDeleteTask, ownsTask(task, userID)) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to delete this task"})
		return
	}

	if err := store.DeleteTask(db.DB, task.ID); err != nil {
		log.Printf("Failed to delete task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	BroadcastProjectEvent(task.ProjectID, "task.deleted")

	ctx.Status(http.StatusNoContent)
}
