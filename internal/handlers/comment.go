package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/authz"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/store"
	"github.com/taskhive-dev/taskhive/internal/utils"
)

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// commentForRequest loads the comment with its task and project and resolves
// the caller's standing. Comments in projects the caller cannot see answer
// 404.
func commentForRequest(ctx *gin.Context) (*models.Comment, authz.Role, bool, bool) {
	commentID, err := utils.IDParam(ctx, "comment_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, authz.RoleNone, false, false
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, authz.RoleNone, false, false
	}

	comment, err := store.GetComment(db.DB, commentID)

	if err != nil {
		if errors.Is(err, store.ErrCommentNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		} else {
			log.Printf("Failed to retrieve comment: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comment"})
		}
		return nil, authz.RoleNone, false, false
	}

	role, isOwner, err := authz.RoleFor(db.DB, userID, &comment.Task.Project)

	if err != nil {
		log.Printf("Failed to resolve project role: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comment"})
		return nil, authz.RoleNone, false, false
	}

	if !authz.HasAccess(role, isOwner) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return nil, authz.RoleNone, false, false
	}

	return comment, role, isOwner, true
}

// ListComments lists a task's comments. A task with no comments answers an
// empty list, not an error.
func ListComments(ctx *gin.Context) {
	task, _, _, ok := taskForRequest(ctx)

	if !ok {
		return
	}

	comments, err := store.ListComments(db.DB, task.ID)

	if err != nil {
		log.Printf("Failed to list comments: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	response := make([]interface{}, 0, len(comments))

	for i := range comments {
		response = append(response, commentResponse(&comments[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

// CreateComment attaches a comment to the task, authored by the caller
// regardless of anything in the request body.
func CreateComment(ctx *gin.Context) {
	task, role, isOwner, ok := taskForRequest(ctx)

	if !ok {
		return
	}

	if !authz.Allowed(role, isOwner, authz.ActionCreateComment, false) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to comment on this task"})
		return
	}

	var req CreateCommentRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := utils.GetCurrentUserID(ctx)

	comment := models.Comment{
		Content: req.Content,
		UserID:  userID,
		TaskID:  task.ID,
	}

	if err := store.CreateComment(db.DB, &comment); err != nil {
		log.Printf("Failed to create comment: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	BroadcastProjectEvent(task.ProjectID, "comment.created")

	ctx.JSON(http.StatusCreated, commentResponse(&comment))
}

func GetComment(ctx *gin.Context) {
	comment, _, _, ok := commentForRequest(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, commentResponse(comment))
}

// UpdateComment edits the comment text. Members may only edit their own
// comments.
func UpdateComment(ctx *gin.Context) {
	comment, role, isOwner, ok := commentForRequest(ctx)

	if !ok {
		return
	}

	userID, _ := utils.GetCurrentUserID(ctx)

	if !authz.Allowed(role, isOwner, authz.ActionUpdateComment, comment.UserID == userID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to update this comment"})
		return
	}

	var req UpdateCommentRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := store.UpdateComment(db.DB, comment, req.Content); err != nil {
		log.Printf("Failed to update comment: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}

	BroadcastProjectEvent(comment.Task.ProjectID, "comment.updated")

	ctx.JSON(http.StatusOK, commentResponse(comment))
}

func DeleteComment(ctx *gin.Context) {
	comment, role, isOwner, ok := commentForRequest(ctx)

	if !ok {
		return
	}

	userID, _ := utils.GetCurrentUserID(ctx)

	if !authz.Allowed(role, isOwner, authz.ActionDeleteComment, comment.UserID == userID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to delete this comment"})
		return
	}

	if err := store.DeleteComment(db.DB, comment.ID); err != nil {
		log.Printf("Failed to delete comment: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	BroadcastProjectEvent(comment.Task.ProjectID, "comment.deleted")

	ctx.Status(http.StatusNoContent)
}
