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

type MemberInput struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=Admin Member Viewer"`
}

type CreateProjectRequest struct {
	Name        string        `json:"name" binding:"required"`
	Description string        `json:"description"`
	Members     []MemberInput `json:"members" binding:"omitempty,dive"`
}

type UpdateProjectRequest struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Members     *[]MemberInput `json:"members" binding:"omitempty,dive"`
}

// memberAssignments validates a member list into store assignments. A user
// appearing twice is rejected up front; the membership table enforces the
// same invariant with a unique index.
func memberAssignments(members []MemberInput) ([]store.MemberAssignment, error) {
	seen := make(map[uint]bool, len(members))
	assignments := make([]store.MemberAssignment, 0, len(members))

	for _, member := range members {
		if seen[member.UserID] {
			return nil, errors.New("duplicate user in member list")
		}
		seen[member.UserID] = true

		assignments = append(assignments, store.MemberAssignment{
			UserID: member.UserID,
			Role:   member.Role,
		})
	}

	return assignments, nil
}

// projectForRequest loads the project and resolves the caller's standing on
// it. A project the caller cannot see at all answers 404, not 403, so
// existence is not leaked. Returns ok=false after writing the response.
func projectForRequest(ctx *gin.Context, projectID uint) (*models.Project, authz.Role, bool, bool) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, authz.RoleNone, false, false
	}

	project, err := store.GetProject(db.DB, projectID)

	if err != nil {
		if errors.Is(err, store.ErrProjectNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			log.Printf("Failed to retrieve project: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return nil, authz.RoleNone, false, false
	}

	role, isOwner, err := authz.RoleFor(db.DB, userID, project)

	if err != nil {
		log.Printf("Failed to resolve project role: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return nil, authz.RoleNone, false, false
	}

	if !authz.HasAccess(role, isOwner) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return nil, authz.RoleNone, false, false
	}

	return project, role, isOwner, true
}

// CreateProject creates a project owned by the caller, regardless of anything
// in the request body, with an optional initial member list.
func CreateProject(ctx *gin.Context) {
	var req CreateProjectRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	assignments, err := memberAssignments(req.Members)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
	}

	if err := store.CreateProject(db.DB, &project, assignments); err != nil {
		if errors.Is(err, store.ErrUnknownMember) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Failed to create project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	created, err := store.GetProject(db.DB, project.ID)

	if err != nil {
		log.Printf("Failed to reload project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	ctx.JSON(http.StatusCreated, projectResponse(created))
}

// ListProjects returns the projects the caller owns or belongs to.
func ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projects, err := store.ListProjectsForUser(db.DB, userID)

	if err != nil {
		log.Printf("Failed to list projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	response := make([]interface{}, 0, len(projects))

	for i := range projects {
		response = append(response, projectResponse(&projects[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetProject(ctx *gin.Context) {
	projectID, err := utils.IDParam(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, _, _, ok := projectForRequest(ctx, projectID)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(project))
}

// UpdateProject is owner-only. Name and description update partially; a
// supplied member list replaces the whole membership set atomically.
func UpdateProject(ctx *gin.Context) {
	projectID, err := utils.IDParam(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, role, isOwner, ok := projectForRequest(ctx, projectID)

	if !ok {
		return
	}

	if !authz.Allowed(role, isOwner, authz.ActionUpdateProject, false) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the project owner can update the project"})
		return
	}

	var req UpdateProjectRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}

	if req.Description != nil {
		updates["description"] = *req.Description
	}

	var assignments []store.MemberAssignment
	replaceMembers := req.Members != nil

	if replaceMembers {
		if !authz.Allowed(role, isOwner, authz.ActionManageMembers, false) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the project owner can manage members"})
			return
		}

		assignments, err = memberAssignments(*req.Members)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := store.UpdateProject(db.DB, project, updates, assignments, replaceMembers); err != nil {
		if errors.Is(err, store.ErrUnknownMember) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Failed to update project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	updated, err := store.GetProject(db.DB, project.ID)

	if err != nil {
		log.Printf("Failed to reload project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(updated))
}

// DeleteProject is owner-only and cascades to memberships, tasks and their
// comments.
func DeleteProject(ctx *gin.Context) {
	projectID, err := utils.IDParam(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, role, isOwner, ok := projectForRequest(ctx, projectID)

	if !ok {
		return
	}

	if !authz.Allowed(role, isOwner, authz.ActionDeleteProject, false) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the project owner can delete the project"})
		return
	}

	if err := store.DeleteProject(db.DB, project.ID); err != nil {
		log.Printf("Failed to delete project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
