package handlers

import (
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
)

func userResponse(user *models.User) types.UserResponse {
	return types.UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		DateJoined: user.DateJoined,
	}
}

func projectResponse(project *models.Project) types.ProjectResponse {
	members := make([]types.ProjectMemberResponse, 0, len(project.Members))

	for _, member := range project.Members {
		members = append(members, types.ProjectMemberResponse{
			ID:       member.ID,
			UserID:   member.UserID,
			Username: member.User.Username,
			Role:     member.Role,
		})
	}

	return types.ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Owner:       userResponse(&project.Owner),
		Members:     members,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func taskResponse(task *models.Task) types.TaskResponse {
	return types.TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		ProjectID:   task.ProjectID,
		CreatedBy:   task.CreatedByID,
		AssignedTo:  task.AssignedToID,
		DueDate:     task.DueDate,
		CompletedAt: task.CompletedAt,
		IsOverdue:   task.IsOverdue(),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func commentResponse(comment *models.Comment) types.CommentResponse {
	return types.CommentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		UserID:    comment.UserID,
		TaskID:    comment.TaskID,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}
