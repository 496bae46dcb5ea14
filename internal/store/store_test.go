package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/taskhive-dev/taskhive/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = gdb.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.Comment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return gdb
}

func createTestUser(t *testing.T, gdb *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "not-a-real-hash",
		DateJoined:   time.Now(),
		IsActive:     true,
	}

	if err := CreateUser(gdb, user); err != nil {
		t.Fatalf("failed to create test user %s: %v", username, err)
	}

	return user
}

func createTestProject(t *testing.T, gdb *gorm.DB, owner *models.User, members []MemberAssignment) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:    "Test Project",
		OwnerID: owner.ID,
	}

	if err := CreateProject(gdb, project, members); err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}

	return project
}

func TestCreateUser_Duplicates(t *testing.T) {
	gdb := setupTestDB(t)

	createTestUser(t, gdb, "alice")

	sameUsername := &models.User{
		Username:     "alice",
		Email:        "other@example.com",
		PasswordHash: "x",
		DateJoined:   time.Now(),
	}
	if err := CreateUser(gdb, sameUsername); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}

	sameEmail := &models.User{
		Username:     "bob",
		Email:        "alice@example.com",
		PasswordHash: "x",
		DateJoined:   time.Now(),
	}
	if err := CreateUser(gdb, sameEmail); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestCreateProject_UnknownMemberRollsBack(t *testing.T) {
	gdb := setupTestDB(t)

	owner := createTestUser(t, gdb, "owner")

	project := &models.Project{Name: "Doomed", OwnerID: owner.ID}
	members := []MemberAssignment{{UserID: 9999, Role: models.RoleMember}}

	err := CreateProject(gdb, project, members)
	if !errors.Is(err, ErrUnknownMember) {
		t.Fatalf("expected ErrUnknownMember, got %v", err)
	}

	var count int64
	gdb.Model(&models.Project{}).Where("name = ?", "Doomed").Count(&count)
	if count != 0 {
		t.Errorf("expected no project rows after rollback, found %d", count)
	}
}

func TestUpdateProject_ReplaceMembersAtomic(t *testing.T) {
	gdb := setupTestDB(t)

	owner := createTestUser(t, gdb, "owner")
	alice := createTestUser(t, gdb, "alice")
	bob := createTestUser(t, gdb, "bob")

	project := createTestProject(t, gdb, owner, []MemberAssignment{
		{UserID: alice.ID, Role: models.RoleAdmin},
	})

	t.Run("failure keeps original membership", func(t *testing.T) {
		replacement := []MemberAssignment{
			{UserID: bob.ID, Role: models.RoleMember},
			{UserID: 9999, Role: models.RoleViewer},
		}

		err := UpdateProject(gdb, project, nil, replacement, true)
		if !errors.Is(err, ErrUnknownMember) {
			t.Fatalf("expected ErrUnknownMember, got %v", err)
		}

		var members []models.ProjectMember
		if err := gdb.Where("project_id = ?", project.ID).Find(&members).Error; err != nil {
			t.Fatalf("failed to load members: %v", err)
		}

		if len(members) != 1 || members[0].UserID != alice.ID || members[0].Role != models.RoleAdmin {
			t.Errorf("membership set changed after failed replace: %+v", members)
		}
	})

	t.Run("success swaps the whole set", func(t *testing.T) {
		replacement := []MemberAssignment{
			{UserID: bob.ID, Role: models.RoleViewer},
		}

		if err := UpdateProject(gdb, project, nil, replacement, true); err != nil {
			t.Fatalf("UpdateProject() error = %v", err)
		}

		var members []models.ProjectMember
		if err := gdb.Where("project_id = ?", project.ID).Find(&members).Error; err != nil {
			t.Fatalf("failed to load members: %v", err)
		}

		if len(members) != 1 || members[0].UserID != bob.ID || members[0].Role != models.RoleViewer {
			t.Errorf("unexpected membership set after replace: %+v", members)
		}
	})

	t.Run("absent member list leaves membership untouched", func(t *testing.T) {
		if err := UpdateProject(gdb, project, map[string]interface{}{"name": "Renamed"}, nil, false); err != nil {
			t.Fatalf("UpdateProject() error = %v", err)
		}

		var count int64
		gdb.Model(&models.ProjectMember{}).Where("project_id = ?", project.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 member, got %d", count)
		}
	})
}

func TestMembershipUniquePerProject(t *testing.T) {
	gdb := setupTestDB(t)

	owner := createTestUser(t, gdb, "owner")
	alice := createTestUser(t, gdb, "alice")

	project := createTestProject(t, gdb, owner, []MemberAssignment{
		{UserID: alice.ID, Role: models.RoleMember},
	})

	duplicate := models.ProjectMember{
		ProjectID: project.ID,
		UserID:    alice.ID,
		Role:      models.RoleAdmin,
	}

	if err := gdb.Create(&duplicate).Error; err == nil {
		t.Error("expected unique index violation for duplicate membership, got nil")
	}
}

func TestDeleteProject_Cascades(t *testing.T) {
	gdb := setupTestDB(t)

	owner := createTestUser(t, gdb, "owner")
	alice := createTestUser(t, gdb, "alice")

	project := createTestProject(t, gdb, owner, []MemberAssignment{
		{UserID: alice.ID, Role: models.RoleMember},
	})

	task := &models.Task{
		Title:     "Task",
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityMedium,
		ProjectID: project.ID,
	}
	if err := CreateTask(gdb, task); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	comment := &models.Comment{Content: "hello", UserID: alice.ID, TaskID: task.ID}
	if err := CreateComment(gdb, comment); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}

	if err := DeleteProject(gdb, project.ID); err != nil {
		t.Fatalf("DeleteProject() error = %v", err)
	}

	if _, err := GetProject(gdb, project.ID); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound after delete, got %v", err)
	}
	if _, err := GetTask(gdb, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound after cascade, got %v", err)
	}
	if _, err := GetComment(gdb, comment.ID); !errors.Is(err, ErrCommentNotFound) {
		t.Errorf("expected ErrCommentNotFound after cascade, got %v", err)
	}

	var memberCount int64
	gdb.Model(&models.ProjectMember{}).Where("project_id = ?", project.ID).Count(&memberCount)
	if memberCount != 0 {
		t.Errorf("expected 0 memberships after cascade, got %d", memberCount)
	}
}

func TestDeleteTask_CascadesComments(t *testing.T) {
	gdb := setupTestDB(t)

	owner := createTestUser(t, gdb, "owner")
	project := createTestProject(t, gdb, owner, nil)

	task := &models.Task{Title: "Task", Status: models.TaskStatusTodo, Priority: models.TaskPriorityLow, ProjectID: project.ID}
	if err := CreateTask(gdb, task); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	comment := &models.Comment{Content: "bye", UserID: owner.ID, TaskID: task.ID}
	if err := CreateComment(gdb, comment); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}

	if err := DeleteTask(gdb, task.ID); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}

	if _, err := GetComment(gdb, comment.ID); !errors.Is(err, ErrCommentNotFound) {
		t.Errorf("expected ErrCommentNotFound after cascade, got %v", err)
	}
}

func TestDeleteUser_ClearsAssignmentsAndCascadesOwnership(t *testing.T) {
	gdb := setupTestDB(t)

	owner := createTestUser(t, gdb, "owner")
	worker := createTestUser(t, gdb, "worker")

	project := createTestProject(t, gdb, owner, []MemberAssignment{
		{UserID: worker.ID, Role: models.RoleMember},
	})

	task := &models.Task{
		Title:        "Assigned",
		Status:       models.TaskStatusInProgress,
		Priority:     models.TaskPriorityHigh,
		ProjectID:    project.ID,
		CreatedByID:  &owner.ID,
		AssignedToID: &worker.ID,
	}
	if err := CreateTask(gdb, task); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	comment := &models.Comment{Content: "from worker", UserID: worker.ID, TaskID: task.ID}
	if err := CreateComment(gdb, comment); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}

	t.Run("deleting the assignee keeps the task", func(t *testing.T) {
		if err := DeleteUser(gdb, worker.ID); err != nil {
			t.Fatalf("DeleteUser() error = %v", err)
		}

		reloaded, err := GetTask(gdb, task.ID)
		if err != nil {
			t.Fatalf("task should survive assignee deletion: %v", err)
		}
		if reloaded.AssignedToID != nil {
			t.Errorf("expected assigned_to cleared, got %v", *reloaded.AssignedToID)
		}

		if _, err := GetComment(gdb, comment.ID); !errors.Is(err, ErrCommentNotFound) {
			t.Errorf("expected worker's comment removed, got %v", err)
		}

		var memberCount int64
		gdb.Model(&models.ProjectMember{}).Where("user_id = ?", worker.ID).Count(&memberCount)
		if memberCount != 0 {
			t.Errorf("expected 0 memberships for deleted user, got %d", memberCount)
		}
	})

	t.Run("deleting the owner removes owned projects", func(t *testing.T) {
		if err := DeleteUser(gdb, owner.ID); err != nil {
			t.Fatalf("DeleteUser() error = %v", err)
		}

		if _, err := GetProject(gdb, project.ID); !errors.Is(err, ErrProjectNotFound) {
			t.Errorf("expected owned project gone, got %v", err)
		}
		if _, err := GetTask(gdb, task.ID); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected task gone with project, got %v", err)
		}
	})
}

func TestListComments_EmptyIsNotAnError(t *testing.T) {
	gdb := setupTestDB(t)

	owner := createTestUser(t, gdb, "owner")
	project := createTestProject(t, gdb, owner, nil)

	task := &models.Task{Title: "Quiet", Status: models.TaskStatusTodo, Priority: models.TaskPriorityLow, ProjectID: project.ID}
	if err := CreateTask(gdb, task); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	comments, err := ListComments(gdb, task.ID)
	if err != nil {
		t.Fatalf("ListComments() error = %v", err)
	}
	if comments == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(comments) != 0 {
		t.Errorf("expected 0 comments, got %d", len(comments))
	}
}

func TestCreateTask_UnknownAssignee(t *testing.T) {
	gdb := setupTestDB(t)

	owner := createTestUser(t, gdb, "owner")
	project := createTestProject(t, gdb, owner, nil)

	missing := uint(9999)
	task := &models.Task{
		Title:        "Bad assignee",
		Status:       models.TaskStatusTodo,
		Priority:     models.TaskPriorityLow,
		ProjectID:    project.ID,
		AssignedToID: &missing,
	}

	if err := CreateTask(gdb, task); !errors.Is(err, ErrUnknownAssignee) {
		t.Errorf("expected ErrUnknownAssignee, got %v", err)
	}
}

func TestListProjectsForUser(t *testing.T) {
	gdb := setupTestDB(t)

	alice := createTestUser(t, gdb, "alice")
	bob := createTestUser(t, gdb, "bob")
	carol := createTestUser(t, gdb, "carol")

	owned := createTestProject(t, gdb, alice, nil)
	joined := createTestProject(t, gdb, bob, []MemberAssignment{
		{UserID: alice.ID, Role: models.RoleViewer},
	})
	createTestProject(t, gdb, carol, nil)

	projects, err := ListProjectsForUser(gdb, alice.ID)
	if err != nil {
		t.Fatalf("ListProjectsForUser() error = %v", err)
	}

	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}

	ids := map[uint]bool{projects[0].ID: true, projects[1].ID: true}
	if !ids[owned.ID] || !ids[joined.ID] {
		t.Errorf("expected projects %d and %d, got %v", owned.ID, joined.ID, ids)
	}
}
