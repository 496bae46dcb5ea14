package authz

// Role is a user's permission level within one specific project. The zero
// value means the user has no membership.
type Role string

const (
	RoleNone   Role = ""
	RoleAdmin  Role = "Admin"
	RoleMember Role = "Member"
	RoleViewer Role = "Viewer"
)

type Action string

const (
	ActionViewProject   Action = "project.view"
	ActionUpdateProject Action = "project.update"
	ActionDeleteProject Action = "project.delete"
	ActionManageMembers Action = "project.members"
	ActionCreateTask    Action = "task.create"
	ActionUpdateTask    Action = "task.update"
	ActionDeleteTask    Action = "task.delete"
	ActionCreateComment Action = "comment.create"
	ActionUpdateComment Action = "comment.update"
	ActionDeleteComment Action = "comment.delete"
)

// Allowed decides whether a user may perform an action within a project.
//
// Role precedence:
//   - the project owner has full control, independent of any membership row
//   - Admin may create, update and delete any task or comment
//   - Member may create tasks and comments, and update or delete only
//     resources of their own (ownsResource)
//   - Viewer is read-only
//   - no membership and not the owner: no access at all
func Allowed(role Role, isOwner bool, action Action, ownsResource bool) bool {
	if isOwner {
		return true
	}

	switch role {
	case RoleAdmin:
		switch action {
		case ActionViewProject,
			ActionCreateTask, ActionUpdateTask, ActionDeleteTask,
			ActionCreateComment, ActionUpdateComment, ActionDeleteComment:
			return true
		}
		return false
	case RoleMember:
		switch action {
		case ActionViewProject, ActionCreateTask, ActionCreateComment:
			return true
		case ActionUpdateTask, ActionDeleteTask, ActionUpdateComment, ActionDeleteComment:
			return ownsResource
		}
		return false
	case RoleViewer:
		return action == ActionViewProject
	default:
		return false
	}
}

// HasAccess reports whether the user can see the project at all. Handlers
// answer 404 instead of 403 when this is false so that project existence is
// not leaked to outsiders.
func HasAccess(role Role, isOwner bool) bool {
	return isOwner || role != RoleNone
}

// ValidRole reports whether s is one of the assignable membership roles.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}
