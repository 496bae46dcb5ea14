package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/middleware"
	"github.com/taskhive-dev/taskhive/internal/types"
)

// ErrNotAuthenticated means the request context carries no authenticated
// user, i.e. the auth middleware did not run on this route.
var ErrNotAuthenticated = errors.New("no authenticated user in context")

// GetCurrentUser returns the user the auth middleware stored on the context.
func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	value, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, ErrNotAuthenticated
	}

	user, ok := value.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, ErrNotAuthenticated
	}

	return user, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}
