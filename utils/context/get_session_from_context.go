package context

import (
	"context"

	"github.com/octabyte/salon-gommon/models"
)

func WithSessionUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, sessionKey, user)
}

func GetSessionFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(sessionKey).(models.User)
	return user, ok
}
