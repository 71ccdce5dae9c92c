package service

import (
	"context"

	"trs/internal/history/events"
	"trs/pkg/requestcontext"
)

// CurrentActor is the user on ctx, or the system when no user is
// authenticated (imports, scheduled jobs).
func CurrentActor(ctx context.Context) events.Actor {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		return events.SystemActor{}
	}
	return events.UserActor{UserID: userID, Name: requestcontext.UserName(ctx)}
}
