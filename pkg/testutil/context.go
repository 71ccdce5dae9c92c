package testutil

import (
	"net/http"

	id "trs/pkg/domain"
	"trs/pkg/requestcontext"
)

// WithAuth puts the caller the auth middleware would have resolved into the
// request context, so handlers can be tested without minting a token. An
// unparsable userID leaves the caller anonymous.
func WithAuth(req *http.Request, userID, name string, roles ...string) *http.Request {
	ctx := req.Context()
	if parsed, err := id.ParseUserID(userID); err == nil {
		ctx = requestcontext.WithUserID(ctx, parsed)
	}
	if name != "" {
		ctx = requestcontext.WithUserName(ctx, name)
	}
	return req.WithContext(requestcontext.WithRoles(ctx, roles))
}
