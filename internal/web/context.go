package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/datatable/internal/core"
	"github.com/JonMunkholm/datatable/internal/web/middleware"
)

// SourceWeb tags journal entries for intents dispatched over HTTP.
const SourceWeb = "web"

// requestContext carries the caller's address and user agent into the
// intent journal.
func requestContext(r *http.Request) context.Context {
	ctx := core.ContextWithSource(r.Context(), SourceWeb)
	ctx = core.ContextWithIPAddress(ctx, middleware.ClientIP(r))
	return core.ContextWithUserAgent(ctx, r.UserAgent())
}
