package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"pavingquotes/templates"
)

type contextKey string

const QuoteSessionKey contextKey = "quoteSession"
const SidebarDataKey contextKey = "sidebarData"

// GetQuoteSession extracts the editing session from the request context.
func GetQuoteSession(r *http.Request) *QuoteSession {
	if val, ok := r.Context().Value(QuoteSessionKey).(*QuoteSession); ok {
		return val
	}
	return nil
}

// GetSidebarData extracts the pre-built SidebarData from the request context.
func GetSidebarData(r *http.Request) templates.SidebarData {
	if val, ok := r.Context().Value(SidebarDataKey).(templates.SidebarData); ok {
		return val
	}
	return templates.SidebarData{ActivePath: r.URL.Path}
}

// QuoteSessionMiddleware resolves the {sessionId} path value to an open
// editing session and stores it in the request context. Unknown or expired
// sessions are rejected with an error toast.
func QuoteSessionMiddleware(sessions *QuoteSessions) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("sessionId")
		session, ok := sessions.Get(id)
		if !ok {
			log.Printf("middleware: quote session %q not found", id)
			return ErrorToast(e, http.StatusNotFound, "This quote session has expired. Reopen the estimate to start again.")
		}

		ctx := context.WithValue(e.Request.Context(), QuoteSessionKey, session)
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}

// SidebarMiddleware builds the sidebar counts for full-page requests.
// HTMX partial requests skip the queries.
func SidebarMiddleware(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if e.Request.Header.Get("HX-Request") != "true" {
			sidebarData := BuildSidebarData(e.Request, app)
			ctx := context.WithValue(e.Request.Context(), SidebarDataKey, sidebarData)
			e.Request = e.Request.WithContext(ctx)
		}
		return e.Next()
	}
}
