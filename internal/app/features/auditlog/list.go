// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/scholarhub/internal/app/store/audit"
	"github.com/dalemusser/scholarhub/internal/app/system/apperr"
	"github.com/dalemusser/scholarhub/internal/app/system/respond"
	"github.com/dalemusser/scholarhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

const pageSize = 50

// listItem is one audit event with actor and target names resolved.
type listItem struct {
	audit.Event
	ActorName  string `json:"actorName,omitempty"`
	TargetName string `json:"targetName,omitempty"`
}

type listResponse struct {
	Events  []listItem `json:"events"`
	Page    int        `json:"page"`
	Total   int64      `json:"total"`
	HasMore bool       `json:"hasMore"`
}

// ServeList handles GET /api/admin/audit with optional category, event_type,
// user_id, start_date, end_date (YYYY-MM-DD) and page.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	page := 1
	if p, err := strconv.Atoi(query.Get(r, "page")); err == nil && p > 0 {
		page = p
	}

	filter := audit.QueryFilter{
		UserID:    query.Get(r, "user_id"),
		Category:  query.Get(r, "category"),
		EventType: query.Get(r, "event_type"),
		Limit:     pageSize,
		Offset:    int64((page - 1) * pageSize),
	}
	if s := query.Get(r, "start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			respond.Error(w, apperr.Validation("start_date", "Dates must look like 2025-06-01."))
			return
		}
		filter.StartTime = &t
	}
	if s := query.Get(r, "end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			respond.Error(w, apperr.Validation("end_date", "Dates must look like 2025-06-01."))
			return
		}
		// End of day
		endOfDay := t.Add(24*time.Hour - time.Second)
		filter.EndTime = &endOfDay
	}

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.Log.Error("query audit events", zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not load the audit log. Please try again."))
		return
	}
	total, err := h.Events.Count(ctx, filter)
	if err != nil {
		h.Log.Error("count audit events", zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not load the audit log. Please try again."))
		return
	}

	seen := map[string]bool{}
	var ids []string
	for _, e := range events {
		for _, id := range []string{e.ActorID, e.UserID} {
			if id != "" && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	names, err := h.Users.NamesByIDs(ctx, ids)
	if err != nil {
		// Names are decoration; the events are still useful without them.
		h.Log.Warn("resolve audit names", zap.Error(err))
		names = map[string]string{}
	}

	items := make([]listItem, 0, len(events))
	for _, e := range events {
		items = append(items, listItem{Event: e, ActorName: names[e.ActorID], TargetName: names[e.UserID]})
	}
	respond.JSON(w, http.StatusOK, listResponse{
		Events:  items,
		Page:    page,
		Total:   total,
		HasMore: int64(page*pageSize) < total,
	})
}
