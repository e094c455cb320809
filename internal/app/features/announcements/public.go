package announcements

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/scholarhub/internal/app/system/annstatus"
	"github.com/dalemusser/scholarhub/internal/app/system/apperr"
	"github.com/dalemusser/scholarhub/internal/app/system/respond"
	"github.com/dalemusser/scholarhub/internal/app/system/timeouts"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// Row is an announcement with its effective status at request time.
type Row struct {
	models.Announcement
	Status annstatus.Status `json:"status"`
}

// yearLevelAll values on an announcement address every year level.
var yearLevelAll = map[string]bool{"": true, "all": true, "all year levels": true}

// Matches reports whether a is addressed to the given scholarship and year
// level. Empty filters match everything.
func Matches(a models.Announcement, scholarship, yearLevel string) bool {
	if scholarship != "" {
		names, everyone := a.Targets()
		if !everyone && !containsFold(names, scholarship) {
			return false
		}
	}
	if yearLevel != "" && !yearLevelAll[strings.ToLower(strings.TrimSpace(a.TargetYearLevel))] {
		if !strings.EqualFold(strings.TrimSpace(a.TargetYearLevel), yearLevel) {
			return false
		}
	}
	return true
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}

// ServeList handles GET /api/announcements?view=landing|all&scholarship=&yearLevel=.
//
// The landing view leaves out archived announcements.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	view := query.Get(r, "view")
	if view == "" {
		view = "landing"
	}
	if view != "landing" && view != "all" {
		respond.Error(w, apperr.Validation("view", "View must be landing or all."))
		return
	}
	scholarship := query.Get(r, "scholarship")
	yearLevel := query.Get(r, "yearLevel")

	now := h.now()
	var endAfter time.Time
	if view == "landing" {
		endAfter = now.Add(-annstatus.Grace)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Store.List(ctx, endAfter)
	if err != nil {
		h.Log.Error("list announcements", zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not load announcements. Please try again."))
		return
	}

	rows := make([]Row, 0, len(list))
	for _, a := range list {
		st := annstatus.Of(a, now)
		if view == "landing" && st == annstatus.Archived {
			continue
		}
		if !Matches(a, scholarship, yearLevel) {
			continue
		}
		rows = append(rows, Row{Announcement: a, Status: st})
	}
	respond.JSON(w, http.StatusOK, map[string]any{"announcements": rows})
}

// ServeCalendar handles GET /api/calendar?month=YYYY-MM. Without a month the
// current one is used.
func (h *Handler) ServeCalendar(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	month := query.Get(r, "month")

	var from time.Time
	if month == "" {
		local := now.In(calendarZone)
		from = time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, calendarZone)
	} else {
		t, err := time.ParseInLocation("2006-01", month, calendarZone)
		if err != nil {
			respond.Error(w, apperr.Validation("month", "Month must look like 2025-06."))
			return
		}
		from = t
	}
	to := from.AddDate(0, 1, 0)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Store.ListWindow(ctx, from.UTC(), to.UTC())
	if err != nil {
		h.Log.Error("list calendar announcements", zap.String("month", from.Format("2006-01")), zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not load the calendar. Please try again."))
		return
	}

	rows := make([]Row, 0, len(list))
	for _, a := range list {
		rows = append(rows, Row{Announcement: a, Status: annstatus.Of(a, now)})
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"month":         from.Format("2006-01"),
		"announcements": rows,
	})
}
