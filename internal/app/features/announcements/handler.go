// internal/app/features/announcements/handler.go
package announcements

import (
	"time"

	"github.com/dalemusser/scholarhub/internal/app/store/announcements"
	"github.com/dalemusser/scholarhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// calendarZone is the zone in which a ?month= is interpreted.
var calendarZone = time.FixedZone("PHT", 8*60*60)

// Handler owns the public announcement feed, the calendar and admin CRUD.
type Handler struct {
	Store    *announcements.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger

	now func() time.Time
}

// NewHandler constructs an announcements Handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:    announcements.New(db),
		AuditLog: audit,
		Log:      logger,
		now:      time.Now,
	}
}
