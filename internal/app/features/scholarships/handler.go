// internal/app/features/scholarships/handler.go
package scholarships

import (
	"github.com/dalemusser/scholarhub/internal/app/store/scholarships"
	"github.com/dalemusser/scholarhub/internal/app/system/auditlog"
	"github.com/dalemusser/scholarhub/internal/app/system/benefit"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the scholarship catalogue and its admin editing.
type Handler struct {
	Store    *scholarships.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a scholarships Handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:    scholarships.New(db),
		AuditLog: audit,
		Log:      logger,
	}
}

// Row is a scholarship with the benefit shown to students.
type Row struct {
	models.Scholarship
	ResolvedBenefit benefit.Result `json:"resolvedBenefit"`
}

func toRow(s models.Scholarship) Row {
	return Row{Scholarship: s, ResolvedBenefit: benefit.ForScholarship(s, benefit.Static)}
}
