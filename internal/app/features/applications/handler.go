// internal/app/features/applications/handler.go
package applications

import (
	"time"

	"github.com/dalemusser/scholarhub/internal/app/features/tracking"
	"github.com/dalemusser/scholarhub/internal/app/store/applicationforms"
	appstore "github.com/dalemusser/scholarhub/internal/app/store/applications"
	"github.com/dalemusser/scholarhub/internal/app/store/scholarships"
	userstore "github.com/dalemusser/scholarhub/internal/app/store/users"
	"github.com/dalemusser/scholarhub/internal/app/system/auditlog"
	"github.com/dalemusser/scholarhub/internal/app/system/mailer"
	"github.com/dalemusser/scholarhub/internal/app/system/trackercode"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// maxCodeAttempts bounds tracker code regeneration on a duplicate key.
const maxCodeAttempts = 5

// Handler serves application submission and admin review.
type Handler struct {
	DB           *mongo.Database
	Apps         *appstore.Store
	Forms        *applicationforms.Store
	Users        *userstore.Store
	Scholarships *scholarships.Store
	Tracking     *tracking.Service
	Mailer       *mailer.Mailer
	AuditLog     *auditlog.Logger
	Log          *zap.Logger

	SiteName string
	BaseURL  string

	newCode func(time.Time) (string, error)
}

func NewHandler(db *mongo.Database, svc *tracking.Service, m *mailer.Mailer, audit *auditlog.Logger, siteName, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Apps:         appstore.New(db),
		Forms:        applicationforms.New(db),
		Users:        userstore.New(db),
		Scholarships: scholarships.New(db),
		Tracking:     svc,
		Mailer:       m,
		AuditLog:     audit,
		Log:          logger,
		SiteName:     siteName,
		BaseURL:      baseURL,
		newCode:      trackercode.Generate,
	}
}
