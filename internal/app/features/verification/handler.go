// internal/app/features/verification/handler.go
package verification

import (
	"time"

	userstore "github.com/dalemusser/scholarhub/internal/app/store/users"
	"github.com/dalemusser/scholarhub/internal/app/store/verifications"
	"github.com/dalemusser/scholarhub/internal/app/system/auditlog"
	"github.com/dalemusser/scholarhub/internal/app/system/mailer"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// defaultMaxUpload caps a whole verification request (three documents).
const defaultMaxUpload = 25 << 20

// displayZone is used for timestamps in notification emails.
var displayZone = time.FixedZone("PHT", 8*60*60)

// Handler serves the verification wizard and its admin review.
type Handler struct {
	Verifications *verifications.Store
	Users         *userstore.Store
	Mailer        *mailer.Mailer
	AuditLog      *auditlog.Logger
	Log           *zap.Logger

	SiteName   string
	BaseURL    string
	AdminEmail string
	MaxUpload  int64
}

func NewHandler(db *mongo.Database, m *mailer.Mailer, audit *auditlog.Logger, siteName, baseURL, adminEmail string, logger *zap.Logger) *Handler {
	return &Handler{
		Verifications: verifications.New(db, logger),
		Users:         userstore.New(db),
		Mailer:        m,
		AuditLog:      audit,
		Log:           logger,
		SiteName:      siteName,
		BaseURL:       baseURL,
		AdminEmail:    adminEmail,
		MaxUpload:     defaultMaxUpload,
	}
}

func (h *Handler) emailData(v models.Verification) mailer.VerificationEmailData {
	return mailer.VerificationEmailData{
		SiteName:      h.SiteName,
		StudentName:   v.FullName,
		StudentEmail:  v.Email,
		StudentNumber: v.StudentNumber,
		Course:        v.Course,
		Campus:        v.Campus,
		YearLevel:     v.YearLevel,
		SubmittedAt:   v.SubmittedAt.In(displayZone).Format("January 2, 2006 3:04 PM"),
		Remarks:       v.ReviewRemarks,
		PortalURL:     h.BaseURL,
	}
}

// studentAddress prefers the secondary email the student gave on the form.
func studentAddress(v models.Verification) string {
	if v.SecondaryEmail != "" {
		return v.SecondaryEmail
	}
	return v.Email
}
