// internal/app/features/profile/handler.go
package profile

import (
	"github.com/dalemusser/scholarhub/internal/app/store/documents"
	"github.com/dalemusser/scholarhub/internal/app/store/profileforms"
	userstore "github.com/dalemusser/scholarhub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultMaxDocument caps one stored document upload.
const DefaultMaxDocument = 10 << 20

// Handler owns the student profile and document locker.
type Handler struct {
	DB          *mongo.Database
	Forms       *profileforms.Store
	Users       *userstore.Store
	Documents   *documents.Store
	Log         *zap.Logger
	MaxDocument int64
}

// NewHandler constructs a Handler bound to the given Mongo database and logger.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Forms:       profileforms.New(db),
		Users:       userstore.New(db),
		Documents:   documents.New(db),
		Log:         logger,
		MaxDocument: DefaultMaxDocument,
	}
}
