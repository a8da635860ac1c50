package store

import (
	"context"
	"errors"
	"time"

	"github.com/anporter/pulseboard/pkg/models"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error
	GetDefaultTenant(ctx context.Context) (*models.Tenant, error)

	GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	ListAPIKeys(ctx context.Context, tenantID uuid.UUID) ([]*models.APIKey, error)
	RevokeAPIKey(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error

	InsertVitals(ctx context.Context, reading *models.VitalsReading) (*models.VitalsReading, error)
	GetLatestVitals(ctx context.Context, tenantID, patientID uuid.UUID) (*models.VitalsReading, error)
	// GetVitalsSince returns readings at or after since, chronologically ascending.
	GetVitalsSince(ctx context.Context, tenantID, patientID uuid.UUID, since time.Time) ([]*models.VitalsReading, error)
	// GetRecentVitals returns the limit most-recent readings, chronologically ascending.
	GetRecentVitals(ctx context.Context, tenantID, patientID uuid.UUID, limit int) ([]*models.VitalsReading, error)

	GetBaseline(ctx context.Context, tenantID, patientID uuid.UUID) (*models.PatientBaseline, error)
	// UpsertBaseline atomically inserts or fully overwrites a patient's
	// baseline row. Concurrent readers never observe a partial write.
	UpsertBaseline(ctx context.Context, baseline *models.PatientBaseline) (*models.PatientBaseline, error)
}
