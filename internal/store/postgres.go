package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anporter/pulseboard/pkg/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Tenants ---

func (s *PostgresStore) GetDefaultTenant(ctx context.Context) (*models.Tenant, error) {
	var t models.Tenant
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM tenants WHERE name = 'default' LIMIT 1`,
	).Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get default tenant: %w", err)
	}
	return &t, nil
}

// --- API Keys ---

func (s *PostgresStore) GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at
		 FROM api_keys WHERE key_prefix = $1 AND deleted_at IS NULL`, prefix)
	if err != nil {
		return nil, fmt.Errorf("get api key by prefix: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.TenantID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET last_used_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update api key last used: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO api_keys (id, tenant_id, name, key_hash, key_prefix, scopes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		key.ID, key.TenantID, key.Name, key.KeyHash, key.KeyPrefix, key.Scopes, key.CreatedAt, key.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAPIKeys(ctx context.Context, tenantID uuid.UUID) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at
		 FROM api_keys WHERE tenant_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.TenantID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) RevokeAPIKey(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET deleted_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`, id, tenantID)
	if err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Vitals ---

const vitalsColumns = `id, tenant_id, patient_id, systolic, diastolic, heart_rate, sp_o2, weight,
	 blood_glucose, mood, symptoms_text, health_score, insight_text, symptom_tags, created_at`

func scanVitals(row pgx.Row) (*models.VitalsReading, error) {
	var r models.VitalsReading
	err := row.Scan(&r.ID, &r.TenantID, &r.PatientID, &r.Systolic, &r.Diastolic, &r.HeartRate,
		&r.SpO2, &r.WeightKg, &r.BloodGlucose, &r.Mood, &r.SymptomsText,
		&r.HealthScore, &r.InsightText, &r.SymptomTags, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *PostgresStore) InsertVitals(ctx context.Context, reading *models.VitalsReading) (*models.VitalsReading, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO patients_vitals (id, tenant_id, patient_id, systolic, diastolic, heart_rate, sp_o2, weight,
		 blood_glucose, mood, symptoms_text, health_score, insight_text, symptom_tags, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING `+vitalsColumns,
		reading.ID, reading.TenantID, reading.PatientID, reading.Systolic, reading.Diastolic,
		reading.HeartRate, reading.SpO2, reading.WeightKg, reading.BloodGlucose, reading.Mood,
		reading.SymptomsText, reading.HealthScore, reading.InsightText, reading.SymptomTags,
		reading.CreatedAt)
	stored, err := scanVitals(row)
	if err != nil {
		return nil, fmt.Errorf("insert vitals: %w", err)
	}
	return stored, nil
}

func (s *PostgresStore) GetLatestVitals(ctx context.Context, tenantID, patientID uuid.UUID) (*models.VitalsReading, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+vitalsColumns+` FROM patients_vitals
		 WHERE tenant_id = $1 AND patient_id = $2
		 ORDER BY created_at DESC LIMIT 1`, tenantID, patientID)
	reading, err := scanVitals(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest vitals: %w", err)
	}
	return reading, nil
}

func (s *PostgresStore) GetVitalsSince(ctx context.Context, tenantID, patientID uuid.UUID, since time.Time) ([]*models.VitalsReading, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+vitalsColumns+` FROM patients_vitals
		 WHERE tenant_id = $1 AND patient_id = $2 AND created_at >= $3
		 ORDER BY created_at ASC`, tenantID, patientID, since)
	if err != nil {
		return nil, fmt.Errorf("get vitals since: %w", err)
	}
	defer rows.Close()

	return collectVitals(rows)
}

func (s *PostgresStore) GetRecentVitals(ctx context.Context, tenantID, patientID uuid.UUID, limit int) ([]*models.VitalsReading, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+vitalsColumns+` FROM patients_vitals
		 WHERE tenant_id = $1 AND patient_id = $2
		 ORDER BY created_at DESC LIMIT $3`, tenantID, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent vitals: %w", err)
	}
	defer rows.Close()

	readings, err := collectVitals(rows)
	if err != nil {
		return nil, err
	}

	// Rows come back newest-first; callers expect ascending.
	for i, j := 0, len(readings)-1; i < j; i, j = i+1, j-1 {
		readings[i], readings[j] = readings[j], readings[i]
	}
	return readings, nil
}

func collectVitals(rows pgx.Rows) ([]*models.VitalsReading, error) {
	var readings []*models.VitalsReading
	for rows.Next() {
		reading, err := scanVitals(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vitals: %w", err)
		}
		readings = append(readings, reading)
	}
	return readings, rows.Err()
}

// --- Baselines ---

func (s *PostgresStore) GetBaseline(ctx context.Context, tenantID, patientID uuid.UUID) (*models.PatientBaseline, error) {
	var b models.PatientBaseline
	err := s.pool.QueryRow(ctx,
		`SELECT tenant_id, patient_id, avg_systolic, stddev_systolic, avg_diastolic, stddev_diastolic,
		 avg_heart_rate, stddev_heart_rate, avg_blood_glucose, stddev_blood_glucose, last_updated
		 FROM patient_baselines WHERE tenant_id = $1 AND patient_id = $2`, tenantID, patientID,
	).Scan(&b.TenantID, &b.PatientID, &b.AvgSystolic, &b.StddevSystolic, &b.AvgDiastolic,
		&b.StddevDiastolic, &b.AvgHeartRate, &b.StddevHeartRate, &b.AvgBloodGlucose,
		&b.StddevBloodGlucose, &b.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get baseline: %w", err)
	}
	return &b, nil
}

func (s *PostgresStore) UpsertBaseline(ctx context.Context, baseline *models.PatientBaseline) (*models.PatientBaseline, error) {
	var b models.PatientBaseline
	err := s.pool.QueryRow(ctx,
		`INSERT INTO patient_baselines (tenant_id, patient_id, avg_systolic, stddev_systolic,
		 avg_diastolic, stddev_diastolic, avg_heart_rate, stddev_heart_rate,
		 avg_blood_glucose, stddev_blood_glucose, last_updated)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (tenant_id, patient_id) DO UPDATE SET
		   avg_systolic = EXCLUDED.avg_systolic,
		   stddev_systolic = EXCLUDED.stddev_systolic,
		   avg_diastolic = EXCLUDED.avg_diastolic,
		   stddev_diastolic = EXCLUDED.stddev_diastolic,
		   avg_heart_rate = EXCLUDED.avg_heart_rate,
		   stddev_heart_rate = EXCLUDED.stddev_heart_rate,
		   avg_blood_glucose = EXCLUDED.avg_blood_glucose,
		   stddev_blood_glucose = EXCLUDED.stddev_blood_glucose,
		   last_updated = EXCLUDED.last_updated
		 RETURNING tenant_id, patient_id, avg_systolic, stddev_systolic, avg_diastolic, stddev_diastolic,
		   avg_heart_rate, stddev_heart_rate, avg_blood_glucose, stddev_blood_glucose, last_updated`,
		baseline.TenantID, baseline.PatientID, baseline.AvgSystolic, baseline.StddevSystolic,
		baseline.AvgDiastolic, baseline.StddevDiastolic, baseline.AvgHeartRate, baseline.StddevHeartRate,
		baseline.AvgBloodGlucose, baseline.StddevBloodGlucose, baseline.LastUpdated,
	).Scan(&b.TenantID, &b.PatientID, &b.AvgSystolic, &b.StddevSystolic, &b.AvgDiastolic,
		&b.StddevDiastolic, &b.AvgHeartRate, &b.StddevHeartRate, &b.AvgBloodGlucose,
		&b.StddevBloodGlucose, &b.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("upsert baseline: %w", err)
	}
	return &b, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
