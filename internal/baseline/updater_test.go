package baseline

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/anporter/pulseboard/internal/store"
	"github.com/anporter/pulseboard/pkg/models"
	"github.com/google/uuid"
)

// --- mocks ---

type mockStore struct {
	mu        sync.Mutex
	window    []*models.VitalsReading
	windowErr error
	upserted  []*models.PatientBaseline
	upsertErr error
	since     time.Time
}

func (s *mockStore) Ping(_ context.Context) error                               { return nil }
func (s *mockStore) GetDefaultTenant(_ context.Context) (*models.Tenant, error) { return nil, nil }
func (s *mockStore) GetAPIKeyByPrefix(_ context.Context, _ string) ([]*models.APIKey, error) {
	return nil, nil
}
func (s *mockStore) UpdateAPIKeyLastUsed(_ context.Context, _ uuid.UUID) error { return nil }
func (s *mockStore) CreateAPIKey(_ context.Context, _ *models.APIKey) error    { return nil }
func (s *mockStore) ListAPIKeys(_ context.Context, _ uuid.UUID) ([]*models.APIKey, error) {
	return nil, nil
}
func (s *mockStore) RevokeAPIKey(_ context.Context, _ uuid.UUID, _ uuid.UUID) error { return nil }
func (s *mockStore) InsertVitals(_ context.Context, r *models.VitalsReading) (*models.VitalsReading, error) {
	return r, nil
}
func (s *mockStore) GetLatestVitals(_ context.Context, _, _ uuid.UUID) (*models.VitalsReading, error) {
	return nil, store.ErrNotFound
}
func (s *mockStore) GetRecentVitals(_ context.Context, _, _ uuid.UUID, _ int) ([]*models.VitalsReading, error) {
	return nil, nil
}
func (s *mockStore) GetBaseline(_ context.Context, _, _ uuid.UUID) (*models.PatientBaseline, error) {
	return nil, store.ErrNotFound
}

func (s *mockStore) GetVitalsSince(_ context.Context, _, _ uuid.UUID, since time.Time) ([]*models.VitalsReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.since = since
	return s.window, s.windowErr
}

func (s *mockStore) UpsertBaseline(_ context.Context, b *models.PatientBaseline) (*models.PatientBaseline, error) {
	if s.upsertErr != nil {
		return nil, s.upsertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserted = append(s.upserted, b)
	return b, nil
}

type statusRecord struct {
	status string
}

type mockCache struct {
	mu       sync.Mutex
	statuses []statusRecord
}

func (c *mockCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error { return nil }
func (c *mockCache) Get(_ context.Context, _ string) ([]byte, bool, error) {
	return nil, false, nil
}
func (c *mockCache) Delete(_ context.Context, _ string) error { return nil }
func (c *mockCache) Ping(_ context.Context) error             { return nil }
func (c *mockCache) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 0, nil
}

func (c *mockCache) SetBaselineStatus(_ context.Context, _, _ uuid.UUID, status string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses = append(c.statuses, statusRecord{status: status})
	return nil
}

func (c *mockCache) GetBaselineStatus(_ context.Context, _, _ uuid.UUID) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.statuses) == 0 {
		return "", false, nil
	}
	return c.statuses[len(c.statuses)-1].status, true, nil
}

// --- helpers ---

func intPtr(v int) *int { return &v }

func windowReadings(systolics ...int) []*models.VitalsReading {
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	out := make([]*models.VitalsReading, 0, len(systolics))
	for i, s := range systolics {
		out = append(out, &models.VitalsReading{
			ID:        uuid.New(),
			Systolic:  intPtr(s),
			Diastolic: intPtr(80),
			HeartRate: intPtr(70),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	return out
}

func newTestUpdater(st *mockStore, ca *mockCache) *Updater {
	u := NewUpdater(st, ca)
	u.now = func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC) }
	return u
}

// --- tests ---

func TestRefresh_ComputesAndStoresBaseline(t *testing.T) {
	st := &mockStore{window: windowReadings(118, 122, 126, 130, 134)}
	ca := &mockCache{}
	u := newTestUpdater(st, ca)

	status, err := u.Refresh(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusSuccess {
		t.Errorf("expected %q, got %q", StatusSuccess, status)
	}

	if len(st.upserted) != 1 {
		t.Fatalf("expected one upsert, got %d", len(st.upserted))
	}
	b := st.upserted[0]
	if b.AvgSystolic == nil || math.Abs(*b.AvgSystolic-126) > 1e-9 {
		t.Errorf("unexpected avg systolic: %v", b.AvgSystolic)
	}
	if b.StddevSystolic == nil || math.Abs(*b.StddevSystolic-math.Sqrt(40)) > 1e-9 {
		t.Errorf("unexpected stddev systolic: %v", b.StddevSystolic)
	}
	if b.AvgDiastolic == nil || *b.AvgDiastolic != 80 {
		t.Errorf("unexpected avg diastolic: %v", b.AvgDiastolic)
	}
	// No glucose readings in the window: channel stats stay nil.
	if b.AvgBloodGlucose != nil || b.StddevBloodGlucose != nil {
		t.Errorf("expected nil glucose stats, got %v/%v", b.AvgBloodGlucose, b.StddevBloodGlucose)
	}

	got, ok, _ := ca.GetBaselineStatus(context.Background(), uuid.Nil, uuid.Nil)
	if !ok || got != StatusSuccess {
		t.Errorf("expected cached success status, got %q", got)
	}
}

func TestRefresh_WindowIs30Days(t *testing.T) {
	st := &mockStore{window: windowReadings(120, 121, 122, 123, 124)}
	u := newTestUpdater(st, &mockCache{})

	_, err := u.Refresh(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if !st.since.Equal(want) {
		t.Errorf("expected window since %v, got %v", want, st.since)
	}
}

func TestRefresh_InsufficientData(t *testing.T) {
	st := &mockStore{window: windowReadings(120, 121, 122, 123)} // four readings
	ca := &mockCache{}
	u := newTestUpdater(st, ca)

	status, err := u.Refresh(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusInsufficientData {
		t.Errorf("expected %q, got %q", StatusInsufficientData, status)
	}
	if len(st.upserted) != 0 {
		t.Errorf("expected no upsert, got %d", len(st.upserted))
	}

	got, ok, _ := ca.GetBaselineStatus(context.Background(), uuid.Nil, uuid.Nil)
	if !ok || got != StatusInsufficientData {
		t.Errorf("expected cached insufficient-data status, got %q", got)
	}
}

func TestRefresh_Idempotent(t *testing.T) {
	st := &mockStore{window: windowReadings(118, 122, 126, 130, 134)}
	u := newTestUpdater(st, &mockCache{})

	for i := 0; i < 2; i++ {
		if _, err := u.Refresh(context.Background(), uuid.New(), uuid.New()); err != nil {
			t.Fatalf("refresh %d: %v", i, err)
		}
	}

	if len(st.upserted) != 2 {
		t.Fatalf("expected two upserts, got %d", len(st.upserted))
	}
	if *st.upserted[0].AvgSystolic != *st.upserted[1].AvgSystolic {
		t.Error("repeated refresh over unchanged history must produce identical stats")
	}
	if *st.upserted[0].StddevSystolic != *st.upserted[1].StddevSystolic {
		t.Error("repeated refresh over unchanged history must produce identical stats")
	}
}

func TestRefresh_PartialChannels(t *testing.T) {
	// Five readings, but only three carry heart rate.
	readings := windowReadings(120, 121, 122, 123, 124)
	readings[0].HeartRate = nil
	readings[1].HeartRate = nil

	st := &mockStore{window: readings}
	u := newTestUpdater(st, &mockCache{})

	if _, err := u.Refresh(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := st.upserted[0]
	if b.AvgHeartRate == nil || *b.AvgHeartRate != 70 {
		t.Errorf("unexpected avg heart rate: %v", b.AvgHeartRate)
	}
	if b.StddevHeartRate == nil || *b.StddevHeartRate != 0 {
		t.Errorf("unexpected stddev heart rate: %v", b.StddevHeartRate)
	}
}

func TestRefresh_StoreFetchError(t *testing.T) {
	boom := errors.New("connection reset")
	ca := &mockCache{}
	u := newTestUpdater(&mockStore{windowErr: boom}, ca)

	_, err := u.Refresh(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}

	got, ok, _ := ca.GetBaselineStatus(context.Background(), uuid.Nil, uuid.Nil)
	if !ok || got != StatusFailed {
		t.Errorf("expected cached failed status, got %q", got)
	}
}

func TestRefresh_UpsertError(t *testing.T) {
	boom := errors.New("deadlock detected")
	st := &mockStore{window: windowReadings(120, 121, 122, 123, 124), upsertErr: boom}
	ca := &mockCache{}
	u := newTestUpdater(st, ca)

	_, err := u.Refresh(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}

	got, _, _ := ca.GetBaselineStatus(context.Background(), uuid.Nil, uuid.Nil)
	if got != StatusFailed {
		t.Errorf("expected cached failed status, got %q", got)
	}
}
