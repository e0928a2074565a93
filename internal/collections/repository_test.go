package collections

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/lnmedico/lnmedico-backend/pkg/errors"
	"github.com/lnmedico/lnmedico-backend/pkg/models"
	"github.com/lnmedico/lnmedico-backend/pkg/storage"
)

func newFileRepo(t *testing.T) (*Repository, string) {
	t.Helper()
	dir := t.TempDir()
	backend, err := storage.NewFileBackend(dir)
	require.NoError(t, err)
	repo, err := NewRepository(backend)
	require.NoError(t, err)
	return repo, dir
}

func TestLoad_AbsentCollectionsAreEmpty(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()

	meds, err := repo.LoadMedicines(ctx)
	require.NoError(t, err)
	require.NotNil(t, meds)
	require.Empty(t, meds)

	patients, err := repo.LoadPatients(ctx)
	require.NoError(t, err)
	require.NotNil(t, patients)
	require.Empty(t, patients)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	repo, dir := newFileRepo(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	meds := models.Medicines{
		"1": {ID: "1", Name: "Paracetamol", Quantity: 10, Price: decimal.RequireFromString("12.50"), LowStockThreshold: 10, CreatedAt: at, UpdatedAt: at},
	}
	patients := models.Patients{
		"5": {
			ID: "5", Name: "Asha", Age: 34, Gender: "Female", CreatedAt: at, UpdatedAt: at,
			Prescriptions: []models.Prescription{{
				ID: "rx-1", ReceiptNo: models.ReceiptNumber(at), DispensedAt: at,
				Items: []models.LineItem{{MedicineID: "1", MedicineName: "Paracetamol", Quantity: 3, UnitPrice: decimal.RequireFromString("12.50")}},
			}},
		},
	}

	require.NoError(t, repo.SaveMedicines(ctx, meds))
	require.NoError(t, repo.SavePatients(ctx, patients))

	gotMeds, err := repo.LoadMedicines(ctx)
	require.NoError(t, err)
	require.Len(t, gotMeds, 1)
	require.Equal(t, meds["1"].Name, gotMeds["1"].Name)
	require.Equal(t, meds["1"].Quantity, gotMeds["1"].Quantity)
	require.True(t, meds["1"].Price.Equal(gotMeds["1"].Price))
	require.True(t, meds["1"].CreatedAt.Equal(gotMeds["1"].CreatedAt))

	gotPatients, err := repo.LoadPatients(ctx)
	require.NoError(t, err)
	require.Len(t, gotPatients["5"].Prescriptions, 1)
	rx := gotPatients["5"].Prescriptions[0]
	require.Equal(t, "LNM-20240301093000", rx.ReceiptNo)
	require.Equal(t, 3, rx.Items[0].Quantity)
	require.True(t, rx.Total().Equal(decimal.RequireFromString("37.5")))

	raw, err := os.ReadFile(filepath.Join(dir, "medicines.json"))
	require.NoError(t, err)
	require.True(t, strings.Contains(string(raw), "\n  \"1\": {"), "document should be indented: %s", raw)
}

func TestLoad_MalformedContentIsStorageError(t *testing.T) {
	repo, dir := newFileRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "medicines.json"), []byte("{not json"), 0o644))

	_, err := repo.LoadMedicines(context.Background())
	require.Error(t, err)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeStorage))
}

func TestLoad_NullDocumentIsEmpty(t *testing.T) {
	repo, dir := newFileRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "patients.json"), []byte("null"), 0o644))

	patients, err := repo.LoadPatients(context.Background())
	require.NoError(t, err)
	require.NotNil(t, patients)
}

func TestBackendFailuresAreStorageErrors(t *testing.T) {
	repo, err := NewRepository(failingBackend{err: errors.New("disk full")})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = repo.LoadMedicines(ctx)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeStorage))
	err = repo.SavePatients(ctx, models.Patients{})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeStorage))
	require.ErrorContains(t, err, "disk full")
	require.True(t, pkgerrors.Is(repo.Ping(ctx), pkgerrors.CodeStorage))
}

func TestNewRepository_RequiresBackend(t *testing.T) {
	_, err := NewRepository(nil)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestExclusive_SerializesCallers(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		inside  int
		maxSeen int
		guard   sync.Mutex
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Exclusive(ctx, func(context.Context) error {
				guard.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				guard.Unlock()
				time.Sleep(time.Millisecond)
				guard.Lock()
				inside--
				guard.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	require.Equal(t, 1, maxSeen)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	called := false
	err := repo.Exclusive(canceled, func(context.Context) error { called = true; return nil })
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
}

type failingBackend struct {
	err error
}

func (f failingBackend) Driver() string { return "failing" }
func (f failingBackend) Read(context.Context, string) ([]byte, error) {
	return nil, f.err
}
func (f failingBackend) Write(context.Context, string, []byte) error { return f.err }
func (f failingBackend) Ping(context.Context) error                  { return f.err }
func (f failingBackend) Close() error                                { return nil }
