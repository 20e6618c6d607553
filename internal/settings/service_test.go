package settings

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/sterlingmedical/medsupply-backend/pkg/db/models"
	pkgerrors "github.com/sterlingmedical/medsupply-backend/pkg/errors"
)

type stubRepo struct {
	row      *models.StoreSettings
	getErr   error
	upserted *models.StoreSettings
}

func (s *stubRepo) Get(ctx context.Context) (*models.StoreSettings, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.row, nil
}

func (s *stubRepo) Upsert(ctx context.Context, settings *models.StoreSettings) error {
	s.upserted = settings
	return nil
}

func seededRow() *models.StoreSettings {
	phone := "+49 30 1234567"
	return &models.StoreSettings{
		ID:                models.SettingsRowID,
		StoreName:         "Sterling Medical Supplies",
		ContactEmail:      "contact@sterling.test",
		ContactPhone:      &phone,
		CurrencyCode:      "EUR",
		LowStockThreshold: 5,
	}
}

func TestGetReturnsSeededRow(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubRepo{row: seededRow()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if dto.StoreName != "Sterling Medical Supplies" || dto.LowStockThreshold != 5 {
		t.Fatalf("unexpected dto %+v", dto)
	}
}

func TestGetUnseededIsNotFound(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubRepo{getErr: gorm.ErrRecordNotFound})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Get(context.Background())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetPublicOmitsThreshold(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubRepo{row: seededRow()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.GetPublic(context.Background())
	if err != nil {
		t.Fatalf("get public: %v", err)
	}
	if dto.StoreName != "Sterling Medical Supplies" || dto.CurrencyCode != "EUR" {
		t.Fatalf("unexpected dto %+v", dto)
	}
}

func TestUpdateUppercasesCurrency(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{row: seededRow()}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Update(context.Background(), UpdateSettingsInput{
		StoreName:         "Sterling Medical Supplies",
		ContactEmail:      "contact@sterling.test",
		CurrencyCode:      "usd",
		LowStockThreshold: 10,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.CurrencyCode != "USD" {
		t.Fatalf("expected USD, got %s", dto.CurrencyCode)
	}
	if repo.upserted == nil || repo.upserted.ID != models.SettingsRowID {
		t.Fatal("upsert must target the singleton row")
	}
}

func TestUpdateValidation(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubRepo{row: seededRow()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	cases := []UpdateSettingsInput{
		{ContactEmail: "x@y.test", CurrencyCode: "EUR"},
		{StoreName: "Shop", CurrencyCode: "EUR"},
		{StoreName: "Shop", ContactEmail: "x@y.test", CurrencyCode: "EURO"},
		{StoreName: "Shop", ContactEmail: "x@y.test", CurrencyCode: "EUR", LowStockThreshold: -1},
	}
	for _, input := range cases {
		_, err := svc.Update(context.Background(), input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", input, err)
		}
	}
}

func TestLowStockThreshold(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubRepo{row: seededRow()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	got, err := svc.LowStockThreshold(context.Background())
	if err != nil {
		t.Fatalf("threshold: %v", err)
	}
	if got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
}
