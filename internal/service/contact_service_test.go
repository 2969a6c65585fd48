package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Varun5711/contatos/internal/models"
	"github.com/Varun5711/contatos/internal/storage"
	"github.com/Varun5711/contatos/internal/validation"
)

func newTestContactService() *ContactService {
	return NewContactService(storage.NewMemoryStorage())
}

func strPtr(s string) *string { return &s }

func TestContactService_CreateAssignsUniqueIDs(t *testing.T) {
	svc := newTestContactService()
	ctx := context.Background()

	seen := make(map[int64]bool)
	for i := 0; i < 5; i++ {
		c, err := svc.Create(ctx, models.ContactCreate{Name: "Ana"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[c.ID] {
			t.Fatalf("id %d assigned twice", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestContactService_CreateThenGet(t *testing.T) {
	svc := newTestContactService()
	ctx := context.Background()

	in := models.ContactCreate{Name: "Ana", Phone: "111", Email: "a@x.com", Group: "Fam", Favorite: true}
	created, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Name != in.Name || got.Phone != in.Phone || got.Email != in.Email ||
		got.Group != in.Group || got.Favorite != in.Favorite {
		t.Errorf("expected fields of %+v, got %+v", in, got)
	}
}

func TestContactService_CreateValidation(t *testing.T) {
	svc := newTestContactService()

	_, err := svc.Create(context.Background(), models.ContactCreate{Name: " "})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !errors.Is(err, validation.ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
}

func TestContactService_UpdateLeavesOtherFields(t *testing.T) {
	svc := newTestContactService()
	ctx := context.Background()

	created, err := svc.Create(ctx, models.ContactCreate{Name: "Ana", Phone: "111", Email: "a@x.com", Group: "Fam"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Update(ctx, created.ID, models.ContactUpdate{Phone: strPtr("999")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Phone != "999" {
		t.Errorf("expected phone '999', got '%s'", got.Phone)
	}
	if got.Name != "Ana" || got.Email != "a@x.com" || got.Group != "Fam" || got.ID != created.ID {
		t.Errorf("expected other fields unchanged, got %+v", got)
	}
}

func TestContactService_UpdateMissing(t *testing.T) {
	svc := newTestContactService()

	_, err := svc.Update(context.Background(), 99, models.ContactUpdate{Name: strPtr("Bo")})
	if !errors.Is(err, ErrContactNotFound) {
		t.Errorf("expected ErrContactNotFound, got %v", err)
	}
}

func TestContactService_UpdateEmpty(t *testing.T) {
	svc := newTestContactService()
	ctx := context.Background()

	created, err := svc.Create(ctx, models.ContactCreate{Name: "Ana"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Update(ctx, created.ID, models.ContactUpdate{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Ana" {
		t.Errorf("expected unchanged name, got %q", got.Name)
	}

	if _, err := svc.Update(ctx, created.ID+1, models.ContactUpdate{}); !errors.Is(err, ErrContactNotFound) {
		t.Errorf("expected ErrContactNotFound, got %v", err)
	}
}

func TestContactService_DeleteThenGet(t *testing.T) {
	svc := newTestContactService()
	ctx := context.Background()

	created, err := svc.Create(ctx, models.ContactCreate{Name: "Ana"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.GetByID(ctx, created.ID); !errors.Is(err, ErrContactNotFound) {
		t.Errorf("expected ErrContactNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, ErrContactNotFound) {
		t.Errorf("expected ErrContactNotFound on second delete, got %v", err)
	}
}

func TestContactService_ListLimits(t *testing.T) {
	svc := newTestContactService()
	ctx := context.Background()

	for i := 0; i < 130; i++ {
		if _, err := svc.Create(ctx, models.ContactCreate{Name: "Contato"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	page, err := svc.List(ctx, models.ListParams{Limit: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 20 {
		t.Errorf("expected 20 contacts, got %d", len(page))
	}

	page, err = svc.List(ctx, models.ListParams{Limit: 150})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != MaxPageSize {
		t.Errorf("expected limit clamped to %d, got %d", MaxPageSize, len(page))
	}

	page, err = svc.List(ctx, models.ListParams{Offset: 120, Limit: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 10 {
		t.Errorf("expected 10 contacts on the last page, got %d", len(page))
	}
	if page[0].ID != 121 {
		t.Errorf("expected page to start at id 121, got %d", page[0].ID)
	}
}

func TestContactService_ListRejectsNegativeOffset(t *testing.T) {
	svc := newTestContactService()

	_, err := svc.List(context.Background(), models.ListParams{Offset: -1, Limit: 20})
	if !errors.Is(err, ErrInvalidOffset) {
		t.Errorf("expected ErrInvalidOffset, got %v", err)
	}
}

func TestClampLimit(t *testing.T) {
	cases := map[int]int{-5: 1, 0: 1, 1: 1, 20: 20, 100: 100, 101: 100, 150: 100}

	for in, want := range cases {
		if got := ClampLimit(in); got != want {
			t.Errorf("ClampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestContactService_ExportCSV(t *testing.T) {
	svc := newTestContactService()
	ctx := context.Background()

	inputs := []models.ContactCreate{
		{Name: "Ana", Phone: "111", Email: "a@x.com", Group: "Fam", Favorite: true},
		{Name: "Bo", Phone: "222", Email: "b@x.com", Group: "Work", Favorite: false},
	}
	for _, in := range inputs {
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := svc.ExportCSV(ctx, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := strings.Join([]string{
		"ID,Nome,Telefone,Email,Grupo,Favorito",
		"1,Ana,111,a@x.com,Fam,True",
		"2,Bo,222,b@x.com,Work,False",
	}, "\r\n") + "\r\n"

	if buf.String() != want {
		t.Errorf("unexpected csv:\n got: %q\nwant: %q", buf.String(), want)
	}
}

func TestContactService_ExportCSV_IgnoresPageSize(t *testing.T) {
	svc := newTestContactService()
	ctx := context.Background()

	for i := 0; i < 120; i++ {
		if _, err := svc.Create(ctx, models.ContactCreate{Name: "Contato"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := svc.ExportCSV(ctx, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")
	if len(lines) != 121 {
		t.Errorf("expected header plus 120 rows, got %d lines", len(lines))
	}
}

func TestContactService_ExportCSV_QuotesFields(t *testing.T) {
	svc := newTestContactService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, models.ContactCreate{Name: "Souza, Ana"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := svc.ExportCSV(ctx, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(buf.String(), `1,"Souza, Ana",,,,False`) {
		t.Errorf("expected quoted name, got %q", buf.String())
	}
}

type failingStorage struct {
	storage.ContactStorage
}

func (failingStorage) List(ctx context.Context, params models.ListParams) ([]*models.Contact, error) {
	return nil, errors.New("connection refused")
}

func TestContactService_ExportCSV_StoreError(t *testing.T) {
	svc := NewContactService(failingStorage{})

	var buf bytes.Buffer
	if err := svc.ExportCSV(context.Background(), &buf); err == nil {
		t.Fatal("expected error from failing store")
	}
	if buf.Len() != 0 {
		t.Errorf("expected nothing written on failure, got %q", buf.String())
	}
}

func TestContactService_QRCode(t *testing.T) {
	svc := newTestContactService()
	ctx := context.Background()

	created, err := svc.Create(ctx, models.ContactCreate{Name: "Ana", Phone: "111"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	png, err := svc.QRCode(ctx, created.ID, 128)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("expected PNG output")
	}

	if _, err := svc.QRCode(ctx, created.ID+1, 128); !errors.Is(err, ErrContactNotFound) {
		t.Errorf("expected ErrContactNotFound, got %v", err)
	}
}

func TestContactService_QRCodeText(t *testing.T) {
	svc := newTestContactService()
	ctx := context.Background()

	created, err := svc.Create(ctx, models.ContactCreate{Name: "Ana", Phone: "111"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, err := svc.QRCodeText(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text == "" {
		t.Error("expected non-empty qr code text")
	}

	if _, err := svc.QRCodeText(ctx, 99); !errors.Is(err, ErrContactNotFound) {
		t.Errorf("expected ErrContactNotFound, got %v", err)
	}
}
