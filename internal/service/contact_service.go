package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Varun5711/contatos/internal/models"
	"github.com/Varun5711/contatos/internal/qrcode"
	"github.com/Varun5711/contatos/internal/storage"
	"github.com/Varun5711/contatos/internal/validation"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var csvHeader = []string{"ID", "Nome", "Telefone", "Email", "Grupo", "Favorito"}

type ContactService struct {
	store storage.ContactStorage
}

func NewContactService(store storage.ContactStorage) *ContactService {
	return &ContactService{store: store}
}

func (s *ContactService) Create(ctx context.Context, in models.ContactCreate) (*models.Contact, error) {
	if err := validation.ValidateContactCreate(&in); err != nil {
		return nil, invalid(err)
	}

	c, err := s.store.Create(ctx, &in)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return c, nil
}

// List returns one page of contacts. Offset must be non-negative and Limit
// is clamped to [1, MaxPageSize].
func (s *ContactService) List(ctx context.Context, params models.ListParams) ([]*models.Contact, error) {
	if params.Offset < 0 {
		return nil, invalid(ErrInvalidOffset)
	}
	params.Limit = ClampLimit(params.Limit)

	contacts, err := s.store.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

func (s *ContactService) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	if c == nil {
		return nil, ErrContactNotFound
	}
	return c, nil
}

func (s *ContactService) Update(ctx context.Context, id int64, in models.ContactUpdate) (*models.Contact, error) {
	if err := validation.ValidateContactUpdate(&in); err != nil {
		return nil, invalid(err)
	}

	c, err := s.store.Update(ctx, id, &in)
	if err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	if c == nil {
		return nil, ErrContactNotFound
	}
	return c, nil
}

func (s *ContactService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if !deleted {
		return ErrContactNotFound
	}
	return nil
}

// ExportCSV writes every contact, unpaginated and in list order, as CSV.
// The whole table is loaded before the first byte is written.
func (s *ContactService) ExportCSV(ctx context.Context, w io.Writer) error {
	contacts, err := s.store.List(ctx, models.ListParams{})
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, c := range contacts {
		record := []string{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			c.Phone,
			c.Email,
			c.Group,
			formatBool(c.Favorite),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// QRCode renders the contact as a vCard QR code PNG.
func (s *ContactService) QRCode(ctx context.Context, id int64, size int) ([]byte, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.GenerateVCardPNG(vcard(c), size)
	if err != nil {
		return nil, fmt.Errorf("failed to render contact qr code: %w", err)
	}
	return png, nil
}

// QRCodeText renders the same vCard QR code as terminal block characters.
func (s *ContactService) QRCodeText(ctx context.Context, id int64) (string, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	text, err := qrcode.GenerateVCardASCII(vcard(c))
	if err != nil {
		return "", fmt.Errorf("failed to render contact qr code: %w", err)
	}
	return text, nil
}

func vcard(c *models.Contact) qrcode.VCard {
	return qrcode.VCard{
		Name:  c.Name,
		Phone: c.Phone,
		Email: c.Email,
		Group: c.Group,
		Notes: c.Notes,
	}
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
