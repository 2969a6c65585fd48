package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Varun5711/contatos/internal/database"
	"github.com/Varun5711/contatos/internal/models"
	"github.com/jackc/pgx/v5"
)

const contactColumns = `id, name, phone, email, group_name, is_favorite, notes, call_history, created_at, updated_at`

type PostgresStorage struct {
	db *database.DBManager
}

func NewPostgresStorage(db *database.DBManager) *PostgresStorage {
	return &PostgresStorage{
		db: db,
	}
}

func (s *PostgresStorage) Create(ctx context.Context, in *models.ContactCreate) (*models.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		INSERT INTO contacts (name, phone, email, group_name, is_favorite, notes, call_history, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + contactColumns

	c, err := scanContact(s.db.Write().QueryRow(ctx, query,
		in.Name,
		in.Phone,
		in.Email,
		in.Group,
		in.Favorite,
		in.Notes,
		in.CallHistory,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	return c, nil
}

func (s *PostgresStorage) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	c, err := scanContact(s.db.Read().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return c, nil
}

func (s *PostgresStorage) List(ctx context.Context, params models.ListParams) ([]*models.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query, args := buildListQuery(params)

	rows, err := s.db.Read().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]*models.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		contacts = append(contacts, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return contacts, nil
}

func (s *PostgresStorage) Update(ctx context.Context, id int64, u *models.ContactUpdate) (*models.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query, args := buildUpdateQuery(id, u)

	c, err := scanContact(s.db.Write().QueryRow(ctx, query, args...))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	return c, nil
}

func (s *PostgresStorage) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmdTag, err := s.db.Write().Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete contact: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

func scanContact(row pgx.Row) (*models.Contact, error) {
	var c models.Contact
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Phone,
		&c.Email,
		&c.Group,
		&c.Favorite,
		&c.Notes,
		&c.CallHistory,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// buildListQuery renders the filtered, paginated SELECT. Search is a
// case-insensitive substring match with LIKE wildcards escaped.
func buildListQuery(params models.ListParams) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if params.Search != "" {
		args = append(args, "%"+escapeLike(params.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR phone ILIKE $%d OR email ILIKE $%d)", n, n, n))
	}
	if params.Group != "" {
		args = append(args, params.Group)
		conds = append(conds, fmt.Sprintf("group_name = $%d", len(args)))
	}
	if params.Favorite != nil {
		args = append(args, *params.Favorite)
		conds = append(conds, fmt.Sprintf("is_favorite = $%d", len(args)))
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + contactColumns + " FROM contacts")
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY id")

	if params.Offset > 0 {
		args = append(args, params.Offset)
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}
	if params.Limit > 0 {
		args = append(args, params.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}

	return sb.String(), args
}

// buildUpdateQuery sets only the provided fields. updated_at is always
// bumped, so an empty update still returns the row.
func buildUpdateQuery(id int64, u *models.ContactUpdate) (string, []any) {
	var (
		sets []string
		args []any
	)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Phone != nil {
		add("phone", *u.Phone)
	}
	if u.Email != nil {
		add("email", *u.Email)
	}
	if u.Group != nil {
		add("group_name", *u.Group)
	}
	if u.Favorite != nil {
		add("is_favorite", *u.Favorite)
	}
	if u.Notes != nil {
		add("notes", *u.Notes)
	}
	if u.CallHistory != nil {
		add("call_history", *u.CallHistory)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE contacts SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), contactColumns)

	return query, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
