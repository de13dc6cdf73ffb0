package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	appErrors "github.com/unclebandit/contacts-backend/internal/errors"
	"github.com/unclebandit/contacts-backend/internal/model"
)

// SQLRepository stores contacts in a "contacts" table. Driver is either
// "postgres" (lib/pq) or "sqlite" (modernc.org/sqlite).
type SQLRepository struct {
	DB     *sql.DB
	Driver string
}

// ====================== Contact CRUD ======================

func (r *SQLRepository) List(ctx context.Context) ([]model.Contact, error) {
	query := `SELECT id, name, email, phone, address, favourite FROM contacts ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Favourite); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *SQLRepository) GetByID(ctx context.Context, id int) (*model.Contact, error) {
	query := r.rebind(`
        SELECT id, name, email, phone, address, favourite
        FROM contacts WHERE id = ?
    `)
	var c model.Contact
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Favourite)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewContactNotFound(id)
		}
		return nil, err
	}
	return &c, nil
}

func (r *SQLRepository) Create(ctx context.Context, c *model.Contact) error {
	query := r.rebind(`
        INSERT INTO contacts (name, email, phone, address, favourite)
        VALUES (?, ?, ?, ?, ?)
        RETURNING id
    `)
	return r.DB.QueryRowContext(ctx, query, c.Name, c.Email, c.Phone, c.Address, c.Favourite).Scan(&c.ID)
}

func (r *SQLRepository) Update(ctx context.Context, c *model.Contact) error {
	query := r.rebind(`
        UPDATE contacts
        SET name = ?, email = ?, phone = ?, address = ?, favourite = ?
        WHERE id = ?
    `)
	res, err := r.DB.ExecContext(ctx, query, c.Name, c.Email, c.Phone, c.Address, c.Favourite, c.ID)
	if err != nil {
		return err
	}
	return notFoundIfNoRows(res, c.ID)
}

func (r *SQLRepository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, r.rebind(`DELETE FROM contacts WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return notFoundIfNoRows(res, id)
}

func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

func notFoundIfNoRows(res sql.Result, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return appErrors.NewContactNotFound(id)
	}
	return nil
}

// rebind turns ? placeholders into $n for postgres.
func (r *SQLRepository) rebind(query string) string {
	if r.Driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

var _ ContactRepositoryInterface = (*SQLRepository)(nil)
