package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/udeservering-api/internal/domain/entity"
	"github.com/jhoicas/udeservering-api/internal/domain/repository"
)

var _ repository.InvoiceLineRepository = (*InvoiceLineRepo)(nil)

// InvoiceLineRepo implementación de InvoiceLineRepository (usable con pool o tx).
type InvoiceLineRepo struct {
	q Querier
}

// NewInvoiceLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceLineRepository(q Querier) *InvoiceLineRepo {
	return &InvoiceLineRepo{q: q}
}

// Un estado NULL se lee como Ny.
const invoiceLineColumns = `
	id, ansoegning_id, COALESCE(firmanavn, ''), COALESCE(adresse, ''), COALESCE(zone, ''),
	COALESCE(lokation, ''), COALESCE(areal, 0), COALESCE(facadelaengde, 0), maaned, aar,
	COALESCE(faktura_status, 'Ny'), pris, COALESCE(kommentar, ''), oprettet, opdateret`

func scanInvoiceLine(row pgx.Row) (*entity.InvoiceLine, error) {
	var l entity.InvoiceLine
	var price decimal.NullDecimal
	err := row.Scan(
		&l.ID, &l.PermitID, &l.CompanyName, &l.Address, &l.Zone,
		&l.Location, &l.Area, &l.FacadeLength, &l.BillingMonth, &l.BillingYear,
		&l.Status, &price, &l.Comment, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if price.Valid {
		p := price.Decimal
		l.Price = &p
	}
	return &l, nil
}

func (r *InvoiceLineRepo) getOne(ctx context.Context, query string, id int64) (*entity.InvoiceLine, error) {
	l, err := scanInvoiceLine(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fakturalinje %d: %w", id, err)
	}
	return l, nil
}

// GetByID obtiene una línea por ID.
func (r *InvoiceLineRepo) GetByID(ctx context.Context, id int64) (*entity.InvoiceLine, error) {
	return r.getOne(ctx, `SELECT `+invoiceLineColumns+` FROM udeservering_fakturalinjer WHERE id = $1`, id)
}

// GetForUpdate obtiene y bloquea la fila hasta el fin de la transacción.
func (r *InvoiceLineRepo) GetForUpdate(ctx context.Context, id int64) (*entity.InvoiceLine, error) {
	return r.getOne(ctx, `SELECT `+invoiceLineColumns+` FROM udeservering_fakturalinjer WHERE id = $1 FOR UPDATE`, id)
}

// ListByStatus lista las líneas de un estado, más recientes primero.
func (r *InvoiceLineRepo) ListByStatus(ctx context.Context, status string) ([]*entity.InvoiceLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+invoiceLineColumns+`
		FROM udeservering_fakturalinjer
		WHERE COALESCE(faktura_status, 'Ny') = $1
		ORDER BY id DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("list fakturalinjer: %w", err)
	}
	defer rows.Close()
	list := []*entity.InvoiceLine{}
	for rows.Next() {
		l, err := scanInvoiceLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fakturalinje: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// UpdateEditable construye el SET solo con las columnas editables presentes;
// los nombres de columna son fijos, nunca vienen del cliente.
func (r *InvoiceLineRepo) UpdateEditable(ctx context.Context, id int64, edits entity.InvoiceLineEdits, status string) error {
	sets := []string{"faktura_status = $2", "opdateret = NOW()"}
	args := []any{id, status}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if edits.Area != nil {
		add("areal", *edits.Area)
	}
	if edits.FacadeLength != nil {
		add("facadelaengde", *edits.FacadeLength)
	}
	if edits.Location != nil {
		add("lokation", *edits.Location)
	}
	if edits.Comment != nil {
		add("kommentar", *edits.Comment)
	}
	query := `UPDATE udeservering_fakturalinjer SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update fakturalinje %d: %w", id, err)
	}
	return nil
}

// Approve fija precio y estado TilFakturering solo si la línea no está congelada.
func (r *InvoiceLineRepo) Approve(ctx context.Context, id int64, price *decimal.Decimal) (bool, error) {
	var p decimal.NullDecimal
	if price != nil {
		p = decimal.NewNullDecimal(*price)
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE udeservering_fakturalinjer
		SET pris = $2, faktura_status = 'TilFakturering', opdateret = NOW()
		WHERE id = $1 AND COALESCE(faktura_status, 'Ny') NOT IN ('TilFakturering', 'Faktureret')`,
		id, p)
	if err != nil {
		return false, fmt.Errorf("approve fakturalinje %d: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetStatus cambia el estado sin tocar el precio.
func (r *InvoiceLineRepo) SetStatus(ctx context.Context, id int64, status string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE udeservering_fakturalinjer SET faktura_status = $2, opdateret = NOW() WHERE id = $1`,
		id, status)
	if err != nil {
		return fmt.Errorf("set status fakturalinje %d: %w", id, err)
	}
	return nil
}

// Delete elimina la línea.
func (r *InvoiceLineRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM udeservering_fakturalinjer WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete fakturalinje %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
