package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, invoice_number, client_id, client, issue_date, due_date, items, tax_rate, discount, currency,
	subtotal, tax, buying_total, profit, total, profit_incomplete, status, notes, field_mask,
	sent_at, paid_at, version, created_at, updated_at`

// invoiceDocs partes JSONB de la factura.
type invoiceDocs struct {
	client, items, mask []byte
}

func marshalInvoiceDocs(inv *entity.Invoice) (invoiceDocs, error) {
	var d invoiceDocs
	var err error
	if d.client, err = json.Marshal(inv.Client); err != nil {
		return d, err
	}
	items := inv.Items
	if items == nil {
		items = []entity.InvoiceItem{}
	}
	if d.items, err = json.Marshal(items); err != nil {
		return d, err
	}
	d.mask, err = json.Marshal(inv.FieldMask)
	return d, err
}

// Create persiste la factura con sus líneas. Número repetido -> domain.ErrDuplicate.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	docs, err := marshalInvoiceDocs(inv)
	if err != nil {
		return fmt.Errorf("encode invoice: %w", err)
	}
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, 1, $22, $23)`
	_, err = r.q.Exec(ctx, query,
		inv.ID, inv.InvoiceNumber, inv.ClientID, docs.client, inv.IssueDate, inv.DueDate, docs.items,
		inv.TaxRate, inv.Discount, inv.Currency,
		inv.Subtotal, inv.Tax, inv.BuyingTotal, inv.Profit, inv.Total, inv.ProfitIncomplete,
		string(inv.Status), inv.Notes, docs.mask, inv.SentAt, inv.PaidAt,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: cliente inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	inv.Version = 1
	return nil
}

// GetByID obtiene una factura completa por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// List facturas más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// Update reescribe cabecera y líneas si la versión coincide.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	docs, err := marshalInvoiceDocs(inv)
	if err != nil {
		return fmt.Errorf("encode invoice: %w", err)
	}
	query := `
		UPDATE invoices
		SET invoice_number = $2, client_id = $3, client = $4, issue_date = $5, due_date = $6, items = $7,
		    tax_rate = $8, discount = $9, currency = $10, subtotal = $11, tax = $12, buying_total = $13,
		    profit = $14, total = $15, profit_incomplete = $16, status = $17, notes = $18, field_mask = $19,
		    sent_at = $20, paid_at = $21, updated_at = $22, version = version + 1
		WHERE id = $1 AND version = $23`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.InvoiceNumber, inv.ClientID, docs.client, inv.IssueDate, inv.DueDate, docs.items,
		inv.TaxRate, inv.Discount, inv.Currency, inv.Subtotal, inv.Tax, inv.BuyingTotal,
		inv.Profit, inv.Total, inv.ProfitIncomplete, string(inv.Status), inv.Notes, docs.mask,
		inv.SentAt, inv.PaidAt, inv.UpdatedAt, inv.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return versionMiss(ctx, r.q, "invoices", inv.ID)
	}
	inv.Version++
	return nil
}

func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	return expectDeleted(tag, err, "invoice")
}

func (r *InvoiceRepo) ExistsForClient(ctx context.Context, clientID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invoices WHERE client_id = $1)`, clientID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check invoices for client: %w", err)
	}
	return exists, nil
}

func (r *InvoiceRepo) ListNumbers(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT invoice_number FROM invoices`)
	if err != nil {
		return nil, fmt.Errorf("list invoice numbers: %w", err)
	}
	defer rows.Close()
	var nums []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		nums = append(nums, n)
	}
	return nums, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var client, items, mask []byte
	var status string
	if err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.ClientID, &client, &inv.IssueDate, &inv.DueDate, &items,
		&inv.TaxRate, &inv.Discount, &inv.Currency,
		&inv.Subtotal, &inv.Tax, &inv.BuyingTotal, &inv.Profit, &inv.Total, &inv.ProfitIncomplete,
		&status, &inv.Notes, &mask, &inv.SentAt, &inv.PaidAt, &inv.Version, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return nil, err
	}
	inv.Status = entity.InvoiceStatus(status)
	if err := json.Unmarshal(client, &inv.Client); err != nil {
		return nil, fmt.Errorf("decode client snapshot: %w", err)
	}
	if err := json.Unmarshal(items, &inv.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if err := json.Unmarshal(mask, &inv.FieldMask); err != nil {
		return nil, fmt.Errorf("decode field mask: %w", err)
	}
	return &inv, nil
}
