package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var (
	_ repository.BankAccountRepository = (*BankAccountRepo)(nil)
	_ repository.TransactionRepository = (*TransactionRepo)(nil)
	_ repository.PaymentRepository     = (*PaymentRepo)(nil)
)

// BankAccountRepo cuentas bancarias.
type BankAccountRepo struct {
	q Querier
}

func NewBankAccountRepository(q Querier) *BankAccountRepo {
	return &BankAccountRepo{q: q}
}

const accountColumns = `id, name, bank, account_number, type, currency, balance, version, created_at, updated_at`

func (r *BankAccountRepo) Create(ctx context.Context, a *entity.BankAccount) error {
	_, err := r.q.Exec(ctx, `INSERT INTO bank_accounts (`+accountColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9)`,
		a.ID, a.Name, a.Bank, a.AccountNumber, a.Type, a.Currency, a.Balance, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert bank account: %w", err)
	}
	a.Version = 1
	return nil
}

func (r *BankAccountRepo) GetByID(ctx context.Context, id string) (*entity.BankAccount, error) {
	a, err := scanAccount(r.q.QueryRow(ctx, `SELECT `+accountColumns+` FROM bank_accounts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bank account: %w", err)
	}
	return a, nil
}

func (r *BankAccountRepo) List(ctx context.Context) ([]*entity.BankAccount, error) {
	rows, err := r.q.Query(ctx, `SELECT `+accountColumns+` FROM bank_accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.BankAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bank account: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *BankAccountRepo) Update(ctx context.Context, a *entity.BankAccount) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE bank_accounts
		SET name = $2, bank = $3, account_number = $4, type = $5, currency = $6, balance = $7,
		    updated_at = $8, version = version + 1
		WHERE id = $1 AND version = $9`,
		a.ID, a.Name, a.Bank, a.AccountNumber, a.Type, a.Currency, a.Balance, a.UpdatedAt, a.Version)
	if err != nil {
		return fmt.Errorf("update bank account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return versionMiss(ctx, r.q, "bank_accounts", a.ID)
	}
	a.Version++
	return nil
}

func (r *BankAccountRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM bank_accounts WHERE id = $1`, id)
	return expectDeleted(tag, err, "bank account")
}

func scanAccount(row pgx.Row) (*entity.BankAccount, error) {
	var a entity.BankAccount
	if err := row.Scan(&a.ID, &a.Name, &a.Bank, &a.AccountNumber, &a.Type, &a.Currency, &a.Balance,
		&a.Version, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// TransactionRepo log append-only de movimientos.
type TransactionRepo struct {
	q Querier
}

func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const transactionColumns = `id, account_id, kind, amount, balance_after, reference, description, status, created_by, created_at`

func (r *TransactionRepo) Append(ctx context.Context, t *entity.Transaction) error {
	_, err := r.q.Exec(ctx, `INSERT INTO transactions (`+transactionColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.AccountID, t.Kind, t.Amount, t.BalanceAfter, t.Reference, t.Description, t.Status, t.CreatedBy, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	t, err := scanTransaction(r.q.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepo) List(ctx context.Context) ([]*entity.Transaction, error) {
	return r.list(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY created_at DESC`)
}

func (r *TransactionRepo) ListByAccount(ctx context.Context, accountID string) ([]*entity.Transaction, error) {
	return r.list(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE account_id = $1 ORDER BY created_at DESC`, accountID)
}

func (r *TransactionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	return expectDeleted(tag, err, "transaction")
}

func (r *TransactionRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Transaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var t entity.Transaction
	if err := row.Scan(&t.ID, &t.AccountID, &t.Kind, &t.Amount, &t.BalanceAfter, &t.Reference,
		&t.Description, &t.Status, &t.CreatedBy, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// PaymentRepo pagos iniciados desde cuentas bancarias.
type PaymentRepo struct {
	q Querier
}

func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, account_id, invoice_id, beneficiary, amount, status, transaction_id, version, created_by, created_at, completed_at`

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.Exec(ctx, `INSERT INTO payments (`+paymentColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9, $10)`,
		p.ID, p.AccountID, p.InvoiceID, p.Beneficiary, p.Amount, p.Status, p.TransactionID, p.CreatedBy, p.CreatedAt, p.CompletedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	p.Version = 1
	return nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (r *PaymentRepo) List(ctx context.Context) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PaymentRepo) Update(ctx context.Context, p *entity.Payment) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE payments
		SET account_id = $2, invoice_id = $3, beneficiary = $4, amount = $5, status = $6,
		    transaction_id = $7, completed_at = $8, version = version + 1
		WHERE id = $1 AND version = $9`,
		p.ID, p.AccountID, p.InvoiceID, p.Beneficiary, p.Amount, p.Status, p.TransactionID, p.CompletedAt, p.Version)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return versionMiss(ctx, r.q, "payments", p.ID)
	}
	p.Version++
	return nil
}

func (r *PaymentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	return expectDeleted(tag, err, "payment")
}

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	if err := row.Scan(&p.ID, &p.AccountID, &p.InvoiceID, &p.Beneficiary, &p.Amount, &p.Status,
		&p.TransactionID, &p.Version, &p.CreatedBy, &p.CreatedAt, &p.CompletedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
