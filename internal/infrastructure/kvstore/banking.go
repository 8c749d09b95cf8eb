package kvstore

import (
	"context"
	"fmt"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// BankAccountRepo implementación de repository.BankAccountRepository.
type BankAccountRepo struct {
	c collection[entity.BankAccount]
}

func NewBankAccountRepository(s *Store) *BankAccountRepo {
	return &BankAccountRepo{c: collection[entity.BankAccount]{
		s:       s,
		key:     keyBankAccounts,
		id:      func(a *entity.BankAccount) string { return a.ID },
		version: func(a *entity.BankAccount) *int64 { return &a.Version },
		less:    func(a, b *entity.BankAccount) bool { return a.Name < b.Name },
	}}
}

func (r *BankAccountRepo) Create(ctx context.Context, a *entity.BankAccount) error {
	return r.c.create(ctx, a, nil)
}
func (r *BankAccountRepo) GetByID(ctx context.Context, id string) (*entity.BankAccount, error) {
	return r.c.get(ctx, id)
}
func (r *BankAccountRepo) List(ctx context.Context) ([]*entity.BankAccount, error) {
	return r.c.list(ctx)
}
func (r *BankAccountRepo) Update(ctx context.Context, a *entity.BankAccount) error {
	return r.c.update(ctx, a)
}
func (r *BankAccountRepo) Delete(ctx context.Context, id string) error { return r.c.delete(ctx, id) }

// TransactionRepo log append-only de movimientos, más recientes primero.
type TransactionRepo struct {
	c collection[entity.Transaction]
}

func NewTransactionRepository(s *Store) *TransactionRepo {
	return &TransactionRepo{c: collection[entity.Transaction]{
		s:    s,
		key:  keyTransactions,
		id:   func(t *entity.Transaction) string { return t.ID },
		less: func(a, b *entity.Transaction) bool { return a.CreatedAt.After(b.CreatedAt) },
	}}
}

func (r *TransactionRepo) Append(ctx context.Context, t *entity.Transaction) error {
	return r.c.create(ctx, t, nil)
}
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	return r.c.get(ctx, id)
}
func (r *TransactionRepo) List(ctx context.Context) ([]*entity.Transaction, error) {
	return r.c.list(ctx)
}
func (r *TransactionRepo) ListByAccount(ctx context.Context, accountID string) ([]*entity.Transaction, error) {
	return r.c.filter(ctx, func(t *entity.Transaction) bool { return t.AccountID == accountID })
}
func (r *TransactionRepo) Delete(ctx context.Context, id string) error { return r.c.delete(ctx, id) }

// PaymentRepo implementación de repository.PaymentRepository.
type PaymentRepo struct {
	c collection[entity.Payment]
}

func NewPaymentRepository(s *Store) *PaymentRepo {
	return &PaymentRepo{c: collection[entity.Payment]{
		s:       s,
		key:     keyPayments,
		id:      func(p *entity.Payment) string { return p.ID },
		version: func(p *entity.Payment) *int64 { return &p.Version },
		less:    func(a, b *entity.Payment) bool { return a.CreatedAt.After(b.CreatedAt) },
	}}
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	return r.c.create(ctx, p, nil)
}
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	return r.c.get(ctx, id)
}
func (r *PaymentRepo) List(ctx context.Context) ([]*entity.Payment, error) { return r.c.list(ctx) }
func (r *PaymentRepo) Update(ctx context.Context, p *entity.Payment) error {
	return r.c.update(ctx, p)
}
func (r *PaymentRepo) Delete(ctx context.Context, id string) error { return r.c.delete(ctx, id) }

// TxRunner unidad de trabajo sobre varias colecciones.
// Excluye a los demás escritores del Store mientras corre y, si fn falla, restaura los blobs tocados.
type TxRunner struct {
	s *Store
}

func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

var bankingKeys = []string{keyBankAccounts, keyTransactions, keyPayments, keyInvoices}

type blobSnapshot struct {
	data    []byte
	version int64
}

// RunBanking ejecuta fn con repositorios atados a la unidad de trabajo.
func (r *TxRunner) RunBanking(ctx context.Context, fn func(repos repository.BankingRepos) error) error {
	r.s.tx.Lock()
	defer r.s.tx.Unlock()

	snaps := make(map[string]blobSnapshot, len(bankingKeys))
	for _, k := range bankingKeys {
		data, ver, err := r.s.backend.Load(ctx, k)
		if err != nil {
			return fmt.Errorf("kvstore: snapshot %s: %w", k, err)
		}
		snaps[k] = blobSnapshot{data: data, version: ver}
	}

	txStore := &Store{backend: r.s.backend, tx: r.s.tx, inTx: true, keys: r.s.keys}
	repos := repository.BankingRepos{
		Accounts:     NewBankAccountRepository(txStore),
		Transactions: NewTransactionRepository(txStore),
		Payments:     NewPaymentRepository(txStore),
		Invoices:     NewInvoiceRepository(txStore),
	}
	if err := fn(repos); err != nil {
		if rbErr := r.restore(context.WithoutCancel(ctx), snaps); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	return nil
}

func (r *TxRunner) restore(ctx context.Context, snaps map[string]blobSnapshot) error {
	for k, snap := range snaps {
		_, cur, err := r.s.backend.Load(ctx, k)
		if err != nil {
			return err
		}
		if cur == snap.version {
			continue
		}
		data := snap.data
		if data == nil {
			data = []byte("{}")
		}
		if _, err := r.s.backend.Store(ctx, k, data, cur); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ repository.BankAccountRepository = (*BankAccountRepo)(nil)
	_ repository.TransactionRepository = (*TransactionRepo)(nil)
	_ repository.PaymentRepository     = (*PaymentRepo)(nil)
	_ repository.BankingTxRunner       = (*TxRunner)(nil)
)
