package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// BankAccountRepository define el puerto de persistencia para BankAccount.
type BankAccountRepository interface {
	Create(ctx context.Context, account *entity.BankAccount) error
	GetByID(ctx context.Context, id string) (*entity.BankAccount, error)
	List(ctx context.Context) ([]*entity.BankAccount, error)
	Update(ctx context.Context, account *entity.BankAccount) error
	Delete(ctx context.Context, id string) error
}

// TransactionRepository log append-only de movimientos. Delete existe solo para correcciones administrativas.
type TransactionRepository interface {
	Append(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	List(ctx context.Context) ([]*entity.Transaction, error)
	ListByAccount(ctx context.Context, accountID string) ([]*entity.Transaction, error)
	Delete(ctx context.Context, id string) error
}

// PaymentRepository define el puerto de persistencia para Payment.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	List(ctx context.Context) ([]*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
	Delete(ctx context.Context, id string) error
}

// BankingRepos repositorios atados a una misma unidad de trabajo.
type BankingRepos struct {
	Accounts     BankAccountRepository
	Transactions TransactionRepository
	Payments     PaymentRepository
	Invoices     InvoiceRepository
}

// BankingTxRunner ejecuta fn dentro de una transacción: si fn retorna error no queda ningún cambio.
type BankingTxRunner interface {
	RunBanking(ctx context.Context, fn func(repos BankingRepos) error) error
}
