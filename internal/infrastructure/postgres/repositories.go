package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// NewRepositories construye todos los adaptadores PostgreSQL sobre el pool.
func NewRepositories(pool *pgxpool.Pool) repository.Repositories {
	return repository.Repositories{
		Users:         NewUserRepository(pool),
		Roles:         NewRoleRepository(pool),
		Clients:       NewClientRepository(pool),
		Invoices:      NewInvoiceRepository(pool),
		Settings:      NewSettingsRepository(pool),
		Accounts:      NewBankAccountRepository(pool),
		Transactions:  NewTransactionRepository(pool),
		Payments:      NewPaymentRepository(pool),
		Alerts:        NewSecurityAlertRepository(pool),
		Leaves:        NewLeaveRequestRepository(pool),
		Announcements: NewAnnouncementRepository(pool),
		Tx:            NewTxRunner(pool),
	}
}
