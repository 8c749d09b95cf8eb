// Package banking contiene los casos de uso de cuentas bancarias, movimientos y pagos.
// Cada operación que toca saldo y log de movimientos corre dentro de una sola unidad de trabajo.
package banking

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// DefaultCompletionDelay tiempo simulado hasta que el banco confirma un pago.
const DefaultCompletionDelay = 3 * time.Second

// BankingUseCase cuentas, abonos, pagos salientes y correcciones del log.
type BankingUseCase struct {
	repos repository.Repositories
	authz *access.Authorizer
	log   *logger.Logger
	delay time.Duration
	now   func() time.Time

	jobs chan string
	wg   sync.WaitGroup
}

func NewBankingUseCase(repos repository.Repositories, authz *access.Authorizer, delay time.Duration, log *logger.Logger) *BankingUseCase {
	return &BankingUseCase{
		repos: repos,
		authz: authz,
		log:   log.Component("banking"),
		delay: delay,
		now:   func() time.Time { return time.Now().UTC() },
		jobs:  make(chan string, 64),
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *BankingUseCase) WithClock(now func() time.Time) *BankingUseCase {
	uc.now = now
	return uc
}

func amountError(amount decimal.Decimal) error {
	if amount.IsPositive() {
		return nil
	}
	v := domain.NewValidationError()
	v.Add("amount", "el monto debe ser mayor a 0")
	return v
}

func loadAccount(ctx context.Context, accounts repository.BankAccountRepository, id string) (*entity.BankAccount, error) {
	acc, err := accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrNotFound
	}
	return acc, nil
}

// ── Cuentas ───────────────────────────────────────────────────────────────────

// CreateAccount abre una cuenta. Un saldo inicial positivo queda registrado como abono.
func (uc *BankingUseCase) CreateAccount(ctx context.Context, actor *entity.User, in dto.BankAccountRequest) (*entity.BankAccount, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapBankAccounts); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	v := domain.NewValidationError()
	if in.OpeningBalance.IsNegative() {
		v.Add("opening_balance", "el saldo inicial no puede ser negativo")
	}
	cur := entity.DefaultCurrency
	if in.Currency != "" {
		unit, err := currency.ParseISO(in.Currency)
		if err != nil {
			v.Add("currency", "moneda ISO 4217 desconocida")
		} else {
			cur = unit.String()
		}
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	now := uc.now()
	acc := &entity.BankAccount{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(in.Name),
		Bank:          strings.TrimSpace(in.Bank),
		AccountNumber: strings.TrimSpace(in.AccountNumber),
		Type:          in.Type,
		Currency:      cur,
		Balance:       in.OpeningBalance,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := uc.repos.Tx.RunBanking(ctx, func(r repository.BankingRepos) error {
		if err := r.Accounts.Create(ctx, acc); err != nil {
			return err
		}
		if !in.OpeningBalance.IsPositive() {
			return nil
		}
		return r.Transactions.Append(ctx, &entity.Transaction{
			ID:           uuid.New().String(),
			AccountID:    acc.ID,
			Kind:         entity.TransactionCredit,
			Amount:       in.OpeningBalance,
			BalanceAfter: in.OpeningBalance,
			Description:  "Saldo inicial",
			Status:       entity.TransactionProcessed,
			CreatedBy:    actor.ID,
			CreatedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func (uc *BankingUseCase) ListAccounts(ctx context.Context, actor *entity.User) ([]*entity.BankAccount, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapBankAccounts); err != nil {
		return nil, err
	}
	return uc.repos.Accounts.List(ctx)
}

func (uc *BankingUseCase) GetAccount(ctx context.Context, actor *entity.User, id string) (*entity.BankAccount, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapBankAccounts); err != nil {
		return nil, err
	}
	return loadAccount(ctx, uc.repos.Accounts, id)
}

// DeleteAccount elimina la cuenta; se rechaza con ErrInUse si tiene movimientos.
func (uc *BankingUseCase) DeleteAccount(ctx context.Context, actor *entity.User, id string) error {
	if err := uc.authz.Require(ctx, actor, entity.CapBankAccounts); err != nil {
		return err
	}
	return uc.repos.Tx.RunBanking(ctx, func(r repository.BankingRepos) error {
		if _, err := loadAccount(ctx, r.Accounts, id); err != nil {
			return err
		}
		txs, err := r.Transactions.ListByAccount(ctx, id)
		if err != nil {
			return err
		}
		if len(txs) > 0 {
			return fmt.Errorf("%w: la cuenta tiene %d movimientos", domain.ErrInUse, len(txs))
		}
		return r.Accounts.Delete(ctx, id)
	})
}

// ── Movimientos ───────────────────────────────────────────────────────────────

// Credit abona a la cuenta y registra el movimiento. El congelamiento de movimientos
// procesados no impide registrar movimientos nuevos.
func (uc *BankingUseCase) Credit(ctx context.Context, actor *entity.User, accountID string, in dto.CreditRequest) (*entity.Transaction, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapBankAccounts); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := amountError(in.Amount); err != nil {
		return nil, err
	}
	var tx *entity.Transaction
	err := uc.repos.Tx.RunBanking(ctx, func(r repository.BankingRepos) error {
		acc, err := loadAccount(ctx, r.Accounts, accountID)
		if err != nil {
			return err
		}
		now := uc.now()
		acc.Balance = acc.Balance.Add(in.Amount)
		acc.UpdatedAt = now
		if err := r.Accounts.Update(ctx, acc); err != nil {
			return err
		}
		tx = &entity.Transaction{
			ID:           uuid.New().String(),
			AccountID:    acc.ID,
			Kind:         entity.TransactionCredit,
			Amount:       in.Amount,
			BalanceAfter: acc.Balance,
			Description:  strings.TrimSpace(in.Description),
			Status:       entity.TransactionProcessed,
			CreatedBy:    actor.ID,
			CreatedAt:    now,
		}
		return r.Transactions.Append(ctx, tx)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("account", accountID).Str("amount", in.Amount.StringFixed(2)).Str("actor", actor.Email).Msg("abono registrado")
	return tx, nil
}

// Transactions movimientos de una cuenta, o de todas si accountID es vacío.
func (uc *BankingUseCase) Transactions(ctx context.Context, actor *entity.User, accountID string) ([]*entity.Transaction, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapTransactions); err != nil {
		return nil, err
	}
	if accountID == "" {
		return uc.repos.Transactions.List(ctx)
	}
	if _, err := loadAccount(ctx, uc.repos.Accounts, accountID); err != nil {
		return nil, err
	}
	return uc.repos.Transactions.ListByAccount(ctx, accountID)
}

// DeleteTransaction corrección administrativa del log; no recalcula el saldo.
func (uc *BankingUseCase) DeleteTransaction(ctx context.Context, actor *entity.User, id string) error {
	if err := uc.authz.Require(ctx, actor, entity.CapTransactions); err != nil {
		return err
	}
	tx, err := uc.repos.Transactions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tx == nil {
		return domain.ErrNotFound
	}
	if err := uc.authz.RequireMutable(ctx, entity.ClassProcessedTransactions, tx); err != nil {
		return err
	}
	if err := uc.repos.Transactions.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Warn().Str("transaction", id).Str("actor", actor.Email).Msg("movimiento eliminado")
	return nil
}
