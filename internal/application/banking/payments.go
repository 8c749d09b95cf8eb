package banking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/invoicing"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// InitiatePayment debita la cuenta, registra el débito y deja el pago pendiente.
// La confirmación llega luego de forma asíncrona (ver Run). El sobregiro no se valida.
func (uc *BankingUseCase) InitiatePayment(ctx context.Context, actor *entity.User, in dto.PaymentRequest) (*entity.Payment, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapPayments); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := amountError(in.Amount); err != nil {
		return nil, err
	}

	var payment *entity.Payment
	err := uc.repos.Tx.RunBanking(ctx, func(r repository.BankingRepos) error {
		if in.InvoiceID != "" {
			inv, err := r.Invoices.GetByID(ctx, in.InvoiceID)
			if err != nil {
				return err
			}
			if inv == nil {
				v := domain.NewValidationError()
				v.Add("invoice_id", "la factura no existe")
				return v
			}
		}
		acc, err := loadAccount(ctx, r.Accounts, in.AccountID)
		if err != nil {
			return err
		}

		// ── 1. Débito y movimiento ───
		now := uc.now()
		acc.Balance = acc.Balance.Sub(in.Amount)
		acc.UpdatedAt = now
		if err := r.Accounts.Update(ctx, acc); err != nil {
			return err
		}
		payment = &entity.Payment{
			ID:          uuid.New().String(),
			AccountID:   acc.ID,
			InvoiceID:   in.InvoiceID,
			Beneficiary: strings.TrimSpace(in.Beneficiary),
			Amount:      in.Amount,
			Status:      entity.PaymentPending,
			CreatedBy:   actor.ID,
			CreatedAt:   now,
		}
		tx := &entity.Transaction{
			ID:           uuid.New().String(),
			AccountID:    acc.ID,
			Kind:         entity.TransactionDebit,
			Amount:       in.Amount,
			BalanceAfter: acc.Balance,
			Reference:    payment.ID,
			Description:  "Pago a " + payment.Beneficiary,
			Status:       entity.TransactionProcessed,
			CreatedBy:    actor.ID,
			CreatedAt:    now,
		}
		if err := r.Transactions.Append(ctx, tx); err != nil {
			return err
		}

		// ── 2. Pago pendiente ───
		payment.TransactionID = tx.ID
		return r.Payments.Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("payment", payment.ID).Str("account", payment.AccountID).
		Str("amount", payment.Amount.StringFixed(2)).Str("actor", actor.Email).Msg("pago iniciado")

	select {
	case uc.jobs <- payment.ID:
	default:
		uc.log.Warn().Str("payment", payment.ID).Msg("cola de confirmación llena, el pago queda pendiente")
	}
	return payment, nil
}

// Run confirma los pagos encolados tras el retardo simulado. Termina cuando ctx se cancela
// y espera a las confirmaciones en curso.
func (uc *BankingUseCase) Run(ctx context.Context) {
	defer uc.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-uc.jobs:
			uc.wg.Add(1)
			go func(id string) {
				defer uc.wg.Done()
				t := time.NewTimer(uc.delay)
				defer t.Stop()
				select {
				case <-ctx.Done():
					return
				case <-t.C:
				}
				if _, err := uc.CompletePayment(ctx, id); err != nil {
					uc.log.Error().Err(err).Str("payment", id).Msg("no se pudo confirmar el pago")
				}
			}(id)
		}
	}
}

// CompletePayment pasa el pago a completado; si liquida una factura, la marca pagada.
// Completar un pago ya completado no hace nada.
func (uc *BankingUseCase) CompletePayment(ctx context.Context, id string) (*entity.Payment, error) {
	var payment *entity.Payment
	err := uc.repos.Tx.RunBanking(ctx, func(r repository.BankingRepos) error {
		p, err := r.Payments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		payment = p
		if p.Status == entity.PaymentCompleted {
			return nil
		}
		now := uc.now()
		p.Status = entity.PaymentCompleted
		p.CompletedAt = &now
		if err := r.Payments.Update(ctx, p); err != nil {
			return err
		}
		if p.InvoiceID == "" {
			return nil
		}
		inv, err := r.Invoices.GetByID(ctx, p.InvoiceID)
		if err != nil || inv == nil {
			return err
		}
		if invoicing.Transition(inv.Status, entity.InvoiceStatusPaid) != nil {
			// ya pagada
			return nil
		}
		inv.Status = entity.InvoiceStatusPaid
		inv.PaidAt = &now
		inv.UpdatedAt = now
		return r.Invoices.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("payment", id).Str("invoice", payment.InvoiceID).Msg("pago completado")
	return payment, nil
}

func (uc *BankingUseCase) ListPayments(ctx context.Context, actor *entity.User) ([]*entity.Payment, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapPayments); err != nil {
		return nil, err
	}
	return uc.repos.Payments.List(ctx)
}

func (uc *BankingUseCase) loadPayment(ctx context.Context, actor *entity.User, id string) (*entity.Payment, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapPayments); err != nil {
		return nil, err
	}
	p, err := uc.repos.Payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (uc *BankingUseCase) GetPayment(ctx context.Context, actor *entity.User, id string) (*entity.Payment, error) {
	return uc.loadPayment(ctx, actor, id)
}

// UpdatePayment corrige el beneficiario salvo que los pagos completados estén congelados.
func (uc *BankingUseCase) UpdatePayment(ctx context.Context, actor *entity.User, id string, in dto.UpdatePaymentRequest) (*entity.Payment, error) {
	p, err := uc.loadPayment(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authz.RequireMutable(ctx, entity.ClassCompletedPayments, p); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Version != 0 && in.Version != p.Version {
		return nil, domain.ErrVersionConflict
	}
	p.Beneficiary = strings.TrimSpace(in.Beneficiary)
	if err := uc.repos.Payments.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePayment elimina el registro del pago. El débito ya asentado permanece en el log.
func (uc *BankingUseCase) DeletePayment(ctx context.Context, actor *entity.User, id string) error {
	p, err := uc.loadPayment(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := uc.authz.RequireMutable(ctx, entity.ClassCompletedPayments, p); err != nil {
		return err
	}
	return uc.repos.Payments.Delete(ctx, id)
}
