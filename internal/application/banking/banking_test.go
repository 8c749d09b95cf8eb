package banking_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/banking"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/kvstore"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

var admin = &entity.User{ID: "u-admin", Email: "admin@acme.com", Role: entity.RoleAdmin}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newUseCase(t *testing.T, delay time.Duration) (*banking.BankingUseCase, repository.Repositories) {
	t.Helper()
	repos := kvstore.New(kvstore.NewMemoryBackend()).Repositories()
	uc := banking.NewBankingUseCase(repos, access.NewAuthorizer(repos.Roles, repos.Settings), delay, logger.Nop())
	return uc, repos
}

func openAccount(t *testing.T, uc *banking.BankingUseCase, opening string) *entity.BankAccount {
	t.Helper()
	acc, err := uc.CreateAccount(context.Background(), admin, dto.BankAccountRequest{
		Name: "Principal", Bank: "Banco Uno", Type: entity.AccountTypeChecking, Currency: "cop", OpeningBalance: d(opening),
	})
	require.NoError(t, err)
	return acc
}

func setFreeze(t *testing.T, repos repository.Repositories, mutate func(*entity.FreezeSettings)) {
	t.Helper()
	s, err := repos.Settings.GetFreezeSettings(context.Background())
	require.NoError(t, err)
	mutate(s)
	require.NoError(t, repos.Settings.SaveFreezeSettings(context.Background(), s))
}

func TestCreateAccount_SaldoInicialComoAbono(t *testing.T) {
	uc, _ := newUseCase(t, time.Millisecond)
	acc := openAccount(t, uc, "1000")

	assert.Equal(t, "COP", acc.Currency)
	txs, err := uc.Transactions(context.Background(), admin, acc.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, entity.TransactionCredit, txs[0].Kind)
	assert.True(t, txs[0].BalanceAfter.Equal(d("1000")))
}

func TestCredit_ActualizaSaldoYLog(t *testing.T) {
	uc, _ := newUseCase(t, time.Millisecond)
	acc := openAccount(t, uc, "0")
	ctx := context.Background()

	tx, err := uc.Credit(ctx, admin, acc.ID, dto.CreditRequest{Amount: d("250.75"), Description: "Depósito"})
	require.NoError(t, err)
	assert.True(t, tx.BalanceAfter.Equal(d("250.75")))

	got, err := uc.GetAccount(ctx, admin, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(d("250.75")))

	_, err = uc.Credit(ctx, admin, acc.ID, dto.CreditRequest{Amount: d("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Credit(ctx, admin, "nope", dto.CreditRequest{Amount: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInitiatePayment_FallaSinEfectos(t *testing.T) {
	uc, repos := newUseCase(t, time.Millisecond)
	acc := openAccount(t, uc, "100")
	ctx := context.Background()

	_, err := uc.InitiatePayment(ctx, admin, dto.PaymentRequest{AccountID: acc.ID, Beneficiary: "Proveedor", Amount: d("40"), InvoiceID: "no-existe"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := uc.GetAccount(ctx, admin, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(d("100")), "el débito se revierte")
	txs, err := repos.Transactions.ListByAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 1, "solo el saldo inicial")
	payments, err := repos.Payments.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestPayment_CompletarMarcaFacturaPagada(t *testing.T) {
	uc, repos := newUseCase(t, time.Millisecond)
	acc := openAccount(t, uc, "100")
	ctx := context.Background()
	require.NoError(t, repos.Invoices.Create(ctx, &entity.Invoice{ID: "inv-1", InvoiceNumber: "INV-001", Status: entity.InvoiceStatusSent}))

	p, err := uc.InitiatePayment(ctx, admin, dto.PaymentRequest{AccountID: acc.ID, Beneficiary: "Acme", Amount: d("150"), InvoiceID: "inv-1"})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentPending, p.Status)
	assert.NotEmpty(t, p.TransactionID)

	acct, err := uc.GetAccount(ctx, admin, acc.ID)
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(d("-50")), "el sobregiro no se valida")

	done, err := uc.CompletePayment(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)

	inv, err := repos.Invoices.GetByID(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, inv.Status)

	again, err := uc.CompletePayment(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, done.Version, again.Version, "completar dos veces no escribe")
}

func TestRun_ConfirmaPagosEncolados(t *testing.T) {
	uc, _ := newUseCase(t, 5*time.Millisecond)
	acc := openAccount(t, uc, "100")
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		uc.Run(ctx)
		close(stopped)
	}()

	p, err := uc.InitiatePayment(context.Background(), admin, dto.PaymentRequest{AccountID: acc.ID, Beneficiary: "Acme", Amount: d("10")})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		got, err := uc.GetPayment(context.Background(), admin, p.ID)
		return err == nil && got.Status == entity.PaymentCompleted
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Run no terminó al cancelar el contexto")
	}
}

func TestUpdatePayment_CompletadoCongelado(t *testing.T) {
	uc, repos := newUseCase(t, time.Millisecond)
	acc := openAccount(t, uc, "100")
	ctx := context.Background()
	pending, err := uc.InitiatePayment(ctx, admin, dto.PaymentRequest{AccountID: acc.ID, Beneficiary: "A", Amount: d("1")})
	require.NoError(t, err)
	completed, err := uc.InitiatePayment(ctx, admin, dto.PaymentRequest{AccountID: acc.ID, Beneficiary: "B", Amount: d("1")})
	require.NoError(t, err)
	_, err = uc.CompletePayment(ctx, completed.ID)
	require.NoError(t, err)

	setFreeze(t, repos, func(s *entity.FreezeSettings) { s.CompletedPayments = true })

	_, err = uc.UpdatePayment(ctx, admin, completed.ID, dto.UpdatePaymentRequest{Beneficiary: "C"})
	assert.ErrorIs(t, err, domain.ErrFrozen)
	assert.ErrorIs(t, uc.DeletePayment(ctx, admin, completed.ID), domain.ErrFrozen)

	updated, err := uc.UpdatePayment(ctx, admin, pending.ID, dto.UpdatePaymentRequest{Beneficiary: "C"})
	require.NoError(t, err)
	assert.Equal(t, "C", updated.Beneficiary)
}

func TestDeleteTransaction_ProcesadasCongeladas(t *testing.T) {
	uc, repos := newUseCase(t, time.Millisecond)
	acc := openAccount(t, uc, "100")
	ctx := context.Background()
	txs, err := uc.Transactions(ctx, admin, acc.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	setFreeze(t, repos, func(s *entity.FreezeSettings) { s.ProcessedTransactions = true })
	assert.ErrorIs(t, uc.DeleteTransaction(ctx, admin, txs[0].ID), domain.ErrFrozen)

	_, err = uc.Credit(ctx, admin, acc.ID, dto.CreditRequest{Amount: d("5")})
	assert.NoError(t, err, "congelar no impide movimientos nuevos")

	setFreeze(t, repos, func(s *entity.FreezeSettings) { s.ProcessedTransactions = false })
	assert.NoError(t, uc.DeleteTransaction(ctx, admin, txs[0].ID))
	assert.ErrorIs(t, uc.DeleteTransaction(ctx, admin, txs[0].ID), domain.ErrNotFound)
}

func TestDeleteAccount_ConMovimientos(t *testing.T) {
	uc, _ := newUseCase(t, time.Millisecond)
	ctx := context.Background()
	used := openAccount(t, uc, "10")
	empty := openAccount(t, uc, "0")

	assert.ErrorIs(t, uc.DeleteAccount(ctx, admin, used.ID), domain.ErrInUse)
	assert.NoError(t, uc.DeleteAccount(ctx, admin, empty.ID))
	_, err := uc.GetAccount(ctx, admin, empty.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
