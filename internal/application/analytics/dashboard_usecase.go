// Package analytics contiene el resumen del panel principal.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// DashboardUseCase arma el resumen del panel a partir de las colecciones.
//
// Cada sección se carga en paralelo y solo si el actor tiene su capacidad:
// invoices, bank_accounts, payments y hr. El panel en sí exige dashboard.
type DashboardUseCase struct {
	repos repository.Repositories
	authz *access.Authorizer
	now   func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repos repository.Repositories, authz *access.Authorizer) *DashboardUseCase {
	return &DashboardUseCase{repos: repos, authz: authz, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

type section struct {
	name string
	need entity.Capability
	load func(ctx context.Context, out *dto.DashboardSummaryDTO) error
}

// GetSummary construye el resumen para el actor.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, actor *entity.User) (*dto.DashboardSummaryDTO, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapDashboard); err != nil {
		return nil, err
	}
	now := uc.now()
	sections := []section{
		{"facturas", entity.CapInvoices, func(ctx context.Context, out *dto.DashboardSummaryDTO) error {
			w, err := uc.invoices(ctx, now)
			out.Invoices = w
			return err
		}},
		{"cuentas", entity.CapBankAccounts, func(ctx context.Context, out *dto.DashboardSummaryDTO) error {
			w, err := uc.accounts(ctx)
			out.Accounts = w
			return err
		}},
		{"pagos", entity.CapPayments, func(ctx context.Context, out *dto.DashboardSummaryDTO) error {
			w, err := uc.payments(ctx)
			out.Payments = w
			return err
		}},
		{"rrhh", entity.CapHR, func(ctx context.Context, out *dto.DashboardSummaryDTO) error {
			w, err := uc.hr(ctx, now)
			out.HR = w
			return err
		}},
	}

	// ── Una goroutine por sección visible ──────────────────────────────────────
	type result struct {
		name    string
		partial dto.DashboardSummaryDTO
		err     error
	}
	results := make(chan result, len(sections))
	launched := 0
	for _, s := range sections {
		ok, err := uc.authz.Can(ctx, actor, s.need)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		launched++
		go func(s section) {
			var r result
			r.name = s.name
			r.err = s.load(ctx, &r.partial)
			results <- r
		}(s)
	}

	out := &dto.DashboardSummaryDTO{DateLabel: monthLabel(now)}
	var firstErr error
	for i := 0; i < launched; i++ {
		r := <-results
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("dashboard: %s: %w", r.name, r.err)
			}
			continue
		}
		merge(out, &r.partial)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func merge(dst, src *dto.DashboardSummaryDTO) {
	if src.Invoices != nil {
		dst.Invoices = src.Invoices
	}
	if src.Accounts != nil {
		dst.Accounts = src.Accounts
	}
	if src.Payments != nil {
		dst.Payments = src.Payments
	}
	if src.HR != nil {
		dst.HR = src.HR
	}
}

func (uc *DashboardUseCase) invoices(ctx context.Context, now time.Time) (*dto.InvoiceWidgetDTO, error) {
	list, err := uc.repos.Invoices.List(ctx)
	if err != nil {
		return nil, err
	}
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	w := &dto.InvoiceWidgetDTO{Count: len(list), ByStatus: map[string]int{}}
	byCur := map[string]*dto.InvoiceTotalsDTO{}
	for _, inv := range list {
		st := inv.EffectiveStatus(now)
		w.ByStatus[string(st)]++
		cur := currencyCode(inv.Currency)
		t, ok := byCur[cur]
		if !ok {
			t = &dto.InvoiceTotalsDTO{Currency: cur}
			byCur[cur] = t
		}
		t.Billed = t.Billed.Add(inv.Total)
		switch st {
		case entity.InvoiceStatusPaid:
			t.Collected = t.Collected.Add(inv.Total)
		case entity.InvoiceStatusOverdue:
			t.Overdue = t.Overdue.Add(inv.Total)
			t.Outstanding = t.Outstanding.Add(inv.Total)
		case entity.InvoiceStatusSent:
			t.Outstanding = t.Outstanding.Add(inv.Total)
		}
		if !inv.IssueDate.Before(monthStart) {
			t.MonthlyBilled = t.MonthlyBilled.Add(inv.Total)
		}
	}
	for _, t := range byCur {
		t.Billed = t.Billed.Round(2)
		t.Collected = t.Collected.Round(2)
		t.Outstanding = t.Outstanding.Round(2)
		t.Overdue = t.Overdue.Round(2)
		t.MonthlyBilled = t.MonthlyBilled.Round(2)
		w.Totals = append(w.Totals, *t)
	}
	sort.Slice(w.Totals, func(i, j int) bool { return w.Totals[i].Currency < w.Totals[j].Currency })
	return w, nil
}

func (uc *DashboardUseCase) accounts(ctx context.Context) ([]dto.CurrencyAmountDTO, error) {
	list, err := uc.repos.Accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	byCur := map[string]*dto.CurrencyAmountDTO{}
	for _, a := range list {
		cur := currencyCode(a.Currency)
		t, ok := byCur[cur]
		if !ok {
			t = &dto.CurrencyAmountDTO{Currency: cur}
			byCur[cur] = t
		}
		t.Count++
		t.Amount = t.Amount.Add(a.Balance)
	}
	out := make([]dto.CurrencyAmountDTO, 0, len(byCur))
	for _, t := range byCur {
		t.Amount = t.Amount.Round(2)
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out, nil
}

func (uc *DashboardUseCase) payments(ctx context.Context) (*dto.PaymentWidgetDTO, error) {
	list, err := uc.repos.Payments.List(ctx)
	if err != nil {
		return nil, err
	}
	w := &dto.PaymentWidgetDTO{PendingAmount: decimal.Zero}
	for _, p := range list {
		if p.Status == entity.PaymentPending {
			w.Pending++
			w.PendingAmount = w.PendingAmount.Add(p.Amount)
		}
	}
	w.PendingAmount = w.PendingAmount.Round(2)
	return w, nil
}

func (uc *DashboardUseCase) hr(ctx context.Context, now time.Time) (*dto.HRWidgetDTO, error) {
	leaves, err := uc.repos.Leaves.List(ctx)
	if err != nil {
		return nil, err
	}
	notices, err := uc.repos.Announcements.List(ctx)
	if err != nil {
		return nil, err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	w := &dto.HRWidgetDTO{Announcements: len(notices)}
	for _, l := range leaves {
		if l.Open() {
			w.OpenLeaves++
		}
		if l.Status == entity.LeaveApproved && !today.Before(l.StartDate) && !today.After(l.EndDate) {
			w.OnLeaveToday++
		}
	}
	return w, nil
}

func currencyCode(code string) string {
	if code == "" {
		return entity.DefaultCurrency
	}
	return strings.ToUpper(code)
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Octubre 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
