package reporting

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/ports"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// Renderers generadores concretos por formato.
type Renderers struct {
	PDF      DocumentRenderer
	Word     DocumentRenderer
	Workbook WorkbookWriter
}

// ExportUseCase genera los archivos descargables: factura individual y listados en xlsx.
type ExportUseCase struct {
	repos     repository.Repositories
	authz     *access.Authorizer
	renderers Renderers
	log       *logger.Logger
	now       func() time.Time
}

func NewExportUseCase(repos repository.Repositories, authz *access.Authorizer, renderers Renderers, log *logger.Logger) *ExportUseCase {
	return &ExportUseCase{
		repos:     repos,
		authz:     authz,
		renderers: renderers,
		log:       log.Component("export"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ExportUseCase) WithClock(now func() time.Time) *ExportUseCase {
	uc.now = now
	return uc
}

// ExportInvoice genera la factura en el formato pedido. mask nil usa la máscara guardada en la factura.
// Si la factura no existe devuelve domain.ErrNotFound y no se genera nada.
func (uc *ExportUseCase) ExportInvoice(ctx context.Context, actor *entity.User, invoiceID string, mask *entity.FieldMask, format string) (*ports.File, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapInvoices); err != nil {
		return nil, err
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatPDF
	}
	if format != FormatPDF && format != FormatDoc && format != FormatXLSX {
		v := domain.NewValidationError()
		v.Add("format", "formato no soportado, use pdf, doc o xlsx")
		return nil, v
	}

	inv, err := uc.repos.Invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	company, err := uc.repos.Settings.GetCompany(ctx)
	if err != nil {
		return nil, err
	}
	m := inv.FieldMask
	if mask != nil {
		m = *mask
	}
	doc := Visible(inv, company, m, uc.now())

	name := "invoice_" + inv.InvoiceNumber + "." + format
	var file *ports.File
	switch format {
	case FormatPDF:
		data, err := uc.renderers.PDF.Render(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("export: pdf %s: %w", inv.InvoiceNumber, err)
		}
		file = &ports.File{Name: name, ContentType: ContentTypePDF, Data: data}
	case FormatDoc:
		data, err := uc.renderers.Word.Render(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("export: doc %s: %w", inv.InvoiceNumber, err)
		}
		file = &ports.File{Name: name, ContentType: ContentTypeDoc, Data: data}
	default:
		data, err := uc.renderers.Workbook.Write(ctx, InvoiceSheets(doc))
		if err != nil {
			return nil, fmt.Errorf("export: xlsx %s: %w", inv.InvoiceNumber, err)
		}
		file = &ports.File{Name: name, ContentType: ContentTypeXLSX, Data: data}
	}
	uc.log.Debug().Str("invoice", inv.InvoiceNumber).Str("format", format).Int("bytes", len(file.Data)).Msg("factura exportada")
	return file, nil
}

// InvoiceSheets libro de una factura: hoja Summary (cabecera y totales) e Items.
func InvoiceSheets(doc *Document) []Sheet {
	summary := Sheet{Name: "Summary", Header: []string{"Campo", "Valor"}}
	add := func(label, value string) {
		if value != "" {
			summary.Rows = append(summary.Rows, []string{label, value})
		}
	}
	add("Número", doc.Number)
	for _, f := range doc.Header {
		add(f.Label, f.Value)
	}
	add("Emisor", doc.Company.Name)
	add("Cliente", doc.Client.Name)
	for _, f := range doc.Client.Fields {
		add("Cliente "+strings.ToLower(f.Label), f.Value)
	}
	add("Moneda", doc.Currency)
	for _, f := range doc.Totals {
		add(f.Label, f.Value)
	}
	add("Notas", doc.Notes)

	items := Sheet{Name: "Items", Header: []string{"Descripción", "Cantidad", "Precio", "Importe"}}
	if doc.ShowBuyingPrice {
		items.Header = append(items.Header, "Costo")
	}
	for _, l := range doc.Items {
		row := []string{l.Description, l.Quantity, l.Rate, l.Amount}
		if doc.ShowBuyingPrice {
			row = append(row, l.BuyingPrice)
		}
		items.Rows = append(items.Rows, row)
	}
	return []Sheet{summary, items}
}

type currencyTotals struct {
	billed, collected, outstanding decimal.Decimal
}

// requireReport los listados exigen reports y además la capacidad de los datos que exponen.
func (uc *ExportUseCase) requireReport(ctx context.Context, actor *entity.User, data entity.Capability) error {
	if err := uc.authz.Require(ctx, actor, entity.CapReports); err != nil {
		return err
	}
	return uc.authz.Require(ctx, actor, data)
}

func fixed(d decimal.Decimal) string { return d.Round(2).StringFixed(2) }

func (uc *ExportUseCase) workbook(ctx context.Context, prefix string, sheets []Sheet) (*ports.File, error) {
	data, err := uc.renderers.Workbook.Write(ctx, sheets)
	if err != nil {
		return nil, fmt.Errorf("export: %s: %w", prefix, err)
	}
	return &ports.File{
		Name:        prefix + "_" + uc.now().Format(dateLayout) + ".xlsx",
		ContentType: ContentTypeXLSX,
		Data:        data,
	}, nil
}

// ExportInvoices listado de facturas: hojas Summary e Invoices.
func (uc *ExportUseCase) ExportInvoices(ctx context.Context, actor *entity.User) (*ports.File, error) {
	if err := uc.requireReport(ctx, actor, entity.CapInvoices); err != nil {
		return nil, err
	}
	invoices, err := uc.repos.Invoices.List(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	byStatus := map[entity.InvoiceStatus]int{}
	totals := map[string]*currencyTotals{}
	var currencies []string
	list := Sheet{
		Name:   "Invoices",
		Header: []string{"Número", "Cliente", "Emisión", "Vencimiento", "Estado", "Moneda", "Subtotal", "Impuesto", "Descuento", "Total"},
	}
	for _, inv := range invoices {
		st := inv.EffectiveStatus(now)
		byStatus[st]++
		cur := currencyCode(inv.Currency)
		t, ok := totals[cur]
		if !ok {
			t = &currencyTotals{}
			totals[cur] = t
			currencies = append(currencies, cur)
		}
		t.billed = t.billed.Add(inv.Total)
		switch st {
		case entity.InvoiceStatusPaid:
			t.collected = t.collected.Add(inv.Total)
		case entity.InvoiceStatusSent, entity.InvoiceStatusOverdue:
			t.outstanding = t.outstanding.Add(inv.Total)
		}
		list.Rows = append(list.Rows, []string{
			inv.InvoiceNumber, inv.Client.Name, formatDate(inv.IssueDate), formatDate(inv.DueDate), string(st),
			inv.Currency, fixed(inv.Subtotal), fixed(inv.Tax), fixed(inv.Discount), fixed(inv.Total),
		})
	}
	summary := Sheet{Name: "Summary", Header: []string{"Indicador", "Valor"}, Rows: [][]string{
		{"Facturas", strconv.Itoa(len(invoices))},
		{"Borradores", strconv.Itoa(byStatus[entity.InvoiceStatusDraft])},
		{"Enviadas", strconv.Itoa(byStatus[entity.InvoiceStatusSent])},
		{"Vencidas", strconv.Itoa(byStatus[entity.InvoiceStatusOverdue])},
		{"Pagadas", strconv.Itoa(byStatus[entity.InvoiceStatusPaid])},
	}}
	// Montos en monedas distintas no se suman entre sí.
	sort.Strings(currencies)
	for _, cur := range currencies {
		t := totals[cur]
		suffix := " (" + cur + ")"
		summary.Rows = append(summary.Rows,
			[]string{"Total facturado" + suffix, fixed(t.billed)},
			[]string{"Total cobrado" + suffix, fixed(t.collected)},
			[]string{"Pendiente de cobro" + suffix, fixed(t.outstanding)},
		)
	}
	return uc.workbook(ctx, "invoices", []Sheet{summary, list})
}

// ExportAccounts cuentas y movimientos: hojas Summary, Accounts y Transactions.
func (uc *ExportUseCase) ExportAccounts(ctx context.Context, actor *entity.User) (*ports.File, error) {
	if err := uc.requireReport(ctx, actor, entity.CapBankAccounts); err != nil {
		return nil, err
	}
	accounts, err := uc.repos.Accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	txs, err := uc.repos.Transactions.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(accounts))
	balance := decimal.Zero
	accSheet := Sheet{Name: "Accounts", Header: []string{"Nombre", "Banco", "Número", "Tipo", "Moneda", "Saldo"}}
	for _, a := range accounts {
		names[a.ID] = a.Name
		balance = balance.Add(a.Balance)
		accSheet.Rows = append(accSheet.Rows, []string{a.Name, a.Bank, a.AccountNumber, a.Type, a.Currency, fixed(a.Balance)})
	}
	credits, debits := decimal.Zero, decimal.Zero
	txSheet := Sheet{Name: "Transactions", Header: []string{"Fecha", "Cuenta", "Tipo", "Monto", "Saldo posterior", "Referencia", "Descripción", "Estado"}}
	for _, t := range txs {
		if t.Kind == entity.TransactionCredit {
			credits = credits.Add(t.Amount)
		} else {
			debits = debits.Add(t.Amount)
		}
		txSheet.Rows = append(txSheet.Rows, []string{
			t.CreatedAt.UTC().Format(time.RFC3339), names[t.AccountID], t.Kind, fixed(t.Amount),
			fixed(t.BalanceAfter), t.Reference, t.Description, t.Status,
		})
	}
	summary := Sheet{Name: "Summary", Header: []string{"Indicador", "Valor"}, Rows: [][]string{
		{"Cuentas", strconv.Itoa(len(accounts))},
		{"Saldo total", fixed(balance)},
		{"Movimientos", strconv.Itoa(len(txs))},
		{"Abonos", fixed(credits)},
		{"Débitos", fixed(debits)},
	}}
	return uc.workbook(ctx, "accounts", []Sheet{summary, accSheet, txSheet})
}

// ExportUsers listado de usuarios en la hoja Users (sin hashes).
func (uc *ExportUseCase) ExportUsers(ctx context.Context, actor *entity.User) (*ports.File, error) {
	if err := uc.requireReport(ctx, actor, entity.CapUsers); err != nil {
		return nil, err
	}
	users, err := uc.repos.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	sheet := Sheet{Name: "Users", Header: []string{"Nombre", "Email", "Rol", "Permisos", "Bloqueado", "Creado"}}
	for _, u := range users {
		perms := make([]string, 0, len(u.Permissions))
		for _, p := range u.Permissions {
			perms = append(perms, string(p))
		}
		locked := "no"
		if u.Locked {
			locked = "sí"
		}
		sheet.Rows = append(sheet.Rows, []string{
			u.Name, u.Email, u.Role, strings.Join(perms, ", "), locked, u.CreatedAt.UTC().Format(dateLayout),
		})
	}
	return uc.workbook(ctx, "users", []Sheet{sheet})
}

// ExportLeaveRequests solicitudes de ausencia: hojas Summary y Leaves.
func (uc *ExportUseCase) ExportLeaveRequests(ctx context.Context, actor *entity.User) (*ports.File, error) {
	if err := uc.requireReport(ctx, actor, entity.CapHR); err != nil {
		return nil, err
	}
	leaves, err := uc.repos.Leaves.List(ctx)
	if err != nil {
		return nil, err
	}
	byStatus := map[string]int{}
	days := map[string]int{}
	sheet := Sheet{Name: "Leaves", Header: []string{"Empleado", "Email", "Tipo", "Desde", "Hasta", "Días", "Estado", "Revisó", "Motivo"}}
	for _, l := range leaves {
		byStatus[l.Status]++
		days[l.Status] += l.Days()
		sheet.Rows = append(sheet.Rows, []string{
			l.EmployeeName, l.EmployeeEmail, l.Kind, formatDate(l.StartDate), formatDate(l.EndDate),
			strconv.Itoa(l.Days()), l.Status, l.ReviewedBy, l.Reason,
		})
	}
	summary := Sheet{Name: "Summary", Header: []string{"Indicador", "Valor"}, Rows: [][]string{
		{"Solicitudes", strconv.Itoa(len(leaves))},
		{"Pendientes", strconv.Itoa(byStatus[entity.LeavePending])},
		{"Aprobadas", strconv.Itoa(byStatus[entity.LeaveApproved])},
		{"Rechazadas", strconv.Itoa(byStatus[entity.LeaveRejected])},
		{"Días aprobados", strconv.Itoa(days[entity.LeaveApproved])},
	}}
	return uc.workbook(ctx, "leave_requests", []Sheet{summary, sheet})
}
