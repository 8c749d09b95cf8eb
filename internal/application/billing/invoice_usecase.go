package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/ports"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/invoicing"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

const (
	dateLayout      = "2006-01-02"
	defaultTermDays = 30
	// numberAttempts reintentos ante un consecutivo tomado por otra escritura concurrente.
	numberAttempts = 3
)

// InvoiceUseCase orquesta el ciclo de vida de la factura: derivación, consecutivo, estados y envío.
type InvoiceUseCase struct {
	invoices repository.InvoiceRepository
	clients  repository.ClientRepository
	authz    *access.Authorizer
	mailer   ports.Mailer
	exporter InvoiceExporter
	log      *logger.Logger
	now      func() time.Time
}

// NewInvoiceUseCase construye el caso de uso. exporter puede asignarse después con WithExporter
// (el caso de uso de reportes depende a su vez de los repositorios de facturación).
func NewInvoiceUseCase(
	invoices repository.InvoiceRepository,
	clients repository.ClientRepository,
	authz *access.Authorizer,
	mailer ports.Mailer,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		invoices: invoices,
		clients:  clients,
		authz:    authz,
		mailer:   mailer,
		log:      log.Component("billing"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithExporter fija el generador del PDF que se adjunta al enviar.
func (uc *InvoiceUseCase) WithExporter(exporter InvoiceExporter) *InvoiceUseCase {
	uc.exporter = exporter
	return uc
}

// WithClock reemplaza el reloj (tests).
func (uc *InvoiceUseCase) WithClock(now func() time.Time) *InvoiceUseCase {
	uc.now = now
	return uc
}

func (uc *InvoiceUseCase) response(inv *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{Invoice: inv, EffectiveStatus: inv.EffectiveStatus(uc.now())}
}

// buildItems convierte las líneas del request conservando los IDs existentes.
func buildItems(in []dto.InvoiceItemRequest) []entity.InvoiceItem {
	items := make([]entity.InvoiceItem, 0, len(in))
	for _, it := range in {
		id := it.ID
		if id == "" {
			id = uuid.New().String()
		}
		items = append(items, entity.InvoiceItem{
			ID:          id,
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			BuyingPrice: it.BuyingPrice,
		})
	}
	return items
}

// mergeValidation junta los errores por campo de varias validaciones en uno solo.
func mergeValidation(errs ...error) error {
	out := domain.NewValidationError()
	for _, err := range errs {
		if err == nil {
			continue
		}
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		for k, msg := range verr.Fields {
			out.Add(k, msg)
		}
	}
	return out.OrNil()
}

// parseDates aplica los valores por defecto: emisión hoy, vencimiento a 30 días.
func (uc *InvoiceUseCase) parseDates(issue, due string, v *domain.ValidationError) (time.Time, time.Time) {
	issueDate := uc.now().Truncate(24 * time.Hour)
	if issue != "" {
		t, err := time.Parse(dateLayout, issue)
		if err != nil {
			v.Add("issue_date", "fecha inválida, formato "+dateLayout)
		} else {
			issueDate = t
		}
	}
	dueDate := issueDate.AddDate(0, 0, defaultTermDays)
	if due != "" {
		t, err := time.Parse(dateLayout, due)
		if err != nil {
			v.Add("due_date", "fecha inválida, formato "+dateLayout)
		} else {
			dueDate = t
		}
	}
	if dueDate.Before(issueDate) {
		v.Add("due_date", "el vencimiento no puede ser anterior a la emisión")
	}
	return issueDate, dueDate
}

func normalizeCurrency(code string, v *domain.ValidationError) string {
	if code == "" {
		return entity.DefaultCurrency
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		v.Add("currency", "moneda ISO 4217 desconocida")
		return code
	}
	return unit.String()
}

// fill valida el request y vuelca sus datos sobre la factura, recalculando los totales.
func (uc *InvoiceUseCase) fill(ctx context.Context, inv *entity.Invoice, in dto.InvoiceRequest) error {
	if err := dto.Validate(in); err != nil {
		return err
	}
	items := buildItems(in.Items)
	extra := domain.NewValidationError()
	issue, due := uc.parseDates(in.IssueDate, in.DueDate, extra)
	cur := normalizeCurrency(in.Currency, extra)

	client, err := uc.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return err
	}
	if client == nil {
		extra.Add("client_id", "el cliente no existe")
	}
	if err := mergeValidation(invoicing.ValidateItems(items), invoicing.ValidateDiscount(in.Discount), extra.OrNil()); err != nil {
		return err
	}

	inv.ClientID = client.ID
	inv.Client = client.Snapshot()
	inv.IssueDate = issue
	inv.DueDate = due
	inv.Items = items
	inv.TaxRate = in.TaxRate
	inv.Discount = in.Discount
	inv.Currency = cur
	inv.Notes = strings.TrimSpace(in.Notes)
	if in.FieldMask != nil {
		inv.FieldMask = *in.FieldMask
	} else if inv.FieldMask.IsZero() {
		inv.FieldMask = entity.DefaultFieldMask()
	}
	invoicing.Apply(inv)
	return nil
}

// Preview recalcula los totales sin escribir nada.
func (uc *InvoiceUseCase) Preview(_ context.Context, in dto.PreviewRequest) (*dto.PreviewResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	items := buildItems(in.Items)
	if err := mergeValidation(invoicing.ValidateItems(items), invoicing.ValidateDiscount(in.Discount)); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Amount = invoicing.Amount(items[i]).Round(2)
	}
	rate := invoicing.ClampTaxRate(in.TaxRate)
	t := invoicing.Derive(items, rate, in.Discount).Rounded()
	return &dto.PreviewResponse{
		Items:            items,
		TaxRate:          rate,
		Subtotal:         t.Subtotal,
		Tax:              t.Tax,
		Discount:         in.Discount.Round(2),
		BuyingTotal:      t.BuyingTotal,
		Profit:           t.Profit,
		Total:            t.Total,
		ProfitIncomplete: t.ProfitIncomplete,
	}, nil
}

// Create registra una factura en borrador con el siguiente consecutivo disponible.
func (uc *InvoiceUseCase) Create(ctx context.Context, actor *entity.User, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapInvoices); err != nil {
		return nil, err
	}
	now := uc.now()
	inv := &entity.Invoice{
		ID:        uuid.New().String(),
		Status:    entity.InvoiceStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.fill(ctx, inv, in); err != nil {
		return nil, err
	}

	// ── Consecutivo: se recalcula si otra escritura tomó el mismo número ───
	for attempt := 1; ; attempt++ {
		numbers, err := uc.invoices.ListNumbers(ctx)
		if err != nil {
			return nil, fmt.Errorf("billing: listar consecutivos: %w", err)
		}
		inv.InvoiceNumber = invoicing.NextInvoiceNumber(numbers)
		err = uc.invoices.Create(ctx, inv)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicate) || attempt == numberAttempts {
			return nil, err
		}
	}
	uc.log.Info().Str("invoice", inv.InvoiceNumber).Str("actor", actor.Email).Msg("factura creada")
	return uc.response(inv), nil
}

// NextNumber consecutivo que tomaría la próxima factura. Es orientativo: Create lo recalcula al guardar.
func (uc *InvoiceUseCase) NextNumber(ctx context.Context, actor *entity.User) (string, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapInvoices); err != nil {
		return "", err
	}
	numbers, err := uc.invoices.ListNumbers(ctx)
	if err != nil {
		return "", fmt.Errorf("billing: listar consecutivos: %w", err)
	}
	return invoicing.NextInvoiceNumber(numbers), nil
}

func (uc *InvoiceUseCase) load(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// Get devuelve la factura con su estado efectivo.
func (uc *InvoiceUseCase) Get(ctx context.Context, actor *entity.User, id string) (*dto.InvoiceResponse, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapInvoices); err != nil {
		return nil, err
	}
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.response(inv), nil
}

// List lista las facturas; status vacío devuelve todas. El filtro usa el estado efectivo (overdue incluido).
func (uc *InvoiceUseCase) List(ctx context.Context, actor *entity.User, status string) ([]*dto.InvoiceResponse, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapInvoices); err != nil {
		return nil, err
	}
	invoices, err := uc.invoices.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		r := uc.response(inv)
		if status != "" && string(r.EffectiveStatus) != status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// mutable carga la factura y verifica permiso y congelamiento antes de cualquier escritura.
func (uc *InvoiceUseCase) mutable(ctx context.Context, actor *entity.User, id string) (*entity.Invoice, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapInvoices); err != nil {
		return nil, err
	}
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authz.RequireMutable(ctx, entity.ClassPaidInvoices, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Update reemplaza cabecera y líneas y recalcula los totales. Número y estado no cambian.
func (uc *InvoiceUseCase) Update(ctx context.Context, actor *entity.User, id string, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.mutable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Version != 0 && in.Version != inv.Version {
		return nil, domain.ErrVersionConflict
	}
	if err := uc.fill(ctx, inv, in); err != nil {
		return nil, err
	}
	inv.UpdatedAt = uc.now()
	if err := uc.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return uc.response(inv), nil
}

// Delete elimina la factura.
func (uc *InvoiceUseCase) Delete(ctx context.Context, actor *entity.User, id string) error {
	if _, err := uc.mutable(ctx, actor, id); err != nil {
		return err
	}
	return uc.invoices.Delete(ctx, id)
}

// MarkPaid pasa la factura a pagada (desde borrador o enviada).
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, actor *entity.User, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.mutable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := invoicing.Transition(inv.Status, entity.InvoiceStatusPaid); err != nil {
		return nil, err
	}
	now := uc.now()
	inv.Status = entity.InvoiceStatusPaid
	inv.PaidAt = &now
	inv.UpdatedAt = now
	if err := uc.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return uc.response(inv), nil
}

// Send marca la factura como enviada y la despacha por correo con el PDF adjunto.
// Si el envío falla el estado vuelve a borrador y se devuelve el error (sin reintento).
func (uc *InvoiceUseCase) Send(ctx context.Context, actor *entity.User, id string, in dto.SendInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	inv, err := uc.mutable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := invoicing.Transition(inv.Status, entity.InvoiceStatusSent); err != nil {
		return nil, err
	}
	to := in.To
	if to == "" {
		to = inv.Client.Email
	}
	if to == "" {
		v := domain.NewValidationError()
		v.Add("to", "el cliente no tiene email, indique el destinatario")
		return nil, v
	}

	// ── 1. Persistir el estado enviado ───
	prevStatus, prevUpdated := inv.Status, inv.UpdatedAt
	now := uc.now()
	inv.Status = entity.InvoiceStatusSent
	inv.SentAt = &now
	inv.UpdatedAt = now
	if err := uc.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}

	// ── 2. Generar y enviar; si falla, revertir ───
	if err := uc.deliver(ctx, actor, inv, to); err != nil {
		inv.Status = prevStatus
		inv.SentAt = nil
		inv.UpdatedAt = prevUpdated
		if rerr := uc.invoices.Update(ctx, inv); rerr != nil {
			uc.log.Error().Err(rerr).Str("invoice", inv.InvoiceNumber).Msg("no se pudo revertir el estado tras fallo de envío")
		}
		uc.log.Warn().Err(err).Str("invoice", inv.InvoiceNumber).Str("to", to).Msg("envío de factura fallido")
		return nil, fmt.Errorf("billing: enviar %s: %w", inv.InvoiceNumber, err)
	}
	uc.log.Info().Str("invoice", inv.InvoiceNumber).Str("to", to).Msg("factura enviada")
	return uc.response(inv), nil
}

func (uc *InvoiceUseCase) deliver(ctx context.Context, actor *entity.User, inv *entity.Invoice, to string) error {
	msg := ports.Message{
		To:      to,
		Subject: "Factura " + inv.InvoiceNumber,
		Body: fmt.Sprintf("Adjuntamos la factura %s por %s %s, con vencimiento el %s.",
			inv.InvoiceNumber, inv.Total.StringFixed(2), inv.Currency, inv.DueDate.Format(dateLayout)),
	}
	if uc.exporter != nil {
		file, err := uc.exporter.ExportInvoice(ctx, actor, inv.ID, nil, "pdf")
		if err != nil {
			return fmt.Errorf("generar pdf: %w", err)
		}
		msg.Attachments = append(msg.Attachments, ports.Attachment{Filename: file.Name, ContentType: file.ContentType, Data: file.Data})
	}
	return uc.mailer.Send(ctx, msg)
}
