package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// ClientUseCase casos de uso para clientes.
type ClientUseCase struct {
	clients  repository.ClientRepository
	invoices repository.InvoiceRepository
	authz    *access.Authorizer
	now      func() time.Time
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(clients repository.ClientRepository, invoices repository.InvoiceRepository, authz *access.Authorizer) *ClientUseCase {
	return &ClientUseCase{clients: clients, invoices: invoices, authz: authz, now: func() time.Time { return time.Now().UTC() }}
}

func applyClient(c *entity.Client, in dto.ClientRequest) {
	c.Name = strings.TrimSpace(in.Name)
	c.Email = strings.ToLower(strings.TrimSpace(in.Email))
	c.Phone = strings.TrimSpace(in.Phone)
	c.Address = strings.TrimSpace(in.Address)
	c.City = strings.TrimSpace(in.City)
	c.State = strings.TrimSpace(in.State)
	c.PostalCode = strings.TrimSpace(in.PostalCode)
	c.Country = strings.TrimSpace(in.Country)
	c.Company = strings.TrimSpace(in.Company)
	c.TaxID = strings.TrimSpace(in.TaxID)
}

// Create crea un nuevo cliente.
func (uc *ClientUseCase) Create(ctx context.Context, actor *entity.User, in dto.ClientRequest) (*entity.Client, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapClients); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := uc.now()
	client := &entity.Client{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	applyClient(client, in)
	if err := uc.clients.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Get obtiene un cliente por ID.
func (uc *ClientUseCase) Get(ctx context.Context, actor *entity.User, id string) (*entity.Client, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapClients); err != nil {
		return nil, err
	}
	client, err := uc.clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

// List lista todos los clientes ordenados por nombre.
func (uc *ClientUseCase) List(ctx context.Context, actor *entity.User) ([]*entity.Client, error) {
	if err := uc.authz.Require(ctx, actor, entity.CapClients); err != nil {
		return nil, err
	}
	return uc.clients.List(ctx)
}

// Update modifica el cliente salvo que la clase savedClients esté congelada.
func (uc *ClientUseCase) Update(ctx context.Context, actor *entity.User, id string, in dto.ClientRequest) (*entity.Client, error) {
	client, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authz.RequireMutable(ctx, entity.ClassSavedClients, client); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Version != 0 && in.Version != client.Version {
		return nil, domain.ErrVersionConflict
	}
	applyClient(client, in)
	client.UpdatedAt = uc.now()
	if err := uc.clients.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Delete elimina el cliente. Se rechaza con ErrInUse si alguna factura lo referencia.
func (uc *ClientUseCase) Delete(ctx context.Context, actor *entity.User, id string) error {
	client, err := uc.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := uc.authz.RequireMutable(ctx, entity.ClassSavedClients, client); err != nil {
		return err
	}
	used, err := uc.invoices.ExistsForClient(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return domain.ErrInUse
	}
	return uc.clients.Delete(ctx, id)
}
