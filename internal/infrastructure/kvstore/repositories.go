package kvstore

import (
	"context"
	"strings"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// UserRepo implementación de repository.UserRepository sobre el Store.
type UserRepo struct {
	c collection[entity.User]
}

func NewUserRepository(s *Store) *UserRepo {
	return &UserRepo{c: collection[entity.User]{
		s:       s,
		key:     keyUsers,
		id:      func(u *entity.User) string { return u.ID },
		version: func(u *entity.User) *int64 { return &u.Version },
		less:    func(a, b *entity.User) bool { return a.Email < b.Email },
	}}
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	return r.c.create(ctx, u, func(m map[string]*entity.User) error {
		for _, other := range m {
			if strings.EqualFold(other.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		return nil
	})
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.c.get(ctx, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	found, err := r.c.filter(ctx, func(u *entity.User) bool { return strings.EqualFold(u.Email, email) })
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0], nil
}

func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) { return r.c.list(ctx) }

func (r *UserRepo) Update(ctx context.Context, u *entity.User) error { return r.c.update(ctx, u) }

func (r *UserRepo) Delete(ctx context.Context, id string) error { return r.c.delete(ctx, id) }

func (r *UserRepo) CountByRole(ctx context.Context, roleID string) (int, error) {
	found, err := r.c.filter(ctx, func(u *entity.User) bool { return u.Role == roleID })
	return len(found), err
}

// RoleRepo implementación de repository.RoleRepository.
type RoleRepo struct {
	c collection[entity.Role]
}

func NewRoleRepository(s *Store) *RoleRepo {
	return &RoleRepo{c: collection[entity.Role]{
		s:       s,
		key:     keyRoles,
		id:      func(r *entity.Role) string { return r.ID },
		version: func(r *entity.Role) *int64 { return &r.Version },
	}}
}

func (r *RoleRepo) Create(ctx context.Context, role *entity.Role) error {
	return r.c.create(ctx, role, nil)
}
func (r *RoleRepo) GetByID(ctx context.Context, id string) (*entity.Role, error) {
	return r.c.get(ctx, id)
}
func (r *RoleRepo) List(ctx context.Context) ([]*entity.Role, error) { return r.c.list(ctx) }
func (r *RoleRepo) Update(ctx context.Context, role *entity.Role) error { return r.c.update(ctx, role) }
func (r *RoleRepo) Delete(ctx context.Context, id string) error { return r.c.delete(ctx, id) }

// ClientRepo implementación de repository.ClientRepository.
type ClientRepo struct {
	c collection[entity.Client]
}

func NewClientRepository(s *Store) *ClientRepo {
	return &ClientRepo{c: collection[entity.Client]{
		s:       s,
		key:     keyClients,
		id:      func(c *entity.Client) string { return c.ID },
		version: func(c *entity.Client) *int64 { return &c.Version },
		less:    func(a, b *entity.Client) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) },
	}}
}

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	return r.c.create(ctx, c, nil)
}
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	return r.c.get(ctx, id)
}
func (r *ClientRepo) List(ctx context.Context) ([]*entity.Client, error) { return r.c.list(ctx) }
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error { return r.c.update(ctx, c) }
func (r *ClientRepo) Delete(ctx context.Context, id string) error { return r.c.delete(ctx, id) }

// InvoiceRepo implementación de repository.InvoiceRepository. Las líneas viajan dentro del registro.
type InvoiceRepo struct {
	c collection[entity.Invoice]
}

func NewInvoiceRepository(s *Store) *InvoiceRepo {
	return &InvoiceRepo{c: collection[entity.Invoice]{
		s:       s,
		key:     keyInvoices,
		id:      func(i *entity.Invoice) string { return i.ID },
		version: func(i *entity.Invoice) *int64 { return &i.Version },
		less:    func(a, b *entity.Invoice) bool { return a.CreatedAt.After(b.CreatedAt) },
	}}
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	return r.c.create(ctx, inv, func(m map[string]*entity.Invoice) error {
		for _, other := range m {
			if other.InvoiceNumber == inv.InvoiceNumber {
				return domain.ErrDuplicate
			}
		}
		return nil
	})
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.c.get(ctx, id)
}
func (r *InvoiceRepo) List(ctx context.Context) ([]*entity.Invoice, error) { return r.c.list(ctx) }
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	return r.c.update(ctx, inv)
}
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error { return r.c.delete(ctx, id) }

func (r *InvoiceRepo) ExistsForClient(ctx context.Context, clientID string) (bool, error) {
	found, err := r.c.filter(ctx, func(i *entity.Invoice) bool { return i.ClientID == clientID })
	return len(found) > 0, err
}

func (r *InvoiceRepo) ListNumbers(ctx context.Context) ([]string, error) {
	all, err := r.c.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(all))
	for _, inv := range all {
		out = append(out, inv.InvoiceNumber)
	}
	return out, nil
}

// SettingsRepo singletons de configuración de congelamiento y perfil de empresa.
type SettingsRepo struct {
	freeze  *singleton[entity.FreezeSettings]
	company *singleton[entity.Company]
}

func NewSettingsRepository(s *Store) *SettingsRepo {
	return &SettingsRepo{
		freeze:  newSingleton(s, keyFreezeSettings, func(f *entity.FreezeSettings) *int64 { return &f.Version }),
		company: newSingleton(s, keyCompany, func(c *entity.Company) *int64 { return &c.Version }),
	}
}

func (r *SettingsRepo) GetFreezeSettings(ctx context.Context) (*entity.FreezeSettings, error) {
	return r.freeze.get(ctx)
}

func (r *SettingsRepo) SaveFreezeSettings(ctx context.Context, f *entity.FreezeSettings) error {
	return r.freeze.save(ctx, f)
}

func (r *SettingsRepo) GetCompany(ctx context.Context) (*entity.Company, error) {
	c, err := r.company.get(ctx)
	if err != nil {
		return nil, err
	}
	if c.ID == "" {
		c.ID = entity.CompanyProfileID
	}
	return c, nil
}

func (r *SettingsRepo) SaveCompany(ctx context.Context, c *entity.Company) error {
	c.ID = entity.CompanyProfileID
	return r.company.save(ctx, c)
}

// SecurityAlertRepo alertas de seguridad, más recientes primero.
type SecurityAlertRepo struct {
	c collection[entity.SecurityAlert]
}

func NewSecurityAlertRepository(s *Store) *SecurityAlertRepo {
	return &SecurityAlertRepo{c: collection[entity.SecurityAlert]{
		s:       s,
		key:     keyAlerts,
		id:      func(a *entity.SecurityAlert) string { return a.ID },
		version: func(a *entity.SecurityAlert) *int64 { return &a.Version },
		less:    func(a, b *entity.SecurityAlert) bool { return a.CreatedAt.After(b.CreatedAt) },
	}}
}

func (r *SecurityAlertRepo) Create(ctx context.Context, a *entity.SecurityAlert) error {
	return r.c.create(ctx, a, nil)
}

func (r *SecurityAlertRepo) List(ctx context.Context) ([]*entity.SecurityAlert, error) {
	return r.c.list(ctx)
}

func (r *SecurityAlertRepo) Acknowledge(ctx context.Context, id string) error {
	return r.c.mutate(ctx, func(m map[string]*entity.SecurityAlert) error {
		a, ok := m[id]
		if !ok {
			return domain.ErrNotFound
		}
		a.Acknowledged = true
		a.Version++
		return nil
	})
}

var (
	_ repository.UserRepository          = (*UserRepo)(nil)
	_ repository.RoleRepository          = (*RoleRepo)(nil)
	_ repository.ClientRepository        = (*ClientRepo)(nil)
	_ repository.InvoiceRepository       = (*InvoiceRepo)(nil)
	_ repository.SettingsRepository      = (*SettingsRepo)(nil)
	_ repository.SecurityAlertRepository = (*SecurityAlertRepo)(nil)
)
