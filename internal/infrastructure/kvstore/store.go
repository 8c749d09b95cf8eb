package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// maxWriteAttempts reintentos ante ErrStaleWrite antes de rendirse.
const maxWriteAttempts = 3

// Claves de colección.
const (
	keyUsers          = "users"
	keyRoles          = "roles"
	keyClients        = "clients"
	keyInvoices       = "invoices"
	keyBankAccounts   = "bank_accounts"
	keyTransactions   = "transactions"
	keyPayments       = "payments"
	keyAlerts         = "security_alerts"
	keyLeaveRequests  = "leave_requests"
	keyAnnouncements  = "announcements"
	keyFreezeSettings = "settings/freeze"
	keyCompany        = "settings/company"
)

// Store Record Store sobre un Backend clave-valor. Cada colección vive en un blob JSON (mapa id -> registro).
// Las escrituras son read-modify-write con control optimista de versión sobre el blob.
type Store struct {
	backend Backend
	// tx serializa las unidades de trabajo multi-colección frente al resto de escritores.
	tx   *sync.RWMutex
	inTx bool
	// keys serializa a los escritores del proceso por clave; el control de versión cubre a otros procesos.
	keys *sync.Map
}

// New crea un Store sobre el backend dado.
func New(backend Backend) *Store {
	return &Store{backend: backend, tx: &sync.RWMutex{}, keys: &sync.Map{}}
}

// Backend expone el backend subyacente.
func (s *Store) Backend() Backend { return s.backend }

func (s *Store) lockWrite(key string) func() {
	mu, _ := s.keys.LoadOrStore(key, &sync.Mutex{})
	km := mu.(*sync.Mutex)
	if s.inTx {
		km.Lock()
		return km.Unlock
	}
	s.tx.RLock()
	km.Lock()
	return func() {
		km.Unlock()
		s.tx.RUnlock()
	}
}

// collection acceso tipado a un blob mapa id -> *T.
type collection[T any] struct {
	s       *Store
	key     string
	id      func(*T) string
	version func(*T) *int64 // nil para colecciones append-only
	less    func(a, b *T) bool
}

func (c *collection[T]) load(ctx context.Context) (map[string]*T, int64, error) {
	raw, ver, err := c.s.backend.Load(ctx, c.key)
	if err != nil {
		return nil, 0, fmt.Errorf("kvstore: leer %s: %w", c.key, err)
	}
	m := make(map[string]*T)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, 0, fmt.Errorf("kvstore: decodificar %s: %w", c.key, err)
		}
	}
	return m, ver, nil
}

// mutate aplica fn sobre el mapa actual y lo persiste; ante ErrStaleWrite relee y reaplica.
// Errores devueltos por fn se propagan sin reintento.
func (c *collection[T]) mutate(ctx context.Context, fn func(m map[string]*T) error) error {
	unlock := c.s.lockWrite(c.key)
	defer unlock()
	for attempt := 1; ; attempt++ {
		m, ver, err := c.load(ctx)
		if err != nil {
			return err
		}
		if err := fn(m); err != nil {
			return err
		}
		raw, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("kvstore: codificar %s: %w", c.key, err)
		}
		_, err = c.s.backend.Store(ctx, c.key, raw, ver)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrStaleWrite) {
			return fmt.Errorf("kvstore: escribir %s: %w", c.key, err)
		}
		if attempt >= maxWriteAttempts {
			return domain.ErrVersionConflict
		}
	}
}

func (c *collection[T]) get(ctx context.Context, id string) (*T, error) {
	m, _, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return m[id], nil
}

func (c *collection[T]) list(ctx context.Context) ([]*T, error) {
	m, _, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c.less != nil {
			return c.less(out[i], out[j])
		}
		return c.id(out[i]) < c.id(out[j])
	})
	return out, nil
}

func (c *collection[T]) filter(ctx context.Context, keep func(*T) bool) ([]*T, error) {
	all, err := c.list(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, v := range all {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// create inserta v con versión 1. check permite validar unicidad adicional (p. ej. número de factura).
func (c *collection[T]) create(ctx context.Context, v *T, check func(m map[string]*T) error) error {
	id := c.id(v)
	if id == "" {
		return fmt.Errorf("%w: id vacío", domain.ErrInvalidInput)
	}
	err := c.mutate(ctx, func(m map[string]*T) error {
		if _, ok := m[id]; ok {
			return domain.ErrDuplicate
		}
		if check != nil {
			if err := check(m); err != nil {
				return err
			}
		}
		cp := *v
		if c.version != nil {
			*c.version(&cp) = 1
		}
		m[id] = &cp
		return nil
	})
	if err != nil {
		return err
	}
	if c.version != nil {
		*c.version(v) = 1
	}
	return nil
}

// update reemplaza el registro si su versión almacenada es la que trae v; incrementa la versión.
func (c *collection[T]) update(ctx context.Context, v *T) error {
	id := c.id(v)
	var next int64
	err := c.mutate(ctx, func(m map[string]*T) error {
		cur, ok := m[id]
		if !ok {
			return domain.ErrNotFound
		}
		if *c.version(cur) != *c.version(v) {
			return domain.ErrVersionConflict
		}
		cp := *v
		next = *c.version(cur) + 1
		*c.version(&cp) = next
		m[id] = &cp
		return nil
	})
	if err != nil {
		return err
	}
	*c.version(v) = next
	return nil
}

func (c *collection[T]) delete(ctx context.Context, id string) error {
	return c.mutate(ctx, func(m map[string]*T) error {
		if _, ok := m[id]; !ok {
			return domain.ErrNotFound
		}
		delete(m, id)
		return nil
	})
}

// singleton blob de un único objeto versionado (configuración global, perfil de empresa).
type singleton[T any] struct {
	c collection[T]
}

const singletonID = "value"

func newSingleton[T any](s *Store, key string, version func(*T) *int64) *singleton[T] {
	return &singleton[T]{c: collection[T]{s: s, key: key, id: func(*T) string { return singletonID }, version: version}}
}

// get devuelve el valor almacenado o un T cero (versión 0) si nunca se guardó.
func (g *singleton[T]) get(ctx context.Context) (*T, error) {
	v, err := g.c.get(ctx, singletonID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		v = new(T)
	}
	return v, nil
}

// save escribe v si su versión coincide con la almacenada (0 si nunca se guardó).
func (g *singleton[T]) save(ctx context.Context, v *T) error {
	var next int64
	err := g.c.mutate(ctx, func(m map[string]*T) error {
		var curVer int64
		if cur, ok := m[singletonID]; ok {
			curVer = *g.c.version(cur)
		}
		if curVer != *g.c.version(v) {
			return domain.ErrVersionConflict
		}
		cp := *v
		next = curVer + 1
		*g.c.version(&cp) = next
		m[singletonID] = &cp
		return nil
	})
	if err != nil {
		return err
	}
	*g.c.version(v) = next
	return nil
}

// Repositories construye todos los repositorios sobre este Store.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:         NewUserRepository(s),
		Roles:         NewRoleRepository(s),
		Clients:       NewClientRepository(s),
		Invoices:      NewInvoiceRepository(s),
		Settings:      NewSettingsRepository(s),
		Accounts:      NewBankAccountRepository(s),
		Transactions:  NewTransactionRepository(s),
		Payments:      NewPaymentRepository(s),
		Alerts:        NewSecurityAlertRepository(s),
		Leaves:        NewLeaveRequestRepository(s),
		Announcements: NewAnnouncementRepository(s),
		Tx:            NewTxRunner(s),
	}
}
