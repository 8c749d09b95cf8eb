package auth

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/pkg/jwt"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// DefaultRoute ruta en la que se registra la presencia al iniciar sesión.
const DefaultRoute = "/dashboard"

// LockStripes cantidad fija de locks de login. Varios emails comparten lock; la memoria no crece con el tráfico.
const LockStripes = 64

// Config parámetros de sesión y tokens.
type Config struct {
	JWTSecret     string
	Issuer        string
	SessionTTL    time.Duration // sesiones no admin
	AdminTokenTTL time.Duration // 0 = token admin sin expiración
	MaxAttempts   int
}

// AuthUseCase casos de uso de identidad: registro, login, logout y resolución de sesión.
type AuthUseCase struct {
	users    repository.UserRepository
	alerts   repository.SecurityAlertRepository
	authz    *access.Authorizer
	sessions SessionStore
	presence Presence
	cfg      Config
	log      *logger.Logger
	now      func() time.Time

	// attempts serializa los logins por email: mientras se tiene el lock el actor está en estado Authenticating.
	attempts [LockStripes]sync.Mutex
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	users repository.UserRepository,
	alerts repository.SecurityAlertRepository,
	authz *access.Authorizer,
	sessions SessionStore,
	presence Presence,
	cfg Config,
	log *logger.Logger,
) *AuthUseCase {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 7
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	return &AuthUseCase{
		users:    users,
		alerts:   alerts,
		authz:    authz,
		sessions: sessions,
		presence: presence,
		cfg:      cfg,
		log:      log.Component("auth"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *AuthUseCase) WithClock(now func() time.Time) *AuthUseCase {
	uc.now = now
	return uc
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword aplica bcrypt con el costo por defecto.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Register crea un actor con rol user y permiso dashboard. ErrEmailAlreadyExists si el email existe.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)
	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         entity.RoleUser,
		Permissions:  []entity.Capability{entity.CapDashboard},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("email", email).Msg("actor registrado")
	return dto.NewUserResponse(user), nil
}

// LockStripe índice del lock que corresponde al email normalizado.
func LockStripe(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32() % LockStripes)
}

func (uc *AuthUseCase) emailLock(email string) *sync.Mutex {
	return &uc.attempts[LockStripe(email)]
}

// Login verifica credenciales, aplica el bloqueo por intentos y abre la sesión.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)
	mu := uc.emailLock(email)
	mu.Lock()
	defer mu.Unlock()
	uc.log.Debug().Str("email", email).Str("state", string(entity.SessionAuthenticating)).Msg("login")

	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Locked {
		return nil, domain.ErrAccountLocked
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, uc.registerFailure(ctx, user)
	}

	now := uc.now()
	user.FailedAttempts = 0
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("auth: actualizar actor: %w", err)
	}

	session := &entity.Session{
		ID:      uuid.New().String(),
		UserID:  user.ID,
		Email:   user.Email,
		Role:    user.Role,
		LoginAt: now,
	}
	tokenTTL := uc.cfg.AdminTokenTTL
	if !user.IsAdmin() {
		exp := now.Add(uc.cfg.SessionTTL)
		session.ExpiresAt = &exp
		tokenTTL = uc.cfg.SessionTTL
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("auth: guardar sesión: %w", err)
	}
	token, err := jwt.Generate(uc.cfg.JWTSecret, user.ID, session.ID, user.Role, uc.cfg.Issuer, tokenTTL)
	if err != nil {
		_ = uc.sessions.Delete(ctx, session.ID)
		return nil, err
	}
	perms, err := uc.authz.Permissions(ctx, user)
	if err != nil {
		return nil, err
	}
	uc.presence.Join(DefaultRoute, Member{UserID: user.ID, Email: user.Email, Name: user.Name, Route: DefaultRoute, LastSeen: now})
	uc.log.Info().Str("user_id", user.ID).Str("session_id", session.ID).Str("state", string(entity.SessionLoggedIn)).Msg("login exitoso")

	return &dto.LoginResponse{
		Token:       token,
		User:        *dto.NewUserResponse(user),
		Session:     sessionResponse(session),
		Permissions: dto.CapabilityStrings(perms),
	}, nil
}

// registerFailure cuenta el intento fallido; al llegar al máximo bloquea la cuenta y emite una alerta.
func (uc *AuthUseCase) registerFailure(ctx context.Context, user *entity.User) error {
	now := uc.now()
	user.FailedAttempts++
	user.UpdatedAt = now
	lockedNow := user.FailedAttempts >= uc.cfg.MaxAttempts
	if lockedNow {
		user.Locked = true
	}
	if err := uc.users.Update(ctx, user); err != nil {
		return fmt.Errorf("auth: registrar intento fallido: %w", err)
	}
	if !lockedNow {
		uc.log.Info().Str("email", user.Email).Int("failed_attempts", user.FailedAttempts).Msg("credenciales inválidas")
		return domain.ErrUnauthorized
	}

	alert := &entity.SecurityAlert{
		ID:         uuid.New().String(),
		Kind:       entity.AlertAccountLocked,
		ActorEmail: user.Email,
		Message:    fmt.Sprintf("Cuenta %s bloqueada tras %d intentos fallidos", user.Email, user.FailedAttempts),
		CreatedAt:  now,
	}
	if err := uc.alerts.Create(ctx, alert); err != nil {
		uc.log.Error().Err(err).Str("email", user.Email).Msg("no se pudo registrar la alerta de bloqueo")
	}
	uc.log.Warn().Str("email", user.Email).Int("failed_attempts", user.FailedAttempts).Msg("cuenta bloqueada")
	return domain.ErrAccountLocked
}

// Logout cierra la sesión y saca al actor de la presencia. Idempotente.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID string) error {
	s, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if s == nil {
		return nil
	}
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	uc.leaveIfLast(ctx, s.UserID)
	uc.log.Info().Str("user_id", s.UserID).Str("session_id", s.ID).Str("state", string(entity.SessionLoggedOut)).Msg("logout")
	return nil
}

// leaveIfLast saca al actor de la presencia solo si ya no le quedan sesiones abiertas.
func (uc *AuthUseCase) leaveIfLast(ctx context.Context, userID string) {
	n, err := uc.sessions.CountByUser(ctx, userID)
	if err != nil {
		uc.log.Error().Err(err).Str("user_id", userID).Msg("contar sesiones abiertas")
		return
	}
	if n == 0 {
		uc.presence.Leave(userID)
	}
}

// Resolve valida la sesión en cada request y devuelve el actor releído del store.
// Sesión vencida: se fuerza logout y se devuelve ErrSessionExpired.
func (uc *AuthUseCase) Resolve(ctx context.Context, sessionID string) (*entity.Session, *entity.User, error) {
	s, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if s == nil {
		return nil, nil, domain.ErrUnauthorized
	}
	if s.Expired(uc.now()) {
		if err := uc.Logout(ctx, sessionID); err != nil {
			return nil, nil, err
		}
		return nil, nil, domain.ErrSessionExpired
	}
	user, err := uc.users.GetByID(ctx, s.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		_ = uc.Logout(ctx, sessionID)
		return nil, nil, domain.ErrUnauthorized
	}
	if user.Locked {
		_ = uc.Logout(ctx, sessionID)
		return nil, nil, domain.ErrAccountLocked
	}
	return s, user, nil
}

// Me arma la salida de GET /api/me con los permisos efectivos del momento.
func (uc *AuthUseCase) Me(ctx context.Context, s *entity.Session, user *entity.User) (*dto.MeResponse, error) {
	perms, err := uc.authz.Permissions(ctx, user)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{
		User:        *dto.NewUserResponse(user),
		Session:     sessionResponse(s),
		Permissions: dto.CapabilityStrings(perms),
	}, nil
}

// Unlock limpia el contador de intentos y el bloqueo del actor.
func (uc *AuthUseCase) Unlock(ctx context.Context, email string) (*dto.UserResponse, error) {
	user, err := uc.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	user.Locked = false
	user.FailedAttempts = 0
	user.UpdatedAt = uc.now()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("email", user.Email).Msg("cuenta desbloqueada")
	return dto.NewUserResponse(user), nil
}

// Heartbeat registra al actor en la ruta indicada.
func (uc *AuthUseCase) Heartbeat(user *entity.User, route string) {
	uc.presence.Join(route, Member{UserID: user.ID, Email: user.Email, Name: user.Name, Route: route, LastSeen: uc.now()})
}

// Online actores vistos recientemente en la ruta.
func (uc *AuthUseCase) Online(route string) []dto.PresenceEntry {
	members := uc.presence.Online(route, uc.now())
	out := make([]dto.PresenceEntry, 0, len(members))
	for _, m := range members {
		out = append(out, dto.PresenceEntry{UserID: m.UserID, Email: m.Email, Name: m.Name, Route: m.Route, LastSeen: m.LastSeen})
	}
	return out
}

func sessionResponse(s *entity.Session) dto.SessionResponse {
	return dto.SessionResponse{ID: s.ID, LoginAt: s.LoginAt, ExpiresAt: s.ExpiresAt}
}
