package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/facturaloperu/facturacion-api/internal/application/dto"
	"github.com/facturaloperu/facturacion-api/internal/domain"
	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
	"github.com/facturaloperu/facturacion-api/internal/domain/repository"
	"github.com/facturaloperu/facturacion-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int // default para tipos de usuario sin política propia
	Issuer     string
}

// LockPolicy política de bloqueo por intentos fallidos.
type LockPolicy struct {
	MaxFailedAttempts int
	LockoutDuration   time.Duration
}

// AuthUseCase casos de uso de autenticación: login y bootstrap del sistema.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	lock     LockPolicy
	now      func() time.Time // inyectable en tests
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, lock LockPolicy) *AuthUseCase {
	if lock.MaxFailedAttempts <= 0 {
		lock.MaxFailedAttempts = 5
	}
	if lock.LockoutDuration <= 0 {
		lock.LockoutDuration = 30 * time.Minute
	}
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, lock: lock, now: time.Now}
}

// Login verifica email/password y emite un token con las abilities del rol y
// la vigencia del tipo de usuario, ambas fijadas en el momento de emisión.
//
// La falla de credenciales es opaca: email desconocido y password incorrecto
// devuelven el mismo ErrInvalidCredentials. Cuenta inactiva y cuenta bloqueada
// fallan de forma distinguible (el caller ya probó que conoce el password o
// el estado es previo a verificarlo).
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := uc.now()
	if user.Locked(now) {
		return nil, domain.ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.registerFailure(ctx, user, now)
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Active {
		return nil, domain.ErrAccountInactive
	}

	if user.FailedAttempts > 0 || user.LockedUntil != nil {
		user.FailedAttempts = 0
		user.LockedUntil = nil
		_ = uc.userRepo.UpdateLockState(ctx, user)
	}

	return uc.issueToken(user)
}

// registerFailure incrementa el contador de intentos y bloquea la cuenta al
// llegar al límite. El error de persistencia no se propaga: el login ya falló.
func (uc *AuthUseCase) registerFailure(ctx context.Context, user *entity.User, now time.Time) {
	user.FailedAttempts++
	if user.FailedAttempts >= uc.lock.MaxFailedAttempts {
		until := now.Add(uc.lock.LockoutDuration)
		user.LockedUntil = &until
		user.FailedAttempts = 0
	}
	_ = uc.userRepo.UpdateLockState(ctx, user)
}

// issueToken emite el JWT: abilities desde el rol, TTL desde el tipo de usuario.
func (uc *AuthUseCase) issueToken(user *entity.User) (*dto.LoginResponse, error) {
	abilities := user.Role.Abilities()
	ttl := user.UserType.TokenTTL(uc.jwtCfg.ExpMinutes)
	token, expiresAt, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, jwt.TokenInput{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Role:      string(user.Role),
		UserType:  string(user.UserType),
		Abilities: abilities,
	}, ttl)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Abilities: abilities,
		User:      *ToUserResponse(user),
	}, nil
}

// ToUserResponse mapea la entidad a su DTO de salida (sin password).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		UserType:  string(u.UserType),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
