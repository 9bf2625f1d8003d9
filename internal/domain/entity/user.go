package entity

import "time"

// UserType clasifica al usuario para la política de vigencia de tokens.
type UserType string

const (
	UserTypeSystem    UserType = "system"     // integraciones internas de plataforma
	UserTypeUser      UserType = "user"       // usuario humano
	UserTypeAPIClient UserType = "api_client" // integración de terceros
)

// Valid indica si el tipo pertenece al conjunto conocido.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeSystem, UserTypeUser, UserTypeAPIClient:
		return true
	}
	return false
}

// TokenTTL devuelve la vigencia del token según el tipo de usuario:
// system 7 días, api_client 24 h, user 12 h; cualquier otro usa el default
// configurado (minutos). La vigencia queda fijada al emitir el token.
func (t UserType) TokenTTL(defaultMinutes int) time.Duration {
	switch t {
	case UserTypeSystem:
		return 7 * 24 * time.Hour
	case UserTypeAPIClient:
		return 24 * time.Hour
	case UserTypeUser:
		return 12 * time.Hour
	}
	return time.Duration(defaultMinutes) * time.Minute
}

// User representa un usuario del sistema. CompanyID vacío solo es válido para
// super_admin (no pertenece a ningún tenant).
type User struct {
	ID             string
	CompanyID      string
	Email          string
	PasswordHash   string
	Name           string
	Role           Role
	UserType       UserType
	Active         bool
	FailedAttempts int
	LockedUntil    *time.Time // nil = no bloqueado
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Locked indica si la cuenta está bloqueada en el instante dado.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}
