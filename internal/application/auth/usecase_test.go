package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/facturaloperu/facturacion-api/internal/application/dto"
	"github.com/facturaloperu/facturacion-api/internal/domain"
	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake del repositorio de usuarios (en memoria, indexado por email)
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	byEmail   map[string]*entity.User
	created   []*entity.User
	createErr error // si está seteado, Create falla con este error
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{byEmail: make(map[string]*entity.User)}
	for _, u := range users {
		r.byEmail[u.Email] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.byEmail[u.Email] = u
	r.created = append(r.created, u)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.byEmail[email], nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeUserRepo) UpdateLockState(_ context.Context, u *entity.User) error {
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeUserRepo) ListByCompany(_ context.Context, _ string, _, _ int) ([]*entity.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, _ string) error { return nil }

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byEmail)), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const testPassword = "correcto-horse-bateria"

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func activeUser(t *testing.T, email string, role entity.Role, userType entity.UserType) *entity.User {
	t.Helper()
	return &entity.User{
		ID:           "00000000-0000-0000-0000-000000000010",
		CompanyID:    "00000000-0000-0000-0000-00000000000a",
		Email:        email,
		PasswordHash: hashOf(t, testPassword),
		Name:         "Usuario de Prueba",
		Role:         role,
		UserType:     userType,
		Active:       true,
	}
}

func newTestUseCase(repo *fakeUserRepo, now time.Time) *AuthUseCase {
	uc := NewAuthUseCase(repo, JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		ExpMinutes: 60,
		Issuer:     "facturacion-api-test",
	}, LockPolicy{
		MaxFailedAttempts: 3,
		LockoutDuration:   30 * time.Minute,
	})
	uc.now = func() time.Time { return now }
	return uc
}

// ──────────────────────────────────────────────────────────────────────────────
// Login — credenciales
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesValidas(t *testing.T) {
	user := activeUser(t, "emisor@acme.pe", entity.RoleEmisor, entity.UserTypeUser)
	uc := newTestUseCase(newFakeUserRepo(user), time.Now())

	resp, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "emisor@acme.pe",
		Password: testPassword,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "emisor@acme.pe", resp.User.Email)
	assert.ElementsMatch(t, entity.RoleEmisor.Abilities(), resp.Abilities,
		"las abilities del token salen del rol al momento de emisión")
}

// Email desconocido y password incorrecto deben fallar con el mismo error:
// la respuesta no revela cuál de los dos falló.
func TestLogin_FallaOpaca(t *testing.T) {
	user := activeUser(t, "emisor@acme.pe", entity.RoleEmisor, entity.UserTypeUser)
	uc := newTestUseCase(newFakeUserRepo(user), time.Now())

	_, errEmailDesconocido := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "nadie@acme.pe",
		Password: testPassword,
	})
	_, errPasswordIncorrecto := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "emisor@acme.pe",
		Password: "password-equivocado",
	})

	assert.ErrorIs(t, errEmailDesconocido, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errPasswordIncorrecto, domain.ErrInvalidCredentials)
}

// Cuenta inactiva con password correcto falla de forma distinguible.
func TestLogin_CuentaInactiva(t *testing.T) {
	user := activeUser(t, "baja@acme.pe", entity.RoleEmisor, entity.UserTypeUser)
	user.Active = false
	uc := newTestUseCase(newFakeUserRepo(user), time.Now())

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "baja@acme.pe",
		Password: testPassword,
	})
	assert.ErrorIs(t, err, domain.ErrAccountInactive)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login — bloqueo por intentos fallidos
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_BloqueoTrasIntentosFallidos(t *testing.T) {
	user := activeUser(t, "emisor@acme.pe", entity.RoleEmisor, entity.UserTypeUser)
	repo := newFakeUserRepo(user)
	now := time.Now()
	uc := newTestUseCase(repo, now)

	// Tres intentos fallidos (MaxFailedAttempts del test) bloquean la cuenta.
	for i := 0; i < 3; i++ {
		_, err := uc.Login(context.Background(), dto.LoginRequest{
			Email:    "emisor@acme.pe",
			Password: "password-equivocado",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}
	require.NotNil(t, user.LockedUntil, "al tercer fallo la cuenta queda bloqueada")
	assert.Equal(t, 0, user.FailedAttempts, "el contador se reinicia al bloquear")

	// Con la cuenta bloqueada, incluso el password correcto falla con
	// ErrAccountLocked (distinguible: 423, no 401).
	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "emisor@acme.pe",
		Password: testPassword,
	})
	assert.ErrorIs(t, err, domain.ErrAccountLocked)
}

func TestLogin_BloqueoExpiraYReingresa(t *testing.T) {
	user := activeUser(t, "emisor@acme.pe", entity.RoleEmisor, entity.UserTypeUser)
	until := time.Now().Add(-time.Minute) // bloqueo ya vencido
	user.LockedUntil = &until
	uc := newTestUseCase(newFakeUserRepo(user), time.Now())

	resp, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "emisor@acme.pe",
		Password: testPassword,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Nil(t, user.LockedUntil, "el login exitoso limpia el estado de bloqueo")
}

func TestLogin_ExitoReiniciaContador(t *testing.T) {
	user := activeUser(t, "emisor@acme.pe", entity.RoleEmisor, entity.UserTypeUser)
	user.FailedAttempts = 2
	uc := newTestUseCase(newFakeUserRepo(user), time.Now())

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "emisor@acme.pe",
		Password: testPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, user.FailedAttempts)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login — vigencia del token según tipo de usuario
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_VigenciaPorTipoDeUsuario(t *testing.T) {
	cases := []struct {
		userType entity.UserType
		ttl      time.Duration
	}{
		{entity.UserTypeSystem, 7 * 24 * time.Hour},
		{entity.UserTypeAPIClient, 24 * time.Hour},
		{entity.UserTypeUser, 12 * time.Hour},
	}
	for _, tc := range cases {
		t.Run(string(tc.userType), func(t *testing.T) {
			user := activeUser(t, "u@acme.pe", entity.RoleEmisor, tc.userType)
			uc := newTestUseCase(newFakeUserRepo(user), time.Now())

			resp, err := uc.Login(context.Background(), dto.LoginRequest{
				Email:    "u@acme.pe",
				Password: testPassword,
			})
			require.NoError(t, err)
			assert.WithinDuration(t, time.Now().Add(tc.ttl), resp.ExpiresAt, 5*time.Second,
				"la vigencia depende del tipo de usuario, no del rol")
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// InitializeSystem — bootstrap exactamente una vez
// ──────────────────────────────────────────────────────────────────────────────

func TestInitializeSystem_PrimeraVezCreaSuperAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestUseCase(repo, time.Now())

	resp, err := uc.InitializeSystem(context.Background(), dto.InitSystemRequest{
		Email:    "root@plataforma.pe",
		Password: "password-largo-seguro",
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)

	created := repo.created[0]
	assert.Equal(t, entity.RoleSuperAdmin, created.Role)
	assert.Equal(t, entity.UserTypeSystem, created.UserType)
	assert.Empty(t, created.CompanyID, "super_admin no pertenece a ningún tenant")
	assert.True(t, created.Active)
	assert.NotEqual(t, "password-largo-seguro", created.PasswordHash)

	assert.Equal(t, []string{entity.AbilityAll}, resp.Abilities)
	assert.NotEmpty(t, resp.Token)
}

func TestInitializeSystem_SegundaVezFalla(t *testing.T) {
	existing := activeUser(t, "alguien@acme.pe", entity.RoleAdmin, entity.UserTypeUser)
	uc := newTestUseCase(newFakeUserRepo(existing), time.Now())

	_, err := uc.InitializeSystem(context.Background(), dto.InitSystemRequest{
		Email:    "root@plataforma.pe",
		Password: "password-largo-seguro",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyInitialized,
		"con un usuario existente el bootstrap se cierra para siempre")
	assert.Nil(t, uc.userRepo.(*fakeUserRepo).created)
}

// Dos inicializaciones concurrentes pueden observar ambas count 0; la que
// pierde la carrera choca con el índice único del super_admin y debe salir
// como ALREADY_INITIALIZED, no como un conflicto de email.
func TestInitializeSystem_CarreraDeInsercionEsAlreadyInitialized(t *testing.T) {
	repo := newFakeUserRepo() // count 0: el gate pasa
	repo.createErr = domain.ErrDuplicate
	uc := newTestUseCase(repo, time.Now())

	_, err := uc.InitializeSystem(context.Background(), dto.InitSystemRequest{
		Email:    "root@plataforma.pe",
		Password: "password-largo-seguro",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyInitialized)
}

func TestInitializeSystem_NombreVacioUsaEmail(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestUseCase(repo, time.Now())

	_, err := uc.InitializeSystem(context.Background(), dto.InitSystemRequest{
		Email:    "root@plataforma.pe",
		Password: "password-largo-seguro",
	})
	require.NoError(t, err)
	assert.Equal(t, "root@plataforma.pe", repo.created[0].Name)
}
