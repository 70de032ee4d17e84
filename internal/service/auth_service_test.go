package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/andressep95/hr-service/internal/config"
	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/pkg/blacklist"
	"github.com/andressep95/hr-service/pkg/broker"
	"github.com/andressep95/hr-service/pkg/jwt"
)

var (
	keyOnce sync.Once
	testKey *rsa.PrivateKey
)

func signingKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()

	keyOnce.Do(func() {
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		testKey = k
	})
	return testKey
}

type authFixture struct {
	st     *store
	svc    *AuthService
	tokens *jwt.TokenService
	bl     *blacklist.TokenBlacklist
	events *eventLog
	hasher *countingHasher
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	key := signingKey(t)
	tokens := jwt.NewTokenServiceWithKeys(key, &key.PublicKey, time.Hour, "hr-service")
	bl := blacklist.NewTokenBlacklist(rdb)
	events := &eventLog{}
	st := newStore()
	hasher := &countingHasher{}

	svc := NewAuthService(
		adminRepo{st}, companyRepo{st}, employeeRepo{st}, sessionRepo{st},
		tokens, bl, hasher, events,
		config.AuthConfig{MaxFailedLogins: 3, LockDuration: 15 * time.Minute},
	)

	return &authFixture{st: st, svc: svc, tokens: tokens, bl: bl, events: events, hasher: hasher}
}

func (f *authFixture) addCompany(t *testing.T) *domain.Company {
	t.Helper()

	c := &domain.Company{
		ID:           uuid.New(),
		Name:         "Acme",
		Slug:         "acme",
		Email:        "hr@acme.test",
		PasswordHash: "hashed:company-pass",
		Status:       domain.CompanyStatusActive,
	}
	require.NoError(t, companyRepo{f.st}.Create(context.Background(), c))
	return c
}

func (f *authFixture) addEmployee(t *testing.T, companyID uuid.UUID) *domain.Employee {
	t.Helper()

	e := &domain.Employee{
		ID:           uuid.New(),
		CompanyID:    companyID,
		Email:        "jane@acme.test",
		PasswordHash: "hashed:employee-pass",
		FirstName:    "Jane",
		LastName:     "Doe",
		Department:   "Finance",
		Status:       domain.EmployeeStatusActive,
	}
	require.NoError(t, employeeRepo{f.st}.Create(context.Background(), e))
	return e
}

func TestAuthService_LoginCompany(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)
	company := f.addCompany(t)

	res, err := f.svc.Login(ctx, domain.ActorCompany, LoginRequest{Email: " hr@acme.test ", Password: "company-pass"}, ClientMeta{UserAgent: "test", IP: "10.0.0.1"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.Equal(t, company.ID.String(), res.Profile.ID)
	require.Equal(t, "company", res.Profile.Role)

	claims, err := f.tokens.ValidateToken(res.Token)
	require.NoError(t, err)
	require.Equal(t, domain.ActorCompany, claims.ActorClass)
	require.Equal(t, company.ID, claims.CompanyID)

	sess, err := sessionRepo{f.st}.GetByID(ctx, claims.SessionID)
	require.NoError(t, err)
	require.Equal(t, hashToken(res.Token), sess.TokenHash)
	require.Equal(t, "10.0.0.1", sess.IPAddress)

	require.Equal(t, []string{broker.EventLogin}, f.events.types())
	require.Equal(t, 1, f.st.lastLogins)
}

func TestAuthService_LoginRejections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)
	company := f.addCompany(t)
	f.addEmployee(t, company.ID)

	_, err := f.svc.Login(ctx, domain.ActorEmployee, LoginRequest{Email: "nobody@acme.test", Password: "whatever1"}, ClientMeta{})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.EqualValues(t, 1, f.hasher.verifies.Load(), "unknown emails still run a verification")

	_, err = f.svc.Login(ctx, domain.ActorEmployee, LoginRequest{Email: "jane@acme.test", Password: "wrong-pass"}, ClientMeta{})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Classes do not share credentials.
	_, err = f.svc.Login(ctx, domain.ActorCompany, LoginRequest{Email: "jane@acme.test", Password: "employee-pass"}, ClientMeta{})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, domain.ActorClass("root"), LoginRequest{Email: "jane@acme.test", Password: "employee-pass"}, ClientMeta{})
	require.ErrorIs(t, err, ErrInvalidInput)

	require.Empty(t, f.events.types())
}

func TestAuthService_LoginLocksEmployeeAfterFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)
	company := f.addCompany(t)
	e := f.addEmployee(t, company.ID)

	for i := 0; i < 3; i++ {
		_, err := f.svc.Login(ctx, domain.ActorEmployee, LoginRequest{Email: e.Email, Password: "wrong-pass"}, ClientMeta{})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// The lock is only revealed to a caller holding the password, and
	// failures while locked do not extend it.
	_, err := f.svc.Login(ctx, domain.ActorEmployee, LoginRequest{Email: e.Email, Password: "wrong-pass"}, ClientMeta{})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	stored, err := employeeRepo{f.st}.GetByID(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, 3, stored.FailedLogins)

	_, err = f.svc.Login(ctx, domain.ActorEmployee, LoginRequest{Email: e.Email, Password: "employee-pass"}, ClientMeta{})
	require.ErrorIs(t, err, ErrAccountLocked)

	f.svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	res, err := f.svc.Login(ctx, domain.ActorEmployee, LoginRequest{Email: e.Email, Password: "employee-pass"}, ClientMeta{})
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", res.Profile.Name)

	stored, err = employeeRepo{f.st}.GetByID(ctx, e.ID)
	require.NoError(t, err)
	require.Zero(t, stored.FailedLogins)
	require.Nil(t, stored.LockedUntil)
}

func TestAuthService_LoginInactive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)
	company := f.addCompany(t)
	company.Status = domain.CompanyStatusSuspended
	require.NoError(t, companyRepo{f.st}.Update(ctx, company))

	_, err := f.svc.Login(ctx, domain.ActorCompany, LoginRequest{Email: company.Email, Password: "company-pass"}, ClientMeta{})
	require.ErrorIs(t, err, ErrAccountInactive)
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)
	company := f.addCompany(t)

	res, err := f.svc.Login(ctx, domain.ActorCompany, LoginRequest{Email: company.Email, Password: "company-pass"}, ClientMeta{})
	require.NoError(t, err)
	claims, err := f.tokens.ValidateToken(res.Token)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, claims))

	revoked, err := f.bl.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	require.True(t, revoked)

	_, err = sessionRepo{f.st}.GetByID(ctx, claims.SessionID)
	require.Error(t, err)

	// A second logout with the same token is harmless.
	require.NoError(t, f.svc.Logout(ctx, claims))
	require.Equal(t, []string{broker.EventLogin, broker.EventLogout, broker.EventLogout}, f.events.types())
}

func TestAuthService_ChangePasswordEndsSessions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)
	company := f.addCompany(t)
	e := f.addEmployee(t, company.ID)

	res, err := f.svc.Login(ctx, domain.ActorEmployee, LoginRequest{Email: e.Email, Password: "employee-pass"}, ClientMeta{})
	require.NoError(t, err)
	claims, err := f.tokens.ValidateToken(res.Token)
	require.NoError(t, err)

	err = f.svc.ChangeEmployeePassword(ctx, e.ID, ChangePasswordRequest{OldPassword: "nope", NewPassword: "new-password"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, f.svc.ChangeEmployeePassword(ctx, e.ID, ChangePasswordRequest{OldPassword: "employee-pass", NewPassword: "new-password"}))

	sessions, err := sessionRepo{f.st}.ListByActor(ctx, domain.ActorEmployee, e.ID)
	require.NoError(t, err)
	require.Empty(t, sessions)

	// Tokens minted in the same second as the revocation are covered by the
	// deleted session instead.
	revoked, err := f.bl.IsActorRevoked(ctx, string(domain.ActorEmployee), e.ID.String(), claims.IssuedAt.Add(-time.Minute))
	require.NoError(t, err)
	require.True(t, revoked)

	_, err = sessionRepo{f.st}.GetByID(ctx, claims.SessionID)
	require.Error(t, err)

	_, err = f.svc.Login(ctx, domain.ActorEmployee, LoginRequest{Email: e.Email, Password: "employee-pass"}, ClientMeta{})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, domain.ActorEmployee, LoginRequest{Email: e.Email, Password: "new-password"}, ClientMeta{})
	require.NoError(t, err)
}

func TestAuthService_ProfileAndUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)
	company := f.addCompany(t)
	e := f.addEmployee(t, company.ID)

	p, err := f.svc.Profile(ctx, domain.ActorEmployee, e.ID)
	require.NoError(t, err)
	require.Equal(t, "Finance", p.Department)

	p, err = f.svc.UpdateEmployeeProfile(ctx, e.ID, UpdateProfileRequest{FirstName: " Janet ", LastName: "Roe"})
	require.NoError(t, err)
	require.Equal(t, "Janet Roe", p.Name)

	_, err = f.svc.Profile(ctx, domain.ActorAdmin, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAuthService_LoginInactiveNeedsPassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)
	company := f.addCompany(t)
	company.Status = domain.CompanyStatusSuspended
	require.NoError(t, companyRepo{f.st}.Update(ctx, company))

	_, err := f.svc.Login(ctx, domain.ActorCompany, LoginRequest{Email: company.Email, Password: "wrong-pass"}, ClientMeta{})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_LoginUpgradesLegacyHash(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)
	company := f.addCompany(t)
	e := f.addEmployee(t, company.ID)
	require.NoError(t, employeeRepo{f.st}.UpdatePassword(ctx, e.ID, "legacy:employee-pass"))
	require.NoError(t, companyRepo{f.st}.UpdatePassword(ctx, company.ID, "legacy:company-pass"))

	_, err := f.svc.Login(ctx, domain.ActorEmployee, LoginRequest{Email: e.Email, Password: "employee-pass"}, ClientMeta{})
	require.NoError(t, err)
	_, err = f.svc.Login(ctx, domain.ActorCompany, LoginRequest{Email: company.Email, Password: "company-pass"}, ClientMeta{})
	require.NoError(t, err)

	storedEmployee, err := employeeRepo{f.st}.GetByID(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, "hashed:employee-pass", storedEmployee.PasswordHash)

	storedCompany, err := companyRepo{f.st}.GetByID(ctx, company.ID)
	require.NoError(t, err)
	require.Equal(t, "hashed:company-pass", storedCompany.PasswordHash)

	// A failed login leaves the hash alone.
	require.NoError(t, employeeRepo{f.st}.UpdatePassword(ctx, e.ID, "legacy:employee-pass"))
	_, err = f.svc.Login(ctx, domain.ActorEmployee, LoginRequest{Email: e.Email, Password: "wrong-pass"}, ClientMeta{})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	storedEmployee, err = employeeRepo{f.st}.GetByID(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, "legacy:employee-pass", storedEmployee.PasswordHash)
}
