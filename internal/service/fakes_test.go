package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/internal/repository"
	"github.com/andressep95/hr-service/pkg/broker"
	"github.com/andressep95/hr-service/pkg/rbac"
)

// plainHasher also accepts "legacy:" hashes and asks for them to be rehashed.
type plainHasher struct{}

func (plainHasher) Hash(pw string) (string, error) { return "hashed:" + pw, nil }

func (plainHasher) Verify(pw, encoded string) (bool, error) {
	return encoded == "hashed:"+pw || encoded == "legacy:"+pw, nil
}

func (plainHasher) NeedsRehash(encoded string) bool { return strings.HasPrefix(encoded, "legacy:") }

type countingHasher struct {
	plainHasher
	verifies atomic.Int32
}

func (h *countingHasher) Verify(pw, encoded string) (bool, error) {
	h.verifies.Add(1)
	return h.plainHasher.Verify(pw, encoded)
}

// endedSessions records EndAllSessions calls.
type endedSessions struct {
	mu    sync.Mutex
	calls []string
}

func (e *endedSessions) EndAllSessions(_ context.Context, class domain.ActorClass, id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, string(class)+":"+id.String())
	return nil
}

func (e *endedSessions) ended() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

type store struct {
	mu         sync.Mutex
	admins     map[uuid.UUID]*domain.Admin
	companies  map[uuid.UUID]*domain.Company
	employees  map[uuid.UUID]*domain.Employee
	roles      map[uuid.UUID]*domain.Role
	assigned   map[uuid.UUID]map[uuid.UUID]bool
	perms      map[uuid.UUID][]rbac.PermissionRecord
	sessions   map[uuid.UUID]*domain.Session
	lastLogins int
}

func newStore() *store {
	return &store{
		admins:    map[uuid.UUID]*domain.Admin{},
		companies: map[uuid.UUID]*domain.Company{},
		employees: map[uuid.UUID]*domain.Employee{},
		roles:     map[uuid.UUID]*domain.Role{},
		assigned:  map[uuid.UUID]map[uuid.UUID]bool{},
		perms:     map[uuid.UUID][]rbac.PermissionRecord{},
		sessions:  map[uuid.UUID]*domain.Session{},
	}
}

// admins

type adminRepo struct{ *store }

func (r adminRepo) Create(_ context.Context, a *domain.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.admins {
		if strings.EqualFold(x.Email, a.Email) {
			return repository.ErrDuplicate
		}
	}
	cp := *a
	r.admins[a.ID] = &cp
	return nil
}

func (r adminRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.admins[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r adminRepo) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if strings.EqualFold(a.Email, email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r adminRepo) Exists(context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.admins) > 0, nil
}

func (r adminRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.admins[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.PasswordHash = hash
	return nil
}

func (r adminRepo) UpdateLastLogin(context.Context, uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLogins++
	return nil
}

// companies

type companyRepo struct{ *store }

func (r companyRepo) Create(_ context.Context, c *domain.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.companies {
		if x.Slug == c.Slug || strings.EqualFold(x.Email, c.Email) {
			return repository.ErrDuplicate
		}
	}
	cp := *c
	r.companies[c.ID] = &cp
	return nil
}

func (r companyRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r companyRepo) GetByEmail(_ context.Context, email string) (*domain.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if strings.EqualFold(c.Email, email) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r companyRepo) GetBySlug(_ context.Context, slug string) (*domain.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r companyRepo) Update(_ context.Context, c *domain.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.companies[c.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *c
	r.companies[c.ID] = &cp
	return nil
}

func (r companyRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.PasswordHash = hash
	return nil
}

func (r companyRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.companies[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.companies, id)
	return nil
}

func (r companyRepo) List(_ context.Context, limit, offset int) ([]*domain.Company, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Company{}
	for _, c := range r.companies {
		out = append(out, c)
	}
	total := len(out)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return out[offset:end], total, nil
}

func (r companyRepo) CountEmployees(_ context.Context, id uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.employees {
		if e.CompanyID == id {
			n++
		}
	}
	return n, nil
}

func (r companyRepo) UpdateLastLogin(context.Context, uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLogins++
	return nil
}

// employees

type employeeRepo struct{ *store }

func (r employeeRepo) Create(_ context.Context, e *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.employees {
		if strings.EqualFold(x.Email, e.Email) {
			return repository.ErrDuplicate
		}
	}
	cp := *e
	r.employees[e.ID] = &cp
	return nil
}

func (r employeeRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r employeeRepo) GetByEmail(_ context.Context, email string) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employees {
		if strings.EqualFold(e.Email, email) {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r employeeRepo) Update(_ context.Context, e *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[e.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *e
	r.employees[e.ID] = &cp
	return nil
}

func (r employeeRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.PasswordHash = hash
	return nil
}

func (r employeeRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.employees, id)
	return nil
}

func (r employeeRepo) List(_ context.Context, f domain.EmployeeFilter) ([]*domain.Employee, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Employee{}
	for _, e := range r.employees {
		if e.CompanyID != f.CompanyID {
			continue
		}
		if f.Department != "" && e.Department != f.Department {
			continue
		}
		out = append(out, e)
	}
	return out, len(out), nil
}

func (r employeeRepo) ListIDsByCompany(_ context.Context, companyID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uuid.UUID
	for id, e := range r.employees {
		if e.CompanyID == companyID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r employeeRepo) UpdateLastLogin(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.FailedLogins = 0
	e.LockedUntil = nil
	r.lastLogins++
	return nil
}

func (r employeeRepo) RegisterFailedLogin(_ context.Context, id uuid.UUID, maxFailed int, lockFor time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.FailedLogins++
	if e.FailedLogins >= maxFailed {
		until := time.Now().Add(lockFor)
		e.LockedUntil = &until
	}
	return nil
}

// roles

type roleRepo struct{ *store }

func (r roleRepo) Create(_ context.Context, role *domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *role
	r.roles[role.ID] = &cp
	return nil
}

func (r roleRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *role
	return &cp, nil
}

func (r roleRepo) ListByCompany(_ context.Context, companyID uuid.UUID) ([]*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Role{}
	for _, role := range r.roles {
		if role.CompanyID == companyID {
			out = append(out, role)
		}
	}
	return out, nil
}

func (r roleRepo) Update(_ context.Context, role *domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *role
	r.roles[role.ID] = &cp
	return nil
}

func (r roleRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.roles, id)
	delete(r.perms, id)
	for _, set := range r.assigned {
		delete(set, id)
	}
	return nil
}

func (r roleRepo) AssignToEmployee(_ context.Context, employeeID, roleID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.assigned[employeeID] == nil {
		r.assigned[employeeID] = map[uuid.UUID]bool{}
	}
	r.assigned[employeeID][roleID] = true
	return nil
}

func (r roleRepo) RemoveFromEmployee(_ context.Context, employeeID, roleID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.assigned[employeeID][roleID] {
		return repository.ErrNotFound
	}
	delete(r.assigned[employeeID], roleID)
	return nil
}

func (r roleRepo) ListByEmployee(_ context.Context, employeeID uuid.UUID) ([]*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Role{}
	for id := range r.assigned[employeeID] {
		out = append(out, r.roles[id])
	}
	return out, nil
}

func (r roleRepo) GetPermissions(_ context.Context, roleID uuid.UUID) ([]rbac.PermissionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]rbac.PermissionRecord{}, r.perms[roleID]...), nil
}

func (r roleRepo) SetPermissions(_ context.Context, roleID uuid.UUID, records []rbac.PermissionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.perms[roleID] = append([]rbac.PermissionRecord{}, records...)
	return nil
}

func (r roleRepo) GetEmployeePermissions(_ context.Context, employeeID uuid.UUID) ([]rbac.PermissionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	merged := map[string]*rbac.PermissionRecord{}
	var order []string
	for roleID := range r.assigned[employeeID] {
		for _, p := range r.perms[roleID] {
			m, ok := merged[p.FeatureKey]
			if !ok {
				m = &rbac.PermissionRecord{FeatureKey: p.FeatureKey}
				merged[p.FeatureKey] = m
				order = append(order, p.FeatureKey)
			}
			m.CanView = m.CanView || p.CanView
			m.CanCreate = m.CanCreate || p.CanCreate
			m.CanEdit = m.CanEdit || p.CanEdit
			m.CanDelete = m.CanDelete || p.CanDelete
		}
	}
	out := make([]rbac.PermissionRecord, 0, len(order))
	for _, k := range order {
		out = append(out, *merged[k])
	}
	return out, nil
}

// sessions

type sessionRepo struct{ *store }

func (r sessionRepo) Create(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r sessionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || time.Now().After(s.ExpiresAt) {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r sessionRepo) ListByActor(_ context.Context, class domain.ActorClass, actorID uuid.UUID) ([]*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Session{}
	for _, s := range r.sessions {
		if s.ActorClass == class && s.ActorID == actorID && time.Now().Before(s.ExpiresAt) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r sessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r sessionRepo) DeleteByActor(_ context.Context, class domain.ActorClass, actorID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.ActorClass == class && s.ActorID == actorID {
			delete(r.sessions, id)
		}
	}
	return nil
}

func (r sessionRepo) DeleteExpired(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.sessions {
		if time.Now().After(s.ExpiresAt) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

// events

type eventLog struct {
	mu     sync.Mutex
	events []broker.SessionEvent
}

func (l *eventLog) PublishSession(_ context.Context, e broker.SessionEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) Close() {}

func (l *eventLog) types() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Type)
	}
	return out
}
