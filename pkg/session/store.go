package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andressep95/hr-service/pkg/storage"
)

// Store reads and writes the session of one actor class.
type Store struct {
	class   Class
	storage storage.Storage
}

func NewStore(class Class, s storage.Storage) *Store {
	return &Store{class: class, storage: s}
}

func (s *Store) Class() Class {
	return s.class
}

// Token returns the stored credential, or "" when there is none.
func (s *Store) Token(ctx context.Context) (string, error) {
	v, err := s.storage.Get(ctx, s.class.TokenKey())
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s token: %w", s.class, err)
	}
	return v, nil
}

// HasToken reports whether a non-empty credential is stored. Storage errors
// count as "no token".
func (s *Store) HasToken(ctx context.Context) bool {
	token, err := s.Token(ctx)
	return err == nil && token != ""
}

func (s *Store) SetToken(ctx context.Context, token string) error {
	if err := s.storage.Set(ctx, s.class.TokenKey(), token); err != nil {
		return fmt.Errorf("failed to save %s token: %w", s.class, err)
	}
	return nil
}

// Profile returns the cached profile, or nil when none is stored.
func (s *Store) Profile(ctx context.Context) (*Profile, error) {
	raw, err := s.storage.Get(ctx, s.class.ProfileKey())
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s profile: %w", s.class, err)
	}

	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("failed to decode %s profile: %w", s.class, err)
	}
	return &p, nil
}

func (s *Store) SetProfile(ctx context.Context, p *Profile) error {
	if p == nil {
		return s.storage.Delete(ctx, s.class.ProfileKey())
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode %s profile: %w", s.class, err)
	}

	if err := s.storage.Set(ctx, s.class.ProfileKey(), string(raw)); err != nil {
		return fmt.Errorf("failed to save %s profile: %w", s.class, err)
	}
	return nil
}

// Clear removes both the token and the profile of the class.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.storage.Delete(ctx, s.class.TokenKey(), s.class.ProfileKey()); err != nil {
		return fmt.Errorf("failed to clear %s session: %w", s.class, err)
	}
	return nil
}

// Registry groups the stores of all actor classes over one storage.
type Registry struct {
	stores map[Class]*Store
}

func NewRegistry(s storage.Storage) *Registry {
	r := &Registry{stores: make(map[Class]*Store, len(Classes))}
	for _, c := range Classes {
		r.stores[c] = NewStore(c, s)
	}
	return r
}

// For returns the store of class c. It panics on an unknown class.
func (r *Registry) For(c Class) *Store {
	s, ok := r.stores[c]
	if !ok {
		panic(fmt.Sprintf("session: unknown class %q", c))
	}
	return s
}

// FirstToken returns the first non-empty token among the given classes.
func (r *Registry) FirstToken(ctx context.Context, classes ...Class) (string, error) {
	for _, c := range classes {
		token, err := r.For(c).Token(ctx)
		if err != nil {
			return "", err
		}
		if token != "" {
			return token, nil
		}
	}
	return "", nil
}
