package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the in-memory implementation of store.UserStore.
// Emails are unique case-insensitively. Safe for concurrent use.
type UserStore struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]*domain.User
	byEmail    map[string]uuid.UUID
	bcryptCost int
}

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates an empty in-memory user store. The bcrypt cost
// is used when hashing passwords on Create; pass bcrypt.DefaultCost
// unless tests need a cheaper setting.
func NewUserStore(bcryptCost int) *UserStore {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserStore{
		byID:       make(map[uuid.UUID]*domain.User),
		byEmail:    make(map[string]uuid.UUID),
		bcryptCost: bcryptCost,
	}
}

// Create validates the user, hashes the plaintext password, and saves
// the user. The plaintext password is cleared from the stored record.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	if user.Password == "" {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrEmptyPassword)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	emailKey := normalizeEmail(user.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[emailKey]; exists {
		return store.ErrEmailExists
	}

	stored := *user
	stored.Password = ""
	stored.HashedPassword = string(hashed)
	s.byID[stored.ID] = &stored
	s.byEmail[emailKey] = stored.ID

	// Reflect the hash back so callers can verify immediately.
	user.HashedPassword = stored.HashedPassword
	return nil
}

// GetByID retrieves a user by their unique ID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}

	cp := *user
	return &cp, nil
}

// GetByEmail retrieves a user by their email address.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, store.ErrUserNotFound
	}

	cp := *s.byID[id]
	return &cp, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
