package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"crmkit/internal/mailsanitizer/models"
	"crmkit/pkg/platform/sentinel"
)

// InMemory keeps directory users and group memberships in process memory.
// It doubles as the test substitute for the PostgreSQL directory.
type InMemory struct {
	mu          sync.RWMutex
	usersByMail map[string]*models.User
	memberships map[uuid.UUID]map[string]struct{}
}

// NewInMemory creates an empty in-memory directory.
func NewInMemory() *InMemory {
	return &InMemory{
		usersByMail: make(map[string]*models.User),
		memberships: make(map[uuid.UUID]map[string]struct{}),
	}
}

// AddUser registers a directory user.
func (s *InMemory) AddUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *user
	s.usersByMail[user.Email] = &copied
	return nil
}

// AddMembership records that a user belongs to a group.
func (s *InMemory) AddMembership(_ context.Context, userID uuid.UUID, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.memberships[userID] == nil {
		s.memberships[userID] = make(map[string]struct{})
	}
	s.memberships[userID][groupID] = struct{}{}
	return nil
}

// FindUserByEmail returns the user whose email exactly equals the argument.
func (s *InMemory) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.usersByMail[email]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, fmt.Errorf("find user %q: %w", email, sentinel.ErrNotFound)
}

// IsGroupMember reports whether the user belongs to the given group.
// Unknown users are simply not members.
func (s *InMemory) IsGroupMember(_ context.Context, userID uuid.UUID, groupID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	groups, ok := s.memberships[userID]
	if !ok {
		return false, nil
	}
	_, member := groups[groupID]
	return member, nil
}
