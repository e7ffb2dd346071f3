package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"crmkit/internal/instanceconfig/models"
	"crmkit/pkg/platform/sentinel"
)

type ConfigStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *ConfigStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestConfigStoreSuite(t *testing.T) {
	suite.Run(t, new(ConfigStoreSuite))
}

func (s *ConfigStoreSuite) newInstance(name string) *models.Instance {
	return &models.Instance{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// TestInstances verifies instance registration and exact-name lookup.
func (s *ConfigStoreSuite) TestInstances() {
	s.Run("adds and finds instance by exact name", func() {
		instance := s.newInstance("uat")
		s.Require().NoError(s.store.AddInstance(s.ctx, instance))

		found, err := s.store.FindInstanceByName(s.ctx, "uat")
		s.Require().NoError(err)
		s.Equal(instance.ID, found.ID)
	})

	s.Run("name match is exact, not case-insensitive", func() {
		instance := s.newInstance("Staging")
		s.Require().NoError(s.store.AddInstance(s.ctx, instance))

		_, err := s.store.FindInstanceByName(s.ctx, "staging")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects duplicate name", func() {
		s.Require().NoError(s.store.AddInstance(s.ctx, s.newInstance("dup")))
		err := s.store.AddInstance(s.ctx, s.newInstance("dup"))
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("returns ErrNotFound for unknown name", func() {
		_, err := s.store.FindInstanceByName(s.ctx, "nope")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestOverrides verifies override row lookup semantics.
func (s *ConfigStoreSuite) TestOverrides() {
	instanceID := uuid.New()

	s.Run("finds override by (instance, key)", func() {
		s.Require().NoError(s.store.AddOverride(s.ctx, models.PropertyOverride{
			InstanceID: instanceID, Key: "batch_size", Value: "50",
		}))

		value, err := s.store.FindOverride(s.ctx, instanceID, "batch_size")
		s.Require().NoError(err)
		s.Equal("50", value)
	})

	s.Run("first matching row wins on duplicates", func() {
		s.Require().NoError(s.store.AddOverride(s.ctx, models.PropertyOverride{
			InstanceID: instanceID, Key: "retries", Value: "3",
		}))
		s.Require().NoError(s.store.AddOverride(s.ctx, models.PropertyOverride{
			InstanceID: instanceID, Key: "retries", Value: "5",
		}))

		value, err := s.store.FindOverride(s.ctx, instanceID, "retries")
		s.Require().NoError(err)
		s.Equal("3", value)
	})

	s.Run("does not leak rows across instances", func() {
		other := uuid.New()
		_, err := s.store.FindOverride(s.ctx, other, "batch_size")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("empty key is a literal key", func() {
		_, err := s.store.FindOverride(s.ctx, instanceID, "")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		s.Require().NoError(s.store.AddOverride(s.ctx, models.PropertyOverride{
			InstanceID: instanceID, Key: "", Value: "blank",
		}))
		value, err := s.store.FindOverride(s.ctx, instanceID, "")
		s.Require().NoError(err)
		s.Equal("blank", value)
	})
}

// TestDefaults verifies global default lookup semantics.
func (s *ConfigStoreSuite) TestDefaults() {
	s.Run("finds default by key", func() {
		s.Require().NoError(s.store.SetDefault(s.ctx, models.PropertyDefault{Key: "timeout", Value: "30s"}))

		value, err := s.store.FindDefault(s.ctx, "timeout")
		s.Require().NoError(err)
		s.Equal("30s", value)
	})

	s.Run("returns ErrNotFound for unknown key", func() {
		_, err := s.store.FindDefault(s.ctx, "unknown")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("set replaces existing default", func() {
		s.Require().NoError(s.store.SetDefault(s.ctx, models.PropertyDefault{Key: "mode", Value: "a"}))
		s.Require().NoError(s.store.SetDefault(s.ctx, models.PropertyDefault{Key: "mode", Value: "b"}))

		value, err := s.store.FindDefault(s.ctx, "mode")
		s.Require().NoError(err)
		s.Equal("b", value)
	})
}
