package directory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type RecordStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func (s *RecordStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func TestRecordStoreSuite(t *testing.T) {
	suite.Run(t, new(RecordStoreSuite))
}

func (s *RecordStoreSuite) newRecord(name string) Record {
	return Record{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     "test@example.com",
		Venue:     "The Spot",
		Position:  "Bartender",
		Venmo:     "@" + name,
		Timestamp: "2020-04-01T12:00:00Z",
	}
}

// TestPutAndLookups verifies the store persists and retrieves records.
func (s *RecordStoreSuite) TestPutAndLookups() {
	s.Run("puts and finds record by ID", func() {
		record := s.newRecord("Alice")
		s.Require().NoError(s.store.Put(s.ctx, record))

		found, err := s.store.LoadByID(s.ctx, record.ID)
		s.Require().NoError(err)
		s.Equal(record, found)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.LoadByID(s.ctx, uuid.NewString())
		s.Require().ErrorIs(err, ErrNotFound)
	})

	s.Run("loads every stored record", func() {
		s.Require().NoError(s.store.Put(s.ctx, s.newRecord("Bob")))

		records, err := s.store.Load(s.ctx)
		s.Require().NoError(err)
		s.Len(records, 2)
	})

	s.Run("put with an existing ID overwrites", func() {
		record := s.newRecord("Carol")
		s.Require().NoError(s.store.Put(s.ctx, record))

		record.Venue = "Elsewhere"
		s.Require().NoError(s.store.Put(s.ctx, record))

		found, err := s.store.LoadByID(s.ctx, record.ID)
		s.Require().NoError(err)
		s.Equal("Elsewhere", found.Venue)
	})
}

// TestModeration verifies the moderated flag transitions.
func (s *RecordStoreSuite) TestModeration() {
	s.Run("flips the flag on an existing record", func() {
		record := s.newRecord("Dave")
		s.Require().NoError(s.store.Put(s.ctx, record))

		s.Require().NoError(s.store.SetModerated(s.ctx, record.ID, true))

		found, err := s.store.LoadByID(s.ctx, record.ID)
		s.Require().NoError(err)
		s.True(found.Moderated)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		err := s.store.SetModerated(s.ctx, uuid.NewString(), true)
		s.Require().ErrorIs(err, ErrNotFound)
	})
}

// TestDelete verifies removal is idempotent.
func (s *RecordStoreSuite) TestDelete() {
	s.Run("removes a stored record", func() {
		record := s.newRecord("Eve")
		s.Require().NoError(s.store.Put(s.ctx, record))

		s.Require().NoError(s.store.Delete(s.ctx, record.ID))

		_, err := s.store.LoadByID(s.ctx, record.ID)
		s.Require().ErrorIs(err, ErrNotFound)
	})

	s.Run("deleting an unknown ID succeeds", func() {
		s.Require().NoError(s.store.Delete(s.ctx, uuid.NewString()))
	})
}
