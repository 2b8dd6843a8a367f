package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rzclan/warbot/internal/model"
	"github.com/rzclan/warbot/internal/testutil"
)

type StoreSuite struct {
	suite.Suite

	mu      sync.Mutex
	expired []string
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.mu.Lock()
	s.expired = nil
	s.mu.Unlock()
}

func (s *StoreSuite) recordExpiry(userID, chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expired = append(s.expired, userID)
}

func (s *StoreSuite) expiredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expired)
}

func (s *StoreSuite) newStore(timeout time.Duration) *Store {
	return NewStore(testutil.NopLogger(), timeout, s.recordExpiry)
}

func (s *StoreSuite) TestBeginGetEnd() {
	store := s.newStore(time.Minute)

	sess, err := store.Begin("u1", "c1", model.StepMenuChoice)
	s.Require().NoError(err)
	s.Equal(model.StepMenuChoice, sess.Step)

	got, ok := store.Get("u1")
	s.True(ok)
	s.Same(sess, got)

	s.True(store.End("u1"))
	_, ok = store.Get("u1")
	s.False(ok)
	s.False(store.End("u1"))
}

func (s *StoreSuite) TestSecondBeginRejected() {
	store := s.newStore(time.Minute)

	_, err := store.Begin("u1", "c1", model.StepMenuChoice)
	s.Require().NoError(err)

	_, err = store.Begin("u1", "c1", model.StepNewPlayerName)
	s.ErrorIs(err, model.ErrSessionActive)

	// a different user is unaffected
	_, err = store.Begin("u2", "c1", model.StepNewPlayerName)
	s.NoError(err)
}

func (s *StoreSuite) TestExpiryFiresOnce() {
	store := s.newStore(20 * time.Millisecond)

	_, err := store.Begin("u1", "c1", model.StepMenuChoice)
	s.Require().NoError(err)

	s.Eventually(func() bool { return s.expiredCount() == 1 }, time.Second, 5*time.Millisecond)
	_, ok := store.Get("u1")
	s.False(ok)

	// no second notice
	time.Sleep(50 * time.Millisecond)
	s.Equal(1, s.expiredCount())
}

func (s *StoreSuite) TestTouchDefersExpiry() {
	store := s.newStore(60 * time.Millisecond)

	_, err := store.Begin("u1", "c1", model.StepMenuChoice)
	s.Require().NoError(err)

	for i := 0; i < 3; i++ {
		time.Sleep(30 * time.Millisecond)
		store.Touch("u1")
	}
	s.Zero(s.expiredCount())
	_, ok := store.Get("u1")
	s.True(ok)
}

func (s *StoreSuite) TestEndCancelsTimer() {
	store := s.newStore(20 * time.Millisecond)

	_, err := store.Begin("u1", "c1", model.StepMenuChoice)
	s.Require().NoError(err)
	s.True(store.End("u1"))

	time.Sleep(60 * time.Millisecond)
	s.Zero(s.expiredCount())
}

func (s *StoreSuite) TestEndAll() {
	store := s.newStore(time.Minute)

	_, err := store.Begin("u1", "c1", model.StepMenuChoice)
	s.Require().NoError(err)
	_, err = store.Begin("u2", "c1", model.StepMenuChoice)
	s.Require().NoError(err)
	s.Equal(2, store.Active())

	store.EndAll()
	s.Zero(store.Active())
}
