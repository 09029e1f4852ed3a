package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/GoArmGo/ConnectApp/internal/domain"
	"github.com/GoArmGo/ConnectApp/internal/logger"
	"github.com/GoArmGo/ConnectApp/internal/messaging/payloads"
	"github.com/GoArmGo/ConnectApp/internal/testsupport"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending request and publishes event", func(t *testing.T) {
		f := newFixture(t)
		alice, bob := f.signup(t, "alice"), f.signup(t, "bob")

		req, err := f.connections.Send(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ConnectionPending, req.Status)
		assert.Equal(t, alice.ID, req.SenderID)
		assert.Equal(t, bob.ID, req.ReceiverID)

		events := f.publisher.Published()
		require.Len(t, events, 1)
		assert.Equal(t, payloads.EventConnectionRequested, events[0].Type)
		assert.Equal(t, req.ID, events[0].RequestID)
		assert.Equal(t, bob.ID, events[0].Recipient())
	})

	t.Run("to self", func(t *testing.T) {
		f := newFixture(t)
		alice := f.signup(t, "alice")
		_, err := f.connections.Send(ctx, alice.ID, alice.ID)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("missing receiver id", func(t *testing.T) {
		f := newFixture(t)
		alice := f.signup(t, "alice")
		_, err := f.connections.Send(ctx, alice.ID, uuid.Nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown receiver", func(t *testing.T) {
		f := newFixture(t)
		alice := f.signup(t, "alice")
		_, err := f.connections.Send(ctx, alice.ID, uuid.New())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("duplicate in either direction", func(t *testing.T) {
		f := newFixture(t)
		alice, bob := f.signup(t, "alice"), f.signup(t, "bob")

		_, err := f.connections.Send(ctx, alice.ID, bob.ID)
		require.NoError(t, err)

		_, err = f.connections.Send(ctx, alice.ID, bob.ID)
		assert.ErrorIs(t, err, domain.ErrConflict)
		_, err = f.connections.Send(ctx, bob.ID, alice.ID)
		assert.ErrorIs(t, err, domain.ErrConflict)

		sent, err := f.connections.ListSent(ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, sent, 1)
	})

	t.Run("allowed again after rejection", func(t *testing.T) {
		f := newFixture(t)
		alice, bob := f.signup(t, "alice"), f.signup(t, "bob")

		req, err := f.connections.Send(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		_, err = f.connections.Resolve(ctx, req.ID, domain.DecisionReject, bob.ID)
		require.NoError(t, err)

		_, err = f.connections.Send(ctx, alice.ID, bob.ID)
		assert.NoError(t, err)
	})

	t.Run("publish failure does not fail send", func(t *testing.T) {
		f := newFixture(t)
		alice, bob := f.signup(t, "alice"), f.signup(t, "bob")
		f.publisher.Err = errors.New("broker down")

		req, err := f.connections.Send(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ConnectionPending, req.Status)
	})
}

func TestSend_ConcurrentDuplicates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, bob := f.signup(t, "alice"), f.signup(t, "bob")

	const n = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			from, to := alice.ID, bob.ID
			if i%2 == 1 {
				from, to = to, from
			}
			_, err := f.connections.Send(ctx, from, to)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrConflict)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("accept is visible to both sides", func(t *testing.T) {
		f := newFixture(t)
		alice, bob := f.signup(t, "alice"), f.signup(t, "bob")

		req, err := f.connections.Send(ctx, alice.ID, bob.ID)
		require.NoError(t, err)

		resolved, err := f.connections.Resolve(ctx, req.ID, domain.DecisionAccept, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ConnectionAccepted, resolved.Status)

		sent, err := f.connections.ListSent(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, sent, 1)
		assert.Equal(t, domain.ConnectionAccepted, sent[0].Status)

		received, err := f.connections.ListReceived(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, received, 1)
		assert.Equal(t, req.ID, received[0].ID)

		events := f.publisher.Published()
		require.Len(t, events, 2)
		assert.Equal(t, payloads.EventConnectionAccepted, events[1].Type)
		assert.Equal(t, alice.ID, events[1].Recipient())
	})

	t.Run("only receiver may resolve", func(t *testing.T) {
		f := newFixture(t)
		alice, bob, carol := f.signup(t, "alice"), f.signup(t, "bob"), f.signup(t, "carol")

		req, err := f.connections.Send(ctx, alice.ID, bob.ID)
		require.NoError(t, err)

		for _, actor := range []uuid.UUID{alice.ID, carol.ID} {
			_, err = f.connections.Resolve(ctx, req.ID, domain.DecisionAccept, actor)
			assert.ErrorIs(t, err, domain.ErrForbidden)
		}

		stored, err := f.store.GetRequestByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ConnectionPending, stored.Status)
	})

	t.Run("terminal request cannot be resolved again", func(t *testing.T) {
		f := newFixture(t)
		alice, bob := f.signup(t, "alice"), f.signup(t, "bob")

		req, err := f.connections.Send(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		_, err = f.connections.Resolve(ctx, req.ID, domain.DecisionAccept, bob.ID)
		require.NoError(t, err)

		_, err = f.connections.Resolve(ctx, req.ID, domain.DecisionReject, bob.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		_, err = f.connections.Resolve(ctx, req.ID, domain.DecisionAccept, bob.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidState)

		stored, err := f.store.GetRequestByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ConnectionAccepted, stored.Status)
	})

	t.Run("unknown request", func(t *testing.T) {
		f := newFixture(t)
		bob := f.signup(t, "bob")
		_, err := f.connections.Resolve(ctx, uuid.New(), domain.DecisionAccept, bob.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("invalid decision", func(t *testing.T) {
		f := newFixture(t)
		bob := f.signup(t, "bob")
		_, err := f.connections.Resolve(ctx, uuid.New(), domain.Decision("maybe"), bob.ID)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

// racingStore имитирует параллельное решение, принятое между чтением и обновлением
type racingStore struct {
	*testsupport.Store
}

func (racingStore) UpdateRequestStatus(context.Context, uuid.UUID, domain.ConnectionStatus, domain.ConnectionStatus) (*domain.ConnectionRequest, error) {
	return nil, nil
}

func TestResolve_LostRace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, bob := f.signup(t, "alice"), f.signup(t, "bob")

	req, err := f.connections.Send(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	uc := NewConnectionUseCase(racingStore{f.store}, f.store, nil, logger.Discard())
	_, err = uc.Resolve(ctx, req.ID, domain.DecisionAccept, bob.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
