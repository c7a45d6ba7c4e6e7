package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/company-portal/internal/domain"
)

func TestInMemoryDispatcher_AsyncDelivery(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher(nil)
	release := make(chan struct{})
	var handled atomic.Int32
	var email atomic.Value

	d.Subscribe(EventEmployeeLoggedIn, func(ctx context.Context, e Event) error {
		<-release
		var p LoginPayload
		if err := e.DecodePayload(&p); err != nil {
			return err
		}
		email.Store(p.Email)
		handled.Add(1)
		return nil
	})
	d.Subscribe(EventEmployeeLoggedIn, func(context.Context, Event) error {
		handled.Add(1)
		return errors.New("handler failure is logged, not returned")
	})

	evt, err := NewEvent(EventEmployeeLoggedIn, Actor{Role: domain.RoleEmployee, ID: 1}, time.Now(),
		LoginPayload{Email: "alice@co.com", LoginTime: time.Now()})
	require.NoError(t, err)

	require.NoError(t, d.Publish(context.Background(), evt))
	close(release)

	require.NoError(t, d.Close(context.Background()))
	require.Equal(t, int32(2), handled.Load())
	require.Equal(t, "alice@co.com", email.Load())
}

func TestInMemoryDispatcher_HandlerOutlivesRequestContext(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher(nil)
	var ctxErr atomic.Value

	d.Subscribe(EventAdminLoggedIn, func(ctx context.Context, _ Event) error {
		ctxErr.Store(ctx.Err() == nil)
		return nil
	})

	reqCtx, cancel := context.WithCancel(context.Background())
	cancel()

	evt, err := NewEvent(EventAdminLoggedIn, Actor{Role: domain.RoleAdmin, ID: 1}, time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, d.Publish(reqCtx, evt))
	require.NoError(t, d.Close(context.Background()))
	require.Equal(t, true, ctxErr.Load())
}

func TestInMemoryDispatcher_CloseHonoursContext(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher(nil)
	block := make(chan struct{})
	d.Subscribe(EventTokenRefreshed, func(context.Context, Event) error {
		<-block
		return nil
	})

	evt, err := NewEvent(EventTokenRefreshed, Actor{Role: domain.RoleAdmin, ID: 1}, time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, d.Publish(context.Background(), evt))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)

	close(block)
	require.NoError(t, d.Close(context.Background()))
}

func TestInMemoryDispatcher_RejectsPublishAfterClose(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher(nil)
	var handled atomic.Int32
	d.Subscribe(EventEmployeeLoggedIn, func(context.Context, Event) error {
		handled.Add(1)
		return nil
	})
	require.NoError(t, d.Close(context.Background()))

	evt, err := NewEvent(EventEmployeeLoggedIn, Actor{Role: domain.RoleEmployee, ID: 1}, time.Now(), nil)
	require.NoError(t, err)
	require.ErrorIs(t, d.Publish(context.Background(), evt), ErrDispatcherClosed)

	require.NoError(t, d.Close(context.Background()))
	require.Zero(t, handled.Load())
}
