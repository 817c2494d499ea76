package errors_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gferrors "github.com/vnykmshr/gocsp/pkg/common/errors"
	"github.com/vnykmshr/gocsp/pkg/csp/alts"
	"github.com/vnykmshr/gocsp/pkg/csp/channel"
	"github.com/vnykmshr/gocsp/pkg/csp/pubsub"
	"github.com/vnykmshr/gocsp/pkg/csp/timer"
)

func TestValidationErrorFromConstructors(t *testing.T) {
	tests := []struct {
		name    string
		build   func() error
		field   string
		value   interface{}
		message string
	}{
		{
			name: "sliding without buffer",
			build: func() error {
				_, err := channel.NewSafe[int](0, channel.Sliding)
				return err
			},
			field:   "capacity",
			value:   0,
			message: "channel: invalid capacity=0 (must be at least 1 in sliding mode) - dropping and sliding channels need a buffer",
		},
		{
			name: "negative capacity",
			build: func() error {
				_, err := channel.NewSafe[int](-2, channel.Default)
				return err
			},
			field:   "capacity",
			value:   -2,
			message: "channel: invalid capacity=-2 (cannot be negative) - use 0 or a positive value",
		},
		{
			name: "inverted timeout range",
			build: func() error {
				_, err := timer.TimeoutRange(20*time.Millisecond, 10*time.Millisecond)
				return err
			},
			field: "time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			require.Error(t, err)

			var verr *gferrors.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			if tt.value != nil {
				assert.Equal(t, tt.value, verr.Value)
			}
			if tt.message != "" {
				assert.Equal(t, tt.message, err.Error())
			}

			assert.True(t, gferrors.IsValidationError(err))
			assert.ErrorIs(t, err, gferrors.ErrInvalidConfiguration)
			assert.False(t, gferrors.IsTimeout(err))
		})
	}
}

func TestValidationErrorSurvivesWrapping(t *testing.T) {
	_, err := timer.Cron("every now and then")
	require.Error(t, err)

	wrapped := gferrors.NewOperationError("scheduler", "start", err).WithContext("heartbeat")
	assert.True(t, gferrors.IsValidationError(wrapped))
	assert.ErrorIs(t, wrapped, gferrors.ErrInvalidConfiguration)
	assert.Contains(t, wrapped.Error(), "scheduler.start failed: timer: invalid expr=every now and then")
	assert.Contains(t, wrapped.Error(), "(heartbeat)")
}

func TestTimeoutErrorFromChannelOperations(t *testing.T) {
	ctx := context.Background()
	ch := channel.New[int](0)
	defer ch.Close()

	_, err := ch.Take(ctx, channel.WithTimeout(5*time.Millisecond))
	require.Error(t, err)

	var terr *gferrors.TimeoutError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "channel", terr.Module)
	assert.Equal(t, "take", terr.Operation)
	assert.Equal(t, 5*time.Millisecond, terr.Timeout)
	assert.Equal(t, gferrors.TimeoutCode, terr.Code)
	assert.Equal(t, "'take' timed out after 5ms. No data was taken off the channel.", err.Error())
	assert.True(t, gferrors.IsTimeout(err))
	assert.ErrorIs(t, err, gferrors.ErrTimeout)
	assert.False(t, gferrors.IsValidationError(err))

	outcome, err := ch.Put(ctx, 1, channel.WithTimeout(5*time.Millisecond))
	assert.Equal(t, channel.Rejected, outcome)
	assert.Equal(t, "'put' timed out after 5ms. No data was added to the channel.", err.Error())
	assert.True(t, gferrors.IsTimeout(err))

	wrapped := gferrors.NewOperationError("merge", "forward", err)
	assert.True(t, gferrors.IsTimeout(wrapped))
}

func TestTimeoutErrorFromSelect(t *testing.T) {
	a := channel.New[string](0)
	b := channel.New[string](0)
	defer a.Close()
	defer b.Close()

	_, from, err := alts.SelectTimeout(context.Background(), 10*time.Millisecond, a, b)
	assert.Nil(t, from)
	assert.Equal(t, "alts.select timed out after 10ms", err.Error())
	assert.True(t, gferrors.IsTimeout(err))
}

func TestOperationErrorFromClosedPubSub(t *testing.T) {
	ps := pubsub.New[string]()
	require.NoError(t, ps.Close())

	err := ps.Pub("hello", "news")
	require.Error(t, err)

	var operr *gferrors.OperationError
	require.True(t, errors.As(err, &operr))
	assert.Equal(t, "pubsub", operr.Module)
	assert.Equal(t, "Pub", operr.Operation)
	assert.Equal(t, "topic news", operr.Context)
	assert.Equal(t, "pubsub.Pub failed: resource is closed (topic news)", err.Error())
	assert.ErrorIs(t, err, gferrors.ErrClosed)
	assert.False(t, gferrors.IsTimeout(err))
}

func TestClosedAndCanceledSentinels(t *testing.T) {
	ch := channel.New[int](1)

	pending := ch.TakeCancellable()
	require.True(t, pending.Cancel())
	_, err := pending.Wait(context.Background())
	assert.ErrorIs(t, err, gferrors.ErrCanceled)
	assert.Equal(t, "channel operation canceled: operation canceled", err.Error())

	require.NoError(t, ch.Close())
	_, err = ch.Take(context.Background())
	assert.ErrorIs(t, err, gferrors.ErrClosed)
	assert.Equal(t, "channel is closed: resource is closed", err.Error())
	assert.False(t, gferrors.IsValidationError(err))
	assert.False(t, gferrors.IsTimeout(err))
}

func TestHintAndContextChain(t *testing.T) {
	verr := gferrors.NewValidationError("router", "routes", 0, "at least one route is required")
	assert.Same(t, verr, verr.WithHint("pass a Route"))
	assert.Equal(t, "router: invalid routes=0 (at least one route is required) - pass a Route", verr.Error())

	cause := channel.ErrClosed
	operr := gferrors.NewOperationError("throttle", "acquire", cause)
	assert.Equal(t, "throttle.acquire failed: channel is closed: resource is closed", operr.Error())
	assert.Same(t, operr, operr.WithContext("slot 3"))
	assert.Equal(t, cause, operr.Unwrap())
	assert.ErrorIs(t, operr, gferrors.ErrClosed)
}
