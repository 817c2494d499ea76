package channel

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	gferrors "github.com/vnykmshr/gocsp/pkg/common/errors"
	"github.com/vnykmshr/gocsp/pkg/common/validation"
	"github.com/vnykmshr/gocsp/pkg/metrics"
)

// Mode defines how a channel admits puts once its buffer is full.
type Mode int

const (
	// Default mode queues the put and blocks the producer until a take frees room.
	Default Mode = iota

	// Dropping mode discards the new value when the buffer is full.
	Dropping

	// Sliding mode evicts the oldest queued value to make room for the new one.
	Sliding
)

var modeNames = []string{"default", "dropping", "sliding"}

func (m Mode) String() string {
	if m < Default || m > Sliding {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode parses a mode name. Case and surrounding whitespace are ignored
// and the empty string selects Default.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return Default, nil
	}
	if err := validation.ValidateOneOf("channel", "mode", name, modeNames...); err != nil {
		return Default, err
	}
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return Default, nil
}

// Outcome is the result of a put.
type Outcome int

const (
	// Accepted means the value was handed to a consumer or admitted into the buffer.
	Accepted Outcome = iota + 1

	// Rejected means the channel was closed, or the put was withdrawn before it matched.
	Rejected

	// Dropped means the value was discarded by a dropping or sliding buffer.
	Dropped
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Dropped:
		return "dropped"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

var (
	// ErrClosed is returned by Take when the channel is closed and holds no more values.
	ErrClosed = fmt.Errorf("channel is closed: %w", gferrors.ErrClosed)

	// ErrCanceled resolves a pending take or put that was cancelled by its owner.
	ErrCanceled = fmt.Errorf("channel operation canceled: %w", gferrors.ErrCanceled)
)

// Config holds configuration for a Channel.
type Config struct {
	// Capacity is the number of values the channel buffers. 0 makes every put
	// wait for a matching take.
	Capacity int

	// Mode defines how puts are admitted once the buffer is full.
	Mode Mode

	// OnClosing is called exactly once, synchronously, when the channel starts closing.
	OnClosing func()

	// OnDrop is called with every value discarded by Dropping or Sliding mode.
	OnDrop func(value interface{})

	// IsCloseValue reports whether a put value is the close sentinel. Putting
	// such a value closes the channel instead of queueing it.
	IsCloseValue func(value interface{}) bool

	// PutTimeout is the default timeout of Put (0 = no timeout).
	PutTimeout time.Duration

	// TakeTimeout is the default timeout of Take (0 = no timeout).
	TakeTimeout time.Duration

	// Name labels the channel in metrics.
	Name string

	// Metrics enables Prometheus instrumentation.
	Metrics metrics.Config
}

// DefaultConfig returns a default configuration: unbuffered, Default mode.
func DefaultConfig() Config {
	return Config{
		Capacity: 0,
		Mode:     Default,
	}
}

func (c Config) validate() error {
	if err := validation.ValidateNonNegative("channel", "capacity", c.Capacity); err != nil {
		return err
	}
	if c.Mode < Default || c.Mode > Sliding {
		return gferrors.NewValidationError("channel", "mode", int(c.Mode), "unknown mode").
			WithHint("use Default, Dropping or Sliding")
	}
	if c.Mode != Default && c.Capacity < 1 {
		return gferrors.NewValidationError("channel", "capacity", c.Capacity,
			fmt.Sprintf("must be at least 1 in %s mode", c.Mode)).
			WithHint("dropping and sliding channels need a buffer")
	}
	if err := validation.ValidateNonNegativeDuration("channel", "put_timeout", c.PutTimeout); err != nil {
		return err
	}
	return validation.ValidateNonNegativeDuration("channel", "take_timeout", c.TakeTimeout)
}

// Stats holds statistics about channel activity.
type Stats struct {
	// PutCount is the number of puts that were accepted.
	PutCount int64

	// TakeCount is the number of takes that received a value.
	TakeCount int64

	// RejectedCount is the number of puts rejected because the channel was closed.
	RejectedCount int64

	// DroppedCount is the number of values discarded by dropping mode.
	DroppedCount int64

	// EvictedCount is the number of buffered values evicted by sliding mode.
	EvictedCount int64

	// BlockedPuts is the number of puts that had to wait.
	BlockedPuts int64

	// BlockedTakes is the number of takes that had to wait.
	BlockedTakes int64

	// TimeoutCount is the number of puts and takes that timed out.
	TimeoutCount int64

	// PendingPuts is the number of queued puts, buffered ones included.
	PendingPuts int

	// PendingTakes is the number of queued takes.
	PendingTakes int

	// BufferUsed is the number of occupied buffer slots.
	BufferUsed int

	// Capacity is the buffer size.
	Capacity int

	// BufferUtilization is BufferUsed/Capacity (0 for unbuffered channels).
	BufferUtilization float64

	// LastPutTime is the timestamp of the last accepted put.
	LastPutTime time.Time

	// LastTakeTime is the timestamp of the last take that received a value.
	LastTakeTime time.Time
}

type lifecycle int

const (
	open lifecycle = iota
	closing
	closed
)

// arrivals stamps every put with a process-wide ticket so that Select can
// tell which of several channels received its oldest put first.
var arrivals atomic.Uint64

// Channel is a CSP channel: puts are paired with takes in FIFO order, with
// an optional buffer governed by Mode.
type Channel[T any] struct {
	config Config

	mu         sync.Mutex
	state      lifecycle
	putSeq     uint64
	takeSeq    uint64
	puts       waitq[*putRequest[T]]
	takes      waitq[*takeRequest[T]]
	bufferUsed int

	listeners   map[uint64]func()
	listenerSeq uint64

	stats Stats
	obs   *observer
}

// New creates an unbuffered or buffered Default-mode channel.
// It panics if capacity is negative; use NewSafe to get an error instead.
func New[T any](capacity int) *Channel[T] {
	config := DefaultConfig()
	config.Capacity = capacity
	return NewWithConfig[T](config)
}

// NewWithConfig creates a channel from config and panics if it is invalid.
func NewWithConfig[T any](config Config) *Channel[T] {
	ch, err := NewWithConfigSafe[T](config)
	if err != nil {
		panic("invalid channel configuration: " + err.Error())
	}
	return ch
}

// NewSafe creates a channel with validation that returns an error instead of panicking.
func NewSafe[T any](capacity int, mode Mode) (*Channel[T], error) {
	config := DefaultConfig()
	config.Capacity = capacity
	config.Mode = mode
	return NewWithConfigSafe[T](config)
}

// NewWithConfigSafe creates a channel with validation that returns an error instead of panicking.
// This is the recommended way to create channels from user-supplied settings.
func NewWithConfigSafe[T any](config Config) (*Channel[T], error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	return &Channel[T]{
		config:    config,
		listeners: make(map[uint64]func()),
		obs:       newObserver(config.Name, config.Metrics),
	}, nil
}

// IsClosed reports whether the channel is closing or closed.
func (c *Channel[T]) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state != open
}

// Len returns the number of occupied buffer slots.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bufferUsed
}

// Cap returns the buffer capacity.
func (c *Channel[T]) Cap() int {
	return c.config.Capacity
}

// Mode returns the admission mode.
func (c *Channel[T]) Mode() Mode {
	return c.config.Mode
}

// Name returns the configured name.
func (c *Channel[T]) Name() string {
	return c.config.Name
}

// Stats returns a snapshot of channel statistics.
func (c *Channel[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.PendingPuts = c.puts.len()
	stats.PendingTakes = c.takes.len()
	stats.BufferUsed = c.bufferUsed
	stats.Capacity = c.config.Capacity
	if c.config.Capacity > 0 {
		stats.BufferUtilization = float64(c.bufferUsed) / float64(c.config.Capacity)
	}
	return stats
}

func (c *Channel[T]) isCloseValue(value T) bool {
	return c.config.IsCloseValue != nil && c.config.IsCloseValue(value)
}
