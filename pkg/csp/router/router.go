// Package router forwards the values of a source channel to every route
// whose rule matches them.
package router

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	gferrors "github.com/vnykmshr/gocsp/pkg/common/errors"
	"github.com/vnykmshr/gocsp/pkg/common/logging"
	"github.com/vnykmshr/gocsp/pkg/common/validation"
	"github.com/vnykmshr/gocsp/pkg/csp/channel"
	"github.com/vnykmshr/gocsp/pkg/metrics"
)

// Route sends the values accepted by Rule to Channel.
type Route[T any] struct {
	Channel *channel.Channel[T]
	Rule    func(T) bool

	// Name labels the route in metrics. Defaults to its index.
	Name string
}

// Config holds configuration for SubscribeWithConfig.
type Config struct {
	// Name labels the router in logs and metrics.
	Name string

	// Logger receives loop lifecycle events. Nil discards them.
	Logger logrus.FieldLogger

	// Metrics enables counting forwarded values per route.
	Metrics metrics.Config
}

// Subscription is a running router loop.
type Subscription struct {
	done   chan struct{}
	cancel context.CancelFunc
}

// Done is closed once the loop has stopped.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Stop ends the loop and waits for it to exit. The source channel is left open.
func (s *Subscription) Stop() {
	s.cancel()
	<-s.done
}

// Subscribe takes values from src until it is closed or ctx is done and puts
// each value on every matching route, in route order. Puts are queued without
// waiting, so a slow route never holds up the others.
func Subscribe[T any](ctx context.Context, src *channel.Channel[T], routes ...Route[T]) (*Subscription, error) {
	return SubscribeWithConfig(ctx, Config{}, src, routes...)
}

// SubscribeWithConfig is Subscribe with logging and metrics.
func SubscribeWithConfig[T any](ctx context.Context, config Config, src *channel.Channel[T], routes ...Route[T]) (*Subscription, error) {
	if err := validate(src, routes); err != nil {
		return nil, err
	}

	routes = append([]Route[T](nil), routes...)
	for i := range routes {
		if routes[i].Name == "" {
			routes[i].Name = strconv.Itoa(i)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		done:   make(chan struct{}),
		cancel: cancel,
	}

	r := &router[T]{
		src:      src,
		routes:   routes,
		logger:   logging.Component(config.Logger, "router", config.Name),
		registry: metrics.ForConfig(config.Metrics),
		name:     config.Name,
	}
	if r.name == "" {
		r.name = "unnamed"
	}

	go func() {
		defer close(sub.done)
		defer cancel()
		r.run(ctx)
	}()
	return sub, nil
}

type router[T any] struct {
	src      *channel.Channel[T]
	routes   []Route[T]
	logger   logrus.FieldLogger
	registry *metrics.Registry
	name     string
}

func (r *router[T]) run(ctx context.Context) {
	r.logger.WithField("routes", len(r.routes)).Debug("router started")
	for {
		v, err := r.src.Take(ctx)
		if err != nil {
			if errors.Is(err, channel.ErrClosed) {
				r.logger.Debug("router source closed")
			} else {
				r.logger.WithError(err).Debug("router stopped")
			}
			return
		}

		for _, route := range r.routes {
			if !route.Rule(v) {
				continue
			}
			route.Channel.PutAsync(v)
			if r.registry != nil {
				r.registry.RouterForwarded.WithLabelValues(r.name, route.Name).Inc()
			}
		}
	}
}

func validate[T any](src *channel.Channel[T], routes []Route[T]) error {
	if err := validation.ValidateNotNil("router", "source", src); err != nil {
		return err
	}
	if len(routes) == 0 {
		return gferrors.NewValidationError("router", "routes", 0, "at least one route is required")
	}
	for i, route := range routes {
		if err := validation.ValidateNotNil("router", fmt.Sprintf("routes[%d].channel", i), route.Channel); err != nil {
			return err
		}
		if route.Rule == nil {
			return gferrors.NewValidationError("router", fmt.Sprintf("routes[%d].rule", i), nil, "must not be nil").
				WithHint("use a rule that returns true to forward every value")
		}
	}
	return nil
}
