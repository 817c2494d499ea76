package timer

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/vnykmshr/gocsp/pkg/common/delay"
	gferrors "github.com/vnykmshr/gocsp/pkg/common/errors"
	"github.com/vnykmshr/gocsp/pkg/common/logging"
	"github.com/vnykmshr/gocsp/pkg/common/validation"
	"github.com/vnykmshr/gocsp/pkg/csp/channel"
	"github.com/vnykmshr/gocsp/pkg/metrics"
)

// cronParser accepts standard 5-field expressions, an optional leading
// seconds field and descriptors such as @hourly or @every 1m.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Cron returns a channel that receives the activation time on every tick of
// the cron expression until it is closed.
func Cron(expr string) (*channel.Channel[time.Time], error) {
	return CronWithConfig(Config{}, expr)
}

// CronWithConfig is Cron with logging and metrics.
func CronWithConfig(config Config, expr string) (*channel.Channel[time.Time], error) {
	if err := validation.ValidateNotEmpty("timer", "expr", expr); err != nil {
		return nil, err
	}
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, gferrors.NewValidationError("timer", "expr", expr, err.Error()).
			WithHint("use 5 or 6 cron fields or a descriptor such as @every 1m")
	}
	return ScheduleWithConfig(config, schedule), nil
}

// Schedule returns a channel that receives the activation time on every tick
// of schedule until it is closed. The channel holds only the latest tick: a
// consumer that falls behind misses ticks, like a time.Ticker.
func Schedule(schedule cron.Schedule) *channel.Channel[time.Time] {
	return ScheduleWithConfig(Config{}, schedule)
}

// ScheduleWithConfig is Schedule with logging and metrics.
func ScheduleWithConfig(config Config, schedule cron.Schedule) *channel.Channel[time.Time] {
	stop := make(chan struct{})
	ch := channel.NewWithConfig[time.Time](channel.Config{
		Capacity:  1,
		Mode:      channel.Sliding,
		Name:      config.Name,
		Metrics:   config.Metrics,
		OnClosing: func() { close(stop) },
	})

	t := &ticker{
		ch:       ch,
		schedule: schedule,
		stop:     stop,
		logger:   logging.Component(config.Logger, "timer", config.Name),
		registry: metrics.ForConfig(config.Metrics),
	}
	go t.run()
	return ch
}

type ticker struct {
	ch       *channel.Channel[time.Time]
	schedule cron.Schedule
	stop     chan struct{}
	logger   logrus.FieldLogger
	registry *metrics.Registry
}

func (t *ticker) run() {
	t.logger.Debug("cron channel started")
	defer t.logger.Debug("cron channel stopped")

	for {
		now := time.Now()
		next := t.schedule.Next(now)
		if next.IsZero() {
			// the schedule will never fire again
			return
		}

		dl := delay.New(next.Sub(now))
		select {
		case <-dl.Done():
		case <-t.stop:
			dl.Cancel()
			return
		}

		outcome, err := t.ch.Put(context.Background(), next)
		if err != nil || outcome == channel.Rejected {
			return
		}
		if t.registry != nil {
			t.registry.TimerFired.WithLabelValues("cron").Inc()
		}
	}
}
