package pubsub_test

import (
	"context"
	"fmt"

	"github.com/vnykmshr/gocsp/pkg/csp/channel"
	"github.com/vnykmshr/gocsp/pkg/csp/pubsub"
)

func Example() {
	ctx := context.Background()

	ps := pubsub.New[string]()
	defer ps.Close()

	alerts := channel.New[string](0)
	defer alerts.Close()
	ps.Sub(alerts, "alerts")

	ps.Pub("disk full", "alerts")
	ps.Pub("weather is fine", "chatter")

	v, _ := alerts.Take(ctx)
	fmt.Println(v)
	fmt.Println(ps.Topics())

	// Output:
	// disk full
	// [alerts]
}
