package alts_test

import (
	"context"
	"fmt"
	"time"

	"github.com/vnykmshr/gocsp/pkg/csp/alts"
	"github.com/vnykmshr/gocsp/pkg/csp/channel"
	"github.com/vnykmshr/gocsp/pkg/csp/timer"
)

// Example shows that the channel whose value was put first wins.
func Example() {
	ctx := context.Background()

	fast := channel.New[string](1)
	slow := channel.New[string](1)
	defer fast.Close()
	defer slow.Close()

	slow.Put(ctx, "slow")
	fast.Put(ctx, "fast")

	v, winner, _ := alts.Select(ctx, fast, slow)
	fmt.Println(v, winner == slow)

	// Output:
	// slow true
}

// Example_deadline races a data channel against a timeout channel.
func Example_deadline() {
	ctx := context.Background()

	data := channel.New[string](0)
	defer data.Close()
	deadline := timer.Timeout(5 * time.Millisecond)
	defer deadline.Close()

	v, winner, _ := alts.Select(ctx, data, deadline)
	fmt.Println(v, winner == deadline)

	// Output:
	// timeout true
}
