package timer_test

import (
	"context"
	"fmt"
	"time"

	"github.com/vnykmshr/gocsp/pkg/csp/timer"
)

func ExampleTimeout() {
	ch := timer.Timeout(10 * time.Millisecond)
	defer ch.Close()

	msg, _ := ch.Take(context.Background())
	fmt.Println(msg)

	// Output:
	// timeout
}

func ExampleCron() {
	ticks, err := timer.Cron("@every 1s")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer ticks.Close()

	_, err = timer.Cron("not a schedule")
	fmt.Println(err != nil)

	// Output:
	// true
}
