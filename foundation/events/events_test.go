package events_test

import (
	"testing"

	"github.com/ardanlabs/powledger/foundation/events"
)

func Test_Events(t *testing.T) {
	evts := events.New()

	ch := evts.Acquire("trace-1")
	if evts.Subscribers() != 1 {
		t.Fatalf("Should have one subscriber: got %d", evts.Subscribers())
	}

	evts.Send("state: Mine: accepted")

	e := <-ch
	if e.Message != "state: Mine: accepted" {
		t.Fatalf("Should receive the event: got %q", e.Message)
	}

	if err := evts.Release("trace-1"); err != nil {
		t.Fatalf("Should be able to release the channel: %s", err)
	}

	if _, open := <-ch; open {
		t.Fatalf("Should close the channel on release.")
	}

	if err := evts.Release("trace-1"); err == nil {
		t.Fatalf("Should not release an unknown id.")
	}

	ch = evts.Acquire("trace-2")
	evts.Shutdown()
	if _, open := <-ch; open {
		t.Fatalf("Should close every channel on shutdown.")
	}
}
