package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type captureNotifier struct {
	mu       sync.Mutex
	welcomes []string
	delivered chan struct{}
	fail     bool
}

func newCaptureNotifier(capacity int) *captureNotifier {
	return &captureNotifier{delivered: make(chan struct{}, capacity)}
}

func (n *captureNotifier) SendVerificationCode(context.Context, string, string) error { return nil }
func (n *captureNotifier) SendResetCode(context.Context, string, string) error        { return nil }

func (n *captureNotifier) SendWelcome(_ context.Context, email, _ string) error {
	n.mu.Lock()
	n.welcomes = append(n.welcomes, email)
	n.mu.Unlock()
	n.delivered <- struct{}{}
	if n.fail {
		return errors.New("smtp down")
	}
	return nil
}

func (n *captureNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.welcomes...)
}

func awaitDeliveries(t *testing.T, n *captureNotifier, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		select {
		case <-n.delivered:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d of %d", i+1, count)
		}
	}
}

func TestMailDispatcher_Delivers(t *testing.T) {
	notifier := newCaptureNotifier(4)
	d := NewMailDispatcher(2, notifier, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.EnqueueWelcome("a@example.com", "A")
	d.EnqueueWelcome("b@example.com", "B")
	awaitDeliveries(t, notifier, 2)

	sent := notifier.sent()
	if len(sent) != 2 {
		t.Fatalf("expected 2 deliveries, got %v", sent)
	}
}

func TestMailDispatcher_FailureDoesNotStopWorker(t *testing.T) {
	notifier := newCaptureNotifier(4)
	notifier.fail = true
	d := NewMailDispatcher(1, notifier, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.EnqueueWelcome("a@example.com", "A")
	d.EnqueueWelcome("a@example.com", "A")
	awaitDeliveries(t, notifier, 2)

	if len(notifier.sent()) != 2 {
		t.Fatalf("worker stopped after a delivery failure")
	}
}

func TestMailDispatcher_ShardingIsStable(t *testing.T) {
	d := NewMailDispatcher(4, newCaptureNotifier(1), zerolog.Nop())

	first := d.shardIndex("jane@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("jane@example.com"); got != first {
			t.Fatalf("shard index not deterministic: %d vs %d", got, first)
		}
	}
	if first < 0 || first >= 4 {
		t.Fatalf("shard index out of range: %d", first)
	}
}

func TestMailDispatcher_FullQueueDropsInsteadOfBlocking(t *testing.T) {
	// Workers never started: every buffer eventually fills, and enqueues
	// beyond that must return immediately instead of blocking the caller.
	d := NewMailDispatcher(1, newCaptureNotifier(1), zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+16; i++ {
			d.EnqueueWelcome("jane@example.com", "Jane")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("enqueue blocked on a full queue")
	}
}
