package firstrun

import (
	"context"
	"sync"
)

// broker fans visibility updates out to subscribers without blocking the
// publisher.
type broker struct {
	mu   sync.RWMutex
	subs map[chan bool]struct{}
	done chan struct{}
}

func newBroker() *broker {
	return &broker{
		subs: make(map[chan bool]struct{}),
		done: make(chan struct{}),
	}
}

// shutdown closes the broker and all subscriber channels.
func (b *broker) shutdown() {
	select {
	case <-b.done:
		return
	default:
		close(b.done)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		close(ch)
	}
	clear(b.subs)
}

// subscribe registers for future updates. The returned channel closes when
// the provided context is done or the broker shuts down.
func (b *broker) subscribe(ctx context.Context) <-chan bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		ch := make(chan bool)
		close(ch)
		return ch
	default:
	}

	ch := make(chan bool, 8)
	b.subs[ch] = struct{}{}

	go func() {
		<-ctx.Done()

		b.mu.Lock()
		defer b.mu.Unlock()

		if _, ok := b.subs[ch]; !ok {
			return
		}
		delete(b.subs, ch)
		close(ch)
	}()

	return ch
}

// publish sends the update to all subscribers using best-effort delivery.
func (b *broker) publish(visible bool) {
	b.mu.RLock()
	select {
	case <-b.done:
		b.mu.RUnlock()
		return
	default:
	}

	subs := make([]chan bool, 0, len(b.subs))
	for ch := range b.subs {
		subs = append(subs, ch)
	}
	b.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- visible:
		default:
			// Slow subscriber; skip to avoid blocking the publisher.
		}
	}
}
