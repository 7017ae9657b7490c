package bus

import (
	"sync"

	"party-lab/domain"
)

// Subscription is one subscriber's event sequence. Deliveries are
// buffered without bound between the publisher and the consumer, so
// a slow reader never blocks the engine.
type Subscription struct {
	id     string
	userID domain.UserID
	out    chan domain.SessionSnapshot

	mu    sync.Mutex
	queue []domain.SessionSnapshot
	wake  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// Events is the receive side of the sequence. It is closed when the
// subscription is cancelled.
func (s *Subscription) Events() <-chan domain.SessionSnapshot { return s.out }

func (s *Subscription) UserID() domain.UserID { return s.userID }

func (s *Subscription) enqueue(snap domain.SessionSnapshot) {
	select {
	case <-s.done:
		return
	default:
	}

	s.mu.Lock()
	s.queue = append(s.queue, snap)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// pump moves queued snapshots to the out channel until the
// subscription is closed.
func (s *Subscription) pump() {
	defer close(s.out)
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		for {
			s.mu.Lock()
			if len(s.queue) == 0 {
				s.mu.Unlock()
				break
			}
			next := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()

			select {
			case s.out <- next:
			case <-s.done:
				return
			}
		}
	}
}

func (s *Subscription) close() {
	s.once.Do(func() { close(s.done) })
}
