package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/grupo8/reparafacil/internal/core/ports"
)

type recordingService struct {
	mu   sync.Mutex
	seen []int64
	done chan struct{}
	want int
}

func (s *recordingService) Process(_ context.Context, job ports.AssignmentJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, job.ServiceID)
	if len(s.seen) == s.want {
		close(s.done)
	}
	return nil
}

func TestDispatcher_ProcessesEveryJob(t *testing.T) {
	svc := &recordingService{done: make(chan struct{}), want: 20}
	d := NewDispatcher(3, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := range int64(20) {
		d.Enqueue(ports.AssignmentJob{ServiceID: i + 1})
	}

	select {
	case <-svc.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("jobs not processed in time")
	}
}

func TestDispatcher_ShardIsStable(t *testing.T) {
	d := NewDispatcher(4, &recordingService{}, zerolog.Nop())
	for id := int64(1); id < 100; id++ {
		a, b := d.shardIndex(id), d.shardIndex(id)
		if a != b || a < 0 || a >= 4 {
			t.Fatalf("unstable or out of range shard for %d: %d %d", id, a, b)
		}
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &recordingService{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
