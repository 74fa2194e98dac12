package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

type visit struct {
	client string
	seq    int
}

func TestDispatcher_PreservesPerKeyOrder(t *testing.T) {
	var mu sync.Mutex
	seen := map[string][]int{}

	d := NewDispatcher(4,
		func(v visit) string { return v.client },
		func(_ context.Context, v visit) error {
			mu.Lock()
			seen[v.client] = append(seen[v.client], v.seq)
			mu.Unlock()
			return nil
		},
		zerolog.Nop(),
	)
	d.Start(context.Background())

	ctx := context.Background()
	for seq := 0; seq < 50; seq++ {
		for c := 0; c < 5; c++ {
			if err := d.Enqueue(ctx, visit{client: fmt.Sprintf("c%d", c), seq: seq}); err != nil {
				t.Fatalf("enqueue: %v", err)
			}
		}
	}
	d.Stop()

	for c := 0; c < 5; c++ {
		got := seen[fmt.Sprintf("c%d", c)]
		if len(got) != 50 {
			t.Fatalf("client c%d: expected 50 items, got %d", c, len(got))
		}
		for i, seq := range got {
			if seq != i {
				t.Fatalf("client c%d: out of order at %d: %v", c, i, got)
			}
		}
	}
}

func TestDispatcher_StopRejectsNewItems(t *testing.T) {
	d := NewDispatcher(1,
		func(v visit) string { return v.client },
		func(context.Context, visit) error { return nil },
		zerolog.Nop(),
	)
	d.Start(context.Background())
	d.Stop()
	d.Stop()

	if err := d.Enqueue(context.Background(), visit{client: "c1"}); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestDispatcher_HandlerErrorsDoNotStopWorker(t *testing.T) {
	var mu sync.Mutex
	handled := 0

	d := NewDispatcher(1,
		func(v visit) string { return v.client },
		func(_ context.Context, v visit) error {
			mu.Lock()
			handled++
			mu.Unlock()
			if v.seq == 0 {
				return errors.New("storage down")
			}
			return nil
		},
		zerolog.Nop(),
	)
	d.Start(context.Background())

	ctx := context.Background()
	_ = d.Enqueue(ctx, visit{client: "c1", seq: 0})
	_ = d.Enqueue(ctx, visit{client: "c1", seq: 1})
	d.Stop()

	if handled != 2 {
		t.Fatalf("expected both items handled, got %d", handled)
	}
}
