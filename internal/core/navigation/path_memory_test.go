package navigation

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/staybook/portal/internal/infrastructure/storage/memory"
)

func TestPathMemory_MountRestoresFromRoot(t *testing.T) {
	ctx := context.Background()
	m := NewPathMemory(memory.NewProvider().ForClient("c1"), zerolog.Nop())
	if err := m.Record(ctx, "/account/bookings"); err != nil {
		t.Fatalf("record: %v", err)
	}

	target, ok := m.Mount(ctx, "/")
	if !ok || target != "/account/bookings" {
		t.Fatalf("expected redirect to /account/bookings, got %q %v", target, ok)
	}
	if _, ok := m.Mount(ctx, "/"); ok {
		t.Fatalf("expected mount check to run only once")
	}
}

func TestPathMemory_MountNoRedirect(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		last    string
		current string
	}{
		{name: "nothing remembered", current: "/"},
		{name: "not on root", last: "/hotels", current: "/restaurants"},
		{name: "remembered root", last: "/", current: "/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewPathMemory(memory.NewProvider().ForClient("c1"), zerolog.Nop())
			if tc.last != "" {
				_ = m.Record(ctx, tc.last)
			}
			if target, ok := m.Mount(ctx, tc.current); ok {
				t.Fatalf("unexpected redirect to %q", target)
			}
		})
	}
}

func TestPathMemory_FirstMountElsewhereDisablesRestore(t *testing.T) {
	ctx := context.Background()
	m := NewPathMemory(memory.NewProvider().ForClient("c1"), zerolog.Nop())
	_ = m.Record(ctx, "/hotels/3")

	if _, ok := m.Mount(ctx, "/hotels"); ok {
		t.Fatalf("unexpected redirect off root")
	}
	if _, ok := m.Mount(ctx, "/"); ok {
		t.Fatalf("later navigation to root must not redirect")
	}
}

func TestPathMemory_RecordIgnoresEmpty(t *testing.T) {
	ctx := context.Background()
	m := NewPathMemory(memory.NewProvider().ForClient("c1"), zerolog.Nop())
	_ = m.Record(ctx, "/hotels")
	_ = m.Record(ctx, "")

	last, ok, err := m.Last(ctx)
	if err != nil || !ok || last != "/hotels" {
		t.Fatalf("expected /hotels, got %q %v %v", last, ok, err)
	}
}
