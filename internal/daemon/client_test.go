package daemon

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/theirongolddev/blossom/internal/intake"
	"github.com/theirongolddev/blossom/internal/store"
)

func TestClientRoundTrip(t *testing.T) {
	s := newTestService(t, store.NewMemory())
	s.pollOnce(context.Background())
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	c := NewClient(strings.TrimPrefix(srv.URL, "http://"))
	ctx := context.Background()

	if err := c.Health(ctx); err != nil {
		t.Fatalf("Health: %v", err)
	}

	st, err := c.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Summary.Gifts != 4 {
		t.Fatalf("Summary.Gifts = %d, want 4", st.Summary.Gifts)
	}

	g, persisted, err := c.AddGift(ctx, intake.Fields{Donor: "Lupe Garden", Amount: "60"})
	if err != nil {
		t.Fatalf("AddGift: %v", err)
	}
	if !persisted || g.Donor != "Lupe Garden" || g.Amount != "60" {
		t.Fatalf("AddGift = %+v persisted=%v", g, persisted)
	}

	gifts, err := c.Gifts(ctx)
	if err != nil {
		t.Fatalf("Gifts: %v", err)
	}
	if len(gifts) != 5 {
		t.Fatalf("Gifts = %d, want 5", len(gifts))
	}
}

func TestClientAddGiftRejected(t *testing.T) {
	s := newTestService(t, store.NewMemory())
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	_, _, err := NewClient(srv.URL).AddGift(context.Background(), intake.Fields{Donor: "Ana", Amount: "-5"})
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("err = %v, want ErrRejected", err)
	}
	if !strings.Contains(err.Error(), intake.ErrAmountNotPositive.Error()) {
		t.Fatalf("err = %v, want the validation reason", err)
	}
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(nil)
	addr := srv.URL
	srv.Close()

	if err := NewClient(addr).Health(context.Background()); !errors.Is(err, ErrUnreachable) {
		t.Fatalf("err = %v, want ErrUnreachable", err)
	}
}

func TestNewClientBaseURL(t *testing.T) {
	for in, want := range map[string]string{
		"127.0.0.1:8788":         "http://127.0.0.1:8788",
		"http://localhost:9000/": "http://localhost:9000",
		" https://gifts.local ":  "https://gifts.local",
	} {
		if got := NewClient(in).baseURL; got != want {
			t.Errorf("NewClient(%q).baseURL = %q, want %q", in, got, want)
		}
	}
}
