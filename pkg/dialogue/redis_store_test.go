package dialogue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/keywords"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, time.Hour)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	s := &Session{
		ID:    "abc-123",
		State: StateEngaging,
		Messages: []Message{
			{Role: RoleAdversary, Text: "hey", Timestamp: time.Now().UTC().Truncate(time.Second)},
		},
	}
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, "abc-123")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != StateEngaging || len(got.Messages) != 1 || got.Messages[0].Text != "hey" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestRedisStoreNotFound(t *testing.T) {
	store := newTestRedisStore(t)
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRedisStoreDelete(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	s := &Session{ID: "gone", State: StateConcluded}
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, "gone"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "gone"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestRedisStoreEngineConclusion(t *testing.T) {
	store := newTestRedisStore(t)
	engine := NewEngine(store, &fakeResponder{}, keywords.NewRegistry())
	ctx := context.Background()

	s, err := engine.StartSession(ctx)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	res, err := engine.Turn(ctx, s.ID, "send it to bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq")
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if res.State != StateConcluded {
		t.Fatalf("expected CONCLUDED, got %s", res.State)
	}

	// Conclusion is durable across a fresh load.
	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != StateConcluded || got.Trigger == nil {
		t.Fatalf("conclusion not persisted: %+v", got)
	}
}
