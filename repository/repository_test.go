package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-generalize/golf-score-memo/model"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/xerrors"
)

func testRound(t *testing.T, at time.Time) *model.Round {
	t.Helper()

	r := model.NewRoundAt(at)
	r.CourseName = "テストCC"
	r.Memo = "memo"

	h := r.Hole(5)
	h.Score = 7
	h.Shots[2].Club = model.ClubSW
	h.Shots[2].DirectionStart = model.StartTopped
	h.Shots[2].OB = true
	h.Completed = true
	r.SetHole(5, h)

	return r
}

func TestEncodeRound(t *testing.T) {
	r := testRound(t, time.Now())
	doc := EncodeRound(r)

	if _, ok := doc["id"]; ok {
		t.Fatal("id must not be written as a field")
	}
	if doc["courseName"] != "テストCC" || doc["inProgress"] != true {
		t.Fatalf("unexpected fields: %v", doc)
	}

	holes, ok := doc[fieldHoles].(map[string]interface{})
	if !ok || len(holes) != model.HoleCount {
		t.Fatalf("unexpected holes: %v", doc[fieldHoles])
	}

	h5 := holes["5"].(map[string]interface{})
	want := map[string]interface{}{"score": int64(7), "shot3Club": "SW", "shot3DirectionStart": "ちょろ", "shot3OB": true, "completed": true}
	for k, v := range want {
		if h5[k] != v {
			t.Fatalf("unexpected %s: %v (expected: %v)", k, h5[k], v)
		}
	}
}

func TestDecodeRound(t *testing.T) {
	r := testRound(t, time.Now().Truncate(time.Millisecond))

	got, err := decodeRound(r.ID, EncodeRound(r))
	if err != nil {
		t.Fatalf("%+v", err)
	}

	if diff := cmp.Diff(r, got); diff != "" {
		t.Fatalf("unexpected round (-want +got):\n%s", diff)
	}

	t.Run("MissingHolesAreDefaulted", func(tr *testing.T) {
		doc := EncodeRound(r)
		delete(doc[fieldHoles].(map[string]interface{}), "18")

		got, err := decodeRound(r.ID, doc)
		if err != nil {
			tr.Fatalf("%+v", err)
		}
		if diff := cmp.Diff(model.DefaultHole(), got.Holes[18]); diff != "" {
			tr.Fatalf("unexpected hole 18 (-want +got):\n%s", diff)
		}
	})

	t.Run("InvalidHoleKey", func(tr *testing.T) {
		doc := EncodeRound(r)
		doc[fieldHoles].(map[string]interface{})["19"] = map[string]interface{}{}

		if _, err := decodeRound(r.ID, doc); err == nil {
			tr.Fatal("hole 19 must be rejected")
		}
	})

	t.Run("TypeMismatch", func(tr *testing.T) {
		doc := EncodeRound(r)
		doc["courseName"] = int64(1)

		if _, err := decodeRound(r.ID, doc); err == nil {
			tr.Fatal("type mismatch must be rejected")
		}
	})
}

func TestMemoryUpsertMerges(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	if err := repo.Upsert(ctx, "1", Document{"courseName": "A", "holes": map[string]interface{}{"1": map[string]interface{}{"score": int64(5)}}}); err != nil {
		t.Fatalf("%+v", err)
	}
	if err := repo.Upsert(ctx, "1", Document{"memo": "B", "holes": map[string]interface{}{"1": map[string]interface{}{"putts": int64(3)}}}); err != nil {
		t.Fatalf("%+v", err)
	}

	doc, ok := repo.Document("1")
	if !ok {
		t.Fatal("document must exist")
	}

	if doc["courseName"] != "A" || doc["memo"] != "B" {
		t.Fatalf("second write must not drop fields of the first: %v", doc)
	}
	h1 := doc["holes"].(map[string]interface{})["1"].(map[string]interface{})
	if h1["score"] != int64(5) || h1["putts"] != int64(3) {
		t.Fatalf("nested fields must merge: %v", h1)
	}
	if _, ok := doc[fieldUpdatedAt].(time.Time); !ok {
		t.Fatalf("updatedAt must be stamped: %v", doc[fieldUpdatedAt])
	}
}

func TestMemoryListOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo.Now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	a, b := testRound(t, base), testRound(t, base)
	for _, r := range []*model.Round{a, b, a} {
		if err := repo.Save(ctx, r); err != nil {
			t.Fatalf("%+v", err)
		}
	}

	rounds, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(rounds) != 2 || rounds[0].ID != a.ID || rounds[1].ID != b.ID {
		t.Fatalf("unexpected order: %v", ids(rounds))
	}

	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("%+v", err)
	}
	if _, err := repo.Get(ctx, a.ID); !xerrors.Is(err, ErrNotFound) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestMemoryInjectError(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	errBackend := xerrors.New("backend unavailable")

	repo.InjectError(errBackend)
	if err := repo.Save(ctx, testRound(t, time.Now())); !xerrors.Is(err, errBackend) {
		t.Fatalf("unexpected error: %+v", err)
	}

	repo.InjectError(nil)
	if err := repo.Save(ctx, testRound(t, time.Now())); err != nil {
		t.Fatalf("%+v", err)
	}
}

func TestMemoryWatch(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	var (
		mu       sync.Mutex
		received [][]*model.Round
	)
	updates := make(chan struct{}, 10)

	stop, err := repo.Watch(ctx, func(rounds []*model.Round) {
		mu.Lock()
		received = append(received, rounds)
		mu.Unlock()
		updates <- struct{}{}
	})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	defer stop()

	wait := func() {
		t.Helper()
		select {
		case <-updates:
		case <-time.After(3 * time.Second):
			t.Fatal("timed out waiting for snapshot")
		}
	}

	wait()

	r := testRound(t, time.Now())
	if err := repo.Save(ctx, r); err != nil {
		t.Fatalf("%+v", err)
	}
	wait()

	mu.Lock()
	last := received[len(received)-1]
	mu.Unlock()

	if len(last) != 1 || last[0].ID != r.ID {
		t.Fatalf("unexpected snapshot: %v", ids(last))
	}
}

func ids(rounds []*model.Round) []string {
	res := make([]string, 0, len(rounds))
	for _, r := range rounds {
		res = append(res, r.ID)
	}
	return res
}
