//go:build emulator
// +build emulator

package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/go-generalize/golf-score-memo/model"
	"golang.org/x/xerrors"
)

func initFirestoreClient(t *testing.T) *firestore.Client {
	t.Helper()

	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		os.Setenv("FIRESTORE_EMULATOR_HOST", "localhost:8000")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := firestore.NewClient(ctx, "testing")
	if err != nil {
		t.Fatalf("failed to initialize firestore client: %+v", err)
	}

	return client
}

func TestFirestoreRoundRepository(t *testing.T) {
	client := initFirestoreClient(t)
	defer client.Close()

	uid := fmt.Sprintf("user-%d", time.Now().UnixNano())
	repo := NewRoundRepository(client, uid, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	r := testRound(t, time.Now())

	t.Run("Save", func(tr *testing.T) {
		if err := repo.Save(ctx, r); err != nil {
			tr.Fatalf("%+v", err)
		}

		got, err := repo.Get(ctx, r.ID)
		if err != nil {
			tr.Fatalf("%+v", err)
		}
		if got.CourseName != r.CourseName || got.Hole(5).Score != 7 {
			tr.Fatalf("unexpected round: %+v", got)
		}
		if got.UpdatedAt.IsZero() {
			tr.Fatal("updatedAt must be set by the server")
		}
	})

	t.Run("MergeUnion", func(tr *testing.T) {
		if err := repo.Upsert(ctx, r.ID, Document{"courseName": "A"}); err != nil {
			tr.Fatalf("%+v", err)
		}
		if err := repo.Upsert(ctx, r.ID, Document{"memo": "B"}); err != nil {
			tr.Fatalf("%+v", err)
		}

		got, err := repo.Get(ctx, r.ID)
		if err != nil {
			tr.Fatalf("%+v", err)
		}
		if got.CourseName != "A" || got.Memo != "B" {
			tr.Fatalf("unexpected fields: %s / %s", got.CourseName, got.Memo)
		}
		if got.Hole(5).Shots[2].Club != model.ClubSW {
			tr.Fatalf("holes must survive partial writes: %+v", got.Hole(5))
		}
	})

	t.Run("Watch", func(tr *testing.T) {
		updates := make(chan []*model.Round, 10)
		stop, err := repo.Watch(ctx, func(rounds []*model.Round) {
			updates <- rounds
		})
		if err != nil {
			tr.Fatalf("%+v", err)
		}
		defer stop()

		select {
		case rounds := <-updates:
			if len(rounds) != 1 || rounds[0].ID != r.ID {
				tr.Fatalf("unexpected snapshot: %d rounds", len(rounds))
			}
		case <-time.After(10 * time.Second):
			tr.Fatal("timed out waiting for snapshot")
		}
	})

	t.Run("Delete", func(tr *testing.T) {
		if err := repo.Delete(ctx, r.ID); err != nil {
			tr.Fatalf("%+v", err)
		}
		if _, err := repo.Get(ctx, r.ID); !xerrors.Is(err, ErrNotFound) {
			tr.Fatalf("unexpected error: %+v", err)
		}
	})
}
