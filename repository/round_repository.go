// Package repository persists rounds in Cloud Firestore under users/{uid}/rounds
package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/go-generalize/golf-score-memo/model"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection  = "users"
	roundsCollection = "rounds"
)

// ErrNotFound is returned when a round document does not exist
var ErrNotFound = xerrors.New("round not found")

// RoundRepository reads and writes one user's rounds
type RoundRepository struct {
	collection *firestore.CollectionRef
	logger     *zap.Logger
}

// NewRoundRepository returns a repository scoped to the user uid
func NewRoundRepository(firestoreClient *firestore.Client, uid string, logger *zap.Logger) *RoundRepository {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RoundRepository{
		collection: firestoreClient.Collection(usersCollection).Doc(uid).Collection(roundsCollection),
		logger:     logger.With(zap.String("uid", uid)),
	}
}

func (repo *RoundRepository) query() firestore.Query {
	return repo.collection.OrderBy(fieldUpdatedAt, firestore.Desc)
}

func decodeSnapshot(doc *firestore.DocumentSnapshot) (*model.Round, error) {
	d := new(roundDocument)
	if err := doc.DataTo(d); err != nil {
		return nil, xerrors.Errorf("failed to decode round %s: %w", doc.Ref.ID, err)
	}
	d.ID = doc.Ref.ID

	return d.round()
}

func (repo *RoundRepository) decodeAll(iter *firestore.DocumentIterator) ([]*model.Round, error) {
	docs, err := iter.GetAll()
	if err != nil {
		return nil, xerrors.Errorf("failed to get documents: %w", err)
	}

	rounds := make([]*model.Round, 0, len(docs))
	for _, doc := range docs {
		r, err := decodeSnapshot(doc)
		if err != nil {
			// 壊れた1件で一覧全体を落とさない
			repo.logger.Warn("skip undecodable round", zap.String("id", doc.Ref.ID), zap.Error(err))
			continue
		}
		rounds = append(rounds, r)
	}

	return rounds, nil
}

// Get returns the round with the given id
func (repo *RoundRepository) Get(ctx context.Context, id string) (*model.Round, error) {
	doc, err := repo.collection.Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, xerrors.Errorf("failed to get round %s: %w", id, err)
	}

	return decodeSnapshot(doc)
}

// List returns every round ordered by updatedAt descending
func (repo *RoundRepository) List(ctx context.Context) ([]*model.Round, error) {
	return repo.decodeAll(repo.query().Documents(ctx))
}

// Watch delivers the ordered round list on every remote change until the returned stop func is called.
// fn runs on the listener goroutine.
func (repo *RoundRepository) Watch(ctx context.Context, fn func([]*model.Round)) (func(), error) {
	if fn == nil {
		return nil, xerrors.New("callback must not be nil")
	}

	ctx, cancel := context.WithCancel(ctx)
	it := repo.query().Snapshots(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer it.Stop()

		for {
			snap, err := it.Next()
			if err != nil {
				if err == iterator.Done || status.Code(err) == codes.Canceled || xerrors.Is(err, context.Canceled) {
					return
				}
				repo.logger.Error("round listener stopped", zap.Error(err))
				return
			}

			rounds, err := repo.decodeAll(snap.Documents)
			if err != nil {
				repo.logger.Error("failed to read round snapshot", zap.Error(err))
				continue
			}
			fn(rounds)
		}
	}()

	return func() {
		cancel()
		<-done
	}, nil
}

// Upsert merges doc into the round document id, creating it when missing.
// updatedAt is always replaced by the server timestamp.
func (repo *RoundRepository) Upsert(ctx context.Context, id string, doc Document) error {
	if id == "" {
		return xerrors.New("id must not be empty")
	}

	data := make(Document, len(doc)+1)
	for k, v := range doc {
		data[k] = v
	}
	data[fieldUpdatedAt] = firestore.ServerTimestamp

	if _, err := repo.collection.Doc(id).Set(ctx, data, firestore.MergeAll); err != nil {
		return xerrors.Errorf("failed to upsert round %s: %w", id, err)
	}

	return nil
}

// Save writes the whole round with merge semantics
func (repo *RoundRepository) Save(ctx context.Context, r *model.Round) error {
	return repo.Upsert(ctx, r.ID, EncodeRound(r))
}

// Delete removes the round document
func (repo *RoundRepository) Delete(ctx context.Context, id string) error {
	if _, err := repo.collection.Doc(id).Delete(ctx); err != nil {
		return xerrors.Errorf("failed to delete round %s: %w", id, err)
	}

	return nil
}
