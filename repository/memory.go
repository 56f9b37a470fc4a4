package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/go-generalize/golf-score-memo/model"
	"golang.org/x/xerrors"
)

// MemoryRepository keeps round documents in memory with the same merge and ordering
// semantics as RoundRepository. It is used in tests and for running without a backend.
type MemoryRepository struct {
	mu       sync.Mutex
	docs     map[string]Document
	watchers map[int]chan struct{}
	nextID   int
	err      error

	// Now stamps updatedAt in place of the server timestamp
	Now func() time.Time
}

// NewMemoryRepository returns an empty repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		docs:     make(map[string]Document),
		watchers: make(map[int]chan struct{}),
		Now:      time.Now,
	}
}

// InjectError makes every following write fail with err until it is called with nil
func (repo *MemoryRepository) InjectError(err error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.err = err
}

func (repo *MemoryRepository) merge(dst, src Document, now time.Time) {
	for k, v := range src {
		switch val := v.(type) {
		case map[string]interface{}:
			if cur, ok := dst[k].(map[string]interface{}); ok {
				repo.merge(cur, val, now)
				continue
			}
			m := make(Document, len(val))
			repo.merge(m, val, now)
			dst[k] = m
		default:
			if v == firestore.ServerTimestamp {
				dst[k] = now
				continue
			}
			dst[k] = v
		}
	}
}

func copyDocument(doc Document) Document {
	res := make(Document, len(doc))
	for k, v := range doc {
		if m, ok := v.(map[string]interface{}); ok {
			res[k] = copyDocument(m)
			continue
		}
		res[k] = v
	}
	return res
}

// notify must be called with mu held
func (repo *MemoryRepository) notify() {
	for _, ch := range repo.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Upsert merges doc into the stored document and stamps updatedAt
func (repo *MemoryRepository) Upsert(ctx context.Context, id string, doc Document) error {
	if id == "" {
		return xerrors.New("id must not be empty")
	}
	if err := ctx.Err(); err != nil {
		return xerrors.Errorf("failed to upsert round %s: %w", id, err)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.err != nil {
		return xerrors.Errorf("failed to upsert round %s: %w", id, repo.err)
	}

	stored, ok := repo.docs[id]
	if !ok {
		stored = make(Document)
		repo.docs[id] = stored
	}
	repo.merge(stored, doc, repo.Now())
	stored[fieldUpdatedAt] = repo.Now()

	repo.notify()

	return nil
}

// Save writes the whole round with merge semantics
func (repo *MemoryRepository) Save(ctx context.Context, r *model.Round) error {
	return repo.Upsert(ctx, r.ID, EncodeRound(r))
}

// Delete removes the document. Deleting a missing document is not an error.
func (repo *MemoryRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return xerrors.Errorf("failed to delete round %s: %w", id, err)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.err != nil {
		return xerrors.Errorf("failed to delete round %s: %w", id, repo.err)
	}

	delete(repo.docs, id)
	repo.notify()

	return nil
}

// Document returns a copy of the raw stored fields
func (repo *MemoryRepository) Document(id string) (Document, bool) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	doc, ok := repo.docs[id]
	if !ok {
		return nil, false
	}
	return copyDocument(doc), true
}

// Get returns the round with the given id
func (repo *MemoryRepository) Get(_ context.Context, id string) (*model.Round, error) {
	doc, ok := repo.Document(id)
	if !ok {
		return nil, ErrNotFound
	}
	return decodeRound(id, doc)
}

// List returns every round ordered by updatedAt descending
func (repo *MemoryRepository) List(_ context.Context) ([]*model.Round, error) {
	repo.mu.Lock()
	docs := make(map[string]Document, len(repo.docs))
	for id, doc := range repo.docs {
		docs[id] = copyDocument(doc)
	}
	repo.mu.Unlock()

	rounds := make([]*model.Round, 0, len(docs))
	for id, doc := range docs {
		r, err := decodeRound(id, doc)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, r)
	}

	SortRounds(rounds)

	return rounds, nil
}

// Watch delivers the ordered list once immediately and again after every write
func (repo *MemoryRepository) Watch(ctx context.Context, fn func([]*model.Round)) (func(), error) {
	if fn == nil {
		return nil, xerrors.New("callback must not be nil")
	}

	ch := make(chan struct{}, 1)
	ch <- struct{}{}

	repo.mu.Lock()
	id := repo.nextID
	repo.nextID++
	repo.watchers[id] = ch
	repo.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ch:
			}

			rounds, err := repo.List(ctx)
			if err != nil {
				continue
			}
			fn(rounds)
		}
	}()

	return func() {
		repo.mu.Lock()
		delete(repo.watchers, id)
		repo.mu.Unlock()

		cancel()
		<-done
	}, nil
}

// SortRounds orders rounds by UpdatedAt descending, breaking ties by id
func SortRounds(rounds []*model.Round) {
	sort.SliceStable(rounds, func(i, j int) bool {
		a, b := rounds[i], rounds[j]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.ID > b.ID
	})
}
