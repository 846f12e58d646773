package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/videotube-dev/videotube/internal/domain/model"
)

func testUser(username string) *model.User {
	return &model.User{ID: uuid.New(), Username: username, Email: username + "@example.com", FullName: username}
}

func userResolver(cache *mockUserCache, repo *mockUserRepository) *BulkResolver[model.User] {
	return NewBulkResolver[model.User]("user", cache, repo, func(u *model.User) uuid.UUID { return u.ID })
}

// A request for [A, B, A, C] where A is cached and B, C are not must hit the
// cache once, fetch [B, C] from the store in one call, and still come back
// in input order with A appearing twice.
func TestBulkResolver_InputOrderWithDuplicates(t *testing.T) {
	userA := testUser("alice")
	userB := testUser("bob")
	userC := testUser("carol")

	cacheCalls := 0
	storeCalls := 0
	var storeIDs []uuid.UUID
	var repopulated []*model.User

	cache := &mockUserCache{
		getBatchFn: func(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
			cacheCalls++
			out := make([]*model.User, len(ids))
			for i, id := range ids {
				if id == userA.ID {
					out[i] = userA
				}
			}
			return out, nil
		},
		putBatchFn: func(ctx context.Context, users []*model.User) error {
			repopulated = users
			return nil
		},
	}
	repo := &mockUserRepository{
		findByIDsFn: func(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
			storeCalls++
			storeIDs = ids
			return []*model.User{userB, userC}, nil
		},
	}

	input := []uuid.UUID{userA.ID, userB.ID, userA.ID, userC.ID}
	out, resolved, err := userResolver(cache, repo).Resolve(context.Background(), input)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if cacheCalls != 1 {
		t.Errorf("cache batch reads = %d, want 1", cacheCalls)
	}
	if storeCalls != 1 {
		t.Errorf("store fetches = %d, want 1", storeCalls)
	}
	if len(storeIDs) != 2 || storeIDs[0] != userB.ID || storeIDs[1] != userC.ID {
		t.Errorf("store ids = %v, want [%v %v]", storeIDs, userB.ID, userC.ID)
	}

	want := []*model.User{userA, userB, userA, userC}
	if len(out) != len(want) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i].ID != want[i].ID {
			t.Errorf("out[%d] = %s, want %s", i, out[i].Username, want[i].Username)
		}
	}

	if len(repopulated) != 2 {
		t.Errorf("repopulated %d users, want 2", len(repopulated))
	}
	if len(resolved) != 3 {
		t.Errorf("resolved map size = %d, want 3", len(resolved))
	}
}

func TestBulkResolver_AllCached(t *testing.T) {
	userA := testUser("alice")

	cache := &mockUserCache{
		getBatchFn: func(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
			return []*model.User{userA}, nil
		},
	}
	repo := &mockUserRepository{
		findByIDsFn: func(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
			t.Error("store should not be called when everything is cached")
			return nil, nil
		},
	}

	out, _, err := userResolver(cache, repo).Resolve(context.Background(), []uuid.UUID{userA.ID})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(out) != 1 || out[0].ID != userA.ID {
		t.Errorf("out = %v, want [alice]", out)
	}
}

// Missing entities are dropped from the slice but absent from the map, so
// callers can tell "missing" apart from "never requested".
func TestBulkResolver_MissingEntitiesDropped(t *testing.T) {
	userA := testUser("alice")
	ghost := uuid.New()

	cache := &mockUserCache{}
	repo := &mockUserRepository{
		findByIDsFn: func(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
			return []*model.User{userA}, nil
		},
	}

	out, resolved, err := userResolver(cache, repo).Resolve(context.Background(), []uuid.UUID{userA.ID, ghost})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(out) != 1 || out[0].ID != userA.ID {
		t.Errorf("out = %v, want only alice", out)
	}
	if _, ok := resolved[ghost]; ok {
		t.Error("ghost id should not be in the resolved map")
	}
}

// A failing cache degrades to an all-miss read; every id goes to the store.
func TestBulkResolver_CacheFailureDegrades(t *testing.T) {
	userA := testUser("alice")
	userB := testUser("bob")

	cache := &mockUserCache{
		getBatchFn: func(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
			return nil, errors.New("redis down")
		},
		putBatchFn: func(ctx context.Context, users []*model.User) error {
			return errors.New("redis still down")
		},
	}
	repo := &mockUserRepository{
		findByIDsFn: func(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
			if len(ids) != 2 {
				t.Errorf("store ids = %v, want both", ids)
			}
			return []*model.User{userA, userB}, nil
		},
	}

	out, _, err := userResolver(cache, repo).Resolve(context.Background(), []uuid.UUID{userA.ID, userB.ID})
	if err != nil {
		t.Fatalf("Resolve should tolerate cache failure, got: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("len(out) = %d, want 2", len(out))
	}
}

func TestBulkResolver_StoreFailureIsFatal(t *testing.T) {
	storeErr := errors.New("connection refused")

	cache := &mockUserCache{}
	repo := &mockUserRepository{
		findByIDsFn: func(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
			return nil, storeErr
		},
	}

	_, _, err := userResolver(cache, repo).Resolve(context.Background(), []uuid.UUID{uuid.New()})
	if !errors.Is(err, storeErr) {
		t.Errorf("Resolve error = %v, want wrapped store error", err)
	}
}

func TestBulkResolver_EmptyInput(t *testing.T) {
	cache := &mockUserCache{
		getBatchFn: func(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
			t.Error("cache should not be called for empty input")
			return nil, nil
		},
	}

	out, resolved, err := userResolver(cache, &mockUserRepository{}).Resolve(context.Background(), nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if out != nil {
		t.Errorf("out = %v, want nil", out)
	}
	if len(resolved) != 0 {
		t.Errorf("resolved = %v, want empty", resolved)
	}
}
