package registry

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"attendance-service/internal/model"
)

type stubFetcher struct {
	users []model.RegisteredUser
	err   error
}

func (f *stubFetcher) FetchUsers(ctx context.Context) ([]model.RegisteredUser, error) {
	return f.users, f.err
}

func TestReloadReplacesSnapshot(t *testing.T) {
	fetcher := &stubFetcher{users: []model.RegisteredUser{
		{CardID: "1234567890", Role: model.RoleStudent, Name: "A. Kumar", RollNo: "17"},
		{CardID: "TCHR567890", Role: model.RoleTeacher, Name: "T. Rao", Subject: "Mathematics"},
	}}
	store := NewStore(fetcher, zap.NewNop())

	if err := store.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if store.Count() != 2 {
		t.Fatalf("expected 2 users, got %d", store.Count())
	}

	user, ok := store.Lookup("TCHR567890")
	if !ok || user.Role != model.RoleTeacher || user.Subject != "Mathematics" {
		t.Fatalf("unexpected lookup result: %+v ok=%v", user, ok)
	}

	// A shrunk snapshot replaces the old one wholesale
	fetcher.users = fetcher.users[:1]
	if err := store.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, ok := store.Lookup("TCHR567890"); ok {
		t.Fatal("removed user should be gone after reload")
	}
}

func TestReloadFailureKeepsSnapshot(t *testing.T) {
	fetcher := &stubFetcher{users: []model.RegisteredUser{
		{CardID: "1234567890", Role: model.RoleStudent, Name: "A. Kumar"},
	}}
	store := NewStore(fetcher, zap.NewNop())
	if err := store.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	fetcher.err = model.ErrRegistryFetchFailed
	if err := store.Reload(context.Background()); !errors.Is(err, model.ErrRegistryFetchFailed) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if store.Count() != 1 {
		t.Fatal("failed reload must keep the previous snapshot")
	}
	if _, ok := store.Lookup("1234567890"); !ok {
		t.Fatal("existing user should survive a failed reload")
	}
}

func TestInsertAddsAndReplaces(t *testing.T) {
	store := NewStore(&stubFetcher{}, zap.NewNop())

	store.Insert(model.RegisteredUser{CardID: "1234567890", Role: model.RoleStudent, Name: "A. Kumar"})
	if store.Count() != 1 {
		t.Fatalf("expected 1 user, got %d", store.Count())
	}

	store.Insert(model.RegisteredUser{CardID: "1234567890", Role: model.RoleStudent, Name: "A. K. Kumar"})
	if store.Count() != 1 {
		t.Fatal("re-registering a card must replace, not duplicate")
	}
	user, _ := store.Lookup("1234567890")
	if user.Name != "A. K. Kumar" {
		t.Fatalf("expected replacement to win, got %+v", user)
	}
}

func TestLookupUnknownCard(t *testing.T) {
	store := NewStore(&stubFetcher{}, zap.NewNop())
	if _, ok := store.Lookup("UNKNOWN999"); ok {
		t.Fatal("unknown card should not resolve")
	}
}
