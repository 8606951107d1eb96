package userstore

import (
	"context"
	"errors"
	"testing"

	"github.com/chainsafe/token-wallet/pkg/pgutil"
	mghelper "github.com/chainsafe/token-wallet/pkg/pgutil/migrations"
	"github.com/chainsafe/token-wallet/pkg/user"
)

func setupStore(t *testing.T) (context.Context, *pgStore) {
	t.Helper()

	ctx := context.Background()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	if err := mghelper.CreateSchema(ctx, db, &UserDao{}); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return ctx, NewStore(db)
}

func TestPGStore_CreateAndGetUser(t *testing.T) {
	ctx, store := setupStore(t)

	usr := user.New("Alice@Example.com", "pin-hash", "0xAbC0000000000000000000000000000000000001", "sealed")
	if err := store.CreateUser(ctx, usr); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	if usr.ID == 0 {
		t.Fatal("expected id to be assigned")
	}

	byEmail, err := store.GetUser(ctx, WithEmail("ALICE@example.com"))
	if err != nil {
		t.Fatalf("GetUser(email) failed: %v", err)
	}
	if byEmail.ID != usr.ID || byEmail.PINHash != "pin-hash" || byEmail.EncryptedKey != "sealed" {
		t.Fatalf("unexpected user %+v", byEmail)
	}

	byAddr, err := store.GetUser(ctx, WithScrollAddress("0xabc0000000000000000000000000000000000001"))
	if err != nil {
		t.Fatalf("GetUser(scroll) failed: %v", err)
	}
	if byAddr.ID != usr.ID {
		t.Fatalf("expected id %d, got %d", usr.ID, byAddr.ID)
	}

	if _, err := store.GetUser(ctx, WithID(usr.ID+100)); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPGStore_DuplicateEmail(t *testing.T) {
	ctx, store := setupStore(t)

	if err := store.CreateUser(ctx, user.New("bob@example.com", "h", "", "")); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	err := store.CreateUser(ctx, user.New("BOB@example.com", "h2", "", ""))
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	exists, err := store.EmailExists(ctx, "Bob@Example.com")
	if err != nil {
		t.Fatalf("EmailExists() failed: %v", err)
	}
	if !exists {
		t.Fatal("expected email to exist")
	}
}

func TestPGStore_SetStarknetAddress(t *testing.T) {
	ctx, store := setupStore(t)

	usr := user.New("carol@example.com", "h", "", "")
	if err := store.CreateUser(ctx, usr); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	addr := "0x04a1b2"
	if err := store.SetStarknetAddress(ctx, usr.ID, addr); err != nil {
		t.Fatalf("SetStarknetAddress() failed: %v", err)
	}
	got, err := store.GetUser(ctx, WithStarknetAddress("0x04A1B2"))
	if err != nil {
		t.Fatalf("GetUser(starknet) failed: %v", err)
	}
	if got.StarknetAddress != addr {
		t.Fatalf("expected %s, got %s", addr, got.StarknetAddress)
	}

	if err := store.SetStarknetAddress(ctx, usr.ID+100, addr); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers() failed: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
}
