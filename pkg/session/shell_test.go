package session

import (
	"path/filepath"
	"testing"
)

const testAddress = "0x1234567890abcdef1234567890abcdef12345678"

func openTestStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	store, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestShell_FreshStoreNotAuthenticated(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "session.db"))

	shell, err := NewShell(store)
	if err != nil {
		t.Fatalf("NewShell: %v", err)
	}
	if shell.Authenticated() {
		t.Error("fresh shell should not be authenticated")
	}
	if shell.Address() != "" {
		t.Errorf("Address = %q, want empty", shell.Address())
	}
}

func TestShell_LoginPersistsAndRestores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	store := openTestStore(t, path)

	shell, err := NewShell(store)
	if err != nil {
		t.Fatalf("NewShell: %v", err)
	}
	if err := shell.Login(testAddress); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !shell.Authenticated() {
		t.Error("shell should be authenticated after login")
	}
	store.Close()

	// A fresh startup must restore the session from the store alone,
	// with no provider involved.
	restoredStore := openTestStore(t, path)
	restored, err := NewShell(restoredStore)
	if err != nil {
		t.Fatalf("NewShell (restore): %v", err)
	}
	if !restored.Authenticated() {
		t.Error("restored shell should be authenticated")
	}
	if restored.Address() != testAddress {
		t.Errorf("restored Address = %q, want %q", restored.Address(), testAddress)
	}
}

func TestShell_LogoutClearsStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	store := openTestStore(t, path)

	shell, err := NewShell(store)
	if err != nil {
		t.Fatalf("NewShell: %v", err)
	}
	if err := shell.Login(testAddress); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := shell.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if shell.Authenticated() || shell.Address() != "" {
		t.Errorf("after logout: authenticated=%v address=%q", shell.Authenticated(), shell.Address())
	}
	store.Close()

	freshStore := openTestStore(t, path)
	fresh, err := NewShell(freshStore)
	if err != nil {
		t.Fatalf("NewShell (fresh): %v", err)
	}
	if fresh.Authenticated() {
		t.Error("fresh startup after logout should not be authenticated")
	}
	if fresh.Address() != "" {
		t.Errorf("fresh Address = %q, want empty", fresh.Address())
	}
}

func TestShell_LoginRejectsMalformedAddress(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "session.db"))

	shell, err := NewShell(store)
	if err != nil {
		t.Fatalf("NewShell: %v", err)
	}

	for _, bad := range []string{"", "hello", "0x123", "1234567890abcdef1234567890abcdef1234567g"} {
		if err := shell.Login(bad); err != ErrInvalidAddress {
			t.Errorf("Login(%q) = %v, want ErrInvalidAddress", bad, err)
		}
	}
	if shell.Authenticated() {
		t.Error("failed logins must not authenticate")
	}
}
