package auth

import (
	"testing"
	"time"

	"shoplens/internal/config"
	"shoplens/internal/errors"
)

func testAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	a, err := NewAuthenticator(config.AuthConfig{Credentials: []config.Credential{
		{Username: "boss", Password: "s3cret", Role: "admin"},
		{Username: "ana", Password: "hunter2", Role: "user_analyst"},
	}})
	if err != nil {
		t.Fatalf("NewAuthenticator failed: %v", err)
	}
	return a
}

func TestAuthenticate_Success(t *testing.T) {
	a := testAuthenticator(t)
	role, err := a.Authenticate("boss", "s3cret")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if role != RoleAdmin {
		t.Errorf("expected admin role, got %s", role)
	}
}

func TestAuthenticate_Failures(t *testing.T) {
	a := testAuthenticator(t)
	cases := []struct{ user, pass string }{
		{"boss", "wrong"},
		{"nobody", "s3cret"},
		{"", ""},
	}
	for _, c := range cases {
		if _, err := a.Authenticate(c.user, c.pass); errors.GetCode(err) != errors.CodeUnauthorized {
			t.Errorf("Authenticate(%q, %q): expected UNAUTHORIZED, got %v", c.user, c.pass, err)
		}
	}
}

func TestNewAuthenticator_RejectsUnknownRole(t *testing.T) {
	_, err := NewAuthenticator(config.AuthConfig{Credentials: []config.Credential{
		{Username: "x", Password: "y", Role: "superuser"},
	}})
	if err == nil {
		t.Fatal("a typo'd role must fail startup")
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range Roles {
		if got, err := ParseRole(string(r)); err != nil || got != r {
			t.Errorf("ParseRole(%q) = %v, %v", r, got, err)
		}
	}
	if _, err := ParseRole("Admin"); err == nil {
		t.Error("role parsing must be exact, not case-folded")
	}
}

func TestSessionStore_CreateDefaultsToFullRange(t *testing.T) {
	lo := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	hi := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	store := NewSessionStore(lo, hi)

	token := store.Create("boss", RoleAdmin)
	sc, err := store.Context(token)
	if err != nil {
		t.Fatalf("Context failed: %v", err)
	}
	if !sc.StartDate.Equal(lo) || !sc.EndDate.Equal(hi) {
		t.Errorf("new session must filter the full observed range, got %v..%v",
			sc.StartDate, sc.EndDate)
	}
	if sc.Username != "boss" || sc.Role != RoleAdmin {
		t.Errorf("unexpected identity: %+v", sc)
	}
}

func TestSessionStore_SetDateRangeClampsToBounds(t *testing.T) {
	lo := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	hi := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	store := NewSessionStore(lo, hi)
	token := store.Create("ana", RoleUserAnalyst)

	sc, err := store.SetDateRange(token,
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("SetDateRange failed: %v", err)
	}
	if !sc.StartDate.Equal(lo) || !sc.EndDate.Equal(hi) {
		t.Errorf("out-of-bounds range must clamp, got %v..%v", sc.StartDate, sc.EndDate)
	}
}

func TestSessionStore_RejectsInvertedRange(t *testing.T) {
	store := NewSessionStore(
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	token := store.Create("ana", RoleUserAnalyst)

	_, err := store.SetDateRange(token,
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if errors.GetCode(err) != errors.CodeInvalidInput {
		t.Errorf("inverted range must be INVALID_INPUT, got %v", err)
	}
}

func TestSessionStore_ContextIsImmutableSnapshot(t *testing.T) {
	store := NewSessionStore(
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	token := store.Create("ana", RoleUserAnalyst)

	before, _ := store.Context(token)
	mid := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, err := store.SetDateRange(token, mid, mid); err != nil {
		t.Fatalf("SetDateRange failed: %v", err)
	}

	// The snapshot handed out earlier does not see the change.
	if !before.EndDate.Equal(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("earlier snapshot mutated: %+v", before)
	}
	after, _ := store.Context(token)
	if !after.StartDate.Equal(mid) || !after.EndDate.Equal(mid) {
		t.Errorf("new snapshot must carry the new range, got %+v", after)
	}
}

func TestSessionStore_ExpiredTokenIsRevoked(t *testing.T) {
	store := NewSessionStore(
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	token := store.Create("ana", RoleUserAnalyst)

	// Age the session past its lifetime.
	state := store.sessions[token]
	state.createdAt = time.Now().Add(-sessionTTL - time.Minute)
	store.sessions[token] = state

	if _, err := store.Context(token); errors.GetCode(err) != errors.CodeUnauthorized {
		t.Errorf("an expired token must be UNAUTHORIZED, got %v", err)
	}
	if _, ok := store.sessions[token]; ok {
		t.Error("an expired token must be removed from the store")
	}
}

func TestSessionStore_Revoke(t *testing.T) {
	store := NewSessionStore(
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	token := store.Create("ana", RoleUserAnalyst)

	store.Revoke(token)
	if _, err := store.Context(token); errors.GetCode(err) != errors.CodeUnauthorized {
		t.Errorf("a revoked token must be UNAUTHORIZED, got %v", err)
	}
	store.Revoke("never-issued") // no-op
}
