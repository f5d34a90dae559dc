package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ErlanBelekov/briefly/internal/domain"
	"github.com/ErlanBelekov/briefly/internal/usecase"
	"golang.org/x/crypto/bcrypt"
)

// ---- helpers ----

type authFixture struct {
	users    *memUserRepo
	sessions *memSessionRepo
	clock    *fakeClock
	uc       *usecase.AuthUsecase
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:    newMemUserRepo(),
		sessions: newMemSessionRepo(),
		clock:    newFakeClock(),
	}
	sm := usecase.NewSessionManager(f.sessions, []byte(testJWTKey),
		usecase.WithClock(f.clock.Now),
		usecase.WithSessionTTL(7*24*time.Hour),
	)
	f.uc = usecase.NewAuthUsecase(f.users, sm, usecase.WithBcryptCost(bcrypt.MinCost))
	return f
}

func (f *authFixture) register(t *testing.T, name, email, password string) *usecase.AuthResult {
	t.Helper()
	res, err := f.uc.Register(context.Background(), usecase.RegisterInput{Name: name, Email: email, Password: password})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return res
}

// ---- Register ----

func TestRegister_ReturnsProjectionAndToken(t *testing.T) {
	f := newAuthFixture()

	res := f.register(t, "Ann", "a@x.com", "pw1")

	if res.Token == "" {
		t.Fatal("empty token")
	}
	if res.User.ID == "" || res.User.Email != "a@x.com" || res.User.Name != "Ann" {
		t.Errorf("unexpected user projection %+v", res.User)
	}
	if res.User.Role != domain.RoleUser {
		t.Errorf("role = %q, want %q", res.User.Role, domain.RoleUser)
	}
	if f.users.count() != 1 || f.sessions.count() != 1 {
		t.Errorf("users=%d sessions=%d, want 1 and 1", f.users.count(), f.sessions.count())
	}
}

func TestRegister_HashesPassword(t *testing.T) {
	f := newAuthFixture()
	res := f.register(t, "Ann", "a@x.com", "pw1")

	stored, err := f.users.FindByID(context.Background(), res.User.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.PasswordHash == "pw1" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw1")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestRegister_DuplicateEmail_ReturnsErrEmailExists(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "Ann", "a@x.com", "pw1")

	_, err := f.uc.Register(context.Background(), usecase.RegisterInput{Name: "Other", Email: " A@X.com ", Password: "pw2"})
	if !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("want ErrEmailExists, got %v", err)
	}
	if f.users.count() != 1 {
		t.Errorf("users = %d, want 1", f.users.count())
	}
}

func TestRegister_ConcurrentSameEmail_ExactlyOneWins(t *testing.T) {
	f := newAuthFixture()

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Register(context.Background(), usecase.RegisterInput{Name: "Ann", Email: "race@x.com", Password: "pw"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrEmailExists):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 || conflicts != n-1 {
		t.Errorf("successes=%d conflicts=%d, want 1 and %d", successes, conflicts, n-1)
	}
	if f.users.count() != 1 {
		t.Errorf("users = %d, want 1", f.users.count())
	}
}

func TestRegister_MissingFields_ReturnsErrInvalidInput(t *testing.T) {
	f := newAuthFixture()
	for _, in := range []usecase.RegisterInput{
		{Name: "", Email: "a@x.com", Password: "pw"},
		{Name: "Ann", Email: "  ", Password: "pw"},
		{Name: "Ann", Email: "a@x.com", Password: ""},
	} {
		if _, err := f.uc.Register(context.Background(), in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Register(%+v): want ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestRegister_RepoError_Propagates(t *testing.T) {
	f := newAuthFixture()
	repoErr := errors.New("db down")
	f.users.findErr = repoErr

	_, err := f.uc.Register(context.Background(), usecase.RegisterInput{Name: "Ann", Email: "a@x.com", Password: "pw"})
	if !errors.Is(err, repoErr) {
		t.Errorf("want wrapped repoErr, got %v", err)
	}
}

// ---- Login ----

func TestLogin_Success(t *testing.T) {
	f := newAuthFixture()
	reg := f.register(t, "Ann", "a@x.com", "pw1")

	res, err := f.uc.Login(context.Background(), usecase.LoginInput{Email: "A@x.com", Password: "pw1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.User.ID != reg.User.ID {
		t.Errorf("user id = %q, want %q", res.User.ID, reg.User.ID)
	}
	if res.Token == reg.Token {
		t.Error("login reused the registration token")
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "Ann", "a@x.com", "pw1")

	_, wrongPassword := f.uc.Login(context.Background(), usecase.LoginInput{Email: "a@x.com", Password: "wrong"})
	_, unknownEmail := f.uc.Login(context.Background(), usecase.LoginInput{Email: "nobody@x.com", Password: "pw1"})

	if !errors.Is(wrongPassword, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: want ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: want ErrInvalidCredentials, got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Errorf("messages differ: %q vs %q", wrongPassword, unknownEmail)
	}
}

// ---- CurrentUser / Logout ----

func TestCurrentUser_ValidToken(t *testing.T) {
	f := newAuthFixture()
	reg := f.register(t, "Ann", "a@x.com", "pw1")

	user, err := f.uc.CurrentUser(context.Background(), reg.Token)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if *user != reg.User {
		t.Errorf("user = %+v, want %+v", *user, reg.User)
	}
}

func TestCurrentUser_ExpiredToken(t *testing.T) {
	f := newAuthFixture()
	reg := f.register(t, "Ann", "a@x.com", "pw1")

	f.clock.Advance(7*24*time.Hour + time.Second)

	if _, err := f.uc.CurrentUser(context.Background(), reg.Token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid, got %v", err)
	}
}

func TestLogout_InvalidatesTokenAndIsIdempotent(t *testing.T) {
	f := newAuthFixture()
	reg := f.register(t, "Ann", "a@x.com", "pw1")

	if err := f.uc.Logout(context.Background(), reg.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := f.uc.CurrentUser(context.Background(), reg.Token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid after logout, got %v", err)
	}
	if err := f.uc.Logout(context.Background(), reg.Token); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if err := f.uc.Logout(context.Background(), "garbage"); err != nil {
		t.Fatalf("logout with garbage: %v", err)
	}
}
