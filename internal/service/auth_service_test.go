package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"carbon-trace/internal/domain"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.byEmail {
		if user.Username == username {
			return user, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(zap.NewNop(), repo, nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, " Ana@Example.com ", "ana", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if user.Email != "ana@example.com" {
		t.Fatalf("email must be normalized, got %q", user.Email)
	}
	if user.PasswordHash == "hunter22" || user.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter22")) != nil {
		t.Fatal("hash does not match the password")
	}

	logged, err := svc.Login(ctx, "ana@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if logged.ID != user.ID {
		t.Fatalf("expected user %q, got %q", user.ID, logged.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(zap.NewNop(), repo, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ana@example.com", "ana", "hunter22"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(ctx, "ana@example.com", "ana2", "hunter22"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(zap.NewNop(), repo, nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		username string
		password string
		want     error
	}{
		{name: "empty email", email: "", username: "ana", password: "x", want: ErrInvalidEmail},
		{name: "malformed email", email: "not-an-email", username: "ana", password: "x", want: ErrInvalidEmail},
		{name: "empty username", email: "a@b.com", username: " ", password: "x", want: ErrInvalidCredentials},
		{name: "empty password", email: "a@b.com", username: "ana", password: "  ", want: ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tt.email, tt.username, tt.password); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(zap.NewNop(), repo, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ana@example.com", "ana", "hunter22"); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Login(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRateLimited(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(zap.NewNop(), repo, NewLoginRateLimiter(time.Minute, 2))
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ana@example.com", "ana", "hunter22"); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.Login(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}
	if _, err := svc.Login(ctx, "ana@example.com", "hunter22"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited after exceeding the window, got %v", err)
	}
}

func TestMemoryLoginRateLimiter(t *testing.T) {
	limiter := NewLoginRateLimiter(time.Minute, 2)
	if !limiter.Allow("a@b.com") || !limiter.Allow("a@b.com") {
		t.Fatal("first attempts within the window must pass")
	}
	if limiter.Allow("a@b.com") {
		t.Fatal("third attempt must be blocked")
	}
	// Otra clave no comparte cubeta.
	if !limiter.Allow("c@d.com") {
		t.Fatal("different key must have its own bucket")
	}
	if limiter.Allow("") {
		t.Fatal("empty key is never allowed")
	}
}
