package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/rvaldezc/poscloud-backend/pkg/auth"
	"github.com/rvaldezc/poscloud-backend/pkg/config"
	"github.com/rvaldezc/poscloud-backend/pkg/db/models"
	pkgerrors "github.com/rvaldezc/poscloud-backend/pkg/errors"
)

type stubAuthRepo struct {
	usersByEmail map[string]*models.User
	businesses   map[uuid.UUID][]models.Business
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{
		usersByEmail: make(map[string]*models.User),
		businesses:   make(map[uuid.UUID][]models.Business),
	}
}

func (s *stubAuthRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubAuthRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.usersByEmail[user.Email] = user
	return user, nil
}

func (s *stubAuthRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := s.usersByEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubAuthRepo) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range s.usersByEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAuthRepo) ListUserBusinesses(ctx context.Context, userID uuid.UUID) ([]models.Business, error) {
	return s.businesses[userID], nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "poscloud", ExpirationMinutes: 60}
}

func testPasswordConfig() config.PasswordConfig {
	// Minimal argon cost so the suite stays fast.
	return config.PasswordConfig{ArgonMemoryKB: 8 * 1024, ArgonTime: 1, ArgonParallelism: 1}
}

func newAuthService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, testJWTConfig(), testPasswordConfig())
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newAuthService(t, repo)

	session, err := svc.Register(context.Background(), RegisterInput{
		Email: "Dueno@Example.com", Password: "secreto1", Name: "Dueño",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if session.User.Email != "dueno@example.com" {
		t.Fatalf("email not normalized: %q", session.User.Email)
	}
	if session.User.PasswordHash == "secreto1" {
		t.Fatal("password stored in plaintext")
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), session.Token)
	if err != nil {
		t.Fatalf("minted token did not parse: %v", err)
	}
	if claims.UserID != session.User.ID {
		t.Fatal("token carries wrong user id")
	}

	login, err := svc.Login(context.Background(), "dueno@example.com", "secreto1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if login.User.ID != session.User.ID {
		t.Fatal("login resolved a different user")
	}
}

func TestRegisterShortPassword(t *testing.T) {
	svc := newAuthService(t, newStubAuthRepo())

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "a@example.com", Password: "12345", Name: "A",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newAuthService(t, repo)

	input := RegisterInput{Email: "dup@example.com", Password: "secreto1", Name: "Dup"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newAuthService(t, repo)

	if _, err := svc.Register(context.Background(), RegisterInput{
		Email: "a@example.com", Password: "secreto1", Name: "A",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := svc.Login(context.Background(), "a@example.com", "wrong-pass")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for bad password, got %v", err)
	}

	_, err = svc.Login(context.Background(), "missing@example.com", "whatever")
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
}

func TestMeIncludesBusinesses(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newAuthService(t, repo)

	session, err := svc.Register(context.Background(), RegisterInput{
		Email: "a@example.com", Password: "secreto1", Name: "A",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	repo.businesses[session.User.ID] = []models.Business{{ID: uuid.New(), Name: "Mi Negocio"}}

	profile, err := svc.Me(context.Background(), session.User.ID)
	if err != nil {
		t.Fatalf("me failed: %v", err)
	}
	if len(profile.Businesses) != 1 {
		t.Fatalf("expected one business, got %d", len(profile.Businesses))
	}
}
