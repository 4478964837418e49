package service

import (
	"context"
	"errors"
	"testing"
	"time"

	userserrors "roomly/internal/users/errors"
	"roomly/pkg/auth"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/logger"
	"roomly/pkg/model"

	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	createFn      func(ctx context.Context, user *model.User) error
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
	findByIDFn    func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.createFn(ctx, user)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.findByEmailFn(ctx, email)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.findByIDFn(ctx, id)
}

func newUserService(repo *mockUserRepo) (UserService, *auth.TokenIssuer) {
	cfg := &config.Config{
		Log: logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT}),
	}
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewUserService(repo, issuer, cfg), issuer
}

func expectCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected error code %s, got %s", code, appErr.Code)
	}
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			if user.Email != "ana@example.com" {
				t.Errorf("email not normalized: %q", user.Email)
			}
			if user.PasswordHash == "correct-horse-battery" {
				t.Error("password stored in plain text")
			}
			user.ID = "507f1f77bcf86cd799439012"
			return nil
		},
	}
	svc, issuer := newUserService(repo)

	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "  Ana@Example.COM ",
		Password: "correct-horse-battery",
		Name:     "Ana",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	claims, err := issuer.Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Errorf("token user %s does not match %s", claims.UserID, resp.User.ID)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(resp.User.PasswordHash), []byte("correct-horse-battery")); err != nil {
		t.Error("stored hash does not match the password")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			return userserrors.ErrDuplicateEmail
		},
	}
	svc, _ := newUserService(repo)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "ana@example.com",
		Password: "correct-horse-battery",
	})
	expectCode(t, err, apperrors.CodeConflict)
}

func TestRegisterShortPassword(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			t.Error("invalid request must not reach the repository")
			return nil
		},
	}
	svc, _ := newUserService(repo)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "ana@example.com",
		Password: "short",
	})
	expectCode(t, err, apperrors.CodeValidation)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse-battery"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	stored := &model.User{
		ID:           "507f1f77bcf86cd799439012",
		Email:        "ana@example.com",
		PasswordHash: string(hash),
	}

	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email != stored.Email {
				return nil, userserrors.ErrNotFound
			}
			return stored, nil
		},
	}
	svc, issuer := newUserService(repo)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "Ana@Example.com",
		Password: "correct-horse-battery",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := issuer.Verify(resp.Token); err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse-battery"), bcrypt.MinCost)
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{Email: email, PasswordHash: string(hash)}, nil
		},
	}
	svc, _ := newUserService(repo)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "ana@example.com",
		Password: "wrong",
	})
	expectCode(t, err, apperrors.CodeUnauthorized)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, userserrors.ErrNotFound
		},
	}
	svc, _ := newUserService(repo)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	expectCode(t, err, apperrors.CodeUnauthorized)
}
