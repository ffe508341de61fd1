package service

import (
	"errors"
	"testing"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	db := newTestDB(t)
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret-0123456789abcdef",
			ExpireTime: time.Hour,
		},
	}
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	user := &model.User{
		Name:     "张三",
		Email:    "zhangsan@example.com",
		Password: "password123",
	}
	if err := svc.Register(user); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.Role != model.Student {
		t.Fatalf("default role = %q, want student", user.Role)
	}
	if user.Password == "password123" {
		t.Fatal("password stored in plaintext")
	}

	token, err := svc.Login("zhangsan@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := util.ParseJWT(token, svc.Cfg.JWT.Secret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email || claims.Role != model.Student {
		t.Fatalf("claims = %+v, want user %d", claims, user.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)

	first := &model.User{Name: "张三", Email: "dup@example.com", Password: "password123"}
	if err := svc.Register(first); err != nil {
		t.Fatalf("Register: %v", err)
	}

	second := &model.User{Name: "李四", Email: "dup@example.com", Password: "password456"}
	if err := svc.Register(second); !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("err = %v, want ErrEmailRegistered", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(t)

	user := &model.User{Name: "张三", Email: "wrongpw@example.com", Password: "password123"}
	if err := svc.Register(user); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Login("wrongpw@example.com", "bad-password"); err == nil {
		t.Fatal("Login succeeded with wrong password")
	}
	if _, err := svc.Login("nobody@example.com", "password123"); err == nil {
		t.Fatal("Login succeeded with unknown email")
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	svc := newAuthService(t)

	user := &model.User{Name: "张三", Email: "disabled@example.com", Password: "password123"}
	if err := svc.Register(user); err != nil {
		t.Fatalf("Register: %v", err)
	}

	user.Disabled = true
	if err := svc.UserRepo.Update(user); err != nil {
		t.Fatalf("disable user: %v", err)
	}

	if _, err := svc.Login("disabled@example.com", "password123"); err == nil {
		t.Fatal("Login succeeded for disabled account")
	}
}
