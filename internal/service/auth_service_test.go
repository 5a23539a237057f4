package service

import (
	"testing"

	"go-resto-backend/internal/model"
	"go-resto-backend/internal/repository"
	"go-resto-backend/pkg/apperr"
)

func seedAuthUser(t *testing.T, env *testEnv, active bool) (*model.User, AuthService) {
	t.Helper()

	seedRoles(t, env.db)

	roleRepo := repository.NewRoleRepo(env.db)
	userRepo := repository.NewUserRepo(env.db)

	role, err := roleRepo.FindByCode(model.RoleCashier)
	if err != nil {
		t.Fatalf("find role: %v", err)
	}

	user := &model.User{
		Email:    "cajero@carbonycheddar.com",
		FullName: "Cajero Uno",
		RoleID:   &role.ID,
		IsActive: active,
	}
	if err := user.SetPassword("secreto123"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if err := userRepo.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	return user, NewAuthService(userRepo)
}

func TestLoginAndValidateToken(t *testing.T) {
	env := newTestEnv(t)
	user, auth := seedAuthUser(t, env, true)

	resp, err := auth.Login("cajero@carbonycheddar.com", "secreto123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	if resp.User.Email != user.Email {
		t.Errorf("user email = %s, want %s", resp.User.Email, user.Email)
	}
	if resp.Role == nil || resp.Role.Code != model.RoleCashier {
		t.Errorf("role = %+v, want CAJERO", resp.Role)
	}

	validated, err := auth.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if validated.User.ID != user.ID {
		t.Errorf("validated user = %s, want %s", validated.User.ID, user.ID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	_, auth := seedAuthUser(t, env, true)

	if _, err := auth.Login("cajero@carbonycheddar.com", "incorrecta"); err == nil {
		t.Error("expected error for wrong password")
	} else if apperr.StatusOf(err) != 401 {
		t.Errorf("status = %d, want 401", apperr.StatusOf(err))
	}

	if _, err := auth.Login("nadie@carbonycheddar.com", "secreto123"); err == nil {
		t.Error("expected error for unknown email")
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	env := newTestEnv(t)
	_, auth := seedAuthUser(t, env, false)

	if _, err := auth.Login("cajero@carbonycheddar.com", "secreto123"); err == nil {
		t.Fatal("expected error for inactive user")
	} else if apperr.StatusOf(err) != 403 {
		t.Errorf("status = %d, want 403", apperr.StatusOf(err))
	}
}

func TestResetPassword(t *testing.T) {
	env := newTestEnv(t)
	_, auth := seedAuthUser(t, env, true)

	if err := auth.ResetPassword("cajero@carbonycheddar.com", "incorrecta", "nueva12345"); err == nil {
		t.Error("expected error for wrong current password")
	}
	if err := auth.ResetPassword("cajero@carbonycheddar.com", "secreto123", "corta"); err == nil {
		t.Error("expected error for short new password")
	}

	if err := auth.ResetPassword("cajero@carbonycheddar.com", "secreto123", "nueva12345"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, err := auth.Login("cajero@carbonycheddar.com", "nueva12345"); err != nil {
		t.Errorf("login with new password: %v", err)
	}
	if _, err := auth.Login("cajero@carbonycheddar.com", "secreto123"); err == nil {
		t.Error("old password should no longer work")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)
	_, auth := seedAuthUser(t, env, true)

	if _, err := auth.ValidateToken("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
