package service

import (
	"context"
	"os"
	"testing"

	"judgeback/internal/common"
	"judgeback/internal/common/security"
	"judgeback/internal/domain/model"
	"judgeback/internal/platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.Load()
	security.InitJWT()
	os.Exit(m.Run())
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeJudgeRepo, *fakeThrottle) {
	t.Helper()
	users := &fakeUserRepo{}
	judges := &fakeJudgeRepo{}
	throttle := newFakeThrottle(5)
	svc := NewAuthService(newStubDB(t), users, judges, throttle)
	return svc, users, judges, throttle
}

func TestRegisterCreatesUserAndJudge(t *testing.T) {
	svc, users, judges, _ := newAuthFixture(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Password:  "trampolin123",
		Password2: "trampolin123",
		Name:      "Ana",
		Surname:   "Kovac",
		JudgeType: "execution",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ana-kovac", resp.Username)
	require.NotNil(t, resp.Judge)
	assert.Equal(t, "E1", resp.Judge.JudgeNumber)
	assert.Equal(t, model.JudgeTypeExecution, resp.Judge.JudgeType)
	assert.False(t, resp.Judge.IsMainJudge)

	require.Len(t, users.users, 1)
	require.Len(t, judges.judges, 1)
	require.NotNil(t, judges.judges[0].UserID)
	assert.Equal(t, users.users[0].ID, *judges.judges[0].UserID)
	assert.NotEqual(t, "trampolin123", users.users[0].HashedPassword)
}

func TestRegisterPasswordMismatchCreatesNothing(t *testing.T) {
	svc, users, judges, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Password:  "trampolin123",
		Password2: "trampolin124",
		Name:      "Ana",
		Surname:   "Kovac",
	})
	require.ErrorIs(t, err, common.ErrValidation)

	assert.Empty(t, users.users)
	assert.Empty(t, judges.judges)
}

func TestRegisterWeakPasswordRejected(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Password:  "short",
		Password2: "short",
		Name:      "Ana",
		Surname:   "Kovac",
	})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestRegisterUnknownJudgeTypeRejected(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Password:  "trampolin123",
		Password2: "trampolin123",
		Name:      "Ana",
		Surname:   "Kovac",
		JudgeType: "style",
	})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestRegisterHandleCollisionGetsSuffix(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	req := RegisterRequest{
		Password:  "trampolin123",
		Password2: "trampolin123",
		Name:      "Ana",
		Surname:   "Kovac",
	}

	first, err := svc.Register(ctx, req)
	require.NoError(t, err)
	second, err := svc.Register(ctx, req)
	require.NoError(t, err)
	third, err := svc.Register(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "ana-kovac", first.Username)
	assert.Equal(t, "ana-kovac2", second.Username)
	assert.Equal(t, "ana-kovac3", third.Username)
}

func TestRegisterJudgeNumbersPerType(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	mk := func(name, judgeType string) *AuthResponse {
		resp, err := svc.Register(ctx, RegisterRequest{
			Password:  "trampolin123",
			Password2: "trampolin123",
			Name:      name,
			Surname:   "Sodnik",
			JudgeType: judgeType,
		})
		require.NoError(t, err)
		return resp
	}

	assert.Equal(t, "E1", mk("Ena", "execution").Judge.JudgeNumber)
	assert.Equal(t, "E2", mk("Dva", "execution").Judge.JudgeNumber)
	assert.Equal(t, "D1", mk("Tri", "difficulty").Judge.JudgeNumber)
	assert.Equal(t, "E3", mk("Stiri", "").Judge.JudgeNumber) // empty defaults to execution
}

func TestLoginSuccess(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{
		Password:  "trampolin123",
		Password2: "trampolin123",
		Name:      "Ana",
		Surname:   "Kovac",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{LoginField: reg.Username, Password: "trampolin123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.Judge)
	assert.Equal(t, reg.Judge.ID, resp.Judge.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{
		Password:  "trampolin123",
		Password2: "trampolin123",
		Name:      "Ana",
		Surname:   "Kovac",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{LoginField: reg.Username, Password: "nope-nope-nope"})
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLoginThrottledAfterRepeatedFailures(t *testing.T) {
	svc, _, _, throttle := newAuthFixture(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{
		Password:  "trampolin123",
		Password2: "trampolin123",
		Name:      "Ana",
		Surname:   "Kovac",
	})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = svc.Login(ctx, LoginRequest{LoginField: reg.Username, Password: "wrong-password"})
		require.ErrorIs(t, err, common.ErrUnauthorized)
	}

	// Even the correct password is refused once the handle is blocked.
	_, err = svc.Login(ctx, LoginRequest{LoginField: reg.Username, Password: "trampolin123"})
	require.ErrorIs(t, err, common.ErrThrottled)

	throttle.Clear(ctx, reg.Username)
	_, err = svc.Login(ctx, LoginRequest{LoginField: reg.Username, Password: "trampolin123"})
	require.NoError(t, err)
}

func TestLoginUnknownUserIsUnauthorized(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), LoginRequest{LoginField: "nobody", Password: "whatever1"})
	require.ErrorIs(t, err, common.ErrUnauthorized)
}
