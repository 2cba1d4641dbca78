package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusboard/noticeboard/internal/config"
	"github.com/campusboard/noticeboard/internal/domain"
	"github.com/campusboard/noticeboard/internal/service/auth"
	"github.com/campusboard/noticeboard/tests/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 7 * 24 * time.Hour,
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and issues tokens", func(t *testing.T) {
		users := new(mocks.UserRepository)
		sessions := new(mocks.SessionRepository)
		svc := auth.NewService(users, sessions, testConfig())

		users.On("ExistsByEmail", ctx, "new@example.edu").Return(false, nil).Once()
		users.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "new@example.edu" && u.Role == domain.RoleStudent && u.PasswordHash != "secret123"
		})).Return(nil).Once()
		sessions.On("Create", ctx, mock.Anything).Return(nil).Once()

		user, tokens, err := svc.Register(ctx, domain.RegisterInput{
			Name:     "New Student",
			Email:    "new@example.edu",
			Password: "secret123",
		})

		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		users.AssertExpectations(t)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		users := new(mocks.UserRepository)
		sessions := new(mocks.SessionRepository)
		svc := auth.NewService(users, sessions, testConfig())

		users.On("ExistsByEmail", ctx, "taken@example.edu").Return(true, nil).Once()

		_, _, err := svc.Register(ctx, domain.RegisterInput{
			Name:     "Someone",
			Email:    "taken@example.edu",
			Password: "secret123",
		})

		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		svc := auth.NewService(new(mocks.UserRepository), new(mocks.SessionRepository), testConfig())

		_, _, err := svc.Register(ctx, domain.RegisterInput{
			Name:     "Someone",
			Email:    "x@example.edu",
			Password: "short",
		})

		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	stored := &domain.User{
		ID:           uuid.New(),
		Email:        "user@example.edu",
		PasswordHash: string(hash),
		Role:         domain.RoleFaculty,
	}

	t.Run("valid credentials issue tokens", func(t *testing.T) {
		users := new(mocks.UserRepository)
		sessions := new(mocks.SessionRepository)
		svc := auth.NewService(users, sessions, testConfig())

		users.On("GetByEmail", ctx, "user@example.edu").Return(stored, nil).Once()
		sessions.On("Create", ctx, mock.Anything).Return(nil).Once()

		user, tokens, err := svc.Login(ctx, domain.LoginInput{Email: "user@example.edu", Password: "secret123"})

		assert.NoError(t, err)
		assert.Equal(t, stored.ID, user.ID)

		claims, err := svc.ValidateAccessToken(tokens.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, stored.ID, claims.UserID)
		assert.Equal(t, domain.RoleFaculty, claims.Role)
	})

	t.Run("wrong password is unauthenticated", func(t *testing.T) {
		users := new(mocks.UserRepository)
		svc := auth.NewService(users, new(mocks.SessionRepository), testConfig())

		users.On("GetByEmail", ctx, "user@example.edu").Return(stored, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Email: "user@example.edu", Password: "wrong-one"})
		assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
	})

	t.Run("unknown email gets the same error as a bad password", func(t *testing.T) {
		users := new(mocks.UserRepository)
		svc := auth.NewService(users, new(mocks.SessionRepository), testConfig())

		users.On("GetByEmail", ctx, "ghost@example.edu").Return(nil, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Email: "ghost@example.edu", Password: "whatever12"})
		assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
	})
}

func TestAuthService_ValidateAccessToken(t *testing.T) {
	svc := auth.NewService(new(mocks.UserRepository), new(mocks.SessionRepository), testConfig())

	t.Run("garbage token is unauthenticated", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not-a-jwt")
		assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		otherCfg := testConfig()
		otherCfg.JWTSecret = "different-secret"
		users := new(mocks.UserRepository)
		users.On("ExistsByEmail", mock.Anything, mock.Anything).Return(false, nil)
		users.On("Create", mock.Anything, mock.Anything).Return(nil)
		sessions := new(mocks.SessionRepository)
		sessions.On("Create", mock.Anything, mock.Anything).Return(nil)
		other := auth.NewService(users, sessions, otherCfg)

		ctx := context.Background()
		_, tokens, err := other.Register(ctx, domain.RegisterInput{
			Name:     "Other",
			Email:    "other@example.edu",
			Password: "secret123",
		})
		assert.NoError(t, err)

		_, err = svc.ValidateAccessToken(tokens.AccessToken)
		assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
	})
}
