package authsvc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"bookstore/model"
	authsvc "bookstore/service/auth"
	"bookstore/util/hash"
)

type mockRepo struct {
	byEmailFn func(ctx context.Context, email string) (*model.User, error)
	byIDFn    func(ctx context.Context, id int64) (*model.User, error)
	createFn  func(ctx context.Context, u *model.User) error
}

func (m *mockRepo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.byEmailFn == nil {
		return nil, errors.New("no user")
	}
	return m.byEmailFn(ctx, email)
}

func (m *mockRepo) ByID(ctx context.Context, id int64) (*model.User, error) {
	if m.byIDFn == nil {
		return nil, errors.New("no user")
	}
	return m.byIDFn(ctx, id)
}

func (m *mockRepo) Create(ctx context.Context, u *model.User) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, u)
}

func TestRegister_Success(t *testing.T) {
	m := &mockRepo{
		createFn: func(ctx context.Context, u *model.User) error {
			require.NotEqual(t, "secret123", u.PasswordHash)
			u.ID = 11
			return nil
		},
	}
	s := authsvc.New(m, "test_secret")

	u, token, err := s.Register(context.Background(), model.RegisterReq{
		FirstName: "Ivan",
		LastName:  "Petrov",
		Email:     "ivan@example.com",
		Username:  "ivan",
		Password:  "secret123",
	})
	require.NoError(t, err)
	require.EqualValues(t, 11, u.ID)
	require.NotEmpty(t, token)
	require.True(t, hash.Check(u.PasswordHash, "secret123"))
}

func TestLogin(t *testing.T) {
	hashed, err := hash.Password("secret123")
	require.NoError(t, err)

	m := &mockRepo{
		byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email != "ivan@example.com" {
				return nil, errors.New("not found")
			}
			return &model.User{ID: 11, Email: email, PasswordHash: hashed}, nil
		},
	}
	s := authsvc.New(m, "test_secret")

	_, token, err := s.Login(context.Background(), model.LoginReq{Email: "ivan@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, _, err = s.Login(context.Background(), model.LoginReq{Email: "ivan@example.com", Password: "wrong"})
	require.ErrorIs(t, err, authsvc.ErrInvalidCreds)

	_, _, err = s.Login(context.Background(), model.LoginReq{Email: "ghost@example.com", Password: "secret123"})
	require.ErrorIs(t, err, authsvc.ErrInvalidCreds)
}
