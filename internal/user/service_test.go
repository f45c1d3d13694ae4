package user_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/moneybook/internal/user"
)

func TestService_Register(t *testing.T) {
	type args struct {
		email    string
		password string
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *user.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{email: "  Ana@Example.com ", password: "correct horse"},
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					CreateUser(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u *user.User) error {
						assert.Equal(t, "ana@example.com", u.Email)
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct horse")))
						u.ID = uuid.New()

						return nil
					})
			},
		},
		{
			name:    "InvalidEmail",
			args:    args{email: "not-an-email", password: "correct horse"},
			wantErr: user.ErrInvalidEmail,
		},
		{
			name:    "ShortPassword",
			args:    args{email: "ana@example.com", password: "short"},
			wantErr: user.ErrInvalidPassword,
		},
		{
			name:    "LongPassword",
			args:    args{email: "ana@example.com", password: strings.Repeat("p", 80)},
			wantErr: user.ErrInvalidPassword,
		},
		{
			name: "EmailTaken",
			args: args{email: "ana@example.com", password: "correct horse"},
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(user.ErrEmailTaken)
			},
			wantErr: user.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := user.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := user.NewService(repo).Register(context.Background(), tt.args.email, tt.args.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.NotEqual(t, "correct horse", got.PasswordHash)
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	stored := &user.User{ID: uuid.New(), Email: "ana@example.com", PasswordHash: string(hash)}

	type testCase struct {
		name      string
		email     string
		password  string
		setupMock func(m *user.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "Success",
			email:    "ANA@example.com",
			password: "correct horse",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(stored, nil)
			},
		},
		{
			name:     "WrongPassword",
			email:    "ana@example.com",
			password: "battery staple",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(stored, nil)
			},
			wantErr: user.ErrInvalidCredentials,
		},
		{
			name:     "UnknownEmail",
			email:    "bob@example.com",
			password: "correct horse",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().GetUserByEmail(gomock.Any(), "bob@example.com").Return(nil, user.ErrNotFound)
			},
			wantErr: user.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := user.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := user.NewService(repo).Authenticate(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, stored.ID, got.ID)
		})
	}
}

func TestService_Authenticate_StorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := user.NewMockRepository(ctrl)
	repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err := user.NewService(repo).Authenticate(context.Background(), "ana@example.com", "correct horse")
	require.Error(t, err)
	assert.NotErrorIs(t, err, user.ErrInvalidCredentials)
}
