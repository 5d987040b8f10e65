package crm_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/forgeo/crm-audit-server/internal/crm"
	"github.com/forgeo/crm-audit-server/internal/tokens"
	tokenmocks "github.com/forgeo/crm-audit-server/internal/tokens/mocks"
)

func TestFetcherFactory_ForUser_SendsBearer(t *testing.T) {
	t.Parallel()

	var gotAuth string
	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	ctrl := gomock.NewController(t)
	store := tokenmocks.NewMockStore(ctrl)
	store.EXPECT().Active(gomock.Any(), "user-1").
		Return(&tokens.Token{UserID: "user-1", AccessToken: "tok", TokenType: "Bearer"}, nil)

	factory := crm.NewFetcherFactory(store, crm.WithBaseURL(server.URL), crm.WithFactoryPageSize(10))
	fetcher, err := factory.ForUser(context.Background(), "user-1")
	require.NoError(t, err)

	_, err = fetcher.FetchAll(context.Background(), crm.ObjectTypeContacts, []string{"email"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestFetcherFactory_ForUser_NoCredential(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	store := tokenmocks.NewMockStore(ctrl)
	store.EXPECT().Active(gomock.Any(), "user-2").Return(nil, tokens.ErrNoActiveToken)

	_, err := crm.NewFetcherFactory(store).ForUser(context.Background(), "user-2")
	require.Error(t, err)

	var authErr *crm.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "user-2", authErr.UserID)
	assert.ErrorIs(t, err, tokens.ErrNoActiveToken)
}

func TestFetcherFactory_ForUser_StoreFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	store := tokenmocks.NewMockStore(ctrl)
	store.EXPECT().Active(gomock.Any(), "user-3").Return(nil, errors.New("db down"))

	_, err := crm.NewFetcherFactory(store).ForUser(context.Background(), "user-3")
	require.Error(t, err)
	assert.False(t, crm.IsAuthError(err))
}
