package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestService(url string) *GoogleServiceImpl {
	svc := NewGoogleService("client", "secret", "http://localhost/callback", nil).(*GoogleServiceImpl)
	svc.userInfoURL = url
	return svc
}

func TestGenerateState_Unique(t *testing.T) {
	svc := newTestService("")
	a, err := svc.GenerateState()
	require.NoError(t, err)
	b, err := svc.GenerateState()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.True(t, strings.Contains(svc.RedirectURL(a), "state="+a))
}

func TestUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"g-1","email":"Dana@Example.com","verified_email":true}`))
	}))
	defer srv.Close()

	info, err := newTestService(srv.URL).UserInfo(context.Background(), &oauth2.Token{AccessToken: "tok", TokenType: "Bearer"})
	require.NoError(t, err)
	assert.Equal(t, "g-1", info.GoogleID)
	assert.Equal(t, "dana@example.com", info.Email)
}

func TestUserInfo_Unverified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"g-1","email":"dana@example.com","verified_email":false}`))
	}))
	defer srv.Close()

	_, err := newTestService(srv.URL).UserInfo(context.Background(), &oauth2.Token{AccessToken: "tok"})
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}
