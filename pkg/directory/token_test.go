package directory

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingTokenProvider struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (p *countingTokenProvider) GetAccessToken(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return "", p.err
	}

	p.calls++

	return fmt.Sprintf("token-%d", p.calls), nil
}

func (p *countingTokenProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.calls
}

func TestCachedTokenProviderReusesToken(t *testing.T) {
	t.Parallel()

	upstream := &countingTokenProvider{}
	cached := NewCachedTokenProvider(upstream, time.Hour)

	first, err := cached.GetAccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "token-1", first)

	second, err := cached.GetAccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)

	require.Equal(t, 1, upstream.callCount())
}

func TestCachedTokenProviderInvalidateForcesRefetch(t *testing.T) {
	t.Parallel()

	upstream := &countingTokenProvider{}
	cached := NewCachedTokenProvider(upstream, time.Hour)

	_, err := cached.GetAccessToken(context.Background())
	require.NoError(t, err)

	cached.InvalidateToken()

	token, err := cached.GetAccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "token-2", token)
	require.Equal(t, 2, upstream.callCount())
}

func TestCachedTokenProviderConcurrentAccessFetchesOnce(t *testing.T) {
	t.Parallel()

	upstream := &countingTokenProvider{}
	cached := NewCachedTokenProvider(upstream, time.Hour)

	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			token, err := cached.GetAccessToken(context.Background())
			require.NoError(t, err)
			require.Equal(t, "token-1", token)
		}()
	}

	wg.Wait()

	require.Equal(t, 1, upstream.callCount())
}

func TestCachedTokenProviderShortLifetimeFallsBackToDefault(t *testing.T) {
	t.Parallel()

	upstream := &countingTokenProvider{}

	// a lifetime at or under the expiry margin would never cache anything
	cached := NewCachedTokenProvider(upstream, time.Minute)

	_, err := cached.GetAccessToken(context.Background())
	require.NoError(t, err)

	_, err = cached.GetAccessToken(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, upstream.callCount())
}

func TestClientCredentialsTokenProvider(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		require.Equal(t, "client", r.PostForm.Get("client_id"))
		require.Equal(t, "secret", r.PostForm.Get("client_secret"))
		require.Contains(t, r.PostForm.Get("scope"), "/.default")

		fmt.Fprint(w, `{"token_type":"Bearer","expires_in":3599,"access_token":"abc123"}`)
	}))
	t.Cleanup(server.Close)

	provider := &ClientCredentialsTokenProvider{
		Config: &Config{
			Endpoint:     "https://graph.example.com",
			TokenURL:     server.URL,
			ClientID:     "client",
			ClientSecret: "secret",
		},
		HTTPClient: http.DefaultClient,
	}

	token, err := provider.GetAccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "abc123", token)
}

func TestClientCredentialsTokenProviderRejectsEmptyToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"token_type":"Bearer","expires_in":3599}`)
	}))
	t.Cleanup(server.Close)

	provider := &ClientCredentialsTokenProvider{
		Config:     &Config{TokenURL: server.URL},
		HTTPClient: http.DefaultClient,
	}

	_, err := provider.GetAccessToken(context.Background())
	require.ErrorIs(t, err, errAuthFailed)
}
