package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/blogboost"
	bbhttp "github.com/fwojciec/blogboost/http"
	"github.com/fwojciec/blogboost/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRobotsFetcher_Fetch(t *testing.T) {
	t.Parallel()

	newServer := func(t *testing.T, status int, robots string, hits *atomic.Int32) *httptest.Server {
		t.Helper()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				if hits != nil {
					hits.Add(1)
				}
				w.WriteHeader(status)
				_, _ = w.Write([]byte(robots))
				return
			}
			http.NotFound(w, r)
		}))
		t.Cleanup(srv.Close)
		return srv
	}

	passthrough := func(fetched *[]string) *mock.Fetcher {
		return &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				*fetched = append(*fetched, url)
				return "<html></html>", nil
			},
		}
	}

	t.Run("allows pages robots.txt permits", func(t *testing.T) {
		t.Parallel()

		srv := newServer(t, http.StatusOK, "User-agent: *\nDisallow: /private/\n", nil)
		var fetched []string
		f := bbhttp.NewRobotsFetcher(passthrough(&fetched), nil)

		html, err := f.Fetch(context.Background(), srv.URL+"/blog/post")

		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Equal(t, []string{srv.URL + "/blog/post"}, fetched)
	})

	t.Run("refuses disallowed pages", func(t *testing.T) {
		t.Parallel()

		srv := newServer(t, http.StatusOK, "User-agent: blogboost\nDisallow: /private/\n", nil)
		var fetched []string
		f := bbhttp.NewRobotsFetcher(passthrough(&fetched), nil)

		_, err := f.Fetch(context.Background(), srv.URL+"/private/page")

		assert.Equal(t, blogboost.EINVALID, blogboost.ErrorCode(err))
		assert.Empty(t, fetched)
	})

	t.Run("missing robots.txt allows everything", func(t *testing.T) {
		t.Parallel()

		srv := newServer(t, http.StatusNotFound, "", nil)
		var fetched []string
		f := bbhttp.NewRobotsFetcher(passthrough(&fetched), nil)

		_, err := f.Fetch(context.Background(), srv.URL+"/anything")

		require.NoError(t, err)
		assert.Len(t, fetched, 1)
	})

	t.Run("fetches robots.txt once per origin", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		srv := newServer(t, http.StatusOK, "User-agent: *\nAllow: /\n", &hits)
		var fetched []string
		f := bbhttp.NewRobotsFetcher(passthrough(&fetched), nil)

		for _, p := range []string{"/a", "/b", "/c"} {
			_, err := f.Fetch(context.Background(), srv.URL+p)
			require.NoError(t, err)
		}

		assert.Equal(t, int32(1), hits.Load())
		assert.Len(t, fetched, 3)
	})

	t.Run("close delegates", func(t *testing.T) {
		t.Parallel()

		closed := false
		f := bbhttp.NewRobotsFetcher(&mock.Fetcher{
			CloseFn: func() error {
				closed = true
				return nil
			},
		}, nil)

		require.NoError(t, f.Close())
		assert.True(t, closed)
	})
}
