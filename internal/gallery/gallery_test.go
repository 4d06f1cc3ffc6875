package gallery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listRequest struct {
	Folder    string `json:"folder"`
	SortField string `json:"sortField"`
	SortOrder string `json:"sortOrder"`
}

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestImageURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		character, file, want string
	}{
		{"Alice", "smile 2.png", "user/images/Alice/smile%202.png"},
		{"a+b", "x&y=z.png", "user/images/a%2Bb/x%26y%3Dz.png"},
		{"Bob", "@home:$1.png", "user/images/Bob/%40home%3A%241.png"},
		{"dir/name", "a#b?.png", "user/images/dir%2Fname/a%23b%3F.png"},
		{"Ünï", "(it's)!~*.png", "user/images/%C3%9Cn%C3%AF/(it's)!~*.png"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ImageURL(tc.character, tc.file), tc.character+"/"+tc.file)
	}
}

func TestListImages(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/images/list", r.URL.Path)
		assert.Equal(t, "token-1", r.Header.Get("X-CSRF-Token"))

		var req listRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, listRequest{Folder: "Alice Smith", SortField: "date", SortOrder: "desc"}, req)

		_ = json.NewEncoder(w).Encode([]string{"2.png", "1.png"})
	})

	c := New(srv.URL, WithHeaders(func() http.Header {
		return http.Header{"X-Csrf-Token": []string{"token-1"}}
	}))

	images := c.ListImages(t.Context(), "Alice Smith")
	require.Equal(t, []Image{
		{Filename: "2.png", URL: "user/images/Alice%20Smith/2.png", DisplayName: "2"},
		{Filename: "1.png", URL: "user/images/Alice%20Smith/1.png", DisplayName: "1"},
	}, images)

	// 命中缓存不再请求
	again := c.ListImages(t.Context(), "Alice Smith")
	require.Equal(t, images, again)
	require.Equal(t, int32(1), calls.Load())
	require.True(t, c.Cached("Alice Smith"))
}

func TestListImages_FailureNotCached(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode([]string{"a.webp"})
	})

	c := New(srv.URL)
	require.Equal(t, []Image{}, c.ListImages(t.Context(), "Bob"))
	require.False(t, c.Cached("Bob"))

	require.Equal(t, []Image{NewImage("Bob", "a.webp")}, c.ListImages(t.Context(), "Bob"))
	require.Equal(t, int32(2), calls.Load())
}

func TestListImages_BadPayload(t *testing.T) {
	t.Parallel()

	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	})
	require.Equal(t, []Image{}, New(srv.URL).ListImages(t.Context(), "Bob"))
}

func TestListImages_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	require.Equal(t, []Image{}, New(base).ListImages(t.Context(), "Bob"))
}

func TestListImages_EmptyName(t *testing.T) {
	t.Parallel()

	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("不应发出请求")
	})
	require.Equal(t, []Image{}, New(srv.URL).ListImages(t.Context(), ""))
}

func TestListImages_SharedInflight(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	release := make(chan struct{})
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		_ = json.NewEncoder(w).Encode([]string{"x.png"})
	})

	c := New(srv.URL)
	var wg sync.WaitGroup
	results := make([][]Image, 4)
	for i := range results {
		wg.Go(func() {
			results[i] = c.ListImages(t.Context(), "Alice")
		})
	}
	// 等所有调用都挂到同一次请求上
	require.Eventually(t, func() bool { return calls.Load() == 1 }, timeout, tick)
	close(release)
	wg.Wait()

	for _, r := range results {
		require.Equal(t, []Image{NewImage("Alice", "x.png")}, r)
	}
	require.LessOrEqual(t, calls.Load(), int32(2))
}

func TestListImages_ResultIsDetached(t *testing.T) {
	t.Parallel()

	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]string{"x.png"})
	})
	c := New(srv.URL)
	first := c.ListImages(t.Context(), "Alice")
	first[0].URL = "changed"
	require.Equal(t, ImageURL("Alice", "x.png"), c.ListImages(t.Context(), "Alice")[0].URL)
}

func TestClearCache(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode([]string{"x.png"})
	})

	c := New(srv.URL)
	c.ListImages(t.Context(), "Alice")
	c.ListImages(t.Context(), "Bob")
	require.Equal(t, int32(2), calls.Load())

	c.ClearCache("Alice")
	require.False(t, c.Cached("Alice"))
	require.True(t, c.Cached("Bob"))

	c.ListImages(t.Context(), "Alice")
	require.Equal(t, int32(3), calls.Load())

	c.ClearCache()
	require.False(t, c.Cached("Alice"))
	require.False(t, c.Cached("Bob"))
}

func TestListFolders(t *testing.T) {
	t.Parallel()

	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/images/folders", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]string{"Alice", "", "  ", "Bob"})
	})
	require.Equal(t, []string{"Alice", "Bob"}, New(srv.URL).ListFolders(t.Context()))
}

func TestListFolders_Failure(t *testing.T) {
	t.Parallel()

	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	require.Equal(t, []string{}, New(srv.URL).ListFolders(t.Context()))
}

func TestNewImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		character, file string
		want            Image
	}{
		{"Alice", "smile.png", Image{"smile.png", "user/images/Alice/smile.png", "smile"}},
		{"Alice", "a.b.c.jpg", Image{"a.b.c.jpg", "user/images/Alice/a.b.c.jpg", "a.b.c"}},
		{"Alice", "noext", Image{"noext", "user/images/Alice/noext", "noext"}},
		{"A/B", "x y.png", Image{"x y.png", "user/images/A%2FB/x%20y.png", "x y"}},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, NewImage(tt.character, tt.file))
	}
}
