package docstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryEncode(t *testing.T) {
	q := NewQuery().
		Eq("userId", "usr1").
		Like("city", "Lis").
		Gte("price", "50").
		Lte("price", "200").
		Sort("createdAt", "desc").
		Limit(10)

	enc := q.Encode()
	assert.Contains(t, enc, "userId=usr1")
	assert.Contains(t, enc, "city_like=Lis")
	assert.Contains(t, enc, "price_gte=50")
	assert.Contains(t, enc, "price_lte=200")
	assert.Contains(t, enc, "_sort=createdAt")
	assert.Contains(t, enc, "_order=desc")
	assert.Contains(t, enc, "_limit=10")
}

func TestListSendsQuery(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"id":"h1"},{"id":"h2"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	var out []map[string]any
	err := c.List(context.Background(), "hotels", NewQuery().Eq("category", "spa"), &out)

	require.NoError(t, err)
	assert.Equal(t, "/hotels", gotPath)
	assert.Equal(t, "category=spa", gotQuery)
	assert.Len(t, out, 2)
}

func TestCreatePostsJSONAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var doc map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		assert.Equal(t, "res1", doc["id"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(doc)
	}))
	defer srv.Close()

	c := New(srv.URL)
	var created map[string]any
	err := c.Create(context.Background(), "reservations", map[string]any{"id": "res1"}, &created)

	require.NoError(t, err)
	assert.Equal(t, "res1", created["id"])
}

func TestPatchUsesPatchMethod(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"id":"res1"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Patch(context.Background(), "reservations", "res1", map[string]any{"notes": "x"}, nil)

	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/reservations/res1", gotPath)
}

func TestPutReplacesDocument(t *testing.T) {
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		_, _ = w.Write([]byte(`{"id":"res1"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.Put(context.Background(), "reservations", "res1", map[string]any{"id": "res1"}, nil))
	assert.Equal(t, http.MethodPut, gotMethod)
}

func TestDelete(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.Delete(context.Background(), "reservations", "res1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/reservations/res1", gotPath)
}

func TestNon2xxReturnsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Get(context.Background(), "hotels", "missing", nil)

	require.Error(t, err)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Status)
	assert.Equal(t, http.StatusNotFound, statusErr.HTTPStatus())
	assert.Equal(t, "/hotels/missing", statusErr.Path)
}

func TestTrailingSlashBaseURL(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	var out []map[string]any
	require.NoError(t, c.List(context.Background(), "users", nil, &out))
	assert.Equal(t, "/users", gotPath)
}
