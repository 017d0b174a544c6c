package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Do(t *testing.T) {
	var gotAuth, gotQuery, gotHeader string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, _ := r.BasicAuth()
		gotAuth = user + ":" + pass
		gotQuery = r.URL.RawQuery
		gotHeader = r.Header.Get("X-Test")
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":7}}`))
	}))
	defer srv.Close()

	c := New("test", srv.URL+"/", WithBasicAuth("u", "p"), WithHeader("X-Test", "yes"))

	var out struct {
		Data struct {
			ID int `json:"id"`
		} `json:"data"`
	}
	err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/things",
		Query:  url.Values{"a": {"1"}},
		Body:   map[string]string{"name": "x"},
		Expect: []int{http.StatusCreated},
	}, &out)

	require.NoError(t, err)
	assert.Equal(t, 7, out.Data.ID)
	assert.Equal(t, "u:p", gotAuth)
	assert.Equal(t, "a=1", gotQuery)
	assert.Equal(t, "yes", gotHeader)
	assert.Equal(t, "x", gotBody["name"])
}

func TestClient_Do_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"gone"}`))
	}))
	defer srv.Close()

	c := New("test", srv.URL)
	err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/posts/1"}, nil)
	require.Error(t, err)

	var re *RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "test", re.System)
	assert.Equal(t, http.MethodGet, re.Method)
	assert.Equal(t, "/posts/1", re.Endpoint)
	assert.Equal(t, http.StatusNotFound, re.Status)
	assert.Contains(t, re.Error(), "gone")
	assert.True(t, IsNotFound(err))
}

func TestClient_Do_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New("test", srv.URL)
	var out map[string]any
	err := c.Do(context.Background(), Request{
		Method: http.MethodDelete,
		Path:   "/files/3",
		Expect: []int{http.StatusNoContent},
	}, &out)
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestClient_Do_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New("test", srv.URL)
	err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"}, nil)

	var re *RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 0, re.Status)
	assert.False(t, IsNotFound(err))
}

func TestClient_Do_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	var out map[string]any
	err := New("test", srv.URL).Do(context.Background(), Request{Method: http.MethodGet, Path: "/"}, &out)
	assert.Error(t, err)
}
