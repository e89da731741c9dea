package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/api"
	"taskdeck/internal/model"
)

func TestClientList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tasks", r.URL.Path)
		w.Write([]byte(`[{"id":1,"title":"first","completed":false},{"id":2,"title":"second","completed":true}]`))
	}))
	defer srv.Close()

	gw, _ := newGateway(t, srv.URL, staticToken{"tok", true})
	tasks, err := api.NewClient(gw).List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, model.ID("1"), tasks[0].ID)
	assert.Equal(t, "second", tasks[1].Title)
	assert.True(t, tasks[1].Completed)
}

func TestClientCreateSendsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "buy milk", payload["title"])
		assert.Equal(t, "two liters", payload["description"])
		assert.Equal(t, false, payload["completed"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"t1","title":"buy milk","description":"two liters","completed":false}`))
	}))
	defer srv.Close()

	gw, _ := newGateway(t, srv.URL, staticToken{"tok", true})
	task, err := api.NewClient(gw).Create(context.Background(), "buy milk", "two liters", false)
	require.NoError(t, err)
	assert.Equal(t, model.ID("t1"), task.ID)
}

func TestClientUpdateTargetsTask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/tasks/t7", r.URL.Path)
		w.Write([]byte(`{"id":"t7","title":"renamed","completed":true}`))
	}))
	defer srv.Close()

	gw, _ := newGateway(t, srv.URL, staticToken{"tok", true})
	task, err := api.NewClient(gw).Update(context.Background(), "t7", "renamed", "", true)
	require.NoError(t, err)
	assert.True(t, task.Completed)
}

func TestClientDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/tasks/t3", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	gw, _ := newGateway(t, srv.URL, staticToken{"tok", true})
	require.NoError(t, api.NewClient(gw).Delete(context.Background(), "t3"))
}
