package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryRepositoryReads(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users":
			_, _ = w.Write([]byte(`[{"id":1,"full_name":"Ana Pérez","role":"Coordinador"},{"id":2,"full_name":"Juan Ruiz","role":"Docente"}]`))
		case "/api/courses":
			assert.Equal(t, "Octavo a Undécimo", r.URL.Query().Get("section"))
			_, _ = w.Write([]byte(`["1001","1102"]`))
		case "/api/students":
			assert.Equal(t, "1102", r.URL.Query().Get("course"))
			_, _ = w.Write([]byte(`[{"id":42,"full_name":"Luis Gómez","code":"20231102","course":"1102","active_reports":[{"id":17,"purpose":"Académico","status":"SEGUIMIENTO"}]}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	repo := NewDirectoryRepository(NewBackendClient(server.URL, time.Second, nil, nil))
	ctx := context.Background()

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Coordinador", string(users[0].Role))

	courses, err := repo.ListCourses(ctx, " Octavo a Undécimo ")
	require.NoError(t, err)
	assert.Equal(t, []string{"1001", "1102"}, courses)

	students, err := repo.ListStudents(ctx, "1102")
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Len(t, students[0].ActiveReports, 1)
	assert.True(t, students[0].ActiveReports[0].Status.Active())
}

func TestBackendClientPing(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		w.WriteHeader(int(status.Load()))
	}))
	t.Cleanup(server.Close)
	client := NewBackendClient(server.URL, time.Second, nil, nil)

	assert.NoError(t, client.Ping(context.Background()))

	status.Store(http.StatusUnauthorized)
	assert.NoError(t, client.Ping(context.Background()))

	status.Store(http.StatusServiceUnavailable)
	assert.Error(t, client.Ping(context.Background()))
}
