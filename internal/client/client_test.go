package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-portal/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-portal/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-portal/internal/domain/user"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, payload map[string]interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(payload))
}

func TestClient_Session(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/session", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		writeEnvelope(t, w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"user_id":      "u1",
				"role":         "hr_admin",
				"landing_path": "/admin/dashboard",
				"permissions":  []string{"holiday.manage"},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL+"/", WithToken("token-1"))
	session, err := c.Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, user.RoleHrAdmin, session.Role)
	assert.Equal(t, "/admin/dashboard", session.LandingPath)
}

func TestClient_WorkingDays(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req leave.WorkingDaysRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.EndDate < req.StartDate {
			writeEnvelope(t, w, http.StatusUnprocessableEntity, map[string]interface{}{
				"success": false,
				"error": map[string]interface{}{
					"code":    "VALIDATION_ERROR",
					"message": "Validation failed",
					"details": map[string]string{"end_date": "end_date must not be before start_date"},
				},
			})
			return
		}
		writeEnvelope(t, w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"start_date": req.StartDate, "end_date": req.EndDate, "working_days": 5},
		})
	}))
	defer server.Close()

	c := New(server.URL)

	got, err := c.WorkingDays(context.Background(), leave.WorkingDaysRequest{StartDate: "2024-01-01", EndDate: "2024-01-07"})
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.WorkingDays)

	_, err = c.WorkingDays(context.Background(), leave.WorkingDaysRequest{StartDate: "2024-01-07", EndDate: "2024-01-01"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Details, "end_date")
}

func TestClient_ListEmployees(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "20", q.Get("skip"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "ayu", q.Get("search"))
		assert.Equal(t, "active", q.Get("status"))
		assert.Equal(t, "company-9", q.Get("company_id"))

		writeEnvelope(t, w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    []map[string]interface{}{{"id": "e-1", "full_name": "Ayu Lestari"}},
			"meta":    map[string]interface{}{"page": 3, "limit": 10, "skip": 20, "total_items": 21, "total_pages": 3},
		})
	}))
	defer server.Close()

	c := New(server.URL, WithCompany("company-9"))
	q := pagination.Query{Skip: 20, Limit: 10, Search: "ayu"}

	page, err := c.ListEmployees(context.Background(), q, string(employee.EmploymentStatusActive))
	require.NoError(t, err)
	assert.Equal(t, q, page.Query)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Ayu Lestari", page.Items[0].FullName)
	assert.Equal(t, 3, page.Meta.TotalPages)
}

func TestClient_NonEnvelopeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := New(server.URL).Session(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "bad gateway", apiErr.Message)
}

type pageRecorder struct {
	mu    sync.Mutex
	pages []Page[string]
	ch    chan Page[string]
}

func newPageRecorder() *pageRecorder {
	return &pageRecorder{ch: make(chan Page[string], 16)}
}

func (r *pageRecorder) onResult(p Page[string], err error) {
	r.mu.Lock()
	r.pages = append(r.pages, p)
	r.mu.Unlock()
	r.ch <- p
}

func (r *pageRecorder) next(t *testing.T) Page[string] {
	t.Helper()
	select {
	case p := <-r.ch:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("no page delivered")
		return Page[string]{}
	}
}

func TestListView_DeliversLatestQueryOnly(t *testing.T) {
	release := make(chan struct{})
	fetch := func(ctx context.Context, q pagination.Query) (Page[string], error) {
		if q.Skip == 5 {
			// The first page is still loading when the user moves on.
			select {
			case <-release:
			case <-ctx.Done():
				return Page[string]{}, ctx.Err()
			}
		}
		return Page[string]{Items: []string{q.Search}}, nil
	}

	rec := newPageRecorder()
	view, err := NewListView(5, fetch, rec.onResult, pagination.WithDebounceDelay(10*time.Millisecond))
	require.NoError(t, err)
	defer view.Close()

	require.NoError(t, view.Controller().SetPage(1))
	require.NoError(t, view.Controller().SetPage(2))

	page := rec.next(t)
	assert.Equal(t, 10, page.Query.Skip)

	close(release)
	view.Wait()
	assert.Len(t, rec.pages, 1, "the cancelled fetch must not be delivered")
}

func TestListView_SearchResetsPage(t *testing.T) {
	fetch := func(ctx context.Context, q pagination.Query) (Page[string], error) {
		return Page[string]{Items: []string{q.Search}}, nil
	}

	rec := newPageRecorder()
	view, err := NewListView(10, fetch, rec.onResult, pagination.WithDebounceDelay(20*time.Millisecond))
	require.NoError(t, err)
	defer view.Close()

	require.NoError(t, view.Controller().SetPage(3))
	assert.Equal(t, 30, rec.next(t).Query.Skip)

	view.Controller().SetSearch("a")
	view.Controller().SetSearch("ay")
	view.Controller().SetSearch("ayu")

	// Typing resets the page before the term settles.
	page := rec.next(t)
	assert.Equal(t, 0, page.Query.Skip)
	assert.Equal(t, "", page.Query.Search)

	page = rec.next(t)
	assert.Equal(t, "ayu", page.Query.Search)
	assert.Equal(t, []string{"ayu"}, page.Items)
}

func TestListView_NoDeliveryAfterClose(t *testing.T) {
	started := make(chan struct{})
	fetch := func(ctx context.Context, q pagination.Query) (Page[string], error) {
		close(started)
		<-ctx.Done()
		return Page[string]{}, ctx.Err()
	}

	rec := newPageRecorder()
	view, err := NewListView(10, fetch, rec.onResult)
	require.NoError(t, err)

	view.Refresh()
	<-started
	view.Close()
	view.Wait()

	view.Refresh()
	view.Controller().SetSearch("ignored")

	assert.Empty(t, rec.pages)
}
