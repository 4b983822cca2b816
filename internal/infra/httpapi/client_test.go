package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sourabhrustagi/taskgate/internal/core/domain"
)

type staticToken string

func (t staticToken) AccessToken(ctx context.Context) string { return string(t) }

func TestBearerHeaderAndQueryEncoding(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(domain.TaskPage{})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, staticToken("tok123"))
	completed := true
	_, err := c.ListTasks(context.Background(), domain.TaskQuery{
		Page:      2,
		Limit:     10,
		Priority:  domain.PriorityHigh,
		Completed: &completed,
	})
	if err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("Authorization = %q, want Bearer tok123", gotAuth)
	}
	for _, want := range []string{"page=2", "limit=10", "priority=high", "completed=true"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "401 maps to AuthenticationError",
			status: http.StatusUnauthorized,
			body:   `{"message":"token expired"}`,
			check: func(t *testing.T, err error) {
				var auth *domain.AuthenticationError
				if !errors.As(err, &auth) || auth.Reason != "token expired" {
					t.Errorf("err = %v, want AuthenticationError(token expired)", err)
				}
			},
		},
		{
			name:   "404 maps to NotFoundError",
			status: http.StatusNotFound,
			body:   `{"message":"no such task"}`,
			check: func(t *testing.T, err error) {
				var nf *domain.NotFoundError
				if !errors.As(err, &nf) {
					t.Errorf("err = %v, want NotFoundError", err)
				}
			},
		},
		{
			name:   "422 maps to field-tagged ValidationError",
			status: http.StatusUnprocessableEntity,
			body:   `{"message":"invalid","errors":{"title":"required"}}`,
			check: func(t *testing.T, err error) {
				var val *domain.ValidationError
				if !errors.As(err, &val) || val.Fields["title"] != "required" {
					t.Errorf("err = %v, want ValidationError with title field", err)
				}
			},
		},
		{
			name:   "503 maps to ServerError",
			status: http.StatusServiceUnavailable,
			body:   `{"message":"maintenance"}`,
			check: func(t *testing.T, err error) {
				var srv *domain.ServerError
				if !errors.As(err, &srv) || srv.Status != 503 {
					t.Errorf("err = %v, want ServerError 503", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(Config{BaseURL: srv.URL}, nil)
			_, err := c.GetTask(context.Background(), "t1")
			if err == nil {
				t.Fatal("expected error")
			}
			tt.check(t, err)
		})
	}
}

func TestConnectionFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	_, err := c.GetTask(context.Background(), "t1")

	var netErr *domain.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("err = %v, want NetworkError", err)
	}
}
