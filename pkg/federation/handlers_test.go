// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package federation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/canonical/db-federation-service/internal/config"
	"github.com/canonical/db-federation-service/internal/datasource"
	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring"
	"github.com/canonical/db-federation-service/internal/tracing"
	"github.com/canonical/db-federation-service/internal/types"
)

type response struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Status  int             `json:"status"`
	Meta    *struct {
		First int `json:"first"`
		Max   int `json:"max"`
		Total int `json:"total"`
	} `json:"_meta"`
}

func serve(t *testing.T, svc ServiceInterface, method, target string, body io.Reader) (*httptest.ResponseRecorder, *response) {
	t.Helper()

	logger := logging.NewNoopLogger()

	mux := chi.NewMux()
	NewAPI(svc, nil, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger).RegisterEndpoints(mux)

	req := httptest.NewRequest(method, target, body)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code == http.StatusNoContent {
		return w, nil
	}

	r := new(response)
	if err := json.NewDecoder(w.Body).Decode(r); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if r.Status != w.Code {
		t.Errorf("expected envelope status %d, got %d", w.Code, r.Status)
	}

	return w, r
}

func TestHandleGetUserStatusMapping(t *testing.T) {
	tests := []struct {
		name               string
		err                error
		expectedStatusCode int
	}{
		{name: "found", expectedStatusCode: http.StatusOK},
		{name: "unknown instance", err: ErrInstanceNotFound, expectedStatusCode: http.StatusNotFound},
		{name: "unknown user", err: ErrUserNotFound, expectedStatusCode: http.StatusNotFound},
		{name: "invalid id", err: ErrInvalidUserID, expectedStatusCode: http.StatusBadRequest},
		{
			name:               "configuration",
			err:                types.NewConfigurationError("repository.Repository.FindByID", "missing template", nil),
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "external database down",
			err:                types.NewConnectionError("acquire", errors.New("timeout")),
			expectedStatusCode: http.StatusServiceUnavailable,
		},
		{
			name:               "bad row",
			err:                fmt.Errorf("find by id: %w", types.ErrRowMapping),
			expectedStatusCode: http.StatusBadGateway,
		},
		{name: "anything else", err: errors.New("boom"), expectedStatusCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := NewMockServiceInterface(ctrl)

			var user *types.User
			if tt.err == nil {
				user = &types.User{ID: "f:erp:7", Username: "alice", FederationLink: "erp"}
			}
			svc.EXPECT().GetUserByID(gomock.Any(), "erp", "f:erp:7").Return(user, tt.err)

			w, r := serve(t, svc, http.MethodGet, "/api/v0/instances/erp/users/f:erp:7", nil)

			if w.Code != tt.expectedStatusCode {
				t.Fatalf("expected status code %d, got %d", tt.expectedStatusCode, w.Code)
			}

			if tt.err != nil {
				if r.Message != tt.err.Error() {
					t.Errorf("expected message %q, got %q", tt.err.Error(), r.Message)
				}
				return
			}

			var got types.User
			if err := json.Unmarshal(r.Data, &got); err != nil {
				t.Fatalf("failed to decode user: %v", err)
			}

			if got.ID != "f:erp:7" || got.Username != "alice" {
				t.Errorf("unexpected user %+v", got)
			}
		})
	}
}

func TestHandleSearchUsers(t *testing.T) {
	tests := []struct {
		name               string
		query              string
		setupMocks         func(*MockServiceInterface)
		expectedStatusCode int
		expectedFirst      int
		expectedMax        int
	}{
		{
			name:  "defaults",
			query: "",
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().SearchUsers(gomock.Any(), "erp", "", &datasource.PageRequest{Offset: 0, Limit: defaultMax}).Return([]*types.User{{ID: "f:erp:1"}}, nil)
				s.EXPECT().CountUsers(gomock.Any(), "erp", "").Return(1, nil)
			},
			expectedStatusCode: http.StatusOK,
			expectedFirst:      0,
			expectedMax:        defaultMax,
		},
		{
			name:  "explicit window and search",
			query: "?search=ali&first=20&max=10",
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().SearchUsers(gomock.Any(), "erp", "ali", &datasource.PageRequest{Offset: 20, Limit: 10}).Return([]*types.User{}, nil)
				s.EXPECT().CountUsers(gomock.Any(), "erp", "ali").Return(42, nil)
			},
			expectedStatusCode: http.StatusOK,
			expectedFirst:      20,
			expectedMax:        10,
		},
		{
			name:               "non numeric first",
			query:              "?first=abc",
			setupMocks:         func(*MockServiceInterface) {},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "negative max",
			query:              "?max=-1",
			setupMocks:         func(*MockServiceInterface) {},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:  "count fails",
			query: "",
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().SearchUsers(gomock.Any(), "erp", "", gomock.Any()).Return([]*types.User{}, nil)
				s.EXPECT().CountUsers(gomock.Any(), "erp", "").Return(0, types.NewConnectionError("acquire", errors.New("timeout")))
			},
			expectedStatusCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := NewMockServiceInterface(ctrl)
			tt.setupMocks(svc)

			w, r := serve(t, svc, http.MethodGet, "/api/v0/instances/erp/users"+tt.query, nil)

			if w.Code != tt.expectedStatusCode {
				t.Fatalf("expected status code %d, got %d", tt.expectedStatusCode, w.Code)
			}

			if w.Code != http.StatusOK {
				return
			}

			if r.Meta == nil {
				t.Fatal("expected pagination metadata")
			}

			if r.Meta.First != tt.expectedFirst || r.Meta.Max != tt.expectedMax {
				t.Errorf("expected window %d/%d, got %d/%d", tt.expectedFirst, tt.expectedMax, r.Meta.First, r.Meta.Max)
			}
		})
	}
}

func TestHandleCountUsers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewMockServiceInterface(ctrl)
	svc.EXPECT().CountUsers(gomock.Any(), "erp", "bo").Return(3, nil)

	w, r := serve(t, svc, http.MethodGet, "/api/v0/instances/erp/users/count?search=bo", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status code 200, got %d", w.Code)
	}

	var got CountResult
	if err := json.Unmarshal(r.Data, &got); err != nil || got.Count != 3 {
		t.Fatalf("expected count 3, got %+v, %v", got, err)
	}
}

func TestHandleLookups(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewMockServiceInterface(ctrl)
	svc.EXPECT().GetUserByUsername(gomock.Any(), "erp", "alice").Return(&types.User{Username: "alice"}, nil)
	svc.EXPECT().GetUserByEmail(gomock.Any(), "erp", "bob@example.com").Return(nil, ErrUserNotFound)

	if w, _ := serve(t, svc, http.MethodGet, "/api/v0/instances/erp/users/by-username/alice", nil); w.Code != http.StatusOK {
		t.Fatalf("expected status code 200, got %d", w.Code)
	}

	if w, _ := serve(t, svc, http.MethodGet, "/api/v0/instances/erp/users/by-email/bob@example.com", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected status code 404, got %d", w.Code)
	}
}

func TestHandleValidateCredentials(t *testing.T) {
	tests := []struct {
		name               string
		body               string
		setupMocks         func(*MockServiceInterface)
		expectedStatusCode int
		expectedValid      bool
	}{
		{
			name: "valid",
			body: `{"username":"alice","password":"secret"}`,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().ValidateCredentials(gomock.Any(), "erp", "alice", "secret").Return(true, nil)
			},
			expectedStatusCode: http.StatusOK,
			expectedValid:      true,
		},
		{
			name: "invalid",
			body: `{"username":"alice","password":"wrong"}`,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().ValidateCredentials(gomock.Any(), "erp", "alice", "wrong").Return(false, nil)
			},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "missing password",
			body:               `{"username":"alice"}`,
			setupMocks:         func(*MockServiceInterface) {},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "malformed body",
			body:               `{"username":`,
			setupMocks:         func(*MockServiceInterface) {},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name: "external database down",
			body: `{"username":"alice","password":"secret"}`,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().ValidateCredentials(gomock.Any(), "erp", "alice", "secret").Return(false, types.NewConnectionError("acquire", errors.New("timeout")))
			},
			expectedStatusCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := NewMockServiceInterface(ctrl)
			tt.setupMocks(svc)

			w, r := serve(t, svc, http.MethodPost, "/api/v0/instances/erp/credentials/validate", strings.NewReader(tt.body))

			if w.Code != tt.expectedStatusCode {
				t.Fatalf("expected status code %d, got %d", tt.expectedStatusCode, w.Code)
			}

			if w.Code != http.StatusOK {
				return
			}

			var got CredentialsResult
			if err := json.Unmarshal(r.Data, &got); err != nil {
				t.Fatalf("failed to decode result: %v", err)
			}

			if got.Valid != tt.expectedValid {
				t.Errorf("expected valid=%v, got %v", tt.expectedValid, got.Valid)
			}
		})
	}
}

func TestHandleUpdateCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewMockServiceInterface(ctrl)
	svc.EXPECT().UpdateCredentials(gomock.Any(), "erp", "alice", "n3w").Return(true, nil)

	w, r := serve(t, svc, http.MethodPut, "/api/v0/instances/erp/credentials/alice", strings.NewReader(`{"password":"n3w"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status code 200, got %d", w.Code)
	}

	var got PasswordUpdateResult
	if err := json.Unmarshal(r.Data, &got); err != nil || !got.Updated {
		t.Fatalf("expected updated result, got %+v, %v", got, err)
	}

	if w, _ := serve(t, svc, http.MethodPut, "/api/v0/instances/erp/credentials/alice", strings.NewReader(`{}`)); w.Code != http.StatusBadRequest {
		t.Fatalf("expected status code 400, got %d", w.Code)
	}
}

func TestHandleInstances(t *testing.T) {
	body := strings.Join([]string{
		`{"id": "erp",`,
		` "connection": {"url": "postgres://reader@erp.internal:5432/erp", "dialect": "postgres"},`,
		` "queries": {`,
		`  "count": "SELECT COUNT(*) FROM accounts",`,
		`  "list_all": "SELECT id, login AS username FROM accounts ORDER BY id",`,
		`  "find_by_id": "SELECT id, login AS username FROM accounts WHERE id = ?",`,
		`  "find_by_username": "SELECT id, login AS username FROM accounts WHERE login = ?",`,
		`  "find_by_email": "SELECT id, login AS username FROM accounts WHERE mail = ?",`,
		`  "find_by_search_term": "SELECT id, login AS username FROM accounts WHERE UPPER(login) LIKE ? ORDER BY id",`,
		`  "find_password_hash": "SELECT pwd FROM accounts WHERE login = ?"},`,
		` "sync_enabled": true}`,
	}, "\n")

	t.Run("configure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := NewMockServiceInterface(ctrl)
		svc.EXPECT().ConfigureInstance(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, spec *config.InstanceSpec) (*InstanceView, error) {
				if spec.ID != "erp" || !spec.SyncEnabled || spec.HashAlgorithm != "bcrypt" {
					t.Errorf("unexpected spec %+v", spec)
				}
				return &InstanceView{ID: "erp", Dialect: "postgresql", SyncEnabled: true}, nil
			},
		)

		w, r := serve(t, svc, http.MethodPut, "/api/v0/instances/erp", strings.NewReader(body))
		if w.Code != http.StatusOK {
			t.Fatalf("expected status code 200, got %d: %s", w.Code, r.Message)
		}

		var view InstanceView
		if err := json.Unmarshal(r.Data, &view); err != nil || view.ID != "erp" {
			t.Fatalf("unexpected view %+v, %v", view, err)
		}
	})

	t.Run("id mismatch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		w, _ := serve(t, NewMockServiceInterface(ctrl), http.MethodPut, "/api/v0/instances/crm", strings.NewReader(body))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status code 400, got %d", w.Code)
		}
	})

	t.Run("invalid spec", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		w, _ := serve(t, NewMockServiceInterface(ctrl), http.MethodPut, "/api/v0/instances/erp", strings.NewReader(`{"id": "erp"}`))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status code 400, got %d", w.Code)
		}
	})

	t.Run("list get and remove", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := NewMockServiceInterface(ctrl)
		svc.EXPECT().ListInstances(gomock.Any()).Return([]*InstanceView{{ID: "crm"}, {ID: "erp"}})
		svc.EXPECT().GetInstance(gomock.Any(), "hr").Return(nil, ErrInstanceNotFound)
		svc.EXPECT().RemoveInstance(gomock.Any(), "erp").Return(nil)

		w, r := serve(t, svc, http.MethodGet, "/api/v0/instances", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status code 200, got %d", w.Code)
		}

		var views []InstanceView
		if err := json.Unmarshal(r.Data, &views); err != nil || len(views) != 2 {
			t.Fatalf("expected 2 instances, got %+v, %v", views, err)
		}

		if w, _ := serve(t, svc, http.MethodGet, "/api/v0/instances/hr", nil); w.Code != http.StatusNotFound {
			t.Fatalf("expected status code 404, got %d", w.Code)
		}

		if w, _ := serve(t, svc, http.MethodDelete, "/api/v0/instances/erp", nil); w.Code != http.StatusNoContent {
			t.Fatalf("expected status code 204, got %d", w.Code)
		}
	})
}

func TestHandleLocalUsers(t *testing.T) {
	tests := []struct {
		name               string
		method             string
		target             string
		setupMocks         func(*MockServiceInterface)
		expectedStatusCode int
	}{
		{
			name:   "list linked users",
			method: http.MethodGet,
			target: "/api/v0/instances/erp/local-users?first=5&max=5",
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().ListLinkedUsers(gomock.Any(), "erp", uint64(5), uint64(5)).Return([]*types.User{}, nil)
			},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:   "zero max falls back to the default page size",
			method: http.MethodGet,
			target: "/api/v0/instances/erp/local-users?max=0",
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().ListLinkedUsers(gomock.Any(), "erp", uint64(0), uint64(100)).Return([]*types.User{}, nil)
			},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "negative window",
			method:             http.MethodGet,
			target:             "/api/v0/instances/erp/local-users?first=-5",
			setupMocks:         func(*MockServiceInterface) {},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:   "remove",
			method: http.MethodDelete,
			target: "/api/v0/instances/erp/local-users/alice",
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().RemoveUser(gomock.Any(), "erp", "alice").Return(nil)
			},
			expectedStatusCode: http.StatusNoContent,
		},
		{
			name:   "remove disabled",
			method: http.MethodDelete,
			target: "/api/v0/instances/erp/local-users/alice",
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().RemoveUser(gomock.Any(), "erp", "alice").Return(ErrLocalDeleteDisabled)
			},
			expectedStatusCode: http.StatusForbidden,
		},
		{
			name:   "unlink",
			method: http.MethodPost,
			target: "/api/v0/instances/erp/local-users/alice/unlink",
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().UnlinkUser(gomock.Any(), "erp", "alice").Return(&types.User{Username: "alice"}, nil)
			},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:   "unlink plain local user",
			method: http.MethodPost,
			target: "/api/v0/instances/erp/local-users/alice/unlink",
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().UnlinkUser(gomock.Any(), "erp", "alice").Return(nil, ErrUserNotLinked)
			},
			expectedStatusCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := NewMockServiceInterface(ctrl)
			tt.setupMocks(svc)

			w, _ := serve(t, svc, tt.method, tt.target, nil)

			if w.Code != tt.expectedStatusCode {
				t.Fatalf("expected status code %d, got %d", tt.expectedStatusCode, w.Code)
			}
		})
	}
}

func TestHandleSync(t *testing.T) {
	tests := []struct {
		name               string
		method             string
		setupMocks         func(*MockServiceInterface)
		expectedStatusCode int
		expectedState      types.SyncState
	}{
		{
			name:   "run",
			method: http.MethodPost,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().Sync(gomock.Any(), "erp").Return(&types.SyncResult{Instance: "erp", State: types.SyncStateCompleted, Added: 2}, nil)
			},
			expectedStatusCode: http.StatusOK,
			expectedState:      types.SyncStateCompleted,
		},
		{
			name:   "disabled",
			method: http.MethodPost,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().Sync(gomock.Any(), "erp").Return(nil, ErrSyncDisabled)
			},
			expectedStatusCode: http.StatusForbidden,
		},
		{
			name:   "already running",
			method: http.MethodPost,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().Sync(gomock.Any(), "erp").Return(nil, ErrSyncInProgress)
			},
			expectedStatusCode: http.StatusConflict,
		},
		{
			name:   "status",
			method: http.MethodGet,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().SyncStatus(gomock.Any(), "erp").Return(&types.SyncResult{Instance: "erp", State: types.SyncStateIdle}, nil)
			},
			expectedStatusCode: http.StatusOK,
			expectedState:      types.SyncStateIdle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := NewMockServiceInterface(ctrl)
			tt.setupMocks(svc)

			w, r := serve(t, svc, tt.method, "/api/v0/instances/erp/sync", nil)

			if w.Code != tt.expectedStatusCode {
				t.Fatalf("expected status code %d, got %d", tt.expectedStatusCode, w.Code)
			}

			if w.Code != http.StatusOK {
				return
			}

			var got types.SyncResult
			if err := json.Unmarshal(r.Data, &got); err != nil {
				t.Fatalf("failed to decode result: %v", err)
			}

			if got.State != tt.expectedState {
				t.Errorf("expected state %s, got %s", tt.expectedState, got.State)
			}
		})
	}
}
