// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package federation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/canonical/db-federation-service/internal/config"
	"github.com/canonical/db-federation-service/internal/datasource"
	"github.com/canonical/db-federation-service/internal/db"
	"github.com/canonical/db-federation-service/internal/http/types"
	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring"
	"github.com/canonical/db-federation-service/internal/tracing"
	fedtypes "github.com/canonical/db-federation-service/internal/types"
	"github.com/canonical/db-federation-service/pkg/authentication"
)

const (
	defaultMax     = 100
	instancePrefix = "/api/v0/instances"
)

type API struct {
	service  ServiceInterface
	dbClient db.DBClientInterface
	validate *validator.Validate

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Get(instancePrefix, a.handleListInstances)
	mux.Put(instancePrefix+"/{instance_id}", a.handleConfigureInstance)
	mux.Get(instancePrefix+"/{instance_id}", a.handleGetInstance)
	mux.Delete(instancePrefix+"/{instance_id}", a.handleRemoveInstance)

	mux.Get(instancePrefix+"/{instance_id}/users", a.handleSearchUsers)
	mux.Get(instancePrefix+"/{instance_id}/users/count", a.handleCountUsers)
	mux.Get(instancePrefix+"/{instance_id}/users/by-username/{username}", a.handleGetUserByUsername)
	mux.Get(instancePrefix+"/{instance_id}/users/by-email/{email}", a.handleGetUserByEmail)
	mux.Get(instancePrefix+"/{instance_id}/users/{user_id}", a.handleGetUser)

	mux.Post(instancePrefix+"/{instance_id}/credentials/validate", a.handleValidateCredentials)
	mux.Put(instancePrefix+"/{instance_id}/credentials/{username}", a.handleUpdateCredentials)

	mux.Get(instancePrefix+"/{instance_id}/local-users", a.handleListLinkedUsers)
	mux.Group(func(r chi.Router) {
		if a.dbClient != nil {
			r.Use(db.TransactionMiddleware(a.dbClient, a.logger))
		}

		r.Delete(instancePrefix+"/{instance_id}/local-users/{username}", a.handleRemoveUser)
		r.Post(instancePrefix+"/{instance_id}/local-users/{username}/unlink", a.handleUnlinkUser)
	})

	mux.Post(instancePrefix+"/{instance_id}/sync", a.handleSync)
	mux.Get(instancePrefix+"/{instance_id}/sync", a.handleSyncStatus)
}

func (a *API) handleListInstances(w http.ResponseWriter, r *http.Request) {
	a.writeResponse(w, http.StatusOK, "List of instances", a.service.ListInstances(r.Context()), nil)
}

func (a *API) handleConfigureInstance(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	instanceID := chi.URLParam(r, "instance_id")

	spec, err := config.DecodeInstance(r.Body)
	if err != nil {
		a.writeError(w, err)
		return
	}

	if spec.ID != instanceID {
		a.writeMessage(w, http.StatusBadRequest, "Instance id in body does not match the path")
		return
	}

	view, err := a.service.ConfigureInstance(r.Context(), spec)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.logger.Security().AdminAction(authentication.PrincipalFromContext(r.Context()), "configure_instance", instanceID)

	a.writeResponse(w, http.StatusOK, fmt.Sprintf("Configured instance %s", instanceID), view, nil)
}

func (a *API) handleGetInstance(w http.ResponseWriter, r *http.Request) {
	view, err := a.service.GetInstance(r.Context(), chi.URLParam(r, "instance_id"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeResponse(w, http.StatusOK, "Instance details", view, nil)
}

func (a *API) handleRemoveInstance(w http.ResponseWriter, r *http.Request) {
	instanceID := chi.URLParam(r, "instance_id")

	if err := a.service.RemoveInstance(r.Context(), instanceID); err != nil {
		a.writeError(w, err)
		return
	}

	a.logger.Security().AdminAction(authentication.PrincipalFromContext(r.Context()), "remove_instance", instanceID)

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	instanceID := chi.URLParam(r, "instance_id")
	search := r.URL.Query().Get("search")

	first, err := intParam(r, "first", 0)
	if err != nil {
		a.writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	limit, err := intParam(r, "max", defaultMax)
	if err != nil {
		a.writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := datasource.NewPageRequest(first, limit)
	if err != nil {
		a.writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	users, err := a.service.SearchUsers(r.Context(), instanceID, search, page)
	if err != nil {
		a.writeError(w, err)
		return
	}

	total, err := a.service.CountUsers(r.Context(), instanceID, search)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeResponse(
		w,
		http.StatusOK,
		"List of users",
		users,
		&types.Pagination{First: first, Max: limit, Total: total},
	)
}

func (a *API) handleCountUsers(w http.ResponseWriter, r *http.Request) {
	count, err := a.service.CountUsers(r.Context(), chi.URLParam(r, "instance_id"), r.URL.Query().Get("search"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeResponse(w, http.StatusOK, "Number of users", CountResult{Count: count}, nil)
}

func (a *API) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := a.service.GetUserByID(r.Context(), chi.URLParam(r, "instance_id"), chi.URLParam(r, "user_id"))
	a.writeUser(w, user, err)
}

func (a *API) handleGetUserByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := a.service.GetUserByUsername(r.Context(), chi.URLParam(r, "instance_id"), chi.URLParam(r, "username"))
	a.writeUser(w, user, err)
}

func (a *API) handleGetUserByEmail(w http.ResponseWriter, r *http.Request) {
	user, err := a.service.GetUserByEmail(r.Context(), chi.URLParam(r, "instance_id"), chi.URLParam(r, "email"))
	a.writeUser(w, user, err)
}

func (a *API) handleValidateCredentials(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var creds Credentials
	if err := a.decode(r, &creds); err != nil {
		a.writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	valid, err := a.service.ValidateCredentials(r.Context(), chi.URLParam(r, "instance_id"), creds.Username, creds.Password)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeResponse(w, http.StatusOK, "Credentials checked", CredentialsResult{Valid: valid}, nil)
}

func (a *API) handleUpdateCredentials(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var update PasswordUpdate
	if err := a.decode(r, &update); err != nil {
		a.writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	username := chi.URLParam(r, "username")

	updated, err := a.service.UpdateCredentials(r.Context(), chi.URLParam(r, "instance_id"), username, update.Password)
	if err != nil {
		a.writeError(w, err)
		return
	}

	if updated {
		a.logger.Security().AdminAction(authentication.PrincipalFromContext(r.Context()), "update_credentials", username)
	}

	a.writeResponse(w, http.StatusOK, "Credentials update processed", PasswordUpdateResult{Updated: updated}, nil)
}

func (a *API) handleListLinkedUsers(w http.ResponseWriter, r *http.Request) {
	first, err := intParam(r, "first", 0)
	if err != nil {
		a.writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	limit, err := intParam(r, "max", defaultMax)
	if err != nil {
		a.writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if first < 0 || limit < 0 {
		a.writeMessage(w, http.StatusBadRequest, "first and max must not be negative")
		return
	}

	size := db.PageSize(int64(limit))

	users, err := a.service.ListLinkedUsers(r.Context(), chi.URLParam(r, "instance_id"), uint64(first), size)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeResponse(w, http.StatusOK, "List of linked users", users, &types.Pagination{First: first, Max: int(size)})
}

func (a *API) handleRemoveUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if err := a.service.RemoveUser(r.Context(), chi.URLParam(r, "instance_id"), username); err != nil {
		a.writeError(w, err)
		return
	}

	a.logger.Security().AdminAction(authentication.PrincipalFromContext(r.Context()), "remove_local_user", username)

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleUnlinkUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := a.service.UnlinkUser(r.Context(), chi.URLParam(r, "instance_id"), username)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.logger.Security().AdminAction(authentication.PrincipalFromContext(r.Context()), "unlink_user", username)

	a.writeResponse(w, http.StatusOK, fmt.Sprintf("Unlinked user %s", username), user, nil)
}

func (a *API) handleSync(w http.ResponseWriter, r *http.Request) {
	result, err := a.service.Sync(r.Context(), chi.URLParam(r, "instance_id"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeResponse(w, http.StatusOK, "Synchronization finished", result, nil)
}

func (a *API) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	result, err := a.service.SyncStatus(r.Context(), chi.URLParam(r, "instance_id"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeResponse(w, http.StatusOK, "Synchronization status", result, nil)
}

func (a *API) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}

	return a.validate.Struct(v)
}

func (a *API) writeUser(w http.ResponseWriter, user *fedtypes.User, err error) {
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeResponse(w, http.StatusOK, "User details", user, nil)
}

func (a *API) writeResponse(w http.ResponseWriter, status int, message string, data any, meta *types.Pagination) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(
		types.Response{
			Data:    data,
			Message: message,
			Status:  status,
			Meta:    meta,
		},
	)
}

func (a *API) writeMessage(w http.ResponseWriter, status int, message string) {
	a.writeResponse(w, status, message, nil, nil)
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger.Errorf("request failed: %v", err)
	}

	a.writeMessage(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInstanceNotFound), errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidUserID), errors.Is(err, fedtypes.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, ErrSyncDisabled), errors.Is(err, ErrLocalDeleteDisabled), errors.Is(err, ErrUnlinkDisabled):
		return http.StatusForbidden
	case errors.Is(err, ErrUserNotLinked), errors.Is(err, ErrSyncInProgress):
		return http.StatusConflict
	case errors.Is(err, fedtypes.ErrConnection):
		return http.StatusServiceUnavailable
	case errors.Is(err, fedtypes.ErrRowMapping):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter %q", name, raw)
	}

	return v, nil
}

func NewAPI(service ServiceInterface, dbClient db.DBClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	a := new(API)

	a.service = service
	a.dbClient = dbClient
	a.validate = validator.New(validator.WithRequiredStructEnabled())

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
