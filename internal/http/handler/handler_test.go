package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"arcapi/internal/apperr"
	"arcapi/internal/model"
	"arcapi/internal/search"
	"arcapi/internal/service"
	serviceMocks "arcapi/internal/service/mocks"
)

type testEnv struct {
	app    *fiber.App
	dbMock sqlmock.Sqlmock

	users      *serviceMocks.MockUserService
	tags       *serviceMocks.MockTagService
	notes      *serviceMocks.MockNoteService
	signatures *serviceMocks.MockSignatureService
	archive    *serviceMocks.MockArchiveService
	configs    *serviceMocks.MockConfigService
	logs       *serviceMocks.MockLogService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		dbMock:     dbMock,
		users:      new(serviceMocks.MockUserService),
		tags:       new(serviceMocks.MockTagService),
		notes:      new(serviceMocks.MockNoteService),
		signatures: new(serviceMocks.MockSignatureService),
		archive:    new(serviceMocks.MockArchiveService),
		configs:    new(serviceMocks.MockConfigService),
		logs:       new(serviceMocks.MockLogService),
	}
	env.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(env.app, db, Services{
		Users:      env.users,
		Tags:       env.tags,
		Notes:      env.notes,
		Signatures: env.signatures,
		Archive:    env.archive,
		Configs:    env.configs,
		Logs:       env.logs,
	})
	return env
}

// loginAs wires the bearer token "tok" to the given user for the whole test.
func (e *testEnv) loginAs(user *model.User) {
	e.users.On("Authenticate", mock.Anything, "tok").Return(user, nil)
}

func jsonReq(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func authedReq(method, target string, body any) *http.Request {
	req := jsonReq(method, target, body)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer tok")
	return req
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

var (
	testAdmin   = &model.User{UserID: 1, Login: "root", Role: model.RoleAdmin}
	testRegular = &model.User{UserID: 2, Login: "anna", Role: model.RoleRegular}
)

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	t.Run("healthy", func(t *testing.T) {
		env.dbMock.ExpectPing().WillReturnError(nil)

		resp, _ := env.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		env.dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, _ := env.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		env := newTestEnv(t)
		env.users.On("Login", mock.Anything, "anna", "secret").
			Return(testRegular, &model.Session{Token: "tok", UserID: 2}, nil).Once()

		resp, _ := env.app.Test(jsonReq(http.MethodPost, "/api/user/login", fiber.Map{
			"login": "anna", "password": "secret",
		}))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body loginResponse
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "tok", body.Session.Token)
		env.users.AssertExpectations(t)
	})

	t.Run("bad credentials map to 401", func(t *testing.T) {
		env := newTestEnv(t)
		env.users.On("Login", mock.Anything, "anna", "wrong").
			Return(nil, nil, apperr.Authorization("invalid credentials")).Once()

		resp, _ := env.app.Test(jsonReq(http.MethodPost, "/api/user/login", fiber.Map{
			"login": "anna", "password": "wrong",
		}))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, resp).Error.Code)
	})
}

func TestAuthGate(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		env := newTestEnv(t)

		resp, _ := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/tags", nil))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
	})

	t.Run("stale token", func(t *testing.T) {
		env := newTestEnv(t)
		env.users.On("Authenticate", mock.Anything, "tok").
			Return(nil, apperr.Authorization("invalid or expired session"))

		resp, _ := env.app.Test(authedReq(http.MethodGet, "/api/tags", nil))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAdminGate(t *testing.T) {
	t.Run("regular user is denied and audited", func(t *testing.T) {
		env := newTestEnv(t)
		env.loginAs(testRegular)
		env.logs.On("Error", mock.Anything, "anna", "auth", "admin route denied",
			map[string]any{"path": "/api/users/all"}).Once()

		resp, _ := env.app.Test(authedReq(http.MethodGet, "/api/users/all", nil))

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Error.Code)
		env.logs.AssertExpectations(t)
	})

	t.Run("admin passes through", func(t *testing.T) {
		env := newTestEnv(t)
		env.loginAs(testAdmin)
		env.users.On("List", mock.Anything).Return([]model.User{*testAdmin}, nil).Once()

		resp, _ := env.app.Test(authedReq(http.MethodGet, "/api/users/all", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestGetTag(t *testing.T) {
	env := newTestEnv(t)
	env.loginAs(testRegular)

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := env.app.Test(authedReq(http.MethodGet, "/api/tag/id/abc", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})

	t.Run("not found", func(t *testing.T) {
		env.tags.On("Get", mock.Anything, int64(42)).
			Return(nil, apperr.NotFound("tag", int64(42))).Once()

		resp, _ := env.app.Test(authedReq(http.MethodGet, "/api/tag/id/42", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("found", func(t *testing.T) {
		env.tags.On("Get", mock.Anything, int64(7)).
			Return(&model.Tag{TagID: 7, Name: "maps"}, nil).Once()

		resp, _ := env.app.Test(authedReq(http.MethodGet, "/api/tag/id/7", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var tag model.Tag
		json.NewDecoder(resp.Body).Decode(&tag)
		assert.Equal(t, "maps", tag.Name)
	})
}

func TestCreateNote(t *testing.T) {
	env := newTestEnv(t)
	env.loginAs(testRegular)

	t.Run("created with acting user", func(t *testing.T) {
		env.notes.On("Create", mock.Anything, testRegular, service.NoteInput{
			Title: "shelf list", Content: "row 4", TagIDs: []int64{4},
		}).Return(&model.Note{NoteID: 9, Title: "shelf list", OwnerUserID: 2}, nil).Once()

		resp, _ := env.app.Test(authedReq(http.MethodPut, "/api/note", fiber.Map{
			"title": "shelf list", "content": "row 4", "tagIds": []int64{4},
		}))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		env.notes.AssertExpectations(t)
	})

	t.Run("validation error carries the field", func(t *testing.T) {
		env.notes.On("Create", mock.Anything, testRegular, mock.Anything).
			Return(nil, apperr.Validation("title", "must not be empty")).Once()

		resp, _ := env.app.Test(authedReq(http.MethodPut, "/api/note", fiber.Map{"content": "x"}))

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
		assert.Equal(t, "title", body.Error.Field)
	})
}

func TestSearchNotes(t *testing.T) {
	env := newTestEnv(t)
	env.loginAs(testRegular)

	env.notes.On("Search", mock.Anything, testRegular, search.Request{
		Query:    []search.QueryElement{{Field: "title", Condition: search.CondFragment, Value: "shelf"}},
		PageSize: 10,
	}).Return(search.Page[model.Note]{
		Data: []model.Note{{NoteID: 9, Title: "shelf list"}},
		Page: 1, PageSize: 10, TotalSize: 1, TotalPages: 1,
	}, nil).Once()

	resp, _ := env.app.Test(authedReq(http.MethodPost, "/api/notes/search", fiber.Map{
		"query":    []fiber.Map{{"field": "title", "condition": "FRAGMENT", "value": "shelf"}},
		"pageSize": 10,
	}))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var page search.Page[model.Note]
	json.NewDecoder(resp.Body).Decode(&page)
	assert.Equal(t, 1, page.TotalSize)
	env.notes.AssertExpectations(t)
}

func TestPurgeLogs(t *testing.T) {
	env := newTestEnv(t)
	env.loginAs(testAdmin)

	t.Run("success", func(t *testing.T) {
		env.logs.On("PurgeOlderThan", mock.Anything, 30).Return(int64(12), nil).Once()

		resp, _ := env.app.Test(authedReq(http.MethodDelete, "/api/logs/older-than/30", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]int64
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, int64(12), body["removed"])
	})

	t.Run("bad window", func(t *testing.T) {
		resp, _ := env.app.Test(authedReq(http.MethodDelete, "/api/logs/older-than/soon", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUnknownRouteIsStandardized(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
}
