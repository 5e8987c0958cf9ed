package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"campus/internal/middleware"
	"campus/internal/model"
)

var teacherPrincipal = model.Principal{ID: "u-teacher", Email: "t@example.com"}

func pointRouter(svc pointService) http.Handler {
	h := NewPointHandler(svc)
	r := chi.NewRouter()
	r.Get("/points", h.List)
	r.Post("/points", h.Create)
	r.Get("/points/{id}", h.Get)
	r.Patch("/points/{id}", h.Update)
	r.Delete("/points/{id}", h.Delete)
	return r
}

func asPrincipal(req *http.Request, p model.Principal) *http.Request {
	return req.WithContext(middleware.WithPrincipal(req.Context(), p))
}

func servePoints(t *testing.T, svc pointService, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	pointRouter(svc).ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestResourceHandler_ListParsesAllowedFilters(t *testing.T) {
	svc := new(mockPointService)
	svc.On("List", mock.Anything, teacherPrincipal, model.PointFilter{
		ClassID: "c1",
		Page:    model.Page{Page: 2, Limit: 10},
	}).Return([]model.Point{{ID: "p1"}}, 11, nil).Once()

	req := asPrincipal(httptest.NewRequest(http.MethodGet, "/points?class_id=c1&page=2&limit=10", nil), teacherPrincipal)
	rec := httptest.NewRecorder()
	pointRouter(svc).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data model.ListData[model.Point] `json:"data"`
		Meta model.Meta                  `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data.Items, 1)
	assert.Equal(t, model.Meta{Page: 2, Limit: 10, Total: 11, TotalPages: 2}, body.Meta)
	svc.AssertExpectations(t)
}

func TestResourceHandler_ListRejectsUnknownKeys(t *testing.T) {
	svc := new(mockPointService)

	for _, query := range []string{"visible_to=u-other", "sort=final", "page=-1", "limit=ten"} {
		req := asPrincipal(httptest.NewRequest(http.MethodGet, "/points?"+query, nil), teacherPrincipal)
		rec, body := servePoints(t, svc, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
		assert.Equal(t, "BAD_REQUEST", body.Error.Code, query)
	}
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestResourceHandler_ErrorKinds(t *testing.T) {
	svc := new(mockPointService)
	svc.On("Get", mock.Anything, teacherPrincipal, "missing").Return(model.Point{}, model.NotFoundError("point"))
	svc.On("Get", mock.Anything, teacherPrincipal, "theirs").Return(model.Point{}, model.ForbiddenError("not allowed to access this point"))

	rec, body := servePoints(t, svc, asPrincipal(httptest.NewRequest(http.MethodGet, "/points/missing", nil), teacherPrincipal))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)

	rec, body = servePoints(t, svc, asPrincipal(httptest.NewRequest(http.MethodGet, "/points/theirs", nil), teacherPrincipal))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
}

func TestResourceHandler_CreateValidatesBody(t *testing.T) {
	svc := new(mockPointService)
	svc.On("Create", mock.Anything, teacherPrincipal, mock.MatchedBy(func(r model.PointRequest) bool {
		return r.Final != nil && *r.Final == 80
	})).Return(model.Point{ID: "p9", Final: 80}, nil).Once()

	post := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/points", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return asPrincipal(req, teacherPrincipal)
	}

	rec, body := servePoints(t, svc, post(`{"class_id":"c1","student_id":"s1","teacher_id":"t1","final":101}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body.Error.Details, "final")

	rec, _ = servePoints(t, svc, post(`{"class_id":`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = servePoints(t, svc, post(`{"class_id":"c1","student_id":"s1","teacher_id":"t1","final":80}`))
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestResourceHandler_RequiresPrincipal(t *testing.T) {
	rec, body := servePoints(t, new(mockPointService), httptest.NewRequest(http.MethodDelete, "/points/p1", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
}

func TestWriteError_UnclassifiedIsOpaque(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}
