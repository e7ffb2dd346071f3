package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
)

type HandlerSuite struct {
	suite.Suite
	resolver *fakeResolver
	router   chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.resolver = &fakeResolver{
		name:   "uat",
		values: map[string]string{"batch_size": "25"},
	}
	s.router = chi.NewRouter()
	New(s.resolver, slog.New(slog.DiscardHandler)).Register(s.router)
}

func (s *HandlerSuite) get(target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) TestName() {
	s.Run("returns loaded instance name", func() {
		w := s.get("/config/name")
		s.Equal(http.StatusOK, w.Code)

		var body map[string]string
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&body))
		s.Equal("uat", body["name"])
	})

	s.Run("404 when no instance is loaded", func() {
		s.resolver.name = ""
		w := s.get("/config/name")
		s.Equal(http.StatusNotFound, w.Code)
	})
}

func (s *HandlerSuite) TestResolve() {
	s.Run("returns resolved value", func() {
		w := s.get("/config/value?key=batch_size")
		s.Equal(http.StatusOK, w.Code)

		var body map[string]string
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&body))
		s.Equal("batch_size", body["key"])
		s.Equal("25", body["value"])
	})

	s.Run("404 for unknown key", func() {
		w := s.get("/config/value?key=unknown")
		s.Equal(http.StatusNotFound, w.Code)

		var body map[string]string
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&body))
		s.Equal("not_found", body["error"])
	})

	s.Run("missing key param is a literal empty-key lookup", func() {
		w := s.get("/config/value")
		s.Equal(http.StatusNotFound, w.Code)

		s.resolver.values[""] = "blank"
		w = s.get("/config/value")
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("store failure maps to 500", func() {
		s.resolver.err = errors.New("query timeout")
		w := s.get("/config/value?key=batch_size")
		s.Equal(http.StatusInternalServerError, w.Code)
	})
}

type fakeResolver struct {
	name   string
	values map[string]string
	err    error
}

func (f *fakeResolver) Name() (string, bool) {
	return f.name, f.name != ""
}

func (f *fakeResolver) Resolve(_ context.Context, key string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	v, ok := f.values[key]
	return v, ok, nil
}
