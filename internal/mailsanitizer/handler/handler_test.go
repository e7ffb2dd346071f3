package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
)

type HandlerSuite struct {
	suite.Suite
	sanitizer *fakeSanitizer
	router    chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.sanitizer = &fakeSanitizer{}
	s.router = chi.NewRouter()
	New(s.sanitizer, slog.New(slog.DiscardHandler)).Register(s.router)
}

func (s *HandlerSuite) post(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/mail/sanitize", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) TestSanitize() {
	s.Run("returns joined sanitized recipients", func() {
		w := s.post(`{"recipients": ["a@x.com", "b@x.com"]}`)
		s.Equal(http.StatusOK, w.Code)

		var body map[string]string
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&body))
		s.Equal("a@x.com.test,b@x.com.test", body["recipients"])
	})

	s.Run("empty recipients yield empty string", func() {
		w := s.post(`{"recipients": []}`)
		s.Equal(http.StatusOK, w.Code)

		var body map[string]string
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&body))
		s.Equal("", body["recipients"])
	})

	s.Run("malformed JSON maps to 400", func() {
		w := s.post(`{"recipients": [`)
		s.Equal(http.StatusBadRequest, w.Code)

		var body map[string]string
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&body))
		s.Equal("bad_request", body["error"])
	})

	s.Run("sanitizer failure maps to 500", func() {
		s.sanitizer.err = errors.New("directory unavailable")
		w := s.post(`{"recipients": ["a@x.com"]}`)
		s.Equal(http.StatusInternalServerError, w.Code)
	})
}

// fakeSanitizer suffixes every recipient, mimicking the no-exemption path.
type fakeSanitizer struct {
	err error
}

func (f *fakeSanitizer) Sanitize(_ context.Context, recipients []string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	out := make([]string, 0, len(recipients))
	for _, r := range recipients {
		out = append(out, r+".test")
	}
	return strings.Join(out, ","), nil
}
