// Package asrtest runs an in-process fake of the ASR backend's HTTP API for
// tests. It answers the health and convert endpoints with canned or
// scripted responses and records what it received.
package asrtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"asrprobe/internal/model"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const requestIDHeader = "X-Request-Id"

type Response struct {
	Status int
	Body   string
}

func JSON(status int, value any) Response {
	body, err := json.Marshal(value)
	if err != nil {
		panic("asrtest: " + err.Error())
	}
	return Response{Status: status, Body: string(body)}
}

func Raw(status int, body string) Response {
	return Response{Status: status, Body: body}
}

// ConvertFunc scripts the reply to one conversion request.
type ConvertFunc func(req model.ConvertRequest) Response

type Option func(*Server)

func WithHealth(resp Response) Option {
	return func(s *Server) { s.health = resp }
}

func WithConvert(fn ConvertFunc) Option {
	return func(s *Server) { s.convert = fn }
}

func WithConvertResponse(resp Response) Option {
	return WithConvert(func(model.ConvertRequest) Response { return resp })
}

type Server struct {
	*httptest.Server

	mu          sync.Mutex
	health      Response
	convert     ConvertFunc
	healthCalls int
	requests    []model.ConvertRequest
	requestIDs  []string
}

// New starts a fake backend that is closed when the test ends.
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()
	s := &Server{
		health:  JSON(http.StatusOK, model.HealthResponse{Status: "ok", Service: "asr"}),
		convert: DefaultConvert,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestIDMiddleware)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, model.ErrorResponse{Message: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResponse{Message: "method not allowed"})
	})

	r.Route("/api/asr", func(r chi.Router) {
		r.Get("/health/", s.handleHealth)
		r.Post("/convert/", s.handleConvert)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.healthCalls++
	resp := s.health
	s.mu.Unlock()

	write(w, resp)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req model.ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Message: "invalid JSON body"})
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.requestIDs = append(s.requestIDs, r.Header.Get(requestIDHeader))
	convert := s.convert
	s.mu.Unlock()

	write(w, convert(req))
}

func (s *Server) HealthCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.healthCalls
}

// Requests returns the conversion requests received so far, in order.
func (s *Server) Requests() []model.ConvertRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ConvertRequest(nil), s.requests...)
}

func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

// DefaultConvert mimics the backend: a missing cos_url is a 400, simulate
// mode returns canned lines, real mode returns speaker-separated lines.
func DefaultConvert(req model.ConvertRequest) Response {
	if strings.TrimSpace(req.CosURL) == "" {
		return JSON(http.StatusBadRequest, model.ErrorResponse{Message: "cos_url is required"})
	}
	if req.Simulate == "true" {
		return JSON(http.StatusOK, model.ConvertResponse{
			TaskID:     json.RawMessage(`"sim-0001"`),
			TextCount:  2,
			FileSaved:  true,
			ResultFile: "results/sim-0001.txt",
			Simulated:  true,
			Note:       "canned response, the recognition engine was not called",
			TextLines:  []string{"hello", "hi there"},
		})
	}
	return JSON(http.StatusOK, model.ConvertResponse{
		TaskID:           json.RawMessage(`"real-0001"`),
		TextCount:        2,
		FileSaved:        true,
		ResultFile:       "results/real-0001.txt",
		SpeakerTextLines: []string{"Speaker 1: hello", "Speaker 2: hi there"},
		TextLines:        []string{"hello", "hi there"},
	})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestID := strings.TrimSpace(r.Header.Get(requestIDHeader)); requestID != "" {
			w.Header().Set(requestIDHeader, requestID)
		}
		next.ServeHTTP(w, r)
	})
}

func write(w http.ResponseWriter, resp Response) {
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	if json.Valid([]byte(resp.Body)) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(resp.Body))
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
