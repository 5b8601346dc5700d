package main

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matchforge/tactics-engine/internal/tactics/jobs"
	"github.com/matchforge/tactics-engine/internal/tacticserr"
	"github.com/matchforge/tactics-engine/internal/telemetry"
)

// Server hosts the job API of spec §6: enqueue, status, and cancel over a
// plain net/http mux, mirroring the teacher's Server{port, db} + ServeMux()
// shape rather than a web framework.
type Server struct {
	dispatcher *jobs.Dispatcher
	store      jobs.Store
	mux        *http.ServeMux
}

// NewServer builds a Server wired to dispatcher/store.
func NewServer(dispatcher *jobs.Dispatcher, store jobs.Store) *Server {
	return &Server{dispatcher: dispatcher, store: store}
}

// ServeMux lazily builds and returns the server's route table, so callers
// that obtain it and register additional routes see them preserved across
// repeated calls.
func (s *Server) ServeMux() *http.ServeMux {
	if s.mux != nil {
		return s.mux
	}
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/jobs", s.enqueueHandler)
	s.mux.HandleFunc("/jobs/", s.jobHandler)
	s.mux.HandleFunc("/healthz", s.healthHandler)
	return s.mux
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

// enqueueRequest is the wire shape of POST /jobs.
type enqueueRequest struct {
	Kind    string          `json:"kind"`
	MatchID string          `json:"match_id"`
	Payload json.RawMessage `json:"payload"`
}

// jobResponse is the wire shape shared by enqueue and status responses,
// carrying only the fields that apply to the given call.
type jobResponse struct {
	JobID    string          `json:"job_id"`
	State    jobs.Status     `json:"state"`
	Message  string          `json:"message,omitempty"`
	Progress *float64        `json:"progress,omitempty"`
	Result   *jobs.Result    `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func (s *Server) enqueueHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req enqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.Kind == "" || req.MatchID == "" {
		s.writeJSONError(w, http.StatusBadRequest, "kind and match_id are required")
		return
	}

	if _, ok := runnerFor(req.Kind); !ok {
		s.writeJSONError(w, http.StatusBadRequest, "unknown job kind "+req.Kind)
		return
	}

	idempotencyKey := req.Kind + "/" + req.MatchID + "/" + string(req.Payload)
	jobID := uuid.NewString()
	job, err := s.dispatcher.Dispatch(r.Context(), jobID, req.Kind, req.MatchID, jobs.DefaultQueue, idempotencyKey, 3)
	if err != nil {
		s.writeJSONErrorForErr(w, err)
		return
	}

	if req.Payload != nil {
		payloadStore.put(job.JobID, req.Payload)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(jobResponse{
		JobID:   job.JobID,
		State:   job.Status,
		Message: "job accepted",
	})
}

// jobHandler dispatches GET /jobs/{id} (status) and POST /jobs/{id}/cancel.
func (s *Server) jobHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/jobs/")
	if rest == "" {
		s.writeJSONError(w, http.StatusNotFound, "missing job id")
		return
	}
	if id, ok := strings.CutSuffix(rest, "/cancel"); ok {
		s.cancelHandler(w, r, id)
		return
	}
	s.statusHandler(w, r, rest)
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request, jobID string) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	job, err := s.store.Get(jobID)
	if err != nil {
		s.writeJSONErrorForErr(w, err)
		return
	}

	resp := jobResponse{JobID: job.JobID, State: job.Status}
	if job.Status == jobs.Failed {
		resp.Error = job.Err
	}
	if job.Status == jobs.Completed {
		resp.Result = job.Result
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) cancelHandler(w http.ResponseWriter, r *http.Request, jobID string) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.dispatcher.Cancel(jobID); err != nil {
		s.writeJSONErrorForErr(w, err)
		return
	}
	job, err := s.store.Get(jobID)
	if err != nil {
		s.writeJSONErrorForErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(jobResponse{JobID: job.JobID, State: job.Status, Message: "cancelled"})
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// writeJSONErrorForErr maps a tacticserr.Kind to its HTTP status, per spec
// §7's error taxonomy.
func (s *Server) writeJSONErrorForErr(w http.ResponseWriter, err error) {
	switch tacticserr.KindOf(err) {
	case tacticserr.BadInput, tacticserr.ModelNotTrained:
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
	case tacticserr.NotFound:
		s.writeJSONError(w, http.StatusNotFound, err.Error())
	case tacticserr.UpstreamUnavailable:
		s.writeJSONError(w, http.StatusServiceUnavailable, err.Error())
	case tacticserr.Timeout:
		s.writeJSONError(w, http.StatusGatewayTimeout, err.Error())
	default:
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// correlationMiddleware assigns an X-Correlation-ID when the caller did not
// supply one, per spec §7, and logs method/path/status/duration to the diag
// stream on the way out.
func correlationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := r.Header.Get("X-Correlation-ID")
		if cid == "" {
			cid = uuid.NewString()
			r.Header.Set("X-Correlation-ID", cid)
		}
		w.Header().Set("X-Correlation-ID", cid)

		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)

		portPrefix := ""
		if host := r.Host; host != "" {
			if _, p, err := net.SplitHostPort(host); err == nil {
				portPrefix = ":" + p
			}
		}
		telemetry.Diagf("[%s] %s %s%s %vms cid=%s",
			strconv.Itoa(lrw.statusCode), r.Method, portPrefix, r.URL.Path,
			float64(time.Since(start).Nanoseconds())/1e6, cid)
	})
}
