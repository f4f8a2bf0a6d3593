package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/matzehuels/treematch/pkg/buildinfo"
	"github.com/matzehuels/treematch/pkg/errors"
	treeio "github.com/matzehuels/treematch/pkg/io"
	"github.com/matzehuels/treematch/pkg/pipeline"
)

// compareRequest is the body of POST /v1/embedding and /v1/isomorphism.
type compareRequest struct {
	Tree1     *treeio.Document `json:"tree1"`
	Tree2     *treeio.Document `json:"tree2"`
	Strategy  string           `json:"strategy,omitempty"`
	TokenKind string           `json:"token_kind,omitempty"`
	Affinity  string           `json:"affinity,omitempty"`
	Anonymous bool             `json:"anonymous,omitempty"`
	Verify    bool             `json:"verify,omitempty"`
}

// compareResponse is the match record plus request bookkeeping.
type compareResponse struct {
	pipeline.Record
	CacheHit  bool   `json:"cache_hit"`
	RequestID string `json:"request_id"`
}

type pathsRequest struct {
	Paths1    []string `json:"paths1"`
	Paths2    []string `json:"paths2"`
	Separator string   `json:"separator,omitempty"`
	Strategy  string   `json:"strategy,omitempty"`
}

type pathsResponse struct {
	Paths1    []string `json:"paths1"`
	Paths2    []string `json:"paths2"`
	Value     float64  `json:"value"`
	CacheHit  bool     `json:"cache_hit"`
	RequestID string   `json:"request_id"`
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
	RequestID string `json:"request_id"`
}

func (s *Server) handleCompare(mode pipeline.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req compareRequest
		if err := s.decode(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		if req.Tree1 == nil || req.Tree2 == nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "tree1 and tree2 are required"))
			return
		}
		t1, err := req.Tree1.Tree()
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "tree1"))
			return
		}
		t2, err := req.Tree2.Tree()
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "tree2"))
			return
		}
		if s.cfg.MaxNodes > 0 {
			if err := errors.ValidateTreeSize("tree1", t1.NodeCount(), s.cfg.MaxNodes); err != nil {
				s.writeError(w, r, err)
				return
			}
			if err := errors.ValidateTreeSize("tree2", t2.NodeCount(), s.cfg.MaxNodes); err != nil {
				s.writeError(w, r, err)
				return
			}
		}

		res, err := s.runner.Execute(r.Context(), t1, t2, pipeline.Options{
			Mode:      mode,
			Strategy:  req.Strategy,
			TokenKind: req.TokenKind,
			Affinity:  req.Affinity,
			Anonymous: req.Anonymous,
			Verify:    req.Verify,
			Logger:    s.logger,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, compareResponse{
			Record:    pipeline.NewRecord(mode, res.Match),
			CacheHit:  res.CacheHit,
			RequestID: requestIDFrom(r.Context()),
		})
	}
}

func (s *Server) handlePaths(w http.ResponseWriter, r *http.Request) {
	var req pathsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.cfg.MaxNodes > 0 {
		if err := errors.ValidateTreeSize("paths1", len(req.Paths1), s.cfg.MaxNodes); err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := errors.ValidateTreeSize("paths2", len(req.Paths2), s.cfg.MaxNodes); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	res, err := s.runner.ExecutePaths(r.Context(), req.Paths1, req.Paths2, req.Separator, pipeline.Options{
		Strategy: req.Strategy,
		Logger:   s.logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, pathsResponse{
		Paths1:    nonNil(res.Paths1),
		Paths2:    nonNil(res.Paths2),
		Value:     res.Value,
		CacheHit:  res.CacheHit,
		RequestID: requestIDFrom(r.Context()),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

// handleNotFound answers unknown routes with a NOT_FOUND error envelope.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
}

// decode reads a JSON body, rejecting unknown fields and oversized bodies.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}

	var body errorBody
	body.Error.Code = code
	body.Error.Message = errors.UserMessage(err)
	body.RequestID = requestIDFrom(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request_id", body.RequestID)
		if code == errors.ErrCodeInternal && errors.GetCode(err) == "" {
			body.Error.Message = fmt.Sprintf("internal error (request %s)", body.RequestID)
		}
	}
	s.writeJSON(w, status, body)
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidPath,
		errors.ErrCodeUnsupportedGraphType,
		errors.ErrCodeUnknownImplementation,
		errors.ErrCodeUnbalancedSequence,
		errors.ErrCodeInvalidEncoding:
		return http.StatusBadRequest
	case errors.ErrCodePointlessComparison:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
