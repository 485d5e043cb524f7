package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/matzehuels/nodegroup/pkg/buildinfo"
	ngerrors "github.com/matzehuels/nodegroup/pkg/errors"
	"github.com/matzehuels/nodegroup/pkg/ident"
	"github.com/matzehuels/nodegroup/pkg/pipeline"
)

// =============================================================================
// Wire types
// =============================================================================

type textRequest struct {
	Text string `json:"text"`
}

type identifierResponse struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	Canonical string `json:"canonical"`
}

type pairResponse struct {
	First     string `json:"first"`
	Second    string `json:"second"`
	Canonical string `json:"canonical"`
	Self      bool   `json:"self"`
}

type otherRequest struct {
	Pair string `json:"pair"`
	ID   string `json:"id"`
}

type otherResponse struct {
	Other string `json:"other"`
}

type groupsRequest struct {
	Pairs  []string `json:"pairs"`
	Sorted bool     `json:"sorted"`
}

type groupsResponse struct {
	RunID  string       `json:"run_id"`
	Hash   string       `json:"hash"`
	Groups [][]ident.ID `json:"groups"`
	Cached bool         `json:"cached"`
}

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

type errorResponse struct {
	Code  ngerrors.Code `json:"code"`
	Error string        `json:"error"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) handleParseIdentifier(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	id, err := ident.Parse(req.Text)
	if err != nil {
		writeError(w, ngerrors.FromParse(err))
		return
	}
	writeJSON(w, http.StatusOK, identifierResponse{
		Type:      id.Type(),
		Name:      id.Name(),
		Canonical: id.String(),
	})
}

func (s *Server) handleParsePair(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	p, err := ident.ParsePair(req.Text)
	if err != nil {
		writeError(w, ngerrors.FromParse(err))
		return
	}
	writeJSON(w, http.StatusOK, pairResponse{
		First:     p.First().String(),
		Second:    p.Second().String(),
		Canonical: p.String(),
		Self:      p.IsSelf(),
	})
}

func (s *Server) handlePairOther(w http.ResponseWriter, r *http.Request) {
	var req otherRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	p, err := ident.ParsePair(req.Pair)
	if err != nil {
		writeError(w, ngerrors.FromParse(err))
		return
	}
	id, err := ident.Parse(req.ID)
	if err != nil {
		writeError(w, ngerrors.FromParse(err))
		return
	}
	other, err := p.Lookup(id)
	if err != nil {
		writeError(w, ngerrors.FromParse(err))
		return
	}
	writeJSON(w, http.StatusOK, otherResponse{Other: other.String()})
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	var req groupsRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	pairs := make([]ident.Pair, len(req.Pairs))
	for i, text := range req.Pairs {
		p, err := ident.ParsePair(text)
		if err != nil {
			coded := ngerrors.FromParse(err)
			writeError(w, ngerrors.Wrap(ngerrors.GetCode(coded), err, "pairs[%d]: %s", i, ngerrors.UserMessage(coded)))
			return
		}
		pairs[i] = p
	}

	result, err := s.runner.Execute(r.Context(), pairs, pipeline.Options{
		GroupsOnly: true,
		Sorted:     req.Sorted,
	})
	if err != nil {
		s.logger.Error("group request failed", "err", err, "pairs", len(pairs))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, groupsResponse{
		RunID:  result.RunID,
		Hash:   result.InputHash,
		Groups: result.Groups,
		Cached: result.CacheInfo.GroupsHit,
	})
}

// =============================================================================
// Helpers
// =============================================================================

// decodeRequest decodes a JSON body into v, writing a 400 on failure.
func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Code:  ngerrors.ErrCodeInvalidInput,
				Error: fmt.Sprintf("request body too large (max %d bytes)", tooLarge.Limit),
			})
			return false
		}
		writeError(w, ngerrors.Wrap(ngerrors.ErrCodeInvalidInput, err, "invalid JSON body"))
		return false
	}
	return true
}

// statusFor maps an error code to an HTTP status.
func statusFor(code ngerrors.Code) int {
	switch code {
	case ngerrors.ErrCodeInvalidInput, ngerrors.ErrCodeInvalidIdentifier,
		ngerrors.ErrCodeInvalidPair, ngerrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case ngerrors.ErrCodeInvalidEndpoint:
		return http.StatusUnprocessableEntity
	case ngerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// writeError writes err as {"code", "error"}. Uncoded errors are reported
// as internal errors without leaking their text.
func writeError(w http.ResponseWriter, err error) {
	code := ngerrors.GetCode(err)
	msg := ngerrors.UserMessage(err)
	if code == "" {
		code = ngerrors.ErrCodeInternal
		msg = "internal error"
	}
	writeJSON(w, statusFor(code), errorResponse{Code: code, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
