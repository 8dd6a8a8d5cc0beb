// Package api serves demand views over HTTP. Every request recomputes from
// the loaded records.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"jobdemand-go/internal/actionable"
	"jobdemand-go/internal/dataset"
	"jobdemand-go/internal/hierarchy"
	"jobdemand-go/internal/logger"
	"jobdemand-go/internal/pipeline"
	"jobdemand-go/internal/pivot"
	"jobdemand-go/internal/quality"
	"jobdemand-go/internal/rank"
	"jobdemand-go/internal/types"
)

type Server struct {
	records []types.Record
	opts    pipeline.Options
	log     *logger.Logger
}

func New(records []types.Record, opts pipeline.Options, log *logger.Logger) *Server {
	return &Server{records: records, opts: opts, log: log}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /demand/top", s.handleTop)
	mux.HandleFunc("GET /demand/pivot", s.handlePivot)
	mux.HandleFunc("GET /demand/tree", s.handleTree)
	mux.HandleFunc("GET /demand/summary", s.handleSummary)
	return mux
}

type topResponse struct {
	K       int                  `json:"k"`
	By      []types.Dimension    `json:"by"`
	Rows    []types.AggregateRow `json:"rows"`
	Quality quality.Summary      `json:"quality"`
}

type pivotResponse struct {
	pivot.Table
	Quality quality.Summary `json:"quality"`
}

type treeResponse struct {
	Root    *hierarchy.Node   `json:"root,omitempty"`
	Entries []hierarchy.Entry `json:"entries,omitempty"`
	Quality quality.Summary   `json:"quality"`
}

type summaryResponse struct {
	Dataset dataset.Summary       `json:"dataset"`
	Result  pipeline.Result       `json:"result"`
	Card    actionable.ActionCard `json:"action_card"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.log.WithRequest(r).Debug("health check")
	fmt.Fprint(w, "ok")
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	k := s.opts.TopK
	if v := q.Get("k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.fail(w, r, fmt.Errorf("%w: k must be an integer", types.ErrInvalidArgument))
			return
		}
		k = n
	}
	by, err := dimsParam(q.Get("by"), pipeline.DemandDimensions)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rows, qs, err := pipeline.Aggregate(s.records, by, s.opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	top, err := rank.TopK(rows, k)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.write(w, r, topResponse{K: k, By: by, Rows: top, Quality: qs})
}

func (s *Server) handlePivot(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rowDim, err := dimParam(q.Get("rows"), types.DimCategory)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	colDim, err := dimParam(q.Get("cols"), types.DimPositionLevel)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rows, qs, err := pipeline.Aggregate(s.records, []types.Dimension{rowDim, colDim}, s.opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tbl, err := pivot.Build(rows, rowDim, colDim)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.write(w, r, pivotResponse{Table: tbl, Quality: qs})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path, err := dimsParam(q.Get("path"), pipeline.DemandDimensions)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rows, qs, err := pipeline.Aggregate(s.records, path, s.opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	root, err := hierarchy.Build(rows, path)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := treeResponse{Quality: qs}
	if flat, _ := strconv.ParseBool(q.Get("flat")); flat {
		resp.Entries = hierarchy.Flatten(root)
	} else {
		resp.Root = root
	}
	s.write(w, r, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	res, err := pipeline.Run(s.records, s.opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.WithRequest(r).WithField("duration_ms", time.Since(start).Milliseconds()).Info("pipeline run")
	s.write(w, r, summaryResponse{
		Dataset: dataset.Summarize(s.records),
		Result:  res,
		Card:    actionable.Generate(res),
	})
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.log.WithRequest(r).WithField("error", err.Error()).Error("failed to write response")
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, types.ErrInvalidArgument) {
		status = http.StatusBadRequest
	}
	s.log.WithRequest(r).WithField("error", err.Error()).WithField("status", status).Warn("request failed")
	http.Error(w, err.Error(), status)
}

func dimParam(v string, def types.Dimension) (types.Dimension, error) {
	if v == "" {
		return def, nil
	}
	return types.ParseDimension(v)
}

func dimsParam(v string, def []types.Dimension) ([]types.Dimension, error) {
	if v == "" {
		return def, nil
	}
	return types.ParseDimensions(v)
}
