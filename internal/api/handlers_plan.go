package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/dgallion1/studyplan/internal/pipeline"
	"github.com/dgallion1/studyplan/internal/plan"
	"github.com/dgallion1/studyplan/internal/report"
)

func (s *Server) extract(w http.ResponseWriter) (pipeline.Extraction, bool) {
	start := time.Now()
	ex, err := s.source.Extract()
	elapsed := time.Since(start)
	s.timing.Observe(elapsed)
	metricExtractDuration.Observe(elapsed.Seconds())
	if err != nil {
		metricExtract.WithLabelValues("error").Inc()
		s.log.Error("extract failed", "error", err)
		jsonError(w, "extract failed: "+err.Error(), http.StatusInternalServerError)
		return ex, false
	}
	metricExtract.WithLabelValues("ok").Inc()
	metricItems.Set(float64(len(ex.Items)))
	return ex, true
}

// handleItems returns the extracted rows, optionally narrowed with ?step=N
// and ?substep=M.
func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	ex, ok := s.extract(w)
	if !ok {
		return
	}

	items := ex.Items
	for _, key := range []string{plan.KeyStep, plan.KeySubstep} {
		v := r.URL.Query().Get(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			jsonError(w, key+" must be an integer", http.StatusBadRequest)
			return
		}
		items = filterInt(items, key, n)
	}

	body, err := plan.MarshalCompact(items)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func (s *Server) handleSteps(w http.ResponseWriter, r *http.Request) {
	ex, ok := s.extract(w)
	if !ok {
		return
	}
	groups := plan.Group(ex.Items)
	if groups == nil {
		groups = []*plan.StepGroup{}
	}
	writeJSON(w, map[string]any{"steps": groups})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ex, ok := s.extract(w)
	if !ok {
		return
	}
	writeJSON(w, map[string]any{
		"items":   len(ex.Items),
		"dropped": ex.Dropped,
		"stats":   ex.Stats,
		"latency": s.timing.Snapshot(),
	})
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	ex, ok := s.extract(w)
	if !ok {
		return
	}
	page, err := report.HTML(s.title, plan.Group(ex.Items))
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func filterInt(items []plan.Item, key string, n int) []plan.Item {
	out := make([]plan.Item, 0, len(items))
	for _, it := range items {
		if v, ok := it.Int(key); ok && v == n {
			out = append(out, it)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
