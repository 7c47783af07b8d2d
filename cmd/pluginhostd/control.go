package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atsu-uapmd/pluginhost/pkg/catalog"
	"github.com/atsu-uapmd/pluginhost/pkg/sequencer"
)

// controlServer is the daemon's admin surface: health, catalog listing,
// and Prometheus metrics exposition. It is explicitly not part of the
// hosting core — pluginhostctl talks to it the way an operator would,
// over plain HTTP, rather than through any in-process interface.
type controlServer struct {
	log *slog.Logger
	cat *catalog.Catalog
	eng *sequencer.Engine
}

func newControlServer(log *slog.Logger, cat *catalog.Catalog, eng *sequencer.Engine) *controlServer {
	return &controlServer{log: log, cat: cat, eng: eng}
}

func (s *controlServer) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/catalog", s.handleCatalog)
	mux.HandleFunc("/status", s.handleStatus)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *controlServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *controlServer) handleCatalog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.cat.All()); err != nil {
		s.log.Error("encode catalog response", "error", err)
	}
}

type statusResponse struct {
	Playing  bool  `json:"playing"`
	Position int64 `json:"position_samples"`
}

func (s *controlServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Playing:  s.eng.IsPlaying(),
		Position: s.eng.PlaybackPosition(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error("encode status response", "error", err)
	}
}
