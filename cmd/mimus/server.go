package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CTAG07/Mimus/pkg/markov"
)

// VersionInfo defines the structure for build/version information.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

// tableResponse is the /table payload. Table is omitted when only the
// summary is requested.
type tableResponse struct {
	Stats markov.TableStats             `json:"stats"`
	Table map[string]map[string]float64 `json:"table,omitempty"`
}

// server holds the dependencies for the HTTP API handlers. The table is
// built once at startup and never mutated, so handlers read it freely;
// each generation request gets its own Generator.
type server struct {
	table       *markov.Table
	config      *Config
	logger      *slog.Logger
	mux         *http.ServeMux
	reqTotal    *prometheus.CounterVec
	genDuration prometheus.Histogram
}

// newServer wires the handlers and metrics onto a fresh mux. Metrics live
// in a per-server registry so building several servers cannot collide on
// metric names.
func newServer(table *markov.Table, config *Config, logger *slog.Logger) *server {
	s := &server{
		table:  table,
		config: config,
		logger: logger,
		mux:    http.NewServeMux(),
		reqTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mimus_requests_total",
				Help: "Total number of API requests by endpoint and status code",
			},
			[]string{"endpoint", "status"},
		),
		genDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "mimus_generate_duration_seconds",
				Help: "Duration of generation runs",
			},
		),
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(s.reqTotal, s.genDuration)

	s.mux.HandleFunc("/generate", s.handleGenerate)
	s.mux.HandleFunc("/table", s.handleTable)
	s.mux.HandleFunc("/version", s.handleVersion)
	s.mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return s
}

// respondError reports a failure to both the client and the request counter.
func (s *server) respondError(w http.ResponseWriter, endpoint string, code int, message string) {
	s.reqTotal.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
	respondWithError(w, code, message)
}

// handleGenerate produces text from the table. Query parameters: length
// (positive integer, defaults to the configured length), start (initial
// words, must match a context), temperature (sampling temperature, 0 for
// the most probable walk), topk (restrict draws to the k most probable
// successors), drip (stream tokens one at a time; an optional duration
// value paces them).
func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		s.respondError(w, "generate", http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	length := s.config.DefaultLength
	if v := r.URL.Query().Get("length"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.respondError(w, "generate", http.StatusBadRequest, "length must be a positive integer")
			return
		}
		length = n
	}
	opts := []markov.GenerateOption{
		markov.WithLength(length),
		markov.WithStart(r.URL.Query().Get("start")),
	}
	if v := r.URL.Query().Get("temperature"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.respondError(w, "generate", http.StatusBadRequest, "temperature must be a number")
			return
		}
		opts = append(opts, markov.WithTemperature(t))
	}
	if v := r.URL.Query().Get("topk"); v != "" {
		k, err := strconv.Atoi(v)
		if err != nil || k < 0 {
			s.respondError(w, "generate", http.StatusBadRequest, "topk must be a non-negative integer")
			return
		}
		opts = append(opts, markov.WithTopK(k))
	}

	g := markov.NewGenerator(s.table)
	g.SetLogger(s.logger)

	if r.URL.Query().Has("drip") {
		s.dripGenerate(w, r, g, opts)
		return
	}

	began := time.Now()
	text, err := g.Text(opts...)
	s.genDuration.Observe(time.Since(began).Seconds())
	if err != nil {
		if errors.Is(err, markov.ErrUnknownContext) {
			s.respondError(w, "generate", http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("Generation failed", "error", err)
		s.respondError(w, "generate", http.StatusInternalServerError, fmt.Sprintf("Generation failed: %v", err))
		return
	}

	s.reqTotal.WithLabelValues("generate", "200").Inc()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, text+"\n")
}

// dripGenerate streams the generated tokens one write per token, flushing
// after each so the client sees the text grow. The walk runs on the
// request context, so a disconnect stops it.
func (s *server) dripGenerate(w http.ResponseWriter, r *http.Request, g *markov.Generator, opts []markov.GenerateOption) {
	delay := time.Duration(0)
	if v := r.URL.Query().Get("drip"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			s.respondError(w, "generate", http.StatusBadRequest, "drip must be a non-negative duration")
			return
		}
		delay = d
	}

	tokens, err := g.Stream(r.Context(), opts...)
	if err != nil {
		if errors.Is(err, markov.ErrUnknownContext) {
			s.respondError(w, "generate", http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("Generation failed", "error", err)
		s.respondError(w, "generate", http.StatusInternalServerError, fmt.Sprintf("Generation failed: %v", err))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.logger.Warn("ResponseWriter does not support flushing, sending response at once.")
		var text []string
		for tok := range tokens {
			text = append(text, tok)
		}
		s.reqTotal.WithLabelValues("generate", "200").Inc()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, strings.Join(text, " ")+"\n")
		return
	}

	s.reqTotal.WithLabelValues("generate", "200").Inc()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	began := time.Now()
	first := true
	for tok := range tokens {
		// Wait before sending the next token, but not before the first.
		if !first {
			if delay > 0 {
				time.Sleep(delay)
			}
			if _, err := io.WriteString(w, " "); err != nil {
				return
			}
		}
		first = false
		if _, err := io.WriteString(w, tok); err != nil {
			s.logger.Debug("Client went away during drip", "error", err, "remote_addr", r.RemoteAddr)
			return
		}
		flusher.Flush()
	}
	s.genDuration.Observe(time.Since(began).Seconds())
	_, _ = io.WriteString(w, "\n")
}

// handleTable reports the transition table. With ?summary= only the stats
// are returned.
func (s *server) handleTable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		s.respondError(w, "table", http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	resp := tableResponse{Stats: s.table.Stats()}
	if !r.URL.Query().Has("summary") {
		resp.Table = s.table.Snapshot()
	}

	s.reqTotal.WithLabelValues("table", "200").Inc()
	respondWithJSON(w, http.StatusOK, resp)
}

// handleVersion returns the application's build information.
func (s *server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		s.respondError(w, "version", http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	info := VersionInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
	}
	s.reqTotal.WithLabelValues("version", "200").Inc()
	respondWithJSON(w, http.StatusOK, info)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		err := json.NewEncoder(w).Encode(payload)
		if err != nil {
			fmt.Printf("ERROR: Failed to encode JSON response: %v\n", err)
		}
	}
}
