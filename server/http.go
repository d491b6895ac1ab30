package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/poiesic/logseer/analysis"
	"github.com/poiesic/logseer/core"
	"github.com/poiesic/logseer/ingestion"
	"github.com/valyala/fastjson"
)

// filterDateLayouts are accepted for the filter endpoint's date bounds.
var filterDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Uploader replaces the stored corpus from a CSV stream.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader) (ingestion.UploadResult, error)
}

// RecordReader is the read-only slice of the store the API serves from.
type RecordReader interface {
	AllLogRecords(ctx context.Context) ([]core.LogRecord, error)
	LogRecordsByDateRange(ctx context.Context, start, end time.Time) ([]core.LogRecord, error)
}

// Chatter answers one question over the indexed corpus.
type Chatter interface {
	Chat(ctx context.Context, query string) (*core.ChatResult, error)
}

// Server exposes the upload, summary, filter, chat and health endpoints.
type Server struct {
	uploader Uploader
	records  RecordReader
	chatter  Chatter
	logger   *slog.Logger
	srv      *http.Server
	parser   fastjson.ParserPool
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewServer creates the HTTP API over its collaborators.
func NewServer(uploader Uploader, records RecordReader, chatter Chatter, opts ...Option) (*Server, error) {
	if uploader == nil {
		return nil, ErrUploaderRequired
	}
	if records == nil {
		return nil, ErrRecordsRequired
	}
	if chatter == nil {
		return nil, ErrChatterRequired
	}

	s := &Server{
		uploader: uploader,
		records:  records,
		chatter:  chatter,
		logger:   slog.Default().With("component", "server"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Handler returns the route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", s.handleUpload)
	mux.HandleFunc("/summary", s.handleSummary)
	mux.HandleFunc("/filter", s.handleFilter)
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/health", s.handleHealth)
	return s.withRequestLog(mux)
}

// Start runs the HTTP server on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.srv = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	s.logger.Info("http server listening", "addr", addr)

	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}

// withRequestLog tags each request with an ID and logs its outcome.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		s.logger.Info("request",
			"id", uuid.NewString(),
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", time.Since(start))
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

type uploadResponse struct {
	Message          string `json:"message"`
	RecordsProcessed int    `json:"records_processed"`
}

// handleUpload replaces the corpus from a multipart CSV upload. Files
// ending in .gz are decompressed transparently.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := strings.ToLower(header.Filename)
	if !strings.HasSuffix(filename, ".csv") && !strings.HasSuffix(filename, ".csv.gz") {
		http.Error(w, "Only CSV files are supported.", http.StatusBadRequest)
		return
	}

	var reader io.Reader = file
	if strings.HasSuffix(filename, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid gzip stream: %v", err), http.StatusBadRequest)
			return
		}
		defer gz.Close()
		reader = gz
	}

	result, err := s.uploader.Upload(r.Context(), reader)
	if err != nil {
		s.logger.Error("upload failed", "file", header.Filename, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, uploadResponse{
		Message:          "File parsed and indexed successfully",
		RecordsProcessed: result.RecordsProcessed,
	})
}

// handleSummary returns aggregate statistics over the stored corpus.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := s.records.AllLogRecords(r.Context())
	if err != nil {
		s.logger.Error("summary failed", "err", err)
		http.Error(w, "Failed to load records", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, analysis.Summarize(records))
}

// handleFilter returns the records matching the posted criteria. When both
// date bounds are present the store's date index serves the scan, so
// results come back in timestamp order; otherwise they keep insertion
// order.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusInternalServerError)
		return
	}
	defer r.Body.Close()

	p := s.parser.Get()
	defer s.parser.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	filter := analysis.Filter{
		Level:   string(v.GetStringBytes("level")),
		Keyword: string(v.GetStringBytes("keyword")),
	}

	if filter.StartDate, err = parseDateField(v, "start_date"); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if filter.EndDate, err = parseDateField(v, "end_date"); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var records []core.LogRecord
	if filter.StartDate != nil && filter.EndDate != nil {
		records, err = s.records.LogRecordsByDateRange(r.Context(), *filter.StartDate, *filter.EndDate)
	} else {
		records, err = s.records.AllLogRecords(r.Context())
	}
	if err != nil {
		s.logger.Error("filter failed", "err", err)
		http.Error(w, "Failed to load records", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, filter.Apply(records))
}

// handleChat answers one question over the indexed corpus. Grader and
// synthesizer trouble is already folded into the answer; only a retrieval
// failure is an error here.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusInternalServerError)
		return
	}
	defer r.Body.Close()

	p := s.parser.Get()
	defer s.parser.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	query := strings.TrimSpace(string(v.GetStringBytes("query")))
	if query == "" {
		http.Error(w, "Query is required", http.StatusBadRequest)
		return
	}

	result, err := s.chatter.Chat(r.Context(), query)
	if err != nil {
		s.logger.Error("chat failed", "err", err)
		http.Error(w, "Chat failed", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

// parseDateField reads an optional date string from a parsed body.
func parseDateField(v *fastjson.Value, key string) (*time.Time, error) {
	raw := string(v.GetStringBytes(key))
	if raw == "" {
		return nil, nil
	}

	for _, layout := range filterDateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return &ts, nil
		}
	}

	return nil, fmt.Errorf("invalid %s: %q", key, raw)
}
