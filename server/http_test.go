package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/poiesic/logseer/analysis"
	"github.com/poiesic/logseer/core"
	"github.com/poiesic/logseer/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUploader struct {
	result  ingestion.UploadResult
	err     error
	content []byte
}

func (s *stubUploader) Upload(ctx context.Context, r io.Reader) (ingestion.UploadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ingestion.UploadResult{}, err
	}
	s.content = data

	if s.err != nil {
		return ingestion.UploadResult{}, s.err
	}
	return s.result, nil
}

type stubRecords struct {
	all        []core.LogRecord
	ranged     []core.LogRecord
	err        error
	rangeCalls [][2]time.Time
}

func (s *stubRecords) AllLogRecords(ctx context.Context) ([]core.LogRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.all, nil
}

func (s *stubRecords) LogRecordsByDateRange(ctx context.Context, start, end time.Time) ([]core.LogRecord, error) {
	s.rangeCalls = append(s.rangeCalls, [2]time.Time{start, end})
	if s.err != nil {
		return nil, s.err
	}
	return s.ranged, nil
}

type stubChatter struct {
	result  *core.ChatResult
	err     error
	queries []string
}

func (s *stubChatter) Chat(ctx context.Context, query string) (*core.ChatResult, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestServer(t *testing.T, uploader Uploader, records RecordReader, chatter Chatter) *httptest.Server {
	t.Helper()

	srv, err := NewServer(uploader, records, chatter)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func multipartFile(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestNewServer(t *testing.T) {
	uploader := &stubUploader{}
	records := &stubRecords{}
	chatter := &stubChatter{}

	t.Run("valid server", func(t *testing.T) {
		srv, err := NewServer(uploader, records, chatter)
		require.NoError(t, err)
		require.NotNil(t, srv)
	})

	t.Run("nil uploader", func(t *testing.T) {
		_, err := NewServer(nil, records, chatter)
		assert.Equal(t, ErrUploaderRequired, err)
	})

	t.Run("nil records", func(t *testing.T) {
		_, err := NewServer(uploader, nil, chatter)
		assert.Equal(t, ErrRecordsRequired, err)
	})

	t.Run("nil chatter", func(t *testing.T) {
		_, err := NewServer(uploader, records, nil)
		assert.Equal(t, ErrChatterRequired, err)
	})
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &stubUploader{}, &stubRecords{}, &stubChatter{})

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status": "ok"}`, string(body))
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, &stubUploader{}, &stubRecords{}, &stubChatter{})

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/upload"},
		{http.MethodPost, "/summary"},
		{http.MethodGet, "/filter"},
		{http.MethodGet, "/chat"},
		{http.MethodPost, "/health"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, nil)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		})
	}
}

func TestUpload(t *testing.T) {
	csv := []byte("timestamp,level,message\n2024-03-15T10:00:00,INFO,Server started\n")

	uploader := &stubUploader{result: ingestion.UploadResult{RecordsProcessed: 1}}
	ts := newTestServer(t, uploader, &stubRecords{}, &stubChatter{})

	body, contentType := multipartFile(t, "logs.csv", csv)
	resp, err := http.Post(ts.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"message": "File parsed and indexed successfully", "records_processed": 1}`,
		string(respBody))

	assert.Equal(t, csv, uploader.content)
}

func TestUpload_GzipFile(t *testing.T) {
	csv := []byte("timestamp,level,message\n2024-03-15T10:00:00,INFO,Compressed upload\n")

	var compressed bytes.Buffer
	gz := gzip.NewWriter(&compressed)
	_, err := gz.Write(csv)
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	uploader := &stubUploader{result: ingestion.UploadResult{RecordsProcessed: 1}}
	ts := newTestServer(t, uploader, &stubRecords{}, &stubChatter{})

	body, contentType := multipartFile(t, "logs.csv.gz", compressed.Bytes())
	resp, err := http.Post(ts.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The uploader sees the decompressed stream
	assert.Equal(t, csv, uploader.content)
}

func TestUpload_RejectsNonCSV(t *testing.T) {
	ts := newTestServer(t, &stubUploader{}, &stubRecords{}, &stubChatter{})

	body, contentType := multipartFile(t, "notes.txt", []byte("not a log file"))
	resp, err := http.Post(ts.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(respBody), "Only CSV files are supported.")
}

func TestUpload_MissingFileField(t *testing.T) {
	ts := newTestServer(t, &stubUploader{}, &stubRecords{}, &stubChatter{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/upload", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpload_PipelineFailure(t *testing.T) {
	uploader := &stubUploader{err: errors.New("parse upload: broken framing")}
	ts := newTestServer(t, uploader, &stubRecords{}, &stubChatter{})

	body, contentType := multipartFile(t, "logs.csv", []byte("timestamp,level,message\n"))
	resp, err := http.Post(ts.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(respBody), "broken framing")
}

func TestSummary(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	records := &stubRecords{
		all: []core.LogRecord{
			{Timestamp: base, Level: core.LevelError, Message: "disk full"},
			{Timestamp: base.Add(time.Minute), Level: core.LevelInfo, Message: "retrying"},
		},
	}
	ts := newTestServer(t, &stubUploader{}, records, &stubChatter{})

	resp, err := http.Get(ts.URL + "/summary")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var summary analysis.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, 2, summary.TotalCount)
	assert.Equal(t, 1, summary.ErrorCount)
	assert.Equal(t, 0, summary.WarningCount)
	require.NotNil(t, summary.StartTime)
	require.NotNil(t, summary.EndTime)
	assert.True(t, summary.StartTime.Equal(base))
	assert.True(t, summary.EndTime.Equal(base.Add(time.Minute)))
}

func TestSummary_StoreFailure(t *testing.T) {
	records := &stubRecords{err: errors.New("backend closed")}
	ts := newTestServer(t, &stubUploader{}, records, &stubChatter{})

	resp, err := http.Get(ts.URL + "/summary")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestFilter(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	records := &stubRecords{
		all: []core.LogRecord{
			{Timestamp: base, Level: core.LevelInfo, Message: "Server started", Source: "app"},
			{Timestamp: base.Add(time.Minute), Level: core.LevelError, Message: "Disk full", Source: "disk-agent"},
		},
	}
	ts := newTestServer(t, &stubUploader{}, records, &stubChatter{})

	resp, err := http.Post(ts.URL+"/filter", "application/json",
		strings.NewReader(`{"level": "error"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var matched []core.LogRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&matched))
	require.Len(t, matched, 1)
	assert.Equal(t, "Disk full", matched[0].Message)

	// No date bounds, so the full corpus path served the request
	assert.Empty(t, records.rangeCalls)
}

func TestFilter_DateWindowUsesRangeQuery(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	records := &stubRecords{
		ranged: []core.LogRecord{
			{Timestamp: base.Add(time.Minute), Level: core.LevelError, Message: "Disk full"},
		},
	}
	ts := newTestServer(t, &stubUploader{}, records, &stubChatter{})

	resp, err := http.Post(ts.URL+"/filter", "application/json",
		strings.NewReader(`{"start_date": "2024-03-15T10:00:00", "end_date": "2024-03-16"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var matched []core.LogRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&matched))
	require.Len(t, matched, 1)
	assert.Equal(t, "Disk full", matched[0].Message)

	require.Len(t, records.rangeCalls, 1)
	assert.True(t, records.rangeCalls[0][0].Equal(base))
	assert.True(t, records.rangeCalls[0][1].Equal(time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)))
}

func TestFilter_EmptyResultIsAnArray(t *testing.T) {
	ts := newTestServer(t, &stubUploader{}, &stubRecords{}, &stubChatter{})

	resp, err := http.Post(ts.URL+"/filter", "application/json",
		strings.NewReader(`{"keyword": "no such thing"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))
}

func TestFilter_InvalidDate(t *testing.T) {
	ts := newTestServer(t, &stubUploader{}, &stubRecords{}, &stubChatter{})

	resp, err := http.Post(ts.URL+"/filter", "application/json",
		strings.NewReader(`{"start_date": "mid-march"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "invalid start_date")
}

func TestFilter_InvalidJSON(t *testing.T) {
	ts := newTestServer(t, &stubUploader{}, &stubRecords{}, &stubChatter{})

	resp, err := http.Post(ts.URL+"/filter", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChat(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	chatter := &stubChatter{
		result: &core.ChatResult{
			Answer: "First the disk filled, then the writer retried.",
			Context: []core.LogRecord{
				{Timestamp: base, Level: core.LevelError, Message: "disk full"},
			},
		},
	}
	ts := newTestServer(t, &stubUploader{}, &stubRecords{}, chatter)

	resp, err := http.Post(ts.URL+"/chat", "application/json",
		strings.NewReader(`{"query": "what happened with the disk"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result core.ChatResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "First the disk filled, then the writer retried.", result.Answer)
	require.Len(t, result.Context, 1)
	assert.Equal(t, "disk full", result.Context[0].Message)

	assert.Equal(t, []string{"what happened with the disk"}, chatter.queries)
}

func TestChat_BlankQuery(t *testing.T) {
	chatter := &stubChatter{}
	ts := newTestServer(t, &stubUploader{}, &stubRecords{}, chatter)

	resp, err := http.Post(ts.URL+"/chat", "application/json",
		strings.NewReader(`{"query": "   "}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, chatter.queries)
}

func TestChat_RetrievalFailure(t *testing.T) {
	chatter := &stubChatter{err: errors.New("query embedding failed")}
	ts := newTestServer(t, &stubUploader{}, &stubRecords{}, chatter)

	resp, err := http.Post(ts.URL+"/chat", "application/json",
		strings.NewReader(`{"query": "why did it break"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestChat_InvalidJSON(t *testing.T) {
	ts := newTestServer(t, &stubUploader{}, &stubRecords{}, &stubChatter{})

	resp, err := http.Post(ts.URL+"/chat", "application/json",
		strings.NewReader("not json at all"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Invalid JSON")
}
