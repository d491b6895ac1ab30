package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"
)

// Each row is level,message,source. Timestamps are attached at build time,
// one minute apart, ending at the current time.
var sampleRows = []string{
	"INFO,Server started,app",
	"INFO,Listening on :8080,app",
	"INFO,Connected to database,app",
	"INFO,Scheduled nightly backup,backup-agent",
	"INFO,Handled 120 requests in the last minute,app",
	"WARNING,Response latency above 500ms,app",
	"INFO,Cache warmed with 4512 entries,cache",
	"WARNING,Disk usage at 81% on /dev/sda1,disk-agent",
	"INFO,Rotated access logs,logrotate",
	"WARNING,Disk usage at 89% on /dev/sda1,disk-agent",
	"WARNING,Disk usage at 95% on /dev/sda1,disk-agent",
	"ERROR,Disk full on /dev/sda1,disk-agent",
	"ERROR,Write failed: no space left on device,app",
	"INFO,Retrying write,app",
	"ERROR,Write failed: no space left on device,app",
	"INFO,Cleanup job started,disk-agent",
	"INFO,Purged 2.3GB of stale temp files,disk-agent",
	"INFO,Disk usage back to 64% on /dev/sda1,disk-agent",
	"INFO,Retrying write,app",
	"INFO,Write succeeded after retry,app",
	"INFO,Queue drained: 340 pending writes flushed,app",
	"WARNING,Failed login attempt for user admin,auth",
	"WARNING,Failed login attempt for user admin,auth",
	"ERROR,Account admin locked after 5 failed attempts,auth",
	"INFO,Password reset issued for user admin,auth",
	"INFO,User admin logged in,auth",
	"WARNING,TLS certificate expires in 14 days,cert-monitor",
	"INFO,Deployment v2.4.1 started,deployer",
	"INFO,Draining connections from old instances,deployer",
	"INFO,Deployment v2.4.1 complete,deployer",
	"WARNING,Memory usage at 92% on worker-3,worker",
	"ERROR,Worker worker-3 killed: out of memory,worker",
	"INFO,Worker worker-3 restarted,worker",
	"INFO,Health check passing on all workers,worker",
	"INFO,Handled 180 requests in the last minute,app",
}

var (
	seedFileName = flag.String("src", "", "file of seed rows (level,message,source per line)")
	serverAddr   = flag.String("addr", "http://localhost:8080", "base URL of a running logseer server")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// rowsFromFile returns an iterator over lines in a file.
func rowsFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// rowsFromSlice returns an iterator over a slice of strings.
func rowsFromSlice(rows []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, row := range rows {
			if !yield(row) {
				return
			}
		}
	}
}

// buildCSV assembles an upload body from level,message,source rows.
func buildCSV(source iter.Seq[string]) []byte {
	var rows []string
	for row := range source {
		if strings.TrimSpace(row) == "" {
			continue
		}
		rows = append(rows, row)
	}

	var buf bytes.Buffer
	buf.WriteString("timestamp,level,message,source\n")
	start := time.Now().Add(-time.Duration(len(rows)) * time.Minute)
	for i, row := range rows {
		ts := start.Add(time.Duration(i) * time.Minute)
		fmt.Fprintf(&buf, "%s,%s\n", ts.Format("2006-01-02 15:04:05"), row)
	}
	return buf.Bytes()
}

func upload(addr string, csv []byte) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "seed.csv")
	if err != nil {
		return err
	}
	if _, err := fw.Write(csv); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	resp, err := http.Post(strings.TrimRight(addr, "/")+"/upload", mw.FormDataContentType(), &body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upload rejected (%d): %s", resp.StatusCode, respBody)
	}

	slog.Info("seeded server", "addr", addr, "response", strings.TrimSpace(string(respBody)))
	return nil
}

func main() {
	// Determine source of seed data
	var source iter.Seq[string]
	var err error
	if *seedFileName != "" {
		source, err = rowsFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = rowsFromSlice(sampleRows)
	}

	if err := upload(*serverAddr, buildCSV(source)); err != nil {
		panic(err)
	}
}
