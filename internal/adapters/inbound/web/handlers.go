package web

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/codejanitor/janitor/internal/domain"
)

const maxUpload = 2 << 20

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type codeRequest struct {
	Filename string `json:"filename"`
	Code     string `json:"code"`
}

type analyzeSummary struct {
	Total         int `json:"total"`
	SecurityCount int `json:"security_count"`
}

type analyzeResponse struct {
	Success        bool           `json:"success"`
	Filename       string         `json:"filename"`
	Issues         []domain.Issue `json:"issues"`
	SecurityIssues []domain.Issue `json:"security_issues"`
	CodeSmells     []domain.Issue `json:"code_smells"`
	Summary        analyzeSummary `json:"summary"`
}

type refactorResponse struct {
	Success     bool                      `json:"success"`
	Response    string                    `json:"response,omitempty"`
	ChangesMade int                       `json:"changes_made"`
	Attempts    int                       `json:"attempts"`
	Validation  *domain.ValidationOutcome `json:"validation,omitempty"`
	Error       string                    `json:"error,omitempty"`
}

type heartbeat struct {
	UptimeSeconds int64  `json:"uptime_seconds"`
	Goroutines    int    `json:"goroutines"`
	HeapAlloc     uint64 `json:"heap_alloc_bytes"`
	Subscribers   int    `json:"subscribers"`
}

type wsMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func errorJSON(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": s.opts.Version})
}

// readCode accepts either a multipart upload in the "file" field or a JSON
// body with filename and code.
func readCode(c *gin.Context) (codeRequest, bool) {
	var req codeRequest
	if c.ContentType() == "multipart/form-data" {
		fh, err := c.FormFile("file")
		if err != nil {
			errorJSON(c, http.StatusBadRequest, "missing file field")
			return req, false
		}
		f, err := fh.Open()
		if err != nil {
			errorJSON(c, http.StatusBadRequest, err.Error())
			return req, false
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxUpload))
		if err != nil {
			errorJSON(c, http.StatusBadRequest, err.Error())
			return req, false
		}
		req = codeRequest{Filename: fh.Filename, Code: string(data)}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return req, false
	}

	if req.Code == "" {
		errorJSON(c, http.StatusBadRequest, "No code provided")
		return req, false
	}
	req.Filename = filepath.Base(req.Filename)
	if req.Filename == "." || req.Filename == string(filepath.Separator) {
		req.Filename = "snippet.py"
	}
	return req, true
}

// workspace writes the submitted code to a private temp dir, since the
// external tools only accept paths.
func workspace(req codeRequest) (string, func(), error) {
	dir, err := os.MkdirTemp("", "janitor_web_")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(dir) }
	path := filepath.Join(dir, req.Filename)
	if err := os.WriteFile(path, []byte(req.Code), 0644); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

func relabel(issues []domain.Issue, name string) []domain.Issue {
	out := make([]domain.Issue, len(issues))
	for i, issue := range issues {
		issue.File = name
		out[i] = issue
	}
	return out
}

func (s *Server) handleAnalyze(c *gin.Context) {
	req, ok := readCode(c)
	if !ok {
		return
	}
	app, err := s.app()
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	path, cleanup, err := workspace(req)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	defer cleanup()

	raw := app.Analyzer.AnalyzeFile(c.Request.Context(), path)
	result := domain.NewAnalysisResult(req.Filename, relabel(raw.Issues, req.Filename), relabel(raw.Lint, req.Filename), raw.Functions)

	s.metrics.analyzed.Inc()
	for cat, issues := range result.ByCategory {
		s.metrics.issues.WithLabelValues(string(cat)).Add(float64(len(issues)))
	}
	if app.RecordEnabled() {
		if _, err := app.History.Record(app.Root, result, false); err != nil {
			s.logger.Warn("recording analysis failed", "error", err)
		}
	}
	s.logger.Info("analyzed upload", "file", req.Filename, "issues", result.IssueCount, "lint", len(result.Lint))

	c.JSON(http.StatusOK, analyzeResponse{
		Success:        true,
		Filename:       req.Filename,
		Issues:         nonNil(result.Lint),
		SecurityIssues: nonNil(result.SecurityIssues()),
		CodeSmells:     nonNil(result.Smells()),
		Summary: analyzeSummary{
			Total:         result.IssueCount + len(result.Lint),
			SecurityCount: len(result.SecurityIssues()),
		},
	})
}

func nonNil(issues []domain.Issue) []domain.Issue {
	if issues == nil {
		return []domain.Issue{}
	}
	return issues
}

func (s *Server) handleRefactor(c *gin.Context) {
	req, ok := readCode(c)
	if !ok {
		return
	}
	app, err := s.app()
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	refactorer, err := app.Refactorer()
	if err != nil {
		s.metrics.refactors.WithLabelValues("unavailable").Inc()
		errorJSON(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	path, cleanup, err := workspace(req)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	defer cleanup()

	ctx := c.Request.Context()
	analysis := app.Analyzer.AnalyzeFile(ctx, path)
	result := refactorer.Refactor(ctx, path, req.Code, analysis)
	if !result.Success() {
		s.metrics.refactors.WithLabelValues("error").Inc()
		s.logger.Warn("refactor failed", "file", req.Filename, "error", result.Err)
		c.JSON(http.StatusOK, refactorResponse{Attempts: len(result.Attempts), Error: result.Err.Error()})
		return
	}

	resp := refactorResponse{
		Success:     true,
		Response:    result.Candidate,
		ChangesMade: result.ChangesMade,
		Attempts:    len(result.Attempts),
	}
	if len(result.Attempts) == 0 {
		s.metrics.refactors.WithLabelValues("clean").Inc()
		c.JSON(http.StatusOK, resp)
		return
	}

	outcome := app.Validator.Validate(ctx, path, result.Candidate)
	resp.Validation = &outcome
	if outcome.Passed() {
		s.metrics.refactors.WithLabelValues("passed").Inc()
	} else {
		s.metrics.refactors.WithLabelValues("rejected").Inc()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHistory(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errorJSON(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	app, err := s.app()
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	records, err := app.History.Recent(app.Root, limit)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// handleLogs streams a heartbeat every interval and every log record the
// server emits while the client is connected.
func (s *Server) handleLogs(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	entries, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.opts.Heartbeat)
	defer ticker.Stop()

	if err := conn.WriteJSON(wsMessage{Type: "heartbeat", Data: s.heartbeat()}); err != nil {
		return
	}
	for {
		var msg wsMessage
		select {
		case <-closed:
			return
		case <-s.quit:
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		case <-ticker.C:
			msg = wsMessage{Type: "heartbeat", Data: s.heartbeat()}
		case e := <-entries:
			msg = wsMessage{Type: "log", Data: e}
		}
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (s *Server) heartbeat() heartbeat {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return heartbeat{
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		Goroutines:    runtime.NumGoroutine(),
		HeapAlloc:     mem.HeapAlloc,
		Subscribers:   s.hub.Subscribers(),
	}
}
