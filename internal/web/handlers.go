package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/datatable/internal/core"
	"github.com/JonMunkholm/datatable/internal/csvcodec"
	"github.com/JonMunkholm/datatable/internal/logging"
)

// maxIntentBody bounds a serialized intent. setRows carries whole tables.
const maxIntentBody = 16 << 20

// multipartOverhead is allowed on top of the import size limit for form
// boundaries and part headers.
const multipartOverhead = 1 << 20

// IntentResponse is returned after a successful dispatch.
type IntentResponse struct {
	Kind core.IntentKind `json:"kind"`
	View core.View       `json:"view"`
}

// ImportResponse summarizes an applied CSV import.
type ImportResponse struct {
	Rows    int           `json:"rows"`
	Skipped int           `json:"skipped"`
	Columns []core.Column `json:"columns,omitempty"` // Columns registered from extra headers
	View    core.View     `json:"view"`
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Rows    int           `json:"rows"`
	Imports LimiterStatus `json:"imports"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.store.State())
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.store.View())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.store.History())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, HealthResponse{
		Status:  "ok",
		Rows:    len(s.store.State().Rows),
		Imports: s.limiter.Status(),
	})
}

// handleIntent decodes one intent envelope and dispatches it.
func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	var env core.Envelope
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxIntentBody))
	if err := dec.Decode(&env); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			s.respondError(w, r, err)
			return
		}
		s.respondError(w, r, core.ValidationError{Field: "body", Message: "malformed intent: " + err.Error()})
		return
	}

	intent, err := core.DecodeIntent(env)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if _, err := s.store.Dispatch(requestContext(r), intent); err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Debug("intent applied", "kind", intent.Kind())
	writeJSON(w, r, IntentResponse{Kind: intent.Kind(), View: s.store.View()})
}

// handleImport replaces the table with an uploaded CSV file. The file comes
// from the "file" form field of a multipart request, or is the raw request
// body otherwise. Form posts from the HTML page are redirected back to it.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := s.limiter.Acquire(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	defer s.limiter.Release()

	body, name, err := s.importSource(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer body.Close()

	logger := logging.WithFields(r.Context(), "file", name)

	res, err := csvcodec.Import(body, s.store.State(), s.importOpts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.store.Dispatch(requestContext(r), res.Intent()); err != nil {
		s.fail(w, r, err)
		return
	}

	logger.Info("import applied",
		"rows", len(res.Rows),
		"skipped", res.Skipped,
		"registered_columns", len(res.Columns),
	)

	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, r, ImportResponse{
		Rows:    len(res.Rows),
		Skipped: res.Skipped,
		Columns: res.Columns,
		View:    s.store.View(),
	})
}

func (s *Server) importSource(w http.ResponseWriter, r *http.Request) (io.ReadCloser, string, error) {
	limit := s.importOpts.MaxBytes
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType != "multipart/form-data" {
		if r.ContentLength == 0 {
			return nil, "", errNoFile
		}
		// csvcodec enforces the limit on the body itself.
		return r.Body, "body", nil
	}

	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", errNoFile
		}
		return nil, "", err
	}
	if limit > 0 && header.Size > limit {
		file.Close()
		return nil, "", core.FileTooLargeError{Limit: limit}
	}
	return file, header.Filename, nil
}

// handleSample loads the sample data set.
func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.Dispatch(requestContext(r), core.SampleData()); err != nil {
		s.fail(w, r, err)
		return
	}
	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, r, IntentResponse{Kind: core.KindReplaceData, View: s.store.View()})
}

// handleExport downloads every row as CSV. The file is encoded in memory
// first so a failed export never sends a partial body.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	res, err := csvcodec.Export(&buf, s.store.State())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	filename := csvcodec.Filename(s.now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).Warn("export write failed", "error", err)
		return
	}
	logging.FromContext(r.Context()).Info("export written", "rows", res.Rows, "file", filename)
}

// handleIndex renders the table. The search, sort, dir, page (1-based),
// size and theme query parameters dispatch cursor intents first.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	intents, err := cursorIntents(r.URL.Query(), s.store.State())
	if err == nil {
		ctx := requestContext(r)
		for _, intent := range intents {
			if _, err = s.store.Dispatch(ctx, intent); err != nil {
				break
			}
		}
	}
	if err != nil {
		s.renderPage(w, r, err)
		return
	}
	s.renderPage(w, r, nil)
}

// fail answers a page form post with the table and an alert, and API
// requests with a JSON error.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if wantsJSON(r) {
		s.respondError(w, r, err)
		return
	}
	s.renderPage(w, r, err)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusOK
	var alert *core.UserMessage
	if err != nil {
		status = statusFor(err)
		msg := core.MapError(err)
		alert = &msg
		logging.FromContext(r.Context()).Warn("page error", "error", err, "code", msg.Code)
	}
	renderHTML(w, r, status, tablePage(s.store.View(), alert))
}

// cursorIntents translates page query parameters into intents, skipping
// values that already match cur.
func cursorIntents(q url.Values, cur core.TableState) ([]core.Intent, error) {
	var intents []core.Intent
	pageReset := false

	if q.Has("search") {
		if text := strings.TrimSpace(q.Get("search")); text != cur.Search {
			intents = append(intents, core.SetSearch{Text: text})
			pageReset = true
		}
	}
	if field := q.Get("sort"); field != "" {
		dir := core.SortDirection(q.Get("dir"))
		if dir == "" {
			dir = core.SortAsc
		}
		if spec := (core.SortSpec{Field: field, Direction: dir}); spec != cur.Sort {
			intents = append(intents, core.SetSort{SortSpec: spec})
		}
	}
	if q.Has("size") {
		size, err := strconv.Atoi(q.Get("size"))
		if err != nil {
			return nil, core.ValidationError{Field: "size", Value: q.Get("size"), Message: "rows per page must be a number"}
		}
		if size != cur.RowsPerPage {
			intents = append(intents, core.SetPageSize{Size: size})
			pageReset = true
		}
	}
	if q.Has("page") {
		page, err := strconv.Atoi(q.Get("page"))
		if err != nil {
			return nil, core.ValidationError{Field: "page", Value: q.Get("page"), Message: "page must be a number"}
		}
		if page-1 != cur.Page || pageReset {
			intents = append(intents, core.SetPage{Page: page - 1})
		}
	}
	if theme := core.Theme(q.Get("theme")); theme != "" && theme != cur.Theme {
		intents = append(intents, core.SetTheme{Theme: theme})
	}
	return intents, nil
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
