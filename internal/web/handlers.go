package web

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/firstat/fasttab/internal/logging"
	"github.com/firstat/fasttab/pkg/fasttab"
	"github.com/firstat/fasttab/pkg/fasttab/models"
	"github.com/firstat/fasttab/pkg/fasttab/parser"
	"github.com/go-chi/chi/v5"
)

// previewRows is how many data rows the page previews.
const previewRows = 2

// multipartMemory bounds the part of an upload kept in memory while parsing.
const multipartMemory = 32 << 20

type pageData struct {
	Table     *tableView
	Selection fasttab.Selection
	Outputs   []outputView
	Errors    []string
	Message   string
}

type tableView struct {
	Source  string
	Sheet   string
	Rows    int
	Columns []string
	Preview [][]string
}

type outputView struct {
	Kind     string
	Title    string
	FileName string
	Sheets   int
}

// session returns the caller's session, starting one when the cookie is
// absent or expired.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if sess, ok := s.sessions.Get(c.Value); ok {
			return sess
		}
	}
	sess := s.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// handleIndex renders the page for the caller's session.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	s.render(w, r, sess, http.StatusOK, "")
}

// handleUpload loads an uploaded spreadsheet into the session. On failure
// the session keeps its previous table and the error is shown.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	logger := logging.FromContext(r.Context(), s.logger)

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(min(s.opts.MaxUploadBytes, multipartMemory)); err != nil {
		s.render(w, r, sess, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.render(w, r, sess, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.render(w, r, sess, http.StatusBadRequest, "failed to read upload")
		return
	}

	table, err := parser.Load(data, header.Filename, s.opts.Load)
	if err != nil {
		logger.Warn().Err(err).Str("file", header.Filename).Msg("upload rejected")
		s.render(w, r, sess, http.StatusUnprocessableEntity, err.Error())
		return
	}

	sess.mu.Lock()
	sess.table = table
	sess.selection = fasttab.Selection{}
	sess.result = nil
	sess.mu.Unlock()

	logger.Info().
		Str("file", table.SourceName).
		Str("sheet", table.SheetName).
		Int("rows", table.Len()).
		Int("columns", len(table.Columns())).
		Msg("table loaded")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleProcess runs the selected tabulations and replaces the session's
// previous result. A rejected request still discards the old result.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if err := r.ParseForm(); err != nil {
		s.render(w, r, sess, http.StatusBadRequest, "invalid form")
		return
	}
	sel := fasttab.Selection{
		OneWay:      r.Form["one_way"],
		Demographic: r.Form["demographic"],
		MultiChoice: r.Form["multi"],
	}

	sess.mu.Lock()
	if sess.table == nil {
		sess.mu.Unlock()
		s.render(w, r, sess, http.StatusBadRequest, "upload a spreadsheet first")
		return
	}
	if sel.Empty() {
		sess.selection = sel
		sess.result = nil
		sess.mu.Unlock()
		s.render(w, r, sess, http.StatusBadRequest, "select at least one column")
		return
	}

	opts := s.opts.Process
	opts.Logger = logging.FromContext(r.Context(), s.logger)
	sess.selection = sel
	sess.result = fasttab.Process(sess.table, sel, opts)
	sess.mu.Unlock()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDownload streams one workbook of the session's last result.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	kind, ok := fasttab.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		http.Error(w, "unknown download", http.StatusNotFound)
		return
	}

	sess := s.session(w, r)
	sess.mu.Lock()
	result := sess.result
	sess.mu.Unlock()

	if result == nil {
		http.Error(w, "nothing processed yet", http.StatusNotFound)
		return
	}
	out := result.Output(kind)
	if out == nil || out.Err != nil {
		http.Error(w, kind.Title()+" workbook not available", http.StatusNotFound)
		return
	}

	wb := out.Workbook
	w.Header().Set("Content-Type", wb.MimeType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": wb.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(wb.Data)))
	w.Write(wb.Data)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok")
}

// render writes the page for sess with an optional message.
func (s *Server) render(w http.ResponseWriter, r *http.Request, sess *Session, status int, message string) {
	sess.mu.Lock()
	data := buildPage(sess, message)
	sess.mu.Unlock()

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		logger := logging.FromContext(r.Context(), s.logger)
		logger.Error().Err(err).Msg("render page")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// buildPage collects the view of a session. The caller holds sess.mu.
func buildPage(sess *Session, message string) pageData {
	data := pageData{
		Selection: sess.selection,
		Message:   message,
	}

	if t := sess.table; t != nil {
		view := &tableView{
			Source:  t.SourceName,
			Sheet:   t.SheetName,
			Rows:    t.Len(),
			Columns: t.Columns(),
		}
		for _, row := range t.Head(previewRows) {
			cells := make([]string, len(row))
			for i, v := range row {
				cells[i] = models.FormatValue(v)
			}
			view.Preview = append(view.Preview, cells)
		}
		data.Table = view
	}

	if res := sess.result; res != nil {
		for _, out := range res.Outputs() {
			data.Outputs = append(data.Outputs, outputView{
				Kind:     string(out.Kind),
				Title:    out.Kind.Title(),
				FileName: out.Workbook.FileName,
				Sheets:   len(out.Workbook.SheetNames),
			})
		}
		for _, err := range res.Errors() {
			data.Errors = append(data.Errors, err.Error())
		}
	}

	return data
}
