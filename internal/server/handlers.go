package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/rampboard/pkg/buildinfo"
	"github.com/matzehuels/rampboard/pkg/errors"
	"github.com/matzehuels/rampboard/pkg/landmark"
	"github.com/matzehuels/rampboard/pkg/mbti"
	"github.com/matzehuels/rampboard/pkg/pipeline"
	"github.com/matzehuels/rampboard/pkg/session"
	"github.com/matzehuels/rampboard/pkg/table"
)

// tableInfo describes an upload and the choices it offers.
type tableInfo struct {
	Source             string   `json:"source"`
	Encoding           string   `json:"encoding"`
	Rows               int      `json:"rows"`
	Columns            []string `json:"columns"`
	NumericColumns     []string `json:"numeric_columns"`
	CategoricalColumns []string `json:"categorical_columns"`
	Keys               []string `json:"keys"`
}

// selectionResponse is the state of a session.
type selectionResponse struct {
	Session   string            `json:"session"`
	Table     *tableInfo        `json:"table,omitempty"`
	Selection session.Selection `json:"selection"`
	Warning   *errorResponse    `json:"warning,omitempty"`
}

func newTableInfo(sess *session.Session, loaded *pipeline.LoadedTable) *tableInfo {
	t := loaded.Table
	info := &tableInfo{
		Source:             sess.SourceName,
		Encoding:           loaded.Encoding,
		Rows:               t.Len(),
		Columns:            t.Columns,
		NumericColumns:     t.NumericColumns(),
		CategoricalColumns: t.CategoricalColumns(),
	}
	if sess.Selection.KeyColumn != "" {
		info.Keys = t.KeyValues(sess.Selection.KeyColumn)
	}
	return info
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Current()})
}

func (s *Server) handleLandmarks(w http.ResponseWriter, r *http.Request) {
	data, err := landmark.FeatureCollection()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(data)
}

func (s *Server) handleMBTIList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mbti.All())
}

func (s *Server) handleMBTI(w http.ResponseWriter, r *http.Request) {
	p, err := mbti.Lookup(chi.URLParam(r, "type"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleUpload replaces the session's table. The key column is detected
// and every numeric column is preselected; when no key column can be
// detected the upload still succeeds and the response carries a warning.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadSize)
	if err := r.ParseMultipartForm(s.cfg.Server.MaxUploadSize); err != nil {
		if statusFor(err) == http.StatusRequestEntityTooLarge {
			s.writeError(w, r, err)
			return
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed upload"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeFileNotFound, err, "no file in upload"))
		return
	}
	defer file.Close()

	if err := errors.ValidateUploadFilename(header.Filename); err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeUnreadableFile, err, "read upload"))
		return
	}

	name := filepath.Base(header.Filename)
	loaded, _, err := s.runnerFor(sess).LoadTable(ctx, name, data, s.cfg.Encodings...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := selectionResponse{Session: sess.ID}
	opts := pipeline.Options{KeyKeywords: s.cfg.KeyKeywords}
	if err := opts.SetSelectionDefaults(loaded.Table); err != nil {
		resp.Warning = &errorResponse{Code: errors.GetCode(err), Message: errors.UserMessage(err), Hint: errors.Hint(err)}
		opts.ValueColumns = loaded.Table.NumericColumns()
	}

	if err := s.cache.Set(ctx, uploadKey(sess.ID), data, s.cacheTTL()); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.SourceName = name
	sess.TableHash = loaded.Hash
	sess.Encoding = loaded.Encoding
	sess.Selection = session.Selection{
		KeyColumn:    opts.KeyColumn,
		ValueColumns: opts.ValueColumns,
		KeyValue:     opts.KeyValue,
	}
	if err := s.sessions.Set(ctx, sess); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("upload", "session", sess.ID, "source", name, "encoding", loaded.Encoding, "rows", loaded.Table.Len())

	if wantsHTML(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	resp.Table = newTableInfo(sess, loaded)
	resp.Selection = sess.Selection
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(ctx)

	resp := selectionResponse{Session: sess.ID, Selection: sess.Selection}
	if sess.HasTable() {
		loaded, _, err := s.sessionTable(ctx, sess)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Table = newTableInfo(sess, loaded)
	}
	writeJSON(w, http.StatusOK, resp)
}

// selectionRequest changes part of a selection. Absent fields keep their
// value; a new key column resets the key value to the column's first key.
type selectionRequest struct {
	KeyColumn    *string  `json:"key_column"`
	ValueColumns []string `json:"value_columns"`
	KeyValue     *string  `json:"key_value"`
}

// handlePutSelection validates the new selection by computing its ranking
// and stores it only when that succeeds.
func (s *Server) handlePutSelection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(ctx)

	var req selectionRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed selection"))
		return
	}

	loaded, _, err := s.sessionTable(ctx, sess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	next := sess.Clone().Selection
	if req.KeyColumn != nil && *req.KeyColumn != next.KeyColumn {
		next.KeyColumn = *req.KeyColumn
		next.KeyValue = ""
	}
	if req.ValueColumns != nil {
		next.ValueColumns = slices.Clone(req.ValueColumns)
	}
	if req.KeyValue != nil {
		next.KeyValue = *req.KeyValue
	}
	if next.KeyValue == "" && next.KeyColumn != "" {
		if keys := loaded.Table.KeyValues(next.KeyColumn); len(keys) > 0 {
			next.KeyValue = keys[0]
		}
	}

	opts := pipeline.Options{KeyColumn: next.KeyColumn, ValueColumns: next.ValueColumns}
	g, err := s.runnerFor(sess).Compute(ctx, loaded.Table, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := g.Ranked(next.KeyValue, s.cfg.Palette); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess.Selection = next
	if err := s.sessions.Set(ctx, sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, selectionResponse{
		Session:   sess.ID,
		Table:     newTableInfo(sess, loaded),
		Selection: sess.Selection,
	})
}

// handleArtifact serves one rendered format of the session's selection.
// Query parameters key, title, width, height and raw override the
// selection and chart settings for this request only.
func (s *Server) handleArtifact(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess := sessionFrom(ctx)

		data, err := s.sessionUpload(ctx, sess)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts, err := s.renderOptions(sess, format, r.URL.Query())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.Data = data

		result, err := s.runnerFor(sess).Execute(ctx, opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", contentType)
		if format == pipeline.FormatCSV {
			base := strings.TrimSuffix(sess.SourceName, filepath.Ext(sess.SourceName))
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+".proportions.csv"))
		}
		w.Write(result.Artifacts[format])
	}
}

func (s *Server) renderOptions(sess *session.Session, format string, q url.Values) (pipeline.Options, error) {
	palette := s.cfg.Palette
	opts := pipeline.Options{
		Source:       sess.SourceName,
		Encodings:    s.cfg.Encodings,
		KeyColumn:    sess.Selection.KeyColumn,
		ValueColumns: sess.Selection.ValueColumns,
		KeyValue:     sess.Selection.KeyValue,
		KeyKeywords:  s.cfg.KeyKeywords,
		Formats:      []string{format},
		Palette:      &palette,
		Width:        s.cfg.Chart.Width,
		Height:       s.cfg.Chart.Height,
		Title:        q.Get("title"),
		RawLabels:    !s.cfg.Chart.Percent,
		Logger:       s.logger,
	}
	if len(opts.ValueColumns) == 0 && sess.Selection.KeyColumn != "" {
		// An explicitly emptied selection must fail rather than fall back
		// to every numeric column.
		return opts, errors.ValidateColumnNames(nil)
	}
	if key := q.Get("key"); key != "" {
		opts.KeyValue = key
	}
	for name, dst := range map[string]*float64{"width": &opts.Width, "height": &opts.Height} {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f <= 0 {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be a positive number", name)
			}
			*dst = f
		}
	}
	if v := q.Get("raw"); v != "" {
		raw, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "raw must be true or false")
		}
		opts.RawLabels = raw
	}
	return opts, nil
}

// previewRows is how many raw rows accompany a summary by default.
const previewRows = 200

// summaryResponse is a table summary plus its leading raw rows.
type summaryResponse struct {
	table.Summary
	Preview table.Preview `json:"preview"`
}

// handleSummary reports column diagnostics and the first rows of the
// upload. The head query parameter changes the preview length.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	head := previewRows
	if v := r.URL.Query().Get("head"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "head must be a non-negative integer"))
			return
		}
		head = n
	}
	loaded, _, err := s.sessionTable(ctx, sessionFrom(ctx))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Summary: loaded.Table.Summarize(),
		Preview: loaded.Table.Preview(head),
	})
}

// handleForget drops the session, its upload and its cached table.
func (s *Server) handleForget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(ctx)

	if data, err := s.sessionUpload(ctx, sess); err == nil {
		if err := s.runnerFor(sess).ForgetTable(ctx, sess.SourceName, data, s.cfg.Encodings...); err != nil {
			s.logger.Warn("forget table", "session", sess.ID, "err", err)
		}
	}
	if err := s.cache.Delete(ctx, uploadKey(sess.ID)); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

// indexData feeds templates/index.html.
type indexData struct {
	Version   string
	Session   string
	Table     *tableInfo
	Selection session.Selection
	Summary   *table.Summary
	Preview   *table.Preview
	Error     *errorResponse
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(ctx)

	data := indexData{Version: buildinfo.Current(), Session: sess.ID, Selection: sess.Selection}
	if sess.HasTable() {
		loaded, _, err := s.sessionTable(ctx, sess)
		if err != nil {
			data.Error = &errorResponse{Code: errors.GetCode(err), Message: errors.UserMessage(err), Hint: errors.Hint(err)}
		} else {
			data.Table = newTableInfo(sess, loaded)
			summary := loaded.Table.Summarize()
			data.Summary = &summary
			preview := loaded.Table.Preview(previewRows)
			data.Preview = &preview
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error("template error", "err", err)
	}
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
