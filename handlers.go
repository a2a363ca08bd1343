package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"reef-scout/ingest"
	"reef-scout/report"
	"reef-scout/schedule"
	"reef-scout/scouting"
	"reef-scout/stats"
	"reef-scout/templates"
)

var errNotSubmission = errors.New("not a " + ingest.SubmissionExt + " submission")

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type uploadResponse struct {
	Batch    string          `json:"batch"`
	Imported int             `json:"imported"`
	Failed   int             `json:"failed"`
	Results  []ingest.Result `json:"results"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail maps domain errors onto HTTP responses. Anything unrecognized is a
// server fault and gets logged.
func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, stats.ErrUnknownCategory):
		writeError(w, http.StatusBadRequest, "unknown_category", err)
	case errors.Is(err, report.ErrNoData):
		writeError(w, http.StatusNotFound, "no_data", err)
	case errors.Is(err, schedule.ErrInvalidSchedule):
		writeError(w, http.StatusBadRequest, "invalid_schedule", err)
	case errors.Is(err, schedule.ErrTBADisabled):
		writeError(w, http.StatusServiceUnavailable, "tba_disabled", err)
	default:
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", nil)
	}
}

func (s *server) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	templ.Handler(c).ServeHTTP(w, r)
}

func teamParam(r *http.Request) (int, error) {
	team, err := strconv.Atoi(chi.URLParam(r, "team"))
	if err != nil || team <= 0 {
		return 0, fmt.Errorf("invalid team number %q", chi.URLParam(r, "team"))
	}
	return team, nil
}

func (s *server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"up_since": s.upSince.Format(time.RFC3339),
	})
}

func (s *server) homeHandler(w http.ResponseWriter, r *http.Request) {
	teams, err := s.reports.Teams(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, templates.Home(templates.HomePageData{
		Teams:      teams,
		Categories: stats.Categories,
		Message:    r.URL.Query().Get("msg"),
	}))
}

func (s *server) teamsHandler(w http.ResponseWriter, r *http.Request) {
	teams, err := s.reports.Teams(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

func (s *server) teamLookupHandler(w http.ResponseWriter, r *http.Request) {
	team, err := teamParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_team", err)
		return
	}
	rep, err := s.reports.TeamLookup(r.Context(), team)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, templates.TeamLookup(templates.TeamPageData{Report: rep, Categories: stats.Categories}))
}

func (s *server) teamPerformanceHandler(w http.ResponseWriter, r *http.Request) {
	team, err := teamParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_team", err)
		return
	}
	points, err := s.reports.TeamPerformance(r.Context(), team)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (s *server) categoryPerformanceHandler(w http.ResponseWriter, r *http.Request) {
	team, err := teamParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_team", err)
		return
	}
	res, err := s.reports.CategoryPerformance(r.Context(), team, chi.URLParam(r, "category"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if res.Category.Climb {
		writeJSON(w, http.StatusOK, res.Distribution)
		return
	}
	writeJSON(w, http.StatusOK, res.Series)
}

func (s *server) climbHandler(w http.ResponseWriter, r *http.Request) {
	var teams []int
	for _, raw := range strings.Split(r.URL.Query().Get("teams"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		t, err := strconv.Atoi(raw)
		if err != nil || t <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_team", fmt.Errorf("invalid team number %q", raw))
			return
		}
		teams = append(teams, t)
	}

	chart, err := s.reports.ClimbChart(r.Context(), teams)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

func (s *server) averagesHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := s.reports.Averages(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *server) mediansHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := s.reports.Medians(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *server) rawDataHandler(w http.ResponseWriter, r *http.Request) {
	records, err := s.reports.Raw(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *server) averagesPageHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := s.reports.Averages(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, templates.Table(templates.SummaryTable("Team Averages", rows)))
}

func (s *server) mediansPageHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := s.reports.Medians(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, templates.Table(templates.SummaryTable("Team Medians", rows)))
}

func (s *server) rawPageHandler(w http.ResponseWriter, r *http.Request) {
	records, err := s.reports.Raw(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, templates.Table(templates.RecordTable("Raw Data", records)))
}

func (s *server) schedulePageHandler(w http.ResponseWriter, r *http.Request) {
	matches, err := s.store.ListMatches(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, templates.Schedule(templates.SchedulePageData{
		Matches:    matches,
		TBAEnabled: s.tba != nil && s.tba.Enabled(),
		Message:    r.URL.Query().Get("msg"),
	}))
}

// uploadScoutingHandler saves each uploaded .txt file to the upload dir and
// ingests it before the next file is saved. One bad file never fails the
// others.
func (s *server) uploadScoutingHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_upload", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	var headers []*multipart.FileHeader
	headers = append(headers, r.MultipartForm.File["files"]...)
	headers = append(headers, r.MultipartForm.File["file"]...)
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_upload", errors.New("no files uploaded"))
		return
	}

	batch := uuid.NewString()
	log := s.log.With(zap.String("batch", batch))

	results := make([]ingest.Result, 0, len(headers))
	for _, fh := range headers {
		name := filepath.Base(fh.Filename)
		if !strings.EqualFold(filepath.Ext(name), ingest.SubmissionExt) {
			results = append(results, ingest.Result{File: name, Err: errNotSubmission, Error: errNotSubmission.Error()})
			continue
		}
		path := filepath.Join(s.cfg.Ingest.UploadDir, name)
		if err := saveUpload(fh, path); err != nil {
			log.Error("failed to save upload", zap.String("file", name), zap.Error(err))
			results = append(results, ingest.Result{File: name, Err: err, Error: err.Error()})
			continue
		}
		// Same-named files in one batch overwrite each other on disk.
		results = append(results, s.ingester.IngestFile(r.Context(), path))
	}

	resp := uploadResponse{Batch: batch, Results: results}
	status := http.StatusOK
	for _, res := range results {
		if res.OK() {
			resp.Imported++
			continue
		}
		resp.Failed++
		if !res.Rejected() && !errors.Is(res.Err, errNotSubmission) {
			status = http.StatusInternalServerError
		}
	}
	log.Info("processed scouting upload", zap.Int("imported", resp.Imported), zap.Int("failed", resp.Failed))
	writeJSON(w, status, resp)
}

func saveUpload(fh *multipart.FileHeader, path string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("save upload: %w", err)
	}
	return dst.Close()
}

func (s *server) importScheduleHandler(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_upload", errors.New("no schedule file uploaded"))
		return
	}
	defer file.Close()

	matches, err := schedule.ParseCSV(file)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.storeSchedule(w, r, matches, "csv")
}

func (s *server) importTBAScheduleHandler(w http.ResponseWriter, r *http.Request) {
	if s.tba == nil {
		s.fail(w, r, schedule.ErrTBADisabled)
		return
	}
	matches, err := s.tba.Qualifications(r.Context(), r.FormValue("event_key"))
	if err != nil {
		if !errors.Is(err, schedule.ErrInvalidSchedule) && !errors.Is(err, schedule.ErrTBADisabled) {
			s.log.Warn("tba schedule fetch failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "tba_unavailable", err)
			return
		}
		s.fail(w, r, err)
		return
	}
	s.storeSchedule(w, r, matches, "tba")
}

func (s *server) storeSchedule(w http.ResponseWriter, r *http.Request, matches []scouting.Match, source string) {
	if err := s.store.ImportSchedule(r.Context(), matches); err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Info("imported match schedule", zap.String("source", source), zap.Int("matches", len(matches)))
	msg := fmt.Sprintf("Imported %d matches", len(matches))
	http.Redirect(w, r, "/match-schedule?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (s *server) clearHandler(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.ClearAll(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.reports.Invalidate()
	s.log.Warn("cleared scouting data", zap.Int64("records", n))
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
