package ui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"

	"shoplens/app"
	"shoplens/internal/errors"
	"shoplens/internal/export"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleLogin authenticates and opens a session with the full observed
// date range as the default filter.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid login payload")
		return
	}
	role, err := a.authn.Authenticate(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	tok := a.sessions.Create(req.Username, role)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	sc, _ := a.sessions.Context(tok)
	writeJSON(w, http.StatusOK, map[string]any{"session": sc})
}

func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Revoke(token(r))
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleSession reports the caller's context plus the observed bounds the
// date picker should offer.
func (a *App) handleSession(w http.ResponseWriter, r *http.Request) {
	sc := sessionFrom(r)
	minDate, maxDate := a.sessions.Bounds()
	sections, err := a.dashboards.Sections(sc.Role)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session":  sc,
		"min_date": minDate.Format("2006-01-02"),
		"max_date": maxDate.Format("2006-01-02"),
		"sections": sections,
	})
}

type dateRangeRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// handleDateRange updates the session's inclusive date filter, clamped to
// the observed order-date bounds.
func (a *App) handleDateRange(w http.ResponseWriter, r *http.Request) {
	var req dateRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range payload")
		return
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}
	sc, err := a.sessions.SetDateRange(token(r), start, end)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session": sc})
}

// handleRefresh drops the procedure result cache so the next render hits
// the database.
func (a *App) handleRefresh(w http.ResponseWriter, r *http.Request) {
	a.procCache.Flush()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleDashboard renders every section of the caller's role dashboard.
func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sc := sessionFrom(r)
	sections, err := a.dashboards.RenderDashboard(r.Context(), sc)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"role":     sc.Role,
		"sections": renderNotes(sections),
	})
}

// handleSection renders one section with user-chosen parameters from the
// query string.
func (a *App) handleSection(w http.ResponseWriter, r *http.Request) {
	sc := sessionFrom(r)
	id := app.SectionID(chi.URLParam(r, "id"))

	q := r.URL.Query()
	params := app.Params{
		Metric:    q.Get("metric"),
		Category:  q.Get("category"),
		UserType:  q.Get("user_type"),
		Provinces: q["province"],
		Metrics:   q["m"],
	}
	if year := q.Get("year"); year != "" {
		n, err := strconv.Atoi(year)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year must be an integer")
			return
		}
		params.Year = n
	}

	section, err := a.dashboards.RenderSection(r.Context(), sc, id, params)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderNotes([]app.Section{section})[0])
}

// handleExport streams the full dashboard as an Excel workbook.
func (a *App) handleExport(w http.ResponseWriter, r *http.Request) {
	sc := sessionFrom(r)
	sections, err := a.dashboards.RenderDashboard(r.Context(), sc)
	if err != nil {
		writeAppError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="dashboard-%s-%s.xlsx"`, sc.Role, time.Now().Format("2006-01-02")))
	if err := export.Workbook(w, sections); err != nil {
		// Headers may already be gone; log and drop the connection.
		a.log.Error("export failed: %v", err)
	}
}

// sectionView decorates a Section with its notes rendered to HTML.
type sectionView struct {
	app.Section
	NotesHTML string `json:"notes_html,omitempty"`
}

// renderNotes converts each section's markdown notes to HTML for browser
// clients, keeping the raw markdown alongside.
func renderNotes(sections []app.Section) []sectionView {
	views := make([]sectionView, len(sections))
	for i, section := range sections {
		views[i] = sectionView{Section: section}
		if section.Notes != "" {
			views[i].NotesHTML = string(markdown.ToHTML([]byte(section.Notes), nil, nil))
		}
	}
	return views
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// writeAppError maps structured error codes onto HTTP statuses. Errors
// without a code never reach the client verbatim; they may carry driver
// detail users should not see.
func writeAppError(w http.ResponseWriter, err error) {
	if !errors.IsAppError(err) {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeUnauthorized:
		status = http.StatusUnauthorized
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeDataUnavailable:
		status = http.StatusServiceUnavailable
	}
	writeError(w, status, err.Error())
}
