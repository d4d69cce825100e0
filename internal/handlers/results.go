package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/app"
	"github.com/shrimpsizemoose/semla/internal/metrics"
	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/scoring"
)

// ResultHandler serves read-only views of the grading state.
type ResultHandler struct {
	service *app.Service
}

func NewResultHandler(service *app.Service) *ResultHandler {
	return &ResultHandler{
		service: service,
	}
}

// NewRouter mounts the result API and the metrics endpoint.
func NewRouter(service *app.Service) http.Handler {
	h := NewResultHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/week", h.instrument(h.HandleWeek))
	mux.HandleFunc("GET /api/v1/tasks/{task}/table", h.instrument(h.HandleTable))
	mux.HandleFunc("GET /api/v1/tasks/{task}/results", h.instrument(h.HandleResults))
	mux.HandleFunc("GET /api/v1/results", h.instrument(h.HandleSummaries))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	return mux
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *ResultHandler) instrument(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		metrics.APIRequestDuration.WithLabelValues(
			r.Pattern,
			r.Method,
			strconv.Itoa(rec.status),
		).Observe(time.Since(start).Seconds())
	}
}

func (h *ResultHandler) HandleWeek(w http.ResponseWriter, r *http.Request) {
	c := h.service.CurrentWeek()
	writeJSON(w, map[string]interface{}{
		"date":           h.service.Today().Format("2006-01-02"),
		"inside":         c.Inside(),
		"week":           c.Week,
		"direction":      c.Direction.String(),
		"magnitude":      c.Magnitude,
		"wrong_year":     c.WrongYear,
		"classification": c.String(),
	})
}

type tableRow struct {
	Points int    `json:"points"`
	OnTime string `json:"on_time"`
	Late   string `json:"late"`
}

func (h *ResultHandler) HandleTable(w http.ResponseWriter, r *http.Request) {
	task, ok := h.task(w, r)
	if !ok {
		return
	}

	table := scoring.BuildTable(task)
	rows := make([]tableRow, 0, len(table))
	for _, row := range table {
		rows = append(rows, tableRow{Points: row.Points, OnTime: row.OnTime.String(), Late: row.Late.String()})
	}

	writeJSON(w, map[string]interface{}{
		"task":        task.ID,
		"due_week":    task.DueWeek,
		"week_ranges": task.WeekRanges(h.service.Config.Course.Weeks),
		"rows":        rows,
	})
}

func (h *ResultHandler) HandleResults(w http.ResponseWriter, r *http.Request) {
	task, ok := h.task(w, r)
	if !ok {
		return
	}

	summary, results, err := h.service.Grader.Summary(task.ID)
	if err != nil {
		logger.Error.Printf("Failed to get results for %s: %v", task.ID, err)
		http.Error(w, "Failed to fetch results", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"summary": summaryView(summary),
		"results": results,
	})
}

func (h *ResultHandler) HandleSummaries(w http.ResponseWriter, r *http.Request) {
	tasks := h.service.Config.Course.Tasks
	summaries := make([]map[string]interface{}, 0, len(tasks))
	for _, task := range tasks {
		summary, _, err := h.service.Grader.Summary(task.ID)
		if err != nil {
			logger.Error.Printf("Failed to get summary for %s: %v", task.ID, err)
			http.Error(w, "Failed to fetch results", http.StatusInternalServerError)
			return
		}
		summaries = append(summaries, summaryView(summary))
	}

	writeJSON(w, map[string]interface{}{
		"stats": summaries,
	})
}

func (h *ResultHandler) task(w http.ResponseWriter, r *http.Request) (*models.Task, bool) {
	id := r.PathValue("task")
	task, ok := h.service.Config.Course.Task(id)
	if !ok {
		logger.Debug.Printf("Unknown task requested: %q", id)
		http.Error(w, "Unknown task", http.StatusNotFound)
		return nil, false
	}
	return task, true
}

// summaryView replaces an infinite best time, which JSON cannot carry, with
// null. Report tasks have no running time at all.
func summaryView(s models.Summary) map[string]interface{} {
	view := map[string]interface{}{
		"task":      s.Task,
		"report":    s.Report,
		"best":      s.Best,
		"max":       s.Max,
		"best_time": nil,
	}
	if !s.Report && !math.IsInf(s.BestTime, 1) {
		view["best_time"] = s.BestTime
	}
	return view
}

func writeJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
