package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
	"github.com/sakin2155/anime-auto-scraper-1/internal/core/usecases"
)

// RunService reads the run history
type RunService interface {
	GetRun(runID string) (domain.Run, error)
	ListRecentRuns(limit int) ([]domain.Run, error)
}

// RunTrigger starts pipeline runs on demand and reports scheduler state
type RunTrigger interface {
	Trigger() error
	Running() bool
	Schedule() string
	NextRun() time.Time
}

type RunHandler struct {
	runService RunService
	trigger    RunTrigger
}

func NewRunHandler(runService RunService, trigger RunTrigger) *RunHandler {
	return &RunHandler{
		runService: runService,
		trigger:    trigger,
	}
}

// Health reports liveness and scheduler state
func (h *RunHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := StatusResponse{
		Status:   "ok",
		Running:  h.trigger.Running(),
		Schedule: h.trigger.Schedule(),
	}
	if next := h.trigger.NextRun(); !next.IsZero() {
		n := next.UTC()
		response.NextRun = &n
	}

	respondWithJSON(w, http.StatusOK, response)
}

// ListRuns returns the most recent runs, newest first
func (h *RunHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := usecases.DefaultRecentRuns
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondWithErrors(w, http.StatusBadRequest, []ErrorObject{errorInvalidField("limit", "must be a positive integer")})
			return
		}
		limit = parsed
	}
	if limit > usecases.MaxRecentRuns {
		limit = usecases.MaxRecentRuns
	}

	log.Printf("[DEBUG] HTTP ListRuns called - limit=%d", limit)

	runs, err := h.runService.ListRecentRuns(limit)
	if err != nil {
		log.Printf("[DEBUG] HTTP ListRuns failed - error: %v", err)
		respondWithErrors(w, http.StatusInternalServerError, []ErrorObject{errorInternalServer()})
		return
	}

	respondWithJSON(w, http.StatusOK, RunListResponse{
		Data: ToRunResponseList(runs),
		Meta: ListMeta{Count: len(runs), Limit: limit},
	})
}

// GetRun retrieves a specific run by ID
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["id"]

	log.Printf("[DEBUG] HTTP GetRun called - run_id=%s", runID)

	run, err := h.runService.GetRun(runID)
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			respondWithErrors(w, http.StatusNotFound, []ErrorObject{errorNotFound("run", runID)})
			return
		}
		log.Printf("[DEBUG] HTTP GetRun failed - error: %v", err)
		respondWithErrors(w, http.StatusInternalServerError, []ErrorObject{errorInternalServer()})
		return
	}

	respondWithJSON(w, http.StatusOK, ToRunResponse(run))
}

// TriggerRun starts an export immediately
func (h *RunHandler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	if err := h.trigger.Trigger(); err != nil {
		if errors.Is(err, domain.ErrRunInProgress) {
			respondWithErrors(w, http.StatusConflict, []ErrorObject{errorRunInProgress()})
			return
		}
		log.Printf("[DEBUG] HTTP TriggerRun failed - error: %v", err)
		respondWithErrors(w, http.StatusInternalServerError, []ErrorObject{errorInternalServer()})
		return
	}

	log.Printf("[DEBUG] HTTP TriggerRun - export started")
	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func respondWithJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
