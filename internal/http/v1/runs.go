package v1

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/VerteraIO/hostpulse/internal/controlplane/tasks"
)

// createRun handles POST /runs. The flaky task runs synchronously; the
// response carries its recorded outcome either way.
func (a *API) createRun(w http.ResponseWriter, r *http.Request) {
	t := a.Runs.Enqueue(tasks.TypeFlaky)
	a.Runs.UpdateStatusRunning(t.ID)

	runner := a.NewRunner(a.Logger.With("run_id", t.ID))
	if err := runner.Run(); err != nil {
		a.Runs.UpdateStatusFailed(t.ID, runner.LastDraw(), err.Error())
		a.Metrics.ObserveTaskRun(string(tasks.StatusFailed))
	} else {
		a.Runs.UpdateStatusSucceeded(t.ID, runner.LastDraw())
		a.Metrics.ObserveTaskRun(string(tasks.StatusSucceeded))
	}

	final, _ := a.Runs.Get(t.ID)
	w.Header().Set("Location", fmt.Sprintf("/api/v1/runs/%s", final.ID))
	writeJSON(w, http.StatusCreated, final)
}

// listRuns handles GET /runs
func (a *API) listRuns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": a.Runs.List()})
}

// getRun handles GET /runs/{runId}
func (a *API) getRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "runId")
	t, ok := a.Runs.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "run not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}
