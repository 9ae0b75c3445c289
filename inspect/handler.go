package inspect

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/habiliai/svccontainer/container"
	"github.com/samber/lo"
)

type (
	// Inspectable is the read-only part of a container the handler needs.
	Inspectable interface {
		Names() []string
		State(name string) container.SlotState
	}

	ServiceState struct {
		Name  string `json:"name"`
		State string `json:"state"`
	}
)

func NewHandler(c Inspectable, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Warn("failed to write health response", "err", err)
		}
	}).Methods(http.MethodGet)

	router.HandleFunc("/services", func(w http.ResponseWriter, r *http.Request) {
		states := lo.Map(c.Names(), func(name string, _ int) ServiceState {
			return ServiceState{Name: name, State: c.State(name).String()}
		})
		writeJSON(w, logger, http.StatusOK, states)
	}).Methods(http.MethodGet)

	router.HandleFunc("/services/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["name"]
		state := c.State(name)
		if state == container.Absent {
			writeJSON(w, logger, http.StatusNotFound, map[string]string{"error": "service not found"})
			return
		}
		writeJSON(w, logger, http.StatusOK, ServiceState{Name: name, State: state.String()})
	}).Methods(http.MethodGet)

	return newRecoveryHandler(logger)(router)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("failed to write response", "err", err)
	}
}
