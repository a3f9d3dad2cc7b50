// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package web

import (
	"encoding/json"
	"net/http"

	"cv-terminal/internal/config"

	"github.com/gorilla/mux"
)

// SectionResponse is the body of GET /api/cv/{section}.
type SectionResponse struct {
	ID    string   `json:"id"`
	Lines []string `json:"lines"`
}

// writeJSONResponse writes a JSON response with CORS headers
func writeJSONResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_ = json.NewEncoder(w).Encode(data)
}

// RegisterAPIRoutes adds the read-only CV endpoints to router.
func RegisterAPIRoutes(router *mux.Router, cfg *config.CV) {
	router.HandleFunc("/api/settings", settingsHandler(cfg)).Methods("GET")
	router.HandleFunc("/api/cv", cvHandler(cfg)).Methods("GET")
	router.HandleFunc("/api/cv/{section}", sectionHandler(cfg)).Methods("GET")
	router.HandleFunc("/healthz", healthHandler).Methods("GET")
}

// settingsHandler serves the terminal settings the browser page applies to xterm.js.
func settingsHandler(cfg *config.CV) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSONResponse(w, cfg.Terminal)
	}
}

// cvHandler serves the whole configuration: commands, section order and content.
func cvHandler(cfg *config.CV) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSONResponse(w, cfg)
	}
}

func sectionHandler(cfg *config.CV) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["section"]
		lines, ok := cfg.Section(id)
		if !ok {
			http.Error(w, "section not found", http.StatusNotFound)
			return
		}
		writeJSONResponse(w, SectionResponse{ID: id, Lines: lines})
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, map[string]string{"status": "ok"})
}
