/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package busmon

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/tdl-lab/go-tdl/pkg/config"
	"github.com/tdl-lab/go-tdl/pkg/log"
	"github.com/tdl-lab/go-tdl/pkg/tdl"
)

// PersistRequest selects where a capture file is created. Both fields are
// optional.
type PersistRequest struct {
	Dir    string `json:"dir,omitempty"`
	Prefix string `json:"prefix,omitempty"`
}

type PersistResponse struct {
	Path string `json:"path"`
}

type FlushResponse struct {
	Path    string `json:"path"`
	Records uint64 `json:"records"`
}

type ApiServer struct {
	context.Context
	*config.Config
	*mux.Router
	busmon *Server
}

func NewApiServer(ctx context.Context, cfg *config.Config, busmon *Server) (*ApiServer, error) {
	log.Info("Initializing API server with address: %s", cfg.ApiAddr())

	s := &ApiServer{
		Context: ctx,
		Config:  cfg,
		busmon:  busmon,
	}
	return s, nil
}

// Start
func (s *ApiServer) Run() error {
	log.Info("Starting API server: address: %s", s.Config.ApiAddr())
	s.configureRouter()
	httpServer := &http.Server{
		Handler: handlers.RecoveryHandler()(handlers.CombinedLoggingHandler(os.Stdout, s.Router)),
		Addr:    s.Config.ApiAddr(),
	}
	return httpServer.ListenAndServe()
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	subRouter.HandleFunc("/status", s.handleStatus()).Methods("GET")
	subRouter.HandleFunc("/time", s.handleTime()).Methods("GET")
	subRouter.HandleFunc("/journal/{family}/{n:[0-9]+}", s.handleJournal()).Methods("GET")
	subRouter.HandleFunc("/persist", s.handlePersist()).Methods("POST")
	subRouter.HandleFunc("/flush", s.handleFlush()).Methods("POST")
}

func (s *ApiServer) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling status request")
		json.NewEncoder(w).Encode(s.busmon.Status())
	}
}

func (s *ApiServer) handleTime() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling time request")
		json.NewEncoder(w).Encode(s.busmon.Time())
	}
}

func (s *ApiServer) handleJournal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling journal request")
		vars := mux.Vars(r)
		family, err := tdl.ParseFamily(vars["family"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		n, err := strconv.Atoi(vars["n"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		entries, err := s.busmon.journal.Last(family, n)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(entries)
	}
}

func (s *ApiServer) handlePersist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling persist request")
		req := &PersistRequest{}
		// an empty body means default dir and prefix
		if err := json.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		path, err := s.busmon.Persist(req.Dir, req.Prefix)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(&PersistResponse{Path: path})
	}
}

func (s *ApiServer) handleFlush() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling flush request")
		path, records, err := s.busmon.Flush()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(&FlushResponse{Path: path, Records: records})
	}
}
