package apiserver

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/xkmsoft/porterstemmer/pkg/engine"
)

// Backend is the engine the API forwards requests to, usually a
// *tcpclient.TCPClient.
type Backend interface {
	Query(s string, page uint32) (*engine.SearchResults, error)
	Stem(s string) (*engine.StemResult, error)
}

type QueryParams struct {
	Query string `json:"query"`
	Page  int    `json:"page"`
}

type StemParams struct {
	Text string `json:"text"`
}

type gzipResponseWriter struct {
	io.Writer
	http.ResponseWriter
}

func (w gzipResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func MakeGzipHandler(fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accepts := r.Header.Get("Accept-Encoding")
		if !strings.Contains(accepts, "gzip") {
			// Client does not support gzip encoding; Returning the original handler
			fn(w, r)
			return
		}
		gz, err := gzip.NewWriterLevel(w, gzip.BestCompression)
		if err != nil {
			// Failed to set the compression level: Returning the original handler
			fn(w, r)
			return
		}
		defer func(gz *gzip.Writer) {
			if err := gz.Close(); err != nil {
				fmt.Printf("Error closing gz writer: %s\n", err.Error())
			}
		}(gz)
		w.Header().Set("Content-Encoding", "gzip")
		fn(gzipResponseWriter{
			Writer:         gz,
			ResponseWriter: w,
		}, r)
	}
}

type Server struct {
	Backend Backend
}

func NewServer(backend Backend) *Server {
	return &Server{Backend: backend}
}

// Router wires the API routes.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/query", MakeGzipHandler(s.HandleQuery)).Methods(http.MethodPost)
	api.HandleFunc("/stem", MakeGzipHandler(s.HandleStem)).Methods(http.MethodPost)
	api.HandleFunc("/stem/{word}", MakeGzipHandler(s.HandleStemWord)).Methods(http.MethodGet)
	return router
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func (s *Server) HandleQuery(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var params QueryParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if params.Page < 0 {
		params.Page = 0
	}

	results, err := s.Backend.Query(params.Query, uint32(params.Page))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, results)
}

func (s *Server) HandleStem(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var params StemParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.Backend.Stem(params.Text)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, result)
}

func (s *Server) HandleStemWord(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	result, err := s.Backend.Stem(mux.Vars(r)["word"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, result)
}
