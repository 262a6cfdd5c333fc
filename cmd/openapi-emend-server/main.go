// Command openapi-emend-server exposes the emendation core over HTTP: POST a
// document to /convert to emend it, or to /downgrade to emend-then-downgrade
// it back to a target grammar.
package main

import (
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"github.com/shlomiassaf/openapi"
)

const (
	defaultPort = "8085"

	serverReadTimeout  = 15
	serverWriteTimeout = 15
	serverIdleTimeout  = 60
)

type convertResponse struct {
	Document    map[string]any       `json:"document"`
	Diagnostics []openapi.Diagnostic `json:"diagnostics"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Info("request", "method", r.Method, "uri", r.RequestURI)
		next.ServeHTTP(w, r)
	})
}

func main() {
	var port string
	flag.StringVar(&port, "port", defaultPort, "port to listen on")
	flag.Parse()

	r := mux.NewRouter()
	r.HandleFunc("/convert", handleConvert()).Methods("POST")
	r.HandleFunc("/downgrade", handleDowngrade()).Methods("POST")
	r.Use(loggingMiddleware)

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  serverReadTimeout * time.Second,
		WriteTimeout: serverWriteTimeout * time.Second,
		IdleTimeout:  serverIdleTimeout * time.Second,
	}

	slog.Info("starting openapi-emend-server", "address", "http://localhost:"+port)
	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}

// handleConvert emends whatever document is POSTed as the request body and
// returns the emended document alongside any non-fatal diagnostics.
func handleConvert() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := decodeBody(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		doc, diagnostics, err := openapi.Convert(raw)
		if err != nil {
			slog.Warn("convert failed", "error", err)
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, convertResponse{
			Document:    openapi.Emit(doc),
			Diagnostics: diagnostics,
		})
	}
}

// handleDowngrade emends the posted document and downgrades it to the
// target named by the `target` query parameter (swagger2 or openapi30).
func handleDowngrade() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, ok := parseTargetVersion(r.URL.Query().Get("target"))
		if !ok {
			writeError(w, http.StatusBadRequest, "target must be swagger2 or openapi30")
			return
		}

		raw, err := decodeBody(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		doc, _, err := openapi.Convert(raw)
		if err != nil {
			slog.Warn("convert failed", "error", err)
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		downgraded, diagnostics, err := openapi.Downgrade(doc, target)
		if err != nil {
			slog.Warn("downgrade failed", "error", err)
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, convertResponse{
			Document:    downgraded,
			Diagnostics: diagnostics,
		})
	}
}

func parseTargetVersion(name string) (openapi.Version, bool) {
	switch name {
	case "swagger2":
		return openapi.Swagger2, true
	case "openapi30":
		return openapi.OpenAPI30, true
	default:
		return 0, false
	}
}

func decodeBody(r *http.Request) (map[string]any, error) {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
