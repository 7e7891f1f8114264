// Package api provides HTTP handlers for the llkgram service: register
// a grammar, parse input against one, inspect its compiled statistics,
// and remove it.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dekarrin/llkgram/service/dao"
	"github.com/dekarrin/llkgram/service/result"
)

// PathPrefix is the prefix of every route this package serves. A
// router should mount a sub-router at this path.
const PathPrefix = "/api/v1"

// API holds the dependencies every endpoint needs.
type API struct {
	// Store persists registered grammars and their compiled parsers.
	Store dao.Store

	// UnauthDelay is how long a request pauses before an HTTP-401 or
	// HTTP-500 response is written, to deprioritize such requests.
	UnauthDelay time.Duration

	// AdminSecret signs and verifies the bearer tokens the admin
	// endpoints require.
	AdminSecret []byte
}

type EndpointFunc func(req *http.Request) result.Result

func httpEndpoint(unauthDelay time.Duration, ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)
		r := ep(req)

		if r.Status == 0 {
			logHTTPResponse("ERROR", req, http.StatusInternalServerError, "endpoint result was never populated")
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		if err := r.PrepareMarshaledResponse(); err != nil {
			result.InternalServerError("could not marshal JSON response: " + err.Error()).WriteResponse(w)
			return
		}

		if r.IsErr {
			logHTTPResponse("ERROR", req, r.Status, r.InternalMsg)
		} else {
			logHTTPResponse("INFO", req, r.Status, r.InternalMsg)
		}

		if r.Status == http.StatusUnauthorized || r.Status == http.StatusInternalServerError {
			time.Sleep(unauthDelay)
		}

		r.WriteResponse(w)
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) {
	if panicErr := recover(); panicErr != nil {
		logHTTPResponse("ERROR", req, http.StatusInternalServerError, fmt.Sprintf("panic: %v\n%s", panicErr, debug.Stack()))
		http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
	}
}

func logHTTPResponse(level string, req *http.Request, status int, msg string) {
	for len(level) < 5 {
		level += " "
	}
	remoteIP := strings.SplitN(req.RemoteAddr, ":", 2)[0]
	log.Printf("%s %s %s %s: HTTP-%d %s", level, remoteIP, req.Method, req.URL.Path, status, msg)
}

func requireIDParam(r *http.Request) (uuid.UUID, error) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		return uuid.UUID{}, fmt.Errorf("no id in URL")
	}
	return uuid.Parse(idStr)
}

func readAll(req *http.Request) ([]byte, error) {
	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()
	return bodyData, nil
}

// v must be a pointer to a type.
func parseJSON(req *http.Request, v interface{}) error {
	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	if err := json.Unmarshal(bodyData, v); err != nil {
		return fmt.Errorf("malformed JSON in request: %w", err)
	}
	return nil
}
