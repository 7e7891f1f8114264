// Package result contains the response values the llkgram HTTP API's
// handlers build and hand back to its router, and the logic for
// turning one into an actual HTTP response.
package result

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the JSON body of any non-2xx Result.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// OK builds a Result containing an HTTP-200 and respObj as its JSON
// body, plus a detailed message (not shown to the caller) for the
// access log.
func OK(respObj interface{}, internalMsg ...interface{}) Result {
	return response(http.StatusOK, respObj, "ok", internalMsg)
}

// Created builds a Result containing an HTTP-201.
func Created(respObj interface{}, internalMsg ...interface{}) Result {
	return response(http.StatusCreated, respObj, "created", internalMsg)
}

// NoContent builds a Result containing an HTTP-204 with no body.
func NoContent(internalMsg ...interface{}) Result {
	return response(http.StatusNoContent, nil, "no content", internalMsg)
}

// BadRequest builds a Result containing an HTTP-400 with userMsg shown
// to the caller.
func BadRequest(userMsg string, internalMsg ...interface{}) Result {
	return errResult(http.StatusBadRequest, userMsg, "bad request", internalMsg)
}

// Unauthorized builds a Result containing an HTTP-401 and a
// WWW-Authenticate header, per the Bearer scheme the admin endpoints
// require.
func Unauthorized(userMsg string, internalMsg ...interface{}) Result {
	if userMsg == "" {
		userMsg = "you are not authorized to do that"
	}
	return errResult(http.StatusUnauthorized, userMsg, "unauthorized", internalMsg).
		WithHeader("WWW-Authenticate", `Bearer realm="llkgram"`)
}

// NotFound builds a Result containing an HTTP-404.
func NotFound(internalMsg ...interface{}) Result {
	return errResult(http.StatusNotFound, "the requested resource was not found", "not found", internalMsg)
}

// Conflict builds a Result containing an HTTP-409 with userMsg shown
// to the caller.
func Conflict(userMsg string, internalMsg ...interface{}) Result {
	return errResult(http.StatusConflict, userMsg, "conflict", internalMsg)
}

// InternalServerError builds a Result containing an HTTP-500. The
// detailed message is logged but never shown to the caller.
func InternalServerError(internalMsg ...interface{}) Result {
	return errResult(http.StatusInternalServerError, "an internal server error occurred", "internal server error", internalMsg)
}

func formatMsg(fallback string, args []interface{}) string {
	if len(args) == 0 {
		return fallback
	}
	format, ok := args[0].(string)
	if !ok {
		return fallback
	}
	return fmt.Sprintf(format, args[1:]...)
}

func response(status int, respObj interface{}, fallbackMsg string, internalMsg []interface{}) Result {
	return Result{
		IsJSON:      true,
		Status:      status,
		InternalMsg: formatMsg(fallbackMsg, internalMsg),
		resp:        respObj,
	}
}

func errResult(status int, userMsg, fallbackMsg string, internalMsg []interface{}) Result {
	return Result{
		IsJSON:      true,
		IsErr:       true,
		Status:      status,
		InternalMsg: formatMsg(fallbackMsg, internalMsg),
		resp:        ErrorResponse{Error: userMsg, Status: status},
	}
}

// Result is the outcome of one API handler call: an HTTP status, a
// JSON body, and a message for the access log that is never sent to
// the caller.
type Result struct {
	Status      int
	IsErr       bool
	IsJSON      bool
	InternalMsg string

	resp interface{}
	hdrs [][2]string

	respJSONBytes []byte
}

// WithHeader returns a copy of r with an additional response header
// set.
func (r Result) WithHeader(name, val string) Result {
	cp := r
	cp.hdrs = append(append([][2]string(nil), r.hdrs...), [2]string{name, val})
	return cp
}

// PrepareMarshaledResponse marshals r's body ahead of WriteResponse,
// so a marshaling failure can be turned into its own error Result
// instead of panicking mid-write.
func (r *Result) PrepareMarshaledResponse() error {
	if r.respJSONBytes != nil || r.Status == http.StatusNoContent {
		return nil
	}
	data, err := json.Marshal(r.resp)
	if err != nil {
		return err
	}
	r.respJSONBytes = data
	return nil
}

// WriteResponse writes r to w as a JSON response. Status must already
// be set; a zero Result indicates a handler bug and panics rather than
// writing a blank HTTP-200.
func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result: not populated")
	}
	if err := r.PrepareMarshaledResponse(); err != nil {
		panic("result: could not marshal response: " + err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	for _, h := range r.hdrs {
		w.Header().Set(h[0], h[1])
	}
	w.WriteHeader(r.Status)
	if r.Status != http.StatusNoContent {
		w.Write(r.respJSONBytes)
	}
}
