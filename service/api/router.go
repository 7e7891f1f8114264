package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dekarrin/llkgram/service"
)

// Router builds the full set of HTTP routes this package serves,
// mounted at PathPrefix.
func (api API) Router() http.Handler {
	r := chi.NewRouter()

	r.Post("/grammars", api.HTTPCreateGrammar())
	r.Get("/grammars/{id}", api.HTTPGetGrammar())
	r.Post("/grammars/{id}/parse", api.HTTPParse())

	r.Method(http.MethodDelete, "/grammars/{id}", service.RequireAdmin(
		api.AdminSecret, api.UnauthDelay, api.HTTPDeleteGrammar()))
	r.Method(http.MethodGet, "/grammars/{id}/stats", service.RequireAdmin(
		api.AdminSecret, api.UnauthDelay, api.HTTPGetStats()))

	return r
}
