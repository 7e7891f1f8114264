package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dekarrin/llkgram"
	"github.com/dekarrin/llkgram/internal/llk/parse"
	"github.com/dekarrin/llkgram/service/dao"
	"github.com/dekarrin/llkgram/service/result"
)

// GrammarModel is the JSON shape of a registered grammar.
type GrammarModel struct {
	URI      string `json:"uri"`
	ID       string `json:"id"`
	CacheKey string `json:"cache_key"`
	Created  string `json:"created"`
}

func grammarModel(g dao.Grammar) GrammarModel {
	return GrammarModel{
		URI:      PathPrefix + "/grammars/" + g.ID.String(),
		ID:       g.ID.String(),
		CacheKey: g.CacheKey,
		Created:  g.Created.Format(time.RFC3339),
	}
}

// HTTPCreateGrammar returns a HandlerFunc that decodes a YAML grammar
// description from the request body, validates and compiles it, and
// registers it for later use.
func (api API) HTTPCreateGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateGrammar)
}

func (api API) epCreateGrammar(req *http.Request) result.Result {
	body, err := readAll(req)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	g, err := llkgram.DecodeGrammar(body)
	if err != nil {
		return result.BadRequest("grammar: "+err.Error(), "grammar decode failed: %s", err.Error())
	}

	key, err := llkgram.CacheKey(g)
	if err != nil {
		return result.InternalServerError("compute cache key: " + err.Error())
	}

	if existing, err := api.Store.Grammars().GetByCacheKey(req.Context(), key); err == nil {
		return result.OK(grammarModel(existing), "grammar '%s' already registered as %s", key, existing.ID)
	} else if !errors.Is(err, dao.ErrNotFound) {
		return result.InternalServerError("look up cache key: " + err.Error())
	}

	p, err := llkgram.NewParser(g)
	if err != nil {
		return result.BadRequest("grammar: "+err.Error(), "compile failed: %s", err.Error())
	}

	blob, err := p.Save()
	if err != nil {
		return result.InternalServerError("serialize compiled parser: " + err.Error())
	}

	stored, err := api.Store.Grammars().Create(req.Context(), dao.Grammar{
		CacheKey:     key,
		Description:  body,
		CompiledBlob: blob,
		Created:      time.Now(),
	})
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return result.Conflict("grammar already registered", "cache key '%s' collided", key)
		}
		return result.InternalServerError("store grammar: " + err.Error())
	}

	return result.Created(grammarModel(stored), "grammar %s registered", stored.ID)
}

// HTTPGetGrammar returns a HandlerFunc retrieving a registered
// grammar's metadata.
func (api API) HTTPGetGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetGrammar)
}

func (api API) epGetGrammar(req *http.Request) result.Result {
	id, err := requireIDParam(req)
	if err != nil {
		return result.BadRequest("id: " + err.Error())
	}

	g, err := api.Store.Grammars().GetByID(req.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("get grammar: " + err.Error())
	}

	return result.OK(grammarModel(g), "grammar %s retrieved", g.ID)
}

// HTTPDeleteGrammar returns a HandlerFunc removing a registered
// grammar. Admin auth required.
func (api API) HTTPDeleteGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteGrammar)
}

func (api API) epDeleteGrammar(req *http.Request) result.Result {
	id, err := requireIDParam(req)
	if err != nil {
		return result.BadRequest("id: " + err.Error())
	}

	g, err := api.Store.Grammars().Delete(req.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("delete grammar: " + err.Error())
	}

	return result.NoContent("grammar %s deleted", g.ID)
}

// ParseRequest is the JSON body of a parse call.
type ParseRequest struct {
	Input string `json:"input"`
}

// ParseResponse is the JSON shape of a successful derivation.
type ParseResponse struct {
	Leaves     string         `json:"leaves"`
	Derivation []llkgram.Step `json:"derivation"`
}

// HTTPParse returns a HandlerFunc that parses an input string against
// a registered grammar's compiled parser.
func (api API) HTTPParse() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epParse)
}

func (api API) epParse(req *http.Request) result.Result {
	id, err := requireIDParam(req)
	if err != nil {
		return result.BadRequest("id: " + err.Error())
	}

	var parseReq ParseRequest
	if err := parseJSON(req, &parseReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	g, err := api.Store.Grammars().GetByID(req.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("get grammar: " + err.Error())
	}

	p, err := llkgram.LoadParser(g.CompiledBlob)
	if err != nil {
		return result.InternalServerError("load compiled parser: " + err.Error())
	}

	tree, err := p.Parse(parseReq.Input)
	if err != nil {
		return result.BadRequest("input does not derive from this grammar: "+err.Error(), "parse %q against %s failed: %s", parseReq.Input, id, err.Error())
	}

	resp := ParseResponse{Leaves: tree.Leaves(), Derivation: tree.LRN()}
	return result.OK(resp, "input %q parsed against grammar %s", parseReq.Input, id)
}

// StatsResponse is the JSON shape of a grammar's compiled statistics.
type StatsResponse struct {
	Stats  parse.Stats `json:"stats"`
	Report string      `json:"report"`
}

// HTTPGetStats returns a HandlerFunc dumping a registered grammar's
// FIRST_k/FOLLOW_k/CHOICE_k sets and compiled LUT. Admin auth
// required.
func (api API) HTTPGetStats() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetStats)
}

func (api API) epGetStats(req *http.Request) result.Result {
	id, err := requireIDParam(req)
	if err != nil {
		return result.BadRequest("id: " + err.Error())
	}

	g, err := api.Store.Grammars().GetByID(req.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("get grammar: " + err.Error())
	}

	p, err := llkgram.LoadParser(g.CompiledBlob)
	if err != nil {
		return result.InternalServerError("load compiled parser: " + err.Error())
	}

	stats := p.ComputeStats()
	return result.OK(StatsResponse{Stats: stats, Report: parse.FormatStats(stats, 100)}, "stats for grammar %s retrieved", id)
}
