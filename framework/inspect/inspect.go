// Package inspect exposes a container's factories and scopes over HTTP.
//
//	GET    /health
//	GET    /factories          every declared factory
//	GET    /factories/{id}     one factory ("7" or "#7")
//	DELETE /factories/{id}     drop its override and cached instance
//	GET    /scopes             named scopes with their live entry counts
//	DELETE /scopes/{name}      empty one scope
//	POST   /reset              reset the whole container
package inspect

import (
	"log/slog"
	"net/http"

	"github.com/km-arc/go-factory/framework/container"
	gohttp "github.com/km-arc/go-factory/framework/http"
	"github.com/km-arc/go-factory/framework/logging"
	"github.com/km-arc/go-factory/framework/routing"
	"github.com/km-arc/go-factory/framework/validation"
)

// ScopeInfo is the JSON form of one scope.
type ScopeInfo struct {
	Name    string `json:"name"`
	Entries int    `json:"entries"`
}

// Inspector serves diagnostics for one container.
type Inspector struct {
	c *container.Container
}

// New creates an Inspector over c.
func New(c *container.Container) *Inspector {
	return &Inspector{c: c}
}

// Handler returns a router serving every endpoint, logging requests to
// logger.
func (in *Inspector) Handler(logger *slog.Logger) http.Handler {
	r := routing.New(logger)
	in.Routes(r)
	return r
}

// Routes registers the endpoints on r.
func (in *Inspector) Routes(r *routing.Router) {
	r.Get("/health", in.health)
	r.Get("/factories", in.listFactories)
	r.Get("/factories/{id}", in.showFactory)
	r.Delete("/factories/{id}", in.resetFactory)
	r.Get("/scopes", in.listScopes)
	r.Delete("/scopes/{name}", in.resetScope)
	r.Post("/reset", in.reset)
}

func (in *Inspector) health(w http.ResponseWriter, _ *http.Request) {
	gohttp.NewResponse(w).JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (in *Inspector) listFactories(w http.ResponseWriter, _ *http.Request) {
	gohttp.NewResponse(w).Success(in.c.Factories())
}

func (in *Inspector) showFactory(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	id, ok := factoryID(res, r)
	if !ok {
		return
	}
	d, ok := in.c.Describe(id)
	if !ok {
		res.NotFound("No factory " + id.String() + ".")
		return
	}
	res.Success(d)
}

func (in *Inspector) resetFactory(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	id, ok := factoryID(res, r)
	if !ok {
		return
	}
	if !in.c.ResetFactory(id) {
		res.NotFound("No factory " + id.String() + ".")
		return
	}
	logging.FromContext(r.Context()).Info("factory reset", "id", id)
	res.NoContent()
}

func (in *Inspector) listScopes(w http.ResponseWriter, _ *http.Request) {
	scopes := in.c.Scopes()
	out := make([]ScopeInfo, len(scopes))
	for i, s := range scopes {
		out[i] = ScopeInfo{Name: s.Name(), Entries: s.Len()}
	}
	gohttp.NewResponse(w).Success(out)
}

func (in *Inspector) resetScope(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	name := routing.Param(r, "name")
	if !in.c.ResetScope(name) {
		res.NotFound("No scope " + name + ".")
		return
	}
	logging.FromContext(r.Context()).Info("scope reset", "scope", name)
	res.NoContent()
}

func (in *Inspector) reset(w http.ResponseWriter, r *http.Request) {
	in.c.Reset()
	logging.FromContext(r.Context()).Info("container reset")
	gohttp.NewResponse(w).NoContent()
}

// ── helpers ──────────────────────────────────────────────────────────────────

var idRules = validation.Rules{"id": `required|regex:^#?[0-9]+$`}

// factoryID validates and parses the {id} param, writing the error response
// itself when it is malformed.
func factoryID(res *gohttp.Response, r *http.Request) (container.ID, bool) {
	raw := routing.Param(r, "id")
	v := validation.Make(map[string]string{"id": raw}, idRules)
	if v.Fails() {
		res.ValidationError(v.Errors())
		return 0, false
	}
	id, ok := container.ParseID(raw)
	if !ok {
		res.NotFound("No factory " + raw + ".")
		return 0, false
	}
	return id, true
}
