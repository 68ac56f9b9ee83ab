package server

import (
	"net/http"

	"github.com/matst80/slask-boutique/pkg/common"
	"github.com/matst80/slask-boutique/pkg/common/jsoncompat"
	"github.com/matst80/slask-boutique/pkg/state"
	"github.com/matst80/slask-boutique/pkg/types"
)

type SessionResponse struct {
	Id    string            `json:"id"`
	State types.FilterState `json:"state"`
}

type ToggleRequest struct {
	Facet string `json:"facet"`
	Value string `json:"value"`
}

func validatePrice(b types.PriceBounds) error {
	if b.Min != nil && b.Max != nil && *b.Min > *b.Max {
		return common.BadRequest("min price %v is above max price %v", *b.Min, *b.Max)
	}
	return nil
}

func (ws *WebServer) container(r *http.Request) (string, *state.Container, error) {
	id := r.PathValue("id")
	c, err := ws.Sessions.Get(id)
	if err != nil {
		return id, nil, sessionError(err)
	}
	return id, c, nil
}

func (ws *WebServer) CreateSession(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error {
	initial := types.NewFilterState()
	if r.ContentLength != 0 {
		if err := common.DecodeBody(r, &initial); err != nil {
			return err
		}
		if err := validatePrice(initial.Price); err != nil {
			return err
		}
	}
	id, c := ws.Sessions.Create(initial.Clone())
	sessionChanges.WithLabelValues("create").Inc()
	w.WriteHeader(http.StatusCreated)
	return enc.Encode(SessionResponse{Id: id, State: c.Get()})
}

func (ws *WebServer) GetSession(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error {
	id, c, err := ws.container(r)
	if err != nil {
		return err
	}
	return enc.Encode(SessionResponse{Id: id, State: c.Get()})
}

func (ws *WebServer) SetSession(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error {
	id, c, err := ws.container(r)
	if err != nil {
		return err
	}
	next := types.NewFilterState()
	if err := common.DecodeBody(r, &next); err != nil {
		return err
	}
	if err := validatePrice(next.Price); err != nil {
		return err
	}
	c.Set(next.Clone())
	sessionChanges.WithLabelValues("set").Inc()
	return enc.Encode(SessionResponse{Id: id, State: c.Get()})
}

func (ws *WebServer) ToggleSession(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error {
	id, c, err := ws.container(r)
	if err != nil {
		return err
	}
	var req ToggleRequest
	if err := common.DecodeBody(r, &req); err != nil {
		return err
	}
	f, err := types.ParseFacet(req.Facet)
	if err != nil {
		return sessionError(err)
	}
	if req.Value == "" {
		return common.BadRequest("value is required")
	}
	next, err := c.Toggle(f, req.Value)
	if err != nil {
		return sessionError(err)
	}
	sessionChanges.WithLabelValues("toggle").Inc()
	return enc.Encode(SessionResponse{Id: id, State: next})
}

func (ws *WebServer) SetSessionPrice(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error {
	id, c, err := ws.container(r)
	if err != nil {
		return err
	}
	var bounds types.PriceBounds
	if err := common.DecodeBody(r, &bounds); err != nil {
		return err
	}
	if err := validatePrice(bounds); err != nil {
		return err
	}
	next := c.SetPriceBound(bounds.Min, bounds.Max)
	sessionChanges.WithLabelValues("price").Inc()
	return enc.Encode(SessionResponse{Id: id, State: next})
}

func (ws *WebServer) ClearSessionFacet(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error {
	id, c, err := ws.container(r)
	if err != nil {
		return err
	}
	f, err := types.ParseFacet(r.PathValue("facet"))
	if err != nil {
		return sessionError(err)
	}
	next, err := c.ClearFacet(f)
	if err != nil {
		return sessionError(err)
	}
	sessionChanges.WithLabelValues("clear_facet").Inc()
	return enc.Encode(SessionResponse{Id: id, State: next})
}

func (ws *WebServer) ClearSession(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error {
	id, c, err := ws.container(r)
	if err != nil {
		return err
	}
	next := c.ClearAll()
	sessionChanges.WithLabelValues("clear").Inc()
	return enc.Encode(SessionResponse{Id: id, State: next})
}

// SessionProducts applies the stored filters, paging and sort come from the query.
func (ws *WebServer) SessionProducts(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error {
	_, c, err := ws.container(r)
	if err != nil {
		return err
	}
	fr, err := types.GetFilterRequest(r)
	if err != nil {
		return common.WithStatus(http.StatusBadRequest, err)
	}
	fr.Filters = c.Get()
	s, err := ws.snapshot()
	if err != nil {
		return err
	}
	productRequests.Inc()
	result := listProducts(s, fr)
	ws.trackFilter(sessionId, &fr.Filters, result.Total, r)
	return enc.Encode(result)
}

func (ws *WebServer) SessionFacets(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error {
	_, c, err := ws.container(r)
	if err != nil {
		return err
	}
	s, err := ws.snapshot()
	if err != nil {
		return err
	}
	fs := c.Get()
	return enc.Encode(FacetsResponse{
		FacetOptions: ws.facetOptions(r.Context(), s, fs.Categories),
		Version:      s.Version,
	})
}
