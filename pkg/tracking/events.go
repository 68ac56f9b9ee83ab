package tracking

import (
	"net/http"

	"github.com/matst80/slask-boutique/pkg/types"
)

const (
	EventSession      uint16 = 0
	EventFilter       uint16 = 1
	EventFilterChange uint16 = 2
)

type BaseEvent struct {
	SessionId int    `json:"session_id,omitempty"`
	Country   string `json:"country,omitempty"`
	Context   string `json:"context,omitempty"`
	Event     uint16 `json:"event"`
}

type Session struct {
	*BaseEvent
	UserAgent    string `json:"user_agent,omitempty"`
	Ip           string `json:"ip,omitempty"`
	Language     string `json:"language,omitempty"`
	PragmaHeader string `json:"pragma,omitempty"`
}

type FilterEvent struct {
	*BaseEvent
	Facets          []types.Facet      `json:"facets"`
	Filters         *types.FilterState `json:"filters"`
	NumberOfResults int                `json:"noi"`
	Referer         string             `json:"referer,omitempty"`
}

type FilterChangeEvent struct {
	*BaseEvent
	StateId string             `json:"state_id"`
	Facets  []types.Facet      `json:"facets"`
	Filters *types.FilterState `json:"filters"`
}

func clientIp(r *http.Request) string {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return ip
}
