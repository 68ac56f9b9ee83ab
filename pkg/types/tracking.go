package types

import (
	"net/http"
)

type Tracking interface {
	TrackSession(sessionId int, r *http.Request)
	TrackFilter(sessionId int, filters *FilterState, resultLen int, r *http.Request)
	TrackFilterChange(stateId string, filters *FilterState)
	Close() error
}
