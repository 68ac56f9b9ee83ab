package tracking

import (
	"log"
	"net/http"
	"time"

	"github.com/matst80/slask-boutique/pkg/common"
	"github.com/matst80/slask-boutique/pkg/messaging"
	"github.com/matst80/slask-boutique/pkg/types"
	amqp "github.com/rabbitmq/amqp091-go"
)

const trackingPrefix = "global"

type publishFunc func(events []any) error

// RabbitTracking queues events and publishes them in batches to the global
// tracking exchange so request handlers never wait on the broker.
type RabbitTracking struct {
	country    string
	connection *amqp.Connection
	queue      *common.QueueHandler[any]
	publish    publishFunc
}

func NewRabbitTracking(conn *amqp.Connection, country string) (*RabbitTracking, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	defer ch.Close()
	if err := messaging.DefineTopic(ch, trackingPrefix, messaging.Tracking); err != nil {
		return nil, err
	}
	rt := newTracking(country, func(events []any) error {
		return messaging.SendChange(conn, trackingPrefix, messaging.Tracking, events)
	})
	rt.connection = conn
	return rt, nil
}

func newTracking(country string, publish publishFunc) *RabbitTracking {
	rt := &RabbitTracking{
		country: country,
		publish: publish,
	}
	rt.queue = common.NewQueueHandler(rt.flush, 200, 2*time.Second)
	return rt
}

func (rt *RabbitTracking) flush(events []any) {
	if err := rt.publish(events); err != nil {
		log.Printf("Failed to publish %d tracking events: %v", len(events), err)
	}
}

func (rt *RabbitTracking) base(sessionId int, event uint16) *BaseEvent {
	return &BaseEvent{Event: event, SessionId: sessionId, Country: rt.country, Context: "storefront"}
}

func (rt *RabbitTracking) TrackSession(sessionId int, r *http.Request) {
	rt.queue.Add(Session{
		BaseEvent:    rt.base(sessionId, EventSession),
		Language:     r.Header.Get("Accept-Language"),
		UserAgent:    r.UserAgent(),
		Ip:           clientIp(r),
		PragmaHeader: r.Header.Get("Pragma"),
	})
}

func (rt *RabbitTracking) TrackFilter(sessionId int, filters *types.FilterState, resultLen int, r *http.Request) {
	rt.queue.Add(FilterEvent{
		BaseEvent:       rt.base(sessionId, EventFilter),
		Facets:          filters.ActiveFacets(),
		Filters:         filters,
		NumberOfResults: resultLen,
		Referer:         r.Header.Get("Referer"),
	})
}

func (rt *RabbitTracking) TrackFilterChange(stateId string, filters *types.FilterState) {
	rt.queue.Add(FilterChangeEvent{
		BaseEvent: rt.base(0, EventFilterChange),
		StateId:   stateId,
		Facets:    filters.ActiveFacets(),
		Filters:   filters,
	})
}

// Close publishes queued events before the connection is closed.
func (rt *RabbitTracking) Close() error {
	rt.queue.Close()
	if rt.connection == nil {
		return nil
	}
	return rt.connection.Close()
}
