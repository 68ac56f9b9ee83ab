package messaging

import (
	"fmt"
	"log"
	"time"

	"github.com/matst80/slask-boutique/pkg/common/jsoncompat"
	amqp "github.com/rabbitmq/amqp091-go"
)

// CatalogSync fans catalog changes out to all nodes of a country.
type CatalogSync struct {
	Country string
	Node    string
	conn    *amqp.Connection
}

func NewCatalogSync(conn *amqp.Connection, country, node string) (*CatalogSync, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	defer ch.Close()
	if err := DefineTopic(ch, country, ProductChanged); err != nil {
		return nil, fmt.Errorf("declare %s: %w", ProductChanged, err)
	}
	return &CatalogSync{Country: country, Node: node, conn: conn}, nil
}

func (s *CatalogSync) Publish(reason string, version uint64) error {
	return SendChange(s.conn, s.Country, ProductChanged, CatalogChange{
		Node:    s.Node,
		Reason:  reason,
		Version: version,
		At:      time.Now(),
	})
}

// Listen calls onChange for every change published by another node.
func (s *CatalogSync) Listen(onChange func(CatalogChange)) error {
	ch, err := s.conn.Channel()
	if err != nil {
		return err
	}
	return ListenToTopic(ch, s.Country, ProductChanged, func(d amqp.Delivery) error {
		change, err := DecodeCatalogChange(d.Body)
		if err != nil {
			return err
		}
		if change.Node == s.Node {
			return nil
		}
		log.Printf("Catalog change from %s: %s", change.Node, change.Reason)
		onChange(change)
		return nil
	})
}

func DecodeCatalogChange(body []byte) (CatalogChange, error) {
	var change CatalogChange
	if err := jsoncompat.Unmarshal(body, &change); err != nil {
		return change, fmt.Errorf("decode catalog change: %w", err)
	}
	return change, nil
}
