package tracking

import (
	"fmt"
	"log"
	"net/http"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/matst80/part-finder/pkg/common/jsoncompat"
	"github.com/matst80/part-finder/pkg/types"
)

const trackingTopic = "tracking"

// RabbitTracking publishes behavior events to an AMQP topic, one message
// per event, JSON encoded.
type RabbitTracking struct {
	country    string
	connection *amqp.Connection
}

func NewRabbitTracking(url, country string) (*RabbitTracking, error) {
	ret := RabbitTracking{country: country}
	if err := ret.connect(url); err != nil {
		return nil, err
	}
	return &ret, nil
}

func (t *RabbitTracking) connect(url string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	t.connection = conn
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	return defineTopic(ch, "global", trackingTopic)
}

func (t *RabbitTracking) Close() error {
	return t.connection.Close()
}

func defineTopic(ch *amqp.Channel, prefix, topic string) error {
	name := topicName(prefix, topic)
	if err := ch.ExchangeDeclare(name, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	_, err := ch.QueueDeclare(name, true, false, false, false, nil)
	return err
}

func topicName(prefix, topic string) string {
	return fmt.Sprintf("%s_%s", prefix, topic)
}

func (t *RabbitTracking) send(data any) error {
	bytes, err := jsoncompat.Marshal(data)
	if err != nil {
		return err
	}
	ch, err := t.connection.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	name := topicName("global", trackingTopic)
	return ch.Publish(name, name, true, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        bytes,
	})
}

type BaseEvent struct {
	SessionId string `json:"session_id"`
	Country   string `json:"country,omitempty"`
	Event     uint16 `json:"event"`
}

type SessionEvent struct {
	*BaseEvent
	UserAgent string `json:"user_agent,omitempty"`
	Ip        string `json:"ip,omitempty"`
	Language  string `json:"language,omitempty"`
}

type SearchEvent struct {
	*BaseEvent
	Filters         types.FilterState `json:"filters"`
	NumberOfResults int               `json:"noi"`
	Page            int               `json:"page"`
}

type FilterChangeEvent struct {
	*BaseEvent
	Key   string `json:"key"`
	Value any    `json:"value"`
}

func (t *RabbitTracking) TrackSession(sessionId string, r *http.Request) {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	err := t.send(SessionEvent{
		BaseEvent: &BaseEvent{Event: 0, SessionId: sessionId, Country: t.country},
		Language:  r.Header.Get("Accept-Language"),
		UserAgent: r.UserAgent(),
		Ip:        ip,
	})
	if err != nil {
		log.Println("Error sending session event: ", err)
	}
}

func (t *RabbitTracking) TrackSearch(sessionId string, state types.FilterState, resultCount int, page int) {
	err := t.send(SearchEvent{
		BaseEvent:       &BaseEvent{Event: 1, SessionId: sessionId, Country: t.country},
		Filters:         state,
		NumberOfResults: resultCount,
		Page:            page,
	})
	if err != nil {
		log.Println("Error sending search event: ", err)
	}
}

func (t *RabbitTracking) TrackFilterChange(sessionId string, key string, value any) {
	err := t.send(FilterChangeEvent{
		BaseEvent: &BaseEvent{Event: 2, SessionId: sessionId, Country: t.country},
		Key:       key,
		Value:     value,
	})
	if err != nil {
		log.Println("Error sending filter change event: ", err)
	}
}
