package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsu-events/drinktally-api/internal/dto"
	"github.com/jsu-events/drinktally-api/internal/observability"
)

const feedSendBufferSize = 32

// Collections a feed client may subscribe to.
var feedCollections = map[string]struct{}{
	"participants":       {},
	"parties":            {},
	"participant_drinks": {},
}

// SubscriptionOptions wraps metadata extracted during the HTTP upgrade.
type SubscriptionOptions struct {
	UserID      string
	Collections []string
}

// ChangePublisher is the write side of the feed; mutating services call it
// after a commit.
type ChangePublisher interface {
	Publish(ctx context.Context, collection, event, rowID string)
}

// ChangefeedService pushes collection-change notifications to websocket
// subscribers, fanning out across nodes through redis and NATS.
type ChangefeedService interface {
	ChangePublisher
	ServeConnection(conn *websocket.Conn, opts SubscriptionOptions)
	Start(ctx context.Context)
}

type changefeedService struct {
	redis       *redis.Client
	redisStream string
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger
	tracer      trace.Tracer
	hub         *feedHub
	nodeID      string
}

// feedHub tracks active websocket subscribers per collection.
type feedHub struct {
	mu      sync.RWMutex
	clients map[*feedClient]map[string]struct{}
	log     zerolog.Logger
}

type feedClient struct {
	conn   *websocket.Conn
	userID string
	send   chan dto.ChangeEvent
	closed chan struct{}
	once   sync.Once
}

type feedEnvelope struct {
	Source string          `json:"source"`
	Event  dto.ChangeEvent `json:"event"`
	SentAt time.Time       `json:"sent_at"`
}

// NewChangefeedService creates a change feed instance. The redis client and
// NATS connection may be nil; fan-out degrades to local-only delivery.
func NewChangefeedService(redisClient *redis.Client, channelBase string, natsConn *nats.Conn, logger zerolog.Logger) ChangefeedService {
	hub := &feedHub{
		clients: make(map[*feedClient]map[string]struct{}),
		log:     logger.With().Str("component", "feed_hub").Logger(),
	}

	streamChannel := ""
	natsSubject := ""
	if channelBase != "" {
		streamChannel = channelBase + ":changes"
		natsSubject = strings.ReplaceAll(channelBase, ":", ".") + ".changes"
	}

	return &changefeedService{
		redis:       redisClient,
		redisStream: streamChannel,
		nats:        natsConn,
		natsSubject: natsSubject,
		logger:      logger.With().Str("component", "changefeed_service").Logger(),
		tracer:      otel.Tracer("github.com/jsu-events/drinktally-api/internal/service/changefeed"),
		hub:         hub,
		nodeID:      uuid.NewString(),
	}
}

func (s *changefeedService) Start(ctx context.Context) {
	if s.redis != nil && s.redisStream != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

func (s *changefeedService) ServeConnection(conn *websocket.Conn, opts SubscriptionOptions) {
	collections := normalizeCollections(opts.Collections)
	if len(collections) == 0 {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "no known collections requested"))
		_ = conn.Close()
		return
	}

	client := &feedClient{
		conn:   conn,
		userID: opts.UserID,
		send:   make(chan dto.ChangeEvent, feedSendBufferSize),
		closed: make(chan struct{}),
	}

	s.hub.register(client, collections)
	observability.ChangefeedConnections().Inc()
	defer func() {
		s.hub.unregister(client)
		observability.ChangefeedConnections().Dec()
	}()

	go client.writer()
	client.reader()
}

// Publish fans a committed change out to local subscribers and peer nodes.
// Delivery is best-effort; a failed publish only logs.
func (s *changefeedService) Publish(ctx context.Context, collection, event, rowID string) {
	changed := dto.ChangeEvent{
		Collection: collection,
		Event:      event,
		RowID:      rowID,
		At:         time.Now().UTC(),
	}

	spanCtx, span := s.tracer.Start(ctx, "changefeed.publish", trace.WithAttributes(
		attribute.String("feed.collection", collection),
		attribute.String("feed.event", event),
	))
	defer span.End()

	observability.ChangefeedEvents().WithLabelValues(collection, event).Inc()
	s.hub.broadcast(changed)

	envelope := feedEnvelope{Source: s.nodeID, Event: changed, SentAt: time.Now().UTC()}
	payload, err := json.Marshal(envelope)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal change event")
		return
	}

	if s.redis != nil && s.redisStream != "" {
		if err := s.redis.Publish(spanCtx, s.redisStream, payload).Err(); err != nil {
			span.RecordError(err)
			s.logger.Warn().Err(err).Msg("failed to publish change event to redis")
		}
	}

	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			span.RecordError(err)
			s.logger.Warn().Err(err).Msg("failed to publish change event to nats")
		}
	}
}

func (s *changefeedService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisStream)
	defer func() {
		_ = pubsub.Close()
	}()
	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error().Err(err).Msg("changefeed redis subscription closed")
			return
		}
		s.handleEnvelope([]byte(msg.Payload))
	}
}

func (s *changefeedService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.QueueSubscribe(s.natsSubject, "tally-changes", func(msg *nats.Msg) {
		s.handleEnvelope(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats changes subject")
		return
	}
	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain changefeed nats subscription")
		}
	}()
}

func (s *changefeedService) handleEnvelope(data []byte) {
	var envelope feedEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		s.logger.Warn().Err(err).Msg("invalid change event envelope")
		return
	}
	if envelope.Source == s.nodeID {
		return
	}
	s.hub.broadcast(envelope.Event)
}

func normalizeCollections(requested []string) map[string]struct{} {
	if len(requested) == 0 {
		all := make(map[string]struct{}, len(feedCollections))
		for name := range feedCollections {
			all[name] = struct{}{}
		}
		return all
	}

	normalized := make(map[string]struct{}, len(requested))
	for _, name := range requested {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, ok := feedCollections[name]; ok {
			normalized[name] = struct{}{}
		}
	}
	return normalized
}

func (h *feedHub) register(client *feedClient, collections map[string]struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = collections
	h.log.Debug().Str("user_id", client.userID).Int("subscribers", len(h.clients)).Msg("feed subscriber registered")
}

func (h *feedHub) unregister(client *feedClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
	client.close()
	h.log.Debug().Str("user_id", client.userID).Int("subscribers", len(h.clients)).Msg("feed subscriber unregistered")
}

func (h *feedHub) broadcast(event dto.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client, collections := range h.clients {
		if _, ok := collections[event.Collection]; !ok {
			continue
		}
		select {
		case client.send <- event:
		default:
			h.log.Debug().Str("collection", event.Collection).Msg("dropping change event for slow subscriber")
		}
	}
}

func (c *feedClient) close() {
	c.once.Do(func() {
		close(c.closed)
		_ = c.conn.Close()
	})
}

func (c *feedClient) writer() {
	for {
		select {
		case event, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				c.close()
				return
			}
		case <-c.closed:
			return
		}
	}
}

// reader drains the socket so close frames are processed; the feed is
// one-way and ignores inbound payloads.
func (c *feedClient) reader() {
	defer c.close()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
