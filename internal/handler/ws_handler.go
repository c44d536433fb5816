package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/fitbook-backend/internal/model"
	ws "github.com/stemsi/fitbook-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// AvailabilityFeed opens subscriptions to slot changes.
type AvailabilityFeed interface {
	Subscribe(ctx context.Context) *redis.PubSub
}

// WSHandler streams class availability to WebSocket clients.
type WSHandler struct {
	feed     AvailabilityFeed
	classes  ClassLister
	log      zerolog.Logger
	upgrader websocket.Upgrader

	closing   chan struct{}
	closeOnce sync.Once
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(feed AvailabilityFeed, classes ClassLister, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		feed:     feed,
		classes:  classes,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
		closing:  make(chan struct{}),
	}
}

// Shutdown tells every open stream to close. Hijacked connections are not
// tracked by http.Server, so register this with RegisterOnShutdown.
func (h *WSHandler) Shutdown() {
	h.closeOnce.Do(func() { close(h.closing) })
}

// AvailabilityStream godoc
// WS /ws/classes/availability
// Sends a snapshot of free slots, then one event per committed booking.
func (h *WSHandler) AvailabilityStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Subscribe before the snapshot so no change falls between the two.
	sub := h.feed.Subscribe(ctx)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		h.log.Error().Err(err).Msg("Availability subscribe failed")
		ws.WriteError(conn, "availability feed unavailable")
		return
	}

	if err := h.writeSnapshot(ctx, conn); err != nil {
		h.log.Error().Err(err).Msg("Availability snapshot failed")
		ws.WriteError(conn, "availability snapshot unavailable")
		return
	}

	h.log.Debug().Str("remote", c.ClientIP()).Msg("Availability client connected")

	replies := make(chan interface{}, 8)
	go h.readLoop(conn, replies, cancel)

	ping := time.NewTicker(ws.PingPeriod)
	defer ping.Stop()
	events := sub.Channel()
	latest := make(map[int64]model.ClassAvailability)

	for {
		select {
		case <-ctx.Done():
			h.log.Debug().Msg("Availability client disconnected")
			return
		case <-h.closing:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second))
			return
		case reply := <-replies:
			if err := ws.WriteTyped(conn, reply); err != nil {
				return
			}
		case msg, ok := <-events:
			if !ok {
				return
			}
			var a model.ClassAvailability
			if err := json.Unmarshal([]byte(msg.Payload), &a); err != nil {
				h.log.Warn().Err(err).Msg("Dropping malformed availability event")
				continue
			}
			// Concurrent commits may publish out of order.
			if !a.Supersedes(latest[a.ClassID]) {
				continue
			}
			latest[a.ClassID] = a
			if err := ws.WriteTyped(conn, ws.AvailabilityResponse{
				Event:          ws.EventAvailability,
				ClassID:        a.ClassID,
				AvailableSlots: a.AvailableSlots,
				Seq:            a.Seq,
			}); err != nil {
				return
			}
		case <-ping.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) writeSnapshot(ctx context.Context, conn *websocket.Conn) error {
	classes, _, err := h.classes.ListAvailable(ctx, "")
	if err != nil {
		return err
	}
	snapshot := ws.SnapshotResponse{
		Event:   ws.EventSnapshot,
		Classes: make([]model.ClassAvailability, 0, len(classes)),
	}
	for _, cl := range classes {
		snapshot.Classes = append(snapshot.Classes, model.ClassAvailability{
			ClassID:        cl.ID,
			AvailableSlots: cl.AvailableSlots,
		})
	}
	return ws.WriteTyped(conn, snapshot)
}

// readLoop owns all reads. Replies go back through the writer loop, which
// owns all writes. It cancels the stream when the client goes away.
func (h *WSHandler) readLoop(conn *websocket.Conn, replies chan<- interface{}, cancel context.CancelFunc) {
	defer cancel()
	ws.KeepAlive(conn)

	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		var reply interface{}
		switch msg.Action {
		case ws.ActionPing:
			reply = ws.PongResponse{Event: ws.EventPong}
		default:
			reply = ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)}
		}

		select {
		case replies <- reply:
		default:
			h.log.Warn().Msg("Dropping reply to slow client")
		}
	}
}
