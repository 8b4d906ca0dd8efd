package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rccc/rccc-search/internal/locale"
	"github.com/rccc/rccc-search/internal/logger"
	"github.com/rccc/rccc-search/internal/render"
	"github.com/rccc/rccc-search/internal/search"
	"go.uber.org/zap"
)

// WebSocket message types for the live-search protocol.
const (
	MsgTypeQuery     = "query"     // Client replaces the query
	MsgTypePage      = "page"      // Client selects a page
	MsgTypeResults   = "results"   // Server sends the rendered result area
	MsgTypeError     = "error"     // Error message
	MsgTypeConnected = "connected" // Connection confirmed
)

// WSMessage is the envelope for all messages sent over the live-search socket.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// QueryPayload is sent by the client on every edit of the search box.
type QueryPayload struct {
	Query string `json:"query"`
}

// PagePayload is sent by the client to select a page.
type PagePayload struct {
	Page int `json:"page"`
}

// ResultsPayload carries one rendered page of results.
type ResultsPayload struct {
	Seq       uint64 `json:"seq"`
	Query     string `json:"query"`
	Total     int    `json:"total"`
	Page      int    `json:"page"`
	PageCount int    `json:"pageCount"`
	HTML      string `json:"html"`
}

// ErrorPayload carries an error message to the client.
type ErrorPayload struct {
	Message string `json:"message"`
}

// ConnectedPayload confirms a successful connection.
type ConnectedPayload struct {
	ClientID string `json:"client_id"`
}

// LiveHandler serves live search over WebSocket connections.
type LiveHandler struct {
	Hub        *Hub
	Fetcher    search.Fetcher
	Normalizer locale.Normalizer
	Renderer   *render.Renderer
	PageSize   int

	upgrader websocket.Upgrader
}

// NewLiveHandler returns a new LiveHandler. checkOrigin may be nil to accept
// same-host origins only.
func NewLiveHandler(hub *Hub, fetcher search.Fetcher, normalizer locale.Normalizer, renderer *render.Renderer, pageSize int, checkOrigin func(*http.Request) bool) *LiveHandler {
	return &LiveHandler{
		Hub:        hub,
		Fetcher:    fetcher,
		Normalizer: normalizer,
		Renderer:   renderer,
		PageSize:   pageSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
	}
}

// HandleWebSocket handles GET /ws.
func (h *LiveHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.FromGin(c).Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(h.Hub, conn, uuid.New().String())
	if !h.Hub.Add(client) {
		conn.Close()
		return
	}

	session := search.NewSession(h.Fetcher, h.Normalizer, h.PageSize)
	go func() {
		<-client.Done()
		session.Close()
	}()

	h.send(client, MsgTypeConnected, ConnectedPayload{ClientID: client.ID})

	go client.WritePump()
	go client.ReadPump(func(cl *Client, data []byte) {
		h.HandleMessage(cl, session, data)
	})
}

// HandleMessage dispatches one client message. Queries are fetched in their
// own goroutine so a newer query can start while an older one is in flight.
func (h *LiveHandler) HandleMessage(client *Client, session *search.Session, data []byte) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.sendError(client, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgTypeQuery:
		var p QueryPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(client, "Invalid query payload")
			return
		}
		go h.runQuery(client, session, p.Query)

	case MsgTypePage:
		var p PagePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(client, "Invalid page payload")
			return
		}
		// A pending query resets the page when it lands; its results
		// frame supersedes this one.
		if snap, ok := session.SetPage(p.Page); ok {
			h.sendResults(client, snap)
		}

	default:
		h.sendError(client, "Unknown message type: "+msg.Type)
	}
}

func (h *LiveHandler) runQuery(client *Client, session *search.Session, q string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-client.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	snap, err := session.SetQuery(ctx, q)
	switch {
	case errors.Is(err, search.ErrStale):
		return
	case err != nil:
		logger.Get().Error("live search failed",
			zap.String("client_id", client.ID),
			zap.String("query", snap.Normalized),
			zap.Error(err),
		)
		h.sendError(client, "Search is temporarily unavailable")
		return
	}
	h.sendResults(client, snap)
}

func (h *LiveHandler) sendResults(client *Client, snap search.Snapshot) {
	res := h.Renderer.Results(snap.Query, snap.Normalized, snap.Results, snap.Page, snap.PageSize)
	html, err := h.Renderer.RenderResults(res)
	if err != nil {
		logger.Get().Error("failed to render live results", zap.Error(err))
		h.sendError(client, "Failed to render results")
		return
	}
	h.send(client, MsgTypeResults, ResultsPayload{
		Seq:       snap.Seq,
		Query:     snap.Normalized,
		Total:     res.Total,
		Page:      res.Page,
		PageCount: res.PageCount,
		HTML:      html,
	})
}

func (h *LiveHandler) sendError(client *Client, message string) {
	h.send(client, MsgTypeError, ErrorPayload{Message: message})
}

func (h *LiveHandler) send(client *Client, msgType string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Get().Error("failed to marshal payload", zap.String("type", msgType), zap.Error(err))
		return
	}
	data, err := json.Marshal(WSMessage{Type: msgType, Payload: raw})
	if err != nil {
		logger.Get().Error("failed to marshal message", zap.String("type", msgType), zap.Error(err))
		return
	}
	client.Enqueue(data)
}
