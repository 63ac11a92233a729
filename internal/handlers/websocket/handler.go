package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/KirkDiggler/zonk/internal/common/uuid"
	"github.com/KirkDiggler/zonk/internal/registry"
	"github.com/KirkDiggler/zonk/internal/services/game"
	"github.com/KirkDiggler/zonk/internal/services/messaging"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultRateLimit is inbound messages per second per connection
	DefaultRateLimit = 10

	// DefaultRateBurst is the token bucket size per connection
	DefaultRateBurst = 20
)

// Config holds configuration for the handler
type Config struct {
	GameService game.Service
	Hub         *Hub

	// Messenger phrases errors for players; optional
	Messenger messaging.Service

	// IDGenerator names new connections; defaults to random UUIDs
	IDGenerator uuid.UUID

	RateLimit float64
	RateBurst int

	// AllowedOrigins for CORS and the websocket handshake; "*" allows any
	AllowedOrigins []string

	Logger *zerolog.Logger
}

// Handler serves the websocket endpoint and the small HTTP API
type Handler struct {
	gameService game.Service
	hub         *Hub
	messenger   messaging.Service
	ids         uuid.UUID
	rateLimit   rate.Limit
	rateBurst   int
	origins     []string
	upgrader    gorilla.Upgrader
	log         zerolog.Logger
}

// NewHandler creates a new handler
func NewHandler(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.GameService == nil {
		return nil, errors.New("game service cannot be nil")
	}

	if cfg.Hub == nil {
		return nil, errors.New("hub cannot be nil")
	}

	ids := cfg.IDGenerator
	if ids == nil {
		ids = uuid.New()
	}

	limit := cfg.RateLimit
	if limit <= 0 {
		limit = DefaultRateLimit
	}

	burst := cfg.RateBurst
	if burst <= 0 {
		burst = DefaultRateBurst
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = cfg.Logger.With().Str("component", "websocket").Logger()
	}

	h := &Handler{
		gameService: cfg.GameService,
		hub:         cfg.Hub,
		messenger:   cfg.Messenger,
		ids:         ids,
		rateLimit:   rate.Limit(limit),
		rateBurst:   burst,
		origins:     origins,
		log:         log,
	}

	h.upgrader = gorilla.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h, nil
}

// Router builds the gin engine with every route mounted
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())
	r.Use(cors.New(h.corsConfig()))

	r.GET("/health", h.Health)
	r.GET("/ws", h.ServeWS)

	api := r.Group("/api")
	api.GET("/rooms/:id", h.GetRoom)
	api.GET("/rooms/:id/results", h.ListRoomResults)
	api.GET("/results", h.ListResults)
	api.GET("/results/:id", h.GetResult)
	api.GET("/players/:name", h.GetPlayerStats)
	api.GET("/leaderboard", h.GetLeaderboard)

	return r
}

// Health reports liveness with room and connection counts
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"rooms":       h.gameService.RoomCount(),
		"connections": h.hub.ConnCount(),
	})
}

// GetRoom returns a room snapshot
func (h *Handler) GetRoom(c *gin.Context) {
	g, err := h.gameService.GetRoom(c.Request.Context(), &game.GetRoomInput{
		RoomID: c.Param("id"),
	})
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, g)
}

// GetLeaderboard returns lifetime standings
func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit, ok := h.queryLimit(c)
	if !ok {
		return
	}

	board, err := h.gameService.GetLeaderboard(c.Request.Context(), &game.GetLeaderboardInput{
		Limit: limit,
	})
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}

// ListResults returns recently finished games across every room
func (h *Handler) ListResults(c *gin.Context) {
	h.listResults(c, "")
}

// ListRoomResults returns the games finished in one room
func (h *Handler) ListRoomResults(c *gin.Context) {
	h.listResults(c, c.Param("id"))
}

func (h *Handler) listResults(c *gin.Context, roomID string) {
	limit, ok := h.queryLimit(c)
	if !ok {
		return
	}

	out, err := h.gameService.ListResults(c.Request.Context(), &game.ListResultsInput{
		RoomID: roomID,
		Limit:  limit,
	})
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// GetResult returns one finished game
func (h *Handler) GetResult(c *gin.Context) {
	result, err := h.gameService.GetResult(c.Request.Context(), &game.GetResultInput{
		ResultID: c.Param("id"),
	})
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPlayerStats returns a player's lifetime stats
func (h *Handler) GetPlayerStats(c *gin.Context) {
	stats, err := h.gameService.GetPlayerStats(c.Request.Context(), &game.GetPlayerStatsInput{
		PlayerName: c.Param("name"),
	})
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// queryLimit reads the optional limit parameter, answering 400 itself when
// it is malformed
func (h *Handler) queryLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		h.errorResponse(c, game.ErrInvalidInput)
		return 0, false
	}
	return n, true
}

// ServeWS upgrades the request and runs the connection until it closes
func (h *Handler) ServeWS(c *gin.Context) {
	socket, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written the response
		h.log.Debug().Err(err).Str("remote_addr", c.ClientIP()).Msg("websocket upgrade failed")
		return
	}

	conn := newConn(h.ids.NewUUID(), socket, h.hub.sendBuffer, rate.NewLimiter(h.rateLimit, h.rateBurst))
	h.hub.Register(conn)
	h.log.Info().Str("conn_id", conn.id).Str("remote_addr", c.ClientIP()).Msg("connection opened")

	go conn.writePump()
	h.readPump(conn)
}

// readPump handles inbound frames until the peer goes away, then unseats
// the connection everywhere
func (h *Handler) readPump(conn *Conn) {
	ctx := context.Background()
	socket := conn.socket

	defer func() {
		h.hub.Unregister(conn.id)
		if err := h.gameService.Disconnect(ctx, &game.DisconnectInput{ConnID: conn.id}); err != nil {
			h.log.Warn().Err(err).Str("conn_id", conn.id).Msg("failed to disconnect")
		}
		h.log.Info().Str("conn_id", conn.id).Msg("connection closed")
	}()

	socket.SetReadLimit(maxMessageSize)
	_ = socket.SetReadDeadline(time.Now().Add(pongWait))
	socket.SetPongHandler(func(string) error {
		return socket.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := socket.ReadMessage()
		if err != nil {
			if gorilla.IsUnexpectedCloseError(err, gorilla.CloseGoingAway, gorilla.CloseNormalClosure) {
				h.log.Debug().Err(err).Str("conn_id", conn.id).Msg("unexpected close")
			}
			return
		}

		if !conn.limiter.Allow() {
			h.sendError(ctx, conn.id, "", game.ErrRateLimited)
			continue
		}

		var in Inbound
		if err := json.Unmarshal(data, &in); err != nil {
			h.sendError(ctx, conn.id, "", game.ErrInvalidInput)
			continue
		}

		if err := h.dispatch(ctx, conn.id, &in); err != nil {
			h.sendError(ctx, conn.id, in.RoomID, err)
		}
	}
}

func (h *Handler) errorResponse(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, registry.ErrRoomNotFound),
		errors.Is(err, game.ErrResultNotFound),
		errors.Is(err, game.ErrPlayerNotFound):
		status = http.StatusNotFound
	case game.ErrorCode(err) == game.CodeUnavailable:
		status = http.StatusServiceUnavailable
	case game.IsClientError(err):
		status = http.StatusBadRequest
	}

	code := game.ErrorCode(err)
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}

	c.AbortWithStatusJSON(status, gin.H{
		"code":    code,
		"message": h.errorText(c.Request.Context(), code, err),
	})
}

func (h *Handler) allowAll() bool {
	return slices.Contains(h.origins, "*")
}

// checkOrigin admits non-browser clients, which send no Origin header
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowAll() {
		return true
	}
	return slices.Contains(h.origins, origin)
}

func (h *Handler) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
		MaxAge: 12 * time.Hour,
	}

	if h.allowAll() {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = h.origins
	}

	return cfg
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		h.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
