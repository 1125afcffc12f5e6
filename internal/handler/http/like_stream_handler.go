package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/echomind/mindink/internal/domain/entity"
	"github.com/echomind/mindink/internal/handler/http/dto"
	"github.com/echomind/mindink/internal/infrastructure/metrics"
	usecasecontract "github.com/echomind/mindink/internal/usecase/contract"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
	// buffered frames per connection before the subscription callback blocks
	streamFrameBuffer = 16
)

// LikeStreamHandler pushes the like counter of a post over a websocket.
type LikeStreamHandler struct {
	likeUsecase usecasecontract.ILikeUseCase
	logger      usecasecontract.IAppLogger
	upgrader    websocket.Upgrader
}

// NewLikeStreamHandler accepts upgrades from allowedOrigins. "*" allows any origin.
func NewLikeStreamHandler(likeUsecase usecasecontract.ILikeUseCase, logger usecasecontract.IAppLogger, allowedOrigins []string) *LikeStreamHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	_, anyOrigin := origins["*"]

	return &LikeStreamHandler{
		likeUsecase: likeUsecase,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || anyOrigin {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// StreamLikeCount upgrades the request and writes a dto.LikeCountFrame for the current counter
// and for every committed change after it. The subscription ends when the client goes away.
func (h *LikeStreamHandler) StreamLikeCount(c *gin.Context) {
	postID := c.Param("postID")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader already answered the request
		h.logger.Debugf("like stream upgrade for post %s failed: %v", postID, err)
		return
	}
	defer conn.Close()

	metrics.ActiveConnections.Inc()
	defer metrics.ActiveConnections.Dec()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	frames := make(chan int64, streamFrameBuffer)
	streamErr := make(chan error, 1)

	unsubscribe, err := h.likeUsecase.SubscribeToLikeCount(ctx, postID,
		func(count int64) {
			select {
			case frames <- count:
			case <-ctx.Done():
			}
		},
		func(err error) {
			select {
			case streamErr <- err:
			default:
			}
		},
	)
	if err != nil {
		h.closeWith(conn, websocket.ClosePolicyViolation, err.Error())
		return
	}
	defer func() {
		cancel()
		unsubscribe()
	}()

	go h.readPump(conn, cancel)

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case count := <-frames:
			if err := h.writeFrame(conn, postID, count); err != nil {
				return
			}
		case err := <-streamErr:
			// values delivered before the failure still go out, in order
			if err := h.flushFrames(conn, postID, frames); err != nil {
				return
			}
			if errors.Is(err, entity.ErrPostNotFound) {
				h.closeWith(conn, websocket.CloseNormalClosure, entity.ErrPostNotFound.Error())
				return
			}
			h.logger.Warnf("like stream for post %s failed: %v", postID, err)
			h.closeWith(conn, websocket.CloseInternalServerErr, "like count stream failed")
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}

func (h *LikeStreamHandler) writeFrame(conn *websocket.Conn, postID string, count int64) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	if err := conn.WriteJSON(dto.LikeCountFrame{PostID: postID, LikeCount: count}); err != nil {
		h.logger.Debugf("like stream write for post %s failed: %v", postID, err)
		return err
	}
	return nil
}

func (h *LikeStreamHandler) flushFrames(conn *websocket.Conn, postID string, frames <-chan int64) error {
	for {
		select {
		case count := <-frames:
			if err := h.writeFrame(conn, postID, count); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// readPump consumes client messages so control frames are processed, and cancels the
// stream once the client disconnects.
func (h *LikeStreamHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *LikeStreamHandler) closeWith(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(streamWriteWait))
}
