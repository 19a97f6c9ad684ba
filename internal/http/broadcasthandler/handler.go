package broadcasthandler

import (
	"errors"
	"net/http"

	"globorelay/internal/metrics"
	"globorelay/internal/ws"

	"github.com/gin-gonic/gin"
)

const broadcastedOK = "message broadcasted successfully"

var (
	ErrMessageRequired = errors.New("message is required")
	ErrMessageNotUTF8  = errors.New("message must be valid UTF-8")
)

// Broadcaster is the part of ws.Dispatcher the handler needs.
type Broadcaster interface {
	Broadcast(source string, msg ws.Message)
}

type Handler struct {
	b Broadcaster
}

func New(b Broadcaster) *Handler { return &Handler{b: b} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/broadcast", h.broadcastQuery)
	r.POST("/broadcast", h.broadcastForm)
}

// @Summary		Broadcast a message
// @Description	Relays the message verbatim to every connected websocket client.
// @Tags			Broadcast
// @Param			message	query		string	true	"Payload to relay"	default(42,200,0)
// @Success		200		{object}	BroadcastResponse
// @Failure		400		{object}	ErrorResponse
// @Failure		429		{object}	ErrorResponse
// @Router			/broadcast [get]
func (h *Handler) broadcastQuery(ginCtx *gin.Context) { h.broadcast(ginCtx) }

// @Summary		Broadcast a message
// @Description	Relays the message verbatim to every connected websocket client. The query parameter wins over the form field.
// @Tags			Broadcast
// @Accept			x-www-form-urlencoded
// @Param			message	query		string	false	"Payload to relay"	default(42,200,0)
// @Param			message	formData	string	false	"Payload to relay, used when the query has none"
// @Success		200		{object}	BroadcastResponse
// @Failure		400		{object}	ErrorResponse
// @Failure		429		{object}	ErrorResponse
// @Router			/broadcast [post]
func (h *Handler) broadcastForm(ginCtx *gin.Context) { h.broadcast(ginCtx) }

func (h *Handler) broadcast(ginCtx *gin.Context) {
	msg, err := parseMessage(ginCtx)
	if err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}

	h.b.Broadcast(metrics.SourceTrigger, msg)
	ginCtx.JSON(http.StatusOK, &BroadcastResponse{Message: broadcastedOK})
}

// parseMessage reads "message" from the query string, or from the form body
// of a POST. A present but empty value is a valid payload.
func parseMessage(ginCtx *gin.Context) (ws.Message, error) {
	if v, ok := ginCtx.GetQuery("message"); ok {
		return validMessage(v)
	}
	if ginCtx.Request.Method == http.MethodPost {
		if v, ok := ginCtx.GetPostForm("message"); ok {
			return validMessage(v)
		}
	}
	return "", ErrMessageRequired
}

func validMessage(v string) (ws.Message, error) {
	msg := ws.Message(v)
	if !msg.Valid() {
		return "", ErrMessageNotUTF8
	}
	return msg, nil
}
