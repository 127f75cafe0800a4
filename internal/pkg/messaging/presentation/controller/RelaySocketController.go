package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	qport "github.com/texura-githhubsource/SMS/internal/infrastructure/queue/port"
	"github.com/texura-githhubsource/SMS/internal/infrastructure/realtime"
	identityport "github.com/texura-githhubsource/SMS/internal/pkg/identity/port"
	"github.com/texura-githhubsource/SMS/internal/pkg/messaging/application/task"
	"github.com/texura-githhubsource/SMS/internal/pkg/messaging/application/usecase"
	repoAdapter "github.com/texura-githhubsource/SMS/internal/pkg/messaging/persistence/repository/adapter"
)

// RelaySocketController handles the websocket endpoint for realtime messaging
// and tutoring traffic. One handler runs to completion per frame; a handler
// error never tears down the connection.
type RelaySocketController struct {
	gateway       *realtime.Gateway
	sendMessageUC *usecase.SendDirectMessageUseCase
	askTutorUC    *usecase.AskTutorUseCase
	queue         qport.Client // nil when the worker queue is not configured
	validate      *validator.Validate
	log           *zap.Logger

	inflightTimeout time.Duration
	tutorTimeout    time.Duration
}

func NewRelaySocketController(pool *pgxpool.Pool, dir identityport.Directory, gateway *realtime.Gateway, provider usecase.TutorProvider, queue qport.Client, log *zap.Logger) *RelaySocketController {
	repo := repoAdapter.NewPgMessageRepository(pool)
	return newRelaySocketController(
		usecase.NewSendDirectMessageUseCase(repo, dir),
		usecase.NewAskTutorUseCase(repo, dir, provider),
		gateway, queue, log,
	)
}

// newRelaySocketController wires pre-built use cases; callers that do not go
// through Postgres construct the controller here.
func newRelaySocketController(send *usecase.SendDirectMessageUseCase, ask *usecase.AskTutorUseCase, gateway *realtime.Gateway, queue qport.Client, log *zap.Logger) *RelaySocketController {
	if log == nil {
		log = zap.NewNop()
	}
	return &RelaySocketController{
		gateway:         gateway,
		sendMessageUC:   send,
		askTutorUC:      ask,
		queue:           queue,
		validate:        validator.New(),
		log:             log,
		inflightTimeout: 5 * time.Second,
		// The tutor path may wait out the full provider chain (5 attempts x 15s
		// plus inter-attempt delays), so its budget is much wider.
		tutorTimeout: 2 * time.Minute,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when auth is added.
		return true
	},
}

// frame is the envelope for every event in both directions.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type joinPayload struct {
	UserID string `json:"userId"`
}

type directMessagePayload struct {
	From           string `json:"from"`
	To             string `json:"to"`
	Content        string `json:"content"`
	SchoolID       string `json:"schoolId"`
	RelatedStudent string `json:"relatedStudent,omitempty"`
}

type tutorPayload struct {
	UserID   string `json:"userId"`
	Question string `json:"question"`
}

type typingPayload struct {
	From string `json:"from"`
	To   string `json:"to" validate:"required"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades HTTP connections to websocket and processes frames until the
// client disconnects. The channel binding comes from the user_id query or from
// an explicit join event; the supplied id is a trust boundary, so handlers
// re-derive identity from the payload for every privileged action.
func (ctl *RelaySocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just return.
			return
		}

		var conn *realtime.Conn
		if userID := c.Query("user_id"); userID != "" {
			conn = realtime.NewConn(userID, ws)
			ctl.gateway.Attach(conn)
		}
		defer func() {
			if conn != nil {
				ctl.gateway.Detach(conn)
				conn.Close(websocket.CloseNormalClosure, "session closed")
			} else {
				_ = ws.Close()
			}
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		if conn != nil {
			ctl.reply(conn, "connected", gin.H{"userId": conn.UserID()})
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}

			var f frame
			if err := json.Unmarshal(data, &f); err != nil {
				continue
			}

			if f.Event == "join" {
				var p joinPayload
				if json.Unmarshal(f.Data, &p) != nil || p.UserID == "" {
					continue
				}
				if conn == nil {
					conn = realtime.NewConn(p.UserID, ws)
					ctl.gateway.Attach(conn)
				}
				ctl.reply(conn, "connected", gin.H{"userId": conn.UserID()})
				continue
			}
			if conn == nil {
				// Everything else requires a bound channel.
				continue
			}

			ctl.dispatch(c.Request.Context(), conn, f)
		}
	}
}

// dispatch routes one inbound frame. Panics are contained here so a broken
// handler degrades to an error event instead of dropping the socket.
func (ctl *RelaySocketController) dispatch(ctx context.Context, conn *realtime.Conn, f frame) {
	defer func() {
		if r := recover(); r != nil {
			ctl.log.Error("relay handler panic", zap.String("event", f.Event), zap.Any("panic", r))
			switch f.Event {
			case "ask-tutor":
				ctl.reply(conn, "tutor-thinking", gin.H{"thinking": false})
				ctl.tutorError(conn, tutorBusyMessage)
			default:
				ctl.reply(conn, "send-failed", gin.H{"error": "Failed to send message"})
			}
		}
	}()

	switch f.Event {
	case "send-direct-message":
		ctl.handleDirectMessage(ctx, conn, f.Data)
	case "ask-tutor":
		ctl.handleAskTutor(ctx, conn, f.Data)
	case "typing-start":
		ctl.handleTyping(conn, f.Data, true)
	case "typing-stop":
		ctl.handleTyping(conn, f.Data, false)
	default:
		ctl.reply(conn, "error", gin.H{"error": "unknown event"})
	}
}

func (ctl *RelaySocketController) handleDirectMessage(ctx context.Context, conn *realtime.Conn, data json.RawMessage) {
	var p directMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.reply(conn, "send-failed", gin.H{"error": "Missing required fields"})
		return
	}

	ctx, cancel := context.WithTimeout(ctx, ctl.inflightTimeout)
	defer cancel()

	result, err := ctl.sendMessageUC.Execute(ctx, usecase.SendDirectMessageInput{
		From:           p.From,
		To:             p.To,
		Content:        p.Content,
		SchoolID:       p.SchoolID,
		RelatedStudent: p.RelatedStudent,
	})
	if err != nil {
		ctl.reply(conn, "send-failed", gin.H{"error": sendErrorMessage(err)})
		return
	}

	msg := result.Message
	delivered := ctl.emit(msg.Recipient, "message-delivered", gin.H{
		"id": msg.ID,
		"from": gin.H{
			"id":    result.Sender.ID,
			"name":  result.Sender.Name,
			"role":  result.Sender.Role,
			"email": result.Sender.Email,
		},
		"content":          msg.Body,
		"conversationType": msg.ConversationType,
		"relatedStudent":   msg.RelatedStudent,
		"timestamp":        msg.CreatedAt,
	})
	if !delivered {
		ctl.enqueueOfflineNotice(msg.ID, msg.Recipient, msg.School, msg.CreatedAt)
	}

	ctl.reply(conn, "message-sent", gin.H{
		"id":        msg.ID,
		"success":   true,
		"timestamp": msg.CreatedAt,
	})
}

func (ctl *RelaySocketController) handleAskTutor(ctx context.Context, conn *realtime.Conn, data json.RawMessage) {
	var p tutorPayload
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.tutorError(conn, questionRequiredMessage)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, ctl.tutorTimeout)
	defer cancel()

	result, err := ctl.askTutorUC.Execute(ctx, usecase.AskTutorInput{
		UserID:   p.UserID,
		Question: p.Question,
		OnThinking: func(thinking bool) {
			ctl.reply(conn, "tutor-thinking", gin.H{"thinking": thinking})
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrQuestionRequired):
			ctl.tutorError(conn, questionRequiredMessage)
		case errors.Is(err, usecase.ErrQuestionFormat):
			ctl.tutorError(conn, "Please rephrase your question and try again")
		case errors.Is(err, usecase.ErrNotStudent):
			ctl.tutorError(conn, "AI learning is only available for students")
		default:
			ctl.reply(conn, "tutor-thinking", gin.H{"thinking": false})
			ctl.tutorError(conn, tutorBusyMessage)
		}
		return
	}

	ctl.reply(conn, "conversation-appended", gin.H{
		"id":        result.Message.ID,
		"question":  result.Question,
		"answer":    result.Answer,
		"timestamp": result.Timestamp,
		"type":      "ai-query",
	})
	ctl.reply(conn, "tutor-response", gin.H{
		"success":    true,
		"question":   result.Question,
		"answer":     result.Answer,
		"gradeLevel": result.GradeLevel,
		"timestamp":  result.Timestamp,
	})
}

func (ctl *RelaySocketController) handleTyping(conn *realtime.Conn, data json.RawMessage, typing bool) {
	var p typingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	if err := ctl.validate.Struct(p); err != nil {
		return
	}
	// Raw relay: no persistence, no identity checks, dropped when offline.
	ctl.emit(p.To, "peer-typing", gin.H{"from": p.From, "typing": typing})
}

func (ctl *RelaySocketController) enqueueOfflineNotice(messageID, recipientID, schoolID string, sentAt time.Time) {
	if ctl.queue == nil {
		return
	}
	payload, err := json.Marshal(task.NotifyOfflineTaskPayload{
		MessageID:   messageID,
		RecipientID: recipientID,
		SchoolID:    schoolID,
		SentAt:      sentAt,
	})
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err = ctl.queue.Enqueue(ctx, qport.Task{Type: task.NotifyOfflineTaskType, Payload: payload},
		qport.EnqueueOption{Queue: "messaging", MaxRetry: 10})
	if err != nil {
		ctl.log.Warn("offline notice enqueue failed", zap.String("message_id", messageID), zap.Error(err))
	}
}

const (
	questionRequiredMessage = "Please ask a question to learn"
	tutorBusyMessage        = "Our AI tutor is busy. Please try again in a moment."
)

func sendErrorMessage(err error) string {
	switch {
	case errors.Is(err, usecase.ErrContentRequired):
		return "Message content is required"
	case errors.Is(err, usecase.ErrMissingFields):
		return "Missing required fields"
	case errors.Is(err, usecase.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, usecase.ErrSchoolMismatch):
		return "School mismatch"
	default:
		return "Failed to send message"
	}
}

func (ctl *RelaySocketController) tutorError(conn *realtime.Conn, message string) {
	ctl.reply(conn, "tutor-error", gin.H{"error": message, "timestamp": time.Now().UTC()})
}

// reply acks the caller on its own session.
func (ctl *RelaySocketController) reply(conn *realtime.Conn, event string, data any) {
	payload, err := marshalFrame(event, data)
	if err != nil {
		return
	}
	_ = conn.Send(payload)
}

// emit pushes an event to the named user's channel; false means no live
// session was attached and the event was dropped.
func (ctl *RelaySocketController) emit(userID, event string, data any) bool {
	payload, err := marshalFrame(event, data)
	if err != nil {
		return false
	}
	return ctl.gateway.Emit(userID, payload)
}

func marshalFrame(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(frame{Event: event, Data: raw})
}
