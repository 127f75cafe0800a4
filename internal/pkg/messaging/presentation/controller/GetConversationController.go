package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	identityport "github.com/texura-githhubsource/SMS/internal/pkg/identity/port"
	"github.com/texura-githhubsource/SMS/internal/pkg/messaging/application/usecase"
	repoAdapter "github.com/texura-githhubsource/SMS/internal/pkg/messaging/persistence/repository/adapter"
)

// GetConversationController handles fetching the thread between two users.
type GetConversationController struct {
	UC *usecase.GetConversationUseCase
}

func NewGetConversationController(pool *pgxpool.Pool, dir identityport.Directory) *GetConversationController {
	repo := repoAdapter.NewPgMessageRepository(pool)
	return &GetConversationController{UC: usecase.NewGetConversationUseCase(repo, dir)}
}

func (h *GetConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		partnerID := c.Param("partnerId")
		userID := c.Query("user_id")
		if partnerID == "" || userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and partnerId are required"})
			return
		}

		limit := 50
		offset := 0
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		if v := c.Query("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msgs, err := h.UC.Execute(ctx, usecase.GetConversationInput{
			UserID:    userID,
			PartnerID: partnerID,
			Limit:     limit,
			Offset:    offset,
		})
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, gin.H{
				"id":                m.ID,
				"sender_id":         m.Sender,
				"recipient_id":      m.Recipient,
				"content":           m.Content(),
				"conversation_type": m.ConversationType,
				"related_student":   m.RelatedStudent,
				"is_read":           m.IsRead,
				"read_at":           m.ReadAt,
				"created_at":        m.CreatedAt,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"messages": out,
			"limit":    limit,
			"offset":   offset,
			"count":    len(out),
		})
	}
}
