package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	identityport "github.com/texura-githhubsource/SMS/internal/pkg/identity/port"
	"github.com/texura-githhubsource/SMS/internal/pkg/messaging/application/usecase"
	repoAdapter "github.com/texura-githhubsource/SMS/internal/pkg/messaging/persistence/repository/adapter"
)

// ListConversationsController handles the conversation index for a user:
// one row per partner with the latest message and unread count.
type ListConversationsController struct {
	UC *usecase.ListConversationsUseCase
}

func NewListConversationsController(pool *pgxpool.Pool, dir identityport.Directory) *ListConversationsController {
	repo := repoAdapter.NewPgMessageRepository(pool)
	return &ListConversationsController{UC: usecase.NewListConversationsUseCase(repo, dir)}
}

func (h *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		summaries, err := h.UC.Execute(ctx, userID)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(summaries))
		for _, s := range summaries {
			out = append(out, gin.H{
				"partner_id":        s.PartnerID,
				"conversation_type": s.ConversationType,
				"last_content":      s.LastContent,
				"last_at":           s.LastAt,
				"unread_count":      s.UnreadCount,
			})
		}

		c.JSON(http.StatusOK, gin.H{"conversations": out, "count": len(out)})
	}
}
