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

// ClearTutorHistoryController handles wiping a student's tutoring sessions.
type ClearTutorHistoryController struct {
	UC *usecase.ClearTutorHistoryUseCase
}

func NewClearTutorHistoryController(pool *pgxpool.Pool, dir identityport.Directory) *ClearTutorHistoryController {
	repo := repoAdapter.NewPgMessageRepository(pool)
	return &ClearTutorHistoryController{UC: usecase.NewClearTutorHistoryUseCase(repo, dir)}
}

func (h *ClearTutorHistoryController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		removed, err := h.UC.Execute(ctx, userID)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"removed": removed})
	}
}
