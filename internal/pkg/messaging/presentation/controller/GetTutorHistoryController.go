package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	identityport "github.com/texura-githhubsource/SMS/internal/pkg/identity/port"
	"github.com/texura-githhubsource/SMS/internal/pkg/messaging/application/usecase"
	repoAdapter "github.com/texura-githhubsource/SMS/internal/pkg/messaging/persistence/repository/adapter"
)

// GetTutorHistoryController handles fetching a student's tutoring sessions
// (one controller per endpoint).
type GetTutorHistoryController struct {
	UC *usecase.GetTutorHistoryUseCase
}

func NewGetTutorHistoryController(pool *pgxpool.Pool, dir identityport.Directory) *GetTutorHistoryController {
	repo := repoAdapter.NewPgMessageRepository(pool)
	return &GetTutorHistoryController{UC: usecase.NewGetTutorHistoryUseCase(repo, dir)}
}

func (h *GetTutorHistoryController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
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

		sessions, err := h.UC.Execute(ctx, usecase.GetTutorHistoryInput{UserID: userID, Limit: limit, Offset: offset})
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"sessions": sessions,
			"limit":    limit,
			"offset":   offset,
			"count":    len(sessions),
		})
	}
}

// statusFor maps application errors onto HTTP statuses shared by the
// messaging controllers.
func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrPersistence):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
