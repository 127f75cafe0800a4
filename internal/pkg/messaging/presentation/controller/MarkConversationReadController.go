package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"

	identityport "github.com/texura-githhubsource/SMS/internal/pkg/identity/port"
	"github.com/texura-githhubsource/SMS/internal/pkg/messaging/application/usecase"
	repoAdapter "github.com/texura-githhubsource/SMS/internal/pkg/messaging/persistence/repository/adapter"
)

// MarkConversationReadController handles the bulk read-receipt endpoint.
type MarkConversationReadController struct {
	UC       *usecase.MarkConversationReadUseCase
	validate *validator.Validate
}

func NewMarkConversationReadController(pool *pgxpool.Pool, dir identityport.Directory) *MarkConversationReadController {
	repo := repoAdapter.NewPgMessageRepository(pool)
	return &MarkConversationReadController{
		UC:       usecase.NewMarkConversationReadUseCase(repo, dir),
		validate: validator.New(),
	}
}

type markReadRequest struct {
	UserID string `json:"userId" validate:"required"`
}

func (h *MarkConversationReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		partnerID := c.Param("partnerId")
		if partnerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "partnerId is required"})
			return
		}

		var req markReadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := h.validate.Struct(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		marked, err := h.UC.Execute(ctx, usecase.MarkConversationReadInput{
			ReaderID:  req.UserID,
			PartnerID: partnerID,
		})
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"marked": marked})
	}
}
