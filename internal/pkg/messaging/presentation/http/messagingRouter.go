package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	qport "github.com/texura-githhubsource/SMS/internal/infrastructure/queue/port"
	"github.com/texura-githhubsource/SMS/internal/infrastructure/realtime"
	identityport "github.com/texura-githhubsource/SMS/internal/pkg/identity/port"
	"github.com/texura-githhubsource/SMS/internal/pkg/messaging/application/usecase"
	"github.com/texura-githhubsource/SMS/internal/pkg/messaging/presentation/controller"
)

// RegisterRoutes registers messaging endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, dir identityport.Directory, gateway *realtime.Gateway, provider usecase.TutorProvider, queue qport.Client, log *zap.Logger) {
	socketCtl := controller.NewRelaySocketController(pool, dir, gateway, provider, queue, log)
	listCtl := controller.NewListConversationsController(pool, dir)
	convCtl := controller.NewGetConversationController(pool, dir)
	markReadCtl := controller.NewMarkConversationReadController(pool, dir)
	historyCtl := controller.NewGetTutorHistoryController(pool, dir)
	clearCtl := controller.NewClearTutorHistoryController(pool, dir)

	// GET /api/v1/relay/ws -> websocket endpoint for realtime messaging
	g.GET("/relay/ws", socketCtl.Handle())

	// GET /api/v1/conversations -> conversation index for a user
	g.GET("/conversations", listCtl.Handle())

	// GET /api/v1/conversations/:partnerId/messages -> thread with one partner
	g.GET("/conversations/:partnerId/messages", convCtl.Handle())

	// POST /api/v1/conversations/:partnerId/read -> bulk read receipt
	g.POST("/conversations/:partnerId/read", markReadCtl.Handle())

	// GET /api/v1/tutor/history -> a student's tutoring sessions
	g.GET("/tutor/history", historyCtl.Handle())

	// DELETE /api/v1/tutor/history -> wipe a student's tutoring sessions
	g.DELETE("/tutor/history", clearCtl.Handle())
}
