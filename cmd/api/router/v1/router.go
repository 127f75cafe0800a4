package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	qport "github.com/texura-githhubsource/SMS/internal/infrastructure/queue/port"
	"github.com/texura-githhubsource/SMS/internal/infrastructure/realtime"
	identityport "github.com/texura-githhubsource/SMS/internal/pkg/identity/port"
	"github.com/texura-githhubsource/SMS/internal/pkg/messaging/application/usecase"
	messagingHTTP "github.com/texura-githhubsource/SMS/internal/pkg/messaging/presentation/http"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1.
func RegisterRoutes(r *gin.Engine, pool *pgxpool.Pool, dir identityport.Directory, gateway *realtime.Gateway, provider usecase.TutorProvider, queue qport.Client, log *zap.Logger) {
	v1 := r.Group("/api/v1")
	messagingHTTP.RegisterRoutes(v1, pool, dir, gateway, provider, queue, log)
}
