package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpapi "github.com/RuleWorld/PyBioNetGen-sub000/internal/api/http"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/api/http/middleware"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/api/http/routes"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/service"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/observability"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	Runs           *service.RunService
	Logger         *zap.Logger
	Metrics        *observability.Collector
	DBPing         httpapi.Pinger
	RedisPing      httpapi.Pinger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(dep.Logger, dep.Metrics))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "X-Request-Id", "Authorization")
	corsCfg.ExposeHeaders = []string{"X-Request-Id"}
	corsCfg.MaxAge = 12 * time.Hour
	if len(dep.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = dep.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DBPing, dep.RedisPing)
	healthHandler.RegisterRoutes(r)

	if dep.Metrics != nil {
		r.GET("/metrics", gin.WrapH(dep.Metrics.Handler()))
	}

	routes.RegisterV1(r, routes.V1Deps{Runs: dep.Runs, Logger: dep.Logger})
	return r
}
