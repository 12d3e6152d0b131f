package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	atomhttp "github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/http"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/service"
)

type V1Deps struct {
	Runs   *service.RunService
	Logger *zap.Logger
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")

	atomizer := api.Group("/atomizer")
	atomhttp.New(dep.Runs, dep.Logger).Register(atomizer)
}
