package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/sprintdesk/internal/service"
)

// RouterConfig carries the use cases and ambient dependencies of the router.
// A nil service leaves its routes unregistered.
type RouterConfig struct {
	Catalog     service.CatalogService
	Submissions service.SubmissionService
	Proposals   service.ProposalService
	Sprints     service.SprintService
	CompPlans   service.CompPlanService
	Agreements  service.AgreementService

	Logger         *slog.Logger
	Metrics        HTTPRecorder
	MetricsHandler http.Handler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(cfg.Logger), Metrics(cfg.Metrics))

	r.GET("/healthz", health)
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	h := &handlers{
		catalog:     cfg.Catalog,
		submissions: cfg.Submissions,
		proposals:   cfg.Proposals,
		sprints:     cfg.Sprints,
		plans:       cfg.CompPlans,
		agreements:  cfg.Agreements,
	}

	api := r.Group("/api")
	if h.submissions != nil {
		api.POST("/submissions", h.createSubmission)
		api.GET("/submissions/:id/profile", h.submissionProfile)
	}
	if h.proposals != nil {
		api.POST("/submissions/:id/proposal", h.generateProposal)
		api.GET("/submissions/:id/runs", h.listRuns)
		api.GET("/runs/:id", h.getRun)
	}
	if h.catalog != nil {
		api.GET("/catalog/deliverables", h.listDeliverables)
		api.GET("/catalog/packages", h.listPackages)
	}
	if h.sprints != nil {
		api.GET("/sprints", h.listSprints)
		api.GET("/sprints/:id", h.getSprint)
		api.POST("/sprints/:id/lines", h.addLine)
		api.PATCH("/sprints/:id/lines/:lineId", h.updateLine)
		api.DELETE("/sprints/:id/lines/:lineId", h.removeLine)
		api.POST("/sprints/:id/status", h.setStatus)
	}
	if h.plans != nil {
		api.PUT("/sprints/:id/comp-plan", h.saveCompPlan)
		api.GET("/sprints/:id/comp-plan", h.latestCompPlan)
	}
	if h.agreements != nil {
		api.GET("/sprints/:id/agreement", h.agreement)
	}

	return r
}
