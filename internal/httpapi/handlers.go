package httpapi

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/sprintdesk/internal/apierr"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/service"
)

const maxSubmissionBytes = 1 << 20

type handlers struct {
	catalog     service.CatalogService
	submissions service.SubmissionService
	proposals   service.ProposalService
	sprints     service.SprintService
	plans       service.CompPlanService
	agreements  service.AgreementService
}

func health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Submissions

func (h *handlers) createSubmission(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSubmissionBytes+1))
	if err != nil {
		RespondError(c, apierr.Invalid("unreadable body"))
		return
	}
	if len(body) > maxSubmissionBytes {
		RespondError(c, apierr.Invalid("submission too large"))
		return
	}
	sub, err := h.submissions.Create(c.Request.Context(), c.Query("source"), body)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"id": sub.ID, "source": sub.Source, "received_at": sub.ReceivedAt})
}

func (h *handlers) submissionProfile(c *gin.Context) {
	profile, err := h.submissions.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, profile)
}

// Proposals

func (h *handlers) generateProposal(c *gin.Context) {
	res, err := h.proposals.Generate(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{
		"sprint_id":    res.SprintID,
		"run_id":       res.RunID,
		"title":        res.Title,
		"line_count":   res.LineCount,
		"used_package": res.UsedPackage,
		"dropped":      res.Dropped,
	})
}

func (h *handlers) getRun(c *gin.Context) {
	run, err := h.proposals.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, toRunView(run))
}

func (h *handlers) listRuns(c *gin.Context) {
	runs, err := h.proposals.ListRuns(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	out := make([]runView, 0, len(runs))
	for _, r := range runs {
		out = append(out, toRunView(r))
	}
	RespondOK(c, gin.H{"runs": out})
}

// Catalog

func (h *handlers) listDeliverables(c *gin.Context) {
	ds, err := h.catalog.ListDeliverables(c.Request.Context(), c.Query("all") != "true")
	if err != nil {
		RespondError(c, err)
		return
	}
	out := make([]deliverableView, 0, len(ds))
	for _, d := range ds {
		out = append(out, toDeliverableView(d))
	}
	RespondOK(c, gin.H{"deliverables": out})
}

func (h *handlers) listPackages(c *gin.Context) {
	ps, err := h.catalog.ListPackages(c.Request.Context(), c.Query("all") != "true")
	if err != nil {
		RespondError(c, err)
		return
	}
	out := make([]packageView, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPackageView(p))
	}
	RespondOK(c, gin.H{"packages": out})
}

// Sprints

func (h *handlers) listSprints(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			RespondError(c, apierr.Invalid("limit must be a positive integer"))
			return
		}
		limit = n
	}
	sprints, err := h.sprints.List(c.Request.Context(), limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	out := make([]sprintView, 0, len(sprints))
	for _, s := range sprints {
		out = append(out, toSprintView(s))
	}
	RespondOK(c, gin.H{"sprints": out})
}

func (h *handlers) getSprint(c *gin.Context) {
	detail, err := h.sprints.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, toDetailView(detail))
}

func toDetailView(d *service.SprintDetail) sprintView {
	v := toSprintView(d.Sprint)
	v.Lines = make([]lineView, 0, len(d.Lines))
	for _, l := range d.Lines {
		v.Lines = append(v.Lines, toLineView(l))
	}
	v.CompPlan = toPlanView(d.Plan)
	return v
}

type addLineRequest struct {
	DeliverableID string   `json:"deliverable_id"`
	PackageID     string   `json:"package_id"`
	Quantity      int      `json:"quantity"`
	Complexity    *float64 `json:"complexity"`
}

func (h *handlers) addLine(c *gin.Context) {
	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Invalid(err.Error()))
		return
	}
	ctx := c.Request.Context()
	sprintID := c.Param("id")

	switch {
	case req.PackageID != "" && req.DeliverableID != "":
		RespondError(c, apierr.Invalid("set deliverable_id or package_id, not both"))
	case req.PackageID != "":
		added, err := h.sprints.ApplyPackage(ctx, sprintID, req.PackageID)
		if err != nil {
			RespondError(c, err)
			return
		}
		RespondCreated(c, gin.H{"added": added})
	case req.DeliverableID != "":
		quantity := req.Quantity
		if quantity == 0 {
			quantity = 1
		}
		complexity := domain.ComplexityNormal
		if req.Complexity != nil {
			cx, err := domain.ParseComplexity(*req.Complexity)
			if err != nil {
				RespondError(c, err)
				return
			}
			complexity = cx
		}
		line, err := h.sprints.AddDeliverable(ctx, sprintID, req.DeliverableID, quantity, complexity)
		if err != nil {
			RespondError(c, err)
			return
		}
		RespondCreated(c, toLineView(*line))
	default:
		RespondError(c, apierr.Invalid("deliverable_id or package_id is required"))
	}
}

type updateLineRequest struct {
	Quantity    *int     `json:"quantity"`
	Complexity  *float64 `json:"complexity"`
	Notes       *string  `json:"notes"`
	CustomScope *string  `json:"custom_scope"`
}

func (h *handlers) updateLine(c *gin.Context) {
	var req updateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Invalid(err.Error()))
		return
	}
	u := service.LineUpdate{Quantity: req.Quantity, Notes: req.Notes, CustomScope: req.CustomScope}
	if req.Complexity != nil {
		cx, err := domain.ParseComplexity(*req.Complexity)
		if err != nil {
			RespondError(c, err)
			return
		}
		u.Complexity = &cx
	}
	line, err := h.sprints.UpdateLine(c.Request.Context(), c.Param("id"), c.Param("lineId"), u)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, toLineView(*line))
}

func (h *handlers) removeLine(c *gin.Context) {
	if err := h.sprints.RemoveLine(c.Request.Context(), c.Param("id"), c.Param("lineId")); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *handlers) setStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Invalid(err.Error()))
		return
	}
	sp, err := h.sprints.SetStatus(c.Request.Context(), c.Param("id"), domain.SprintStatus(req.Status))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, toSprintView(sp))
}

// Comp plans

type compPlanRequest struct {
	IsDeferred     bool               `json:"is_deferred"`
	UpfrontPayment *float64           `json:"upfront_payment" binding:"required"`
	UpfrontTiming  string             `json:"upfront_timing"`
	EquitySplit    float64            `json:"equity_split"`
	Milestones     []domain.Milestone `json:"milestones"`
	MissOutcome    string             `json:"miss_outcome"`
}

func (h *handlers) saveCompPlan(c *gin.Context) {
	var req compPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Invalid(err.Error()))
		return
	}
	plan := &domain.CompPlan{
		IsDeferred:     req.IsDeferred,
		UpfrontPayment: *req.UpfrontPayment,
		UpfrontTiming:  domain.UpfrontTiming(req.UpfrontTiming),
		EquitySplit:    req.EquitySplit,
		Milestones:     req.Milestones,
		MissOutcome:    domain.MissOutcome(req.MissOutcome),
	}
	saved, err := h.plans.Save(c.Request.Context(), c.Param("id"), plan)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, toPlanView(saved))
}

func (h *handlers) latestCompPlan(c *gin.Context) {
	plan, err := h.plans.Latest(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, toPlanView(plan))
}

// Agreements

func (h *handlers) agreement(c *gin.Context) {
	doc, err := h.agreements.Generate(c.Request.Context(), c.Param("id"), c.Query("effective_date"))
	if err != nil {
		RespondError(c, err)
		return
	}
	if c.Query("format") == "json" {
		RespondOK(c, gin.H{"text": doc.Text, "generated_at": doc.GeneratedAt})
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(doc.Text))
}
