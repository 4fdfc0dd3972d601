package httpapi

import (
	"time"

	"github.com/alexanderramin/sprintdesk/internal/domain"
)

type deliverableView struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Scope         string  `json:"scope"`
	FixedHours    float64 `json:"fixed_hours"`
	FixedPrice    float64 `json:"fixed_price"`
	PointEstimate float64 `json:"point_estimate"`
	Active        bool    `json:"active"`
}

func toDeliverableView(d *domain.Deliverable) deliverableView {
	return deliverableView{
		ID:            d.ID,
		Name:          d.Name,
		Category:      d.Category,
		Scope:         d.Scope,
		FixedHours:    d.FixedHours,
		FixedPrice:    d.FixedPrice,
		PointEstimate: d.PointEstimate,
		Active:        d.Active,
	}
}

type packageItemView struct {
	DeliverableID string `json:"deliverable_id"`
	Quantity      int    `json:"quantity"`
}

type packageView struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Tagline     string            `json:"tagline,omitempty"`
	Description string            `json:"description,omitempty"`
	Featured    bool              `json:"featured"`
	Active      bool              `json:"active"`
	Items       []packageItemView `json:"items"`
}

func toPackageView(p *domain.Package) packageView {
	v := packageView{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Tagline:     p.Tagline,
		Description: p.Description,
		Featured:    p.Featured,
		Active:      p.Active,
		Items:       make([]packageItemView, 0, len(p.Items)),
	}
	for _, it := range p.Items {
		v.Items = append(v.Items, packageItemView{DeliverableID: it.DeliverableID, Quantity: it.Quantity})
	}
	return v
}

type lineView struct {
	ID            string  `json:"id"`
	DeliverableID *string `json:"deliverable_id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Scope         string  `json:"scope"`
	Quantity      int     `json:"quantity"`
	Complexity    float64 `json:"complexity"`
	Notes         string  `json:"notes,omitempty"`
	CustomScope   string  `json:"custom_scope,omitempty"`
	BasePrice     float64 `json:"base_price"`
	Points        float64 `json:"points"`
	Hours         float64 `json:"hours"`
	Price         float64 `json:"price"`
}

func toLineView(l domain.SprintLine) lineView {
	return lineView{
		ID:            l.ID,
		DeliverableID: l.DeliverableID,
		Name:          l.NameSnapshot,
		Category:      l.CategorySnapshot,
		Scope:         l.ScopeSnapshot,
		Quantity:      l.Quantity,
		Complexity:    float64(l.Complexity),
		Notes:         l.Notes,
		CustomScope:   l.CustomScope,
		BasePrice:     l.BasePrice,
		Points:        l.CustomPoints,
		Hours:         l.CustomHours,
		Price:         l.CustomPrice,
	}
}

type sprintView struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Status           string     `json:"status"`
	PackageID        *string    `json:"package_id"`
	SubmissionID     *string    `json:"submission_id"`
	ClientName       string     `json:"client_name"`
	ClientEmail      string     `json:"client_email"`
	ProjectName      string     `json:"project_name"`
	Summary          string     `json:"summary,omitempty"`
	TotalPoints      float64    `json:"total_points"`
	TotalHours       float64    `json:"total_hours"`
	TotalPrice       float64    `json:"total_price"`
	DeliverableCount int        `json:"deliverable_count"`
	Lines            []lineView `json:"lines,omitempty"`
	CompPlan         *planView  `json:"comp_plan,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func toSprintView(s *domain.Sprint) sprintView {
	return sprintView{
		ID:               s.ID,
		Title:            s.Title,
		Status:           string(s.Status),
		PackageID:        s.PackageID,
		SubmissionID:     s.SubmissionID,
		ClientName:       s.ClientName,
		ClientEmail:      s.ClientEmail,
		ProjectName:      s.ProjectName,
		Summary:          s.Summary,
		TotalPoints:      s.TotalPoints,
		TotalHours:       s.TotalHours,
		TotalPrice:       s.TotalPrice,
		DeliverableCount: s.DeliverableCount,
		UpdatedAt:        s.UpdatedAt,
	}
}

type planView struct {
	ID             string              `json:"id"`
	IsDeferred     bool                `json:"is_deferred"`
	UpfrontPayment float64             `json:"upfront_payment"`
	UpfrontTiming  string              `json:"upfront_timing"`
	EquitySplit    float64             `json:"equity_split"`
	Milestones     []domain.Milestone  `json:"milestones"`
	MissOutcome    string              `json:"miss_outcome"`
	Outputs        *domain.CompOutputs `json:"outputs"`
	CreatedAt      time.Time           `json:"created_at"`
}

func toPlanView(p *domain.CompPlan) *planView {
	if p == nil {
		return nil
	}
	return &planView{
		ID:             p.ID,
		IsDeferred:     p.IsDeferred,
		UpfrontPayment: p.UpfrontPayment,
		UpfrontTiming:  string(p.UpfrontTiming),
		EquitySplit:    p.EquitySplit,
		Milestones:     p.Milestones,
		MissOutcome:    string(p.MissOutcome),
		Outputs:        p.Outputs,
		CreatedAt:      p.CreatedAt,
	}
}

type runView struct {
	ID               string    `json:"id"`
	SubmissionID     string    `json:"submission_id"`
	Model            string    `json:"model"`
	Status           string    `json:"status"`
	RawResponse      string    `json:"raw_response"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	LatencyMs        int64     `json:"latency_ms"`
	Error            string    `json:"error,omitempty"`
	SprintID         *string   `json:"sprint_id"`
	CreatedAt        time.Time `json:"created_at"`
}

func toRunView(r *domain.ProposalRun) runView {
	return runView{
		ID:               r.ID,
		SubmissionID:     r.SubmissionID,
		Model:            r.Model,
		Status:           string(r.Status),
		RawResponse:      r.RawResponse,
		PromptTokens:     r.PromptTokens,
		CompletionTokens: r.CompletionTokens,
		LatencyMs:        r.LatencyMs,
		Error:            r.Error,
		SprintID:         r.SprintID,
		CreatedAt:        r.CreatedAt,
	}
}
