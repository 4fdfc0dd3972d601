package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/sprintdesk/internal/agreement"
	"github.com/alexanderramin/sprintdesk/internal/cli"
	"github.com/alexanderramin/sprintdesk/internal/config"
	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/httpapi"
	"github.com/alexanderramin/sprintdesk/internal/llm"
	"github.com/alexanderramin/sprintdesk/internal/logging"
	"github.com/alexanderramin/sprintdesk/internal/metrics"
	"github.com/alexanderramin/sprintdesk/internal/notify"
	"github.com/alexanderramin/sprintdesk/internal/proposal"
	"github.com/alexanderramin/sprintdesk/internal/repository"
	"github.com/alexanderramin/sprintdesk/internal/service"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	log := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening database: %v\n", err)
		return 1
	}
	defer database.Close()

	// Wire repositories
	deliverableRepo := repository.NewSQLiteDeliverableRepo(database)
	packageRepo := repository.NewSQLitePackageRepo(database)
	submissionRepo := repository.NewSQLiteSubmissionRepo(database)
	runRepo := repository.NewSQLiteProposalRunRepo(database)
	sprintRepo := repository.NewSQLiteSprintRepo(database)
	lineRepo := repository.NewSQLiteSprintLineRepo(database)
	planRepo := repository.NewSQLiteCompPlanRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	m := metrics.New()
	llmClient := llm.NewChatClient(cfg.LLM, llm.MultiObserver{llm.NewLogObserver(log), m})
	dispatcher := notify.NewDispatcher(newSender(cfg.SendGrid, log), log, cfg.NotifyTimeout, m)
	defer dispatcher.Wait()

	generator := proposal.NewGenerator(proposal.Deps{
		UoW:          uow,
		Submissions:  submissionRepo,
		Deliverables: deliverableRepo,
		Packages:     packageRepo,
		Runs:         runRepo,
		Client:       llmClient,
		LLMConfig:    cfg.LLM,
		Notifier:     dispatcher,
		Recorder:     m,
		Logger:       log,
	}, proposal.Config{
		MaxDocumentBytes: cfg.MaxDocumentBytes,
		Model:            cfg.LLM.Model,
		NotifyTo:         cfg.NotifyTo,
		Pricing:          cfg.Pricing,
	})
	composer := agreement.NewComposer(cfg.Pricing, cfg.Studio)

	// Wire services
	observer := service.NewLogUseCaseObserver(log)
	catalogSvc := service.NewCatalogService(deliverableRepo, packageRepo, uow, observer)
	submissionSvc := service.NewSubmissionService(submissionRepo, observer)
	proposalSvc := service.NewProposalService(generator, runRepo, observer)
	sprintSvc := service.NewSprintService(sprintRepo, lineRepo, planRepo, uow, cfg.Pricing, observer)
	compPlanSvc := service.NewCompPlanService(planRepo, uow, observer)
	agreementSvc := service.NewAgreementService(sprintRepo, lineRepo, deliverableRepo, planRepo, composer, observer)

	app := &cli.App{
		Catalog:     catalogSvc,
		Submissions: submissionSvc,
		Proposals:   proposalSvc,
		Sprints:     sprintSvc,
		CompPlans:   compPlanSvc,
		Agreements:  agreementSvc,
		Pricing:     cfg.Pricing,
	}
	app.Serve = func(ctx context.Context) error {
		if cfg.LogLevel != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}
		router := httpapi.NewRouter(httpapi.RouterConfig{
			Catalog:        catalogSvc,
			Submissions:    submissionSvc,
			Proposals:      proposalSvc,
			Sprints:        sprintSvc,
			CompPlans:      compPlanSvc,
			Agreements:     agreementSvc,
			Logger:         log,
			Metrics:        m,
			MetricsHandler: m.Handler(),
		})
		return httpapi.NewServer(cfg.HTTPAddr, router, 0, log).Run(ctx)
	}

	return cli.Execute(context.Background(), app, os.Args[1:], os.Stdout, os.Stderr)
}

// newSender picks SendGrid when an API key is configured and logs messages
// otherwise.
func newSender(cfg notify.SendGridConfig, log *slog.Logger) notify.Sender {
	if cfg.APIKey == "" {
		return notify.LogSender{Log: log}
	}
	sg, err := notify.NewSendGridSender(cfg)
	if err != nil {
		log.Warn("sendgrid disabled", "error", err)
		return notify.LogSender{Log: log}
	}
	return sg
}
