package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sprintdesk/internal/agreement"
	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/pricing"
	"github.com/alexanderramin/sprintdesk/internal/repository"
	"github.com/alexanderramin/sprintdesk/internal/testutil"
)

type testEnv struct {
	db  *sql.DB
	uow db.UnitOfWork

	deliverables *repository.SQLiteDeliverableRepo
	packages     *repository.SQLitePackageRepo
	sprints      *repository.SQLiteSprintRepo
	lines        *repository.SQLiteSprintLineRepo
	plans        *repository.SQLiteCompPlanRepo

	design  *domain.Deliverable
	build   *domain.Deliverable
	retired *domain.Deliverable
	launch  *domain.Package
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	e := &testEnv{
		db:           database,
		uow:          testutil.NewTestUoW(database),
		deliverables: repository.NewSQLiteDeliverableRepo(database),
		packages:     repository.NewSQLitePackageRepo(database),
		sprints:      repository.NewSQLiteSprintRepo(database),
		lines:        repository.NewSQLiteSprintLineRepo(database),
		plans:        repository.NewSQLiteCompPlanRepo(database),
	}

	e.design = testutil.NewTestDeliverable("Brand identity", testutil.WithEconomics(8, 1200, 2), testutil.WithScope("Logo, palette"))
	e.build = testutil.NewTestDeliverable("Web app", testutil.WithEconomics(40, 6000, 10), testutil.WithCategory("Engineering"))
	e.retired = testutil.NewTestDeliverable("Print collateral", testutil.Inactive())
	e.launch = testutil.NewTestPackage("Launch Kit",
		testutil.WithItem(e.design.ID, 1),
		testutil.WithItem(e.build.ID, 2),
		testutil.WithItem(e.retired.ID, 1),
	)
	testutil.SeedCatalog(t, e.deliverables, e.packages, []*domain.Deliverable{e.design, e.build, e.retired}, e.launch)
	return e
}

// seedSprint stores a sprint with one line per deliverable and consistent
// totals.
func (e *testEnv) seedSprint(t *testing.T, opts []testutil.SprintOption, ds ...*domain.Deliverable) (*domain.Sprint, []domain.SprintLine) {
	t.Helper()
	ctx := context.Background()
	sp := testutil.NewTestSprint("Orbit sprint", opts...)
	lines := make([]domain.SprintLine, len(ds))
	for i, d := range ds {
		l := testutil.NewTestLine(sp.ID, d)
		l.SortOrder = i
		lines[i] = *l
	}
	require.NoError(t, pricing.AggregateSprint(sp, lines))
	require.NoError(t, e.sprints.Create(ctx, sp))
	for i := range lines {
		require.NoError(t, e.lines.Create(ctx, &lines[i]))
	}
	return sp, lines
}

func (e *testEnv) sprintService() SprintService {
	return NewSprintService(e.sprints, e.lines, e.plans, e.uow, pricing.DefaultConfig())
}

func (e *testEnv) compPlanService() CompPlanService {
	return NewCompPlanService(e.plans, e.uow)
}

func (e *testEnv) agreementService() AgreementService {
	composer := agreement.NewComposer(pricing.DefaultConfig(), agreement.StudioInfo{Name: "Northwind Studio"})
	return NewAgreementService(e.sprints, e.lines, e.deliverables, e.plans, composer)
}

func (e *testEnv) reload(t *testing.T, id string) *domain.Sprint {
	t.Helper()
	sp, err := e.sprints.GetByID(context.Background(), id)
	require.NoError(t, err)
	return sp
}
