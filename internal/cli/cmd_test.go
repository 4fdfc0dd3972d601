package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sprintdesk/internal/agreement"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/llm"
	"github.com/alexanderramin/sprintdesk/internal/pricing"
	"github.com/alexanderramin/sprintdesk/internal/proposal"
	"github.com/alexanderramin/sprintdesk/internal/repository"
	"github.com/alexanderramin/sprintdesk/internal/service"
	"github.com/alexanderramin/sprintdesk/internal/testutil"
)

const testCatalog = `
deliverables:
  - ref: brand
    name: Brand identity
    category: Design
    scope: Logo, palette
    hours: 8
    price: 1200
    points: 2
  - ref: web
    name: Web app
    category: Engineering
    hours: 40
    price: 6000
    points: 10
packages:
  - slug: launch-kit
    name: Launch Kit
    items:
      - deliverable: brand
      - deliverable: web
        quantity: 2
`

type cliEnv struct {
	app  *App
	fake *testutil.FakeLLM
	dir  string
}

// testApp wires a full App backed by an in-memory DB and a scripted model.
func testApp(t *testing.T) *cliEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	deliverables := repository.NewSQLiteDeliverableRepo(database)
	packages := repository.NewSQLitePackageRepo(database)
	sprints := repository.NewSQLiteSprintRepo(database)
	lines := repository.NewSQLiteSprintLineRepo(database)
	plans := repository.NewSQLiteCompPlanRepo(database)
	submissions := repository.NewSQLiteSubmissionRepo(database)
	runs := repository.NewSQLiteProposalRunRepo(database)

	fake := &testutil.FakeLLM{Text: `{"sprintPackageId":"launch-kit"}`}
	cfg := pricing.DefaultConfig()
	gen := proposal.NewGenerator(proposal.Deps{
		UoW:          uow,
		Submissions:  submissions,
		Deliverables: deliverables,
		Packages:     packages,
		Runs:         runs,
		Client:       fake,
		LLMConfig:    llm.DefaultConfig(),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, proposal.Config{Pricing: cfg})

	return &cliEnv{
		app: &App{
			Catalog:     service.NewCatalogService(deliverables, packages, uow),
			Submissions: service.NewSubmissionService(submissions),
			Proposals:   service.NewProposalService(gen, runs),
			Sprints:     service.NewSprintService(sprints, lines, plans, uow, cfg),
			CompPlans:   service.NewCompPlanService(plans, uow),
			Agreements:  service.NewAgreementService(sprints, lines, deliverables, plans, agreement.NewComposer(cfg, agreement.StudioInfo{Name: "Northwind Studio"})),
			Pricing:     cfg,
		},
		fake: fake,
		dir:  t.TempDir(),
	}
}

// executeCmd runs a cobra command and captures its output.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func (e *cliEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// seedSprint imports the catalog, stores a submission and generates a
// sprint from it, returning the submission and sprint ids.
func (e *cliEnv) seedSprint(t *testing.T) (string, string) {
	t.Helper()
	ctx := context.Background()
	_, err := executeCmd(t, e.app, "catalog", "import", e.writeFile(t, "catalog.yaml", testCatalog))
	require.NoError(t, err)

	sub, err := e.app.Submissions.Create(ctx, "test", []byte(`{"answers":[{"question":"Project name","answer":"Orbit"}]}`))
	require.NoError(t, err)
	res, err := e.app.Proposals.Generate(ctx, sub.ID)
	require.NoError(t, err)
	return sub.ID, res.SprintID
}

func TestCatalogImportAndList(t *testing.T) {
	e := testApp(t)

	out, err := executeCmd(t, e.app, "catalog", "import", e.writeFile(t, "catalog.yaml", testCatalog))
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 deliverables and 1 packages.")

	out, err = executeCmd(t, e.app, "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Brand identity")
	assert.Contains(t, out, "$6,000.00")

	out, err = executeCmd(t, e.app, "catalog", "list", "--packages")
	require.NoError(t, err)
	assert.Contains(t, out, "launch-kit")

	_, err = executeCmd(t, e.app, "catalog", "import", e.writeFile(t, "bad.yaml", "deliverables:\n  - name: \"\"\n"))
	require.Error(t, err)
	assert.Contains(t, FormatError(err), "invalid_catalog: ")
}

func TestSubmissionAddAndProfile(t *testing.T) {
	e := testApp(t)
	path := e.writeFile(t, "sub.json", `{"answers":[{"question":"Project name","answer":"Orbit"},{"question":"Your email","answer":"ops@orbit.dev"}]}`)

	out, err := executeCmd(t, e.app, "submission", "add", path)
	require.NoError(t, err)
	assert.Contains(t, out, "stored.")

	subs, err := e.app.Submissions.List(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "cli", subs[0].Source)

	out, err = executeCmd(t, e.app, "sub", "profile", subs[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Orbit")
	assert.Contains(t, out, "ops@orbit.dev")

	_, err = executeCmd(t, e.app, "submission", "add", e.writeFile(t, "junk.txt", "not json"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProposalGenerateAndRuns(t *testing.T) {
	e := testApp(t)
	subID, _ := e.seedSprint(t)

	out, err := executeCmd(t, e.app, "proposal", "generate", subID)
	require.NoError(t, err)
	assert.Contains(t, out, "Sprint Plan for Orbit")
	assert.Contains(t, out, "2 from package")

	e.fake.Text = "no idea"
	_, err = executeCmd(t, e.app, "proposal", "generate", subID)
	require.ErrorIs(t, err, proposal.ErrUnusableResponse)
	msg := FormatError(err)
	assert.Contains(t, msg, "proposal_unusable: ")
	runID, ok := proposal.RunIDOf(err)
	require.True(t, ok)
	assert.Contains(t, msg, "sprintdesk proposal run "+runID)

	out, err = executeCmd(t, e.app, "proposal", "run", runID)
	require.NoError(t, err)
	assert.Contains(t, out, "UNUSABLE")
	assert.Contains(t, out, "no idea")

	out, err = executeCmd(t, e.app, "proposal", "runs", subID)
	require.NoError(t, err)
	assert.Contains(t, out, runID)
}

func TestSprintEditingCommands(t *testing.T) {
	e := testApp(t)
	_, sprintID := e.seedSprint(t)

	out, err := executeCmd(t, e.app, "sprint", "show", sprintID)
	require.NoError(t, err)
	assert.Contains(t, out, "$13,200.00")

	out, err = executeCmd(t, e.app, "sprint", "complexity", sprintID, "1", "complex")
	require.NoError(t, err)
	assert.Contains(t, out, "$13,800.00")

	out, err = executeCmd(t, e.app, "sprint", "quantity", sprintID, "2", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "$7,800.00")

	_, err = executeCmd(t, e.app, "sprint", "complexity", sprintID, "1", "1.3")
	assert.ErrorIs(t, err, domain.ErrInvalidComplexity)

	_, err = executeCmd(t, e.app, "sprint", "remove", sprintID, "9")
	require.Error(t, err)
	assert.Contains(t, FormatError(err), "invalid_input: line #9 does not exist")

	out, err = executeCmd(t, e.app, "sprint", "remove", sprintID, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "$6,000.00")

	detail, err := e.app.Sprints.Get(context.Background(), sprintID)
	require.NoError(t, err)
	require.Len(t, detail.Lines, 1)
	deliverableID := *detail.Lines[0].DeliverableID

	out, err = executeCmd(t, e.app, "sprint", "add", sprintID, "-d", deliverableID, "-q", "2", "-c", "simple")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Web app ($9,000.00).")

	_, err = executeCmd(t, e.app, "sprint", "add", sprintID)
	assert.Contains(t, FormatError(err), "invalid_input")

	_, err = executeCmd(t, e.app, "sprint", "add", sprintID, "-d", deliverableID, "-c", "huge")
	assert.Contains(t, FormatError(err), "invalid_input: invalid argument")

	out, err = executeCmd(t, e.app, "sprint", "status", sprintID, "studio_review")
	require.NoError(t, err)
	assert.Contains(t, out, "STUDIO REVIEW")

	_, err = executeCmd(t, e.app, "sprint", "status", sprintID, "accepted")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	out, err = executeCmd(t, e.app, "sprint", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Sprint Plan for Orbit")
}

func TestCompSetAndAgreement(t *testing.T) {
	e := testApp(t)
	_, sprintID := e.seedSprint(t)

	out, err := executeCmd(t, e.app, "comp", "set", sprintID)
	require.NoError(t, err)
	assert.Contains(t, out, "50% upfront")
	assert.Contains(t, out, "$6,600.00")

	_, err = executeCmd(t, e.app, "comp", "set", sprintID, "--equity", "0.2")
	assert.Contains(t, FormatError(err), "need --deferred")

	out, err = executeCmd(t, e.app, "comp", "set", sprintID,
		"--deferred", "--upfront", "0%", "--miss", "reduced-50",
		"--milestone", "Launch | 2026-06-30 | 2",
		"--milestone", "Beta | | 1.5",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "$13,200.00 to $26,400.00")
	assert.Contains(t, out, "If missed (reduced-50): $6,600.00")

	out, err = executeCmd(t, e.app, "comp", "show", sprintID)
	require.NoError(t, err)
	assert.Contains(t, out, "Launch")

	path := filepath.Join(e.dir, "agreement.md")
	out, err = executeCmd(t, e.app, "agreement", sprintID, "--effective-date", "March 1, 2026", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Agreement written to")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Northwind Studio")
	assert.Contains(t, string(data), "March 1, 2026")

	stdout, err := executeCmd(t, e.app, "agreement", sprintID, "--effective-date", "March 1, 2026")
	require.NoError(t, err)
	assert.Equal(t, string(data), stdout)
}

func TestServeWithoutServer(t *testing.T) {
	_, err := executeCmd(t, &App{}, "serve")
	assert.ErrorIs(t, err, errUnavailable)
}

func TestExecute_PrintsCodedError(t *testing.T) {
	e := testApp(t)
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), e.app, []string{"sprint", "show", "missing"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "not_found: ")

	stderr.Reset()
	code = Execute(context.Background(), e.app, []string{"catalog", "list"}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Empty(t, stderr.String())
}
