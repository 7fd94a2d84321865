package orders

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"draftdesk/internal/domain/workflow"
	"draftdesk/internal/infrastructure/persistence/sqlite/model"
	"draftdesk/internal/infrastructure/persistence/sqlite/repository"
	"draftdesk/internal/infrastructure/persistence/sqlite/uow"
	"draftdesk/internal/ports"
)

func setupService(t *testing.T) (*Service, ports.OrderRepository) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "orders.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(
		&model.Order{},
		&model.User{},
		&model.Assignment{},
		&model.StatusLog{},
		&model.Review{},
		&model.Issue{},
		&model.ChecklistTemplate{},
		&model.ChecklistItem{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	repo := repository.NewOrderRepository(db)
	return NewService(repo, uow.NewUnitOfWork(db)), repo
}

type fixture struct {
	drawer  ports.User
	checker ports.User
	qa      ports.User
	manager ports.User
	order   ports.Order
}

func setupFixture(t *testing.T, svc *Service, repo ports.OrderRepository) fixture {
	t.Helper()
	ctx := context.Background()

	var f fixture
	var err error
	if f.drawer, err = svc.CreateUser(ctx, CreateUserInput{Name: "dara", Role: "drawer"}); err != nil {
		t.Fatalf("create drawer: %v", err)
	}
	if f.checker, err = svc.CreateUser(ctx, CreateUserInput{Name: "chen", Role: "checker"}); err != nil {
		t.Fatalf("create checker: %v", err)
	}
	if f.qa, err = svc.CreateUser(ctx, CreateUserInput{Name: "quinn", Role: "qa"}); err != nil {
		t.Fatalf("create qa: %v", err)
	}
	if f.manager, err = svc.CreateUser(ctx, CreateUserInput{Name: "mo", Role: "manager"}); err != nil {
		t.Fatalf("create manager: %v", err)
	}

	if f.order, err = svc.CreateManualOrder(ctx, CreateManualOrderInput{
		OrderNumber: "1001",
		Address:     "12 Harbour St, Sydney",
		Priority:    "high",
	}); err != nil {
		t.Fatalf("create order: %v", err)
	}

	for position, title := range []string{"Boundaries match survey", "Easements shown"} {
		if _, err := repo.CreateChecklistTemplate(ctx, ports.ChecklistTemplate{
			Role: "checker", Title: title, Position: position + 1,
		}); err != nil {
			t.Fatalf("create template: %v", err)
		}
	}
	return f
}

func TestAssignDrawer(t *testing.T) {
	svc, repo := setupService(t)
	f := setupFixture(t, svc, repo)
	ctx := context.Background()

	result, err := svc.AssignDrawer(ctx, AssignDrawerInput{
		OrderID:  f.order.OrderID,
		DrawerID: f.drawer.UserID,
		ActorID:  f.manager.UserID,
	})
	if err != nil {
		t.Fatalf("AssignDrawer() error = %v", err)
	}
	if result.From != workflow.StatusPending || result.To != workflow.StatusAssignedToDrawer {
		t.Fatalf("AssignDrawer() = %s -> %s", result.From, result.To)
	}

	order, err := repo.GetOrder(ctx, f.order.OrderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.AssignedAt == nil {
		t.Fatal("assigned_at not set")
	}

	logs, err := repo.ListStatusLogs(ctx, f.order.OrderID)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("status logs = %d, want 1", len(logs))
	}
	if logs[0].FromStatus == nil || *logs[0].FromStatus != "pending" || logs[0].ToStatus != "assigned_to_drawer" {
		t.Fatalf("log = %+v", logs[0])
	}
}

func TestAssignDrawerRejectsNonDrawer(t *testing.T) {
	svc, repo := setupService(t)
	f := setupFixture(t, svc, repo)

	_, err := svc.AssignDrawer(context.Background(), AssignDrawerInput{
		OrderID:  f.order.OrderID,
		DrawerID: f.checker.UserID,
		ActorID:  f.manager.UserID,
	})
	var validation *workflow.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("AssignDrawer() error = %v, want ValidationError", err)
	}
	if validation.Field != "drawer_id" {
		t.Fatalf("validation field = %q", validation.Field)
	}
}

func TestReassignReplacesCurrentAssignment(t *testing.T) {
	svc, repo := setupService(t)
	f := setupFixture(t, svc, repo)
	ctx := context.Background()

	second, err := svc.CreateUser(ctx, CreateUserInput{Name: "devi", Role: "drawer"})
	if err != nil {
		t.Fatalf("create second drawer: %v", err)
	}

	for _, drawerID := range []uint64{f.drawer.UserID, second.UserID} {
		if _, err := svc.AssignDrawer(ctx, AssignDrawerInput{
			OrderID:  f.order.OrderID,
			DrawerID: drawerID,
			ActorID:  f.manager.UserID,
		}); err != nil {
			t.Fatalf("assign drawer %d: %v", drawerID, err)
		}
	}

	assignments, err := repo.ListAssignments(ctx, f.order.OrderID)
	if err != nil {
		t.Fatalf("list assignments: %v", err)
	}
	current := 0
	for _, a := range assignments {
		if a.IsCurrent {
			current++
			if a.UserID != second.UserID {
				t.Fatalf("current drawer = %d, want %d", a.UserID, second.UserID)
			}
		}
	}
	if current != 1 {
		t.Fatalf("current assignments = %d, want 1", current)
	}

	// Reassignment keeps the status, so only the first assign logs.
	logs, err := repo.ListStatusLogs(ctx, f.order.OrderID)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("status logs = %d, want 1", len(logs))
	}
}

func advanceToCheckerReview(t *testing.T, svc *Service, f fixture) {
	t.Helper()
	ctx := context.Background()

	if _, err := svc.AssignDrawer(ctx, AssignDrawerInput{
		OrderID: f.order.OrderID, DrawerID: f.drawer.UserID, ActorID: f.manager.UserID,
	}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := svc.StartDrawing(ctx, StageActionInput{OrderID: f.order.OrderID, ActorID: f.drawer.UserID}); err != nil {
		t.Fatalf("start drawing: %v", err)
	}
	if _, err := svc.CompleteDrawing(ctx, StageActionInput{OrderID: f.order.OrderID, ActorID: f.drawer.UserID}); err != nil {
		t.Fatalf("complete drawing: %v", err)
	}
}

func checkAllItems(t *testing.T, svc *Service, f fixture) {
	t.Helper()
	ctx := context.Background()

	status, err := svc.GetChecklistStatus(ctx, f.order.OrderID)
	if err != nil {
		t.Fatalf("checklist status: %v", err)
	}
	for _, item := range status.Items {
		if err := svc.ToggleChecklistItem(ctx, ToggleChecklistItemInput{
			ItemID: item.ItemID, UserID: f.checker.UserID, Checked: true,
		}); err != nil {
			t.Fatalf("check item %d: %v", item.ItemID, err)
		}
	}
}

func TestWorkflowHappyPath(t *testing.T) {
	svc, repo := setupService(t)
	f := setupFixture(t, svc, repo)
	ctx := context.Background()

	advanceToCheckerReview(t, svc, f)

	order, err := repo.GetOrder(ctx, f.order.OrderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.Status != "checker_review" {
		t.Fatalf("status = %q", order.Status)
	}
	if order.DrawerStartedAt == nil || order.DrawerCompletedAt == nil {
		t.Fatal("drawer stage timestamps not set")
	}

	// CompleteDrawing attaches the checker checklist from templates.
	checklist, err := svc.GetChecklistStatus(ctx, f.order.OrderID)
	if err != nil {
		t.Fatalf("checklist status: %v", err)
	}
	if checklist.Total != 2 {
		t.Fatalf("checklist items = %d, want 2", checklist.Total)
	}

	if err := svc.StartCheckerReview(ctx, StageActionInput{OrderID: f.order.OrderID, ActorID: f.checker.UserID}); err != nil {
		t.Fatalf("start checker review: %v", err)
	}
	checkAllItems(t, svc, f)
	if err := svc.CompleteChecklist(ctx, StageActionInput{OrderID: f.order.OrderID, ActorID: f.checker.UserID}); err != nil {
		t.Fatalf("complete checklist: %v", err)
	}

	result, err := svc.ApproveByChecker(ctx, StageActionInput{OrderID: f.order.OrderID, ActorID: f.checker.UserID})
	if err != nil {
		t.Fatalf("checker approve: %v", err)
	}
	if result.To != workflow.StatusQaReview {
		t.Fatalf("checker approve -> %s", result.To)
	}

	if err := svc.StartQaReview(ctx, StageActionInput{OrderID: f.order.OrderID, ActorID: f.qa.UserID}); err != nil {
		t.Fatalf("start qa review: %v", err)
	}
	result, err = svc.ApproveByQa(ctx, StageActionInput{OrderID: f.order.OrderID, ActorID: f.qa.UserID})
	if err != nil {
		t.Fatalf("qa approve: %v", err)
	}
	if result.To != workflow.StatusCompleted {
		t.Fatalf("qa approve -> %s", result.To)
	}

	order, err = repo.GetOrder(ctx, f.order.OrderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.CheckerStartedAt == nil || order.CheckerCompletedAt == nil || order.QaStartedAt == nil || order.QaCompletedAt == nil {
		t.Fatalf("review stage timestamps missing: %+v", order)
	}

	logs, err := repo.ListStatusLogs(ctx, f.order.OrderID)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	// assign, send to checker, checker approve, qa approve.
	if len(logs) != 4 {
		t.Fatalf("status logs = %d, want 4", len(logs))
	}
	if logs[3].Note != "Order completed by QA" {
		t.Fatalf("final log note = %q", logs[3].Note)
	}

	reviews, err := repo.ListReviews(ctx, f.order.OrderID)
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("reviews = %d, want checker + qa approvals", len(reviews))
	}
}

func TestCompleteChecklistGate(t *testing.T) {
	svc, repo := setupService(t)
	f := setupFixture(t, svc, repo)
	ctx := context.Background()

	advanceToCheckerReview(t, svc, f)

	err := svc.CompleteChecklist(ctx, StageActionInput{OrderID: f.order.OrderID, ActorID: f.checker.UserID})
	var prerequisite *workflow.PrerequisiteError
	if !errors.As(err, &prerequisite) {
		t.Fatalf("CompleteChecklist() error = %v, want PrerequisiteError", err)
	}
	if prerequisite.Unchecked != 2 {
		t.Fatalf("unchecked = %d, want 2", prerequisite.Unchecked)
	}

	// The gate must not have moved anything.
	order, err := repo.GetOrder(ctx, f.order.OrderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.Status != "checker_review" {
		t.Fatalf("status = %q", order.Status)
	}

	checkAllItems(t, svc, f)
	if err := svc.CompleteChecklist(ctx, StageActionInput{OrderID: f.order.OrderID, ActorID: f.checker.UserID}); err != nil {
		t.Fatalf("CompleteChecklist() after checking all = %v", err)
	}
}

func TestRejectByChecker(t *testing.T) {
	svc, repo := setupService(t)
	f := setupFixture(t, svc, repo)
	ctx := context.Background()

	advanceToCheckerReview(t, svc, f)
	if err := svc.StartCheckerReview(ctx, StageActionInput{OrderID: f.order.OrderID, ActorID: f.checker.UserID}); err != nil {
		t.Fatalf("start checker review: %v", err)
	}

	if _, err := svc.RejectByChecker(ctx, RejectInput{
		OrderID: f.order.OrderID,
		ActorID: f.checker.UserID,
	}); err == nil {
		t.Fatal("RejectByChecker() without reason succeeded")
	}

	result, err := svc.RejectByChecker(ctx, RejectInput{
		OrderID: f.order.OrderID,
		ActorID: f.checker.UserID,
		Reason:  "boundary setback wrong",
		Issues: []IssueInput{
			{Description: "north boundary off by 2m"},
			{Severity: "critical", Description: "missing easement"},
		},
	})
	if err != nil {
		t.Fatalf("RejectByChecker() error = %v", err)
	}
	if result.To != workflow.StatusAssignedToDrawer {
		t.Fatalf("reject -> %s", result.To)
	}

	order, err := repo.GetOrder(ctx, f.order.OrderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.CheckerStartedAt != nil || order.CheckerCompletedAt != nil {
		t.Fatal("checker timestamps not cleared on reject")
	}

	reviews, err := repo.ListReviews(ctx, f.order.OrderID)
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(reviews) != 1 || reviews[0].Approved {
		t.Fatalf("reviews = %+v", reviews)
	}

	issues, err := repo.ListIssuesByReview(ctx, reviews[0].ReviewID)
	if err != nil {
		t.Fatalf("list issues: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("issues = %d, want 2", len(issues))
	}
	if issues[0].Severity != "major" {
		t.Fatalf("default severity = %q, want major", issues[0].Severity)
	}
	if issues[1].Severity != "critical" {
		t.Fatalf("severity = %q", issues[1].Severity)
	}

	logs, err := repo.ListStatusLogs(ctx, f.order.OrderID)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	last := logs[len(logs)-1]
	if last.Note != "Rejected by checker: boundary setback wrong" {
		t.Fatalf("log note = %q", last.Note)
	}
}

func TestRejectByQaReturnsToChecker(t *testing.T) {
	svc, repo := setupService(t)
	f := setupFixture(t, svc, repo)
	ctx := context.Background()

	advanceToCheckerReview(t, svc, f)
	checkAllItems(t, svc, f)
	if err := svc.CompleteChecklist(ctx, StageActionInput{OrderID: f.order.OrderID, ActorID: f.checker.UserID}); err != nil {
		t.Fatalf("complete checklist: %v", err)
	}
	if _, err := svc.ApproveByChecker(ctx, StageActionInput{OrderID: f.order.OrderID, ActorID: f.checker.UserID}); err != nil {
		t.Fatalf("checker approve: %v", err)
	}
	if err := svc.StartQaReview(ctx, StageActionInput{OrderID: f.order.OrderID, ActorID: f.qa.UserID}); err != nil {
		t.Fatalf("start qa review: %v", err)
	}

	result, err := svc.RejectByQa(ctx, RejectInput{
		OrderID: f.order.OrderID,
		ActorID: f.qa.UserID,
		Reason:  "lot labels unreadable",
	})
	if err != nil {
		t.Fatalf("RejectByQa() error = %v", err)
	}
	if result.To != workflow.StatusCheckerReview {
		t.Fatalf("qa reject -> %s", result.To)
	}

	order, err := repo.GetOrder(ctx, f.order.OrderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.QaStartedAt != nil || order.QaCompletedAt != nil {
		t.Fatal("qa timestamps not cleared on reject")
	}
}

func TestRejectByManager(t *testing.T) {
	svc, repo := setupService(t)
	f := setupFixture(t, svc, repo)
	ctx := context.Background()

	result, err := svc.RejectByManager(ctx, StageActionInput{OrderID: f.order.OrderID, ActorID: f.manager.UserID})
	if err != nil {
		t.Fatalf("RejectByManager() error = %v", err)
	}
	if result.To != workflow.StatusRejected {
		t.Fatalf("manager reject -> %s", result.To)
	}

	// Terminal orders stay put.
	_, err = svc.RejectByManager(ctx, StageActionInput{OrderID: f.order.OrderID, ActorID: f.manager.UserID})
	var precondition *workflow.PreconditionError
	if !errors.As(err, &precondition) {
		t.Fatalf("second reject error = %v, want PreconditionError", err)
	}

	order, err := repo.GetOrder(ctx, f.order.OrderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.Status != "rejected" {
		t.Fatalf("status = %q", order.Status)
	}
}

func TestTransitionWrongState(t *testing.T) {
	svc, repo := setupService(t)
	f := setupFixture(t, svc, repo)

	_, err := svc.ApproveByQa(context.Background(), StageActionInput{OrderID: f.order.OrderID, ActorID: f.qa.UserID})
	var precondition *workflow.PreconditionError
	if !errors.As(err, &precondition) {
		t.Fatalf("ApproveByQa() on pending error = %v, want PreconditionError", err)
	}
	if precondition.Actual != workflow.StatusPending {
		t.Fatalf("actual = %s", precondition.Actual)
	}

	order, err := repo.GetOrder(context.Background(), f.order.OrderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.Status != "pending" {
		t.Fatalf("status moved to %q", order.Status)
	}
}
