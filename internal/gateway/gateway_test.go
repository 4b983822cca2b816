package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sourabhrustagi/taskgate/internal/auth"
	"github.com/sourabhrustagi/taskgate/internal/core/domain"
	"github.com/sourabhrustagi/taskgate/internal/infra/mockapi"
	"github.com/sourabhrustagi/taskgate/internal/infra/storage/memory"
	"github.com/sourabhrustagi/taskgate/internal/retry"
)

// newMockGateway wires a gateway in mock mode with no latency and no
// faults, retrying without sleeping.
func newMockGateway(t *testing.T) (*Gateway, *mockapi.Store) {
	t.Helper()
	store := mockapi.NewWithClock(
		memory.NewKV(),
		mockapi.Config{Seed: 1},
		func(ctx context.Context, d time.Duration) error { return ctx.Err() },
		time.Now,
	)
	creds := auth.NewCredentialStore(memory.NewKV())
	g := New(Config{
		Mode:   ModeMock,
		Policy: retry.Immediate(3),
	}, store, nil, creds)
	return g, store
}

func TestMockModeTaskLifecycle(t *testing.T) {
	g, _ := newMockGateway(t)
	ctx := context.Background()

	created, err := g.CreateTask(ctx, domain.CreateTaskParams{
		Title:    "Buy milk",
		Priority: domain.PriorityMedium,
	})
	if err != nil {
		t.Fatal(err)
	}

	listed, err := g.ListTasks(ctx, domain.TaskQuery{Priority: domain.PriorityMedium})
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, task := range listed.Tasks {
		if task.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("created task missing from priority-filtered listing")
	}

	if _, err := g.DeleteTask(ctx, created.ID); err != nil {
		t.Fatal(err)
	}

	_, err = g.GetTask(ctx, created.ID)
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("GetTask after delete err = %v, want NotFoundError", err)
	}
}

func TestCompleteTaskIdempotentThroughGateway(t *testing.T) {
	g, _ := newMockGateway(t)
	ctx := context.Background()

	created, err := g.CreateTask(ctx, domain.CreateTaskParams{Title: "t"})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		done, err := g.CompleteTask(ctx, created.ID)
		if err != nil || !done.Completed {
			t.Fatalf("complete #%d = (%+v, %v)", i+1, done, err)
		}
	}
}

func TestValidationNeverRetried(t *testing.T) {
	g, store := newMockGateway(t)
	// With every backend call failing, a validation error must still
	// surface immediately: it is rejected before any backend attempt.
	store.SetFailureRate(1)

	_, err := g.CreateTask(context.Background(), domain.CreateTaskParams{Title: ""})
	var val *domain.ValidationError
	if !errors.As(err, &val) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestFaultInjectionExhaustsRetries(t *testing.T) {
	g, store := newMockGateway(t)
	store.SetFailureRate(1)

	_, err := g.ListTasks(context.Background(), domain.TaskQuery{})

	var exhausted *domain.RetryExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("err = %v, want RetryExhaustedError", err)
	}
	if exhausted.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", exhausted.Attempts)
	}
	var netErr *domain.NetworkError
	if !errors.As(err, &netErr) {
		t.Error("terminal error should wrap the injected NetworkError")
	}
}

func TestFaultInjectionRecoversWithinBudget(t *testing.T) {
	g, store := newMockGateway(t)
	ctx := context.Background()

	if _, err := g.CreateTask(ctx, domain.CreateTaskParams{Title: "t"}); err != nil {
		t.Fatal(err)
	}

	// Seed 1 with rate 0.5 fails some attempts but a 5-attempt budget
	// reliably gets a listing through.
	store.SetFailureRate(0.5)
	g.policy = retry.Immediate(5)

	ok := false
	for i := 0; i < 3 && !ok; i++ {
		if _, err := g.ListTasks(ctx, domain.TaskQuery{}); err == nil {
			ok = true
		}
	}
	if !ok {
		t.Fatal("listing never succeeded within the retry budget")
	}
}

func TestDenormalizedCategoryReference(t *testing.T) {
	g, _ := newMockGateway(t)
	ctx := context.Background()

	cat, err := g.CreateCategory(ctx, domain.CategoryParams{Name: "Errands", Color: "#abc123"})
	if err != nil {
		t.Fatal(err)
	}
	created, err := g.CreateTask(ctx, domain.CreateTaskParams{Title: "t", CategoryID: cat.ID})
	if err != nil {
		t.Fatal(err)
	}

	got, err := g.GetTask(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Category == nil || got.Category.Name != "Errands" || got.Category.Color != "#abc123" {
		t.Fatalf("Category = %+v, want embedded name/color", got.Category)
	}

	// After the category is deleted the reference dangles: id kept,
	// name and color empty.
	if _, err := g.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatal(err)
	}
	got, err = g.GetTask(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Category == nil || got.Category.ID != cat.ID || got.Category.Name != "" {
		t.Fatalf("dangling Category = %+v, want id with empty name", got.Category)
	}
}

func TestModeSwitchKeepsDatasetsIndependent(t *testing.T) {
	g, _ := newMockGateway(t)
	ctx := context.Background()

	if g.Mode() != ModeMock {
		t.Fatalf("mode = %v, want mock", g.Mode())
	}
	if _, err := g.CreateTask(ctx, domain.CreateTaskParams{Title: "local only"}); err != nil {
		t.Fatal(err)
	}

	g.SetMode(ModeReal)
	if g.Mode() != ModeReal {
		t.Fatalf("mode = %v, want real after switch", g.Mode())
	}
	g.SetMode(ModeMock)

	// The mock dataset survived the round trip untouched.
	page, err := g.ListTasks(ctx, domain.TaskQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Pagination.Total != 1 {
		t.Errorf("total = %d, want 1", page.Pagination.Total)
	}
}

func TestBulkOperationThroughGateway(t *testing.T) {
	g, _ := newMockGateway(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		created, err := g.CreateTask(ctx, domain.CreateTaskParams{Title: "t"})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, created.ID)
	}

	result, err := g.BulkOperation(ctx, domain.BulkComplete, append(ids, "missing"))
	if err != nil {
		t.Fatal(err)
	}
	if result.UpdatedCount != 3 {
		t.Errorf("UpdatedCount = %d, want 3 (missing ids skipped)", result.UpdatedCount)
	}

	analytics, err := g.GetAnalytics(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if analytics.Completed != 3 || analytics.CompletionRate != 1 {
		t.Errorf("analytics = %+v, want all completed", analytics)
	}
}

func TestMockAuthFlow(t *testing.T) {
	g, _ := newMockGateway(t)
	ctx := context.Background()

	sent, err := g.SendCode(ctx, "+15551234567")
	if err != nil || !sent.Success {
		t.Fatalf("SendCode = (%+v, %v)", sent, err)
	}

	wrong, err := g.VerifyCode(ctx, "", "999999")
	if err != nil {
		t.Fatal(err)
	}
	if wrong.Success {
		t.Fatal("wrong code should not verify")
	}
	if user, _ := g.CurrentUser(ctx); user != nil {
		t.Fatal("mismatch must not sign the user in")
	}

	// Empty phone falls back to the pending one.
	ok, err := g.VerifyCode(ctx, "", "123456")
	if err != nil || !ok.Success {
		t.Fatalf("VerifyCode = (%+v, %v)", ok, err)
	}
	user, err := g.CurrentUser(ctx)
	if err != nil || user == nil || user.Phone != "+15551234567" {
		t.Fatalf("CurrentUser = (%+v, %v), want signed-in user", user, err)
	}

	ack, err := g.Logout(ctx)
	if err != nil || !ack.Success {
		t.Fatalf("Logout = (%+v, %v)", ack, err)
	}
	if user, _ := g.CurrentUser(ctx); user != nil {
		t.Errorf("CurrentUser after logout = %+v, want nil", user)
	}
}

func TestLogoutSucceedsLocallyWhenRemoteFails(t *testing.T) {
	g, store := newMockGateway(t)
	ctx := context.Background()

	if _, err := g.SendCode(ctx, "+15551234567"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.VerifyCode(ctx, "", "123456"); err != nil {
		t.Fatal(err)
	}

	store.SetFailureRate(1)
	ack, err := g.Logout(ctx)
	if err != nil || !ack.Success {
		t.Fatalf("Logout with failing backend = (%+v, %v), want local success", ack, err)
	}
	if user, _ := g.CurrentUser(ctx); user != nil {
		t.Errorf("CurrentUser = %+v, want nil after local-wins logout", user)
	}
}
