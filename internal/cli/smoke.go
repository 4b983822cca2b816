package cli

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sourabhrustagi/taskgate/internal/control"
	"github.com/sourabhrustagi/taskgate/internal/core/domain"
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Run a full task lifecycle through the gateway",
	Run:   runSmoke,
}

func init() {
	rootCmd.AddCommand(smokeCmd)
}

// runSmoke signs in against the configured backend and exercises
// create, list, complete, search, analytics and delete.
func runSmoke(cmd *cobra.Command, args []string) {
	cfg := setup()

	app, err := control.New(cfg)
	if err != nil {
		slog.Error("Failed to initialize taskgate", "error", err)
		os.Exit(1)
	}
	gw := app.Gateway

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := gw.SendCode(ctx, "+15555550100"); err != nil {
		slog.Error("sendCode failed", "error", err)
		os.Exit(1)
	}
	verified, err := gw.VerifyCode(ctx, "", "123456")
	if err != nil {
		slog.Error("verifyCode failed", "error", err)
		os.Exit(1)
	}
	if !verified.Success {
		slog.Error("verifyCode rejected", "message", verified.Message)
		os.Exit(1)
	}
	slog.Info("Signed in", "user", verified.Session.User.Phone)

	due := time.Now().Add(24 * time.Hour)
	created, err := gw.CreateTask(ctx, domain.CreateTaskParams{
		Title:       "Smoke test task",
		Description: "created by taskgate smoke",
		Priority:    domain.PriorityHigh,
		DueDate:     &due,
	})
	if err != nil {
		slog.Error("createTask failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Created task", "id", created.ID)

	page, err := gw.ListTasks(ctx, domain.TaskQuery{Priority: domain.PriorityHigh})
	if err != nil {
		slog.Error("listTasks failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Listed tasks", "total", page.Pagination.Total)

	if _, err := gw.CompleteTask(ctx, created.ID); err != nil {
		slog.Error("completeTask failed", "error", err)
		os.Exit(1)
	}

	hits, err := gw.SearchTasks(ctx, "smoke", false)
	if err != nil {
		slog.Error("searchTasks failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Search", "hits", hits.Total)

	analytics, err := gw.GetAnalytics(ctx)
	if err != nil {
		slog.Error("getAnalytics failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Analytics",
		"total", analytics.Total,
		"completed", analytics.Completed,
		"completion_rate", analytics.CompletionRate)

	if _, err := gw.DeleteTask(ctx, created.ID); err != nil {
		slog.Error("deleteTask failed", "error", err)
		os.Exit(1)
	}
	if _, err := gw.Logout(ctx); err != nil {
		slog.Error("logout failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Smoke test passed")
	_ = app.Stop(ctx)
}
