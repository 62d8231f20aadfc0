package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/biohackher/vitality-api/internal/config"
	"github.com/biohackher/vitality-api/internal/queue"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewRecomputeCmd creates the recompute command, which enqueues a plan
// recompute job for a user without going through the HTTP API.
func NewRecomputeCmd() *cobra.Command {
	var userIDStr string
	var date string
	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Enqueue a plan recompute job",
		Long:  "Enqueue a plan recompute job for a user. The worker rebuilds the daily and weekly snapshots.",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				return fmt.Errorf("--user must be a valid UUID: %w", err)
			}
			if date == "" {
				date = time.Now().UTC().Format("2006-01-02")
			} else if _, err := time.Parse("2006-01-02", date); err != nil {
				return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
			if err != nil {
				return fmt.Errorf("connect to RabbitMQ: %w", err)
			}
			defer func() { _ = jobQueue.Close() }()

			job := queue.NewRecomputeJob(userID, date, queue.ReasonManual)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := jobQueue.Enqueue(ctx, job); err != nil {
				return fmt.Errorf("enqueue job: %w", err)
			}
			fmt.Printf("Enqueued recompute job %s for user %s (date %s)\n", job.ID, userID, date)
			return nil
		},
	}
	cmd.Flags().StringVar(&userIDStr, "user", "", "User ID (UUID, required)")
	cmd.Flags().StringVar(&date, "date", "", "Plan date YYYY-MM-DD (default today UTC)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
