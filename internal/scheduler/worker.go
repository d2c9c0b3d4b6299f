package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"crm_portal_backend/internal/email"
	"crm_portal_backend/internal/followups"
	"crm_portal_backend/internal/leads/cadence"
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/platform/config"
	"crm_portal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// LeadStore provides the lead state a reminder re-evaluates at execution
// time. Implemented by the leads repository.
type LeadStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	ListLeadNotes(ctx context.Context, leadID uuid.UUID) ([]repository.LeadNote, error)
}

// Worker consumes follow-up tasks from the queue. Reminders are re-evaluated
// at execution time so activity recorded after scheduling silently cancels
// them.
type Worker struct {
	server     *asynq.Server
	mux        *asynq.ServeMux
	store      LeadStore
	policy     cadence.Policy
	widget     *followups.Service
	sender     email.Sender
	recipients []string
	digestSize int
	log        *logger.Logger
	now        func() time.Time
}

func NewWorker(cfg *config.Config, pool *pgxpool.Pool, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	thresholds, err := cadence.LoadThresholds(cfg.GetCadencePolicyFile())
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	repo := repository.New(pool)
	mux := asynq.NewServeMux()
	w := &Worker{
		server:     server,
		mux:        mux,
		store:      repo,
		policy:     cadence.NewStandardPolicy(thresholds),
		widget:     followups.New(repo, cadence.NewPipelinePolicy()),
		sender:     sender,
		recipients: splitRecipients(cfg.GetReminderRecipient()),
		digestSize: cfg.GetFollowUpDigestSize(),
		log:        log,
		now:        time.Now,
	}

	mux.HandleFunc(TaskFollowUpReminder, w.handleFollowUpReminder)
	mux.HandleFunc(TaskFollowUpDigest, w.handleFollowUpDigest)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleFollowUpReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowUpReminderPayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	lead, err := w.store.GetByID(ctx, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		// Lead deleted since the reminder was scheduled
		return nil
	}
	if err != nil {
		return err
	}

	notes, err := w.store.ListLeadNotes(ctx, leadID)
	if err != nil {
		return err
	}

	interactions := make([]cadence.Interaction, len(notes))
	for i, note := range notes {
		interactions[i] = cadence.Interaction{Type: note.Type, OccurredAt: note.OccurredAt}
	}

	now := w.now()
	assessment, ok := w.policy.Evaluate(lead.Status, interactions, now)
	if !ok || assessment.NextActionAt.After(now) {
		// Activity since scheduling pushed the follow-up out
		return nil
	}

	if len(w.recipients) == 0 {
		return nil
	}

	data := email.ReminderData{
		LeadName:   leadDisplayName(lead),
		Status:     lead.Status,
		Urgency:    string(assessment.Priority),
		NextAction: string(assessment.NextAction),
		DueAt:      assessment.NextActionAt,
		Reason:     assessment.Reason,
	}

	for _, recipient := range w.recipients {
		if err := w.sender.SendFollowUpReminder(ctx, recipient, data); err != nil {
			return err
		}
	}

	w.log.Info("follow-up reminder sent", "leadId", leadID, "urgency", assessment.Priority)
	return nil
}

func (w *Worker) handleFollowUpDigest(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowUpDigestPayload(task)
	if err != nil {
		return err
	}

	limit := payload.Limit
	if limit <= 0 {
		limit = w.digestSize
	}

	top, err := w.widget.Top(ctx, limit)
	if err != nil {
		return err
	}
	if len(top.Items) == 0 || len(w.recipients) == 0 {
		return nil
	}

	items := make([]email.DigestItem, len(top.Items))
	for i, item := range top.Items {
		items[i] = email.DigestItem{
			LeadName:    item.LeadName,
			Status:      item.Status,
			Urgency:     item.Urgency,
			NextAction:  item.NextAction,
			OverdueDays: item.OverdueDays,
			Reason:      item.Reason,
		}
	}
	data := email.DigestData{Date: w.now(), Items: items}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(5)
	for _, recipient := range w.recipients {
		recipient := recipient
		g.Go(func() error {
			return w.sender.SendFollowUpDigest(gctx, recipient, data)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w.log.Info("follow-up digest sent", "leads", len(items), "recipients", len(w.recipients))
	return nil
}

func leadDisplayName(lead repository.Lead) string {
	name := strings.TrimSpace(lead.FirstName + " " + lead.LastName)
	if name == "" {
		name = "Unnamed lead"
	}
	return name
}

func splitRecipients(raw string) []string {
	parts := strings.Split(raw, ",")
	recipients := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}
	return recipients
}
