package scheduler

import (
	"context"
	"time"

	"go-placement/internal/config"
	"go-placement/internal/database"
	"go-placement/internal/features/ticket"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const escalationLockKey = "escalation:pass:lock"

// EscalationRun is one scheduler execution, recorded for operators.
type EscalationRun struct {
	StartedAt  time.Time `bson:"started_at" json:"started_at"`
	FinishedAt time.Time `bson:"finished_at" json:"finished_at"`
	DurationMs int64     `bson:"duration_ms" json:"duration_ms"`
	Scanned    int       `bson:"scanned" json:"scanned"`
	Escalated  int       `bson:"escalated" json:"escalated"`
	Skipped    int       `bson:"skipped" json:"skipped"`
	Failed     int       `bson:"failed" json:"failed"`
	Error      string    `bson:"error,omitempty" json:"error,omitempty"`
}

// Scheduler runs the escalation pass on a fixed cron schedule.
type Scheduler struct {
	cron       *cron.Cron
	escalation ticket.EscalationService
	redis      *database.Redis
	runs       *mongo.Collection
	cfg        *config.Config
	logger     *zap.Logger
}

func NewScheduler(
	escalation ticket.EscalationService,
	redis *database.Redis,
	db *database.MongodbDB,
	cfg *config.Config,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		escalation: escalation,
		redis:      redis,
		runs:       db.DB.Collection("escalation_runs"),
		cfg:        cfg,
		logger:     logger,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.EscalationSchedule, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("escalation scheduler started",
		zap.String("schedule", s.cfg.EscalationSchedule),
		zap.Int("ageHours", s.cfg.EscalationAgeHours))
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("escalation scheduler stopped")
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if !s.acquireLock(ctx) {
		s.logger.Info("escalation pass skipped, another instance holds the lock")
		return
	}
	defer s.releaseLock()

	start := time.Now()
	result, err := s.escalation.RunEscalationPass(ctx, start)

	run := EscalationRun{
		StartedAt:  start,
		FinishedAt: time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
		Scanned:    result.Scanned,
		Escalated:  result.Escalated,
		Skipped:    result.Skipped,
		Failed:     result.Failed,
	}
	if err != nil {
		run.Error = err.Error()
		s.logger.Error("escalation pass failed", zap.Error(err))
	}

	if _, ierr := s.runs.InsertOne(ctx, run); ierr != nil {
		s.logger.Error("failed to record escalation run", zap.Error(ierr))
	}
}

// acquireLock takes a best-effort distributed lock so overlapping instances
// do not both scan. If Redis is unreachable the pass proceeds anyway; the
// guarded escalation flag keeps the result correct either way.
func (s *Scheduler) acquireLock(ctx context.Context) bool {
	if s.redis == nil || s.redis.Client == nil {
		return true
	}
	ok, err := s.redis.Client.SetNX(ctx, escalationLockKey, "1", 10*time.Minute).Result()
	if err != nil {
		s.logger.Warn("escalation lock unavailable, proceeding without it", zap.Error(err))
		return true
	}
	return ok
}

func (s *Scheduler) releaseLock() {
	if s.redis == nil || s.redis.Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.redis.Client.Del(ctx, escalationLockKey).Err(); err != nil {
		s.logger.Warn("failed to release escalation lock", zap.Error(err))
	}
}
