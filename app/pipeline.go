package app

import (
	"context"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	models "bazaar-radar/database/models_pkg"
)

// UserStore is the user persistence the pipeline depends on.
type UserStore interface {
	ActiveUsers(ctx context.Context) ([]models.User, error)
	ActiveKeywords(ctx context.Context, userID uint) ([]models.TrackedKeyword, error)
}

// AlertStore is the alert persistence the pipeline depends on.
type AlertStore interface {
	OpenAlerts(ctx context.Context, userID uint) ([]models.Alert, error)
	SaveBatch(ctx context.Context, batch []*models.Alert) error
}

// SignalStore records signal history for later analysis.
type SignalStore interface {
	RecordRun(ctx context.Context, records []models.DemandSignal) error
}

// AlertSink receives alerts after they are committed. Sinks deliver
// best-effort: websocket broadcast, webhook fan-out.
type AlertSink interface {
	AlertCreated(alert *models.Alert)
}

// Pipeline wires the per-run stages together: collect signals, evaluate
// rules, score, deduplicate, persist, notify.
type Pipeline struct {
	collector *Collector
	detector  *DemandDetector
	advisor   *PromotionTimingAdvisor
	scorer    *OpportunityScorer
	dedup     *Deduplicator

	users   UserStore
	alerts  AlertStore
	signals SignalStore
	sinks   []AlertSink

	logger *zap.SugaredLogger
}

// NewPipeline creates the alert pipeline. sinks may be empty.
func NewPipeline(
	collector *Collector,
	detector *DemandDetector,
	advisor *PromotionTimingAdvisor,
	scorer *OpportunityScorer,
	dedup *Deduplicator,
	users UserStore,
	alerts AlertStore,
	signals SignalStore,
	sinks []AlertSink,
	logger *zap.SugaredLogger,
) *Pipeline {
	return &Pipeline{
		collector: collector,
		detector:  detector,
		advisor:   advisor,
		scorer:    scorer,
		dedup:     dedup,
		users:     users,
		alerts:    alerts,
		signals:   signals,
		sinks:     sinks,
		logger:    logger,
	}
}

// RunForUser executes one full pipeline pass for a single user and returns
// the alerts committed by this run. Persistence is all-or-nothing per user:
// if the batch fails to commit, zero alerts are reported and the candidates
// regenerate on the next run.
func (p *Pipeline) RunForUser(ctx context.Context, user *models.User) ([]models.Alert, error) {
	runID := uuid.NewString()
	now := time.Now()
	log := p.logger.With("run_id", runID, "user_id", user.ID)

	tracked, err := p.users.ActiveKeywords(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "RunForUser")
	}
	keywords := make([]string, 0, len(tracked))
	for _, kw := range tracked {
		keywords = append(keywords, kw.Keyword)
	}

	snap := p.collector.Collect(ctx, user, keywords)

	candidates := p.detector.Detect(user, keywords, snap, now)
	candidates = append(candidates, p.advisor.Advise(user, keywords, snap, now)...)
	log.Infow("rule evaluation finished", "candidates", len(candidates))

	for i := range candidates {
		opp := p.scorer.Score(p.featuresFor(candidates[i].Keyword, snap, now))
		candidates[i].Opportunity = &opp
	}

	open, err := p.alerts.OpenAlerts(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "RunForUser")
	}
	survivors, suppressed := p.dedup.Filter(open, candidates)

	batch := make([]*models.Alert, 0, len(survivors))
	for i := range survivors {
		alert, err := survivors[i].ToAlert()
		if err != nil {
			log.Warnw("dropping invalid candidate", "type", survivors[i].Type, "error", err)
			continue
		}
		batch = append(batch, alert)
	}

	if err := p.alerts.SaveBatch(ctx, batch); err != nil {
		log.Errorw("alert batch commit failed", "batch_size", len(batch), "error", err)
		return nil, errors.Wrap(err, "RunForUser")
	}

	if err := p.signals.RecordRun(ctx, p.signalRecords(user, keywords, snap, now)); err != nil {
		log.Warnw("signal history record failed", "error", err)
	}

	created := make([]models.Alert, 0, len(batch))
	for _, alert := range batch {
		created = append(created, *alert)
		for _, sink := range p.sinks {
			sink.AlertCreated(alert)
		}
	}

	log.Infow("pipeline run finished",
		"candidates", len(candidates),
		"suppressed", suppressed,
		"created", len(created))
	return created, nil
}

// RunForAllActiveUsers runs the pipeline for every active user. Users are
// isolated from each other: a failure or panic in one user's run never
// affects the rest.
func (p *Pipeline) RunForAllActiveUsers(ctx context.Context) (int, error) {
	users, err := p.users.ActiveUsers(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "RunForAllActiveUsers")
	}

	total := 0
	for i := range users {
		created := p.runIsolated(ctx, &users[i])
		total += created
	}

	p.logger.Infow("scheduled pipeline sweep finished", "users", len(users), "alerts_created", total)
	return total, nil
}

// runIsolated runs one user's pipeline pass and converts panics and errors
// into a zero-alert result.
func (p *Pipeline) runIsolated(ctx context.Context, user *models.User) (created int) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Errorw("pipeline run panicked", "user_id", user.ID, "panic", r)
			created = 0
		}
	}()

	alerts, err := p.RunForUser(ctx, user)
	if err != nil {
		p.logger.Errorw("pipeline run failed", "user_id", user.ID, "error", err)
		return 0
	}
	return len(alerts)
}

// featuresFor assembles the scorer inputs for one candidate from the
// snapshot: the keyword's trend score, the nearest forecast hour and
// whether a holiday falls within the next week.
func (p *Pipeline) featuresFor(keyword *string, snap *SignalSnapshot, now time.Time) Features {
	var f Features

	if keyword != nil {
		if trend, ok := snap.TrendFor(*keyword); ok {
			score := trend.Score
			f.TrendScore = &score
		}
	}
	if len(snap.Forecast) > 0 {
		temp := snap.Forecast[0].Temperature
		rain := snap.Forecast[0].RainProbability
		f.Temperature = &temp
		f.RainProbability = &rain
	}
	for _, holiday := range snap.Holidays {
		if !holiday.Date.After(now.AddDate(0, 0, 7)) {
			f.IsHoliday = true
			break
		}
	}
	return f
}

// signalRecords converts the snapshot into history rows, one per tracked
// keyword.
func (p *Pipeline) signalRecords(user *models.User, keywords []string, snap *SignalSnapshot, now time.Time) []models.DemandSignal {
	city := user.City()

	var temp, rain *float64
	if len(snap.Forecast) > 0 {
		t := snap.Forecast[0].Temperature
		r := snap.Forecast[0].RainProbability
		temp, rain = &t, &r
	}

	isHoliday := false
	var holidayName *string
	for _, holiday := range snap.Holidays {
		if !holiday.Date.After(now.AddDate(0, 0, 7)) {
			isHoliday = true
			name := holiday.Name
			holidayName = &name
			break
		}
	}

	records := make([]models.DemandSignal, 0, len(keywords))
	for _, keyword := range keywords {
		record := models.DemandSignal{
			Timestamp:       now,
			City:            city,
			Keyword:         keyword,
			Temperature:     temp,
			RainProbability: rain,
			IsHoliday:       isHoliday,
			HolidayName:     holidayName,
		}
		if trend, ok := snap.TrendFor(keyword); ok {
			score := trend.Score
			record.SearchTrendScore = &score
		}
		records = append(records, record)
	}
	return records
}
