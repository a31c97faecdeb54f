package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/lumenlms/lumen-backend/internal/content"
	"github.com/lumenlms/lumen-backend/internal/model"
)

// ReportingThresholdPercent is the pass threshold used by admin analytics.
// It is intentionally lower than quiz.GatingThresholdPercent (80): content
// gating is stricter than reporting, and the two constants must stay
// distinct.
const ReportingThresholdPercent = 70

// signupWindow is the trailing window counted as "recent" in the overview.
const signupWindow = 7 * 24 * time.Hour

// Overview is the top-level analytics rollup.
type Overview struct {
	TotalAccounts    int `json:"total_accounts"`
	TotalAttempts    int `json:"total_attempts"`
	MeanPercentage   int `json:"mean_percentage"`
	RecentSignups    int `json:"recent_signups"`
	AccountsLoggedIn int `json:"accounts_logged_in"`
}

// ModuleStats aggregates the result log for one module.
type ModuleStats struct {
	ModuleID       string `json:"module_id"`
	Attempts       int    `json:"attempts"`
	MeanPercentage int    `json:"mean_percentage"`
	PassRate       int    `json:"pass_rate"`
}

// TabularHeader is the contractual column order of the tabular export.
var TabularHeader = []string{"Date", "Identifier", "Module", "Score", "Percentage", "Status"}

// AnalyticsService provides read-only admin rollups over the account table
// and the quiz-result log. Every operation is gated by RequireAdmin.
type AnalyticsService struct {
	identity *IdentityService
	progress *ProgressService
	catalog  *content.Catalog
	log      zerolog.Logger
	now      func() time.Time
}

// NewAnalyticsService creates an AnalyticsService over the identity and
// progress services.
func NewAnalyticsService(identity *IdentityService, progress *ProgressService, catalog *content.Catalog, log zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{
		identity: identity,
		progress: progress,
		catalog:  catalog,
		log:      log.With().Str("component", "analytics_service").Logger(),
		now:      time.Now,
	}
}

// Overview returns platform-wide counts. Mean percentage is zero when there
// are no attempts at all.
func (s *AnalyticsService) Overview(ctx context.Context, sess *model.Session) (*Overview, error) {
	if err := s.identity.RequireAdmin(sess); err != nil {
		return nil, err
	}

	accounts, err := s.identity.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	results, err := s.progress.AllResults(ctx)
	if err != nil {
		return nil, err
	}

	sum := 0
	for _, r := range results {
		sum += r.Percentage
	}
	mean := 0
	if len(results) > 0 {
		mean = roundDiv(sum, len(results))
	}

	cutoff := s.now().UTC().Add(-signupWindow)
	recent, loggedIn := 0, 0
	for _, a := range accounts {
		if !a.CreatedAt.Before(cutoff) {
			recent++
		}
		if a.LastLoginAt != nil {
			loggedIn++
		}
	}

	return &Overview{
		TotalAccounts:    len(accounts),
		TotalAttempts:    len(results),
		MeanPercentage:   mean,
		RecentSignups:    recent,
		AccountsLoggedIn: loggedIn,
	}, nil
}

// PerModuleStats aggregates every module observed in the result log:
// attempts, rounded mean percentage and pass rate at the reporting threshold.
func (s *AnalyticsService) PerModuleStats(ctx context.Context, sess *model.Session) ([]ModuleStats, error) {
	if err := s.identity.RequireAdmin(sess); err != nil {
		return nil, err
	}

	results, err := s.progress.AllResults(ctx)
	if err != nil {
		return nil, err
	}

	type agg struct {
		attempts int
		pctSum   int
		passes   int
	}
	byModule := make(map[string]*agg)
	for _, r := range results {
		id := s.moduleFor(r)
		a, ok := byModule[id]
		if !ok {
			a = &agg{}
			byModule[id] = a
		}
		a.attempts++
		a.pctSum += r.Percentage
		if r.Percentage >= ReportingThresholdPercent {
			a.passes++
		}
	}

	stats := make([]ModuleStats, 0, len(byModule))
	for id, a := range byModule {
		stats = append(stats, ModuleStats{
			ModuleID:       id,
			Attempts:       a.attempts,
			MeanPercentage: roundDiv(a.pctSum, a.attempts),
			PassRate:       roundPercent(a.passes, a.attempts),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].ModuleID < stats[j].ModuleID })
	return stats, nil
}

// ExportTabular flattens the result log into ordered rows under
// TabularHeader. Writing the rows to a CSV sink is the transport's concern.
func (s *AnalyticsService) ExportTabular(ctx context.Context, sess *model.Session) ([][]string, error) {
	if err := s.identity.RequireAdmin(sess); err != nil {
		return nil, err
	}

	accounts, err := s.identity.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	usernames := make(map[string]string, len(accounts))
	for _, a := range accounts {
		usernames[a.ID] = a.Username
	}

	results, err := s.progress.AllResults(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool { return results[i].CompletedAt.Before(results[j].CompletedAt) })

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		identifier := usernames[r.AccountID]
		if identifier == "" {
			identifier = r.AccountID
		}
		status := "Fail"
		if r.Percentage >= ReportingThresholdPercent {
			status = "Pass"
		}
		rows = append(rows, []string{
			r.CompletedAt.UTC().Format("2006-01-02"),
			identifier,
			s.moduleFor(r),
			fmt.Sprintf("%d/%d", r.Score, r.TotalQuestions),
			fmt.Sprintf("%d%%", r.Percentage),
			status,
		})
	}
	return rows, nil
}

// moduleFor resolves a result's module through the catalog, falling back to
// the quiz ID for content no longer in the catalog.
func (s *AnalyticsService) moduleFor(r model.QuizResult) string {
	if _, m, ok := s.catalog.Lesson(r.LessonID); ok {
		return m.ID
	}
	return r.QuizID
}
