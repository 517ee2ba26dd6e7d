package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sakif/exercise-tracker/internal/apperror"
	"github.com/sakif/exercise-tracker/internal/metrics"
	"github.com/sakif/exercise-tracker/internal/model"
	"github.com/sakif/exercise-tracker/internal/repository"
)

// LogService answers log queries.
type LogService struct {
	users   repository.UserRepository
	logs    repository.LogRepository
	logger  *slog.Logger
	metrics metrics.Recorder
}

func NewLogService(
	users repository.UserRepository,
	logs repository.LogRepository,
	logger *slog.Logger,
	rec metrics.Recorder,
) *LogService {
	return &LogService{
		users:   users,
		logs:    logs,
		logger:  logger,
		metrics: rec,
	}
}

// ParseLogFilter validates raw from/to/limit query values. Empty values are
// ignored. limit=0 means no limit.
func ParseLogFilter(from, to, limit string) (model.LogFilter, error) {
	var filter model.LogFilter

	if from = strings.TrimSpace(from); from != "" {
		t, ok := ParseDate(from)
		if !ok {
			return filter, apperror.InvalidQuery("from", "from must be a date in YYYY-MM-DD format")
		}
		filter.From = &t
	}

	if to = strings.TrimSpace(to); to != "" {
		t, ok := ParseDate(to)
		if !ok {
			return filter, apperror.InvalidQuery("to", "to must be a date in YYYY-MM-DD format")
		}
		filter.To = &t
	}

	if limit = strings.TrimSpace(limit); limit != "" {
		n, ok := atoiDigits(limit)
		if !ok {
			return filter, apperror.InvalidQuery("limit", "limit must be a non-negative integer")
		}
		filter.Limit = n
	}

	return filter, nil
}

// GetFullLog returns every entry of the user's log in stored order, with the
// log's own count.
func (s *LogService) GetFullLog(ctx context.Context, userID string) (*model.LogReport, error) {
	user, log, err := s.load(ctx, userID, model.LogFilter{})
	if err != nil {
		return nil, err
	}

	report := newReport(user, log.Exercises)
	report.Count = log.Count
	s.metrics.RecordLogQuery(false, len(report.Log))
	return report, nil
}

// GetFilteredLog applies from (inclusive), to (exclusive) and limit, in that
// order, keeping stored order. Count is the number of entries returned.
// Without any filter it behaves like GetFullLog.
func (s *LogService) GetFilteredLog(ctx context.Context, userID, from, to, limit string) (*model.LogReport, error) {
	filter, err := ParseLogFilter(from, to, limit)
	if err != nil {
		return nil, err
	}
	if filter.IsZero() {
		return s.GetFullLog(ctx, userID)
	}

	user, log, err := s.load(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	report := newReport(user, log.Exercises)
	s.metrics.RecordLogQuery(true, len(report.Log))
	s.logger.Debug("filtered log query",
		slog.String("user_id", user.ID),
		slog.Bool("from", filter.From != nil),
		slog.Bool("to", filter.To != nil),
		slog.String("limit", formatLimit(filter)),
		slog.Int("entries", report.Count),
	)
	return report, nil
}

// load fetches the user, then its log narrowed by filter; either missing is
// ErrNotFound.
func (s *LogService) load(ctx context.Context, userID string, filter model.LogFilter) (*model.User, *model.Log, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil, apperror.ValidationFailed("id", "user ID is required")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, storeFailure(s.logger, "looking up user", err, slog.String("user_id", userID))
	}

	log, err := s.logs.GetLog(ctx, user.ID, filter)
	if err != nil {
		return nil, nil, storeFailure(s.logger, "getting log", err, slog.String("user_id", userID))
	}
	return user, log, nil
}

func newReport(user *model.User, exercises []model.Exercise) *model.LogReport {
	entries := make([]model.LogEntry, 0, len(exercises))
	for i := range exercises {
		entries = append(entries, exercises[i].Entry())
	}
	return &model.LogReport{
		ID:       user.ID,
		Username: user.Username,
		Count:    len(entries),
		Log:      entries,
	}
}

// formatLimit is used in log lines only.
func formatLimit(filter model.LogFilter) string {
	if filter.Limit <= 0 {
		return "none"
	}
	return strconv.Itoa(filter.Limit)
}
