package chatlog

import (
	"context"
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aifirstlegal/masterclass-server/internal/domain/question"
	"github.com/aifirstlegal/masterclass-server/internal/utils/idgen"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

var csvHeader = []string{"Date", "Time", "Email", "Session ID", "User Message", "AI Response", "Response Time (ms)", "Tokens Used"}

// Service exposes chat-log recording, browsing and analytics.
type Service interface {
	Record(ctx context.Context, entry *Entry) error
	Search(ctx context.Context, query string) ([]*Entry, error)
	GroupByUser(entries []*Entry) []UserGroup
	ExportCSV(ctx context.Context, query string, w io.Writer) error
	Dashboard(ctx context.Context) (*Dashboard, error)
	// Purge deletes entries older than retentionDays; zero or less keeps everything.
	Purge(ctx context.Context, retentionDays int) (int64, error)
}

// DefaultService implements the Service interface.
type DefaultService struct {
	repo      Repository
	questions question.Service
	log       zerolog.Logger
	now       func() time.Time
}

// NewService creates a new chat-log service.
func NewService(repo Repository, questions question.Service, log zerolog.Logger) *DefaultService {
	return &DefaultService{
		repo:      repo,
		questions: questions,
		log:       log.With().Str("component", "chatlog-service").Logger(),
		now:       time.Now,
	}
}

func (s *DefaultService) Record(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = idgen.NewRowID()
	}
	if strings.TrimSpace(entry.UserEmail) == "" {
		entry.UserEmail = AnonymousEmail
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}
	return s.repo.Create(ctx, entry)
}

func (s *DefaultService) Search(ctx context.Context, query string) ([]*Entry, error) {
	return s.repo.Search(ctx, strings.TrimSpace(query), MaxSearchResults)
}

// GroupByUser keeps the incoming order inside each group; groups are sorted by email.
func (s *DefaultService) GroupByUser(entries []*Entry) []UserGroup {
	index := map[string]int{}
	groups := []UserGroup{}
	for _, entry := range entries {
		email := entry.UserEmail
		if email == "" {
			email = AnonymousEmail
		}
		i, ok := index[email]
		if !ok {
			i = len(groups)
			index[email] = i
			groups = append(groups, UserGroup{Email: email})
		}
		groups[i].Entries = append(groups[i].Entries, entry)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Email < groups[j].Email })
	return groups
}

func (s *DefaultService) ExportCSV(ctx context.Context, query string, w io.Writer) error {
	entries, err := s.Search(ctx, query)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "write csv header", err, "chatlog-export-csv-001")
	}
	for _, entry := range entries {
		email := entry.UserEmail
		if email == "" {
			email = AnonymousEmail
		}
		ts := entry.CreatedAt.UTC()
		row := []string{
			ts.Format("2006-01-02"),
			ts.Format("15:04:05"),
			email,
			entry.SessionID,
			entry.UserMessage,
			entry.AIResponse,
			strconv.FormatInt(entry.ResponseTimeMs, 10),
			strconv.Itoa(entry.TokensUsed),
		}
		if err := writer.Write(row); err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "write csv row", err, "chatlog-export-csv-002")
		}
	}
	writer.Flush()
	return writer.Error()
}

func (s *DefaultService) Dashboard(ctx context.Context) (*Dashboard, error) {
	dash := &Dashboard{}
	startOfDay := s.now().UTC().Truncate(24 * time.Hour)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		dash.TotalChats, err = s.repo.CountAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		dash.UniqueChatUsers, err = s.repo.CountUniqueUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		dash.UniqueSessions, err = s.repo.CountUniqueSessions(gctx)
		return err
	})
	g.Go(func() (err error) {
		dash.TodayChats, err = s.repo.CountSince(gctx, startOfDay)
		return err
	})
	g.Go(func() error {
		avg, err := s.repo.AverageResponseTime(gctx)
		if err != nil {
			return err
		}
		dash.AvgResponseTimeMs = avg.Round(0).IntPart()
		return nil
	})
	g.Go(func() (err error) {
		dash.PopularQuestions, err = s.questions.Popular(gctx, 5)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to build analytics dashboard")
	}
	if dash.PopularQuestions == nil {
		dash.PopularQuestions = []*question.PopularQuestion{}
	}
	return dash, nil
}

func (s *DefaultService) Purge(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := s.now().UTC().AddDate(0, 0, -retentionDays)
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("purged chat logs")
	}
	return deleted, nil
}
