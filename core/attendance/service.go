package attendance

import (
	"context"

	"github.com/pkg/errors"

	"github.com/shalini31102/studentApp/core"
	"github.com/shalini31102/studentApp/core/student"
)

type (
	Repository interface {
		// UpsertRecord creates the record, or replaces the status of the one stored under
		// (StudentID, Date). Stored StudentName and CreatedAt are kept on update.
		UpsertRecord(ctx context.Context, rec Record) (Record, error)
		FindByDate(ctx context.Context, date string) ([]Record, error)
		// FindInRange returns the records whose date is within [start, end] in string order.
		FindInRange(ctx context.Context, start, end string) ([]Record, error)
	}

	// Roster resolves student IDs to roster entries.
	Roster interface {
		GetByStudentIDs(ctx context.Context, ids ...string) ([]student.Student, error)
	}

	// ReportCache stores computed monthly reports.
	// A stamp identifies the cache entry of a month as of the time it was taken: Invalidate and Purge
	// move the month to a new stamp, so a report computed under an older stamp is never read again.
	ReportCache interface {
		Stamp(ctx context.Context, month, year int) (string, error)
		GetReport(ctx context.Context, stamp string) ([]ReportRow, bool, error)
		SetReport(ctx context.Context, stamp string, rows []ReportRow) error
		Invalidate(ctx context.Context, month, year int) error
		Purge(ctx context.Context) error
	}

	Service interface {
		Record(ctx context.Context, nr NewRecord) (Record, error)
		ByDate(ctx context.Context, date string) ([]Record, error)
		MonthlyReport(ctx context.Context, month, year int) ([]ReportRow, error)
	}

	service struct {
		repo   Repository
		roster Roster
		cache  ReportCache // optional
		logger core.Logger
	}
)

var _ Service = (*service)(nil)

// NewService returns the attendance service. cache may be nil.
func NewService(repo Repository, roster Roster, cache ReportCache, logger core.Logger) Service {
	return &service{
		repo:   repo,
		roster: roster,
		cache:  cache,
		logger: logger,
	}
}

func (svc *service) Record(ctx context.Context, nr NewRecord) (Record, error) {
	now := nowFunc().UTC()
	rec, err := svc.repo.UpsertRecord(ctx, Record{
		StudentID:   nr.StudentID,
		StudentName: nr.StudentName,
		Date:        nr.Date,
		Status:      nr.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return Record{}, errors.Wrap(err, "upserting record")
	}

	if svc.cache != nil {
		var cerr error
		if month, year, ok := MonthOf(rec.Date); ok {
			cerr = svc.cache.Invalidate(ctx, month, year)
		} else {
			cerr = svc.cache.Purge(ctx)
		}
		if cerr != nil {
			svc.logger.Warn("invalidating report cache", cerr)
		}
	}
	return rec, nil
}

func (svc *service) ByDate(ctx context.Context, date string) ([]Record, error) {
	date = core.CleanString(date)
	if date == "" {
		return []Record{}, nil
	}
	return svc.repo.FindByDate(ctx, date)
}

// MonthlyReport returns an empty report for an invalid month or year.
func (svc *service) MonthlyReport(ctx context.Context, month, year int) ([]ReportRow, error) {
	start, end, ok := MonthRange(month, year)
	if !ok {
		return []ReportRow{}, nil
	}

	// the stamp is taken before reading the store so that a concurrent Record leaves the result unreachable
	stamp := svc.reportStamp(ctx, month, year)
	if stamp != "" {
		rows, found, err := svc.cache.GetReport(ctx, stamp)
		if err != nil {
			svc.logger.Warn("reading report cache", err)
		} else if found {
			return rows, nil
		}
	}

	records, err := svc.repo.FindInRange(ctx, start, end)
	if err != nil {
		return nil, errors.Wrap(err, "finding records in range")
	}
	groups := tallyRecords(records)
	rows := []ReportRow{}
	if len(groups) > 0 {
		roster, err := svc.roster.GetByStudentIDs(ctx, studentIDs(groups)...)
		if err != nil {
			return nil, errors.Wrap(err, "getting roster entries")
		}
		rows = joinRoster(groups, roster)
	}

	if stamp != "" {
		if err := svc.cache.SetReport(ctx, stamp, rows); err != nil {
			svc.logger.Warn("writing report cache", err)
		}
	}
	return rows, nil
}

// reportStamp returns "" when caching is disabled or unavailable.
func (svc *service) reportStamp(ctx context.Context, month, year int) string {
	if svc.cache == nil {
		return ""
	}
	stamp, err := svc.cache.Stamp(ctx, month, year)
	if err != nil {
		svc.logger.Warn("reading report cache stamp", err)
		return ""
	}
	return stamp
}
