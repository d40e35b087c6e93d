package report

import (
	"time"

	"github.com/solepos/backend/internal/domain/report"
	"github.com/solepos/backend/internal/domain/shared"
)

// ReportFilter bounds a report by bill date (inclusive, YYYY-MM-DD)
type ReportFilter struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

func (f ReportFilter) query() (report.Query, error) {
	var q report.Query
	if f.From != "" {
		from, err := time.Parse(time.DateOnly, f.From)
		if err != nil {
			return q, shared.NewDomainError("INVALID_INPUT", "from must be YYYY-MM-DD")
		}
		q.From = &from
	}
	if f.To != "" {
		to, err := time.Parse(time.DateOnly, f.To)
		if err != nil {
			return q, shared.NewDomainError("INVALID_INPUT", "to must be YYYY-MM-DD")
		}
		end := to.Add(24*time.Hour - time.Nanosecond)
		q.To = &end
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return q, shared.NewDomainError("INVALID_INPUT", "to cannot be before from")
	}
	return q, nil
}

// cacheKey identifies the filter within one cache generation
func (f ReportFilter) cacheKey() string {
	return f.From + ".." + f.To
}
