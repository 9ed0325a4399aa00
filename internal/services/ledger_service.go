package services

import (
	"sort"
	"strings"
	"time"

	"rentalbackend/internal/domain"
	"rentalbackend/internal/repositories"
	"rentalbackend/internal/utils"
)

// LedgerService folds payments, refunds and maintenance spend into per-day
// revenue buckets. Read-only; it never mutates booking or vehicle state.
type LedgerService struct {
	BookingRepo repositories.BookingRepo
	RefundRepo  repositories.RefundRepo
	VehicleRepo repositories.VehicleRepo
	Now         func() time.Time
}

func (s LedgerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// DayBucket is one calendar day of money movement.
type DayBucket struct {
	Date         string `json:"date"` // YYYY-MM-DD
	CashIn       int64  `json:"cash_in"`
	OnlineIn     int64  `json:"online_in"`
	TotalIn      int64  `json:"total_in"`
	Refunds      int64  `json:"refunds"`
	Maintenance  int64  `json:"maintenance"`
	MoneyOut     int64  `json:"money_out"`
	Net          int64  `json:"net"`
	Transactions int64  `json:"transactions"`
}

type RevenueSummary struct {
	TotalRevenue     int64 `json:"total_revenue"`
	TotalRefunds     int64 `json:"total_refunds"`
	MaintenanceCosts int64 `json:"maintenance_costs"`
	NetRevenue       int64 `json:"net_revenue"`
	Transactions     int64 `json:"transactions"`
}

type RevenueAnalytics struct {
	Period    string         `json:"period"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Daily     []DayBucket    `json:"daily"`
	Summary   RevenueSummary `json:"summary"`
}

type RevenueQuery struct {
	SellerID  int64
	Period    string // today | week | month | all | custom
	StartDate string // YYYY-MM-DD, custom only
	EndDate   string // YYYY-MM-DD, custom only
}

// allTimeStart bounds the "all" preset; no activity predates the platform.
var allTimeStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.Local)

// GetRevenueAnalytics aggregates one seller's fleet over a range. Named
// presets pre-fill every calendar day (charts want continuous axes); the
// all-time preset stays sparse.
func (s LedgerService) GetRevenueAnalytics(q RevenueQuery) (RevenueAnalytics, error) {
	if q.SellerID <= 0 {
		return RevenueAnalytics{}, domain.ValidationError{Field: "seller_id", Msg: "required"}
	}

	start, end, prefill, period, err := s.resolveRange(q)
	if err != nil {
		return RevenueAnalytics{}, err
	}

	payments, err := s.BookingRepo.ListPaymentsByDay(q.SellerID, start, end)
	if err != nil {
		return RevenueAnalytics{}, domain.InternalError{Err: err}
	}
	refunds, err := s.RefundRepo.ListCompletedByDay(q.SellerID, start, end)
	if err != nil {
		return RevenueAnalytics{}, domain.InternalError{Err: err}
	}
	maintenance, err := s.VehicleRepo.ListMaintenanceCosts(q.SellerID, start, end)
	if err != nil {
		return RevenueAnalytics{}, domain.InternalError{Err: err}
	}

	buckets := map[string]*DayBucket{}
	bucket := func(day time.Time) *DayBucket {
		key := utils.FormatDate(day)
		b, ok := buckets[key]
		if !ok {
			b = &DayBucket{Date: key}
			buckets[key] = b
		}
		return b
	}

	if prefill {
		for d := utils.DayStart(start); d.Before(end); d = d.AddDate(0, 0, 1) {
			bucket(d)
		}
	}

	for _, p := range payments {
		b := bucket(p.Day)
		switch p.Method {
		case "cash":
			b.CashIn += p.Amount
		default:
			b.OnlineIn += p.Amount
		}
		b.Transactions += p.Count
	}
	for _, r := range refunds {
		bucket(r.Day).Refunds += r.Amount
	}
	for _, m := range maintenance {
		bucket(m.Day).Maintenance += m.Cost
	}

	daily := make([]DayBucket, 0, len(buckets))
	var summary RevenueSummary
	for _, b := range buckets {
		b.TotalIn = b.CashIn + b.OnlineIn
		b.MoneyOut = b.Refunds + b.Maintenance
		b.Net = b.TotalIn - b.MoneyOut
		summary.TotalRevenue += b.TotalIn
		summary.TotalRefunds += b.Refunds
		summary.MaintenanceCosts += b.Maintenance
		summary.Transactions += b.Transactions
		daily = append(daily, *b)
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })
	summary.NetRevenue = summary.TotalRevenue - summary.TotalRefunds - summary.MaintenanceCosts

	return RevenueAnalytics{
		Period:    period,
		StartDate: utils.FormatDate(start),
		EndDate:   utils.FormatDate(end.AddDate(0, 0, -1)),
		Daily:     daily,
		Summary:   summary,
	}, nil
}

// resolveRange returns [start, end) plus whether to pre-fill empty days.
func (s LedgerService) resolveRange(q RevenueQuery) (time.Time, time.Time, bool, string, error) {
	today := utils.DayStart(s.now())
	period := strings.ToLower(strings.TrimSpace(q.Period))

	switch period {
	case "", "today":
		return today, today.AddDate(0, 0, 1), true, "today", nil
	case "week":
		return today.AddDate(0, 0, -6), today.AddDate(0, 0, 1), true, "week", nil
	case "month":
		return today.AddDate(0, 0, -29), today.AddDate(0, 0, 1), true, "month", nil
	case "all":
		return allTimeStart, today.AddDate(0, 0, 1), false, "all", nil
	case "custom":
		start, err := utils.ParseDate(q.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, false, "", domain.ValidationError{Field: "startDate", Msg: "expected YYYY-MM-DD"}
		}
		endDay, err := utils.ParseDate(q.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, false, "", domain.ValidationError{Field: "endDate", Msg: "expected YYYY-MM-DD"}
		}
		if endDay.Before(start) {
			return time.Time{}, time.Time{}, false, "", domain.ValidationError{Field: "endDate", Msg: "before startDate"}
		}
		return start, endDay.AddDate(0, 0, 1), true, "custom", nil
	default:
		return time.Time{}, time.Time{}, false, "", domain.ValidationError{Field: "period", Msg: "expected today, week, month, all or custom"}
	}
}
