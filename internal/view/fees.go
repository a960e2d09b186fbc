package view

import "github.com/scholarspoint/sphub-backend/internal/model"

// PendingFee is one entry in the month's recovery roster. Amount is the
// student's monthlyFee, not a stored record amount: a pending student may
// have no record at all.
type PendingFee struct {
	Student model.Student `json:"student"`
	Amount  float64       `json:"amount"`
	// Status is the display label: "pending" when a promise record exists,
	// otherwise "unpaid". Both are members of the pending roster.
	Status model.PaymentStatus `json:"status"`
}

// FeeSummary is the fee view for one (month, year).
type FeeSummary struct {
	Month        int                            `json:"month"` // 0-11
	Year         int                            `json:"year"`
	Collected    float64                        `json:"collected"`
	PendingTotal float64                        `json:"pendingTotal"`
	Pending      []PendingFee                   `json:"pending"`
	Statuses     map[string]model.PaymentStatus `json:"statuses"`
	Records      map[string]model.FeeRecord     `json:"records"`
}

// BuildFeeSummary computes the collected total, the pending roster and its
// total for active students in the given 0-based month. A student is pending
// when no record exists for the period or the record's status is not paid.
func BuildFeeSummary(state *model.AppState, month0, year int) FeeSummary {
	summary := FeeSummary{
		Month:    month0,
		Year:     year,
		Pending:  []PendingFee{},
		Statuses: map[string]model.PaymentStatus{},
		Records:  map[string]model.FeeRecord{},
	}

	byStudent := map[string]model.FeeRecord{}
	for _, f := range state.Fees {
		if f.Month != month0 || f.Year != year {
			continue
		}
		byStudent[f.StudentID] = f
		if f.Status == model.FeePaid {
			summary.Collected += f.Amount
		}
	}

	active := ActiveRoster(state.Students)
	SortByRoll(active)

	for _, s := range active {
		rec, ok := byStudent[s.ID]
		if ok {
			summary.Statuses[s.ID] = rec.Status
			summary.Records[s.ID] = rec
		} else {
			summary.Statuses[s.ID] = model.FeeUnpaid
		}

		if ok && rec.Status == model.FeePaid {
			continue
		}

		label := model.FeeUnpaid
		if ok && rec.Status == model.FeePending {
			label = model.FeePending
		}
		summary.Pending = append(summary.Pending, PendingFee{
			Student: s,
			Amount:  s.MonthlyFee,
			Status:  label,
		})
		summary.PendingTotal += s.MonthlyFee
	}

	return summary
}
