package availability

import (
	"time"

	"github.com/Tejayenduri9/biryani-boys-backend/pkg/config"
)

// OrderDay is one delivery day currently open for orders. Derived fresh from
// wall-clock time on each query; never persisted.
type OrderDay struct {
	Label string    `json:"label"`
	Date  string    `json:"date"`
	At    time.Time `json:"-"`
}

// Policy computes which delivery days are orderable right now. Deliveries run
// on Friday and Saturday with a same-day cutoff; both come from config.
type Policy struct {
	cutoffHour   int
	cutoffMinute int
	loc          *time.Location
}

func NewPolicy(cfg config.DeliveryConfig) (*Policy, error) {
	hour, minute, err := cfg.CutoffClock()
	if err != nil {
		return nil, err
	}
	return &Policy{
		cutoffHour:   hour,
		cutoffMinute: minute,
		loc:          cfg.Location(),
	}, nil
}

// ComputeAvailableDays returns the orderable days for the given instant,
// earliest first.
//
//   - Friday before cutoff: this Friday and this Saturday
//   - Friday at/after cutoff: this Saturday only
//   - Saturday before cutoff: this Saturday only
//   - Saturday at/after cutoff: next Friday and next Saturday
//   - any other day: next Friday and next Saturday
func (p *Policy) ComputeAvailableDays(now time.Time) []OrderDay {
	local := now.In(p.loc)
	beforeCutoff := p.beforeCutoff(local)

	switch local.Weekday() {
	case time.Friday:
		if beforeCutoff {
			return []OrderDay{
				p.orderDay("Friday", local, time.Friday, beforeCutoff),
				p.orderDay("Saturday", local, time.Saturday, beforeCutoff),
			}
		}
		return []OrderDay{
			p.orderDay("Saturday", local, time.Saturday, beforeCutoff),
		}
	case time.Saturday:
		if beforeCutoff {
			return []OrderDay{
				p.orderDay("Saturday", local, time.Saturday, beforeCutoff),
			}
		}
		return []OrderDay{
			p.orderDay("Next Friday", local, time.Friday, beforeCutoff),
			p.orderDay("Next Saturday", local, time.Saturday, beforeCutoff),
		}
	default:
		return []OrderDay{
			p.orderDay("Next Friday", local, time.Friday, beforeCutoff),
			p.orderDay("Next Saturday", local, time.Saturday, beforeCutoff),
		}
	}
}

// IsOffered reports whether the given label and date match a day the policy
// currently offers.
func (p *Policy) IsOffered(now time.Time, label, date string) bool {
	for _, day := range p.ComputeAvailableDays(now) {
		if day.Label == label && day.Date == date {
			return true
		}
	}
	return false
}

func (p *Policy) beforeCutoff(local time.Time) bool {
	cutoff := time.Date(local.Year(), local.Month(), local.Day(), p.cutoffHour, p.cutoffMinute, 0, 0, p.loc)
	return local.Before(cutoff)
}

// orderDay resolves the next calendar date for the target weekday and stamps
// it to the cutoff clock time for display.
func (p *Policy) orderDay(label string, local time.Time, target time.Weekday, beforeCutoff bool) OrderDay {
	days := (int(target) - int(local.Weekday()) + 7) % 7
	// Landing on today with the cutoff already passed rolls forward a week.
	if days == 0 && !beforeCutoff {
		days = 7
	}
	date := local.AddDate(0, 0, days)
	at := time.Date(date.Year(), date.Month(), date.Day(), p.cutoffHour, p.cutoffMinute, 0, 0, p.loc)
	return OrderDay{
		Label: label,
		Date:  at.Format("Jan 2, 2006"),
		At:    at,
	}
}
