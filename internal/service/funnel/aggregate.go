package funnel

import "github.com/octobees/whatsapp-leads/api/internal/entity"

// DailyBucket counts the leads created on one local calendar day.
type DailyBucket struct {
	Date         string `json:"date"`
	Total        int    `json:"total"`
	Completed    int    `json:"completed"`
	InProgress   int    `json:"in_progress"`
	Disqualified int    `json:"disqualified"`
}

// Totals counts leads per stage.
type Totals struct {
	Total        int `json:"total"`
	Completed    int `json:"completed"`
	InProgress   int `json:"in_progress"`
	Disqualified int `json:"disqualified"`
}

// Buckets returns one zeroed bucket per day of the range, oldest first.
func (r Range) Buckets() []DailyBucket {
	buckets := make([]DailyBucket, 0, r.Days())
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		buckets = append(buckets, DailyBucket{Date: d.Format(DateLayout)})
	}
	return buckets
}

// Aggregate folds leads into the range's daily buckets.
// A lead whose local day is not one of the range's days is dropped; no bucket is ever added.
func Aggregate(r Range, leads []entity.Lead) []DailyBucket {
	buckets := r.Buckets()
	index := make(map[string]int, len(buckets))
	for i, b := range buckets {
		index[b.Date] = i
	}

	for _, lead := range leads {
		i, ok := index[r.offset.DayKey(lead.CreatedAt)]
		if !ok {
			continue
		}
		bucket := &buckets[i]
		bucket.Total++
		switch Classify(lead.Status) {
		case StageCompleted:
			bucket.Completed++
		case StageDisqualified:
			bucket.Disqualified++
		default:
			bucket.InProgress++
		}
	}
	return buckets
}

// Count tallies leads per stage.
func Count(leads []entity.Lead) Totals {
	var totals Totals
	for _, lead := range leads {
		totals.Total++
		switch Classify(lead.Status) {
		case StageCompleted:
			totals.Completed++
		case StageDisqualified:
			totals.Disqualified++
		default:
			totals.InProgress++
		}
	}
	return totals
}
