package funnel

import (
	"math"
	"strings"

	"github.com/octobees/whatsapp-leads/api/internal/entity"
)

// CheckpointKeys are the store columns of the ordered funnel milestones.
var CheckpointKeys = [entity.CheckpointCount]string{
	"t1", "t2", "t3", "t4", "t5", "t6", "t7", "t8", "t9", "t10", "t11", "t12",
}

// Step is the share of all leads that reached a checkpoint.
type Step struct {
	Question   string `json:"question"`
	Checkpoint int    `json:"checkpoint"`
	Count      int    `json:"count"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

// Conversion is the share of leads at the previous checkpoint that also reached this one.
type Conversion struct {
	Question      string `json:"question"`
	Checkpoint    int    `json:"checkpoint"`
	Count         int    `json:"count"`
	PreviousCount int    `json:"previous_count"`
	Percentage    int    `json:"percentage"`
}

// Report holds both views of the funnel, in checkpoint order.
type Report struct {
	Funnel         []Step       `json:"funnel"`
	StepConversion []Conversion `json:"step_conversion"`
}

// Compute builds the funnel and step conversion for the given leads.
// Only a JSON boolean true marks a checkpoint as reached.
func Compute(leads []entity.Lead) Report {
	total := len(leads)

	var counts [entity.CheckpointCount]int
	for _, lead := range leads {
		for i := range lead.Checkpoints {
			if lead.Checkpoints[i].StrictTrue() {
				counts[i]++
			}
		}
	}

	report := Report{
		Funnel:         make([]Step, 0, entity.CheckpointCount),
		StepConversion: make([]Conversion, 0, entity.CheckpointCount),
	}
	for i, key := range CheckpointKeys {
		question := strings.ToUpper(key)
		report.Funnel = append(report.Funnel, Step{
			Question:   question,
			Checkpoint: i + 1,
			Count:      counts[i],
			Total:      total,
			Percentage: Percent(counts[i], total),
		})

		previous := total
		if i > 0 {
			previous = counts[i-1]
		}
		report.StepConversion = append(report.StepConversion, Conversion{
			Question:      question,
			Checkpoint:    i + 1,
			Count:         counts[i],
			PreviousCount: previous,
			Percentage:    Percent(counts[i], previous),
		})
	}
	return report
}

// Percent returns part/whole as a whole percentage rounded half up and bounded to [0,100].
// A zero or negative whole yields 0.
func Percent(part, whole int) int {
	if whole <= 0 || part <= 0 {
		return 0
	}
	pct := int(math.Floor(float64(part)*100/float64(whole) + 0.5))
	if pct > 100 {
		return 100
	}
	return pct
}
