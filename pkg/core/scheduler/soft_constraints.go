package scheduler

import (
	"cmp"
	"slices"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
)

// ScoreWeights controls the soft constraint contributions.
// Penalties are stored as positive magnitudes and subtracted.
type ScoreWeights struct {
	BaseScore             float64
	AgePriorityMultiplier float64
	VarietyPenalty        float64
	VarietyBonus          float64
	SocialGroupingBonus   float64
	FavoriteAreaBonus     float64
	AvoidAreaPenalty      float64
	TravelFitBonus        float64
	TravelMissPenalty     float64
	UtilizationBonus      float64
	UtilizationPenalty    float64
}

// DefaultWeights returns the standard scoring weights
func DefaultWeights() ScoreWeights {
	return ScoreWeights{
		BaseScore:             100,
		AgePriorityMultiplier: 10,
		VarietyPenalty:        20,
		VarietyBonus:          15,
		SocialGroupingBonus:   25,
		FavoriteAreaBonus:     30,
		AvoidAreaPenalty:      50,
		TravelFitBonus:        10,
		TravelMissPenalty:     15,
		UtilizationBonus:      20,
		UtilizationPenalty:    30,
	}
}

// ScoreBreakdown holds each soft constraint's contribution to an area's score
type ScoreBreakdown struct {
	Base        float64
	AgePriority float64
	Variety     float64
	Social      float64
	Preference  float64
	TravelTime  float64
	Utilization float64
	Weather     float64
}

// Total sums the contributions. The total is never negative.
func (b ScoreBreakdown) Total() float64 {
	total := b.Base + b.AgePriority + b.Variety + b.Social + b.Preference + b.TravelTime + b.Utilization + b.Weather
	return max(0, total)
}

// Ranker scores legal areas for a cabin and orders them by desirability
type Ranker struct {
	weights               ScoreWeights
	allowedTransitionTime int
	agePriorities         []AgeGroupPriority
	utilizationGoals      []UtilizationGoal
}

// NewRanker creates a ranker from the scheduling options
func NewRanker(opts Options) *Ranker {
	return &Ranker{
		weights:               opts.weights(),
		allowedTransitionTime: opts.AllowedTransitionTime,
		agePriorities:         opts.AgeGroupPriorities,
		utilizationGoals:      opts.AreaUtilizationGoals,
	}
}

// Score returns the desirability of placing the cabin in the area for the period
func (r *Ranker) Score(area model.ActivityArea, cabin model.Cabin, period model.Period, state *ScheduleState) float64 {
	return r.Breakdown(area, cabin, period, state).Total()
}

// Breakdown computes every soft constraint contribution independently
func (r *Ranker) Breakdown(area model.ActivityArea, cabin model.Cabin, period model.Period, state *ScheduleState) ScoreBreakdown {
	return ScoreBreakdown{
		Base:        r.weights.BaseScore,
		AgePriority: r.agePriorityScore(area, cabin),
		Variety:     r.varietyScore(area, cabin, period, state),
		Social:      r.socialGroupingScore(area, cabin, period, state),
		Preference:  r.preferenceScore(area, cabin),
		TravelTime:  r.travelTimeScore(area, cabin, period, state),
		Utilization: r.utilizationGoalScore(area, period, state),
		Weather:     weatherScore(area),
	}
}

// Rank orders candidate areas by score, highest first. Ties keep their input order.
func (r *Ranker) Rank(candidates []model.ActivityArea, cabin model.Cabin, period model.Period, state *ScheduleState) []model.ActivityArea {
	type scoredArea struct {
		area  model.ActivityArea
		score float64
	}

	scored := make([]scoredArea, 0, len(candidates))
	for _, area := range candidates {
		scored = append(scored, scoredArea{area: area, score: r.Score(area, cabin, period, state)})
	}

	slices.SortStableFunc(scored, func(a, b scoredArea) int {
		return cmp.Compare(b.score, a.score)
	})

	ranked := make([]model.ActivityArea, len(scored))
	for i, s := range scored {
		ranked[i] = s.area
	}
	return ranked
}

func (r *Ranker) agePriorityScore(area model.ActivityArea, cabin model.Cabin) float64 {
	for _, p := range r.agePriorities {
		if p.AgeGroup == cabin.AgeGroup && p.AreaID == area.ID {
			return float64(p.Priority) * r.weights.AgePriorityMultiplier
		}
	}
	return 0
}

// varietyScore looks at the cabin's assignments from the last two days up to and including today.
// A penalty applies when the most recent of them shares the candidate's category,
// and a bonus when none of them used it. Both may apply.
func (r *Ranker) varietyScore(area model.ActivityArea, cabin model.Cabin, period model.Period, state *ScheduleState) float64 {
	var recent []model.Assignment
	for _, a := range state.CabinHistory(cabin.ID) {
		if a.Day >= period.Day-VarietyWindowDays && a.Day <= period.Day {
			recent = append(recent, a)
		}
	}

	score := 0.0
	if len(recent) > 0 {
		last, ok := state.Area(recent[len(recent)-1].AreaID)
		if ok && last.Category == area.Category {
			score -= r.weights.VarietyPenalty
		}
	}

	usedCategory := slices.ContainsFunc(recent, func(a model.Assignment) bool {
		used, ok := state.Area(a.AreaID)
		return ok && used.Category == area.Category
	})
	if !usedCategory {
		score += r.weights.VarietyBonus
	}

	return score
}

func (r *Ranker) socialGroupingScore(area model.ActivityArea, cabin model.Cabin, period model.Period, state *ScheduleState) float64 {
	score := 0.0
	for _, partnerID := range cabin.SocialGroups {
		if state.IsCabinInArea(partnerID, area.ID, period.Day, period.ID) {
			score += r.weights.SocialGroupingBonus
		}
	}
	return score
}

func (r *Ranker) preferenceScore(area model.ActivityArea, cabin model.Cabin) float64 {
	score := 0.0
	if slices.Contains(cabin.Preferences.FavoriteAreas, area.ID) {
		score += r.weights.FavoriteAreaBonus
	}
	if slices.Contains(cabin.Preferences.AvoidAreas, area.ID) {
		score -= r.weights.AvoidAreaPenalty
	}
	return score
}

func (r *Ranker) travelTimeScore(area model.ActivityArea, cabin model.Cabin, period model.Period, state *ScheduleState) float64 {
	travel, ok := travelTimeFromLastArea(cabin, area, period, state)
	if !ok {
		return 0
	}
	if travel <= r.allowedTransitionTime {
		return r.weights.TravelFitBonus
	}
	return -r.weights.TravelMissPenalty
}

func (r *Ranker) utilizationGoalScore(area model.ActivityArea, period model.Period, state *ScheduleState) float64 {
	idx := slices.IndexFunc(r.utilizationGoals, func(g UtilizationGoal) bool {
		return g.AreaID == area.ID
	})
	if idx < 0 {
		return 0
	}

	target := float64(area.MaxCapacity) * DefaultUtilizationTargetRatio
	if goal := r.utilizationGoals[idx]; goal.TargetUtilization != nil {
		target = *goal.TargetUtilization
	}

	current := state.Utilization(area.ID, period.Day, period.ID)
	switch {
	case float64(current) < target:
		return r.weights.UtilizationBonus
	case current >= area.MaxCapacity:
		return -r.weights.UtilizationPenalty
	default:
		return 0
	}
}

// weatherScore is a placeholder until a weather feed exists
func weatherScore(area model.ActivityArea) float64 {
	if !area.WeatherSensitive {
		return 0
	}
	return 0
}
