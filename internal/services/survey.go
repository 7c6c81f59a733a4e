package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/aymerigermain/dashboard-acadi/internal/config"
	"github.com/aymerigermain/dashboard-acadi/internal/models"
)

// SurveyResult bundles the aggregates derived from the satisfaction
// sheet. Decoupled from the weekly series on purpose: testimonials and
// satisfaction are reported globally, not per week.
type SurveyResult struct {
	Satisfaction models.Satisfaction
	NPS          models.NPS
	Survey       models.Survey
}

// EmptySurveyResult is what callers get when the satisfaction sheet is
// not configured or has no data rows.
func EmptySurveyResult() SurveyResult {
	return SurveyResult{
		NPS: models.NPS{Responses: []float64{}},
		Survey: models.Survey{
			Seniorities:         []string{},
			Sectors:             []string{},
			CompanySizes:        []string{},
			Testimonials:        []string{},
			AcquisitionChannels: []string{},
		},
	}
}

// ColumnValues pulls one fixed-position column out of a sheet grid,
// skipping the header row and empty cells.
func ColumnValues(grid [][]string, col int) []string {
	if len(grid) < 2 {
		return []string{}
	}
	out := make([]string, 0, len(grid)-1)
	for _, row := range grid[1:] {
		if col < len(row) && row[col] != "" {
			out = append(out, row[col])
		}
	}
	return out
}

// AggregateSurvey computes satisfaction and NPS aggregates from the
// raw grid. Satisfaction candidates are tried in configured order; the
// first column with at least one valid rating wins.
func AggregateSurvey(grid [][]string, cfg config.SurveyConfig) SurveyResult {
	result := EmptySurveyResult()
	if len(grid) < 2 {
		return result
	}

	var ratings []float64
	for _, col := range cfg.SatisfactionColumns {
		ratings = parseScores(ColumnValues(grid, col))
		if len(ratings) > 0 {
			break
		}
	}
	result.Satisfaction = AggregateSatisfaction(ratings)

	scores := parseScores(ColumnValues(grid, cfg.NPSColumn))
	result.NPS = ComputeNPS(scores)

	result.Survey = models.Survey{
		Seniorities:         ColumnValues(grid, cfg.SeniorityColumn),
		Sectors:             ColumnValues(grid, cfg.SectorColumn),
		CompanySizes:        ColumnValues(grid, cfg.CompanySizeColumn),
		Testimonials:        ColumnValues(grid, cfg.TestimonialColumn),
		AcquisitionChannels: ColumnValues(grid, cfg.ChannelColumn),
	}

	return result
}

// AggregateSatisfaction averages already-validated ratings with full
// floating point precision. Rounding for display is a presentation
// concern.
func AggregateSatisfaction(ratings []float64) models.Satisfaction {
	sat := models.Satisfaction{TotalReviews: len(ratings)}
	if len(ratings) == 0 {
		return sat
	}

	sum := 0.0
	for _, r := range ratings {
		sum += r
	}
	sat.AverageRating = sum / float64(len(ratings))
	return sat
}

// ComputeNPS classifies 0-10 scores into promoters (>=9), passives
// (7-8) and detractors (<=6), and derives the rounded Net Promoter
// Score. No valid responses yields a score of 0.
func ComputeNPS(scores []float64) models.NPS {
	nps := models.NPS{Responses: scores}
	if nps.Responses == nil {
		nps.Responses = []float64{}
	}

	for _, score := range scores {
		switch {
		case score >= 9:
			nps.Promoters++
		case score >= 7:
			nps.Passives++
		default:
			nps.Detractors++
		}
	}

	if len(scores) > 0 {
		nps.Score = int(math.Round(float64(nps.Promoters-nps.Detractors) / float64(len(scores)) * 100))
	}
	return nps
}

// parseScores keeps values parseable as numbers within [0,10];
// anything else is discarded at the record level.
func parseScores(raw []string) []float64 {
	scores := make([]float64, 0, len(raw))
	for _, value := range raw {
		score, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || score < 0 || score > 10 {
			continue
		}
		scores = append(scores, score)
	}
	return scores
}
