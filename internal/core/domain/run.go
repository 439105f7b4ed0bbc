package domain

import (
	"fmt"
	"time"
)

// RunKind distinguishes stored history entries.
type RunKind string

// Run kinds.
const (
	RunKindCompare RunKind = "compare"
	RunKindLocate  RunKind = "locate"
)

// IsValid returns true if the kind is recognised.
func (k RunKind) IsValid() bool {
	return k == RunKindCompare || k == RunKindLocate
}

// String returns the string representation.
func (k RunKind) String() string {
	return string(k)
}

// PageRecord is the persisted summary of one compared page.
type PageRecord struct {
	PageNumber  int     `json:"page_number"`
	Regions     int     `json:"regions"`
	TextRatio   float64 `json:"text_ratio"`
	TextNote    string  `json:"text_note,omitempty"`
	SSIM        float64 `json:"ssim"`
	SSIMValid   bool    `json:"ssim_valid"`
	Color       float64 `json:"color"`
	ColorValid  bool    `json:"color_valid"`
	Feature     float64 `json:"feature"`
	FeatureOK   bool    `json:"feature_valid"`
	GoodMatches int     `json:"good_matches"`
	Failure     string  `json:"failure,omitempty"`
}

// RuleRecord is the persisted outcome of one rule.
type RuleRecord struct {
	RowIndex    int         `json:"row_index"`
	Reference   string      `json:"reference_name"`
	Found       bool        `json:"found"`
	Phase       SearchPhase `json:"search_phase"`
	MatchedText string      `json:"matched_text"`

	// PageIndex is -1 when the rule was not found.
	PageIndex int `json:"page_index"`
}

// RunRecord is a history entry for a compare or locate run.
type RunRecord struct {
	ID         string       `json:"id"`
	Kind       RunKind      `json:"kind"`
	Left       string       `json:"left"`
	Right      string       `json:"right"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Summary    string       `json:"summary"`
	Pages      []PageRecord `json:"pages,omitempty"`
	Rules      []RuleRecord `json:"rules,omitempty"`
}

// Duration returns how long the run took.
func (r *RunRecord) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RecordFromComparison converts a comparison run for storage.
func RecordFromComparison(run *ComparisonRun) RunRecord {
	rec := RunRecord{
		ID:         run.ID,
		Kind:       RunKindCompare,
		Left:       run.LeftPath,
		Right:      run.RightPath,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Summary: fmt.Sprintf("%d pages, %d skipped, %d differences, SSIM %.1f%%, text %.1f%%",
			run.Summary.PagesCompared, run.Summary.PagesSkipped, run.Summary.TotalRegions,
			run.Summary.MeanSSIM*100, run.Summary.MeanText*100),
	}
	for i := range run.Pages {
		p := &run.Pages[i]
		rec.Pages = append(rec.Pages, PageRecord{
			PageNumber:  p.PageNumber,
			Regions:     len(p.Regions),
			TextRatio:   p.Text.Ratio,
			TextNote:    p.Text.Note,
			SSIM:        p.Structural.Score,
			SSIMValid:   p.Structural.Available,
			Color:       p.Color.Overall,
			ColorValid:  p.Color.Available,
			Feature:     p.Feature.Score,
			FeatureOK:   p.Feature.Available,
			GoodMatches: p.Feature.GoodMatches,
			Failure:     p.Failure,
		})
	}
	return rec
}

// RecordFromLocate converts a locate run for storage.
func RecordFromLocate(run *LocateRun) RunRecord {
	rec := RunRecord{
		ID:         run.ID,
		Kind:       RunKindLocate,
		Left:       run.RulePath,
		Right:      run.DocumentPath,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Summary:    fmt.Sprintf("%d/%d rules found", run.FoundCount(), len(run.Rules)),
	}
	for i := range run.Rules {
		r := &run.Rules[i]
		page := -1
		if len(r.Locations) > 0 {
			page = r.Locations[0].PageIndex
		}
		rec.Rules = append(rec.Rules, RuleRecord{
			RowIndex:    r.RowIndex,
			Reference:   r.Reference,
			Found:       r.Found,
			Phase:       r.Phase,
			MatchedText: r.MatchedText,
			PageIndex:   page,
		})
	}
	return rec
}

// ReportFiles lists the files written by a report export.
type ReportFiles struct {
	Dir     string   `json:"dir"`
	Summary string   `json:"summary"`
	PDF     string   `json:"pdf,omitempty"`
	Images  []string `json:"images"`
}
