package domain

import (
	"fmt"
	"image"
	"strconv"
	"strings"
	"time"
)

// DifferenceRegion is the bounding box of a detected visual change in
// normalised canvas pixels. Label is the 1-based position in descending
// area order and is the number drawn on overlays and used in reports.
type DifferenceRegion struct {
	Label  int `json:"label"`
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns the bounding box area in pixels.
func (r DifferenceRegion) Area() int {
	return r.Width * r.Height
}

// Bounds returns the region as an image rectangle.
func (r DifferenceRegion) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// OptionalText is extracted text that may be absent.
// Absent (Valid=false) means no backend produced text and is never
// the same thing as an empty string.
type OptionalText struct {
	Value string `json:"value"`
	Valid bool   `json:"valid"`
}

// SomeText wraps a present text value.
func SomeText(s string) OptionalText {
	return OptionalText{Value: s, Valid: true}
}

// NoText is the absent text value.
func NoText() OptionalText {
	return OptionalText{}
}

// TextComparison is the outcome of comparing the OCR text of two pages.
type TextComparison struct {
	// Ratio is the character-level similarity in [0,1].
	Ratio float64 `json:"ratio"`

	// UnifiedDiff is a line-level unified diff for display.
	UnifiedDiff string `json:"unified_diff"`

	// Note explains a vacuous or one-sided result. Empty for a real comparison.
	// Both sides absent still yields Ratio 1.0 but always carries a note.
	Note string `json:"error,omitempty"`

	Left  OptionalText `json:"text_left"`
	Right OptionalText `json:"text_right"`
}

// HasNote returns true if the ratio should not be read as plain similarity.
func (t TextComparison) HasNote() bool {
	return t.Note != ""
}

// StructuralResult is the structural similarity signal for a page.
type StructuralResult struct {
	// Available is false when the signal was not computed.
	// An unavailable score is undefined and must not be read as 0.
	Available bool `json:"available"`

	Score     float64     `json:"score"`
	DiffImage image.Image `json:"-"`

	// Unavailable holds the reason the signal is missing.
	Unavailable string `json:"unavailable,omitempty"`
}

// ColorResult is the color histogram signal for a page.
type ColorResult struct {
	Available   bool               `json:"available"`
	Overall     float64            `json:"overall"`
	Channels    map[string]float64 `json:"channels"`
	Unavailable string             `json:"unavailable,omitempty"`
}

// FeatureResult is the keypoint matching signal for a page.
type FeatureResult struct {
	Available      bool        `json:"available"`
	Score          float64     `json:"score"`
	KeypointsLeft  int         `json:"total_keypoints_left"`
	KeypointsRight int         `json:"total_keypoints_right"`
	GoodMatches    int         `json:"good_match_count"`
	Visualization  image.Image `json:"-"`
	Unavailable    string      `json:"unavailable,omitempty"`
}

// PageComparison holds every signal computed for one page pair.
// It is built once by the orchestrator and not modified afterwards.
type PageComparison struct {
	// PageNumber is 1-based.
	PageNumber int `json:"page_number"`

	Overlay         image.Image        `json:"-"`
	Regions         []DifferenceRegion `json:"differences"`
	NormalizedLeft  image.Image        `json:"-"`
	NormalizedRight image.Image        `json:"-"`

	Text       TextComparison   `json:"text_result"`
	Structural StructuralResult `json:"ssim_result"`
	Color      ColorResult      `json:"color_result"`
	Feature    FeatureResult    `json:"feature_result"`

	// Failure is set when one or more comparators failed for this page.
	// The page is still reported with the remaining signals.
	Failure string `json:"failure,omitempty"`
}

// Degraded returns true if any comparator failed on this page.
func (p *PageComparison) Degraded() bool {
	return p.Failure != ""
}

// ComparisonSummary aggregates a run for reports and history.
type ComparisonSummary struct {
	PagesCompared int     `json:"pages_compared"`
	PagesSkipped  int     `json:"pages_skipped"`
	PagesFailed   int     `json:"pages_failed"`
	TotalRegions  int     `json:"total_regions"`
	MeanSSIM      float64 `json:"mean_ssim"`
	MeanText      float64 `json:"mean_text"`
	MeanColor     float64 `json:"mean_color"`
	MeanFeature   float64 `json:"mean_feature"`
}

// ComparisonRun is a complete multi-page comparison.
type ComparisonRun struct {
	ID         string           `json:"id"`
	LeftPath   string           `json:"left_path"`
	RightPath  string           `json:"right_path"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Pages      []PageComparison `json:"pages"`

	// Skipped lists 1-based page numbers that had no image on one side.
	Skipped []int `json:"skipped,omitempty"`

	Summary ComparisonSummary `json:"summary"`
}

// Summarise computes the summary from the pages and skipped list.
// Means are taken over pages where the signal was available.
func (r *ComparisonRun) Summarise() ComparisonSummary {
	s := ComparisonSummary{
		PagesCompared: len(r.Pages),
		PagesSkipped:  len(r.Skipped),
	}

	var ssimN, colorN, featN int
	for i := range r.Pages {
		p := &r.Pages[i]
		if p.Degraded() {
			s.PagesFailed++
		}
		s.TotalRegions += len(p.Regions)
		s.MeanText += p.Text.Ratio
		if p.Structural.Available {
			s.MeanSSIM += p.Structural.Score
			ssimN++
		}
		if p.Color.Available {
			s.MeanColor += p.Color.Overall
			colorN++
		}
		if p.Feature.Available {
			s.MeanFeature += p.Feature.Score
			featN++
		}
	}

	s.MeanText = mean(s.MeanText, len(r.Pages))
	s.MeanSSIM = mean(s.MeanSSIM, ssimN)
	s.MeanColor = mean(s.MeanColor, colorN)
	s.MeanFeature = mean(s.MeanFeature, featN)
	return s
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Rotation is a clockwise quarter-turn applied to a side before comparison.
type Rotation int

// Supported rotations.
const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// IsValid returns true for multiples of 90 in [0, 360).
func (r Rotation) IsValid() bool {
	switch r {
	case Rotate0, Rotate90, Rotate180, Rotate270:
		return true
	default:
		return false
	}
}

// SideOptions controls how one side of a comparison is sourced.
type SideOptions struct {
	// Path is the document file.
	Path string

	// ROI restricts every page to a crop, in rendered pixels.
	// A zero rectangle means the full page.
	ROI image.Rectangle

	// Rotation is applied to the rendered page before cropping.
	Rotation Rotation
}

// HasROI returns true if a crop is set.
func (o SideOptions) HasROI() bool {
	return !o.ROI.Empty()
}

// ParseROI parses "x,y,w,h" in pixels. An empty string is no crop.
func ParseROI(s string) (image.Rectangle, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return image.Rectangle{}, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("%w: roi %q must be x,y,w,h", ErrInvalidInput, s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return image.Rectangle{}, fmt.Errorf("%w: roi %q must hold non-negative integers", ErrInvalidInput, s)
		}
		v[i] = n
	}
	if v[2] == 0 || v[3] == 0 {
		return image.Rectangle{}, fmt.Errorf("%w: roi %q has no area", ErrInvalidInput, s)
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}

// CompareRequest is the input to a comparison run.
type CompareRequest struct {
	Left  SideOptions
	Right SideOptions
}

// Swapped returns the request with the sides exchanged.
func (r CompareRequest) Swapped() CompareRequest {
	return CompareRequest{Left: r.Right, Right: r.Left}
}
