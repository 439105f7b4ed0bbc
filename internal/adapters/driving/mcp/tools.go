package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driving"
)

// CompareInput is the input schema for the compare_documents tool.
type CompareInput struct {
	Left        string `json:"left" jsonschema:"path of the control document"`
	Right       string `json:"right" jsonschema:"path of the document to check"`
	RotateLeft  int    `json:"rotate_left,omitempty" jsonschema:"clockwise rotation of the left pages: 0, 90, 180 or 270"`
	RotateRight int    `json:"rotate_right,omitempty" jsonschema:"clockwise rotation of the right pages: 0, 90, 180 or 270"`
	ROILeft     string `json:"roi_left,omitempty" jsonschema:"crop of the left pages as x,y,w,h in rendered pixels"`
	ROIRight    string `json:"roi_right,omitempty" jsonschema:"crop of the right pages as x,y,w,h in rendered pixels"`
	ReportDir   string `json:"report_dir,omitempty" jsonschema:"write a report to this directory"`
}

// CompareOutput is the output schema for the compare_documents tool.
type CompareOutput struct {
	RunID   string                   `json:"run_id"`
	Summary domain.ComparisonSummary `json:"summary"`
	Pages   []PageOutput             `json:"pages"`
	Skipped []int                    `json:"skipped,omitempty"`
	Report  *domain.ReportFiles      `json:"report,omitempty"`
}

// PageOutput is one compared page. Signals that were not computed are null.
type PageOutput struct {
	PageNumber  int      `json:"page_number"`
	Differences int      `json:"differences"`
	SSIM        *float64 `json:"ssim"`
	Color       *float64 `json:"color"`
	Features    *float64 `json:"features"`
	Text        float64  `json:"text"`
	TextNote    string   `json:"text_note,omitempty"`
	TextDiff    string   `json:"text_diff,omitempty"`
	Failure     string   `json:"failure,omitempty"`
}

// LocateInput is the input schema for the locate_terms tool.
type LocateInput struct {
	Rules    string `json:"rules" jsonschema:"path of the rule table (.xlsx or .csv)"`
	Document string `json:"document" jsonschema:"path of the document to search"`
}

// LocateOutput is the output schema for the locate_terms tool.
type LocateOutput struct {
	RunID string        `json:"run_id"`
	Found int           `json:"found"`
	Total int           `json:"total"`
	Rules []domain.Rule `json:"results"`
}

// ResolveInput is the input schema for the resolve_location tool.
type ResolveInput struct {
	RunID    string `json:"run_id" jsonschema:"run_id returned by locate_terms"`
	Row      int    `json:"row" jsonschema:"sheet row of the rule"`
	Location int    `json:"location,omitempty" jsonschema:"index into the rule's locations (default 0)"`
}

// ListRunsInput is the input schema for the list_runs tool.
type ListRunsInput struct {
	Kind  string `json:"kind,omitempty" jsonschema:"compare or locate; empty lists both"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of runs to return (default 20)"`
}

// ListRunsOutput is the output schema for the list_runs tool.
type ListRunsOutput struct {
	Runs  []RunOutput `json:"runs"`
	Count int         `json:"count"`
}

// RunOutput summarises a stored run.
type RunOutput struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Left      string `json:"left"`
	Right     string `json:"right"`
	StartedAt string `json:"started_at"`
	Summary   string `json:"summary"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compare_documents",
		Description: "Compare two documents page by page: visual differences, SSIM, color, keypoints and OCR text",
	}, s.handleCompare)

	if s.ports.Locate != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "locate_terms",
			Description: "Find the rule table terms in a document and report the page of each match",
		}, s.handleLocate)

		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "resolve_location",
			Description: "Resolve the highlight rectangle of a located term",
		}, s.handleResolve)
	}

	if s.ports.History != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_runs",
			Description: "List stored compare and locate runs, newest first",
		}, s.handleListRuns)
	}
}

// handleCompare handles the compare_documents tool invocation.
func (s *Server) handleCompare(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CompareInput,
) (*mcp.CallToolResult, CompareOutput, error) {
	req, err := compareRequest(input)
	if err != nil {
		return nil, CompareOutput{}, err
	}

	run, err := s.ports.Compare.Compare(ctx, req, nil)
	if err != nil {
		return nil, CompareOutput{}, err
	}

	output := CompareOutput{
		RunID:   run.ID,
		Summary: run.Summary,
		Skipped: run.Skipped,
		Pages:   make([]PageOutput, len(run.Pages)),
	}
	for i := range run.Pages {
		output.Pages[i] = pageOutput(&run.Pages[i])
	}

	if input.ReportDir != "" {
		files, err := s.ports.Compare.ExportReport(ctx, run, input.ReportDir)
		if err != nil {
			return nil, CompareOutput{}, fmt.Errorf("exporting report: %w", err)
		}
		output.Report = files
	}

	return nil, output, nil
}

func compareRequest(input CompareInput) (domain.CompareRequest, error) {
	roiL, err := domain.ParseROI(input.ROILeft)
	if err != nil {
		return domain.CompareRequest{}, err
	}
	roiR, err := domain.ParseROI(input.ROIRight)
	if err != nil {
		return domain.CompareRequest{}, err
	}
	return domain.CompareRequest{
		Left:  domain.SideOptions{Path: input.Left, ROI: roiL, Rotation: domain.Rotation(input.RotateLeft)},
		Right: domain.SideOptions{Path: input.Right, ROI: roiR, Rotation: domain.Rotation(input.RotateRight)},
	}, nil
}

func pageOutput(p *domain.PageComparison) PageOutput {
	out := PageOutput{
		PageNumber:  p.PageNumber,
		Differences: len(p.Regions),
		Text:        p.Text.Ratio,
		TextNote:    p.Text.Note,
		TextDiff:    p.Text.UnifiedDiff,
		Failure:     p.Failure,
	}
	if p.Structural.Available {
		out.SSIM = &p.Structural.Score
	}
	if p.Color.Available {
		out.Color = &p.Color.Overall
	}
	if p.Feature.Available {
		out.Features = &p.Feature.Score
	}
	return out
}

// handleLocate handles the locate_terms tool invocation. The session
// stays open so resolve_location can compute rectangles later.
func (s *Server) handleLocate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LocateInput,
) (*mcp.CallToolResult, LocateOutput, error) {
	sess, err := s.ports.Locate.Start(ctx, driving.LocateRequest{
		RulePath:     input.Rules,
		DocumentPath: input.Document,
	})
	if err != nil {
		return nil, LocateOutput{}, err
	}

	run := sess.Run()
	s.sessions.put(run.ID, sess)

	return nil, LocateOutput{
		RunID: run.ID,
		Found: run.FoundCount(),
		Total: len(run.Rules),
		Rules: run.Rules,
	}, nil
}

// handleResolve handles the resolve_location tool invocation.
func (s *Server) handleResolve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ResolveInput,
) (*mcp.CallToolResult, domain.Location, error) {
	sess, err := s.sessions.get(input.RunID)
	if err != nil {
		return nil, domain.Location{}, err
	}
	loc, err := sess.Resolve(ctx, input.Row, input.Location)
	if err != nil {
		return nil, domain.Location{}, err
	}
	return nil, loc, nil
}

// handleListRuns handles the list_runs tool invocation.
func (s *Server) handleListRuns(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListRunsInput,
) (*mcp.CallToolResult, ListRunsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	kind := domain.RunKind(input.Kind)
	if kind != "" && !kind.IsValid() {
		return nil, ListRunsOutput{}, errors.New("kind must be compare or locate")
	}

	runs, err := s.ports.History.List(ctx, kind, limit)
	if err != nil {
		return nil, ListRunsOutput{}, err
	}

	output := ListRunsOutput{Runs: make([]RunOutput, len(runs)), Count: len(runs)}
	for i := range runs {
		output.Runs[i] = runOutput(&runs[i])
	}
	return nil, output, nil
}

func runOutput(r *domain.RunRecord) RunOutput {
	return RunOutput{
		ID:        r.ID,
		Kind:      string(r.Kind),
		Left:      r.Left,
		Right:     r.Right,
		StartedAt: r.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		Summary:   r.Summary,
	}
}
