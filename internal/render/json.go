package render

import (
	"encoding/json"
	"io"

	"github.com/agentx-labs/commitx/internal/pipeline"
)

// PlanJSON is the machine-readable form of a plan.
type PlanJSON struct {
	Source    string         `json:"source,omitempty"`
	Files     int            `json:"files"`
	Proposals []ProposalJSON `json:"proposals"`
	Warnings  []string       `json:"warnings,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// ProposalJSON is one proposed commit.
type ProposalJSON struct {
	Header     string     `json:"header,omitempty"`
	Body       string     `json:"body,omitempty"`
	Type       string     `json:"type"`
	Confidence string     `json:"confidence"`
	Concern    string     `json:"concern,omitempty"`
	Area       string     `json:"area,omitempty"`
	Lines      int        `json:"lines"`
	Oversized  bool       `json:"oversized,omitempty"`
	Error      string     `json:"error,omitempty"`
	Files      []FileJSON `json:"files"`
}

// FileJSON is one classified file.
type FileJSON struct {
	Path       string `json:"path"`
	OldPath    string `json:"oldPath,omitempty"`
	Status     string `json:"status"`
	Added      int    `json:"added"`
	Removed    int    `json:"removed"`
	Type       string `json:"type"`
	Confidence string `json:"confidence"`
}

// NewPlanJSON converts plan. A nil plan yields only the error.
func NewPlanJSON(source string, plan *pipeline.Plan, err error) PlanJSON {
	out := PlanJSON{Source: source, Proposals: []ProposalJSON{}}
	if err != nil {
		out.Error = err.Error()
	}
	if plan == nil {
		return out
	}
	out.Files = plan.Files()
	for _, w := range plan.Warnings() {
		out.Warnings = append(out.Warnings, w.Message)
	}
	for _, pr := range plan.Proposals {
		p := ProposalJSON{
			Header:     pr.Message.Header,
			Body:       pr.Message.Body,
			Type:       string(pr.Group.Type),
			Confidence: pr.Group.Confidence.String(),
			Concern:    string(pr.Group.Concern),
			Area:       pr.Group.Area,
			Lines:      pr.Group.Delta,
			Oversized:  pr.Oversized,
		}
		if pr.Err != nil {
			p.Error = pr.Err.Error()
		}
		for _, c := range pr.Group.Files {
			p.Files = append(p.Files, FileJSON{
				Path:       c.File.Path(),
				OldPath:    c.File.OldPath(),
				Status:     string(c.File.Status()),
				Added:      c.File.Added(),
				Removed:    c.File.Removed(),
				Type:       string(c.Type),
				Confidence: c.Confidence.String(),
			})
		}
		out.Proposals = append(out.Proposals, p)
	}
	return out
}

// JSON writes v as indented JSON followed by a newline.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
