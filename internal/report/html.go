package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/blackwell-systems/revibe/internal/fixer"
	"github.com/blackwell-systems/revibe/internal/metrics"
	"github.com/blackwell-systems/revibe/internal/output"
	"github.com/blackwell-systems/revibe/internal/pipeline"
)

// HTMLFileName is the file scan --html writes.
const HTMLFileName = "revibe_report.html"

//go:embed templates/report.html.tmpl
var htmlSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct":       func(x float64) string { return fmt.Sprintf("%.0f%%", x*100) },
	"width":     func(x float64) string { return fmt.Sprintf("%.0f", min(max(x, 0), 1)*100) },
	"thousands": output.Thousands,
	"riskClass": func(r metrics.RiskLevel) string { return strings.ToLower(r.String()) },
	"prioClass": func(p fixer.Priority) string { return strings.ToLower(p.String()) },
	"smellClass": func(x float64) string {
		switch {
		case x > 0.7:
			return "bad"
		case x > 0.5:
			return "warn"
		default:
			return "ok"
		}
	},
}).Parse(htmlSource))

type htmlView struct {
	Doc     *Document
	Metrics *metrics.CodebaseMetrics
	Risk    metrics.RiskLevel
	Emoji   string
	Fixes   []fixer.Fix
	Date    string
}

// WriteHTML renders a self-contained HTML report.
func WriteHTML(w io.Writer, res *pipeline.Result, version string) error {
	view := htmlView{
		Doc:     Build(res, version),
		Metrics: res.Metrics,
		Risk:    res.Metrics.RiskLevel,
		Emoji:   RiskEmoji(res.Metrics.RiskLevel),
		Date:    res.StartedAt.Format("2006-01-02 15:04"),
	}
	if res.Plan != nil {
		view.Fixes = res.Plan.Fixes
	}
	if err := htmlTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("rendering html report: %w", err)
	}
	return nil
}
