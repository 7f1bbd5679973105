package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/DrSkyle/campuslab/pkg/campus"
	"github.com/DrSkyle/campuslab/pkg/version"
)

// DashboardData holds data for the HTML template.
type DashboardData struct {
	Title          string
	Subtitle       string
	Footer         string
	Version        string
	GeneratedAt    string
	RefreshSeconds int
	Frame          campus.Frame
	Occupancy      string
	// OccupancyPct drives the progress bar width, 0 when there is no data.
	OccupancyPct int
	NoInsights   string
}

var dashboardTmpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"riskClass": func(r campus.Risk) string { return strings.ToLower(r.String()) },
}).Parse(dashboardTemplate))

// refreshSeconds converts the page reload interval to whole seconds. Any
// positive interval reloads at least once a second.
func refreshSeconds(refresh time.Duration) int {
	if refresh <= 0 {
		return 0
	}
	return max(int(refresh.Round(time.Second)/time.Second), 1)
}

// RenderHTML writes the web dashboard for frame. A positive refresh makes the
// page reload itself after that interval.
func RenderHTML(w io.Writer, frame campus.Frame, refresh time.Duration) error {
	data := DashboardData{
		Title:          Title,
		Subtitle:       Subtitle,
		Footer:         Footer,
		Version:        version.Current,
		GeneratedAt:    frame.GeneratedAt.Format("2006-01-02 15:04:05 MST"),
		RefreshSeconds: refreshSeconds(refresh),
		Frame:          frame,
		Occupancy:      FormatOccupancy(frame.Metrics),
		NoInsights:     NoInsightsText,
	}
	if frame.Metrics.HasOccupancy() {
		data.OccupancyPct = min(max(frame.Metrics.AvgOccupancy, 0), 100)
	}

	// Render to a buffer so a template error never leaves a half-written page.
	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

const dashboardTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    {{- if gt .RefreshSeconds 0}}
    <meta http-equiv="refresh" content="{{.RefreshSeconds}}">
    {{- end}}
    <title>{{.Title}}</title>
    <style>
        :root {
            --bg: #0e1117;
            --surface: #111827;
            --border: rgba(255, 255, 255, 0.1);
            --primary: #00FF99;
            --warn: #FFB020;
            --danger: #FF3366;
            --text: #F8FAFC;
            --text-dim: #9ca3af;
        }
        * { box-sizing: border-box; }
        body {
            background: var(--bg);
            color: var(--text);
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
            margin: 0;
            padding: 40px;
            font-size: 14px;
        }
        .header { margin-bottom: 32px; border-bottom: 1px solid var(--border); padding-bottom: 20px; }
        .header h1 { margin: 0 0 6px 0; font-size: 2rem; letter-spacing: -1px; }
        .header p { margin: 0; color: var(--text-dim); }
        .meta { color: var(--text-dim); font-size: 0.8rem; margin-top: 8px; }
        .kpi-grid { display: grid; grid-template-columns: repeat(4, 1fr); gap: 20px; margin-bottom: 32px; }
        .card { background: linear-gradient(135deg, #1f2933, #111827); border: 1px solid var(--border); border-radius: 16px; padding: 20px; text-align: center; }
        .card h3 { margin: 0 0 10px 0; font-size: 0.75rem; color: var(--text-dim); text-transform: uppercase; letter-spacing: 1.2px; }
        .card .value { font-size: 2.2rem; font-weight: 700; }
        .bar { height: 6px; background: var(--border); border-radius: 3px; margin-top: 12px; }
        .bar span { display: block; height: 100%; background: var(--primary); border-radius: 3px; }
        h2 { font-size: 1.1rem; margin: 32px 0 12px 0; }
        table { width: 100%; border-collapse: collapse; background: var(--surface); border-radius: 12px; overflow: hidden; }
        th, td { text-align: left; padding: 10px 14px; border-bottom: 1px solid var(--border); }
        th { color: var(--text-dim); font-weight: 600; text-transform: uppercase; font-size: 0.7rem; }
        .alert { padding: 12px 16px; border-radius: 10px; margin-bottom: 8px; }
        .alert.high { background: #7f1d1d; }
        .alert.medium { background: #78350f; }
        .alert.low { background: #064e3b; }
        .risk.high { color: var(--danger); }
        .risk.medium { color: var(--warn); }
        .risk.low { color: var(--primary); }
        .insight { padding: 12px 16px; border-left: 3px solid var(--primary); background: var(--surface); margin-bottom: 8px; }
        .footer { margin-top: 40px; color: var(--text-dim); text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.Title}}</h1>
        <p>{{.Subtitle}}</p>
        <div class="meta">Frame {{.Frame.ID}} &middot; {{.GeneratedAt}} &middot; v{{.Version}}</div>
    </div>

    <div class="kpi-grid">
        <div class="card"><h3>Total Footfall</h3><div class="value">{{.Frame.Metrics.TotalFootfall}}</div></div>
        <div class="card">
            <h3>Avg Occupancy</h3><div class="value">{{.Occupancy}}</div>
            <div class="bar"><span style="width: {{.OccupancyPct}}%"></span></div>
        </div>
        <div class="card"><h3>High Risk Zones</h3><div class="value">{{.Frame.Metrics.HighRiskZones}}</div></div>
        <div class="card"><h3>Active Zones</h3><div class="value">{{.Frame.Metrics.ActiveZones}}</div></div>
    </div>

    <h2>Traffic &amp; Mobility</h2>
    <table>
        <thead><tr><th>Zone</th><th>Footfall</th><th>Occupancy</th><th>Power</th><th>Risk</th></tr></thead>
        <tbody>
        {{- range .Frame.Snapshot}}
            <tr><td>{{.Zone}}</td><td>{{.Footfall}}</td><td>{{.Occupancy}}</td><td>{{.Power}}</td><td class="risk {{riskClass .Risk}}">{{.Risk}}</td></tr>
        {{- end}}
        </tbody>
    </table>

    <h2>Safety Alerts</h2>
    {{- range .Frame.Alerts}}
    <div class="alert {{riskClass .Risk}}">{{.Message}}</div>
    {{- end}}

    <h2>Planning Insights</h2>
    {{- range .Frame.Insights}}
    <div class="insight">{{.Message}}</div>
    {{- else}}
    <div class="insight">{{.NoInsights}}</div>
    {{- end}}

    <div class="footer">{{.Footer}}</div>
</body>
</html>
`
