package server

import (
	"html/template"
	"net/url"
	"slices"
	"time"

	"sentimentDashboard/internal/dashboard"
)

type tab struct {
	ID    string
	Title string
}

var tabs = []tab{
	{ID: "overview", Title: "📊 Market Overview"},
	{ID: "strategy", Title: "🧠 Strategy Analysis"},
	{ID: "simulator", Title: "🚀 Simulator"},
}

type pageData struct {
	Options  *dashboard.Options
	View     *dashboard.View
	Tabs     []tab
	Tab      string
	Query    template.URL
	Insights bool
}

func newPageData(opts *dashboard.Options, v *dashboard.View, q url.Values, insights bool) pageData {
	current := q.Get("tab")
	if !slices.ContainsFunc(tabs, func(t tab) bool { return t.ID == current }) {
		current = tabs[0].ID
	}
	chartQuery := url.Values{}
	for k, vs := range q {
		if k != "tab" {
			chartQuery[k] = vs
		}
	}
	return pageData{
		Options:  opts,
		View:     v,
		Tabs:     tabs,
		Tab:      current,
		Query:    template.URL(chartQuery.Encode()),
		Insights: insights,
	}
}

var pageFuncs = template.FuncMap{
	"contains": slices.Contains[[]string, string],
	"date": func(t time.Time) string {
		return t.Format("2006-01-02")
	},
	"with_tab": func(query template.URL, id string) template.URL {
		q, _ := url.ParseQuery(string(query))
		q.Set("tab", id)
		return template.URL("?" + q.Encode())
	},
}

var pageTemplate = template.Must(template.New("dashboard").Funcs(pageFuncs).Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Crypto Trader Quant Dashboard</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; background-color: #f5f5f5; color: #222; }
        .layout { display: grid; grid-template-columns: 280px 1fr; min-height: 100vh; }
        .sidebar { background: #fff; padding: 20px; border-right: 1px solid #ddd; }
        .sidebar label { display: block; margin-top: 14px; font-weight: bold; font-size: 13px; }
        .sidebar input, .sidebar select { width: 100%; margin-top: 4px; }
        .main { padding: 20px 30px; }
        .notice { background: #fff3cd; border: 1px solid #ffe69c; padding: 10px; border-radius: 6px; margin-bottom: 10px; }
        .success { background: #d1e7dd; border: 1px solid #a3cfbb; padding: 10px; border-radius: 6px; }
        .info { background: #e7f1ff; border: 1px solid #b6d4fe; padding: 10px; border-radius: 6px; margin-top: 8px; }
        .tabs a { display: inline-block; padding: 8px 16px; text-decoration: none; color: #333; border-bottom: 3px solid transparent; }
        .tabs a.active { border-bottom-color: #ff4b4b; font-weight: bold; }
        .tiles { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 16px; margin: 16px 0; }
        .tile { background: #fff; border-radius: 8px; padding: 16px; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
        .tile .label { font-size: 13px; color: #666; }
        .tile .value { font-size: 28px; margin-top: 6px; }
        .tile .delta { font-size: 13px; color: #2e7d32; }
        .grid2 { display: grid; grid-template-columns: 1fr 1fr; gap: 20px; }
        img { max-width: 100%; background: #fff; border-radius: 8px; }
        .caption { color: #888; font-size: 12px; margin-top: 30px; }
    </style>
</head>
<body>
<div class="layout">
    <form class="sidebar" method="get" action="/">
        <h3>🔍 Filters</h3>
        <input type="hidden" name="tab" value="{{.Tab}}">
        <label>Date Range</label>
        <input type="date" name="start" value="{{date .View.Controls.Criteria.Start}}" min="{{date .Options.MinDate}}" max="{{date .Options.MaxDate}}">
        <input type="date" name="end" value="{{date .View.Controls.Criteria.End}}" min="{{date .Options.MinDate}}" max="{{date .Options.MaxDate}}">

        <label>Trader Segment</label>
        <input type="hidden" name="archetype" value="">
        <select name="archetype" multiple>
            {{range .Options.Archetypes}}<option value="{{.}}"{{if contains $.View.Controls.Criteria.Archetypes .}} selected{{end}}>{{.}}</option>{{end}}
        </select>

        <label>Market Sentiment</label>
        <input type="hidden" name="sentiment" value="">
        <select name="sentiment" multiple>
            {{range .Options.Sentiments}}<option value="{{.}}"{{if contains $.View.Controls.Criteria.Sentiments .}} selected{{end}}>{{.}}</option>{{end}}
        </select>

        <label>Starting Capital ($)</label>
        <input type="number" name="capital" min="0" step="{{.Options.CapitalStep}}" value="{{.View.Controls.Capital}}">

        <label>Select Strategy</label>
        <select name="strategy">
            {{range .Options.Strategies}}<option value="{{.ID}}"{{if eq .ID $.View.Controls.Strategy}} selected{{end}}>{{.Label}}</option>{{end}}
        </select>

        <p><button type="submit">Apply</button></p>
        <p><small>{{.View.Status}}</small></p>
    </form>

    <div class="main">
        <h1>Crypto Trader Performance vs. Market Sentiment</h1>
        <h3>Interactive Quant Analysis Dashboard</h3>
        {{range .View.Notices}}<div class="notice">⚠️ {{.}}</div>{{end}}

        <div class="tabs">
            {{range .Tabs}}<a href="{{with_tab $.Query .ID}}"{{if eq .ID $.Tab}} class="active"{{end}}>{{.Title}}</a>{{end}}
        </div>

        {{if eq .Tab "overview"}}
        <h2>Executive Summary</h2>
        <div class="tiles">
            {{range .View.Tiles}}<div class="tile"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></div>{{end}}
        </div>
        <h4>Volume vs. Sentiment Correlation</h4>
        <img src="/charts/overview.png?{{.Query}}" alt="{{.View.Overview.Title}}">
        {{if .Insights}}<p><a href="/api/insight?{{.Query}}">✍️ Written insight for this selection</a></p>{{end}}
        {{end}}

        {{if eq .Tab "strategy"}}
        <h2>Strategy Alpha Analysis</h2>
        <div class="grid2">
            <div>
                <h4>Hypothesis H2: Win Rate vs Fear/Greed</h4>
                <img src="/charts/winrate.png?{{.Query}}" alt="{{.View.WinRate.Title}}">
            </div>
            <div>
                <h4>PnL Distribution (Risk Profile)</h4>
                <img src="/charts/pnl.png?{{.Query}}" alt="{{.View.PnL.Title}}">
            </div>
        </div>
        {{range .View.Insights}}<div class="info">💡 <b>Insight</b>: {{.Text}}</div>{{end}}
        {{end}}

        {{if eq .Tab "simulator"}}
        <h2>🚀 Interactive Strategy Simulator</h2>
        <p>Test the impact of our proposed <b>'Anti-Fear Strategy'</b> (Not trading when Sentiment &lt; {{.Options.AntiFearMin}}).</p>
        <div class="tiles">
            {{range .View.SimulatorTiles}}<div class="tile"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div>{{if .Delta}}<div class="delta">{{.Delta}}</div>{{end}}</div>{{end}}
        </div>
        <img src="/charts/equity.png?{{.Query}}" alt="{{.View.Equity.Title}}">
        {{if .View.AntiFearNotice}}<div class="success">{{.View.AntiFearNotice}}</div>{{end}}
        {{end}}

        <p class="caption">Data: {{.View.Source}} • <a href="/api/export.csv?{{.Query}}">Download filtered CSV</a></p>
    </div>
</div>
</body>
</html>`
