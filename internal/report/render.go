// Package report turns the billing package's report model into documents:
// an HTML statement suitable for printing to PDF, and a CSV export.
package report

import (
	"bytes"
	"html/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/billing"
)

// RenderInput is the deterministic input used for report rendering.
type RenderInput struct {
	Title        string
	PharmacyName string
	GeneratedAt  time.Time
	Report       *billing.Report
}

var tmplFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return "$" + d.StringFixed(2) },
	"moneyPtr": func(d *decimal.Decimal) string {
		if d == nil {
			return "-"
		}
		return "$" + d.StringFixed(2)
	},
	"date": func(t time.Time) string { return t.Format("02 Jan 2006") },
	"datePtr": func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.Format("02 Jan 2006")
	},
	"percent": func(d decimal.Decimal) string { return d.StringFixed(1) + "%" },
}

const accountsReportTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{.Title}}</title>
  <style>
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 32px;
      font-family: "Helvetica Neue", Arial, sans-serif;
      color: #111827;
      background: #ffffff;
    }
    .report { max-width: 900px; margin: 0 auto; }
    .header {
      display: flex;
      justify-content: space-between;
      border-bottom: 2px solid #00594f;
      padding-bottom: 16px;
      margin-bottom: 24px;
    }
    .meta { text-align: right; font-size: 13px; color: #6b7280; }
    .section { margin-bottom: 28px; }
    h2 {
      font-size: 13px;
      text-transform: uppercase;
      letter-spacing: 0.04em;
      color: #00594f;
    }
    table { width: 100%; border-collapse: collapse; font-size: 13px; }
    th, td {
      padding: 8px 10px;
      border-bottom: 1px solid #e5e7eb;
      text-align: left;
    }
    th {
      text-transform: uppercase;
      font-size: 11px;
      letter-spacing: 0.04em;
      color: #6b7280;
    }
    td.num, th.num { text-align: right; }
    .summary { display: flex; gap: 32px; font-size: 14px; }
    .summary .figure { font-size: 20px; font-weight: 600; }
    .empty { color: #6b7280; font-style: italic; padding: 16px 0; }
    .status-overdue { color: #b91c1c; font-weight: 600; }
  </style>
</head>
<body>
  <div class="report">
    <div class="header">
      <div>
        <strong>{{.PharmacyName}}</strong><br />
        {{.Title}}
      </div>
      <div class="meta">
        Generated {{date .GeneratedAt}}
      </div>
    </div>

    <div class="section summary">
      <div><div class="figure">{{.Report.Summary.Count}}</div>Accounts</div>
      <div><div class="figure">{{money .Report.Summary.TotalOwed}}</div>Total outstanding</div>
      <div><div class="figure">{{money .Report.Summary.TotalPayments}}</div>Payments received</div>
      <div><div class="figure">{{money .Report.Summary.AverageBalance}}</div>Average balance</div>
    </div>

    {{if .Report.Aging}}
    <div class="section">
      <h2>Overdue aging</h2>
      <table>
        <thead>
          <tr><th>Days overdue</th><th class="num">Accounts</th><th class="num">Amount</th><th class="num">Share</th></tr>
        </thead>
        <tbody>
          {{range .Report.Aging}}
          <tr>
            <td>{{.Label}}</td>
            <td class="num">{{.Count}}</td>
            <td class="num">{{money .Amount}}</td>
            <td class="num">{{percent .Percent}}</td>
          </tr>
          {{end}}
        </tbody>
      </table>
    </div>
    {{end}}

    {{if .Report.Contacts}}
    <div class="section">
      <h2>Contact list</h2>
      <table>
        <thead><tr><th>Patient</th><th>MRN</th><th>Phone</th></tr></thead>
        <tbody>
          {{range .Report.Contacts}}
          <tr><td>{{.PatientName}}</td><td>{{.MRN}}</td><td>{{.Phone}}</td></tr>
          {{end}}
        </tbody>
      </table>
    </div>
    {{end}}

    <div class="section">
      <h2>Accounts</h2>
      {{if .Report.Rows}}
      <table>
        <thead>
          <tr>
            <th>Patient</th><th>MRN</th><th class="num">Owed</th>
            <th>Status</th><th>Due</th><th class="num">Days overdue</th>
            <th>Last payment</th>
          </tr>
        </thead>
        <tbody>
          {{range .Report.Rows}}
          <tr>
            <td>{{.Account.PatientName}}</td>
            <td>{{.Account.MRN}}</td>
            <td class="num">{{money .Account.TotalOwed}}</td>
            <td{{if eq .Status "overdue"}} class="status-overdue"{{end}}>{{.Status}}</td>
            <td>{{datePtr .EffectiveDueDate}}</td>
            <td class="num">{{if .DaysOverdue}}{{.DaysOverdue}}{{else}}-{{end}}</td>
            <td>{{moneyPtr .Account.LastPaymentAmount}} on {{datePtr .Account.LastPaymentDate}}</td>
          </tr>
          {{end}}
        </tbody>
      </table>
      {{else}}
      <div class="empty">No accounts matched the selected criteria.</div>
      {{end}}
    </div>
  </div>
</body>
</html>`

var accountsReportTmpl = template.Must(
	template.New("accounts_report").Funcs(tmplFuncs).Parse(accountsReportTemplate))

// RenderHTML renders the report model into a standalone HTML document.
func RenderHTML(input RenderInput) (string, error) {
	if input.Title == "" {
		input.Title = "Accounts Report"
	}
	var buf bytes.Buffer
	if err := accountsReportTmpl.Execute(&buf, input); err != nil {
		return "", err
	}
	return buf.String(), nil
}
