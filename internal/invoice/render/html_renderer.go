package render

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const receiptHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Fee Invoice {{.Invoice.MonthKey}}</title>
  <style>
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 32px;
      font-family: "Helvetica Neue", Arial, sans-serif;
      color: #111827;
      background: #ffffff;
    }
    .receipt {
      max-width: 720px;
      margin: 0 auto;
    }
    .header {
      display: flex;
      justify-content: space-between;
      align-items: flex-start;
      border-bottom: 2px solid #111827;
      padding-bottom: 16px;
      margin-bottom: 24px;
    }
    .meta {
      text-align: right;
      font-size: 14px;
    }
    .meta .label {
      color: #6b7280;
      text-transform: uppercase;
      letter-spacing: 0.04em;
      font-size: 11px;
    }
    .section {
      margin-bottom: 24px;
    }
    table {
      width: 100%;
      border-collapse: collapse;
      font-size: 14px;
    }
    th, td {
      padding: 10px;
      border-bottom: 1px solid #e5e7eb;
      text-align: left;
    }
    th {
      text-transform: uppercase;
      font-size: 11px;
      letter-spacing: 0.04em;
      color: #6b7280;
    }
    td.amount, th.amount { text-align: right; }
    .totals {
      margin-top: 12px;
      font-size: 14px;
    }
    .totals table { max-width: 320px; margin-left: auto; }
    .totals .due { font-size: 16px; font-weight: bold; }
  </style>
</head>
<body>
  <div class="receipt">
    <div class="header">
      <div>
        <div><strong>{{.School.Name}}</strong></div>
        <div>{{.Student.Name}}</div>
      </div>
      <div class="meta">
        <div class="label">Fee Invoice</div>
        <div><strong>{{.Invoice.MonthKey}}</strong></div>
        <div>Status: {{.Invoice.Status}}</div>
        <div>Due: {{formatDate .Invoice.DueDate}}</div>
      </div>
    </div>

    <div class="section">
      <table>
        <thead>
          <tr>
            <th>Description</th>
            <th>Type</th>
            <th class="amount">Amount</th>
          </tr>
        </thead>
        <tbody>
          {{range .Lines}}
          <tr>
            <td>{{.Name}}</td>
            <td>{{.Category}}</td>
            <td class="amount">{{formatMoney .Amount}}</td>
          </tr>
          {{end}}
        </tbody>
      </table>
    </div>

    <div class="totals">
      <table>
        <tr><td>Base fees</td><td class="amount">{{formatMoney .Invoice.BaseAmount}}</td></tr>
        <tr><td>Current charges</td><td class="amount">{{formatMoney .Invoice.CurrentCharges}}</td></tr>
        <tr><td>Previous due</td><td class="amount">{{formatMoney .Invoice.PreviousDue}}</td></tr>
        {{if .Invoice.LateFee}}<tr><td>Late fee</td><td class="amount">{{formatMoney .Invoice.LateFee}}</td></tr>{{end}}
        <tr><td>Total</td><td class="amount">{{formatMoney .Invoice.TotalAmount}}</td></tr>
        <tr><td>Paid</td><td class="amount">{{formatMoney .Invoice.PaidAmount}}</td></tr>
        <tr class="due"><td>Remaining due</td><td class="amount">{{formatMoney .Invoice.RemainingDue}}</td></tr>
      </table>
    </div>

    {{if .Payments}}
    <div class="section">
      <table>
        <thead>
          <tr>
            <th>Paid At</th>
            <th>Method</th>
            <th class="amount">Amount</th>
          </tr>
        </thead>
        <tbody>
          {{range .Payments}}
          <tr>
            <td>{{formatDate .PaidAt}}</td>
            <td>{{.Method}}</td>
            <td class="amount">{{formatMoney .Amount}}</td>
          </tr>
          {{end}}
        </tbody>
      </table>
    </div>
    {{end}}
  </div>
</body>
</html>
`

type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() Renderer {
	funcs := template.FuncMap{
		"formatMoney": formatMoney,
		"formatDate":  formatDate,
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("receipt").Funcs(funcs).Parse(receiptHTMLTemplate)),
	}
}

func (r *HTMLRenderer) RenderHTML(input RenderInput) (string, error) {
	if input.School.Name == "" {
		input.School.Name = "Fee Invoice"
	}

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, input); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatMoney(amount int64) string {
	return fmt.Sprintf("INR %.2f", float64(amount)/100.0)
}

func formatDate(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.UTC().Format("2006-01-02")
}
