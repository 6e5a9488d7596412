// Package docgen renders the confirmation document that summarizes a
// submitted credit application. The document is stored alongside the
// submission's attachments and linked from the submission response.
package docgen

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/ridgelinefuels/fuel_credit_app/internal/core/domain"
)

// dataURL lets the signature's data: URI through the html/template URL
// filter, which would otherwise reject the scheme.
func dataURL(s string) template.URL {
	return template.URL(s)
}

var confirmationTmpl = template.Must(template.New("confirmation").Funcs(template.FuncMap{
	"dataurl": dataURL,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Credit Application {{.ApplicationID}}</title>
</head>
<body>
<h1>Ridgeline Fuel &amp; Lubricants — Credit Application</h1>
<p>Reference: <strong>{{.ApplicationID}}</strong><br>
Submitted: {{.Agreements.SubmittedAt.Format "January 2, 2006 3:04 PM MST"}}</p>

<h2>Company</h2>
<table>
<tr><td>Legal name</td><td>{{.CompanyInfo.LegalName}}</td></tr>
{{if .CompanyInfo.DBA}}<tr><td>DBA</td><td>{{.CompanyInfo.DBA}}</td></tr>{{end}}
<tr><td>Entity type</td><td>{{.CompanyInfo.EntityType}}</td></tr>
<tr><td>Tax ID</td><td>{{.CompanyInfo.TaxID}}</td></tr>
<tr><td>Years in business</td><td>{{.CompanyInfo.YearsInBusiness}}</td></tr>
<tr><td>Billing address</td><td>{{.CompanyInfo.BillingAddress.Street}}, {{.CompanyInfo.BillingAddress.City}}, {{.CompanyInfo.BillingAddress.State}} {{.CompanyInfo.BillingAddress.Zip}}</td></tr>
<tr><td>AP contact</td><td>{{.CompanyInfo.APContactName}} ({{.CompanyInfo.APContactEmail}}, {{.CompanyInfo.APContactPhone}})</td></tr>
<tr><td>PO required</td><td>{{if .CompanyInfo.PORequired}}Yes{{else}}No{{end}}</td></tr>
</table>

<h2>Owners</h2>
{{range $i, $o := .Owners}}
<h3>Owner {{$o.Name}}, {{$o.Title}}</h3>
<table>
<tr><td>Ownership</td><td>{{$o.OwnershipPercent}}%</td></tr>
<tr><td>Phone</td><td>{{$o.Phone}}</td></tr>
<tr><td>Email</td><td>{{$o.Email}}</td></tr>
<tr><td>Personal guaranty</td><td>{{if $o.PersonalGuaranty}}Yes{{else}}No{{end}}</td></tr>
</table>
{{end}}

<h2>Bank Reference</h2>
<p>{{.BankReference.BankName}}, {{.BankReference.City}}, {{.BankReference.State}} —
{{.BankReference.ContactName}}, {{.BankReference.Phone}} (account ending {{.BankReference.AccountNumberLast4}})</p>

<h2>Trade References</h2>
<ol>
{{range .TradeReferences}}<li>{{.CompanyName}} — {{.ContactName}}, {{.Email}}, {{.Phone}}</li>
{{end}}</ol>

<h2>Requested Products</h2>
<p>{{range $i, $p := .SalesProfile.Products}}{{if $i}}, {{end}}{{$p}}{{end}} —
estimated {{.SalesProfile.EstimatedMonthlyVolume}} gallons/month{{if .SalesProfile.DeliveryCities}},
delivering to {{.SalesProfile.DeliveryCities}}{{end}}.
Tax exempt: {{if .SalesProfile.TaxExempt}}Yes{{else}}No{{end}}</p>

<h2>Signed</h2>
<p>{{.Agreements.SignerName}}, {{.Agreements.SignerTitle}}</p>
{{if .Agreements.Signature}}<p><img src="{{dataurl .Agreements.Signature}}" alt="signature" style="max-width:320px"></p>{{end}}
</body>
</html>
`))

// Confirmation renders the summary document for a persisted application.
func Confirmation(app *domain.CreditApplication) ([]byte, error) {
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, app); err != nil {
		return nil, fmt.Errorf("failed to render confirmation document: %w", err)
	}
	return buf.Bytes(), nil
}
