package catalog

import (
	"html/template"
	"io"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const currencySymbol = "₹"

var displayLang = language.MustParse("en-IN")

// FormatPrice renders a price for display with Indian digit grouping and no
// fractional digits. Halves round away from zero. Stored prices are never
// rounded.
func FormatPrice(price float64) string {
	p := message.NewPrinter(displayLang)
	return currencySymbol + p.Sprint(number.Decimal(math.Round(price), number.MaxFractionDigits(0)))
}

func DeletePrompt(name string) string {
	return `Are you sure you want to delete "` + name + `"?`
}

const EmptyCatalogText = "No products found. Add your first product!"

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"price": FormatPrice,
}).Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>Product Management</title></head>
<body>
<h1>Product Management</h1>
<table>
<thead><tr><th>ID</th><th>Product Name</th><th>Price</th></tr></thead>
<tbody>
{{- range .Products}}
<tr><td>{{.ID}}</td><td>{{.Name}}</td><td>{{price .Price}}</td></tr>
{{- else}}
<tr><td colspan="3">{{.Empty}}</td></tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`))

func RenderTable(w io.Writer, c Catalog) error {
	return pageTmpl.Execute(w, struct {
		Products Catalog
		Empty    string
	}{c, EmptyCatalogText})
}
