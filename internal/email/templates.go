package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/atelierhq/atelier/internal/domain"
)

// orderConfirmationHTML is the single transactional template this store
// sends. Kept inline so the binary needs no template directory.
const orderConfirmationHTML = `<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222; max-width: 560px; margin: 0 auto;">
<h1>Thanks for your order, {{.CustomerName}}!</h1>
<p>Order <strong>{{.OrderNumber}}</strong> is confirmed and will ship to:</p>
<p>{{.ShipTo.Name}}<br>
{{.ShipTo.Line1}}{{if .ShipTo.Line2}}<br>{{.ShipTo.Line2}}{{end}}<br>
{{.ShipTo.City}}, {{.ShipTo.State}} {{.ShipTo.PostalCode}}<br>
{{.ShipTo.Country}}</p>
<table width="100%" cellpadding="6" cellspacing="0" border="0">
{{range .Items}}<tr>
<td>{{.Name}}{{if .Variant}} ({{.Variant}}){{end}} &times; {{.Quantity}}</td>
<td align="right">{{.Total}}</td>
</tr>
{{end}}<tr><td>Subtotal</td><td align="right">{{.Subtotal}}</td></tr>
{{if .Discount}}<tr><td>Discount{{if .PromoCode}} ({{.PromoCode}}){{end}}</td><td align="right">&minus;{{.Discount}}</td></tr>
{{end}}<tr><td>Shipping</td><td align="right">{{.Shipping}}</td></tr>
<tr><td><strong>Total</strong></td><td align="right"><strong>{{.Total}}</strong></td></tr>
</table>
<p>Questions? Reply to this email and we'll help.</p>
</body>
</html>`

var orderConfirmationTmpl = template.Must(template.New("order_confirmation").Parse(orderConfirmationHTML))

type orderConfirmationData struct {
	CustomerName string
	OrderNumber  string
	ShipTo       domain.Address
	Items        []orderConfirmationItem
	Subtotal     string
	Discount     string
	PromoCode    string
	Shipping     string
	Total        string
}

type orderConfirmationItem struct {
	Name     string
	Variant  string
	Quantity int32
	Total    string
}

func orderConfirmation(order *domain.Order) orderConfirmationData {
	data := orderConfirmationData{
		CustomerName: order.ShippingAddress.Name,
		OrderNumber:  order.OrderNumber,
		ShipTo:       order.ShippingAddress,
		Subtotal:     formatCents(order.SubtotalCents),
		PromoCode:    order.PromoCode,
		Shipping:     formatCents(order.ShippingCents),
		Total:        formatCents(order.TotalCents),
	}
	if order.DiscountCents > 0 {
		data.Discount = formatCents(order.DiscountCents)
	}
	for _, item := range order.Items {
		data.Items = append(data.Items, orderConfirmationItem{
			Name:     item.ProductName,
			Variant:  variantLabel(item),
			Quantity: item.Quantity,
			Total:    formatCents(item.TotalCents),
		})
	}
	return data
}

func variantLabel(item domain.OrderItem) string {
	parts := make([]string, 0, 2)
	if item.Color != "" {
		parts = append(parts, item.Color)
	}
	if item.Size != "" {
		parts = append(parts, item.Size)
	}
	return strings.Join(parts, ", ")
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

func renderOrderConfirmation(order *domain.Order) (string, string, error) {
	var buf bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&buf, orderConfirmation(order)); err != nil {
		return "", "", fmt.Errorf("failed to render order confirmation: %w", err)
	}
	htmlBody := buf.String()
	return htmlBody, plainText(htmlBody), nil
}

// plainText strips markup for the text/plain alternative part.
func plainText(html string) string {
	text := html

	text = strings.ReplaceAll(text, "<br>", "\n")
	text = strings.ReplaceAll(text, "</p>", "\n\n")
	text = strings.ReplaceAll(text, "</tr>", "\n")
	text = strings.ReplaceAll(text, "</h1>", "\n\n")
	text = strings.ReplaceAll(text, "</td><td", "  <td")

	for {
		start := strings.Index(text, "<")
		if start < 0 {
			break
		}
		end := strings.Index(text[start:], ">")
		if end < 0 {
			break
		}
		text = text[:start] + text[start+end+1:]
	}

	text = strings.ReplaceAll(text, "&times;", "x")
	text = strings.ReplaceAll(text, "&minus;", "-")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&amp;", "&")

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
