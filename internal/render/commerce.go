package render

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/sitepress/internal/site"
)

func init() {
	register(site.KindProductCard, renderProductCard)
	register(site.KindProductGrid, renderProductGrid)
	register(site.KindCartButton, renderCartButton)
	register(site.KindPriceTag, renderPriceTag)
	register(site.KindCheckoutSummary, renderCheckoutSummary)
}

// money formats amount with a currency symbol or code prefix.
func money(amount, currency string) string {
	if amount == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(amount, 64); err == nil {
		amount = strconv.FormatFloat(f, 'f', 2, 64)
	}
	switch strings.ToUpper(currency) {
	case "", "USD":
		return "$" + amount
	case "EUR":
		return "€" + amount
	case "GBP":
		return "£" + amount
	default:
		return amount + " " + strings.ToUpper(currency)
	}
}

// productMarkup is shared by product-card and product-grid entries.
func (n *node) productMarkup(p site.Props, currency string) string {
	cur := p.StringOr("currency", currency)
	name := p.StringOr("name", itemLabel(p))
	body := img(p.String("image"), name, "sp-product-image", true) +
		textEl("h3", "sp-product-name", name) +
		textEl("p", "sp-product-description", p.String("description")) +
		priceMarkup(p.String("price"), p.String("originalPrice"), cur)
	label := p.StringOr("buttonLabel", "Add to cart")
	body += `<button class="sp-btn sp-btn-primary" type="button" data-add-to-cart` + attr("data-product", name) + ">" + esc(label) + "</button>"
	if href := n.href(p); href != "" {
		body += link(href, "sp-product-link", "Details", false)
	}
	return body
}

func priceMarkup(price, original, currency string) string {
	if price == "" {
		return ""
	}
	out := `<span class="sp-price">` + esc(money(price, currency)) + "</span>"
	if original != "" {
		out += `<s class="sp-price-original">` + esc(money(original, currency)) + "</s>"
	}
	return el("p", "sp-price-tag", out)
}

func renderProductCard(n *node) string {
	return n.wrap("article", "sp-product", n.productMarkup(n.p, n.p.String("currency")))
}

func renderProductGrid(n *node) string {
	n.style("--sp-cols", strconv.Itoa(max(n.p.Int("columns", 3), 1)))
	currency := n.p.String("currency")
	var b strings.Builder
	for _, p := range n.p.Items("products") {
		b.WriteString(el("article", "sp-product", n.productMarkup(p, currency)))
	}
	return n.wrap("section", "sp-product-grid", n.sectionHead()+el("div", "sp-grid", b.String()))
}

func renderCartButton(n *node) string {
	label := esc(n.p.StringOr("label", "Cart"))
	count := n.p.Int("count", 0)
	body := label + `<span class="sp-cart-count" data-cart-count>` + strconv.Itoa(count) + "</span>"
	return n.wrap("a", "sp-cart-button", body, attr("href", orHash(n.href(n.p))), attr("aria-label", n.p.StringOr("label", "Cart")))
}

func renderPriceTag(n *node) string {
	markup := priceMarkup(n.p.String("price"), n.p.String("originalPrice"), n.p.String("currency"))
	if markup == "" {
		return ""
	}
	return n.wrap("div", "sp-price-block", markup)
}

func renderCheckoutSummary(n *node) string {
	currency := n.p.String("currency")
	var rows strings.Builder
	var total float64
	for _, it := range n.p.Items("items") {
		qty := max(it.Int("qty", it.Int("quantity", 1)), 0)
		price := it.Float("price", 0)
		line := price * float64(qty)
		total += line
		rows.WriteString("<tr><td>" + esc(it.StringOr("name", itemLabel(it))) + "</td><td>" + strconv.Itoa(qty) + "</td><td>" +
			esc(money(strconv.FormatFloat(line, 'f', 2, 64), currency)) + "</td></tr>")
	}
	totalRow := `<tr class="sp-total"><th scope="row" colspan="2">` + esc(n.p.StringOr("totalLabel", "Total")) + "</th><td>" +
		esc(money(strconv.FormatFloat(total, 'f', 2, 64), currency)) + "</td></tr>"
	table := "<table><tbody>" + rows.String() + "</tbody><tfoot>" + totalRow + "</tfoot></table>"
	return n.wrap("section", "sp-checkout-summary", textEl("h3", "", n.p.StringOr("title", "Order summary"))+table)
}
