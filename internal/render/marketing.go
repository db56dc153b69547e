package render

import (
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitepress/internal/site"
)

func init() {
	register(site.KindFeatures, renderFeatures)
	register(site.KindCTA, renderCTA)
	register(site.KindTestimonials, renderTestimonials)
	register(site.KindPricing, renderPricing)
	register(site.KindFAQ, renderFAQ)
	register(site.KindStats, renderStats)
	register(site.KindTeam, renderTeam)
	register(site.KindTimeline, renderTimeline)
	register(site.KindCountdown, renderCountdown)
	register(site.KindBanner, renderBanner)
	register(site.KindTabs, renderTabs)
	register(site.KindAccordion, renderAccordion)
	register(site.KindSteps, renderSteps)
	register(site.KindComparisonTable, renderComparisonTable)
	register(site.KindCard, renderCard)
	register(site.KindCardGrid, renderCardGrid)
}

// sectionHead renders the optional title and subtitle shared by marketing blocks.
func (n *node) sectionHead() string {
	head := textEl("h2", "sp-section-title", n.p.String("title")) +
		textEl("p", "sp-section-subtitle", n.p.String("subtitle"))
	if head == "" {
		return ""
	}
	return el("header", "sp-section-head", head)
}

func (n *node) gridColumns(def int) {
	n.style("--sp-cols", strconv.Itoa(max(n.p.Int("columns", def), 1)))
}

func renderFeatures(n *node) string {
	n.gridColumns(3)
	var b strings.Builder
	for _, it := range n.p.Items("items") {
		body := textEl("div", "sp-feature-icon", it.String("icon"), attr("aria-hidden", "true")) +
			textEl("h3", "", itemLabel(it)) +
			textEl("p", "", it.String("description"))
		b.WriteString(el("article", "sp-feature", body))
	}
	return n.wrap("section", "sp-features", el("div", "sp-container", n.sectionHead()+el("div", "sp-grid", b.String())))
}

func renderCTA(n *node) string {
	body := textEl("h2", "sp-cta-title", n.p.String("title")) +
		textEl("p", "sp-cta-text", n.p.String("text")) +
		n.buttons("buttons")
	return n.wrap("section", "sp-cta", el("div", "sp-container", body))
}

func renderTestimonials(n *node) string {
	var b strings.Builder
	for _, it := range n.p.Items("items") {
		who := img(it.String("avatar"), it.String("author"), "sp-avatar", true) +
			"<cite>" + esc(it.String("author")) + "</cite>" +
			textEl("span", "sp-role", it.String("role"))
		b.WriteString(el("figure", "sp-testimonial", el("blockquote", "", esc(it.StringOr("quote", it.String("text"))))+el("figcaption", "", who)))
	}
	return n.wrap("section", "sp-testimonials", el("div", "sp-container", n.sectionHead()+el("div", "sp-grid", b.String())))
}

func renderPricing(n *node) string {
	var b strings.Builder
	for _, plan := range n.p.Items("plans") {
		cls := "sp-plan"
		if plan.Bool("highlighted") {
			cls += " is-highlighted"
		}
		price := esc(plan.String("price"))
		if period := plan.String("period"); period != "" {
			price += `<span class="sp-plan-period">/` + esc(period) + "</span>"
		}
		var feats strings.Builder
		for _, f := range plan.Items("features") {
			feats.WriteString("<li>" + esc(itemLabel(f)) + "</li>")
		}
		cta := plan.Map("cta")
		if len(cta) == 0 {
			cta = site.Props{"label": plan.String("ctaLabel"), "href": plan.String("ctaHref")}
		}
		body := textEl("h3", "sp-plan-name", plan.String("name")) +
			el("p", "sp-plan-price", price) +
			textEl("p", "sp-plan-description", plan.String("description")) +
			el("ul", "sp-plan-features", feats.String()) +
			n.button(cta, "primary")
		b.WriteString(el("article", cls, body))
	}
	return n.wrap("section", "sp-pricing", el("div", "sp-container", n.sectionHead()+el("div", "sp-grid", b.String())))
}

func renderFAQ(n *node) string {
	var b strings.Builder
	for _, it := range n.p.Items("items") {
		b.WriteString(el("details", "sp-faq-item", el("summary", "", esc(it.StringOr("question", itemLabel(it))))+paragraphs(it.String("answer"))))
	}
	return n.wrap("section", "sp-faq", el("div", "sp-container", n.sectionHead()+b.String()))
}

func renderStats(n *node) string {
	var b strings.Builder
	for _, it := range n.p.Items("items") {
		b.WriteString(el("div", "sp-stat", textEl("strong", "sp-stat-value", it.String("value"))+textEl("span", "sp-stat-label", it.String("label"))))
	}
	return n.wrap("section", "sp-stats", el("div", "sp-container", n.sectionHead()+el("div", "sp-grid", b.String())))
}

func renderTeam(n *node) string {
	n.gridColumns(4)
	var b strings.Builder
	for _, m := range n.p.Items("members") {
		body := img(m.StringOr("photo", m.String("image")), m.String("name"), "sp-team-photo", true) +
			textEl("h3", "", m.String("name")) +
			textEl("p", "sp-role", m.String("role")) +
			textEl("p", "sp-bio", m.String("bio"))
		b.WriteString(el("article", "sp-team-member", body))
	}
	return n.wrap("section", "sp-team", el("div", "sp-container", n.sectionHead()+el("div", "sp-grid", b.String())))
}

func renderTimeline(n *node) string {
	var b strings.Builder
	for _, it := range n.p.Items("items") {
		body := textEl("time", "sp-timeline-date", it.String("date")) +
			textEl("h3", "", itemLabel(it)) +
			textEl("p", "", it.String("description"))
		b.WriteString(el("li", "sp-timeline-item", body))
	}
	return n.wrap("section", "sp-timeline", el("div", "sp-container", n.sectionHead()+el("ol", "", b.String())))
}

var countdownLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"}

// countdownTarget normalizes the target to RFC3339 UTC; unparsable values pass through.
func countdownTarget(v string) string {
	v = strings.TrimSpace(v)
	for _, layout := range countdownLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return v
}

// renderCountdown emits the target timestamp only; the remaining time is
// computed by the behavior script.
func renderCountdown(n *node) string {
	target := countdownTarget(n.p.StringOr("target", n.p.String("date")))
	if target == "" {
		return ""
	}
	var units strings.Builder
	for _, u := range []string{"days", "hours", "minutes", "seconds"} {
		label := n.p.StringOr(u+"Label", u)
		units.WriteString(el("div", "sp-countdown-unit", `<span class="sp-countdown-value"`+attr("data-unit", u)+">0</span>"+textEl("span", "sp-countdown-label", label)))
	}
	body := textEl("h2", "sp-countdown-title", n.p.String("title")) +
		el("div", "sp-countdown-units", units.String()) +
		textEl("p", "sp-countdown-expired", n.p.StringOr("expiredText", "The wait is over!"), " hidden")
	return n.wrap("section", "sp-countdown", body, attr("data-countdown-target", target))
}

func renderBanner(n *node) string {
	variant := cssIdent(n.p.StringOr("variant", "info"))
	body := el("p", "", n.text("text"))
	if l := n.p.Map("link"); len(l) > 0 {
		body += link(n.href(l), "sp-banner-link", esc(itemLabel(l)), false)
	}
	attrs := []string{attr("role", "status")}
	if n.p.Bool("dismissible") {
		body += `<button class="sp-banner-close" type="button" data-dismiss aria-label="Dismiss">&#10005;</button>`
	}
	return n.wrap("div", "sp-banner sp-banner-"+variant, body, attrs...)
}

func renderTabs(n *node) string {
	tabs := n.p.Items("tabs")
	if len(tabs) == 0 {
		return ""
	}
	id := n.uid("tabs")
	var list, panels strings.Builder
	for i, t := range tabs {
		panelID := id + "-" + strconv.Itoa(i+1)
		selected := i == 0
		cls := "sp-tab"
		if selected {
			cls += " is-active"
		}
		list.WriteString(`<button type="button" role="tab"` + attr("class", cls) + attr("data-tab-target", panelID) + attr("aria-controls", panelID) + attr("aria-selected", strconv.FormatBool(selected)) + ">" + esc(itemLabel(t)) + "</button>")
		panels.WriteString(`<div class="sp-tab-panel" role="tabpanel"` + attr("id", panelID) + flag("hidden", !selected) + ">" + paragraphs(t.StringOr("content", t.String("text"))) + "</div>")
	}
	return n.wrap("div", "sp-tabs", el("div", "sp-tab-list", list.String(), attr("role", "tablist"))+panels.String(), " data-tabs")
}

func renderAccordion(n *node) string {
	id := n.uid("accordion")
	var b strings.Builder
	for i, it := range n.p.Items("items") {
		panelID := id + "-" + strconv.Itoa(i+1)
		b.WriteString(`<div class="sp-accordion-item">`)
		b.WriteString(`<button class="sp-accordion-trigger" type="button" data-accordion-trigger aria-expanded="false"` + attr("aria-controls", panelID) + ">" + esc(itemLabel(it)) + "</button>")
		b.WriteString(`<div class="sp-accordion-panel"` + attr("id", panelID) + " hidden>" + paragraphs(it.StringOr("content", it.String("answer"))) + "</div>")
		b.WriteString("</div>")
	}
	return n.wrap("div", "sp-accordion", n.sectionHead()+b.String(), attr("data-accordion", boolAttr(n.p.Bool("multiple"), "multiple", "single")))
}

func boolAttr(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}

func renderSteps(n *node) string {
	var b strings.Builder
	for i, it := range n.p.Items("items") {
		body := el("span", "sp-step-number", strconv.Itoa(i+1)) +
			textEl("h3", "", itemLabel(it)) +
			textEl("p", "", it.String("description"))
		b.WriteString(el("li", "sp-step", body))
	}
	return n.wrap("section", "sp-steps", el("div", "sp-container", n.sectionHead()+el("ol", "", b.String())))
}

// labelOf returns the display label of a scalar or property-bag entry.
func labelOf(v any) string {
	if p := site.AsProps(v); len(p) > 0 {
		return itemLabel(p)
	}
	return site.AsString(v)
}

// cellValue renders booleans as check marks and everything else as text.
func cellValue(v any) string {
	switch t := v.(type) {
	case bool:
		if t {
			return `<span class="sp-yes" aria-label="Yes">&#10003;</span>`
		}
		return `<span class="sp-no" aria-label="No">&#8212;</span>`
	}
	return esc(site.AsString(v))
}

func renderComparisonTable(n *node) string {
	var head strings.Builder
	head.WriteString("<th></th>")
	for _, c := range n.p.List("columns") {
		head.WriteString("<th scope=\"col\">" + esc(labelOf(c)) + "</th>")
	}
	var body strings.Builder
	for _, row := range n.p.Items("rows") {
		body.WriteString("<tr><th scope=\"row\">" + esc(itemLabel(row)) + "</th>")
		for _, v := range site.CoerceList(row["values"]) {
			body.WriteString("<td>" + cellValue(v) + "</td>")
		}
		body.WriteString("</tr>")
	}
	table := "<table><thead><tr>" + head.String() + "</tr></thead><tbody>" + body.String() + "</tbody></table>"
	return n.wrap("section", "sp-comparison", n.sectionHead()+el("div", "sp-table-scroll", table))
}

func renderCard(n *node) string {
	body := img(n.p.String("image"), n.p.String("title"), "sp-card-image", true)
	inner := textEl("h3", "sp-card-title", n.p.String("title")) +
		textEl("p", "sp-card-text", n.p.String("text")) +
		n.children()
	if l := n.p.Map("link"); len(l) > 0 {
		inner += n.button(l, "link")
	}
	return n.wrap("article", "sp-card", body+el("div", "sp-card-body", inner))
}

func renderCardGrid(n *node) string {
	n.gridColumns(3)
	var b strings.Builder
	for _, c := range n.p.Items("cards") {
		inner := textEl("h3", "sp-card-title", itemLabel(c)) + textEl("p", "sp-card-text", c.String("text"))
		card := img(c.String("image"), itemLabel(c), "sp-card-image", true) + el("div", "sp-card-body", inner)
		if href := n.href(c); href != "" {
			card = link(href, "sp-card-link", card, false)
		}
		b.WriteString(el("article", "sp-card", card))
	}
	return n.wrap("section", "sp-card-grid", n.sectionHead()+el("div", "sp-grid", b.String()))
}
