package render

import (
	"net/url"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/sitepress/internal/site"
)

func init() {
	register(site.KindButton, renderButton)
	register(site.KindButtonGroup, renderButtonGroup)
	register(site.KindSocialLinks, renderSocialLinks)
	register(site.KindShareButtons, renderShareButtons)
	register(site.KindChatWidget, renderChatWidget)
	register(site.KindCalendarEmbed, renderCalendarEmbed)
	register(site.KindRating, renderRating)
	register(site.KindProgressBar, renderProgressBar)
	register(site.KindAlert, renderAlert)
	register(site.KindTable, renderTable)
	register(site.KindWhatsAppButton, renderWhatsAppButton)
	register(site.KindCookieBanner, renderCookieBanner)
}

func renderButton(n *node) string {
	label := n.p.StringOr("label", n.p.String("text"))
	if label == "" {
		return ""
	}
	cls := "sp-btn sp-btn-" + cssIdent(n.p.StringOr("variant", "primary"))
	if size := n.p.String("size"); size != "" {
		cls += " sp-btn-" + cssIdent(size)
	}
	attrs := []string{attr("href", orHash(n.href(n.p)))}
	if n.p.Bool("newTab") {
		attrs = append(attrs, attr("target", "_blank"), attr("rel", "noopener noreferrer"))
	}
	return n.wrap("a", cls, esc(label), attrs...)
}

func renderButtonGroup(n *node) string {
	group := n.buttons("buttons")
	if group == "" {
		return ""
	}
	return n.wrap("div", "sp-button-group", group)
}

func renderSocialLinks(n *node) string {
	return n.wrap("div", "sp-social-block", socialList(n.p.Items("links")))
}

var shareEndpoints = map[string]string{
	"twitter":  "https://twitter.com/intent/tweet?url=",
	"x":        "https://twitter.com/intent/tweet?url=",
	"facebook": "https://www.facebook.com/sharer/sharer.php?u=",
	"linkedin": "https://www.linkedin.com/sharing/share-offsite/?url=",
	"whatsapp": "https://wa.me/?text=",
	"email":    "mailto:?body=",
}

// renderShareButtons emits endpoint prefixes; the behavior script appends the
// page URL at runtime so output does not depend on where the site is hosted.
func renderShareButtons(n *node) string {
	var b strings.Builder
	for _, v := range n.p.List("networks") {
		network := strings.ToLower(labelOf(v))
		endpoint, ok := shareEndpoints[network]
		if !ok {
			continue
		}
		b.WriteString("<li><a" + attr("class", "sp-share sp-share-"+network) + attr("href", endpoint) + attr("data-share", endpoint) +
			` target="_blank" rel="noopener noreferrer">` + esc(strings.ToUpper(network[:1])+network[1:]) + "</a></li>")
	}
	return n.wrap("div", "sp-share-buttons", textEl("span", "sp-share-label", n.p.String("label"))+el("ul", "", b.String()))
}

func renderChatWidget(n *node) string {
	href := n.href(n.p)
	if href == "" {
		return ""
	}
	label := n.p.StringOr("label", "Chat with us")
	return n.wrap("a", "sp-chat-widget", `<span aria-hidden="true">&#128172;</span>`+textEl("span", "", label), attr("href", href), ` target="_blank" rel="noopener noreferrer"`, attr("data-provider", n.p.String("provider")))
}

func renderCalendarEmbed(n *node) string {
	src := n.p.String("url")
	if src == "" {
		return ""
	}
	n.style("height", px(n.p.StringOr("height", "600")))
	return n.wrap("div", "sp-calendar", `<iframe`+attr("src", safeURL(src))+attr("title", n.p.StringOr("title", "Booking calendar"))+` loading="lazy"></iframe>`)
}

func renderRating(n *node) string {
	maxStars := min(max(n.p.Int("max", 5), 1), 10)
	value := n.p.Float("value", 0)
	var b strings.Builder
	for i := 1; i <= maxStars; i++ {
		cls := "sp-star"
		if float64(i) <= value+0.25 {
			cls += " is-filled"
		} else if float64(i)-0.5 <= value+0.25 {
			cls += " is-half"
		}
		b.WriteString(`<span` + attr("class", cls) + ">&#9733;</span>")
	}
	label := strconv.FormatFloat(value, 'f', -1, 64) + " out of " + strconv.Itoa(maxStars)
	return n.wrap("div", "sp-rating", b.String()+textEl("span", "sp-rating-label", n.p.String("label")), attr("role", "img"), attr("aria-label", label))
}

func renderProgressBar(n *node) string {
	maxValue := n.p.Float("max", 100)
	if maxValue <= 0 {
		maxValue = 100
	}
	value := min(max(n.p.Float("value", 0), 0), maxValue)
	pct := strconv.FormatFloat(value/maxValue*100, 'f', 1, 64)
	bar := `<div class="sp-progress-track"><div class="sp-progress-fill"` + attr("style", "width:"+pct+"%") + "></div></div>"
	return n.wrap("div", "sp-progress", textEl("span", "sp-progress-label", n.p.String("label"))+bar,
		attr("role", "progressbar"), attr("aria-valuemin", "0"),
		attr("aria-valuemax", strconv.FormatFloat(maxValue, 'f', -1, 64)),
		attr("aria-valuenow", strconv.FormatFloat(value, 'f', -1, 64)))
}

func renderAlert(n *node) string {
	variant := strings.ToLower(n.p.StringOr("variant", "info"))
	switch variant {
	case "info", "success", "warning", "error":
	default:
		variant = "info"
	}
	role := "status"
	if variant == "error" || variant == "warning" {
		role = "alert"
	}
	return n.wrap("div", "sp-alert sp-alert-"+variant, textEl("strong", "", n.p.String("title"))+textEl("p", "", n.p.String("text")), attr("role", role))
}

func renderTable(n *node) string {
	var head strings.Builder
	for _, h := range n.p.List("headers") {
		head.WriteString(`<th scope="col">` + esc(labelOf(h)) + "</th>")
	}
	var body strings.Builder
	for _, row := range n.p.List("rows") {
		body.WriteString("<tr>")
		cells := site.CoerceList(row)
		if p := site.AsProps(row); len(p) > 0 {
			cells = p.List("cells")
		}
		for _, c := range cells {
			body.WriteString("<td>" + cellValue(c) + "</td>")
		}
		body.WriteString("</tr>")
	}
	table := ""
	if head.Len() > 0 {
		table += "<thead><tr>" + head.String() + "</tr></thead>"
	}
	table += "<tbody>" + body.String() + "</tbody>"
	caption := textEl("caption", "", n.p.String("caption"))
	return n.wrap("div", "sp-table-scroll", "<table"+attr("class", "sp-table")+">"+caption+table+"</table>")
}

func renderWhatsAppButton(n *node) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, n.p.String("phone"))
	if digits == "" {
		return ""
	}
	href := "https://wa.me/" + digits
	if msg := n.p.String("message"); msg != "" {
		href += "?text=" + url.QueryEscape(msg)
	}
	label := n.p.StringOr("label", "WhatsApp")
	cls := "sp-whatsapp"
	if n.p.Bool("floating") {
		cls += " is-floating"
	}
	return n.wrap("a", cls, esc(label), attr("href", href), ` target="_blank" rel="noopener noreferrer"`, attr("aria-label", label))
}

func renderCookieBanner(n *node) string {
	text := n.p.StringOr("text", "We use cookies to improve your experience.")
	body := el("p", "", esc(text))
	if policy := safeURL(n.p.String("policyUrl")); policy != "" {
		body += link(policy, "sp-cookie-policy", esc(n.p.StringOr("policyLabel", "Learn more")), false)
	}
	body += `<button class="sp-btn sp-btn-primary" type="button" data-cookie-accept>` + esc(n.p.StringOr("acceptLabel", "Accept")) + "</button>"
	return n.wrap("div", "sp-cookie-banner", body, attr("role", "dialog"), attr("aria-label", "Cookie consent"), " data-cookie-banner hidden")
}
