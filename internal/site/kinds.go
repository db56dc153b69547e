package site

import "sort"

// Kind identifies a component variant. The set is closed: AllKinds lists every
// recognized value and renderers register exactly one handler per kind.
type Kind string

// Navigation.
const (
	KindNavbar           Kind = "navbar"
	KindFooter           Kind = "footer"
	KindBreadcrumbs      Kind = "breadcrumbs"
	KindSidebarNav       Kind = "sidebar-nav"
	KindMobileMenu       Kind = "mobile-menu"
	KindScrollToTop      Kind = "scroll-to-top"
	KindLanguageSwitcher Kind = "language-switcher"
)

// Hero.
const (
	KindHero       Kind = "hero"
	KindHeroSplit  Kind = "hero-split"
	KindHeroVideo  Kind = "hero-video"
	KindPageHeader Kind = "page-header"
)

// Layout.
const (
	KindSection   Kind = "section"
	KindColumns   Kind = "columns"
	KindSticky    Kind = "sticky"
	KindContainer Kind = "container"
	KindGrid      Kind = "grid"
	KindDivider   Kind = "divider"
	KindSpacer    Kind = "spacer"
	KindAnchor    Kind = "anchor"
)

// Text.
const (
	KindHeading        Kind = "heading"
	KindParagraph      Kind = "paragraph"
	KindRichText       Kind = "rich-text"
	KindMarkdown       Kind = "markdown"
	KindQuote          Kind = "quote"
	KindList           Kind = "list"
	KindDefinitionList Kind = "definition-list"
	KindCodeBlock      Kind = "code-block"
	KindCustomHTML     Kind = "custom-html"
	KindBadge          Kind = "badge"
)

// Media.
const (
	KindImage       Kind = "image"
	KindGallery     Kind = "gallery"
	KindVideo       Kind = "video"
	KindAudio       Kind = "audio"
	KindEmbed       Kind = "embed"
	KindMap         Kind = "map"
	KindIcon        Kind = "icon"
	KindCarousel    Kind = "carousel"
	KindLogoCloud   Kind = "logo-cloud"
	KindBeforeAfter Kind = "before-after"
)

// Marketing.
const (
	KindFeatures        Kind = "features"
	KindCTA             Kind = "cta"
	KindTestimonials    Kind = "testimonials"
	KindPricing         Kind = "pricing"
	KindFAQ             Kind = "faq"
	KindStats           Kind = "stats"
	KindTeam            Kind = "team"
	KindTimeline        Kind = "timeline"
	KindCountdown       Kind = "countdown"
	KindBanner          Kind = "banner"
	KindTabs            Kind = "tabs"
	KindAccordion       Kind = "accordion"
	KindSteps           Kind = "steps"
	KindComparisonTable Kind = "comparison-table"
	KindCard            Kind = "card"
	KindCardGrid        Kind = "card-grid"
)

// Forms.
const (
	KindContactForm Kind = "contact-form"
	KindNewsletter  Kind = "newsletter"
	KindLoginForm   Kind = "login-form"
	KindSearchBox   Kind = "search-box"
	KindBookingForm Kind = "booking-form"
	KindSurvey      Kind = "survey"
)

// E-commerce placeholders.
const (
	KindProductCard     Kind = "product-card"
	KindProductGrid     Kind = "product-grid"
	KindCartButton      Kind = "cart-button"
	KindPriceTag        Kind = "price-tag"
	KindCheckoutSummary Kind = "checkout-summary"
)

// Blog.
const (
	KindBlogList     Kind = "blog-list"
	KindBlogPost     Kind = "blog-post"
	KindAuthorBio    Kind = "author-bio"
	KindCategoryList Kind = "category-list"
	KindTagCloud     Kind = "tag-cloud"
)

// Integrations and widgets.
const (
	KindButton         Kind = "button"
	KindButtonGroup    Kind = "button-group"
	KindSocialLinks    Kind = "social-links"
	KindShareButtons   Kind = "share-buttons"
	KindChatWidget     Kind = "chat-widget"
	KindCalendarEmbed  Kind = "calendar-embed"
	KindRating         Kind = "rating"
	KindProgressBar    Kind = "progress-bar"
	KindAlert          Kind = "alert"
	KindTable          Kind = "table"
	KindWhatsAppButton Kind = "whatsapp-button"
	KindCookieBanner   Kind = "cookie-banner"
)

// kindInfo describes ingestion-time facts about a kind.
type kindInfo struct {
	container   bool
	collections []string
}

var kinds = map[Kind]kindInfo{
	KindNavbar:           {collections: []string{"links"}},
	KindFooter:           {collections: []string{"links", "columns", "socials"}},
	KindBreadcrumbs:      {collections: []string{"items"}},
	KindSidebarNav:       {collections: []string{"links"}},
	KindMobileMenu:       {collections: []string{"links"}},
	KindScrollToTop:      {},
	KindLanguageSwitcher: {},

	KindHero:       {collections: []string{"buttons"}},
	KindHeroSplit:  {collections: []string{"buttons"}},
	KindHeroVideo:  {collections: []string{"buttons"}},
	KindPageHeader: {},

	KindSection:   {container: true},
	KindColumns:   {container: true},
	KindSticky:    {container: true},
	KindContainer: {container: true},
	KindGrid:      {container: true},
	KindDivider:   {},
	KindSpacer:    {},
	KindAnchor:    {},

	KindHeading:        {},
	KindParagraph:      {},
	KindRichText:       {},
	KindMarkdown:       {},
	KindQuote:          {},
	KindList:           {collections: []string{"items"}},
	KindDefinitionList: {collections: []string{"items"}},
	KindCodeBlock:      {},
	KindCustomHTML:     {},
	KindBadge:          {},

	KindImage:       {},
	KindGallery:     {collections: []string{"images"}},
	KindVideo:       {},
	KindAudio:       {},
	KindEmbed:       {},
	KindMap:         {},
	KindIcon:        {},
	KindCarousel:    {collections: []string{"slides"}},
	KindLogoCloud:   {collections: []string{"logos"}},
	KindBeforeAfter: {},

	KindFeatures:        {collections: []string{"items"}},
	KindCTA:             {collections: []string{"buttons"}},
	KindTestimonials:    {collections: []string{"items"}},
	KindPricing:         {collections: []string{"plans"}},
	KindFAQ:             {collections: []string{"items"}},
	KindStats:           {collections: []string{"items"}},
	KindTeam:            {collections: []string{"members"}},
	KindTimeline:        {collections: []string{"items"}},
	KindCountdown:       {},
	KindBanner:          {},
	KindTabs:            {collections: []string{"tabs"}},
	KindAccordion:       {collections: []string{"items"}},
	KindSteps:           {collections: []string{"items"}},
	KindComparisonTable: {collections: []string{"columns", "rows"}},
	KindCard:            {container: true},
	KindCardGrid:        {collections: []string{"cards"}},

	KindContactForm: {collections: []string{"fields"}},
	KindNewsletter:  {},
	KindLoginForm:   {},
	KindSearchBox:   {},
	KindBookingForm: {collections: []string{"services"}},
	KindSurvey:      {collections: []string{"questions"}},

	KindProductCard:     {},
	KindProductGrid:     {collections: []string{"products"}},
	KindCartButton:      {},
	KindPriceTag:        {},
	KindCheckoutSummary: {collections: []string{"items"}},

	KindBlogList:     {collections: []string{"posts"}},
	KindBlogPost:     {collections: []string{"tags"}},
	KindAuthorBio:    {collections: []string{"links"}},
	KindCategoryList: {collections: []string{"categories"}},
	KindTagCloud:     {collections: []string{"tags"}},

	KindButton:         {},
	KindButtonGroup:    {collections: []string{"buttons"}},
	KindSocialLinks:    {collections: []string{"links"}},
	KindShareButtons:   {collections: []string{"networks"}},
	KindChatWidget:     {},
	KindCalendarEmbed:  {},
	KindRating:         {},
	KindProgressBar:    {},
	KindAlert:          {},
	KindTable:          {collections: []string{"headers", "rows"}},
	KindWhatsAppButton: {},
	KindCookieBanner:   {},
}

// Known reports whether k is part of the closed kind set.
func (k Kind) Known() bool {
	_, ok := kinds[k]
	return ok
}

// Container reports whether components of this kind render their children.
func (k Kind) Container() bool { return kinds[k].container }

// CollectionProps lists the properties of k that must be ordered collections.
func CollectionProps(k Kind) []string { return kinds[k].collections }

// AllKinds returns every recognized kind in sorted order.
func AllKinds() []Kind {
	out := make([]Kind, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
