package extract

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"award-watch/pkg/domain"

	"github.com/araddon/dateparse"
)

// SourceTag labels every event with the feed it came from.
const SourceTag = "defense.gov"

// TopDepartment is the agency context every article starts in.
const TopDepartment = "Department of Defense"

const (
	defaultMinParagraphLen = 45
	summaryMaxLen          = 280
)

// agencyHeadings is the fixed list of service/agency section headings, in
// upper case. A paragraph leading with one of these is a heading, never
// an award line.
var agencyHeadings = []string{
	"ARMY",
	"NAVY",
	"AIR FORCE",
	"SPACE FORCE",
	"MARINE CORPS",
	"DEFENSE LOGISTICS AGENCY",
	"MISSILE DEFENSE AGENCY",
	"DEFENSE ADVANCED RESEARCH PROJECTS AGENCY",
	"DEFENSE INFORMATION SYSTEMS AGENCY",
	"DEFENSE HEALTH AGENCY",
	"DEFENSE THREAT REDUCTION AGENCY",
	"DEFENSE COUNTERINTELLIGENCE AND SECURITY AGENCY",
	"U.S. SPECIAL OPERATIONS COMMAND",
	"U.S. TRANSPORTATION COMMAND",
	"WASHINGTON HEADQUARTERS SERVICES",
}

// agencyAliases expands shorthand headings to their full agency name.
var agencyAliases = map[string]string{
	"AF": "AIR FORCE",
}

// boilerplateLeads are non-substantive paragraph openers that never
// describe an award.
var boilerplateLeads = []string{
	"EDITOR'S NOTE",
	"*EDITOR'S NOTE",
	"CORRECTION",
	"UPDATE:",
	"CONTRACTS VALUED AT",
}

// Context carries the article-level provenance handed to Extract.
type Context struct {
	Link         string
	Title        string
	PublishedRaw string
}

// Options tunes the extractor.
type Options struct {
	// MinParagraphLen filters out page furniture; paragraphs shorter
	// than this never become events. Headings are exempt.
	MinParagraphLen int

	// RequireSignal drops paragraphs where no sub-parser matched.
	// Off by default: an ambiguous award line is worth more than a
	// silently dropped one.
	RequireSignal bool
}

// Extractor turns article text into award events. It is pure: no I/O,
// and identical input always yields identical output.
type Extractor struct {
	opts Options
}

// New creates an extractor with default options.
func New() *Extractor {
	return NewWithOptions(Options{})
}

// NewWithOptions creates an extractor with explicit options.
func NewWithOptions(opts Options) *Extractor {
	if opts.MinParagraphLen <= 0 {
		opts.MinParagraphLen = defaultMinParagraphLen
	}
	return &Extractor{opts: opts}
}

// Extract splits text into paragraphs and emits zero or more award
// events. A paragraph matching an agency heading updates the running
// agency context and never emits an event in the same pass; the heading
// check deliberately precedes everything else.
func (e *Extractor) Extract(text string, ctx Context) []domain.AwardEvent {
	published := parsePublished(ctx.PublishedRaw)
	agency := TopDepartment

	var events []domain.AwardEvent
	for _, para := range splitParagraphs(text) {
		if heading, ok := matchHeading(para); ok {
			agency = heading
			continue
		}
		if len(para) < e.opts.MinParagraphLen {
			continue
		}
		if isBoilerplate(para) {
			continue
		}

		ev := e.buildEvent(para, agency, published, ctx)
		if e.opts.RequireSignal && hasReason(ev, domain.ReasonNoSignal) {
			continue
		}
		events = append(events, ev)
	}

	return events
}

func (e *Extractor) buildEvent(para, agency, published string, ctx Context) domain.AwardEvent {
	agencies := []string{TopDepartment}
	if agency != TopDepartment {
		agencies = append(agencies, agency)
	}

	ids := ParseContractIDs(para)
	amount := ParseAmount(para)
	vendor, hasVendor := ParseVendor(para)

	ev := domain.AwardEvent{
		Source:    SourceTag,
		SourceURL: ctx.Link,
		Published: published,
		Title:     ctx.Title,
		Summary:   truncate(para, summaryMaxLen),
		Body:      para,
		Agencies:  agencies,
		Vendors:   []string{},
		Reasons:   reasonsFor(para, amount != nil || hasVendor || len(ids) > 0),
		Meta: map[string]any{
			"link":         ctx.Link,
			"contract_ids": ids,
		},
	}

	if hasVendor {
		ev.Vendors = append(ev.Vendors, vendor)
	}
	if len(ids) > 0 {
		ev.ContractID = ids[0]
	}
	if amount != nil {
		ev.Amount = &amount.Value
		ev.AmountUnit = amount.Unit
		ev.AmountText = amount.Text
	}

	return ev
}

// reasonsFor tags the event's inferred nature from paragraph wording.
func reasonsFor(para string, anySignal bool) []string {
	reasons := []string{domain.ReasonContractAward}
	lower := strings.ToLower(para)
	if strings.Contains(lower, "modification") {
		reasons = append(reasons, domain.ReasonContractModification)
	}
	if strings.Contains(lower, "exercise") && strings.Contains(lower, "option") {
		reasons = append(reasons, domain.ReasonOptionExercise)
	}
	if !anySignal {
		reasons = append(reasons, domain.ReasonNoSignal)
	}
	return reasons
}

func hasReason(ev domain.AwardEvent, reason string) bool {
	for _, r := range ev.Reasons {
		if r == reason {
			return true
		}
	}
	return false
}

var paragraphBreakRe = regexp.MustCompile(`\n\s*\n`)

// splitParagraphs breaks text on blank-line boundaries and trims each
// paragraph, dropping empty ones.
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var paras []string
	for _, chunk := range paragraphBreakRe.Split(text, -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			paras = append(paras, chunk)
		}
	}
	return paras
}

// matchHeading reports whether the paragraph is an agency section
// heading. The upper-cased paragraph must lead with one of the
// enumerated names at a token boundary. Returns the heading text with
// any trailing colon removed; known aliases expand to the full name.
func matchHeading(para string) (string, bool) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(para), ":")
	upper := strings.ToUpper(trimmed)

	if full, ok := agencyAliases[upper]; ok {
		return full, true
	}

	for _, name := range agencyHeadings {
		if upper == name {
			return trimmed, true
		}
		if strings.HasPrefix(upper, name+" ") && len(trimmed) <= len(name)+24 {
			// Heading with a short trailing qualifier, e.g. a date.
			return trimmed, true
		}
	}
	return "", false
}

// isBoilerplate matches known non-substantive leads by prefix.
func isBoilerplate(para string) bool {
	upper := strings.ToUpper(para)
	for _, lead := range boilerplateLeads {
		if strings.HasPrefix(upper, lead) {
			return true
		}
	}
	return false
}

// parsePublished converts the raw feed date to ISO-8601, defaulting to
// the current time when the raw form is unparsable.
func parsePublished(raw string) string {
	if raw != "" {
		if t, err := dateparse.ParseAny(raw); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

// truncate cuts s to at most max bytes without splitting a rune, so the
// result is always valid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
