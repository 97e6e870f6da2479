package multiplicity

import (
	"encoding/json"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/eringen/multiplicity/markdown"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// Ordinal returns n with its uppercase English ordinal suffix: 1ST, 2ND,
// 3RD, 4TH, 11TH, 21ST.
func Ordinal(n int) string {
	suffix := "TH"
	switch v := n % 100; {
	case v >= 11 && v <= 13:
	case v%10 == 1:
		suffix = "ST"
	case v%10 == 2:
		suffix = "ND"
	case v%10 == 3:
		suffix = "RD"
	}
	return strconv.Itoa(n) + suffix
}

// FormatEventDate renders t as "MONTH DAYTH YEAR", e.g. "MARCH 21ST 2025".
// Dates are shown in UTC, the zone they are stored in.
func FormatEventDate(t time.Time) string {
	month, day := FormatEventDay(t)
	return month + " " + day + " " + strconv.Itoa(t.UTC().Year())
}

// FormatEventDay returns the uppercase month and ordinal day of t.
func FormatEventDay(t time.Time) (month, day string) {
	t = t.UTC()
	return strings.ToUpper(t.Month().String()), Ordinal(t.Day())
}

// SpeakerNames joins the names of an event's speakers with commas.
func SpeakerNames(speakers []Speaker) string {
	names := make([]string, 0, len(speakers))
	for _, s := range speakers {
		names = append(names, s.Names)
	}
	return strings.Join(names, ", ")
}

// EventSummary is the plain text used in meta descriptions, feeds and
// calendar entries.
func EventSummary(e Event) string {
	return markdown.Excerpt(e.Description, 200)
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// EventJsonLD returns a JSON-LD string for an Event schema.
func EventJsonLD(e Event, cfg SiteConfig) string {
	eventURL := BuildURL(cfg.URL, "events", e.Slug)
	data := map[string]interface{}{
		"@context":            "https://schema.org",
		"@type":               "Event",
		"name":                e.Title,
		"description":         EventSummary(e),
		"startDate":           e.Date.UTC().Format(time.RFC3339),
		"url":                 eventURL,
		"eventAttendanceMode": "https://schema.org/OfflineEventAttendanceMode",
		"eventStatus":         "https://schema.org/EventScheduled",
	}
	if cfg.Organizer != "" {
		data["organizer"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Organizer,
			"url":   BuildURL(cfg.URL),
		}
	}
	if !e.Location.IsZero() {
		data["location"] = map[string]interface{}{
			"@type":   "Place",
			"address": markdown.PlainText(e.Location.Address),
			"url":     e.Location.AddressLink,
		}
	}
	if len(e.Speakers) > 0 {
		performers := make([]map[string]string, 0, len(e.Speakers))
		for _, s := range e.Speakers {
			performers = append(performers, map[string]string{"@type": "Person", "name": s.Names})
		}
		data["performer"] = performers
	}
	if len(e.Images) > 0 {
		data["image"] = absoluteURL(cfg.URL, e.Images[0].Src)
	}
	if e.TicketURL != "" {
		data["offers"] = map[string]string{"@type": "Offer", "url": e.TicketURL}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// hostOf returns the host of a URL, or the input when it does not parse.
func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Hostname()
}

// absoluteURL resolves a site-relative media path against base.
func absoluteURL(base, src string) string {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(src, "/")
}
