// Package formurl builds the embed URL of the Google Form evaluators fill in,
// optionally prefilling the question that records the audio file name.
package formurl

import (
	"net/url"
	"strings"
)

const placeholder = "YOUR_GOOGLE_FORM_EMBED_URL_HERE"

type Builder struct {
	base          string
	filenameEntry string
}

// New takes the form's viewform URL and, optionally, the entry id of the
// question that should be prefilled with the file name ("entry.123456" or
// just "123456").
func New(base, filenameEntry string) *Builder {
	entry := strings.TrimSpace(filenameEntry)
	if entry != "" && !strings.HasPrefix(entry, "entry.") {
		entry = "entry." + entry
	}
	return &Builder{base: strings.TrimSpace(base), filenameEntry: entry}
}

func (b *Builder) Configured() bool {
	if b.base == "" || b.base == placeholder {
		return false
	}
	u, err := url.Parse(b.base)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func (b *Builder) Prefills() bool {
	return b.filenameEntry != ""
}

// EmbedURL returns the URL for the iframe, or "" when no form is configured.
func (b *Builder) EmbedURL(filename string) string {
	if !b.Configured() {
		return ""
	}
	u, _ := url.Parse(b.base)

	q := u.Query()
	q.Set("embedded", "true")
	if b.filenameEntry != "" && filename != "" {
		q.Set("usp", "pp_url")
		q.Set(b.filenameEntry, filename)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
