package enrichment

import (
	"context"
	"log"
	"time"

	"github.com/jonathan/candidate-screener/internal/fetch"
)

// WebsiteTimeout bounds the whole website fetch, including any browser
// fallback.
const WebsiteTimeout = 30 * time.Second

// MaxWebsiteText caps how much extracted site text is kept on the profile.
const MaxWebsiteText = 8000

// WebsiteText fetches the candidate's personal site and extracts its main
// text. Best-effort: any failure returns the empty string.
func WebsiteText(ctx context.Context, url string, useBrowser bool) string {
	if url == "" {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, WebsiteTimeout)
	defer cancel()

	result, err := fetch.URL(ctx, url, nil)
	if err != nil {
		log.Printf("website enrichment failed for %s: %v", url, err)
		return ""
	}

	text, err := fetch.ExtractMainText(result.HTML, fetch.PersonalSiteSelectors())
	if err != nil {
		log.Printf("website enrichment failed to parse %s: %v", url, err)
		return ""
	}

	// JavaScript-heavy portfolio sites often render nothing server-side;
	// retry with a headless browser when enabled.
	if useBrowser && fetch.ShouldUseBrowser(text) {
		html, err := fetch.WithBrowser(ctx, url, WebsiteTimeout)
		if err != nil {
			log.Printf("browser fallback failed for %s: %v", url, err)
		} else if rendered, err := fetch.ExtractMainText(html, fetch.PersonalSiteSelectors()); err == nil && len(rendered) > len(text) {
			text = rendered
		}
	}

	if len(text) > MaxWebsiteText {
		text = text[:MaxWebsiteText]
	}
	return text
}
