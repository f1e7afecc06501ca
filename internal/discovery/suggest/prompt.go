package suggest

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"timescape_backend/internal/discovery/domain"
)

// Request is a fully composed suggestion request for the generative backend.
type Request struct {
	Query        string
	Instructions string
	Schema       *genai.Schema
}

// BuildRequest turns raw query text into a request. The second return value
// is false for empty or whitespace-only text, which short-circuits to an
// empty batch without a backend call.
func BuildRequest(query string, minItems, maxItems int) (Request, bool) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return Request{}, false
	}

	return Request{
		Query:        trimmed,
		Instructions: buildInstructions(minItems, maxItems),
		Schema:       ResponseSchema(),
	}, true
}

// buildInstructions encodes the generation policy. These are rules the model
// must follow, not hints.
func buildInstructions(minItems, maxItems int) string {
	var b strings.Builder

	b.WriteString("You are a history expert helping people discover historical places, events and cultural heritage around the world.\n")
	b.WriteString("Given the user's search text, return ")
	fmt.Fprintf(&b, "%d to %d place suggestions as structured data.\n\n", minItems, maxItems)

	b.WriteString("Rules:\n")
	b.WriteString("1. Every place must carry a resolvable external place identifier in placeId.\n")
	b.WriteString("2. locationType must correctly distinguish a single site or monument (point) from a city, park or region (area).\n")
	b.WriteString("3. Latitude, longitude and an appropriate zoomLevel are mandatory; use zoom 15-22 for point locations.\n")
	b.WriteString("4. Give each place 2 to 4 details, exactly one of which uses the globe icon and names the country.\n")
	fmt.Fprintf(&b, "5. Avoid these overused landmarks unless the user's text explicitly names one: %s.\n", strings.Join(domain.OverusedLandmarks(), ", "))
	b.WriteString("6. If the query names an event rather than a place, resolve it to a physically grounded location tied to that event: a site, museum, excavation or city center.\n")
	b.WriteString("7. Across the batch, mix place-type and event-linked entries and prefer geographic diversity.\n\n")

	b.WriteString("Keep each suggestion label to at most 8 words. Order the list by relevance; the order you return is the order shown.")

	return b.String()
}
