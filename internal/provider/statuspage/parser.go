// Package statuspage parses Statuspage-compatible summary payloads,
// the schema family shared by many third-party status pages
// (status.indicator, status.description, incidents[]).
package statuspage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/statusdeck/statusdeck/internal/provider"
	"github.com/statusdeck/statusdeck/internal/status"
)

// Statuspage summary payload structures. Only the fields the parser
// reads are declared; everything else in the document is ignored.

type payload struct {
	Status struct {
		Indicator   string `json:"indicator"`
		Description string `json:"description"`
	} `json:"status"`
	Incidents []incident `json:"incidents"`
}

type incident struct {
	Name      string `json:"name"`
	Shortlink string `json:"shortlink"`
}

// Parse normalizes a Statuspage-compatible payload. The indicator maps
// through the canonical table; a blank description falls back to a
// default phrase for the mapped state; each incident contributes its
// name, then its shortlink, then "Unnamed incident".
func Parse(data []byte) (provider.Check, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return provider.Check{}, fmt.Errorf("decoding statuspage payload: %w", err)
	}

	st := status.MapIndicator(p.Status.Indicator)

	message := strings.TrimSpace(p.Status.Description)
	if message == "" {
		message = defaultMessage(st)
	}

	var incidents []string
	for _, inc := range p.Incidents {
		switch {
		case inc.Name != "":
			incidents = append(incidents, inc.Name)
		case inc.Shortlink != "":
			incidents = append(incidents, inc.Shortlink)
		default:
			incidents = append(incidents, "Unnamed incident")
		}
	}

	return provider.Check{
		Status:    st,
		Message:   message,
		Incidents: incidents,
	}, nil
}

func defaultMessage(st status.Status) string {
	switch st {
	case status.StatusOperational:
		return "All systems operational"
	case status.StatusDegraded:
		return "Some issues detected"
	default:
		return "Service disruption"
	}
}
