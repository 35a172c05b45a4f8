// Package incidentfeed parses flat incident-array feeds in the Google
// Cloud incidents.json style. The feed has no per-component summary, so
// service health is derived by filtering the incident list down to the
// configured component and region.
package incidentfeed

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/statusdeck/statusdeck/internal/provider"
	"github.com/statusdeck/statusdeck/internal/status"
)

// Feed incident structures. Only the fields the filter reads are
// declared.

type incident struct {
	ExternalDesc     string    `json:"external_desc"`
	Begin            string    `json:"begin"`
	End              string    `json:"end"`
	AffectedProducts []product `json:"affected_products"`
	Updates          []update  `json:"updates"`
}

type product struct {
	Title string `json:"title"`
}

type update struct {
	Text string `json:"text"`
}

// Parse filters the raw incident feed down to incidents that are still
// open at now (UTC), affect the named component, and mention the region
// marker. Any retained incident means an outage; none means the
// component is operational.
//
// An incident is still open when it has no end timestamp or its end is
// not strictly in the past. Unparsable end timestamps count as open:
// the filter only drops incidents that are provably over.
//
// The region match is a literal case-sensitive substring check against
// the external description and every update text. Alternate phrasings
// and locales are not normalized; this is a known limitation.
func Parse(data []byte, component, region string, now time.Time) (provider.Check, error) {
	var feed []incident
	if err := json.Unmarshal(data, &feed); err != nil {
		return provider.Check{}, fmt.Errorf("decoding incident feed: %w", err)
	}

	now = now.UTC()

	var active []string
	for _, inc := range feed {
		if inc.endedBefore(now) {
			continue
		}
		if !inc.affectsComponent(component) {
			continue
		}
		if !inc.mentionsRegion(region) {
			continue
		}
		active = append(active, inc.describe())
	}

	if len(active) > 0 {
		return provider.Check{
			Status:    status.StatusOutage,
			Message:   fmt.Sprintf("%d incident(s) affecting %s in %s", len(active), component, region),
			Incidents: active,
		}, nil
	}

	return provider.Check{
		Status:  status.StatusOperational,
		Message: fmt.Sprintf("No active incidents for %s in %s", component, region),
	}, nil
}

// endedBefore reports whether the incident's end timestamp is strictly
// in the past. Missing or unparsable timestamps keep the incident open.
func (inc incident) endedBefore(now time.Time) bool {
	if inc.End == "" {
		return false
	}
	end, err := time.Parse(time.RFC3339, inc.End)
	if err != nil {
		return false
	}
	return end.UTC().Before(now)
}

// affectsComponent reports whether the component name appears in the
// incident's affected products. Exact string match.
func (inc incident) affectsComponent(component string) bool {
	for _, p := range inc.AffectedProducts {
		if p.Title == component {
			return true
		}
	}
	return false
}

// mentionsRegion reports whether the region marker appears in the
// external description or any update text.
func (inc incident) mentionsRegion(region string) bool {
	if strings.Contains(inc.ExternalDesc, region) {
		return true
	}
	for _, u := range inc.Updates {
		if strings.Contains(u.Text, region) {
			return true
		}
	}
	return false
}

// describe returns the incident's display text: external description,
// then the last update's text, then a placeholder.
func (inc incident) describe() string {
	if inc.ExternalDesc != "" {
		return inc.ExternalDesc
	}
	if n := len(inc.Updates); n > 0 && inc.Updates[n-1].Text != "" {
		return inc.Updates[n-1].Text
	}
	return "No details"
}
