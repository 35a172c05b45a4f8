// Package componentpage parses status pages that organize health by
// named sub-components with a global status fallback. Payloads in this
// family disagree on nesting: some put components, incidents and status
// at the top level, others under a "page" object. Each lookup tries the
// documented paths in order so the fallback behavior stays auditable.
package componentpage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/statusdeck/statusdeck/internal/provider"
	"github.com/statusdeck/statusdeck/internal/status"
)

// Fallback texts substituted when the payload carries no description.
const (
	noComponentDescription = "No description available"
	noGlobalDescription    = "No global description"
)

type envelope struct {
	Components []component  `json:"components"`
	Incidents  []incident   `json:"incidents"`
	Status     *statusBlock `json:"status"`
	Page       struct {
		Components []component  `json:"components"`
		Incidents  []incident   `json:"incidents"`
		Status     *statusBlock `json:"status"`
	} `json:"page"`
}

type component struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	Indicator   string `json:"indicator"`
	Description string `json:"description"`
}

type incident struct {
	Name               string   `json:"name"`
	Components         []string `json:"components"`
	AffectedComponents []string `json:"affected_components"`
}

type statusBlock struct {
	Indicator   string `json:"indicator"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

// components returns the component list, trying the top level first and
// then page.components.
func (e *envelope) components() []component {
	if len(e.Components) > 0 {
		return e.Components
	}
	return e.Page.Components
}

// incidents returns the incident list, same lookup order as components.
func (e *envelope) incidents() []incident {
	if len(e.Incidents) > 0 {
		return e.Incidents
	}
	return e.Page.Incidents
}

// globalStatus returns the global status block, top level first, then
// page.status. May be nil when the payload has neither.
func (e *envelope) globalStatus() *statusBlock {
	if e.Status != nil {
		return e.Status
	}
	return e.Page.Status
}

// rawIndicator reads the component's severity token, preferring the
// status field over the indicator field.
func (c *component) rawIndicator() string {
	if c.Status != "" {
		return c.Status
	}
	return c.Indicator
}

// rawIndicator reads the global block's severity token, preferring the
// indicator field over the status field. Note the preference order is
// the reverse of the component lookup; the schema family is simply
// inconsistent between the two levels.
func (b *statusBlock) rawIndicator() string {
	if b.Indicator != "" {
		return b.Indicator
	}
	return b.Status
}

// affectedIDs returns the incident's affected component ids, read from
// components first, then affected_components.
func (inc *incident) affectedIDs() []string {
	if len(inc.Components) > 0 {
		return inc.Components
	}
	return inc.AffectedComponents
}

// Parse resolves the status of the component whose name contains key as
// a case-insensitive substring. The first match wins. When no component
// matches, the global status block decides and incidents are left
// empty.
func Parse(data []byte, key string) (provider.Check, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return provider.Check{}, fmt.Errorf("decoding component page: %w", err)
	}

	if comp := findComponent(env.components(), key); comp != nil {
		return componentCheck(&env, comp), nil
	}
	return globalCheck(&env), nil
}

// findComponent returns the first component whose name contains key,
// case-insensitively, or nil.
func findComponent(components []component, key string) *component {
	lowerKey := strings.ToLower(key)
	for i := range components {
		if strings.Contains(strings.ToLower(components[i].Name), lowerKey) {
			return &components[i]
		}
	}
	return nil
}

func componentCheck(env *envelope, comp *component) provider.Check {
	message := strings.TrimSpace(comp.Description)
	if message == "" {
		message = noComponentDescription
	}

	var incidents []string
	for _, inc := range env.incidents() {
		if !containsID(inc.affectedIDs(), comp.ID) {
			continue
		}
		if inc.Name != "" {
			incidents = append(incidents, inc.Name)
		} else {
			incidents = append(incidents, "Unnamed incident")
		}
	}

	return provider.Check{
		Status:    status.MapIndicator(comp.rawIndicator()),
		Message:   message,
		Incidents: incidents,
	}
}

func globalCheck(env *envelope) provider.Check {
	raw := ""
	message := ""
	if block := env.globalStatus(); block != nil {
		raw = block.rawIndicator()
		message = strings.TrimSpace(block.Description)
	}
	if message == "" {
		message = noGlobalDescription
	}

	return provider.Check{
		Status:  status.MapIndicator(raw),
		Message: message,
	}
}

func containsID(ids []string, id string) bool {
	if id == "" {
		return false
	}
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
