// internal/models/insight.go
package models

import "strings"

// HardwareOpportunity flags the equipment categories a company likely needs.
type HardwareOpportunity struct {
	Workstations bool `json:"workstations"`
	Servers      bool `json:"servers"`
	Networking   bool `json:"networking"`
	Storage      bool `json:"storage"`
	Peripherals  bool `json:"peripherals"`
}

// Categories returns display labels for the flagged needs, in fixed order.
func (h HardwareOpportunity) Categories() []string {
	var needs []string
	if h.Workstations {
		needs = append(needs, "Workstations")
	}
	if h.Servers {
		needs = append(needs, "Servers")
	}
	if h.Networking {
		needs = append(needs, "Networking")
	}
	if h.Storage {
		needs = append(needs, "Storage")
	}
	if h.Peripherals {
		needs = append(needs, "Peripherals")
	}
	return needs
}

// NeedsSummary renders the flagged needs as prose for outreach prompts.
func (h HardwareOpportunity) NeedsSummary() string {
	var needs []string
	if h.Workstations {
		needs = append(needs, "desktop computers/workstations")
	}
	if h.Servers {
		needs = append(needs, "servers")
	}
	if h.Networking {
		needs = append(needs, "networking equipment")
	}
	if h.Storage {
		needs = append(needs, "storage solutions")
	}
	if h.Peripherals {
		needs = append(needs, "peripherals")
	}
	if len(needs) == 0 {
		return "general IT hardware needs"
	}
	return strings.Join(needs, ", ")
}

// InsightRecord is the structured result of analyzing a company website.
// It stays typed through the pipeline and is flattened to rows only at the
// persistence boundary.
type InsightRecord struct {
	BusinessSummary     string              `json:"business_summary"`
	SizeIndicator       string              `json:"company_size_indicator"` // small/medium/large/unknown
	KeyInsights         []string            `json:"key_insights"`
	HardwareOpportunity HardwareOpportunity `json:"hardware_opportunity"`
	DecisionMakerHint   string              `json:"decision_maker_hint"`
	PersonalizationHook string              `json:"personalization_hook"`
}
