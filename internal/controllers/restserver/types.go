package restserver

import (
	"time"

	"github.com/chrissnell/moonhike/pkg/config"
	"github.com/chrissnell/moonhike/pkg/evaluator"
)

// LocationInfo identifies where a range was evaluated
type LocationInfo struct {
	Name      string  `json:"name,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// NightsResponse is the body of /nights and /sites/{site}/nights
type NightsResponse struct {
	RequestID  string                          `json:"request_id"`
	Location   LocationInfo                    `json:"location"`
	Start      string                          `json:"start"`
	End        string                          `json:"end"`
	Hiking     evaluator.HikingConditions      `json:"hiking"`
	StarGazing *evaluator.StarGazingConditions `json:"star_gazing,omitempty"`
	Summary    evaluator.Summary               `json:"summary"`
	Nights     []evaluator.DailyResult         `json:"nights"`
}

// SitesResponse lists the configured observing sites
type SitesResponse struct {
	Default LocationInfo      `json:"default"`
	Sites   []config.SiteData `json:"sites"`
}

// MoonPhaseResponse describes the Moon at one instant
type MoonPhaseResponse struct {
	Time         time.Time `json:"time"`
	Illumination float64   `json:"illumination"`
	AgeDays      float64   `json:"age_days"`
	Waxing       bool      `json:"waxing"`
	PhaseName    string    `json:"phase_name"`
}

// HealthResponse reports the server version
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
