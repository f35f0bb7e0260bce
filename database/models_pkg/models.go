// Package models defines the persisted data models for the bazaar-radar
// demand opportunity system.
//
// All persisted models live here, outside the database package itself, to
// avoid circular import dependencies between the connection layer and the
// per-domain repositories.
package models

import (
	"time"

	"github.com/lib/pq"
)

// AlertType enumerates the closed set of alert categories the rule
// evaluators can produce.
type AlertType string

const (
	AlertDemandPeak         AlertType = "demand_peak"
	AlertWeatherOpportunity AlertType = "weather_opportunity"
	AlertEventSpike         AlertType = "event_spike"
	AlertSocialTrend        AlertType = "social_trend"
	AlertCompetitorStockout AlertType = "competitor_stockout"
	AlertFestivalBoost      AlertType = "festival_boost"
	AlertPromotionTiming    AlertType = "promotion_timing"
	AlertSentimentPeak      AlertType = "sentiment_peak"
	AlertFootfallWindow     AlertType = "footfall_window"
)

// AlertPriority enumerates alert priority levels.
type AlertPriority string

const (
	PriorityLow    AlertPriority = "low"
	PriorityMedium AlertPriority = "medium"
	PriorityHigh   AlertPriority = "high"
	PriorityUrgent AlertPriority = "urgent"
)

// AlertStatus enumerates the alert lifecycle states. Only "new" alerts
// participate in deduplication.
type AlertStatus string

const (
	StatusNew       AlertStatus = "new"
	StatusRead      AlertStatus = "read"
	StatusActed     AlertStatus = "acted"
	StatusDismissed AlertStatus = "dismissed"
)

// User represents a retailer account.
type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FullName  string    `gorm:"size:255;not null" json:"full_name"`
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`

	BusinessName     string         `gorm:"size:255" json:"business_name"`
	MarketCategories pq.StringArray `gorm:"type:text[]" json:"market_categories"`
	LocationCity     string         `gorm:"size:100" json:"location_city"`
	LocationCountry  string         `gorm:"size:100;default:IN" json:"location_country"`

	TrackedKeywords []TrackedKeyword `gorm:"constraint:OnDelete:CASCADE" json:"tracked_keywords,omitempty"`
	Alerts          []Alert          `gorm:"constraint:OnDelete:CASCADE" json:"alerts,omitempty"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// City returns the user's city, defaulting to Mumbai for accounts created
// before location was collected.
func (u *User) City() string {
	if u.LocationCity != "" {
		return u.LocationCity
	}
	return "Mumbai"
}

// Country returns the user's ISO country code, defaulting to IN.
func (u *User) Country() string {
	if u.LocationCountry != "" {
		return u.LocationCountry
	}
	return "IN"
}

// TrackedKeyword is a keyword a user watches for demand opportunities.
type TrackedKeyword struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Keyword   string    `gorm:"size:200;not null" json:"keyword"`
	Category  *string   `gorm:"size:100" json:"category,omitempty"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for TrackedKeyword
func (TrackedKeyword) TableName() string {
	return "tracked_keywords"
}

// Alert is a persisted, deduplicated notification for a retailer.
//
// ContextData holds the JSON-encoded rule context (weather fields, holiday
// fields, trend fields) produced by the evaluator that fired. The in-memory
// form is a typed variant, see database/types.AlertContext.
type Alert struct {
	ID       uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   uint          `gorm:"index;not null" json:"user_id"`
	Type     AlertType     `gorm:"column:alert_type;size:50;index;not null" json:"alert_type"`
	Priority AlertPriority `gorm:"size:20;default:medium" json:"priority"`
	Status   AlertStatus   `gorm:"size:20;default:new;index" json:"status"`

	Title    string  `gorm:"size:255;not null" json:"title"`
	Message  string  `gorm:"type:text;not null" json:"message"`
	Keyword  *string `gorm:"size:200" json:"keyword,omitempty"`
	Category *string `gorm:"size:100" json:"category,omitempty"`

	ContextData      []byte   `gorm:"type:jsonb" json:"context_data,omitempty"`
	PredictedImpact  *float64 `json:"predicted_impact,omitempty"`
	ConfidenceScore  float64  `gorm:"default:0" json:"confidence_score"`
	OpportunityScore *int     `json:"opportunity_score,omitempty"`
	ScoreExplanation string   `gorm:"size:500" json:"score_explanation,omitempty"`

	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	ActedAt   *time.Time `json:"acted_at,omitempty"`
}

// TableName specifies the table name for Alert
func (Alert) TableName() string {
	return "alerts"
}

// DemandSignal is a historical record of the normalized external signals
// observed for a (city, keyword) pair during one pipeline run. The live
// pipeline works on the ephemeral in-memory snapshot; these rows exist for
// later analysis and model training only.
type DemandSignal struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
	City      string    `gorm:"size:100;index;not null" json:"city"`
	Keyword   string    `gorm:"size:200;index;not null" json:"keyword"`
	Category  *string   `gorm:"size:100;index" json:"category,omitempty"`

	SearchTrendScore *int     `json:"search_trend_score,omitempty"` // 0-100
	Temperature      *float64 `json:"temperature,omitempty"`
	RainProbability  *float64 `json:"rain_probability,omitempty"`
	IsHoliday        bool     `gorm:"default:false" json:"is_holiday"`
	HolidayName      *string  `gorm:"size:200" json:"holiday_name,omitempty"`
}

// TableName specifies the table name for DemandSignal
func (DemandSignal) TableName() string {
	return "demand_signals"
}

// AlertWebhook is a user-configured endpoint that receives newly created
// alerts as JSON payloads.
type AlertWebhook struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Name      string    `gorm:"size:100" json:"name"`
	URL       string    `gorm:"size:500;not null" json:"url"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for AlertWebhook
func (AlertWebhook) TableName() string {
	return "alert_webhooks"
}
