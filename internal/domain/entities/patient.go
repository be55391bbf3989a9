package entities

import "time"

// MatchPreferences captures a patient's trial matching preferences.
type MatchPreferences struct {
	PreferredLocation    string   `json:"preferred_location"`
	WillingToTravel      bool     `json:"willing_to_travel"`
	ConditionFocus       []string `json:"condition_focus"`
	TrialPhasePreference []string `json:"trial_phase_preference"`
	TrialType            []string `json:"trial_type"`
}

// Patient is a registered patient profile record.
type Patient struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	ConsentGiven bool              `json:"consent_given"`
	Preferences  *MatchPreferences `json:"preferences,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}
