package model

import (
	"slices"

	"github.com/okian/regrow/internal/domain/calendar"
)

// UserProfile captures onboarding answers. StartDate is unset until
// onboarding finishes and never changes afterwards.
type UserProfile struct {
	AgeRange           string        `json:"ageRange"`
	CommitmentLevel    string        `json:"commitmentLevel"`
	HairPattern        []string      `json:"hairPattern"`
	StartDate          calendar.Date `json:"startDate"`
	OnboardingComplete bool          `json:"onboardingComplete"`
}

// Started reports whether the protocol has a start date.
func (u UserProfile) Started() bool {
	return u.OnboardingComplete && !u.StartDate.IsZero()
}

// StreakState holds the qualifying-day streaks. Best >= Current and Best
// never decreases.
type StreakState struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// Settings are user preferences the core stores but does not interpret.
type Settings struct {
	Notifications bool     `json:"notifications"`
	MaskDays      []string `json:"maskDays"`
}

// PhotoSet references progress photos for one week. Image storage is out
// of scope, so these are opaque references.
type PhotoSet struct {
	Front string `json:"front,omitempty"`
	Left  string `json:"left,omitempty"`
	Right string `json:"right,omitempty"`
	Crown string `json:"crown,omitempty"`
}

// DailyMetrics are optional self-reported scores for one day.
type DailyMetrics struct {
	HairFall     *int `json:"hairFall,omitempty"`
	ScalpTension *int `json:"scalpTension,omitempty"`
	HairQuality  *int `json:"hairQuality,omitempty"`
}

// ProtocolState is the aggregate persisted as a single unit.
type ProtocolState struct {
	User      UserProfile                    `json:"user"`
	DailyData CompletionRecord               `json:"dailyData"`
	Photos    map[string]PhotoSet            `json:"photos"`
	Metrics   map[calendar.Date]DailyMetrics `json:"metrics"`
	Streaks   StreakState                    `json:"streaks"`
	Settings  Settings                       `json:"settings"`
}

// DefaultState returns the fresh-install state.
func DefaultState() ProtocolState {
	return ProtocolState{
		User:      UserProfile{HairPattern: []string{}},
		DailyData: CompletionRecord{},
		Photos:    map[string]PhotoSet{},
		Metrics:   map[calendar.Date]DailyMetrics{},
		Settings: Settings{
			Notifications: true,
			MaskDays:      []string{"Mon", "Thu"},
		},
	}
}

// Normalize fills nil collections left by partial or older blobs and
// restores the streak invariant.
func (s ProtocolState) Normalize() ProtocolState {
	if s.User.HairPattern == nil {
		s.User.HairPattern = []string{}
	}
	if s.DailyData == nil {
		s.DailyData = CompletionRecord{}
	}
	if s.Photos == nil {
		s.Photos = map[string]PhotoSet{}
	}
	if s.Metrics == nil {
		s.Metrics = map[calendar.Date]DailyMetrics{}
	}
	if s.Settings.MaskDays == nil {
		s.Settings.MaskDays = []string{}
	}
	if s.Streaks.Current < 0 {
		s.Streaks.Current = 0
	}
	if s.Streaks.Best < s.Streaks.Current {
		s.Streaks.Best = s.Streaks.Current
	}
	return s
}

// Clone returns a deep copy of the aggregate.
func (s ProtocolState) Clone() ProtocolState {
	out := s
	out.User.HairPattern = slices.Clone(s.User.HairPattern)
	out.DailyData = s.DailyData.Clone()
	out.Photos = make(map[string]PhotoSet, len(s.Photos))
	for k, v := range s.Photos {
		out.Photos[k] = v
	}
	out.Metrics = make(map[calendar.Date]DailyMetrics, len(s.Metrics))
	for k, v := range s.Metrics {
		out.Metrics[k] = v
	}
	out.Settings.MaskDays = slices.Clone(s.Settings.MaskDays)
	return out
}
