package settings

import "time"

// Settings is the singleton document with global toggles read by the user-facing bot.
type Settings struct {
	MaintenanceMode    bool    `bson:"maintenance_mode" json:"maintenance_mode"`
	DiamondToTonRate   int64   `bson:"diamond_to_ton_rate" json:"diamond_to_ton_rate"`
	ReferralPercentage float64 `bson:"referral_percentage" json:"referral_percentage"`
	// Seconds.
	TaskVerificationTimeout int64     `bson:"task_verification_timeout" json:"task_verification_timeout"`
	MinWithdrawalAmount     float64   `bson:"min_withdrawal_amount" json:"min_withdrawal_amount"`
	CreatedAt               time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt               time.Time `bson:"updated_at" json:"updated_at"`
}

func Default(now time.Time) Settings {
	return Settings{
		MaintenanceMode:         false,
		DiamondToTonRate:        100000,
		ReferralPercentage:      0.1,
		TaskVerificationTimeout: 3600,
		MinWithdrawalAmount:     1,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
}
