package analysis

import (
	"fmt"
	"strings"

	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/keywords"
)

// Profile holds the account metadata submitted for one analysis run.
// Immutable once submitted.
type Profile struct {
	Username          string `json:"username"`
	Bio               string `json:"bio"`
	FollowerCount     int    `json:"follower_count"`
	FollowingCount    int    `json:"following_count"`
	AccountAgeDays    int    `json:"account_age_days"`
	HasProfilePicture bool   `json:"has_profile_picture"`
	IsPrivate         bool   `json:"is_private"`
	IsVerified        bool   `json:"is_verified"`
}

// Validate rejects profiles with impossible numeric fields.
func (p *Profile) Validate() error {
	if p.Username == "" {
		return fmt.Errorf("profile username is required")
	}
	if p.FollowerCount < 0 || p.FollowingCount < 0 || p.AccountAgeDays < 0 {
		return fmt.Errorf("profile counts and age must be non-negative")
	}
	return nil
}

// Maximum profile risk score.
const maxProfileScore = 10

// CalculateProfileRisk runs the additive rule engine over account metadata.
// Returns an integer score 0-10 and a human-readable reason per rule that
// fired. Verification is an absolute override: verified accounts score 0
// and no other rule runs.
func CalculateProfileRisk(reg *keywords.Registry, p *Profile) (int, []string) {
	if p.IsVerified {
		return 0, []string{"Account is officially verified."}
	}

	score := 0
	var reasons []string

	// Following many while followed by few is a classic bot/spam indicator.
	if p.FollowerCount < 100 && p.FollowingCount > p.FollowerCount*5 {
		score += 3
		reasons = append(reasons, "High following-to-follower ratio (potential bot/spam behavior).")
	}

	if p.AccountAgeDays < 30 {
		score += 2
		reasons = append(reasons, "Very new account (less than 30 days old).")
	}

	if !p.HasProfilePicture {
		score += 2
		reasons = append(reasons, "No profile picture.")
	}

	if reg.Contains(keywords.CategoryBioLure, strings.ToLower(p.Bio)) {
		score += 3
		reasons = append(reasons, "Bio contains suspicious keywords (e.g., crypto, invest).")
	}

	if p.FollowerCount < 15 {
		score += 1
		reasons = append(reasons, "Extremely low follower count.")
	}

	if score > maxProfileScore {
		score = maxProfileScore
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "No major risk factors detected in profile.")
	}
	return score, reasons
}
