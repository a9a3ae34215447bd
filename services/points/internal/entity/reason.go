package entity

import "time"

// EarnReason names the economic cause of a credit. The set is closed: adding a
// reason means deciding its expiry behavior in ExpiresAfter below.
type EarnReason string

const (
	EarnReasonFlyerView       EarnReason = "flyer_view"
	EarnReasonFlyerClick      EarnReason = "flyer_click"
	EarnReasonCampaignBonus   EarnReason = "campaign_bonus"
	EarnReasonProfileComplete EarnReason = "profile_complete"
	EarnReasonReferral        EarnReason = "referral"
	EarnReasonHubSetup        EarnReason = "hub_setup"
	EarnReasonAdminGrant      EarnReason = "admin_grant"
)

// SpendReason names the economic cause of a debit.
type SpendReason string

const (
	SpendReasonPremiumFeature   SpendReason = "premium_feature"
	SpendReasonRewardRedemption SpendReason = "reward_redemption"
	SpendReasonAdminDeduct      SpendReason = "admin_deduct"
)

const (
	engagementExpiry = 30 * 24 * time.Hour
	campaignExpiry   = 90 * 24 * time.Hour
)

func (r EarnReason) Valid() bool {
	switch r {
	case EarnReasonFlyerView, EarnReasonFlyerClick, EarnReasonCampaignBonus,
		EarnReasonProfileComplete, EarnReasonReferral, EarnReasonHubSetup,
		EarnReasonAdminGrant:
		return true
	}
	return false
}

// Engagement reports whether the reason is tied to ephemeral flyer engagement.
// Engagement earns are subject to the per-day cap.
func (r EarnReason) Engagement() bool {
	return r == EarnReasonFlyerView || r == EarnReasonFlyerClick
}

// ExpiresAfter maps a reason to how long its points stay redeemable.
// Engagement points decay in 30 days, campaign points in 90; milestone and
// admin credits never expire. Expiry is recorded on the transaction but not
// enforced anywhere yet.
func (r EarnReason) ExpiresAfter() *time.Duration {
	switch r {
	case EarnReasonFlyerView, EarnReasonFlyerClick:
		d := engagementExpiry
		return &d
	case EarnReasonCampaignBonus:
		d := campaignExpiry
		return &d
	case EarnReasonProfileComplete, EarnReasonReferral, EarnReasonHubSetup, EarnReasonAdminGrant:
		return nil
	default:
		return nil
	}
}

func (r SpendReason) Valid() bool {
	switch r {
	case SpendReasonPremiumFeature, SpendReasonRewardRedemption, SpendReasonAdminDeduct:
		return true
	}
	return false
}
