package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEarnReason_ExpiresAfter_Engagement(t *testing.T) {
	for _, reason := range []EarnReason{EarnReasonFlyerView, EarnReasonFlyerClick} {
		d := reason.ExpiresAfter()
		assert.NotNil(t, d, "engagement reason %s should decay", reason)
		assert.Equal(t, 30*24*time.Hour, *d)
	}
}

func TestEarnReason_ExpiresAfter_Campaign(t *testing.T) {
	d := EarnReasonCampaignBonus.ExpiresAfter()
	assert.NotNil(t, d)
	assert.Equal(t, 90*24*time.Hour, *d)
}

func TestEarnReason_ExpiresAfter_NeverExpires(t *testing.T) {
	for _, reason := range []EarnReason{
		EarnReasonProfileComplete,
		EarnReasonReferral,
		EarnReasonHubSetup,
		EarnReasonAdminGrant,
	} {
		assert.Nil(t, reason.ExpiresAfter(), "reason %s should never expire", reason)
	}
}

func TestEarnReason_Valid(t *testing.T) {
	assert.True(t, EarnReasonFlyerView.Valid())
	assert.True(t, EarnReasonAdminGrant.Valid())
	assert.False(t, EarnReason("bogus").Valid())
	assert.False(t, EarnReason("").Valid())
}

func TestEarnReason_Engagement(t *testing.T) {
	assert.True(t, EarnReasonFlyerView.Engagement())
	assert.True(t, EarnReasonFlyerClick.Engagement())
	assert.False(t, EarnReasonCampaignBonus.Engagement())
	assert.False(t, EarnReasonAdminGrant.Engagement())
}

func TestSpendReason_Valid(t *testing.T) {
	assert.True(t, SpendReasonPremiumFeature.Valid())
	assert.True(t, SpendReasonAdminDeduct.Valid())
	assert.False(t, SpendReason("bogus").Valid())
}

func TestInsufficientBalanceError_Message(t *testing.T) {
	err := &InsufficientBalanceError{Available: 100, Requested: 150}
	assert.Contains(t, err.Error(), "available 100")
	assert.Contains(t, err.Error(), "requested 150")
}
