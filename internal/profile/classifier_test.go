package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vcinsight/dealpipe/internal/model"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name       string
		background string
		want       model.FounderProfile
	}{
		{
			name:       "serial founder via exit",
			background: "Sold my last company to Stripe in 2022",
			want:       model.ProfileSerialFounder,
		},
		{
			name:       "serial wins over technical",
			background: "Former engineer, previously founded and exited a startup",
			want:       model.ProfileSerialFounder,
		},
		{
			name:       "technical founder",
			background: "Staff engineer at Google, built the product herself",
			want:       model.ProfileTechnicalFounder,
		},
		{
			name:       "phd counts as technical",
			background: "PhD in computational biology",
			want:       model.ProfileTechnicalFounder,
		},
		{
			name:       "business founder",
			background: "MBA, five years at McKinsey",
			want:       model.ProfileBusinessFounder,
		},
		{
			name:       "technical wins over business",
			background: "Software engineer turned strategy consultant",
			want:       model.ProfileTechnicalFounder,
		},
		{
			name:       "domain expert",
			background: "15 years in commercial insurance, industry veteran",
			want:       model.ProfileDomainExpert,
		},
		{
			name:       "no match defaults to first time",
			background: "Recent graduate passionate about climate",
			want:       model.ProfileFirstTimeFounder,
		},
		{
			name:       "empty background defaults to first time",
			background: "",
			want:       model.ProfileFirstTimeFounder,
		},
		{
			name:       "matching is case insensitive",
			background: "SERIAL entrepreneur",
			want:       model.ProfileSerialFounder,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.background, "", "", "")
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClassifyIgnoresOtherSignals(t *testing.T) {
	// Traction, stage, and category do not sway the rule set.
	got := Classify("", "serial growth, engineer-led sales", "seed", "fintech")
	assert.Equal(t, model.ProfileFirstTimeFounder, got)
}

func TestToneDirective(t *testing.T) {
	assert.Contains(t, ToneDirective(model.ProfileSerialFounder), "peer-to-peer")
	assert.NotEmpty(t, ToneDirective(model.ProfileTechnicalFounder))

	// Unknown profiles get the first-time directive rather than an empty string.
	assert.Equal(t,
		ToneDirective(model.ProfileFirstTimeFounder),
		ToneDirective(model.FounderProfile("mystery")),
	)
}

func TestEveryProfileHasADirective(t *testing.T) {
	for _, p := range []model.FounderProfile{
		model.ProfileSerialFounder,
		model.ProfileTechnicalFounder,
		model.ProfileBusinessFounder,
		model.ProfileDomainExpert,
		model.ProfileFirstTimeFounder,
	} {
		assert.NotEmpty(t, ToneDirective(p), "profile %s", p)
	}
}
