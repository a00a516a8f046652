package trial

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, Days)

	tests := []struct {
		name        string
		now         time.Time
		trialActive bool
		plan        string
		status      string
		want        Result
	}{
		{
			name:        "пробный период идёт",
			now:         start.Add(24 * time.Hour),
			trialActive: true,
			plan:        PlanTrial,
			status:      StatusTrialActive,
			want: Result{
				IsActive:       true,
				DaysRemaining:  6,
				HoursRemaining: 144,
				DaysUsed:       1,
				Status:         "active",
				CanAccess:      true,
			},
		},
		{
			name:        "пробный период истёк без оплаты",
			now:         end.Add(time.Hour),
			trialActive: true,
			plan:        PlanTrial,
			status:      StatusTrialActive,
			want: Result{
				IsExpired:       true,
				DaysUsed:        Days,
				Status:          "expired",
				PaymentRequired: true,
			},
		},
		{
			name:        "пробный период истёк, подписка оплачена",
			now:         end.Add(time.Hour),
			trialActive: false,
			plan:        PlanProfessional,
			status:      StatusActive,
			want: Result{
				IsExpired: true,
				DaysUsed:  Days,
				Status:    "expired",
				HasPaid:   true,
				CanAccess: true,
			},
		},
		{
			name:        "пробный период отключён вручную до истечения",
			now:         start.Add(24 * time.Hour),
			trialActive: false,
			plan:        PlanStarter,
			status:      StatusActive,
			want: Result{
				DaysRemaining:  6,
				HoursRemaining: 144,
				DaysUsed:       1,
				Status:         "expired",
				HasPaid:        true,
				CanAccess:      true,
			},
		},
		{
			name:        "последний час пробного периода",
			now:         end.Add(-30 * time.Minute),
			trialActive: true,
			plan:        PlanTrial,
			status:      StatusTrialActive,
			want: Result{
				IsActive:      true,
				DaysRemaining: 0,
				DaysUsed:      Days,
				Status:        "active",
				CanAccess:     true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.now, start, end, tt.trialActive, tt.plan, tt.status)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateDeterministic(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, Days)
	now := start.Add(50 * time.Hour)

	first := Calculate(now, start, end, true, PlanTrial, StatusTrialActive)
	second := Calculate(now, start, end, true, PlanTrial, StatusTrialActive)
	assert.Equal(t, first, second)
}

func TestCanUpgrade(t *testing.T) {
	tests := []struct {
		name    string
		current string
		next    string
		want    bool
	}{
		{"starter -> professional", PlanStarter, PlanProfessional, true},
		{"starter -> enterprise", PlanStarter, PlanEnterprise, true},
		{"professional -> enterprise", PlanProfessional, PlanEnterprise, true},
		{"professional -> starter запрещён", PlanProfessional, PlanStarter, false},
		{"повтор того же плана запрещён", PlanStarter, PlanStarter, false},
		{"trial -> starter", PlanTrial, PlanStarter, true},
		{"starter -> неизвестный план", PlanStarter, "unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanUpgrade(tt.current, tt.next))
		})
	}
}

func TestIsPaid(t *testing.T) {
	assert.True(t, IsPaid(PlanStarter))
	assert.True(t, IsPaid(PlanProfessional))
	assert.True(t, IsPaid(PlanEnterprise))
	assert.False(t, IsPaid(PlanTrial))
	assert.False(t, IsPaid(PlanFree))
	assert.False(t, IsPaid(""))
}
