package status_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/statusdeck/statusdeck/internal/status"
)

func TestMapIndicator_KnownVocabulary(t *testing.T) {
	tests := []struct {
		raw  string
		want status.Status
	}{
		{"none", status.StatusOperational},
		{"operational", status.StatusOperational},
		{"", status.StatusOperational},
		{"minor", status.StatusDegraded},
		{"major", status.StatusDegraded},
		{"partial_outage", status.StatusDegraded},
		{"critical", status.StatusOutage},
		{"major_outage", status.StatusOutage},
	}

	for _, tt := range tests {
		t.Run("token_"+tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, status.MapIndicator(tt.raw))
		})
	}
}

func TestMapIndicator_UnknownTokensFailTowardOutage(t *testing.T) {
	for _, raw := range []string{"garbage", "MINOR", "None", "maintenance", "unknown"} {
		assert.Equal(t, status.StatusOutage, status.MapIndicator(raw), "token %q", raw)
	}
}

func TestStatus_Worse(t *testing.T) {
	assert.True(t, status.StatusOutage.Worse(status.StatusDegraded))
	assert.True(t, status.StatusOutage.Worse(status.StatusOperational))
	assert.True(t, status.StatusDegraded.Worse(status.StatusOperational))
	assert.False(t, status.StatusOperational.Worse(status.StatusDegraded))
	assert.False(t, status.StatusDegraded.Worse(status.StatusDegraded))
}
