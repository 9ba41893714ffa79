package middleware

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordNotificationError(t *testing.T) {
	before := testutil.ToFloat64(notificationErrors.WithLabelValues("telegram"))

	RecordNotificationError("telegram")
	RecordNotificationError("telegram")
	RecordNotificationError("slack")

	assert.Equal(t, before+2, testutil.ToFloat64(notificationErrors.WithLabelValues("telegram")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(notificationErrors.WithLabelValues("slack")), 1.0)
}

func TestRecordLeadOutcome(t *testing.T) {
	before := testutil.ToFloat64(leadsSubmitted.WithLabelValues("t1", "accepted"))
	RecordLeadOutcome("t1", "accepted")
	assert.Equal(t, before+1, testutil.ToFloat64(leadsSubmitted.WithLabelValues("t1", "accepted")))
}
