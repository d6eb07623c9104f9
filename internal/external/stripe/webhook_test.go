package stripe

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func signedHeader(payload []byte, at time.Time) string {
	ts := fmt.Sprintf("%d", at.Unix())
	return fmt.Sprintf("t=%s,v1=%s", ts, computeSignature(ts, payload, testSecret))
}

func subscriptionPayload() []byte {
	return []byte(`{
		"id": "evt_1",
		"type": "customer.subscription.updated",
		"data": {
			"object": {
				"id": "sub_1",
				"customer": "cus_1",
				"status": "active",
				"current_period_end": 1767225600
			}
		}
	}`)
}

func TestParseEvent_ValidSignature(t *testing.T) {
	now := time.Now()
	payload := subscriptionPayload()

	event, err := ParseEvent(payload, signedHeader(payload, now), testSecret, now)
	require.NoError(t, err)

	assert.Equal(t, EventSubscriptionUpdated, event.Type)

	sub, err := event.Subscription()
	require.NoError(t, err)
	assert.Equal(t, "cus_1", sub.Customer)
	assert.Equal(t, "active", sub.Status)
	assert.Equal(t, int64(1767225600), sub.PeriodEnd().Unix())
}

func TestParseEvent_WrongSecret(t *testing.T) {
	now := time.Now()
	payload := subscriptionPayload()
	ts := fmt.Sprintf("%d", now.Unix())
	header := fmt.Sprintf("t=%s,v1=%s", ts, computeSignature(ts, payload, "whsec_other"))

	_, err := ParseEvent(payload, header, testSecret, now)
	assert.Error(t, err)
}

func TestParseEvent_TamperedPayload(t *testing.T) {
	now := time.Now()
	payload := subscriptionPayload()
	header := signedHeader(payload, now)

	tampered := append([]byte{}, payload...)
	tampered[len(tampered)-2] = ' '

	_, err := ParseEvent(tampered, header, testSecret, now)
	assert.Error(t, err)
}

func TestParseEvent_StaleTimestamp(t *testing.T) {
	now := time.Now()
	payload := subscriptionPayload()
	header := signedHeader(payload, now.Add(-10*time.Minute))

	_, err := ParseEvent(payload, header, testSecret, now)
	assert.Error(t, err)
}

func TestParseEvent_MalformedHeader(t *testing.T) {
	_, err := ParseEvent(subscriptionPayload(), "garbage", testSecret, time.Now())
	assert.Error(t, err)
}
