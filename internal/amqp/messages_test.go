package amqp

import (
	"testing"
)

func TestLedgerEventMessage_JSONRoundTrip(t *testing.T) {
	msg := NewLedgerEventMessage("repayment", "rp-1")
	if msg.Timestamp.IsZero() {
		t.Error("NewLedgerEventMessage should stamp a timestamp")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	got, err := LedgerEventMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	if got.Entity != "repayment" || got.ID != "rp-1" {
		t.Errorf("round trip = %+v, want entity repayment id rp-1", got)
	}
}

func TestLedgerEventMessageFromJSON_Invalid(t *testing.T) {
	if _, err := LedgerEventMessageFromJSON([]byte("{not json")); err == nil {
		t.Error("FromJSON should fail on malformed input")
	}
}
