package unwindbridge

import "testing"

func TestPayload_IsZero(t *testing.T) {
	if !(Payload{}).IsZero() {
		t.Error("zero payload should report IsZero")
	}
	if (Payload{P0: 1}).IsZero() {
		t.Error("payload with P0 set should not report IsZero")
	}
	if (Payload{P1: 1}).IsZero() {
		t.Error("payload with P1 set should not report IsZero")
	}
}

func TestPayload_Wrapper(t *testing.T) {
	p := Payload{P0: 42}
	if p.Wrapper() != Handle(42) {
		t.Errorf("Wrapper() = %d, want 42", p.Wrapper())
	}
	if (Payload{}).Wrapper() != 0 {
		t.Error("zero payload should carry no wrapper")
	}
}
