package codec

import "testing"

func TestFastOrderDigestDeterministic(t *testing.T) {
	h := Header{Timestamp: 100, EmitterChain: 2, Sequence: 7, ConsistencyLevel: 1}
	o := FastOrder{
		AmountIn: 1_000_000, MinAmountOut: 900_000, TargetChain: 6,
		MaxFee: 10_000, InitAuctionFee: 100, Deadline: 200,
		RedeemerMessageLength: 3, RedeemerMessage: []byte("abc"),
	}
	d1, err := FastOrderDigest(h, o)
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	d2, err := FastOrderDigest(h, o)
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if d1 != d2 {
		t.Fatalf("digest is not deterministic: %s != %s", d1, d2)
	}
}

func TestFastOrderDigestChangesWithPayload(t *testing.T) {
	h := Header{Timestamp: 100}
	o1 := FastOrder{AmountIn: 1, RedeemerMessageLength: 0}
	o2 := FastOrder{AmountIn: 2, RedeemerMessageLength: 0}
	d1, err := FastOrderDigest(h, o1)
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	d2, err := FastOrderDigest(h, o2)
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if d1 == d2 {
		t.Fatal("digest did not change when payload changed")
	}
}

func TestEncodePayloadRejectsLengthMismatch(t *testing.T) {
	o := FastOrder{RedeemerMessageLength: 5, RedeemerMessage: []byte("abc")}
	if _, err := o.EncodePayload(); err == nil {
		t.Fatal("expected error on redeemer message length mismatch")
	}
}

func TestEncodePayloadRejectsOversizedMessage(t *testing.T) {
	msg := make([]byte, MaxRedeemerMessageLen+1)
	o := FastOrder{RedeemerMessageLength: uint16(len(msg)), RedeemerMessage: msg}
	if _, err := o.EncodePayload(); err == nil {
		t.Fatal("expected error on oversized redeemer message")
	}
}

func TestCCTPBurnMessageRoundTrip(t *testing.T) {
	m := CCTPBurnMessage{Version: 1, Amount: U256FromUint64(42)}
	encoded := EncodeCCTPBurnMessage(m)
	decoded, err := DecodeCCTPBurnMessage(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	amount, err := decoded.AmountUint64()
	if err != nil {
		t.Fatalf("amount: %v", err)
	}
	if amount != 42 {
		t.Fatalf("amount = %d, want 42", amount)
	}
}

func TestCCTPBurnMessageRejectsOversizedAmount(t *testing.T) {
	var m CCTPBurnMessage
	m.Amount[0] = 1 // a bit in the high 192 bits
	if _, err := m.AmountUint64(); err == nil {
		t.Fatal("expected error for amount exceeding 64 bits")
	}
}

func TestFillEncodeDecodeRoundTrip(t *testing.T) {
	f := Fill{SourceChain: 2, RedeemerMessage: []byte("hello")}
	decoded, err := DecodeFill(f.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.SourceChain != f.SourceChain || string(decoded.RedeemerMessage) != "hello" {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}
