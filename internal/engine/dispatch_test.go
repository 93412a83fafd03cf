package engine

import (
	"errors"
	"testing"

	"github.com/synnergy-labs/fastlane-engine/internal/engine/store"
)

func TestDispatchInitializeCustodian(t *testing.T) {
	ctx := &Context{Store: store.NewMemory(), Locks: store.NewKeyLocks(), Caller: addressFrom(1)}
	_, err := Dispatch(ctx, InstrInitializeCustodian, Args{
		Owner: addressFrom(1), FeeRecipient: addressFrom(2), CustodyAccount: addressFrom(3),
	})
	if err != nil {
		t.Fatalf("dispatch initialize_custodian: %v", err)
	}
	if _, err := Dispatch(ctx, InstrInitializeCustodian, Args{}); err != ErrAccountInUse {
		t.Fatalf("got %v, want ErrAccountInUse on re-init", err)
	}
}

func TestDispatchUnknownInstruction(t *testing.T) {
	ctx := &Context{Store: store.NewMemory(), Locks: store.NewKeyLocks()}
	if _, err := Dispatch(ctx, Instruction("bogus"), Args{}); err == nil {
		t.Fatal("expected error for unknown instruction")
	}
}

func TestDispatchRecoversPanicAsInternalError(t *testing.T) {
	// A nil Store makes any handler that touches it panic; Dispatch must
	// turn that into ErrInternal rather than letting it escape.
	ctx := &Context{Locks: store.NewKeyLocks()}
	_, err := Dispatch(ctx, InstrInitializeCustodian, Args{})
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("got %v, want an error wrapping ErrInternal", err)
	}
}
