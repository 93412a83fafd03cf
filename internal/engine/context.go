package engine

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/synnergy-labs/fastlane-engine/internal/engine/ids"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/store"
	"github.com/synnergy-labs/fastlane-engine/internal/guardian"
)

// Clock supplies the two time primitives the auction state machine is
// driven by: a monotonically increasing slot counter (the sole ordering
// primitive for auction timing, per spec.md §5) and the current unix time
// (used only for the fast-market-order deadline checks).
type Clock interface {
	Slot() uint64
	UnixTime() int64
}

// WallClock derives the current slot from elapsed wall-clock time at a
// fixed slot duration, the way a real validator's Clock sysvar would.
type WallClock struct {
	Genesis      time.Time
	SlotDuration time.Duration
}

// NewWallClock constructs a WallClock anchored at the current time with a
// 400ms slot duration, matching the pace the spec's slot-based windows
// (duration=2, grace=5, penalty_period=10) are calibrated against.
func NewWallClock() *WallClock {
	return &WallClock{Genesis: time.Now().UTC(), SlotDuration: 400 * time.Millisecond}
}

func (c *WallClock) Slot() uint64 {
	return uint64(time.Since(c.Genesis) / c.SlotDuration)
}

func (c *WallClock) UnixTime() int64 {
	return time.Now().UTC().Unix()
}

// ManualClock is a test/CLI-replay clock whose slot and time are advanced
// explicitly, so auction timing scenarios (spec.md §8, S1-S10) are
// reproducible without sleeping real time.
type ManualClock struct {
	slot     uint64
	unixTime int64
}

// NewManualClock constructs a ManualClock starting at the given slot and
// unix time.
func NewManualClock(slot uint64, unixTime int64) *ManualClock {
	return &ManualClock{slot: slot, unixTime: unixTime}
}

func (c *ManualClock) Slot() uint64       { return c.slot }
func (c *ManualClock) UnixTime() int64    { return c.unixTime }
func (c *ManualClock) SetSlot(s uint64)   { c.slot = s }
func (c *ManualClock) AdvanceSlots(n uint64) {
	c.slot += n
}
func (c *ManualClock) SetUnixTime(t int64) { c.unixTime = t }

// Context bundles everything an instruction handler needs: storage, the
// account-lock table, the caller's identity (the signer of the simulated
// transaction), the clock, logging, metrics, and the three external
// collaborator interfaces (guardian verification, outbound burn, outbound
// message) spec.md §1 treats as out-of-scope transports the core merely
// consumes.
type Context struct {
	Store    store.KVStore
	Locks    *store.KeyLocks
	Caller   ids.Address
	Clock    Clock
	Logger   *logrus.Logger
	Guardian guardian.Verifier
	Burn     BurnTransport
	Message  MessageTransport
	Metrics  *Metrics
}

// log returns a logger pre-populated with the caller, falling back to a
// discard logger if none was configured (handy for ad-hoc tests).
func (ctx *Context) log() *logrus.Entry {
	logger := ctx.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.PanicLevel)
	}
	return logger.WithField("caller", ctx.Caller.String())
}
