package engine

import (
	"encoding/binary"
	"encoding/json"

	"github.com/synnergy-labs/fastlane-engine/internal/engine/ids"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/store"
)

var custodianKey = []byte("custodian")

// Custodian is the engine's singleton configuration account: ownership,
// pause state, fee recipient, and the pooled "prepared-custody" account that
// receives freshly-arrived CCTP principal ahead of settlement. Each auction's
// own escrow (amount_in + security_deposit) lives separately, in its own
// per-auction custody token account — see AuctionInfo.CustodyTokenAccount —
// not here, per spec.md §3 and §4.4.
type Custodian struct {
	Owner          ids.Address `json:"owner"`
	Assistant      ids.Address `json:"assistant"`
	FeeRecipient   ids.Address `json:"fee_recipient"`
	CustodyAccount ids.Address `json:"custody_account"`
	Paused         bool        `json:"paused"`
	NextAuctionConfigID uint32 `json:"next_auction_config_id"`
}

// InitializeCustodian creates the singleton custodian account. May only be
// called once; a second call fails with ErrAccountInUse.
func InitializeCustodian(ctx *Context, owner, feeRecipient, custodyAccount ids.Address) error {
	return ctx.Locks.WithLocks([]string{string(custodianKey)}, func() error {
		exists, err := ctx.Store.Has(custodianKey)
		if err != nil {
			return err
		}
		if exists {
			return ErrAccountInUse
		}
		cust := Custodian{
			Owner:          owner,
			FeeRecipient:   feeRecipient,
			CustodyAccount: custodyAccount,
		}
		return putCustodian(ctx.Store, cust)
	})
}

func putCustodian(s store.KVStore, cust Custodian) error {
	raw, err := json.Marshal(cust)
	if err != nil {
		return err
	}
	return s.Set(custodianKey, raw)
}

// GetCustodian loads the singleton custodian account.
func GetCustodian(s store.KVStore) (*Custodian, error) {
	raw, err := s.Get(custodianKey)
	if err == store.ErrNotFound {
		return nil, ErrAccountNotInitialized
	}
	if err != nil {
		return nil, err
	}
	var cust Custodian
	if err := json.Unmarshal(raw, &cust); err != nil {
		return nil, err
	}
	return &cust, nil
}

func requireOwner(ctx *Context, cust *Custodian) error {
	if ctx.Caller != cust.Owner {
		return ErrUnauthorizedOwner
	}
	return nil
}

func requireOwnerOrAssistant(ctx *Context, cust *Custodian) error {
	if ctx.Caller == cust.Owner || (ctx.Caller != ids.ZeroAddress && ctx.Caller == cust.Assistant) {
		return nil
	}
	return ErrUnauthorizedOwner
}

func requireNotPaused(cust *Custodian) error {
	if cust.Paused {
		return ErrPaused
	}
	return nil
}

// SetPause toggles the custodian's pause flag; only the owner may call it.
// Supplements the distilled config with the emergency-stop lever the
// original contract's admin surface exposes.
func SetPause(ctx *Context, paused bool) error {
	return ctx.Locks.WithLocks([]string{string(custodianKey)}, func() error {
		cust, err := GetCustodian(ctx.Store)
		if err != nil {
			return err
		}
		if err := requireOwner(ctx, cust); err != nil {
			return err
		}
		cust.Paused = paused
		return putCustodian(ctx.Store, *cust)
	})
}

// UpdateFeeRecipient rotates the address auction fees are paid to; only the
// owner may call it. Supplements the distilled config.
func UpdateFeeRecipient(ctx *Context, newRecipient ids.Address) error {
	return ctx.Locks.WithLocks([]string{string(custodianKey)}, func() error {
		cust, err := GetCustodian(ctx.Store)
		if err != nil {
			return err
		}
		if err := requireOwner(ctx, cust); err != nil {
			return err
		}
		cust.FeeRecipient = newRecipient
		return putCustodian(ctx.Store, *cust)
	})
}

// SetAssistant assigns (or clears, with ids.ZeroAddress) the secondary
// admin signer permitted to manage router endpoints alongside the owner.
func SetAssistant(ctx *Context, assistant ids.Address) error {
	return ctx.Locks.WithLocks([]string{string(custodianKey)}, func() error {
		cust, err := GetCustodian(ctx.Store)
		if err != nil {
			return err
		}
		if err := requireOwner(ctx, cust); err != nil {
			return err
		}
		cust.Assistant = assistant
		return putCustodian(ctx.Store, *cust)
	})
}

func auctionConfigKey(id uint32) []byte {
	k := []byte("auction_config:")
	k = binary.BigEndian.AppendUint32(k, id)
	return k
}

// ProposeAuctionConfig allocates a new immutable AuctionParameters record
// under the custodian's next monotonic id and advances that counter.
// Immutability (no UpdateAuctionConfig) mirrors spec.md §4.4: once an
// auction config is active any in-flight auction has already pinned it by
// id, so parameters are changed only by proposing a new config id.
func ProposeAuctionConfig(ctx *Context, params AuctionParameters) (uint32, error) {
	var id uint32
	err := ctx.Locks.WithLocks([]string{string(custodianKey)}, func() error {
		cust, err := GetCustodian(ctx.Store)
		if err != nil {
			return err
		}
		if err := requireOwner(ctx, cust); err != nil {
			return err
		}
		id = cust.NextAuctionConfigID
		raw, err := json.Marshal(params)
		if err != nil {
			return err
		}
		if err := ctx.Store.Set(auctionConfigKey(id), raw); err != nil {
			return err
		}
		cust.NextAuctionConfigID++
		return putCustodian(ctx.Store, *cust)
	})
	return id, err
}

// GetAuctionConfig loads the AuctionParameters pinned under id.
func GetAuctionConfig(s store.KVStore, id uint32) (*AuctionParameters, error) {
	raw, err := s.Get(auctionConfigKey(id))
	if err == store.ErrNotFound {
		return nil, ErrAccountNotInitialized
	}
	if err != nil {
		return nil, err
	}
	var params AuctionParameters
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}
	return &params, nil
}
