package engine

import (
	"encoding/json"

	"github.com/synnergy-labs/fastlane-engine/internal/engine/ids"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/store"
)

// USDCMint is the well-known mint address every custody and offer token
// account must be denominated in. transferTokens rejects an account whose
// Mint differs with ErrInvalidMint; checkedUSDCAccount treats such an
// account as absent.
var USDCMint = ids.Address{'u', 's', 'd', 'c', '-', 'm', 'i', 'n', 't'}

// TokenAccount mirrors an SPL-style token account: an address of its own,
// an authority allowed to move funds out of it, a mint, and a balance. The
// engine's custody accounts set Authority to a custodian/auction PDA-style
// key it alone knows how to sign for; ordinary offer/executor accounts set
// Authority to the solver that controls them.
type TokenAccount struct {
	Address   ids.Address `json:"address"`
	Authority ids.Address `json:"authority"`
	Mint      ids.Address `json:"mint"`
	Balance   uint64      `json:"balance"`
}

func tokenKey(addr ids.Address) []byte {
	return append([]byte("token:"), addr[:]...)
}

// PutTokenAccount creates or overwrites a token account record.
func PutTokenAccount(s store.KVStore, acc TokenAccount) error {
	raw, err := json.Marshal(acc)
	if err != nil {
		return err
	}
	return s.Set(tokenKey(acc.Address), raw)
}

// GetTokenAccount loads a token account by address. It returns
// (nil, nil) — not an error — when the account does not exist, since
// several call sites (§4.5's "locally recovered" redirect) must distinguish
// "missing" from "failed to read" without treating a missing account as
// fatal.
func GetTokenAccount(s store.KVStore, addr ids.Address) (*TokenAccount, error) {
	raw, err := s.Get(tokenKey(addr))
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var acc TokenAccount
	if err := json.Unmarshal(raw, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// checkedUSDCAccount returns the account at addr only if it exists and is
// denominated in USDC, and nil otherwise — the single point used by the
// "locally recovered" payout-redirect behavior in ExecuteOrder.
func checkedUSDCAccount(s store.KVStore, addr ids.Address) (*TokenAccount, error) {
	acc, err := GetTokenAccount(s, addr)
	if err != nil || acc == nil {
		return nil, err
	}
	if acc.Mint != USDCMint {
		return nil, nil
	}
	return acc, nil
}

// deleteTokenAccount removes a token account, the equivalent of closing an
// SPL token account and returning its rent.
func deleteTokenAccount(s store.KVStore, addr ids.Address) error {
	return s.Delete(tokenKey(addr))
}

// transferTokens moves amount from the from account to the to account,
// requiring authorizedBy to equal the from account's Authority (the
// engine's stand-in for an SPL transfer-authority signature check). Both
// accounts must exist and share the USDC mint.
func transferTokens(s store.KVStore, from, to ids.Address, amount uint64, authorizedBy ids.Address) error {
	fromAcc, err := GetTokenAccount(s, from)
	if err != nil {
		return err
	}
	if fromAcc == nil {
		return ErrAccountNotInitialized
	}
	if fromAcc.Mint != USDCMint {
		return ErrInvalidMint
	}
	if fromAcc.Authority != authorizedBy {
		return ErrConstraintOwner
	}
	toAcc, err := GetTokenAccount(s, to)
	if err != nil {
		return err
	}
	if toAcc == nil {
		return ErrAccountNotInitialized
	}
	if toAcc.Mint != USDCMint {
		return ErrInvalidMint
	}
	if fromAcc.Balance < amount {
		return ErrU64Overflow
	}
	fromAcc.Balance -= amount
	toAcc.Balance += amount
	if err := PutTokenAccount(s, *fromAcc); err != nil {
		return err
	}
	return PutTokenAccount(s, *toAcc)
}

// transferAsCustodian moves funds out of a custody account the engine
// itself controls; no external signature is checked because custody
// accounts are only ever spent by engine-internal code paths.
func transferAsCustodian(s store.KVStore, from, to ids.Address, amount uint64) error {
	fromAcc, err := GetTokenAccount(s, from)
	if err != nil {
		return err
	}
	if fromAcc == nil {
		return ErrAccountNotInitialized
	}
	toAcc, err := checkedUSDCAccount(s, to)
	if err != nil {
		return err
	}
	if toAcc == nil {
		return ErrAccountNotInitialized
	}
	if fromAcc.Balance < amount {
		return ErrU64Overflow
	}
	fromAcc.Balance -= amount
	toAcc.Balance += amount
	if err := PutTokenAccount(s, *fromAcc); err != nil {
		return err
	}
	return PutTokenAccount(s, *toAcc)
}
