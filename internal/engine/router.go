package engine

import (
	"encoding/binary"
	"encoding/json"

	"github.com/synnergy-labs/fastlane-engine/internal/engine/ids"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/store"
)

// EndpointKind distinguishes the two flavors of router endpoint spec.md §4.3
// describes: a remote chain reached through the CCTP burn/mint transport, or
// a destination handled entirely within this engine's own ledger.
type EndpointKind uint8

const (
	EndpointKindCctp EndpointKind = iota
	EndpointKindLocal
)

// RouterEndpoint pins a remote chain's attested-message emitter (and, for
// CCTP endpoints, its token-transport domain and mint recipient) so that
// PlaceInitialOffer can validate a fast order's claimed source/target against
// a registered, non-disabled pair before ever touching funds.
type RouterEndpoint struct {
	Chain         uint16       `json:"chain"`
	Kind          EndpointKind `json:"kind"`
	Address       ids.Address  `json:"address"` // attested-message emitter on the remote chain
	MintRecipient ids.Address  `json:"mint_recipient"`
	Domain        uint32       `json:"domain"` // CCTP domain id; meaningless for Local
	Disabled      bool         `json:"disabled"`
}

func routerKey(chain uint16) []byte {
	k := []byte("router_endpoint:")
	k = binary.BigEndian.AppendUint16(k, chain)
	return k
}

func putRouterEndpoint(s store.KVStore, ep RouterEndpoint) error {
	raw, err := json.Marshal(ep)
	if err != nil {
		return err
	}
	return s.Set(routerKey(ep.Chain), raw)
}

// GetRouterEndpoint loads the endpoint registered for chain.
func GetRouterEndpoint(s store.KVStore, chain uint16) (*RouterEndpoint, error) {
	raw, err := s.Get(routerKey(chain))
	if err == store.ErrNotFound {
		return nil, ErrAccountNotInitialized
	}
	if err != nil {
		return nil, err
	}
	var ep RouterEndpoint
	if err := json.Unmarshal(raw, &ep); err != nil {
		return nil, err
	}
	return &ep, nil
}

// AddCctpRouterEndpoint registers a remote chain reachable through the CCTP
// burn/mint transport. Only the custodian owner or assistant may call this
// (checked here via requireOwnerOrAssistant).
func AddCctpRouterEndpoint(ctx *Context, ep RouterEndpoint) error {
	if ep.Kind != EndpointKindCctp {
		return ErrInvalidEndpoint
	}
	cust, err := GetCustodian(ctx.Store)
	if err != nil {
		return err
	}
	if err := requireOwnerOrAssistant(ctx, cust); err != nil {
		return err
	}
	key := string(routerKey(ep.Chain))
	return ctx.Locks.WithLocks([]string{key}, func() error {
		exists, err := ctx.Store.Has(routerKey(ep.Chain))
		if err != nil {
			return err
		}
		if exists {
			return ErrAccountInUse
		}
		return putRouterEndpoint(ctx.Store, ep)
	})
}

// AddLocalRouterEndpoint registers a chain this engine settles directly,
// without any outbound burn or message transport call.
func AddLocalRouterEndpoint(ctx *Context, chain uint16, address ids.Address) error {
	cust, err := GetCustodian(ctx.Store)
	if err != nil {
		return err
	}
	if err := requireOwnerOrAssistant(ctx, cust); err != nil {
		return err
	}
	ep := RouterEndpoint{Chain: chain, Kind: EndpointKindLocal, Address: address}
	key := string(routerKey(chain))
	return ctx.Locks.WithLocks([]string{key}, func() error {
		exists, err := ctx.Store.Has(routerKey(chain))
		if err != nil {
			return err
		}
		if exists {
			return ErrAccountInUse
		}
		return putRouterEndpoint(ctx.Store, ep)
	})
}

// UpdateCctpRouterEndpoint rewrites the domain/mint-recipient/address of an
// already-registered CCTP endpoint. Supplements the distilled registry with
// the admin surface the original contract exposes for rotating a remote
// mint recipient without a full disable/re-add cycle.
func UpdateCctpRouterEndpoint(ctx *Context, chain uint16, domain uint32, address, mintRecipient ids.Address) error {
	cust, err := GetCustodian(ctx.Store)
	if err != nil {
		return err
	}
	if err := requireOwnerOrAssistant(ctx, cust); err != nil {
		return err
	}
	key := string(routerKey(chain))
	return ctx.Locks.WithLocks([]string{key}, func() error {
		ep, err := GetRouterEndpoint(ctx.Store, chain)
		if err != nil {
			return err
		}
		if ep.Kind != EndpointKindCctp {
			return ErrInvalidCctpEndpoint
		}
		ep.Domain = domain
		ep.Address = address
		ep.MintRecipient = mintRecipient
		return putRouterEndpoint(ctx.Store, *ep)
	})
}

// DisableRouterEndpoint flips an endpoint's Disabled flag without removing
// its record, so in-flight auctions that already validated against it can
// still be looked up during settlement. Supplements the distilled registry
// with the pause lever the original contract's admin surface exposes.
func DisableRouterEndpoint(ctx *Context, chain uint16) error {
	cust, err := GetCustodian(ctx.Store)
	if err != nil {
		return err
	}
	if err := requireOwnerOrAssistant(ctx, cust); err != nil {
		return err
	}
	key := string(routerKey(chain))
	return ctx.Locks.WithLocks([]string{key}, func() error {
		ep, err := GetRouterEndpoint(ctx.Store, chain)
		if err != nil {
			return err
		}
		ep.Disabled = true
		return putRouterEndpoint(ctx.Store, *ep)
	})
}

// requireActiveEndpoints validates that source and target are two distinct,
// registered, non-disabled endpoints, per spec.md §4.3's precondition for
// PlaceInitialOffer (its only caller).
func requireActiveEndpoints(s store.KVStore, sourceChain, targetChain uint16) (source, target *RouterEndpoint, err error) {
	if sourceChain == targetChain {
		return nil, nil, ErrSameEndpoint
	}
	source, err = GetRouterEndpoint(s, sourceChain)
	if err != nil {
		return nil, nil, err
	}
	target, err = GetRouterEndpoint(s, targetChain)
	if err != nil {
		return nil, nil, err
	}
	if source.Disabled || target.Disabled {
		return nil, nil, ErrEndpointDisabled
	}
	return source, target, nil
}
