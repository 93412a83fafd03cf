package engine

import (
	"fmt"

	"github.com/synnergy-labs/fastlane-engine/internal/engine/codec"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/ids"
	"github.com/synnergy-labs/fastlane-engine/pkg/errs"
)

// Instruction names every operation Dispatch can run. Dispatch is one
// uniform entry point over the exported handler functions; the CLI and the
// HTTP gateway call those handler functions directly and do not go through
// Dispatch.
type Instruction string

const (
	InstrInitializeCustodian       Instruction = "initialize_custodian"
	InstrSetPause                  Instruction = "set_pause"
	InstrUpdateFeeRecipient        Instruction = "update_fee_recipient"
	InstrSetAssistant              Instruction = "set_assistant"
	InstrProposeAuctionConfig      Instruction = "propose_auction_config"
	InstrAddCctpRouterEndpoint     Instruction = "add_cctp_router_endpoint"
	InstrAddLocalRouterEndpoint    Instruction = "add_local_router_endpoint"
	InstrUpdateCctpRouterEndpoint  Instruction = "update_cctp_router_endpoint"
	InstrDisableRouterEndpoint     Instruction = "disable_router_endpoint"
	InstrInitializeFastMarketOrder Instruction = "initialize_fast_market_order"
	InstrCloseFastMarketOrder      Instruction = "close_fast_market_order"
	InstrPlaceInitialOffer         Instruction = "place_initial_offer"
	InstrImproveOffer              Instruction = "improve_offer"
	InstrExecuteOrder              Instruction = "execute_order"
	InstrPrepareOrderResponse      Instruction = "prepare_order_response"
)

// Args bundles every possible argument an Instruction might need. Only the
// fields relevant to the instruction being dispatched are read; this keeps
// Dispatch a single, uniform entry point without forcing every caller
// (cobra commands, HTTP handlers, tests) to juggle a different function
// signature per instruction.
type Args struct {
	Owner, FeeRecipient, CustodyAccount, Assistant ids.Address
	Paused                                         bool

	AuctionParams AuctionParameters
	ConfigID      uint32

	Chain         uint16
	Domain        uint32
	Address       ids.Address
	MintRecipient ids.Address

	Order           FastMarketOrderRecord
	GuardianSetBump uint8
	OfferPrice      uint64
	BidderToken     ids.Address
	ExecutorToken   ids.Address

	Digest         ids.Hash
	CloseRecipient ids.Address

	FinalizedHeader     codec.Header
	Deposit             codec.Deposit
	EncodedCctpMessage  []byte
	Attestation         []byte
}

// Result is the uniform return value of Dispatch: at most one of its
// fields is populated, depending on which Instruction ran.
type Result struct {
	Digest   ids.Hash
	ConfigID uint32
}

// Dispatch runs a single named Instruction against ctx, the way a real
// program's entrypoint would switch on an instruction discriminant. A panic
// inside the handler never crosses this boundary: it is recovered and
// reported as ErrInternal, wrapped with the offending instruction name, so
// a single malformed instruction can't take down the process this engine
// is embedded in (per SPEC_FULL.md §4.10).
func Dispatch(ctx *Context, instr Instruction, args Args) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.Wrapf(ErrInternal, "engine: panic dispatching %q: %v", instr, r)
			result = Result{}
		}
	}()
	return dispatch(ctx, instr, args)
}

func dispatch(ctx *Context, instr Instruction, args Args) (Result, error) {
	switch instr {
	case InstrInitializeCustodian:
		return Result{}, InitializeCustodian(ctx, args.Owner, args.FeeRecipient, args.CustodyAccount)
	case InstrSetPause:
		return Result{}, SetPause(ctx, args.Paused)
	case InstrUpdateFeeRecipient:
		return Result{}, UpdateFeeRecipient(ctx, args.FeeRecipient)
	case InstrSetAssistant:
		return Result{}, SetAssistant(ctx, args.Assistant)
	case InstrProposeAuctionConfig:
		id, err := ProposeAuctionConfig(ctx, args.AuctionParams)
		return Result{ConfigID: id}, err
	case InstrAddCctpRouterEndpoint:
		return Result{}, AddCctpRouterEndpoint(ctx, RouterEndpoint{
			Chain: args.Chain, Kind: EndpointKindCctp, Address: args.Address,
			MintRecipient: args.MintRecipient, Domain: args.Domain,
		})
	case InstrAddLocalRouterEndpoint:
		return Result{}, AddLocalRouterEndpoint(ctx, args.Chain, args.Address)
	case InstrUpdateCctpRouterEndpoint:
		return Result{}, UpdateCctpRouterEndpoint(ctx, args.Chain, args.Domain, args.Address, args.MintRecipient)
	case InstrDisableRouterEndpoint:
		return Result{}, DisableRouterEndpoint(ctx, args.Chain)
	case InstrInitializeFastMarketOrder:
		digest, err := InitializeFastMarketOrder(ctx, args.Order, args.GuardianSetBump)
		return Result{Digest: digest}, err
	case InstrCloseFastMarketOrder:
		return Result{}, CloseFastMarketOrder(ctx, args.Digest, args.CloseRecipient)
	case InstrPlaceInitialOffer:
		digest, err := PlaceInitialOffer(ctx, args.Order, args.ConfigID, args.OfferPrice, args.BidderToken)
		return Result{Digest: digest}, err
	case InstrImproveOffer:
		return Result{}, ImproveOffer(ctx, args.Digest, args.OfferPrice, args.BidderToken)
	case InstrExecuteOrder:
		_, err := ExecuteOrder(ctx, args.Order, args.ExecutorToken)
		return Result{}, err
	case InstrPrepareOrderResponse:
		err := PrepareOrderResponse(ctx, args.Order, args.FinalizedHeader, args.Deposit, args.EncodedCctpMessage, args.Attestation, args.GuardianSetBump)
		return Result{}, err
	default:
		return Result{}, fmt.Errorf("engine: unknown instruction %q", instr)
	}
}
