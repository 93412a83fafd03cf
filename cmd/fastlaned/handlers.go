package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/synnergy-labs/fastlane-engine/internal/engine"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/ids"
)

type gateway struct {
	ctx    *engine.Context
	logger *logrus.Logger
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (g *gateway) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type initializeCustodianRequest struct {
	Caller         string `json:"caller"`
	FeeRecipient   string `json:"fee_recipient"`
	CustodyAccount string `json:"custody_account"`
}

func (g *gateway) handleInitializeCustodian(w http.ResponseWriter, r *http.Request) {
	var req initializeCustodianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	caller, err := ids.ParseAddress(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	fee, err := ids.ParseAddress(req.FeeRecipient)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	custody, err := ids.ParseAddress(req.CustodyAccount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	g.ctx.Caller = caller
	if err := engine.InitializeCustodian(g.ctx, caller, fee, custody); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

type setPauseRequest struct {
	Caller string `json:"caller"`
	Paused bool   `json:"paused"`
}

func (g *gateway) handleSetPause(w http.ResponseWriter, r *http.Request) {
	var req setPauseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	caller, err := ids.ParseAddress(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	g.ctx.Caller = caller
	if err := engine.SetPause(g.ctx, req.Paused); err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": req.Paused})
}

type addCctpRouterEndpointRequest struct {
	Caller        string `json:"caller"`
	Chain         uint16 `json:"chain"`
	Domain        uint32 `json:"domain"`
	Address       string `json:"address"`
	MintRecipient string `json:"mint_recipient"`
}

func (g *gateway) handleAddCctpRouterEndpoint(w http.ResponseWriter, r *http.Request) {
	var req addCctpRouterEndpointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	caller, err := ids.ParseAddress(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	addr, err := ids.ParseAddress(req.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mint, err := ids.ParseAddress(req.MintRecipient)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	g.ctx.Caller = caller
	ep := engine.RouterEndpoint{Chain: req.Chain, Kind: engine.EndpointKindCctp, Address: addr, MintRecipient: mint, Domain: req.Domain}
	if err := engine.AddCctpRouterEndpoint(g.ctx, ep); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

type addLocalRouterEndpointRequest struct {
	Caller  string `json:"caller"`
	Chain   uint16 `json:"chain"`
	Address string `json:"address"`
}

func (g *gateway) handleAddLocalRouterEndpoint(w http.ResponseWriter, r *http.Request) {
	var req addLocalRouterEndpointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	caller, err := ids.ParseAddress(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	addr, err := ids.ParseAddress(req.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	g.ctx.Caller = caller
	if err := engine.AddLocalRouterEndpoint(g.ctx, req.Chain, addr); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

type orderRequest struct {
	Caller          string `json:"caller"`
	GuardianSetBump uint8  `json:"guardian_set_bump"`
	engine.FastMarketOrderRecord
}

func (g *gateway) handleInitializeOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	caller, err := ids.ParseAddress(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	g.ctx.Caller = caller
	digest, err := engine.InitializeFastMarketOrder(g.ctx, req.FastMarketOrderRecord, req.GuardianSetBump)
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"digest": digest.String()})
}

func (g *gateway) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	digest, err := parseHashParam(chi.URLParam(r, "digest"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	closeRecipient := ids.Address{}
	if v := r.URL.Query().Get("close_recipient"); v != "" {
		closeRecipient, err = ids.ParseAddress(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	order, err := engine.GetFastMarketOrder(g.ctx.Store, digest, closeRecipient)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type placeInitialOfferRequest struct {
	Caller      string                       `json:"caller"`
	ConfigID    uint32                       `json:"config_id"`
	OfferPrice  uint64                       `json:"offer_price"`
	BidderToken string                       `json:"bidder_token"`
	Order       engine.FastMarketOrderRecord `json:"order"`
}

func (g *gateway) handlePlaceInitialOffer(w http.ResponseWriter, r *http.Request) {
	var req placeInitialOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	caller, err := ids.ParseAddress(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	bidder, err := ids.ParseAddress(req.BidderToken)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	g.ctx.Caller = caller
	digest, err := engine.PlaceInitialOffer(g.ctx, req.Order, req.ConfigID, req.OfferPrice, bidder)
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"digest": digest.String()})
}

type improveOfferRequest struct {
	Caller      string `json:"caller"`
	Digest      string `json:"digest"`
	OfferPrice  uint64 `json:"offer_price"`
	BidderToken string `json:"bidder_token"`
}

func (g *gateway) handleImproveOffer(w http.ResponseWriter, r *http.Request) {
	var req improveOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	caller, err := ids.ParseAddress(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	digest, err := parseHashParam(req.Digest)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	bidder, err := ids.ParseAddress(req.BidderToken)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	g.ctx.Caller = caller
	if err := engine.ImproveOffer(g.ctx, digest, req.OfferPrice, bidder); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "improved"})
}

type executeOrderRequest struct {
	Caller        string                       `json:"caller"`
	ExecutorToken string                       `json:"executor_token"`
	Order         engine.FastMarketOrderRecord `json:"order"`
}

func (g *gateway) handleExecuteOrder(w http.ResponseWriter, r *http.Request) {
	var req executeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	caller, err := ids.ParseAddress(req.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	executor, err := ids.ParseAddress(req.ExecutorToken)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	g.ctx.Caller = caller
	fill, err := engine.ExecuteOrder(g.ctx, req.Order, executor)
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusOK, fill)
}

func (g *gateway) handleGetAuction(w http.ResponseWriter, r *http.Request) {
	digest, err := parseHashParam(chi.URLParam(r, "digest"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	auction, err := engine.GetAuction(g.ctx.Store, digest)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, auction)
}
