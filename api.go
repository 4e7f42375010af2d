package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dummyfinance/nftd/nft"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// BlockSource supplies the current block context; the daemon uses the
// store-backed Clock, tests substitute a fixed value.
type BlockSource interface {
	Block() nft.BlockInfo
}

type API struct {
	contract  *nft.Contract
	blocks    BlockSource
	messenger Messenger
	admin     nft.Address
	log       *slog.Logger
}

func NewAPI(contract *nft.Contract, blocks BlockSource, messenger Messenger, admin nft.Address, log *slog.Logger) *API {
	return &API{
		contract:  contract,
		blocks:    blocks,
		messenger: messenger,
		admin:     admin,
		log:       log,
	}
}

func (api *API) Router() http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)

	mux.Get("/contract", api.handleContractInfo)
	mux.Get("/minter", api.handleMinter)
	mux.Get("/tokens", api.handleAllTokens)
	mux.Get("/tokens/count", api.handleNumTokens)
	mux.Get("/tokens/highest", api.handleHighestTokenID)
	mux.Get("/tokens/{id}", api.handleAllNftInfo)
	mux.Get("/tokens/{id}/info", api.handleNftInfo)
	mux.Get("/tokens/{id}/owner", api.handleOwnerOf)
	mux.Get("/owners/{owner}/tokens", api.handleTokensByOwner)
	mux.Get("/owners/{owner}/operators", api.handleAllOperators)

	mux.Post("/tokens", api.handleMint)
	mux.Post("/tokens/{id}/transfer", api.handleTransfer)
	mux.Post("/tokens/{id}/send", api.handleSend)
	mux.Post("/tokens/{id}/approve", api.handleApprove)
	mux.Post("/tokens/{id}/revoke", api.handleRevoke)
	mux.Post("/tokens/{id}/burn", api.handleBurn)
	mux.Post("/operators/approve", api.handleApproveAll)
	mux.Post("/operators/revoke", api.handleRevokeAll)
	mux.Post("/migrate", api.handleMigrate)

	return mux
}

type mintRequest struct {
	Sender    string       `json:"sender"`
	TokenID   nft.TokenID  `json:"token_id"`
	Owner     string       `json:"owner"`
	TokenURI  string       `json:"token_uri"`
	Extension nft.Metadata `json:"extension"`
}

func (api *API) handleMint(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if !api.decodeBody(w, r, &req) {
		return
	}
	sender, err := nft.ValidateAddress(req.Sender)
	if err != nil {
		api.writeError(w, err)
		return
	}
	owner, err := nft.ValidateAddress(req.Owner)
	if err != nil {
		api.writeError(w, err)
		return
	}
	resp, err := api.contract.Mint(sender, &nft.MintMsg{
		TokenID:   req.TokenID,
		Owner:     owner,
		TokenURI:  req.TokenURI,
		Extension: req.Extension,
	})
	if err != nil {
		api.writeError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, resp)
}

type transferRequest struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
}

func (api *API) handleTransfer(w http.ResponseWriter, r *http.Request) {
	id, ok := api.pathTokenID(w, r)
	if !ok {
		return
	}
	var req transferRequest
	if !api.decodeBody(w, r, &req) {
		return
	}
	sender, err := nft.ValidateAddress(req.Sender)
	if err != nil {
		api.writeError(w, err)
		return
	}
	recipient, err := nft.ValidateAddress(req.Recipient)
	if err != nil {
		api.writeError(w, err)
		return
	}
	resp, err := api.contract.TransferNFT(sender, api.blocks.Block(), recipient, id)
	if err != nil {
		api.writeError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, resp)
}

type sendRequest struct {
	Sender   string `json:"sender"`
	Contract string `json:"contract"`
	Msg      []byte `json:"msg"`
}

func (api *API) handleSend(w http.ResponseWriter, r *http.Request) {
	id, ok := api.pathTokenID(w, r)
	if !ok {
		return
	}
	var req sendRequest
	if !api.decodeBody(w, r, &req) {
		return
	}
	sender, err := nft.ValidateAddress(req.Sender)
	if err != nil {
		api.writeError(w, err)
		return
	}
	target, err := nft.ValidateAddress(req.Contract)
	if err != nil {
		api.writeError(w, err)
		return
	}
	resp, err := api.contract.SendNFT(sender, api.blocks.Block(), target, id, req.Msg)
	if err != nil {
		api.writeError(w, err)
		return
	}
	for i := range resp.Messages {
		err = api.messenger.Deliver(r.Context(), &resp.Messages[i])
		if err != nil {
			api.log.Warn("receive notification delivery failed", "target", resp.Messages[i].Target, "error", err)
		}
	}
	api.writeJSON(w, http.StatusOK, resp)
}

type approveRequest struct {
	Sender  string         `json:"sender"`
	Spender string         `json:"spender"`
	Expires nft.Expiration `json:"expires"`
}

func (api *API) handleApprove(w http.ResponseWriter, r *http.Request) {
	id, ok := api.pathTokenID(w, r)
	if !ok {
		return
	}
	var req approveRequest
	if !api.decodeBody(w, r, &req) {
		return
	}
	sender, err := nft.ValidateAddress(req.Sender)
	if err != nil {
		api.writeError(w, err)
		return
	}
	spender, err := nft.ValidateAddress(req.Spender)
	if err != nil {
		api.writeError(w, err)
		return
	}
	resp, err := api.contract.Approve(sender, api.blocks.Block(), spender, id, req.Expires)
	if err != nil {
		api.writeError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, resp)
}

func (api *API) handleRevoke(w http.ResponseWriter, r *http.Request) {
	id, ok := api.pathTokenID(w, r)
	if !ok {
		return
	}
	var req approveRequest
	if !api.decodeBody(w, r, &req) {
		return
	}
	sender, err := nft.ValidateAddress(req.Sender)
	if err != nil {
		api.writeError(w, err)
		return
	}
	spender, err := nft.ValidateAddress(req.Spender)
	if err != nil {
		api.writeError(w, err)
		return
	}
	resp, err := api.contract.Revoke(sender, api.blocks.Block(), spender, id)
	if err != nil {
		api.writeError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, resp)
}

type operatorRequest struct {
	Sender   string         `json:"sender"`
	Operator string         `json:"operator"`
	Expires  nft.Expiration `json:"expires"`
}

func (api *API) handleApproveAll(w http.ResponseWriter, r *http.Request) {
	var req operatorRequest
	if !api.decodeBody(w, r, &req) {
		return
	}
	sender, err := nft.ValidateAddress(req.Sender)
	if err != nil {
		api.writeError(w, err)
		return
	}
	operator, err := nft.ValidateAddress(req.Operator)
	if err != nil {
		api.writeError(w, err)
		return
	}
	resp, err := api.contract.ApproveAll(sender, api.blocks.Block(), operator, req.Expires)
	if err != nil {
		api.writeError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, resp)
}

func (api *API) handleRevokeAll(w http.ResponseWriter, r *http.Request) {
	var req operatorRequest
	if !api.decodeBody(w, r, &req) {
		return
	}
	sender, err := nft.ValidateAddress(req.Sender)
	if err != nil {
		api.writeError(w, err)
		return
	}
	operator, err := nft.ValidateAddress(req.Operator)
	if err != nil {
		api.writeError(w, err)
		return
	}
	resp, err := api.contract.RevokeAll(sender, operator)
	if err != nil {
		api.writeError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, resp)
}

type burnRequest struct {
	Sender string `json:"sender"`
}

func (api *API) handleBurn(w http.ResponseWriter, r *http.Request) {
	id, ok := api.pathTokenID(w, r)
	if !ok {
		return
	}
	var req burnRequest
	if !api.decodeBody(w, r, &req) {
		return
	}
	sender, err := nft.ValidateAddress(req.Sender)
	if err != nil {
		api.writeError(w, err)
		return
	}
	resp, err := api.contract.Burn(sender, api.blocks.Block(), id)
	if err != nil {
		api.writeError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, resp)
}

type migrateRequest struct {
	Sender string `json:"sender"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Minter string `json:"minter"`
}

func (api *API) handleMigrate(w http.ResponseWriter, r *http.Request) {
	var req migrateRequest
	if !api.decodeBody(w, r, &req) {
		return
	}
	sender, err := nft.ValidateAddress(req.Sender)
	if err != nil {
		api.writeError(w, err)
		return
	}
	if sender != api.admin {
		api.writeError(w, &nft.UnauthorizedError{Actor: sender, Action: "migrate"})
		return
	}
	msg := &nft.MigrateMsg{Name: req.Name, Symbol: req.Symbol}
	if req.Minter != "" {
		minter, err := nft.ValidateAddress(req.Minter)
		if err != nil {
			api.writeError(w, err)
			return
		}
		msg.Minter = minter
	}
	err = api.contract.Migrate(msg)
	if err != nil {
		api.writeError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, map[string]string{"status": "migrated"})
}

func (api *API) handleContractInfo(w http.ResponseWriter, r *http.Request) {
	info, err := api.contract.ContractInfo()
	if err != nil {
		api.writeError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, info)
}

func (api *API) handleMinter(w http.ResponseWriter, r *http.Request) {
	resp, err := api.contract.Minter()
	if err != nil {
		api.writeError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, resp)
}

func (api *API) handleNumTokens(w http.ResponseWriter, r *http.Request) {
	resp, err := api.contract.NumTokens()
	if err != nil {
		api.writeError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, resp)
}

func (api *API) handleHighestTokenID(w http.ResponseWriter, r *http.Request) {
	resp, err := api.contract.HighestTokenID()
	if err != nil {
		api.writeError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, resp)
}

func (api *API) handleNftInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := api.pathTokenID(w, r)
	if !ok {
		return
	}
	resp, err := api.contract.NftInfo(id)
	if err != nil {
		api.writeError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, resp)
}

func (api *API) handleOwnerOf(w http.ResponseWriter, r *http.Request) {
	id, ok := api.pathTokenID(w, r)
	if !ok {
		return
	}
	resp, err := api.contract.OwnerOf(id, api.blocks.Block(), includeExpired(r))
	if err != nil {
		api.writeError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, resp)
}

func (api *API) handleAllNftInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := api.pathTokenID(w, r)
	if !ok {
		return
	}
	resp, err := api.contract.AllNftInfo(id, api.blocks.Block(), includeExpired(r))
	if err != nil {
		api.writeError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, resp)
}

func (api *API) handleAllTokens(w http.ResponseWriter, r *http.Request) {
	startAfter, limit, err := tokenPage(r)
	if err != nil {
		api.writeError(w, err)
		return
	}
	resp, err := api.contract.AllTokens(startAfter, limit)
	if err != nil {
		api.writeError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, resp)
}

func (api *API) handleTokensByOwner(w http.ResponseWriter, r *http.Request) {
	owner, err := nft.ValidateAddress(chi.URLParam(r, "owner"))
	if err != nil {
		api.writeError(w, err)
		return
	}
	startAfter, limit, err := tokenPage(r)
	if err != nil {
		api.writeError(w, err)
		return
	}
	resp, err := api.contract.Tokens(owner, startAfter, limit)
	if err != nil {
		api.writeError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, resp)
}

func (api *API) handleAllOperators(w http.ResponseWriter, r *http.Request) {
	owner, err := nft.ValidateAddress(chi.URLParam(r, "owner"))
	if err != nil {
		api.writeError(w, err)
		return
	}
	var startAfter nft.Address
	if s := r.URL.Query().Get("start_after"); s != "" {
		startAfter, err = nft.ValidateAddress(s)
		if err != nil {
			api.writeError(w, err)
			return
		}
	}
	resp, err := api.contract.AllOperators(owner, api.blocks.Block(), includeExpired(r), startAfter, pageLimit(r))
	if err != nil {
		api.writeError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, resp)
}

func (api *API) pathTokenID(w http.ResponseWriter, r *http.Request) (nft.TokenID, bool) {
	id, err := nft.ParseTokenID(chi.URLParam(r, "id"))
	if err != nil {
		api.writeError(w, err)
		return 0, false
	}
	return id, true
}

func (api *API) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		api.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body: " + err.Error()})
		return false
	}
	return true
}

func (api *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		api.log.Warn("response encoding failed", "error", err)
	}
}

func (api *API) writeError(w http.ResponseWriter, err error) {
	var (
		claimed *nft.ClaimedError
		remint  *nft.RemintBurnedError
		noToken *nft.NoSuchTokenError
		expired *nft.ExpiredError
		badID   *nft.InvalidTokenIDError
		badAddr *nft.InvalidAddressError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, nft.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.As(err, &noToken):
		status = http.StatusNotFound
	case errors.As(err, &claimed), errors.As(err, &remint):
		status = http.StatusConflict
	case errors.As(err, &expired):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &badID), errors.As(err, &badAddr):
		status = http.StatusBadRequest
	case errors.Is(err, nft.ErrNotInitialized):
		status = http.StatusServiceUnavailable
	default:
		api.log.Error("request failed", "error", err)
	}
	api.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func tokenPage(r *http.Request) (*nft.TokenID, int, error) {
	var startAfter *nft.TokenID
	if s := r.URL.Query().Get("start_after"); s != "" {
		id, err := nft.ParseTokenID(s)
		if err != nil {
			return nil, 0, err
		}
		startAfter = &id
	}
	return startAfter, pageLimit(r), nil
}

func pageLimit(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return limit
}

func includeExpired(r *http.Request) bool {
	return r.URL.Query().Get("include_expired") == "true"
}
