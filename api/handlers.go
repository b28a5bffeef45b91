package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"labshare_dao/contract"
	"labshare_dao/indexer"
	"labshare_dao/ledger"
	"labshare_dao/metrics"
	"labshare_dao/sdk"
)

const (
	defaultEventPage = 100
	maxEventPage     = 1000
)

type handlers struct {
	ledger  *ledger.Ledger
	index   *indexer.Indexer
	limiter *senderLimiter
	log     *zap.Logger
}

func (h *handlers) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrUnknownAction):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrReadOnly), errors.Is(err, ledger.ErrInvalidSender):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrFaucetDisabled):
		status = http.StatusForbidden
	}
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *handlers) health(c *gin.Context) {
	resp := gin.H{"status": "ok", "ledger_seq": h.ledger.LastSeq()}
	if h.index != nil {
		resp["indexer_seq"] = h.index.LastSeq()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) submitTx(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var req ledger.TxRequest
	if err := req.UnmarshalJSON(body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed transaction: " + err.Error()})
		return
	}
	if !req.Sender.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": ledger.ErrInvalidSender.Error()})
		return
	}
	if !h.limiter.allow(req.Sender) {
		metrics.APIRateLimited.Inc()
		c.Header("Retry-After", "1")
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}

	res, err := h.ledger.Execute(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	raw, err := res.MarshalJSON()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

func (h *handlers) query(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var req ledger.QueryRequest
	if err := req.UnmarshalJSON(body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed query: " + err.Error()})
		return
	}
	out, err := h.ledger.Query(c.Request.Context(), req)
	var abort *sdk.AbortError
	switch {
	case errors.As(err, &abort):
		c.JSON(http.StatusOK, gin.H{"success": false, "abort": abort})
		return
	case err != nil:
		h.fail(c, err)
		return
	}
	var result any = out
	if json.Valid([]byte(out)) {
		result = json.RawMessage(out)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

func (h *handlers) actions(c *gin.Context) {
	type action struct {
		Name     string `json:"name"`
		ReadOnly bool   `json:"read_only"`
	}
	names := contract.Actions()
	out := make([]action, 0, len(names))
	for _, n := range names {
		ep, _ := contract.Lookup(n)
		out = append(out, action{Name: n, ReadOnly: ep.ReadOnly})
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) account(c *gin.Context) {
	addr, ok := sdk.ParseAddress(c.Param("address"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": ledger.ErrInvalidSender.Error()})
		return
	}
	bal, err := h.ledger.Balance(c.Request.Context(), addr)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": addr, "balance": bal})
}

func (h *handlers) events(c *gin.Context) {
	from, err := strconv.ParseUint(c.DefaultQuery("from", "1"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be a sequence number"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultEventPage)))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be positive"})
		return
	}
	if limit > maxEventPage {
		limit = maxEventPage
	}
	page, err := h.ledger.Events(c.Request.Context(), from, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	raw, err := ledger.EncodeEvents(page)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"last_seq": h.ledger.LastSeq(), "events": json.RawMessage(raw)})
}

func (h *handlers) faucet(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
		Amount  uint64 `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	addr, ok := sdk.ParseAddress(req.Address)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": ledger.ErrInvalidSender.Error()})
		return
	}
	if err := h.ledger.Mint(c.Request.Context(), addr, req.Amount); err != nil {
		h.fail(c, err)
		return
	}
	bal, err := h.ledger.Balance(c.Request.Context(), addr)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": addr, "balance": bal})
}

func (h *handlers) indexDAO(c *gin.Context) {
	indexLookup(c, h.index, h.index.DAO)
}

func (h *handlers) indexEscrow(c *gin.Context) {
	indexLookup(c, h.index, h.index.Escrow)
}

func (h *handlers) indexMarket(c *gin.Context) {
	indexLookup(c, h.index, h.index.Market)
}

func indexLookup[T any](c *gin.Context, ix *indexer.Indexer, get func(string) (T, bool)) {
	if ix == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "indexer disabled"})
		return
	}
	id, ok := sdk.ParseObjectID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid object id"})
		return
	}
	view, ok := get(id.String())
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not indexed"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handlers) indexIncentives(c *gin.Context) {
	if h.index == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "indexer disabled"})
		return
	}
	c.JSON(http.StatusOK, h.index.Incentives())
}

func (h *handlers) indexStats(c *gin.Context) {
	if h.index == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "indexer disabled"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"last_seq": h.index.LastSeq(), "events": h.index.Counts()})
}
