package handler

import (
	"strconv"

	"delivery-escrow/internal/adapter/http/dto"
	"delivery-escrow/internal/adapter/http/middleware"
	"delivery-escrow/internal/core/domain"
	"delivery-escrow/internal/core/ports"
	"delivery-escrow/pkg/apperror"
	"delivery-escrow/pkg/response"

	"github.com/gin-gonic/gin"
)

// LedgerHandler handles account balance and deposit endpoints.
type LedgerHandler struct {
	ledgerSvc ports.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerSvc ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

// Deposit handles POST /api/v1/accounts/deposit.
func (h *LedgerHandler) Deposit(c *gin.Context) {
	caller, ok := middleware.CallerIdentity(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidIdentity())
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	entry, err := h.ledgerSvc.Deposit(c.Request.Context(), ports.DepositRequest{
		Caller:  caller,
		Address: req.Address,
		Amount:  req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, entry.ToAddress)
	response.Created(c, toLedgerEntryResponse(entry))
}

// GetBalance handles GET /api/v1/accounts/:address.
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	addr := c.Param("address")
	balance, kind, err := h.ledgerSvc.GetBalance(c.Request.Context(), addr)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		Address: addr,
		Kind:    string(kind),
		Balance: balance,
	})
}

// ListEntries handles GET /api/v1/accounts/:address/entries.
func (h *LedgerHandler) ListEntries(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	params := ports.LedgerListParams{
		Address:  c.Param("address"),
		Page:     page,
		PageSize: pageSize,
	}
	if t := c.Query("type"); t != "" {
		entryType := domain.EntryType(t)
		switch entryType {
		case domain.EntryTypeDeposit, domain.EntryTypeEscrowFund,
			domain.EntryTypeOperatorPayout, domain.EntryTypePlatformFee:
			params.Type = &entryType
		default:
			response.Error(c, apperror.ErrInvalidParameter("unknown entry type"))
			return
		}
	}

	entries, total, err := h.ledgerSvc.ListEntries(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, toLedgerEntryResponse(&entries[i]))
	}

	response.Paginated(c, items, total, page, pageSize)
}
