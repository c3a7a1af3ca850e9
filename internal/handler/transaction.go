package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"finance-ledger/internal/models"
	"finance-ledger/internal/repository"
	"finance-ledger/internal/service"
	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TransactionHandler 负责交易相关接口
type TransactionHandler struct {
	Service  *service.TransactionService
	Store    *repository.Store
	Log      logrus.FieldLogger
	PageSize int
}

func NewTransactionHandler(svc *service.TransactionService, store *repository.Store, log logrus.FieldLogger, pageSize int) *TransactionHandler {
	return &TransactionHandler{
		Service:  svc,
		Store:    store,
		Log:      log,
		PageSize: pageSize,
	}
}

// ---------- 请求结构 ----------

type createTransactionReq struct {
	Title    string      `json:"title" binding:"required,max=255"`
	Type     string      `json:"type" binding:"required,oneof=income outcome"`
	Value    json.Number `json:"value" binding:"required"` // number or numeric string
	Category string      `json:"category" binding:"required"`
}

// ---------- 记一笔 ----------

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req createTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	value, err := util.ParseValue(req.Value.String())
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "value must be a positive amount")
		return
	}
	if err := util.ValidateCategory(req.Category); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	tr, err := h.Service.CreateTransaction(c.Request.Context(), service.CreateTransactionInput{
		Title:    req.Title,
		Type:     models.TransactionType(req.Type),
		Value:    value,
		Category: req.Category,
	})
	switch {
	case errors.Is(err, service.ErrInsufficientBalance):
		util.Error(c, http.StatusBadRequest, util.CodeInsufficientBalance, err.Error())
		return
	case errors.Is(err, service.ErrInvalidTransaction):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	case err != nil:
		h.Log.WithError(err).Error("create transaction")
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save transaction")
		return
	}

	util.Created(c, util.Response{
		"transaction": tr,
	})
}

// ListTransactions 分页查询交易，并附带当前余额
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(h.PageSize)))

	txType := models.TransactionType(c.Query("type"))
	if !txType.Valid() {
		txType = ""
	}

	list, total, err := h.Store.ListTransactions(c.Request.Context(), repository.ListFilter{
		Page:     page,
		PageSize: size,
		Type:     txType,
	})
	if err != nil {
		h.Log.WithError(err).Error("list transactions")
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	balance, err := h.Store.Balance(c.Request.Context())
	if err != nil {
		h.Log.WithError(err).Error("balance")
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	util.Success(c, util.Response{
		"items":   list,
		"total":   total,
		"balance": balance,
	})
}

// GetBalance 返回当前收入、支出与余额
func (h *TransactionHandler) GetBalance(c *gin.Context) {
	balance, err := h.Store.Balance(c.Request.Context())
	if err != nil {
		h.Log.WithError(err).Error("balance")
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}
	util.Success(c, util.Response{"balance": balance})
}

// ListCategories 返回全部分类
func (h *TransactionHandler) ListCategories(c *gin.Context) {
	list, err := h.Store.ListCategories(c.Request.Context())
	if err != nil {
		h.Log.WithError(err).Error("list categories")
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}
	util.Success(c, util.Response{"items": list})
}
