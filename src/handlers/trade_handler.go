package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/username/tradejournal/src/logger"
	"github.com/username/tradejournal/src/services"
	"github.com/username/tradejournal/src/utils"
)

type TradeHandler struct {
	tradeStore services.TradeStore
}

func NewTradeHandler(tradeStore services.TradeStore) *TradeHandler {
	return &TradeHandler{tradeStore: tradeStore}
}

// HandleListTrades returns the account's stored trades with ETag support.
func (h *TradeHandler) HandleListTrades(w http.ResponseWriter, r *http.Request) {
	accountID, ok := GetAccountIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "account id not found in context", http.StatusBadRequest)
		return
	}
	log := logger.FromContext(r.Context())

	trades, err := h.tradeStore.ListTrades(r.Context(), accountID)
	if err != nil {
		log.Error("Error retrieving trades", "accountID", accountID, "error", err)
		utils.SendJSONError(w, "Error retrieving trades", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-cache, private")
	currentETag, etagErr := utils.GenerateETag(trades)
	if etagErr != nil {
		log.Error("Failed to generate ETag for trades", "accountID", accountID, "error", etagErr)
	} else {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, cETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				log.Debug("ETag match for trades", "accountID", accountID, "etag", currentETag)
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	utils.SendJSON(w, trades, http.StatusOK)
}

// HandleExportTrades streams the account's stored trades as a CSV download.
func (h *TradeHandler) HandleExportTrades(w http.ResponseWriter, r *http.Request) {
	accountID, ok := GetAccountIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "account id not found in context", http.StatusBadRequest)
		return
	}

	trades, err := h.tradeStore.ListTrades(r.Context(), accountID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Error retrieving trades for export", "accountID", accountID, "error", err)
		utils.SendJSONError(w, "Error retrieving trades", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := services.WriteTradesCSV(&buf, trades); err != nil {
		logger.FromContext(r.Context()).Error("Error writing trades export", "accountID", accountID, "error", err)
		utils.SendJSONError(w, "Error exporting trades", http.StatusInternalServerError)
		return
	}

	fileName := fmt.Sprintf("trades-%s.csv", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.FromContext(r.Context()).Error("Error writing export response", "accountID", accountID, "error", err)
	}
}
