package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/username/tradejournal/src/logger"
	"github.com/username/tradejournal/src/model"
	"github.com/username/tradejournal/src/security/validation"
	"github.com/username/tradejournal/src/services"
	"github.com/username/tradejournal/src/utils"
)

type ImportHandler struct {
	importService  services.ImportService
	tradeStore     services.TradeStore
	maxUploadBytes int64
}

func NewImportHandler(importService services.ImportService, tradeStore services.TradeStore, maxUploadBytes int64) *ImportHandler {
	return &ImportHandler{
		importService:  importService,
		tradeStore:     tradeStore,
		maxUploadBytes: maxUploadBytes,
	}
}

// readUpload validates the multipart "file" field and returns its content. It
// writes the error response itself and reports false on failure.
func (h *ImportHandler) readUpload(w http.ResponseWriter, r *http.Request, accountID string) (services.ImportRequest, bool) {
	log := logger.FromContext(r.Context())
	limitMB := h.maxUploadBytes / (1024 * 1024)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1024*1024)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		log.Warn("Failed to parse multipart form or request too large", "accountID", accountID, "error", err, "limit", h.maxUploadBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", limitMB), http.StatusBadRequest)
		return services.ImportRequest{}, false
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		log.Warn("Failed to retrieve file from request", "accountID", accountID, "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return services.ImportRequest{}, false
	}
	defer file.Close()

	if fileHeader.Size > h.maxUploadBytes {
		log.Warn("Uploaded file too large", "accountID", accountID, "fileSize", fileHeader.Size, "limit", h.maxUploadBytes)
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB", limitMB), http.StatusBadRequest)
		return services.ImportRequest{}, false
	}

	if err := validation.ValidateFileExtension(fileHeader.Filename); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return services.ImportRequest{}, false
	}
	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return services.ImportRequest{}, false
	}
	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		log.Warn("Server-side file content validation failed", "accountID", accountID, "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return services.ImportRequest{}, false
	}
	log.Debug("Upload validated", "accountID", accountID, "filename", fileHeader.Filename,
		"clientType", clientContentType, "detectedType", detectedContentType)

	content, err := io.ReadAll(file)
	if err != nil {
		log.Error("Failed to read uploaded file", "accountID", accountID, "error", err)
		utils.SendJSONError(w, "Failed to read uploaded file", http.StatusInternalServerError)
		return services.ImportRequest{}, false
	}
	return services.ImportRequest{AccountID: accountID, FileName: fileHeader.Filename, Content: content}, true
}

// HandlePreview parses an upload and returns trades and row errors without storing anything.
func (h *ImportHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	accountID, ok := GetAccountIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "account id not found in context", http.StatusBadRequest)
		return
	}
	req, ok := h.readUpload(w, r, accountID)
	if !ok {
		return
	}

	result, err := h.importService.Preview(r.Context(), req)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, result, http.StatusOK)
}

// HandleCommit imports an upload. The status code tells a complete import
// (201) from a partial one (207); the body is the import report either way.
func (h *ImportHandler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	accountID, ok := GetAccountIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "account id not found in context", http.StatusBadRequest)
		return
	}
	req, ok := h.readUpload(w, r, accountID)
	if !ok {
		return
	}

	logger.FromContext(r.Context()).Info("Processing import request", "accountID", accountID, "filename", req.FileName)
	report, err := h.importService.Commit(r.Context(), req, nil)
	switch {
	case err == nil:
		utils.SendJSON(w, report, http.StatusCreated)
	case report != nil && errors.Is(err, services.ErrEmptyImport):
		utils.SendJSON(w, report, http.StatusUnprocessableEntity)
	case report != nil && report.Status == model.StatusPartial:
		utils.SendJSON(w, report, http.StatusMultiStatus)
	case report != nil && errors.Is(err, services.ErrBatchFailed):
		utils.SendJSON(w, report, http.StatusBadGateway)
	default:
		h.sendServiceError(w, r, err)
	}
}

// HandleGetLatest returns the most recent import report of the account.
func (h *ImportHandler) HandleGetLatest(w http.ResponseWriter, r *http.Request) {
	accountID, ok := GetAccountIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "account id not found in context", http.StatusBadRequest)
		return
	}
	report, err := h.importService.LatestReport(accountID)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-cache, private")
	utils.SendJSON(w, report, http.StatusOK)
}

func (h *ImportHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	accountID, ok := GetAccountIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "account id not found in context", http.StatusBadRequest)
		return
	}
	job, err := h.importService.GetJob(r.Context(), accountID, r.PathValue("id"))
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, job, http.StatusOK)
}

// HandleDeleteImportTrades removes the trades written by one import.
func (h *ImportHandler) HandleDeleteImportTrades(w http.ResponseWriter, r *http.Request) {
	accountID, ok := GetAccountIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "account id not found in context", http.StatusBadRequest)
		return
	}
	importID := r.PathValue("id")
	if _, err := h.importService.GetJob(r.Context(), accountID, importID); err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	deleted, err := h.tradeStore.DeleteImport(r.Context(), accountID, importID)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("Deleted trades of import", "accountID", accountID, "importID", importID, "deleted", deleted)
	utils.SendJSON(w, map[string]interface{}{"import_id": importID, "deleted": deleted}, http.StatusOK)
}

func (h *ImportHandler) sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrImportNotFound):
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrUnsupportedFile), errors.Is(err, services.ErrParsingFailed),
		errors.Is(err, services.ErrAccountRequired):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		logger.FromContext(r.Context()).Error("Internal error handling import request", "path", r.URL.Path, "error", err)
		utils.SendJSONError(w, "An internal error occurred while processing the request. Please try again later.", http.StatusInternalServerError)
	}
}
