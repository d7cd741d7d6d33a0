package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"tanukibot/internal/constants"
	"tanukibot/internal/models"
	"tanukibot/internal/reports"
)

type jsonResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// LeadsResponse - ответ GET /api/leads.
type LeadsResponse struct {
	Count int               `json:"count"`
	Leads []models.LeadView `json:"leads"`
}

// --- Вспомогательные функции для JSON-ответов ---
func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Debug("writeJSON: ошибка записи ответа")
	}
}

func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, jsonResponse{Status: "error", Message: message})
}

type leadHandlers struct {
	store LeadStore
}

// Health - проверка готовности: 503, если хранилище недоступно.
func (h *leadHandlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		logrus.WithError(err).Warn("Health: хранилище недоступно")
		writeJSON(w, http.StatusServiceUnavailable, jsonResponse{Status: "unavailable", Message: "storage unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{Status: "ok"})
}

// ListLeads - последние заявки в JSON. limit по умолчанию и максимум - LEADS_API_LIMIT.
func (h *leadHandlers) ListLeads(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r.URL.Query().Get("limit"))
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Invalid limit")
		return
	}
	leads, err := h.store.ListLeads(r.Context(), limit)
	if err != nil {
		logrus.WithError(err).Error("ListLeads: ошибка чтения заявок")
		writeJSONError(w, http.StatusInternalServerError, "Failed to retrieve leads")
		return
	}
	if leads == nil {
		leads = []models.LeadView{}
	}
	writeJSON(w, http.StatusOK, LeadsResponse{Count: len(leads), Leads: leads})
}

// ExportLeads отдает все заявки файлом XLSX.
func (h *leadHandlers) ExportLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.store.ListLeads(r.Context(), 0)
	if err != nil {
		logrus.WithError(err).Error("ExportLeads: ошибка чтения заявок")
		writeJSONError(w, http.StatusInternalServerError, "Failed to retrieve leads")
		return
	}
	data, err := reports.BuildLeadsWorkbook(leads)
	if err != nil {
		logrus.WithError(err).Error("ExportLeads: ошибка формирования файла")
		writeJSONError(w, http.StatusInternalServerError, "Failed to build workbook")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+reports.LeadsFileName(time.Now())+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logrus.WithError(err).Debug("ExportLeads: ошибка записи ответа")
	}
}

func parseLimit(raw string) (int, bool) {
	if raw == "" {
		return constants.LEADS_API_LIMIT, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	if n > constants.LEADS_API_LIMIT {
		n = constants.LEADS_API_LIMIT
	}
	return n, true
}
