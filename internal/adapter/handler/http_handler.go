package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/rl1809/vending-machine/internal/core/service"
)

// SenderHeader carries the caller identity of HTTP requests.
const SenderHeader = "X-Sender"

type HTTPHandler struct {
	vendingService *service.VendingService
}

type ExecuteHTTPResponse struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message,omitempty"`
	Attributes []service.Attribute `json:"attributes,omitempty"`
}

func NewHTTPHandler(vendingService *service.VendingService) *HTTPHandler {
	return &HTTPHandler{vendingService: vendingService}
}

func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/api/instantiate", h.Instantiate)
	mux.HandleFunc("/api/execute", h.Execute)
	mux.HandleFunc("/api/query", h.Query)
	mux.HandleFunc("/api/items_count", h.ItemsCount)
}

func (h *HTTPHandler) Instantiate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var msg service.InstantiateMsg
	if !decodeBody(w, r, &msg) {
		return
	}

	resp, err := h.vendingService.Instantiate(r.Context(), r.Header.Get(SenderHeader), msg)
	if err != nil {
		writeError(w, "instantiate", err)
		return
	}

	writeJSON(w, http.StatusOK, ExecuteHTTPResponse{Success: true, Attributes: resp.Attributes})
}

func (h *HTTPHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var msg service.ExecuteMsg
	if !decodeBody(w, r, &msg) {
		return
	}

	resp, err := h.vendingService.Execute(r.Context(), r.Header.Get(SenderHeader), msg)
	if err != nil {
		writeError(w, "execute", err)
		return
	}

	writeJSON(w, http.StatusOK, ExecuteHTTPResponse{Success: true, Attributes: resp.Attributes})
}

func (h *HTTPHandler) Query(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var msg service.QueryMsg
	if !decodeBody(w, r, &msg) {
		return
	}

	out, err := h.vendingService.Query(r.Context(), msg)
	if err != nil {
		writeError(w, "query", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

func (h *HTTPHandler) ItemsCount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp, err := h.vendingService.ItemsCount(r.Context())
	if err != nil {
		writeError(w, "items_count", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeBody rejects unknown fields, matching the strict message schema.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ExecuteHTTPResponse{
			Success: false,
			Message: fmt.Sprintf("invalid request body: %v", err),
		})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, op string, err error) {
	status, _ := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("%s failed: %v", op, err)
		message = "internal error"
	}

	writeJSON(w, status, ExecuteHTTPResponse{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
