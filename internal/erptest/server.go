package erptest

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Signing secret for stub tokens. Test-only material.
const Secret = "erptest-secret"

type Server struct {
	Store *Store
}

func NewServer(store *Store) *Server {
	if store == nil {
		store = NewStore()
	}
	return &Server{Store: store}
}

// Handler builds the full route table with CORS and bearer auth, the
// same surface the production backend exposes to the browser client.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	authed := r.NewRoute().Subrouter()
	authed.Use(s.authMiddleware)
	authed.HandleFunc("/purchase-orders/", s.handleListPOs).Methods(http.MethodGet)
	authed.HandleFunc("/purchase-orders/update", s.handleUpdateComponent).Methods(http.MethodPut)
	authed.HandleFunc("/approvals/approval-requests", s.handleListApprovals).Methods(http.MethodGet)
	authed.HandleFunc("/approvals/approve-request/{umi}", s.handleApprove).Methods(http.MethodPut)
	authed.HandleFunc("/quality-inspection/components", s.handleListBackorders).Methods(http.MethodGet)
	authed.HandleFunc("/backorder-items/{mpn}/material-in", s.handleMaterialIn).Methods(http.MethodPut)
	authed.HandleFunc("/returns/submit-return-form", s.handleSubmitReturn).Methods(http.MethodPost)
	authed.HandleFunc("/vendors/vendors", s.handleListVendors).Methods(http.MethodGet)
	authed.HandleFunc("/vendors/vendors", s.handleUpsertVendor).Methods(http.MethodPut)
	authed.HandleFunc("/bom/{assembly}/lines", s.handleListBOM).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
	return c.Handler(r)
}

type stubClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims := &stubClaims{}
		_, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
			func(t *jwt.Token) (interface{}, error) { return []byte(Secret), nil })
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, ok := s.Store.findUser(req.Username, req.Password)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	now := time.Now()
	claims := &stubClaims{
		UserID: user.UserID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "erptest",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(Secret))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not sign token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleListPOs(w http.ResponseWriter, r *http.Request) {
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": s.Store.PORows})
}

func (s *Server) handleUpdateComponent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PONumber             string      `json:"po_number"`
		ComponentID          string      `json:"component_id"`
		ExpectedDeliveryDate interface{} `json:"expected_delivery_date"`
		UpdatedRequestedQty  float64     `json:"updated_requested_quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UpdatedRequestedQty < 0 {
		writeError(w, http.StatusBadRequest, "quantity cannot be negative")
		return
	}

	amount, gst, err := s.Store.updateComponent(req.PONumber, req.ComponentID, req.UpdatedRequestedQty, req.ExpectedDeliveryDate)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"amount":     amount.StringFixed(2),
		"gst_amount": gst.StringFixed(2),
	})
}

func (s *Server) handleListApprovals(w http.ResponseWriter, r *http.Request) {
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": s.Store.Approvals})
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	umi := mux.Vars(r)["umi"]

	var body struct {
		UpdatedItems []map[string]interface{} `json:"updatedItems"`
		Note         string                   `json:"note"`
		Priority     string                   `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	for _, row := range s.Store.Approvals {
		if row["umi"] == umi {
			row["status"] = "Approved"
			row["note"] = body.Note
			if body.Priority != "" {
				row["priority"] = body.Priority
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "Approved"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "approval request not found")
}

func (s *Server) handleListBackorders(w http.ResponseWriter, r *http.Request) {
	wanted := r.URL.Query()["status"]

	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()

	rows := make([]Row, 0, len(s.Store.Backorders))
	for _, row := range s.Store.Backorders {
		if len(wanted) == 0 {
			rows = append(rows, row)
			continue
		}
		for _, status := range wanted {
			if row["status"] == status {
				rows = append(rows, row)
				break
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": rows})
}

func (s *Server) handleMaterialIn(w http.ResponseWriter, r *http.Request) {
	mpn := mux.Vars(r)["mpn"]

	var req struct {
		MaterialInQty float64 `json:"material_in_quantity"`
		MRFNo         string  `json:"mrf_no"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MaterialInQty <= 0 {
		writeError(w, http.StatusBadRequest, "material in quantity must be positive")
		return
	}

	if err := s.Store.materialIn(mpn, req.MaterialInQty); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSubmitReturn(w http.ResponseWriter, r *http.Request) {
	var form struct {
		Items []map[string]interface{} `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(form.Items) == 0 {
		writeError(w, http.StatusBadRequest, "no items in return form")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"accepted": len(form.Items)})
}

func (s *Server) handleListVendors(w http.ResponseWriter, r *http.Request) {
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": s.Store.Vendors})
}

func (s *Server) handleUpsertVendor(w http.ResponseWriter, r *http.Request) {
	var v Row
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	gstin, _ := v["gstin"].(string)
	if gstin == "" {
		writeError(w, http.StatusBadRequest, "gstin is required")
		return
	}

	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	for i, existing := range s.Store.Vendors {
		if existing["gstin"] == gstin {
			s.Store.Vendors[i] = v
			writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
			return
		}
	}
	s.Store.Vendors = append(s.Store.Vendors, v)
	writeJSON(w, http.StatusOK, map[string]string{"status": "created"})
}

func (s *Server) handleListBOM(w http.ResponseWriter, r *http.Request) {
	assembly := mux.Vars(r)["assembly"]

	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	lines, ok := s.Store.BOMs[assembly]
	if !ok {
		writeError(w, http.StatusNotFound, "assembly not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": lines})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
