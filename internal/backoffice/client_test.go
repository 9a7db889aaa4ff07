package backoffice

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altamira/pos-checkout/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/branches/b-1/products", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("api_key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"productId":"a","name":"Product A","price":"5000","stock":"10","branchId":"b-1"},
			{"productId":"b","name":"Product B","price":"3000","stock":"4","branchId":"b-1"}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", 5*time.Second, testLogger())
	products, err := client.FetchCatalog(context.Background(), "b-1")
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, "a", products[0].ID)
	assert.True(t, products[0].Price.Equal(decimal.NewFromInt(5000)))
	assert.True(t, products[1].Stock.Equal(decimal.NewFromInt(4)))
}

func TestFetchPaymentMethods(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tenants/t-1/payment-methods", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"methodId":"pm-cash","name":"Cash","category":"cash","isDefault":true},
			{"methodId":"pm-card","name":"Debit Card","category":"non-cash","isDefault":false}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 5*time.Second, testLogger())
	methods, err := client.FetchPaymentMethods(context.Background(), "t-1")
	require.NoError(t, err)

	require.Len(t, methods, 2)
	assert.True(t, methods[0].IsCash())
	assert.True(t, methods[0].IsDefault)
	assert.False(t, methods[1].IsCash())
}

func TestSubmitSale(t *testing.T) {
	t.Run("success echoes a committed sale", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/branches/b-1/sales", r.URL.Path)

			var req models.SaleRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "pm-cash", req.PaymentMethodID)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(models.Sale{
				ID:             "sale-9",
				BranchID:       req.BranchID,
				Items:          req.Items,
				Total:          decimal.NewFromInt(13000),
				AmountTendered: req.AmountTendered,
				ChangeDue:      req.ChangeDue,
				CreatedAt:      time.Now().UTC(),
			})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "", 5*time.Second, testLogger())
		sale, err := client.SubmitSale(context.Background(), models.SaleRequest{
			BranchID:        "b-1",
			Items:           []models.SaleItem{{ProductID: "a", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(5000)}},
			PaymentMethodID: "pm-cash",
			AmountTendered:  decimal.NewFromInt(15000),
			ChangeDue:       decimal.NewFromInt(2000),
		})
		require.NoError(t, err)
		assert.Equal(t, "sale-9", sale.ID)
		assert.True(t, sale.Total.Equal(decimal.NewFromInt(13000)))
	})

	t.Run("structured error kinds", func(t *testing.T) {
		tests := []struct {
			name       string
			status     int
			body       string
			wantKind   ErrorKind
			checkStock bool
		}{
			{
				name:       "explicit stock conflict",
				status:     http.StatusConflict,
				body:       `{"error":"stock depleted for product a","kind":"stock-conflict"}`,
				wantKind:   KindStockConflict,
				checkStock: true,
			},
			{
				name:     "explicit validation",
				status:   http.StatusBadRequest,
				body:     `{"error":"quantity must be positive","kind":"validation"}`,
				wantKind: KindValidation,
			},
			{
				name:     "explicit server error",
				status:   http.StatusInternalServerError,
				body:     `{"error":"db write failed","kind":"server-error"}`,
				wantKind: KindServerError,
			},
			{
				name:       "409 without kind classifies as stock conflict",
				status:     http.StatusConflict,
				body:       `{"error":"conflict"}`,
				wantKind:   KindStockConflict,
				checkStock: true,
			},
			{
				name:     "500 without kind classifies as server error",
				status:   http.StatusInternalServerError,
				body:     `oops`,
				wantKind: KindServerError,
			},
			{
				name:     "400 without kind classifies as validation",
				status:   http.StatusBadRequest,
				body:     ``,
				wantKind: KindValidation,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte(tt.body))
				}))
				defer srv.Close()

				client := NewClient(srv.URL, "", 5*time.Second, testLogger())
				_, err := client.SubmitSale(context.Background(), models.SaleRequest{BranchID: "b-1"})

				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.wantKind, apiErr.Kind)
				assert.Equal(t, tt.status, apiErr.Status)
				assert.Equal(t, tt.checkStock, IsStockConflict(err))
			})
		}
	})

	t.Run("unreachable backend maps to ErrNetwork", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // refuse connections

		client := NewClient(srv.URL, "", time.Second, testLogger())
		_, err := client.SubmitSale(context.Background(), models.SaleRequest{BranchID: "b-1"})
		assert.ErrorIs(t, err, ErrNetwork)
	})

	t.Run("malformed success body maps to ErrNetwork", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "", time.Second, testLogger())
		_, err := client.SubmitSale(context.Background(), models.SaleRequest{BranchID: "b-1"})
		assert.ErrorIs(t, err, ErrNetwork)
	})
}

func TestFetchTenantAndBranchInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/tenants/t-1":
			_, _ = w.Write([]byte(`{"tenantId":"t-1","name":"Toko Altamira"}`))
		case "/api/branches/b-1":
			_, _ = w.Write([]byte(`{"branchId":"b-1","name":"Cabang Pasar Baru","address":"Jl. Kemakmuran No. 4"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 5*time.Second, testLogger())

	tenant, err := client.FetchTenantInfo(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, "Toko Altamira", tenant.Name)

	branch, err := client.FetchBranchInfo(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, "Jl. Kemakmuran No. 4", branch.Address)
}
