package woo

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"inventory-sync/internal/adapters/woo/dto"
	"inventory-sync/internal/config"
	"inventory-sync/internal/domain/model"
	"inventory-sync/internal/infra/retry"
	"inventory-sync/internal/logging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(config.StorefrontConfig{Client: "acme", BaseUrl: srv.URL, Key: "ck", Secret: "cs"},
		config.SyncConfig{RequestTimeout: 2 * time.Second, RetryAttempts: 3}, srv.Client(), logging.Discard())
	c.retry.Sleep = func(context.Context, time.Duration) error { return nil }
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestFetchAllProducts_PaginatesAndNormalizes(t *testing.T) {
	var requests atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "ck", user)
		assert.Equal(t, "cs", pass)
		assert.Equal(t, "/wp-json/wc/v3/products", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("per_page"))

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		w.Header().Set(totalPagesHeader, "2")
		stock := page * 10
		writeJSON(t, w, []dto.Product{{
			ID:            int64(page),
			Sku:           " SKU-" + strconv.Itoa(page) + " ",
			Name:          "Product",
			Status:        "publish",
			RegularPrice:  "12.50",
			StockQuantity: &stock,
			Categories:    []dto.ProductCategory{{ID: 9, Name: "Tools"}},
			Images:        []dto.ProductImage{{Src: "https://cdn.example/img/drill.jpg", Name: "drill"}},
		}, {
			ID:  int64(100 + page),
			Sku: "BARE-" + strconv.Itoa(page),
		}})
	}))

	products, err := c.FetchAllProducts(context.Background(), FetchOptions{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, products, 4)
	assert.EqualValues(t, 2, requests.Load())

	first := products[0]
	assert.Equal(t, "SKU-1", first.Sku)
	assert.Equal(t, int64(1), first.RemoteID)
	assert.Equal(t, 10, first.Stock)
	assert.True(t, first.Price.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, []string{"Tools"}, first.CategoryPath)
	assert.Equal(t, int64(9), first.RemoteCategoryID)
	assert.Equal(t, "drill.jpg", first.ImageName)
	assert.Equal(t, model.StatusPublished, first.Status)

	bare := products[1]
	assert.Equal(t, 0, bare.Stock)
	assert.True(t, bare.Price.IsZero())
	assert.Nil(t, bare.CategoryPath)
	assert.Empty(t, bare.ImageName)
	assert.Equal(t, model.StatusHidden, bare.Status)
}

func TestFetchAllProducts_MaxPagesCaps(t *testing.T) {
	var requests atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set(totalPagesHeader, "10")
		writeJSON(t, w, []dto.Product{{ID: 1, Sku: "A"}})
	}))

	products, err := c.FetchAllProducts(context.Background(), FetchOptions{PageSize: 1, MaxPages: 3})
	require.NoError(t, err)
	assert.Len(t, products, 3)
	assert.EqualValues(t, 3, requests.Load())
}

func TestFetchAllProducts_KeepsNegativeStock(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(totalPagesHeader, "1")
		writeJSON(t, w, []dto.Product{{ID: 4, Sku: "BACK", StockQuantity: IntPtr(-3)}})
	}))

	products, err := c.FetchAllProducts(context.Background(), FetchOptions{})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, -3, products[0].Stock)
}

func TestFetchAllProducts_SleepsBetweenPages(t *testing.T) {
	const delay = 40 * time.Millisecond
	var (
		mu    sync.Mutex
		times []time.Time
	)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		times = append(times, time.Now())
		mu.Unlock()
		w.Header().Set(totalPagesHeader, "3")
		writeJSON(t, w, []dto.Product{{ID: 1, Sku: "A"}})
	}))

	_, err := c.FetchAllProducts(context.Background(), FetchOptions{PageSize: 1, PageDelay: delay})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, times, 3)
	for i := 1; i < len(times); i++ {
		assert.GreaterOrEqual(t, times[i].Sub(times[i-1]), delay, "gap before page %d", i+1)
	}
}

func TestFetchAllProducts_PageDelayHonoursCancel(t *testing.T) {
	var requests atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		cancel()
		w.Header().Set(totalPagesHeader, "5")
		writeJSON(t, w, []dto.Product{{ID: 1, Sku: "A"}})
	}))

	_, err := c.FetchAllProducts(ctx, FetchOptions{PageSize: 1, PageDelay: time.Minute})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 1, requests.Load())
}

func TestFetchAllProducts_StatusErrorIsNotRetried(t *testing.T) {
	var requests atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"code":"woocommerce_rest_cannot_view","message":"Sorry"}`)
	}))

	_, err := c.FetchAllProducts(context.Background(), FetchOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrRemoteUnavailable)
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
	assert.EqualValues(t, 1, requests.Load())
}

func TestFetchAllProducts_RetriesTransientFailures(t *testing.T) {
	var requests atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) < 3 {
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			_ = conn.Close()
			return
		}
		writeJSON(t, w, []dto.Product{{ID: 1, Sku: "A"}})
	}))

	products, err := c.FetchAllProducts(context.Background(), FetchOptions{})
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.EqualValues(t, 3, requests.Load())
}

func TestFetchAllProducts_TransientExhaustionAborts(t *testing.T) {
	var requests atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		hj := w.(http.Hijacker)
		conn, _, _ := hj.Hijack()
		_ = conn.Close()
	}))
	c.WithRetry(retry.Policy{Attempts: 2, Retryable: isTransient, Sleep: func(context.Context, time.Duration) error { return nil }})

	_, err := c.FetchAllProducts(context.Background(), FetchOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrTransientNetwork)
	assert.EqualValues(t, 2, requests.Load())
}

func TestFindProductBySKU(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("sku") == "A1" {
			writeJSON(t, w, []dto.Product{{ID: 42, Sku: "A1"}})
			return
		}
		writeJSON(t, w, []dto.Product{})
	}))

	p, err := c.FindProductBySKU(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.RemoteID)

	_, err = c.FindProductBySKU(context.Background(), "ZZ")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCreateAndUpdateProduct(t *testing.T) {
	var gotCreate, gotUpdate map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/wp-json/wc/v3/products":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotCreate))
			writeJSON(t, w, dto.Product{ID: 77})
		case r.Method == http.MethodPut && r.URL.Path == "/wp-json/wc/v3/products/77":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotUpdate))
			writeJSON(t, w, dto.Product{ID: 77})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	id, err := c.CreateProduct(context.Background(), ProductPayload{
		Sku:           "A1",
		Name:          StringPtr("Drill"),
		Type:          ProductTypeSimple,
		RegularPrice:  "10",
		StockQuantity: IntPtr(5),
		ManageStock:   BoolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), id)
	assert.Equal(t, "A1", gotCreate["sku"])
	assert.Equal(t, "simple", gotCreate["type"])
	assert.NotContains(t, gotCreate, "images")

	require.NoError(t, c.UpdateProduct(context.Background(), 77, ProductPayload{StockQuantity: IntPtr(0)}))
	assert.Equal(t, map[string]any{"stock_quantity": float64(0)}, gotUpdate)
}

func TestUpdateProduct_EmptyPayloadSkipsCall(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected")
	}))
	require.NoError(t, c.UpdateProduct(context.Background(), 1, ProductPayload{}))
}

func TestCategories(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "Hand Tools", r.URL.Query().Get("search"))
			writeJSON(t, w, []dto.Category{{ID: 3, Name: "Hand Tools", Parent: 1}})
		case http.MethodPost:
			var body dto.CategoryCreate
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, int64(3), body.Parent)
			writeJSON(t, w, dto.Category{ID: 8, Name: body.Name, Parent: body.Parent})
		}
	}))

	found, err := c.SearchCategories(context.Background(), "Hand Tools")
	require.NoError(t, err)
	assert.Equal(t, []model.RemoteCategory{{ID: 3, Name: "Hand Tools", ParentID: 1}}, found)

	id, err := c.CreateCategory(context.Background(), "Hammers", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(8), id)
}

func TestNotFoundStatusMatchesTaxonomy(t *testing.T) {
	err := newHTTPStatusError(http.StatusNotFound, "404 Not Found", nil)
	assert.True(t, errors.Is(err, model.ErrNotFound))
	assert.True(t, errors.Is(err, model.ErrRemoteUnavailable))
	assert.False(t, errors.Is(err, model.ErrTransientNetwork))
}
