package foodapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/foodcart-engine/internal/cart"
	"github.com/angelmondragon/foodcart-engine/internal/orders"
	"github.com/angelmondragon/foodcart-engine/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodcart-engine/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return fn(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient("http://food.test/api/", WithHTTPClient(&http.Client{Transport: rt}), WithAuthToken("tok"))
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ")
	assert.ErrorIs(t, err, errBaseURLRequired)

	client, err := NewClient("http://food.test", WithTimeout(3*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, client.httpClient.Timeout)
}

func TestFetchAllMapsServerFields(t *testing.T) {
	body := `{"success":true,"data":[
		{"id":"f-1","_id":"m-1","name":"Burger","price":8.99,"availability":true,"quantity":4,"imageUrl":"https://img/1.png","deliveryTime":"20 min","restaurant":"Joe's","category":"mains"},
		{"_id":"m-2","name":"Soup","price":"4.50","isAvailable":false,"image":"https://img/2.png"},
		{"id":"f-3","name":"Pie","price":3,"availability":true,"quantity":0}
	]}`

	var captured *http.Request
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(http.StatusOK, body), nil
	})

	items, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "http://food.test/api/foods", captured.URL.String())
	assert.Equal(t, http.MethodGet, captured.Method)
	assert.Equal(t, "Bearer tok", captured.Header.Get("Authorization"))

	require.Len(t, items, 3)
	assert.Equal(t, "f-1", items[0].ID, "id wins over _id")
	assert.True(t, items[0].ServerAvailable)
	assert.Equal(t, 4, items[0].AvailableQuantity)
	assert.Equal(t, "https://img/1.png", items[0].ImageURL)
	assert.Equal(t, "20 min", items[0].DeliveryTime)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("8.99")))

	assert.Equal(t, "m-2", items[1].ID)
	assert.False(t, items[1].ServerAvailable)
	assert.Equal(t, 0, items[1].AvailableQuantity, "missing quantity maps to zero")
	assert.Equal(t, "https://img/2.png", items[1].ImageURL)

	assert.Equal(t, "f-3", items[2].ID, "zero-stock items are kept")
	assert.False(t, items[2].IsAvailable())
}

func TestFetchAllWithoutEnvelope(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[{"id":"a","name":"A","price":1,"availability":true,"quantity":1}]`), nil
	})
	items, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].ID)
}

func TestFetchAllErrors(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `{"message":"db down"}`), nil
	})
	_, err := client.FetchAll(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Contains(t, err.Error(), "db down")

	client = newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: refused")
	})
	_, err = client.FetchAll(context.Background())
	require.Error(t, err)
	assert.Zero(t, StatusCode(err))
}

func TestValidatePromo(t *testing.T) {
	var payload map[string]any
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "http://food.test/api/promo-codes/validate", req.URL.String())
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		raw, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &payload))
		return jsonResponse(http.StatusOK, `{"data":{"isValid":true,"discount":50,"message":"ok"}}`), nil
	})

	verdict, err := client.Validate(context.Background(), "SAVE50", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, verdict.IsValid)
	assert.True(t, verdict.Discount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "SAVE50", payload["code"])
	assert.Equal(t, float64(100), payload["orderValue"], "order value is sent as a JSON number")
}

func TestValidatePromoStatusHandling(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantErr   bool
		wantValid bool
		message   string
	}{
		{name: "not found is invalid", status: http.StatusNotFound, body: `{"message":"Promo code not found"}`, message: "Promo code not found"},
		{name: "bad request is invalid", status: http.StatusBadRequest, body: `{}`, message: "promo code is not valid"},
		{name: "unprocessable is invalid", status: http.StatusUnprocessableEntity, body: `{"message":"Minimum order not met"}`, message: "Minimum order not met"},
		{name: "server error is unavailable", status: http.StatusBadGateway, body: `oops`, wantErr: true},
		{name: "unauthorized is unavailable", status: http.StatusUnauthorized, body: `{"message":"bad token"}`, wantErr: true},
		{name: "forbidden is unavailable", status: http.StatusForbidden, body: `{}`, wantErr: true},
		{name: "request timeout is unavailable", status: http.StatusRequestTimeout, body: `{}`, wantErr: true},
		{name: "rate limited is unavailable", status: http.StatusTooManyRequests, body: `{"message":"slow down"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
				return jsonResponse(tt.status, tt.body), nil
			})
			verdict, err := client.Validate(context.Background(), "X", decimal.NewFromInt(10))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, verdict.IsValid)
			assert.Equal(t, tt.message, verdict.Message)
		})
	}
}

func TestActiveCodes(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "http://food.test/api/promo-codes/active", req.URL.String())
		return jsonResponse(http.StatusOK, `{"data":[
			{"code":"welcome10","description":"10 off","type":"percentage","value":10,"minimumOrderValue":20,"validUntil":"2026-12-31T23:59:59.000Z","isActive":true},
			{"code":"OLD","type":"fixed_amount","value":5,"isActive":false}
		]}`), nil
	})

	codes, err := client.ActiveCodes(context.Background())
	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, "WELCOME10", codes[0].Code)
	assert.Equal(t, "percentage", codes[0].DiscountType)
	assert.True(t, codes[0].MinOrderValue.Equal(decimal.NewFromInt(20)))
	require.NotNil(t, codes[0].ExpiresAt)
	assert.Equal(t, 2026, codes[0].ExpiresAt.Year())
}

func samplePayload() orders.Payload {
	return orders.Payload{
		ClientReference: uuid.MustParse("6f1c2d1e-8c1a-4e59-9d59-3b8e1f5b7a11"),
		Lines: []orders.PayloadLine{
			{ItemID: "A", Quantity: 2, UnitPriceSnapshot: decimal.RequireFromString("8.99"), SpecialRequest: "no onions"},
		},
		PromoCode:           "SAVE5",
		Totals:              cart.Totals{},
		CutleryCount:        2,
		DeliveryAddress:     orders.DeliveryAddress{Street: "1 Main", City: "Austin", State: "TX", ZipCode: "78701"},
		CustomerInfo:        orders.CustomerInfo{Name: "Sam", Phone: "5125550100"},
		PaymentMethod:       enums.PaymentMethodCash,
		SpecialInstructions: "leave at door",
	}
}

func TestSubmitOrder(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "http://food.test/api/orders", req.URL.String())
		raw, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &body))
		return jsonResponse(http.StatusCreated, `{"success":true,"data":{"_id":"order-42"}}`), nil
	})

	conf, err := client.Submit(context.Background(), samplePayload())
	require.NoError(t, err)
	assert.True(t, conf.Success)
	assert.Equal(t, "order-42", conf.OrderID)

	items, ok := body["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	first := items[0].(map[string]any)
	assert.Equal(t, "A", first["foodId"])
	assert.Equal(t, 8.99, first["price"])
	assert.Equal(t, "no onions", first["specialInstructions"])
	assert.Equal(t, "cash", body["paymentMethod"])
	assert.Equal(t, "SAVE5", body["promoCode"])
	assert.Equal(t, "leave at door", body["specialInstructions"])
	assert.Equal(t, "6f1c2d1e-8c1a-4e59-9d59-3b8e1f5b7a11", body["clientReference"])
}

func TestSubmitOrderFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "rejected", status: http.StatusBadRequest, body: `{"message":"Food item is not available"}`},
		{name: "reported failure", status: http.StatusOK, body: `{"success":false,"data":{"id":"x"}}`},
		{name: "missing id", status: http.StatusOK, body: `{"data":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
				return jsonResponse(tt.status, tt.body), nil
			})
			_, err := client.Submit(context.Background(), samplePayload())
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
		})
	}
}
