package upstream_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/bloomhouse/admin-console/internal/config"
	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type tokenKey struct{}

func newClient(t *testing.T, srv *httptest.Server, token string) *upstream.Client {
	t.Helper()
	c, err := upstream.NewClient(&config.UpstreamConfig{
		BaseURL:    srv.URL,
		Token:      token,
		Timeout:    5,
		HealthPath: "/api/health",
	}, zap.NewNop(), upstream.WithTokenFunc(func(ctx context.Context) string {
		s, _ := ctx.Value(tokenKey{}).(string)
		return s
	}))
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := upstream.NewClient(&config.UpstreamConfig{}, zap.NewNop())
	assert.Error(t, err)

	_, err = upstream.NewClient(&config.UpstreamConfig{BaseURL: "not a url"}, zap.NewNop())
	assert.Error(t, err)
}

func TestResource_ListDecodesBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, upstream.PathProducts, r.URL.Path)
		assert.Equal(t, "roses", r.URL.Query().Get("category"))
		_, _ = w.Write([]byte(`[{"id":1,"name":"Red Rose","originalPrice":"100.00"},{"id":"p-2","name":"Tulip","originalPrice":80}]`))
	}))
	defer srv.Close()

	products := upstream.NewResource[domain.Product](newClient(t, srv, ""), upstream.PathProducts)
	items, err := products.List(context.Background(), url.Values{"category": {"roses"}})

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, domain.ID("1"), items[0].ID)
	assert.Equal(t, domain.Amount(100), items[0].OriginalPrice)
	assert.Equal(t, domain.ID("p-2"), items[1].ID)
}

func TestResource_ListDecodesWrappedArray(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "data envelope", body: `{"success":true,"data":[{"id":7,"code":"SPRING"}]}`},
		{name: "items envelope", body: `{"items":[{"id":7,"code":"SPRING"}],"count":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			coupons := upstream.NewResource[domain.Coupon](newClient(t, srv, ""), upstream.PathCoupons)
			items, err := coupons.List(context.Background(), nil)

			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, "SPRING", items[0].Code)
		})
	}
}

func TestResource_ListEmptyBodyReturnsEmptySlice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	impacts := upstream.NewResource[domain.Impact](newClient(t, srv, ""), upstream.PathImpacts)
	items, err := impacts.List(context.Background(), nil)

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestResource_ListNullEnvelopeReturnsEmptySlice(t *testing.T) {
	for _, body := range []string{`{"data":null,"total":0}`, `{"items": null}`} {
		t.Run(body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			products := upstream.NewResource[domain.Product](newClient(t, srv, ""), upstream.PathProducts)
			items, err := products.List(context.Background(), nil)

			require.NoError(t, err)
			assert.NotNil(t, items)
			assert.Empty(t, items)
		})
	}
}

func TestResource_GetRecordWithDataFieldIsNotUnwrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, upstream.PathInstructors+"/42", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":42,"name":"Asha","data":"ignored"}`))
	}))
	defer srv.Close()

	instructors := upstream.NewResource[domain.Instructor](newClient(t, srv, ""), upstream.PathInstructors)
	got, err := instructors.Get(context.Background(), "42")

	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Name)
}

func TestResource_CreateSendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Wedding", body["eventType"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":3,"eventType":"Wedding","basePrice":"5000"}}`))
	}))
	defer srv.Close()

	events := upstream.NewResource[domain.Event](newClient(t, srv, ""), upstream.PathEventPricing)
	created, err := events.Create(context.Background(), map[string]string{"eventType": "Wedding"})

	require.NoError(t, err)
	assert.Equal(t, domain.ID("3"), created.ID)
	assert.Equal(t, domain.Amount(5000), created.BasePrice)
}

func TestResource_ActionAndDelete(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(`{"id":"o1","status":"shipped"}`))
	}))
	defer srv.Close()

	orders := upstream.NewResource[domain.Order](newClient(t, srv, ""), upstream.PathOrders)

	updated, err := orders.Action(context.Background(), "o1", "status", map[string]string{"status": "shipped"})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, updated.Status)

	require.NoError(t, orders.Delete(context.Background(), "o1"))

	assert.Equal(t, []string{
		"PATCH " + upstream.PathOrders + "/o1/status",
		"DELETE " + upstream.PathOrders + "/o1",
	}, calls)
}

func TestClient_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Class not found"}`))
	}))
	defer srv.Close()

	classes := upstream.NewResource[domain.Class](newClient(t, srv, ""), upstream.PathClasses)
	_, err := classes.Get(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, upstream.IsNotFound(err))
	assert.True(t, upstream.IsClientError(err))
	assert.Equal(t, http.StatusNotFound, upstream.StatusOf(err))
	assert.Contains(t, err.Error(), "Class not found")
}

func TestClient_PlainTextErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := newClient(t, srv, "").Do(context.Background(), http.MethodGet, "/x", nil, nil, nil)

	var ue *upstream.Error
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusBadGateway, ue.Status)
	assert.Equal(t, "database unavailable", ue.Message)
	assert.False(t, upstream.IsClientError(err))
}

func TestClient_ForwardsBearerToken(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newClient(t, srv, "service-token")

	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/a", nil, nil, nil))
	ctx := context.WithValue(context.Background(), tokenKey{}, "staff-token")
	require.NoError(t, c.Do(ctx, http.MethodGet, "/a", nil, nil, nil))

	assert.Equal(t, []string{"Bearer service-token", "Bearer staff-token"}, got)
}

func TestClient_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	assert.NoError(t, newClient(t, srv, "").Ping(context.Background()))
}
