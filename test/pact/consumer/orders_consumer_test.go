//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/orderdesk/inventory-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type orderPayload struct {
	ID          int64   `json:"id"`
	Number      string  `json:"number"`
	CustomerID  int64   `json:"customerId"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"totalAmount"`
}

type apiError struct {
	status  int
	message string
}

func (e apiError) Error() string {
	msg := e.message
	if msg == "" {
		msg = "api error"
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int { return e.status }

func TestStorefrontOrdersContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	orderMatcher := matchers.Map{
		"id":          matchers.Like(pacttest.ExistingOrderID),
		"number":      matchers.Like("b3f1c8aa-1111-2222-3333-444455556666"),
		"customerId":  matchers.Like(7),
		"status":      matchers.Term("pending", "pending|approved|shipped|delivered|cancelled"),
		"totalAmount": matchers.Like(19.98),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateCatalogSeeded).
		UponReceiving("a checkout request").
		WithRequest("POST", "/api/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Cookie", matchers.S(pacttest.SessionCookie))
			b.JSONBody(matchers.Map{
				"lines": matchers.ArrayMinLike(map[string]any{
					"productId": pacttest.ExistingProductID,
					"quantity":  2,
				}, 1),
			})
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"success": matchers.Like(true),
				"data":    orderMatcher,
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderExists).
		UponReceiving("a request for an existing order").
		WithRequest("GET", fmt.Sprintf("/api/orders/%d", pacttest.ExistingOrderID), func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Cookie", matchers.S(pacttest.SessionCookie))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"success": matchers.Like(true),
				"data":    orderMatcher,
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("a request for a missing order").
		WithRequest("GET", fmt.Sprintf("/api/orders/%d", pacttest.MissingOrderID), func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Cookie", matchers.S(pacttest.SessionCookie))
		}).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"success": matchers.Like(false),
				"message": matchers.S("order not found"),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newOrderClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := client.Checkout(ctx, map[string]any{
			"lines": []map[string]any{{"productId": pacttest.ExistingProductID, "quantity": 2}},
		})
		if err != nil {
			return fmt.Errorf("checkout: %w", err)
		}
		if created == nil || created.ID == 0 {
			return fmt.Errorf("expected created order id to be set")
		}

		fetched, err := client.GetOrder(ctx, pacttest.ExistingOrderID)
		if err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		if fetched == nil || fetched.ID != pacttest.ExistingOrderID {
			return fmt.Errorf("expected order id %d, got %+v", pacttest.ExistingOrderID, fetched)
		}

		if _, err := client.GetOrder(ctx, pacttest.MissingOrderID); err == nil {
			return fmt.Errorf("expected 404 for order %d", pacttest.MissingOrderID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		return nil
	})
	require.NoError(t, err)
}

type orderClient struct {
	baseURL    string
	httpClient *http.Client
}

func newOrderClient(config pactconsumer.MockServerConfig) *orderClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &orderClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *orderClient) Checkout(ctx context.Context, payload map[string]any) (*orderPayload, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", pacttest.SessionCookie)
	return c.do(req)
}

func (c *orderClient) GetOrder(ctx context.Context, id int64) (*orderPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/orders/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cookie", pacttest.SessionCookie)
	return c.do(req)
}

func (c *orderClient) do(req *http.Request) (*orderPayload, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, err
	}
	if res.StatusCode >= http.StatusBadRequest || !env.Success {
		return nil, apiError{status: res.StatusCode, message: env.Message}
	}
	var order orderPayload
	if err := json.Unmarshal(env.Data, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
