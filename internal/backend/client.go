package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fjod/pos_terminal/internal/domain"
	"github.com/sony/gobreaker/v2"
)

const maxResponseBody = 1 << 20 // 1MB

// Client talks to the remote sales/clients/refunds REST API. All business
// state lives behind that API; this client only moves JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenProvider
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(baseURL string, tokens TokenProvider, timeout time.Duration) *Client {
	settings := gobreaker.Settings{
		Name:    "backend-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// client-side rejections must not trip the breaker
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError
		},
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		breaker:    gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		var reqBody io.Reader
		if body != nil {
			data, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("marshal request body: %w", err)
			}
			reqBody = bytes.NewReader(data)
		}

		u := c.baseURL + path
		if len(query) > 0 {
			u += "?" + query.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("backend request failed: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Message:    serverMessage(data, resp.StatusCode),
			}
		}

		return data, nil
	})
}

// serverMessage pulls the error text out of an {error|message} body.
func serverMessage(data []byte, status int) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return fmt.Sprintf("request failed with status %d", status)
}

func (c *Client) ListSales(ctx context.Context, storeID string) ([]domain.Sale, error) {
	query := url.Values{}
	if storeID != "" {
		query.Set("store", storeID)
	}
	data, err := c.do(ctx, http.MethodGet, "/sales", query, nil)
	if err != nil {
		return nil, err
	}

	var sales []domain.Sale
	if err := json.Unmarshal(data, &sales); err != nil {
		return nil, fmt.Errorf("unmarshal sales list: %w", err)
	}
	return sales, nil
}

func (c *Client) SubmitSale(ctx context.Context, draft domain.SaleDraft) (string, error) {
	data, err := c.do(ctx, http.MethodPost, "/sales", nil, draft)
	if err != nil {
		return "", err
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			InvoiceNumber string `json:"invoice_number"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return "", fmt.Errorf("unmarshal submit response: %w", err)
	}
	return envelope.Data.InvoiceNumber, nil
}

func (c *Client) ConfirmSale(ctx context.Context, saleID string) error {
	_, err := c.do(ctx, http.MethodPut, "/sales/"+saleID+"/confirm", nil, nil)
	return err
}

func (c *Client) ListClients(ctx context.Context) ([]domain.Client, error) {
	data, err := c.do(ctx, http.MethodGet, "/clients", nil, nil)
	if err != nil {
		return nil, err
	}

	var clients []domain.Client
	if err := json.Unmarshal(data, &clients); err != nil {
		return nil, fmt.Errorf("unmarshal clients list: %w", err)
	}
	return clients, nil
}

func (c *Client) CreateClient(ctx context.Context, client domain.Client) (*domain.Client, error) {
	data, err := c.do(ctx, http.MethodPost, "/clients", nil, client)
	if err != nil {
		return nil, err
	}

	var created domain.Client
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("unmarshal created client: %w", err)
	}
	return &created, nil
}

func (c *Client) UpdateClient(ctx context.Context, clientID string, client domain.Client) error {
	_, err := c.do(ctx, http.MethodPut, "/clients/"+clientID, nil, client)
	return err
}

func (c *Client) ListClientDebts(ctx context.Context, clientID string) ([]domain.Debt, error) {
	data, err := c.do(ctx, http.MethodGet, "/clients/"+clientID+"/debts", nil, nil)
	if err != nil {
		return nil, err
	}

	var debts []domain.Debt
	if err := json.Unmarshal(data, &debts); err != nil {
		return nil, fmt.Errorf("unmarshal debts list: %w", err)
	}
	return debts, nil
}

func (c *Client) ListDebts(ctx context.Context) ([]domain.Debt, error) {
	data, err := c.do(ctx, http.MethodGet, "/debts", nil, nil)
	if err != nil {
		return nil, err
	}

	var debts []domain.Debt
	if err := json.Unmarshal(data, &debts); err != nil {
		return nil, fmt.Errorf("unmarshal debts list: %w", err)
	}
	return debts, nil
}

func (c *Client) CreateRefundReturn(ctx context.Context, req domain.RefundReturnRequest) (*domain.RefundReturn, error) {
	data, err := c.do(ctx, http.MethodPost, "/refund-returns", nil, req)
	if err != nil {
		return nil, err
	}

	var created domain.RefundReturn
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("unmarshal refund-return: %w", err)
	}
	return &created, nil
}

// TransitionRefundReturn issues one lifecycle transition. The state machine
// itself is backend-owned; illegal transitions come back as API errors.
func (c *Client) TransitionRefundReturn(ctx context.Context, id, action string) error {
	switch action {
	case "approve", "reject", "process", "cancel":
	default:
		return ErrUnknownTransition
	}
	_, err := c.do(ctx, http.MethodPut, "/refund-returns/"+id+"/"+action, nil, nil)
	return err
}
