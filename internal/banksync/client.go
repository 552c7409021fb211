package banksync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one provider transaction. Positive amounts are money
// leaving the account; the provider reports spending as positive.
type Transaction struct {
	ID           string
	AccountID    string
	AmountCents  int64
	Date         time.Time
	MerchantName string
	Name         string
	Category     string
	Pending      bool
}

// SyncPage is one page of the provider's incremental sync feed.
type SyncPage struct {
	Added      []Transaction
	Removed    []string
	NextCursor string
	HasMore    bool
}

// ItemAccess is the credential pair returned when a public token is
// exchanged after linking.
type ItemAccess struct {
	AccessToken string
	ItemID      string
}

// Client talks to the bank aggregation provider.
type Client interface {
	CreateLinkToken(ctx context.Context, userID string) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (ItemAccess, error)
	SyncTransactions(ctx context.Context, accessToken, cursor string) (SyncPage, error)
	RemoveItem(ctx context.Context, accessToken string) error
}

// HTTPClient implements Client against the provider's REST API. It is
// constructed once at startup and injected; nothing caches it globally.
type HTTPClient struct {
	baseURL  string
	clientID string
	secret   string
	client   *http.Client
}

func NewHTTPClient(baseURL, clientID, secret string) *HTTPClient {
	return &HTTPClient{
		baseURL:  baseURL,
		clientID: clientID,
		secret:   secret,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	var resp struct {
		LinkToken string `json:"link_token"`
	}

	err := c.post(ctx, "/link/token/create", map[string]any{
		"client_name":   "billfold",
		"language":      "en",
		"country_codes": []string{"US"},
		"products":      []string{"transactions"},
		"user":          map[string]string{"client_user_id": userID},
	}, &resp)
	if err != nil {
		return "", err
	}

	if resp.LinkToken == "" {
		return "", fmt.Errorf("provider returned no link token")
	}

	return resp.LinkToken, nil
}

func (c *HTTPClient) ExchangePublicToken(ctx context.Context, publicToken string) (ItemAccess, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
		ItemID      string `json:"item_id"`
	}

	err := c.post(ctx, "/item/public_token/exchange", map[string]any{
		"public_token": publicToken,
	}, &resp)
	if err != nil {
		return ItemAccess{}, err
	}

	return ItemAccess{AccessToken: resp.AccessToken, ItemID: resp.ItemID}, nil
}

type syncResponse struct {
	Added []struct {
		TransactionID string  `json:"transaction_id"`
		AccountID     string  `json:"account_id"`
		Amount        float64 `json:"amount"`
		Date          string  `json:"date"`
		MerchantName  string  `json:"merchant_name"`
		Name          string  `json:"name"`
		Pending       bool    `json:"pending"`
		Category      struct {
			Primary string `json:"primary"`
		} `json:"personal_finance_category"`
	} `json:"added"`
	Removed []struct {
		TransactionID string `json:"transaction_id"`
	} `json:"removed"`
	NextCursor string `json:"next_cursor"`
	HasMore    bool   `json:"has_more"`
}

func (c *HTTPClient) SyncTransactions(ctx context.Context, accessToken, cursor string) (SyncPage, error) {
	body := map[string]any{"access_token": accessToken}
	if cursor != "" {
		body["cursor"] = cursor
	}

	var resp syncResponse
	if err := c.post(ctx, "/transactions/sync", body, &resp); err != nil {
		return SyncPage{}, err
	}

	page := SyncPage{
		NextCursor: resp.NextCursor,
		HasMore:    resp.HasMore,
	}

	for _, t := range resp.Added {
		date, err := time.Parse(time.DateOnly, t.Date)
		if err != nil {
			// One malformed row must not abort the rest of the feed.
			continue
		}

		page.Added = append(page.Added, Transaction{
			ID:           t.TransactionID,
			AccountID:    t.AccountID,
			AmountCents:  decimal.NewFromFloat(t.Amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
			Date:         date,
			MerchantName: t.MerchantName,
			Name:         t.Name,
			Category:     t.Category.Primary,
			Pending:      t.Pending,
		})
	}

	for _, r := range resp.Removed {
		page.Removed = append(page.Removed, r.TransactionID)
	}

	return page, nil
}

func (c *HTTPClient) RemoveItem(ctx context.Context, accessToken string) error {
	return c.post(ctx, "/item/remove", map[string]any{"access_token": accessToken}, &struct{}{})
}

func (c *HTTPClient) post(ctx context.Context, path string, body map[string]any, out any) error {
	body["client_id"] = c.clientID
	body["secret"] = c.secret

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			ErrorMessage string `json:"error_message"`
		}

		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.ErrorMessage != "" {
			return fmt.Errorf("provider request %s failed: %s", path, apiErr.ErrorMessage)
		}

		return fmt.Errorf("provider request %s failed with status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
