// Package whoop talks to the Whoop developer API for recovery data.
package whoop

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

const BaseURL = "https://api.prod.whoop.com/developer/v1"

// Whoop caps page size at 25 records
const maxPageSize = 25

// Client is a Whoop developer API client
type Client struct {
	httpClient *http.Client
}

// NewClient creates a Whoop client that authenticates via tokenSource
func NewClient(tokenSource oauth2.TokenSource) *Client {
	return &Client{
		httpClient: oauth2.NewClient(context.Background(), tokenSource),
	}
}

// GetRecoveries fetches one page of recovery records starting at 'start'.
// Pass an empty nextToken for the first page.
func (c *Client) GetRecoveries(ctx context.Context, start time.Time, nextToken string) (*RecoveryPage, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(maxPageSize))
	if !start.IsZero() {
		params.Set("start", start.UTC().Format(time.RFC3339))
	}
	if nextToken != "" {
		params.Set("nextToken", nextToken)
	}

	resp, err := c.get(ctx, "/recovery", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var page RecoveryPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decoding recoveries: %w", err)
	}

	return &page, nil
}

// GetAllRecoveries fetches every recovery record after 'start', following
// pagination tokens until the API runs dry
func (c *Client) GetAllRecoveries(ctx context.Context, start time.Time, onProgress func(fetched int)) ([]Recovery, error) {
	var all []Recovery
	token := ""

	for {
		page, err := c.GetRecoveries(ctx, start, token)
		if err != nil {
			return all, err
		}

		all = append(all, page.Records...)

		if onProgress != nil {
			onProgress(len(all))
		}

		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}

	return all, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	reqURL := BaseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}
