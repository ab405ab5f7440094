// FILE: pkg/sheets/googleapi/client.go
// PURPOSE: Google Sheets values API client implementing sheets.RowAPI.
// NOTE: Only the values surface is used (read range, append, update cell).
//       Credential refresh is an external concern; the client carries a
//       static bearer token.

package googleapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"
)

// Client talks to one worksheet (tab) of one spreadsheet.
type Client struct {
	baseURL       string
	token         string
	spreadsheetID string
	sheet         string
	httpClient    *http.Client
}

func NewClient(baseURL, token, spreadsheetID, sheet string) *Client {
	return &Client{
		baseURL:       baseURL,
		token:         token,
		spreadsheetID: spreadsheetID,
		sheet:         sheet,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type valueRange struct {
	Range  string     `json:"range,omitempty"`
	Values [][]string `json:"values"`
}

type appendResponse struct {
	Updates struct {
		UpdatedRange string `json:"updatedRange"`
	} `json:"updates"`
}

func (c *Client) HeaderRow(ctx context.Context) ([]string, error) {
	vr, err := c.getRange(ctx, fmt.Sprintf("%s!1:1", c.sheet))
	if err != nil {
		return nil, err
	}
	if len(vr.Values) == 0 {
		return nil, nil
	}
	return vr.Values[0], nil
}

func (c *Client) AllRows(ctx context.Context) ([][]string, error) {
	vr, err := c.getRange(ctx, c.sheet)
	if err != nil {
		return nil, err
	}
	return vr.Values, nil
}

func (c *Client) AppendRow(ctx context.Context, values []string) (int, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=RAW&insertDataOption=INSERT_ROWS",
		c.baseURL, c.spreadsheetID, url.PathEscape(c.sheet))

	body, err := json.Marshal(valueRange{Values: [][]string{values}})
	if err != nil {
		return 0, err
	}

	respBody, err := c.do(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return 0, err
	}

	var resp appendResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return 0, fmt.Errorf("googleapi: decode append response: %w", err)
	}

	row, err := rowFromRange(resp.Updates.UpdatedRange)
	if err != nil {
		return 0, err
	}
	return row, nil
}

func (c *Client) GetCell(ctx context.Context, row, col int) (string, error) {
	a1 := fmt.Sprintf("%s!%s%d", c.sheet, columnLetter(col), row)
	vr, err := c.getRange(ctx, a1)
	if err != nil {
		return "", err
	}
	if len(vr.Values) == 0 || len(vr.Values[0]) == 0 {
		return "", nil
	}
	return vr.Values[0][0], nil
}

func (c *Client) SetCell(ctx context.Context, row, col int, value string) error {
	a1 := fmt.Sprintf("%s!%s%d", c.sheet, columnLetter(col), row)
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?valueInputOption=RAW",
		c.baseURL, c.spreadsheetID, url.PathEscape(a1))

	body, err := json.Marshal(valueRange{Values: [][]string{{value}}})
	if err != nil {
		return err
	}

	_, err = c.do(ctx, http.MethodPut, endpoint, body)
	return err
}

func (c *Client) getRange(ctx context.Context, a1 string) (*valueRange, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s",
		c.baseURL, c.spreadsheetID, url.PathEscape(a1))

	respBody, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var vr valueRange
	if err := json.Unmarshal(respBody, &vr); err != nil {
		return nil, fmt.Errorf("googleapi: decode value range: %w", err)
	}
	return &vr, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("googleapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("googleapi: status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}
	return respBody, nil
}

var rowSuffix = regexp.MustCompile(`[A-Z]+(\d+)(?::[A-Z]+\d+)?$`)

// rowFromRange extracts the row index from an updatedRange like
// "Summary!A5:E5" so the caller addresses the just-created row without a
// second read (create+find race).
func rowFromRange(updatedRange string) (int, error) {
	m := rowSuffix.FindStringSubmatch(updatedRange)
	if m == nil {
		return 0, fmt.Errorf("googleapi: cannot parse updated range %q", updatedRange)
	}
	return strconv.Atoi(m[1])
}

// columnLetter converts a 1-based column index to A1 letters (1 -> A, 27 -> AA).
func columnLetter(col int) string {
	var out []byte
	for col > 0 {
		col--
		out = append([]byte{byte('A' + col%26)}, out...)
		col /= 26
	}
	return string(out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
