// Package feed pulls recent docket filings from the CourtListener search API
// and normalizes them into staging cases for classification.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://www.courtlistener.com/api/rest/v4"

// AILitigationKeywords are the search probes for AI-related filings. An
// ingest run queries the first keywordLimit of them; the tail widens future
// coverage without changing run cost today.
var AILitigationKeywords = []string{
	"artificial intelligence",
	"machine learning",
	"algorithm discrimination",
	"ChatGPT",
	"generative AI",
	"facial recognition",
	"automated decision",
	"large language model",
	"AI copyright",
	"deepfake",
}

type Client struct {
	baseURL  string
	token    string
	pageSize int
	client   *http.Client
}

func NewClient(baseURL, token string, pageSize int) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		pageSize: pageSize,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Result is one normalized feed hit.
type Result struct {
	ExternalID   string
	Caption      string
	CourtName    string
	DateFiled    string
	DocketNumber string
	AbsoluteURL  string
}

// Search runs one keyword query against recent docket filings. filedAfter
// bounds the trailing window. Failures degrade to an empty slice with the
// error returned so a run can log and continue with the next keyword.
func (c *Client) Search(ctx context.Context, keyword string, filedAfter time.Time) ([]Result, error) {
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("type", "r")
	q.Set("order_by", "dateFiled desc")
	q.Set("filed_after", filedAfter.Format("2006-01-02"))
	q.Set("page_size", fmt.Sprintf("%d", c.pageSize))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search/?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build courtlistener request: %w", err)
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Token "+c.token)
	}
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("courtlistener search %q failed: %w", keyword, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("courtlistener search %q error %d: %s", keyword, resp.StatusCode, truncate(string(body), 200))
	}

	var parsed struct {
		Results []struct {
			DocketID     json.Number `json:"docket_id"`
			CaseName     string      `json:"caseName"`
			Court        string      `json:"court"`
			DateFiled    string      `json:"dateFiled"`
			DocketNumber string      `json:"docketNumber"`
			AbsoluteURL  string      `json:"absolute_url"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode courtlistener response: %w", err)
	}

	out := make([]Result, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		id := r.DocketID.String()
		if id == "" || id == "0" {
			continue
		}
		out = append(out, Result{
			ExternalID:   id,
			Caption:      strings.TrimSpace(r.CaseName),
			CourtName:    strings.TrimSpace(r.Court),
			DateFiled:    r.DateFiled,
			DocketNumber: strings.TrimSpace(r.DocketNumber),
			AbsoluteURL:  r.AbsoluteURL,
		})
	}
	return out, nil
}

// OpinionText fetches the plain text of an opinion cluster for use as a
// classification snippet. Best effort: any failure returns an empty string
// so callers fall back to the caption alone.
func (c *Client) OpinionText(ctx context.Context, clusterID string) string {
	if strings.TrimSpace(clusterID) == "" {
		return ""
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/clusters/"+url.PathEscape(clusterID)+"/", nil)
	if err != nil {
		return ""
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Token "+c.token)
	}
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return ""
	}
	var parsed struct {
		PlainText string `json:"plain_text"`
		HTMLCited string `json:"html_with_citations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return ""
	}
	if parsed.PlainText != "" {
		return parsed.PlainText
	}
	return truncate(parsed.HTMLCited, 2000)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
