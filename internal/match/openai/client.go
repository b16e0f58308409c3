// Package openai implements a semantic fee matcher on an
// OpenAI-compatible chat/completions endpoint. It is selected when a
// matcher API key is configured; otherwise the deterministic label
// matcher runs.
package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/fintrid/tridcheck/internal/common"
	"github.com/fintrid/tridcheck/internal/disclosure"
	"github.com/fintrid/tridcheck/internal/reconcile"
)

// Client calls an OpenAI-compatible endpoint to pair LE and CD fees.
// It implements reconcile.Matcher.
type Client struct {
	cfg        common.MatcherConfig
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient builds a matcher client from configuration.
func NewClient(cfg common.MatcherConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}

// matchResponse is the shape the model is asked to return.
type matchResponse struct {
	MatchedFees []reconcile.MatchedFee `json:"matched_fees"`
}

// MatchFees sends both fee tables to the model and decodes the
// correspondence it returns. The response is validated against a JSON
// schema before anything reaches the engine.
func (c *Client) MatchFees(ctx context.Context, le, cd *disclosure.FeeRecord) ([]reconcile.MatchedFee, error) {
	rid := uuid.New().String()
	start := time.Now()

	lePayload, err := feeTableJSON(le)
	if err != nil {
		return nil, fmt.Errorf("encode le fee table: %w", err)
	}
	cdPayload, err := feeTableJSON(cd)
	if err != nil {
		return nil, fmt.Errorf("encode cd fee table: %w", err)
	}

	c.log.Info("match.openai.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"le_bytes", len(lePayload),
		"cd_bytes", len(cdPayload),
	)

	schema := buildMatchJSONSchema()
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": buildUserPrompt(lePayload, cdPayload)},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, httpErr := c.post(ctx, endpoint, body)
	if httpErr != nil {
		c.log.Error("match.openai.http_error",
			"req_id", rid, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, httpErr
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := sonic.Unmarshal(raw, &cc); err != nil {
		c.log.Error("match.openai.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("decode matcher response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("match.openai.no_choices",
			"req_id", rid, "raw", string(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("no choices in matcher response")
	}
	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))

	if err := disclosure.ValidateAgainstSchema(schema, content); err != nil {
		c.log.Error("match.openai.schema_validation_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var out matchResponse
	if err := sonic.Unmarshal(content, &out); err != nil {
		c.log.Error("match.openai.unmarshal_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("unmarshal matched fees: %w", err)
	}

	c.log.Info("match.openai.ok",
		"req_id", rid,
		"matched", len(out.MatchedFees),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out.MatchedFees, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := sonic.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("matcher http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.log.Warn("matcher response body close error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("matcher status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}

const systemPrompt = "You are a mortgage disclosure fee matcher. You are given the " +
	"closing-cost fee tables of a Loan Estimate (LE) and a Closing Disclosure (CD). " +
	"Pair each LE fee with its CD counterpart by meaning, not exact wording; fees " +
	"keep their lettered section (A, B, C, E, F, G, H). The CD amount for a fee is " +
	"the sum of its borrower-paid at-closing and before-closing lines. A fee only " +
	"on the LE keeps cd_amount null; a fee only on the CD gets le_amount null and " +
	"is_new true. Set chosen_from_list true only when the provider appears on the " +
	"lender's service-provider list, otherwise null. Set changed_circumstance true " +
	"only when the documents show a disclosed changed circumstance. Return ONLY JSON " +
	"matching the provided schema."

func buildUserPrompt(lePayload, cdPayload []byte) string {
	var b strings.Builder
	b.WriteString("Loan Estimate fee table:\n")
	b.Write(lePayload)
	b.WriteString("\n\nClosing Disclosure fee table:\n")
	b.Write(cdPayload)
	b.WriteString("\n\nReturn ONLY JSON that matches the provided schema.")
	return b.String()
}

func feeTableJSON(rec *disclosure.FeeRecord) ([]byte, error) {
	table := make(map[string][]disclosure.LineItem)
	for _, section := range disclosure.FeeSections {
		if items := rec.SectionItems(section); len(items) > 0 {
			table[section] = items
		}
	}
	return sonic.Marshal(table)
}

func buildMatchJSONSchema() map[string]any {
	currency := map[string]any{"type": []any{"number", "null"}}
	fee := map[string]any{
		"type":     "object",
		"required": []any{"fee_name", "section", "match_confidence"},
		"properties": map[string]any{
			"fee_name":             map[string]any{"type": "string"},
			"section":              map[string]any{"type": "string", "enum": []any{"A", "B", "C", "E", "F", "G", "H"}},
			"le_amount":            currency,
			"cd_amount":            currency,
			"le_label":             map[string]any{"type": "string"},
			"cd_label":             map[string]any{"type": "string"},
			"match_confidence":     map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			"provider_name":        map[string]any{"type": []any{"string", "null"}},
			"is_new":               map[string]any{"type": "boolean"},
			"chosen_from_list":     map[string]any{"type": []any{"boolean", "null"}},
			"changed_circumstance": map[string]any{"type": "boolean"},
		},
	}
	return map[string]any{
		"type":     "object",
		"required": []any{"matched_fees"},
		"properties": map[string]any{
			"matched_fees": map[string]any{"type": "array", "items": fee},
		},
	}
}

func mustJSON(v any) string {
	b, _ := sonic.MarshalIndent(v, "", "  ")
	return string(b)
}
