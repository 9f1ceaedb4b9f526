package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bilingual-chat-demo/backend/pkg/logger"
	"bilingual-chat-demo/backend/pkg/resilience"
)

// builtinLanguages is the fixed listing returned whenever the remote service
// cannot be asked for one
var builtinLanguages = map[string]string{
	LangPortuguese: "Portuguese (Brazil)",
	LangEnglish:    "English",
}

// BuiltinLanguages returns a copy of the fixed two-language listing
func BuiltinLanguages() map[string]string {
	out := make(map[string]string, len(builtinLanguages))
	for code, name := range builtinLanguages {
		out[code] = name
	}
	return out
}

// ClientConfig configures the remote translation service client
type ClientConfig struct {
	// Endpoint is the base URL of the LibreTranslate-compatible service
	Endpoint string
	// APIKey is sent in the request body, as the service expects
	APIKey string
	// ConfidenceThreshold is the detect confidence (0-100) below which the
	// remote answer is discarded in favour of the heuristic classifier
	ConfidenceThreshold float64
	// Timeout bounds each HTTP round trip when no HTTPClient is injected
	Timeout time.Duration
	// HTTPClient is injected so tests can point the client at a fake server
	HTTPClient *http.Client
	// Breaker short-circuits calls while the remote service is failing;
	// optional, a tripped breaker takes the same fallback path as a
	// transport error
	Breaker *resilience.CircuitBreaker
	// Debug enables request/response logging
	Debug bool
}

// Client wraps the remote translate/detect/languages HTTP API. Every method
// degrades locally instead of surfacing transport errors: Detect falls back
// to the heuristic classifier, Translate to echoing the input, Languages to
// the built-in listing.
type Client struct {
	httpClient          *http.Client
	endpoint            string
	apiKey              string
	confidenceThreshold float64
	breaker             *resilience.CircuitBreaker
	debug               bool
	log                 *logger.Logger
}

// NewClient creates a translation service client
func NewClient(cfg ClientConfig, log *logger.Logger) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	threshold := cfg.ConfidenceThreshold
	if threshold == 0 {
		threshold = 50
	}
	if log == nil {
		log = logger.GetGlobal()
	}

	return &Client{
		httpClient:          httpClient,
		endpoint:            cfg.Endpoint,
		apiKey:              cfg.APIKey,
		confidenceThreshold: threshold,
		breaker:             cfg.Breaker,
		debug:               cfg.Debug,
		log:                 log,
	}
}

// TranslateReply is the normalized result of a translate call
type TranslateReply struct {
	TranslatedText     string
	DetectedLanguage   string
	DetectedConfidence float64
	Alternatives       []string
}

// wire shapes of the remote service. The service may report failure through
// a body-level "error" field with a 200 status, so both have to be checked.
type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText   string `json:"translatedText"`
	DetectedLanguage *struct {
		Confidence float64 `json:"confidence"`
		Language   string  `json:"language"`
	} `json:"detectedLanguage"`
	Alternatives []string `json:"alternatives"`
	Error        string   `json:"error"`
}

type detectRequest struct {
	Q      string `json:"q"`
	APIKey string `json:"api_key,omitempty"`
}

type detection struct {
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language"`
}

type languageEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Detect returns the language of text as one of the two supported codes.
// A low-confidence remote answer or any transport failure defers to the
// heuristic classifier, so this method cannot fail.
func (c *Client) Detect(ctx context.Context, text string) string {
	var results []detection
	err := c.do(ctx, http.MethodPost, "/detect", detectRequest{Q: text, APIKey: c.apiKey}, &results)
	if err != nil {
		c.log.Warn("language detection failed, using heuristic classifier", "error", err.Error())
		return ClassifyLanguage(text)
	}
	if len(results) == 0 {
		return ClassifyLanguage(text)
	}

	best := results[0]
	if best.Confidence < c.confidenceThreshold {
		if c.debug {
			c.log.Debug("detect confidence below threshold, using heuristic classifier",
				"confidence", best.Confidence,
				"threshold", c.confidenceThreshold,
			)
		}
		return ClassifyLanguage(text)
	}

	return NormalizeLanguage(best.Language)
}

// Translate translates text into target, starting from source (which may be
// "auto"). When the service reports an error it retries once per remaining
// supported source language. With everything exhausted the reply echoes the
// original text unchanged and the last error is returned so the caller can
// tell a real translation from the echo; the reply itself is always usable.
func (c *Client) Translate(ctx context.Context, text, target, source string) (TranslateReply, error) {
	attempts := []string{source}
	if source != LangPortuguese {
		attempts = append(attempts, LangPortuguese)
	}
	if source != LangEnglish {
		attempts = append(attempts, LangEnglish)
	}

	var lastErr error
	for _, src := range attempts {
		reply, err := c.translateOnce(ctx, text, target, src)
		if err == nil {
			return reply, nil
		}
		lastErr = err
		if c.debug {
			c.log.Debug("translate attempt failed", "source", src, "error", err.Error())
		}
	}

	c.log.Warn("all translate attempts failed, echoing original text", "error", lastErr.Error())
	return TranslateReply{TranslatedText: text}, lastErr
}

func (c *Client) translateOnce(ctx context.Context, text, target, source string) (TranslateReply, error) {
	req := translateRequest{
		Q:      text,
		Source: source,
		Target: NormalizeLanguage(target),
		Format: "text",
		APIKey: c.apiKey,
	}

	var resp translateResponse
	if err := c.do(ctx, http.MethodPost, "/translate", req, &resp); err != nil {
		return TranslateReply{}, err
	}
	if resp.Error != "" {
		return TranslateReply{}, errors.New(resp.Error)
	}

	reply := TranslateReply{
		TranslatedText: resp.TranslatedText,
		Alternatives:   resp.Alternatives,
	}
	if resp.DetectedLanguage != nil {
		reply.DetectedLanguage = NormalizeLanguage(resp.DetectedLanguage.Language)
		reply.DetectedConfidence = resp.DetectedLanguage.Confidence
	}
	return reply, nil
}

// Languages fetches the service's language listing as code → display name.
// On any failure the fixed built-in listing is returned instead.
func (c *Client) Languages(ctx context.Context) map[string]string {
	var entries []languageEntry
	if err := c.do(ctx, http.MethodGet, "/languages", nil, &entries); err != nil {
		c.log.Warn("language listing failed, using built-in languages", "error", err.Error())
		return BuiltinLanguages()
	}

	languages := make(map[string]string, len(entries))
	for _, entry := range entries {
		languages[entry.Code] = entry.Name
	}
	if len(languages) == 0 {
		return BuiltinLanguages()
	}
	return languages
}

// do runs one JSON round trip against the remote service, routed through the
// circuit breaker when one is configured
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	call := func() error {
		var buf bytes.Buffer
		if body != nil {
			if err := json.NewEncoder(&buf).Encode(body); err != nil {
				return fmt.Errorf("encoding request: %w", err)
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, &buf)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		httpResp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		defer httpResp.Body.Close()

		if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
			return fmt.Errorf("%s %s: unexpected status %s", method, path, httpResp.Status)
		}
		if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		return nil
	}

	if c.breaker != nil {
		return c.breaker.Execute(call)
	}
	return call()
}

// NormalizeLanguage maps any remote-reported code into the closed supported
// set. Portuguese variants collapse to pt-BR; everything unrecognized
// defaults to English.
func NormalizeLanguage(code string) string {
	switch code {
	case "pt", "pt-br", LangPortuguese:
		return LangPortuguese
	case "en-US", "en-GB", LangEnglish:
		return LangEnglish
	case "auto":
		return "auto"
	default:
		return LangEnglish
	}
}
