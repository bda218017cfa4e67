package description

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/elhabassi/portfolio-api/internal/domain/catalog"
)

const defaultTimeout = 10 * time.Second

// Fallbacks shown when the model returns nothing or the call fails. Callers
// may rely on always receiving a non-empty string.
var (
	emptyFallback = "Capturing the timeless beauty of Morocco."

	errorFallbacks = map[catalog.Language]string{
		catalog.LangEN: "A moment captured in the heart of Morocco.",
		catalog.LangAR: "لحظة التُقطت في قلب المغرب.",
		catalog.LangFR: "Un instant capturé au cœur du Maroc.",
	}
)

var languageNames = map[catalog.Language]string{
	catalog.LangEN: "English",
	catalog.LangAR: "Arabic",
	catalog.LangFR: "French",
}

// Client calls the Gemini generateContent REST API for artistic photo
// descriptions.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewClient creates a Gemini client
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// ArtisticDescription returns a short curated description for a photo. It
// never returns an error: any failure yields the fixed fallback string in the
// caller's language.
func (c *Client) ArtisticDescription(ctx context.Context, title, location string, lang catalog.Language) string {
	targetLang, ok := languageNames[lang]
	if !ok {
		targetLang = "English"
		lang = catalog.LangEN
	}

	text, err := c.generate(ctx, fmt.Sprintf(
		`As an artistic curator, write a poetic 2-sentence description for a professional photograph titled %q taken in %q, Morocco. Keep it evocative of Moroccan culture and light. IMPORTANT: Write the response ONLY in %s.`,
		title, location, targetLang,
	))
	if err != nil {
		log.Warn().Err(err).Str("title", title).Msg("Description fetch failed, using fallback")
		return errorFallbacks[lang]
	}
	if text == "" {
		return emptyFallback
	}
	return text
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("description config error: api key is empty")
	}

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("description request error: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("description request error: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("description request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("description service returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("description response error: %w", err)
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text), nil
}
