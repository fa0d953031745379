// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/time/rate"
)

const (
	providerTimeout = 10 * time.Second
	providerBurst   = 5
)

// HTTPProvider implements [ContentProvider] against an alquran.cloud
// compatible REST API.
type HTTPProvider struct {
	baseURL     string
	edition     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewHTTPProvider creates a client limited to rps requests per second.
func NewHTTPProvider(baseURL, edition string, rps float64, logger *slog.Logger) *HTTPProvider {
	return &HTTPProvider{
		baseURL:     strings.TrimRight(baseURL, "/"),
		edition:     edition,
		httpClient:  &http.Client{Timeout: providerTimeout},
		rateLimiter: rate.NewLimiter(rate.Limit(rps), providerBurst),
		logger:      logger,
	}
}

// # Wire Format

// envelope is the response wrapper every endpoint uses.
type envelope[T any] struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   T      `json:"data"`
}

type surahPayload struct {
	Number         int    `json:"number"`
	Name           string `json:"name"`
	EnglishName    string `json:"englishName"`
	NumberOfAyahs  int    `json:"numberOfAyahs"`
	RevelationType string `json:"revelationType"`
}

type ayahPayload struct {
	Number        int          `json:"number"`
	Text          string       `json:"text"`
	NumberInSurah int          `json:"numberInSurah"`
	Page          int          `json:"page"`
	Surah         surahPayload `json:"surah"`
}

type pagePayload struct {
	Number int           `json:"number"`
	Ayahs  []ayahPayload `json:"ayahs"`
}

// # Operations

// Unit implements [ContentProvider].
func (provider *HTTPProvider) Unit(ctx context.Context, unit int) (UnitInfo, error) {
	var payload surahPayload
	if err := provider.get(ctx, fmt.Sprintf("/surah/%d", unit), &payload); err != nil {
		return UnitInfo{}, err
	}

	return UnitInfo{
		Number:      payload.Number,
		Name:        norm.NFC.String(payload.Name),
		EnglishName: norm.NFC.String(payload.EnglishName),
		ItemCount:   payload.NumberOfAyahs,
	}, nil
}

// Locate implements [ContentProvider].
func (provider *HTTPProvider) Locate(ctx context.Context, unit, position int) (int, error) {
	var payload ayahPayload
	if err := provider.get(ctx, fmt.Sprintf("/ayah/%d:%d", unit, position), &payload); err != nil {
		return 0, err
	}

	if !ValidPage(payload.Page) {
		return 0, fmt.Errorf("%w: page %d out of range for %d:%d", ErrProviderUnavailable, payload.Page, unit, position)
	}
	return payload.Page, nil
}

// Page implements [ContentProvider].
func (provider *HTTPProvider) Page(ctx context.Context, page int) (Page, error) {
	var payload pagePayload
	if err := provider.get(ctx, fmt.Sprintf("/page/%d/%s", page, provider.edition), &payload); err != nil {
		return Page{}, err
	}

	items := make([]Item, 0, len(payload.Ayahs))
	for _, ayah := range payload.Ayahs {
		items = append(items, Item{
			Unit:     ayah.Surah.Number,
			Position: ayah.NumberInSurah,
			Text:     norm.NFC.String(ayah.Text),
		})
	}

	return Page{Number: payload.Number, Items: items}, nil
}

// get performs one rate-limited GET and decodes the data field into target.
func (provider *HTTPProvider) get(ctx context.Context, path string, target any) error {
	if err := provider.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limit: %w", ErrProviderUnavailable, err)
	}

	url := provider.baseURL + path
	provider.logger.Debug("content_provider_request", slog.String("url", url))

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: create request: %w", ErrProviderUnavailable, err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := provider.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d", ErrProviderUnavailable, path, response.StatusCode)
	}

	wrapped := envelope[json.RawMessage]{}
	if err := json.NewDecoder(response.Body).Decode(&wrapped); err != nil {
		return fmt.Errorf("%w: decode envelope: %w", ErrProviderUnavailable, err)
	}
	if wrapped.Code != http.StatusOK {
		return fmt.Errorf("%w: %s answered code %d (%s)", ErrProviderUnavailable, path, wrapped.Code, wrapped.Status)
	}

	if err := json.Unmarshal(wrapped.Data, target); err != nil {
		return fmt.Errorf("%w: decode data: %w", ErrProviderUnavailable, err)
	}
	return nil
}
