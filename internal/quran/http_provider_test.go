// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/khatmah/internal/quran"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newProviderServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/surah/36", func(writer http.ResponseWriter, _ *http.Request) {
		// englishName carries a decomposed accent (a + U+0301) as a JSON escape.
		_, _ = io.WriteString(writer, `{"code":200,"status":"OK","data":{"number":36,"name":"Ya-Sin","englishName":"Ya\u0301sin","numberOfAyahs":83}}`)
	})
	mux.HandleFunc("/ayah/2:255", func(writer http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(writer, `{"code":200,"status":"OK","data":{"number":262,"numberInSurah":255,"page":42,"surah":{"number":2}}}`)
	})
	mux.HandleFunc("/ayah/1:99", func(writer http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(writer, `{"code":404,"status":"NOT FOUND","data":"Please specify a valid surah reference"}`)
	})
	mux.HandleFunc("/page/1/quran-uthmani", func(writer http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(writer, `{"code":200,"status":"OK","data":{"number":1,"ayahs":[
			{"number":1,"text":"a","numberInSurah":1,"page":1,"surah":{"number":1}},
			{"number":2,"text":"b","numberInSurah":2,"page":1,"surah":{"number":1}}]}}`)
	})
	mux.HandleFunc("/ayah/3:1", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusBadGateway)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestHTTPProvider_Unit(t *testing.T) {
	server := newProviderServer(t)
	provider := quran.NewHTTPProvider(server.URL+"/", "quran-uthmani", 100, discardLogger())

	info, err := provider.Unit(context.Background(), 36)
	require.NoError(t, err)

	assert.Equal(t, 36, info.Number)
	assert.Equal(t, 83, info.ItemCount)
	assert.Equal(t, "Y\u00e1sin", info.EnglishName)
}

func TestHTTPProvider_Locate(t *testing.T) {
	server := newProviderServer(t)
	provider := quran.NewHTTPProvider(server.URL, "quran-uthmani", 100, discardLogger())

	page, err := provider.Locate(context.Background(), 2, 255)
	require.NoError(t, err)
	assert.Equal(t, 42, page)

	_, err = provider.Locate(context.Background(), 1, 99)
	assert.ErrorIs(t, err, quran.ErrProviderUnavailable)

	_, err = provider.Locate(context.Background(), 3, 1)
	assert.ErrorIs(t, err, quran.ErrProviderUnavailable)
}

func TestHTTPProvider_Page(t *testing.T) {
	server := newProviderServer(t)
	provider := quran.NewHTTPProvider(server.URL, "quran-uthmani", 100, discardLogger())

	page, err := provider.Page(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, page.Number)
	require.Len(t, page.Items, 2)
	assert.Equal(t, quran.Item{Unit: 1, Position: 2, Text: "b"}, page.Items[1])
}

func TestHTTPProvider_Unreachable(t *testing.T) {
	server := newProviderServer(t)
	server.Close()

	provider := quran.NewHTTPProvider(server.URL, "quran-uthmani", 100, discardLogger())
	_, err := provider.Locate(context.Background(), 2, 255)
	assert.ErrorIs(t, err, quran.ErrProviderUnavailable)
}
