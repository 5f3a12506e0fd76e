package airkorea_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dustwatch/dustwatch/internal/airquality/airkorea"
)

func measureBody(pm10, pm25, dataTime string) string {
	return `{
		"response": {
			"header": {"resultCode": "00", "resultMsg": "NORMAL_CODE"},
			"body": {
				"items": [
					{"pm10Value": "` + pm10 + `", "pm25Value": "` + pm25 + `", "dataTime": "` + dataTime + `"}
				]
			}
		}
	}`
}

func TestClient_FetchReading(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/getMsrstnAcctoRltmMesureDnsty", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("serviceKey"))
		assert.Equal(t, "json", q.Get("returnType"))
		assert.Equal(t, "노은동", q.Get("stationName"))
		assert.Equal(t, "DAILY", q.Get("dataTerm"))
		assert.Equal(t, "1.3", q.Get("ver"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(measureBody("42", "21", "2025-06-01 09:00")))
	}))
	defer server.Close()

	client := airkorea.NewClient(airkorea.ClientConfig{
		ServiceKey: "test-key",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})

	reading, err := client.FetchReading(context.Background(), "노은동")
	require.NoError(t, err)

	require.NotNil(t, reading.PM10)
	assert.Equal(t, 42.0, *reading.PM10)
	require.NotNil(t, reading.PM25)
	assert.Equal(t, 21.0, *reading.PM25)
	assert.Equal(t, "2025-06-01 09:00", reading.DataTime)
}

func TestClient_FetchReading_MissingValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(measureBody("-", "", "2025-06-01 09:00")))
	}))
	defer server.Close()

	client := airkorea.NewClient(airkorea.ClientConfig{
		ServiceKey: "test-key",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})

	reading, err := client.FetchReading(context.Background(), "문평동")
	require.NoError(t, err)

	assert.Nil(t, reading.PM10)
	assert.Nil(t, reading.PM25)
}

func TestClient_FetchReading_NoItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"response": {
				"header": {"resultCode": "03", "resultMsg": "NODATA_ERROR"},
				"body": {"items": []}
			}
		}`))
	}))
	defer server.Close()

	client := airkorea.NewClient(airkorea.ClientConfig{
		ServiceKey: "test-key",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})

	_, err := client.FetchReading(context.Background(), "유천동")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NODATA_ERROR")
}

func TestClient_FetchReading_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := airkorea.NewClient(airkorea.ClientConfig{
		ServiceKey: "test-key",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})

	_, err := client.FetchReading(context.Background(), "노은동")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}
