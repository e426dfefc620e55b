package internal

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	neturl "net/url"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rm-hull/fuel-landed-cost/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HTTPStatusError is returned when the remote server responds with a non-2xx status.
type HTTPStatusError struct {
	URL        string
	Status     string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("http status response from %s: %s", e.URL, e.Status)
}

type BatchCallback[T any] func([]T) (int, error)

type PriceFeedClient interface {
	GetPrices(BatchCallback[models.PriceRecord]) (int, error)
	LastUpdated() *time.Time
}

type priceFeedManager struct {
	baseUrl   string
	token     string
	client    *http.Client
	mu        sync.Mutex
	lastFetch time.Time
}

func NewPriceFeedClient(baseUrl, token string) (PriceFeedClient, error) {
	if baseUrl == "" {
		return nil, errors.New("price feed URL is not configured")
	}
	return &priceFeedManager{
		baseUrl: baseUrl,
		token:   token,
		client:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (mgr *priceFeedManager) LastUpdated() *time.Time {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	if mgr.lastFetch.IsZero() {
		return nil
	}
	t := mgr.lastFetch
	return &t
}

func (mgr *priceFeedManager) GetPrices(callback BatchCallback[models.PriceRecord]) (int, error) {
	decode := func(body io.ReadCloser) ([]models.PriceRecord, int, error) {
		var resp models.PriceFeedResponse
		decoder := json.NewDecoder(body)
		if err := decoder.Decode(&resp); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal response: %w", err)
		}
		if !resp.Success {
			return nil, 0, fmt.Errorf("API error: %s", resp.Message)
		}
		for i := range resp.Data {
			resp.Data[i].DropOutOfBounds()
		}
		return resp.Data, resp.MetaData.TotalBatches, nil
	}

	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	return fetchBatched(mgr, "prices", &mgr.lastFetch, decode, callback)
}

func fetchBatched[T any](
	mgr *priceFeedManager,
	path string,
	lastFetch *time.Time,
	decode func(io.ReadCloser) ([]T, int, error),
	callback BatchCallback[T],
) (int, error) {
	batchNo := 1
	count := 0

	startTime := time.Now()
	since := ""
	if !lastFetch.IsZero() {
		log.Printf("Time since last fetch for %s: %s", path, time.Since(*lastFetch))
		since = lastFetch.UTC().Format(time.RFC3339)
	}

	for {
		url := fmt.Sprintf("%s/%s?batch-number=%d", mgr.baseUrl, path, batchNo)
		if since != "" {
			url += "&since=" + neturl.QueryEscape(since)
		}
		body, err := mgr.get(url)
		if err != nil {
			var stErr *HTTPStatusError
			if errors.As(err, &stErr) && stErr.StatusCode == http.StatusBadRequest {
				log.Printf("No more batches available for %s, stopping at batch %d", path, batchNo-1)
				break
			}
			return 0, err
		}

		data, totalBatches, err := decode(body)
		_ = body.Close()
		if err != nil {
			return 0, err
		}

		numRecords, err := callback(data)
		if err != nil {
			return 0, fmt.Errorf("callback error: %w", err)
		}
		count += numRecords
		batchNo++

		if len(data) == 0 || (totalBatches > 0 && batchNo > totalBatches) {
			break
		}
	}

	*lastFetch = startTime
	return count, nil
}

func (mgr *priceFeedManager) get(url string) (io.ReadCloser, error) {

	log.Printf("GET %s", url)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if mgr.token != "" {
		req.Header.Set("Authorization", "Bearer "+mgr.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := mgr.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", url, err)
	}

	if resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &HTTPStatusError{URL: url, Status: resp.Status, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}
