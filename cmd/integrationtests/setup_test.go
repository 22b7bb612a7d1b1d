package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"souq-auctions/internal/ads"
	auction "souq-auctions/internal/auctionService"
	model "souq-auctions/internal/models"
	"souq-auctions/internal/repository"
	"souq-auctions/internal/server"
	"souq-auctions/services/auction/helpers"
)

// testClock is a settable clock shared by a test and the engine under it.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// testEnv bundles the full stack backed by in-memory stores.
type testEnv struct {
	router *gin.Engine
	store  *repository.MemoryStore
	dir    *ads.MemoryDirectory
	clock  *testClock
}

// SetupTestEnv initializes the router with in-memory stores and a settable
// clock, optionally seeding published ads.
func SetupTestEnv(seedAds ...model.Ad) *testEnv {
	gin.SetMode(gin.TestMode)

	clock := &testClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	store := repository.NewMemoryStore()
	dir := ads.NewMemoryDirectory()
	for _, ad := range seedAds {
		dir.AddAd(ad)
	}

	service := auction.NewAuctionService(store, dir, clock)
	return &testEnv{
		router: server.SetupRouter(service, []string{"*"}),
		store:  store,
		dir:    dir,
		clock:  clock,
	}
}

// ExecuteRequest executes an HTTP request with the given caller identity and
// parses the JSON response envelope.
func (e *testEnv) ExecuteRequest(t *testing.T, method, url, userID, role string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(helpers.HeaderUserID, userID)
	}
	if role != "" {
		req.Header.Set(helpers.HeaderUserRole, role)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// Data extracts the envelope's data object, failing the test if absent.
func Data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("response has no data object: %v", resp)
	}
	return data
}

func publishedAd(adID, ownerID string) model.Ad {
	return model.Ad{AdID: adID, OwnerID: ownerID, Status: model.AdPublished}
}

func price(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
