package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"server/internal/adapter/memory"
	"server/internal/http/handlers"
	"server/internal/http/httpapi"
	"server/internal/metrics"
	"server/internal/middleware"
	"server/internal/registry"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.New()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := registry.NewService(registry.Deps{
		Weddings: store.Weddings(),
		Gifts:    store.Gifts(),
		Ledger:   store.Ledger(),
		Logger:   zerolog.Nop(),
		Metrics:  m,
	})
	router := httpapi.NewRouter(httpapi.Deps{
		App:       handlers.NewApp(svc, zerolog.Nop()),
		Metrics:   m,
		Gatherer:  reg,
		JWTSecret: testSecret,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func ownerToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := middleware.SignJWT(testSecret, middleware.TokenClaims{
		Sub: userID,
		Exp: time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func doJSON(t *testing.T, method, url, token, body string, out any) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, url, err)
		}
	}
	return resp
}

type pageDTO struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type giftDTO struct {
	ID string `json:"id"`
}

func createGift(t *testing.T, srv *httptest.Server, token string, targetMinor int64) (weddingID, giftID string) {
	t.Helper()
	var page pageDTO
	resp := doJSON(t, http.MethodPost, srv.URL+"/v1/weddings", token,
		`{"title":"Sam & Alex"}`, &page)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create wedding: status %d", resp.StatusCode)
	}

	var gift giftDTO
	body := fmt.Sprintf(`{"name":"Honeymoon Fund","target_minor":%d,"currency":"USD"}`, targetMinor)
	resp = doJSON(t, http.MethodPost, srv.URL+"/v1/weddings/"+page.ID+"/gifts", token, body, &gift)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create gift: status %d", resp.StatusCode)
	}
	return page.ID, gift.ID
}

func TestOwnerRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/v1/weddings", "", `{"title":"x"}`, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestContributionFlow(t *testing.T) {
	srv := newTestServer(t)
	token := ownerToken(t, "owner-1")
	weddingID, giftID := createGift(t, srv, token, 150000)

	var snap struct {
		Collected struct {
			AmountMinor int64 `json:"amount_minor"`
		} `json:"collected"`
		Percent       float64 `json:"percent"`
		Contributions int     `json:"contributions"`
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/v1/gifts/"+giftID+"/contributions", "",
		`{"contributor_name":"Aunt May","amount_minor":75000,"currency":"USD","message":"congrats!"}`, &snap)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("contribute: status %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodPost, srv.URL+"/v1/gifts/"+giftID+"/contributions", "",
		`{"contributor_name":"Uncle Ben","amount_minor":40000,"currency":"USD"}`, &snap)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("contribute: status %d", resp.StatusCode)
	}

	if snap.Collected.AmountMinor != 115000 {
		t.Fatalf("collected = %d, want 115000", snap.Collected.AmountMinor)
	}
	if snap.Percent != 76.67 {
		t.Fatalf("percent = %.2f, want 76.67", snap.Percent)
	}

	var page struct {
		Gifts []struct {
			Contributions int `json:"contributions"`
		} `json:"gifts"`
		TotalCollected struct {
			AmountMinor int64 `json:"amount_minor"`
		} `json:"total_collected"`
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/v1/weddings/"+weddingID, "", "", &page)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("page snapshot: status %d", resp.StatusCode)
	}
	if len(page.Gifts) != 1 || page.Gifts[0].Contributions != 2 {
		t.Fatalf("page gifts = %+v", page.Gifts)
	}
	if page.TotalCollected.AmountMinor != 115000 {
		t.Fatalf("total collected = %d, want 115000", page.TotalCollected.AmountMinor)
	}
}

func TestContributionAnnotatesCountryFromHeader(t *testing.T) {
	srv := newTestServer(t)
	token := ownerToken(t, "owner-1")
	_, giftID := createGift(t, srv, token, 150000)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/gifts/"+giftID+"/contributions",
		strings.NewReader(`{"contributor_name":"Cousin","amount_minor":1000,"currency":"USD"}`))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("CF-IPCountry", "nz")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("contribute: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("contribute: status %d", resp.StatusCode)
	}

	var list struct {
		Items []struct {
			Country string `json:"country"`
		} `json:"items"`
	}
	doJSON(t, http.MethodGet, srv.URL+"/v1/gifts/"+giftID+"/contributions", "", "", &list)
	if len(list.Items) != 1 || list.Items[0].Country != "NZ" {
		t.Fatalf("contribution country = %+v, want NZ", list.Items)
	}
}

func TestErrorMapping(t *testing.T) {
	srv := newTestServer(t)
	token := ownerToken(t, "owner-1")
	_, giftID := createGift(t, srv, token, 150000)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		status int
		code   string
	}{
		{
			name: "unknown gift", method: http.MethodPost,
			path:   "/v1/gifts/nope/contributions",
			body:   `{"contributor_name":"g","amount_minor":100,"currency":"USD"}`,
			status: http.StatusNotFound, code: "gift_not_found",
		},
		{
			name: "invalid amount", method: http.MethodPost,
			path:   "/v1/gifts/" + giftID + "/contributions",
			body:   `{"contributor_name":"g","amount_minor":0,"currency":"USD"}`,
			status: http.StatusBadRequest, code: "invalid_amount",
		},
		{
			name: "currency mismatch", method: http.MethodPost,
			path:   "/v1/gifts/" + giftID + "/contributions",
			body:   `{"contributor_name":"g","amount_minor":100,"currency":"EUR"}`,
			status: http.StatusBadRequest, code: "currency_mismatch",
		},
		{
			name: "foreign owner forbidden", method: http.MethodDelete,
			path:   "/v1/gifts/" + giftID,
			token:  ownerToken(t, "intruder"),
			status: http.StatusForbidden, code: "not_owner",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var payload struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			resp := doJSON(t, tc.method, srv.URL+tc.path, tc.token, tc.body, &payload)
			if resp.StatusCode != tc.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.status)
			}
			if payload.Error.Code != tc.code {
				t.Fatalf("code = %q, want %q", payload.Error.Code, tc.code)
			}
		})
	}
}

func TestWeddingUpdateFlow(t *testing.T) {
	srv := newTestServer(t)
	token := ownerToken(t, "owner-1")
	weddingID, _ := createGift(t, srv, token, 150000)

	var page struct {
		Title    string `json:"title"`
		Location string `json:"location"`
	}
	resp := doJSON(t, http.MethodPatch, srv.URL+"/v1/weddings/"+weddingID, token,
		`{"location":"Lisbon"}`, &page)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update wedding: status %d", resp.StatusCode)
	}
	if page.Title != "Sam & Alex" || page.Location != "Lisbon" {
		t.Fatalf("partial update wrong: %+v", page)
	}

	resp = doJSON(t, http.MethodPatch, srv.URL+"/v1/weddings/"+weddingID, token, `{}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty update: status %d, want 400", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPatch, srv.URL+"/v1/weddings/"+weddingID,
		ownerToken(t, "intruder"), `{"title":"Mine"}`, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign owner update: status %d, want 403", resp.StatusCode)
	}
}

func TestGiftUpdateAppliesAtomically(t *testing.T) {
	srv := newTestServer(t)
	token := ownerToken(t, "owner-1")
	_, giftID := createGift(t, srv, token, 150000)

	doJSON(t, http.MethodPost, srv.URL+"/v1/gifts/"+giftID+"/contributions", "",
		`{"contributor_name":"g","amount_minor":115000,"currency":"USD"}`, nil)

	// A rename bundled with an invalid retarget is rejected as a whole.
	resp := doJSON(t, http.MethodPatch, srv.URL+"/v1/gifts/"+giftID, token,
		`{"name":"Designer Dress","target_minor":100000}`, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("invalid retarget: status %d, want 409", resp.StatusCode)
	}

	var snap struct {
		Gift struct {
			Name string `json:"name"`
		} `json:"gift"`
	}
	doJSON(t, http.MethodGet, srv.URL+"/v1/gifts/"+giftID, "", "", &snap)
	if snap.Gift.Name != "Honeymoon Fund" {
		t.Fatalf("rename leaked from rejected update: %q", snap.Gift.Name)
	}
}

func TestGiftDeleteSemantics(t *testing.T) {
	srv := newTestServer(t)
	token := ownerToken(t, "owner-1")
	_, giftID := createGift(t, srv, token, 150000)

	doJSON(t, http.MethodPost, srv.URL+"/v1/gifts/"+giftID+"/contributions", "",
		`{"contributor_name":"g","amount_minor":100,"currency":"USD"}`, nil)

	resp := doJSON(t, http.MethodDelete, srv.URL+"/v1/gifts/"+giftID, token, "", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("delete funded gift: status %d, want 409", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete, srv.URL+"/v1/gifts/"+giftID+"?force=archive", token, "", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("force archive: status %d, want 204", resp.StatusCode)
	}

	// Ledger history survives the archive.
	var list struct {
		Items []json.RawMessage `json:"items"`
	}
	doJSON(t, http.MethodGet, srv.URL+"/v1/gifts/"+giftID+"/contributions", "", "", &list)
	if len(list.Items) != 1 {
		t.Fatalf("history lost: %d items", len(list.Items))
	}
}
