package daemon

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kiosk/internal/api"
	"kiosk/internal/assets"
	"kiosk/internal/cardmap"
	"kiosk/internal/coordinator"
	"kiosk/internal/logging"
	"kiosk/internal/testsupport"
)

func newTestServer(t *testing.T) (*httptest.Server, *coordinator.Coordinator) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	mappingStore, err := cardmap.OpenStore(cfg.Kiosk.MappingFile)
	if err != nil {
		t.Fatalf("open mapping store: %v", err)
	}
	library, err := assets.NewLibrary(cfg.Paths.AssetsDir)
	if err != nil {
		t.Fatalf("new library: %v", err)
	}

	coord := coordinator.New(cfg, logging.NewNop(), store, mappingStore, library, nil)
	server := httptest.NewServer(newRouter(cfg, coord, logging.NewNop(), nil))
	t.Cleanup(server.Close)
	return server, coord
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func uploadAsset(t *testing.T, serverURL, name, content string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	resp, err := http.Post(serverURL+"/api/assets", writer.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status = %d", resp.StatusCode)
	}
}

func TestPingAndInitialState(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/ping")
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("ping status = %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/api/state")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	var state api.PlaybackState
	decodeBody(t, resp, &state)
	if state.Mode != "welcome" {
		t.Errorf("initial mode = %s, want welcome", state.Mode)
	}
}

func TestScanMapNavigateFlow(t *testing.T) {
	server, _ := newTestServer(t)

	uploadAsset(t, server.URL, "first.mp4", "video-1")
	uploadAsset(t, server.URL, "second.jpg", "image-2")

	// Unknown card goes to splash but is recorded.
	resp := postJSON(t, server.URL+"/api/scan", api.ScanRequest{CardID: "card-x"})
	var scan api.ScanResponse
	decodeBody(t, resp, &scan)
	if scan.Mapped || scan.State.Mode != "splash" {
		t.Errorf("unknown scan = %+v", scan)
	}

	for _, asset := range []string{"first.mp4", "second.jpg"} {
		resp = postJSON(t, server.URL+"/api/cards/card-x/assets", api.MapCardRequest{Asset: asset})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("map %s status = %d", asset, resp.StatusCode)
		}
		resp.Body.Close()
	}

	resp = postJSON(t, server.URL+"/api/scan", api.ScanRequest{CardID: "card-x"})
	decodeBody(t, resp, &scan)
	if scan.State.Mode != "playing" || scan.State.CurrentAsset != "first.mp4" || scan.State.AssetCount != 2 {
		t.Errorf("scan after mapping = %+v", scan.State)
	}

	resp = postJSON(t, server.URL+"/api/navigate", api.NavigateRequest{Direction: "next"})
	var nav api.NavigateResponse
	decodeBody(t, resp, &nav)
	if !nav.Active || nav.State.CurrentAsset != "second.jpg" {
		t.Errorf("navigate = %+v", nav.State)
	}

	resp = postJSON(t, server.URL+"/api/navigate", api.NavigateRequest{Direction: "sideways"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad direction status = %d", resp.StatusCode)
	}
}

func TestScanRejectsEmptyCardID(t *testing.T) {
	server, _ := newTestServer(t)
	resp := postJSON(t, server.URL+"/api/scan", api.ScanRequest{CardID: "  "})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCardsEndpointSplitsUnknown(t *testing.T) {
	server, _ := newTestServer(t)
	uploadAsset(t, server.URL, "v.mp4", "x")

	postJSON(t, server.URL+"/api/scan", api.ScanRequest{CardID: "known"}).Body.Close()
	postJSON(t, server.URL+"/api/scan", api.ScanRequest{CardID: "stray"}).Body.Close()
	postJSON(t, server.URL+"/api/cards/known/assets", api.MapCardRequest{Asset: "v.mp4"}).Body.Close()

	resp, err := http.Get(server.URL + "/api/cards")
	if err != nil {
		t.Fatalf("cards: %v", err)
	}
	var cards api.ScannedCardsResponse
	decodeBody(t, resp, &cards)
	if len(cards.Scanned) != 2 {
		t.Errorf("scanned = %+v", cards.Scanned)
	}
	if len(cards.Unknown) != 1 || cards.Unknown[0].CardID != "stray" {
		t.Errorf("unknown = %+v", cards.Unknown)
	}
}

func TestMappingRoundTripOverHTTP(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/mapping")
	if err != nil {
		t.Fatalf("get mapping: %v", err)
	}
	defer resp.Body.Close()
	var text bytes.Buffer
	if _, err := text.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read mapping: %v", err)
	}
	if !strings.Contains(text.String(), "CARD_ASSETS") {
		t.Fatalf("mapping text missing block:\n%s", text.String())
	}

	req, err := http.NewRequest(http.MethodPut, server.URL+"/api/mapping", strings.NewReader("garbage"))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	putResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("put mapping: %v", err)
	}
	putResp.Body.Close()
	if putResp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid mapping put status = %d", putResp.StatusCode)
	}
}

func TestAssetServeSupportsRange(t *testing.T) {
	server, _ := newTestServer(t)
	uploadAsset(t, server.URL, "clip.mp4", "0123456789")

	req, err := http.NewRequest(http.MethodGet, server.URL+"/assets/clip.mp4", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Range", "bytes=2-5")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get asset: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusPartialContent {
		t.Fatalf("range status = %d", resp.StatusCode)
	}
	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	if body.String() != "2345" {
		t.Errorf("range body = %q", body.String())
	}
}

func TestAssetRenameAndDelete(t *testing.T) {
	server, _ := newTestServer(t)
	uploadAsset(t, server.URL, "old.mp4", "x")

	resp := postJSON(t, server.URL+"/api/assets/rename", api.RenameAssetRequest{OldName: "old.mp4", NewName: "new.mp4"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("rename status = %d", resp.StatusCode)
	}

	resp = postJSON(t, server.URL+"/api/assets/rename", api.RenameAssetRequest{OldName: "ghost.mp4", NewName: "x.mp4"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("rename missing status = %d", resp.StatusCode)
	}

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/assets/new.mp4", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusOK {
		t.Errorf("delete status = %d", delResp.StatusCode)
	}
}
