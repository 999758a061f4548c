package httpapi

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/shilavakya/internal/config"
	"github.com/ironsheep/shilavakya/internal/imaging"
	"github.com/ironsheep/shilavakya/internal/paleography"
	"github.com/ironsheep/shilavakya/internal/report"
	"github.com/ironsheep/shilavakya/internal/scriptorium"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Host:           "127.0.0.1",
		Port:           "8080",
		MaxUploadBytes: 1 << 20,
		MaxBlurSize:    config.DefaultMaxBlurSize,
		Backend:        imaging.NativeBackend,
		Classifier:     paleography.SubstringName,
		RequestTimeout: 10 * time.Second,
		LogLevel:       "info",
	}
}

func newTestHandler(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	svc, err := scriptorium.New(scriptorium.Options{MaxBlurSize: cfg.MaxBlurSize, Log: log})
	if err != nil {
		t.Fatalf("scriptorium.New failed: %v", err)
	}
	return NewHandler(svc, cfg, log, "test")
}

func stonePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 48, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 48; x++ {
			c := color.NRGBA{220, 210, 190, 255}
			if x >= 12 && x < 36 && y >= 8 && y < 24 {
				c = color.NRGBA{30, 30, 30, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

// multipartRequest builds a POST with file as the "file" part and fields as
// form values.
func multipartRequest(t *testing.T, path string, file []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if file != nil {
		part, err := w.CreateFormFile("file", "stone.png")
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		if _, err := part.Write(file); err != nil {
			t.Fatalf("write part failed: %v", err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("multipart close failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func jsonRequest(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, testConfig())
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["status"] != "available" || body["version"] != "test" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestEnhance(t *testing.T) {
	h := newTestHandler(t, testConfig())
	rec := serve(h, multipartRequest(t, "/api/enhance", stonePNG(t), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var res scriptorium.EnhanceResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if res.Original == nil || res.Enhanced == nil {
		t.Fatal("expected both images")
	}
	if res.Enhanced.Width != 48 || res.Enhanced.Height != 32 {
		t.Errorf("enhanced: got %dx%d", res.Enhanced.Width, res.Enhanced.Height)
	}
	if res.Params != imaging.DefaultParams() {
		t.Errorf("params: got %+v", res.Params)
	}
}

func TestEnhance_WithRegion(t *testing.T) {
	h := newTestHandler(t, testConfig())
	rec := serve(h, multipartRequest(t, "/api/enhance", stonePNG(t), map[string]string{
		"blur_size":      "3",
		"threshold_low":  "20",
		"threshold_high": "80",
		"region":         "4, 4, 44, 28",
		"ink_color":      "#402010",
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var res scriptorium.EnhanceResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if res.Enhanced.Width != 40 || res.Enhanced.Height != 24 {
		t.Errorf("enhanced: got %dx%d, want 40x24", res.Enhanced.Width, res.Enhanced.Height)
	}
}

func TestEnhance_Errors(t *testing.T) {
	h := newTestHandler(t, testConfig())

	tests := []struct {
		name   string
		file   []byte
		fields map[string]string
		want   int
	}{
		{"missing file", nil, nil, http.StatusBadRequest},
		{"even blur", stonePNG(t), map[string]string{"blur_size": "4"}, http.StatusBadRequest},
		{"blur above limit", stonePNG(t), map[string]string{"blur_size": "17"}, http.StatusBadRequest},
		{"threshold out of range", stonePNG(t), map[string]string{"threshold_low": "-1"}, http.StatusBadRequest},
		{"non-numeric blur", stonePNG(t), map[string]string{"blur_size": "big"}, http.StatusBadRequest},
		{"malformed region", stonePNG(t), map[string]string{"region": "1,2,3"}, http.StatusBadRequest},
		{"region outside image", stonePNG(t), map[string]string{"region": "0,0,100,100"}, http.StatusBadRequest},
		{"bad ink", stonePNG(t), map[string]string{"ink_color": "ink"}, http.StatusBadRequest},
		{"garbage bytes", []byte("definitely not a png"), nil, http.StatusUnprocessableEntity},
		{"empty file", []byte{}, nil, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, multipartRequest(t, "/api/enhance", tt.file, tt.fields))
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("error body is not JSON: %v", err)
			}
			if body.Error != http.StatusText(tt.want) || body.Message == "" {
				t.Errorf("error body: got %+v", body)
			}
		})
	}
}

func TestEnhance_TooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxUploadBytes = 64
	h := newTestHandler(t, cfg)

	rec := serve(h, multipartRequest(t, "/api/enhance", stonePNG(t), nil))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status: got %d, want 413", rec.Code)
	}
}

func TestEnhance_TooManyPixels(t *testing.T) {
	imaging.SetMaxPixels(100)
	t.Cleanup(func() { imaging.SetMaxPixels(0) })
	h := newTestHandler(t, testConfig())

	rec := serve(h, multipartRequest(t, "/api/enhance", stonePNG(t), nil))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status: got %d, want 413 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestClassify(t *testing.T) {
	h := newTestHandler(t, testConfig())

	rec := serve(h, jsonRequest("/api/classify", `{"text":"శ్రీ స్వస్తి"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var c paleography.Classification
	if err := json.Unmarshal(rec.Body.Bytes(), &c); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if c.Label != paleography.LabelVengiChalukya || c.Confidence != 0.942 {
		t.Errorf("classification: got %+v", c)
	}

	if rec := serve(h, jsonRequest("/api/classify", `{"text":""}`)); rec.Code != http.StatusBadRequest {
		t.Errorf("empty text: got %d, want 400", rec.Code)
	}
	if rec := serve(h, jsonRequest("/api/classify", `{`)); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed JSON: got %d, want 400", rec.Code)
	}
}

func TestFindspot(t *testing.T) {
	h := newTestHandler(t, testConfig())

	rec := serve(h, jsonRequest("/api/findspot", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Addanki Pillar") {
		t.Errorf("default site missing: %s", rec.Body.String())
	}

	rec = serve(h, jsonRequest("/api/findspot", `{"site":"Bezwada","lat":16.51,"lon":80.63,"zoom":14}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "map=14/16.5100/80.6300") {
		t.Errorf("map URL missing: %s", rec.Body.String())
	}
}

func TestReport(t *testing.T) {
	h := newTestHandler(t, testConfig())

	rec := serve(h, jsonRequest("/api/report", `{"dynasty":"Vengi Chalukya","edge_count":12}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var r report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if r.Message != report.Message || !strings.Contains(r.Summary, "edge_count: 12") {
		t.Errorf("report: got %+v", r)
	}
}

func TestParseRegion(t *testing.T) {
	r, err := parseRegion("")
	if err != nil || r != nil {
		t.Errorf("empty: got %v, %v", r, err)
	}

	r, err = parseRegion(" 1,2 ,3, 4")
	if err != nil {
		t.Fatalf("parseRegion failed: %v", err)
	}
	if *r != (imaging.Region{X1: 1, Y1: 2, X2: 3, Y2: 4}) {
		t.Errorf("got %+v", *r)
	}

	if _, err := parseRegion("a,b,c,d"); !imaging.IsInvalidParameter(err) {
		t.Errorf("expected InvalidParameterError, got %v", err)
	}
}
