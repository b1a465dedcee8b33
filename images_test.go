package portfolio

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSlugifyFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Cover Photo.PNG", "cover-photo"},
		{"my_image.jpg", "myimage"},
		{"  spaced out  .webp", "spaced-out"},
		{"photo", "photo"},
	}
	for _, tt := range tests {
		if got := slugifyFilename(tt.name); got != tt.want {
			t.Errorf("slugifyFilename(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestProcessImageDownscales(t *testing.T) {
	src := encodePNG(t, 2400, 1600)

	img, data, err := processImage(bytes.NewReader(src), "Big Photo.png")
	if err != nil {
		t.Fatalf("processImage failed: %v", err)
	}
	if img.Width != maxImageWidth {
		t.Errorf("Width = %d, want %d", img.Width, maxImageWidth)
	}
	if img.Height != 800 {
		t.Errorf("Height = %d, want aspect-preserving 800", img.Height)
	}
	if img.Filename != "big-photo.jpg" {
		t.Errorf("Filename = %q", img.Filename)
	}
	if img.Size != len(data) {
		t.Errorf("Size = %d, want %d", img.Size, len(data))
	}

	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("output format = %q, want jpeg", format)
	}
	if decoded.Bounds().Dx() != maxImageWidth {
		t.Errorf("output width = %d", decoded.Bounds().Dx())
	}
}

func TestProcessImageKeepsSmallImages(t *testing.T) {
	src := encodePNG(t, 640, 480)

	img, _, err := processImage(bytes.NewReader(src), "small.png")
	if err != nil {
		t.Fatalf("processImage failed: %v", err)
	}
	if img.Width != 640 || img.Height != 480 {
		t.Errorf("dimensions = %dx%d, want unchanged 640x480", img.Width, img.Height)
	}
}

func TestProcessImageRejectsGarbage(t *testing.T) {
	_, _, err := processImage(bytes.NewReader([]byte("not an image")), "bad.png")
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func uploadImage(t *testing.T, app *App, cookies []*http.Cookie, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func TestImageUploadFlow(t *testing.T) {
	app := newTestApp(t, &fakeMailer{})
	cookies := adminLogin(t, app)
	data := encodePNG(t, 100, 100)

	rec := uploadImage(t, app, cookies, "Portrait.png", data)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["url"] != "/public/uploads/portrait.jpg" {
		t.Errorf("url = %v", body["url"])
	}

	// A second upload of the same name gets a counter suffix.
	rec = uploadImage(t, app, cookies, "Portrait.png", data)
	if rec.Code != http.StatusCreated {
		t.Fatalf("second upload status = %d", rec.Code)
	}
	if decodeBody(t, rec)["url"] != "/public/uploads/portrait-2.jpg" {
		t.Errorf("second url = %v", decodeBody(t, rec)["url"])
	}

	rec = doJSON(app, http.MethodGet, "/api/images", "", cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var images []Image
	if err := json.Unmarshal(rec.Body.Bytes(), &images); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(images) != 2 {
		t.Errorf("got %d images, want 2", len(images))
	}

	rec = doJSON(app, http.MethodDelete, "/api/images/portrait.jpg", "", cookies)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
}

func TestImageUploadRequiresAuth(t *testing.T) {
	app := newTestApp(t, &fakeMailer{})

	rec := uploadImage(t, app, nil, "x.png", encodePNG(t, 10, 10))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
