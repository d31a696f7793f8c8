package web

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Romankivs/Lab1Istp/config"
	"github.com/Romankivs/Lab1Istp/database"
	"github.com/Romankivs/Lab1Istp/util/excel"
	"github.com/Romankivs/Lab1Istp/web/entity"
	"github.com/Romankivs/Lab1Istp/web/service"
	"github.com/Romankivs/Lab1Istp/web/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClient struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()
	dir := t.TempDir()
	public := filepath.Join(dir, "public")
	require.NoError(t, os.MkdirAll(filepath.Join(public, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(public, "style.css"), []byte("body{}"), 0o644))
	t.Setenv("CARRENTAL_PUBLIC_FOLDER", public)
	t.Setenv("CARRENTAL_DEBUG", "false")

	db, err := database.Open(&config.DatabaseConfig{
		Type:   config.DatabaseTypeSQLite,
		SQLite: config.SQLiteConfig{Path: filepath.Join(dir, "web.db")},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	handler, err := NewServer(db).Handler()
	require.NoError(t, err)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testClient{
		t:   t,
		srv: srv,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *testClient) do(req *http.Request) (*http.Response, string) {
	c.t.Helper()
	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, string(body)
}

func (c *testClient) get(path string) (*http.Response, string) {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.srv.URL+path, nil)
	require.NoError(c.t, err)
	return c.do(req)
}

func (c *testClient) postForm(path string, form url.Values) (*http.Response, string) {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodPost, c.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *testClient) upload(path string, data []byte) (*http.Response, string) {
	c.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "rental_cases.xlsx")
	require.NoError(c.t, err)
	_, err = part.Write(data)
	require.NoError(c.t, err)
	require.NoError(c.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, c.srv.URL+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func assertRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, location, resp.Header.Get("Location"))
}

// registerAndLogin bootstraps the first staff member and logs in.
func (c *testClient) registerAndLogin() {
	c.t.Helper()
	resp, _ := c.postForm("/data", url.Values{
		"email":    {"admin@example.com"},
		"name":     {"Admin"},
		"password": {"secret"},
	})
	assertRedirect(c.t, resp, "/")
	resp, _ = c.postForm("/login", url.Values{"email": {"admin@example.com"}, "password": {"secret"}})
	assertRedirect(c.t, resp, "/")
}

func TestIndexRedirects(t *testing.T) {
	c := newTestClient(t)
	resp, _ := c.get("/")
	assertRedirect(t, resp, "/login")

	c.registerAndLogin()
	resp, _ = c.get("/")
	assertRedirect(t, resp, "/car/list")
}

func TestGuardRejectsAnonymous(t *testing.T) {
	c := newTestClient(t)
	for _, path := range []string{"/car/list", "/manufacturer/add", "/customer/rental_cases/1", "/rental_cases/excel", "/car/diagram_info", "/data/1"} {
		resp, _ := c.get(path)
		assertRedirect(t, resp, "/login")
	}

	req, err := http.NewRequest(http.MethodGet, c.srv.URL+"/car/list", nil)
	require.NoError(t, err)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	resp, body := c.do(req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var msg entity.Msg
	require.NoError(t, json.Unmarshal([]byte(body), &msg))
	assert.False(t, msg.Success)

	resp, _ = c.postForm("/car", url.Values{"plate_number": {"AA0000AA"}})
	assertRedirect(t, resp, "/login")
}

func TestLoginFlows(t *testing.T) {
	c := newTestClient(t)

	resp, _ := c.get("/register")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = c.postForm("/data", url.Values{
		"email":    {"Admin@Example.com"},
		"name":     {"Admin"},
		"password": {"secret"},
	})
	assertRedirect(t, resp, "/")

	resp, _ = c.get("/register")
	assertRedirect(t, resp, "/login")
	resp, _ = c.postForm("/data", url.Values{
		"email":    {"intruder@example.com"},
		"name":     {"Intruder"},
		"password": {"secret"},
	})
	assertRedirect(t, resp, "/login")

	resp, _ = c.postForm("/login", url.Values{"email": {"nobody@example.com"}, "password": {"secret"}})
	assertRedirect(t, resp, "/login")
	for _, ck := range resp.Cookies() {
		assert.NotEqual(t, session.IdentityName, ck.Name)
	}
	resp, body := c.get("/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Email not found.")

	resp, _ = c.postForm("/login", url.Values{"email": {"admin@example.com"}, "password": {"wrong"}})
	assertRedirect(t, resp, "/login")
	_, body = c.get("/login")
	assert.Contains(t, body, "Wrong password")
	assert.NotContains(t, body, "Email not found.")

	resp, _ = c.postForm("/login", url.Values{"email": {"admin@example.com"}, "password": {"secret"}})
	assertRedirect(t, resp, "/")
	resp, body = c.get("/car/list")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Admin")

	resp, _ = c.get("/logout")
	assertRedirect(t, resp, "/")
	resp, _ = c.get("/car/list")
	assertRedirect(t, resp, "/login")
}

func TestPasswordChangeEndsSession(t *testing.T) {
	c := newTestClient(t)
	c.registerAndLogin()

	resp, _ := c.postForm("/data/1", url.Values{
		"_method":  {"PUT"},
		"email":    {"admin@example.com"},
		"name":     {"Admin"},
		"password": {"changed"},
	})
	assertRedirect(t, resp, "/")

	resp, _ = c.get("/car/list")
	assertRedirect(t, resp, "/login")

	resp, _ = c.postForm("/login", url.Values{"email": {"admin@example.com"}, "password": {"changed"}})
	assertRedirect(t, resp, "/")
}

func TestCarLifecycle(t *testing.T) {
	c := newTestClient(t)
	c.registerAndLogin()

	resp, _ := c.postForm("/manufacturer", url.Values{"name": {"Toyota"}, "country": {"Japan"}})
	assertRedirect(t, resp, "/manufacturer/list")
	resp, _ = c.postForm("/car_model", url.Values{"name": {"Corolla"}, "manufacturer_id": {"1"}})
	assertRedirect(t, resp, "/car_model/list")

	resp, body := c.get("/car/add")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Corolla")

	resp, _ = c.postForm("/car", url.Values{
		"plate_number":  {"aa1234bb"},
		"car_model_id":  {"1"},
		"available":     {"true"},
		"condition":     {"new"},
		"price_per_day": {"49.999"},
	})
	assertRedirect(t, resp, "/car/list")

	resp, body = c.get("/car/AA1234BB")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "50.00")
	assert.Contains(t, body, "Toyota Corolla")

	resp, _ = c.postForm("/car", url.Values{
		"plate_number":  {"BB0000BB"},
		"car_model_id":  {"1"},
		"price_per_day": {"abc"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = c.get("/car/BB0000BB")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = c.postForm("/car", url.Values{
		"plate_number":  {"list"},
		"car_model_id":  {"1"},
		"price_per_day": {"10"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = c.postForm("/car", url.Values{
		"plate_number":  {"CC0000CC"},
		"car_model_id":  {"99"},
		"price_per_day": {"10"},
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp, _ = c.postForm("/car/AA1234BB", url.Values{
		"_method":       {"PUT"},
		"car_model_id":  {"1"},
		"condition":     {"scratched"},
		"price_per_day": {"1.005"},
	})
	assertRedirect(t, resp, "/car/list")
	_, body = c.get("/car/AA1234BB")
	assert.Contains(t, body, "1.01")
	assert.Contains(t, body, "scratched")

	resp, _ = c.postForm("/car/ZZ9999ZZ", url.Values{
		"_method":       {"PUT"},
		"car_model_id":  {"1"},
		"price_per_day": {"1"},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, c.srv.URL+"/car/diagram_info", nil)
	require.NoError(t, err)
	resp, body = c.do(req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var msg struct {
		Success bool                    `json:"success"`
		Obj     []service.CarModelStats `json:"obj"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &msg))
	require.True(t, msg.Success)
	require.Len(t, msg.Obj, 1)
	assert.Equal(t, "Corolla", msg.Obj[0].Model)
	assert.Equal(t, 1, msg.Obj[0].Total)
	assert.Equal(t, 0, msg.Obj[0].Available)
	assert.Equal(t, "1.01", msg.Obj[0].AveragePrice.String())

	resp, _ = c.postForm("/manufacturer/1", url.Values{"_method": {"DELETE"}})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	resp, _ = c.get("/manufacturer/1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = c.postForm("/car/AA1234BB", url.Values{"_method": {"DELETE"}})
	assertRedirect(t, resp, "/car/list")
	resp, _ = c.get("/car/AA1234BB")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = c.postForm("/car/AA1234BB", url.Values{"_method": {"DELETE"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRentalCaseSpreadsheet(t *testing.T) {
	c := newTestClient(t)
	c.registerAndLogin()

	c.postForm("/manufacturer", url.Values{"name": {"Skoda"}})
	c.postForm("/car_model", url.Values{"name": {"Octavia"}, "manufacturer_id": {"1"}})
	c.postForm("/car", url.Values{"plate_number": {"KA0001AA"}, "car_model_id": {"1"}, "price_per_day": {"30"}})
	resp, _ := c.postForm("/customer", url.Values{
		"first_name":      {"Olena"},
		"last_name":       {"Koval"},
		"passport_number": {"kb000001"},
	})
	assertRedirect(t, resp, "/customer/list")

	resp, _ = c.postForm("/rental_cases", url.Values{
		"customer_id": {"1"},
		"car_plate":   {"KA0001AA"},
		"staff_id":    {"1"},
		"start_date":  {"2024-05-01"},
		"end_date":    {"2024-05-04"},
		"status":      {"active"},
	})
	assertRedirect(t, resp, "/rental_cases/list")

	resp, body := c.get("/customer/rental_cases/1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "KA0001AA")
	assert.Contains(t, body, "Olena Koval")

	resp, body = c.get("/rental_cases/excel")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "rental_cases.xlsx")
	records, err := excel.Import(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-05-04", records[0].Get("End Date"))

	var valid bytes.Buffer
	require.NoError(t, excel.Export(&valid, "Sheet1", service.RentalCaseColumns, [][]any{
		{"", 1, "KA0001AA", "", "2024-06-01", "2024-06-02", "reserved"},
	}))
	resp, _ = c.upload("/rental_cases/upload_excel", valid.Bytes())
	assertRedirect(t, resp, "/rental_cases/list")

	var invalid bytes.Buffer
	require.NoError(t, excel.Export(&invalid, "Sheet1", service.RentalCaseColumns, [][]any{
		{"", 1, "KA0001AA", 1, "2024-07-01", "2024-07-02", "reserved"},
		{"", 1, "KA0001AA", 1, "2024-07-09", "2024-07-02", "reserved"},
	}))
	resp, body = c.upload("/rental_cases/upload_excel", invalid.Bytes())
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "end_date")

	var dangling bytes.Buffer
	require.NoError(t, excel.Export(&dangling, "Sheet1", service.RentalCaseColumns, [][]any{
		{"", 1, "KA0001AA", 1, "2024-08-01", "2024-08-02", "reserved"},
		{"", 42, "KA0001AA", 1, "2024-08-01", "2024-08-02", "reserved"},
	}))
	resp, _ = c.upload("/rental_cases/upload_excel", dangling.Bytes())
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	_, body = c.get("/rental_cases/list")
	assert.Contains(t, body, "/rental_cases/2\"")
	assert.NotContains(t, body, "/rental_cases/3\"")
}

func TestPublicFiles(t *testing.T) {
	c := newTestClient(t)

	resp, body := c.get("/public/style.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "body{}", body)

	for _, path := range []string{"/public/img", "/public/img/", "/public/missing.css", "/public/../go.mod", "/public/%2e%2e/web.go"} {
		resp, _ := c.get(path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestUnknownRoute(t *testing.T) {
	c := newTestClient(t)
	resp, _ := c.get("/nowhere")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
