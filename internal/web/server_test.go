package web

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/firstat/fasttab/internal/logging"
	"github.com/firstat/fasttab/pkg/fasttab"
	"github.com/firstat/fasttab/pkg/fasttab/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func surveyWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]interface{}{
		{"Gender", "Satisfaction", "Channels"},
		{"F", 5, "Email, SMS"},
		{"M", 4, "email"},
		{"F", 5, " sms , Phone"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

type testClient struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
}

func newTestClient(t *testing.T, opts Options) *testClient {
	t.Helper()
	opts.Logger = zerolog.Nop()
	srv, err := NewServer(opts)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testClient{t: t, server: ts, client: &http.Client{Jar: jar}}
}

func (c *testClient) upload(name string, data []byte) (int, string) {
	c.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(c.t, err)
	_, err = fw.Write(data)
	require.NoError(c.t, err)
	require.NoError(c.t, mw.Close())

	resp, err := c.client.Post(c.server.URL+"/upload", mw.FormDataContentType(), &body)
	require.NoError(c.t, err)
	return readResponse(c.t, resp)
}

func (c *testClient) process(form url.Values) (int, string) {
	c.t.Helper()
	resp, err := c.client.PostForm(c.server.URL+"/process", form)
	require.NoError(c.t, err)
	return readResponse(c.t, resp)
}

func (c *testClient) get(path string) *http.Response {
	c.t.Helper()
	resp, err := c.client.Get(c.server.URL + path)
	require.NoError(c.t, err)
	return resp
}

func readResponse(t *testing.T, resp *http.Response) (int, string) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHealth(t *testing.T) {
	c := newTestClient(t, Options{})
	status, body := readResponse(t, c.get("/healthz"))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)
}

func TestUploadProcessDownload(t *testing.T) {
	c := newTestClient(t, Options{})

	status, page := c.upload("survey.xlsx", surveyWorkbook(t))
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, `<span id="row-count">3</span>`)
	assert.Contains(t, page, "<th>Satisfaction</th>")
	assert.Contains(t, page, "Email, SMS")
	assert.NotContains(t, page, "Phone", "preview shows two rows")

	status, page = c.process(url.Values{
		"one_way":     {"Satisfaction"},
		"demographic": {"Gender"},
		"multi":       {"Channels"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, `href="/download/satu_arah"`)
	assert.Contains(t, page, `href="/download/dua_arah"`)
	assert.Contains(t, page, `href="/download/multi"`)
	assert.Contains(t, page, `<option value="Satisfaction" selected>`)

	resp := c.get("/download/multi")
	status, body := readResponse(t, resp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.XLSXMimeType, resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename=output_multiple_choice.xlsx`, resp.Header.Get("Content-Disposition"))

	f, err := excelize.OpenReader(strings.NewReader(body))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Channels")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Opsi", "Jumlah"},
		{"email", "2"},
		{"sms", "2"},
		{"phone", "1"},
	}, rows)
}

func TestCorruptUploadKeepsPreviousTable(t *testing.T) {
	c := newTestClient(t, Options{})

	status, page := c.upload("notes.txt", []byte("just some text"))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, page, "unsupported spreadsheet format")
	assert.NotContains(t, page, "row-count")

	status, _ = c.upload("survey.xlsx", surveyWorkbook(t))
	require.Equal(t, http.StatusOK, status)

	status, page = c.upload("broken.xlsx", []byte("PK\x03\x04garbage"))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, page, "corrupt spreadsheet")
	assert.Contains(t, page, `<span id="row-count">3</span>`)
}

func TestUploadTooLarge(t *testing.T) {
	c := newTestClient(t, Options{MaxUploadBytes: 64})
	status, page := c.upload("survey.xlsx", surveyWorkbook(t))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, page, "file too large")
}

func TestProcessRequiresTableAndSelection(t *testing.T) {
	c := newTestClient(t, Options{})

	status, page := c.process(url.Values{"one_way": {"Gender"}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, page, "upload a spreadsheet first")

	c.upload("survey.xlsx", surveyWorkbook(t))
	status, page = c.process(url.Values{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, page, "select at least one column")
}

func TestEmptySelectionDiscardsResult(t *testing.T) {
	c := newTestClient(t, Options{})
	c.upload("survey.xlsx", surveyWorkbook(t))
	c.process(url.Values{"one_way": {"Gender"}})

	status, _ := readResponse(t, c.get("/download/satu_arah"))
	require.Equal(t, http.StatusOK, status)

	status, page := c.process(url.Values{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotContains(t, page, `href="/download/satu_arah"`)

	status, _ = readResponse(t, c.get("/download/satu_arah"))
	assert.Equal(t, http.StatusNotFound, status)
}

// syncBuffer guards a buffer written by server goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestHandlerLogsCarryRequestIDOnce(t *testing.T) {
	var out syncBuffer
	srv, err := NewServer(Options{Logger: logging.New("info", logging.FormatJSON, &out)})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := &testClient{t: t, server: ts, client: &http.Client{Jar: jar}}

	status, _ := c.upload("survey.xlsx", surveyWorkbook(t))
	require.Equal(t, http.StatusOK, status)

	var loaded string
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		assert.LessOrEqual(t, strings.Count(line, `"request_id"`), 1, line)
		if strings.Contains(line, `"message":"table loaded"`) {
			loaded = line
		}
	}
	require.NotEmpty(t, loaded)
	assert.Equal(t, 1, strings.Count(loaded, `"request_id"`))
}

func TestProcessShowsPipelineErrors(t *testing.T) {
	c := newTestClient(t, Options{})
	c.upload("survey.xlsx", surveyWorkbook(t))

	status, page := c.process(url.Values{
		"one_way": {"Gender"},
		"multi":   {"Region"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, `href="/download/satu_arah"`)
	assert.NotContains(t, page, `href="/download/multi"`)
	assert.Contains(t, page, "multiple-choice tabulation failed: column &#34;Region&#34; not found")

	status, _ = readResponse(t, c.get("/download/multi"))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDownloadNotAvailable(t *testing.T) {
	c := newTestClient(t, Options{})

	status, _ := readResponse(t, c.get("/download/satu_arah"))
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = readResponse(t, c.get("/download/pivot"))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUploadResetsResult(t *testing.T) {
	c := newTestClient(t, Options{})
	c.upload("survey.xlsx", surveyWorkbook(t))
	c.process(url.Values{"one_way": {"Gender"}})

	status, _ := readResponse(t, c.get("/download/satu_arah"))
	require.Equal(t, http.StatusOK, status)

	c.upload("survey.xlsx", surveyWorkbook(t))
	status, _ = readResponse(t, c.get("/download/satu_arah"))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSessionStoreExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore(time.Hour)
	store.now = func() time.Time { return now }

	a := store.Create()
	b := store.Create()
	assert.NotEqual(t, a.ID, b.ID)

	now = now.Add(50 * time.Minute)
	_, ok := store.Get(a.ID)
	require.True(t, ok)

	now = now.Add(20 * time.Minute)
	_, ok = store.Get(a.ID)
	assert.True(t, ok, "a was used 20 minutes ago")
	_, ok = store.Get(b.ID)
	assert.False(t, ok, "b idle for 70 minutes")
	assert.Equal(t, 1, store.Len())
}

func TestBuildPage(t *testing.T) {
	table, err := models.NewTable([]string{"Q"}, [][]models.Value{{int64(1)}, {nil}, {"c"}})
	require.NoError(t, err)

	sess := &Session{table: table}
	sess.result = fasttab.Process(table, fasttab.Selection{OneWay: []string{"Q"}}, fasttab.Options{})

	data := buildPage(sess, "hi")
	assert.Equal(t, "hi", data.Message)
	require.NotNil(t, data.Table)
	assert.Equal(t, [][]string{{"1"}, {""}}, data.Table.Preview)
	require.Len(t, data.Outputs, 1)
	assert.Equal(t, "satu_arah", data.Outputs[0].Kind)
	assert.Equal(t, 1, data.Outputs[0].Sheets)
}
