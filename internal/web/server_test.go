package web

import (
	"bufio"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tasktree/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *session.Session) {
	t.Helper()
	sess := session.New()
	srv, err := NewServer(sess, ServerConfig{Addr: "127.0.0.1:0"})
	require.NoError(t, err)
	return srv, sess
}

func post(t *testing.T, h http.Handler, path, body string) string {
	t.Helper()
	if body == "" {
		body = "{}"
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return rec.Body.String()
}

func TestNewServerValidates(t *testing.T) {
	_, err := NewServer(nil, ServerConfig{Addr: "x"})
	require.Error(t, err)
	_, err = NewServer(session.New(), ServerConfig{})
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestHomeRendersTree(t *testing.T) {
	srv, sess := newTestServer(t)
	require.NoError(t, sess.AddRootTask("Buy milk"))
	require.NoError(t, sess.AddChildTask("0", "2% <fat>"))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `id="tasks"`)
	assert.Contains(t, body, `data-path="0-0"`)
	assert.Contains(t, body, "Buy milk")
	assert.Contains(t, body, "2% &lt;fat&gt;")
	assert.NotContains(t, body, "<fat>")
	assert.Contains(t, body, "2 tasks")
}

func TestUnknownRouteIs404(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddRootPatchesTasks(t *testing.T) {
	srv, sess := newTestServer(t)
	body := post(t, srv.Handler(), "/tasks", `{"text":"Buy milk"}`)

	assert.Contains(t, body, "datastar-patch-elements")
	assert.Contains(t, body, "#tasks")
	assert.Contains(t, body, "Buy milk")
	assert.Contains(t, body, "datastar-patch-signals")
	assert.Equal(t, 1, sess.Store().Count())
}

func TestAddRootEmptyShowsNotice(t *testing.T) {
	srv, sess := newTestServer(t)
	body := post(t, srv.Handler(), "/tasks", `{"text":"   "}`)

	assert.Contains(t, body, "Please enter a task!")
	assert.NotContains(t, body, "datastar-patch-signals")
	assert.Equal(t, 0, sess.Store().Count())
}

func TestInvalidSignalsRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader("{not json"))
	req.Header.Set("Datastar-Request", "true")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScenarioOverHTTP(t *testing.T) {
	srv, sess := newTestServer(t)
	h := srv.Handler()

	post(t, h, "/tasks", `{"text":"Buy milk"}`)

	body := post(t, h, "/tasks/0/toggle", "")
	assert.Contains(t, body, "child-input")
	assert.True(t, sess.Frame().ChildInputVisible("0"))

	body = post(t, h, "/tasks/0/children", `{"childText":{"p0":""}}`)
	assert.Contains(t, body, "Please enter a child task!")

	post(t, h, "/tasks/0/children", `{"childText":{"p0":"2%"}}`)
	assert.Equal(t, 2, sess.Store().Count())
	assert.False(t, sess.Frame().ChildInputVisible("0"), "re-render closes child inputs")

	post(t, h, "/tasks/0-0/edit", `{"editText":"Whole milk"}`)
	text, err := sess.TaskText("0-0")
	require.NoError(t, err)
	assert.Equal(t, "Whole milk", text)

	// Dismissed prompt and whitespace-only answers leave the task alone.
	post(t, h, "/tasks/0-0/edit", `{"editText":null}`)
	post(t, h, "/tasks/0-0/edit", `{"editText":"  "}`)
	text, err = sess.TaskText("0-0")
	require.NoError(t, err)
	assert.Equal(t, "Whole milk", text)

	post(t, h, "/tasks/0-0/delete", "")
	body = post(t, h, "/tasks/0/delete", "")
	assert.Contains(t, body, "No tasks yet.")
	assert.Equal(t, 0, sess.Store().Count())
}

func TestToggleKeepsTypedText(t *testing.T) {
	srv, sess := newTestServer(t)
	require.NoError(t, sess.AddRootTask("Buy milk"))
	h := srv.Handler()

	body := post(t, h, "/tasks/0/toggle", `{"text":"half-typed root"}`)
	assert.Contains(t, body, "child-input")
	assert.NotContains(t, body, "datastar-patch-signals")

	body = post(t, h, "/tasks", `{"text":"Bread","childText":{"p0":"draft"}}`)
	assert.Contains(t, body, "datastar-patch-signals")
	assert.Contains(t, body, `"text":""`)
	assert.Contains(t, body, `"childText":null`)
}

func TestChildInputsBindOwnDrafts(t *testing.T) {
	srv, sess := newTestServer(t)
	require.NoError(t, sess.AddRootTask("Groceries"))
	require.NoError(t, sess.AddRootTask("Chores"))
	require.NoError(t, sess.AddChildTask("1", "Laundry"))
	h := srv.Handler()

	post(t, h, "/tasks/0/toggle", "")
	body := post(t, h, "/tasks/1-0/toggle", "")
	assert.Contains(t, body, `data-bind="childText.p0"`)
	assert.Contains(t, body, `data-bind="childText.p1_0"`)

	post(t, h, "/tasks/1-0/children", `{"childText":{"p0":"Milk","p1_0":"Whites"}}`)
	n, _, err := sess.Store().ResolveString("1-0-0")
	require.NoError(t, err)
	assert.Equal(t, "Whites", n.Text)
	_, _, err = sess.Store().ResolveString("0-0")
	assert.Error(t, err, "the other open input's draft is not submitted")
}

func TestStalePathShowsNotice(t *testing.T) {
	srv, sess := newTestServer(t)
	require.NoError(t, sess.AddRootTask("only"))

	body := post(t, srv.Handler(), "/tasks/5/delete", "")
	assert.Contains(t, body, "no longer exists")
	assert.Contains(t, body, "only")
	assert.Equal(t, 1, sess.Store().Count())

	body = post(t, srv.Handler(), "/tasks/0-0-x/toggle", "")
	assert.Contains(t, body, "no longer exists")
}

func TestPreviewRendersMarkdown(t *testing.T) {
	srv, sess := newTestServer(t)
	require.NoError(t, sess.AddRootTask("Groceries"))
	require.NoError(t, sess.AddChildTask("0", "Milk"))
	require.NoError(t, sess.AddChildTask("0", "<b>bold</b> bread"))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/0/preview", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "#preview")
	assert.Contains(t, body, "<li>")
	assert.Contains(t, body, "Milk")
	assert.Contains(t, body, "3 tasks")
	assert.Contains(t, body, "&lt;b&gt;bold")
	assert.NotContains(t, body, "<b>bold</b>")

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/9/preview", nil))
	assert.Contains(t, rec.Body.String(), "no longer exists")
}

func TestEventsStreamFollowsCommands(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	lines := bufio.NewScanner(resp.Body)
	waitFor := func(needle string) {
		t.Helper()
		for lines.Scan() {
			if strings.Contains(lines.Text(), needle) {
				return
			}
		}
		t.Fatalf("stream ended before %q", needle)
	}
	waitFor("No tasks yet.")

	// Subscription happens before the first patch, so this broadcast is seen.
	addResp, err := ts.Client().Post(ts.URL+"/tasks", "application/json", strings.NewReader(`{"text":"From another tab"}`))
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, addResp.Body)
	addResp.Body.Close()

	waitFor("From another tab")
	cancel()
}

func TestHubCloseAllEndsSubscribers(t *testing.T) {
	h := newResourceHub()
	ch, cancel := h.subscribe()
	require.Equal(t, 1, h.count())

	h.broadcast()
	_, ok := <-ch
	require.True(t, ok)

	h.closeAll()
	_, ok = <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, h.count())
	cancel()

	late, _ := h.subscribe()
	_, ok = <-late
	assert.False(t, ok)
}

func TestServeStopsOnCancel(t *testing.T) {
	srv, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
