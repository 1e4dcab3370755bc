package web

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"tasktree/internal/session"
	"tasktree/internal/tree"
	"tasktree/internal/view"

	"github.com/starfederation/datastar-go/datastar"
)

// signals is the client state sent with every datastar action. ChildText holds
// one draft per open child input, keyed by childSignalKey. EditText is null when
// the edit prompt was dismissed.
type signals struct {
	Text      string            `json:"text"`
	ChildText map[string]string `json:"childText"`
	EditText  *string           `json:"editText"`
}

// childSignalKey turns a task path into a signal name segment ("0-1" -> "p0_1").
func childSignalKey(path string) string {
	return "p" + strings.ReplaceAll(path, tree.PathSep, "_")
}

// signalResets lists the signals a successful op has consumed. Every mutation
// closes all child inputs, so their drafts go too. A toggle leaves typed text alone.
func signalResets(op string) map[string]any {
	switch op {
	case session.OpToggle:
		return nil
	case session.OpAdd:
		return map[string]any{"text": "", "childText": nil}
	case session.OpEdit:
		return map[string]any{"editText": nil, "childText": nil}
	default:
		return map[string]any{"childText": nil}
	}
}

func (s *Server) readSignals(w http.ResponseWriter, r *http.Request) (signals, bool) {
	var sig signals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		http.Error(w, "invalid signals: "+err.Error(), http.StatusBadRequest)
		return sig, false
	}
	return sig, true
}

// runCommand applies one command under the server lock and answers with a full
// #tasks patch plus the notice for the outcome.
func (s *Server) runCommand(w http.ResponseWriter, r *http.Request, op, path string, apply func() (session.Outcome, error)) {
	s.mu.Lock()
	out, err := apply()
	f := s.sess.Frame()
	s.mu.Unlock()

	if err != nil {
		s.log.Info("command rejected", "op", op, "path", path, "err", err)
	}
	var resets map[string]any
	if err == nil && out == session.Applied {
		resets = signalResets(op)
	}
	s.respond(w, r, f, session.Notice(op, err), resets)
	s.hub.broadcast()
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, f view.Frame, notice string, resets map[string]any) {
	tasksHTML, err := s.renderTasks(f)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	noticeHTML, err := s.renderNotice(notice)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)
	_ = sse.PatchElements(tasksHTML, datastar.WithSelector("#tasks"), datastar.WithMode(datastar.ElementPatchModeOuter))
	_ = sse.PatchElements(noticeHTML, datastar.WithSelector("#notice"), datastar.WithMode(datastar.ElementPatchModeOuter))
	if len(resets) > 0 {
		_ = sse.MarshalAndPatchSignals(resets)
	}
}

func pathParam(r *http.Request) string {
	return strings.TrimSpace(r.PathValue("path"))
}

func (s *Server) handleAddRoot(w http.ResponseWriter, r *http.Request) {
	sig, ok := s.readSignals(w, r)
	if !ok {
		return
	}
	s.runCommand(w, r, session.OpAdd, "", func() (session.Outcome, error) {
		return applied(s.sess.AddRootTask(sig.Text))
	})
}

func (s *Server) handleAddChild(w http.ResponseWriter, r *http.Request) {
	sig, ok := s.readSignals(w, r)
	if !ok {
		return
	}
	path := pathParam(r)
	s.runCommand(w, r, session.OpAddChild, path, func() (session.Outcome, error) {
		return applied(s.sess.AddChildTask(path, sig.ChildText[childSignalKey(path)]))
	})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	sig, ok := s.readSignals(w, r)
	if !ok {
		return
	}
	path := pathParam(r)
	// The browser already asked; its answer stands in for the prompt.
	answer := session.PromptFunc(func(string, string) (string, bool) {
		if sig.EditText == nil {
			return "", false
		}
		return *sig.EditText, true
	})
	s.runCommand(w, r, session.OpEdit, path, func() (session.Outcome, error) {
		return s.sess.Edit(path, answer)
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	path := pathParam(r)
	// The confirm() dialog ran client side before this request was sent.
	s.runCommand(w, r, session.OpDelete, path, func() (session.Outcome, error) {
		return s.sess.Delete(path, nil)
	})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	path := pathParam(r)
	s.runCommand(w, r, session.OpToggle, path, func() (session.Outcome, error) {
		_, err := s.sess.ToggleChildInputVisibility(path)
		return applied(err)
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	path := pathParam(r)
	f := s.snapshot()
	n, ok := view.Find(f.Tasks, path)
	sse := datastar.NewSSE(w, r)
	if !ok {
		noticeHTML, err := s.renderNotice(session.Notice("preview", tree.PathNotFoundError{Path: path}))
		if err == nil {
			_ = sse.PatchElements(noticeHTML, datastar.WithSelector("#notice"), datastar.WithMode(datastar.ElementPatchModeOuter))
		}
		return
	}
	html, err := s.renderTemplate("preview", buildPreviewVM(n))
	if err != nil {
		_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
		return
	}
	_ = sse.PatchElements(html, datastar.WithSelector("#preview"), datastar.WithMode(datastar.ElementPatchModeOuter))
}

// handleEvents streams a full #tasks patch on connect and after every command.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	ch, cancel := s.hub.subscribe()
	defer cancel()

	send := func() {
		html, err := s.renderTasks(s.snapshot())
		if err != nil {
			_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
			return
		}
		_ = sse.PatchElements(html, datastar.WithSelector("#tasks"), datastar.WithMode(datastar.ElementPatchModeOuter))
	}
	send()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case _, ok := <-ch:
			if !ok {
				return
			}
			send()
		}
	}
}

func applied(err error) (session.Outcome, error) {
	if err != nil {
		return session.Cancelled, err
	}
	return session.Applied, nil
}
