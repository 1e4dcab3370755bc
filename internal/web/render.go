package web

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"tasktree/internal/view"
)

type taskVM struct {
	ID         string
	Text       string
	Path       string
	ChildInput bool
	Children   []taskVM
}

type tasksVM struct {
	Revision uint64
	Count    int
	Tasks    []taskVM
}

type pageVM struct {
	Title       string
	DatastarURL string
	Tasks       tasksVM
	Notice      string
}

func buildTasksVM(f view.Frame) tasksVM {
	return tasksVM{
		Revision: f.Revision,
		Count:    f.Count,
		Tasks:    buildTaskVMs(f, f.Tasks),
	}
}

func buildTaskVMs(f view.Frame, nodes []view.Node) []taskVM {
	out := make([]taskVM, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, taskVM{
			ID:         n.ID,
			Text:       n.Text,
			Path:       n.Path,
			ChildInput: f.ChildInputVisible(n.Path),
			Children:   buildTaskVMs(f, n.Children),
		})
	}
	return out
}

func taskWord(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func (s *Server) renderTasks(f view.Frame) (string, error) {
	return s.renderTemplate("tasks", buildTasksVM(f))
}

func (s *Server) renderNotice(msg string) (string, error) {
	return s.renderTemplate("notice", msg)
}

// snapshot returns the current frame, waiting for any running command.
func (s *Server) snapshot() view.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.Frame()
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.writeHTMLTemplate(w, "page", pageVM{
		Title:       "tasktree",
		DatastarURL: s.cfg.DatastarURL,
		Tasks:       buildTasksVM(s.snapshot()),
	})
}
