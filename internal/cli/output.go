// Package cli renders portal state for the terminal.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	domain "course-portal/internal/domain/registration"
	"course-portal/internal/domain/user"
	"course-portal/internal/portal"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatYML  = "yml"
)

// CourseView is one catalog row as the student sees it.
type CourseView struct {
	ID      int    `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Prereqs []int  `json:"prereqs" yaml:"prereqs"`
	Status  string `json:"status" yaml:"status"`
	Missing []int  `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// RegistrationView is one enrollment row.
type RegistrationView struct {
	ID     int64  `json:"id" yaml:"id"`
	Course string `json:"course" yaml:"course"`
	Term   string `json:"term" yaml:"term"`
	Status string `json:"status" yaml:"status"`
}

// ProfileView describes the signed-in student.
type ProfileView struct {
	ID               string   `json:"id" yaml:"id"`
	Username         string   `json:"username" yaml:"username"`
	Term             string   `json:"term,omitempty" yaml:"term,omitempty"`
	CompletedCourses []string `json:"completedCourses" yaml:"completedCourses"`
	Theme            string   `json:"theme" yaml:"theme"`
}

// Renderer writes tables or structured documents to out.
type Renderer struct {
	out    io.Writer
	format string
	theme  portal.ThemeMode
}

func NewRenderer(out io.Writer, format string, theme portal.ThemeMode) *Renderer {
	return &Renderer{out: out, format: strings.ToLower(format), theme: theme}
}

// CourseViews builds the catalog rows from the loaded store.
func CourseViews(store *portal.CourseStore) []CourseView {
	courses := store.Courses()
	views := make([]CourseView, 0, len(courses))
	for _, c := range courses {
		v := CourseView{ID: c.ID, Name: c.Name, Prereqs: c.Prereqs, Status: store.Eligibility(c).String()}
		if v.Prereqs == nil {
			v.Prereqs = []int{}
		}
		if store.Eligibility(c) == portal.Locked {
			v.Missing = store.MissingPrereqs(c)
		}
		views = append(views, v)
	}
	return views
}

func (r *Renderer) Courses(store *portal.CourseStore) error {
	views := CourseViews(store)
	if handled, err := r.structured(views); handled {
		return err
	}

	if term := store.CurrentTerm(); term != nil {
		_, _ = fmt.Fprintf(r.out, "%s (%s to %s)\n", term.Name, term.StartDate, term.EndDate)
	}

	t := r.newTable()
	t.AppendHeader(table.Row{"ID", "Course", "Prerequisites", "Status"})
	for _, v := range views {
		status := v.Status
		if len(v.Missing) > 0 {
			status = "Missing prereqs: " + joinNames(store, v.Missing)
		}
		prereqs := "None"
		if len(v.Prereqs) > 0 {
			prereqs = joinNames(store, v.Prereqs)
		}
		t.AppendRow(table.Row{v.ID, v.Name, prereqs, status})
	}
	t.Render()
	return nil
}

func (r *Renderer) Registrations(regs []domain.Registration) error {
	views := make([]RegistrationView, 0, len(regs))
	for _, reg := range regs {
		name := reg.Course.Name
		if name == "" {
			name = domain.FallbackCourseName(reg.Course.ID)
		}
		views = append(views, RegistrationView{
			ID:     reg.ID,
			Course: name,
			Term:   reg.Term.Name,
			Status: string(reg.Status),
		})
	}
	if handled, err := r.structured(views); handled {
		return err
	}

	if len(views) == 0 {
		_, _ = fmt.Fprintln(r.out, "No registrations yet")
		return nil
	}
	t := r.newTable()
	t.AppendHeader(table.Row{"ID", "Course", "Term", "Status"})
	for _, v := range views {
		t.AppendRow(table.Row{v.ID, v.Course, v.Term, v.Status})
	}
	t.Render()
	return nil
}

func (r *Renderer) Profile(u *user.User, store *portal.CourseStore) error {
	view := ProfileView{ID: u.ID, Username: u.Username, Theme: string(r.theme), CompletedCourses: []string{}}
	if term := store.CurrentTerm(); term != nil {
		view.Term = term.Name
	}
	for _, id := range store.CompletedCourses() {
		view.CompletedCourses = append(view.CompletedCourses, store.GetCourseName(id))
	}
	if handled, err := r.structured(view); handled {
		return err
	}

	t := r.newTable()
	t.AppendRows([]table.Row{
		{"Student", fmt.Sprintf("%s (%s)", view.Username, view.ID)},
		{"Term", view.Term},
		{"Completed", strings.Join(view.CompletedCourses, ", ")},
		{"Theme", view.Theme},
	})
	t.Render()
	return nil
}

// Message prints a transient status line, if any.
func (r *Renderer) Message(m portal.Message) {
	if m.Empty() {
		return
	}
	prefix := "✓"
	if m.Type == portal.MessageError {
		prefix = "✗"
	}
	_, _ = fmt.Fprintf(r.out, "%s %s\n", prefix, m.Text)
}

func (r *Renderer) structured(v interface{}) (bool, error) {
	switch r.format {
	case formatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, err
		}
		_, err = fmt.Fprintf(r.out, "%s\n", data)
		return true, err
	case formatYAML, formatYML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return true, err
		}
		_, err = r.out.Write(data)
		return true, err
	default:
		return false, nil
	}
}

func (r *Renderer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	if r.theme == portal.ThemeLight {
		t.SetStyle(table.StyleLight)
	} else {
		t.SetStyle(table.StyleRounded)
	}
	return t
}

func joinNames(store *portal.CourseStore, ids []int) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, store.GetCourseName(id))
	}
	return strings.Join(names, ", ")
}
