package menus

import (
	"context"
	"fmt"
	"strings"

	"github.com/savannahworks/uliza/pkg/domain"
)

// Course is one entry of the code-school catalog.
type Course struct {
	Code  string
	Title string
}

// SchoolService is the code-school backend for the school tree.
type SchoolService interface {
	Catalog(ctx context.Context) ([]Course, error)
	Enroll(ctx context.Context, caller, courseCode string) (ref string, err error)
}

// SchoolTree builds the code-school menu.
func SchoolTree(svc SchoolService) *domain.Tree {
	return &domain.Tree{
		Name: "school",
		Root: "home",
		Nodes: map[string]*domain.Node{
			"home": {
				ID:    "home",
				Title: "Code School",
				Body:  "1. Courses\n2. Enroll\n0. Exit",
				Transitions: map[string]string{
					"1": "catalog",
					"2": "enroll",
					"0": "bye",
				},
			},
			"catalog": {
				ID:   "catalog",
				Body: "{{catalog}}\n0. Back",
				Transitions: map[string]string{
					"0": domain.TargetBack,
				},
				Hook: catalogHook(svc),
			},
			"enroll": {
				ID:      "enroll",
				Body:    "Enroll in:\n1. Intro to Python\n2. Web basics\n3. Data for farmers\n0. Back",
				Capture: "course_choice",
				Transitions: map[string]string{
					"1": "enroll_done",
					"2": "enroll_done",
					"3": "enroll_done",
					"0": domain.TargetBack,
				},
			},
			"enroll_done": {
				ID:       "enroll_done",
				Body:     "Enrolled! Ref {{enroll_ref}} for {{course_title}}. Lessons arrive by SMS each morning.",
				Terminal: true,
				Hook:     enrollHook(svc),
				Notify:   "Uliza School: enrollment {{enroll_ref}} confirmed for {{course_title}}. Lesson 1 arrives tomorrow.",
			},
			"bye": {
				ID:       "bye",
				Body:     "Karibu tena. Keep learning!",
				Terminal: true,
			},
		},
	}
}

var courseByToken = map[string]Course{
	"1": {Code: "PY101", Title: "Intro to Python"},
	"2": {Code: "WEB01", Title: "Web basics"},
	"3": {Code: "DAT01", Title: "Data for farmers"},
}

func catalogHook(svc SchoolService) domain.ActionHook {
	return func(ctx context.Context, s *domain.Session) (map[string]any, error) {
		if svc == nil {
			return nil, fmt.Errorf("school service not configured")
		}
		courses, err := svc.Catalog(ctx)
		if err != nil {
			return nil, err
		}
		lines := make([]string, 0, len(courses))
		for _, c := range courses {
			lines = append(lines, c.Code+" "+c.Title)
		}
		return map[string]any{"catalog": strings.Join(lines, "\n")}, nil
	}
}

func enrollHook(svc SchoolService) domain.ActionHook {
	return func(ctx context.Context, s *domain.Session) (map[string]any, error) {
		if svc == nil {
			return nil, fmt.Errorf("school service not configured")
		}
		choice, _ := s.ContextData["course_choice"].(string)
		course, ok := courseByToken[choice]
		if !ok {
			return nil, fmt.Errorf("unknown course choice %q", choice)
		}
		ref, err := svc.Enroll(ctx, s.CallerID, course.Code)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"enroll_ref":   ref,
			"course_title": course.Title,
		}, nil
	}
}
