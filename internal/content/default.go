package content

import "github.com/lumenlms/lumen-backend/internal/model"

// Default returns the compiled-in sample catalog: a small CRM onboarding
// course. Deployments normally point CATALOG_PATH at their own catalog file.
func Default() *Catalog {
	modules := []Module{
		{
			ID:    "crm-foundations",
			Title: "CRM Foundations",
			Lessons: []Lesson{
				{
					ID:    "welcome",
					Title: "Welcome & Orientation",
					Sections: []Section{
						{ID: "overview", Title: "Course Overview", QuizID: "welcome-overview"},
						{ID: "objectives", Title: "Learning Objectives", QuizID: "welcome-objectives"},
						{ID: "navigation", Title: "Navigating the Workspace"},
					},
				},
				{
					ID:    "accounts-contacts",
					Title: "Accounts & Contacts",
					Sections: []Section{
						{ID: "accounts", Title: "Working with Accounts", QuizID: "accounts-basics"},
						{ID: "contacts", Title: "Managing Contacts"},
					},
				},
			},
		},
		{
			ID:    "sales-pipeline",
			Title: "Sales Pipeline",
			Lessons: []Lesson{
				{
					ID:    "leads",
					Title: "Lead Management",
					Sections: []Section{
						{ID: "capture", Title: "Capturing Leads", QuizID: "leads-capture"},
						{ID: "qualify", Title: "Qualifying Leads"},
					},
				},
			},
		},
	}

	quizzes := map[string]model.QuizDefinition{
		"welcome-overview": {
			ID:           "welcome-overview",
			Title:        "Course Overview Quiz",
			SectionLabel: "Course Overview",
			Questions: []model.Question{
				{
					Prompt:       "What is the primary goal of this onboarding course?",
					Kind:         model.KindSingleChoice,
					Options:      []string{"General IT skills", "Effective day-to-day CRM usage", "Hardware maintenance", "Graphic design"},
					CorrectIndex: 1,
				},
				{
					Prompt:       "The course tracks your completion per section.",
					Kind:         model.KindSingleChoice,
					Options:      []string{"True", "False"},
					CorrectIndex: 0,
				},
				{
					Prompt:       "Which unit is the smallest trackable piece of content?",
					Kind:         model.KindSingleChoice,
					Options:      []string{"Module", "Lesson", "Section", "Course"},
					CorrectIndex: 2,
				},
			},
		},
		"welcome-objectives": {
			ID:           "welcome-objectives",
			Title:        "Learning Objectives Quiz",
			SectionLabel: "Learning Objectives",
			Questions: []model.Question{
				{
					Prompt:       "A section gated by a quiz is completed when you...",
					Kind:         model.KindSingleChoice,
					Options:      []string{"Open it once", "Score at least the passing threshold", "Bookmark it", "Skip it"},
					CorrectIndex: 1,
				},
				{
					Prompt:       "A lesson is complete when every one of its sections is complete.",
					Kind:         model.KindSingleChoice,
					Options:      []string{"True", "False"},
					CorrectIndex: 0,
				},
			},
		},
		"accounts-basics": {
			ID:           "accounts-basics",
			Title:        "Accounts Basics Quiz",
			SectionLabel: "Working with Accounts",
			Questions: []model.Question{
				{
					Prompt:       "An account record typically represents a...",
					Kind:         model.KindSingleChoice,
					Options:      []string{"Company or organization", "Calendar event", "Email template", "Dashboard"},
					CorrectIndex: 0,
				},
				{
					Prompt:       "Contacts can be linked to accounts.",
					Kind:         model.KindSingleChoice,
					Options:      []string{"True", "False"},
					CorrectIndex: 0,
				},
				{
					Prompt:       "Which view shows all open activities for an account?",
					Kind:         model.KindSingleChoice,
					Options:      []string{"Timeline", "Settings", "Billing", "Themes"},
					CorrectIndex: 0,
				},
			},
		},
		"leads-capture": {
			ID:           "leads-capture",
			Title:        "Lead Capture Quiz",
			SectionLabel: "Capturing Leads",
			Questions: []model.Question{
				{
					Prompt:       "A lead becomes an opportunity after it is...",
					Kind:         model.KindSingleChoice,
					Options:      []string{"Deleted", "Qualified", "Archived", "Printed"},
					CorrectIndex: 1,
				},
				{
					Prompt:       "Duplicate leads should be merged, not kept in parallel.",
					Kind:         model.KindSingleChoice,
					Options:      []string{"True", "False"},
					CorrectIndex: 0,
				},
			},
		},
	}

	return newCatalog(modules, quizzes)
}
