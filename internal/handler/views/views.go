// Package views renders the HTML pages as templ components. The markup is
// deliberately thin; page styling is not part of this application.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	appI18n "github.com/exampill/studyplanner/internal/i18n"
	"github.com/exampill/studyplanner/internal/model"
)

func esc(s string) string { return templ.EscapeString(s) }

// page wraps a body renderer in the shared layout.
func page(title string, body func(ctx context.Context, w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		app := appI18n.T(ctx, "AppTitle")
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s | %s</title></head><body>`,
			esc(title), esc(app)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w,
			`<header><h1><a href="/">%s</a></h1><p>%s</p><nav><a href="/">%s</a> · <a href="/topics">%s</a> · <a href="/about">%s</a> · <a href="/faq">FAQ</a></nav></header><main>`,
			esc(app), esc(appI18n.T(ctx, "Tagline")), esc(appI18n.T(ctx, "FormTitle")),
			esc(appI18n.T(ctx, "TopicsTitle")), esc(appI18n.T(ctx, "AboutTitle"))); err != nil {
			return err
		}
		if err := body(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

func field(ctx context.Context, w io.Writer, v model.FormView, name, labelID, inputType, value string) error {
	label := appI18n.T(ctx, labelID)
	if _, err := fmt.Fprintf(w,
		`<p><label for="%s">%s</label><br><input type="%s" id="%s" name="%s" value="%s">`,
		name, esc(label), inputType, name, name, esc(value)); err != nil {
		return err
	}
	if msgID, ok := v.Errors[name]; ok {
		if _, err := fmt.Fprintf(w, `<br><span class="error">%s</span>`, esc(appI18n.T(ctx, msgID))); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</p>`)
	return err
}

// FormPage renders the intake form, optionally with inline validation errors
// and the previously submitted values.
func FormPage(v model.FormView) templ.Component {
	return page("Exampill", func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h2>%s</h2><form method="post" action="/submit">`,
			esc(appI18n.T(ctx, "FormTitle"))); err != nil {
			return err
		}
		if token := model.CSRFTokenFromContext(ctx); token != "" {
			if _, err := fmt.Fprintf(w, `<input type="hidden" name="csrf_token" value="%s">`, esc(token)); err != nil {
				return err
			}
		}
		if err := field(ctx, w, v, "subject", "SubjectLabel", "text", v.Subject); err != nil {
			return err
		}
		if err := field(ctx, w, v, "exam_name", "ExamNameLabel", "text", v.ExamName); err != nil {
			return err
		}
		if err := field(ctx, w, v, "exam_date", "ExamDateLabel", "date", v.ExamDate); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w,
			`<p><label for="topics">%s</label><br><textarea id="topics" name="topics" rows="6">%s</textarea>`,
			esc(appI18n.T(ctx, "TopicsLabel")), esc(v.Topics)); err != nil {
			return err
		}
		if msgID, ok := v.Errors["topics"]; ok {
			if _, err := fmt.Fprintf(w, `<br><span class="error">%s</span>`, esc(appI18n.T(ctx, msgID))); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w,
			`</p><p><label for="notes">%s</label><br><textarea id="notes" name="notes" rows="2">%s</textarea></p>`,
			esc(appI18n.T(ctx, "NotesLabel")), esc(v.Notes)); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, `<p><button type="submit">%s</button></p></form>`,
			esc(appI18n.T(ctx, "SubmitButton")))
		return err
	})
}

// DashboardPage renders the plan summary.
func DashboardPage(plan model.StudyPlan) templ.Component {
	return page("Dashboard", func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h2>%s</h2>`,
			esc(appI18n.Td(ctx, "PlanFor", map[string]any{"Subject": plan.Request.Subject}))); err != nil {
			return err
		}
		if plan.Request.ExamName != "" {
			if _, err := fmt.Fprintf(w, `<p>%s: %s</p>`,
				esc(appI18n.T(ctx, "ExamNameLabel")), esc(plan.Request.ExamName)); err != nil {
				return err
			}
		}
		if plan.Request.ExamDate != "" {
			if _, err := fmt.Fprintf(w, `<p>%s: %s</p>`,
				esc(appI18n.T(ctx, "ExamDateLabel")), esc(plan.Request.ExamDate)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, `<p>%s</p>`,
			esc(appI18n.Tp(ctx, "TopicsAvailable", len(plan.Topics)))); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, `<p><a href="/topics">%s</a></p>`,
			esc(appI18n.T(ctx, "ViewTopics")))
		return err
	})
}

// TopicsPage renders the weighted topic list, highest priority first.
func TopicsPage(plan model.StudyPlan) templ.Component {
	return page("Topics", func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h2>%s</h2>`, esc(appI18n.T(ctx, "TopicsTitle"))); err != nil {
			return err
		}
		if len(plan.Topics) == 0 {
			if _, err := fmt.Fprintf(w, `<p>%s</p><p><a href="/">%s</a></p>`,
				esc(appI18n.T(ctx, "NoTopicsFound")), esc(appI18n.T(ctx, "BackToForm"))); err != nil {
				return err
			}
			return nil
		}
		if _, err := io.WriteString(w, `<ol>`); err != nil {
			return err
		}
		for i, t := range plan.Topics {
			if _, err := fmt.Fprintf(w,
				`<li><strong>%s</strong> — %s: %s`,
				esc(t.Name), esc(appI18n.T(ctx, "WeightageLabel")), esc(string(t.Weightage))); err != nil {
				return err
			}
			if t.EstimatedHours > 0 {
				if _, err := fmt.Fprintf(w, `, %s: %d`,
					esc(appI18n.T(ctx, "EstimatedHoursLabel")), t.EstimatedHours); err != nil {
					return err
				}
			}
			if len(t.KeyConcepts) > 0 {
				if _, err := fmt.Fprintf(w, `<br>%s:`, esc(appI18n.T(ctx, "KeyConceptsLabel"))); err != nil {
					return err
				}
				for _, c := range t.KeyConcepts {
					if _, err := fmt.Fprintf(w, ` <em>%s</em>`, esc(c)); err != nil {
						return err
					}
				}
			}
			if _, err := fmt.Fprintf(w, `<br><a href="/videos/%d">%s</a></li>`,
				i, esc(appI18n.T(ctx, "ViewVideos"))); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ol>`)
		return err
	})
}

// VideosPage renders the recommendations for one topic. An empty list shows a
// placeholder rather than failing the page.
func VideosPage(topic model.TopicWeight, recs []model.VideoRecommendation) templ.Component {
	return page("Videos", func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h2>%s: %s</h2>`,
			esc(appI18n.T(ctx, "VideosTitle")), esc(topic.Name)); err != nil {
			return err
		}
		if len(recs) == 0 {
			if _, err := fmt.Fprintf(w, `<p>%s</p>`, esc(appI18n.T(ctx, "NoVideosFound"))); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, `<ol>`); err != nil {
				return err
			}
			for _, rec := range recs {
				if _, err := fmt.Fprintf(w, `<li><a href="%s">%s</a> — %s`,
					esc(rec.URL), esc(rec.Title), esc(rec.Channel)); err != nil {
					return err
				}
				if rec.Reasoning != "" {
					if _, err := fmt.Fprintf(w, `<br><em>%s</em>`, esc(rec.Reasoning)); err != nil {
						return err
					}
				}
				if _, err := io.WriteString(w, `</li>`); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</ol>`); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, `<p><a href="/topics">%s</a></p>`,
			esc(appI18n.T(ctx, "BackToTopics")))
		return err
	})
}

// AboutPage renders the static about page.
func AboutPage() templ.Component {
	return staticPage("AboutTitle", "AboutBody")
}

// FAQPage renders the static FAQ page.
func FAQPage() templ.Component {
	return staticPage("FAQTitle", "FAQBody")
}

func staticPage(titleID, bodyID string) templ.Component {
	return page(titleID, func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<h2>%s</h2><p>%s</p>`,
			esc(appI18n.T(ctx, titleID)), esc(appI18n.T(ctx, bodyID)))
		return err
	})
}

// ErrorPage renders a generic user-facing error page.
func ErrorPage(titleID, bodyID string) templ.Component {
	return page("Error", func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<h2>%s</h2><p>%s</p><p><a href="/">%s</a></p>`,
			esc(appI18n.T(ctx, titleID)), esc(appI18n.T(ctx, bodyID)),
			esc(appI18n.T(ctx, "BackToForm")))
		return err
	})
}
