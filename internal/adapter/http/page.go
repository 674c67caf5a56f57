package http

import (
	"bytes"
	"embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/couchcryptid/vaccination-dashboard/internal/dashboard"
	"github.com/couchcryptid/vaccination-dashboard/internal/domain"
	"github.com/yuin/goldmark"
)

const pageTitle = "COVID-19: Vaccination Rate Simulator"

//go:embed templates/page.html
var pageHTML string

//go:embed content/*.md
var contentFS embed.FS

//go:embed static
var staticFS embed.FS

// content is the fixed commentary, converted from markdown once.
type content struct {
	Tuning     template.HTML
	Problem    template.HTML
	Fix        template.HTML
	Components template.HTML
}

type option struct {
	Name     string
	Selected bool
}

type plotPanel struct {
	Title string
	URL   string
	Error string
}

type pageData struct {
	Title         string
	Options       []option
	Selected      domain.State
	Error         string
	Figure        template.JS
	ChartError    string
	Plots         []plotPanel
	Content       content
	Coverage      template.HTML
	PlotlyJSURL   string
	BackgroundCSS template.CSS
}

// page renders the dashboard.
type page struct {
	tmpl          *template.Template
	md            goldmark.Markdown
	content       content
	coverageMD    string
	plotlyJSURL   string
	backgroundCSS template.CSS
}

func newPage(plotlyJSURL string, background []byte) (*page, error) {
	tmpl, err := template.New("page").Parse(pageHTML)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	p := &page{
		tmpl:        tmpl,
		md:          goldmark.New(),
		plotlyJSURL: plotlyJSURL,
	}

	sections := map[string]*template.HTML{
		"tuning.md":     &p.content.Tuning,
		"problem.md":    &p.content.Problem,
		"fix.md":        &p.content.Fix,
		"components.md": &p.content.Components,
	}
	for name, dst := range sections {
		src, err := contentFS.ReadFile("content/" + name)
		if err != nil {
			return nil, err
		}
		if *dst, err = p.markdown(string(src)); err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
	}

	coverage, err := contentFS.ReadFile("content/coverage.md")
	if err != nil {
		return nil, err
	}
	p.coverageMD = string(coverage)

	if len(background) > 0 {
		p.backgroundCSS = backgroundCSS(background)
	}
	return p, nil
}

func (p *page) markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // rendered from embedded markdown
}

// data builds the template input for a view. viewErr is the error returned
// by the dashboard for the selection, if any.
func (p *page) data(states []domain.State, v dashboard.View, viewErr error) pageData {
	d := pageData{
		Title:         pageTitle,
		Content:       p.content,
		PlotlyJSURL:   p.plotlyJSURL,
		BackgroundCSS: p.backgroundCSS,
	}

	for _, s := range states {
		d.Options = append(d.Options, option{Name: s.Name, Selected: viewErr == nil && s.ID == v.State.ID})
	}

	coverage := v.Coverage
	if viewErr != nil {
		coverage = domain.CurrentCoverage()
	}
	if html, err := p.markdown(fmt.Sprintf(p.coverageMD, coverage.DaysSinceFirstCase, coverage.MaxWeeklyPoints)); err == nil {
		d.Coverage = html
	}

	if viewErr != nil {
		d.Error = errorMessage(viewErr)
		return d
	}

	d.Selected = v.State
	if v.ChartErr != nil {
		d.ChartError = fmt.Sprintf("The forecast chart for %s could not be loaded: %s", v.State.Name, errorMessage(v.ChartErr))
	} else {
		d.Figure = figureJS(v.Chart.Figure)
	}

	for _, plot := range v.Plots {
		panel := plotPanel{
			Title: plotTitle(v.State.Name, plot.Kind),
			URL:   "/plots/" + url.PathEscape(v.State.ID) + "/" + string(plot.Kind),
		}
		if plot.Err != nil {
			panel.Error = fmt.Sprintf("This plot could not be loaded: %s", errorMessage(plot.Err))
		}
		d.Plots = append(d.Plots, panel)
	}
	return d
}

func (p *page) render(w http.ResponseWriter, status int, d pageData) error {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, d); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func plotTitle(name string, kind domain.ArtifactKind) string {
	switch kind {
	case domain.KindDeathsPlot:
		return name + " Fatality Forecast Plot"
	case domain.KindHospPlot:
		return name + " Hospitalization Forecast Plot"
	default:
		return name
	}
}

// errorMessage phrases an error for display without exposing file paths.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownState):
		return "unknown state; choose one from the dropdown"
	case errors.Is(err, domain.ErrArtifactNotFound):
		return "the forecast file is missing"
	case errors.Is(err, domain.ErrArtifactCorrupt):
		return "the forecast file is corrupt"
	default:
		return "the forecast file could not be read"
	}
}

// figureJS escapes <, > and & inside the figure so it can sit in a script element.
func figureJS(fig json.RawMessage) template.JS {
	var buf bytes.Buffer
	json.HTMLEscape(&buf, fig)
	return template.JS(buf.String()) //nolint:gosec // validated JSON, HTML-escaped
}

func backgroundCSS(img []byte) template.CSS {
	uri := "data:" + http.DetectContentType(img) + ";base64," + base64.StdEncoding.EncodeToString(img)
	return template.CSS("background-image: url('" + uri + "'); background-size: cover;") //nolint:gosec // base64 payload
}
