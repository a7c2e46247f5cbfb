package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linkverse/linkverse/internal/category"
	"github.com/linkverse/linkverse/internal/enrich"
	"github.com/linkverse/linkverse/internal/gateway"
)

const (
	fieldURL = iota
	fieldTitle
	fieldTags
	fieldCollection
	fieldCount
)

var fieldLabels = [fieldCount]string{"URL", "Title", "Tags", "Collection"}

// addForm is the save-a-link flow. While the user types a URL, analysis runs
// in the background after a typing pause; results prefill the empty fields and
// may suggest a collection, but never overwrite what the user already typed.
type addForm struct {
	inputs    [fieldCount]textinput.Model
	focus     int
	analyzing bool
	md        *enrich.Metadata
	note      string
	saving    bool
	err       error
}

func newAddForm() *addForm {
	f := &addForm{}
	for i := range f.inputs {
		ti := textinput.New()
		ti.CharLimit = 500
		ti.Prompt = ""
		f.inputs[i] = ti
	}
	f.inputs[fieldURL].Placeholder = "https://..."
	f.inputs[fieldTags].Placeholder = "comma, separated"
	f.inputs[fieldCollection].Placeholder = "collection name (optional)"
	f.inputs[fieldURL].Focus()
	return f
}

func (f *addForm) url() string { return strings.TrimSpace(f.inputs[fieldURL].Value()) }

func (f *addForm) setFocus(i int) tea.Cmd {
	f.focus = i
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return textinput.Blink
}

func (f *addForm) nextField() tea.Cmd { return f.setFocus((f.focus + 1) % fieldCount) }
func (f *addForm) prevField() tea.Cmd { return f.setFocus((f.focus + fieldCount - 1) % fieldCount) }

// applyMetadata fills empty fields from the analysis result and suggests a
// collection by name. User-typed values always win.
func (f *addForm) applyMetadata(md enrich.Metadata, collections []gateway.Collection) {
	f.analyzing = false
	f.md = &md

	if f.inputs[fieldTitle].Value() == "" && md.Title != "" {
		f.inputs[fieldTitle].SetValue(md.Title)
	}
	if f.inputs[fieldTags].Value() == "" && len(md.Tags) > 0 {
		f.inputs[fieldTags].SetValue(strings.Join(md.Tags, ", "))
	}

	names := make([]string, len(collections))
	for i, c := range collections {
		names[i] = c.Name
	}
	if name, ok := category.SuggestCollection(md.Category, names, f.inputs[fieldCollection].Value()); ok {
		f.inputs[fieldCollection].SetValue(name)
		f.note = fmt.Sprintf("Suggested collection: %s", name)
	}
}

// attrs builds the create payload. Analysis results fill description, category,
// domain, and favicon; when no analysis ran the URL-derived fallback is used.
func (f *addForm) attrs(collections []gateway.Collection) (gateway.LinkAttrs, error) {
	rawURL := f.url()
	if rawURL == "" {
		return gateway.LinkAttrs{}, fmt.Errorf("a URL is required")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}

	md := enrich.Fallback(rawURL)
	if f.md != nil {
		md = enrich.Finalize(rawURL, *f.md)
	}

	title := strings.TrimSpace(f.inputs[fieldTitle].Value())
	if title == "" {
		title = md.Title
	}
	if title == "" {
		title = rawURL
	}

	tags := splitTags(f.inputs[fieldTags].Value())
	if len(tags) == 0 {
		tags = md.Tags
	}

	attrs := gateway.LinkAttrs{
		URL:         rawURL,
		Title:       title,
		Description: md.Description,
		Category:    string(md.Category),
		Tags:        tags,
		Domain:      md.Domain,
		Favicon:     md.Favicon,
	}

	if name := strings.TrimSpace(f.inputs[fieldCollection].Value()); name != "" {
		col := findCollection(collections, name)
		if col == nil {
			return gateway.LinkAttrs{}, fmt.Errorf("no collection named %q", name)
		}
		attrs.CollectionID = &col.ID
	}
	return attrs, nil
}

func findCollection(collections []gateway.Collection, name string) *gateway.Collection {
	for i := range collections {
		if strings.EqualFold(collections[i].Name, name) {
			return &collections[i]
		}
	}
	return nil
}

func splitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (f *addForm) render(width, height int, spinnerView string) string {
	var b strings.Builder
	b.WriteString(detailTitleStyle.Render("Add Link"))
	b.WriteString("\n\n")

	for i := range f.inputs {
		label := formLabelStyle.Render(fmt.Sprintf("%-11s", fieldLabels[i]))
		b.WriteString(label + f.inputs[i].View() + "\n")
	}

	b.WriteString("\n")
	switch {
	case f.saving:
		b.WriteString(formHintStyle.Render(spinnerView + " Saving..."))
	case f.analyzing:
		b.WriteString(formHintStyle.Render(spinnerView + " Analyzing URL..."))
	case f.err != nil:
		b.WriteString(lipgloss.NewStyle().Foreground(colorAccent).Render(f.err.Error()))
	case f.note != "":
		b.WriteString(formHintStyle.Render(f.note))
	default:
		b.WriteString(formHintStyle.Render("tab next field · enter save · esc cancel"))
	}

	cardWidth := width - 4
	if cardWidth > 76 {
		cardWidth = 76
	}
	card := formCardStyle.Width(cardWidth).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
