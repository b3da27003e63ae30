package ui

import (
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/ezcomplete/internal/autocomplete"
	"github.com/nhath/ezcomplete/internal/config"
	"github.com/nhath/ezcomplete/internal/delayguard"
	"github.com/nhath/ezcomplete/internal/dom"
)

var countries = []autocomplete.Match{{Name: "Canada"}, {Name: "China"}, {Name: "Chile"}}

type harness struct {
	clock   *delayguard.Manual
	targets []string
}

func newTestPage(t *testing.T, mutate ...func(*config.Config)) (Page, *harness) {
	t.Helper()
	h := &harness{clock: delayguard.NewManual()}
	cfg := config.DefaultConfig()
	for _, fn := range mutate {
		fn(cfg)
	}

	fetcher := autocomplete.FetcherFunc(func(target string, onLoad func([]autocomplete.Match)) {
		h.targets = append(h.targets, target)
		onLoad(countries)
	})
	m := NewPage(cfg, WithScheduler(h.clock), WithFetcher(fetcher))
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = update(t, m, pageReadyMsg{})
	return m, h
}

func update(t *testing.T, m Page, msg tea.Msg) Page {
	t.Helper()
	next, _ := m.Update(msg)
	p, ok := next.(Page)
	require.True(t, ok)
	return p
}

func typeText(t *testing.T, m Page, s string) Page {
	t.Helper()
	for _, r := range s {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func key(typ tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: typ}
}

// suggest types s and lets the quiet period elapse
func suggest(t *testing.T, m Page, h *harness, s string) Page {
	t.Helper()
	m = typeText(t, m, s)
	h.clock.Advance(autocomplete.QuietPeriod)
	return m
}

func TestNewPage_Document(t *testing.T) {
	m := NewPage(config.DefaultConfig())

	form := m.Document().QuerySelector("form")
	require.NotNil(t, form)
	children := form.Children()
	require.Len(t, children, 3)
	assert.Equal(t, "h1", children[0].Tag)
	assert.Equal(t, "label", children[1].Tag)
	assert.Equal(t, "input", children[2].Tag)
	assert.Equal(t, "country", children[2].ID)
	assert.Equal(t, 40, children[2].Width)
	assert.Nil(t, m.Widget(), "the widget attaches on page ready")
}

func TestPageReady_AttachesWidget(t *testing.T) {
	m, _ := newTestPage(t)

	require.NotNil(t, m.Widget())
	wrapper := m.Document().QuerySelector("div.autocomplete-wrapper")
	require.NotNil(t, wrapper)
	assert.Same(t, m.Document().QuerySelector("form"), wrapper.Parent())
	assert.Same(t, wrapper, m.Widget().Input().Parent())
	assert.Equal(t, "/countries?matching=", m.Widget().URL())

	again := update(t, m, pageReadyMsg{})
	assert.Same(t, m.Widget(), again.Widget(), "a second ready message is ignored")
}

func TestInit_EmitsPageReady(t *testing.T) {
	m := NewPage(config.DefaultConfig())
	msg := m.Init()()
	batch, ok := msg.(tea.BatchMsg)
	require.True(t, ok)

	found := false
	for _, cmd := range batch {
		if cmd == nil {
			continue
		}
		if _, ok := cmd().(pageReadyMsg); ok {
			found = true
		}
	}
	assert.True(t, found)
}

func TestTyping_LooksUpAfterQuietPeriod(t *testing.T) {
	m, h := newTestPage(t)

	m = typeText(t, m, "New Z")
	assert.Equal(t, "New Z", m.Widget().Input().Value)
	assert.Empty(t, h.targets, "no lookup while typing")

	h.clock.Advance(autocomplete.QuietPeriod)
	assert.Equal(t, []string{"/countries?matching=New%20Z"}, h.targets)
	assert.True(t, m.Widget().State().Visible)
}

func TestAttach_UsesConfiguredEndpointAndSelector(t *testing.T) {
	m, h := newTestPage(t, func(c *config.Config) {
		c.Endpoint = "/lookup?q="
		c.Selector = "#country"
	})
	require.NotNil(t, m.Widget())
	assert.Equal(t, "country", m.Widget().Input().ID)

	suggest(t, m, h, "Ch")
	assert.Equal(t, []string{"/lookup?q=Ch"}, h.targets)
}

func TestView_ShowsDropdownAndGhost(t *testing.T) {
	m, h := newTestPage(t)
	m = suggest(t, m, h, "Can")

	assert.Equal(t, "ada", ghostSuffix(m.input.Value, m.Widget().Overlay().TextContent()))
	assert.Contains(t, m.renderInputLine(), "ada")

	view := m.View()
	for _, want := range []string{"Country", "Canada", "China", "Chile", "/countries?matching="} {
		assert.Contains(t, view, want)
	}
	assert.Len(t, strings.Split(view, "\n"), 24)
}

func TestArrowDown_WritesSelectionIntoEditor(t *testing.T) {
	m, h := newTestPage(t)
	m = suggest(t, m, h, "C")

	m = update(t, m, key(tea.KeyDown))
	m = update(t, m, key(tea.KeyDown))
	assert.Equal(t, "China", m.input.Value)
	assert.Equal(t, "China", m.editor.Value())
	assert.Equal(t, 1, m.dropdown().Selected())

	m = update(t, m, key(tea.KeyUp))
	assert.Equal(t, "Canada", m.editor.Value())
}

func TestTab_CommitsCompletion(t *testing.T) {
	m, h := newTestPage(t)
	m = suggest(t, m, h, "Can")

	m = update(t, m, key(tea.KeyTab))
	assert.Equal(t, "Canada", m.editor.Value())
	assert.False(t, m.Widget().State().Visible)
	assert.Equal(t, 0, m.dropdown().Len())
}

func TestEscape_RestoresTypedValue(t *testing.T) {
	m, h := newTestPage(t)
	m = suggest(t, m, h, "Can")
	m = update(t, m, key(tea.KeyDown))
	require.Equal(t, "Canada", m.editor.Value())

	m = update(t, m, key(tea.KeyEsc))
	assert.Equal(t, "Can", m.editor.Value())
	assert.False(t, m.Widget().State().Visible)
}

func TestEnter_Submits(t *testing.T) {
	m, h := newTestPage(t)
	m = suggest(t, m, h, "Chi")

	m = update(t, m, key(tea.KeyEnter))
	assert.Equal(t, []string{"Chi"}, m.Submitted())
	assert.Contains(t, m.renderStatusBar(), "Submitted Chi")
	assert.False(t, m.Widget().State().Visible)
}

func TestBackspace_EditsAndClears(t *testing.T) {
	m, h := newTestPage(t)
	m = suggest(t, m, h, "C")

	m = update(t, m, key(tea.KeyBackspace))
	assert.Equal(t, "", m.input.Value)
	h.clock.Advance(autocomplete.QuietPeriod)
	assert.False(t, m.Widget().State().Visible)
	assert.Len(t, h.targets, 1, "an empty value never issues a lookup")
}

func TestMousePress_PicksRow(t *testing.T) {
	m, h := newTestPage(t)
	m = suggest(t, m, h, "C")

	l := m.layout()
	m = update(t, m, tea.MouseMsg{X: l.dropX + 3, Y: l.dropY + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, "China", m.editor.Value())
	assert.False(t, m.Widget().State().Visible)
}

func TestMousePress_Border(t *testing.T) {
	m, h := newTestPage(t)
	m = suggest(t, m, h, "C")

	l := m.layout()
	m = update(t, m, tea.MouseMsg{X: l.dropX, Y: l.dropY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, "CanadaChinaChile", m.editor.Value(), "the list's text is every entry concatenated")
	assert.False(t, m.Widget().State().Visible)
}

func TestMouse_IgnoredOutsideOrNotPress(t *testing.T) {
	m, h := newTestPage(t)
	m = suggest(t, m, h, "C")
	l := m.layout()

	m = update(t, m, tea.MouseMsg{X: 70, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: l.dropX + 3, Y: l.dropY + 2, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: l.dropX + 3, Y: l.dropY + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	assert.Equal(t, "C", m.editor.Value())
	assert.True(t, m.Widget().State().Visible)
}

func TestCtrlC_Quits(t *testing.T) {
	m, _ := newTestPage(t)
	_, cmd := m.Update(key(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestAttach_MissingInput(t *testing.T) {
	m, _ := newTestPage(t, func(c *config.Config) { c.Selector = "#missing" })

	assert.Nil(t, m.Widget())
	assert.Contains(t, m.errorMsg, "not found")

	m = typeText(t, m, "ab")
	assert.Equal(t, "ab", m.editor.Value(), "the page still edits without a widget")
}

func TestAttach_InvalidOrigin(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Origin = "/relative"
	m := NewPage(cfg)
	m = update(t, m, pageReadyMsg{})

	assert.Nil(t, m.Widget())
	assert.NotEmpty(t, m.errorMsg)
}

type recordSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recordSender) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func TestLoop_PostRunsInUpdate(t *testing.T) {
	m, _ := newTestPage(t)

	ran := 0
	m.Document().Post(func() { ran++ })
	assert.Zero(t, ran, "posts wait for a bound program")

	rec := &recordSender{}
	m.Bind(rec)
	m.Document().Post(func() {
		ran++
		m.input.Value = "Chile"
	})
	require.Len(t, rec.msgs, 2)
	assert.Zero(t, ran)

	for _, msg := range rec.msgs {
		m = update(t, m, msg)
	}
	assert.Equal(t, 2, ran)
	assert.Equal(t, "Chile", m.editor.Value())
}

func TestDomKey(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want string
	}{
		{key(tea.KeyDown), dom.KeyArrowDown},
		{key(tea.KeyUp), dom.KeyArrowUp},
		{key(tea.KeyTab), dom.KeyTab},
		{key(tea.KeyEnter), dom.KeyEnter},
		{key(tea.KeyEsc), dom.KeyEscape},
		{key(tea.KeyBackspace), dom.KeyBackspace},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, " "},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("é")}, "é"},
		{key(tea.KeyLeft), "left"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domKey(tt.msg))
	}
}

func TestGhostSuffix(t *testing.T) {
	assert.Equal(t, "ada", ghostSuffix("Can", "Canada"))
	assert.Equal(t, "ada", ghostSuffix("can", "canada"))
	assert.Equal(t, "", ghostSuffix("Canada", "Canada"))
	assert.Equal(t, "", ghostSuffix("Can", ""))
	assert.Equal(t, " d'Ivoire", ghostSuffix("Côte", "Côte d'Ivoire"))
}
