package cli

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/bookstack/pkg/book"
	"github.com/matzehuels/bookstack/pkg/motion/sequence"
	"github.com/matzehuels/bookstack/pkg/motion/settle"
	"github.com/matzehuels/bookstack/pkg/stack/camera"
	"github.com/matzehuels/bookstack/pkg/stack/ordering"
	"github.com/matzehuels/bookstack/pkg/stack/store"
)

const (
	frameInterval = time.Second / 30
	dropHeight    = 0.3  // meters above rest the books are released from
	dropStagger   = 0.06 // seconds between consecutive drops
	slideColumns  = 6    // row indent of a fully slid out book
	cameraEps     = 1e-4
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listFocusStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	detailBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// sortCycle is the order the "s" key steps through.
var sortCycle = append([]ordering.Key{ordering.Unsorted}, ordering.Keys...)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// snapshotMsg carries a snapshot published by the store.
type snapshotMsg store.Snapshot

// watch forwards every snapshot st publishes to send. Listeners run on the
// goroutine that mutated the store, which for key presses is the event loop
// itself, so send must not block on the program.
func watch(st *store.Store, send func(tea.Msg)) (unsubscribe func()) {
	return st.Subscribe(func(snap store.Snapshot) { send(snapshotMsg(snap)) })
}

// browseModel is the bubbletea model for the interactive stack.
//
// The list shows the top of the stack first. Cursor is an entry index, so 0
// is the bottom book.
type browseModel struct {
	store *store.Store
	snap  store.Snapshot

	Cursor    int
	Height    int
	Searching bool
	Input     string

	world   *settle.World
	seq     *sequence.Sequencer
	animID  string // book the sequencer is moving
	cam     *camera.Camera
	goal    camera.Goal
	last    time.Time
	running bool
}

func newBrowseModel(st *store.Store) *browseModel {
	m := &browseModel{store: st, Height: 15, seq: sequence.New()}
	m.snap = st.Snapshot()
	l := m.snap.Arrangement.Layout
	m.world = settle.Drop(l, dropHeight, settle.Params{Stagger: dropStagger})
	m.Cursor = max(len(l.Entries)-1, 0)
	m.goal = m.frame()
	m.cam = camera.New(m.goal)
	return m
}

func (m *browseModel) Init() tea.Cmd {
	m.running = true
	return tick()
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Searching {
			m.updateSearch(msg)
		} else if quit := m.updateKeys(msg); quit {
			return m, tea.Quit
		}
	case snapshotMsg:
		m.apply(store.Snapshot(msg))
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	case tickMsg:
		m.running = false
		m.advance(time.Time(msg))
		if m.animating() {
			m.running = true
			return m, tick()
		}
		return m, nil
	}

	if !m.running && m.animating() {
		m.running = true
		m.last = time.Time{}
		return m, tick()
	}
	return m, nil
}

func (m *browseModel) updateKeys(msg tea.KeyMsg) (quit bool) {
	n := len(m.snap.Arrangement.Books)
	switch msg.String() {
	case "q", "ctrl+c":
		return true
	case "up", "k":
		if m.Cursor < n-1 {
			m.Cursor++
		}
	case "down", "j":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "enter", " ":
		if n > 0 {
			_, _ = m.store.Click(m.snap.Arrangement.Books[m.Cursor].ID)
		}
	case "s":
		m.store.SetSort(nextSort(m.snap.Sort))
	case "/":
		m.Searching = true
		m.Input = m.snap.Query
	case "esc":
		if m.snap.Focused() {
			m.store.ClearFocus()
		} else if m.snap.Query != "" {
			m.store.SetSearch("")
		}
	}
	return false
}

func (m *browseModel) updateSearch(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter:
		m.Searching = false
	case tea.KeyEsc:
		m.Searching = false
		m.Input = ""
		m.store.SetSearch("")
	case tea.KeyBackspace:
		if r := []rune(m.Input); len(r) > 0 {
			m.Input = string(r[:len(r)-1])
			m.store.SetSearch(m.Input)
		}
	case tea.KeySpace:
		m.Input += " "
		m.store.SetSearch(m.Input)
	case tea.KeyRunes:
		m.Input += string(msg.Runes)
		m.store.SetSearch(m.Input)
	}
}

// apply takes a published snapshot. Older snapshots than the one shown are
// dropped. A changed arrangement restacks the drop animation, and a changed
// focus starts or reverses the presentation.
func (m *browseModel) apply(snap store.Snapshot) {
	if snap.Version <= m.snap.Version {
		return
	}
	prev := m.snap.Arrangement.IDs()
	m.snap = snap
	n := len(m.snap.Arrangement.Books)
	m.Cursor = max(min(m.Cursor, n-1), 0)
	if !slices.Equal(prev, m.snap.Arrangement.IDs()) {
		m.world = settle.Restack(m.world, m.snap.Arrangement.Layout, dropHeight, settle.Params{Stagger: dropStagger})
	}

	focused := m.snap.Focus
	switch {
	case focused != "" && (focused != m.animID || m.returning()):
		m.seq = sequence.New()
		_ = m.seq.Present()
		m.animID = focused
		if e, ok := m.snap.Arrangement.Layout.Entry(focused); ok {
			m.Cursor = e.Index
		}
	case focused == "" && m.animID != "" && !m.returning():
		if err := m.seq.Dismiss(); err != nil {
			// Focus cleared mid-presentation: drop straight back.
			m.seq = sequence.New()
			m.animID = ""
		}
	}
	if _, ok := m.snap.Arrangement.Layout.Entry(m.animID); !ok {
		m.seq = sequence.New()
		m.animID = ""
	}
}

func (m *browseModel) returning() bool {
	p := m.seq.Phase()
	return p == sequence.Lowering || p == sequence.Returning
}

// advance steps every animation to now.
func (m *browseModel) advance(now time.Time) {
	dt := frameInterval
	if !m.last.IsZero() {
		dt = now.Sub(m.last)
	}
	m.last = now

	m.world.Step(dt.Seconds())
	m.seq.Advance(dt)
	if m.seq.Phase() == sequence.Idle && m.snap.Focus == "" {
		m.animID = ""
	}
	m.goal = m.frame()
	m.cam.Step(m.goal, dt.Seconds())
}

func (m *browseModel) animating() bool {
	return !m.world.Settled() || !m.seq.Phase().Resting() || !m.cam.AtRest(m.goal, cameraEps)
}

// frame computes the camera goal from the cursor and presentation.
func (m *browseModel) frame() camera.Goal {
	n := len(m.snap.Arrangement.Books)
	scroll := 0.0
	if n > 1 {
		scroll = 1 - float64(m.Cursor)/float64(n-1)
	}
	return camera.Frame(m.snap.Arrangement.Layout, camera.Input{
		Scroll:  scroll,
		Focused: m.snap.Focus,
		Lift:    m.seq.Pose().Lift,
	})
}

func (m *browseModel) View() string {
	var b strings.Builder

	title := "Bookstack"
	if m.snap.Sort != ordering.Unsorted {
		title += " · " + string(m.snap.Sort)
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")

	if m.Searching {
		b.WriteString(StyleHighlight.Render("/" + m.Input + "▏"))
	} else if m.snap.Query != "" {
		b.WriteString(listDimStyle.Render("search: " + m.snap.Query))
	}
	b.WriteString("\n\n")

	if m.snap.Err != nil {
		b.WriteString(StyleWarning.Render("No books available"))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(m.snap.Err.Error()))
		b.WriteString("\n\n")
		b.WriteString(listDimStyle.Render("q quit"))
		return b.String()
	}

	books := m.snap.Arrangement.Books
	if len(books) == 0 {
		b.WriteString(listDimStyle.Render("No books match"))
		b.WriteString("\n")
	}

	falling := m.falling()
	top, bottom := m.window(len(books))
	for i := top; i >= bottom; i-- {
		b.WriteString(m.row(i, books[i], falling[books[i].ID]))
		b.WriteString("\n")
	}

	if bk, ok := m.focusedBook(); ok {
		b.WriteString("\n")
		b.WriteString(detailBoxStyle.Render(m.detail(bk)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	cam := m.cam.Current()
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  camera %.0fmm · %.0fmm", m.Cursor+1, len(books), cam.LookAt.Y*1000, cam.Position.Z*1000)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  ⏎ focus  s sort  / search  esc clear  q quit"))
	return b.String()
}

// window returns the entry range that fits the screen around the cursor,
// highest index first.
func (m *browseModel) window(n int) (top, bottom int) {
	if n == 0 {
		return -1, 0
	}
	top = min(n-1, m.Cursor+m.Height/2)
	bottom = max(0, top-m.Height+1)
	top = min(n-1, bottom+m.Height-1)
	return top, bottom
}

// falling returns the books still dropping into place.
func (m *browseModel) falling() map[string]bool {
	out := make(map[string]bool)
	for _, body := range m.world.Bodies {
		if body.State == settle.Falling {
			out[body.ID] = true
		}
	}
	return out
}

func (m *browseModel) row(i int, bk book.Book, falling bool) string {
	e := m.snap.Arrangement.Layout.Entries[i]

	cursor := "  "
	if i == m.Cursor {
		cursor = "▸ "
	}
	indent := ""
	if bk.ID == m.animID {
		pose := m.seq.Pose()
		indent = strings.Repeat(" ", int(math.Round(pose.Slide/sequence.DefaultTarget.Slide*slideColumns)))
	}
	swatch := lipgloss.NewStyle().Background(lipgloss.Color(bk.Color)).Render("  ")
	marker := " "
	switch {
	case falling:
		marker = "↓"
	case e.Standing:
		marker = "▮"
	case bk.IsFeatured:
		marker = "★"
	}

	line := fmt.Sprintf("%s%s%s %s %-28s %s", cursor, indent, swatch, marker, truncate(bk.Title, 28), listDimStyle.Render(bk.Author()))
	switch {
	case bk.ID == m.snap.Focus:
		return listFocusStyle.Render(line)
	case i == m.Cursor:
		return listSelectedStyle.Render(line)
	case falling:
		return listDimStyle.Render(line)
	}
	return listNormalStyle.Render(line)
}

func (m *browseModel) focusedBook() (book.Book, bool) {
	id := m.snap.Focus
	if id == "" {
		id = m.animID
	}
	for _, bk := range m.snap.Arrangement.Books {
		if bk.ID == id {
			return bk, true
		}
	}
	return book.Book{}, false
}

func (m *browseModel) detail(bk book.Book) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(strings.Join(book.WrapTitle(bk.Title, 0), "\n")))
	b.WriteString("\n")
	b.WriteString(StyleValue.Render(bk.Author()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%s · %s · $%s", bk.Genre, bk.PublishDate, bk.Price.StringFixed(2))))
	b.WriteString("\n\n")
	b.WriteString(bk.Description)
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(m.seq.Phase().String()))
	return b.String()
}

func nextSort(k ordering.Key) ordering.Key {
	for i, s := range sortCycle {
		if s == k {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return sortCycle[0]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
