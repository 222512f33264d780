package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tayloree/dinecli/internal/display"
	"github.com/tayloree/dinecli/internal/filter"
	"github.com/tayloree/dinecli/internal/menu"
	"github.com/tayloree/dinecli/internal/overview"
)

const (
	minTUIWidth  = 92
	minTUIHeight = 24
)

var (
	tuiHeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	tuiMetaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tuiHintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tuiValueStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	tuiRareStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	tuiItemStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	tuiMutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	tuiSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
)

type tuiLoadConfig struct {
	dateToken string
	meal      string
	logger    *slog.Logger
}

type tuiDataLoadedMsg struct {
	session *session
	daily   overview.Daily
}

type tuiDataLoadErrMsg struct {
	err error
}

type tuiFocus int

const (
	tuiFocusList tuiFocus = iota
	tuiFocusDetail
)

type tuiGroupItem struct {
	name    string
	period  string
	count   int
	ordinal int
}

func (g tuiGroupItem) FilterValue() string { return strings.ToLower(g.name) }
func (g tuiGroupItem) Title() string       { return fmt.Sprintf("%d. %s", g.ordinal, g.name) }
func (g tuiGroupItem) Description() string {
	if g.count == 0 {
		return filter.NoHighlights
	}
	return fmt.Sprintf("%s • %d highlights", emptyIf(g.period, "N/A"), g.count)
}

type tuiHighlightItem struct {
	highlight   filter.Highlight
	group       string
	location    string
	meal        string
	period      string
	description string
	filterValue string
}

func (h tuiHighlightItem) FilterValue() string { return h.filterValue }
func (h tuiHighlightItem) Title() string       { return h.highlight.Item }
func (h tuiHighlightItem) Description() string { return h.description }

type highlightsTUIModel struct {
	loading  bool
	spinner  spinner.Model
	loadCmd  tea.Cmd
	fatalErr error

	session     *session
	daily       overview.Daily
	initialDate time.Time

	mealChoices []string
	mealIndex   int
	initialMeal int

	list   list.Model
	detail viewport.Model

	focus      tuiFocus
	showHelp   bool
	selectedID string

	groupStarts       []int
	visibleHighlights int

	width, height   int
	bodyHeight      int
	listPaneWidth   int
	detailPaneWidth int
	tooSmall        bool
}

func newLoadingHighlightsTUIModel(cfg tuiLoadConfig) highlightsTUIModel {
	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)
	delegate.SetSpacing(1)

	lst := list.New([]list.Item{}, delegate, 0, 0)
	lst.Title = "Highlights"
	lst.SetStatusBarItemName("item", "items")
	lst.SetShowStatusBar(true)
	lst.SetFilteringEnabled(true)
	lst.SetShowHelp(false)
	lst.SetShowPagination(true)
	lst.DisableQuitKeybindings()

	detail := viewport.New(0, 0)
	detail.KeyMap.PageDown.SetKeys("f", "pgdown")
	detail.KeyMap.PageUp.SetKeys("b", "pgup")
	detail.KeyMap.HalfPageDown.SetKeys("d")
	detail.KeyMap.HalfPageUp.SetKeys("u")

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

	choices := []string{"", "lunch", "dinner"}
	mealIndex := max(indexOfString(choices, canonicalMeal(cfg.meal)), 0)

	return highlightsTUIModel{
		loading:     true,
		spinner:     spin,
		loadCmd:     loadTUIDataCmd(cfg),
		mealChoices: choices,
		mealIndex:   mealIndex,
		initialMeal: mealIndex,
		list:        lst,
		detail:      detail,
		focus:       tuiFocusList,
	}
}

func loadTUIDataCmd(cfg tuiLoadConfig) tea.Cmd {
	return func() tea.Msg {
		s, err := openSessionWith(cfg.logger)
		if err != nil {
			return tuiDataLoadErrMsg{err: err}
		}
		daily, err := s.agg.Daily(cfg.dateToken)
		if err != nil {
			return tuiDataLoadErrMsg{err: domainError(err)}
		}
		return tuiDataLoadedMsg{session: s, daily: daily}
	}
}

func (m highlightsTUIModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd)
}

func (m highlightsTUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tuiDataLoadedMsg:
		m.loading = false
		m.session = msg.session
		m.daily = msg.daily
		m.initialDate = msg.daily.Date
		m.applyCurrentFilters(true)
		m.resize()
		return m, nil

	case tuiDataLoadErrMsg:
		m.loading = false
		m.fatalErr = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey {
		if keyMsg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.loading {
			if keyMsg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		}
	}

	if m.loading {
		return m, nil
	}

	// While the fuzzy filter prompt is open every key belongs to the list.
	if isKey && m.list.FilterState() != list.Filtering {
		if next, cmd, handled := m.handleKey(keyMsg); handled {
			return next, cmd
		}
		if m.focus == tuiFocusDetail {
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.refreshDetail(false)
	return m, cmd
}

const sectionJumpBlocked = "Clear fuzzy filter before section jumps."

func (m highlightsTUIModel) handleKey(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	key := keyMsg.String()

	switch key {
	case "q":
		return m, tea.Quit, true
	case "tab":
		if m.focus == tuiFocusList {
			m.focus = tuiFocusDetail
		} else {
			m.focus = tuiFocusList
		}
		return m, nil, true
	case "esc":
		if m.focus != tuiFocusDetail {
			return m, nil, false
		}
		m.focus = tuiFocusList
		return m, nil, true
	case "?":
		m.showHelp = !m.showHelp
		m.resize()
		return m, nil, true
	case "m":
		m.cycleMeal()
		return m, nil, true
	case "n", "p":
		delta := 1
		if key == "p" {
			delta = -1
		}
		if err := m.showDate(m.daily.Date.AddDate(0, 0, delta)); err != nil {
			return m, m.list.NewStatusMessage(err.Error()), true
		}
		return m, nil, true
	case "r":
		m.mealIndex = m.initialMeal
		if err := m.showDate(m.initialDate); err != nil {
			return m, m.list.NewStatusMessage(err.Error()), true
		}
		return m, nil, true
	}

	section := -1
	switch {
	case key == "]" || key == "[":
	case len(key) == 1 && key[0] >= '1' && key[0] <= '9':
		section = int(key[0] - '1')
	default:
		return m, nil, false
	}
	if m.list.IsFiltered() {
		return m, m.list.NewStatusMessage(sectionJumpBlocked), true
	}
	switch key {
	case "]":
		m.jumpSection(1)
	case "[":
		m.jumpSection(-1)
	default:
		m.jumpToSection(section)
	}
	return m, nil, true
}

func (m highlightsTUIModel) View() string {
	if m.loading {
		return m.loadingView()
	}
	if m.width == 0 || m.height == 0 {
		return tuiMetaStyle.Render("Loading interface...")
	}
	if m.tooSmall {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Render(
				fmt.Sprintf(
					"Terminal too small (%dx%d).\nResize to at least %dx%d for the two-pane highlight explorer.",
					m.width, m.height, minTUIWidth, minTUIHeight,
				),
			)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.headerView(),
		m.bodyView(),
		m.footerView(),
	)
}

func (m highlightsTUIModel) loadingView() string {
	width := m.width
	if width == 0 {
		width = 80
	}
	skeletonStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	lines := []string{
		tuiHeaderStyle.Render("dinecli tui"),
		tuiMetaStyle.Render("Preparing interactive interface..."),
		"",
		fmt.Sprintf("%s Loading menu snapshot and ranking highlights", m.spinner.View()),
		tuiHintStyle.Render("Tip: press q to cancel."),
		"",
		skeletonStyle.Render("┌──────────────────────────────┬─────────────────────────────────────────┐"),
		skeletonStyle.Render("│  Loading highlights...       │  Loading detail panel...               │"),
		skeletonStyle.Render("│  • locations                 │  • rarity and station                  │"),
		skeletonStyle.Render("│  • meals                     │  • past appearances                    │"),
		skeletonStyle.Render("│  • filter index              │  • upcoming appearances                │"),
		skeletonStyle.Render("└──────────────────────────────┴─────────────────────────────────────────┘"),
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func (m *highlightsTUIModel) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	if m.loading {
		return
	}

	m.tooSmall = m.width < minTUIWidth || m.height < minTUIHeight
	if m.tooSmall {
		return
	}

	headerH := 3
	footerH := 2
	if m.showHelp {
		footerH = 7
	}
	m.bodyHeight = max(8, m.height-headerH-footerH-1)

	listWidth := max(40, int(float64(m.width)*0.43))
	if listWidth > m.width-42 {
		listWidth = m.width / 2
	}
	detailWidth := m.width - listWidth - 1
	if detailWidth < 36 {
		detailWidth = 36
		listWidth = m.width - detailWidth - 1
	}

	m.listPaneWidth = listWidth
	m.detailPaneWidth = detailWidth

	listInnerWidth := max(24, listWidth-4)
	detailInnerWidth := max(24, detailWidth-4)
	panelInnerHeight := max(6, m.bodyHeight-2)

	m.list.SetSize(listInnerWidth, panelInnerHeight)
	m.detail.Width = detailInnerWidth
	m.detail.Height = panelInnerHeight
	m.refreshDetail(false)
}

func (m highlightsTUIModel) headerView() string {
	focus := "list"
	if m.focus == tuiFocusDetail {
		focus = "detail"
	}
	source := ""
	if m.session != nil {
		source = m.session.cfg.DataPath
	}

	top := fmt.Sprintf("dinecli tui  |  %s  |  %s", m.daily.Date.Format("Monday, 02 Jan 2006"), source)
	bottom := fmt.Sprintf(
		"highlights: %d visible  |  meal: %s  |  filters: %s  |  focus: %s",
		m.visibleHighlights, emptyIf(m.currentMeal(), "both"), m.activeFilterSummary(), focus,
	)

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(tuiHeaderStyle.Render(top) + "\n" + tuiMetaStyle.Render(bottom))
}

func (m highlightsTUIModel) bodyView() string {
	listBorder := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("241")).
		Padding(0, 1)
	detailBorder := listBorder

	if m.focus == tuiFocusList {
		listBorder = listBorder.BorderForeground(lipgloss.Color("86"))
	} else {
		detailBorder = detailBorder.BorderForeground(lipgloss.Color("86"))
	}

	left := listBorder.
		Width(m.listPaneWidth).
		Height(m.bodyHeight).
		Render(m.list.View())
	right := detailBorder.
		Width(m.detailPaneWidth).
		Height(m.bodyHeight).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m highlightsTUIModel) footerView() string {
	base := "Tab switch pane • / fuzzy filter • m meal • n/p next/prev day • r reset • [/] section jump • 1-9 section index • q quit"
	if m.focus == tuiFocusDetail {
		base = "Detail: j/k or ↑/↓ scroll • u/d half-page • b/f page • esc list • ? help • q quit"
	}

	if !m.showHelp {
		return lipgloss.NewStyle().Padding(0, 1).Render(tuiHintStyle.Render(base))
	}

	lines := []string{
		"Key Help",
		"list pane: ↑/↓ or j/k move • / fuzzy filter • m cycle meal • n next day • p previous day",
		"group jumps: ] next section • [ previous section • 1..9 jump to numbered section header",
		"detail pane: j/k or ↑/↓ scroll • u/d half-page • b/f page up/down",
		"global: tab switch pane • esc list • r reset date and meal • ? toggle help • q quit • ctrl+c force quit",
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Render(tuiHintStyle.Render(strings.Join(lines, "\n")))
}

func (m highlightsTUIModel) currentMeal() string {
	if len(m.mealChoices) == 0 {
		return ""
	}
	return m.mealChoices[m.mealIndex]
}

func (m highlightsTUIModel) selectedMeals() []string {
	if meal := m.currentMeal(); meal != "" {
		return []string{meal}
	}
	return overview.Meals
}

func (m *highlightsTUIModel) cycleMeal() {
	if len(m.mealChoices) == 0 {
		return
	}
	m.mealIndex = (m.mealIndex + 1) % len(m.mealChoices)
	m.applyCurrentFilters(false)
}

func (m *highlightsTUIModel) showDate(d time.Time) error {
	daily, err := m.session.agg.Daily(d.Format(menu.DateLayout))
	if err != nil {
		return err
	}
	m.daily = daily
	m.applyCurrentFilters(true)
	return nil
}

func (m highlightsTUIModel) activeFilterSummary() string {
	parts := []string{}
	if flagLocation != "" {
		parts = append(parts, "location:"+flagLocation)
	}
	if flagThreshold > 0 {
		parts = append(parts, fmt.Sprintf("threshold:%.2f", flagThreshold))
	}
	if flagLimit > 0 {
		parts = append(parts, fmt.Sprintf("limit:%d", flagLimit))
	}
	if fuzzy := strings.TrimSpace(m.list.FilterValue()); fuzzy != "" {
		parts = append(parts, "fuzzy:"+fuzzy)
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func (m *highlightsTUIModel) applyCurrentFilters(resetSelection bool) {
	currentID := m.selectedID

	items, starts := buildGroupedListItems(m.daily, m.selectedMeals())
	m.groupStarts = starts
	m.visibleHighlights = len(items) - len(starts)

	m.list.Title = fmt.Sprintf("Highlights • %s", m.daily.Date.Format("Mon 02 Jan"))
	m.list.SetItems(items)

	target := -1
	if !resetSelection && currentID != "" {
		target = findItemIndexByID(items, currentID)
	}
	if target < 0 {
		target = firstHighlightItemIndex(items)
	}
	if target < 0 && len(items) > 0 {
		target = 0
	}
	if target >= 0 {
		m.list.Select(target)
	}

	m.refreshDetail(true)
}

func (m *highlightsTUIModel) refreshDetail(resetScroll bool) {
	var content string
	nextID := ""

	if selected := m.list.SelectedItem(); selected != nil {
		switch item := selected.(type) {
		case tuiHighlightItem:
			var history *overview.History
			if m.session != nil {
				if h, err := m.session.agg.HistoryExact(item.highlight.Item); err == nil {
					history = &h
				}
			}
			content = renderHighlightDetailContent(item, history, m.detail.Width)
			nextID = stableIDForItem(item)
		case tuiGroupItem:
			content = m.renderGroupDetail(item)
			nextID = stableIDForItem(item)
		}
	}
	if content == "" {
		content = "No highlights for this date.\n\nTry n or p to move a day, or r to reset."
	}

	if resetScroll || nextID != m.selectedID {
		m.detail.GotoTop()
	}
	m.selectedID = nextID
	m.detail.SetContent(content)
}

func (m highlightsTUIModel) renderGroupDetail(group tuiGroupItem) string {
	lines := []string{
		tuiSectionStyle.Render(fmt.Sprintf("Section %d: %s", group.ordinal, group.name)),
		tuiMetaStyle.Render(emptyIf(group.period, "N/A")),
		"",
	}
	if group.count == 0 {
		lines = append(lines, filter.NoHighlights)
		return strings.Join(lines, "\n")
	}

	lines = append(lines,
		tuiMetaStyle.Render(fmt.Sprintf("%d highlights, rarest first", group.count)),
		"",
		tuiMetaStyle.Render("Jump keys:"),
		"- `]` next section, `[` previous section",
		"- `1..9` jump directly to section number",
	)
	if preview := m.groupPreviewTitles(group.name, 5); len(preview) > 0 {
		lines = append(lines, "", tuiMetaStyle.Render("Preview:"))
		for _, title := range preview {
			lines = append(lines, "• "+title)
		}
	}
	return strings.Join(lines, "\n")
}

func (m highlightsTUIModel) groupPreviewTitles(group string, limit int) []string {
	out := make([]string, 0, limit)
	for _, item := range m.list.Items() {
		h, ok := item.(tuiHighlightItem)
		if !ok || h.group != group {
			continue
		}
		out = append(out, h.highlight.String())
		if len(out) >= limit {
			break
		}
	}
	return out
}

func (m *highlightsTUIModel) jumpToSection(index int) {
	if index < 0 || index >= len(m.groupStarts) {
		return
	}

	target := firstHighlightIndexFrom(m.list.Items(), m.groupStarts[index])
	if target < 0 || (index+1 < len(m.groupStarts) && target >= m.groupStarts[index+1]) {
		target = m.groupStarts[index]
	}
	m.list.Select(target)
	m.refreshDetail(true)
}

func (m *highlightsTUIModel) jumpSection(delta int) {
	if len(m.groupStarts) == 0 {
		return
	}

	current := max(m.currentSectionIndex(), 0)
	next := current + delta
	if next < 0 {
		next = len(m.groupStarts) - 1
	}
	if next >= len(m.groupStarts) {
		next = 0
	}
	m.jumpToSection(next)
}

func (m highlightsTUIModel) currentSectionIndex() int {
	if len(m.groupStarts) == 0 {
		return -1
	}
	cursor := m.list.GlobalIndex()
	current := 0
	for i, start := range m.groupStarts {
		if start <= cursor {
			current = i
			continue
		}
		break
	}
	return current
}

// buildGroupedListItems lays out one numbered section per (location, meal)
// block, meal-major, with the block's highlights beneath its header.
func buildGroupedListItems(daily overview.Daily, meals []string) (items []list.Item, starts []int) {
	ordinal := 0
	for _, meal := range meals {
		for _, block := range daily.Meal(meal) {
			ordinal++
			name := fmt.Sprintf("%s %s", block.Location, display.MealTitle(meal))

			starts = append(starts, len(items))
			items = append(items, tuiGroupItem{
				name:    name,
				period:  block.Period,
				count:   len(block.Highlights),
				ordinal: ordinal,
			})
			for _, h := range block.Highlights {
				items = append(items, buildTUIHighlightItem(h, block, name))
			}
		}
	}
	return items, starts
}

func buildTUIHighlightItem(h filter.Highlight, block overview.Block, group string) tuiHighlightItem {
	descParts := []string{fmt.Sprintf("%d%%", h.Percent())}
	if h.Station != "" {
		descParts = append(descParts, h.Station)
	}
	if h.Probability <= display.VeryRare {
		descParts = append(descParts, "RARE")
	}

	filterTokens := []string{h.Item, h.Station, block.Location, block.Meal, block.Period}

	return tuiHighlightItem{
		highlight:   h,
		group:       group,
		location:    block.Location,
		meal:        block.Meal,
		period:      block.Period,
		description: strings.Join(descParts, "  •  "),
		filterValue: strings.ToLower(strings.Join(filterTokens, " ")),
	}
}

func renderHighlightDetailContent(item tuiHighlightItem, history *overview.History, width int) string {
	maxWidth := max(24, width)
	h := item.highlight

	lines := []string{
		tuiItemStyle.Render(wrapText(h.Item, maxWidth)),
	}

	metaBits := []string{}
	if h.Probability <= display.VeryRare {
		metaBits = append(metaBits, tuiRareStyle.Render("RARE"))
	}
	metaBits = append(metaBits, fmt.Sprintf("%s %s", item.location, display.MealTitle(item.meal)))
	lines = append(lines, tuiMetaStyle.Render(wrapText(strings.Join(metaBits, "  |  "), maxWidth)))

	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("%s %s", tuiMetaStyle.Render("Served:"), tuiValueStyle.Render(fmt.Sprintf("%d%% of meal periods", h.Percent()))))
	lines = append(lines, fmt.Sprintf("%s %s", tuiMetaStyle.Render("Station:"), emptyIf(h.Station, "N/A")))
	lines = append(lines, fmt.Sprintf("%s %s", tuiMetaStyle.Render("Period:"), emptyIf(item.period, "N/A")))

	if history == nil {
		return strings.Join(lines, "\n")
	}

	lines = append(lines, "", tuiSectionStyle.Render("Past"))
	lines = append(lines, appearanceLines(history.Past)...)
	lines = append(lines, "", tuiSectionStyle.Render("Upcoming"))
	lines = append(lines, appearanceLines(history.Future)...)

	return strings.Join(lines, "\n")
}

func appearanceLines(aps []overview.Appearance) []string {
	if len(aps) == 0 {
		return []string{tuiMutedStyle.Render("None")}
	}
	out := make([]string, 0, len(aps))
	for _, ap := range aps {
		out = append(out, "• "+ap.String())
	}
	return out
}

func wrapText(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	if width < 12 {
		width = 12
	}

	line := words[0]
	lines := make([]string, 0, len(words)/6+1)
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func canonicalMeal(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "lunch":
		return "lunch"
	case "dinner":
		return "dinner"
	default:
		return ""
	}
}

func indexOfString(values []string, target string) int {
	for i, value := range values {
		if value == target {
			return i
		}
	}
	return -1
}

func findItemIndexByID(items []list.Item, stableID string) int {
	for i, item := range items {
		if stableIDForItem(item) == stableID {
			return i
		}
	}
	return -1
}

func firstHighlightItemIndex(items []list.Item) int {
	return firstHighlightIndexFrom(items, 0)
}

func firstHighlightIndexFrom(items []list.Item, start int) int {
	for i := start; i < len(items); i++ {
		if _, ok := items[i].(tuiHighlightItem); ok {
			return i
		}
	}
	return -1
}

func stableIDForItem(item list.Item) string {
	switch value := item.(type) {
	case tuiHighlightItem:
		return "item:" + strings.ToLower(value.group) + ":" + value.highlight.Item
	case tuiGroupItem:
		return "group:" + strings.ToLower(value.name)
	default:
		return ""
	}
}
