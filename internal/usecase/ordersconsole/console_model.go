package ordersconsole

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"draftdesk/internal/domain/workflow"
	"draftdesk/internal/ports"
	"draftdesk/internal/usecase/orders"
)

const maxShownLogs = 5
const queueLimit = 50

// statusFilters are cycled with the f key. Empty means all statuses.
var statusFilters = []string{
	"",
	string(workflow.StatusPending),
	string(workflow.StatusAssignedToDrawer),
	string(workflow.StatusCheckerReview),
	string(workflow.StatusQaReview),
	string(workflow.StatusCompleted),
	string(workflow.StatusRejected),
}

type Options struct {
	StatusFilter    string
	RefreshInterval time.Duration
}

type consoleModel struct {
	ctx             context.Context
	service         *orders.Service
	filterIndex     int
	refreshInterval time.Duration

	orders        []ports.Order
	selectedIndex int
	detail        orders.OrderDetail
	hasDetail     bool
	status        string
}

type ordersLoadedMsg struct {
	items []ports.Order
	err   error
}

type detailLoadedMsg struct {
	orderID uint64
	detail  orders.OrderDetail
	err     error
}

type tickMsg struct{}

func NewModel(ctx context.Context, service *orders.Service, options Options) tea.Model {
	interval := options.RefreshInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}

	filterIndex := 0
	if filter := strings.TrimSpace(options.StatusFilter); filter != "" {
		for index, candidate := range statusFilters {
			if candidate == filter {
				filterIndex = index
				break
			}
		}
	}

	return &consoleModel{
		ctx:             ctx,
		service:         service,
		filterIndex:     filterIndex,
		refreshInterval: interval,
		status:          "loading",
	}
}

func (m *consoleModel) Init() tea.Cmd {
	return tea.Batch(m.loadOrdersCmd(), m.tickCmd())
}

func (m *consoleModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tickMsg:
		return m, tea.Batch(m.loadOrdersCmd(), m.tickCmd())
	case ordersLoadedMsg:
		if msg.err != nil {
			m.status = "refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.orders = msg.items
		if len(m.orders) == 0 {
			m.selectedIndex = 0
			m.hasDetail = false
			m.status = "queue is empty"
			return m, nil
		}
		if m.selectedIndex >= len(m.orders) {
			m.selectedIndex = len(m.orders) - 1
		}
		m.status = fmt.Sprintf("refreshed, %d orders", len(m.orders))
		return m, m.loadDetailCmd()
	case detailLoadedMsg:
		selected, ok := m.selectedOrder()
		if !ok || selected.OrderID != msg.orderID {
			return m, nil
		}
		if msg.err != nil {
			m.hasDetail = false
			m.status = "detail load failed: " + msg.err.Error()
			return m, nil
		}
		m.detail = msg.detail
		m.hasDetail = true
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "g":
			m.status = "refreshing"
			return m, m.loadOrdersCmd()
		case "f":
			m.filterIndex = (m.filterIndex + 1) % len(statusFilters)
			m.selectedIndex = 0
			m.status = "filter: " + filterLabel(m.currentFilter())
			return m, m.loadOrdersCmd()
		case "up", "k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
				return m, m.loadDetailCmd()
			}
			return m, nil
		case "down", "j":
			if m.selectedIndex < len(m.orders)-1 {
				m.selectedIndex++
				return m, m.loadDetailCmd()
			}
			return m, nil
		}
	}
	return m, nil
}

func (m *consoleModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62"))
	urgentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("DraftDesk Console"))
	builder.WriteString("\n")
	builder.WriteString(dimStyle.Render(fmt.Sprintf(
		"filter=%s refresh=%s",
		filterLabel(m.currentFilter()),
		m.refreshInterval,
	)))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Queue"))
	builder.WriteString("\n")
	if len(m.orders) == 0 {
		builder.WriteString(dimStyle.Render("- no orders"))
		builder.WriteString("\n\n")
	} else {
		for index, order := range m.orders {
			line := fmt.Sprintf("#%d %s [%s] %s %s",
				order.OrderID,
				order.OrderNumber,
				order.Status,
				order.Priority,
				truncate(order.Address, 40),
			)
			switch {
			case index == m.selectedIndex:
				builder.WriteString(selectedStyle.Render("> " + line))
			case order.Priority == string(workflow.PriorityUrgent):
				builder.WriteString(urgentStyle.Render("  " + line))
			default:
				builder.WriteString("  " + line)
			}
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Detail"))
	builder.WriteString("\n")
	if !m.hasDetail {
		builder.WriteString(dimStyle.Render("- no detail"))
		builder.WriteString("\n\n")
	} else {
		order := m.detail.Order
		builder.WriteString(fmt.Sprintf("Order: %s (#%d)\n", order.OrderNumber, order.OrderID))
		builder.WriteString(fmt.Sprintf("Status: %s\n", order.Status))
		builder.WriteString(fmt.Sprintf("Priority: %s\n", order.Priority))
		builder.WriteString(fmt.Sprintf("Address: %s\n", firstNonEmpty(order.Address, "-")))
		builder.WriteString(fmt.Sprintf("Due: %s\n", derefOr(order.DueAt, "-")))
		if m.detail.Checklist.Total > 0 {
			builder.WriteString(fmt.Sprintf("Checklist: %d/%d checked\n",
				m.detail.Checklist.Checked, m.detail.Checklist.Total))
		}
		builder.WriteString("\nRecent History:\n")
		logs := m.detail.StatusLogs
		if len(logs) == 0 {
			builder.WriteString("- none\n")
		} else {
			start := len(logs) - maxShownLogs
			if start < 0 {
				start = 0
			}
			for _, log := range logs[start:] {
				builder.WriteString(fmt.Sprintf("- %s %s -> %s %s\n",
					log.CreatedAt, derefOr(log.FromStatus, "new"), log.ToStatus, log.Note))
			}
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Status"))
	builder.WriteString("\n")
	builder.WriteString("- " + firstNonEmpty(m.status, "ready"))
	builder.WriteString("\n\n")

	builder.WriteString(dimStyle.Render("Keys: ↑/k ↓/j move  g refresh  f cycle filter  q quit"))
	return builder.String()
}

func (m *consoleModel) currentFilter() string {
	return statusFilters[m.filterIndex]
}

func (m *consoleModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *consoleModel) loadOrdersCmd() tea.Cmd {
	filter := ports.OrderFilter{Limit: queueLimit}
	if current := m.currentFilter(); current != "" {
		filter.Statuses = []string{current}
	}
	return func() tea.Msg {
		items, err := m.service.ListOrders(m.ctx, filter)
		if err != nil {
			return ordersLoadedMsg{err: err}
		}
		return ordersLoadedMsg{items: items}
	}
}

func (m *consoleModel) loadDetailCmd() tea.Cmd {
	selected, ok := m.selectedOrder()
	if !ok {
		return nil
	}
	orderID := selected.OrderID
	return func() tea.Msg {
		detail, err := m.service.GetOrderDetail(m.ctx, orderID)
		if err != nil {
			return detailLoadedMsg{orderID: orderID, err: err}
		}
		return detailLoadedMsg{orderID: orderID, detail: detail}
	}
}

func (m *consoleModel) selectedOrder() (ports.Order, bool) {
	if len(m.orders) == 0 || m.selectedIndex < 0 || m.selectedIndex >= len(m.orders) {
		return ports.Order{}, false
	}
	return m.orders[m.selectedIndex], true
}

func filterLabel(filter string) string {
	if filter == "" {
		return "all"
	}
	return filter
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max-1] + "…"
}

func derefOr(value *string, fallback string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return fallback
	}
	return *value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if normalized := strings.TrimSpace(value); normalized != "" {
			return normalized
		}
	}
	return ""
}
