package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"draftdesk/internal/errs"
	"draftdesk/internal/infrastructure/persistence/sqlite/model"
	"draftdesk/internal/ports"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, orderID uint64) (ports.Order, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Order{}, err
	}

	var row model.Order
	if err := db.Where("order_id = ?", orderID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Order{}, ports.ErrOrderNotFound
		}
		return ports.Order{}, errs.Wrap(err, "query order")
	}
	return mapOrder(row), nil
}

func (r *OrderRepository) GetOrderByExternalID(ctx context.Context, externalID string) (ports.Order, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Order{}, err
	}

	var row model.Order
	if err := db.Where("external_order_id = ?", externalID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Order{}, ports.ErrOrderNotFound
		}
		return ports.Order{}, errs.Wrap(err, "query order by external id")
	}
	return mapOrder(row), nil
}

func (r *OrderRepository) ListOrders(ctx context.Context, filter ports.OrderFilter) ([]ports.Order, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Order{})
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if priority := strings.TrimSpace(filter.Priority); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("order_number LIKE ? OR address LIKE ?", pattern, pattern)
	}
	if filter.CreatedFrom != "" {
		query = query.Where("created_at >= ?", filter.CreatedFrom)
	}
	if filter.CreatedTo != "" {
		query = query.Where("created_at <= ?", filter.CreatedTo)
	}
	if filter.DueBefore != "" {
		query = query.Where("due_at IS NOT NULL AND due_at < ?", filter.DueBefore)
	}
	if stage := strings.TrimSpace(filter.StageNotStarted); stage != "" {
		col, colErr := stageStartedColumn(stage)
		if colErr != nil {
			return nil, colErr
		}
		query = query.Where(col + " IS NULL")
	}
	if stage := strings.TrimSpace(filter.StageInProgress); stage != "" {
		startedCol, colErr := stageStartedColumn(stage)
		if colErr != nil {
			return nil, colErr
		}
		completedCol := strings.Replace(startedCol, "_started_at", "_completed_at", 1)
		query = query.Where(startedCol + " IS NOT NULL AND " + completedCol + " IS NULL")
	}
	query = query.Order("order_id desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []model.Order
	if err := query.Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query orders")
	}

	items := make([]ports.Order, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapOrder(row))
	}
	return items, nil
}

func stageStartedColumn(stage string) (string, error) {
	switch strings.ToLower(stage) {
	case "drawer":
		return "drawer_started_at", nil
	case "checker":
		return "checker_started_at", nil
	case "qa":
		return "qa_started_at", nil
	}
	return "", fmt.Errorf("unknown stage %q", stage)
}

func (r *OrderRepository) CountByStatus(ctx context.Context) ([]ports.StatusCount, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var counts []ports.StatusCount
	if err := db.Model(&model.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Order("status asc").
		Scan(&counts).Error; err != nil {
		return nil, errs.Wrap(err, "count orders by status")
	}
	return counts, nil
}

func (r *OrderRepository) CountByPriority(ctx context.Context, statuses []string) ([]ports.PriorityCount, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Order{}).
		Select("priority, count(*) as count").
		Group("priority").
		Order("priority asc")
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var counts []ports.PriorityCount
	if err := query.Scan(&counts).Error; err != nil {
		return nil, errs.Wrap(err, "count orders by priority")
	}
	return counts, nil
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order ports.Order) (ports.Order, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Order{}, err
	}

	row := model.Order{
		ExternalOrderID:    order.ExternalOrderID,
		OrderNumber:        order.OrderNumber,
		Status:             order.Status,
		Priority:           order.Priority,
		Source:             order.Source,
		Address:            order.Address,
		Instruction:        order.Instruction,
		DueAt:              order.DueAt,
		OrderPlacedAt:      order.OrderPlacedAt,
		AssignedAt:         order.AssignedAt,
		DrawerStartedAt:    order.DrawerStartedAt,
		DrawerCompletedAt:  order.DrawerCompletedAt,
		CheckerStartedAt:   order.CheckerStartedAt,
		CheckerCompletedAt: order.CheckerCompletedAt,
		QaStartedAt:        order.QaStartedAt,
		QaCompletedAt:      order.QaCompletedAt,
		CreatedAt:          order.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Order{}, errs.Wrap(err, "insert order")
	}
	return mapOrder(row), nil
}

func (r *OrderRepository) UpsertPortalOrder(ctx context.Context, input ports.PortalOrderUpsert) (bool, error) {
	run := func(txCtx context.Context) (bool, error) {
		db, err := r.dbFromContext(txCtx)
		if err != nil {
			return false, err
		}

		var existing model.Order
		err = db.Where("external_order_id = ?", input.ExternalOrderID).Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := model.Order{
				ExternalOrderID: &input.ExternalOrderID,
				OrderNumber:     input.OrderNumber,
				Status:          "pending",
				Priority:        input.Priority,
				Source:          input.Source,
				Address:         input.Address,
				Instruction:     input.Instruction,
				DueAt:           input.DueAt,
				OrderPlacedAt:   input.OrderPlacedAt,
				CreatedAt:       input.IngestedAt,
			}
			if err := db.Create(&row).Error; err != nil {
				return false, errs.Wrap(err, "insert portal order")
			}
			return true, nil
		case err != nil:
			return false, errs.Wrap(err, "query portal order")
		}

		// Content refresh only: status and workflow timestamps stay untouched.
		if err := db.Model(&model.Order{}).
			Where("order_id = ?", existing.OrderID).
			Updates(map[string]any{
				"order_number":    input.OrderNumber,
				"address":         input.Address,
				"priority":        input.Priority,
				"instruction":     input.Instruction,
				"due_at":          input.DueAt,
				"order_placed_at": input.OrderPlacedAt,
				"source":          input.Source,
			}).Error; err != nil {
			return false, errs.Wrap(err, "update portal order")
		}
		return false, nil
	}

	if ports.TxFromContext(ctx) != nil {
		return run(ctx)
	}

	created := false
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := run(ports.WithTxContext(ctx, tx))
		if err != nil {
			return err
		}
		created = ok
		return nil
	}); err != nil {
		return false, err
	}
	return created, nil
}

func (r *OrderRepository) UpdateOrder(ctx context.Context, orderID uint64, updates map[string]any) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	if err := db.Model(&model.Order{}).
		Where("order_id = ?", orderID).
		Updates(updates).Error; err != nil {
		return errs.Wrap(err, "update order")
	}
	return nil
}

func (r *OrderRepository) UpdateOrderIfStatus(ctx context.Context, orderID uint64, expected string, updates map[string]any) (bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return false, err
	}

	result := db.Model(&model.Order{}).
		Where("order_id = ? AND status = ?", orderID, expected).
		Updates(updates)
	if result.Error != nil {
		return false, errs.Wrap(result.Error, "conditional order update")
	}
	return result.RowsAffected > 0, nil
}

func (r *OrderRepository) GetUser(ctx context.Context, userID uint64) (ports.User, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.User{}, err
	}

	var row model.User
	if err := db.Where("user_id = ?", userID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.User{}, ports.ErrUserNotFound
		}
		return ports.User{}, errs.Wrap(err, "query user")
	}
	return ports.User{UserID: row.UserID, Name: row.Name, Role: row.Role}, nil
}

func (r *OrderRepository) GetUserByName(ctx context.Context, name string) (ports.User, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.User{}, err
	}

	var row model.User
	if err := db.Where("name = ?", name).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.User{}, ports.ErrUserNotFound
		}
		return ports.User{}, errs.Wrap(err, "query user by name")
	}
	return ports.User{UserID: row.UserID, Name: row.Name, Role: row.Role}, nil
}

func (r *OrderRepository) ListUsers(ctx context.Context, role string) ([]ports.User, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.User{}).Order("user_id asc")
	if role = strings.TrimSpace(role); role != "" {
		query = query.Where("role = ?", role)
	}

	var rows []model.User
	if err := query.Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query users")
	}

	users := make([]ports.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, ports.User{UserID: row.UserID, Name: row.Name, Role: row.Role})
	}
	return users, nil
}

func (r *OrderRepository) CreateUser(ctx context.Context, user ports.User) (ports.User, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.User{}, err
	}

	row := model.User{Name: user.Name, Role: user.Role}
	if err := db.Create(&row).Error; err != nil {
		return ports.User{}, errs.Wrap(err, "insert user")
	}
	return ports.User{UserID: row.UserID, Name: row.Name, Role: row.Role}, nil
}

func (r *OrderRepository) ListAssignments(ctx context.Context, orderID uint64) ([]ports.Assignment, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Assignment
	if err := db.
		Where("order_id = ?", orderID).
		Order("assignment_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query assignments")
	}

	items := make([]ports.Assignment, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapAssignment(row))
	}
	return items, nil
}

func (r *OrderRepository) RetireCurrentAssignments(ctx context.Context, orderID uint64, role string) (int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	result := db.Model(&model.Assignment{}).
		Where("order_id = ? AND role = ? AND is_current = ?", orderID, role, true).
		Update("is_current", false)
	if result.Error != nil {
		return 0, errs.Wrap(result.Error, "retire current assignments")
	}
	return result.RowsAffected, nil
}

func (r *OrderRepository) UpdateCurrentAssignment(ctx context.Context, orderID uint64, role string, updates map[string]any) (int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	result := db.Model(&model.Assignment{}).
		Where("order_id = ? AND role = ? AND is_current = ?", orderID, role, true).
		Updates(updates)
	if result.Error != nil {
		return 0, errs.Wrap(result.Error, "update current assignment")
	}
	return result.RowsAffected, nil
}

func (r *OrderRepository) CreateAssignment(ctx context.Context, assignment ports.Assignment) (ports.Assignment, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Assignment{}, err
	}

	row := model.Assignment{
		OrderID:     assignment.OrderID,
		UserID:      assignment.UserID,
		Role:        assignment.Role,
		AssignedAt:  assignment.AssignedAt,
		StartedAt:   assignment.StartedAt,
		CompletedAt: assignment.CompletedAt,
		IsCurrent:   assignment.IsCurrent,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Assignment{}, errs.Wrap(err, "insert assignment")
	}
	return mapAssignment(row), nil
}

func (r *OrderRepository) ListStatusLogs(ctx context.Context, orderID uint64) ([]ports.StatusLog, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.StatusLog
	if err := db.
		Where("order_id = ?", orderID).
		Order("status_log_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query status logs")
	}

	items := make([]ports.StatusLog, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.StatusLog{
			StatusLogID: row.StatusLogID,
			OrderID:     row.OrderID,
			FromStatus:  row.FromStatus,
			ToStatus:    row.ToStatus,
			ActorID:     row.ActorID,
			Note:        row.Note,
			CreatedAt:   row.CreatedAt,
		})
	}
	return items, nil
}

func (r *OrderRepository) AppendStatusLog(ctx context.Context, log ports.StatusLog) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row := model.StatusLog{
		OrderID:    log.OrderID,
		FromStatus: log.FromStatus,
		ToStatus:   log.ToStatus,
		ActorID:    log.ActorID,
		Note:       log.Note,
		CreatedAt:  log.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert status log")
	}
	return nil
}

func (r *OrderRepository) ListReviews(ctx context.Context, orderID uint64) ([]ports.Review, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Review
	if err := db.
		Where("order_id = ?", orderID).
		Order("review_id desc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query reviews")
	}

	items := make([]ports.Review, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapReview(row))
	}
	return items, nil
}

func (r *OrderRepository) CreateReview(ctx context.Context, review ports.Review) (ports.Review, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Review{}, err
	}

	row := model.Review{
		OrderID:    review.OrderID,
		ReviewerID: review.ReviewerID,
		Role:       review.Role,
		Approved:   review.Approved,
		Comment:    review.Comment,
		ReviewedAt: review.ReviewedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Review{}, errs.Wrap(err, "insert review")
	}
	return mapReview(row), nil
}

func (r *OrderRepository) ListIssues(ctx context.Context, orderID uint64) ([]ports.Issue, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Issue
	if err := db.
		Where("order_id = ?", orderID).
		Order("issue_id desc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query issues")
	}
	return mapIssues(rows), nil
}

func (r *OrderRepository) ListIssuesByReview(ctx context.Context, reviewID uint64) ([]ports.Issue, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Issue
	if err := db.
		Where("review_id = ?", reviewID).
		Order("issue_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query issues by review")
	}
	return mapIssues(rows), nil
}

func (r *OrderRepository) CreateIssue(ctx context.Context, issue ports.Issue) (ports.Issue, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Issue{}, err
	}

	row := model.Issue{
		OrderID:     issue.OrderID,
		ReviewID:    issue.ReviewID,
		Severity:    issue.Severity,
		Description: issue.Description,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Issue{}, errs.Wrap(err, "insert issue")
	}
	return ports.Issue{
		IssueID:     row.IssueID,
		OrderID:     row.OrderID,
		ReviewID:    row.ReviewID,
		Severity:    row.Severity,
		Description: row.Description,
	}, nil
}

func (r *OrderRepository) ListChecklistTemplates(ctx context.Context, role string) ([]ports.ChecklistTemplate, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.ChecklistTemplate{}).Order("position asc, template_id asc")
	if role = strings.TrimSpace(role); role != "" {
		query = query.Where("role = ?", role)
	}

	var rows []model.ChecklistTemplate
	if err := query.Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query checklist templates")
	}

	items := make([]ports.ChecklistTemplate, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.ChecklistTemplate{
			TemplateID: row.TemplateID,
			Role:       row.Role,
			Title:      row.Title,
			Position:   row.Position,
		})
	}
	return items, nil
}

func (r *OrderRepository) CreateChecklistTemplate(ctx context.Context, template ports.ChecklistTemplate) (ports.ChecklistTemplate, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.ChecklistTemplate{}, err
	}

	row := model.ChecklistTemplate{
		Role:     template.Role,
		Title:    template.Title,
		Position: template.Position,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.ChecklistTemplate{}, errs.Wrap(err, "insert checklist template")
	}
	return ports.ChecklistTemplate{
		TemplateID: row.TemplateID,
		Role:       row.Role,
		Title:      row.Title,
		Position:   row.Position,
	}, nil
}

func (r *OrderRepository) CreateChecklistItems(ctx context.Context, orderID uint64, templates []ports.ChecklistTemplate) error {
	if len(templates) == 0 {
		return nil
	}

	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	rows := make([]model.ChecklistItem, 0, len(templates))
	for _, template := range templates {
		rows = append(rows, model.ChecklistItem{
			OrderID:    orderID,
			TemplateID: template.TemplateID,
		})
	}
	if err := db.Create(&rows).Error; err != nil {
		return errs.Wrap(err, "insert checklist items")
	}
	return nil
}

func (r *OrderRepository) ListChecklistItems(ctx context.Context, orderID uint64) ([]ports.ChecklistItem, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		model.ChecklistItem
		Title string
	}
	if err := db.Model(&model.ChecklistItem{}).
		Select("checklist_items.*, checklist_templates.title as title").
		Joins("LEFT JOIN checklist_templates ON checklist_templates.template_id = checklist_items.template_id").
		Where("checklist_items.order_id = ?", orderID).
		Order("checklist_items.item_id asc").
		Scan(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query checklist items")
	}

	items := make([]ports.ChecklistItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.ChecklistItem{
			ItemID:     row.ItemID,
			OrderID:    row.OrderID,
			TemplateID: row.TemplateID,
			Title:      row.Title,
			Checked:    row.Checked,
			CheckedAt:  row.CheckedAt,
			CheckedBy:  row.CheckedBy,
		})
	}
	return items, nil
}

func (r *OrderRepository) GetChecklistItem(ctx context.Context, itemID uint64) (ports.ChecklistItem, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.ChecklistItem{}, err
	}

	var row model.ChecklistItem
	if err := db.Where("item_id = ?", itemID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ChecklistItem{}, ports.ErrChecklistItemNotFound
		}
		return ports.ChecklistItem{}, errs.Wrap(err, "query checklist item")
	}
	return ports.ChecklistItem{
		ItemID:     row.ItemID,
		OrderID:    row.OrderID,
		TemplateID: row.TemplateID,
		Checked:    row.Checked,
		CheckedAt:  row.CheckedAt,
		CheckedBy:  row.CheckedBy,
	}, nil
}

func (r *OrderRepository) CountUncheckedItems(ctx context.Context, orderID uint64) (int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.Model(&model.ChecklistItem{}).
		Where("order_id = ? AND checked = ?", orderID, false).
		Count(&count).Error; err != nil {
		return 0, errs.Wrap(err, "count unchecked items")
	}
	return count, nil
}

func (r *OrderRepository) SetChecklistItem(ctx context.Context, itemID uint64, checked bool, checkedAt *string, checkedBy *uint64) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	if err := db.Model(&model.ChecklistItem{}).
		Where("item_id = ?", itemID).
		Updates(map[string]any{
			"checked":    checked,
			"checked_at": checkedAt,
			"checked_by": checkedBy,
		}).Error; err != nil {
		return errs.Wrap(err, "update checklist item")
	}
	return nil
}

func mapOrder(row model.Order) ports.Order {
	return ports.Order{
		OrderID:            row.OrderID,
		ExternalOrderID:    row.ExternalOrderID,
		OrderNumber:        row.OrderNumber,
		Status:             row.Status,
		Priority:           row.Priority,
		Source:             row.Source,
		Address:            row.Address,
		Instruction:        row.Instruction,
		DueAt:              row.DueAt,
		OrderPlacedAt:      row.OrderPlacedAt,
		AssignedAt:         row.AssignedAt,
		DrawerStartedAt:    row.DrawerStartedAt,
		DrawerCompletedAt:  row.DrawerCompletedAt,
		CheckerStartedAt:   row.CheckerStartedAt,
		CheckerCompletedAt: row.CheckerCompletedAt,
		QaStartedAt:        row.QaStartedAt,
		QaCompletedAt:      row.QaCompletedAt,
		CreatedAt:          row.CreatedAt,
	}
}

func mapAssignment(row model.Assignment) ports.Assignment {
	return ports.Assignment{
		AssignmentID: row.AssignmentID,
		OrderID:      row.OrderID,
		UserID:       row.UserID,
		Role:         row.Role,
		AssignedAt:   row.AssignedAt,
		StartedAt:    row.StartedAt,
		CompletedAt:  row.CompletedAt,
		IsCurrent:    row.IsCurrent,
	}
}

func mapReview(row model.Review) ports.Review {
	return ports.Review{
		ReviewID:   row.ReviewID,
		OrderID:    row.OrderID,
		ReviewerID: row.ReviewerID,
		Role:       row.Role,
		Approved:   row.Approved,
		Comment:    row.Comment,
		ReviewedAt: row.ReviewedAt,
	}
}

func mapIssues(rows []model.Issue) []ports.Issue {
	items := make([]ports.Issue, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.Issue{
			IssueID:     row.IssueID,
			OrderID:     row.OrderID,
			ReviewID:    row.ReviewID,
			Severity:    row.Severity,
			Description: row.Description,
		})
	}
	return items
}
