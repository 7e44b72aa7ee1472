package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tekashi/storefront/internal/api/request"
	"github.com/tekashi/storefront/internal/model"
	"github.com/tekashi/storefront/internal/platform"
)

const notificationColumns = `id, user_id, title, message, kind, read, read_at, action_url, action_text,
	priority, expires_at, category, group_id, clicks, last_clicked_at, created_at`

const notExpired = `(expires_at IS NULL OR expires_at > now())`

// NotificationFilter narrows notification listings.
type NotificationFilter struct {
	UnreadOnly bool
	Kind       string
	Category   string
}

type NotificationService struct {
	db DB
}

func NewNotificationService(db DB) *NotificationService {
	return &NotificationService{db: db}
}

func scanNotification(row scanner, n *model.Notification) error {
	return row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Kind, &n.Read, &n.ReadAt,
		&n.ActionURL, &n.ActionText, &n.Priority, &n.ExpiresAt, &n.Category, &n.GroupID,
		&n.Clicks, &n.LastClickedAt, &n.CreatedAt)
}

func normalizeNotification(n *model.Notification) {
	if n.ID == "" {
		n.ID = platform.NewID()
	}
	if n.Kind == "" {
		n.Kind = model.NotificationInfo
	}
	if n.Category == "" {
		n.Category = model.CategoryOther
	}
	n.Priority = normalizePriority(n.Priority)
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
}

const insertNotification = `INSERT INTO notifications (id, user_id, title, message, kind, read,
	action_url, action_text, priority, expires_at, category, group_id, clicks, created_at)
	VALUES ($1, $2, $3, $4, $5, false, $6, $7, $8, $9, $10, $11, 0, $12)`

func (s *NotificationService) Create(ctx context.Context, n *model.Notification) error {
	normalizeNotification(n)
	_, err := s.db.Exec(ctx, insertNotification,
		n.ID, n.UserID, n.Title, n.Message, n.Kind, n.ActionURL, n.ActionText, n.Priority,
		n.ExpiresAt, n.Category, n.GroupID, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// BulkCreate sends a copy of tmpl to every user, all sharing one group id.
func (s *NotificationService) BulkCreate(ctx context.Context, userIDs []string, tmpl model.Notification) (string, int, error) {
	if len(userIDs) == 0 {
		return "", 0, fmt.Errorf("no recipients: %w", ErrInvalidInput)
	}
	groupID := platform.NewID()
	tmpl.GroupID = &groupID

	err := inTx(ctx, s.db, func(tx pgx.Tx) error {
		for _, uid := range userIDs {
			n := tmpl
			n.ID = ""
			n.UserID = uid
			normalizeNotification(&n)
			if _, err := tx.Exec(ctx, insertNotification,
				n.ID, n.UserID, n.Title, n.Message, n.Kind, n.ActionURL, n.ActionText, n.Priority,
				n.ExpiresAt, n.Category, n.GroupID, n.CreatedAt); err != nil {
				return fmt.Errorf("create notification for %s: %w", uid, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", 0, err
	}
	return groupID, len(userIDs), nil
}

// List returns the unexpired notifications of a user, highest priority first.
func (s *NotificationService) List(ctx context.Context, userID string, nf NotificationFilter, params request.ListParams) ([]model.Notification, bool, error) {
	var f filter
	f.add(`user_id = ?`, userID)
	f.addRaw(notExpired)
	if nf.UnreadOnly {
		f.addRaw(`NOT read`)
	}
	if nf.Kind != "" {
		f.add(`kind = ?`, nf.Kind)
	}
	if nf.Category != "" {
		f.add(`category = ?`, nf.Category)
	}
	f.args = append(f.args, params.Limit+1, cursorOffset(params.Cursor))
	query := fmt.Sprintf(`SELECT %s FROM notifications%s
		ORDER BY priority DESC, created_at DESC, id LIMIT $%d OFFSET $%d`,
		notificationColumns, f.where(), len(f.args)-1, len(f.args))

	rows, err := s.db.Query(ctx, query, f.args...)
	if err != nil {
		return nil, false, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var items []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := scanNotification(rows, &n); err != nil {
			return nil, false, fmt.Errorf("scan notification: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate notifications: %w", err)
	}

	items, hasMore := trimPage(items, params.Limit)
	return items, hasMore, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1 AND NOT read AND `+notExpired, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// Stats summarises the notifications of a user, or of every user when
// userID is empty.
func (s *NotificationService) Stats(ctx context.Context, userID string) (*model.NotificationStats, error) {
	var f filter
	if userID != "" {
		f.add(`user_id = ?`, userID)
	}
	rows, err := s.db.Query(ctx,
		`SELECT kind, count(*), count(*) FILTER (WHERE NOT read) FROM notifications`+f.where()+` GROUP BY kind`,
		f.args...)
	if err != nil {
		return nil, fmt.Errorf("notification stats: %w", err)
	}
	defer rows.Close()

	st := &model.NotificationStats{ByKind: map[string]int{}}
	for rows.Next() {
		var kind string
		var total, unread int
		if err := rows.Scan(&kind, &total, &unread); err != nil {
			return nil, fmt.Errorf("scan notification stats: %w", err)
		}
		st.ByKind[kind] = total
		st.Total += total
		st.Unread += unread
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification stats: %w", err)
	}
	st.Read = st.Total - st.Unread
	return st, nil
}

func (s *NotificationService) Get(ctx context.Context, userID, id string) (*model.Notification, error) {
	var n model.Notification
	err := scanNotification(s.db.QueryRow(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1 AND user_id = $2`, id, userID), &n)
	if err != nil {
		return nil, notFound(err, "get notification %s", id)
	}
	return &n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE notifications SET read = true, read_at = COALESCE(read_at, now())
		 WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification %s read: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	return nil
}

// MarkAllRead marks every unread notification of a user and returns how
// many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE notifications SET read = true, read_at = now() WHERE user_id = $1 AND NOT read`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Click records a click on the notification action and marks it read.
func (s *NotificationService) Click(ctx context.Context, userID, id string) (*model.Notification, error) {
	var n model.Notification
	err := scanNotification(s.db.QueryRow(ctx,
		`UPDATE notifications SET clicks = clicks + 1, last_clicked_at = now(), read = true,
		 read_at = COALESCE(read_at, now())
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+notificationColumns, id, userID), &n)
	if err != nil {
		return nil, notFound(err, "click notification %s", id)
	}
	return &n, nil
}

func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete notification %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *NotificationService) DeleteAll(ctx context.Context, userID string) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}
