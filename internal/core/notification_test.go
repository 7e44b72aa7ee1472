package core

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tekashi/storefront/internal/api/request"
	"github.com/tekashi/storefront/internal/model"
)

func TestNotificationService_Create_Defaults(t *testing.T) {
	db := &mockDB{}
	svc := NewNotificationService(db)

	db.On("Exec", mock.Anything, sqlContains("INSERT INTO notifications"), mock.Anything).Return(tag("INSERT 0 1"), nil)

	n := &model.Notification{UserID: "u1", Title: "Hi", Message: "Welcome"}
	require.NoError(t, svc.Create(context.Background(), n))
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, model.NotificationInfo, n.Kind)
	assert.Equal(t, model.CategoryOther, n.Category)
	assert.Equal(t, 3, n.Priority)
	assert.False(t, n.CreatedAt.IsZero())
}

func TestNotificationService_BulkCreate(t *testing.T) {
	db := &mockDB{}
	svc := NewNotificationService(db)
	ctx := context.Background()

	var groups []*string
	db.On("Exec", ctx, sqlContains("INSERT INTO notifications"), mock.Anything).
		Run(func(args mock.Arguments) {
			params := args.Get(2).([]any)
			groups = append(groups, params[10].(*string))
		}).
		Return(tag("INSERT 0 1"), nil).Times(3)

	groupID, n, err := svc.BulkCreate(ctx, []string{"u1", "u2", "u3"},
		model.Notification{Title: "Sale", Message: "50% off", Kind: model.NotificationPromotion, Priority: 5})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NotEmpty(t, groupID)
	require.Len(t, groups, 3)
	for _, g := range groups {
		assert.Equal(t, groupID, *g)
	}
	assert.True(t, db.tx.committed)
	db.AssertExpectations(t)
}

func TestNotificationService_BulkCreate_NoRecipients(t *testing.T) {
	svc := NewNotificationService(&mockDB{})

	_, _, err := svc.BulkCreate(context.Background(), nil, model.Notification{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNotificationService_List_FiltersAndOrder(t *testing.T) {
	db := &mockDB{}
	svc := NewNotificationService(db)
	ctx := context.Background()

	db.On("Query", ctx,
		sqlContains("WHERE user_id = $1 AND (expires_at IS NULL OR expires_at > now()) AND NOT read AND kind = $2"),
		[]any{"u1", model.NotificationOffer, 21, 0}).
		Return(newEmptyMockRows(), nil)

	_, _, err := svc.List(ctx, "u1", NotificationFilter{UnreadOnly: true, Kind: model.NotificationOffer},
		request.ListParams{Limit: 20})
	require.NoError(t, err)

	sql := db.Calls[0].Arguments.String(1)
	assert.Contains(t, sql, "ORDER BY priority DESC, created_at DESC, id LIMIT $3 OFFSET $4")
	db.AssertExpectations(t)
}

func TestNotificationService_Stats(t *testing.T) {
	db := &mockDB{}
	svc := NewNotificationService(db)

	db.On("Query", mock.Anything, sqlContains("GROUP BY kind"), []any{"u1"}).Return(valueRows(
		[]any{model.NotificationInfo, 4, 1},
		[]any{model.NotificationOffer, 2, 2},
	), nil)

	st, err := svc.Stats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 6, st.Total)
	assert.Equal(t, 3, st.Unread)
	assert.Equal(t, 3, st.Read)
	assert.Equal(t, map[string]int{model.NotificationInfo: 4, model.NotificationOffer: 2}, st.ByKind)
}

func TestNotificationService_MarkRead_NotFound(t *testing.T) {
	db := &mockDB{}
	svc := NewNotificationService(db)

	db.On("Exec", mock.Anything, sqlContains("SET read = true"), []any{"n1", "u1"}).Return(tag("UPDATE 0"), nil)

	assert.ErrorIs(t, svc.MarkRead(context.Background(), "u1", "n1"), ErrNotFound)
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	db := &mockDB{}
	svc := NewNotificationService(db)

	db.On("Exec", mock.Anything, sqlContains("NOT read"), []any{"u1"}).Return(tag("UPDATE 4"), nil)

	n, err := svc.MarkAllRead(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestNotificationService_Click_NotFound(t *testing.T) {
	db := &mockDB{}
	svc := NewNotificationService(db)

	db.On("QueryRow", mock.Anything, sqlContains("clicks = clicks + 1"), mock.Anything).Return(errRow(pgx.ErrNoRows))

	_, err := svc.Click(context.Background(), "u1", "n1")
	assert.ErrorIs(t, err, ErrNotFound)
}
