package notifications_test

import (
	"context"
	"testing"

	"github.com/agropazar/agropazar-backend/internal/notifications"
	"github.com/agropazar/agropazar-backend/internal/users"
	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/migrate"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (notifications.Service, *gorm.DB) {
	t.Helper()
	dsn := "file:notifications_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrate.Run(context.Background(), conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := notifications.NewService(notifications.NewRepository(conn), users.NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func seedUser(t *testing.T, conn *gorm.DB, role enums.UserRole, status enums.UserStatus) uuid.UUID {
	t.Helper()
	user := models.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		Status:       status,
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user.ID
}

func TestNotifyUnknownCategoryFallsBackToSystem(t *testing.T) {
	svc, conn := newTestService(t)
	userID := seedUser(t, conn, enums.UserRoleFarmer, enums.UserStatusActive)

	err := svc.Notify(context.Background(), notifications.NotifyInput{
		UserID:       userID,
		CategoryCode: enums.NotificationCode("bilinmeyen_kategori"),
		Title:        "Duyuru",
		Message:      "İçerik",
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}

	var row models.Notification
	if err := conn.First(&row, "user_id = ?", userID).Error; err != nil {
		t.Fatalf("load notification: %v", err)
	}
	var nt models.NotificationType
	if err := conn.First(&nt, "id = ?", row.TypeID).Error; err != nil {
		t.Fatalf("load type: %v", err)
	}
	if nt.Code != enums.NotificationCodeSystem.String() {
		t.Fatalf("expected fallback type %q got %q", enums.NotificationCodeSystem, nt.Code)
	}
}

func TestNotifyRequiresTitleAndMessage(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Notify(context.Background(), notifications.NotifyInput{UserID: uuid.New(), Title: "Başlık"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNotifyRoleSkipsInactiveUsers(t *testing.T) {
	svc, conn := newTestService(t)
	active := seedUser(t, conn, enums.UserRoleAuthority, enums.UserStatusActive)
	suspended := seedUser(t, conn, enums.UserRoleAuthority, enums.UserStatusSuspended)
	farmer := seedUser(t, conn, enums.UserRoleFarmer, enums.UserStatusActive)

	err := svc.NotifyRole(context.Background(), enums.UserRoleAuthority, notifications.NotifyInput{
		CategoryCode: enums.NotificationCodeDocumentReview,
		Title:        "Belge güncellendi",
		Message:      "Yeni belge var",
	})
	if err != nil {
		t.Fatalf("notify role: %v", err)
	}

	counts := map[uuid.UUID]int64{}
	for _, id := range []uuid.UUID{active, suspended, farmer} {
		var count int64
		if err := conn.Model(&models.Notification{}).Where("user_id = ?", id).Count(&count).Error; err != nil {
			t.Fatalf("count: %v", err)
		}
		counts[id] = count
	}
	if counts[active] != 1 {
		t.Fatalf("expected active admin to be notified, got %d", counts[active])
	}
	if counts[suspended] != 0 || counts[farmer] != 0 {
		t.Fatalf("expected no fan-out beyond active admins, got suspended=%d farmer=%d", counts[suspended], counts[farmer])
	}
}

func TestUnreadCountAndMarkAllRead(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	userID := seedUser(t, conn, enums.UserRoleFarmer, enums.UserStatusActive)

	for i := 0; i < 3; i++ {
		err := svc.Notify(ctx, notifications.NotifyInput{
			UserID:       userID,
			CategoryCode: enums.NotificationCodeSystem,
			Title:        "Duyuru",
			Message:      "İçerik",
		})
		if err != nil {
			t.Fatalf("notify: %v", err)
		}
	}

	count, err := svc.UnreadCount(ctx, userID)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 unread got %d", count)
	}

	marked, err := svc.MarkAllRead(ctx, userID)
	if err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	if marked != 3 {
		t.Fatalf("expected 3 marked got %d", marked)
	}

	// Second sweep finds nothing left to mark.
	marked, err = svc.MarkAllRead(ctx, userID)
	if err != nil {
		t.Fatalf("mark all read again: %v", err)
	}
	if marked != 0 {
		t.Fatalf("expected idempotent second sweep, got %d", marked)
	}

	count, err = svc.UnreadCount(ctx, userID)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 unread got %d", count)
	}
}

func TestMarkReadScopedToOwner(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := seedUser(t, conn, enums.UserRoleFarmer, enums.UserStatusActive)
	other := seedUser(t, conn, enums.UserRoleFarmer, enums.UserStatusActive)

	err := svc.Notify(ctx, notifications.NotifyInput{
		UserID:       owner,
		CategoryCode: enums.NotificationCodeSystem,
		Title:        "Duyuru",
		Message:      "İçerik",
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	var row models.Notification
	if err := conn.First(&row, "user_id = ?", owner).Error; err != nil {
		t.Fatalf("load notification: %v", err)
	}

	err = svc.MarkRead(ctx, other, row.ID)
	if err == nil {
		t.Fatal("expected foreign user to get not found")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := svc.MarkRead(ctx, owner, row.ID); err != nil {
		t.Fatalf("owner mark read: %v", err)
	}
	if err := svc.MarkRead(ctx, owner, row.ID); err != nil {
		t.Fatalf("re-marking a read notification should succeed: %v", err)
	}
}

func TestDeleteScopedToOwner(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := seedUser(t, conn, enums.UserRoleFarmer, enums.UserStatusActive)
	other := seedUser(t, conn, enums.UserRoleFarmer, enums.UserStatusActive)

	err := svc.Notify(ctx, notifications.NotifyInput{
		UserID:       owner,
		CategoryCode: enums.NotificationCodeSystem,
		Title:        "Duyuru",
		Message:      "İçerik",
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	var row models.Notification
	if err := conn.First(&row, "user_id = ?", owner).Error; err != nil {
		t.Fatalf("load notification: %v", err)
	}

	err = svc.Delete(ctx, other, row.ID)
	if err == nil {
		t.Fatal("expected foreign delete to fail")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := svc.Delete(ctx, owner, row.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}

func TestListPaginatesNewestFirst(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	userID := seedUser(t, conn, enums.UserRoleFarmer, enums.UserStatusActive)

	for i := 0; i < 5; i++ {
		err := svc.Notify(ctx, notifications.NotifyInput{
			UserID:       userID,
			CategoryCode: enums.NotificationCodeSystem,
			Title:        "Duyuru",
			Message:      "İçerik",
		})
		if err != nil {
			t.Fatalf("notify: %v", err)
		}
	}

	first, err := svc.List(ctx, notifications.ListParams{UserID: userID, Limit: 3})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first.Items) != 3 {
		t.Fatalf("expected 3 items got %d", len(first.Items))
	}
	if first.Cursor == "" {
		t.Fatal("expected a next cursor")
	}

	second, err := svc.List(ctx, notifications.ListParams{UserID: userID, Limit: 3, Cursor: first.Cursor})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(second.Items) != 2 {
		t.Fatalf("expected 2 items got %d", len(second.Items))
	}
	if second.Cursor != "" {
		t.Fatalf("expected exhausted cursor, got %q", second.Cursor)
	}

	seen := map[uuid.UUID]bool{}
	for _, item := range append(first.Items, second.Items...) {
		if seen[item.ID] {
			t.Fatalf("notification %s returned twice", item.ID)
		}
		seen[item.ID] = true
	}
}
