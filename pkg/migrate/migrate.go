package migrate

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/agropazar/agropazar-backend/pkg/enums"
)

// Run applies the schema for every model and seeds the lookup tables.
// Production schema is owned by an external migration pipeline; this exists
// for dev bootstrap and test databases.
func Run(ctx context.Context, conn *gorm.DB) error {
	err := conn.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Farm{},
		&models.Company{},
		&models.Certificate{},
		&models.Product{},
		&models.Application{},
		&models.Document{},
		&models.DocumentType{},
		&models.Notification{},
		&models.NotificationType{},
		&models.Offer{},
		&models.Order{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrating schema: %w", err)
	}
	return SeedLookups(ctx, conn)
}

// SeedLookups upserts the notification-type and document-type rows the
// workflow depends on. Safe to run repeatedly.
func SeedLookups(ctx context.Context, conn *gorm.DB) error {
	notificationTypes := []models.NotificationType{
		{Code: enums.NotificationCodeSystem.String(), Name: "Sistem"},
		{Code: enums.NotificationCodeApplication.String(), Name: "Başvuru"},
		{Code: enums.NotificationCodeMissingDocument.String(), Name: "Eksik Belge"},
		{Code: enums.NotificationCodeDocumentReview.String(), Name: "Belge İnceleme"},
		{Code: enums.NotificationCodeOffer.String(), Name: "Teklif"},
		{Code: enums.NotificationCodeOrder.String(), Name: "Sipariş"},
	}
	for _, nt := range notificationTypes {
		row := nt
		err := conn.WithContext(ctx).
			Where(models.NotificationType{Code: row.Code}).
			FirstOrCreate(&row).Error
		if err != nil {
			return fmt.Errorf("seeding notification type %q: %w", nt.Code, err)
		}
	}

	documentTypes := []models.DocumentType{
		{Code: "tapu", Name: "Tapu / Kira Sözleşmesi", Mandatory: true},
		{Code: "ciftci_belgesi", Name: "Çiftçi Kayıt Belgesi", Mandatory: true},
		{Code: "vergi_levhasi", Name: "Vergi Levhası", Mandatory: true},
		{Code: "analiz_raporu", Name: "Ürün Analiz Raporu", Mandatory: false},
		{Code: "organik_sertifika", Name: "Organik Tarım Sertifikası", Mandatory: false},
	}
	for _, dt := range documentTypes {
		row := dt
		err := conn.WithContext(ctx).
			Where(models.DocumentType{Code: row.Code}).
			FirstOrCreate(&row).Error
		if err != nil {
			return fmt.Errorf("seeding document type %q: %w", dt.Code, err)
		}
	}
	return nil
}
