package enums

// NotificationCode identifies a row of the notification-type lookup table.
// Unrecognized codes resolve to NotificationCodeSystem at dispatch time.
type NotificationCode string

const (
	NotificationCodeSystem           NotificationCode = "sistem"
	NotificationCodeApplication      NotificationCode = "basvuru"
	NotificationCodeMissingDocument  NotificationCode = "eksik_belge"
	NotificationCodeDocumentReview   NotificationCode = "belge_inceleme"
	NotificationCodeOffer            NotificationCode = "teklif"
	NotificationCodeOrder            NotificationCode = "siparis"
)

var validNotificationCodes = []NotificationCode{
	NotificationCodeSystem,
	NotificationCodeApplication,
	NotificationCodeMissingDocument,
	NotificationCodeDocumentReview,
	NotificationCodeOffer,
	NotificationCodeOrder,
}

// String implements fmt.Stringer.
func (c NotificationCode) String() string {
	return string(c)
}

// IsValid reports whether the value matches a seeded lookup code.
func (c NotificationCode) IsValid() bool {
	for _, candidate := range validNotificationCodes {
		if candidate == c {
			return true
		}
	}
	return false
}
