package types

import (
	"database/sql/driver"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringArray is a tag-list column. It maps to a native text[] on postgres
// and falls back to a flat text column on the sqlite test databases, with
// pq handling the array encoding in both cases.
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	return pq.StringArray(a).Value()
}

func (a *StringArray) Scan(src any) error {
	return (*pq.StringArray)(a).Scan(src)
}

func (StringArray) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}
