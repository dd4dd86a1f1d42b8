package model

import "time"

// MaxGalleryImages caps the number of images attached to one product
const MaxGalleryImages = 10

// ProductImage is one entry in a product's ordered gallery.
// OrderColumn is a dense 1..N ranking unique within the product's gallery.
type ProductImage struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ProductID   uint      `json:"product_id" gorm:"index;not null"`
	FileName    string    `json:"file_name" gorm:"type:varchar(255);not null"`
	FilePath    string    `json:"file_path" gorm:"type:varchar(512);not null"`
	MimeType    string    `json:"mime_type" gorm:"type:varchar(100);not null"`
	SizeBytes   int64     `json:"size_bytes"`
	OrderColumn int       `json:"order_column" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
