package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Car is a catalog entry. Corrections are delete+recreate.
type Car struct {
	ID          int64          `gorm:"primaryKey;autoIncrement"`
	Country     string         `gorm:"not null;index"`
	Description string         `gorm:"not null"`
	PhotoIDs    datatypes.JSON `gorm:"column:photo_ids;not null"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
}

func (Car) TableName() string { return "cars" }

// NewCar собирает запись каталога, сохраняя порядок фотографий.
func NewCar(country, description string, photoIDs []string) (Car, error) {
	raw, err := json.Marshal(photoIDs)
	if err != nil {
		return Car{}, fmt.Errorf("models: encode photo ids: %w", err)
	}
	return Car{Country: country, Description: description, PhotoIDs: datatypes.JSON(raw)}, nil
}

// Photos декодирует список file_id фотографий.
func (c Car) Photos() []string {
	if len(c.PhotoIDs) == 0 {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(c.PhotoIDs, &ids); err != nil {
		return nil
	}
	return ids
}
