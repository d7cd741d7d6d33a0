package db

import (
	"context"
	"errors"
	"fmt"

	"tanukibot/internal/models"
)

// ErrNoPhotos - автомобиль без фотографий не сохраняется.
var ErrNoPhotos = errors.New("db: car has no photos")

// AddCar добавляет автомобиль в подборку.
func (s *Store) AddCar(ctx context.Context, country, description string, photoIDs []string) (models.Car, error) {
	db, err := s.conn()
	if err != nil {
		return models.Car{}, err
	}
	if len(photoIDs) == 0 {
		return models.Car{}, ErrNoPhotos
	}
	car, err := models.NewCar(country, description, photoIDs)
	if err != nil {
		return models.Car{}, err
	}
	if err := db.WithContext(ctx).Create(&car).Error; err != nil {
		return models.Car{}, fmt.Errorf("add car: %w", err)
	}
	return car, nil
}

// GetCar возвращает ErrNotFound, если автомобиля нет.
func (s *Store) GetCar(ctx context.Context, id int64) (models.Car, error) {
	db, err := s.conn()
	if err != nil {
		return models.Car{}, err
	}
	var car models.Car
	if err := db.WithContext(ctx).First(&car, id).Error; err != nil {
		return models.Car{}, wrapNotFound(err)
	}
	return car, nil
}

// ListCarsByCountry - автомобили страны в порядке добавления.
func (s *Store) ListCarsByCountry(ctx context.Context, country string) ([]models.Car, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var cars []models.Car
	if err := db.WithContext(ctx).Where("country = ?", country).Order("id").Find(&cars).Error; err != nil {
		return nil, fmt.Errorf("list cars %s: %w", country, err)
	}
	return cars, nil
}

// DeleteCar возвращает false, если записи не было.
func (s *Store) DeleteCar(ctx context.Context, id int64) (bool, error) {
	db, err := s.conn()
	if err != nil {
		return false, err
	}
	res := db.WithContext(ctx).Delete(&models.Car{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete car %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
