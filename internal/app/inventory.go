package app

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"dealerhub/internal/util"
	"dealerhub/internal/validate"
	"dealerhub/pkg/domain"
)

// ListClassifications returns all classifications.
func (a *App) ListClassifications() ([]domain.Classification, error) {
	items, err := a.store.ListClassifications()
	if err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}
	return items, nil
}

// AddClassification creates a classification from a validated name.
func (a *App) AddClassification(name string) (domain.Classification, error) {
	c := domain.Classification{
		ID:        util.NewID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.store.CreateClassification(c); err != nil {
		return domain.Classification{}, fmt.Errorf("create classification: %w", err)
	}
	return c, nil
}

// VehiclesByClassification returns the vehicles in a classification.
func (a *App) VehiclesByClassification(classificationID string) ([]domain.Vehicle, error) {
	if _, ok, err := a.store.GetClassification(classificationID); err != nil {
		return nil, fmt.Errorf("load classification: %w", err)
	} else if !ok {
		return nil, ErrClassificationNotFound
	}
	items, err := a.store.ListVehiclesByClassification(classificationID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return items, nil
}

// VehicleDetail returns a vehicle and, when a photo is stored, a pre-signed
// URL for it.
func (a *App) VehicleDetail(ctx context.Context, id string) (domain.Vehicle, string, error) {
	vehicle, ok, err := a.store.GetVehicle(id)
	if err != nil {
		return domain.Vehicle{}, "", fmt.Errorf("load vehicle: %w", err)
	}
	if !ok {
		return domain.Vehicle{}, "", ErrVehicleNotFound
	}
	var photoURL string
	if vehicle.PhotoKey != "" && a.photos != nil {
		photoURL, err = a.photos.PresignGet(ctx, vehicle.PhotoKey, a.photoURLTTL)
		if err != nil {
			return domain.Vehicle{}, "", fmt.Errorf("presign photo: %w", err)
		}
	}
	return vehicle, photoURL, nil
}

// AddVehicle creates a vehicle listing from validated input.
func (a *App) AddVehicle(in validate.VehicleInput) (domain.Vehicle, error) {
	if _, ok, err := a.store.GetClassification(in.ClassificationID); err != nil {
		return domain.Vehicle{}, fmt.Errorf("load classification: %w", err)
	} else if !ok {
		return domain.Vehicle{}, ErrClassificationNotFound
	}
	now := time.Now().UTC()
	vehicle := domain.Vehicle{
		ID:               util.NewID(),
		ClassificationID: in.ClassificationID,
		Make:             in.Make,
		Model:            in.Model,
		Year:             in.Year,
		Description:      in.Description,
		Price:            in.Price,
		Miles:            in.Miles,
		Color:            in.Color,
		Features:         in.Features,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := a.store.SaveVehicle(vehicle); err != nil {
		return domain.Vehicle{}, fmt.Errorf("save vehicle: %w", err)
	}
	return vehicle, nil
}

// UpdateVehicle replaces a vehicle's listed fields, keeping its identity,
// photo, and creation time.
func (a *App) UpdateVehicle(id string, in validate.VehicleInput) (domain.Vehicle, error) {
	current, ok, err := a.store.GetVehicle(id)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("load vehicle: %w", err)
	}
	if !ok {
		return domain.Vehicle{}, ErrVehicleNotFound
	}
	if _, ok, err := a.store.GetClassification(in.ClassificationID); err != nil {
		return domain.Vehicle{}, fmt.Errorf("load classification: %w", err)
	} else if !ok {
		return domain.Vehicle{}, ErrClassificationNotFound
	}
	current.ClassificationID = in.ClassificationID
	current.Make = in.Make
	current.Model = in.Model
	current.Year = in.Year
	current.Description = in.Description
	current.Price = in.Price
	current.Miles = in.Miles
	current.Color = in.Color
	current.Features = in.Features
	current.UpdatedAt = time.Now().UTC()
	if err := a.store.SaveVehicle(current); err != nil {
		return domain.Vehicle{}, fmt.Errorf("save vehicle: %w", err)
	}
	return current, nil
}

// DeleteVehicle removes a vehicle listing and its inquiries.
func (a *App) DeleteVehicle(id string) error {
	deleted, err := a.store.DeleteVehicle(id)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if !deleted {
		return ErrVehicleNotFound
	}
	return nil
}

// AttachVehiclePhoto uploads a vehicle photo and records its storage key.
func (a *App) AttachVehiclePhoto(ctx context.Context, id, filename string, r io.Reader, size int64, contentType string) (string, error) {
	if a.photos == nil {
		return "", ErrPhotoNotStored
	}
	if _, ok, err := a.store.GetVehicle(id); err != nil {
		return "", fmt.Errorf("load vehicle: %w", err)
	} else if !ok {
		return "", ErrVehicleNotFound
	}
	key := "vehicles/" + id + path.Ext(filename)
	if err := a.photos.Put(ctx, key, r, size, contentType); err != nil {
		return "", fmt.Errorf("store photo: %w", err)
	}
	if _, err := a.store.SetVehiclePhotoKey(id, key); err != nil {
		return "", fmt.Errorf("record photo key: %w", err)
	}
	return key, nil
}
