package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "course-portal/internal/domain/registration"
	interfaces "course-portal/internal/interfaces/infrastructure"
	"course-portal/pkg/logger"
)

const (
	DefaultIdempotencyTTL = 24 * time.Hour
)

var ErrIdempotencyKeyReused = errors.New("idempotency key already used with different request data")

type IdempotencyService struct {
	idempotencyRepo interfaces.IdempotencyRepository
	ttl             time.Duration
}

func NewIdempotencyService(idempotencyRepo interfaces.IdempotencyRepository) *IdempotencyService {
	return &IdempotencyService{
		idempotencyRepo: idempotencyRepo,
		ttl:             DefaultIdempotencyTTL,
	}
}

// CheckDuplicateRequest returns the stored entry when key was already used for
// the same student and request. An empty key disables the check.
func (s *IdempotencyService) CheckDuplicateRequest(ctx context.Context, key string, studentID string, requestData any) (*domain.IdempotencyKey, bool, error) {
	if key == "" {
		return nil, false, nil
	}

	existingKey, err := s.idempotencyRepo.GetByKey(ctx, key)
	if err != nil {
		logger.Error("Failed to check idempotency key: %v", err)
		return nil, false, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	if existingKey == nil {
		return nil, false, nil
	}

	if existingKey.IsExpired() {
		if err := s.idempotencyRepo.Delete(ctx, key); err != nil {
			logger.Warn("Failed to delete expired idempotency key %s: %v", key, err)
		}
		return nil, false, nil
	}

	if existingKey.RequestHash != s.generateRequestHash(studentID, requestData) {
		logger.Warn("Idempotency key %s used with different request data", key)
		return nil, false, ErrIdempotencyKeyReused
	}

	logger.Info("Duplicate request detected for idempotency key: %s", key)
	return existingKey, true, nil
}

func (s *IdempotencyService) StoreProcessedRequest(ctx context.Context, key string, studentID string, requestData any, responseData any, statusCode int) error {
	if key == "" {
		return nil
	}

	responseJSON, err := json.Marshal(responseData)
	if err != nil {
		return fmt.Errorf("failed to marshal response data: %w", err)
	}

	now := time.Now()
	idempotencyKey := &domain.IdempotencyKey{
		Key:          key,
		StudentID:    studentID,
		RequestHash:  s.generateRequestHash(studentID, requestData),
		ResponseData: string(responseJSON),
		StatusCode:   statusCode,
		ProcessedAt:  now,
		ExpiresAt:    now.Add(s.ttl),
		CreatedAt:    now,
	}

	if err := s.idempotencyRepo.Create(ctx, idempotencyKey); err != nil {
		logger.Error("Failed to store idempotency key %s: %v", key, err)
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}
	return nil
}

func (s *IdempotencyService) generateRequestHash(studentID string, requestData any) string {
	data := map[string]any{
		"student_id":   studentID,
		"request_data": requestData,
	}

	jsonData, _ := json.Marshal(data)
	hash := sha256.Sum256(jsonData)
	return hex.EncodeToString(hash[:])
}
