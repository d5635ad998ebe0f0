package dto

import (
	"ntf/internal/domain"
	"ntf/internal/model"
)

type CreateNotificationRequest struct {
	Message *string `json:"message" binding:"required"`
}

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type StatusResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ServiceStatus struct {
	Status string `json:"status"`
}

// NotificationResult is the reply of the single-resource routes. Exactly one
// of Notification and Error is set.
type NotificationResult struct {
	Notification *model.Notification `json:"notification,omitempty"`
	Error        *ResourceError      `json:"error,omitempty"`
}

type ResourceError struct {
	NotFound *NotFound `json:"not_found,omitempty"`
}

type NotFound struct {
	ID uint64 `json:"id"`
}

// CreateNotificationResult is the reply of POST /notifications. Exactly one
// of Notification and Error is set.
type CreateNotificationResult struct {
	Notification *model.Notification      `json:"notification,omitempty"`
	Error        *CreateNotificationError `json:"error,omitempty"`
}

type CreateNotificationError struct {
	PayloadError *string `json:"payload_error,omitempty"`
}

func NotificationOK(notification model.Notification) NotificationResult {
	return NotificationResult{Notification: &notification}
}

func NotificationNotFound(id uint64) NotificationResult {
	return NotificationResult{Error: &ResourceError{NotFound: &NotFound{ID: id}}}
}

func CreateOK(notification model.Notification) CreateNotificationResult {
	return CreateNotificationResult{Notification: &notification}
}

func CreatePayloadError(detail string) CreateNotificationResult {
	return CreateNotificationResult{Error: &CreateNotificationError{PayloadError: &detail}}
}

// Err returns the error variant as a Go error, or nil for a success.
func (r NotificationResult) Err() error {
	if r.Error != nil && r.Error.NotFound != nil {
		return &domain.NotFoundError{ID: r.Error.NotFound.ID}
	}
	return nil
}
