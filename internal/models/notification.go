// Tasty Creative - Admin Dashboard and Notification Gateway
// Copyright 2026 rfldln
// SPDX-License-Identifier: MIT
// https://github.com/rfldln/Tasty-Creative-Web-sub002

// Package models defines the wire-level types shared by the HTTP handlers
// and the notification channel.
package models

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Notification is the record fanned out to connected clients. It is built
// fresh per broadcast, immutable once constructed, and never persisted.
//
// On the wire the envelope is flat: Attributes are merged into the top-level
// JSON object next to "message" and "timestamp". The reserved keys always win
// over attribute keys of the same name, so a caller cannot overwrite the
// message or the server-assigned timestamp.
//
//	{"message":"hi","timestamp":"2026-08-28T12:00:00Z","priority":"high"}
type Notification struct {
	Message    string
	Timestamp  time.Time
	Attributes map[string]interface{}
}

// reserved keys the flat envelope never lets attributes overwrite.
const (
	notificationKeyMessage   = "message"
	notificationKeyTimestamp = "timestamp"
)

// NewNotification builds a notification stamped with the current UTC time.
// The attributes map is copied so later caller mutation cannot leak in.
func NewNotification(message string, attributes map[string]interface{}) *Notification {
	var attrs map[string]interface{}
	if len(attributes) > 0 {
		attrs = make(map[string]interface{}, len(attributes))
		for k, v := range attributes {
			attrs[k] = v
		}
	}
	return &Notification{
		Message:    message,
		Timestamp:  time.Now().UTC(),
		Attributes: attrs,
	}
}

// MarshalJSON flattens the envelope: attributes at the top level, reserved
// keys taking precedence over same-named attributes.
func (n *Notification) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(n.Attributes)+2)
	for k, v := range n.Attributes {
		flat[k] = v
	}
	flat[notificationKeyMessage] = n.Message
	flat[notificationKeyTimestamp] = n.Timestamp.UTC().Format(time.RFC3339)
	return json.Marshal(flat)
}

// UnmarshalJSON rebuilds the typed envelope from the flat wire form.
func (n *Notification) UnmarshalJSON(data []byte) error {
	var flat map[string]interface{}
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	msg, _ := flat[notificationKeyMessage].(string)
	n.Message = msg

	if raw, ok := flat[notificationKeyTimestamp].(string); ok {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("invalid notification timestamp %q: %w", raw, err)
		}
		n.Timestamp = ts
	}

	delete(flat, notificationKeyMessage)
	delete(flat, notificationKeyTimestamp)
	if len(flat) > 0 {
		n.Attributes = flat
	} else {
		n.Attributes = nil
	}
	return nil
}

// NotifyRequest is the body accepted by the notification broadcast endpoint.
type NotifyRequest struct {
	Message string                 `json:"message" validate:"required"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// NotifyResponse is the success envelope of the broadcast endpoint.
type NotifyResponse struct {
	Success      bool          `json:"success"`
	Notification *Notification `json:"notification"`
}

// ErrorResponse is the JSON error envelope returned by API endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
