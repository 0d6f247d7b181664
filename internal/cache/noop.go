package cache

import "time"

// Noop — кеш-заглушка для демо-режима: никогда не находит и ничего не хранит.
type Noop struct{}

// Get всегда сообщает об отсутствии значения.
func (Noop) Get(_ string, _ any) (bool, error) { return false, nil }

// Set ничего не делает.
func (Noop) Set(_ string, _ any, _ time.Duration) error { return nil }

// Invalidate ничего не делает.
func (Noop) Invalidate(_ string) error { return nil }
