package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/denisok6893-rgb/city-matching/internal/domain"
)

// Memory is a process-local LRU of aggregate records with a TTL.
type Memory struct {
	lru *expirable.LRU[string, *domain.AggregateRecord]
}

// NewMemory creates an LRU holding up to size records; ttl <= 0 disables
// expiry.
func NewMemory(size int, ttl time.Duration) *Memory {
	if size <= 0 {
		size = len(domain.Catalog)
	}
	return &Memory{lru: expirable.NewLRU[string, *domain.AggregateRecord](size, nil, ttl)}
}

func (m *Memory) Get(_ context.Context, city string) (*domain.AggregateRecord, bool) {
	return m.lru.Get(city)
}

func (m *Memory) Set(_ context.Context, city string, rec *domain.AggregateRecord) {
	m.lru.Add(city, rec)
}

func (m *Memory) Len() int { return m.lru.Len() }
