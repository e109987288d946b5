package checkers

import (
	"context"
	"time"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// StorageChecker verifies the object-storage bucket is reachable.
type StorageChecker struct {
	storage pinger
}

func NewStorageChecker(storage pinger) *StorageChecker {
	return &StorageChecker{storage: storage}
}

func (c *StorageChecker) Name() string { return "object-storage" }

func (c *StorageChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.storage.Ping(ctx)
}
