package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
)

// TenantLock serializes ledger posting per tenant. The lock lives outside any
// database transaction; the caller must Release it on every exit path.
func TenantLock(ctx context.Context, locker *redislock.Client, tenantId string, lockType string) (*redislock.Lock, error) {
	if locker == nil {
		return nil, errors.New("redis lock client is nil")
	}
	lockKey := fmt.Sprintf("%s:%s", lockType, tenantId)
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		return nil, fmt.Errorf("could not obtain %s lock for tenant %s", lockType, tenantId)
	} else if err != nil {
		return nil, err
	}
	return lock, nil
}

// CouponHold reserves a coupon code while a sale is being finalized so two
// concurrent checkouts cannot both redeem it. Held for the sale duration,
// released by the coordinator as a compensating action even when the
// surrounding transaction already rolled back.
func CouponHold(ctx context.Context, locker *redislock.Client, tenantId string, couponCode string) (*redislock.Lock, error) {
	if locker == nil {
		return nil, errors.New("redis lock client is nil")
	}
	lockKey := fmt.Sprintf("couponHold:%s:%s", tenantId, couponCode)
	lock, err := locker.Obtain(ctx, lockKey, time.Minute, nil)
	if err == redislock.ErrNotObtained {
		return nil, fmt.Errorf("coupon %s is being redeemed by another sale", couponCode)
	} else if err != nil {
		return nil, err
	}
	return lock, nil
}
