package utils

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorContextRoundTrip(t *testing.T) {
	shopID := "shop-9"
	ctx := WithActor(context.Background(), "acc-1", "x@y.z", []string{RoleBuyer, RoleSeller}, &shopID)

	id, ok := GetActorIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "acc-1", id)

	sid, ok := GetActorShopFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "shop-9", sid)

	assert.True(t, ActorHasRole(ctx, RoleSeller))
	assert.False(t, ActorHasRole(ctx, RoleAdmin))
}

func TestActorContextMissing(t *testing.T) {
	ctx := context.Background()

	_, ok := GetActorIDFromContext(ctx)
	assert.False(t, ok)

	_, ok = GetActorShopFromContext(ctx)
	assert.False(t, ok)
}

func TestGenerateOrderCode(t *testing.T) {
	code := GenerateOrderCode()

	assert.True(t, strings.HasPrefix(code, "ORD-"))
	assert.Equal(t, code, strings.ToUpper(code))
	assert.Len(t, strings.Split(code, "-"), 3)

	// Codes should not collide in a small sample.
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[GenerateOrderCode()] = true
	}
	assert.Greater(t, len(seen), 45)
}

func TestParseIntOr(t *testing.T) {
	assert.Equal(t, 7, ParseIntOr("7", 1))
	assert.Equal(t, 1, ParseIntOr("", 1))
	assert.Equal(t, 1, ParseIntOr("abc", 1))
}
