package utils

import "context"

type ctxKey string

const (
	ActorIDKey    ctxKey = "actor_id"
	ActorEmailKey ctxKey = "actor_email"
	ActorRolesKey ctxKey = "actor_roles"
	ActorShopKey  ctxKey = "actor_shop_id"
)

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

func WithActor(ctx context.Context, accountID, email string, roles []string, shopID *string) context.Context {
	ctx = context.WithValue(ctx, ActorIDKey, accountID)
	ctx = context.WithValue(ctx, ActorEmailKey, email)
	ctx = context.WithValue(ctx, ActorRolesKey, roles)
	if shopID != nil {
		ctx = context.WithValue(ctx, ActorShopKey, *shopID)
	}
	return ctx
}

func GetActorIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ActorIDKey).(string)
	return id, ok && id != ""
}

func GetActorRolesFromContext(ctx context.Context) []string {
	roles, _ := ctx.Value(ActorRolesKey).([]string)
	return roles
}

func GetActorShopFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ActorShopKey).(string)
	return id, ok && id != ""
}

func ActorHasRole(ctx context.Context, role string) bool {
	for _, r := range GetActorRolesFromContext(ctx) {
		if r == role {
			return true
		}
	}
	return false
}
