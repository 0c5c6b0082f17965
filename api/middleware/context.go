package middleware

import "context"

type actorKey struct{}

// Actor is the authenticated caller. VendorID is the token subject and scopes
// every inventory write.
type Actor struct {
	VendorID string
	Role     string
}

// ActorFromContext returns the caller stored by Auth, or the zero Actor.
func ActorFromContext(ctx context.Context) Actor {
	if ctx == nil {
		return Actor{}
	}
	actor, _ := ctx.Value(actorKey{}).(Actor)
	return actor
}

// WithActor stores the caller on ctx.
func WithActor(ctx context.Context, actor Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorKey{}, actor)
}

// VendorIDFromContext returns the authenticated subject id, empty when absent.
func VendorIDFromContext(ctx context.Context) string {
	return ActorFromContext(ctx).VendorID
}

func RoleFromContext(ctx context.Context) string {
	return ActorFromContext(ctx).Role
}

// WithVendorID sets the vendor on the stored actor, keeping its role.
func WithVendorID(ctx context.Context, vendorID string) context.Context {
	actor := ActorFromContext(ctx)
	actor.VendorID = vendorID
	return WithActor(ctx, actor)
}

// WithRole sets the role on the stored actor, keeping its vendor.
func WithRole(ctx context.Context, role string) context.Context {
	actor := ActorFromContext(ctx)
	actor.Role = role
	return WithActor(ctx, actor)
}
