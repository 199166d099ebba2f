// Package policy implements the ownership guard: the authorization rule
// binding every project and task to the user who created it.
package policy

// Ownable is implemented by resources that have a single owning user.
type Ownable interface {
	GetUserID() uint
}

// OwnershipPolicy decides whether a user may act on a resource.
// The only rule in this system: the creator owns the resource.
type OwnershipPolicy struct{}

// NewOwnershipPolicy creates a new ownership policy.
func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

// Can reports whether userID may read or mutate resource.
// A nil resource means a list/create action, which is always allowed:
// listing is scoped in the query itself and creation stamps the owner.
func (p *OwnershipPolicy) Can(userID uint, resource any) bool {
	if resource == nil {
		return true
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		// Resources without an owner accessor are denied by default so a
		// missing GetUserID cannot silently open cross-user access.
		return false
	}
	return ownable.GetUserID() == userID
}
