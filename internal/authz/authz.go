package authz

import "gateway/internal/api"

// Roles a user can hold against a merchant.
const (
	RoleAdmin = "admin"
	RoleView  = "view"
	RoleRead  = "read"
)

// Binding asserts a principal's relationship to one merchant.
type Binding struct {
	MerchantID   string `json:"merchantId"`
	MerchantName string `json:"merchantName,omitempty"`
	Roles        string `json:"roles"`
}

// Eval checks that bindings contain the target merchant and, when roles are
// given, that the binding's role is one of them. Linear scan, first match
// wins; binding lists are bounded by a user's merchant memberships so there
// is nothing to optimize.
//
// Denial is always UserNotAuthenticatedError: "no binding" and "wrong role"
// are deliberately indistinguishable to the caller.
func Eval(bindings []Binding, targetMerchantID string, roles ...string) error {
	for _, b := range bindings {
		if b.MerchantID != targetMerchantID {
			continue
		}
		if len(roles) == 0 {
			return nil
		}
		for _, r := range roles {
			if b.Roles == r {
				return nil
			}
		}
		return api.NotAuthenticated("insufficient role for merchant")
	}
	return api.NotAuthenticated("user is not linked to merchant")
}
