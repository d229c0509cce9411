package partition

// Role disambiguates multiple contributions of one node during a visit.
// A function declaration, for example, contributes separately as modifiers,
// its own name, its parameter list, its return type, and its body.
type Role uint8

const (
	RoleItself Role = iota
	RoleModifiers
	RoleName
	RoleParams
	RoleReturnType
	RoleBody
	RoleCtorParams
	RoleParentApply
	RoleMembers
)

func (r Role) String() string {
	switch r {
	case RoleItself:
		return "itself"
	case RoleModifiers:
		return "modifiers"
	case RoleName:
		return "name"
	case RoleParams:
		return "params"
	case RoleReturnType:
		return "return-type"
	case RoleBody:
		return "body"
	case RoleCtorParams:
		return "ctor-params"
	case RoleParentApply:
		return "parent-apply"
	case RoleMembers:
		return "members"
	}
	return "unknown"
}
