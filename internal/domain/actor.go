package domain

// ActorClass is the kind of account a token was issued to.
type ActorClass string

const (
	ActorAdmin    ActorClass = "admin"
	ActorCompany  ActorClass = "company"
	ActorEmployee ActorClass = "employee"
)

func (c ActorClass) Valid() bool {
	switch c {
	case ActorAdmin, ActorCompany, ActorEmployee:
		return true
	default:
		return false
	}
}

// Profile is the public identity returned by the profile and login endpoints.
type Profile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role,omitempty"`
	Status      string `json:"status,omitempty"`
	Department  string `json:"department,omitempty"`
	Designation string `json:"designation,omitempty"`
	CompanyID   string `json:"company_id,omitempty"`
}
