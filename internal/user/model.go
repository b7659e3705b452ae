package user

import (
	"time"

	"github.com/MikeMC777/agromercado/internal/catalog"
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

func (r Role) Valid() bool { return r == RoleBuyer || r == RoleSeller }

type Address struct {
	HouseNo  string `json:"houseNo,omitempty"`
	Street   string `json:"street,omitempty"`
	Village  string `json:"village"`
	Pincode  string `json:"pincode"`
	Mandal   string `json:"mandal"`
	District string `json:"district"`
	State    string `json:"state"`
}

type Profile struct {
	ProfilePhoto string  `json:"profilePhoto,omitempty"`
	Gender       string  `json:"gender,omitempty"`
	PanCard      string  `json:"panCard,omitempty"`
	BankAccount  string  `json:"bankAccount,omitempty"`
	BusinessName string  `json:"businessName,omitempty"`
	GSTNumber    string  `json:"gstNumber,omitempty"`
	Address      Address `json:"address"`
}

// User is an account. Password holds a bcrypt hash; records imported from the
// browser may still carry plaintext until the next successful login.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Mobile    string    `json:"mobile"`
	Password  string    `json:"password"`
	Role      Role      `json:"userType"`
	Profile   *Profile  `json:"profile,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasAddress reports whether the user can receive deliveries.
func (u *User) HasAddress() bool {
	return u.Profile != nil && u.Profile.Address.Village != "" && u.Profile.Address.Pincode != ""
}

// Address returns the delivery address, or an empty one carrying only the
// default state.
func (u *User) Address() Address {
	if u.Profile == nil {
		return Address{State: catalog.DefaultState}
	}
	return u.Profile.Address
}
