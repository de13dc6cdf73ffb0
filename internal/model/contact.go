// internal/model/contact.go
package model

type Contact struct {
	ID        int    `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	Phone     string `db:"phone" json:"phone"`
	Address   string `db:"address" json:"address"`
	Favourite bool   `db:"favourite" json:"favourite"`
}

// ContactInput is the body of a create or full replace request.
type ContactInput struct {
	Name      string `json:"name" validate:"required,notblank"`
	Email     string `json:"email" validate:"required,contact_email"`
	Phone     string `json:"phone" validate:"required,contact_phone"`
	Address   string `json:"address"`
	Favourite bool   `json:"favourite"`
}

// ContactPatch carries a partial update; nil fields are left unchanged.
type ContactPatch struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	Favourite *bool   `json:"favourite,omitempty"`
}

// ToContact builds a record with the given id from the input fields.
func (in ContactInput) ToContact(id int) Contact {
	return Contact{
		ID:        id,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		Favourite: in.Favourite,
	}
}

// Input returns the mutable fields of c.
func (c Contact) Input() ContactInput {
	return ContactInput{
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Favourite: c.Favourite,
	}
}

// Apply returns a copy of c with the non-nil patch fields applied.
func (p ContactPatch) Apply(c Contact) Contact {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Favourite != nil {
		c.Favourite = *p.Favourite
	}
	return c
}
