package patient

import "time"

// Patient is a patient_data row in the shape clients expect. Column aliases
// follow the legacy field names (paterno, materno, comuna_id, ...).
type Patient struct {
	ID              int64   `json:"id"`
	RUT             *string `json:"rut"`
	FirstName       *string `json:"nombre"`
	PaternalName    *string `json:"paterno"`
	MaternalName    *string `json:"materno"`
	Address         *string `json:"direccion"`
	Sex             *string `json:"sexo"`
	BirthDate       *string `json:"fecha_nacimiento"`
	HealthInsurance *string `json:"prevision"`
	CellPhone       *string `json:"celular"`
	HomePhone       *string `json:"telefono_casa"`
	Email           *string `json:"email"`
	CommuneID       *string `json:"comuna_id"`
	RegionID        *string `json:"region_id"`
	CountryCode     *string `json:"country_code"`
	Occupation      *string `json:"occupation"`
	Passport        *string `json:"passport"`
}

// Criteria filters a patient search. Zero values are ignored.
type Criteria struct {
	RUT       string
	FirstName string
	LastName  string
	BirthDate *time.Time
	Email     string
	Phone     string
}

// IsEmpty reports whether no filter is set.
func (c Criteria) IsEmpty() bool {
	return c.RUT == "" && c.FirstName == "" && c.LastName == "" &&
		c.BirthDate == nil && c.Email == "" && c.Phone == ""
}
