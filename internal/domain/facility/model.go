package facility

// Facility is an active clinic branch.
type Facility struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Phone   *string `json:"phone"`
	Fax     *string `json:"fax"`
	Street  *string `json:"street"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	Website *string `json:"website"`
	Email   *string `json:"email"`
}
