package speciality

// Speciality is an active entry of the "especialidades" option list with its
// optional display group.
type Speciality struct {
	ListID    string  `json:"list_id"`
	OptionID  string  `json:"option_id"`
	Title     *string `json:"title"`
	GroupID   *int64  `json:"grupo"`
	GroupName *string `json:"nombre_grupo"`
}

// Offering is a bookable appointment category (prestación) that belongs to a
// speciality.
type Offering struct {
	CategoryID   int64   `json:"pc_catid"`
	Name         *string `json:"pc_catname"`
	Description  *string `json:"pc_catdesc"`
	Duration     int64   `json:"pc_duration"`
	CategoryType string  `json:"pc_cattype"`
	Active       int64   `json:"pc_active"`
	SpecialityID *int64  `json:"pc_especialidad"`
}
