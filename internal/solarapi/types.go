package solarapi

// LoginRequest is the credential payload for POST /api/auth/login.
// ExpectedDashboard carries the visitor's pre-login dashboard pick so the
// backend can reject a login against the wrong station up front.
type LoginRequest struct {
	Username          string `json:"username"`
	Password          string `json:"password"`
	ExpectedDashboard string `json:"expectedDashboard,omitempty"`
}

// LoginResponse is the backend's successful login payload.
type LoginResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	Dashboard string `json:"dashboard"`
}

// User is one entry of the admin list-users payload.
type User struct {
	Username          string `json:"username"`
	AssignedDashboard string `json:"assignedDashboard"`
}

// CreateUserRequest is the payload for POST /api/auth/create-user.
type CreateUserRequest struct {
	Username          string `json:"username"`
	Password          string `json:"password"`
	AssignedDashboard string `json:"assignedDashboard"`
}

// MessageResponse is the generic `{message}` payload several endpoints return.
type MessageResponse struct {
	Message string `json:"message"`
}

// Station is one entry of GET /api/stations. OpeningDate is an ISO timestamp
// or null when the station's opening date has not been set.
type Station struct {
	Key         string  `json:"key"`
	OpeningDate *string `json:"openingDate"`
}

// SetOpeningDateRequest is the payload for PATCH /api/stations/{key}/opening-date.
// A nil OpeningDate deletes the stored date.
type SetOpeningDateRequest struct {
	OpeningDate *string `json:"openingDate"`
}

// KPI is the backend's KPI payload for one station and one day.
// Power figures are kWh, income is THB, CO2 is tons.
type KPI struct {
	Date            string  `json:"date,omitempty"`
	DayPower        float64 `json:"day_power"`
	MonthPower      float64 `json:"month_power"`
	TotalPower      float64 `json:"total_power"`
	DayIncome       float64 `json:"day_income"`
	TotalIncome     float64 `json:"total_income"`
	EquivalentTrees float64 `json:"equivalent_trees"`
	CO2Avoided      float64 `json:"co2_avoided"`
	DayUseEnergy    float64 `json:"day_use_energy,omitempty"`
	DayOnGridEnergy float64 `json:"day_on_grid_energy,omitempty"`
}
